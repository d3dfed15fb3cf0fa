package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/uAvicii/0718/internal/adapter/postgres"
	"github.com/uAvicii/0718/internal/app"
	"github.com/uAvicii/0718/internal/app/seeder"
)

func newSeedCmd() *cobra.Command {
	var (
		file string
		opts seeder.Options
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a memories fixture (default: the bundled sample collection)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}

			f, err := app.LoadFixture(file)
			if err != nil {
				return err
			}

			if opts.DryRun {
				s := seeder.New(e.logger, nil, nil, nil)
				err := s.Run(cmd.Context(), f, opts)
				printResults(cmd.OutOrStdout(), s.Results(), true)
				return err
			}

			pool, err := postgres.NewPool(cmd.Context(), e.cfg.Database)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer pool.Close()

			s, err := app.Seed(cmd.Context(), e.logger, pool, f, opts)
			printResults(cmd.OutOrStdout(), s.Results(), false)
			return err
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "fixture YAML file")
	cmd.Flags().BoolVar(&opts.Replace, "replace", false, "delete every stored memory first")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "validate the fixture without writing")
	return cmd
}

func printResults(w io.Writer, results map[string]seeder.PhaseResult, dryRun bool) {
	phases := make([]string, 0, len(results))
	for p := range results {
		phases = append(phases, p)
	}
	sort.Strings(phases)

	for _, p := range phases {
		r := results[p]
		switch {
		case r.Err != nil:
			fmt.Fprintf(w, "%-9s failed: %v\n", p, r.Err)
		case dryRun:
			fmt.Fprintf(w, "%-9s would write %d\n", p, r.Skipped)
		default:
			fmt.Fprintf(w, "%-9s inserted=%d updated=%d deleted=%d\n", p, r.Inserted, r.Updated, r.Deleted)
		}
	}
}
