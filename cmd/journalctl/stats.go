package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/uAvicii/0718/internal/adapter/postgres"
	memoryrepo "github.com/uAvicii/0718/internal/adapter/postgres/memory"
	"github.com/uAvicii/0718/internal/domain"
)

func newStatsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print storage-side statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}

			pool, err := postgres.NewPool(cmd.Context(), e.cfg.Database)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer pool.Close()

			stats, err := memoryrepo.New(pool).Stats(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return printStatsJSON(cmd.OutOrStdout(), stats)
			}
			return printStats(cmd.OutOrStdout(), stats)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func printStats(w io.Writer, s *domain.StorageStats) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "total\t%d\n", s.Total)

	fmt.Fprintln(tw, "\nMOOD\tCOUNT")
	for _, m := range sortedMoods(s.Moods) {
		fmt.Fprintf(tw, "%s\t%d\n", m, s.Moods[m])
	}

	fmt.Fprintln(tw, "\nMONTH\tCOUNT")
	for _, mc := range s.Months {
		fmt.Fprintf(tw, "%s\t%d\n", mc.Month, mc.Count)
	}
	return tw.Flush()
}

func printStatsJSON(w io.Writer, s *domain.StorageStats) error {
	type month struct {
		Month string `json:"month"`
		Count int    `json:"count"`
	}
	moods := make(map[string]int, len(s.Moods))
	for m, n := range s.Moods {
		moods[m.String()] = n
	}
	months := make([]month, 0, len(s.Months))
	for _, mc := range s.Months {
		months = append(months, month{Month: mc.Month, Count: mc.Count})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Total  int            `json:"total"`
		Moods  map[string]int `json:"moods"`
		Months []month        `json:"months"`
	}{s.Total, moods, months})
}

func sortedMoods(m map[domain.Mood]int) []domain.Mood {
	out := make([]domain.Mood, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
