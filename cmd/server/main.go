// Command server runs the memories HTTP API.
//
// Configuration is read from CONFIG_PATH (default ./config.yaml) and the
// environment; see config.example.yaml.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/uAvicii/0718/internal/app"
)

func main() {
	if err := app.Run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
