package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ngmaloney/weather-now/internal/config"
	"github.com/ngmaloney/weather-now/internal/ui"
)

var (
	configFile string
	cfg        *config.Config
)

// errReported marks failures whose message has already been printed
var errReported = errors.New("already reported")

func main() {
	os.Exit(execute(newRootCmd(), os.Stderr))
}

// execute runs root and prints any failure once, returning the exit status
func execute(root *cobra.Command, errOut io.Writer) int {
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(errOut, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var city string

	root := &cobra.Command{
		Use:           "weather-now",
		Short:         "Current weather for any city, powered by Open-Meteo",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env if present; real environment variables win
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("loading .env: %w", err)
			}

			var err error
			cfg, err = config.Load(configFile)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(city)
		},
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "Path to a config file (default: ./config.yaml if present)")
	root.Flags().StringVar(&city, "city", "", "Pre-fill the search box with a city name (e.g., London)")

	root.AddCommand(newLookupCmd(), newServeCmd(), newHistoryCmd())

	return root
}

// runTUI starts the interactive search. Logs go to the configured file only,
// since the terminal belongs to the UI.
func runTUI(city string) error {
	a, closeApp, err := newApp(cfg, io.Discard)
	if err != nil {
		return err
	}
	defer closeApp()

	opts := []ui.Option{ui.WithInitialCity(strings.TrimSpace(city))}
	if a.history != nil {
		opts = append(opts, ui.WithHistory(a.history, cfg.History.Limit))
	}

	p := tea.NewProgram(ui.NewModel(a.resolver, opts...), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running application: %w", err)
	}
	return nil
}
