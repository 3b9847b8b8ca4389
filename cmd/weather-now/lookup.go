package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ngmaloney/weather-now/internal/resolver"
	"github.com/ngmaloney/weather-now/internal/ui"
)

func newLookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <city>",
		Short: "Print the current weather for a city and exit",
		Example: `  weather-now lookup London
  weather-now lookup New York`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeApp, err := newApp(cfg, io.Discard)
			if err != nil {
				return err
			}
			defer closeApp()

			return lookup(cmd.Context(), a.resolver, strings.Join(args, " "), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

type cityResolver interface {
	Resolve(ctx context.Context, raw string) (*resolver.Result, error)
}

// lookup resolves once and prints the card, or the user-facing error message
func lookup(ctx context.Context, r cityResolver, city string, out, errOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := r.Resolve(ctx, city)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %s\n", resolver.Message(err))
		return fmt.Errorf("%w: %w", errReported, err)
	}

	fmt.Fprint(out, ui.PlainCard(result))
	return nil
}
