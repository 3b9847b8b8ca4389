package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ngmaloney/weather-now/internal/models"
)

type historyStore interface {
	ListRecent(ctx context.Context, limit int) ([]models.SearchEntry, error)
	Delete(ctx context.Context, id int64) error
	Clear(ctx context.Context) error
}

var errHistoryDisabled = errors.New("history is disabled (history.enabled=false)")

func newHistoryCmd() *cobra.Command {
	var (
		limit    int
		clearAll bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List or clear recent searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory()
			if err != nil {
				return err
			}
			if clearAll {
				if err := store.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Recent searches cleared")
				return nil
			}
			if limit <= 0 {
				limit = cfg.History.Limit
			}
			return printHistory(cmd.Context(), store, limit, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Number of entries to show (default: history.limit)")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "Remove every recent search")

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Remove one recent search by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q: %w", args[0], err)
			}
			store, err := openHistory()
			if err != nil {
				return err
			}
			return store.Delete(cmd.Context(), id)
		},
	})

	return cmd
}

func openHistory() (historyStore, error) {
	a, closeApp, err := newApp(cfg, io.Discard)
	if err != nil {
		return nil, err
	}
	// The repository opens a connection per call, nothing to keep open
	closeApp()

	if a.history == nil {
		return nil, errHistoryDisabled
	}
	return a.history, nil
}

// printHistory writes recent searches as a table, newest first
func printHistory(ctx context.Context, store historyStore, limit int, out io.Writer) error {
	entries, err := store.ListRecent(ctx, limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No recent searches")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLOCATION\tCOORDINATES\tCOUNT\tLAST SEARCHED")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%.4f, %.4f\t%d\t%s\n",
			e.ID, e.Label(), e.Latitude, e.Longitude, e.Count, e.SearchedAt.Local().Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}
