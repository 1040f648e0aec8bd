package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ytget/yt-desktop/internal/history"
)

func newHistoryCmd(ctx context.Context, ro *RootOpts, version string) *cobra.Command {
	var (
		limit int
		clear bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List finished downloads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(ro)
			if err != nil {
				return err
			}
			if !cfg.History {
				return errHistoryDisabled
			}
			// Only the database is needed; no engine is built
			store, err := history.Open(cfg.DataDir)
			if err != nil {
				return err
			}
			defer store.Close()

			if clear {
				n, err := store.Clear(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("Removed %d entries\n", n)
				return nil
			}

			entries, err := store.List(ctx, limit)
			if err != nil {
				return err
			}
			if ro.JSONOut {
				return printJSON(os.Stdout, entries)
			}
			if len(entries) == 0 {
				fmt.Println("No downloads recorded yet.")
				return nil
			}
			for _, e := range entries {
				fmt.Printf("%-14s %-8s %-6s %s\n", humanize.Time(e.FinishedAt), e.Kind, e.Status, e.Title)
				switch {
				case e.Error != "":
					fmt.Printf("%14s %s\n", "", e.Error)
				case e.Filename != "":
					fmt.Printf("%14s %s\n", "", e.Filename)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultLimit, "Maximum number of entries")
	cmd.Flags().BoolVar(&clear, "clear", false, "Delete all entries")

	return cmd
}

// errHistoryDisabled is returned when history is switched off in config
var errHistoryDisabled = errors.New("download history is disabled in config")
