package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ytget/yt-desktop/internal/model"
)

// withRuntime loads the config, builds a runtime, runs fn and shuts the
// runtime down again.
func withRuntime(ctx context.Context, ro *RootOpts, version string, fn func(rt *Runtime) error) error {
	cfg, err := loadConfig(ro)
	if err != nil {
		return err
	}
	rt, err := NewRuntime(ctx, cfg, RuntimeOptions{Version: version})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		rt.Close(shutdownCtx)
	}()
	return fn(rt)
}

func newInfoCmd(ctx context.Context, ro *RootOpts, version string) *cobra.Command {
	return &cobra.Command{
		Use:   "info URL",
		Short: "Show title, formats and subtitles of a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(ctx, ro, version, func(rt *Runtime) error {
				res := rt.Bridge.FetchInfo(ctx, args[0])
				if ro.JSONOut {
					return printJSON(os.Stdout, res)
				}
				if res.Err != nil {
					return res.Err
				}
				printInfo(os.Stdout, res.Value)
				return nil
			})
		},
	}
}

func printInfo(w io.Writer, info *model.VideoInfo) {
	fmt.Fprintf(w, "%s\n", info.Title)
	fmt.Fprintf(w, "  Author:   %s\n", info.Author)
	fmt.Fprintf(w, "  Duration: %s\n", info.Duration)
	if info.ViewCount > 0 {
		fmt.Fprintf(w, "  Views:    %s\n", humanize.Comma(info.ViewCount))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Formats (%d):\n", len(info.Formats))
	fmt.Fprintf(w, "  %-10s %-9s %-10s %-5s %-10s %s\n", "ID", "TYPE", "QUALITY", "EXT", "SIZE", "CODECS")
	for _, f := range info.Formats {
		codecs := strings.Trim(f.VCodec+" "+f.ACodec, " ")
		fmt.Fprintf(w, "  %-10s %-9s %-10s %-5s %-10s %s\n", f.FormatID, f.Type, f.Quality, f.Ext, f.FileSizeLabel, codecs)
	}

	if len(info.Subtitles) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Subtitles (%d):\n", len(info.Subtitles))
	for _, s := range info.Subtitles {
		fmt.Fprintf(w, "  %-8s %s\n", s.Lang, s.Name)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
