package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"

	"github.com/ytget/yt-desktop/internal/bridge"
	"github.com/ytget/yt-desktop/internal/model"
	"github.com/ytget/yt-desktop/internal/progress"
)

// pollInterval matches the desktop window's refresh rate
const pollInterval = 500 * time.Millisecond

// barScale keeps the one-decimal precision of the percent field
const barScale = 10

const barTemplate = `{{ string . "status" }} {{ bar . }} {{ percent . }} {{ string . "speed" }} {{ string . "eta" }}`

func newGetCmd(ctx context.Context, ro *RootOpts, version string) *cobra.Command {
	var (
		formatID  string
		fmtType   string
		maxHeight int
	)

	cmd := &cobra.Command{
		Use:   "get URL",
		Short: "Download a video or audio stream",
		Long: `Download a video or audio stream.

Without --format the best stream up to --height is fetched and merged with
the best audio track. Use "yt-desktop info URL" to list format ids.

Example:
  yt-desktop get https://youtu.be/dQw4w9WgXcQ
  yt-desktop get https://youtu.be/dQw4w9WgXcQ --height 720
  yt-desktop get https://youtu.be/dQw4w9WgXcQ --format 140 --type audio`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(ctx, ro, version, func(rt *Runtime) error {
				if res := rt.Bridge.FetchInfo(ctx, args[0]); res.Err != nil {
					return res.Err
				}

				var res bridge.Result[bridge.JobRef]
				if formatID != "" {
					res = rt.Bridge.DownloadFormat(formatID, fmtType)
				} else {
					res = rt.Bridge.DownloadPreset(maxHeight)
				}
				if res.Err != nil {
					return res.Err
				}
				return waitAndReport(ctx, rt.Store, ro.JSONOut)
			})
		},
	}

	cmd.Flags().StringVarP(&formatID, "format", "f", "", "Format id to download")
	cmd.Flags().StringVar(&fmtType, "type", string(model.FormatVideo), "Format type: combined, video or audio")
	cmd.Flags().IntVar(&maxHeight, "height", 1080, "Maximum height for the best-quality preset (0 for no limit)")

	return cmd
}

func newSubCmd(ctx context.Context, ro *RootOpts, version string) *cobra.Command {
	var (
		lang   string
		format string
		auto   bool
	)

	cmd := &cobra.Command{
		Use:   "sub URL",
		Short: "Download a subtitle track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(ctx, ro, version, func(rt *Runtime) error {
				if res := rt.Bridge.FetchInfo(ctx, args[0]); res.Err != nil {
					return res.Err
				}
				if res := rt.Bridge.DownloadSubtitle(lang, format, auto); res.Err != nil {
					return res.Err
				}
				return waitAndReport(ctx, rt.Store, ro.JSONOut)
			})
		},
	}

	cmd.Flags().StringVarP(&lang, "lang", "l", "en", "Subtitle language code")
	cmd.Flags().StringVar(&format, "fmt", "srt", "Subtitle format: srt or vtt")
	cmd.Flags().BoolVar(&auto, "auto", false, "Use the automatic caption track")

	return cmd
}

// waitAndReport follows the progress store until the job settles
func waitAndReport(ctx context.Context, store *progress.Store, jsonOut bool) error {
	var final model.ProgressState
	var err error
	if jsonOut {
		final, err = waitForJob(ctx, store, nil)
		if err != nil {
			return err
		}
		printJSON(os.Stdout, final)
	} else {
		bar := pb.ProgressBarTemplate(barTemplate).New(100 * barScale)
		bar.SetWriter(os.Stderr)
		bar.Start()
		final, err = waitForJob(ctx, store, func(ps model.ProgressState) {
			bar.Set("status", string(ps.Status))
			bar.Set("speed", ps.Speed)
			bar.Set("eta", ps.ETA)
			bar.SetCurrent(int64(ps.Percent * barScale))
		})
		bar.Finish()
		if err != nil {
			return err
		}
		if final.Status == model.StatusDone {
			fmt.Printf("Saved: %s\n", final.Filename)
		}
	}

	if final.Status == model.StatusError {
		return errors.New(final.Error)
	}
	return nil
}

// waitForJob polls store until it reports done or error. onUpdate, when
// set, sees every polled snapshot.
func waitForJob(ctx context.Context, store *progress.Store, onUpdate func(model.ProgressState)) (model.ProgressState, error) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		ps := store.Snapshot()
		if onUpdate != nil {
			onUpdate(ps)
		}
		if ps.Status.IsFinished() {
			return ps, nil
		}

		select {
		case <-ctx.Done():
			return ps, ctx.Err()
		case <-ticker.C:
		}
	}
}
