package engine

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/lrstanley/go-ytdlp"
)

func strOf(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func isSet(v *bool) bool {
	return v != nil && *v
}

func TestYTDLPCommand_Media(t *testing.T) {
	tests := []struct {
		name      string
		req       Request
		wantMerge string
	}{
		{
			name: "merged video",
			req: Request{Selector: "137+bestaudio/best", MergeInto: "mp4", OutputDir: "/tmp/out",
				Template: "%(title)s_%(height)sp.%(ext)s"},
			wantMerge: "mp4",
		},
		{
			name: "raw audio",
			req:  Request{Selector: "140", OutputDir: "/tmp/out", Template: "%(title)s_audio.%(ext)s"},
		},
		{
			name: "preset",
			req: Request{Selector: "bestvideo[height<=720]+bestaudio/best[height<=720]/best", MergeInto: "mp4",
				OutputDir: "/tmp/out", Template: "%(title)s_%(height)sp.%(ext)s"},
			wantMerge: "mp4",
		},
	}

	y := &YTDLP{}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := y.command(test.req).GetFlagConfig()

			if got := strOf(cfg.VideoFormat.Format); got != test.req.Selector {
				t.Errorf("Format = %q, expected %q", got, test.req.Selector)
			}
			if got := strOf(cfg.VideoFormat.MergeOutputFormat); got != test.wantMerge {
				t.Errorf("MergeOutputFormat = %q, expected %q", got, test.wantMerge)
			}
			if got, want := strOf(cfg.Filesystem.Output), filepath.Join(test.req.OutputDir, test.req.Template); got != want {
				t.Errorf("Output = %q, expected %q", got, want)
			}
			if !isSet(cfg.VideoSelection.NoPlaylist) {
				t.Error("Expected --no-playlist")
			}
			if !isSet(cfg.VerbositySimulation.PrintJSON) {
				t.Error("Expected --print-json so the final path is reported")
			}
			if isSet(cfg.VerbositySimulation.SkipDownload) {
				t.Error("Media download must not skip the download")
			}
			if isSet(cfg.Subtitle.WriteSubs) || isSet(cfg.Subtitle.WriteAutoSubs) {
				t.Error("Media download must not write subtitles")
			}
		})
	}
}

func TestYTDLPCommand_Subtitles(t *testing.T) {
	tests := []struct {
		name     string
		sub      SubtitleRequest
		wantAuto bool
	}{
		{name: "authored", sub: SubtitleRequest{Lang: "en", Format: "srt"}},
		{name: "auto", sub: SubtitleRequest{Lang: "de", Format: "vtt", Auto: true}, wantAuto: true},
	}

	y := &YTDLP{}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			sub := test.sub
			req := Request{OutputDir: "/tmp/out", Template: "%(title)s", Subtitles: &sub}
			cfg := y.command(req).GetFlagConfig()

			if !isSet(cfg.VerbositySimulation.SkipDownload) {
				t.Error("Expected --skip-download for subtitles")
			}
			if got := strOf(cfg.Subtitle.SubLangs); got != sub.Lang {
				t.Errorf("SubLangs = %q, expected %q", got, sub.Lang)
			}
			if got := strOf(cfg.Subtitle.SubFormat); got != sub.Format {
				t.Errorf("SubFormat = %q, expected %q", got, sub.Format)
			}
			if isSet(cfg.Subtitle.WriteAutoSubs) != test.wantAuto {
				t.Errorf("WriteAutoSubs = %v, expected %v", isSet(cfg.Subtitle.WriteAutoSubs), test.wantAuto)
			}
			if isSet(cfg.Subtitle.WriteSubs) == test.wantAuto {
				t.Errorf("WriteSubs = %v, expected %v", isSet(cfg.Subtitle.WriteSubs), !test.wantAuto)
			}
			if cfg.VideoFormat.Format != nil {
				t.Errorf("Subtitles should not set a format, got %q", *cfg.VideoFormat.Format)
			}
			if got, want := strOf(cfg.Filesystem.Output), filepath.Join("/tmp/out", "%(title)s"); got != want {
				t.Errorf("Output = %q, expected %q", got, want)
			}
		})
	}
}

func TestEventFromUpdate(t *testing.T) {
	now := time.Now()
	title := "Sample Video"

	t.Run("unknown total", func(t *testing.T) {
		update := &ytdlp.ProgressUpdate{
			Status:          ytdlp.ProgressStatus("Downloading"),
			DownloadedBytes: 2048,
			Filename:        "/tmp/out/Sample.f137.mp4",
			Started:         now.Add(-2 * time.Second),
			Info:            &ytdlp.ExtractedInfo{Title: &title},
		}
		ev := eventFromUpdate(update, now)

		if ev.Status != EventDownloading {
			t.Errorf("Status = %q, expected %q", ev.Status, EventDownloading)
		}
		if ev.TotalBytes != 0 || ev.DownloadedBytes != 2048 {
			t.Errorf("Bytes = %d/%d, expected 2048/0", ev.DownloadedBytes, ev.TotalBytes)
		}
		if ev.ETA >= 0 {
			t.Errorf("ETA = %v, expected negative for unknown total", ev.ETA)
		}
		if ev.Speed != 1024 {
			t.Errorf("Speed = %v, expected 1024", ev.Speed)
		}
		if ev.Title != title || ev.Filename != update.Filename {
			t.Errorf("Unexpected title/filename: %+v", ev)
		}
	})

	t.Run("known total", func(t *testing.T) {
		update := &ytdlp.ProgressUpdate{
			Status:          ytdlp.ProgressStatusDownloading,
			DownloadedBytes: 250,
			TotalBytes:      1000,
			Started:         now.Add(-2 * time.Second),
		}
		ev := eventFromUpdate(update, now)
		if ev.ETA <= 0 {
			t.Errorf("ETA = %v, expected positive", ev.ETA)
		}
		if ev.Title != "" {
			t.Errorf("Title = %q, expected empty without info", ev.Title)
		}
	})

	t.Run("finished", func(t *testing.T) {
		ev := eventFromUpdate(&ytdlp.ProgressUpdate{Status: ytdlp.ProgressStatusFinished, TotalBytes: 10, DownloadedBytes: 10}, now)
		if ev.Status != EventFinished {
			t.Errorf("Status = %q, expected %q", ev.Status, EventFinished)
		}
		if ev.ETA >= 0 {
			t.Errorf("ETA = %v, expected negative once complete", ev.ETA)
		}
	})
}

func TestOutcomeFrom(t *testing.T) {
	final := "/tmp/out/Sample_1080p.mp4"
	alt := "/tmp/out/Sample_alt.mp4"
	title := "Sample Video"
	partial := "/tmp/out/Sample_1080p.f137.mp4"

	tests := []struct {
		name      string
		info      []*ytdlp.ExtractedInfo
		lastTitle string
		wantFile  string
		wantTitle string
	}{
		{name: "no printed info", wantFile: partial},
		{name: "printed filename", info: []*ytdlp.ExtractedInfo{{Filename: &final, Title: &title}},
			wantFile: final, wantTitle: title},
		{name: "underscore filename", info: []*ytdlp.ExtractedInfo{{AltFilename: &alt}}, wantFile: alt},
		{name: "progress title kept", info: []*ytdlp.ExtractedInfo{{Filename: &final, Title: &title}},
			lastTitle: "From progress", wantFile: final, wantTitle: "From progress"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := outcomeFrom(test.info, partial, test.lastTitle)
			if got.Filename != test.wantFile {
				t.Errorf("Filename = %q, expected %q", got.Filename, test.wantFile)
			}
			if got.Title != test.wantTitle {
				t.Errorf("Title = %q, expected %q", got.Title, test.wantTitle)
			}
		})
	}
}
