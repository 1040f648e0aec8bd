package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"
)

// ProgressInterval is how often yt-dlp progress is forwarded
const ProgressInterval = 500 * time.Millisecond

// YTDLP drives the yt-dlp executable
type YTDLP struct{}

// NewYTDLP creates the engine; with autoInstall the binary is downloaded
// into the go-ytdlp cache when it is not already present
func NewYTDLP(ctx context.Context, autoInstall bool) (*YTDLP, error) {
	if autoInstall {
		if _, err := ytdlp.Install(ctx, nil); err != nil {
			return nil, fmt.Errorf("install yt-dlp: %w", err)
		}
	}
	return &YTDLP{}, nil
}

// Name returns NameYTDLP
func (y *YTDLP) Name() string {
	return NameYTDLP
}

// Extract runs yt-dlp in metadata-only mode and decodes its JSON dump
func (y *YTDLP) Extract(ctx context.Context, url string) (*Info, error) {
	dl := ytdlp.New().
		NoWarnings().
		NoPlaylist().
		SkipDownload().
		DumpSingleJSON()

	result, err := dl.Run(ctx, url)
	if err != nil {
		return nil, err
	}
	return parseInfoJSON([]byte(result.Stdout))
}

// Download runs yt-dlp with the options derived from req
func (y *YTDLP) Download(ctx context.Context, req Request, onEvent func(Event)) (*Outcome, error) {
	dl := y.command(req)

	var lastFile, title string
	dl.ProgressFunc(ProgressInterval, func(update ytdlp.ProgressUpdate) {
		ev := eventFromUpdate(&update, time.Now())
		if ev.Filename != "" {
			lastFile = ev.Filename
		}
		if ev.Title != "" {
			title = ev.Title
		}
		if onEvent != nil {
			onEvent(ev)
		}
	})

	result, err := dl.Run(ctx, req.URL)
	if err != nil {
		return nil, err
	}

	info, err := result.GetExtractedInfo()
	if err != nil {
		log.Printf("[engine] yt-dlp printed unreadable info for %s: %v", req.URL, err)
	}
	return outcomeFrom(info, lastFile, title), nil
}

// outcomeFrom prefers the final path yt-dlp prints after post-processing over
// the last progress filename, which names a merge intermediate
func outcomeFrom(info []*ytdlp.ExtractedInfo, lastFile, title string) *Outcome {
	outcome := &Outcome{Filename: lastFile, Title: title}
	if len(info) == 0 || info[0] == nil {
		return outcome
	}
	switch {
	case info[0].Filename != nil && *info[0].Filename != "":
		outcome.Filename = *info[0].Filename
	case info[0].AltFilename != nil && *info[0].AltFilename != "":
		outcome.Filename = *info[0].AltFilename
	}
	if info[0].Title != nil && outcome.Title == "" {
		outcome.Title = *info[0].Title
	}
	return outcome
}

// command translates a Request into yt-dlp flags
func (y *YTDLP) command(req Request) *ytdlp.Command {
	dl := ytdlp.New().
		NoWarnings().
		NoPlaylist().
		Output(filepath.Join(req.OutputDir, req.Template))

	if req.Subtitles != nil {
		dl = dl.SkipDownload().
			SubLangs(req.Subtitles.Lang).
			SubFormat(req.Subtitles.Format)
		if req.Subtitles.Auto {
			dl = dl.WriteAutoSubs()
		} else {
			dl = dl.WriteSubs()
		}
		return dl
	}

	dl = dl.Format(req.Selector).PrintJSON()
	if req.MergeInto != "" {
		dl = dl.MergeOutputFormat(req.MergeInto)
	}
	return dl
}

func eventFromUpdate(update *ytdlp.ProgressUpdate, now time.Time) Event {
	downloaded := int64(update.DownloadedBytes)
	total := int64(update.TotalBytes)

	ev := Event{
		Status:          EventStatus(strings.ToLower(string(update.Status))),
		DownloadedBytes: downloaded,
		TotalBytes:      total,
		Speed:           speedSince(update.Started, downloaded, now),
		ETA:             -1,
		Filename:        update.Filename,
	}
	if eta := update.ETA(); eta > 0 {
		ev.ETA = eta
	}
	if update.Info != nil && update.Info.Title != nil {
		ev.Title = *update.Info.Title
	}
	return ev
}

// rawInfo mirrors the subset of yt-dlp's info dict we read. Numbers are
// pointers because yt-dlp emits null for unknown values.
type rawInfo struct {
	ID                string                   `json:"id"`
	Title             string                   `json:"title"`
	Uploader          string                   `json:"uploader"`
	Channel           string                   `json:"channel"`
	Duration          *float64                 `json:"duration"`
	ViewCount         *float64                 `json:"view_count"`
	Thumbnail         string                   `json:"thumbnail"`
	Formats           []rawFormat              `json:"formats"`
	Subtitles         map[string][]rawSubtitle `json:"subtitles"`
	AutomaticCaptions map[string][]rawSubtitle `json:"automatic_captions"`
}

type rawFormat struct {
	FormatID       string   `json:"format_id"`
	FormatNote     string   `json:"format_note"`
	Ext            string   `json:"ext"`
	VCodec         *string  `json:"vcodec"`
	ACodec         *string  `json:"acodec"`
	Height         *float64 `json:"height"`
	FPS            *float64 `json:"fps"`
	FileSize       *float64 `json:"filesize"`
	FileSizeApprox *float64 `json:"filesize_approx"`
	TBR            *float64 `json:"tbr"`
}

type rawSubtitle struct {
	Ext  string `json:"ext"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

func parseInfoJSON(data []byte) (*Info, error) {
	var raw rawInfo
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode yt-dlp metadata: %w", err)
	}
	if raw.ID == "" && len(raw.Formats) == 0 {
		return nil, fmt.Errorf("yt-dlp returned no video metadata")
	}

	info := &Info{
		ID:                raw.ID,
		Title:             raw.Title,
		Uploader:          raw.Uploader,
		Channel:           raw.Channel,
		Duration:          deref(raw.Duration),
		ViewCount:         int64(deref(raw.ViewCount)),
		Thumbnail:         raw.Thumbnail,
		Formats:           make([]Format, 0, len(raw.Formats)),
		Subtitles:         convertTracks(raw.Subtitles),
		AutomaticCaptions: convertTracks(raw.AutomaticCaptions),
	}

	for _, f := range raw.Formats {
		size := deref(f.FileSize)
		if size == 0 {
			size = deref(f.FileSizeApprox)
		}
		info.Formats = append(info.Formats, Format{
			FormatID:   f.FormatID,
			FormatNote: f.FormatNote,
			Ext:        f.Ext,
			VCodec:     derefString(f.VCodec),
			ACodec:     derefString(f.ACodec),
			Height:     int(deref(f.Height)),
			FPS:        deref(f.FPS),
			FileSize:   int64(size),
			TBR:        deref(f.TBR),
		})
	}

	log.Printf("[engine] yt-dlp metadata for %s: %d formats", info.ID, len(info.Formats))
	return info, nil
}

func convertTracks(in map[string][]rawSubtitle) map[string][]SubtitleTrack {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string][]SubtitleTrack, len(in))
	for lang, tracks := range in {
		converted := make([]SubtitleTrack, 0, len(tracks))
		for _, t := range tracks {
			converted = append(converted, SubtitleTrack{Ext: t.Ext, URL: t.URL, Name: t.Name})
		}
		out[lang] = converted
	}
	return out
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
