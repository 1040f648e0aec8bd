// Package engine adapts external extraction/download libraries behind one
// small interface. Two implementations exist: YTDLP drives the yt-dlp binary
// through github.com/lrstanley/go-ytdlp, Native uses the pure-Go
// github.com/ytget/ytdlp/v2 client when no binary is available.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Engine names accepted by New
const (
	NameYTDLP  = "ytdlp"
	NameNative = "native"
)

// ErrUnsupported is returned when an engine cannot honour a request
var ErrUnsupported = errors.New("operation not supported by engine")

// Extractor is the contract the resolver and dispatcher consume
type Extractor interface {
	// Name identifies the engine in logs and app info
	Name() string
	// Extract fetches metadata only; nothing is downloaded
	Extract(ctx context.Context, url string) (*Info, error)
	// Download runs one download and reports progress through onEvent.
	// onEvent may be nil.
	Download(ctx context.Context, req Request, onEvent func(Event)) (*Outcome, error)
}

// Info is raw metadata as reported by the engine, before normalization
type Info struct {
	ID                string
	Title             string
	Uploader          string
	Channel           string
	Duration          float64 // seconds
	ViewCount         int64
	Thumbnail         string
	Formats           []Format
	Subtitles         map[string][]SubtitleTrack
	AutomaticCaptions map[string][]SubtitleTrack
}

// Format is one raw stream entry. Codec fields hold "none" or "" when the
// stream lacks that track.
type Format struct {
	FormatID   string
	FormatNote string
	Ext        string
	VCodec     string
	ACodec     string
	Height     int
	FPS        float64
	FileSize   int64
	TBR        float64 // kbps
}

// SubtitleTrack is one available serialization of a subtitle language
type SubtitleTrack struct {
	Ext  string
	URL  string
	Name string
}

// Request describes one download invocation
type Request struct {
	URL       string
	Selector  string // format-selection expression, e.g. "137+bestaudio/best"
	MergeInto string // container for muxed output, "" for none
	OutputDir string
	Template  string // output template relative to OutputDir
	Subtitles *SubtitleRequest
}

// SubtitleRequest switches a Request to subtitles-only mode
type SubtitleRequest struct {
	Lang   string
	Format string // srt, vtt
	Auto   bool
}

// EventStatus tags a progress event
type EventStatus string

const (
	EventDownloading    EventStatus = "downloading"
	EventFinished       EventStatus = "finished"
	EventPostProcessing EventStatus = "post_processing"
)

// Event is one progress notification at download-chunk granularity
type Event struct {
	Status          EventStatus
	DownloadedBytes int64
	TotalBytes      int64         // 0 when unknown
	Speed           float64       // bytes per second, 0 when unknown
	ETA             time.Duration // negative when unknown
	Filename        string
	Title           string
}

// Outcome summarizes a completed download
type Outcome struct {
	Filename string
	Title    string
}

// Options configures engine construction
type Options struct {
	Name        string
	AutoInstall bool // let the ytdlp engine fetch the binary when missing
	HTTPTimeout time.Duration
}

// New builds the engine selected by opts.Name
func New(ctx context.Context, opts Options) (Extractor, error) {
	switch opts.Name {
	case "", NameYTDLP:
		return NewYTDLP(ctx, opts.AutoInstall)
	case NameNative:
		return NewNative(opts.HTTPTimeout), nil
	default:
		return nil, fmt.Errorf("unknown engine %q", opts.Name)
	}
}

// speedSince estimates transfer rate from bytes moved since start
func speedSince(started time.Time, downloaded int64, now time.Time) float64 {
	if started.IsZero() || downloaded <= 0 {
		return 0
	}
	elapsed := now.Sub(started).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(downloaded) / elapsed
}

// etaFrom estimates remaining time at the given rate, negative when unknown
func etaFrom(downloaded, total int64, speed float64) time.Duration {
	if total <= 0 || speed <= 0 || downloaded > total {
		return -1
	}
	return time.Duration(float64(total-downloaded) / speed * float64(time.Second))
}
