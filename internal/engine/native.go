package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ytget/ytdlp/errs"
	"github.com/ytget/ytdlp/v2"
)

// Native uses the pure-Go ytdlp client. It can only fetch progressive or
// single adaptive streams: a chosen stream is fetched without the extra
// audio a merge would add, and subtitles are unsupported.
type Native struct {
	httpClient *http.Client
}

// NewNative creates the engine; zero timeout keeps the library default
func NewNative(timeout time.Duration) *Native {
	n := &Native{}
	if timeout > 0 {
		n.httpClient = &http.Client{Timeout: timeout}
	}
	return n
}

// Name returns NameNative
func (n *Native) Name() string {
	return NameNative
}

func (n *Native) downloader() *ytdlp.Downloader {
	d := ytdlp.New()
	if n.httpClient != nil {
		d = d.WithHTTPClient(n.httpClient)
	}
	return d
}

// Extract resolves metadata and maps the library's itag formats
func (n *Native) Extract(ctx context.Context, url string) (*Info, error) {
	_, vi, err := n.downloader().WithFormat("best", "").ResolveURL(ctx, url)
	if err != nil {
		return nil, describeNativeError(err)
	}

	info := &Info{
		ID:       vi.ID,
		Title:    vi.Title,
		Uploader: vi.Author,
		Duration: float64(vi.Duration),
		Formats:  make([]Format, 0, len(vi.Formats)),
	}
	for _, f := range vi.Formats {
		info.Formats = append(info.Formats, formatFromNative(f))
	}
	return info, nil
}

// Download translates the selector and streams the chosen format to disk
func (n *Native) Download(ctx context.Context, req Request, onEvent func(Event)) (*Outcome, error) {
	if req.Subtitles != nil {
		return nil, fmt.Errorf("subtitles: %w", ErrUnsupported)
	}
	selector, err := NativeSelector(req.Selector)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	var mu sync.Mutex
	var last Event
	d := n.downloader().
		WithFormat(selector, "").
		WithOutputPath(req.OutputDir).
		WithProgress(func(p ytdlp.Progress) {
			ev := Event{
				Status:          EventDownloading,
				DownloadedBytes: p.DownloadedSize,
				TotalBytes:      p.TotalSize,
			}
			ev.Speed = speedSince(started, p.DownloadedSize, time.Now())
			ev.ETA = etaFrom(p.DownloadedSize, p.TotalSize, ev.Speed)
			mu.Lock()
			last = ev
			mu.Unlock()
			if onEvent != nil {
				onEvent(ev)
			}
		})

	vi, err := d.Download(ctx, req.URL)
	if err != nil {
		return nil, describeNativeError(err)
	}

	mu.Lock()
	final := last
	mu.Unlock()
	final.Status = EventFinished
	final.Title = vi.Title
	if onEvent != nil {
		onEvent(final)
	}

	return &Outcome{Title: vi.Title, Filename: newestFile(req.OutputDir, started)}, nil
}

var (
	itagOnly      = regexp.MustCompile(`^\d+$`)
	bestHeightCap = regexp.MustCompile(`^best(?:video)?\[height<=(\d+)\]$`)
)

// NativeSelector maps a yt-dlp style expression onto the library's selector
// syntax. An explicit stream id is always honoured, even when the expression
// asks for it merged with audio; generic merge alternatives are skipped.
func NativeSelector(expr string) (string, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return "best", nil
	}
	for _, alt := range strings.Split(expr, "/") {
		alt = strings.TrimSpace(alt)
		if i := strings.Index(alt, "+"); i >= 0 {
			if id := strings.TrimSpace(alt[:i]); itagOnly.MatchString(id) {
				return "itag=" + id, nil
			}
			continue
		}
		switch {
		case itagOnly.MatchString(alt):
			return "itag=" + alt, nil
		case alt == "best" || alt == "bestvideo":
			return "best", nil
		case alt == "worst":
			return "worst", nil
		}
		if m := bestHeightCap.FindStringSubmatch(alt); m != nil {
			return "height<=" + m[1], nil
		}
	}
	return "", fmt.Errorf("selector %q: %w", expr, ErrUnsupported)
}

var (
	codecsParam = regexp.MustCompile(`codecs="([^"]*)"`)
	heightLabel = regexp.MustCompile(`^(\d{3,4})p(\d{2})?`)
)

// formatFromNative derives codec, container and resolution fields from the
// mime type and quality label the library exposes
func formatFromNative(f ytdlp.Format) Format {
	out := Format{
		FormatID:   strconv.Itoa(f.Itag),
		FormatNote: f.Quality,
		FileSize:   f.Size,
		TBR:        float64(f.Bitrate) / 1000,
		VCodec:     "none",
		ACodec:     "none",
	}

	mime := strings.ToLower(f.MimeType)
	kind, subtype := "", ""
	base := mime
	if i := strings.Index(base, ";"); i >= 0 {
		base = base[:i]
	}
	if parts := strings.SplitN(strings.TrimSpace(base), "/", 2); len(parts) == 2 {
		kind, subtype = parts[0], parts[1]
	}

	var codecs []string
	if m := codecsParam.FindStringSubmatch(f.MimeType); m != nil {
		for _, c := range strings.Split(m[1], ",") {
			if c = strings.TrimSpace(c); c != "" {
				codecs = append(codecs, c)
			}
		}
	}

	switch kind {
	case "video":
		out.Ext = subtype
		if len(codecs) > 0 {
			out.VCodec = codecs[0]
		}
		if len(codecs) > 1 {
			out.ACodec = codecs[1]
		}
	case "audio":
		out.Ext = subtype
		if subtype == "mp4" {
			out.Ext = "m4a"
		}
		if len(codecs) > 0 {
			out.ACodec = codecs[0]
		}
	}

	if m := heightLabel.FindStringSubmatch(f.Quality); m != nil {
		out.Height, _ = strconv.Atoi(m[1])
		if m[2] != "" {
			out.FPS, _ = strconv.ParseFloat(m[2], 64)
		}
	}
	return out
}

// describeNativeError turns library sentinels into user-facing messages
func describeNativeError(err error) error {
	switch {
	case errors.Is(err, errs.ErrPrivate):
		return fmt.Errorf("this video is private: %w", err)
	case errors.Is(err, errs.ErrAgeRestricted):
		return fmt.Errorf("this video is age restricted: %w", err)
	case errors.Is(err, errs.ErrGeoBlocked):
		return fmt.Errorf("this video is not available in your region: %w", err)
	case errors.Is(err, errs.ErrRateLimited):
		return fmt.Errorf("YouTube is rate limiting requests, try again later: %w", err)
	case errors.Is(err, errs.ErrVideoUnavailable):
		return fmt.Errorf("this video is unavailable: %w", err)
	}
	return err
}

// newestFile returns the most recently modified regular file in dir written
// after since. The library derives the name itself, so it is discovered.
func newestFile(dir string, since time.Time) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Printf("[engine] read output dir %s: %v", dir, err)
		return ""
	}
	var best string
	var bestMod time.Time
	for _, e := range entries {
		if e.IsDir() || strings.HasSuffix(e.Name(), ".tmp") {
			continue
		}
		fi, err := e.Info()
		if err != nil || fi.ModTime().Before(since) {
			continue
		}
		if best == "" || fi.ModTime().After(bestMod) {
			best = filepath.Join(dir, e.Name())
			bestMod = fi.ModTime()
		}
	}
	return best
}
