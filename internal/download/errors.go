package download

import (
	"errors"
	"fmt"

	"github.com/ytget/yt-desktop/internal/engine"
)

// ErrNoActiveVideo is returned when a download is requested before any
// video info was fetched
var ErrNoActiveVideo = errors.New("no active video: fetch video info first")

// ErrUnsupported re-exports the engine sentinel for callers of this package
var ErrUnsupported = engine.ErrUnsupported

// ExtractionError reports a failed metadata fetch
type ExtractionError struct {
	URL string
	Err error
}

func (e *ExtractionError) Error() string {
	return e.Err.Error()
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// DownloadError reports a failed video or audio job
type DownloadError struct {
	URL      string
	Selector string
	Err      error
}

func (e *DownloadError) Error() string {
	return e.Err.Error()
}

func (e *DownloadError) Unwrap() error { return e.Err }

// SubtitleError reports a failed subtitle job
type SubtitleError struct {
	Lang string
	Auto bool
	Err  error
}

func (e *SubtitleError) Error() string {
	return fmt.Sprintf("subtitle %s: %v", e.Lang, e.Err)
}

func (e *SubtitleError) Unwrap() error { return e.Err }
