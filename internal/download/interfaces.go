package download

import (
	"context"

	"github.com/ytget/yt-desktop/internal/model"
)

// InfoResolver turns a URL into display-ready metadata
type InfoResolver interface {
	Resolve(ctx context.Context, url string) (*model.VideoInfo, error)
}

// Downloader defines the interface for the download service.
type Downloader interface {
	DownloadVideo(target Target, formatID string, merge bool) (*Job, error)
	DownloadAudio(target Target, formatID string) (*Job, error)
	DownloadSubtitle(target Target, lang, format string, auto bool) (*Job, error)
	DownloadBest(target Target, maxHeight int) (*Job, error)

	// SetDownloadDirectory sets the download directory
	SetDownloadDirectory(dir string)
	DownloadDirectory() string

	// Shutdown cancels running jobs and waits for them to exit
	Shutdown(ctx context.Context) error
}

// Recorder persists finished jobs. Implemented by history.Store.
type Recorder interface {
	Record(ctx context.Context, entry model.HistoryEntry) error
}

// Target is the video a download request applies to: the session's URL and
// the metadata fetched for it.
type Target struct {
	URL  string
	Info *model.VideoInfo
}

// Title returns the fetched title, or "" before a fetch
func (t Target) Title() string {
	if t.Info == nil {
		return ""
	}
	return t.Info.Title
}
