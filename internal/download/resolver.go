package download

import (
	"context"
	"log"
	"strings"

	"github.com/ytget/yt-desktop/internal/engine"
	"github.com/ytget/yt-desktop/internal/model"
	"github.com/ytget/yt-desktop/internal/progress"
)

// Resolver fetches and normalizes video metadata
type Resolver struct {
	engine engine.Extractor
	store  *progress.Store
}

// NewResolver creates a resolver reporting to store
func NewResolver(ex engine.Extractor, store *progress.Store) *Resolver {
	return &Resolver{engine: ex, store: store}
}

// Resolve blocks until metadata for url is available. Nothing is downloaded.
func (r *Resolver) Resolve(ctx context.Context, url string) (*model.VideoInfo, error) {
	url = strings.TrimSpace(url)
	r.store.Begin(model.StatusFetching, 0)

	raw, err := r.engine.Extract(ctx, url)
	if err != nil {
		xerr := &ExtractionError{URL: url, Err: err}
		log.Printf("[download] fetch %s failed: %v", url, err)
		r.store.Fail(xerr)
		return nil, xerr
	}

	info := toVideoInfo(raw)
	log.Printf("[download] fetched %q: %d formats, %d subtitles", info.Title, len(info.Formats), len(info.Subtitles))
	r.store.Idle()
	return info, nil
}
