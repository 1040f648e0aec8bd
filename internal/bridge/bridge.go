// Package bridge exposes video resolution and downloads as operations with
// primitive arguments and Result values, for the desktop window and the
// HTTP server alike. It owns the session: the last fetched URL and its
// metadata, used by every download operation.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/ytget/yt-desktop/internal/download"
	"github.com/ytget/yt-desktop/internal/model"
	"github.com/ytget/yt-desktop/internal/platform"
	"github.com/ytget/yt-desktop/internal/progress"
)

// Operation names as exposed to UI clients
const (
	OpFetchInfo        = "fetch_info"
	OpDownloadFormat   = "download_format"
	OpDownloadPreset   = "download_preset"
	OpDownloadSubtitle = "download_subtitle"
	OpGetProgress      = "get_progress"
	OpSelectDirectory  = "select_directory"
	OpGetDownloadDir   = "get_download_dir"
	OpSetDownloadDir   = "set_download_dir"
	OpGetAppInfo       = "get_app_info"
	OpGetHistory       = "get_history"
)

// Input validation errors
var (
	ErrEmptyURL        = errors.New("please enter a video URL")
	ErrNotYouTube      = errors.New("not a YouTube URL (expected youtube.com or youtu.be)")
	ErrNoPicker        = errors.New("directory selection is not available")
	ErrHistoryDisabled = errors.New("download history is disabled")
)

// DirectoryPicker asks the user for a folder. ok is false when the user
// dismissed the dialog.
type DirectoryPicker interface {
	PickDirectory(ctx context.Context, start string) (path string, ok bool, err error)
}

// HistoryLister reads finished jobs, newest first
type HistoryLister interface {
	List(ctx context.Context, limit int) ([]model.HistoryEntry, error)
}

// AppInfo describes the running application
type AppInfo struct {
	Brand       string `json:"brand"`
	Version     string `json:"version"`
	DownloadDir string `json:"download_dir"`
	Engine      string `json:"engine"`
}

// JobRef acknowledges a dispatched download
type JobRef struct {
	JobID string `json:"job_id"`
}

// DirectoryChoice is the folder picked by the user
type DirectoryChoice struct {
	Path string `json:"path"`
}

// Options wires a Bridge
type Options struct {
	Resolver  download.InfoResolver
	Downloads download.Downloader
	Store     *progress.Store
	History   HistoryLister   // optional
	Picker    DirectoryPicker // optional
	App       AppInfo         // DownloadDir is ignored; the Downloader owns it

	// OnDownloadDirChange is called after the directory changes
	OnDownloadDirChange func(dir string)
}

// Bridge serves UI requests
type Bridge struct {
	resolver  download.InfoResolver
	downloads download.Downloader
	store     *progress.Store
	history   HistoryLister
	picker    DirectoryPicker
	app       AppInfo
	onDir     func(string)

	mu         sync.RWMutex
	currentURL string
	videoInfo  *model.VideoInfo
}

// New creates a bridge
func New(opts Options) *Bridge {
	return &Bridge{
		resolver:  opts.Resolver,
		downloads: opts.Downloads,
		store:     opts.Store,
		history:   opts.History,
		picker:    opts.Picker,
		app:       opts.App,
		onDir:     opts.OnDownloadDirChange,
	}
}

// SetPicker replaces the directory picker; the desktop window installs
// one once it exists
func (b *Bridge) SetPicker(p DirectoryPicker) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.picker = p
}

// Session returns the last fetched URL and its metadata
func (b *Bridge) Session() (string, *model.VideoInfo) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.currentURL, b.videoInfo
}

func (b *Bridge) target() download.Target {
	url, info := b.Session()
	return download.Target{URL: url, Info: info}
}

// FetchInfo resolves url synchronously and makes it the session video
func (b *Bridge) FetchInfo(ctx context.Context, url string) (res Result[*model.VideoInfo]) {
	defer recoverInto(OpFetchInfo, &res)

	url = strings.TrimSpace(url)
	var invalid error
	switch {
	case url == "":
		invalid = ErrEmptyURL
	case !platform.IsYouTubeURL(url):
		invalid = ErrNotYouTube
	}
	if invalid != nil {
		if b.store != nil {
			b.store.Fail(invalid)
		}
		return fail[*model.VideoInfo](invalid)
	}
	if id, err := platform.ExtractVideoID(url); err == nil {
		log.Printf("[bridge] fetching video %s", id)
	}
	if platform.HasPlaylist(url) {
		log.Printf("[bridge] playlist parameter ignored, fetching the single video")
	}

	info, err := b.resolver.Resolve(ctx, url)
	if err != nil {
		return fail[*model.VideoInfo](err)
	}

	b.mu.Lock()
	b.currentURL = url
	b.videoInfo = info
	b.mu.Unlock()

	return ok(info)
}

// DownloadFormat downloads one format of the session video. fmtType is the
// descriptor type: audio downloads as-is, combined without merging, video
// merged with the best audio.
func (b *Bridge) DownloadFormat(formatID, fmtType string) (res Result[JobRef]) {
	defer recoverInto(OpDownloadFormat, &res)

	if strings.TrimSpace(formatID) == "" {
		return fail[JobRef](errors.New("format id is required"))
	}

	var job *download.Job
	var err error
	switch model.FormatType(fmtType) {
	case model.FormatAudio:
		job, err = b.downloads.DownloadAudio(b.target(), formatID)
	case model.FormatCombined:
		job, err = b.downloads.DownloadVideo(b.target(), formatID, false)
	default:
		job, err = b.downloads.DownloadVideo(b.target(), formatID, true)
	}
	return jobResult(job, err)
}

// DownloadPreset downloads the best quality up to maxHeight; 0 means
// unlimited
func (b *Bridge) DownloadPreset(maxHeight int) (res Result[JobRef]) {
	defer recoverInto(OpDownloadPreset, &res)
	return jobResult(b.downloads.DownloadBest(b.target(), maxHeight))
}

// DownloadSubtitle downloads one subtitle track of the session video
func (b *Bridge) DownloadSubtitle(lang, format string, isAuto bool) (res Result[JobRef]) {
	defer recoverInto(OpDownloadSubtitle, &res)

	if strings.TrimSpace(lang) == "" {
		return fail[JobRef](errors.New("subtitle language is required"))
	}
	if format == "" {
		format = "srt"
	}
	return jobResult(b.downloads.DownloadSubtitle(b.target(), lang, format, isAuto))
}

// GetProgress returns a snapshot of the progress store
func (b *Bridge) GetProgress() (res Result[model.ProgressState]) {
	defer recoverInto(OpGetProgress, &res)
	return ok(b.store.Snapshot())
}

// SelectDirectory lets the user pick the download directory
func (b *Bridge) SelectDirectory(ctx context.Context) (res Result[DirectoryChoice]) {
	defer recoverInto(OpSelectDirectory, &res)

	b.mu.RLock()
	picker := b.picker
	b.mu.RUnlock()
	if picker == nil {
		return fail[DirectoryChoice](ErrNoPicker)
	}

	path, chosen, err := picker.PickDirectory(ctx, b.downloads.DownloadDirectory())
	if err != nil {
		return fail[DirectoryChoice](err)
	}
	if !chosen || path == "" {
		return fail[DirectoryChoice](ErrCancelled)
	}

	b.applyDownloadDir(path)
	return ok(DirectoryChoice{Path: path})
}

// GetDownloadDir returns the current download directory
func (b *Bridge) GetDownloadDir() (res Result[string]) {
	defer recoverInto(OpGetDownloadDir, &res)
	return ok(b.downloads.DownloadDirectory())
}

// SetDownloadDir changes the download directory, creating it if needed
func (b *Bridge) SetDownloadDir(path string) (res Result[string]) {
	defer recoverInto(OpSetDownloadDir, &res)

	path = strings.TrimSpace(path)
	if path == "" {
		return fail[string](errors.New("directory path is required"))
	}
	if err := platform.CreateDirectoryIfNotExists(path); err != nil {
		return fail[string](fmt.Errorf("create download directory: %w", err))
	}
	b.applyDownloadDir(path)
	return ok(path)
}

// GetAppInfo returns brand, version, engine and download directory
func (b *Bridge) GetAppInfo() (res Result[AppInfo]) {
	defer recoverInto(OpGetAppInfo, &res)
	info := b.app
	info.DownloadDir = b.downloads.DownloadDirectory()
	return ok(info)
}

// GetHistory lists up to limit finished downloads, newest first
func (b *Bridge) GetHistory(ctx context.Context, limit int) (res Result[[]model.HistoryEntry]) {
	defer recoverInto(OpGetHistory, &res)

	if b.history == nil {
		return fail[[]model.HistoryEntry](ErrHistoryDisabled)
	}
	entries, err := b.history.List(ctx, limit)
	if err != nil {
		return fail[[]model.HistoryEntry](err)
	}
	return ok(entries)
}

func (b *Bridge) applyDownloadDir(path string) {
	b.downloads.SetDownloadDirectory(path)
	log.Printf("[bridge] download directory set to %s", path)
	if b.onDir != nil {
		b.onDir(path)
	}
}

func jobResult(job *download.Job, err error) Result[JobRef] {
	if err != nil {
		return fail[JobRef](err)
	}
	return ok(JobRef{JobID: job.ID})
}

// recoverInto turns a panic in an operation into a failed result
func recoverInto[T any](op string, res *Result[T]) {
	if r := recover(); r != nil {
		log.Printf("[bridge] panic in %s: %v", op, r)
		*res = fail[T](fmt.Errorf("internal error in %s: %v", op, r))
	}
}
