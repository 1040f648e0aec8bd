package model

import (
	"time"

	"github.com/dustin/go-humanize"
)

// FormatType classifies a stream by the tracks it carries
type FormatType string

const (
	// FormatCombined carries both audio and video and needs no muxing
	FormatCombined FormatType = "combined"
	// FormatVideo carries only a video track
	FormatVideo FormatType = "video"
	// FormatAudio carries only an audio track
	FormatAudio FormatType = "audio"
)

// Rank orders format types for display: combined, video-only, audio-only
func (ft FormatType) Rank() int {
	switch ft {
	case FormatCombined:
		return 0
	case FormatVideo:
		return 1
	case FormatAudio:
		return 2
	default:
		return 9
	}
}

// UnknownSizeLabel is shown when the extractor did not report a size
const UnknownSizeLabel = "Unknown"

// FormatDescriptor is one downloadable stream, normalized for the UI
type FormatDescriptor struct {
	FormatID      string     `json:"format_id"`
	Type          FormatType `json:"type"`
	Quality       string     `json:"quality"`
	Height        int        `json:"height"`
	FPS           float64    `json:"fps"`
	Ext           string     `json:"ext"`
	FileSize      int64      `json:"filesize"` // bytes, 0 if unknown
	FileSizeLabel string     `json:"filesize_label"`
	VCodec        string     `json:"vcodec"`
	ACodec        string     `json:"acodec"`
	TBR           float64    `json:"tbr"` // total bitrate in kbps
}

// SubtitleDescriptor is one subtitle track offered for download
type SubtitleDescriptor struct {
	Lang   string `json:"lang"`
	Name   string `json:"name"`
	IsAuto bool   `json:"is_auto"`
}

// VideoInfo aggregates everything the UI shows after a fetch
type VideoInfo struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Author      string               `json:"author"`
	Duration    string               `json:"duration"`
	DurationSec int64                `json:"duration_sec"`
	ViewCount   int64                `json:"view_count"`
	Thumbnail   string               `json:"thumbnail"`
	Formats     []FormatDescriptor   `json:"formats"`
	Subtitles   []SubtitleDescriptor `json:"subtitles"`
}

// FindFormat returns the descriptor with the given id
func (vi *VideoInfo) FindFormat(formatID string) (FormatDescriptor, bool) {
	if vi == nil {
		return FormatDescriptor{}, false
	}
	for _, f := range vi.Formats {
		if f.FormatID == formatID {
			return f, true
		}
	}
	return FormatDescriptor{}, false
}

// HasSubtitle reports whether a track with this language and origin is offered
func (vi *VideoInfo) HasSubtitle(lang string, auto bool) bool {
	if vi == nil {
		return false
	}
	for _, s := range vi.Subtitles {
		if s.Lang == lang && s.IsAuto == auto {
			return true
		}
	}
	return false
}

// FormatFileSize returns a human readable size, or UnknownSizeLabel for 0
func FormatFileSize(size int64) string {
	if size <= 0 {
		return UnknownSizeLabel
	}
	return humanize.Bytes(uint64(size))
}

// HistoryEntry records one finished background job
type HistoryEntry struct {
	ID         string         `json:"id"`
	Kind       string         `json:"kind"`
	URL        string         `json:"url"`
	Title      string         `json:"title"`
	Selector   string         `json:"selector"`
	Status     ProgressStatus `json:"status"`
	Error      string         `json:"error,omitempty"`
	Filename   string         `json:"filename,omitempty"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
}
