package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ytget/ytdlp/errs"
	"github.com/ytget/ytdlp/v2"
)

const sampleInfoJSON = `{
	"id": "dQw4w9WgXcQ",
	"title": "Sample Video",
	"uploader": "Sample Channel",
	"channel": "Sample Channel",
	"duration": 212,
	"view_count": 1500000,
	"thumbnail": "https://i.ytimg.com/vi/dQw4w9WgXcQ/maxresdefault.jpg",
	"formats": [
		{"format_id": "22", "format_note": "720p", "ext": "mp4", "vcodec": "avc1.64001F", "acodec": "mp4a.40.2", "height": 720, "fps": 30, "filesize": null, "filesize_approx": 52428800, "tbr": 1200.5},
		{"format_id": "140", "format_note": "medium", "ext": "m4a", "vcodec": "none", "acodec": "mp4a.40.2", "height": null, "fps": null, "filesize": 3400000, "tbr": 129.5},
		{"format_id": "sb0", "format_note": "storyboard", "ext": "mhtml", "vcodec": "none", "acodec": "none"}
	],
	"subtitles": {"en": [{"ext": "vtt", "url": "https://example.com/en.vtt", "name": "English"}]},
	"automatic_captions": {"de": [{"ext": "srt", "url": "https://example.com/de.srt"}]}
}`

func TestParseInfoJSON(t *testing.T) {
	info, err := parseInfoJSON([]byte(sampleInfoJSON))
	if err != nil {
		t.Fatalf("parseInfoJSON() error = %v", err)
	}

	if info.ID != "dQw4w9WgXcQ" || info.Title != "Sample Video" || info.Uploader != "Sample Channel" {
		t.Errorf("Unexpected identity fields: %+v", info)
	}
	if info.Duration != 212 || info.ViewCount != 1500000 {
		t.Errorf("Duration/ViewCount = %v/%v", info.Duration, info.ViewCount)
	}
	if len(info.Formats) != 3 {
		t.Fatalf("Expected 3 formats, got %d", len(info.Formats))
	}

	combined := info.Formats[0]
	if combined.FileSize != 52428800 {
		t.Errorf("Expected approx filesize fallback, got %d", combined.FileSize)
	}
	if combined.Height != 720 || combined.FPS != 30 || combined.TBR != 1200.5 {
		t.Errorf("Unexpected combined format: %+v", combined)
	}

	audio := info.Formats[1]
	if audio.VCodec != "none" || audio.Height != 0 || audio.FileSize != 3400000 {
		t.Errorf("Unexpected audio format: %+v", audio)
	}

	if got := info.Subtitles["en"]; len(got) != 1 || got[0].Ext != "vtt" {
		t.Errorf("Unexpected subtitles: %+v", info.Subtitles)
	}
	if got := info.AutomaticCaptions["de"]; len(got) != 1 || got[0].Ext != "srt" {
		t.Errorf("Unexpected automatic captions: %+v", info.AutomaticCaptions)
	}
}

func TestParseInfoJSON_Errors(t *testing.T) {
	if _, err := parseInfoJSON([]byte("not json")); err == nil {
		t.Error("Expected error for invalid JSON")
	}
	if _, err := parseInfoJSON([]byte(`{}`)); err == nil {
		t.Error("Expected error for empty metadata")
	}
}

func TestNativeSelector(t *testing.T) {
	tests := []struct {
		expr     string
		expected string
		wantErr  bool
	}{
		{"", "best", false},
		{"22", "itag=22", false},
		{"137+bestaudio/best", "itag=137", false},
		{"bestvideo[height<=720]+bestaudio/best[height<=720]/best", "height<=720", false},
		{"bestvideo+bestaudio/best", "best", false},
		{"worst", "worst", false},
		{"137+bestaudio", "itag=137", false},
		{"bestaudio", "", true},
	}

	for _, test := range tests {
		got, err := NativeSelector(test.expr)
		if test.wantErr {
			if !errors.Is(err, ErrUnsupported) {
				t.Errorf("NativeSelector(%q) error = %v, expected ErrUnsupported", test.expr, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("NativeSelector(%q) unexpected error: %v", test.expr, err)
			continue
		}
		if got != test.expected {
			t.Errorf("NativeSelector(%q) = %q, expected %q", test.expr, got, test.expected)
		}
	}
}

func TestFormatFromNative(t *testing.T) {
	tests := []struct {
		name   string
		in     ytdlp.Format
		expect Format
	}{
		{
			name: "progressive",
			in:   ytdlp.Format{Itag: 22, Quality: "720p", MimeType: `video/mp4; codecs="avc1.64001F, mp4a.40.2"`, Bitrate: 1500000, Size: 1000},
			expect: Format{FormatID: "22", FormatNote: "720p", Ext: "mp4", VCodec: "avc1.64001F", ACodec: "mp4a.40.2",
				Height: 720, FileSize: 1000, TBR: 1500},
		},
		{
			name: "adaptive video with fps",
			in:   ytdlp.Format{Itag: 299, Quality: "1080p60", MimeType: `video/mp4; codecs="avc1.64002a"`, Bitrate: 6000000},
			expect: Format{FormatID: "299", FormatNote: "1080p60", Ext: "mp4", VCodec: "avc1.64002a", ACodec: "none",
				Height: 1080, FPS: 60, TBR: 6000},
		},
		{
			name:   "audio",
			in:     ytdlp.Format{Itag: 140, MimeType: `audio/mp4; codecs="mp4a.40.2"`, Bitrate: 130000},
			expect: Format{FormatID: "140", Ext: "m4a", VCodec: "none", ACodec: "mp4a.40.2", TBR: 130},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := formatFromNative(test.in)
			if got != test.expect {
				t.Errorf("formatFromNative() = %+v, expected %+v", got, test.expect)
			}
		})
	}
}

func TestSpeedAndETA(t *testing.T) {
	start := time.Unix(1000, 0)
	now := start.Add(2 * time.Second)

	if got := speedSince(start, 4096, now); got != 2048 {
		t.Errorf("speedSince() = %v, expected 2048", got)
	}
	if got := speedSince(time.Time{}, 4096, now); got != 0 {
		t.Errorf("speedSince() with zero start = %v, expected 0", got)
	}
	if got := etaFrom(1000, 3000, 1000); got != 2*time.Second {
		t.Errorf("etaFrom() = %v, expected 2s", got)
	}
	if got := etaFrom(1000, 0, 1000); got >= 0 {
		t.Errorf("etaFrom() with unknown total = %v, expected negative", got)
	}
}

func TestNew_UnknownEngine(t *testing.T) {
	if _, err := New(context.Background(), Options{Name: "bogus"}); err == nil {
		t.Error("Expected error for unknown engine")
	}

	ex, err := New(context.Background(), Options{Name: NameNative})
	if err != nil {
		t.Fatalf("New(native) error = %v", err)
	}
	if ex.Name() != NameNative {
		t.Errorf("Expected native engine, got %s", ex.Name())
	}
}

func TestNativeDownload_SubtitlesUnsupported(t *testing.T) {
	n := NewNative(0)
	_, err := n.Download(context.Background(), Request{URL: "https://www.youtube.com/watch?v=x", Subtitles: &SubtitleRequest{Lang: "en"}}, nil)
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("Expected ErrUnsupported, got %v", err)
	}
}

func TestDescribeNativeError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		prefix string
	}{
		{"private", fmt.Errorf("resolve: %w", errs.ErrPrivate), "this video is private"},
		{"age", errs.ErrAgeRestricted, "this video is age restricted"},
		{"geo", fmt.Errorf("player: %w", errs.ErrGeoBlocked), "this video is not available in your region"},
		{"rate limit", errs.ErrRateLimited, "YouTube is rate limiting requests"},
		{"unavailable", fmt.Errorf("resolve: %w", errs.ErrVideoUnavailable), "this video is unavailable"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := describeNativeError(test.err)
			if !errors.Is(got, test.err) {
				t.Errorf("describeNativeError() lost the cause: %v", got)
			}
			if msg := got.Error(); len(msg) < len(test.prefix) || msg[:len(test.prefix)] != test.prefix {
				t.Errorf("describeNativeError() = %q, expected prefix %q", msg, test.prefix)
			}
		})
	}

	plain := errors.New("network down")
	if got := describeNativeError(plain); got != plain {
		t.Errorf("describeNativeError() changed an unclassified error: %v", got)
	}
}
