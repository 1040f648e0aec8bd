package download

import (
	"testing"

	"github.com/ytget/yt-desktop/internal/engine"
	"github.com/ytget/yt-desktop/internal/model"
)

func TestNormalizeFormats_ScenarioTwoFormats(t *testing.T) {
	formats := normalizeFormats(sampleInfo().Formats)

	if len(formats) != 2 {
		t.Fatalf("Expected 2 formats, got %d", len(formats))
	}

	first := formats[0]
	if first.FormatID != "22" || first.Type != model.FormatCombined || first.Quality != "720p" {
		t.Errorf("Unexpected first format: %+v", first)
	}
	if first.FileSizeLabel == model.UnknownSizeLabel {
		t.Errorf("Expected a size label for a known size, got %q", first.FileSizeLabel)
	}

	second := formats[1]
	if second.FormatID != "140" || second.Type != model.FormatAudio || second.Quality != "129kbps" {
		t.Errorf("Unexpected second format: %+v", second)
	}
	if second.VCodec != "" || second.ACodec != "mp4a" {
		t.Errorf("Expected codecs to be blanked for missing tracks, got %q/%q", second.VCodec, second.ACodec)
	}
	if second.FileSizeLabel != model.UnknownSizeLabel {
		t.Errorf("Expected %q for unknown size, got %q", model.UnknownSizeLabel, second.FileSizeLabel)
	}
}

func TestNormalizeFormats_DedupeAndDrop(t *testing.T) {
	raw := []engine.Format{
		{FormatID: "18", VCodec: "avc1", ACodec: "mp4a", Height: 360, FormatNote: "first"},
		{FormatID: "18", VCodec: "avc1", ACodec: "mp4a", Height: 360, FormatNote: "second"},
		{FormatID: "sb0", VCodec: "none", ACodec: "none"},
		{FormatID: "x", VCodec: "", ACodec: ""},
	}

	formats := normalizeFormats(raw)
	if len(formats) != 1 {
		t.Fatalf("Expected 1 format, got %d: %+v", len(formats), formats)
	}
	if formats[0].Quality != "first" {
		t.Errorf("Expected first occurrence to win, got %q", formats[0].Quality)
	}
	if formats[0].Ext != "?" {
		t.Errorf("Expected placeholder extension, got %q", formats[0].Ext)
	}
}

func TestNormalizeFormats_Ordering(t *testing.T) {
	raw := []engine.Format{
		{FormatID: "a1", ACodec: "opus", TBR: 50},
		{FormatID: "v480", VCodec: "vp9", Height: 480},
		{FormatID: "a2", ACodec: "opus", TBR: 160},
		{FormatID: "c360", VCodec: "avc1", ACodec: "mp4a", Height: 360},
		{FormatID: "v1080", VCodec: "vp9", Height: 1080, TBR: 100},
		{FormatID: "v1080b", VCodec: "avc1", Height: 1080, TBR: 300},
		{FormatID: "c720", VCodec: "avc1", ACodec: "mp4a", Height: 720},
	}

	expected := []string{"c720", "c360", "v1080b", "v1080", "v480", "a2", "a1"}
	formats := normalizeFormats(raw)
	if len(formats) != len(expected) {
		t.Fatalf("Expected %d formats, got %d", len(expected), len(formats))
	}
	for i, id := range expected {
		if formats[i].FormatID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, formats[i].FormatID)
		}
	}

	for i := 1; i < len(formats); i++ {
		prev, cur := formats[i-1], formats[i]
		if prev.Type.Rank() > cur.Type.Rank() {
			t.Errorf("Type order violated at %d", i)
		}
	}
}

func TestNormalizeFormats_VideoQualityFallback(t *testing.T) {
	formats := normalizeFormats([]engine.Format{
		{FormatID: "137", VCodec: "avc1", Height: 1080},
		{FormatID: "x", VCodec: "avc1"},
	})

	if formats[0].Quality != "1080p" {
		t.Errorf("Expected 1080p, got %q", formats[0].Quality)
	}
	if formats[1].Quality != "" {
		t.Errorf("Expected empty quality without height, got %q", formats[1].Quality)
	}
}

func TestBuildSubtitles(t *testing.T) {
	authored := map[string][]engine.SubtitleTrack{
		"fr": {{Ext: "vtt"}},
		"en": {{Ext: "vtt"}},
		"xx": {{Ext: "vtt"}},
	}
	auto := map[string][]engine.SubtitleTrack{
		"en":      {{Ext: "vtt"}},
		"sw":      {{Ext: "vtt"}},
		"zh-Hans": {{Ext: "vtt"}},
	}

	subs := buildSubtitles(authored, auto)

	expected := []model.SubtitleDescriptor{
		{Lang: "en", Name: "English"},
		{Lang: "fr", Name: "Français"},
		{Lang: "xx", Name: "xx"},
		{Lang: "en", Name: "English (auto)", IsAuto: true},
		{Lang: "zh-Hans", Name: "简体中文 (auto)", IsAuto: true},
	}
	if len(subs) != len(expected) {
		t.Fatalf("Expected %d subtitles, got %d: %+v", len(expected), len(subs), subs)
	}
	for i := range expected {
		if subs[i] != expected[i] {
			t.Errorf("Subtitle %d: expected %+v, got %+v", i, expected[i], subs[i])
		}
	}

	for _, s := range subs {
		if s.IsAuto && !autoCaptionLanguages[s.Lang] {
			t.Errorf("Auto caption %s is not allow-listed", s.Lang)
		}
	}
}

func TestToVideoInfo_Defaults(t *testing.T) {
	tests := []struct {
		name           string
		in             engine.Info
		expectTitle    string
		expectAuthor   string
		expectDuration string
	}{
		{"empty", engine.Info{}, "Unknown video", "Unknown", "0:00"},
		{"channel fallback", engine.Info{Title: "T", Channel: "Chan", Duration: 65}, "T", "Chan", "1:05"},
		{"uploader wins", engine.Info{Uploader: "Up", Channel: "Chan", Duration: 3725}, "Unknown video", "Up", "62:05"},
		{"fractional seconds", engine.Info{Duration: 59.9}, "Unknown video", "Unknown", "0:59"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			info := toVideoInfo(&test.in)
			if info.Title != test.expectTitle {
				t.Errorf("Title = %q, expected %q", info.Title, test.expectTitle)
			}
			if info.Author != test.expectAuthor {
				t.Errorf("Author = %q, expected %q", info.Author, test.expectAuthor)
			}
			if info.Duration != test.expectDuration {
				t.Errorf("Duration = %q, expected %q", info.Duration, test.expectDuration)
			}
		})
	}
}

func TestLanguageName(t *testing.T) {
	if got := LanguageName("ja"); got != "日本語" {
		t.Errorf("LanguageName(ja) = %q", got)
	}
	if got := LanguageName("tlh"); got != "tlh" {
		t.Errorf("LanguageName(tlh) = %q, expected code fallback", got)
	}
}

func TestSelectors(t *testing.T) {
	tests := []struct {
		got, expected string
	}{
		{videoSelector("137", true), "137+bestaudio/best"},
		{videoSelector("22", false), "22"},
		{presetSelector(720), "bestvideo[height<=720]+bestaudio/best[height<=720]/best"},
		{presetSelector(0), "bestvideo+bestaudio/best"},
		{presetSelector(-1), "bestvideo+bestaudio/best"},
	}
	for _, test := range tests {
		if test.got != test.expected {
			t.Errorf("Got %q, expected %q", test.got, test.expected)
		}
	}
}
