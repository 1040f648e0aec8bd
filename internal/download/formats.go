package download

import (
	"fmt"
	"sort"

	"github.com/ytget/yt-desktop/internal/engine"
	"github.com/ytget/yt-desktop/internal/model"
)

const (
	defaultTitle  = "Unknown video"
	defaultAuthor = "Unknown"
	autoSuffix    = " (auto)"
)

// autoCaptionLanguages lists machine-generated caption languages worth
// offering; YouTube reports auto captions for over a hundred languages
var autoCaptionLanguages = map[string]bool{
	"zh-Hans": true, "zh-Hant": true, "zh": true, "en": true, "ja": true,
	"ko": true, "es": true, "fr": true, "de": true, "pt": true, "ru": true,
	"ar": true, "hi": true,
}

var languageNames = map[string]string{
	"zh":      "中文",
	"zh-Hans": "简体中文",
	"zh-Hant": "繁体中文",
	"en":      "English",
	"ja":      "日本語",
	"ko":      "한국어",
	"es":      "Español",
	"fr":      "Français",
	"de":      "Deutsch",
	"pt":      "Português",
	"ru":      "Русский",
	"ar":      "العربية",
	"hi":      "हिन्दी",
	"it":      "Italiano",
	"nl":      "Nederlands",
	"pl":      "Polski",
	"tr":      "Türkçe",
	"vi":      "Tiếng Việt",
	"th":      "ไทย",
	"id":      "Indonesia",
}

// LanguageName returns the native display name of a language code, or the
// code itself when unknown
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}

func hasTrack(codec string) bool {
	return codec != "" && codec != "none"
}

// normalizeFormats dedupes, classifies, labels and orders raw formats
func normalizeFormats(raw []engine.Format) []model.FormatDescriptor {
	seen := make(map[string]bool, len(raw))
	formats := make([]model.FormatDescriptor, 0, len(raw))

	for _, f := range raw {
		if seen[f.FormatID] {
			continue
		}
		seen[f.FormatID] = true

		hasVideo := hasTrack(f.VCodec)
		hasAudio := hasTrack(f.ACodec)
		if !hasVideo && !hasAudio {
			continue
		}

		d := model.FormatDescriptor{
			FormatID: f.FormatID,
			Quality:  f.FormatNote,
			Height:   f.Height,
			FPS:      f.FPS,
			Ext:      f.Ext,
			FileSize: f.FileSize,
			TBR:      f.TBR,
		}
		if d.Ext == "" {
			d.Ext = "?"
		}
		d.FileSizeLabel = model.FormatFileSize(d.FileSize)

		switch {
		case hasVideo && hasAudio:
			d.Type = model.FormatCombined
		case hasVideo:
			d.Type = model.FormatVideo
		default:
			d.Type = model.FormatAudio
		}
		if hasVideo {
			d.VCodec = f.VCodec
			if d.Quality == "" && f.Height > 0 {
				d.Quality = fmt.Sprintf("%dp", f.Height)
			}
		} else if d.Quality == "" {
			d.Quality = fmt.Sprintf("%dkbps", int(f.TBR))
		}
		if hasAudio {
			d.ACodec = f.ACodec
		}

		formats = append(formats, d)
	}

	sort.SliceStable(formats, func(i, j int) bool {
		a, b := formats[i], formats[j]
		if a.Type.Rank() != b.Type.Rank() {
			return a.Type.Rank() < b.Type.Rank()
		}
		if a.Height != b.Height {
			return a.Height > b.Height
		}
		return a.TBR > b.TBR
	})

	return formats
}

// buildSubtitles lists authored tracks first, then allow-listed auto
// captions, each group sorted by language code
func buildSubtitles(authored, auto map[string][]engine.SubtitleTrack) []model.SubtitleDescriptor {
	subs := make([]model.SubtitleDescriptor, 0, len(authored)+len(autoCaptionLanguages))

	for _, lang := range sortedKeys(authored) {
		subs = append(subs, model.SubtitleDescriptor{Lang: lang, Name: LanguageName(lang)})
	}
	for _, lang := range sortedKeys(auto) {
		if !autoCaptionLanguages[lang] {
			continue
		}
		subs = append(subs, model.SubtitleDescriptor{
			Lang:   lang,
			Name:   LanguageName(lang) + autoSuffix,
			IsAuto: true,
		})
	}

	return subs
}

func sortedKeys(m map[string][]engine.SubtitleTrack) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// toVideoInfo converts raw engine metadata into display form
func toVideoInfo(info *engine.Info) *model.VideoInfo {
	title := info.Title
	if title == "" {
		title = defaultTitle
	}
	author := info.Uploader
	if author == "" {
		author = info.Channel
	}
	if author == "" {
		author = defaultAuthor
	}
	seconds := int64(info.Duration)

	return &model.VideoInfo{
		ID:          info.ID,
		Title:       title,
		Author:      author,
		Duration:    model.FormatClock(seconds),
		DurationSec: seconds,
		ViewCount:   info.ViewCount,
		Thumbnail:   info.Thumbnail,
		Formats:     normalizeFormats(info.Formats),
		Subtitles:   buildSubtitles(info.Subtitles, info.AutomaticCaptions),
	}
}
