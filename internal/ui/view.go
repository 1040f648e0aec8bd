package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/ytget/yt-desktop/internal/model"
)

// formatDetail renders the secondary text of a format row
func formatDetail(f model.FormatDescriptor) string {
	parts := []string{string(f.Type), f.Ext, f.FileSizeLabel}
	if f.FPS > 0 && f.Type != model.FormatAudio {
		parts = append(parts, fmt.Sprintf("%gfps", f.FPS))
	}
	var codecs []string
	for _, c := range []string{f.VCodec, f.ACodec} {
		if c != "" {
			codecs = append(codecs, c)
		}
	}
	if len(codecs) > 0 {
		parts = append(parts, strings.Join(codecs, "/"))
	}
	return strings.Join(parts, MiddleDotSeparator)
}

// presetLabel names a height cap; 0 means no cap
func presetLabel(height int, loc *Localization) string {
	if height <= 0 {
		return loc.GetText(KeyBestAvailable)
	}
	return strconv.Itoa(height) + "p"
}

// presetHeight is the inverse of presetLabel
func presetHeight(label string) int {
	h, err := strconv.Atoi(strings.TrimSuffix(label, "p"))
	if err != nil {
		return 0
	}
	return h
}

// subtitleChoices labels subtitle tracks for a select widget. Labels are
// unique because the resolver emits each (lang, auto) pair once.
func subtitleChoices(subs []model.SubtitleDescriptor) ([]string, map[string]model.SubtitleDescriptor) {
	labels := make([]string, 0, len(subs))
	byLabel := make(map[string]model.SubtitleDescriptor, len(subs))
	for _, s := range subs {
		label := s.Name
		if !strings.HasPrefix(s.Name, s.Lang) {
			label = fmt.Sprintf("%s [%s]", s.Name, s.Lang)
		}
		labels = append(labels, label)
		byLabel[label] = s
	}
	return labels, byLabel
}

// metaLine renders author, duration and view count
func metaLine(info *model.VideoInfo, loc *Localization) string {
	parts := []string{info.Author, info.Duration}
	if info.ViewCount > 0 {
		parts = append(parts, humanize.Comma(info.ViewCount)+" "+loc.GetText(KeyViews))
	}
	return strings.Join(parts, MiddleDotSeparator)
}

// progressText renders the status line under the progress bar
func progressText(ps model.ProgressState, loc *Localization) string {
	label := loc.GetText(statusKey(string(ps.Status)))
	switch ps.Status {
	case model.StatusDownloading:
		parts := []string{fmt.Sprintf("%s %.1f%%", label, ps.Percent)}
		if ps.Speed != "" {
			parts = append(parts, ps.Speed)
		}
		if ps.ETA != "" {
			parts = append(parts, "ETA "+ps.ETA)
		}
		return strings.Join(parts, MiddleDotSeparator)
	case model.StatusError:
		if ps.Error != "" {
			return label + ": " + ps.Error
		}
	case model.StatusDone:
		if ps.Filename != "" {
			return label + MiddleDotSeparator + ps.Filename
		}
	}
	return label
}

// historyLine renders one history entry
func historyLine(e model.HistoryEntry) string {
	title := e.Title
	if title == "" {
		title = e.URL
	}
	return strings.Join([]string{humanize.Time(e.FinishedAt), e.Kind, string(e.Status), title}, MiddleDotSeparator)
}
