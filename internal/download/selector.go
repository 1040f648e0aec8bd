package download

import "fmt"

// Output templates, relative to the download directory
const (
	videoTemplate    = "%(title)s_%(height)sp.%(ext)s"
	audioTemplate    = "%(title)s_audio.%(ext)s"
	subtitleTemplate = "%(title)s"

	mergeContainer = "mp4"
)

// videoSelector downloads formatID, pairing it with the best audio when merge
// is set
func videoSelector(formatID string, merge bool) string {
	if merge {
		return formatID + "+bestaudio/best"
	}
	return formatID
}

// presetSelector picks the best streams not taller than maxHeight; a
// non-positive maxHeight means no limit
func presetSelector(maxHeight int) string {
	if maxHeight <= 0 {
		return "bestvideo+bestaudio/best"
	}
	return fmt.Sprintf("bestvideo[height<=%d]+bestaudio/best[height<=%d]/best", maxHeight, maxHeight)
}
