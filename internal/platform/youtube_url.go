package platform

import (
	"fmt"
	"net/url"
	"strings"
)

// URL parameters
const (
	VideoURLParam    = "v"
	PlaylistURLParam = "list"
)

var youTubeHosts = []string{"youtube.com", "youtu.be"}

// IsYouTubeURL reports whether raw points at youtube.com or youtu.be.
// Scheme-less input such as "youtu.be/abc" is accepted.
func IsYouTubeURL(raw string) bool {
	u, err := parseLoose(raw)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, h := range youTubeHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// ExtractVideoID extracts the video ID from the common URL shapes:
//   - https://www.youtube.com/watch?v=VIDEO_ID&list=PLAYLIST_ID
//   - https://youtu.be/VIDEO_ID?t=42
//   - https://www.youtube.com/shorts/VIDEO_ID
//   - https://www.youtube.com/embed/VIDEO_ID
func ExtractVideoID(raw string) (string, error) {
	if !IsYouTubeURL(raw) {
		return "", fmt.Errorf("not a YouTube URL: %s", raw)
	}
	u, _ := parseLoose(raw)

	if id := u.Query().Get(VideoURLParam); id != "" {
		return id, nil
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if strings.EqualFold(u.Hostname(), "youtu.be") && segments[0] != "" {
		return segments[0], nil
	}
	if len(segments) >= 2 {
		switch segments[0] {
		case "shorts", "embed", "live", "v":
			return segments[1], nil
		}
	}
	return "", fmt.Errorf("could not extract video ID from URL: %s", raw)
}

// HasPlaylist reports whether the URL also carries a playlist parameter.
// Only the single video is ever downloaded.
func HasPlaylist(raw string) bool {
	u, err := parseLoose(raw)
	if err != nil {
		return false
	}
	return u.Query().Get(PlaylistURLParam) != ""
}

func parseLoose(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty URL")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	return url.Parse(raw)
}
