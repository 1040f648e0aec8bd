package model

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const bytesPerMegabyte = 1024 * 1024

// ProgressState is the single record describing the current operation
type ProgressState struct {
	Status   ProgressStatus `json:"status"`
	Percent  float64        `json:"percent"`  // 0 to 100, one decimal
	Speed    string         `json:"speed"`    // human readable speed (e.g., "1.2 MB/s")
	ETA      string         `json:"eta"`      // remaining time as m:ss
	Filename string         `json:"filename"` // last known output path
	Error    string         `json:"error"`    // last error message if any
}

// NewProgressState returns the idle record a process starts with
func NewProgressState() ProgressState {
	return ProgressState{Status: StatusIdle}
}

// ClampPercent rounds p to one decimal and bounds it to [0, 100].
// NaN and infinities collapse to 0.
func ClampPercent(p float64) float64 {
	if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return math.Round(p*10) / 10
}

// PercentOf computes downloaded/total*100, or 0 when total is unknown
func PercentOf(downloaded, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return ClampPercent(float64(downloaded) / float64(total) * 100)
}

// FormatSpeed renders bytes per second as "X.Y MB/s", or "" if unknown
func FormatSpeed(bytesPerSecond float64) string {
	if bytesPerSecond <= 0 || math.IsNaN(bytesPerSecond) || math.IsInf(bytesPerSecond, 0) {
		return ""
	}
	return fmt.Sprintf("%.1f MB/s", bytesPerSecond/bytesPerMegabyte)
}

// FormatETA renders a remaining duration as m:ss, or "" if unknown
func FormatETA(eta time.Duration) string {
	if eta < 0 {
		return ""
	}
	return FormatClock(int64(eta / time.Second))
}

// FormatClock renders whole seconds as minutes:seconds with zero-padded seconds.
// Minutes are not wrapped into hours.
func FormatClock(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// DisplayName returns the output file name without directory and extension,
// or "" when no filename is known yet
func (ps ProgressState) DisplayName() string {
	if ps.Filename == "" {
		return ""
	}
	// Support both / and \ separators
	parts := strings.FieldsFunc(ps.Filename, func(r rune) bool {
		return r == '/' || r == '\\'
	})
	if len(parts) == 0 {
		return ""
	}
	name := parts[len(parts)-1]
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	return name
}
