package ui

import "time"

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconFolder   = "📁"
	IconClose    = "×"
	IconHistory  = "🕘"
)

// Text fragments
const (
	MiddleDotSeparator = " · "
	DashPlaceholder    = "—"
)

// Window
const (
	WindowWidth  float32 = 820
	WindowHeight float32 = 640
)

// Layout sizing
const (
	FormatListMinHeight float32 = 220
	QualityLabelWidth   float32 = 90
	HistoryDialogWidth  float32 = 560
	HistoryDialogHeight float32 = 420
	SettingsDialogWidth float32 = 500
)

// Toast notification sizing and behavior
const (
	ToastWidth    float32 = 300
	ToastHeight   float32 = 120
	ToastMargin   float32 = 20
	ToastAutoHide         = 5 * time.Second
)

// ProgressPollInterval is how often the window reads get_progress
const ProgressPollInterval = 500 * time.Millisecond
