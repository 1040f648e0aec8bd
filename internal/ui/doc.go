// Package ui is the Fyne desktop window. It calls the request bridge
// directly, polls get_progress for the status bar and renders formats,
// quality presets and subtitles of the fetched video. All strings are
// localized via Localization.
package ui
