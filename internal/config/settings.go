package config

import (
	"fyne.io/fyne/v2"
)

// Settings keys for Fyne preferences
const (
	KeyDownloadDir        = "download_directory"
	KeyEngine             = "engine"
	KeyPresetHeight       = "preset_max_height"
	KeySubtitleFormat     = "subtitle_format"
	KeyLanguage           = "app_language"
	KeyAutoRevealComplete = "auto_reveal_on_complete"
)

// Default values
const (
	DefaultPresetHeight       = 1080
	DefaultSubtitleFormat     = "srt"
	DefaultLanguage           = "system"
	DefaultAutoRevealComplete = true
)

// PresetHeights are the resolution caps offered as one-click downloads;
// 0 means best available
var PresetHeights = []int{0, 2160, 1440, 1080, 720, 480, 360}

// SubtitleFormats are the subtitle serializations offered for download
var SubtitleFormats = []string{"srt", "vtt"}

// Settings manages desktop preferences on top of the file config
type Settings struct {
	app  fyne.App
	base Config
}

// NewSettings creates a new settings manager. base supplies the values
// used until the user changes them in the GUI.
func NewSettings(app fyne.App, base Config) *Settings {
	return &Settings{app: app, base: base}
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	dir := s.app.Preferences().String(KeyDownloadDir)
	if dir == "" {
		return s.base.DownloadDir
	}
	return dir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, dir)
}

// GetEngine returns the extraction engine name
func (s *Settings) GetEngine() string {
	return s.app.Preferences().StringWithFallback(KeyEngine, s.base.Engine)
}

// SetEngine sets the extraction engine name; takes effect on restart
func (s *Settings) SetEngine(name string) {
	s.app.Preferences().SetString(KeyEngine, name)
}

// GetPresetHeight returns the highlighted preset resolution
func (s *Settings) GetPresetHeight() int {
	return s.app.Preferences().IntWithFallback(KeyPresetHeight, DefaultPresetHeight)
}

// SetPresetHeight sets the highlighted preset resolution
func (s *Settings) SetPresetHeight(height int) {
	if height < 0 {
		height = 0
	}
	s.app.Preferences().SetInt(KeyPresetHeight, height)
}

// GetSubtitleFormat returns the preferred subtitle format
func (s *Settings) GetSubtitleFormat() string {
	format := s.app.Preferences().String(KeySubtitleFormat)
	for _, f := range SubtitleFormats {
		if f == format {
			return format
		}
	}
	return DefaultSubtitleFormat
}

// SetSubtitleFormat sets the preferred subtitle format
func (s *Settings) SetSubtitleFormat(format string) {
	s.app.Preferences().SetString(KeySubtitleFormat, format)
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		if s.base.Language != "" {
			return s.base.Language
		}
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetAutoRevealOnComplete returns whether to auto-reveal completed downloads
func (s *Settings) GetAutoRevealOnComplete() bool {
	return s.app.Preferences().BoolWithFallback(KeyAutoRevealComplete, DefaultAutoRevealComplete)
}

// SetAutoRevealOnComplete sets whether to auto-reveal completed downloads
func (s *Settings) SetAutoRevealOnComplete(autoReveal bool) {
	s.app.Preferences().SetBool(KeyAutoRevealComplete, autoReveal)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"zh":     "中文",
		"ru":     "Русский",
	}
}

// Effective returns the base config with GUI preferences applied
func (s *Settings) Effective() Config {
	cfg := s.base
	cfg.DownloadDir = s.GetDownloadDirectory()
	cfg.Engine = s.GetEngine()
	cfg.Language = s.GetLanguage()
	return cfg
}
