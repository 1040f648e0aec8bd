package ui

import (
	"sort"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/yt-desktop/internal/config"
	"github.com/ytget/yt-desktop/internal/engine"
)

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func()

	// UI components
	downloadDirEntry *widget.Entry
	engineSelect     *widget.Select
	presetSelect     *widget.Select
	subFormatSelect  *widget.Select
	languageSelect   *widget.Select
	autoRevealCheck  *widget.Check

	// language select shows names, settings store codes
	languageCodes map[string]string
}

// NewSettingsDialog creates a new settings dialog. onSaved runs after the
// preferences were written.
func NewSettingsDialog(settings *config.Settings, loc *Localization, window fyne.Window, onSaved func()) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		localization: loc,
		window:       window,
		onSaved:      onSaved,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	loc := sd.localization

	sd.downloadDirEntry = widget.NewEntry()
	browseDirBtn := widget.NewButton(loc.GetText(KeyBrowse), sd.onBrowseDirectory)
	downloadDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.downloadDirEntry)

	sd.engineSelect = widget.NewSelect([]string{engine.NameYTDLP, engine.NameNative}, nil)

	presets := make([]string, 0, len(config.PresetHeights))
	for _, h := range config.PresetHeights {
		presets = append(presets, presetLabel(h, loc))
	}
	sd.presetSelect = widget.NewSelect(presets, nil)

	sd.subFormatSelect = widget.NewSelect(config.SubtitleFormats, nil)

	sd.languageCodes = make(map[string]string)
	var languageNames []string
	for code, name := range sd.settings.GetLanguageOptions() {
		sd.languageCodes[name] = code
		languageNames = append(languageNames, name)
	}
	sort.Strings(languageNames)
	sd.languageSelect = widget.NewSelect(languageNames, nil)

	sd.autoRevealCheck = widget.NewCheck(loc.GetText(KeyAutoReveal), nil)

	hint := widget.NewLabel(loc.GetText(KeyRestartRequired))
	hint.Importance = widget.LowImportance

	form := widget.NewForm(
		widget.NewFormItem(loc.GetText(KeyDownloadDirectory), downloadDirRow),
		widget.NewFormItem(loc.GetText(KeyEngine), sd.engineSelect),
		widget.NewFormItem(loc.GetText(KeyPresetHeight), sd.presetSelect),
		widget.NewFormItem(loc.GetText(KeySubtitleFormat), sd.subFormatSelect),
		widget.NewFormItem(loc.GetText(KeyLanguage), sd.languageSelect),
	)

	sd.dialog = dialog.NewCustomConfirm(
		loc.GetText(KeySettings),
		loc.GetText(KeySave),
		loc.GetText(KeyCancel),
		container.NewVBox(form, sd.autoRevealCheck, hint),
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, 360))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.downloadDirEntry.SetText(sd.settings.GetDownloadDirectory())
	sd.engineSelect.SetSelected(sd.settings.GetEngine())
	sd.presetSelect.SetSelected(presetLabel(sd.settings.GetPresetHeight(), sd.localization))
	sd.subFormatSelect.SetSelected(sd.settings.GetSubtitleFormat())
	sd.languageSelect.SetSelected(sd.settings.GetLanguageOptions()[sd.settings.GetLanguage()])
	sd.autoRevealCheck.SetChecked(sd.settings.GetAutoRevealOnComplete())
}

// onBrowseDirectory handles directory browsing
func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.downloadDirEntry.SetText(uri.Path())
	}, sd.window)
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	if dir := sd.downloadDirEntry.Text; dir != "" {
		sd.settings.SetDownloadDirectory(dir)
	}
	if sd.engineSelect.Selected != "" {
		sd.settings.SetEngine(sd.engineSelect.Selected)
	}
	if sd.presetSelect.Selected != "" {
		sd.settings.SetPresetHeight(presetHeight(sd.presetSelect.Selected))
	}
	if sd.subFormatSelect.Selected != "" {
		sd.settings.SetSubtitleFormat(sd.subFormatSelect.Selected)
	}
	if code, ok := sd.languageCodes[sd.languageSelect.Selected]; ok {
		sd.settings.SetLanguage(code)
	}
	sd.settings.SetAutoRevealOnComplete(sd.autoRevealCheck.Checked)

	if sd.onSaved != nil {
		sd.onSaved()
	}
	dialog.ShowInformation(sd.localization.GetText(KeySettings), sd.localization.GetText(KeySettingsSaved), sd.window)
}
