package ui

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/yt-desktop/internal/bridge"
	"github.com/ytget/yt-desktop/internal/config"
	"github.com/ytget/yt-desktop/internal/download"
	"github.com/ytget/yt-desktop/internal/model"
	"github.com/ytget/yt-desktop/internal/platform"
)

// JobNotifier reports finished background jobs
type JobNotifier interface {
	SetUpdateCallback(callback func(*download.Job))
}

// Options wires the window
type Options struct {
	Bridge   *bridge.Bridge
	Settings *config.Settings
	Jobs     JobNotifier // optional
}

// RootUI represents the main UI structure
type RootUI struct {
	window       fyne.Window
	bridge       *bridge.Bridge
	settings     *config.Settings
	localization *Localization

	ctx    context.Context
	cancel context.CancelFunc

	// URL row
	urlEntry    *widget.Entry
	fetchBtn    *widget.Button
	settingsBtn *widget.Button
	historyBtn  *widget.Button

	// Video info
	titleLabel *widget.Label
	metaLabel  *widget.Label
	infoBox    *fyne.Container

	// Formats; only touched on the UI goroutine
	formats     []model.FormatDescriptor
	formatsCard *widget.Card
	formatList  *widget.List

	// Best-quality preset
	presetCard   *widget.Card
	presetSelect *widget.Select
	presetBtn    *widget.Button

	// Subtitles
	subtitleCard    *widget.Card
	subtitleSelect  *widget.Select
	subFormatSelect *widget.Select
	subtitleBtn     *widget.Button
	subtitleByLabel map[string]model.SubtitleDescriptor

	// Directory row
	dirLabel *widget.Label
	dirBtn   *widget.Button

	// Progress
	progressBar *widget.ProgressBar
	statusLabel *widget.Label
	lastStatus  model.ProgressStatus
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, opts Options) *RootUI {
	localization := NewLocalization()
	localization.SetLanguage(opts.Settings.GetLanguage())

	ctx, cancel := context.WithCancel(context.Background())
	ui := &RootUI{
		window:       window,
		bridge:       opts.Bridge,
		settings:     opts.Settings,
		localization: localization,
		ctx:          ctx,
		cancel:       cancel,
	}

	window.SetTitle(localization.GetText(KeyAppTitle))
	if icon, err := LoadLogoResource(); err == nil {
		window.SetIcon(icon)
	}

	ui.bridge.SetPicker(&folderPicker{window: window})
	if opts.Jobs != nil {
		opts.Jobs.SetUpdateCallback(ui.onJobFinished)
	}

	ui.setupUI()
	window.SetOnClosed(ui.Close)

	go ui.pollProgress(ctx)
	log.Printf("[ui] window ready")
	return ui
}

// Close stops background polling
func (ui *RootUI) Close() {
	ui.cancel()
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	loc := ui.localization
	ui.createMenu()

	// URL row
	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder(loc.GetText(KeyEnterURL))
	ui.urlEntry.Validator = ui.validateURL
	ui.urlEntry.OnSubmitted = func(string) { ui.onFetchClick() }

	ui.fetchBtn = widget.NewButton(loc.GetText(KeyFetch), ui.onFetchClick)
	ui.fetchBtn.Importance = widget.HighImportance

	ui.settingsBtn = widget.NewButton(IconSettings, ui.onShowSettings)
	ui.settingsBtn.Importance = widget.LowImportance
	ui.historyBtn = widget.NewButton(IconHistory, ui.onShowHistory)
	ui.historyBtn.Importance = widget.LowImportance

	urlRow := container.NewBorder(nil, nil, container.NewHBox(ui.settingsBtn, ui.historyBtn), ui.fetchBtn, ui.urlEntry)

	// Video info
	ui.titleLabel = widget.NewLabel("")
	ui.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	ui.titleLabel.Wrapping = fyne.TextWrapWord
	ui.metaLabel = widget.NewLabel("")
	ui.infoBox = container.NewVBox(ui.titleLabel, ui.metaLabel)
	ui.infoBox.Hide()

	// Formats
	ui.formatList = widget.NewList(
		func() int { return len(ui.formats) },
		ui.createFormatItem,
		ui.updateFormatItem,
	)
	ui.formatsCard = widget.NewCard(loc.GetText(KeyFormats), "", container.NewGridWrap(
		fyne.NewSize(WindowWidth-40, FormatListMinHeight), ui.formatList))

	// Preset
	presets := make([]string, 0, len(config.PresetHeights))
	for _, h := range config.PresetHeights {
		presets = append(presets, presetLabel(h, loc))
	}
	ui.presetSelect = widget.NewSelect(presets, nil)
	ui.presetSelect.SetSelected(presetLabel(ui.settings.GetPresetHeight(), loc))
	ui.presetBtn = widget.NewButton(loc.GetText(KeyDownload), ui.onPresetDownload)
	ui.presetCard = widget.NewCard(loc.GetText(KeyBestQuality), "",
		container.NewBorder(nil, nil, nil, ui.presetBtn, ui.presetSelect))

	// Subtitles
	ui.subtitleSelect = widget.NewSelect(nil, nil)
	ui.subFormatSelect = widget.NewSelect(config.SubtitleFormats, nil)
	ui.subFormatSelect.SetSelected(ui.settings.GetSubtitleFormat())
	ui.subtitleBtn = widget.NewButton(loc.GetText(KeyDownload), ui.onSubtitleDownload)
	ui.subtitleCard = widget.NewCard(loc.GetText(KeySubtitles), "",
		container.NewBorder(nil, nil, nil, container.NewHBox(ui.subFormatSelect, ui.subtitleBtn), ui.subtitleSelect))

	ui.setDownloadsEnabled(false)

	// Directory row
	ui.dirLabel = widget.NewLabel(ui.bridge.GetDownloadDir().Value)
	ui.dirLabel.Truncation = fyne.TextTruncateEllipsis
	ui.dirBtn = widget.NewButton(loc.GetText(KeyChange), ui.onChangeDirectory)
	openDirBtn := widget.NewButton(IconFolder, func() {
		ui.openPath(ui.bridge.GetDownloadDir().Value, platform.OpenDirectory)
	})
	openDirBtn.Importance = widget.LowImportance
	dirRow := container.NewBorder(nil, nil, openDirBtn, ui.dirBtn, ui.dirLabel)

	// Progress
	ui.progressBar = widget.NewProgressBar()
	ui.progressBar.Max = 100
	ui.statusLabel = widget.NewLabel(loc.GetText(KeyStatusIdle))
	ui.statusLabel.Truncation = fyne.TextTruncateEllipsis

	top := container.NewVBox(urlRow, ui.infoBox)
	middle := container.NewVScroll(container.NewVBox(ui.formatsCard, ui.presetCard, ui.subtitleCard))
	bottom := container.NewVBox(widget.NewSeparator(), dirRow, ui.progressBar, ui.statusLabel)

	ui.window.SetContent(container.NewBorder(top, bottom, nil, nil, middle))
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	loc := ui.localization
	settingsItem := fyne.NewMenuItem(loc.GetText(KeySettings), ui.onShowSettings)
	historyItem := fyne.NewMenuItem(loc.GetText(KeyHistory), ui.onShowHistory)

	languageMenu := fyne.NewMenu(loc.GetText(KeyLanguage))
	for code, name := range loc.GetAvailableLanguages() {
		langCode := code
		item := fyne.NewMenuItem(name, func() { ui.onLanguageChange(langCode) })
		item.Checked = loc.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, item)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(loc.GetText(KeyFile), settingsItem, historyItem),
		languageMenu,
	))
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	loc := ui.localization
	ui.window.SetTitle(loc.GetText(KeyAppTitle))
	ui.urlEntry.SetPlaceHolder(loc.GetText(KeyEnterURL))
	ui.fetchBtn.SetText(loc.GetText(KeyFetch))
	ui.formatsCard.SetTitle(loc.GetText(KeyFormats))
	ui.presetCard.SetTitle(loc.GetText(KeyBestQuality))
	ui.subtitleCard.SetTitle(loc.GetText(KeySubtitles))
	ui.presetBtn.SetText(loc.GetText(KeyDownload))
	ui.subtitleBtn.SetText(loc.GetText(KeyDownload))
	ui.dirBtn.SetText(loc.GetText(KeyChange))

	selected := presetHeight(ui.presetSelect.Selected)
	presets := make([]string, 0, len(config.PresetHeights))
	for _, h := range config.PresetHeights {
		presets = append(presets, presetLabel(h, loc))
	}
	ui.presetSelect.SetOptions(presets)
	ui.presetSelect.SetSelected(presetLabel(selected, loc))

	ui.formatList.Refresh()
	ui.renderProgress(ui.bridge.GetProgress().Value)
}

// validateURL accepts empty input so the entry is not flagged while typing
func (ui *RootUI) validateURL(input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}
	if !platform.IsYouTubeURL(input) {
		return bridge.ErrNotYouTube
	}
	return nil
}

// onFetchClick resolves the entered URL in the background
func (ui *RootUI) onFetchClick() {
	urlText := strings.TrimSpace(ui.urlEntry.Text)
	if urlText == "" {
		ui.showError(errors.New(ui.localization.GetText(KeyPleaseEnterURL)))
		return
	}

	ui.fetchBtn.Disable()
	ui.setDownloadsEnabled(false)
	go func() {
		res := ui.bridge.FetchInfo(ui.ctx, urlText)
		fyne.Do(func() {
			ui.fetchBtn.Enable()
			if res.Err != nil {
				log.Printf("[ui] fetch failed: %v", res.Err)
				ui.showError(res.Err)
				// the previous video is still the session
				if _, info := ui.bridge.Session(); info != nil {
					ui.setDownloadsEnabled(true)
				}
				return
			}
			ui.renderInfo(res.Value)
		})
	}()
}

// renderInfo shows the fetched video
func (ui *RootUI) renderInfo(info *model.VideoInfo) {
	ui.titleLabel.SetText(info.Title)
	ui.metaLabel.SetText(metaLine(info, ui.localization))
	ui.infoBox.Show()

	ui.formats = info.Formats
	ui.formatList.UnselectAll()
	ui.formatList.Refresh()

	labels, byLabel := subtitleChoices(info.Subtitles)
	ui.subtitleByLabel = byLabel
	ui.subtitleSelect.SetOptions(labels)
	if len(labels) > 0 {
		ui.subtitleSelect.SetSelected(labels[0])
	} else {
		ui.subtitleSelect.ClearSelected()
		ui.subtitleSelect.PlaceHolder = ui.localization.GetText(KeyNoSubtitles)
		ui.subtitleSelect.Refresh()
	}

	ui.setDownloadsEnabled(true)
	if len(labels) == 0 {
		ui.subtitleBtn.Disable()
	}
}

func (ui *RootUI) setDownloadsEnabled(enabled bool) {
	for _, b := range []*widget.Button{ui.presetBtn, ui.subtitleBtn} {
		if enabled {
			b.Enable()
		} else {
			b.Disable()
		}
	}
}

func (ui *RootUI) createFormatItem() fyne.CanvasObject {
	quality := widget.NewLabel("")
	quality.TextStyle = fyne.TextStyle{Bold: true}
	detail := widget.NewLabel("")
	detail.Truncation = fyne.TextTruncateEllipsis
	btn := widget.NewButton(ui.localization.GetText(KeyDownload), nil)
	left := container.NewGridWrap(fyne.NewSize(QualityLabelWidth, quality.MinSize().Height), quality)
	return container.NewBorder(nil, nil, left, btn, detail)
}

func (ui *RootUI) updateFormatItem(id widget.ListItemID, obj fyne.CanvasObject) {
	if id < 0 || id >= len(ui.formats) {
		return
	}
	f := ui.formats[id]

	row := obj.(*fyne.Container)
	var quality, detail *widget.Label
	var btn *widget.Button
	for _, o := range row.Objects {
		switch w := o.(type) {
		case *widget.Label:
			detail = w
		case *widget.Button:
			btn = w
		case *fyne.Container:
			quality = w.Objects[0].(*widget.Label)
		}
	}

	quality.SetText(f.Quality)
	detail.SetText(formatDetail(f))
	btn.SetText(ui.localization.GetText(KeyDownload))
	btn.OnTapped = func() { ui.onFormatDownload(f) }
}

// onFormatDownload dispatches one listed format
func (ui *RootUI) onFormatDownload(f model.FormatDescriptor) {
	ui.afterDispatch(ui.bridge.DownloadFormat(f.FormatID, string(f.Type)))
}

// onPresetDownload dispatches the selected best-quality preset
func (ui *RootUI) onPresetDownload() {
	ui.afterDispatch(ui.bridge.DownloadPreset(presetHeight(ui.presetSelect.Selected)))
}

// onSubtitleDownload dispatches the selected subtitle track
func (ui *RootUI) onSubtitleDownload() {
	sub, ok := ui.subtitleByLabel[ui.subtitleSelect.Selected]
	if !ok {
		return
	}
	ui.afterDispatch(ui.bridge.DownloadSubtitle(sub.Lang, ui.subFormatSelect.Selected, sub.IsAuto))
}

func (ui *RootUI) afterDispatch(res bridge.Result[bridge.JobRef]) {
	if res.Err != nil {
		ui.showError(res.Err)
		return
	}
	log.Printf("[ui] job %s dispatched", res.Value.JobID)
	ui.renderProgress(ui.bridge.GetProgress().Value)
}

// onChangeDirectory runs select_directory off the UI goroutine because the
// picker blocks until the dialog closes
func (ui *RootUI) onChangeDirectory() {
	go func() {
		res := ui.bridge.SelectDirectory(ui.ctx)
		fyne.Do(func() {
			if res.Err != nil {
				if !errors.Is(res.Err, bridge.ErrCancelled) {
					ui.showError(res.Err)
				}
				return
			}
			ui.dirLabel.SetText(res.Value.Path)
		})
	}()
}

// pollProgress mirrors get_progress into the status bar
func (ui *RootUI) pollProgress(ctx context.Context) {
	ticker := time.NewTicker(ProgressPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ps := ui.bridge.GetProgress().Value
			fyne.Do(func() { ui.renderProgress(ps) })
		}
	}
}

func (ui *RootUI) renderProgress(ps model.ProgressState) {
	ui.progressBar.SetValue(ps.Percent)
	ui.statusLabel.SetText(progressText(ps, ui.localization))
	if ps.Status == model.StatusError && ui.lastStatus != model.StatusError {
		ui.statusLabel.Importance = widget.DangerImportance
		ui.statusLabel.Refresh()
	} else if ps.Status != model.StatusError && ui.lastStatus == model.StatusError {
		ui.statusLabel.Importance = widget.MediumImportance
		ui.statusLabel.Refresh()
	}
	ui.lastStatus = ps.Status
}

// onJobFinished is called from the job goroutine
func (ui *RootUI) onJobFinished(job *download.Job) {
	if err := job.Err(); err != nil {
		fyne.CurrentApp().SendNotification(&fyne.Notification{
			Title:   ui.localization.GetText(KeyDownloadFailed),
			Content: err.Error(),
		})
		return
	}

	path := job.Filename()
	if path != "" {
		if found, err := platform.FindFileWithFallback(path); err == nil {
			path = found
		}
	}

	fyne.CurrentApp().SendNotification(&fyne.Notification{
		Title:   ui.localization.GetText(KeyDownloadCompleted),
		Content: job.Title,
	})

	if ui.settings.GetAutoRevealOnComplete() && path != "" {
		if err := platform.OpenFileInManager(path); err != nil {
			log.Printf("[ui] reveal %s: %v", path, err)
		}
	}
	fyne.Do(func() { ui.showToastNotification(job.Title, path) })
}

// showToastNotification shows a completion toast with reveal/open actions
func (ui *RootUI) showToastNotification(title, path string) {
	titleLabel := widget.NewLabel(ui.localization.GetText(KeyDownloadCompleted))
	titleLabel.TextStyle = fyne.TextStyle{Bold: true}

	messageLabel := widget.NewLabel(title)
	messageLabel.Truncation = fyne.TextTruncateEllipsis

	revealBtn := widget.NewButton(ui.localization.GetText(KeyReveal), func() { ui.openPath(path, platform.OpenFileInManager) })
	revealBtn.Importance = widget.HighImportance
	openBtn := widget.NewButton(ui.localization.GetText(KeyOpen), func() { ui.openPath(path, platform.OpenFileWithDefaultApp) })
	if path == "" {
		revealBtn.Disable()
		openBtn.Disable()
	}

	var toast *widget.PopUp
	closeBtn := widget.NewButton(IconClose, func() { toast.Hide() })
	closeBtn.Importance = widget.LowImportance

	content := container.NewVBox(
		container.NewBorder(nil, nil, titleLabel, closeBtn),
		messageLabel,
		container.NewHBox(revealBtn, openBtn),
	)
	toast = widget.NewPopUp(content, ui.window.Canvas())

	canvasSize := ui.window.Canvas().Size()
	toast.Resize(fyne.NewSize(ToastWidth, ToastHeight))
	toast.Move(fyne.NewPos(canvasSize.Width-ToastWidth-ToastMargin, ToastMargin))
	toast.Show()

	time.AfterFunc(ToastAutoHide, func() {
		fyne.Do(toast.Hide)
	})
}

func (ui *RootUI) openPath(path string, open func(string) error) {
	if err := open(path); err != nil {
		log.Printf("[ui] open %s: %v", path, err)
		ui.showError(errors.New(ui.localization.GetText(KeyErrorOpeningFile) + ": " + err.Error()))
	}
}

// onShowSettings opens the settings dialog
func (ui *RootUI) onShowSettings() {
	before := ui.settings.GetDownloadDirectory()
	NewSettingsDialog(ui.settings, ui.localization, ui.window, func() {
		if dir := ui.settings.GetDownloadDirectory(); dir != before {
			if res := ui.bridge.SetDownloadDir(dir); res.Err != nil {
				ui.showError(res.Err)
			} else {
				ui.dirLabel.SetText(res.Value)
			}
		}
		ui.subFormatSelect.SetSelected(ui.settings.GetSubtitleFormat())
		ui.presetSelect.SetSelected(presetLabel(ui.settings.GetPresetHeight(), ui.localization))
		ui.localization.SetLanguage(ui.settings.GetLanguage())
		ui.refreshUITexts()
		ui.createMenu()
	}).Show()
}

// onShowHistory lists recent downloads
func (ui *RootUI) onShowHistory() {
	go func() {
		res := ui.bridge.GetHistory(ui.ctx, 0)
		fyne.Do(func() {
			if res.Err != nil {
				ui.showError(res.Err)
				return
			}
			ui.showHistoryDialog(res.Value)
		})
	}()
}

func (ui *RootUI) showHistoryDialog(entries []model.HistoryEntry) {
	var content fyne.CanvasObject
	if len(entries) == 0 {
		content = widget.NewLabel(ui.localization.GetText(KeyNoHistory))
	} else {
		list := widget.NewList(
			func() int { return len(entries) },
			func() fyne.CanvasObject {
				l := widget.NewLabel("")
				l.Truncation = fyne.TextTruncateEllipsis
				return l
			},
			func(id widget.ListItemID, obj fyne.CanvasObject) {
				label := obj.(*widget.Label)
				label.SetText(historyLine(entries[id]))
				if entries[id].Status == model.StatusError {
					label.Importance = widget.DangerImportance
				} else {
					label.Importance = widget.MediumImportance
				}
				label.Refresh()
			},
		)
		list.OnSelected = func(id widget.ListItemID) {
			if p := entries[id].Filename; p != "" {
				ui.openPath(p, platform.OpenFileInManager)
			}
			list.UnselectAll()
		}
		content = list
	}

	d := dialog.NewCustom(ui.localization.GetText(KeyHistory), IconClose, content, ui.window)
	d.Resize(fyne.NewSize(HistoryDialogWidth, HistoryDialogHeight))
	d.Show()
}

func (ui *RootUI) showError(err error) {
	dialog.ShowError(err, ui.window)
}
