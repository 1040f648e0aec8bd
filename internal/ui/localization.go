package ui

import (
	"strings"

	"fyne.io/fyne/v2/lang"
)

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle          = "app_title"
	KeyFetch             = "fetch"
	KeyDownload          = "download"
	KeySettings          = "settings"
	KeyHistory           = "history"
	KeyFile              = "file"
	KeyLanguage          = "language"
	KeyDownloadDirectory = "download_directory"
	KeyChange            = "change"
	KeyEngine            = "engine"
	KeyPresetHeight      = "preset_height"
	KeySubtitleFormat    = "subtitle_format"
	KeyAutoReveal        = "auto_reveal"
	KeyRestartRequired   = "restart_required"
	KeySave              = "save"
	KeyCancel            = "cancel"
	KeyBrowse            = "browse"
	KeyEnterURL          = "enter_url"
	KeySettingsSaved     = "settings_saved"
	KeyDownloadStarted   = "download_started"
	KeyDownloadCompleted = "download_completed"
	KeyDownloadFailed    = "download_failed"
	KeyErrorOpeningFile  = "error_opening_file"
	KeyReveal            = "reveal"
	KeyOpen              = "open"
	KeyPleaseEnterURL    = "please_enter_url"
	KeyFormats           = "formats"
	KeyBestQuality       = "best_quality"
	KeyBestAvailable     = "best_available"
	KeySubtitles         = "subtitles"
	KeyNoSubtitles       = "no_subtitles"
	KeyNoHistory         = "no_history"
	KeyStatusIdle        = "status_idle"
	KeyStatusFetching    = "status_fetching"
	KeyStatusDownloading = "status_downloading"
	KeyStatusMerging     = "status_merging"
	KeyStatusDone        = "status_done"
	KeyStatusError       = "status_error"
	KeyViews             = "views"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language. "system" picks the OS locale when
// a translation for it exists.
func (l *Localization) SetLanguage(code string) {
	if code == "system" || code == "" {
		code = systemLanguage()
	}

	if _, exists := l.texts[code]; exists {
		l.currentLanguage = code
	} else {
		l.currentLanguage = "en"
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if text, found := l.texts["en"][key]; found {
		return text
	}

	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"zh": "中文",
		"ru": "Русский",
	}
}

// systemLanguage returns the two-letter code of the OS locale
func systemLanguage() string {
	loc := string(lang.SystemLocale())
	if i := strings.IndexAny(loc, "-_"); i > 0 {
		loc = loc[:i]
	}
	return strings.ToLower(loc)
}

// statusKey maps a progress status to its label key
func statusKey(status string) string {
	return "status_" + status
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:          "YT Desktop",
		KeyFetch:             "Fetch",
		KeyDownload:          "Download",
		KeySettings:          "Settings",
		KeyHistory:           "History",
		KeyFile:              "File",
		KeyLanguage:          "Language",
		KeyDownloadDirectory: "Download Directory",
		KeyChange:            "Change",
		KeyEngine:            "Engine",
		KeyPresetHeight:      "Default Quality",
		KeySubtitleFormat:    "Subtitle Format",
		KeyAutoReveal:        "Reveal file when download completes",
		KeyRestartRequired:   "Engine changes apply after restart.",
		KeySave:              "Save",
		KeyCancel:            "Cancel",
		KeyBrowse:            "Browse",
		KeyEnterURL:          "Paste a YouTube link (https://youtube.com/watch?v=...)",
		KeySettingsSaved:     "Settings saved successfully!",
		KeyDownloadStarted:   "Download started",
		KeyDownloadCompleted: "Download completed",
		KeyDownloadFailed:    "Download failed",
		KeyErrorOpeningFile:  "Error opening file",
		KeyReveal:            "Reveal",
		KeyOpen:              "Open",
		KeyPleaseEnterURL:    "Please enter a URL",
		KeyFormats:           "Formats",
		KeyBestQuality:       "Best Quality",
		KeyBestAvailable:     "Best available",
		KeySubtitles:         "Subtitles",
		KeyNoSubtitles:       "No subtitles",
		KeyNoHistory:         "No downloads yet",
		KeyStatusIdle:        "Ready",
		KeyStatusFetching:    "Fetching video info...",
		KeyStatusDownloading: "Downloading",
		KeyStatusMerging:     "Merging streams...",
		KeyStatusDone:        "Done",
		KeyStatusError:       "Error",
		KeyViews:             "views",
	}

	l.texts["zh"] = map[string]string{
		KeyAppTitle:          "YT Desktop",
		KeyFetch:             "解析",
		KeyDownload:          "下载",
		KeySettings:          "设置",
		KeyHistory:           "历史记录",
		KeyFile:              "文件",
		KeyLanguage:          "语言",
		KeyDownloadDirectory: "下载目录",
		KeyChange:            "更改",
		KeyEngine:            "引擎",
		KeyPresetHeight:      "默认画质",
		KeySubtitleFormat:    "字幕格式",
		KeyAutoReveal:        "下载完成后显示文件",
		KeyRestartRequired:   "更换引擎需要重启后生效。",
		KeySave:              "保存",
		KeyCancel:            "取消",
		KeyBrowse:            "浏览",
		KeyEnterURL:          "粘贴 YouTube 链接 (https://youtube.com/watch?v=...)",
		KeySettingsSaved:     "设置已保存！",
		KeyDownloadStarted:   "开始下载",
		KeyDownloadCompleted: "下载完成",
		KeyDownloadFailed:    "下载失败",
		KeyErrorOpeningFile:  "打开文件出错",
		KeyReveal:            "显示",
		KeyOpen:              "打开",
		KeyPleaseEnterURL:    "请输入链接",
		KeyFormats:           "格式",
		KeyBestQuality:       "最佳画质",
		KeyBestAvailable:     "最佳可用",
		KeySubtitles:         "字幕",
		KeyNoSubtitles:       "无字幕",
		KeyNoHistory:         "暂无下载记录",
		KeyStatusIdle:        "就绪",
		KeyStatusFetching:    "正在获取视频信息...",
		KeyStatusDownloading: "下载中",
		KeyStatusMerging:     "正在合并...",
		KeyStatusDone:        "完成",
		KeyStatusError:       "错误",
		KeyViews:             "次观看",
	}

	l.texts["ru"] = map[string]string{
		KeyAppTitle:          "YT Desktop",
		KeyFetch:             "Получить",
		KeyDownload:          "Скачать",
		KeySettings:          "Настройки",
		KeyHistory:           "История",
		KeyFile:              "Файл",
		KeyLanguage:          "Язык",
		KeyDownloadDirectory: "Папка загрузки",
		KeyChange:            "Изменить",
		KeyEngine:            "Движок",
		KeyPresetHeight:      "Качество по умолчанию",
		KeySubtitleFormat:    "Формат субтитров",
		KeyAutoReveal:        "Показывать файл после загрузки",
		KeyRestartRequired:   "Смена движка вступит в силу после перезапуска.",
		KeySave:              "Сохранить",
		KeyCancel:            "Отмена",
		KeyBrowse:            "Обзор",
		KeyEnterURL:          "Вставьте ссылку YouTube (https://youtube.com/watch?v=...)",
		KeySettingsSaved:     "Настройки успешно сохранены!",
		KeyDownloadStarted:   "Загрузка начата",
		KeyDownloadCompleted: "Загрузка завершена",
		KeyDownloadFailed:    "Ошибка загрузки",
		KeyErrorOpeningFile:  "Ошибка открытия файла",
		KeyReveal:            "Показать",
		KeyOpen:              "Открыть",
		KeyPleaseEnterURL:    "Пожалуйста, введите URL",
		KeyFormats:           "Форматы",
		KeyBestQuality:       "Лучшее качество",
		KeyBestAvailable:     "Лучшее доступное",
		KeySubtitles:         "Субтитры",
		KeyNoSubtitles:       "Нет субтитров",
		KeyNoHistory:         "Загрузок пока нет",
		KeyStatusIdle:        "Готово к работе",
		KeyStatusFetching:    "Получение информации...",
		KeyStatusDownloading: "Загрузка",
		KeyStatusMerging:     "Склейка потоков...",
		KeyStatusDone:        "Готово",
		KeyStatusError:       "Ошибка",
		KeyViews:             "просмотров",
	}
}
