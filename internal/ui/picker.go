package ui

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
)

// folderPicker shows the Fyne folder dialog for the bridge's
// select_directory operation. PickDirectory blocks, so it must not be
// called from the UI goroutine.
type folderPicker struct {
	window fyne.Window
}

type pickResult struct {
	path string
	ok   bool
	err  error
}

// PickDirectory opens the dialog at start and waits for the user
func (p *folderPicker) PickDirectory(ctx context.Context, start string) (string, bool, error) {
	results := make(chan pickResult, 1)

	fyne.Do(func() {
		d := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
			switch {
			case err != nil:
				results <- pickResult{err: err}
			case uri == nil:
				results <- pickResult{}
			default:
				results <- pickResult{path: uri.Path(), ok: true}
			}
		}, p.window)

		if start != "" {
			if lister, err := storage.ListerForURI(storage.NewFileURI(start)); err == nil {
				d.SetLocation(lister)
			}
		}
		d.Resize(fyne.NewSize(SettingsDialogWidth+100, HistoryDialogHeight+60))
		d.Show()
	})

	select {
	case r := <-results:
		return r.path, r.ok, r.err
	case <-ctx.Done():
		return "", false, ctx.Err()
	}
}
