package main

import (
	"context"
	"log"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/ytget/yt-desktop/internal/cli"
	"github.com/ytget/yt-desktop/internal/config"
	"github.com/ytget/yt-desktop/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "1.0.0"

const AppID = "com.ytget.yt-desktop"

func main() {
	if err := cli.Execute(version, runGUI); err != nil {
		os.Exit(1)
	}
}

// runGUI opens the desktop window. Preferences saved in the window
// override the config file; command line flags override both.
func runGUI(ctx context.Context, cfg config.Config, ro *cli.RootOpts) error {
	log.Printf("%s v%s starting...", cli.Brand, version)

	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewCompactTheme())

	settings := config.NewSettings(myApp, cfg)
	effective := settings.Effective()
	if ro.Engine != "" {
		effective.Engine = ro.Engine
	}
	if ro.DownloadDir != "" {
		effective.DownloadDir = ro.DownloadDir
	}

	rt, err := cli.NewRuntime(ctx, effective, cli.RuntimeOptions{
		Version:             version,
		OnDownloadDirChange: settings.SetDownloadDirectory,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		rt.Close(shutdownCtx)
	}()

	window := myApp.NewWindow(cli.Brand)
	window.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))
	ui.NewRootUI(window, ui.Options{
		Bridge:   rt.Bridge,
		Settings: settings,
		Jobs:     rt.Service,
	})

	// Ctrl-C in the launching terminal closes the window
	go func() {
		<-ctx.Done()
		fyne.Do(myApp.Quit)
	}()

	window.ShowAndRun()
	return nil
}
