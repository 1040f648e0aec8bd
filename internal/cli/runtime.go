package cli

import (
	"context"
	"errors"
	"log"

	"github.com/ytget/yt-desktop/internal/bridge"
	"github.com/ytget/yt-desktop/internal/config"
	"github.com/ytget/yt-desktop/internal/download"
	"github.com/ytget/yt-desktop/internal/engine"
	"github.com/ytget/yt-desktop/internal/history"
	"github.com/ytget/yt-desktop/internal/platform"
	"github.com/ytget/yt-desktop/internal/progress"
)

// Brand is the product name reported by get_app_info
const Brand = "YT Desktop"

// RuntimeOptions tweaks NewRuntime
type RuntimeOptions struct {
	Version string
	// OnDownloadDirChange is forwarded to the bridge
	OnDownloadDirChange func(dir string)
}

// Runtime is the wired core shared by the window, the subcommands and the
// HTTP bridge.
type Runtime struct {
	Config   config.Config
	Engine   engine.Extractor
	Store    *progress.Store
	Service  *download.Service
	Resolver *download.Resolver
	History  *history.Store // nil when history is disabled or unavailable
	Bridge   *bridge.Bridge
}

// NewRuntime builds the engine and every component on top of it
func NewRuntime(ctx context.Context, cfg config.Config, opts RuntimeOptions) (*Runtime, error) {
	timeout, err := cfg.Timeout()
	if err != nil {
		return nil, err
	}
	ex, err := engine.New(ctx, engine.Options{
		Name:        cfg.Engine,
		AutoInstall: cfg.AutoInstall,
		HTTPTimeout: timeout,
	})
	if err != nil {
		return nil, err
	}

	if err := platform.CreateDirectoryIfNotExists(cfg.DownloadDir); err != nil {
		log.Printf("[app] failed to ensure downloads dir: %v", err)
	}

	rt := &Runtime{
		Config: cfg,
		Engine: ex,
		Store:  progress.NewStore(),
	}
	rt.Service = download.NewService(ex, rt.Store, cfg.DownloadDir)
	rt.Service.SetRetries(cfg.Retries)
	rt.Resolver = download.NewResolver(ex, rt.Store)

	bopts := bridge.Options{
		Resolver:  rt.Resolver,
		Downloads: rt.Service,
		Store:     rt.Store,
		App: bridge.AppInfo{
			Brand:   Brand,
			Version: opts.Version,
			Engine:  ex.Name(),
		},
		OnDownloadDirChange: opts.OnDownloadDirChange,
	}

	if cfg.History {
		h, err := history.Open(cfg.DataDir)
		if err != nil {
			log.Printf("[history] disabled: %v", err)
		} else {
			rt.History = h
			rt.Service.SetRecorder(h)
			bopts.History = h
		}
	}

	rt.Bridge = bridge.New(bopts)
	log.Printf("[app] engine=%s download_dir=%s", ex.Name(), cfg.DownloadDir)
	return rt, nil
}

// Close stops running jobs and closes the history database
func (rt *Runtime) Close(ctx context.Context) error {
	var errs []error
	if err := rt.Service.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if rt.History != nil {
		if err := rt.History.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
