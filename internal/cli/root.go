// Package cli implements the yt-desktop command line. Without a subcommand
// the desktop window is opened; the subcommands drive the same bridge
// headlessly.
package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ytget/yt-desktop/internal/config"
	"github.com/ytget/yt-desktop/internal/engine"
)

// RootOpts holds global CLI options.
type RootOpts struct {
	Config      string
	LogFile     string
	Engine      string
	DownloadDir string
	JSONOut     bool
}

// GUIFunc opens the desktop window with the loaded configuration and
// blocks until it is closed.
type GUIFunc func(ctx context.Context, cfg config.Config, ro *RootOpts) error

// Execute runs the CLI with the given version string. gui may be nil for
// builds without a window toolkit.
func Execute(version string, gui GUIFunc) error {
	ro := &RootOpts{}
	ctx, cancel := signalContext(context.Background())
	defer cancel()

	var logFile *os.File
	root := &cobra.Command{
		Use:           "yt-desktop",
		Short:         "Download YouTube videos, audio and subtitles",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			f, err := setupLogging(ro.LogFile)
			if err != nil {
				return err
			}
			logFile = f
			return nil
		},
	}

	// Global flags
	root.PersistentFlags().StringVar(&ro.Config, "config", "", "Path to config file (JSON or YAML)")
	root.PersistentFlags().StringVar(&ro.LogFile, "log-file", "", "Write logs to file (in addition to stderr)")
	root.PersistentFlags().StringVar(&ro.Engine, "engine", "", "Extraction engine: "+engineChoices+" (overrides config)")
	root.PersistentFlags().StringVarP(&ro.DownloadDir, "output", "o", "", "Download directory (overrides config)")
	root.PersistentFlags().BoolVar(&ro.JSONOut, "json", false, "Print machine-readable JSON")

	// Add commands
	root.AddCommand(newInfoCmd(ctx, ro, version))
	root.AddCommand(newGetCmd(ctx, ro, version))
	root.AddCommand(newSubCmd(ctx, ro, version))
	root.AddCommand(newServeCmd(ctx, ro, version))
	root.AddCommand(newHistoryCmd(ctx, ro, version))
	root.AddCommand(newConfigCmd(ro))
	root.AddCommand(newVersionCmd(version))

	// Open the window when no subcommand is given
	root.Args = cobra.NoArgs
	root.RunE = func(cmd *cobra.Command, args []string) error {
		if gui == nil {
			return cmd.Help()
		}
		cfg, err := loadConfig(ro)
		if err != nil {
			return err
		}
		return gui(ctx, cfg, ro)
	}
	root.SetHelpCommand(&cobra.Command{Use: "help", Hidden: true})

	err := root.ExecuteContext(ctx)
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}

// loadConfig reads the config file and applies flag overrides
func loadConfig(ro *RootOpts) (config.Config, error) {
	cfg, err := config.Load(ro.Config)
	if err != nil {
		return cfg, err
	}
	if ro.Engine != "" {
		cfg.Engine = ro.Engine
	}
	if ro.DownloadDir != "" {
		cfg.DownloadDir = ro.DownloadDir
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// setupLogging tees the standard logger into path when one is given
func setupLogging(path string) (*os.File, error) {
	log.SetFlags(log.LstdFlags)
	if path == "" {
		return nil, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(io.MultiWriter(os.Stderr, f))
	return f, nil
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-ch:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// engineChoices is shown in flag help
var engineChoices = engine.NameYTDLP + "|" + engine.NameNative
