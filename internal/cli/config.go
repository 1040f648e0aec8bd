package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ytget/yt-desktop/internal/config"
)

func newConfigCmd(ro *RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(newConfigInitCmd(ro))
	cmd.AddCommand(newConfigShowCmd(ro))
	cmd.AddCommand(newConfigPathCmd(ro))

	return cmd
}

// configPath returns --config or the default location
func configPath(ro *RootOpts) (string, error) {
	if ro.Config != "" {
		return ro.Config, nil
	}
	return config.DefaultPath()
}

func newConfigInitCmd(ro *RootOpts) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		Long: `Creates a default configuration file in the application data directory
(or at --config).

With --json a JSON file is written instead of YAML. Settings changed in
the desktop window take precedence over the file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath(ro)
			if err != nil {
				return fmt.Errorf("could not resolve config path: %w", err)
			}
			if ro.JSONOut && ro.Config == "" {
				path = path[:len(path)-len(filepath.Ext(path))] + ".json"
			}

			// Check if file exists
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config file already exists: %s\nUse --force to overwrite", path)
			}

			if err := config.Default().Save(path); err != nil {
				return err
			}

			fmt.Printf("Created config file: %s\n", path)
			fmt.Println()
			fmt.Println("Edit this file to set your defaults, for example:")
			fmt.Println("  - download_dir and engine")
			fmt.Println("  - server.port and server.allowed_origins for 'serve'")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config file")

	return cmd
}

func newConfigShowCmd(ro *RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath(ro)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(ro)
			if err != nil {
				return err
			}

			if _, err := os.Stat(path); err != nil {
				fmt.Printf("# No config file at %s, showing defaults\n", path)
			} else {
				fmt.Printf("# Config file: %s\n", path)
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		},
	}
}

func newConfigPathCmd(ro *RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath(ro)
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
}
