package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ytget/yt-desktop/internal/engine"
	"github.com/ytget/yt-desktop/internal/platform"
)

// FileName is the default config file inside the app data directory
const FileName = "config.yaml"

// Config holds file-based settings shared by the GUI, the CLI and the
// HTTP bridge. Zero values are replaced by defaults on Load.
type Config struct {
	DownloadDir string       `yaml:"download_dir" json:"download_dir"`
	DataDir     string       `yaml:"data_dir" json:"data_dir"`
	Engine      string       `yaml:"engine" json:"engine"`
	AutoInstall bool         `yaml:"auto_install" json:"auto_install"`
	Retries     int          `yaml:"retries" json:"retries"`
	HTTPTimeout string       `yaml:"http_timeout" json:"http_timeout"`
	Language    string       `yaml:"language" json:"language"`
	History     bool         `yaml:"history" json:"history"`
	Server      ServerConfig `yaml:"server" json:"server"`
}

// ServerConfig configures the local HTTP bridge
type ServerConfig struct {
	Addr           string   `yaml:"addr" json:"addr"`
	Port           int      `yaml:"port" json:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins"`
}

// Default returns the built-in configuration
func Default() Config {
	downloads, err := platform.GetHomeDownloadsDir()
	if err != nil {
		downloads = filepath.Join(os.TempDir(), "Downloads")
	}
	data, err := platform.AppDataDir()
	if err != nil {
		data = filepath.Join(os.TempDir(), platform.AppDirName)
	}
	return Config{
		DownloadDir: downloads,
		DataDir:     data,
		Engine:      engine.NameYTDLP,
		AutoInstall: true,
		Retries:     0,
		HTTPTimeout: "30s",
		Language:    DefaultLanguage,
		History:     true,
		Server: ServerConfig{
			Addr: "127.0.0.1",
			Port: 8765,
		},
	}
}

// DefaultPath returns the config file location in the app data directory
func DefaultPath() (string, error) {
	dir, err := platform.AppDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads path, or the default location when path is empty. A missing
// file yields the defaults. Format follows the extension: .json is JSON,
// anything else YAML.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if isJSON(path) {
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("invalid JSON config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("invalid YAML config file: %w", err)
		}
	}

	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to path, creating parent directories
func (c Config) Save(path string) error {
	var data []byte
	var err error
	if isJSON(path) {
		data, err = json.MarshalIndent(c, "", "  ")
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), platform.DefaultDirPermissions); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("could not write config file: %w", err)
	}
	return nil
}

// Validate checks value ranges
func (c Config) Validate() error {
	switch c.Engine {
	case engine.NameYTDLP, engine.NameNative:
	default:
		return fmt.Errorf("unknown engine %q (expected %s or %s)", c.Engine, engine.NameYTDLP, engine.NameNative)
	}
	if c.Retries < 0 {
		return fmt.Errorf("retries must be >= 0, got %d", c.Retries)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}
	return nil
}

// Timeout parses HTTPTimeout; empty means no timeout
func (c Config) Timeout() (time.Duration, error) {
	if strings.TrimSpace(c.HTTPTimeout) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.HTTPTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid http_timeout %q: %w", c.HTTPTimeout, err)
	}
	return d, nil
}

// ServerAddr returns host:port for the HTTP bridge
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Addr, c.Server.Port)
}

func (c *Config) fillDefaults() {
	def := Default()
	if c.DownloadDir == "" {
		c.DownloadDir = def.DownloadDir
	}
	if c.DataDir == "" {
		c.DataDir = def.DataDir
	}
	if c.Engine == "" {
		c.Engine = def.Engine
	}
	if c.Language == "" {
		c.Language = def.Language
	}
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Server.Port == 0 {
		c.Server.Port = def.Server.Port
	}
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
