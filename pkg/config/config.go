/*
Package config manages TOML config for rankjump.

	[api]
	base_url = "https://steamrank-backend.onrender.com/api"
	rankings_path = "/rankings"
	search_path = "/search"
	timeout_ms = 15000

	[search]
	mode = "local"
	max_suggestions = 8
	rate_per_sec = 4.0

	[view]
	height = 15
	scroll_frames = 6
	frame_interval_ms = 30
	plain = false

	[server]
	http_addr = "127.0.0.1:8087"

The file is created with defaults when missing. A file with syntax errors is
recovered section by section; anything unreadable keeps its default.
*/
package config

import (
	"path/filepath"
	"time"

	"github.com/bastiangx/rankjump/internal/utils"
	"github.com/bastiangx/rankjump/pkg/ranking"
	"github.com/bastiangx/rankjump/pkg/suggest"
	"github.com/charmbracelet/log"
)

// AppName names the config directory.
const AppName = "rankjump"

// Config holds the entire config structure
type Config struct {
	API    APIConfig    `toml:"api"`
	Search SearchConfig `toml:"search"`
	View   ViewConfig   `toml:"view"`
	Server ServerConfig `toml:"server"`
}

// APIConfig points at the remote ranking service.
type APIConfig struct {
	BaseURL      string `toml:"base_url"`
	RankingsPath string `toml:"rankings_path"`
	SearchPath   string `toml:"search_path"`
	TimeoutMs    int    `toml:"timeout_ms"`
}

// SearchConfig holds suggestion options.
type SearchConfig struct {
	Mode           string  `toml:"mode"`
	MaxSuggestions int     `toml:"max_suggestions"`
	RatePerSec     float64 `toml:"rate_per_sec"`
}

// ViewConfig holds terminal list options.
type ViewConfig struct {
	Height          int  `toml:"height"`
	ScrollFrames    int  `toml:"scroll_frames"`
	FrameIntervalMs int  `toml:"frame_interval_ms"`
	Plain           bool `toml:"plain"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	HTTPAddr string `toml:"http_addr"`
}

// Timeout bounds one ranking request; 0 means none.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// FrameInterval is the delay between scroll animation frames.
func (c ViewConfig) FrameInterval() time.Duration {
	return time.Duration(c.FrameIntervalMs) * time.Millisecond
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:      ranking.DefaultBaseURL,
			RankingsPath: ranking.DefaultRankingsPath,
			SearchPath:   ranking.DefaultSearchPath,
			TimeoutMs:    15000,
		},
		Search: SearchConfig{
			Mode:           string(suggest.ModeLocal),
			MaxSuggestions: suggest.DefaultLimit,
			RatePerSec:     4,
		},
		View: ViewConfig{
			Height:          15,
			ScrollFrames:    6,
			FrameIntervalMs: 30,
			Plain:           false,
		},
		Server: ServerConfig{
			HTTPAddr: "127.0.0.1:8087",
		},
	}
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() string {
	return filepath.Join(utils.ConfigDir(AppName), "config.toml")
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/rankjump/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if utils.FileExists(customConfigPath) {
			config, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s. Trying default path...", customConfigPath)
		}
	}

	defaultPath := GetDefaultConfigPath()
	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file, then validates.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		config = tryPartialParse(configPath)
	}
	config.normalize()
	return config, nil
}

// tryPartialParse keeps whatever sections still decode.
func tryPartialParse(configPath string) *Config {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config
	}

	if section, ok := utils.ExtractSection(tempConfig, "api"); ok {
		extractAPIConfig(section, &config.API)
	}
	if section, ok := utils.ExtractSection(tempConfig, "search"); ok {
		extractSearchConfig(section, &config.Search)
	}
	if section, ok := utils.ExtractSection(tempConfig, "view"); ok {
		extractViewConfig(section, &config.View)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		if val, ok := utils.ExtractString(section, "http_addr"); ok {
			config.Server.HTTPAddr = val
		}
	}
	return config
}

func extractAPIConfig(data map[string]any, api *APIConfig) {
	if val, ok := utils.ExtractString(data, "base_url"); ok {
		api.BaseURL = val
	}
	if val, ok := utils.ExtractString(data, "rankings_path"); ok {
		api.RankingsPath = val
	}
	if val, ok := utils.ExtractString(data, "search_path"); ok {
		api.SearchPath = val
	}
	if val, ok := utils.ExtractInt64(data, "timeout_ms"); ok {
		api.TimeoutMs = val
	}
}

func extractSearchConfig(data map[string]any, search *SearchConfig) {
	if val, ok := utils.ExtractString(data, "mode"); ok {
		search.Mode = val
	}
	if val, ok := utils.ExtractInt64(data, "max_suggestions"); ok {
		search.MaxSuggestions = val
	}
	if val, ok := utils.ExtractFloat(data, "rate_per_sec"); ok {
		search.RatePerSec = val
	}
}

func extractViewConfig(data map[string]any, view *ViewConfig) {
	if val, ok := utils.ExtractInt64(data, "height"); ok {
		view.Height = val
	}
	if val, ok := utils.ExtractInt64(data, "scroll_frames"); ok {
		view.ScrollFrames = val
	}
	if val, ok := utils.ExtractInt64(data, "frame_interval_ms"); ok {
		view.FrameIntervalMs = val
	}
	if val, ok := utils.ExtractBool(data, "plain"); ok {
		view.Plain = val
	}
}

// normalize replaces out of range values with defaults.
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.API.BaseURL == "" {
		c.API.BaseURL = def.API.BaseURL
	}
	if c.API.TimeoutMs < 0 {
		c.API.TimeoutMs = def.API.TimeoutMs
	}
	if _, err := suggest.ParseMode(c.Search.Mode); err != nil {
		log.Warnf("%v, using %s", err, def.Search.Mode)
		c.Search.Mode = def.Search.Mode
	}
	if c.Search.MaxSuggestions <= 0 {
		c.Search.MaxSuggestions = def.Search.MaxSuggestions
	}
	if c.Search.RatePerSec < 0 {
		c.Search.RatePerSec = 0
	}
	if c.View.Height < 3 {
		c.View.Height = def.View.Height
	}
	if c.View.ScrollFrames < 1 {
		c.View.ScrollFrames = 1
	}
	if c.View.FrameIntervalMs <= 0 {
		c.View.FrameIntervalMs = def.View.FrameIntervalMs
	}
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		return "builtin defaults"
	}
	return utils.GetAbsolutePath(configPath)
}
