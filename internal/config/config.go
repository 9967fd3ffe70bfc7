package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"tricalc/internal/analysis"
)

// Config represents the application configuration
type Config struct {
	Defaults DefaultsConfig `json:"defaults" mapstructure:"defaults"`
	Strava   StravaConfig   `json:"strava" mapstructure:"strava"`
	Display  DisplayConfig  `json:"display" mapstructure:"display"`
}

// DefaultsConfig holds the calculator inputs restored on start and on reset
type DefaultsConfig struct {
	Mode       string  `json:"mode" mapstructure:"mode"`
	Preset     string  `json:"preset" mapstructure:"preset"`
	SwimMeters float64 `json:"swim_meters" mapstructure:"swim_meters"`
	SwimPace   string  `json:"swim_pace" mapstructure:"swim_pace"`
	SwimTarget string  `json:"swim_target" mapstructure:"swim_target"`
	BikeKm     float64 `json:"bike_km" mapstructure:"bike_km"`
	BikeSpeed  float64 `json:"bike_speed" mapstructure:"bike_speed"`
	BikeTarget string  `json:"bike_target" mapstructure:"bike_target"`
	RunKm      float64 `json:"run_km" mapstructure:"run_km"`
	RunPace    string  `json:"run_pace" mapstructure:"run_pace"`
	RunTarget  string  `json:"run_target" mapstructure:"run_target"`
}

// StravaConfig holds Strava API credentials
type StravaConfig struct {
	ClientID     string `json:"client_id" mapstructure:"client_id"`
	ClientSecret string `json:"client_secret" mapstructure:"client_secret"`
	ImportDays   int    `json:"import_days" mapstructure:"import_days"`
}

// DisplayConfig holds display preferences
type DisplayConfig struct {
	ChartHeight int `json:"chart_height" mapstructure:"chart_height"`
	ChartPoints int `json:"chart_points" mapstructure:"chart_points"`
}

// Calculation modes
const (
	ModeTime = "time"
	ModePace = "pace"
)

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

const envPrefix = "TRICALC"

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Defaults: DefaultsConfig{
			Mode:       ModeTime,
			SwimMeters: 750,
			SwimPace:   "2:00",
			SwimTarget: "0:30:00",
			BikeKm:     20,
			BikeSpeed:  30,
			BikeTarget: "0:40:00",
			RunKm:      5,
			RunPace:    "6:00",
			RunTarget:  "0:30:00",
		},
		Strava: StravaConfig{
			ImportDays: 90,
		},
		Display: DisplayConfig{
			ChartHeight: 10,
			ChartPoints: 40,
		},
	}
}

// Load reads the configuration from ~/.tricalc/config.json.
// Values missing from the file fall back to DefaultConfig and any key can be
// overridden from the environment, e.g. TRICALC_STRAVA_CLIENT_ID.
func Load() (*Config, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration from path
func LoadFrom(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoConfig
		}
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil, ErrNoConfig
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault is Load with ErrNoConfig mapped to the defaults, still
// honoring environment overrides
func LoadOrDefault() (*Config, error) {
	cfg, err := Load()
	if errors.Is(err, ErrNoConfig) {
		var fallback Config
		if err := newViper().Unmarshal(&fallback); err != nil {
			return nil, fmt.Errorf("applying defaults: %w", err)
		}
		return &fallback, nil
	}
	return cfg, err
}

// newViper returns a viper instance with every key registered, so that
// AutomaticEnv can override keys absent from the file
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := DefaultConfig()
	v.SetDefault("defaults.mode", d.Defaults.Mode)
	v.SetDefault("defaults.preset", d.Defaults.Preset)
	v.SetDefault("defaults.swim_meters", d.Defaults.SwimMeters)
	v.SetDefault("defaults.swim_pace", d.Defaults.SwimPace)
	v.SetDefault("defaults.swim_target", d.Defaults.SwimTarget)
	v.SetDefault("defaults.bike_km", d.Defaults.BikeKm)
	v.SetDefault("defaults.bike_speed", d.Defaults.BikeSpeed)
	v.SetDefault("defaults.bike_target", d.Defaults.BikeTarget)
	v.SetDefault("defaults.run_km", d.Defaults.RunKm)
	v.SetDefault("defaults.run_pace", d.Defaults.RunPace)
	v.SetDefault("defaults.run_target", d.Defaults.RunTarget)
	v.SetDefault("strava.client_id", d.Strava.ClientID)
	v.SetDefault("strava.client_secret", d.Strava.ClientSecret)
	v.SetDefault("strava.import_days", d.Strava.ImportDays)
	v.SetDefault("display.chart_height", d.Display.ChartHeight)
	v.SetDefault("display.chart_points", d.Display.ChartPoints)
	return v
}

// Save writes the configuration to ~/.tricalc/config.json
func Save(cfg *Config) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

// SaveTo writes the configuration to path
func SaveTo(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample creates an example config file if none exists
func CreateExample() error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil {
		return nil // Config exists, don't overwrite
	}

	example := DefaultConfig()
	example.Strava.ClientID = "YOUR_CLIENT_ID"
	example.Strava.ClientSecret = "YOUR_CLIENT_SECRET"

	return Save(&example)
}

// Validate checks the calculator defaults and display settings
func (c *Config) Validate() error {
	d := c.Defaults
	if d.Mode != "" && d.Mode != ModeTime && d.Mode != ModePace {
		return fmt.Errorf("defaults.mode must be %q or %q, got %q", ModeTime, ModePace, d.Mode)
	}
	if d.Preset != "" && !analysis.ParseCategory(d.Preset).Valid() {
		return fmt.Errorf("defaults.preset must be one of sprint, olympic, half, full, got %q", d.Preset)
	}

	if d.SwimMeters < 0 || d.BikeKm < 0 || d.RunKm < 0 {
		return errors.New("defaults distances must not be negative")
	}
	if d.BikeSpeed < 0 {
		return fmt.Errorf("defaults.bike_speed must not be negative, got %v", d.BikeSpeed)
	}

	paces := []struct{ key, value string }{
		{"defaults.swim_pace", d.SwimPace},
		{"defaults.run_pace", d.RunPace},
	}
	for _, p := range paces {
		if p.value == "" {
			continue
		}
		if _, ok := analysis.ParsePace(p.value); !ok {
			return fmt.Errorf("%s must look like \"M:SS\", got %q", p.key, p.value)
		}
	}

	targets := []struct{ key, value string }{
		{"defaults.swim_target", d.SwimTarget},
		{"defaults.bike_target", d.BikeTarget},
		{"defaults.run_target", d.RunTarget},
	}
	for _, tgt := range targets {
		if tgt.value == "" {
			continue
		}
		if _, ok := analysis.ParseDuration(tgt.value); !ok {
			return fmt.Errorf("%s must look like \"H:MM:SS\", got %q", tgt.key, tgt.value)
		}
	}

	if c.Display.ChartHeight < 0 || c.Display.ChartPoints < 0 {
		return errors.New("display.chart_height and display.chart_points must not be negative")
	}

	return nil
}

// ValidateStrava checks that Strava credentials are configured
func (c *Config) ValidateStrava() error {
	if c.Strava.ClientID == "" || c.Strava.ClientID == "YOUR_CLIENT_ID" {
		return errors.New("strava.client_id is required - get it from https://www.strava.com/settings/api")
	}
	if c.Strava.ClientSecret == "" || c.Strava.ClientSecret == "YOUR_CLIENT_SECRET" {
		return errors.New("strava.client_secret is required - get it from https://www.strava.com/settings/api")
	}
	return nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".tricalc"), nil
}
