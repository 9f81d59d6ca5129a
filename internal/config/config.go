package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// Cadence is how often each scheduler tick fires. A zero duration disables
// that tick.
type Cadence struct {
	Income   time.Duration `toml:"income" env:"TYCOON_TICK_INCOME" envDefault:"1s"`
	Stocks   time.Duration `toml:"stocks" env:"TYCOON_TICK_STOCKS" envDefault:"5s"`
	Weather  time.Duration `toml:"weather" env:"TYCOON_TICK_WEATHER" envDefault:"30s"`
	Combo    time.Duration `toml:"combo" env:"TYCOON_TICK_COMBO" envDefault:"100ms"`
	Events   time.Duration `toml:"events" env:"TYCOON_TICK_EVENTS" envDefault:"60s"`
	Autosave time.Duration `toml:"autosave" env:"TYCOON_TICK_AUTOSAVE" envDefault:"30s"`
}

func DefaultCadence() Cadence {
	return Cadence{
		Income:   time.Second,
		Stocks:   5 * time.Second,
		Weather:  30 * time.Second,
		Combo:    100 * time.Millisecond,
		Events:   60 * time.Second,
		Autosave: 30 * time.Second,
	}
}

type APIConfig struct {
	Addr            string        `env:"TYCOON_API_ADDR" envDefault:":8080"`
	DatabaseURL     string        `env:"DATABASE_URL"`
	SaveDBPath      string        `env:"TYCOON_SAVE_DB" envDefault:"data/tycoon.db"`
	QueuePath       string        `env:"TYCOON_SYNC_QUEUE" envDefault:"data/sync-queue.json"`
	SupabaseURL     string        `env:"SUPABASE_URL"`
	SupabaseAnonKey string        `env:"SUPABASE_ANON_KEY"`
	TuningFile      string        `env:"TYCOON_TUNING_FILE"`
	LogLevel        string        `env:"TYCOON_LOG_LEVEL" envDefault:"info"`
	RequestTimeout  time.Duration `env:"TYCOON_REQUEST_TIMEOUT" envDefault:"15s"`
	Cadence         Cadence
}

// AuthEnabled reports whether bearer tokens are verified against Supabase.
func (c APIConfig) AuthEnabled() bool {
	return c.SupabaseURL != "" && c.SupabaseAnonKey != ""
}

type SyncConfig struct {
	DatabaseURL string        `env:"DATABASE_URL"`
	SaveDBPath  string        `env:"TYCOON_SAVE_DB" envDefault:"data/tycoon.db"`
	QueuePath   string        `env:"TYCOON_SYNC_QUEUE" envDefault:"data/sync-queue.json"`
	Every       time.Duration `env:"TYCOON_SYNC_EVERY" envDefault:"1m"`
	RunOnce     bool          `env:"TYCOON_SYNC_RUN_ONCE" envDefault:"false"`
	LogLevel    string        `env:"TYCOON_LOG_LEVEL" envDefault:"info"`
}

type CLIConfig struct {
	Home       string `env:"TYCOON_HOME"`
	Slot       string `env:"TYCOON_SLOT" envDefault:"default"`
	TuningFile string `env:"TYCOON_TUNING_FILE"`
	APIURL     string `env:"TYCOON_API_URL" envDefault:"http://localhost:8080"`
	Token      string `env:"TYCOON_TOKEN"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func LoadAPIFromEnv() (APIConfig, error) {
	var cfg APIConfig
	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Addr = port
	}
	cfg.SupabaseURL = strings.TrimRight(strings.TrimSpace(cfg.SupabaseURL), "/")
	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	if (cfg.SupabaseURL == "") != (strings.TrimSpace(cfg.SupabaseAnonKey) == "") {
		return cfg, fmt.Errorf("SUPABASE_URL and SUPABASE_ANON_KEY must be set together")
	}
	if cfg.TuningFile != "" {
		cadence, err := LoadCadence(cfg.TuningFile, cfg.Cadence)
		if err != nil {
			return cfg, err
		}
		cfg.Cadence = cadence
	}
	return cfg, nil
}

func LoadSyncFromEnv() (SyncConfig, error) {
	var cfg SyncConfig
	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.Every <= 0 {
		return cfg, fmt.Errorf("TYCOON_SYNC_EVERY must be > 0")
	}
	return cfg, nil
}

func LoadCLIFromEnv() (CLIConfig, error) {
	var cfg CLIConfig
	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	cfg.Slot = strings.TrimSpace(cfg.Slot)
	if cfg.Slot == "" {
		cfg.Slot = "default"
	}
	return cfg, nil
}

type tuningFile struct {
	Ticks Cadence `toml:"ticks"`
}

// LoadCadence overlays the [ticks] table of a TOML tuning file on base.
// Keys missing from the file keep their base value.
func LoadCadence(path string, base Cadence) (Cadence, error) {
	file := tuningFile{Ticks: base}
	md, err := toml.DecodeFile(path, &file)
	if err != nil {
		return base, fmt.Errorf("load tuning file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return base, fmt.Errorf("tuning file %s: unknown keys %v", path, undecoded)
	}
	if err := file.Ticks.validate(); err != nil {
		return base, err
	}
	return file.Ticks, nil
}

func (c Cadence) validate() error {
	for name, d := range map[string]time.Duration{
		"income": c.Income, "stocks": c.Stocks, "weather": c.Weather,
		"combo": c.Combo, "events": c.Events, "autosave": c.Autosave,
	} {
		if d < 0 {
			return fmt.Errorf("tick %s must not be negative", name)
		}
	}
	return nil
}

// ParseLevel maps a log level name onto slog; unknown names mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
