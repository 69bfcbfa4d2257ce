package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/skatdesk/skatdesk/internal/card"
	"github.com/skatdesk/skatdesk/internal/render"
	"github.com/skatdesk/skatdesk/internal/table"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Engine     EngineConfig     `mapstructure:"engine"`
	Timing     TimingConfig     `mapstructure:"timing"`
	Undo       UndoConfig       `mapstructure:"undo"`
	Selection  SelectionConfig  `mapstructure:"selection"`
	UI         UIConfig         `mapstructure:"ui"`
	Web        WebConfig        `mapstructure:"web"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Transcript TranscriptConfig `mapstructure:"transcript"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	// File receives the log in terminal mode, where stderr belongs to the UI.
	File string `mapstructure:"file"`
}

// EngineConfig selects and configures the engine transport
type EngineConfig struct {
	Transport      string        `mapstructure:"transport"`
	NatsURL        string        `mapstructure:"nats_url"`
	SubjectPrefix  string        `mapstructure:"subject_prefix"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	// Serve answers engine requests on NATS with the local engine.
	Serve bool  `mapstructure:"serve"`
	Seed  int64 `mapstructure:"seed"`
}

// TimingConfig holds the table pacing
type TimingConfig struct {
	Settle           time.Duration `mapstructure:"settle"`
	CollectPause     time.Duration `mapstructure:"collect_pause"`
	AIThink          time.Duration `mapstructure:"ai_think"`
	Reinvoke         time.Duration `mapstructure:"reinvoke"`
	Entrance         time.Duration `mapstructure:"entrance"`
	Collection       time.Duration `mapstructure:"collection"`
	AnalysisDebounce time.Duration `mapstructure:"analysis_debounce"`
}

// UndoConfig holds undo limits
type UndoConfig struct {
	MaxSteps int `mapstructure:"max_steps"`
}

// SelectionConfig holds selection phase defaults
type SelectionConfig struct {
	DefaultGameType string `mapstructure:"default_game_type"`
}

// UIConfig selects the front end
type UIConfig struct {
	Mode      string `mapstructure:"mode"`
	Reveal    bool   `mapstructure:"reveal"`
	CardStyle string `mapstructure:"card_style"`
}

// WebConfig holds web front end configuration
type WebConfig struct {
	Address string `mapstructure:"address"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

// TranscriptConfig holds hand transcript configuration
type TranscriptConfig struct {
	Dir string `mapstructure:"dir"`
}

const (
	TransportLocal = "local"
	TransportNATS  = "nats"

	ModeTerminal = "terminal"
	ModeWeb      = "web"
)

// Load reads configuration from file and environment
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	// SKATDESK_ENGINE_NATS_URL overrides engine.nats_url
	v.SetEnvPrefix("SKATDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	t := table.DefaultTiming()

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "skatdesk.log")

	v.SetDefault("engine.transport", TransportLocal)
	v.SetDefault("engine.nats_url", "nats://127.0.0.1:4222")
	v.SetDefault("engine.subject_prefix", "skat.engine")
	v.SetDefault("engine.request_timeout", "5s")
	v.SetDefault("engine.serve", false)
	v.SetDefault("engine.seed", 0)

	v.SetDefault("timing.settle", t.Settle)
	v.SetDefault("timing.collect_pause", t.CollectPause)
	v.SetDefault("timing.ai_think", t.AIThink)
	v.SetDefault("timing.reinvoke", t.Reinvoke)
	v.SetDefault("timing.entrance", t.Entrance)
	v.SetDefault("timing.collection", t.Collection)
	v.SetDefault("timing.analysis_debounce", t.AnalysisDebounce)

	v.SetDefault("undo.max_steps", table.DefaultUndoMaxSteps)
	v.SetDefault("selection.default_game_type", string(card.GameClubs))

	v.SetDefault("ui.mode", ModeTerminal)
	v.SetDefault("ui.reveal", false)
	v.SetDefault("ui.card_style", string(render.ModeFull))

	v.SetDefault("web.address", ":8080")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.address", ":9090")

	v.SetDefault("transcript.dir", "")
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	switch c.Engine.Transport {
	case TransportLocal:
	case TransportNATS:
		if c.Engine.NatsURL == "" {
			return fmt.Errorf("engine.nats_url is required for the nats transport")
		}
		if c.Engine.SubjectPrefix == "" {
			return fmt.Errorf("engine.subject_prefix is required for the nats transport")
		}
	default:
		return fmt.Errorf("unknown engine.transport %q", c.Engine.Transport)
	}
	if c.Engine.RequestTimeout <= 0 {
		return fmt.Errorf("engine.request_timeout must be positive")
	}

	for name, d := range map[string]time.Duration{
		"settle":            c.Timing.Settle,
		"collect_pause":     c.Timing.CollectPause,
		"ai_think":          c.Timing.AIThink,
		"reinvoke":          c.Timing.Reinvoke,
		"entrance":          c.Timing.Entrance,
		"collection":        c.Timing.Collection,
		"analysis_debounce": c.Timing.AnalysisDebounce,
	} {
		if d < 0 {
			return fmt.Errorf("timing.%s must not be negative", name)
		}
	}

	if c.Undo.MaxSteps < 1 {
		return fmt.Errorf("undo.max_steps must be at least 1")
	}

	if _, err := card.ParseGameType(c.Selection.DefaultGameType); err != nil {
		return fmt.Errorf("selection.default_game_type: %w", err)
	}

	switch c.UI.Mode {
	case ModeTerminal, ModeWeb:
	default:
		return fmt.Errorf("unknown ui.mode %q", c.UI.Mode)
	}
	switch render.Mode(c.UI.CardStyle) {
	case render.ModeFull, render.ModeSimple:
	default:
		return fmt.Errorf("unknown ui.card_style %q", c.UI.CardStyle)
	}

	if c.UI.Mode == ModeWeb && c.Web.Address == "" {
		return fmt.Errorf("web.address is required in web mode")
	}
	if c.Metrics.Enabled && c.Metrics.Address == "" {
		return fmt.Errorf("metrics.address is required when metrics are enabled")
	}

	return nil
}

// TableOptions converts the configuration into controller options.
func (c *Config) TableOptions() table.Options {
	opts := table.DefaultOptions()
	opts.Timing = table.Timing{
		Settle:           c.Timing.Settle,
		CollectPause:     c.Timing.CollectPause,
		AIThink:          c.Timing.AIThink,
		Reinvoke:         c.Timing.Reinvoke,
		Entrance:         c.Timing.Entrance,
		Collection:       c.Timing.Collection,
		AnalysisDebounce: c.Timing.AnalysisDebounce,
	}
	opts.UndoMaxSteps = c.Undo.MaxSteps
	if gt, err := card.ParseGameType(c.Selection.DefaultGameType); err == nil {
		opts.DefaultGameType = gt
	}
	opts.CardMode = render.ParseMode(c.UI.CardStyle)
	opts.Reveal = c.UI.Reveal
	opts.TranscriptDir = c.Transcript.Dir
	return opts
}
