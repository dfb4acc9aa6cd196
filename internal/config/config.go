// Package config loads teleprompt settings from defaults, an optional
// config file, TELEPROMPT_* environment variables and command-line flags,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/roach88/teleprompt/internal/playback"
)

// EnvPrefix prefixes every environment variable, e.g. TELEPROMPT_PLAYBACK_WPM.
const EnvPrefix = "TELEPROMPT"

type Config struct {
	Playback PlaybackConfig `mapstructure:"playback"`
	Trace    TraceConfig    `mapstructure:"trace"`
	Log      LogConfig      `mapstructure:"log"`
	Deck     DeckConfig     `mapstructure:"deck"`
	// Keys overrides the default key bindings: key name to command name,
	// or "none" to unbind.
	Keys map[string]string `mapstructure:"keys"`
}

type PlaybackConfig struct {
	WPM  int `mapstructure:"wpm"`
	Step int `mapstructure:"step"`
}

type TraceConfig struct {
	// DB is the SQLite trace file. Empty disables recording.
	DB string `mapstructure:"db"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DeckConfig struct {
	Path string `mapstructure:"path"`
}

// LoadOptions controls a Load call.
type LoadOptions struct {
	// Flags holds flags registered with RegisterFlags. Only flags the user
	// set override lower layers.
	Flags *pflag.FlagSet
	// ConfigFile is an explicit config path. When empty, teleprompt.{yaml,
	// toml,json} is looked up in the working directory and is optional.
	ConfigFile string
	Defaults   Config
}

func DefaultConfig() Config {
	return Config{
		Playback: PlaybackConfig{
			WPM:  playback.DefaultWPM,
			Step: playback.DefaultStep,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"wpm":       "playback.wpm",
	"step":      "playback.step",
	"trace":     "trace.db",
	"log-level": "log.level",
	"deck":      "deck.path",
}

// RegisterFlags adds the config flags to fs.
func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.Int("wpm", defaults.Playback.WPM, "Initial pace in words per minute (clamped to 30-300)")
	fs.Int("step", defaults.Playback.Step, "Pace change per up/down key")
	fs.String("trace", defaults.Trace.DB, "SQLite file to record the session trace in")
	fs.String("log-level", defaults.Log.Level, "Log level: debug, info, warn, error")
	fs.String("deck", defaults.Deck.Path, "Deck file (YAML) holding saved cards")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Flags != nil {
		for name, key := range flagKeys {
			flag := opts.Flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("teleprompt")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if _, err := ParseLevel(cfg.Log.Level); err != nil {
		return Config{}, err
	}
	if cfg.Playback.Step <= 0 {
		return Config{}, fmt.Errorf("playback.step must be positive, got %d", cfg.Playback.Step)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("playback.wpm", c.Playback.WPM)
	v.SetDefault("playback.step", c.Playback.Step)
	v.SetDefault("trace.db", c.Trace.DB)
	v.SetDefault("log.level", c.Log.Level)
	v.SetDefault("deck.path", c.Deck.Path)
}

// ParseLevel converts a log.level value to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log.level %q: %w", s, err)
	}
	return level, nil
}
