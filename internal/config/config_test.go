package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs, DefaultConfig())
	require.NoError(t, fs.Parse(args))
	return fs
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 120, cfg.Playback.WPM)
	assert.Equal(t, 10, cfg.Playback.Step)
	assert.Equal(t, "", cfg.Trace.DB)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "", cfg.Deck.Path)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(LoadOptions{Flags: newFlags(t), Defaults: DefaultConfig()})
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig().Playback, cfg.Playback)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Keys)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := writeConfig(t, "teleprompt.yaml", `
playback:
  wpm: 200
  step: 25
trace:
  db: /tmp/trace.db
deck:
  path: cards.yaml
keys:
  x: toggle
  q: none
`)

	cfg, err := Load(LoadOptions{Flags: newFlags(t), ConfigFile: path, Defaults: DefaultConfig()})
	require.NoError(t, err)

	assert.Equal(t, 200, cfg.Playback.WPM)
	assert.Equal(t, 25, cfg.Playback.Step)
	assert.Equal(t, "/tmp/trace.db", cfg.Trace.DB)
	assert.Equal(t, "cards.yaml", cfg.Deck.Path)
	assert.Equal(t, map[string]string{"x": "toggle", "q": "none"}, cfg.Keys)
}

func TestLoad_TOMLFile(t *testing.T) {
	path := writeConfig(t, "teleprompt.toml", "[playback]\nwpm = 90\n")

	cfg, err := Load(LoadOptions{ConfigFile: path, Defaults: DefaultConfig()})
	require.NoError(t, err)
	assert.Equal(t, 90, cfg.Playback.WPM)
	assert.Equal(t, 10, cfg.Playback.Step)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "teleprompt.yaml", "playback:\n  wpm: 200\n")
	t.Setenv("TELEPROMPT_PLAYBACK_WPM", "150")
	t.Setenv("TELEPROMPT_LOG_LEVEL", "debug")

	cfg, err := Load(LoadOptions{Flags: newFlags(t), ConfigFile: path, Defaults: DefaultConfig()})
	require.NoError(t, err)

	assert.Equal(t, 150, cfg.Playback.WPM)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("TELEPROMPT_PLAYBACK_WPM", "150")
	t.Setenv("TELEPROMPT_TRACE_DB", "env.db")

	cfg, err := Load(LoadOptions{
		Flags:    newFlags(t, "--wpm", "60", "--trace", "flag.db"),
		Defaults: DefaultConfig(),
	})
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.Playback.WPM)
	assert.Equal(t, "flag.db", cfg.Trace.DB)
}

func TestLoad_OutOfRangeWPMIsKept(t *testing.T) {
	// The pace controller clamps; config passes the value through.
	cfg, err := Load(LoadOptions{Flags: newFlags(t, "--wpm", "1000"), Defaults: DefaultConfig()})
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.Playback.WPM)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(LoadOptions{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml"), Defaults: DefaultConfig()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read config file")
	})

	t.Run("bad level", func(t *testing.T) {
		_, err := Load(LoadOptions{Flags: newFlags(t, "--log-level", "loud"), Defaults: DefaultConfig()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `invalid log.level "loud"`)
	})

	t.Run("zero step", func(t *testing.T) {
		_, err := Load(LoadOptions{Flags: newFlags(t, "--step", "0"), Defaults: DefaultConfig()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "playback.step must be positive")
	})
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
