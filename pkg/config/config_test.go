package config

import (
	"os"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults when no config file", func(t *testing.T) {
		os.Remove("mangagrab.yml")

		cfg, err := Load(nil)
		require.NoError(t, err)

		assert.Equal(t, "manga_images", cfg.SaveDir)
		assert.Equal(t, 1, cfg.Workers)
		assert.Equal(t, "warn", cfg.Log.Level)
		assert.Equal(t, "text", cfg.Log.Format)
	})

	t.Run("Loads from config file", func(t *testing.T) {
		configContent := `
save_dir: "/tmp/comics"
workers: 4
log:
  level: debug
unknown_setting: "should be ignored"
`
		// Viper looks in the CWD, so the file cannot live in t.TempDir().
		configPath := "mangagrab.yml"
		require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))
		defer os.Remove(configPath)

		cfg, err := Load(nil)
		require.NoError(t, err)

		assert.Equal(t, "/tmp/comics", cfg.SaveDir)
		assert.Equal(t, 4, cfg.Workers)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "text", cfg.Log.Format)
	})

	t.Run("Environment overrides", func(t *testing.T) {
		t.Setenv("MANGAGRAB_SAVE_DIR", "/tmp/env-comics")
		t.Setenv("MANGAGRAB_LOG_LEVEL", "info")

		cfg, err := Load(nil)
		require.NoError(t, err)

		assert.Equal(t, "/tmp/env-comics", cfg.SaveDir)
		assert.Equal(t, "info", cfg.Log.Level)
	})

	t.Run("Flags override environment", func(t *testing.T) {
		t.Setenv("MANGAGRAB_WORKERS", "2")

		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.String("save-dir", "manga_images", "")
		flags.Int("workers", 1, "")
		flags.String("unrelated", "", "")
		require.NoError(t, flags.Parse([]string{"--save-dir", "/tmp/flag-comics", "--workers", "8"}))

		cfg, err := Load(flags)
		require.NoError(t, err)

		assert.Equal(t, "/tmp/flag-comics", cfg.SaveDir)
		assert.Equal(t, 8, cfg.Workers)
	})

	t.Run("Unset flags keep lower layers", func(t *testing.T) {
		t.Setenv("MANGAGRAB_WORKERS", "3")

		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.Int("workers", 1, "")
		require.NoError(t, flags.Parse(nil))

		cfg, err := Load(flags)
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Workers)
	})

	t.Run("Workers clamped", func(t *testing.T) {
		t.Setenv("MANGAGRAB_WORKERS", "0")

		cfg, err := Load(nil)
		require.NoError(t, err)
		assert.Equal(t, 1, cfg.Workers)
	})
}
