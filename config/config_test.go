package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DAWAM_PORT", "")
	t.Setenv("DAWAM_DB", "")
	t.Setenv("DAWAM_CORS_ORIGINS", "")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "dawam.db", cfg.DBPath)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:8080"}, cfg.CORSOrigins)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("DAWAM_PORT", "9000")
	t.Setenv("DAWAM_DB", "env.db")
	t.Setenv("DAWAM_CORS_ORIGINS", " https://hr.example.com , ")

	cfg, err := Load([]string{"-db", ":memory:", "-log-level", "debug"})
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, ":memory:", cfg.DBPath)
	assert.Equal(t, []string{"https://hr.example.com"}, cfg.CORSOrigins)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("DAWAM_PORT", "not-a-port")

	_, err := Load(nil)
	assert.Error(t, err)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cfg := &Config{Port: 70000, DBPath: "x.db", LogLevel: "info"}
	assert.Error(t, cfg.Validate())

	cfg = &Config{Port: 8080, DBPath: "x.db", LogLevel: "loud"}
	assert.Error(t, cfg.Validate())

	cfg = &Config{Port: 8080, DBPath: "", LogLevel: "info"}
	assert.Error(t, cfg.Validate())
}
