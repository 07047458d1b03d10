package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"port": 9090,
		"database_url": "postgres://localhost:5432/skills",
		"max_upload_bytes": 1048576,
		"log_json": true,
		"shutdown_timeout": "5s"
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres://localhost:5432/skills", cfg.DatabaseURL)
	assert.Equal(t, int64(1048576), cfg.MaxUploadBytes)
	assert.True(t, cfg.LogJSON)
	assert.False(t, cfg.Debug)
	assert.Equal(t, 5*time.Second, cfg.ShutdownDuration())
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestApplyEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "8123")
	t.Setenv("MAX_UPLOAD_BYTES", "2048")
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("VOCABULARY_PATH", "/etc/vocab.json")
	t.Setenv("CORS_ALLOWED_ORIGIN", "https://app.example.com")
	t.Setenv("LOG_JSON", "true")
	t.Setenv("DEBUG", "1")

	cfg := Config{Port: 9000, DatabaseURL: "postgres://file/db"}
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, 8123, cfg.Port)
	assert.Equal(t, int64(2048), cfg.MaxUploadBytes)
	assert.Equal(t, "postgres://env/db", cfg.DatabaseURL)
	assert.Equal(t, "/etc/vocab.json", cfg.VocabularyPath)
	assert.Equal(t, "https://app.example.com", cfg.AllowedOrigin)
	assert.True(t, cfg.LogJSON)
	assert.True(t, cfg.Debug)
}

func TestApplyEnv_UnsetLeavesValues(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")

	cfg := Config{Port: 9000, DatabaseURL: "postgres://file/db"}
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "postgres://file/db", cfg.DatabaseURL)
}

func TestApplyEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"PORT", "eighty"},
		{"MAX_UPLOAD_BYTES", "lots"},
		{"LOG_JSON", "maybe"},
		{"DEBUG", "sometimes"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			cfg := Config{}
			err := cfg.ApplyEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestValidate(t *testing.T) {
	vocabFile := filepath.Join(t.TempDir(), "vocab.json")
	require.NoError(t, os.WriteFile(vocabFile, []byte(`{}`), 0644))

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"defaults", Defaults(), ""},
		{"zero values", Config{}, ""},
		{"existing vocabulary", Config{VocabularyPath: vocabFile}, ""},
		{"negative port", Config{Port: -1}, "port"},
		{"port too large", Config{Port: 70000}, "port"},
		{"negative upload limit", Config{MaxUploadBytes: -5}, "max_upload_bytes"},
		{"bad shutdown timeout", Config{ShutdownTimeout: "soon"}, "shutdown_timeout"},
		{"missing vocabulary", Config{VocabularyPath: "/nonexistent/vocab.json"}, "vocabulary file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{Port: 9090, LogJSON: true}

	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, 9090, merged.Port)
	assert.Equal(t, int64(DefaultMaxUploadBytes), merged.MaxUploadBytes)
	assert.Equal(t, DefaultAllowedOrigin, merged.AllowedOrigin)
	assert.Equal(t, DefaultShutdownTimeout, merged.ShutdownDuration())
	assert.True(t, merged.LogJSON)
	assert.Empty(t, merged.DatabaseURL)

	// original untouched
	assert.Zero(t, cfg.MaxUploadBytes)
}

func TestAddress(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, ":8000", cfg.Address())
}
