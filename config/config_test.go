package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORAGE_BUCKET", "quickchat-media")
	t.Setenv("STORAGE_ACCESS_KEY", "ak")
	t.Setenv("STORAGE_SECRET_KEY", "sk")
}

func TestLoadConfig(t *testing.T) {
	validEnv(t)
	t.Setenv("APP_PORT", "9090")
	t.Setenv("JWT_EXPIRY_MIN", "120")

	cfg := LoadConfig()
	assert.Equal(t, "9090", cfg.AppPort)
	assert.Equal(t, 120, cfg.JWTExpiryMin)
	assert.Equal(t, "quickchat-media", cfg.Storage.Bucket)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_Defaults(t *testing.T) {
	validEnv(t)

	cfg := LoadConfig()
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "us-east-1", cfg.Storage.Region)
	assert.Equal(t, 15, cfg.Storage.UploadExpiry)
}

func TestValidate_MissingStorageCredentials(t *testing.T) {
	tests := []struct {
		name  string
		unset string
	}{
		{"no bucket", "STORAGE_BUCKET"},
		{"no access key", "STORAGE_ACCESS_KEY"},
		{"no secret key", "STORAGE_SECRET_KEY"},
		{"no jwt secret", "JWT_SECRET"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validEnv(t)
			t.Setenv(tt.unset, "")
			cfg := LoadConfig()
			assert.Error(t, cfg.Validate())
		})
	}
}
