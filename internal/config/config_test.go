package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no .env file
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, StoreDriverMemory, cfg.App.StoreDriver)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.App.AllowedOrigins)
	assert.Equal(t, "1h", cfg.JWT.AccessExpiration)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 5, cfg.RateLimit.LoginBurst)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("DB_PASSWORD", "p@ss word")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "hris")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DB_AUTO_MIGRATE", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverPostgres, cfg.App.StoreDriver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.App.AllowedOrigins)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.False(t, cfg.Database.AutoMigrate)
	assert.Equal(t, "postgres://postgres:p%40ss+word@db:5432/hris?sslmode=disable", cfg.DatabaseURL())
}

func TestValidate(t *testing.T) {
	valid := Config{
		JWT:       JWTConfig{Secret: "s"},
		App:       AppConfig{StoreDriver: StoreDriverPostgres},
		Database:  DatabaseConfig{Password: "p"},
		RateLimit: RateLimitConfig{LoginPerSecond: 1, LoginBurst: 1},
	}
	require.NoError(t, valid.Validate())

	noSecret := valid
	noSecret.JWT.Secret = ""
	assert.Error(t, noSecret.Validate())

	noPassword := valid
	noPassword.Database.Password = ""
	assert.Error(t, noPassword.Validate())

	memoryNoPassword := noPassword
	memoryNoPassword.App.StoreDriver = StoreDriverMemory
	assert.NoError(t, memoryNoPassword.Validate())

	badDriver := valid
	badDriver.App.StoreDriver = "sqlite"
	assert.Error(t, badDriver.Validate())

	badRate := valid
	badRate.RateLimit.LoginBurst = 0
	assert.Error(t, badRate.Validate())
}
