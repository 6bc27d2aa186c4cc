package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "prod")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "accounts")
	t.Setenv("BEARER_TOKEN_SECRET", "bearer-0123456789abcdef0123456789abcdef")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh-0123456789abcdef0123456789abcdef")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg := Load()
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 15*time.Minute, cfg.BearerTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTTL)
	assert.Equal(t, "accounts-service", cfg.JWTIssuer)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.False(t, cfg.SignupAutoEnable)
	assert.True(t, cfg.AuditEnabled)
	assert.Equal(t, "logs/auth.log", cfg.AuditLogPath)
	assert.NoError(t, cfg.ValidateSecrets())
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("BEARER_TOKEN_TTL", "5m")
	t.Setenv("REFRESH_TOKEN_TTL", "48h")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("SIGNUP_AUTO_ENABLE", "yes")
	t.Setenv("RABBITMQ_URL", "amqp://u:p@broker:5672/")

	cfg := Load()
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 5*time.Minute, cfg.BearerTTL)
	assert.Equal(t, 48*time.Hour, cfg.RefreshTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.True(t, cfg.SignupAutoEnable)
	assert.Equal(t, "amqp://u:p@broker:5672/", cfg.AMQPURL)
}

func TestValidateSecrets(t *testing.T) {
	long := "0123456789abcdef0123456789abcdef"
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{name: "strong and distinct", cfg: Config{Env: "prod", BearerSecret: "b" + long, RefreshSecret: "r" + long}},
		{name: "short bearer", cfg: Config{Env: "prod", BearerSecret: "short", RefreshSecret: long}, wantErr: ErrSecretTooShort},
		{name: "short refresh", cfg: Config{Env: "prod", BearerSecret: long, RefreshSecret: "short"}, wantErr: ErrSecretTooShort},
		{name: "equal secrets", cfg: Config{Env: "prod", BearerSecret: long, RefreshSecret: long}, wantErr: ErrSecretsEqual},
		{name: "dev skips checks", cfg: Config{Env: "dev", BearerSecret: "x", RefreshSecret: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.ValidateSecrets()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadRateLimitConfig_Clamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 1, cfg.RefillTokens)
	assert.Equal(t, 2*time.Second, cfg.RefillInterval)
	assert.Equal(t, 10*time.Second, cfg.TTL)
}

func TestEnvHelpers_FallBackOnGarbage(t *testing.T) {
	t.Setenv("X_INT", "abc")
	t.Setenv("X_DUR", "soon")
	t.Setenv("X_BOOL", "maybe")

	assert.Equal(t, 3, envInt("X_INT", 3))
	assert.Equal(t, time.Second, envDur("X_DUR", time.Second))
	assert.True(t, envBool("X_BOOL", true))
}

func TestRedisOptions(t *testing.T) {
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("REDIS_TLS", "1")

	opts := RedisOptions()
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.NotNil(t, opts.TLSConfig)
}
