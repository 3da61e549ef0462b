package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("MUSICIAN_PRIMARY__ENV", "local")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Primary.Env)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, 3*time.Minute, cfg.Server.RateLimit.ExpiresIn)
	assert.False(t, cfg.JobsEnabled())
	assert.False(t, cfg.AuthEnabled())

	require.NotNil(t, cfg.Observability)
	assert.Equal(t, ServiceName, cfg.Observability.ServiceName)
	assert.Equal(t, "local", cfg.Observability.Environment)
	assert.Equal(t, "json", cfg.Observability.Logging.Format)
}

func TestLoadConfig_NestedKeys(t *testing.T) {
	t.Setenv("MUSICIAN_PRIMARY__ENV", "production")
	t.Setenv("MUSICIAN_SERVER__PORT", "9000")
	t.Setenv("MUSICIAN_SERVER__RATE_LIMIT__ENABLED", "true")
	t.Setenv("MUSICIAN_SERVER__RATE_LIMIT__BURST", "5")
	t.Setenv("MUSICIAN_STORE__DRIVER", "redis")
	t.Setenv("MUSICIAN_REDIS__ADDRESS", "localhost:6379")
	t.Setenv("MUSICIAN_JOB__ENABLED", "true")
	t.Setenv("MUSICIAN_OBSERVABILITY__LOGGING__LEVEL", "warn")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.True(t, cfg.Server.RateLimit.Enabled)
	assert.Equal(t, 5, cfg.Server.RateLimit.Burst)
	assert.Equal(t, DriverRedis, cfg.Store.Driver)
	assert.Equal(t, "musicians", cfg.Redis.Key)
	assert.True(t, cfg.JobsEnabled())
	assert.Equal(t, "warn", cfg.Observability.GetLogLevel())
	assert.True(t, cfg.Observability.IsProduction())
}

func TestLoadConfig_DriverRequiresItsBlock(t *testing.T) {
	tests := []struct {
		driver string
		errMsg string
	}{
		{driver: DriverPostgres, errMsg: "database.host"},
		{driver: DriverRedis, errMsg: "redis.address"},
		{driver: DriverMongo, errMsg: "mongo.uri"},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			t.Setenv("MUSICIAN_STORE__DRIVER", tt.driver)

			_, err := LoadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadConfig_UnknownDriver(t *testing.T) {
	t.Setenv("MUSICIAN_STORE__DRIVER", "cassandra")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfig_JobsNeedRedis(t *testing.T) {
	t.Setenv("MUSICIAN_JOB__ENABLED", "true")

	_, err := LoadConfig()
	require.ErrorContains(t, err, "job.enabled requires redis.address")
}

func TestObservabilityConfig_Validate(t *testing.T) {
	t.Parallel()

	cfg := DefaultObservabilityConfig()
	require.NoError(t, cfg.Validate())

	cfg.Logging.Level = "verbose"
	require.ErrorContains(t, cfg.Validate(), "invalid logging level")

	cfg = DefaultObservabilityConfig()
	cfg.HealthChecks.Interval = 10 * time.Millisecond
	require.ErrorContains(t, cfg.Validate(), "interval")
}

func TestObservabilityConfig_GetLogLevel(t *testing.T) {
	t.Parallel()

	cfg := DefaultObservabilityConfig()
	cfg.Logging.Level = ""

	cfg.Environment = "production"
	assert.Equal(t, "info", cfg.GetLogLevel())

	cfg.Environment = "development"
	assert.Equal(t, "debug", cfg.GetLogLevel())
}

func TestConfig_Redacted(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		Database:      DatabaseConfig{Password: "hunter2"},
		Auth:          AuthConfig{SecretKey: "sk_test"},
		Observability: DefaultObservabilityConfig(),
	}
	cfg.Observability.NewRelic.LicenseKey = "license"

	out := cfg.Redacted()

	assert.Equal(t, "********", out.Database.Password)
	assert.Equal(t, "********", out.Auth.SecretKey)
	assert.Equal(t, "", out.Redis.Password)
	assert.Equal(t, "********", out.Observability.NewRelic.LicenseKey)

	// The original is untouched.
	assert.Equal(t, "hunter2", cfg.Database.Password)
	assert.Equal(t, "license", cfg.Observability.NewRelic.LicenseKey)
}
