package config_test

import (
	"io"
	"os"
	"testing"
	"time"

	"rider-delivery-agent/internal/config"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func resetFlags(t *testing.T) {
	t.Helper()
	old := pflag.CommandLine
	oldArgs := os.Args
	pflag.CommandLine = pflag.NewFlagSet(oldArgs[0], pflag.ContinueOnError)
	// The test binary's own -test.* flags are not ours to parse.
	os.Args = oldArgs[:1]
	t.Cleanup(func() {
		pflag.CommandLine = old
		os.Args = oldArgs
	})
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "CREDENTIALS_PATH", "DELIVERY_API_URL", "DELIVERY_API_TIMEOUT",
		"UPLOADS_URL", "UPLOADS_PRESET", "UPLOADS_TIMEOUT",
		"REDIS_ADDR", "PROOF_TTL",
		"KAFKA_BROKERS", "KAFKA_GROUP_ID", "KAFKA_TOPIC",
		"LOCATION_INTERVAL", "LOCATION_REPORT_URL",
		"GATEWAY_MAX_ATTEMPTS", "GATEWAY_BASE_DELAY", "GATEWAY_MAX_DELAY",
		"RATE_LIMIT_ENABLED", "RATE_LIMIT_RATE", "RATE_LIMIT_BURST", "RATE_LIMIT_TTL",
		"PPROF_ADDR", "PPROF_USER", "PPROF_PASS",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	resetFlags(t)
	clearEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	require.Equal(t, 8980, cfg.Port)
	require.Equal(t, "rider_credentials.json", cfg.CredentialsPath)
	require.Equal(t, "https://api.delivery.example", cfg.API.BaseURL)
	require.Equal(t, 30*time.Second, cfg.API.Timeout)
	require.Equal(t, "proof_of_delivery", cfg.Uploads.Preset)
	require.Empty(t, cfg.Redis.Addr)
	require.Equal(t, 24*time.Hour, cfg.Redis.ProofTTL)
	require.Empty(t, cfg.Kafka.Brokers)
	require.Equal(t, 15*time.Second, cfg.Location.Interval)
	require.Equal(t, 4, cfg.Gateway.MaxAttempts)
}

func TestLoad_EnvOverrides(t *testing.T) {
	resetFlags(t)
	clearEnv(t)

	t.Setenv("PORT", "9090")
	t.Setenv("DELIVERY_API_URL", "https://staging.delivery.example")
	t.Setenv("DELIVERY_API_TIMEOUT", "5s")
	t.Setenv("REDIS_ADDR", "127.0.0.1:6379")
	t.Setenv("KAFKA_BROKERS", "b1:9092, b2:9092")
	t.Setenv("LOCATION_INTERVAL", "30s")
	t.Setenv("GATEWAY_MAX_ATTEMPTS", "2")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, "https://staging.delivery.example", cfg.API.BaseURL)
	require.Equal(t, 5*time.Second, cfg.API.Timeout)
	require.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr)
	require.Equal(t, []string{"b1:9092", "b2:9092"}, cfg.Kafka.Brokers)
	require.Equal(t, 30*time.Second, cfg.Location.Interval)
	require.Equal(t, 2, cfg.Gateway.MaxAttempts)
}

func TestLoad_RateLimitAndPprofEnv(t *testing.T) {
	resetFlags(t)
	clearEnv(t)

	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_RATE", "10.5")
	t.Setenv("RATE_LIMIT_BURST", "7")
	t.Setenv("RATE_LIMIT_TTL", "1m")
	t.Setenv("PPROF_ADDR", "127.0.0.1:6060")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.True(t, cfg.RateLimit.Enabled)
	require.Equal(t, 10.5, cfg.RateLimit.Rate)
	require.Equal(t, 7, cfg.RateLimit.Burst)
	require.Equal(t, time.Minute, cfg.RateLimit.TTL)
	require.Equal(t, "127.0.0.1:6060", cfg.Pprof.Addr)
}

func TestLoad_InvalidPort(t *testing.T) {
	resetFlags(t)
	clearEnv(t)

	t.Setenv("PORT", "70000")

	cfg, err := config.Load()
	require.Error(t, err)
	require.Nil(t, cfg)
}

func TestLoad_InvalidInterval(t *testing.T) {
	resetFlags(t)
	clearEnv(t)

	t.Setenv("LOCATION_INTERVAL", "soon")

	cfg, err := config.Load()
	require.Error(t, err)
	require.Nil(t, cfg)
}

func TestLoad_InvalidMaxAttempts(t *testing.T) {
	resetFlags(t)
	clearEnv(t)

	t.Setenv("GATEWAY_MAX_ATTEMPTS", "0")

	cfg, err := config.Load()
	require.Error(t, err)
	require.Nil(t, cfg)
}

func TestLoad_FlagsParseError(t *testing.T) {
	oldArgs := os.Args
	oldCommandLine := pflag.CommandLine

	defer func() {
		os.Args = oldArgs
		pflag.CommandLine = oldCommandLine
	}()

	clearEnv(t)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	pflag.CommandLine = fs
	os.Args = []string{"cmd", "--port=not-a-number"}

	cfg, err := config.Load()

	require.Error(t, err)
	require.Nil(t, cfg)
	require.Contains(t, err.Error(), "parse flags")
}
