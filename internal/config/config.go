package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config stores rider agent settings.
type Config struct {
	Port            int
	CredentialsPath string
	API             API
	Uploads         Uploads
	Redis           Redis
	Kafka           Kafka
	Location        Location
	Gateway         Gateway
	RateLimit       RateLimit
	Pprof           Pprof
}

// API stores remote delivery API settings.
type API struct {
	BaseURL string
	Timeout time.Duration
}

// Uploads stores proof-of-delivery upload settings.
type Uploads struct {
	URL     string
	Preset  string
	Timeout time.Duration
}

// Redis stores proof cache settings. An empty Addr disables the cache.
type Redis struct {
	Addr     string
	ProofTTL time.Duration
}

// Kafka stores dispatch listener settings. Empty brokers disable it.
type Kafka struct {
	Brokers []string
	GroupID string
	Topic   string
}

// Location stores telemetry settings. An empty ReportURL disables reporting.
type Location struct {
	Interval  time.Duration
	ReportURL string
}

// Gateway stores fetch retry behaviour.
type Gateway struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// RateLimit guards the local facade against runaway UI polling.
type RateLimit struct {
	Enabled    bool
	Rate       float64
	Burst      int
	TTL        time.Duration
	MaxBuckets int
}

// Pprof stores the debug listener settings. An empty Addr disables it.
type Pprof struct {
	Addr string
	User string
	Pass string
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:            defaultPort,
		CredentialsPath: defaultCredentialsPath,
		API:             DefaultAPI(),
		Uploads:         DefaultUploads(),
		Redis:           DefaultRedis(),
		Kafka:           DefaultKafka(),
		Location:        DefaultLocation(),
		Gateway:         DefaultGateway(),
		RateLimit:       DefaultRateLimit(),
		Pprof:           Pprof{},
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	pflag.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port the local facade listens on")
	pflag.StringVar(&cfg.CredentialsPath, "credentials", cfg.CredentialsPath, "path of the persisted rider credential")
	if err := pflag.CommandLine.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %q", v)
		}
		cfg.Port = p
	}
	if v := os.Getenv("CREDENTIALS_PATH"); v != "" {
		cfg.CredentialsPath = v
	}
	if v := os.Getenv("DELIVERY_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("UPLOADS_URL"); v != "" {
		cfg.Uploads.URL = v
	}
	if v := os.Getenv("UPLOADS_PRESET"); v != "" {
		cfg.Uploads.Preset = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitList(v)
	}
	if v := os.Getenv("KAFKA_GROUP_ID"); v != "" {
		cfg.Kafka.GroupID = v
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		cfg.Kafka.Topic = v
	}
	if v := os.Getenv("LOCATION_REPORT_URL"); v != "" {
		cfg.Location.ReportURL = v
	}
	if v := os.Getenv("RATE_LIMIT_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_ENABLED: %q", v)
		}
		cfg.RateLimit.Enabled = b
	}
	if v := os.Getenv("RATE_LIMIT_RATE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_RATE: %q", v)
		}
		cfg.RateLimit.Rate = f
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_BURST: %q", v)
		}
		cfg.RateLimit.Burst = n
	}
	if v := os.Getenv("PPROF_ADDR"); v != "" {
		cfg.Pprof.Addr = v
	}
	if v := os.Getenv("PPROF_USER"); v != "" {
		cfg.Pprof.User = v
	}
	if v := os.Getenv("PPROF_PASS"); v != "" {
		cfg.Pprof.Pass = v
	}

	durations := []struct {
		env string
		dst *time.Duration
	}{
		{"DELIVERY_API_TIMEOUT", &cfg.API.Timeout},
		{"UPLOADS_TIMEOUT", &cfg.Uploads.Timeout},
		{"PROOF_TTL", &cfg.Redis.ProofTTL},
		{"LOCATION_INTERVAL", &cfg.Location.Interval},
		{"GATEWAY_BASE_DELAY", &cfg.Gateway.BaseDelay},
		{"GATEWAY_MAX_DELAY", &cfg.Gateway.MaxDelay},
		{"RATE_LIMIT_TTL", &cfg.RateLimit.TTL},
	}
	for _, d := range durations {
		v := os.Getenv(d.env)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %q", d.env, v)
		}
		*d.dst = parsed
	}

	if v := os.Getenv("GATEWAY_MAX_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid GATEWAY_MAX_ATTEMPTS: %q", v)
		}
		cfg.Gateway.MaxAttempts = n
	}
	return nil
}

func validate(cfg *Config) error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if strings.TrimSpace(cfg.API.BaseURL) == "" {
		return fmt.Errorf("delivery API base URL is required")
	}
	if cfg.API.Timeout <= 0 || cfg.Uploads.Timeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if cfg.Location.Interval <= 0 {
		return fmt.Errorf("invalid location interval: %s", cfg.Location.Interval)
	}
	if cfg.Gateway.MaxAttempts < 1 {
		return fmt.Errorf("gateway max attempts must be at least 1")
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
