package config

import "time"

const (
	defaultPort            = 8980
	defaultCredentialsPath = "rider_credentials.json"
)

var defaultAPI = API{
	BaseURL: "https://api.delivery.example",
	Timeout: 30 * time.Second,
}

var defaultUploads = Uploads{
	URL:     "https://uploads.delivery.example/image",
	Preset:  "proof_of_delivery",
	Timeout: 30 * time.Second,
}

var defaultRedis = Redis{
	Addr:     "",
	ProofTTL: 24 * time.Hour,
}

var defaultKafka = Kafka{
	GroupID: "rider-agent",
	Topic:   "dispatch.assignments",
}

var defaultLocation = Location{
	Interval: 15 * time.Second,
}

var defaultGateway = Gateway{
	MaxAttempts: 4,
	BaseDelay:   150 * time.Millisecond,
	MaxDelay:    2 * time.Second,
}

var defaultRateLimit = RateLimit{
	Enabled:    false,
	Rate:       25,
	Burst:      50,
	TTL:        10 * time.Minute,
	MaxBuckets: 1024,
}

// DefaultAPI returns the default delivery API settings.
func DefaultAPI() API { return defaultAPI }

// DefaultUploads returns the default upload settings.
func DefaultUploads() Uploads { return defaultUploads }

// DefaultRedis returns the default proof cache settings.
func DefaultRedis() Redis { return defaultRedis }

// DefaultKafka returns the default dispatch listener settings.
func DefaultKafka() Kafka { return defaultKafka }

// DefaultLocation returns the default telemetry settings.
func DefaultLocation() Location { return defaultLocation }

// DefaultGateway returns the default fetch retry settings.
func DefaultGateway() Gateway { return defaultGateway }

// DefaultRateLimit returns the default facade rate limit settings.
func DefaultRateLimit() RateLimit { return defaultRateLimit }
