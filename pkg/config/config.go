package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ReawEiEi/hotel-booking-server/pkg/client"
	"github.com/ReawEiEi/hotel-booking-server/pkg/logger"
)

var (
	mongoURIRegex      = regexp.MustCompile(`^mongodb(\+srv)?://`)
	credentialRegex    = regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	phoneRegionRegex   = regexp.MustCompile(`^[A-Z]{2}$`)
	minJWTSecretLength = 16
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration
	MongoTransactions bool

	Port string

	JWTSecret string

	RateLimitRequests int
	RateLimitBurst    int

	RequestTimeout time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	DefaultPageLimit   int
	MaxPageLimit       int
	DefaultPhoneRegion string

	NotifyEnabled     bool
	NotifyTopic       string
	NotifyMaxInFlight int
	NotifyTimeout     time.Duration

	MetricsEnabled bool

	Log    *logger.Logger
	Client *client.Client

	authRequired bool
}

// Load reads the configuration of an API service and exits on invalid values.
func Load(serviceName string) *Config {
	return load(serviceName, true)
}

// LoadJob is Load for one-off jobs that never verify tokens.
func LoadJob(jobName string) *Config {
	return load(jobName, false)
}

func load(serviceName string, authRequired bool) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),
		MongoTransactions: getEnvBool(EnvMongoTransactions, DefaultMongoTransactions),

		Port: getEnvStr(EnvPort, DefaultPort),

		JWTSecret: getEnvStr(EnvJWTSecret, ""),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitBurst:    getEnvNum(EnvRateLimitBurst, DefaultRateLimitBurst),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		DefaultPageLimit:   getEnvNum(EnvDefaultPageLimit, DefaultPageLimit),
		MaxPageLimit:       getEnvNum(EnvMaxPageLimit, DefaultMaxPageLimit),
		DefaultPhoneRegion: strings.ToUpper(getEnvStr(EnvDefaultPhoneRegion, DefaultDefaultPhoneRegion)),

		NotifyEnabled:     getEnvBool(EnvNotifyEnabled, DefaultNotifyEnabled),
		NotifyTopic:       getEnvStr(EnvNotifyTopic, DefaultNotifyTopic),
		NotifyMaxInFlight: getEnvNum(EnvNotifyMaxInFlight, DefaultNotifyMaxInFlight),
		NotifyTimeout:     getEnvDuration(EnvNotifyTimeout, DefaultNotifyTimeout),

		MetricsEnabled: getEnvBool(EnvMetricsEnabled, DefaultMetricsEnabled),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client:       client.NewClient(),
		authRequired: authRequired,
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if len(cfg.MongoURI) < 10 || !mongoURIRegex.MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}

	if cfg.authRequired && len(cfg.JWTSecret) < minJWTSecretLength {
		errors = append(errors, fmt.Sprintf("JWTSecret must be at least %d characters long", minJWTSecretLength))
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.RateLimitBurst < cfg.RateLimitRequests {
		errors = append(errors, fmt.Sprintf("RateLimitBurst (%d) must be >= RateLimitRequests (%d)", cfg.RateLimitBurst, cfg.RateLimitRequests))
	}

	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if cfg.DefaultPageLimit <= 0 {
		errors = append(errors, fmt.Sprintf("DefaultPageLimit must be positive, got: %d", cfg.DefaultPageLimit))
	}
	if cfg.MaxPageLimit < cfg.DefaultPageLimit {
		errors = append(errors, fmt.Sprintf("MaxPageLimit (%d) must be >= DefaultPageLimit (%d)", cfg.MaxPageLimit, cfg.DefaultPageLimit))
	}
	if !phoneRegionRegex.MatchString(cfg.DefaultPhoneRegion) {
		errors = append(errors, fmt.Sprintf("DefaultPhoneRegion must be a two-letter region code, got: %s", cfg.DefaultPhoneRegion))
	}

	if cfg.NotifyEnabled && cfg.NotifyTopic == "" {
		errors = append(errors, "NotifyTopic cannot be empty when notifications are enabled")
	}
	if cfg.NotifyMaxInFlight <= 0 {
		errors = append(errors, fmt.Sprintf("NotifyMaxInFlight must be positive, got: %d", cfg.NotifyMaxInFlight))
	}
	if cfg.NotifyTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("NotifyTimeout must be positive, got: %s", cfg.NotifyTimeout))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"mongo_transactions", cfg.MongoTransactions,
		"port", cfg.Port,
		"jwt_secret_set", cfg.JWTSecret != "",
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_burst", cfg.RateLimitBurst,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"default_page_limit", cfg.DefaultPageLimit,
		"max_page_limit", cfg.MaxPageLimit,
		"default_phone_region", cfg.DefaultPhoneRegion,
		"notify_enabled", cfg.NotifyEnabled,
		"notify_topic", cfg.NotifyTopic,
		"notify_max_in_flight", cfg.NotifyMaxInFlight,
		"notify_timeout", cfg.NotifyTimeout,
		"metrics_enabled", cfg.MetricsEnabled,
	)
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log, cfg.ShutdownTimeout)
}

// NormalizePaginationLimit clamps limit into [1, MaxPageLimit], using DefaultPageLimit for unset values.
func (cfg *Config) NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		return cfg.DefaultPageLimit
	}
	return min(limit, cfg.MaxPageLimit)
}

func NormalizePage(page int) int {
	return max(1, page)
}

func redactMongoURI(uri string) string {
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
