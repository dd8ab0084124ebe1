package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"
	EnvMongoTransactions = "MONGO_TRANSACTIONS"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvJWTSecret = "JWT_SECRET"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitBurst    = "RATE_LIMIT_BURST"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvDefaultPageLimit   = "DEFAULT_PAGE_LIMIT"
	EnvMaxPageLimit       = "MAX_PAGE_LIMIT"
	EnvDefaultPhoneRegion = "DEFAULT_PHONE_REGION"

	EnvNotifyEnabled     = "NOTIFY_ENABLED"
	EnvNotifyTopic       = "NOTIFY_TOPIC"
	EnvNotifyMaxInFlight = "NOTIFY_MAX_IN_FLIGHT"
	EnvNotifyTimeout     = "NOTIFY_TIMEOUT"

	EnvMetricsEnabled = "METRICS_ENABLED"
)
