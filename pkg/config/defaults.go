package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "hotel_booking"
	DefaultMongoConnTimeout  = 10 * time.Second
	DefaultMongoTransactions = true

	DefaultPort     = "5000"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 20 // per second, per actor or client address
	DefaultRateLimitBurst    = 40

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPageLimit          = 25
	DefaultMaxPageLimit       = 100
	DefaultDefaultPhoneRegion = "TH"

	DefaultNotifyEnabled     = false
	DefaultNotifyTopic       = "booking-events"
	DefaultNotifyMaxInFlight = 32
	DefaultNotifyTimeout     = 10 * time.Second

	DefaultMetricsEnabled = true
)
