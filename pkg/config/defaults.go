package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "voyago"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	DefaultLogLevel = "info"

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// The departure-reminder sweep is daily and the pending-payment sweep is
	// hourly; a payment reminder only fires once a pending reservation is
	// older than 24 hours.
	DefaultDepartureSweepInterval = 24 * time.Hour
	DefaultPaymentSweepInterval   = 1 * time.Hour
	DefaultPaymentReminderAfter   = 24 * time.Hour

	DefaultWhatsAppPhoneNumber     = "221761885485"
	DefaultWhatsAppMessageTemplate = "Hello, I am interested in"

	DefaultPaginationLimit = 100
)
