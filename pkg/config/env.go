package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvDepartureSweepInterval = "DEPARTURE_SWEEP_INTERVAL"
	EnvPaymentSweepInterval   = "PAYMENT_SWEEP_INTERVAL"
	EnvPaymentReminderAfter   = "PAYMENT_REMINDER_AFTER"

	EnvWhatsAppPhoneNumber     = "WHATSAPP_PHONE_NUMBER"
	EnvWhatsAppMessageTemplate = "WHATSAPP_MESSAGE_TEMPLATE"
)
