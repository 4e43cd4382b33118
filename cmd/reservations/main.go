package main

import (
	"os"

	notificationshandler "voyago/internal/notifications/handler"
	notificationsrepo "voyago/internal/notifications/repository"
	notificationsservice "voyago/internal/notifications/service"
	offersrepo "voyago/internal/offers/repository"
	"voyago/internal/reservations/events"
	"voyago/internal/reservations/handler"
	"voyago/internal/reservations/repository"
	"voyago/internal/reservations/scheduler"
	"voyago/internal/reservations/service"
	"voyago/internal/reservations/validator"
	whatsapphandler "voyago/internal/whatsapp/handler"
	whatsapprepo "voyago/internal/whatsapp/repository"
	whatsappservice "voyago/internal/whatsapp/service"
	"voyago/pkg/app"
	"voyago/pkg/config"
	"voyago/pkg/contracts"
	"voyago/pkg/kafka"
	kafka_config "voyago/pkg/kafka/config"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Reservations service")

	offerRepo := offersrepo.NewMongoOfferRepository(cfg)
	reservationRepo := repository.NewMongoReservationRepository(cfg)
	paymentRepo := repository.NewMongoPaymentRepository(cfg)
	notificationRepo := notificationsrepo.NewMongoNotificationRepository(cfg)
	whatsappLogRepo := whatsapprepo.NewMongoWhatsAppLogRepository(cfg)

	publisher := initPublisher(cfg)

	reservationValidator := validator.NewReservationValidator(cfg.Log)
	reservationService := service.NewReservationService(
		reservationRepo,
		paymentRepo,
		offerRepo,
		notificationRepo,
		reservationValidator,
		publisher,
		cfg,
	)
	notificationService := notificationsservice.NewNotificationService(notificationRepo, cfg)
	whatsappService := whatsappservice.NewWhatsAppService(offerRepo, whatsappLogRepo, cfg)

	reminderScheduler := scheduler.NewScheduler(
		reservationRepo,
		paymentRepo,
		offerRepo,
		notificationRepo,
		cfg,
	)

	cfg.Log.Info("Reservation services initialized", "database", cfg.MongoDatabaseName)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		[]contracts.Handler{
			handler.NewReservationHandler(reservationService, cfg.Log),
			notificationshandler.NewNotificationHandler(notificationService, cfg.Log),
			whatsapphandler.NewWhatsAppHandler(whatsappService, cfg.Log),
		},
		[]contracts.Worker{reminderScheduler},
	)
	serverApp.Run()
}

// initPublisher wires the Kafka event publisher when brokers are
// configured, and degrades to a no-op otherwise.
func initPublisher(cfg *config.Config) events.Publisher {
	if os.Getenv(kafka_config.EnvKafkaBrokers) == "" {
		cfg.Log.Info("Kafka brokers not configured, event publishing disabled")
		return events.NewNoopPublisher()
	}

	kafkaCfg := kafka_config.Load()
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, events.Topic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	return events.NewKafkaPublisher(producer, cfg.Log)
}
