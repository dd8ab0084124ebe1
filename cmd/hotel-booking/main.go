package main

import (
	bookinghandler "github.com/ReawEiEi/hotel-booking-server/internal/bookings/handler"
	"github.com/ReawEiEi/hotel-booking-server/internal/bookings/notifier"
	bookingrepo "github.com/ReawEiEi/hotel-booking-server/internal/bookings/repository"
	bookingservice "github.com/ReawEiEi/hotel-booking-server/internal/bookings/service"
	bookingvalidator "github.com/ReawEiEi/hotel-booking-server/internal/bookings/validator"
	hotelhandler "github.com/ReawEiEi/hotel-booking-server/internal/hotels/handler"
	hotelrepo "github.com/ReawEiEi/hotel-booking-server/internal/hotels/repository"
	hotelservice "github.com/ReawEiEi/hotel-booking-server/internal/hotels/service"
	hotelvalidator "github.com/ReawEiEi/hotel-booking-server/internal/hotels/validator"
	userrepo "github.com/ReawEiEi/hotel-booking-server/internal/users/repository"
	"github.com/ReawEiEi/hotel-booking-server/pkg/app"
	"github.com/ReawEiEi/hotel-booking-server/pkg/auth"
	"github.com/ReawEiEi/hotel-booking-server/pkg/config"
	mongotx "github.com/ReawEiEi/hotel-booking-server/pkg/db/mongo"
	"github.com/ReawEiEi/hotel-booking-server/pkg/dispatch"
	"github.com/ReawEiEi/hotel-booking-server/pkg/kafka"
	kafka_config "github.com/ReawEiEi/hotel-booking-server/pkg/kafka/config"
	"github.com/ReawEiEi/hotel-booking-server/pkg/metrics"
)

const ServiceName = "hotel-booking"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Hotel Booking service")

	m := metrics.New()
	dispatcher := dispatch.New(cfg.Log, cfg.NotifyMaxInFlight, cfg.NotifyTimeout, m)
	serverApp := app.NewApplication(cfg, dispatcher, m)

	bookingNotifier := initNotifier(cfg, serverApp)

	users := userrepo.NewMongoUserRepository(cfg)
	hotels := hotelrepo.NewMongoHotelRepository(cfg)
	bookings := bookingrepo.NewMongoBookingRepository(cfg)
	authenticator := auth.NewAuthenticator(cfg.JWTSecret, users, cfg.Log)

	cascade := hotelservice.NewCascadeDeletionPolicy(bookings, hotels, initTransactions(cfg), m, cfg.Log)
	hotelService := hotelservice.NewHotelService(hotels, hotelvalidator.NewHotelValidator(cfg.Log), cascade, cfg)
	bookingService := bookingservice.NewBookingService(
		bookings,
		hotels,
		users,
		bookingvalidator.NewBookingValidator(cfg.Log),
		bookingNotifier,
		dispatcher,
		m,
		cfg,
	)
	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	serverApp.SetApp(
		hotelhandler.NewHotelHandler(hotelService, authenticator, m, cfg),
		bookinghandler.NewBookingHandler(bookingService, authenticator, m, cfg.Log),
	)
	serverApp.Run()
}

// initTransactions needs a replica set. Standalone deployments set
// MONGO_TRANSACTIONS=false and accept a non-atomic cascade.
func initTransactions(cfg *config.Config) mongotx.TransactionManager {
	if cfg.MongoTransactions {
		return mongotx.NewTransactionManager(cfg.Client.Mongo)
	}
	cfg.Log.Warn("Mongo transactions disabled, hotel deletion runs without rollback")
	return mongotx.NewSequentialManager()
}

func initNotifier(cfg *config.Config, serverApp *app.Application) notifier.Notifier {
	if !cfg.NotifyEnabled {
		cfg.Log.Info("Booking notifications are logged only")
		return notifier.NewLogNotifier(cfg.Log)
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.NotifyTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka.LoggingMiddleware(cfg.Log))
	serverApp.OnShutdown("kafka-producer", producer)

	cfg.Log.Info("Booking notifications publish to Kafka", "topic", cfg.NotifyTopic)
	return notifier.NewKafkaNotifier(producer, cfg.Log)
}
