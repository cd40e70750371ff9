package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/bernardokeke/fleetlease/internal/config"
	"github.com/bernardokeke/fleetlease/internal/database"
	"github.com/bernardokeke/fleetlease/internal/handler"
	"github.com/bernardokeke/fleetlease/internal/queue"
	"github.com/bernardokeke/fleetlease/internal/repository"
	"github.com/bernardokeke/fleetlease/internal/router"
	queue_publisher "github.com/bernardokeke/fleetlease/internal/service"
	"github.com/bernardokeke/fleetlease/internal/sms"
	"github.com/bernardokeke/fleetlease/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb := config.NewRedisClient() // nil disables cache and rate limiting

	users := repository.NewUserRepo(db)
	clients := repository.NewClientRepo(db)
	vehicles := repository.NewVehicleRepo(db)
	vtypes := repository.NewVehicleTypeRepo(db)
	contracts := repository.NewContractRepo(db)
	payments := repository.NewPaymentRepo(db)
	reports := repository.NewReportRepo(db)

	var uploader *storage.Uploader
	if cfg.S3Endpoint != "" {
		uploader, err = storage.NewUploader(cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3UseSSL)
		if err != nil {
			log.Printf("storage disabled: %v", err)
			uploader = nil
		}
	}

	var gateway *sms.Client
	if cfg.SMSBaseURL != "" {
		gateway = sms.NewClient(cfg.SMSBaseURL, cfg.SMSAPIKey, cfg.SMSSender)
	}

	publish := func(ctx context.Context, ev queue.PaymentRecordedEvent) error {
		return queue_publisher.PublishPaymentRecorded(ctx, cfg.AMQPURL, ev)
	}

	// a typed-nil uploader/gateway must not leak into the interface
	// fields, the handlers check for plain nil
	files := handler.NewFileHandler(nil)
	if uploader != nil {
		files = handler.NewFileHandler(uploader)
	}
	smsh := handler.NewSMSHandler(nil)
	if gateway != nil {
		smsh = handler.NewSMSHandler(gateway)
	}

	h := router.Handlers{
		Auth:         handler.NewAuthHandler(cfg, users),
		Users:        handler.NewUserHandler(cfg, users),
		Clients:      handler.NewClientHandler(clients),
		Vehicles:     handler.NewVehicleHandler(vehicles),
		VehicleTypes: handler.NewVehicleTypeHandler(vtypes),
		Contracts:    handler.NewContractHandler(contracts, clients, vehicles),
		Payments:     handler.NewPaymentHandler(payments, contracts, clients, vehicles, publish),
		Reports:      handler.NewReportHandler(reports),
		Files:        files,
		SMS:          smsh,
	}

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.Register(e, cfg, h, users, rdb)

	// background consumer: audit log + SMS receipts for payments
	go func() {
		var sender queue.ReceiptSender
		if gateway != nil {
			sender = gateway
		}
		if err := queue.StartPaymentConsumer(cfg.AMQPURL, sender); err != nil {
			log.Printf("payment consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
