package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-SchedulingService/internal/config"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/events"
	expireAlternativesUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/expire_alternatives"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
)

// Фоновый процесс: периодически переводит просроченные альтернативы в alternative_expired
func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.toml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting alternative expiry sweeper (interval=%ds)...", cfg.Sweeper.Interval)

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(2)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}

	// Метрики процесса не публикуются: HTTP сервера у sweeper нет
	var metricsCollector *metrics.Metrics
	stopCh := make(chan struct{})
	defer close(stopCh)

	bookingRepository := bookingRepo.NewRepository(dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopCh))

	var publisher events.Publisher = events.NewLogPublisher(log)
	if cfg.Kafka.Enabled {
		kafkaPublisher := events.NewKafkaPublisher(
			events.NewKafkaWriter(cfg.Kafka.Brokers),
			cfg.Kafka.NotificationsTopic,
			cfg.Kafka.PaymentsTopic,
			time.Duration(cfg.Kafka.WriteTimeout)*time.Second,
			metricsCollector,
			log,
		)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	useCase := expireAlternativesUC.NewUseCase(
		bookingRepository,
		events.NewNotifier(publisher, log),
		metricsCollector,
		expireAlternativesUC.DefaultBatchSize,
		nil,
		log,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ticker := time.NewTicker(time.Duration(cfg.Sweeper.Interval) * time.Second)
	defer ticker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			result, err := useCase.Execute(ctx)
			if err != nil {
				log.Error("Sweep failed: %v", err)
				continue
			}
			if result.Expired > 0 {
				log.Info("Sweep expired %d alternatives", result.Expired)
			}
		case s := <-sig:
			log.Info("Received signal %v, shutting down sweeper", s)
			return
		}
	}
}
