package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	bookingTransitionHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/booking_transition"
	calculatePriceHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/calculate_price"
	createBlockHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/create_block"
	deleteBlockHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/delete_block"
	expireAlternativesHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/expire_alternatives"
	getAvailabilitySettingsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_availability_settings"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_booking"
	getCustomerBookingsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_customer_bookings"
	getQueuePositionHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_queue_position"
	getVendorBookingsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_vendor_bookings"
	listBlocksHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/list_blocks"
	requestBookingHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/request_booking"
	updateBlockHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/update_block"
	upsertAvailabilitySettingsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/upsert_availability_settings"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/config"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/availability"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/events"
	availabilityService "github.com/m04kA/SMC-SchedulingService/internal/service/availability"
	bookingsService "github.com/m04kA/SMC-SchedulingService/internal/service/bookings"
	bookingTransitionUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/booking_transition"
	calculatePriceUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/calculate_price"
	expireAlternativesUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/expire_alternatives"
	getAvailableSlotsUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_available_slots"
	requestBookingUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/request_booking"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-SchedulingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены).
	// nil-коллектор допустим: методы записи метрик его проверяют.
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Обёртка нужна всегда: через неё работает transaction manager
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)

	// Инициализируем репозитории и transaction manager
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	availabilityRepository := availabilityRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем клиента каталога (с кэшем Redis, если включен)
	baseCatalogClient := catalogservice.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)
	var catalogClient calculatePriceUC.CatalogClient = baseCatalogClient

	var redisCache *catalogservice.RedisCache
	if cfg.Redis.Enabled {
		redisCache = catalogservice.NewRedisCache(
			cfg.Redis.Addr,
			cfg.Redis.Password,
			cfg.Redis.DB,
			time.Duration(cfg.Redis.TTL)*time.Second,
		)
		if err := redisCache.Ping(context.Background()); err != nil {
			log.Warn("Redis is unavailable at %s, catalog cache will fall through: %v", cfg.Redis.Addr, err)
		}
		catalogClient = catalogservice.NewCachedClient(baseCatalogClient, redisCache)
		log.Info("Catalog cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.TTL)
	}
	log.Info("Catalog client initialized (url=%s, timeout=%ds)", cfg.CatalogService.URL, cfg.CatalogService.Timeout)

	// Инициализируем публикацию событий
	var (
		publisher      events.Publisher
		kafkaPublisher *events.KafkaPublisher
	)
	if cfg.Kafka.Enabled {
		kafkaPublisher = events.NewKafkaPublisher(
			events.NewKafkaWriter(cfg.Kafka.Brokers),
			cfg.Kafka.NotificationsTopic,
			cfg.Kafka.PaymentsTopic,
			time.Duration(cfg.Kafka.WriteTimeout)*time.Second,
			metricsCollector,
			log,
		)
		publisher = kafkaPublisher
		log.Info("Kafka publisher enabled (brokers=%v, notifications=%s, payments=%s)",
			cfg.Kafka.Brokers, cfg.Kafka.NotificationsTopic, cfg.Kafka.PaymentsTopic)
	} else {
		publisher = events.NewLogPublisher(log)
		log.Info("Kafka disabled, events are written to log")
	}
	notifier := events.NewNotifier(publisher, log)

	// Инициализируем сервисы
	availabilitySvc := availabilityService.NewService(
		availabilityRepository,
		catalogClient,
		log,
	)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		log,
	)

	// Инициализируем use cases
	calculatePriceUseCase := calculatePriceUC.NewUseCase(
		catalogClient,
		cfg.Booking.DefaultPlatformFeePercent,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		availabilityRepository,
		bookingRepository,
		catalogClient,
		cfg.Booking.DefaultSlotDurationMinutes,
		nil,
		log,
	)

	requestBookingUseCase := requestBookingUC.NewUseCase(
		bookingRepository,
		availabilityRepository,
		catalogClient,
		calculatePriceUseCase,
		notifier,
		metricsCollector,
		nil,
		log,
	)

	bookingTransitionUseCase := bookingTransitionUC.NewUseCase(
		bookingRepository,
		availabilityRepository,
		txMgr,
		notifier,
		metricsCollector,
		time.Duration(cfg.Booking.DefaultAlternativeTTLHours)*time.Hour,
		nil,
		log,
	)

	expireAlternativesUseCase := expireAlternativesUC.NewUseCase(
		bookingRepository,
		notifier,
		metricsCollector,
		expireAlternativesUC.DefaultBatchSize,
		nil,
		log,
	)

	// Инициализируем handlers
	getAvailabilitySettings := getAvailabilitySettingsHandler.NewHandler(availabilitySvc, log)
	upsertAvailabilitySettings := upsertAvailabilitySettingsHandler.NewHandler(availabilitySvc, log)
	listBlocks := listBlocksHandler.NewHandler(availabilitySvc, log)
	createBlock := createBlockHandler.NewHandler(availabilitySvc, log)
	updateBlock := updateBlockHandler.NewHandler(availabilitySvc, log)
	deleteBlock := deleteBlockHandler.NewHandler(availabilitySvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	calculatePrice := calculatePriceHandler.NewHandler(calculatePriceUseCase, log)
	requestBooking := requestBookingHandler.NewHandler(requestBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getQueuePosition := getQueuePositionHandler.NewHandler(bookingSvc, log)
	getCustomerBookings := getCustomerBookingsHandler.NewHandler(bookingSvc, log)
	getVendorBookings := getVendorBookingsHandler.NewHandler(bookingSvc, log)
	bookingTransition := bookingTransitionHandler.NewHandler(bookingTransitionUseCase, log)
	expireAlternatives := expireAlternativesHandler.NewHandler(expireAlternativesUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Настройки доступности исполнителя
	api.HandleFunc("/vendors/{vendorId}/availability", getAvailabilitySettings.Handle).Methods(http.MethodGet)

	// Свободные слоты услуги на дату
	api.HandleFunc("/services/{serviceId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Расчет стоимости окна
	api.HandleFunc("/services/{serviceId}/price", calculatePrice.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (JWT или X-User-ID / X-User-Role от шлюза)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(cfg.Auth.JWTSecret, log))

	// --- Доступность (для исполнителя) ---
	protected.HandleFunc("/vendors/{vendorId}/availability", upsertAvailabilitySettings.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/vendors/{vendorId}/blocks", listBlocks.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/vendors/{vendorId}/blocks", createBlock.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/vendors/{vendorId}/blocks/{blockId}", updateBlock.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/vendors/{vendorId}/blocks/{blockId}", deleteBlock.Handle).Methods(http.MethodDelete)

	// --- Бронирования ---
	// Запрос бронирования
	protected.HandleFunc("/bookings", requestBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования и позиции в очереди
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/queue-position", getQueuePosition.Handle).Methods(http.MethodGet)

	// Переходы статусов
	protected.HandleFunc("/bookings/{bookingId}/accept", bookingTransition.Accept).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/reject", bookingTransition.Reject).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/propose-alternative", bookingTransition.ProposeAlternative).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/accept-alternative", bookingTransition.AcceptAlternative).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/cancel", bookingTransition.Cancel).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/start", bookingTransition.Start).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/complete", bookingTransition.Complete).Methods(http.MethodPatch)

	// История бронирований клиента и исполнителя
	protected.HandleFunc("/customers/{customerId}/bookings", getCustomerBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/vendors/{vendorId}/bookings", getVendorBookings.Handle).Methods(http.MethodGet)

	// ============================================================
	// INTERNAL ROUTES (только системная роль)
	// ============================================================

	internal := r.PathPrefix("/internal").Subrouter()
	internal.Use(middleware.Auth(cfg.Auth.JWTSecret, log))
	internal.Use(middleware.RequireRole(domain.RoleSystem, log))

	// Ручной запуск истечения альтернатив
	internal.HandleFunc("/sweeps/alternative-expiry", expireAlternatives.Handle).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Останавливаем сбор статистики connection pool
	close(stopMetricsCh)

	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			log.Error("Failed to close kafka writer: %v", err)
		}
	}
	if redisCache != nil {
		if err := redisCache.Close(); err != nil {
			log.Error("Failed to close redis client: %v", err)
		}
	}

	log.Info("Server stopped gracefully")
}
