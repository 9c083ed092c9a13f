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
	"github.com/robfig/cron/v3"

	cancelBookingHandler "github.com/playfield/CourtBookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/playfield/CourtBookingService/internal/api/handlers/create_booking"
	createRuleHandler "github.com/playfield/CourtBookingService/internal/api/handlers/create_rule"
	deleteRuleHandler "github.com/playfield/CourtBookingService/internal/api/handlers/delete_rule"
	getAvailabilityHandler "github.com/playfield/CourtBookingService/internal/api/handlers/get_availability"
	getBookingHandler "github.com/playfield/CourtBookingService/internal/api/handlers/get_booking"
	getUserBookingsHandler "github.com/playfield/CourtBookingService/internal/api/handlers/get_user_bookings"
	paymentCallbackHandler "github.com/playfield/CourtBookingService/internal/api/handlers/payment_callback"
	"github.com/playfield/CourtBookingService/internal/api/middleware"
	"github.com/playfield/CourtBookingService/internal/config"
	blockRepo "github.com/playfield/CourtBookingService/internal/infra/storage/block"
	bookingRepo "github.com/playfield/CourtBookingService/internal/infra/storage/booking"
	courtRepo "github.com/playfield/CourtBookingService/internal/infra/storage/court"
	paymentRepo "github.com/playfield/CourtBookingService/internal/infra/storage/payment"
	ruleRepo "github.com/playfield/CourtBookingService/internal/infra/storage/rule"
	paymentGatewayClient "github.com/playfield/CourtBookingService/internal/integrations/paymentgateway"
	bookingsService "github.com/playfield/CourtBookingService/internal/service/bookings"
	rulesService "github.com/playfield/CourtBookingService/internal/service/rules"
	"github.com/playfield/CourtBookingService/internal/timepolicy"
	createBookingUC "github.com/playfield/CourtBookingService/internal/usecase/create_booking"
	getAvailabilityUC "github.com/playfield/CourtBookingService/internal/usecase/get_availability"
	"github.com/playfield/CourtBookingService/pkg/dbmetrics"
	"github.com/playfield/CourtBookingService/pkg/logger"
	"github.com/playfield/CourtBookingService/pkg/metrics"
	"github.com/playfield/CourtBookingService/pkg/simpletxmanager"
	"github.com/playfield/CourtBookingService/pkg/txmanager"
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

	log.Info("Starting CourtBookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Инициализируем клиент платежного шлюза
	gatewayClient := paymentGatewayClient.NewClient(
		cfg.PaymentGateway.URL,
		cfg.PaymentGateway.APIKey,
		time.Duration(cfg.PaymentGateway.Timeout)*time.Second,
		log,
	)
	log.Info("Payment gateway client initialized (url=%s, timeout=%ds)",
		cfg.PaymentGateway.URL, cfg.PaymentGateway.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository *bookingRepo.Repository
		ruleRepository    *ruleRepo.Repository
		blockRepository   *blockRepo.Repository
		courtRepository   *courtRepo.Repository
		paymentRepository *paymentRepo.Repository
	)

	// Интерфейс transaction manager для usecases и сервисов
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		ruleRepository = ruleRepo.NewRepository(wrappedDB)
		blockRepository = blockRepo.NewRepository(wrappedDB)
		courtRepository = courtRepo.NewRepository(wrappedDB)
		paymentRepository = paymentRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		ruleRepository = ruleRepo.NewRepository(db)
		blockRepository = blockRepo.NewRepository(db)
		courtRepository = courtRepo.NewRepository(db)
		paymentRepository = paymentRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Метрики бизнес-событий (заглушка, если метрики выключены)
	var ucMetrics createBookingUC.Metrics = createBookingUC.NoopMetrics{}
	var svcMetrics bookingsService.Metrics = bookingsService.NoopMetrics{}
	if cfg.Metrics.Enabled {
		ucMetrics = metricsCollector
		svcMetrics = metricsCollector
	}

	// Политика бронирования по умолчанию (корты могут переопределять)
	policy := timepolicy.Policy{
		MaxDurationHours: cfg.Booking.MaxDurationHours,
		MaxAdvanceDays:   cfg.Booking.AdvanceDays,
	}
	lockTimeout := time.Duration(cfg.Booking.LockTimeoutMs) * time.Millisecond

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		courtRepository,
		paymentRepository,
		gatewayClient,
		txMgr,
		lockTimeout,
		svcMetrics,
		log,
	)
	ruleSvc := rulesService.NewService(
		ruleRepository,
		courtRepository,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		ruleRepository,
		blockRepository,
		courtRepository,
		txMgr,
		policy,
		lockTimeout,
		ucMetrics,
		log,
	)
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		bookingRepository,
		ruleRepository,
		blockRepository,
		courtRepository,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	createRule := createRuleHandler.NewHandler(ruleSvc, log)
	deleteRule := deleteRuleHandler.NewHandler(ruleSvc, log)
	paymentCallback := paymentCallbackHandler.NewHandler(bookingSvc, cfg.PaymentGateway.CallbackSecret, log)

	// Фоновые задачи: истечение неоплаченных pending и завершение прошедших confirmed
	var scheduler *cron.Cron
	if cfg.Scheduler.Enabled {
		scheduler = cron.New()
		pendingTTL := time.Duration(cfg.Booking.PendingTTLMinutes) * time.Minute

		if _, err := scheduler.AddFunc(cfg.Scheduler.ExpireSpec, func() {
			if _, err := bookingSvc.ExpirePendingBookings(context.Background(), pendingTTL); err != nil {
				log.Error("Scheduler: expire sweep failed: %v", err)
			}
		}); err != nil {
			log.Fatal("Failed to schedule expire sweep: %v", err)
		}

		if _, err := scheduler.AddFunc(cfg.Scheduler.CompleteSpec, func() {
			if _, err := bookingSvc.CompleteElapsedBookings(context.Background()); err != nil {
				log.Error("Scheduler: complete sweep failed: %v", err)
			}
		}); err != nil {
			log.Fatal("Failed to schedule complete sweep: %v", err)
		}

		scheduler.Start()
		log.Info("Scheduler started (expire=%q, complete=%q)",
			cfg.Scheduler.ExpireSpec, cfg.Scheduler.CompleteSpec)
	}

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступность корта по дням
	api.HandleFunc("/courts/{courtId}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// Колбэк платежного шлюза (подпись проверяется в handler)
	api.HandleFunc("/payments/callback", paymentCallback.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (JWT Bearer)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth([]byte(cfg.Auth.JWTSecret)))

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Управление кортами (для владельцев) ---
	protected.HandleFunc("/courts/{courtId}/rules", createRule.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/courts/{courtId}/rules/{ruleId}", deleteRule.Handle).Methods(http.MethodDelete)

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

	// Останавливаем планировщик: дожидаемся завершения запущенных задач
	if scheduler != nil {
		<-scheduler.Stop().Done()
		log.Info("Scheduler stopped")
	}

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
