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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/m04kA/SMC-BayScheduler/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-BayScheduler/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-BayScheduler/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-BayScheduler/internal/api/handlers/get_booking"
	getLocationBookingsHandler "github.com/m04kA/SMC-BayScheduler/internal/api/handlers/get_location_bookings"
	getUserBookingsHandler "github.com/m04kA/SMC-BayScheduler/internal/api/handlers/get_user_bookings"
	rescheduleBookingHandler "github.com/m04kA/SMC-BayScheduler/internal/api/handlers/reschedule_booking"
	"github.com/m04kA/SMC-BayScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-BayScheduler/internal/config"
	locationCache "github.com/m04kA/SMC-BayScheduler/internal/infra/cache/location"
	bookingRepo "github.com/m04kA/SMC-BayScheduler/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-BayScheduler/internal/infra/storage/catalog"
	locationRepo "github.com/m04kA/SMC-BayScheduler/internal/infra/storage/location"
	"github.com/m04kA/SMC-BayScheduler/internal/integrations/notifier"
	userServiceClient "github.com/m04kA/SMC-BayScheduler/internal/integrations/userservice"
	"github.com/m04kA/SMC-BayScheduler/internal/schedule"
	bookingsService "github.com/m04kA/SMC-BayScheduler/internal/service/bookings"
	"github.com/m04kA/SMC-BayScheduler/internal/service/demand"
	"github.com/m04kA/SMC-BayScheduler/internal/service/planner"
	createBookingUC "github.com/m04kA/SMC-BayScheduler/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-BayScheduler/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-BayScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-BayScheduler/pkg/logger"
	"github.com/m04kA/SMC-BayScheduler/pkg/metrics"
	"github.com/m04kA/SMC-BayScheduler/pkg/txmanager"
)

// rateLimitIdleTTL время хранения лимитера неактивного клиента
const rateLimitIdleTTL = 10 * time.Minute

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

	log.Info("Starting SMC-BayScheduler...")

	// Канал остановки фоновых задач (статистика пула, очистка лимитеров)
	stopCh := make(chan struct{})

	// Инициализируем метрики (если включены)
	// nil *metrics.Metrics безопасен: все Observe* методы его проверяют
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName, prometheus.DefaultRegisterer)
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

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Бизнес-время точек обслуживания
	zone := schedule.NewCivilZone(cfg.Business.UTCOffsetHours)
	log.Info("Business time zone: UTC%+d", cfg.Business.UTCOffsetHours)

	// Репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)
	locationRepository := locationRepo.NewRepository(wrappedDB)

	// Точки читаются на каждый расчет слотов, поэтому кешируются в Redis (если включено)
	var locations planner.LocationRepository = locationRepository
	if cfg.Cache.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Warn("Redis is not reachable at %s, cache will fall back to database: %v", cfg.Cache.Addr, err)
		}
		locations = locationCache.NewCache(locationRepository, rdb,
			time.Duration(cfg.Cache.TTLSeconds)*time.Second, log)
		log.Info("Location cache enabled (addr=%s, ttl=%ds)", cfg.Cache.Addr, cfg.Cache.TTLSeconds)
	}

	// Интеграции
	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	log.Info("UserService client initialized (url=%s, timeout=%ds)", cfg.UserService.URL, cfg.UserService.Timeout)

	dispatcher := newDispatcher(cfg, userClient, metricsCollector, log)

	// Сервисы
	demandSvc := demand.NewService(bookingRepository, zone, log)
	plannerSvc := planner.NewService(locations, demandSvc, zone, nil, log)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		plannerSvc,
		txMgr,
		dispatcher,
		zone,
		metricsCollector,
		log,
	)

	// Use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		catalogRepository,
		plannerSvc,
		userClient,
		txMgr,
		dispatcher,
		metricsCollector,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		locations,
		demandSvc,
		zone,
		metricsCollector,
		log,
	)

	// Handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getLocationBookings := getLocationBookingsHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, rateLimitIdleTTL, stopCh)
		api.Use(limiter.Middleware)
		log.Info("Rate limiting enabled (rps=%.1f, burst=%d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступные слоты точки на день
	api.HandleFunc("/locations/{locationId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/reschedule", rescheduleBooking.Handle).Methods(http.MethodPatch)

	// История бронирований участника
	protected.HandleFunc("/users/me/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Для сотрудников точки ---
	protected.HandleFunc("/locations/{locationId}/bookings", getLocationBookings.Handle).Methods(http.MethodGet)

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	close(stopCh)

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

// newDispatcher собирает каналы уведомлений из конфигурации
// Ошибка инициализации канала не останавливает сервис, канал просто отключается
func newDispatcher(
	cfg *config.Config,
	contacts notifier.ContactProvider,
	m *metrics.Metrics,
	log *logger.Logger,
) *notifier.Dispatcher {
	var senders []notifier.Sender

	if cfg.Notifications.WhatsApp.Enabled {
		senders = append(senders, notifier.NewWhatsAppSender(
			cfg.Notifications.WhatsApp.URL,
			cfg.Notifications.WhatsApp.Token,
			time.Duration(cfg.Notifications.Timeout)*time.Second,
		))
		log.Info("WhatsApp notifications enabled")
	}

	if cfg.Notifications.FCM.Enabled {
		fcm, err := notifier.NewFCMSender(context.Background(), cfg.Notifications.FCM.CredentialsFile)
		if err != nil {
			log.Error("Failed to initialize FCM, push notifications disabled: %v", err)
		} else {
			senders = append(senders, fcm)
			log.Info("FCM push notifications enabled")
		}
	}

	enabled := cfg.Notifications.Enabled && len(senders) > 0
	return notifier.NewDispatcher(enabled, contacts, m, log, senders...).
		WithTimeout(time.Duration(cfg.Notifications.Timeout) * time.Second)
}
