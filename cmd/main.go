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
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	cancelAppointmentHandler "github.com/m04kA/SMC-InkBookingService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/m04kA/SMC-InkBookingService/internal/api/handlers/create_appointment"
	createResourceHandler "github.com/m04kA/SMC-InkBookingService/internal/api/handlers/create_resource"
	estimatePriceHandler "github.com/m04kA/SMC-InkBookingService/internal/api/handlers/estimate_price"
	getAppointmentHandler "github.com/m04kA/SMC-InkBookingService/internal/api/handlers/get_appointment"
	getAppointmentHistoryHandler "github.com/m04kA/SMC-InkBookingService/internal/api/handlers/get_appointment_history"
	getAvailableSlotsHandler "github.com/m04kA/SMC-InkBookingService/internal/api/handlers/get_available_slots"
	getCancellationQuoteHandler "github.com/m04kA/SMC-InkBookingService/internal/api/handlers/get_cancellation_quote"
	getCustomerAppointmentsHandler "github.com/m04kA/SMC-InkBookingService/internal/api/handlers/get_customer_appointments"
	getResourceHandler "github.com/m04kA/SMC-InkBookingService/internal/api/handlers/get_resource"
	getResourceAppointmentsHandler "github.com/m04kA/SMC-InkBookingService/internal/api/handlers/get_resource_appointments"
	healthHandler "github.com/m04kA/SMC-InkBookingService/internal/api/handlers/health"
	listResourcesHandler "github.com/m04kA/SMC-InkBookingService/internal/api/handlers/list_resources"
	rescheduleAppointmentHandler "github.com/m04kA/SMC-InkBookingService/internal/api/handlers/reschedule_appointment"
	updateAppointmentStatusHandler "github.com/m04kA/SMC-InkBookingService/internal/api/handlers/update_appointment_status"
	updateWorkingHoursHandler "github.com/m04kA/SMC-InkBookingService/internal/api/handlers/update_working_hours"
	"github.com/m04kA/SMC-InkBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-InkBookingService/internal/config"
	"github.com/m04kA/SMC-InkBookingService/internal/domain"
	"github.com/m04kA/SMC-InkBookingService/internal/infra/availability"
	"github.com/m04kA/SMC-InkBookingService/internal/infra/lock"
	appointmentRepo "github.com/m04kA/SMC-InkBookingService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-InkBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-InkBookingService/internal/infra/storage/migrations"
	resourceRepo "github.com/m04kA/SMC-InkBookingService/internal/infra/storage/resource"
	transitionRepo "github.com/m04kA/SMC-InkBookingService/internal/infra/storage/transition"
	"github.com/m04kA/SMC-InkBookingService/internal/integrations/notifier"
	"github.com/m04kA/SMC-InkBookingService/internal/service/policy"
	"github.com/m04kA/SMC-InkBookingService/internal/service/pricing"
	resourcesService "github.com/m04kA/SMC-InkBookingService/internal/service/resources"
	"github.com/m04kA/SMC-InkBookingService/internal/service/scheduling"
	getAvailableSlotsUC "github.com/m04kA/SMC-InkBookingService/internal/usecase/get_available_slots"
	getCustomerAppointmentsUC "github.com/m04kA/SMC-InkBookingService/internal/usecase/get_customer_appointments"
	"github.com/m04kA/SMC-InkBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-InkBookingService/pkg/logger"
	"github.com/m04kA/SMC-InkBookingService/pkg/metrics"
	"github.com/m04kA/SMC-InkBookingService/pkg/txmanager"
)

// txManager общий интерфейс менеджеров транзакций Postgres и in-memory хранилища
type txManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// appointmentStore репозиторий записей, общий для движка и чтения записей клиента
type appointmentStore interface {
	scheduling.AppointmentRepository
	getCustomerAppointmentsUC.AppointmentRepository
}

// storage набор репозиториев выбранного драйвера
type storage struct {
	appointments appointmentStore
	resources    *resourceRepo.CachedRepository
	transitions  scheduling.TransitionRecorder
	txManager    txManager
	checks       map[string]healthHandler.Check
}

func main() {
	configPath := "config.toml"
	if v, ok := os.LookupEnv("CONFIG_PATH"); ok && v != "" {
		configPath = v
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
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

	log.Info("Starting SMC-InkBookingService...")
	log.Info("Configuration loaded from %s", configPath)

	// W3C traceparent в заголовках Kafka
	otel.SetTextMapPropagator(propagation.TraceContext{})

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище
	var store *storage
	switch cfg.Database.Driver {
	case config.DriverMemory:
		store, err = newMemoryStorage(cfg)
		log.Warn("Using in-memory storage, data will be lost on restart")
	default:
		var db *sql.DB
		store, db, err = newPostgresStorage(cfg, metricsCollector, stopMetricsCh, log)
		if db != nil {
			defer db.Close()
		}
	}
	if err != nil {
		log.Fatal("Failed to initialize storage: %v", err)
	}

	if err := seedResources(context.Background(), cfg, store.resources, log); err != nil {
		log.Fatal("Failed to seed resources: %v", err)
	}

	// Калькулятор цены и политика отмены
	pricingCfg, err := cfg.PricingDomain()
	if err != nil {
		log.Fatal("Invalid pricing config: %v", err)
	}
	calculator, err := pricing.NewCalculator(pricingCfg)
	if err != nil {
		log.Fatal("Invalid pricing config: %v", err)
	}
	evaluator, err := policy.NewEvaluator(cfg.CancellationTiers())
	if err != nil {
		log.Fatal("Invalid cancellation policy: %v", err)
	}

	// Блокировка мастеров: Redis для нескольких инстансов, иначе внутри процесса
	var locker scheduling.Locker = lock.NewLocalLocker(cfg.Scheduling.LockStripes)
	refreshOnLock := false
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal("Failed to ping redis: %v", err)
		}

		locker = lock.NewRedisLocker(
			rdb,
			cfg.Redis.LockPrefix,
			time.Duration(cfg.Redis.LockTTL)*time.Millisecond,
			time.Duration(cfg.Redis.LockRetryInterval)*time.Millisecond,
			log,
		)
		refreshOnLock = true
		store.checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info("Redis locker enabled (addr=%s)", cfg.Redis.Addr)
	}

	// Уведомления
	var sinks []notifier.Sink
	var kafkaSink *notifier.KafkaSink
	if cfg.Kafka.Enabled {
		kafkaSink = notifier.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.Topic, time.Duration(cfg.Kafka.WriteTimeout)*time.Second)
		sinks = append(sinks, kafkaSink)
		log.Info("Kafka notifications enabled (topic=%s)", cfg.Kafka.Topic)
	}
	if cfg.Webhook.Enabled {
		sinks = append(sinks, notifier.NewWebhookSink(cfg.Webhook.URL, cfg.Webhook.Secret, time.Duration(cfg.Webhook.Timeout)*time.Second))
		log.Info("Webhook notifications enabled (url=%s)", cfg.Webhook.URL)
	}
	if len(sinks) == 0 {
		sinks = append(sinks, notifier.NewLogSink(log))
	}
	asyncNotifier := notifier.NewAsync(notifier.AsyncConfig{
		BufferSize:  cfg.Notifications.BufferSize,
		Workers:     cfg.Notifications.Workers,
		SendTimeout: time.Duration(cfg.Notifications.SendTimeout) * time.Second,
	}, sinks, log, metricsCollector)

	// Движок записи
	index := availability.NewIndex()
	engine := scheduling.NewEngine(
		store.appointments,
		store.resources,
		store.transitions,
		index,
		locker,
		calculator,
		evaluator,
		asyncNotifier,
		store.txManager,
		nil,
		metricsCollector,
		log,
		scheduling.Options{
			MinBookingNotice: time.Duration(cfg.Scheduling.MinBookingNoticeMinutes) * time.Minute,
			LockTimeout:      time.Duration(cfg.Scheduling.LockTimeout) * time.Millisecond,
			RefreshOnLock:    refreshOnLock,
		},
	)

	warmCtx, cancelWarm := context.WithTimeout(context.Background(), 30*time.Second)
	loaded, err := engine.WarmUp(warmCtx)
	cancelWarm()
	if err != nil {
		log.Fatal("Failed to warm up availability index: %v", err)
	}
	log.Info("Availability index loaded: %d appointments", loaded)

	// Сервисы и use cases
	resourceSvc := resourcesService.NewService(store.resources, store.txManager, log)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		store.resources,
		index,
		calculator,
		getAvailableSlotsUC.Settings{
			DefaultStepMinutes:      cfg.Scheduling.DefaultSlotStepMinutes,
			MinBookingNoticeMinutes: cfg.Scheduling.MinBookingNoticeMinutes,
			MaxWindowDays:           domain.MaxAvailabilityWindowDays,
		},
		log,
	)
	getCustomerAppointmentsUseCase := getCustomerAppointmentsUC.NewUseCase(store.appointments, log)

	// Инициализируем handlers
	createAppointment := createAppointmentHandler.NewHandler(engine, log)
	getAppointment := getAppointmentHandler.NewHandler(engine, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(engine, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(engine, log)
	getCancellationQuote := getCancellationQuoteHandler.NewHandler(engine, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(engine, log)
	getAppointmentHistory := getAppointmentHistoryHandler.NewHandler(engine, log)
	getResourceAppointments := getResourceAppointmentsHandler.NewHandler(engine, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getCustomerAppointments := getCustomerAppointmentsHandler.NewHandler(getCustomerAppointmentsUseCase, log)
	estimatePrice := estimatePriceHandler.NewHandler(calculator, log)
	getResource := getResourceHandler.NewHandler(resourceSvc, log)
	listResources := listResourcesHandler.NewHandler(resourceSvc, log)
	createResource := createResourceHandler.NewHandler(resourceSvc, log)
	updateWorkingHours := updateWorkingHoursHandler.NewHandler(resourceSvc, log)
	health := healthHandler.NewHandler(store.checks, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/healthz", health.Live).Methods(http.MethodGet)
	r.HandleFunc("/readyz", health.Ready).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/resources", listResources.Handle).Methods(http.MethodGet)
	api.HandleFunc("/resources/{resourceId}", getResource.Handle).Methods(http.MethodGet)
	api.HandleFunc("/resources/{resourceId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/pricing/estimate", estimatePrice.Handle).Methods(http.MethodPost)

	// ============================================================
	// ADMIN ROUTES (Bearer JWT с ролью admin)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminJWT(cfg.Auth.AdminJWTSecret))

	admin.HandleFunc("/resources", createResource.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/resources/{resourceId}/working-hours", updateWorkingHours.Handle).Methods(http.MethodPut)
	admin.HandleFunc("/resources/{resourceId}/appointments", getResourceAppointments.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/appointments/{appointmentId}/history", getAppointmentHistory.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments", getCustomerAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/reschedule", rescheduleAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/cancellation-quote", getCancellationQuote.Handle).Methods(http.MethodGet)

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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Досылаем уведомления, которые уже в очереди
	if err := asyncNotifier.Close(shutdownCtx); err != nil {
		log.Warn("Notification queue not drained: %v", err)
	}
	if kafkaSink != nil {
		if err := kafkaSink.Close(); err != nil {
			log.Warn("Failed to close kafka writer: %v", err)
		}
	}

	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	log.Info("Server stopped gracefully")
}

// newPostgresStorage подключается к Postgres, применяет миграции и собирает репозитории
func newPostgresStorage(
	cfg *config.Config,
	collector *metrics.Metrics,
	stopMetricsCh <-chan struct{},
	log *logger.Logger,
) (*storage, *sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		return nil, db, fmt.Errorf("ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(db, log); err != nil {
			return nil, db, err
		}
	}

	var wrappedDB *dbmetrics.DB
	if collector != nil {
		wrappedDB = dbmetrics.WrapWithDefault(db, collector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	resources, err := resourceRepo.NewCachedRepository(resourceRepo.NewRepository(wrappedDB), cfg.Scheduling.ResourceCacheSize)
	if err != nil {
		return nil, db, err
	}

	return &storage{
		appointments: appointmentRepo.NewRepository(wrappedDB),
		resources:    resources,
		transitions:  transitionRepo.NewRepository(wrappedDB),
		txManager:    txmanager.New(wrappedDB),
		checks: map[string]healthHandler.Check{
			"postgres": wrappedDB.PingContext,
		},
	}, db, nil
}

// newMemoryStorage собирает in-memory хранилище для локального запуска и тестов
func newMemoryStorage(cfg *config.Config) (*storage, error) {
	resources, err := resourceRepo.NewCachedRepository(memory.NewResourceRepository(), cfg.Scheduling.ResourceCacheSize)
	if err != nil {
		return nil, err
	}
	return &storage{
		appointments: memory.NewAppointmentRepository(),
		resources:    resources,
		transitions:  memory.NewTransitionRepository(),
		txManager:    memory.NewTxManager(),
		checks:       map[string]healthHandler.Check{},
	}, nil
}

// seedResources создает мастеров из конфигурации, если хранилище пустое
func seedResources(ctx context.Context, cfg *config.Config, repo *resourceRepo.CachedRepository, log *logger.Logger) error {
	seeds, err := cfg.SeedResources()
	if err != nil {
		return err
	}
	if len(seeds) == 0 {
		return nil
	}

	existing, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list resources: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for _, seed := range seeds {
		created, err := repo.Create(ctx, seed)
		if err != nil {
			return fmt.Errorf("create resource %q: %w", seed.Name, err)
		}
		log.Info("Seeded resource: id=%d, name=%s", created.ID, created.Name)
	}
	return nil
}
