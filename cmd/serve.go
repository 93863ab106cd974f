package main

import (
	"context"
	"database/sql"
	"errors"
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
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	approveBlockHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/approve_block"
	bookAppointmentHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/book_appointment"
	cancelAppointmentHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/cancel_appointment"
	createBlockHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/create_block"
	createScheduleHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/create_schedule"
	deleteBlockHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/delete_block"
	finishAppointmentHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/finish_appointment"
	getActiveScheduleHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_active_schedule"
	getAppointmentHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_appointment"
	getDaySlotsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_day_slots"
	getMonthAvailabilityHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_month_availability"
	getScheduleHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_schedule"
	listAppointmentsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/list_appointments"
	listBlocksHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/list_blocks"
	listSchedulesHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/list_schedules"
	rejectBlockHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/reject_block"
	startAppointmentHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/start_appointment"
	updateScheduleHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/update_schedule"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/config"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	blockRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/block"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/migrations"
	scheduleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/events"
	userServiceClient "github.com/m04kA/SMC-SchedulingService/internal/integrations/userservice"
	appointmentsService "github.com/m04kA/SMC-SchedulingService/internal/service/appointments"
	blocksService "github.com/m04kA/SMC-SchedulingService/internal/service/blocks"
	schedulesService "github.com/m04kA/SMC-SchedulingService/internal/service/schedules"
	bookAppointmentUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/book_appointment"
	getDaySlotsUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_day_slots"
	getMonthAvailabilityUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_month_availability"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/keylock"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

const lockKeyPrefix = "scheduling:lock"

func serveCmd(configPath *string) *cobra.Command {
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP сервер",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(*configPath, autoMigrate)
		},
	}
	cmd.Flags().BoolVar(&autoMigrate, "migrate", false, "применить миграции перед запуском")

	return cmd
}

func runServer(configPath string, autoMigrate bool) error {
	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Close()

	log.Info("Starting SMC-SchedulingService...")
	log.Info("Configuration loaded from %s", configPath)

	location, err := cfg.Scheduling.Location()
	if err != nil {
		return err
	}

	// Метрики (если включены). nil *metrics.Metrics безопасно игнорируется потребителями
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if autoMigrate {
		migrator, err := migrations.NewMigrator(db, log)
		if err != nil {
			return err
		}
		if err := migrator.Up(context.Background()); err != nil {
			return err
		}
	}

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB)
	blockRepository := blockRepo.NewRepository(wrappedDB)
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)

	templateCache := scheduleRepo.NewCachedReader(
		scheduleRepository,
		time.Duration(cfg.Cache.TemplateTTLSeconds)*time.Second,
		time.Duration(cfg.Cache.CleanupIntervalSeconds)*time.Second,
		metricsCollector,
	)

	// Интеграции
	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	log.Info("UserService client initialized (url=%s, timeout=%ds)", cfg.UserService.URL, cfg.UserService.Timeout)

	var redisClient *redis.Client
	var broker events.Broker = events.NewLogBroker(log)
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			return fmt.Errorf("failed to ping redis: %w", err)
		}
		broker = events.NewRedisBroker(redisClient)
		log.Info("Redis connected (addr=%s), events published with prefix=%s", cfg.Redis.Addr, cfg.Redis.ChannelPrefix)
	} else {
		log.Warn("Redis disabled, events are written to the log only")
	}

	notifier := events.NewNotifier(
		events.NewPublisher(broker, cfg.Redis.ChannelPrefix, log),
		cfg.Booking.CollaboratorTimeout(),
		log,
	)

	var locker keylock.Locker = keylock.NewLocal()
	if cfg.Booking.LockBackend == "redis" {
		locker = keylock.NewRedis(
			redisClient,
			lockKeyPrefix,
			time.Duration(cfg.Booking.LockTTLSeconds)*time.Second,
			log,
		)
	}
	log.Info("Booking lock backend: %s (timeout=%s)", cfg.Booking.LockBackend, cfg.Booking.LockTimeout())

	policy := domain.BlockPolicy{PendingBlocksReserve: cfg.Scheduling.PendingBlocksReserve}

	// Сервисы
	scheduleSvc := schedulesService.NewService(scheduleRepository, templateCache, userClient, notifier, txMgr, log)
	blockSvc := blocksService.NewService(blockRepository, userClient, notifier, txMgr, log)
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		userClient,
		notifier,
		metricsCollector,
		txMgr,
		appointmentsService.Options{
			AllowEarlyStart: cfg.Lifecycle.AllowEarlyStart,
			Location:        location,
		},
		log,
	)

	// Use cases
	getDaySlotsUseCase := getDaySlotsUC.NewUseCase(
		templateCache,
		blockRepository,
		appointmentRepository,
		getDaySlotsUC.Options{
			Policy:                  policy,
			MinBookingNoticeMinutes: cfg.Scheduling.MinBookingNoticeMinutes,
			Location:                location,
		},
		log,
	)

	getMonthAvailabilityUseCase := getMonthAvailabilityUC.NewUseCase(
		templateCache,
		blockRepository,
		appointmentRepository,
		userClient,
		getMonthAvailabilityUC.Options{
			Policy:                  policy,
			MinBookingNoticeMinutes: cfg.Scheduling.MinBookingNoticeMinutes,
			Location:                location,
		},
		log,
	)

	bookAppointmentUseCase := bookAppointmentUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		blockRepository,
		locker,
		notifier,
		metricsCollector,
		txMgr,
		bookAppointmentUC.Options{
			LockTimeout:             cfg.Booking.LockTimeout(),
			MaxRetries:              cfg.Booking.MaxRetries,
			MinBookingNoticeMinutes: cfg.Scheduling.MinBookingNoticeMinutes,
			Policy:                  policy,
			Location:                location,
		},
		log,
	)

	// Handlers
	getDaySlots := getDaySlotsHandler.NewHandler(getDaySlotsUseCase, log)
	getMonthAvailability := getMonthAvailabilityHandler.NewHandler(getMonthAvailabilityUseCase, log)
	getActiveSchedule := getActiveScheduleHandler.NewHandler(scheduleSvc, log)
	getSchedule := getScheduleHandler.NewHandler(scheduleSvc, log)
	listSchedules := listSchedulesHandler.NewHandler(scheduleSvc, log)
	createSchedule := createScheduleHandler.NewHandler(scheduleSvc, log)
	updateSchedule := updateScheduleHandler.NewHandler(scheduleSvc, log)
	listBlocks := listBlocksHandler.NewHandler(blockSvc, log)
	createBlock := createBlockHandler.NewHandler(blockSvc, log)
	approveBlock := approveBlockHandler.NewHandler(blockSvc, log)
	rejectBlock := rejectBlockHandler.NewHandler(blockSvc, log)
	deleteBlock := deleteBlockHandler.NewHandler(blockSvc, log)
	bookAppointment := bookAppointmentHandler.NewHandler(bookAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	startAppointment := startAppointmentHandler.NewHandler(appointmentSvc, log)
	finishAppointment := finishAppointmentHandler.NewHandler(appointmentSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recover(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := db.PingContext(req.Context()); err != nil {
			handlers.RespondError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Слоты и доступность
	api.HandleFunc("/professionals/{professionalId}/slots", getDaySlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/professionals/{professionalId}/availability", getMonthAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/specialties/{specialtyId}/availability", getMonthAvailability.Handle).Methods(http.MethodGet)

	// Расписание
	api.HandleFunc("/professionals/{professionalId}/schedule", getActiveSchedule.Handle).Methods(http.MethodGet)
	api.HandleFunc("/professionals/{professionalId}/schedules", listSchedules.Handle).Methods(http.MethodGet)
	api.HandleFunc("/schedules/{scheduleId}", getSchedule.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Расписание ---
	protected.HandleFunc("/professionals/{professionalId}/schedule", createSchedule.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/schedules/{scheduleId}", updateSchedule.Handle).Methods(http.MethodPatch)

	// --- Блокировки ---
	protected.HandleFunc("/professionals/{professionalId}/blocks", listBlocks.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/professionals/{professionalId}/blocks", createBlock.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/blocks/{blockId}/approve", approveBlock.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/blocks/{blockId}/reject", rejectBlock.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/blocks/{blockId}", deleteBlock.Handle).Methods(http.MethodDelete)

	// --- Приемы ---
	var bookHandler http.Handler = http.HandlerFunc(bookAppointment.Handle)
	if cfg.RateLimit.Enabled {
		bookHandler = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst).Middleware(bookHandler)
		log.Info("Booking rate limit enabled (rps=%.1f, burst=%d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}
	protected.Handle("/appointments", bookHandler).Methods(http.MethodPost)
	protected.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/start", startAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/finish", finishAppointment.Handle).Methods(http.MethodPatch)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Ожидаем сигнал завершения или падение сервера
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		close(stopMetricsCh)
		return fmt.Errorf("server failed: %w", err)
	}

	log.Info("Shutting down server...")
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}
