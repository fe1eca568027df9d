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

	authHandlers "github.com/v1malina/TCS-ScheduleService/internal/api/handlers/auth"
	createBookingHandler "github.com/v1malina/TCS-ScheduleService/internal/api/handlers/create_booking"
	deleteBookingHandler "github.com/v1malina/TCS-ScheduleService/internal/api/handlers/delete_booking"
	deleteSlotHandler "github.com/v1malina/TCS-ScheduleService/internal/api/handlers/delete_slot"
	exportBookingsHandler "github.com/v1malina/TCS-ScheduleService/internal/api/handlers/export_bookings"
	generateSlotsHandler "github.com/v1malina/TCS-ScheduleService/internal/api/handlers/generate_slots"
	getTeacherSlotsHandler "github.com/v1malina/TCS-ScheduleService/internal/api/handlers/get_teacher_slots"
	listBookingsHandler "github.com/v1malina/TCS-ScheduleService/internal/api/handlers/list_bookings"
	listSlotsHandler "github.com/v1malina/TCS-ScheduleService/internal/api/handlers/list_slots"
	patchBookingHandler "github.com/v1malina/TCS-ScheduleService/internal/api/handlers/patch_booking"
	patchSlotHandler "github.com/v1malina/TCS-ScheduleService/internal/api/handlers/patch_slot"
	subjectsHandlers "github.com/v1malina/TCS-ScheduleService/internal/api/handlers/subjects"
	teacherLoadHandler "github.com/v1malina/TCS-ScheduleService/internal/api/handlers/teacher_load"
	teachersHandlers "github.com/v1malina/TCS-ScheduleService/internal/api/handlers/teachers"
	usersHandlers "github.com/v1malina/TCS-ScheduleService/internal/api/handlers/users"
	"github.com/v1malina/TCS-ScheduleService/internal/api/middleware"
	"github.com/v1malina/TCS-ScheduleService/internal/config"
	"github.com/v1malina/TCS-ScheduleService/internal/infra/migrations"
	bookingRepo "github.com/v1malina/TCS-ScheduleService/internal/infra/storage/booking"
	slotRepo "github.com/v1malina/TCS-ScheduleService/internal/infra/storage/slot"
	subjectRepo "github.com/v1malina/TCS-ScheduleService/internal/infra/storage/subject"
	teacherRepo "github.com/v1malina/TCS-ScheduleService/internal/infra/storage/teacher"
	userRepo "github.com/v1malina/TCS-ScheduleService/internal/infra/storage/user"
	authService "github.com/v1malina/TCS-ScheduleService/internal/service/auth"
	bookingsService "github.com/v1malina/TCS-ScheduleService/internal/service/bookings"
	slotsService "github.com/v1malina/TCS-ScheduleService/internal/service/slots"
	subjectsService "github.com/v1malina/TCS-ScheduleService/internal/service/subjects"
	teachersService "github.com/v1malina/TCS-ScheduleService/internal/service/teachers"
	usersService "github.com/v1malina/TCS-ScheduleService/internal/service/users"
	createBookingUC "github.com/v1malina/TCS-ScheduleService/internal/usecase/create_booking"
	generateSlotsUC "github.com/v1malina/TCS-ScheduleService/internal/usecase/generate_slots"
	"github.com/v1malina/TCS-ScheduleService/pkg/dbmetrics"
	"github.com/v1malina/TCS-ScheduleService/pkg/logger"
	"github.com/v1malina/TCS-ScheduleService/pkg/metrics"
	"github.com/v1malina/TCS-ScheduleService/pkg/simpletxmanager"
	"github.com/v1malina/TCS-ScheduleService/pkg/txmanager"
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

	log.Info("Starting TCS-ScheduleService...")
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

	// Применяем миграции
	if err := migrations.Up(context.Background(), db); err != nil {
		log.Fatal("Failed to apply migrations: %v", err)
	}
	if version, err := migrations.Version(context.Background(), db); err == nil {
		log.Info("Database schema is at version %d", version)
	}

	// Интерфейс для transaction manager (используется в сервисах и usecases)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	// Инициализируем репозитории (с метриками или без)
	var dbExecutor dbmetrics.DBExecutor = db
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		dbExecutor = wrappedDB
		txMgr = txmanager.NewTransactionManager(wrappedDB)
		log.Info("Database metrics collection started")
	} else {
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	userRepository := userRepo.NewRepository(dbExecutor)
	teacherRepository := teacherRepo.NewRepository(dbExecutor)
	subjectRepository := subjectRepo.NewRepository(dbExecutor)
	slotRepository := slotRepo.NewRepository(dbExecutor)
	bookingRepository := bookingRepo.NewRepository(dbExecutor)

	// Инициализируем сервисы
	authSvc := authService.NewService(
		cfg.Auth.AdminEmail,
		cfg.Auth.AdminPassword,
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.TokenExpireMinutes)*time.Minute,
		log,
	)
	slotsSvc := slotsService.NewService(slotRepository, bookingRepository, teacherRepository, txMgr, log)
	bookingsSvc := bookingsService.NewService(bookingRepository, teacherRepository, log)
	usersSvc := usersService.NewService(userRepository, teacherRepository, slotRepository, bookingRepository, txMgr, log)
	teachersSvc := teachersService.NewService(teacherRepository, userRepository, subjectRepository, slotRepository, bookingRepository, txMgr, log)
	subjectsSvc := subjectsService.NewService(subjectRepository, teacherRepository, slotRepository, log)

	// Инициализируем use cases
	generateSlotsUseCase := generateSlotsUC.NewUseCase(
		slotRepository,
		teacherRepository,
		subjectRepository,
		cfg.Slots.DefaultStepMinutes,
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		slotRepository,
		bookingRepository,
		userRepository,
		txMgr,
		log,
	)

	// Инициализируем handlers
	generateSlots := generateSlotsHandler.NewHandler(generateSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	listSlots := listSlotsHandler.NewHandler(slotsSvc, log)
	getTeacherSlots := getTeacherSlotsHandler.NewHandler(slotsSvc, log)
	patchSlot := patchSlotHandler.NewHandler(slotsSvc, log)
	deleteSlot := deleteSlotHandler.NewHandler(slotsSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingsSvc, log)
	patchBooking := patchBookingHandler.NewHandler(bookingsSvc, log)
	deleteBooking := deleteBookingHandler.NewHandler(bookingsSvc, log)
	exportBookings := exportBookingsHandler.NewHandler(bookingsSvc, log)
	teacherLoad := teacherLoadHandler.NewHandler(bookingsSvc, log)
	usersHandler := usersHandlers.NewHandler(usersSvc, log)
	teachersHandler := teachersHandlers.NewHandler(teachersSvc, log)
	subjectsHandler := subjectsHandlers.NewHandler(subjectsSvc, log)
	authHandler := authHandlers.NewHandler(authSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Health check для оркестратора
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Аутентификация администратора
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods(http.MethodPost)
	api.HandleFunc("/auth/me", authHandler.Me).Methods(http.MethodGet)

	// Витрина расписания
	api.HandleFunc("/slots", listSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/teachers/{teacher_id}/slots", getTeacherSlots.Handle).Methods(http.MethodGet)

	// Создание бронирования
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют админский токен)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.RequireAdmin(authSvc, log))

	// --- Слоты ---
	protected.HandleFunc("/teachers/{teacher_id}/slots", generateSlots.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/slots/{id}", patchSlot.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/slots/{id}", deleteSlot.Handle).Methods(http.MethodDelete)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/export.csv", exportBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{id}", patchBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{id}", deleteBooking.Handle).Methods(http.MethodDelete)

	// --- Отчёты ---
	protected.HandleFunc("/reports/teacher-load", teacherLoad.Handle).Methods(http.MethodGet)

	// --- Пользователи ---
	protected.HandleFunc("/users", usersHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/users", usersHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/users/{id}", usersHandler.GetByID).Methods(http.MethodGet)
	protected.HandleFunc("/users/{id}", usersHandler.Patch).Methods(http.MethodPatch)
	protected.HandleFunc("/users/{id}", usersHandler.Delete).Methods(http.MethodDelete)

	// --- Преподаватели ---
	protected.HandleFunc("/teachers", teachersHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/teachers", teachersHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/teachers/{id}", teachersHandler.GetByID).Methods(http.MethodGet)
	protected.HandleFunc("/teachers/{id}", teachersHandler.Delete).Methods(http.MethodDelete)
	protected.HandleFunc("/teachers/{id}/subjects", teachersHandler.SetSubjects).Methods(http.MethodPut)

	// --- Предметы ---
	protected.HandleFunc("/subjects", subjectsHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/subjects", subjectsHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/subjects/{id}", subjectsHandler.GetByID).Methods(http.MethodGet)
	protected.HandleFunc("/subjects/{id}", subjectsHandler.Update).Methods(http.MethodPatch)
	protected.HandleFunc("/subjects/{id}", subjectsHandler.Delete).Methods(http.MethodDelete)

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
