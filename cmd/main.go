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

	addTreatmentHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/add_treatment"
	cancelBookingHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/cancel_booking"
	confirmPaymentHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/confirm_payment"
	createBookingHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/create_booking"
	createPromoHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/create_promo"
	deactivatePromoHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/deactivate_promo"
	getBookingHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/get_booking"
	getBookingAuditHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/get_booking_audit"
	getPromoHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/get_promo"
	getReceiptHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/get_receipt"
	getTreatmentPriceHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/get_treatment_price"
	getUserBookingsHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/get_user_bookings"
	initiatePaymentHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/initiate_payment"
	listBookingsHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/list_bookings"
	listPromosHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/list_promos"
	listTreatmentsHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/list_treatments"
	paymentNotificationHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/payment_notification"
	removeTreatmentHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/remove_treatment"
	updateBookingStatusHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/update_booking_status"
	updatePromoHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/update_promo"
	updateQuantityHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/update_quantity"
	"github.com/m04kA/SMC-ClinicService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicService/internal/config"
	auditRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/audit"
	bookingRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/booking"
	paymentRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/payment"
	promoRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/promo"
	treatmentRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/treatment"
	"github.com/m04kA/SMC-ClinicService/internal/integrations/paymentgateway"
	bookingsService "github.com/m04kA/SMC-ClinicService/internal/service/bookings"
	ledgerService "github.com/m04kA/SMC-ClinicService/internal/service/ledger"
	paymentsService "github.com/m04kA/SMC-ClinicService/internal/service/payments"
	promosService "github.com/m04kA/SMC-ClinicService/internal/service/promos"
	receiptsService "github.com/m04kA/SMC-ClinicService/internal/service/receipts"
	treatmentsService "github.com/m04kA/SMC-ClinicService/internal/service/treatments"
	createBookingUC "github.com/m04kA/SMC-ClinicService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-ClinicService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicService/pkg/logger"
	"github.com/m04kA/SMC-ClinicService/pkg/metrics"
	"github.com/m04kA/SMC-ClinicService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-ClinicService/pkg/txmanager"
)

// txManager общий интерфейс txmanager и simpletxmanager
type txManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

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

	log.Info("Starting SMC-ClinicService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
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

	// Репозитории работают через обёртку с метриками или напрямую с *sql.DB
	var (
		executor dbmetrics.DBExecutor
		txMgr    txManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")

		executor = wrappedDB
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		executor = db
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(executor)
	treatmentRepository := treatmentRepo.NewRepository(executor)
	promoRepository := promoRepo.NewRepository(executor)
	auditRepository := auditRepo.NewRepository(executor)
	paymentRepository := paymentRepo.NewRepository(executor)

	// Инициализируем сервисы
	ledgerSvc := ledgerService.NewService(
		txMgr,
		bookingRepository,
		treatmentRepository,
		promoRepository,
		auditRepository,
		metricsCollector,
		log,
	)
	bookingSvc := bookingsService.NewService(bookingRepository, auditRepository, log)
	treatmentSvc := treatmentsService.NewService(treatmentRepository, promoRepository, log)
	promoSvc := promosService.NewService(promoRepository, treatmentRepository, txMgr, log)
	receiptSvc := receiptsService.NewService(bookingRepository, paymentRepository, cfg.Clinic.Name, log)

	verifier := paymentgateway.NewVerifier(cfg.Payments.WebhookSecret)
	paymentSvc := paymentsService.NewService(
		txMgr,
		paymentRepository,
		bookingRepository,
		ledgerSvc,
		verifier,
		metricsCollector,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		ledgerSvc,
		txMgr,
		createBookingUC.Settings{
			ConsultationFee:         cfg.Clinic.ConsultationFee,
			AdvanceBookingDays:      cfg.Clinic.AdvanceBookingDays,
			MinBookingNoticeMinutes: cfg.Clinic.MinBookingNoticeMinutes,
		},
		log,
	)

	// Инициализируем handlers
	listTreatments := listTreatmentsHandler.NewHandler(treatmentSvc, log)
	getTreatmentPrice := getTreatmentPriceHandler.NewHandler(treatmentSvc, log)

	listPromos := listPromosHandler.NewHandler(promoSvc, log)
	getPromo := getPromoHandler.NewHandler(promoSvc, log)
	createPromo := createPromoHandler.NewHandler(promoSvc, log)
	updatePromo := updatePromoHandler.NewHandler(promoSvc, log)
	deactivatePromo := deactivatePromoHandler.NewHandler(promoSvc, log)

	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getBookingAudit := getBookingAuditHandler.NewHandler(bookingSvc, log)

	addTreatment := addTreatmentHandler.NewHandler(ledgerSvc, log)
	updateQuantity := updateQuantityHandler.NewHandler(ledgerSvc, log)
	removeTreatment := removeTreatmentHandler.NewHandler(ledgerSvc, log)

	getReceipt := getReceiptHandler.NewHandler(receiptSvc, log)
	initiatePayment := initiatePaymentHandler.NewHandler(paymentSvc, log)
	confirmPayment := confirmPaymentHandler.NewHandler(paymentSvc, log)
	paymentNotification := paymentNotificationHandler.NewHandler(paymentSvc, log)

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

	// Уведомления платёжного шлюза, подлинность проверяется подписью токена
	api.HandleFunc("/payments/notifications", paymentNotification.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Каталог процедур ---
	protected.HandleFunc("/treatments", listTreatments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/treatments/{treatmentId}/price", getTreatmentPrice.Handle).Methods(http.MethodGet)

	// --- Акции (персонал смотрит, администратор управляет) ---
	protected.HandleFunc("/promos", listPromos.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/promos", createPromo.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/promos/{promoId}", getPromo.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/promos/{promoId}", updatePromo.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/promos/{promoId}", deactivatePromo.Handle).Methods(http.MethodDelete)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/audit", getBookingAudit.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Позиции бронирования (касса) ---
	protected.HandleFunc("/bookings/{bookingId}/treatments", addTreatment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/treatments/{treatmentId}", updateQuantity.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/treatments/{treatmentId}", removeTreatment.Handle).Methods(http.MethodDelete)

	// --- Оплата и чеки ---
	protected.HandleFunc("/bookings/{bookingId}/receipt", getReceipt.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/payments", initiatePayment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/payments/{paymentId}/confirm", confirmPayment.Handle).Methods(http.MethodPost)

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
}
