package cmd

import (
	"context"
	"database/sql"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beharry-studio/ms-go-booking/app/auth"
	"github.com/beharry-studio/ms-go-booking/app/borica"
	"github.com/beharry-studio/ms-go-booking/app/controller"
	"github.com/beharry-studio/ms-go-booking/app/pending"
	"github.com/beharry-studio/ms-go-booking/app/repository"
	"github.com/beharry-studio/ms-go-booking/app/service"
	"github.com/beharry-studio/ms-go-booking/config"

	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

type services struct {
	voucher     *service.VoucherService
	reservation *service.ReservationService
	payment     *service.PaymentService
	stats       *service.StatsService
	gateway     *borica.Client
	sessions    *auth.SessionManager
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, svcs, cleanup := mustCreateServices()
	defer cleanup()

	if !svcs.gateway.IsConfigured() {
		logrus.Warn("BORICA credentials missing, payments run in simulation mode")
	}

	e := setupHTTPServer(cfg, svcs)

	go func() {
		httpAddr := net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port)
		logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
		if err := e.Start(httpAddr); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("HTTP shutdown error")
	}

	logrus.Info("Server stopped")
}

func setupHTTPServer(cfg *config.Config, svcs *services) *echo.Echo {
	paymentController := controller.NewPaymentController(svcs.payment, svcs.gateway, cfg.App.ServiceName)
	voucherController := controller.NewVoucherController(svcs.voucher)
	reservationController := controller.NewReservationController(svcs.reservation)
	adminController := controller.NewAdminController(svcs.sessions, svcs.stats, cfg.Admin)

	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"host":       v.Host,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	e.GET("/health", paymentController.Health)

	payment := e.Group("/api/payment")
	payment.POST("/initiate", paymentController.InitiatePayment)
	payment.POST("/callback", paymentController.HandleCallback)
	payment.GET("/callback", paymentController.HandleCallback)
	payment.GET("/diagnose", paymentController.Diagnose)

	reservations := e.Group("/api/reservations")
	reservations.POST("", reservationController.CreateReservation)
	reservations.GET("", reservationController.ReservedSeats)

	admin := e.Group("/api/admin")
	admin.POST("/auth", adminController.Login)
	admin.GET("/auth", adminController.Session)
	admin.DELETE("/auth", adminController.Logout)

	adminOnly := admin.Group("", adminController.RequireSession)
	adminOnly.GET("/stats", adminController.Stats)
	adminOnly.GET("/vouchers", voucherController.ListVouchers)
	adminOnly.PATCH("/vouchers/:id", voucherController.UpdateVoucherStatus)
	adminOnly.GET("/reservations", reservationController.ListReservations)
	adminOnly.PATCH("/reservations/:id", reservationController.UpdateReservationStatus)

	return e
}

func mustCreateServices() (*config.Config, *services, func()) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		logrus.WithError(err).Fatal("Failed to ping database")
	}

	voucherRepo := repository.NewVoucherRepository(db)
	reservationRepo := repository.NewReservationRepository(db)

	gateway := borica.NewClient(borica.Config{
		GatewayURL:         cfg.Borica.GatewayURL,
		MerchantID:         cfg.Borica.MerchantID,
		TerminalID:         cfg.Borica.TerminalID,
		PrivateKey:         cfg.Borica.PrivateKey,
		PrivateKeyPassword: cfg.Borica.PrivateKeyPassword,
		GatewayCertificate: cfg.Borica.GatewayCertificate,
		MerchantName:       cfg.Borica.MerchantName,
		MerchantGMT:        cfg.Borica.MerchantGMT,
		Country:            cfg.Borica.Country,
		Language:           cfg.Borica.Language,
	})

	voucherSvc := service.NewVoucherService(voucherRepo, cfg.Payments, logrus.WithField("module", "voucher-service"))
	reservationSvc := service.NewReservationService(reservationRepo, logrus.WithField("module", "reservation-service"))
	paymentSvc := service.NewPaymentService(
		gateway,
		borica.NewOrderSequence(),
		pending.NewRegistry(cfg.Payments.PendingRetention),
		voucherSvc,
		reservationSvc,
		cfg.App.PublicBaseURL,
		logrus.WithField("module", "payment-service"),
	)

	svcs := &services{
		voucher:     voucherSvc,
		reservation: reservationSvc,
		payment:     paymentSvc,
		stats:       service.NewStatsService(voucherRepo, reservationRepo),
		gateway:     gateway,
		sessions:    auth.NewSessionManager(cfg.Admin.SessionSecret, cfg.Admin.SessionTTL),
	}

	cleanup := func() {
		if err := db.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close database")
		}
	}

	return cfg, svcs, cleanup
}

func configureLogging(cfg *config.Config) error {
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.JSONFormatter{})
	return nil
}
