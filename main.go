package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/memberdir/directory-backend/marketing/createsend"
	"github.com/memberdir/directory-backend/monitoring"
	"github.com/memberdir/directory-backend/notify"
	"github.com/memberdir/directory-backend/shared/utils"
	v1 "github.com/memberdir/directory-backend/v1"
	"github.com/memberdir/directory-backend/v1/handlers"
	"github.com/memberdir/directory-backend/v1/middleware"
	"github.com/memberdir/directory-backend/v1/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	utils.SetupLogging(
		utils.GetEnvOrDefault("LOG_FORMAT", "json"),
		utils.GetEnvOrDefault("LOG_LEVEL", "info"),
	)

	db, err := v1.ConnectGormDB(v1.LoadDatabaseConfig())
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := v1.Migrate(db); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET environment variable not set")
		os.Exit(1)
	}

	emailConfig := services.EmailConfig{
		APIKey:         os.Getenv("CREATESEND_API_KEY"),
		DefaultListID:  os.Getenv("CREATESEND_LIST_ID"),
		WebhookBaseURL: os.Getenv("WEBHOOK_BASE_URL"),
		NotifyTo:       os.Getenv("NOTIFY_TO"),
		NotifyFrom:     os.Getenv("NOTIFY_FROM"),
	}

	var sender notify.Sender
	mailjetPublic := os.Getenv("MAILJET_API_KEY")
	mailjetPrivate := os.Getenv("MAILJET_SECRET_KEY")
	if mailjetPublic != "" && mailjetPrivate != "" {
		sender = notify.NewMailjetSender(mailjetPublic, mailjetPrivate)
	} else {
		slog.Warn("Mailjet credentials not set, operator notifications disabled")
	}

	csClient := createsend.NewClient(emailConfig.APIKey)
	emailService := services.NewEmailService(emailConfig, db, csClient, csClient, csClient, sender)
	if emailService.IsConfigured() {
		slog.Info("Marketing platform sync enabled", "listId", emailConfig.DefaultListID)
	} else {
		slog.Warn("Marketing platform sync disabled, missing API key or list ID")
	}

	handler := handlers.NewV1Handler(
		services.NewMemberService(db),
		services.NewUserService(db),
		emailService,
		middleware.NewJWTVerifier(jwtSecret),
	)

	mux := http.NewServeMux()
	handler.SetupV1Routes(mux)
	mux.Handle("/metrics", monitoring.Handler())
	mux.HandleFunc("/health", healthHandler(db))

	port := utils.GetEnvOrDefault("PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      middleware.CORS(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("Starting server", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}

func healthHandler(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(r.Context())
		}
		if err != nil {
			utils.RespondWithJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
			})
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
		})
	}
}
