package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	httpapi "mentormatch-backend/internal/api/http"
	"mentormatch-backend/internal/config"
	"mentormatch-backend/internal/logger"
	"mentormatch-backend/internal/metrics"
	"mentormatch-backend/internal/repository"
	"mentormatch-backend/internal/repository/docstore"
	"mentormatch-backend/internal/repository/postgres"
	"mentormatch-backend/internal/security"
	"mentormatch-backend/internal/service"
	"mentormatch-backend/internal/store"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting MentorMatch Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Firestore configuration", "project_id", cfg.Firestore.ProjectID)

	metrics.Register()

	// Initialize Firestore
	ctx := context.Background()
	entityStore, err := store.NewFirestoreStore(ctx, cfg.Firestore.ProjectID, cfg.Firestore.CredentialsFile)
	if err != nil {
		logger.Error("Failed to connect to Firestore", "error", err)
		log.Fatalf("Failed to connect to Firestore: %v", err)
	}
	defer entityStore.Close()
	logger.Info("Firestore connection established")

	// Initialize the relational audit trail (optional)
	var auditRepo repository.AuditRepository
	if cfg.AuditEnabled() {
		db, err := sql.Open("postgres", cfg.GetAuditConnectionString())
		if err != nil {
			logger.Error("Failed to connect to audit database", "error", err)
			log.Fatalf("Failed to connect to audit database: %v", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			logger.Error("Failed to ping audit database", "error", err)
			log.Fatalf("Failed to ping audit database: %v", err)
		}
		auditRepo = postgres.NewAuditRepository(db)
		logger.Info("Audit database connection established", "host", cfg.AuditDB.Host, "database", cfg.AuditDB.Database)
	} else {
		logger.Warn("Audit database not configured, audit trail disabled")
	}

	// Initialize Repositories
	repos := docstore.NewStore(entityStore)

	// Initialize Security
	tokenManager := security.NewTokenManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Minute,
	)

	// Initialize Email Service
	var emailSvc service.EmailService
	if cfg.SendGrid.APIKey != "" {
		emailSvc = service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	} else {
		logger.Warn("SendGrid not configured, outbound email disabled")
	}

	// Initialize Services
	auditor := service.NewAuditor(auditRepo)
	ledger := service.NewCapacityLedger(repos.SupervisorRepository)

	authSvc := service.NewAuthService(
		repos.StudentRepository,
		repos.SupervisorRepository,
		repos.AdminRepository,
		tokenManager,
	)
	studentSvc := service.NewStudentService(repos.StudentRepository)
	supervisorSvc := service.NewSupervisorService(entityStore, repos.SupervisorRepository, auditor)
	applicationSvc := service.NewApplicationService(
		entityStore,
		repos.ApplicationRepository,
		repos.StudentRepository,
		repos.SupervisorRepository,
		repos.ProjectRepository,
		ledger,
		auditor,
		emailSvc,
		repos.NotificationRepository,
	)
	partnershipSvc := service.NewPartnershipService(
		entityStore,
		repos.StudentRepository,
		repos.StudentPartnershipRequestRepository,
		auditor,
		emailSvc,
		repos.NotificationRepository,
	)
	coSupervisionSvc := service.NewSupervisorPartnershipService(
		entityStore,
		repos.SupervisorRepository,
		repos.ProjectRepository,
		repos.SupervisorPartnershipRequestRepository,
		auditor,
		emailSvc,
		repos.NotificationRepository,
	)
	projectSvc := service.NewProjectService(repos.ProjectRepository)
	notificationSvc := service.NewNotificationService(repos.NotificationRepository)
	adminSvc := service.NewAdminService(
		repos.StudentRepository,
		repos.SupervisorRepository,
		repos.ApplicationRepository,
		repos.ProjectRepository,
		auditRepo,
	)

	// Set up HTTP server
	router := httpapi.NewRouter(httpapi.Services{
		Auth:          authSvc,
		Students:      studentSvc,
		Supervisors:   supervisorSvc,
		Applications:  applicationSvc,
		Partnerships:  partnershipSvc,
		CoSupervision: coSupervisionSvc,
		Projects:      projectSvc,
		Notifications: notificationSvc,
		Admin:         adminSvc,
	}, tokenManager, cfg.Server.AllowedOrigins)

	server := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
