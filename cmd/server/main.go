package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/citadelschools/school-portal/internal/config"
	"github.com/citadelschools/school-portal/internal/database"
	"github.com/citadelschools/school-portal/internal/handler"
	"github.com/citadelschools/school-portal/internal/repository"
	"github.com/citadelschools/school-portal/internal/service"
	"github.com/citadelschools/school-portal/internal/utils"
)

// @title           School Portal API
// @version         1.0
// @description     Result lifecycle and access control backend for Citadel of Knowledge International School.

// @contact.name   Portal Support
// @contact.email  support@citadelschools.ng

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	// ── Database ─────────────────────────────────────
	db := database.Connect(&cfg.Database)
	defer db.Close()

	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "./migrations"
	}
	log.Printf("Running migrations from: %s", migrationsPath)
	if err := database.RunMigrations(db, migrationsPath); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	seeder := database.NewSeeder(db)
	if err := seeder.SeedProprietor(context.Background()); err != nil {
		log.Printf("Warning: seed failed: %v", err)
	}

	// ── Storage (MinIO) ──────────────────────────────
	storage, err := utils.NewStorageService(&cfg.MinIO)
	if err != nil {
		log.Fatalf("Failed to connect to MinIO: %v", err)
	}
	log.Println("MinIO connected successfully")

	// ── Repositories ─────────────────────────────────
	staffRepo := repository.NewStaffRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	resultRepo := repository.NewResultRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	termReportRepo := repository.NewTermReportRepository(db)
	schoolRepo := repository.NewSchoolRepository(db)

	// ── Services ─────────────────────────────────────
	authService := service.NewAuthService(staffRepo, studentRepo, cfg)
	studentService := service.NewStudentService(studentRepo, storage)
	staffService := service.NewStaffService(staffRepo, storage)
	resultService := service.NewResultService(resultRepo, studentRepo)
	paymentService := service.NewPaymentService(paymentRepo, studentRepo, cfg.School.Name)
	reportService := service.NewReportService(studentRepo, resultRepo, paymentRepo, termReportRepo, schoolRepo, storage, cfg)
	schoolService := service.NewSchoolService(schoolRepo, termReportRepo)
	dashboardService := service.NewDashboardService(studentRepo, staffRepo, resultRepo, paymentRepo, schoolRepo)

	// ── Handlers ─────────────────────────────────────
	authHandler := handler.NewAuthHandler(authService)
	studentHandler := handler.NewStudentHandler(studentService)
	staffHandler := handler.NewStaffHandler(staffService)
	resultHandler := handler.NewResultHandler(resultService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	reportHandler := handler.NewReportHandler(reportService)
	schoolHandler := handler.NewSchoolHandler(schoolService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)

	// ── Router ───────────────────────────────────────
	router := handler.NewRouter(
		authHandler,
		studentHandler,
		staffHandler,
		resultHandler,
		paymentHandler,
		reportHandler,
		schoolHandler,
		dashboardHandler,
		cfg.JWT.Secret,
	)

	// ── HTTP Server ──────────────────────────────────
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.App.Port),
		Handler:      router.Setup(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server listening on port %s (mode: %s)", cfg.App.Port, cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server stopped gracefully")
}
