package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"healthlink-backend/config"
	"healthlink-backend/controllers"
	"healthlink-backend/lifecycle"
	"healthlink-backend/routes"
	"healthlink-backend/services"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println("warning: .env not found or couldn't load it; continuing with environment variables")
	}

	if os.Getenv("HEALTHLINK_AUTH_SECRET") == "" {
		log.Fatal("ERROR: HEALTHLINK_AUTH_SECRET environment variable is not set. Cannot issue tokens.")
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Database connect failed: %v", err)
	}
	db := config.DB
	if db == nil {
		log.Fatal("config.DB is nil after ConnectDatabase()")
	}
	log.Println("Database connection established and migrations applied")

	clock := lifecycle.SystemClock()

	// Initialize services
	userService := services.NewUserService(db)
	reportService := services.NewReportService(db)
	campaignService := services.NewCampaignService(db, clock)
	consultationService := services.NewConsultationService(db, clock)

	// Initialize controllers
	authController := controllers.NewAuthController(userService)
	userController := controllers.NewUserController(userService)
	reportController := controllers.NewReportController(reportService)
	campaignController := controllers.NewCampaignController(campaignService)
	consultationController := controllers.NewConsultationController(consultationService)

	// Background sweep of overdue consultations and elapsed campaigns
	sweeper := lifecycle.NewSweeper(clock, sweepStore{
		consultations: consultationService,
		campaigns:     campaignService,
	}, time.Minute)
	sweeper.Start()

	// Build router
	router := routes.SetupRouter(
		authController,
		userController,
		reportController,
		campaignController,
		consultationController,
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received, shutting down server...")

	sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped gracefully")
}

// sweepStore adapts the two services to the sweeper's store interface.
type sweepStore struct {
	consultations *services.ConsultationService
	campaigns     *services.CampaignService
}

func (s sweepStore) CompleteOverdueConsultations(now time.Time) (int64, error) {
	return s.consultations.CompleteOverdueConsultations(now)
}

func (s sweepStore) CompleteElapsedCampaigns(now time.Time) (int64, error) {
	return s.campaigns.CompleteElapsedCampaigns(now)
}
