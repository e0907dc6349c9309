package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"familyhub/internal/config"
	"familyhub/internal/database"
	"familyhub/internal/handlers"
	"familyhub/internal/metrics"
	"familyhub/internal/repository"
	"familyhub/internal/security"
	"familyhub/internal/service"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.EmailDebug)
	if err != nil {
		log.Printf("Warning: email disabled, could not configure SES: %v", err)
		emailService, _ = service.NewEmailService(cfg.AWSRegion, "", cfg.SESFromName, cfg.AppBaseURL, cfg.EmailDebug)
	}

	authService := service.NewAuthService(userRepo, emailService, cfg.SessionDuration)
	familyService := service.NewFamilyService(familyRepo, memberRepo, userRepo, emailService, cfg.AppBaseURL)
	activityService := service.NewActivityService(activityRepo, familyRepo)

	limiter := security.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow)
	collector := metrics.NewCollector()

	router := handlers.NewRouter(authService, familyService, activityService, limiter, collector)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Expired sessions and reset tokens accumulate; sweep them hourly.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := authService.CleanupExpiredSessions(); err != nil {
				log.Printf("Session cleanup failed: %v", err)
			}
			if err := authService.CleanupExpiredPasswordResetTokens(); err != nil {
				log.Printf("Reset token cleanup failed: %v", err)
			}
		}
	}()

	go func() {
		log.Printf("Server listening on :%s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
