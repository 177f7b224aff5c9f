package main

import (
	"context"
	"log"
	"time"

	"chatdesk-be/internal/bootstrap"
	"chatdesk-be/internal/config"
	"chatdesk-be/internal/server"
	"chatdesk-be/internal/tracer"
	"chatdesk-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()
	if cfg.Auth.JwtSecret == "" {
		log.Panic("JWT_SECRET must be set")
	}

	// 2. Initialize Database
	gormDB, err := database.NewGormDB(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// Periodic sweep of expired sessions. Request handlers never do this.
	go func() {
		interval := time.Duration(cfg.Session.CleanupIntervalMinutes) * time.Minute
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			if _, err := container.SessionService.CleanupExpiredSessions(context.Background()); err != nil {
				log.Printf("Background Session Cleanup Error: %v", err)
			}
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
