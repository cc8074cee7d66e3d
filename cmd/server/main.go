package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/paimonworks/harem-service/internal/api"
	"github.com/paimonworks/harem-service/internal/config"
	"github.com/paimonworks/harem-service/internal/domain"
	"github.com/paimonworks/harem-service/internal/economy"
	"github.com/paimonworks/harem-service/internal/notify"
	"github.com/paimonworks/harem-service/internal/repository/postgres"
	"github.com/paimonworks/harem-service/internal/service"
	"github.com/paimonworks/harem-service/internal/session"
	"github.com/paimonworks/harem-service/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	// Initialize WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()

	// Roll sessions expire in memory; the expiry only needs announcing.
	sessions := session.NewManager(cfg.RollSessionTTL, func(sess *domain.RollSession) {
		hub.Publish(sess.GuildID, service.EventRollExpired, sess)
	})

	// Host collaborators are optional; without them paid actions are
	// free and wishlist pings go nowhere.
	var bank economy.Gate = economy.FreeGate{}
	if cfg.BankBaseURL != "" {
		bank = economy.NewBankClient(cfg.BankBaseURL)
	}
	var notifier notify.Notifier = notify.NopNotifier{}
	if cfg.NotifyBaseURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.NotifyBaseURL)
	}

	// Initialize services
	services := service.NewServices(repos, sessions, bank, notifier, hub, cfg)

	if seeded, err := services.Catalog.SeedIfEmpty(context.Background()); err != nil {
		log.Printf("ERROR [main] seeding catalog: %v", err)
	} else if seeded > 0 {
		log.Printf("Seeded catalog with %d characters", seeded)
	}

	// Initialize router
	router := api.NewRouter(services, hub)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	sessions.Stop()
	hub.Stop()

	log.Println("Server stopped")
}
