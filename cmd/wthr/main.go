package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/swelljoe/wthr-widget/internal/config"
	"github.com/swelljoe/wthr-widget/internal/db"
	"github.com/swelljoe/wthr-widget/internal/handlers"
	"github.com/swelljoe/wthr-widget/internal/recent"
	"github.com/swelljoe/wthr-widget/internal/weather"
)

const pruneInterval = time.Hour

func main() {
	cfg, err := config.Load(os.Getenv("WTHR_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.OpenWeather.APIKey == "" {
		log.Println("Warning: OPENWEATHER_API_KEY is not set, every search will fail")
	}

	// Initialize database connection
	var store recent.Store = recent.NewMemoryStore()
	var health handlers.Database
	database, err := db.Open(cfg.Database.URL, cfg.Database.Path)
	if err != nil {
		log.Printf("Warning: Database connection failed: %v", err)
		log.Println("Continuing without database connection, recent searches will not persist...")
	} else {
		defer database.Close()
		log.Println("Database connected successfully")
		store = database
		health = database
	}

	client := weather.NewClient(cfg.OpenWeather.BaseURL, cfg.OpenWeather.APIKey)
	sessions := handlers.NewRegistry(client, store, cfg.RecentLimit)
	h := handlers.New(health, sessions)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go prune(ctx, sessions, database, cfg.SessionIdle)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Router(cfg.StaticDir),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	log.Printf("Server starting on http://localhost%s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	log.Println("Server stopped")
}

// prune drops idle sessions and the stored recent lists nobody has
// touched for maxIdle.
func prune(ctx context.Context, sessions *handlers.Registry, database *db.DB, maxIdle time.Duration) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := sessions.Prune(maxIdle); n > 0 {
				log.Printf("Pruned %d idle sessions", n)
			}
			if database == nil {
				continue
			}
			n, err := database.PruneScopes(time.Now().Add(-maxIdle))
			if err != nil {
				log.Printf("Failed to prune stored recent searches: %v", err)
			} else if n > 0 {
				log.Printf("Pruned %d stored recent search lists", n)
			}
		case <-ctx.Done():
			return
		}
	}
}
