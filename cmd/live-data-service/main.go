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

	"github.com/checkmateLL/F1LiveDashboard/internal/cache"
	"github.com/checkmateLL/F1LiveDashboard/internal/config"
	"github.com/checkmateLL/F1LiveDashboard/internal/db"
	"github.com/checkmateLL/F1LiveDashboard/internal/facade"
	"github.com/checkmateLL/F1LiveDashboard/internal/handlers"
	"github.com/checkmateLL/F1LiveDashboard/internal/poller"
	"github.com/checkmateLL/F1LiveDashboard/internal/providers/livetiming"
	"github.com/checkmateLL/F1LiveDashboard/internal/ws"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	log.Println("Starting F1 Live Data Service...")

	cfg := config.LoadConfig()

	// Live cache
	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Println("Connected to Redis")

	// Historical store
	history, err := db.NewPostgres(cfg.History.DSN)
	if err != nil {
		log.Fatalf("Failed to connect to historical store: %v", err)
	}
	defer history.Close()
	log.Println("Connected to historical store")

	// Pipeline components
	liveCache := cache.New(redisClient)
	provider := livetiming.New(cfg.Provider.BaseURL, cfg.Provider.FetchTimeout)
	hub := ws.NewHub()

	p := poller.New(history, provider, liveCache, hub, poller.Config{
		PollInterval: cfg.Poller.PollInterval,
		IdleInterval: cfg.Poller.IdleInterval,
		FetchTimeout: cfg.Provider.FetchTimeout,
	})

	readFacade := facade.New(liveCache, history)
	handler := handlers.New(readFacade, p, history)
	wsHandler := handlers.NewWSHandler(hub)

	// Router
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", handler.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/ws", wsHandler.Subscribe)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/years", handler.GetYears)
		r.Get("/events", handler.GetEvents)
		r.Get("/events/{eventID}/sessions", handler.GetEventSessions)
		r.Get("/teams", handler.GetTeams)
		r.Get("/drivers", handler.GetDrivers)
		r.Get("/compounds", handler.GetTireCompounds)

		r.Get("/standings/drivers", handler.GetDriverStandings)
		r.Get("/standings/constructors", handler.GetConstructorStandings)

		r.Get("/sessions/{sessionID}/results", handler.GetRaceResults)
		r.Get("/sessions/{sessionID}/qualifying", handler.GetQualifyingResults)
		r.Get("/sessions/{sessionID}/laps", handler.GetLaps)
		r.Get("/sessions/{sessionID}/timing", handler.GetTiming)
		r.Get("/sessions/{sessionID}/tires", handler.GetTires)
		r.Get("/sessions/{sessionID}/weather", handler.GetWeather)

		r.Get("/live/session", handler.GetLiveSession)
		r.Get("/live/status", handler.GetTrackStatus)
		r.Get("/live/last-update", handler.GetLastUpdate)
		r.Post("/live/polling/start", handler.StartPolling)
		r.Post("/live/polling/stop", handler.StopPolling)
	})

	// Background work
	appCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go hub.Run(appCtx)
	p.Start(appCtx)
	defer p.Stop()

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: r,
	}

	go func() {
		log.Printf("Listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Received shutdown signal")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("F1 Live Data Service stopped")
}
