package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lineage-health/platform/internal/adapters/clinic"
	"github.com/lineage-health/platform/internal/auth"
	"github.com/lineage-health/platform/internal/chat"
	"github.com/lineage-health/platform/internal/family"
	"github.com/lineage-health/platform/internal/history"
	"github.com/lineage-health/platform/internal/medications"
	"github.com/lineage-health/platform/internal/profile"
	"github.com/lineage-health/platform/internal/recommend"
	"github.com/lineage-health/platform/internal/results"
	sharedauth "github.com/lineage-health/platform/internal/shared/auth"
	"github.com/lineage-health/platform/internal/shared/config"
	"github.com/lineage-health/platform/internal/shared/database"
	"github.com/lineage-health/platform/internal/shared/events"
	"github.com/lineage-health/platform/internal/shared/metrics"
	secmiddleware "github.com/lineage-health/platform/internal/shared/middleware"
	"github.com/lineage-health/platform/internal/storage"
)

// App holds all application dependencies
type App struct {
	Config *config.Config
	DB     *database.DB
	Bus    *events.Bus
	Clinic *clinic.Adapter
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	app := &App{Config: cfg}

	// Initialize database (optional - skip if not available)
	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		fmt.Printf("Warning: Database not available: %v\n", err)
		fmt.Println("Running in limited mode without database...")
	} else {
		app.DB = db
		defer db.Close()

		if err := database.Migrate(ctx, db.Pool); err != nil {
			fmt.Printf("Warning: Migration failed: %v\n", err)
		}
	}

	// Initialize event bus (optional - skip if not available)
	if cfg.EventStore.Enabled {
		bus, err := events.NewBus(ctx, cfg.EventStore)
		if err != nil {
			fmt.Printf("Warning: EventStoreDB not available: %v\n", err)
			fmt.Println("Running without event streaming...")
		} else {
			app.Bus = bus
			defer bus.Close()
			fmt.Println("Event bus initialized")
		}
	}

	store, err := storage.New(cfg.Storage.RootDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize file storage: %v\n", err)
		os.Exit(1)
	}

	rateLimiter := secmiddleware.NewIPRateLimiter(20, 40)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(secmiddleware.SecurityHeaders)
	r.Use(secmiddleware.InputSanitizer(cfg.Storage.MaxUploadBytes))
	r.Use(metrics.Middleware)
	r.Use(corsMiddleware)

	// Health checks (unauthenticated)
	r.Get("/health", healthHandler(app))
	r.Get("/ready", readyHandler(app))
	r.Handle("/metrics", metrics.Handler())

	// API info
	r.Get("/", infoHandler)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		if app.DB == nil {
			r.HandleFunc("/*", func(w http.ResponseWriter, req *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{"error": "database not available"})
			})
			return
		}

		// Repositories
		authRepo := auth.NewRepository(app.DB.Pool)
		profileRepo := profile.NewRepository(app.DB.Pool)
		familyRepo := family.NewRepository(app.DB.Pool)
		historyRepo := history.NewRepository(app.DB.Pool)
		resultsRepo := results.NewRepository(app.DB.Pool)
		chatRepo := chat.NewRepository(app.DB.Pool)

		// Public auth routes, rate limited against credential stuffing
		authHandler := auth.NewHandler(authRepo, cfg.Auth, app.Bus)
		r.Group(func(r chi.Router) {
			r.Use(rateLimiter.Middleware)
			r.Mount("/auth", authHandler.Routes())
		})

		// Everything below requires a session token
		r.Group(func(r chi.Router) {
			r.Use(sharedauth.Middleware(cfg.Auth))

			r.Get("/auth/me", authHandler.Me)

			profileHandler := profile.NewHandler(profileRepo, familyRepo, historyRepo, authHandler, app.Bus)
			r.Mount("/profile", profileHandler.Routes())
			r.Post("/onboarding", profileHandler.CompleteOnboarding)

			familyHandler := family.NewHandler(familyRepo, app.Bus)
			r.Mount("/family", familyHandler.Routes())

			historyHandler := history.NewHandler(historyRepo, app.Bus)
			r.Mount("/history", historyHandler.Routes())

			resultsHandler := results.NewHandler(resultsRepo, store, app.Bus, cfg.Storage.MaxUploadBytes)
			r.Mount("/results", resultsHandler.Routes())

			medsHandler := medications.NewHandler(historyRepo)
			r.Mount("/medications", medsHandler.Routes())

			// Recommendations need onboarding answers to mean anything; the
			// client sends users with a pre-onboarding token back to the flow.
			recHandler := recommend.NewHandler(profileRepo, familyRepo, historyRepo)
			r.Group(func(r chi.Router) {
				r.Use(sharedauth.RequireOnboarded)
				r.Mount("/recommendations", recHandler.Routes())
			})

			chatClient := chat.NewClient(cfg.Chat)
			chatHandler := chat.NewHandler(chatClient, chatRepo, app.Bus)
			r.Mount("/chat", chatHandler.Routes())
			if !chatClient.Configured() {
				fmt.Println("Chat assistant disabled (no API key configured)")
			}
		})

		// Clinic lab-result importer
		if cfg.Clinic.Enabled {
			adapter := clinic.New(cfg.Clinic, resultsRepo, authRepo, app.Bus)
			if err := adapter.Start(ctx); err != nil {
				fmt.Printf("Warning: Clinic importer failed to start: %v\n", err)
			} else {
				app.Clinic = adapter
				fmt.Printf("Clinic importer started (%s:%d, every %ds)\n",
					cfg.Clinic.Host, cfg.Clinic.Port, cfg.Clinic.PollIntervalSeconds)
			}
		}
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan bool)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		fmt.Println("\nShutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if app.Clinic != nil {
			if err := app.Clinic.Stop(ctx); err != nil {
				fmt.Printf("Clinic importer shutdown error: %v\n", err)
			}
		}

		if err := srv.Shutdown(ctx); err != nil {
			fmt.Printf("Server shutdown error: %v\n", err)
		}
		close(done)
	}()

	fmt.Println("============================================")
	fmt.Println("Lineage Health Platform")
	fmt.Println("============================================")
	fmt.Printf("Environment:    %s\n", cfg.Server.Env)
	fmt.Printf("Server:         http://localhost:%d\n", cfg.Server.Port)
	fmt.Printf("API:            http://localhost:%d/api/v1\n", cfg.Server.Port)
	fmt.Printf("Health:         http://localhost:%d/health\n", cfg.Server.Port)
	fmt.Printf("Storage root:   %s\n", cfg.Storage.RootDir)
	fmt.Printf("EventStore:     %s:%d\n", cfg.EventStore.Host, cfg.EventStore.Port)
	fmt.Printf("Clinic import:  %v\n", cfg.Clinic.Enabled)
	fmt.Println("============================================")

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}

	<-done
	fmt.Println("Server stopped")
}

func infoHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"name":    "Lineage Health Platform",
		"version": "0.1.0",
		"docs":    "/api/v1",
	})
}

func healthHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "healthy",
		})
	}
}

func readyHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"server": "ready",
		}

		if app.DB != nil {
			if err := app.DB.Health(r.Context()); err != nil {
				checks["database"] = "not ready: " + err.Error()
			} else {
				checks["database"] = "ready"
			}
		} else {
			checks["database"] = "not configured"
		}

		if app.Bus != nil {
			if err := app.Bus.Health(); err != nil {
				checks["eventstore"] = "not ready: " + err.Error()
			} else {
				checks["eventstore"] = "ready"
			}
		} else {
			checks["eventstore"] = "not configured"
		}

		if app.Clinic != nil {
			if err := app.Clinic.Health(r.Context()); err != nil {
				checks["clinic"] = "not ready: " + err.Error()
			} else {
				checks["clinic"] = "ready"
			}
		} else {
			checks["clinic"] = "not configured"
		}

		allReady := true
		for _, status := range checks {
			if status != "ready" && status != "not configured" {
				allReady = false
				break
			}
		}

		status := http.StatusOK
		if !allReady {
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"status": map[bool]string{true: "ready", false: "not ready"}[allReady],
			"checks": checks,
		})
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Request-ID")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
