package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"er-triage/internal/analytics"
	"er-triage/internal/chatbot"
	"er-triage/internal/config"
	"er-triage/internal/events"
	"er-triage/internal/mcpserver"
	"er-triage/internal/platform/database"
	"er-triage/internal/platform/telegram"
	"er-triage/internal/platform/web"
	"er-triage/internal/queue"
	"er-triage/internal/report"
	"er-triage/internal/triage"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// 2. Storage
	target, err := database.ParseURL(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	var (
		db   *sql.DB
		repo queue.Repository
	)
	switch target.Kind {
	case database.KindMemory:
		log.Println("DATABASE_URL not set, keeping the queue in memory.")
		repo = queue.NewMemoryRepository()
	default:
		db, err = database.Open(ctx, target, cfg.DBConnAttempts, 2*time.Second)
		if err != nil {
			return err
		}
		defer db.Close()
		log.Printf("Connected to %s database.", target.Kind)

		if err := database.Migrate(db, target, cfg.MigrationsPath); err != nil {
			return err
		}
		log.Println("Migrations applied successfully!")

		if target.Kind == database.KindSQLite {
			repo = queue.NewSQLiteRepository(db)
		} else {
			repo = queue.NewPostgresRepository(db)
		}
	}

	// 3. Event fan-out
	hub := events.NewHub()
	defer hub.Close()
	dispatcher := events.NewDispatcher(hub)

	var recent events.RecentSource
	var redisPub *events.RedisPublisher
	if cfg.RedisURL != "" {
		redisPub, err = events.NewRedisPublisher(cfg.RedisURL, cfg.RedisChannel)
		if err != nil {
			return err
		}
		defer redisPub.Close()
		if err := redisPub.Ping(ctx); err != nil {
			log.Printf("Warning: Redis is unreachable: %v", err)
		}
		dispatcher.Add(redisPub)
		recent = redisPub
	}
	if cfg.NATSURL != "" {
		natsPub, err := events.NewNATSPublisher(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			return err
		}
		defer natsPub.Close()
		dispatcher.Add(natsPub)
	}

	tgClient := telegram.NewClient(cfg.TelegramBotToken)
	if tgClient.Enabled() {
		dispatcher.Add(report.NewCriticalAlerter(tgClient, cfg.DoctorChatID))
	} else {
		log.Println("Warning: TELEGRAM_BOT_TOKEN is not set. Reports and alerts will not be sent.")
	}

	// 4. Services
	engine, err := triage.NewEngine()
	if err != nil {
		return err
	}
	queueSvc := queue.NewService(repo, engine, queue.WithNotifier(dispatcher))
	reportSvc := report.NewService(tgClient, cfg.DoctorChatID, cfg.PDFFontPath)
	mcpSrv := mcpserver.NewServer(engine, queueSvc)

	// 5. Router
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(web.CORS(cfg.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"status": "ok", "store": string(target.Kind)}
		code := http.StatusOK
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				status["status"] = "degraded"
				status["database"] = err.Error()
				code = http.StatusServiceUnavailable
			}
		}
		if redisPub != nil {
			if err := redisPub.Ping(r.Context()); err != nil {
				status["redis"] = err.Error()
			}
		}
		web.JSON(w, code, status)
	})

	r.Route("/api", func(r chi.Router) {
		queue.RegisterRoutes(r, queue.NewHandler(queueSvc))
		triage.RegisterRoutes(r, triage.NewHandler(engine))
		analytics.RegisterRoutes(r, analytics.NewHandler(queueSvc))
		chatbot.RegisterRoutes(r, chatbot.NewHandler(chatbot.NewBot(chatbot.DefaultInventory)))
		report.RegisterRoutes(r, report.NewHandler(reportSvc, queueSvc))
		events.RegisterRoutes(r, events.NewHandler(hub, recent))
	})

	mcpHandler := mcpSrv.HTTPHandler()
	r.Handle("/mcp", mcpHandler)
	r.Handle("/mcp/*", http.StripPrefix("/mcp", mcpHandler))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Server starting on port %s...", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
