package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"frontdesk/internal/config"
	"frontdesk/internal/crawl"
	"frontdesk/internal/extractor"
	server "frontdesk/internal/http"
	"frontdesk/internal/jobs"
	"frontdesk/internal/llm"
	"frontdesk/internal/migrate"
	"frontdesk/internal/outreach"
	"frontdesk/internal/screenshot"
	"frontdesk/internal/store"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	role := flag.String("role", "all", "process role: api|worker|all")
	flag.Parse()

	cfg := config.Load(*configPath)

	// Run migrations on a short-lived connection
	if err := migrate.Run(cfg.Database.DSN); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	// Create a shared *sql.DB with pooling for the Store
	db, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		log.Fatalf("open db failed: %v", err)
	}
	// Basic pool settings; adjust as needed
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	st := store.New(db)

	// Ensure initial admin API key if configured
	if cfg.Auth.Enabled && cfg.Auth.InitialAdminKey != "" {
		if _, err := st.EnsureAdminAPIKey(context.Background(), cfg.Auth.InitialAdminKey, "initial-admin"); err != nil {
			log.Fatalf("ensure admin api key failed: %v", err)
		}
	}

	// Set up logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{}))

	llmClient, err := llm.NewClientFromConfig(cfg.LLM.Google)
	if err != nil {
		log.Fatalf("llm client setup failed: %v", err)
	}

	svcs := &server.Services{
		Crawler:    crawl.NewClient(cfg.Crawler, logger),
		Extractor:  extractor.New(st, llmClient, cfg.Extractor, logger),
		Outreach:   outreach.NewGenerator(llmClient, logger),
		Screenshot: screenshot.NewCapturer(cfg.Screenshot, ""),
	}

	worker := server.NewScrapeWorker(st, svcs, logger)
	runner := jobs.NewRunner(cfg, st, jobs.Executors{
		ScrapeSite:    worker,
		ExtractConfig: worker,
	}, logger)

	rootCtx := context.Background()

	switch *role {
	case "api":
		// API-only: do not start the job runner.
		s := server.NewServer(cfg, st, svcs, logger)
		if err := s.Listen(); err != nil {
			log.Fatalf("server failed: %v", err)
		}
	case "worker":
		// Worker-only: run the job runner and block.
		runner.Start(rootCtx)
	case "all":
		// Default: run both API and worker in one process.
		go runner.Start(rootCtx)
		s := server.NewServer(cfg, st, svcs, logger)
		if err := s.Listen(); err != nil {
			log.Fatalf("server failed: %v", err)
		}
	default:
		log.Fatalf("invalid role: %s (expected api|worker|all)", *role)
	}
}
