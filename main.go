package main

import (
	"embed"
	"io/fs"
	"log"
	"net/http"
	"os"
	"strings"

	"kickabout-app/internal/config"
	"kickabout-app/internal/logger"
	"kickabout-app/internal/store"
	"kickabout-app/internal/web"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
)

//go:embed templates/* templates/partials/* static/* static/css/*
var content embed.FS

func main() {
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") == "" {
		_ = godotenv.Load(".env", ".env.local")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logg, err := logger.Init(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	templates, err := web.NewTemplates(content)
	if err != nil {
		log.Fatalf("templates: %v", err)
	}

	var appStore store.Store
	switch {
	case strings.TrimSpace(cfg.PostgresDSN) != "":
		pgStore, err := store.NewPostgresStore(cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("postgres store: %v", err)
		}
		appStore = pgStore
		logg.Info("store ready", "backend", "postgres")
	case strings.TrimSpace(cfg.SQLitePath) != "":
		sqliteStore, err := store.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("sqlite store: %v", err)
		}
		appStore = sqliteStore
		logg.Info("store ready", "backend", "sqlite", "path", cfg.SQLitePath)
	default:
		appStore = store.NewMemoryStore()
		logg.Info("store ready", "backend", "memory")
	}

	server := web.NewServer(appStore, templates, cfg, logg)

	staticFS, err := fs.Sub(content, "static")
	if err != nil {
		log.Fatalf("static fs: %v", err)
	}
	r := chi.NewRouter()
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	r.Mount("/", server.Routes())

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		logg.Info("starting in lambda mode")
		adapter := httpadapter.New(r)
		lambda.Start(adapter.ProxyWithContext)
	} else {
		logg.Info("listening", "addr", cfg.Addr)
		if err := http.ListenAndServe(cfg.Addr, r); err != nil {
			log.Fatalf("server: %v", err)
		}
	}
}
