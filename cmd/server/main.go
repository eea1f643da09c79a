package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smearn/internal/api"
	"smearn/internal/auth"
	"smearn/internal/config"
	"smearn/internal/llm"
	"smearn/internal/observability"
	"smearn/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.json", "path to the configuration file")
	port := flag.String("port", "", "server port (overrides the configuration)")
	hashPassword := flag.String("hash-password", "", "print the bcrypt hash of a password for SMEARN_ADMIN_PASSWORD_HASH and exit")
	flag.Parse()

	if *hashPassword != "" {
		hash, err := auth.HashPassword(*hashPassword)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	log := observability.Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("loading configuration failed", "path", *configPath, "error", err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.ServerPort = *port
	}
	observability.SetLevel(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		log.Error("opening storage failed", "dsn", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.Seed(storage.SeedCatalog()); err != nil {
		log.Error("seeding catalog failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	provider, err := llm.NewGeminiProvider(ctx, llm.GeminiOptions{
		APIKey:            cfg.APIKey,
		Model:             cfg.Model,
		RequestsPerMinute: cfg.RequestsPerMinute,
	})
	if err != nil {
		log.Error("creating backend provider failed", "error", err)
		os.Exit(1)
	}

	authn := auth.NewDemoAuthenticator(cfg.AdminEmail, cfg.AdminPasswordHash)
	handler := api.NewHandler(cfg, store, provider, authn)
	go handler.ReapSessions(ctx, 10*time.Minute)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           api.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	idle := make(chan struct{})
	go func() {
		defer close(idle)
		<-ctx.Done()
		log.Info("shutting down")

		handler.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	log.Info("server listening",
		"addr", "http://localhost:"+cfg.ServerPort,
		"provider", provider.Name(),
		"static_dir", cfg.StaticDir,
		"textbooks_path", cfg.TextbooksPath,
		"admin_configured", cfg.AdminEmail != "" && cfg.AdminPasswordHash != "",
	)

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	<-idle
}
