package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"talentdesk/api/internal/ai"
	"talentdesk/api/internal/app"
	"talentdesk/api/internal/config"
	"talentdesk/api/internal/email"
	"talentdesk/api/internal/export"
	"talentdesk/api/internal/keystore"
	"talentdesk/api/internal/resume"
	"talentdesk/api/internal/search"
	"talentdesk/api/internal/session"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	var kv keystore.KV
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		log.Printf("Using PostgreSQL for keyed storage")
		pgKV, err := keystore.NewPostgresKV(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("postgres connection failed: %v", err)
		}
		kv = pgKV
	} else {
		log.Printf("Using Redis for keyed storage")
		redisKV, err := keystore.NewRedisKV(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis connection failed: %v", err)
		}
		kv = redisKV
	}
	defer kv.Close()

	ks := keystore.New(kv, cfg.KeyPrefix)
	ctrl := session.New(ctx, ks, cfg.SaveDebounce)

	var meiliClient *search.Meili
	if strings.TrimSpace(cfg.MeiliURL) != "" {
		meiliClient = search.NewMeili(cfg.MeiliURL, cfg.MeiliMasterKey)
		defer meiliClient.Close()
	}
	searchService := search.NewService(meiliClient, search.NewMemory())

	var generator ai.Generator
	if strings.TrimSpace(cfg.GeminiAPIKey) != "" {
		gemini, err := ai.NewGemini(ctx, cfg.GeminiAPIKey)
		if err != nil {
			log.Printf("WARNING: gemini client unavailable, AI features disabled: %v", err)
		} else {
			generator = gemini
		}
	} else {
		log.Printf("GEMINI_API_KEY not set, AI features disabled")
	}
	aiService := ai.NewService(generator, ks)

	var objects *resume.ObjectStore
	if strings.TrimSpace(cfg.MinioEndpoint) != "" {
		store, err := resume.NewObjectStore(ctx, resume.ObjectConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			log.Printf("WARNING: object storage unavailable, resume archival disabled: %v", err)
		} else {
			objects = store
		}
	}

	emailService := email.NewService(email.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		FromName: cfg.SMTPFromName,
	})
	if !emailService.IsConfigured() {
		log.Printf("SMTP not configured, email notifications disabled")
	}

	service := app.NewService(ctrl, ks, aiService, searchService, export.NewService(), emailService, objects)
	service.Bootstrap(ctx)

	httpServer := app.NewHTTPServer(service, cfg.CORSOrigin)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("TalentDesk API listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
