package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campus-assist/enquiry-relay/src/relay/config"
	"github.com/campus-assist/enquiry-relay/src/relay/data"
	"github.com/campus-assist/enquiry-relay/src/relay/webserver"
	"github.com/campus-assist/enquiry-relay/src/shared/ai"
)

func main() {
	cfg := config.Load()

	db := data.MustMySQL(cfg.MySQLDSN)
	if err := data.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	rdb := data.MustRedis(cfg.RedisURL)

	chain := buildChain(cfg)
	if !chain.Configured() {
		log.Printf("Warning: no AI provider credentials configured; chat requests will fail")
	}

	router := webserver.New(cfg, db, rdb, chain)

	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Port)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()

	log.Printf("Campus enquiry relay listening on %s", cfg.Port)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutCtx, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()
	_ = httpSrv.Shutdown(shutCtx)
}

// buildChain assembles the ordered provider attempts from whatever
// credentials are present. Order matters: OpenAI leads, OpenRouter is the
// fallback.
func buildChain(cfg config.Config) *ai.Chain {
	var attempts []ai.Attempt
	if cfg.OpenAIKey != "" {
		attempts = append(attempts, ai.Primary(
			ai.NewOpenAIClient(cfg.OpenAIKey, cfg.ChatModel, cfg.Temperature, cfg.MaxTokens)))
	}
	if cfg.OpenRouterKey != "" {
		attempts = append(attempts, ai.Fallback(
			ai.NewOpenRouterClient(cfg.OpenRouterKey, cfg.FallbackModel, cfg.Temperature, cfg.MaxTokens)))
	}
	return ai.NewChain(attempts...)
}
