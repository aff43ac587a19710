package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/campus-assist/enquiry-relay/src/shared/ai"
)

var (
	messageFlag = flag.String("message", "What are the library timings during exam season?", "User message to send")
	modelFlag   = flag.String("model", "", "Override primary model name")
	timeoutFlag = flag.Duration("timeout", 45*time.Second, "Overall timeout for the chain run")
	maxLenFlag  = flag.Int("max-bytes", 1200, "Maximum bytes of output to print (0=unlimited)")
)

func main() {
	log.SetFlags(0)
	flag.Parse()

	var attempts []ai.Attempt
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		attempts = append(attempts, ai.Primary(ai.NewOpenAIClient(key, *modelFlag, 0, 0)))
	}
	if key := os.Getenv("OPENROUTER_API_KEY"); key != "" {
		attempts = append(attempts, ai.Fallback(ai.NewOpenRouterClient(key, "", 0, 0)))
	}
	chain := ai.NewChain(attempts...)
	if !chain.Configured() {
		log.Fatal("no provider credentials in environment (OPENAI_API_KEY / OPENROUTER_API_KEY)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFlag)
	defer cancel()

	messages := ai.BuildMessages(ai.CampusSystemPrompt, nil, *messageFlag)

	start := time.Now()
	result := chain.Run(ctx, messages)
	elapsed := time.Since(start).Seconds()

	switch result.Kind {
	case ai.Success:
		fmt.Printf("✅ %s (%.1fs)\n%s\n", result.Provider, elapsed, truncate(result.Text, *maxLenFlag))
	case ai.RateLimited:
		log.Fatalf("❌ rate limited by %s (%.1fs)", result.Provider, elapsed)
	case ai.CreditsExhausted:
		log.Fatalf("❌ credits exhausted on %s (%.1fs)", result.Provider, elapsed)
	case ai.HardFailure:
		log.Fatalf("❌ hard failure from %s: status=%d body=%s", result.Provider, result.Status, truncate(result.Body, *maxLenFlag))
	default:
		log.Fatalf("❌ all providers failed (%.1fs)", elapsed)
	}
}

func truncate(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(text[:limit]) + "...(truncated)"
}
