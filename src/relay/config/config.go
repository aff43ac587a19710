package config

import (
	"log"
	"os"
	"strconv"
)

// Config is built once at startup and passed into the handlers; nothing in
// the request path reads the environment.
type Config struct {
	Port      string
	MySQLDSN  string
	RedisURL  string
	JWTSecret string

	OpenAIKey     string
	OpenRouterKey string
	ChatModel     string
	FallbackModel string
	Temperature   float64
	MaxTokens     int

	AITimeout    int // seconds, per provider chain run
	ChatCooldown int // seconds between chat requests per user
	HistoryLimit int // max stored turns returned per history request
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		if def == "" {
			log.Fatalf("missing env %s", key)
		}
		return def
	}
	return v
}

func getint(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("bad env %s: %v", key, err)
	}
	return n
}

func Load() Config {
	temp, err := strconv.ParseFloat(getenv("AI_TEMPERATURE", "0.7"), 64)
	if err != nil {
		log.Fatalf("bad env AI_TEMPERATURE: %v", err)
	}
	return Config{
		Port:      getenv("PORT", "8080"),
		MySQLDSN:  getenv("MYSQL_DSN", "dev:test@tcp(localhost:3306)/campusassist?parseTime=true"),
		RedisURL:  getenv("REDIS_URL", "redis://localhost:6379/0"),
		JWTSecret: getenv("JWT_SECRET", ""),

		// Provider keys may legitimately be absent; the relay reports the
		// misconfiguration per-request instead of refusing to start.
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenRouterKey: os.Getenv("OPENROUTER_API_KEY"),
		ChatModel:     getenv("CHAT_MODEL", "gpt-4o-mini"),
		FallbackModel: getenv("FALLBACK_MODEL", "meta-llama/llama-3.1-70b-instruct"),
		Temperature:   temp,
		MaxTokens:     getint("AI_MAX_TOKENS", 1000),

		AITimeout:    getint("AI_TIMEOUT", 60),
		ChatCooldown: getint("CHAT_COOLDOWN", 3),
		HistoryLimit: getint("HISTORY_LIMIT", 50),
	}
}
