package webserver

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/campus-assist/enquiry-relay/src/relay/config"
	"github.com/campus-assist/enquiry-relay/src/relay/data"
	"github.com/campus-assist/enquiry-relay/src/shared/ai"
)

func attachRoutes(r *gin.Engine, cfg config.Config, db *gorm.DB, rdb *redis.Client, chain *ai.Chain) {
	// Browser clients call from arbitrary origins; preflights get a
	// permissive answer with no body.
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization", "X-Client-Info", "Apikey"},
	}))

	secret := []byte(cfg.JWTSecret)
	limiter := data.NewChatLimiter(rdb, time.Duration(cfg.ChatCooldown)*time.Second)

	authH := NewAuth(db, secret)
	chatH := NewChat(chain, limiter, time.Duration(cfg.AITimeout)*time.Second)
	histH := NewHistory(db, cfg.HistoryLimit)
	profH := NewProfile(db)

	v1 := r.Group("/v1")
	{
		v1.POST("/auth/signup", authH.Signup)
		v1.POST("/auth/signin", authH.Signin)

		// The configured-providers check deliberately precedes auth:
		// fail fast on deployment defects.
		v1.POST("/chat", RequireProviders(chain), JWTMiddleware(secret), chatH.Relay)

		secured := v1.Use(JWTMiddleware(secret))
		secured.GET("/chat/history", histH.List)
		secured.POST("/chat/history", histH.Append)
		secured.GET("/profile", profH.Get)
		secured.PUT("/profile", profH.Update)
	}
}
