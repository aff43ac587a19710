package webserver

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/campus-assist/enquiry-relay/src/relay/config"
	"github.com/campus-assist/enquiry-relay/src/shared/ai"
)

func New(cfg config.Config, db *gorm.DB, rdb *redis.Client, chain *ai.Chain) *gin.Engine {
	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery())
	attachRoutes(g, cfg, db, rdb, chain)
	return g
}
