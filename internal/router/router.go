package router

import (
	"github.com/NicoDFS/backend-sub001/internal/config"
	"github.com/NicoDFS/backend-sub001/internal/handler"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(db *gorm.DB, cfg *config.Config) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "dex-indexer",
		})
	})

	// API版本组
	v1 := r.Group("/api/v1")
	{
		// 池子相关路由
		poolHandler := handler.NewPoolHandler(db)
		pools := v1.Group("/pools")
		{
			pools.GET("", poolHandler.GetPools)
			pools.GET("/:address", poolHandler.GetPool)
			pools.GET("/:address/events", poolHandler.GetPoolEvents)
			pools.GET("/:address/participants", poolHandler.GetPoolParticipants)
		}
		v1.GET("/users/:address/positions", poolHandler.GetUserPositions)

		// 统计相关路由
		statsHandler := handler.NewStatsHandler(db)
		stats := v1.Group("/stats")
		{
			stats.GET("/global", statsHandler.GetGlobalStats)
			stats.GET("/daily", statsHandler.GetDailyStats)
		}

		// 发射台相关路由
		launchpadHandler := handler.NewLaunchpadHandler(db)
		launchpad := v1.Group("/launchpad")
		{
			launchpad.GET("/factories", launchpadHandler.GetFactories)
			launchpad.GET("/tokens", launchpadHandler.GetTokens)
			launchpad.GET("/presales", launchpadHandler.GetPresales)
			launchpad.GET("/presales/:address", launchpadHandler.GetPresale)
			launchpad.GET("/fairlaunches", launchpadHandler.GetFairlaunches)
			launchpad.GET("/fairlaunches/:address", launchpadHandler.GetFairlaunch)
		}

		// 代币列表代理
		tokenListHandler := handler.NewTokenListHandler(cfg.TokenList)
		v1.GET("/tokenlist", tokenListHandler.GetTokenList)
	}

	return r
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
