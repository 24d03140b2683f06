package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"acecoach/internal/handler"
	"acecoach/internal/middleware"
)

func New(
	liveHandler *handler.LiveHandler,
	sessionHandler *handler.SessionHandler,
	analysisHandler *handler.AnalysisHandler,
	corsOrigins []string,
) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery(), middleware.CORS(corsOrigins))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")

	live := api.Group("/live")
	live.GET("", liveHandler.State)
	live.POST("/start", liveHandler.Start)
	live.POST("/pause", liveHandler.Pause)
	live.POST("/resume", liveHandler.Resume)
	live.PUT("/profit", liveHandler.UpdateProfit)
	live.POST("/stop", liveHandler.Stop)

	sessions := api.Group("/sessions")
	sessions.GET("", sessionHandler.List)
	sessions.POST("", sessionHandler.Create)
	sessions.DELETE("/:id", sessionHandler.Delete)
	sessions.PUT("/:id/notes", sessionHandler.UpdateNotes)
	sessions.GET("/:id/lab-prompt", sessionHandler.LabPrompt)

	api.GET("/stats", sessionHandler.Stats)

	analysis := api.Group("/analysis")
	analysis.POST("", analysisHandler.Analyze)
	analysis.GET("/history", analysisHandler.History)

	api.POST("/sizing", analysisHandler.Sizing)

	return engine
}
