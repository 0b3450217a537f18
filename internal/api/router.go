package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter wires all API routes. ginMode is one of gin.DebugMode,
// gin.ReleaseMode or gin.TestMode.
func NewRouter(ginMode string, analyses *AnalysisHandler, ev *EvidenceHandler) *gin.Engine {
	gin.SetMode(ginMode)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/analyze", analyses.Analyze)
		api.GET("/analyses", analyses.ListAnalyses)
		api.GET("/analyses/:id", analyses.GetAnalysis)
		api.GET("/analyses/:id/report", analyses.GetReport)
		api.GET("/analyses/:id/workbook", analyses.GetWorkbook)

		api.POST("/facts", ev.CreateFact)
		api.GET("/facts", ev.ListFacts)
		api.POST("/claims", ev.CreateClaim)
		api.POST("/sources", ev.CreateSource)
	}

	return r
}
