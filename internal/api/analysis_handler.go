// Package api exposes the analysis pipeline over HTTP with gin.
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"marketscope/adapters/excel"
	"marketscope/domain/core"
	"marketscope/internal/analysis"
	"marketscope/internal/errors"
	"marketscope/internal/report"
	"marketscope/ports"
)

// AnalysisHandler handles analysis runs and retrieval
type AnalysisHandler struct {
	pipeline *analysis.Pipeline
	analyses ports.AnalysisRepositoryPort
	excel    *excel.ReportWriter
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(pipeline *analysis.Pipeline, analyses ports.AnalysisRepositoryPort) *AnalysisHandler {
	return &AnalysisHandler{
		pipeline: pipeline,
		analyses: analyses,
		excel:    excel.NewReportWriter(),
	}
}

// Analyze runs the full pipeline for a startup idea
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req analysis.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.pipeline.Run(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.GetCode(err) == errors.CodeInvalidInput {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAnalysis returns one persisted analysis by ID
func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	record, ok := h.loadRecord(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, record)
}

// ListAnalyses returns the most recent analyses
func (h *AnalysisHandler) ListAnalyses(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	records, err := h.analyses.ListAnalyses(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list analyses"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"analyses": records, "count": len(records)})
}

// GetReport renders a persisted analysis as markdown or HTML
func (h *AnalysisHandler) GetReport(c *gin.Context) {
	record, ok := h.loadRecord(c)
	if !ok {
		return
	}

	switch c.DefaultQuery("format", "markdown") {
	case "html":
		c.Data(http.StatusOK, "text/html; charset=utf-8", report.HTML(*record))
	case "markdown":
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(report.Markdown(*record)))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be markdown or html"})
	}
}

// GetWorkbook streams the analysis as an xlsx workbook
func (h *AnalysisHandler) GetWorkbook(c *gin.Context) {
	record, ok := h.loadRecord(c)
	if !ok {
		return
	}

	c.Header("Content-Disposition", `attachment; filename="analysis-`+record.ID.String()+`.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := h.excel.Write(*record, c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render workbook"})
	}
}

func (h *AnalysisHandler) loadRecord(c *gin.Context) (*ports.AnalysisRecord, bool) {
	id, err := core.ParseAnalysisID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid analysis ID"})
		return nil, false
	}

	record, err := h.analyses.GetAnalysis(c.Request.Context(), id)
	if err != nil {
		if errors.GetCode(err) == errors.CodeNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analysis"})
		return nil, false
	}
	return record, true
}
