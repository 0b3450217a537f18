package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketscope/domain/core"
	"marketscope/internal/analysis"
	"marketscope/internal/confidence"
	"marketscope/internal/config"
	"marketscope/internal/estimation"
	"marketscope/internal/quality"
	"marketscope/internal/scenario"
	"marketscope/internal/testkit"
)

func newTestRouter(t *testing.T) (*gin.Engine, *testkit.TestKit) {
	t.Helper()
	kit := testkit.NewSeededTestKit()
	cfg := config.AnalysisConfig{
		PenetrationYears:      5,
		DefaultPriceARPA:      1000,
		FallbackCustomersMin:  1000,
		FallbackCustomersBase: 5000,
		FallbackCustomersMax:  10000,
	}
	estimator := estimation.NewEngine(kit.Facts, quality.NewAssessor(kit.Ledger))
	scenarios := scenario.NewEngine(kit.Facts)
	scorer := confidence.NewScorer(kit.Ledger, kit.Facts)
	pipeline := analysis.NewPipeline(kit.Facts, estimator, scenarios, scorer, kit.Analyses, cfg, nil)

	analysisHandler := NewAnalysisHandler(pipeline, kit.Analyses)
	evidenceHandler := NewEvidenceHandler(kit.Facts, kit.Facts, kit.Ledger, kit.Ledger)
	return NewRouter(gin.TestMode, analysisHandler, evidenceHandler), kit
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestAnalyzeEndpoint(t *testing.T) {
	router, kit := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/analyze", map[string]any{
		"idea":          "AI-powered CRM",
		"industry":      "SaaS",
		"customer_type": "b2b",
		"geography":     "Global",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result analysis.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.NotEmpty(t, result.ID)
	assert.NotEmpty(t, result.Decision.Verdict)
	assert.Len(t, result.Sensitivity, 5)

	record, err := kit.Analyses.GetAnalysis(context.Background(), result.ID)
	require.NoError(t, err)
	assert.Equal(t, "AI-powered CRM", record.Idea)
}

func TestAnalyzeEndpointRejectsInvalidRequest(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/analyze", map[string]any{
		"customer_type": "b2b",
		"geography":     "Global",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "idea is required")
}

func TestGetAnalysisRoundTrip(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/analyze", map[string]any{
		"idea": "niche tool", "customer_type": "b2b", "geography": "US",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var result analysis.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	w = doJSON(t, router, http.MethodGet, "/api/analyses/"+result.ID.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "niche tool")

	w = doJSON(t, router, http.MethodGet, "/api/analyses", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)
}

func TestGetAnalysisNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/analyses/"+core.NewID().String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListAnalysesRejectsBadLimit(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/analyses?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/analyses?limit=0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetReportFormats(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/analyze", map[string]any{
		"idea": "AI CRM", "customer_type": "b2b", "geography": "Global",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var result analysis.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	base := "/api/analyses/" + result.ID.String() + "/report"

	w = doJSON(t, router, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/markdown")
	assert.Contains(t, w.Body.String(), "# Market Viability Analysis: AI CRM")

	w = doJSON(t, router, http.MethodGet, base+"?format=html", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "<h1")

	w = doJSON(t, router, http.MethodGet, base+"?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetWorkbook(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/analyze", map[string]any{
		"idea": "AI CRM", "customer_type": "b2b", "geography": "Global",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var result analysis.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	w = doJSON(t, router, http.MethodGet, "/api/analyses/"+result.ID.String()+"/workbook", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	// xlsx files are zip archives
	assert.Equal(t, "PK", w.Body.String()[:2])
}

func TestCreateFact(t *testing.T) {
	router, kit := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/facts", map[string]any{
		"fact_type":  "market_size",
		"value":      42.0,
		"unit":       "billion",
		"context":    "the market is worth $42 billion",
		"source_url": "https://new.example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	facts, err := kit.Facts.AllFacts(context.Background())
	require.NoError(t, err)
	found := false
	for _, f := range facts {
		if f.SourceURL == "https://new.example.com" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCreateFactRejectsUnknownType(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/facts", map[string]any{
		"fact_type": "vibes",
		"context":   "unclassifiable",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Unknown fact_type")
}

func TestListFactsGroupsByType(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/facts", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var snapshot map[string][]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snapshot))
	assert.NotEmpty(t, snapshot["market_size"])
	assert.NotEmpty(t, snapshot["competitor"])
}

func TestCreateClaimValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/claims", map[string]any{
		"claim_text": "the market is growing",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/claims", map[string]any{
		"claim_text":        "the market is growing",
		"claim_type":        "growth_rate",
		"source_url":        "https://a.example.com",
		"credibility_score": "high",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateSourceValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/sources", map[string]any{
		"credibility_score": "high",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/sources", map[string]any{
		"url":               "https://fresh.example.com",
		"credibility_score": "medium",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}
