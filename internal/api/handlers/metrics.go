package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wonny/riskval/internal/risk"
	"github.com/wonny/riskval/internal/runner"
	"github.com/wonny/riskval/pkg/logger"
)

// MetricsHandler handles risk metrics API endpoints
// ⭐ SSOT: 리스크 지표 API 핸들러는 이 구조체에서만
type MetricsHandler struct {
	runner *runner.Runner
	logger *logger.Logger

	// 완료된 배치를 구독자에게 알릴 때 사용 (nil 허용)
	broadcast func(runner.BatchResult)
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(run *runner.Runner, log *logger.Logger, broadcast func(runner.BatchResult)) *MetricsHandler {
	return &MetricsHandler{
		runner:    run,
		logger:    log,
		broadcast: broadcast,
	}
}

// MetricsRequest represents a single-asset metrics request
type MetricsRequest struct {
	Prices    risk.PriceSeries `json:"prices"`
	Benchmark risk.PriceSeries `json:"benchmark,omitempty"`
	Options   *risk.Options    `json:"options,omitempty"`
}

// Compute computes risk metrics for one price series
// POST /api/metrics
func (h *MetricsHandler) Compute(w http.ResponseWriter, r *http.Request) {
	var req MetricsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	opts := risk.DefaultOptions()
	if req.Options != nil {
		opts = *req.Options
	}

	engine := risk.NewEngine(opts)
	result, err := engine.Analyze(req.Prices, req.Benchmark)
	if err != nil {
		if errors.Is(err, risk.ErrInsufficientData) || errors.Is(err, risk.ErrInvalidPrice) {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.logger.WithError(err).Error("Metrics computation failed")
		respondError(w, http.StatusInternalServerError, "Metrics computation failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// BatchRequest represents a multi-asset metrics request
type BatchRequest struct {
	Series    map[string]risk.PriceSeries `json:"series"`
	Benchmark risk.PriceSeries            `json:"benchmark,omitempty"`
}

// ComputeBatch computes risk metrics for a batch of assets
// POST /api/metrics/batch
func (h *MetricsHandler) ComputeBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Series) == 0 {
		respondError(w, http.StatusBadRequest, "Batch must contain at least one series")
		return
	}

	result, err := h.runner.Run(r.Context(), req.Series, req.Benchmark)
	if err != nil {
		h.logger.WithError(err).Error("Batch run failed")
		respondError(w, http.StatusInternalServerError, "Batch run failed")
		return
	}

	if h.broadcast != nil {
		h.broadcast(result)
	}

	respondJSON(w, http.StatusOK, result)
}
