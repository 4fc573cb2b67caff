package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/wonny/riskval/internal/quality"
	"github.com/wonny/riskval/internal/rules"
	"github.com/wonny/riskval/internal/tabular"
	"github.com/wonny/riskval/pkg/logger"
)

// ValidateHandler handles quality gate API endpoints
// ⭐ SSOT: 품질 검증 API 핸들러는 이 구조체에서만
type ValidateHandler struct {
	defaults quality.Thresholds
	logger   *logger.Logger
}

// NewValidateHandler creates a new validate handler
func NewValidateHandler(defaults quality.Thresholds, log *logger.Logger) *ValidateHandler {
	return &ValidateHandler{
		defaults: defaults,
		logger:   log,
	}
}

// ValidateRequest represents a quality gate request
// Rules가 없으면 서버 기본 기준치로 완전성/유일성만 검사한다.
type ValidateRequest struct {
	Table      tabular.Table      `json:"table"`
	Rules      *rules.QualityRule `json:"rules,omitempty"`
	Quarantine bool               `json:"quarantine,omitempty"`
}

// ValidateResponse represents a quality gate response
type ValidateResponse struct {
	Gate          quality.GateResult            `json:"gate"`
	Ranges        []quality.RangeResult         `json:"ranges,omitempty"`
	AllowedValues []quality.AllowedValuesResult `json:"allowed_values,omitempty"`
	Quarantine    *quality.QuarantineResult     `json:"quarantine,omitempty"`
}

// Validate runs the quality gate over a posted table
// POST /api/validate
func (h *ValidateHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rule := rules.QualityRule{Thresholds: h.defaults}
	if req.Rules != nil {
		rule = *req.Rules
	}

	gate := quality.NewGate(rule.Thresholds)
	resp := ValidateResponse{
		Gate: gate.Validate(req.Table, rule.RequiredColumns, rule.KeyColumns),
	}

	// 부가 검사: 규칙에 선언된 범위/허용값
	for _, rr := range rule.Ranges {
		result, err := quality.CheckRange(req.Table, rr.Column, rr.Min, rr.Max)
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		resp.Ranges = append(resp.Ranges, result)
	}
	for _, ar := range rule.AllowedValues {
		result, err := quality.CheckAllowedValues(req.Table, ar.Column, ar.Values)
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		resp.AllowedValues = append(resp.AllowedValues, result)
	}

	if req.Quarantine {
		q := quality.Quarantine(req.Table, rule.RequiredColumns, rule.KeyColumns)
		resp.Quarantine = &q
	}

	h.logger.WithFields(map[string]interface{}{
		"rows":   resp.Gate.TotalRows,
		"passed": resp.Gate.Passed,
		"issues": len(resp.Gate.Issues),
	}).Info("Quality gate evaluated")

	respondJSON(w, http.StatusOK, resp)
}
