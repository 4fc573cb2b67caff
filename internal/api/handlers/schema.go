package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wonny/riskval/internal/schema"
	"github.com/wonny/riskval/internal/tabular"
	"github.com/wonny/riskval/pkg/logger"
)

// SchemaHandler handles star-schema validation API endpoints
type SchemaHandler struct {
	logger *logger.Logger
}

// NewSchemaHandler creates a new schema handler
func NewSchemaHandler(log *logger.Logger) *SchemaHandler {
	return &SchemaHandler{logger: log}
}

// SchemaRequest represents a star-schema validation request
// 차원/팩트 테이블과 참조 링크를 한 번에 검사한다.
type SchemaRequest struct {
	Conventions *schema.Conventions      `json:"conventions,omitempty"`
	Dimensions  map[string]tabular.Table `json:"dimensions,omitempty"`
	Facts       map[string]SchemaFact    `json:"facts,omitempty"`
	Links       []SchemaLink             `json:"links,omitempty"`
}

// SchemaFact 팩트 테이블과 선언된 외래 키
type SchemaFact struct {
	Table         tabular.Table `json:"table"`
	DimensionKeys []string      `json:"dimension_keys"`
}

// SchemaLink 참조 정합성 검사 대상
type SchemaLink struct {
	Fact         string `json:"fact"`
	FactKey      string `json:"fact_key"`
	Dimension    string `json:"dimension"`
	DimensionKey string `json:"dimension_key"`
}

// SchemaResponse represents the combined validation report
type SchemaResponse struct {
	Valid   bool                      `json:"valid"`
	Results []schema.ValidationResult `json:"results"`
}

// Validate runs star-schema checks over posted tables
// POST /api/schema/validate
func (h *SchemaHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req SchemaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	conventions := schema.DefaultConventions()
	if req.Conventions != nil {
		conventions = *req.Conventions
	}
	validator := schema.NewValidator(conventions)

	resp := SchemaResponse{Valid: true}

	for name, table := range req.Dimensions {
		result := validator.ValidateDimension(table, name)
		resp.Valid = resp.Valid && result.Valid
		resp.Results = append(resp.Results, result)
	}

	for name, fact := range req.Facts {
		result := validator.ValidateFact(fact.Table, name, fact.DimensionKeys)
		resp.Valid = resp.Valid && result.Valid
		resp.Results = append(resp.Results, result)
	}

	for _, link := range req.Links {
		fact, ok := req.Facts[link.Fact]
		if !ok {
			respondError(w, http.StatusBadRequest, "Link references unknown fact table "+link.Fact)
			return
		}
		dim, ok := req.Dimensions[link.Dimension]
		if !ok {
			respondError(w, http.StatusBadRequest, "Link references unknown dimension table "+link.Dimension)
			return
		}

		result, err := validator.CheckReferentialIntegrity(
			fact.Table, link.Fact, link.FactKey,
			dim, link.Dimension, link.DimensionKey)
		if err != nil {
			if errors.Is(err, tabular.ErrMissingColumn) {
				respondError(w, http.StatusUnprocessableEntity, err.Error())
				return
			}
			h.logger.WithError(err).Error("Referential integrity check failed")
			respondError(w, http.StatusInternalServerError, "Referential integrity check failed")
			return
		}
		resp.Valid = resp.Valid && result.Valid
		resp.Results = append(resp.Results, result)
	}

	respondJSON(w, http.StatusOK, resp)
}
