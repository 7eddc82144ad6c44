package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/oncograph-backend/internal/domain/oncology"
	"github.com/yungbote/oncograph-backend/internal/http/response"
	oncologymod "github.com/yungbote/oncograph-backend/internal/modules/oncology"
	"github.com/yungbote/oncograph-backend/internal/platform/logger"
)

type OncologyHandler struct {
	log *logger.Logger
	uc  oncologymod.Usecases
}

func NewOncologyHandler(log *logger.Logger, uc oncologymod.Usecases) *OncologyHandler {
	return &OncologyHandler{log: log, uc: uc}
}

// GET /api/rankings/indications
func (h *OncologyHandler) ListTopIndications(c *gin.Context) {
	limit, err := intParam(c, "limit")
	if err != nil {
		response.RespondAPIError(c, err, "invalid_limit")
		return
	}
	out, err := h.uc.ListTopIndications(c.Request.Context(), oncologymod.ListIndicationsInput{
		Limit:     limit,
		Regions:   regionsParam(c),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	})
	if err != nil {
		response.RespondAPIError(c, err, "list_indications_failed")
		return
	}
	response.RespondOK(c, gin.H{
		"indications": out.Items,
		"regions":     out.Regions,
		"sort_by":     out.Sort.Key,
		"sort_order":  out.Sort.Order,
	})
}

// GET /api/rankings/mutations
func (h *OncologyHandler) ListAllMutations(c *gin.Context) {
	limit, err := intParam(c, "limit")
	if err != nil {
		response.RespondAPIError(c, err, "invalid_limit")
		return
	}
	out, err := h.uc.ListAllMutations(c.Request.Context(), oncologymod.ListMutationsInput{
		Limit:     limit,
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
		Regions:   regionsParam(c),
	})
	if err != nil {
		response.RespondAPIError(c, err, "list_mutations_failed")
		return
	}
	response.RespondOK(c, gin.H{
		"mutations":  out.Items,
		"regions":    out.Regions,
		"sort_by":    out.Sort.Key,
		"sort_order": out.Sort.Order,
	})
}

// GET /api/indications/:id
func (h *OncologyHandler) GetIndicationDossier(c *gin.Context) {
	d, err := h.uc.GetIndicationDossier(c.Request.Context(), c.Param("id"), regionsParam(c))
	if err != nil {
		response.RespondAPIError(c, err, "indication_dossier_failed")
		return
	}
	response.RespondOK(c, gin.H{"dossier": d})
}

// GET /api/indications/:id/totals
func (h *OncologyHandler) GetIndicationTotals(c *gin.Context) {
	t, err := h.uc.AggregateIndicationTotals(c.Request.Context(), c.Param("id"), regionsParam(c))
	if err != nil {
		response.RespondAPIError(c, err, "indication_totals_failed")
		return
	}
	response.RespondOK(c, gin.H{"totals": t})
}

// GET /api/mutations/:id
func (h *OncologyHandler) GetMutationDossier(c *gin.Context) {
	d, err := h.uc.GetMutationDossier(c.Request.Context(), c.Param("id"), regionsParam(c))
	if err != nil {
		response.RespondAPIError(c, err, "mutation_dossier_failed")
		return
	}
	response.RespondOK(c, gin.H{"dossier": d})
}

// GET /api/mutations/:id/estimates
func (h *OncologyHandler) GetMutationEstimates(c *gin.Context) {
	e, err := h.uc.AggregateAcrossIndications(c.Request.Context(), c.Param("id"), regionsParam(c))
	if err != nil {
		response.RespondAPIError(c, err, "mutation_estimates_failed")
		return
	}
	response.RespondOK(c, gin.H{"estimate": e})
}

// GET /api/mutations/:id/indications/:indicationId/estimate
func (h *OncologyHandler) GetMutationIndicationEstimate(c *gin.Context) {
	e, err := h.uc.EstimateMutationPatients(c.Request.Context(), c.Param("id"), c.Param("indicationId"), regionsParam(c))
	if err != nil {
		response.RespondAPIError(c, err, "mutation_estimate_failed")
		return
	}
	response.RespondOK(c, gin.H{"estimate": e})
}

// GET /api/discovery/indications
func (h *OncologyHandler) FindUndiscoveredIndications(c *gin.Context) {
	limit, err := intParam(c, "limit")
	if err != nil {
		response.RespondAPIError(c, err, "invalid_limit")
		return
	}
	entries, err := h.uc.FindUndiscoveredIndications(c.Request.Context(), c.Query("query"), limit)
	if err != nil {
		response.RespondAPIError(c, err, "discovery_failed")
		return
	}
	response.RespondOK(c, gin.H{"indications": entries})
}

type addIndicationRequest struct {
	Name string `json:"name"`
}

// POST /api/discovery/indications
func (h *OncologyHandler) AddIndication(c *gin.Context) {
	var req addIndicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		response.RespondAPIError(c, oncology.Validation("http.add_indication", "name is required"), "invalid_request")
		return
	}

	res, err := h.uc.AddIndication(c.Request.Context(), req.Name)
	if err != nil {
		response.RespondAPIError(c, err, "add_indication_failed")
		return
	}
	if h.log != nil {
		h.log.Info("indication added", "indication_id", res.IndicationID, "mutations", res.Counts.Mutations)
	}
	response.RespondCreated(c, res)
}
