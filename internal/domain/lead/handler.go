package lead

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"leadmanager/internal/pkg/response"
)

// Handler handles lead HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates lead handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListLeads handles GET /v1/leads
// @Summary List leads
// @Description Search, filter and paginate leads, newest first
// @Tags Leads
// @Produce json
// @Param search query string false "Substring of name, email or phone"
// @Param status query string false "Filter by status" Enums(New, Contacted, Qualified, Lost, Cancelled, Confirmed)
// @Param startDate query string false "Created at or after (RFC 3339 or YYYY-MM-DD)"
// @Param endDate query string false "Created at or before (RFC 3339 or YYYY-MM-DD)"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Limit" default(10)
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /leads [get]
func (h *Handler) ListLeads(c *gin.Context) {
	filter := ParseFilter(c.Query("search"), c.Query("status"), c.Query("startDate"), c.Query("endDate"))
	page := ParsePage(c.Query("page"), c.Query("limit"))

	result, err := h.service.List(c.Request.Context(), filter, page)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Page(c, result.Leads, len(result.Leads), result.Total, result.Page, result.Pages)
}

// GetLead handles GET /v1/leads/:id
// @Summary Get lead by ID
// @Tags Leads
// @Produce json
// @Param id path string true "Lead ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /leads/{id} [get]
func (h *Handler) GetLead(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	lead, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, lead)
}

// CreateLead handles POST /v1/leads
// @Summary Create lead
// @Tags Leads
// @Accept json
// @Produce json
// @Param request body CreateLeadRequest true "Lead fields"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /leads [post]
func (h *Handler) CreateLead(c *gin.Context) {
	var req CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	lead, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusCreated, lead)
}

// UpdateLead handles PUT /v1/leads/:id
// @Summary Update lead
// @Description Replaces only the supplied fields
// @Tags Leads
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param request body UpdateLeadRequest true "Fields to change"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /leads/{id} [put]
func (h *Handler) UpdateLead(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	lead, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, lead)
}

// DeleteLead handles DELETE /v1/leads/:id
// @Summary Delete lead
// @Tags Leads
// @Produce json
// @Param id path string true "Lead ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /leads/{id} [delete]
func (h *Handler) DeleteLead(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// GetStats handles GET /v1/leads/stats
// @Summary Get lead statistics
// @Description Lead counts by status
// @Tags Leads
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /leads/stats [get]
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid lead ID format")
		return uuid.Nil, false
	}
	return id, true
}

// fail translates service errors into the response envelope.
func (h *Handler) fail(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		fields := make([]response.FieldError, len(verr.Fields))
		for i, f := range verr.Fields {
			fields[i] = response.FieldError{Field: f.Field, Message: f.Message}
		}
		response.ValidationError(c, http.StatusBadRequest, verr.Error(), fields)
	case errors.Is(err, ErrLeadNotFound):
		response.Error(c, http.StatusNotFound, "Lead not found with id "+c.Param("id"))
	case errors.Is(err, ErrEmailExists):
		response.Error(c, http.StatusConflict, "Lead with this email already exists")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Internal server error")
	}
}
