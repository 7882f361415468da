package analytics

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"legaldoc-backend/internal/shared/server/middleware"
	"legaldoc-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the analytics service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analytics routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analytics/track", h.track)
	rg.GET("/analytics/usage", h.usage)
	rg.GET("/analytics/performance", h.performance)
	rg.GET("/analytics/documents/:id", h.document)
	rg.GET("/analytics/document-types", h.documentTypes)
	rg.GET("/analytics/simplification-effectiveness", h.effectiveness)
}

// TrackRequest is the body for manual event tracking.
type TrackRequest struct {
	Action     string         `json:"action" binding:"required"`
	DocumentID string         `json:"document_id" binding:"required"`
	Metadata   map[string]any `json:"metadata"`
}

func (h *Handler) track(c *gin.Context) {
	var req TrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "action and document_id are required", "")
		return
	}

	event := Event{
		DocumentID: req.DocumentID,
		UserID:     middleware.UserIDFromContext(c),
		Action:     req.Action,
		Metadata:   req.Metadata,
	}
	liftKnownFields(&event)

	if err := h.Svc.Track(c.Request.Context(), event); err != nil {
		var actionErr *InvalidActionError
		switch {
		case errors.As(err, &actionErr):
			respond.Error(c, http.StatusBadRequest, "validation_error", actionErr.Error(), "")
		case errors.Is(err, ErrMissingDocument):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), "")
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to record event", "")
		}
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"message": "Event recorded"})
}

func (h *Handler) usage(c *gin.Context) {
	stats, err := h.Svc.Usage(c.Request.Context(), queryDays(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to compute usage statistics", "")
		return
	}
	respond.OK(c, stats)
}

func (h *Handler) performance(c *gin.Context) {
	stats, err := h.Svc.Performance(c.Request.Context(), queryDays(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to compute performance statistics", "")
		return
	}
	respond.OK(c, stats)
}

func (h *Handler) document(c *gin.Context) {
	report, err := h.Svc.Document(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch document analytics", "")
		return
	}
	respond.OK(c, report)
}

func (h *Handler) documentTypes(c *gin.Context) {
	counts, err := h.Svc.DocumentTypes(c.Request.Context(), queryDays(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to compute document type statistics", "")
		return
	}
	respond.OK(c, gin.H{"document_types": counts})
}

func (h *Handler) effectiveness(c *gin.Context) {
	levels, err := h.Svc.Effectiveness(c.Request.Context(), queryDays(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to compute effectiveness statistics", "")
		return
	}
	respond.OK(c, gin.H{"levels": levels})
}

func queryDays(c *gin.Context) int {
	if v := c.Query("days"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return 30
}
