package simplify

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"legaldoc-backend/internal/documents"
	"legaldoc-backend/internal/shared/server/respond"
	"legaldoc-backend/internal/shared/util"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches processing and result routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/:id/process", h.process)
	rg.POST("/documents/batch/process", h.processBatch)
	rg.GET("/documents/:id", h.result)
	rg.GET("/documents/:id/download", h.download)
	rg.POST("/documents/:id/qa", h.question)
}

func (h *Handler) process(c *gin.Context) {
	var req ProcessRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", "")
			return
		}
	}

	ctx := WithRequestID(c.Request.Context(), c.GetString("requestId"))
	res, err := h.Svc.Process(ctx, c.Param("id"), Options{
		Level:           req.SimplificationLevel,
		Audience:        req.TargetAudience,
		IncludeOriginal: req.IncludeOriginal,
	})
	if err != nil {
		h.respondProcessError(c, err)
		return
	}

	respond.JSON(c, http.StatusOK, toResultResponse(res.Result))
}

func (h *Handler) respondProcessError(c *gin.Context, err error) {
	var optErr *OptionError
	switch {
	case errors.As(err, &optErr):
		respond.Error(c, http.StatusBadRequest, "validation_error", optErr.Error(), "")
	case errors.Is(err, documents.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", "")
	case errors.Is(err, ErrInProgress):
		respond.Error(c, http.StatusConflict, "processing_in_progress", "document is already being processed", "")
	case errors.Is(err, ErrExtraction), errors.Is(err, ErrInvalidResult):
		respond.Error(c, http.StatusUnprocessableEntity, "processing_failed", err.Error(), "")
	case errors.Is(err, ErrUpstream):
		respond.Error(c, http.StatusBadGateway, "upstream_error", "simplification service is unavailable, try again later", "")
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process document", "")
	}
}

func (h *Handler) processBatch(c *gin.Context) {
	var req BatchProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", "")
		return
	}

	ctx := WithRequestID(c.Request.Context(), c.GetString("requestId"))
	outcomes, err := h.Svc.ProcessBatch(ctx, req.DocumentIDs, Options{
		Level:           req.SimplificationLevel,
		Audience:        req.TargetAudience,
		IncludeOriginal: req.IncludeOriginal,
	})
	if err != nil {
		var optErr *OptionError
		if errors.As(err, &optErr) {
			respond.Error(c, http.StatusBadRequest, "validation_error", optErr.Error(), "")
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), "")
		return
	}

	resp := make([]BatchOutcomeResponse, 0, len(outcomes))
	for _, outcome := range outcomes {
		resp = append(resp, BatchOutcomeResponse(outcome))
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"results": resp,
		"count":   len(resp),
	})
}

func (h *Handler) result(c *gin.Context) {
	result, doc, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondResultError(c, doc, err)
		return
	}
	respond.JSON(c, http.StatusOK, toResultResponse(result))
}

func (h *Handler) respondResultError(c *gin.Context, doc documents.Document, err error) {
	switch {
	case errors.Is(err, documents.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", "")
	case errors.Is(err, ErrNotProcessed):
		msg := "document has not been processed"
		if doc.Status != "" {
			msg = fmt.Sprintf("document has not been processed (status: %s)", doc.Status)
		}
		respond.Error(c, http.StatusNotFound, "not_processed", msg, "")
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "simplified result not found", "")
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch result", "")
	}
}

func (h *Handler) download(c *gin.Context) {
	md, result, err := h.Svc.Download(c.Request.Context(), c.Param("id"))
	if err != nil {
		var doc documents.Document
		h.respondResultError(c, doc, err)
		return
	}

	base, err := util.SanitizeFileName(result.OriginalFilename)
	if err != nil {
		base = "document"
	}
	filename := base + ".simplified.md"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
}

func (h *Handler) question(c *gin.Context) {
	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Question == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "question is required", "")
		return
	}

	ctx := WithRequestID(c.Request.Context(), c.GetString("requestId"))
	answer, err := h.Svc.Answer(ctx, c.Param("id"), req.Question)
	if err != nil {
		switch {
		case errors.Is(err, documents.ErrNotFound), errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", "")
		case errors.Is(err, ErrNotProcessed):
			respond.Error(c, http.StatusBadRequest, "not_processed", "document must be processed before asking questions", "")
		case errors.Is(err, ErrUpstream):
			respond.Error(c, http.StatusBadGateway, "upstream_error", "assistant is unavailable, try again later", "")
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to answer question", "")
		}
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"document_id": c.Param("id"),
		"question":    req.Question,
		"answer":      answer,
	})
}
