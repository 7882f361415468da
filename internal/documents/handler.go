package documents

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"legaldoc-backend/internal/shared/server/middleware"
	"legaldoc-backend/internal/shared/server/respond"
)

// multipart framing adds a few KB on top of the file itself.
const multipartOverhead = 1 << 20

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/upload", h.upload)
	rg.GET("/documents", h.list)
	rg.GET("/documents/:id/metadata", h.metadata)
	rg.DELETE("/documents/:id", h.remove)
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Svc.MaxFileSize+multipartOverhead)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large",
				"file exceeds the maximum upload size", "")
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", "")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", "")
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	doc, err := h.Svc.Upload(c.Request.Context(), userID, fileHeader.Filename, contentType, fileHeader.Size, file)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			status := http.StatusBadRequest
			if verr.Code == ValidationCodeTooLarge {
				status = http.StatusRequestEntityTooLarge
			}
			respond.Error(c, status, verr.Code, verr.Message, "")
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), "")
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to upload document", err.Error())
		}
		return
	}

	respond.JSON(c, http.StatusOK, toUploadResponse(doc))
}

func (h *Handler) metadata(c *gin.Context) {
	doc, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", "")
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), "")
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch document", "")
		}
		return
	}
	respond.JSON(c, http.StatusOK, toMetadataResponse(doc))
}

func (h *Handler) remove(c *gin.Context) {
	documentID := c.Param("id")
	if err := h.Svc.Delete(c.Request.Context(), documentID); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", "")
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete document", "")
		}
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"message":     "Document deleted successfully",
		"document_id": documentID,
	})
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	docs, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", "")
		return
	}

	resp := make([]MetadataResponse, 0, len(docs))
	for _, doc := range docs {
		resp = append(resp, toMetadataResponse(doc))
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"documents": resp,
		"count":     len(resp),
	})
}
