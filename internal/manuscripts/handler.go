package manuscripts

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/globizsReact/dmu-journal-sub000/internal/auth"
	"github.com/globizsReact/dmu-journal-sub000/pkg/models"
)

type Handler struct {
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Service: svc}
}

// RegisterRoutes mounts the manuscript endpoints; the group must
// already carry AuthMiddleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.submit)
	rg.GET("", h.list)
	rg.GET("/:id", h.get)
	rg.PUT("/:id/status", h.updateStatus)
	rg.DELETE("/:id", h.delete)
	rg.GET("/:id/history", h.history)
}

func (h *Handler) submit(c *gin.Context) {
	ident, ok := auth.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var in SubmitInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	m, err := h.Service.Submit(c.Request.Context(), ident, in)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// list returns the caller's own submissions for authors, everything
// for admins and active reviewers.
func (h *Handler) list(c *gin.Context) {
	ident, ok := auth.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit := parseInt(c.Query("limit"), 20)
	offset := parseInt(c.Query("offset"), 0)

	var (
		items []models.Manuscript
		total int
		err   error
	)
	if ident.IsStaff() {
		items, total, err = h.Service.ListAll(c.Request.Context(), ident, limit, offset)
	} else {
		items, total, err = h.Service.ListByOwner(c.Request.Context(), ident, limit, offset)
	}
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"limit":  limit,
		"offset": offset,
		"items":  items,
	})
}

func (h *Handler) get(c *gin.Context) {
	ident, ok := auth.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id required"})
		return
	}

	m, err := h.Service.Get(c.Request.Context(), ident, id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

type updateStatusReq struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(c *gin.Context) {
	ident, ok := auth.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id required"})
		return
	}

	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	m, err := h.Service.UpdateStatus(c.Request.Context(), ident, id, models.Status(strings.TrimSpace(req.Status)))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) delete(c *gin.Context) {
	ident, ok := auth.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id required"})
		return
	}

	if err := h.Service.Delete(c.Request.Context(), ident, id); err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *Handler) history(c *gin.Context) {
	ident, ok := auth.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id required"})
		return
	}

	changes, err := h.Service.History(c.Request.Context(), ident, id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": changes})
}

// RespondError maps every lifecycle error kind to a distinct HTTP
// status and a structured body, so callers can render a specific
// message instead of a generic failure.
func RespondError(c *gin.Context, err error) {
	var ve *ValidationError
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found", "kind": "not_found"})
	case errors.Is(err, ErrRoleNotPermitted):
		c.JSON(http.StatusForbidden, gin.H{"error": "role not permitted", "kind": "role_not_permitted"})
	case errors.Is(err, ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "not the owning author", "kind": "not_owner"})
	case errors.Is(err, ErrInvalidCurrentState):
		c.JSON(http.StatusConflict, gin.H{"error": "current status does not permit this action", "kind": "invalid_current_state"})
	case errors.Is(err, ErrPublishedNotDeletable):
		c.JSON(http.StatusConflict, gin.H{"error": "published manuscript cannot be deleted", "kind": "published_not_deletable"})
	case errors.As(err, &ve):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": ve.Error(),
			"kind":  "invalid_input",
			"field": ve.Field,
		})
	case errors.Is(err, ErrUpdateConflict):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "temporarily unavailable, retry", "kind": "unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
