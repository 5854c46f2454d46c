package reviews

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/globizsReact/dmu-journal-sub000/internal/auth"
	"github.com/globizsReact/dmu-journal-sub000/internal/manuscripts"
)

// Handler serves reviewer comments attached to a manuscript.
// Visibility rides on the manuscript service's read check, so the
// owning author sees comments on their own submission and staff see
// everything.
type Handler struct {
	Repo        *Repo
	Manuscripts *manuscripts.Service
}

func NewHandler(repo *Repo, svc *manuscripts.Service) *Handler {
	return &Handler{Repo: repo, Manuscripts: svc}
}

// RegisterRoutes mounts review endpoints on the manuscripts group;
// the group must carry AuthMiddleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/:id/reviews", h.create)
	rg.GET("/:id/reviews", h.listByManuscript)
}

type createReq struct {
	Comments string `json:"comments"`
}

func (h *Handler) create(c *gin.Context) {
	ident, ok := auth.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if !ident.IsStaff() {
		c.JSON(http.StatusForbidden, gin.H{"error": "role not permitted", "kind": "role_not_permitted"})
		return
	}

	manuscriptID := strings.TrimSpace(c.Param("id"))
	if manuscriptID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "manuscript id required"})
		return
	}

	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	req.Comments = strings.TrimSpace(req.Comments)
	if req.Comments == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "comments required"})
		return
	}

	// staff read access doubles as the existence check
	if _, err := h.Manuscripts.Get(c.Request.Context(), ident, manuscriptID); err != nil {
		manuscripts.RespondError(c, err)
		return
	}

	review, err := h.Repo.Create(c.Request.Context(), manuscriptID, ident.UserID, req.Comments)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}

	c.JSON(http.StatusCreated, review)
}

func (h *Handler) listByManuscript(c *gin.Context) {
	ident, ok := auth.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	manuscriptID := strings.TrimSpace(c.Param("id"))
	if manuscriptID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "manuscript id required"})
		return
	}

	if _, err := h.Manuscripts.Get(c.Request.Context(), ident, manuscriptID); err != nil {
		manuscripts.RespondError(c, err)
		return
	}

	limit := parseInt(c.Query("limit"), 20)
	offset := parseInt(c.Query("offset"), 0)

	items, err := h.Repo.ListByManuscript(c.Request.Context(), manuscriptID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"limit":  limit,
		"offset": offset,
		"items":  items,
	})
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
