package handlers

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ArmaanM08/WikiDoCollab/internal/document/service"
	"github.com/ArmaanM08/WikiDoCollab/pkg/apperr"
	"github.com/ArmaanM08/WikiDoCollab/pkg/middleware"
)

// DocumentHandler serves document CRUD, the collaboration-request workflow,
// capability lookups and version snapshots.
type DocumentHandler struct {
	svc    *service.Service
	secret string
}

func NewDocumentHandler(svc *service.Service, secret string) *DocumentHandler {
	return &DocumentHandler{svc: svc, secret: secret}
}

// Register routes under /documents, /public and /requests
func (h *DocumentHandler) Register(rg *gin.RouterGroup) {
	auth := middleware.RequireAuth(h.secret)
	opt := middleware.OptionalAuth(h.secret)

	d := rg.Group("/documents")
	d.GET("", auth, h.List)
	d.POST("", auth, h.Create)
	d.DELETE("/:id", auth, h.Delete)
	d.GET("/:id/versions", auth, h.ListVersions)
	d.POST("/:id/versions", auth, h.CreateVersion)
	d.POST("/:id/request-access", auth, h.RequestAccess)
	d.POST("/:id/approve", auth, h.Decide)
	d.GET("/:id/capability", opt, h.Capability)
	d.GET("/:id/content", opt, h.Content)
	d.POST("/:id/content", auth, h.SaveContent)
	d.GET("/:id/export/html", opt, h.ExportHTML)

	rg.GET("/public/documents", opt, h.ListPublic)
	rg.GET("/requests", auth, h.PendingRequests)
}

// List returns every document the caller owns or collaborates on.
func (h *DocumentHandler) List(c *gin.Context) {
	id := middleware.IdentityFrom(c)
	docs, err := h.svc.ListForUser(c.Request.Context(), id.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *DocumentHandler) Create(c *gin.Context) {
	var req struct {
		Title     string `json:"title"`
		IsPrivate bool   `json:"isPrivate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := middleware.IdentityFrom(c)
	d, err := h.svc.Create(c.Request.Context(), id.UserID, req.Title, req.IsPrivate)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	id := middleware.IdentityFrom(c)
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), id.UserID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *DocumentHandler) ListVersions(c *gin.Context) {
	vs, err := h.svc.ListVersions(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, vs)
}

// CreateVersion stores an immutable snapshot. The snapshot travels base64
// encoded in the JSON body.
func (h *DocumentHandler) CreateVersion(c *gin.Context) {
	var req struct {
		Message  string `json:"message"`
		Snapshot string `json:"snapshot"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var snapshot []byte
	if req.Snapshot != "" {
		b, err := base64.StdEncoding.DecodeString(req.Snapshot)
		if err != nil {
			fail(c, apperr.Validation("snapshot must be base64"))
			return
		}
		snapshot = b
	}
	id := middleware.IdentityFrom(c)
	v, err := h.svc.CreateVersion(c.Request.Context(), c.Param("id"), id.UserID, req.Message, snapshot)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

// RequestAccess files a collaboration request on behalf of the caller.
func (h *DocumentHandler) RequestAccess(c *gin.Context) {
	id := middleware.IdentityFrom(c)
	status, err := h.svc.RequestAccess(c.Request.Context(), c.Param("id"), id.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

// Decide approves or rejects a pending request. Owner only.
func (h *DocumentHandler) Decide(c *gin.Context) {
	var req struct {
		UserID  string `json:"userId"`
		Approve bool   `json:"approve"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.UserID == "" {
		fail(c, apperr.Validation("userId is required"))
		return
	}
	id := middleware.IdentityFrom(c)
	status, err := h.svc.Decide(c.Request.Context(), c.Param("id"), id.UserID, req.UserID, req.Approve)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

// Capability tells the caller what they may do with a document. Anonymous
// callers get a view-only verdict on public documents.
func (h *DocumentHandler) Capability(c *gin.Context) {
	userID := ""
	if id := middleware.IdentityFrom(c); id != nil {
		userID = id.UserID
	}
	d, verdict, err := h.svc.Capability(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"_id":       d.ID,
		"title":     d.Title,
		"isPrivate": d.IsPrivate,
		"canEdit":   verdict.CanEdit,
		"updatedAt": d.UpdatedAt,
	})
}

func (h *DocumentHandler) Content(c *gin.Context) {
	userID := ""
	if id := middleware.IdentityFrom(c); id != nil {
		userID = id.UserID
	}
	content, err := h.svc.Content(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": content})
}

// SaveContent overwrites the live content whole.
func (h *DocumentHandler) SaveContent(c *gin.Context) {
	var req struct {
		Content *string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Content == nil {
		fail(c, apperr.Validation("content is required"))
		return
	}
	id := middleware.IdentityFrom(c)
	if err := h.svc.SaveContent(c.Request.Context(), c.Param("id"), id.UserID, *req.Content); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ExportHTML serves the latest version snapshot as an HTML page. Documents
// without a version get an empty shell so the link always resolves.
func (h *DocumentHandler) ExportHTML(c *gin.Context) {
	userID := ""
	if id := middleware.IdentityFrom(c); id != nil {
		userID = id.UserID
	}
	snapshot, err := h.svc.LatestSnapshot(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	if len(snapshot) == 0 {
		c.String(http.StatusOK, "<!doctype html><html><body></body></html>")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", snapshot)
}

// ListPublic returns every non-private document with display identities.
func (h *DocumentHandler) ListPublic(c *gin.Context) {
	docs, err := h.svc.ListPublic(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

// PendingRequests lists pending collaboration requests across every document
// the caller owns.
func (h *DocumentHandler) PendingRequests(c *gin.Context) {
	id := middleware.IdentityFrom(c)
	reqs, err := h.svc.PendingRequests(c.Request.Context(), id.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reqs)
}
