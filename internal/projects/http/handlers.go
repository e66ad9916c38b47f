package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/digitaltwinshub/projects-hub/internal/projects/domain"
)

func projectID(c *gin.Context) domain.ID {
	return domain.ID(strings.TrimSpace(c.Param("id")))
}

// writeError maps domain errors onto the JSON error envelope.
func writeError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error(), "fields": verr.Fields})
	case errors.Is(err, domain.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error(), "allowed": domain.Statuses})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
	case errors.Is(err, domain.ErrTeamMemberNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "team member not found"})
	case errors.Is(err, domain.ErrCatalogReadOnly):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrStorageFull):
		c.JSON(http.StatusInsufficientStorage, gin.H{"ok": false, "error": "storage full"})
	case errors.Is(err, domain.ErrExportFailed):
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "export failed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
	}
}

func (h *Handler) list(c *gin.Context) {
	l := h.svc.Listing(c.Request.Context(), c.Query("q"))
	c.JSON(http.StatusOK, gin.H{"ok": true, "flagship": l.Flagship, "userAdded": l.UserAdded})
}

func (h *Handler) create(c *gin.Context) {
	var req domain.ProjectDraft
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p})
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), projectID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) preview(c *gin.Context) {
	p, err := h.svc.Preview(c.Request.Context(), projectID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "preview": p})
}

func (h *Handler) export(c *gin.Context) {
	doc, err := h.svc.Export(c.Request.Context(), projectID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	c.Data(http.StatusOK, doc.ContentType, doc.Content)
}

type statusReq struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(c *gin.Context) {
	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Status) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.svc.UpdateStatus(c.Request.Context(), projectID(c), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), projectID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) getDraft(c *gin.Context) {
	d, ok := h.svc.Draft(c.Request.Context())
	if !ok {
		c.JSON(http.StatusOK, gin.H{"ok": true, "draft": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "draft": d})
}

func (h *Handler) saveDraft(c *gin.Context) {
	var req domain.ProjectDraft
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	if err := h.svc.SaveDraft(c.Request.Context(), req); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) clearDraft(c *gin.Context) {
	if err := h.svc.ClearDraft(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) getScroll(c *gin.Context) {
	pos := h.svc.ScrollPosition(c.Request.Context(), projectID(c))
	c.JSON(http.StatusOK, gin.H{"ok": true, "position": pos})
}

type scrollReq struct {
	Position *float64 `json:"position"`
}

func (h *Handler) saveScroll(c *gin.Context) {
	var req scrollReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Position == nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	if err := h.svc.SaveScrollPosition(c.Request.Context(), projectID(c), *req.Position); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) listTeam(c *gin.Context) {
	members := h.svc.TeamMembers(c.Request.Context(), c.Query("q"))
	c.JSON(http.StatusOK, gin.H{"ok": true, "members": members, "count": len(members)})
}

func (h *Handler) teamProfile(c *gin.Context) {
	p, err := h.svc.TeamProfile(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "member": p.Member, "projects": p.Projects})
}
