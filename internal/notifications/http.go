package notifications

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register attaches the notification routes to rg.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.add)
	rg.DELETE("", h.clear)
	rg.POST("/read-all", h.markAllRead)
	rg.GET("/settings", h.settings)
	rg.PUT("/settings", h.saveSettings)
	rg.DELETE("/settings", h.resetSettings)
	rg.DELETE("/:id", h.remove)
	rg.POST("/:id/read", h.markRead)
}

func (h *Handler) list(c *gin.Context) {
	feed := h.svc.List(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"ok": true, "notifications": feed.Items, "unread": feed.Unread})
}

type addReq struct {
	Type     Type     `json:"type"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Category Category `json:"category"`
	Icon     string   `json:"icon"`
}

func (h *Handler) add(c *gin.Context) {
	var req addReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	n, err := h.svc.Add(c.Request.Context(), Notification{
		Type:     req.Type,
		Title:    strings.TrimSpace(req.Title),
		Message:  req.Message,
		Category: req.Category,
		Icon:     req.Icon,
	})
	switch {
	case errors.Is(err, ErrSuppressed):
		c.JSON(http.StatusOK, gin.H{"ok": true, "suppressed": true})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "notification": n})
}

func (h *Handler) remove(c *gin.Context) {
	h.respond(c, h.svc.Remove(c.Request.Context(), c.Param("id")))
}

func (h *Handler) markRead(c *gin.Context) {
	h.respond(c, h.svc.MarkRead(c.Request.Context(), c.Param("id")))
}

func (h *Handler) markAllRead(c *gin.Context) {
	h.respond(c, h.svc.MarkAllRead(c.Request.Context()))
}

func (h *Handler) clear(c *gin.Context) {
	h.respond(c, h.svc.Clear(c.Request.Context()))
}

func (h *Handler) settings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "settings": h.svc.Settings(c.Request.Context())})
}

// saveSettings applies a partial document on top of the current settings.
func (h *Handler) saveSettings(c *gin.Context) {
	ctx := c.Request.Context()
	current := h.svc.Settings(ctx)

	body, err := io.ReadAll(c.Request.Body)
	if err != nil || json.Unmarshal(body, &current) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	saved, err := h.svc.SaveSettings(ctx, current)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrInvalidSettings) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "settings": saved})
}

func (h *Handler) resetSettings(c *gin.Context) {
	def, err := h.svc.ResetSettings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "settings": def})
}

func (h *Handler) respond(c *gin.Context, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"ok": true})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "notification not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
	}
}
