package chat

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register attaches POST /chat and GET /chat/stats to rg.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/chat", h.ask)
	rg.GET("/chat/stats", h.stats)
}

// ask keeps the widget contract: a bare {answer, meta} body, 400 only when
// the question is missing.
func (h *Handler) ask(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil || req.Question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing question"})
		return
	}
	c.JSON(http.StatusOK, h.svc.Ask(c.Request.Context(), req.Question, req.Projects))
}

func (h *Handler) stats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "stats": h.svc.Stats()})
}
