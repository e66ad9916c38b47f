package http

import "github.com/gin-gonic/gin"

// Register attaches project routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.create)

	rg.GET("/draft", h.getDraft)
	rg.PUT("/draft", h.saveDraft)
	rg.DELETE("/draft", h.clearDraft)

	rg.GET("/:id", h.get)
	rg.DELETE("/:id", h.delete)
	rg.GET("/:id/preview", h.preview)
	rg.GET("/:id/export", h.export)
	rg.PATCH("/:id/status", h.updateStatus)
	rg.GET("/:id/scroll", h.getScroll)
	rg.PUT("/:id/scroll", h.saveScroll)
}

// RegisterTeam attaches team member routes to the given router group.
func (h *Handler) RegisterTeam(rg *gin.RouterGroup) {
	rg.GET("", h.listTeam)
	rg.GET("/:slug", h.teamProfile)
}
