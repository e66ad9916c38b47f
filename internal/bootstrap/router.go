package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	httpapi "github.com/digitaltwinshub/projects-hub/internal/api/http"
	"github.com/digitaltwinshub/projects-hub/internal/api/http/middleware"
	"github.com/digitaltwinshub/projects-hub/internal/chat"
	"github.com/digitaltwinshub/projects-hub/internal/notifications"
	projectshttp "github.com/digitaltwinshub/projects-hub/internal/projects/http"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
	Services       *Services
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(cors.New(corsConfig(dep.AllowedOrigins)))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Services.Store)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api")

	chat.NewHandler(dep.Services.Chat).Register(api)

	projectsHandler := projectshttp.New(dep.Services.Projects)
	projectsHandler.Register(api.Group("/projects"))
	projectsHandler.RegisterTeam(api.Group("/team"))

	notifications.NewHandler(dep.Services.Notifications).Register(api.Group("/notifications"))

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{"Content-Disposition", middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || lo.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
