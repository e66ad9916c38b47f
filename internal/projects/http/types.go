package http

import "github.com/digitaltwinshub/projects-hub/internal/projects/service"

// Handler bundles the dependencies for projects and team HTTP endpoints.
type Handler struct {
	svc *service.ProjectService
}

func New(svc *service.ProjectService) *Handler {
	return &Handler{svc: svc}
}
