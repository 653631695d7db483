package router

import (
	"campus/internal/handlers/booking"
	"campus/internal/handlers/penalty"
	"campus/internal/handlers/room"
	"campus/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Room    room.Handler
	Booking booking.Handler
	Penalty penalty.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	AuthRole       middleware.AuthRole
}

// SetupRoutes mounts every domain under /v1. Each route's allowed roles live in
// permissions/permissions.json.
func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.AuthRole.APIKey, r.AuthRole.Auth, r.AuthRole.RBAC)

		r.DomainHandlers.Room.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)

		routerGroup.Route("/admin", func(admin chi.Router) {
			r.DomainHandlers.Booking.AdminRouter(admin)
			r.DomainHandlers.Penalty.Router(admin)
		})
	})
}

func New(domainHandlers DomainHandlers, authRole middleware.AuthRole) Router {
	return Router{
		DomainHandlers: domainHandlers,
		AuthRole:       authRole,
	}
}
