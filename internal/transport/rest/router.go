package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/workspace-booking/internal/auth"
	"github.com/frahmantamala/workspace-booking/internal/booking"
	"github.com/frahmantamala/workspace-booking/internal/report"
	"github.com/frahmantamala/workspace-booking/internal/space"
	"github.com/frahmantamala/workspace-booking/internal/transport/middleware"
	"github.com/frahmantamala/workspace-booking/internal/transport/swagger"
	"github.com/frahmantamala/workspace-booking/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers groups the feature handlers mounted under /api/v1.
type Handlers struct {
	Auth    *auth.Handler
	User    *user.Handler
	Space   *space.Handler
	Booking *booking.Handler
	Report  *report.Handler
}

func RegisterAllRoutes(router *chi.Mux, health *HealthHandler, h Handlers, rbac *auth.RBACAuthorization, allowedOrigins string, logger *slog.Logger) {
	// Apply global middleware
	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve the OpenAPI document at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", health.healthCheckHandler)
		r.Get("/ping", health.pingHandler)

		if h.Booking != nil {
			r.Get("/slots", h.Booking.ListSlots)
		}

		if h.Auth == nil {
			return
		}

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/register", h.Auth.Register)
			sr.Post("/refresh", h.Auth.RefreshToken)
		})

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)
			pr.Use(middleware.UserContext)

			if h.User != nil {
				pr.Get("/users/me", h.User.GetCurrentUser)
				pr.Get("/users/bookable", h.User.ListBookable)
			}

			if h.Space != nil {
				pr.Get("/coworkings", h.Space.ListCoworkings)
				pr.Get("/floors", h.Space.ListFloors)
				pr.Get("/floors/{id}/spaces", h.Space.ListSpaces)
			}

			if h.Booking != nil {
				pr.Get("/floors/{id}/availability", h.Booking.Availability)
				pr.Post("/bookings", h.Booking.CreateBookings)
				pr.Get("/bookings", h.Booking.ListBookings)
				pr.Delete("/bookings/{id}", h.Booking.CancelBooking)
			}

			// Administration
			pr.Group(func(ar chi.Router) {
				ar.Use(rbac.RequireAdmin())

				if h.Space != nil {
					ar.Post("/coworkings", h.Space.CreateCoworking)
					ar.Patch("/coworkings/{id}", h.Space.RenameCoworking)
					ar.Delete("/coworkings/{id}", h.Space.DeleteCoworking)
					ar.Post("/floors", h.Space.CreateFloor)
					ar.Patch("/floors/{id}", h.Space.RenameFloor)
					ar.Delete("/floors/{id}", h.Space.DeleteFloor)
					ar.Post("/floors/{id}/spaces", h.Space.CreateSpace)
					ar.Delete("/spaces/{id}", h.Space.DeleteSpace)
				}
				if h.User != nil {
					ar.Get("/users", h.User.ListUsers)
					ar.Patch("/users/{id}/role", h.User.UpdateRole)
					ar.Delete("/users/{id}", h.User.DeleteUser)
				}
				if h.Report != nil {
					ar.Get("/bookings/export", h.Report.ExportBookings)
				}
			})
		})
	})
}
