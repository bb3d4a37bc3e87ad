package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Carune/Ticket-Service-Practice/internal/service"
	"github.com/Carune/Ticket-Service-Practice/pkg/logger"
)

func NewRouter(h *Handler, authSvc service.AuthService, queueSvc service.QueueService, l logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/signup", h.Signup)
		r.Post("/auth/login", h.Login)

		r.Get("/concerts", h.ListConcerts)
		r.Get("/concerts/{concertID}/schedules", h.ListSchedules)
		r.Get("/schedules/{scheduleID}/seats", h.ListAvailableSeats)

		r.Group(func(r chi.Router) {
			r.Use(Authenticator(authSvc, l))

			r.Get("/members/me", h.Me)

			r.Post("/queue", h.JoinQueue)
			r.Get("/queue/rank", h.GetRank)
			r.Delete("/queue", h.LeaveQueue)

			r.Get("/reservations", h.ListMyTickets)

			r.Group(func(r chi.Router) {
				r.Use(QueueGate(queueSvc, l))
				r.Post("/reservations", h.Reserve)
			})
		})
	})

	return r
}
