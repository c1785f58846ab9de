package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
)

func SetupRouter(s *Server) http.Handler {
	r := chi.NewRouter()

	r.Route("/monitors", func(r chi.Router) {
		r.Get("/", s.GetMonitors)
		r.Post("/", s.CreateMonitor)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetMonitor)
			r.Put("/", s.UpdateMonitor)
			r.Delete("/", s.DeleteMonitor)
			r.Get("/checks", s.GetMonitorChecks)
		})
	})

	r.Put("/settings/notifications", s.UpdateNotificationSettings)
	r.Post("/test-email", s.SendTestEmail)

	r.Get("/swagger/*", httpSwagger.Handler())

	return r
}
