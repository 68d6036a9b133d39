package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/maria-crm/internal/infra/http/handlers"
	"github.com/xavierca1/maria-crm/internal/infra/http/middleware"
)

type routerDeps struct {
	AllowedOrigins []string
	AuthUserHeader string
	RatePerMinute  int
	Users          middleware.ActorLoader

	Health    *handlers.HealthHandler
	UserH     *handlers.UserHandler
	LeadH     *handlers.LeadHandler
	ContactH  *handlers.ContactHandler
	DealH     *handlers.DealHandler
	ActivityH *handlers.ActivityHandler
	TicketH   *handlers.TicketHandler
	ProjectH  *handlers.ProjectHandler
}

func newRouter(ctx context.Context, d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", d.AuthUserHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.Handler())

	limiter := middleware.NewRateLimiter(ctx, d.RatePerMinute, time.Minute)
	can := middleware.RequirePermission

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(limiter))
		r.Get("/health", d.Health.Handle)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Identity(d.AuthUserHeader, d.Users))

			r.Get("/auth/me", d.UserH.Me)
			r.Route("/users", func(r chi.Router) {
				r.Use(can("users.manage"))
				r.Get("/", d.UserH.List)
				r.Post("/", d.UserH.Create)
				r.Patch("/{id}", d.UserH.Update)
			})
			r.With(can("users.manage")).Get("/roles", d.UserH.Roles)

			r.Route("/leads", func(r chi.Router) {
				r.With(can("leads.read")).Get("/", d.LeadH.List)
				r.With(can("leads.write")).Post("/", d.LeadH.Create)
				r.With(can("leads.write")).Patch("/{id}", d.LeadH.Update)
				r.With(can("leads.write")).Post("/{id}/convert", d.LeadH.Convert)
			})

			r.Route("/contacts", func(r chi.Router) {
				r.With(can("contacts.read")).Get("/", d.ContactH.List)
				r.With(can("contacts.write")).Post("/", d.ContactH.Create)
				r.With(can("contacts.read")).Get("/{id}", d.ContactH.Get)
				r.With(can("contacts.write")).Patch("/{id}", d.ContactH.Update)
				r.With(can("contacts.read")).Get("/{id}/timeline", d.ContactH.Timeline)
			})
			r.With(can("contacts.write")).Post("/import/contacts", d.ContactH.Import)

			r.Route("/deals", func(r chi.Router) {
				r.With(can("deals.read")).Get("/", d.DealH.List)
				r.With(can("deals.write")).Post("/", d.DealH.Create)
				r.With(can("deals.write")).Patch("/{id}", d.DealH.Update)
				r.With(can("deals.write")).Post("/{id}/move-stage", d.DealH.MoveStage)
				r.With(can("deals.read")).Get("/{id}/history", d.DealH.History)
			})
			r.With(can("deals.read")).Get("/pipelines/stages", d.DealH.PipelineStages)

			r.Route("/activities", func(r chi.Router) {
				r.With(can("activities.read")).Get("/", d.ActivityH.List)
				r.With(can("activities.write")).Post("/", d.ActivityH.Create)
				r.With(can("activities.write")).Patch("/{id}", d.ActivityH.Update)
				r.With(can("activities.write")).Post("/{id}/complete", d.ActivityH.Complete)
			})

			r.Route("/tickets", func(r chi.Router) {
				r.With(can("tickets.read")).Get("/", d.TicketH.List)
				r.With(can("tickets.write")).Post("/", d.TicketH.Create)
				r.With(can("tickets.write")).Patch("/{id}", d.TicketH.Update)
				r.With(can("tickets.write")).Post("/{id}/comments", d.TicketH.AddComment)
			})

			r.Route("/projects", func(r chi.Router) {
				r.With(can("projects.read")).Get("/", d.ProjectH.List)
				r.With(can("projects.write")).Post("/", d.ProjectH.Create)
				r.With(can("projects.write")).Patch("/{id}", d.ProjectH.Update)
			})
		})
	})

	return r
}
