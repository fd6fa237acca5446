package http

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mauv0809/tampere-cricket/internal/auth"
	"github.com/mauv0809/tampere-cricket/internal/http/handlers"
)

func NewServer(deps Deps) *Server {
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	server := &Server{
		Deps:   deps,
		Router: chi.NewRouter(),
	}
	server.routes()
	return server
}

func (s *Server) routes() {
	r := s.Router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(paramsMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.Cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Handle("/metrics", s.MetricsHandler)
	r.Get("/health", handlers.HealthCheckHandler(s.DB))
	// Pub/Sub push deliveries authenticate at the subscription, not with a bearer token.
	r.Post("/pubsub/challenge-completed", handlers.ChallengeCompletedHandler(s.Processor, s.PubSub))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Use(s.Auth.Middleware)

		// Public reads and registration.
		r.Get("/challenges", handlers.ListChallengesHandler(s.Challenges))
		r.Get("/challenges/{id}", handlers.GetChallengeHandler(s.Challenges))
		r.Get("/players/{id}/profile", handlers.ProfileHandler(s.Profiles))
		r.Get("/players/{id}/stats", handlers.PlayerStatsHandler(s.Stats))
		r.Post("/players", handlers.CreatePlayerHandler(s.Players, s.Auth))
		r.Get("/leaderboard", handlers.LeaderboardHandler(s.Rankings))
		r.Get("/grounds", handlers.ListGroundsHandler(s.Availability))
		r.Get("/availability", handlers.AvailabilityHandler(s.Availability))

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireActor)
			r.Post("/challenges", handlers.CreateChallengeHandler(s.Processor, s.Location))
			r.Put("/challenges/{id}", handlers.EditChallengeHandler(s.Processor, s.Location))
			r.Delete("/challenges/{id}", handlers.DeleteChallengeHandler(s.Processor))
			r.Post("/challenges/{id}/accept", handlers.AcceptChallengeHandler(s.Processor))
			r.Post("/challenges/{id}/decline", handlers.DeclineChallengeHandler(s.Processor))
			r.Post("/challenges/{id}/cancel", handlers.CancelChallengeHandler(s.Processor))
			r.Post("/challenges/{id}/slots/{slot}/accept", handlers.AcceptSlotHandler(s.Processor))
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Post("/challenges/{id}/result", handlers.RecordResultHandler(s.Processor))
			r.Post("/challenges/{id}/winner", handlers.SelectWinnerHandler(s.Processor))
			r.Delete("/players/{id}", handlers.DeletePlayerHandler(s.Players, s.Rankings))
			r.Post("/grounds", handlers.CreateGroundHandler(s.Availability))
			r.Post("/grounds/{id}/slots", handlers.AddSlotHandler(s.Availability))
		})
	})

	// Maintenance runs can outlast the request timeout.
	r.Group(func(r chi.Router) {
		r.Use(s.Auth.Middleware)
		r.Use(auth.RequireAdmin)
		r.Post("/admin/recompute-stats", handlers.RecomputeStatsHandler(s.Jobs))
		r.Post("/admin/rank-snapshot", handlers.RankSnapshotHandler(s.Jobs))
	})

	if s.Slack == nil || s.Cfg.Slack.SigningSecret == "" {
		log.Warn("SLACK_SIGNING_SECRET not set, slash commands are disabled")
		return
	}
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Use(slackVerifier(s.Cfg.Slack.SigningSecret))
		r.Post("/slack/command/leaderboard", handlers.LeaderboardCommandHandler(s.Rankings, s.Slack))
		r.Post("/slack/command/player-stats", handlers.PlayerStatsCommandHandler(s.Players, s.Stats, s.Slack))
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
