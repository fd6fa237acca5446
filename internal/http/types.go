package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/tampere-cricket/internal/auth"
	"github.com/mauv0809/tampere-cricket/internal/availability"
	"github.com/mauv0809/tampere-cricket/internal/challenge"
	"github.com/mauv0809/tampere-cricket/internal/config"
	"github.com/mauv0809/tampere-cricket/internal/http/handlers"
	"github.com/mauv0809/tampere-cricket/internal/player"
	"github.com/mauv0809/tampere-cricket/internal/processor"
	"github.com/mauv0809/tampere-cricket/internal/profile"
	"github.com/mauv0809/tampere-cricket/internal/pubsub"
	"github.com/mauv0809/tampere-cricket/internal/ranking"
	"github.com/mauv0809/tampere-cricket/internal/scheduler"
	"github.com/mauv0809/tampere-cricket/internal/stats"
)

// requestTimeout bounds every request except the admin maintenance routes.
const requestTimeout = 30 * time.Second

// Deps is everything the HTTP layer talks to.
type Deps struct {
	DB             handlers.Pinger
	Processor      *processor.Processor
	Challenges     challenge.Lifecycle
	Players        player.Store
	Stats          stats.Store
	Rankings       *ranking.Service
	Profiles       *profile.Service
	Availability   *availability.Service
	Jobs           *scheduler.Jobs
	Auth           *auth.Authenticator
	PubSub         pubsub.PubSubClient
	Slack          handlers.SlackFormatter
	MetricsHandler http.Handler
	Cfg            config.Config
	Location       *time.Location
}

type Server struct {
	Deps
	Router *chi.Mux
}
