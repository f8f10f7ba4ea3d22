package web

import (
	"log/slog"
	"net/http"

	"kickabout-app/internal/balance"
	"kickabout-app/internal/config"
	"kickabout-app/internal/elo"
	"kickabout-app/internal/model"
	"kickabout-app/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

type Server struct {
	store     store.Store
	templates *Templates
	cfg       *config.Config
	balancer  *balance.Balancer
	engine    *elo.Engine
	sessions  *sessionStore
	log       *slog.Logger
}

func NewServer(appStore store.Store, templates *Templates, cfg *config.Config, log *slog.Logger) *Server {
	return &Server{
		store:     appStore,
		templates: templates,
		cfg:       cfg,
		balancer: balance.New(
			balance.WithCostMode(balance.CostMode(cfg.CostMode)),
			balance.WithTagWeights(parseTagWeights(cfg.TagWeights)),
			balance.WithShuffleTolerance(cfg.ShuffleFactor, cfg.ShuffleSlack),
		),
		engine: elo.New(
			elo.WithKFactor(cfg.KFactor),
			elo.WithHandicapPerPlayer(cfg.HandicapPerPlayer),
			elo.WithGoalDiffCap(cfg.GoalDiffCap),
		),
		sessions: newSessionStore(),
		log:      log,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", s.handleMatchDay)
	r.Post("/teams/generate", s.handleTeamsGenerate)
	r.Post("/teams/shuffle", s.handleTeamsShuffle)

	r.Get("/roster", s.handleRoster)
	r.Post("/players", s.handlePlayerCreate)
	r.Post("/players/{playerID}", s.handlePlayerUpdate)
	r.Post("/players/{playerID}/delete", s.handlePlayerDelete)

	r.Get("/record", s.handleRecord)
	r.Post("/record", s.handleRecordSubmit)
	r.Get("/history", s.handleHistory)

	r.Get("/login", s.handleLogin)
	r.Post("/login", s.handleLoginPost)
	r.Post("/logout", s.handleLogout)

	// Read-only JSON API for external tools, CORS-open.
	api := chi.NewRouter()
	api.Get("/players", s.handleAPIPlayers)
	api.Get("/matches", s.handleAPIMatches)
	r.Mount("/api", cors.AllowAll().Handler(api))

	return r
}

func parseTagWeights(raw map[string]int) map[model.Tag]int {
	if len(raw) == 0 {
		return nil
	}
	weights := make(map[model.Tag]int, len(raw))
	for token, weight := range raw {
		if tag, ok := model.ParseTag(token); ok {
			weights[tag] = weight
		}
	}
	return weights
}

func (s *Server) baseView(r *http.Request, title, active string) BaseView {
	return BaseView{
		Title:           title,
		Active:          active,
		AuthEnabled:     s.authEnabled(),
		IsAuthenticated: s.isAuthenticated(r),
		FlashSuccess:    flashMessage(r.URL.Query().Get("notice")),
	}
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	if err := s.templates.Render(w, name, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) renderPartial(w http.ResponseWriter, name string, data any) {
	if err := s.templates.RenderPartial(w, name, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
