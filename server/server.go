package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-oauth-client/auth"
	"github.com/jrsteele09/go-oauth-client/gitlab"
	"github.com/jrsteele09/go-oauth-client/internal/config"
	"github.com/jrsteele09/go-oauth-client/internal/metrics"
	"github.com/jrsteele09/go-oauth-client/sessions"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

type Server struct {
	env      string // Environment (e.g., "development", "production")
	mux      *http.ServeMux
	routes   []string
	config   *config.Config
	flow     *auth.Service
	gitlab   *gitlab.Client
	store    sessions.Repo
	metrics  metrics.Recorder
	gatherer prometheus.Gatherer
}

func New(cfg *config.Config, client *gitlab.Client, store sessions.Repo, recorder metrics.Recorder, gatherer prometheus.Gatherer) *Server {
	if recorder == nil {
		recorder = metrics.Nop{}
	}

	s := &Server{
		env:      cfg.Environment,
		mux:      http.NewServeMux(),
		config:   cfg,
		flow:     auth.NewService(client, store),
		gitlab:   client,
		store:    store,
		metrics:  recorder,
		gatherer: gatherer,
	}

	s.initRoutes()
	s.logRoutes()

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "development" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Debug().Msgf("[%-19s] %s", displayMethod, path)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
