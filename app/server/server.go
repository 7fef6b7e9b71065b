// Package server provides HTTP API for the moderation bot: dry checks of a message against
// loaded catalogs, current moderation settings and prometheus metrics.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/didip/tollbooth/v8"
	"github.com/didip/tollbooth/v8/limiter"
	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/routegroup"

	"github.com/iroha-tools/modbot/app/bot"
	"github.com/iroha-tools/modbot/app/metrics"
	"github.com/iroha-tools/modbot/lib/spamcheck"
)

//go:generate moq --out mocks/checker.go --pkg mocks --with-resets --skip-ensure . Checker

// Server is a web API server
type Server struct {
	Config
}

// Config defines server parameters
type Config struct {
	Version    string  // version to show in /ping
	ListenAddr string  // listen address
	Checker    Checker // message checker, moderator
	Catalog    Info    // loaded catalogs summary for /info
	AuthPasswd string  // basic auth password for user "modbot", empty disables auth
	Dry        bool    // bot runs in dry mode, reported in /info
}

// Info is a summary of loaded catalogs, UpdatedAt is the last import time for catalogs from db
type Info struct {
	Source       string    `json:"source"`
	Triggers     int       `json:"triggers"`
	Translations int       `json:"translations"`
	Threshold    int       `json:"threshold"`
	UpdatedAt    time.Time `json:"updated_at,omitzero"`
}

// Checker checks requests the same way the bot checks incoming messages
type Checker interface {
	CheckRequest(req spamcheck.Request) bot.Response
	AllowedChannels() []string
}

// NewServer creates a new web API server
func NewServer(config Config) *Server {
	return &Server{Config: config}
}

// Run starts server and accepts requests until ctx is canceled
func (s *Server) Run(ctx context.Context) error {
	if s.AuthPasswd != "" {
		log.Printf("[INFO] basic auth enabled for api server")
	} else {
		log.Printf("[WARN] basic auth disabled, access to api is not protected")
	}

	srv := &http.Server{Addr: s.ListenAddr, Handler: s.routes(), ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout: 5 * time.Second, WriteTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] failed to shutdown api server: %v", err)
			return
		}
		log.Printf("[INFO] api server stopped")
	}()

	log.Printf("[INFO] start api server on %s", s.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to run server: %w", err)
	}
	return nil
}

func (s *Server) routes() http.Handler {
	lmt := tollbooth.NewLimiter(50, nil)
	lmt.SetIPLookup(limiter.IPLookup{Name: "RemoteAddr"})

	router := routegroup.New(http.NewServeMux())
	router.Use(rest.Recoverer(lgr.Default()))
	router.Use(rest.Throttle(1000))
	router.Use(rest.AppInfo("modbot", "iroha-tools", s.Version), rest.Ping)
	router.Use(func(next http.Handler) http.Handler { return tollbooth.LimitHandler(lmt, next) })
	router.Use(rest.SizeLimit(64 * 1024))

	router.Handle("GET /metrics", metrics.Handler())

	router.Group().Route(func(api *routegroup.Bundle) {
		if s.AuthPasswd != "" {
			api.Use(rest.BasicAuthWithUserPasswd("modbot", s.AuthPasswd))
		}
		api.HandleFunc("POST /check", s.checkHandler)
		api.HandleFunc("GET /channels", s.channelsHandler)
		api.HandleFunc("GET /info", s.infoHandler)
	})
	return router
}

// checkHandler handles POST /check request.
// it gets message text with channel and user from request body and returns detection results, nothing removed.
func (s *Server) checkHandler(w http.ResponseWriter, r *http.Request) {
	req := spamcheck.Request{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		rest.RenderJSON(w, rest.JSON{"error": "can't decode request", "details": err.Error()})
		log.Printf("[WARN] can't decode request: %v", err)
		return
	}
	if strings.TrimSpace(req.Msg) == "" {
		w.WriteHeader(http.StatusBadRequest)
		rest.RenderJSON(w, rest.JSON{"error": "empty message"})
		return
	}

	resp := s.Checker.CheckRequest(req)
	log.Printf("[DEBUG] api check %s: %s", req.String(), spamcheck.ChecksToString(resp.CheckResults))
	rest.RenderJSON(w, rest.JSON{"allowed": channelAllowed(resp.CheckResults), "spam": resp.Delete,
		"trigger": resp.Trigger, "count": resp.Count, "checks": resp.CheckResults})
}

// channelAllowed reports if the channel check passed
func channelAllowed(checks []spamcheck.Response) bool {
	for _, c := range checks {
		if c.Name == "channel" {
			return c.Details == "allowed"
		}
	}
	return false
}

// channelsHandler handles GET /channels request, returns the allow-list
func (s *Server) channelsHandler(w http.ResponseWriter, _ *http.Request) {
	channels := s.Checker.AllowedChannels()
	if channels == nil {
		channels = []string{}
	}
	rest.RenderJSON(w, rest.JSON{"channels": channels})
}

// infoHandler handles GET /info request
func (s *Server) infoHandler(w http.ResponseWriter, _ *http.Request) {
	rest.RenderJSON(w, rest.JSON{"version": s.Version, "dry": s.Dry, "catalog": s.Catalog})
}
