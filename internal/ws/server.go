// Package ws owns the HTTP surface: the websocket upgrade and read pump
// feeding the hub, plus the read-only REST endpoints.
package ws

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/drawparty/backend/internal/config"
	"github.com/drawparty/backend/internal/health"
	"github.com/drawparty/backend/internal/hub"
)

type Server struct {
	config         *config.Config
	hub            *hub.Hub
	reporter       *health.Reporter
	frontendDir    string
	allowedOrigins map[string]bool
	allowedHosts   map[string]bool
}

func NewServer(cfg *config.Config, h *hub.Hub, reporter *health.Reporter, frontendDir string) *Server {
	s := &Server{
		config:         cfg,
		hub:            h,
		reporter:       reporter,
		frontendDir:    frontendDir,
		allowedOrigins: make(map[string]bool),
		allowedHosts:   make(map[string]bool),
	}

	for _, origin := range cfg.WS.AllowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		s.allowedOrigins[trimmed] = true
		if parsed, err := url.Parse(trimmed); err == nil && parsed.Host != "" {
			s.allowedHosts[parsed.Host] = true
		}
	}

	return s
}

func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/api/participants", s.handleParticipants)
	mux.HandleFunc("/api/health", s.handleHealth)

	if s.frontendDir != "" {
		log.Printf("Serving frontend from filesystem: %s", s.frontendDir)
		mux.Handle("/", http.FileServer(http.Dir(s.frontendDir)))
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin: s.checkOrigin,
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}

	id := uuid.NewString()
	log.Printf("connection %s opened from %s", id, r.RemoteAddr)
	s.hub.Connect(id, conn)

	go func() {
		defer func() {
			s.hub.Disconnect(id)
			log.Printf("connection %s closed", id)
		}()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			s.hub.Inbound(id, data)
		}
	}()
}

func (s *Server) handleHistory(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.hub.History().Snapshot())
}

func (s *Server) handleParticipants(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.hub.Registry().List())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	report, err := s.reporter.Collect(s.hub.Registry().Count(), s.hub.History().Len())
	if err != nil {
		http.Error(w, fmt.Sprintf("health collection failed: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	if len(s.allowedOrigins) > 0 {
		if s.allowedOrigins[origin] {
			return true
		}
		if parsed, err := url.Parse(origin); err == nil && parsed.Host != "" {
			return s.allowedHosts[parsed.Host]
		}
		return false
	}

	parsed, err := url.Parse(origin)
	if err != nil {
		return false
	}

	host := parsed.Host
	if host == "" {
		return false
	}

	if host == r.Host {
		return true
	}

	if strings.HasPrefix(host, "localhost:") || host == "localhost" {
		return true
	}
	if strings.HasPrefix(host, "127.0.0.1:") || host == "127.0.0.1" {
		return true
	}
	if strings.HasPrefix(host, "[::1]:") || host == "::1" {
		return true
	}

	return false
}

func ListenAndServe(host string, port int, mux *http.ServeMux) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	log.Printf("Server listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}
