package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wricardo/mcp-training/fuelroute/planner/engine"
	"github.com/wricardo/mcp-training/fuelroute/planner/service"
	"github.com/wricardo/mcp-training/fuelroute/transport/websocket"
)

// maxBodyBytes caps request bodies; inline networks are the largest payload.
const maxBodyBytes = 4 << 20

// Server represents the REST API server
type Server struct {
	service  service.PlannerService
	hub      *websocket.Hub
	gatherer prometheus.Gatherer
	router   *mux.Router
}

// NewServer creates a new API server. hub and gatherer may be nil, which
// disables /ws and /metrics respectively.
func NewServer(planner service.PlannerService, hub *websocket.Hub, gatherer prometheus.Gatherer) *Server {
	s := &Server{
		service:  planner,
		hub:      hub,
		gatherer: gatherer,
		router:   mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Plans
	api.HandleFunc("/plans", s.handleCreatePlan).Methods("POST")
	api.HandleFunc("/plans", s.handleListPlans).Methods("GET")
	api.HandleFunc("/plans/{id}", s.handleGetPlan).Methods("GET")
	api.HandleFunc("/plans/{id}", s.handleDeletePlan).Methods("DELETE")
	api.HandleFunc("/plans/{id}/narration", s.handleGetNarration).Methods("GET")

	// Capacity analysis
	api.HandleFunc("/sweeps", s.handleSweep).Methods("POST")

	// Networks
	api.HandleFunc("/networks", s.handleListNetworks).Methods("GET")
	api.HandleFunc("/networks", s.handleCreateNetwork).Methods("POST")
	api.HandleFunc("/networks/{name}", s.handleGetNetwork).Methods("GET")
	api.HandleFunc("/networks/{name}/minimum-capacity", s.handleMinimumCapacity).Methods("GET")

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	if s.gatherer != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	if s.hub != nil {
		s.router.HandleFunc("/ws", s.handleWebSocket)
	}
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service errors to status codes.
func respondServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNetworkNotFound), errors.Is(err, service.ErrPlanNotFound):
		status = http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}
	respondError(w, status, err.Error())
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func (s *Server) publish(eventType string, plan *service.Plan) {
	if s.hub == nil {
		return
	}
	s.hub.PublishPlanEvent(service.PlanEvent{
		Type:      eventType,
		Network:   plan.Network,
		Plan:      plan,
		Timestamp: time.Now(),
	})
}

// Plan Handlers

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req service.PlanRequest
	if r.ContentLength != 0 {
		if err := decodeBody(w, r, &req); err != nil {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
			return
		}
	}

	plan, err := s.service.PlanTrip(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.publish(service.EventPlanCreated, plan)
	respondJSON(w, http.StatusCreated, plan)
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.service.ListPlans(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	query := r.URL.Query()
	total := len(plans)

	if network := engine.NetworkID(query.Get("network")); network != "" {
		filtered := make([]*service.Plan, 0, len(plans))
		for _, p := range plans {
			if p.Network == network {
				filtered = append(filtered, p)
			}
		}
		plans = filtered
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(plans) {
			plans = plans[:l]
		}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"count": len(plans),
		"total": total,
		"plans": plans,
	})
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.service.GetPlan(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, plan)
}

func (s *Server) handleGetNarration(w http.ResponseWriter, r *http.Request) {
	plan, err := s.service.GetPlan(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, plan.Narration())
}

func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	plan, err := s.service.DeletePlan(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.publish(service.EventPlanDeleted, plan)
	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Plan %s deleted", plan.ID),
	})
}

// Capacity Handlers

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	var req service.SweepRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	result, err := s.service.Sweep(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleMinimumCapacity(w http.ResponseWriter, r *http.Request) {
	report, err := s.service.MinimumCapacity(r.Context(), networkName(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// Network Handlers

func networkName(r *http.Request) string {
	return engine.NetworkID(mux.Vars(r)["name"])
}

func (s *Server) handleListNetworks(w http.ResponseWriter, r *http.Request) {
	networks, err := s.service.ListNetworks(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if networks == nil {
		networks = []*service.NetworkInfo{}
	}
	respondJSON(w, http.StatusOK, networks)
}

func (s *Server) handleGetNetwork(w http.ResponseWriter, r *http.Request) {
	config, err := s.service.LoadNetwork(r.Context(), networkName(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, config)
}

func (s *Server) handleCreateNetwork(w http.ResponseWriter, r *http.Request) {
	var config engine.NetworkConfig
	if err := decodeBody(w, r, &config); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	// the identifier defaults to the display name
	id := r.URL.Query().Get("id")
	if id == "" {
		id = config.Name
	}

	if err := s.service.SaveNetwork(r.Context(), id, &config); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"message":    "Network saved successfully",
		"network_id": engine.NetworkID(id),
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	network := engine.NetworkID(r.URL.Query().Get("network"))
	if network == "" {
		respondError(w, http.StatusBadRequest, "network parameter required")
		return
	}

	if _, err := s.service.LoadNetwork(r.Context(), network); err != nil {
		respondServiceError(w, err)
		return
	}

	s.hub.ServeWS(w, r, network)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
