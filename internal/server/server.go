package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/GasiorMateusz/dietplanner/internal/config"
	"github.com/GasiorMateusz/dietplanner/internal/conversation"
	"github.com/GasiorMateusz/dietplanner/internal/planner"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the JSON API for planning conversations.
type Server struct {
	planner   *planner.Planner
	convRepo  *conversation.Repository
	jwtSecret []byte
}

// NewServer creates a new Server instance.
func NewServer(cfg *config.Config, p *planner.Planner, convRepo *conversation.Repository) *Server {
	return &Server{
		planner:   p,
		convRepo:  convRepo,
		jwtSecret: []byte(cfg.JWTSecret),
	}
}

// Handler builds the route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(s.auth)
		r.Post("/conversations", s.handleCreateConversation)
		r.Post("/conversations/{id}/messages", s.handleSendMessage)
		r.Get("/conversations/{id}/plan", s.handleCurrentPlan)
		r.Post("/conversations/{id}/accept", s.handleAccept)
	})

	return r
}

func (s *Server) handleCreateConversation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlanDays int `json:"plan_days"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.PlanDays < 1 {
		req.PlanDays = 1
	}

	conv, err := s.planner.StartConversation(r.Context(), UserID(r.Context()), req.PlanDays)
	if err != nil {
		log.Printf("Failed to start conversation: %v", err)
		http.Error(w, "failed to start conversation", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":        conv.ID,
		"plan_days": conv.PlanDays,
	})
}

// loadConversation fetches the conversation and enforces ownership. A nil
// return means the response has already been written.
func (s *Server) loadConversation(w http.ResponseWriter, r *http.Request) *conversation.Conversation {
	conv, err := s.convRepo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		log.Printf("Failed to load conversation: %v", err)
		http.Error(w, "failed to load conversation", http.StatusInternalServerError)
		return nil
	}
	if conv == nil || conv.UserID != UserID(r.Context()) {
		http.Error(w, "conversation not found", http.StatusNotFound)
		return nil
	}
	return conv
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	conv := s.loadConversation(w, r)
	if conv == nil {
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	reply, err := s.planner.SendMessage(r.Context(), conv, req.Text)
	if err != nil {
		log.Printf("Failed to process message: %v", err)
		http.Error(w, "failed to generate reply", http.StatusBadGateway)
		return
	}

	resp := map[string]any{
		"display":  reply.Display,
		"has_plan": reply.HasPlan,
	}
	if reply.HasCommentary {
		resp["commentary"] = reply.Commentary
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCurrentPlan(w http.ResponseWriter, r *http.Request) {
	conv := s.loadConversation(w, r)
	if conv == nil {
		return
	}

	out, err := s.planner.CurrentPlan(r.Context(), conv)
	if err != nil {
		log.Printf("Failed to resolve plan: %v", err)
		http.Error(w, "failed to resolve plan", http.StatusInternalServerError)
		return
	}
	if out == nil {
		http.Error(w, "no current plan", http.StatusNotFound)
		return
	}

	if out.Multi != nil {
		writeJSON(w, http.StatusOK, map[string]any{"multi_day_plan": out.Multi})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"day_plan": out.Day})
}

func (s *Server) handleAccept(w http.ResponseWriter, r *http.Request) {
	conv := s.loadConversation(w, r)
	if conv == nil {
		return
	}

	id, err := s.planner.Accept(r.Context(), conv)
	if err == planner.ErrNoCurrentPlan {
		http.Error(w, "no current plan", http.StatusConflict)
		return
	}
	if err != nil {
		log.Printf("Failed to accept plan: %v", err)
		http.Error(w, "failed to accept plan", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"plan_id": id})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
