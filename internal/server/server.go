package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vincentbai/subwatch/internal/models"
	"github.com/vincentbai/subwatch/internal/monitor"
)

const (
	MessageMonitoringStarted = "Monitoring initiated successfully."
	MessageMonitoringStopped = "Monitoring stopped successfully."
)

// Controller starts and stops monitoring sessions.
type Controller interface {
	Start(request models.MonitorRequest) (string, error)
	Stop() bool
	Running() (string, bool)
}

type InteractionStore interface {
	ListInteractions(ctx context.Context) ([]models.Interaction, error)
}

type Server struct {
	store      InteractionStore
	controller Controller
	address    string
	logger     *zap.Logger
	server     *http.Server
}

func NewServer(store InteractionStore, controller Controller, address string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		store:      store,
		controller: controller,
		address:    address,
		logger:     logger.Named("api"),
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Write([]byte("ok"))
}

func (s *Server) handleMonitor(w http.ResponseWriter, request *http.Request) {
	if request.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		SubredditName *string `json:"subreddit_name"`
		Keywords      *string `json:"keywords"`
	}
	if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, models.MessageResponse{Error: "Invalid JSON format"})
		return
	}
	if body.SubredditName == nil || body.Keywords == nil {
		writeJSON(w, http.StatusBadRequest, models.MessageResponse{Error: "subreddit_name and keywords are required"})
		return
	}

	sessionID, err := s.controller.Start(models.MonitorRequest{
		SubredditName: *body.SubredditName,
		Keywords:      *body.Keywords,
	})
	switch {
	case errors.Is(err, monitor.ErrMissingSubreddit), errors.Is(err, monitor.ErrNoKeywords):
		writeJSON(w, http.StatusBadRequest, models.MessageResponse{Error: err.Error()})
		return
	case err != nil:
		s.logger.Error("failed to start monitoring", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.MessageResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: MessageMonitoringStarted, SessionID: sessionID})
}

func (s *Server) handleStopMonitoring(w http.ResponseWriter, request *http.Request) {
	if request.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	sessionID, running := s.controller.Running()
	if !s.controller.Stop() || !running {
		s.logger.Debug("stop requested with no active session")
		sessionID = ""
	} else {
		s.logger.Info("monitoring session stopped", zap.String("session_id", sessionID))
	}
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: MessageMonitoringStopped, SessionID: sessionID})
}

func (s *Server) handleInteractions(w http.ResponseWriter, request *http.Request) {
	if request.Method != http.MethodGet {
		http.Error(w, "GET only", http.StatusMethodNotAllowed)
		return
	}
	interactions, err := s.store.ListInteractions(request.Context())
	if err != nil {
		s.logger.Error("database error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.MessageResponse{Error: "Failed to load interactions"})
		return
	}
	if interactions == nil {
		interactions = []models.Interaction{}
	}
	writeJSON(w, http.StatusOK, models.InteractionsResponse{Interactions: interactions})
}

func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/monitor", s.handleMonitor)
	mux.HandleFunc("/stop_monitoring", s.handleStopMonitoring)
	mux.HandleFunc("/interactions", s.handleInteractions)
	return mux
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         s.address,
		Handler:      s.setupRoutes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	return Serve(ctx, s.server, s.logger)
}

// Serve runs httpServer until ctx ends or the listener fails.
func Serve(ctx context.Context, httpServer *http.Server, logger *zap.Logger) error {
	group, groupContext := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("listening", zap.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-groupContext.Done()
		logger.Info("shutting down server")

		shutdownContext, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownContext); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		return err
	}
	logger.Info("server exited")
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
