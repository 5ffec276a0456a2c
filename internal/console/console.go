package console

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/vincentbai/subwatch/internal/models"
	"github.com/vincentbai/subwatch/internal/server"
)

//go:embed assets/page.html
var pageHTML []byte

// API is the subset of the subwatch client the console drives.
type API interface {
	Monitor(ctx context.Context, request models.MonitorRequest) (json.RawMessage, error)
	StopMonitoring(ctx context.Context) (json.RawMessage, error)
	Interactions(ctx context.Context) ([]models.Interaction, error)
}

type Console struct {
	api     API
	router  *Router
	address string
	logger  *zap.Logger
}

func New(api API, address string, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("console")
	return &Console{
		api:     api,
		router:  NewRouter(NewRenderer(api), logger),
		address: address,
		logger:  logger,
	}
}

// SubmitMonitor relays the form values to /monitor and logs the reply.
// Empty values are sent unchanged.
func (c *Console) SubmitMonitor(ctx context.Context, subredditName, keywords string) {
	reply, err := c.api.Monitor(ctx, models.MonitorRequest{
		SubredditName: subredditName,
		Keywords:      keywords,
	})
	if err != nil {
		c.logger.Error("monitor request failed", zap.Error(err))
		return
	}
	c.logger.Info("monitor response", zap.ByteString("response", reply))
}

// Stop relays a stop request and logs the reply.
func (c *Console) Stop(ctx context.Context) {
	reply, err := c.api.StopMonitoring(ctx)
	if err != nil {
		c.logger.Error("stop request failed", zap.Error(err))
		return
	}
	c.logger.Info("stop response", zap.ByteString("response", reply))
}

// Page parses a fresh copy of the dashboard document.
func Page() (*html.Node, error) {
	doc, err := html.Parse(bytes.NewReader(pageHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	return doc, nil
}

func (c *Console) handlePage(w http.ResponseWriter, request *http.Request) {
	path := request.URL.Path
	if path != PathIndex && path != PathInteractions {
		http.NotFound(w, request)
		return
	}
	if request.Method != http.MethodGet {
		http.Error(w, "GET only", http.StatusMethodNotAllowed)
		return
	}

	doc, err := Page()
	if err != nil {
		c.logger.Error("failed to build page", zap.Error(err))
		http.Error(w, "Failed to build page", http.StatusInternalServerError)
		return
	}
	c.router.Load(request.Context(), path, doc)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := html.Render(w, doc); err != nil {
		c.logger.Warn("failed to write page", zap.Error(err))
	}
}

func (c *Console) handleMonitor(w http.ResponseWriter, request *http.Request) {
	if request.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	if err := request.ParseForm(); err != nil {
		c.logger.Warn("failed to parse monitor form", zap.Error(err))
	}
	c.SubmitMonitor(request.Context(), request.PostForm.Get("subredditName"), request.PostForm.Get("keywords"))
	http.Redirect(w, request, PathIndex, http.StatusSeeOther)
}

func (c *Console) handleStop(w http.ResponseWriter, request *http.Request) {
	if request.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	c.Stop(request.Context())
	http.Redirect(w, request, PathIndex, http.StatusSeeOther)
}

func (c *Console) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", c.handlePage)
	mux.HandleFunc("/monitor", c.handleMonitor)
	mux.HandleFunc("/stop_monitoring", c.handleStop)
	return mux
}

// Start serves the dashboard until ctx is cancelled.
func (c *Console) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:         c.address,
		Handler:      c.setupRoutes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return server.Serve(ctx, httpServer, c.logger)
}
