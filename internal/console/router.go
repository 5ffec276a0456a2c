package console

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

const (
	PathIndex        = "/"
	PathInteractions = "/interactions"

	ContainerID = "interactions"
)

// Router decides what a freshly loaded page needs before it is sent.
type Router struct {
	renderer *Renderer
	logger   *zap.Logger
}

func NewRouter(renderer *Renderer, logger *zap.Logger) *Router {
	return &Router{renderer: renderer, logger: logger}
}

// Load renders the interaction list into doc when path is /interactions.
// Any other path is left alone. Errors are logged only.
func (r *Router) Load(ctx context.Context, path string, doc *html.Node) {
	if path != PathInteractions {
		return
	}
	container := findByID(doc, ContainerID)
	if container == nil {
		r.logger.Error("page has no interactions container")
		return
	}
	if err := r.renderer.Render(ctx, container); err != nil {
		r.logger.Error("failed to render interactions", zap.Error(err))
	}
}
