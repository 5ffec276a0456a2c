package monitor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"bitbucket.org/creachadair/stringset"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vincentbai/subwatch/internal/models"
)

const (
	DefaultPostLimit    = 50
	DefaultPollInterval = 30 * time.Second
)

var (
	ErrMissingSubreddit = errors.New("subreddit_name cannot be empty")
	ErrNoKeywords       = errors.New("at least one keyword is required")
)

// Post is the subset of a forum submission the session needs.
type Post struct {
	ID      string
	FullID  string
	Title   string
	Content string
}

type Forum interface {
	NewPosts(ctx context.Context, subreddit string, limit int) ([]Post, error)
	Reply(ctx context.Context, post Post, text string) error
}

type Responder interface {
	Respond(ctx context.Context, title, content string) (string, error)
}

type Store interface {
	HasInteraction(ctx context.Context, postID string) (bool, error)
	InsertInteraction(ctx context.Context, interaction models.Interaction) error
}

type Options struct {
	PostLimit     int
	PollInterval  time.Duration
	ReplyInterval time.Duration
	Logger        *zap.Logger
}

type Manager struct {
	forum     Forum
	responder Responder
	store     Store
	options   Options
	logger    *zap.Logger

	mu      sync.Mutex
	current *session
}

type session struct {
	id     string
	cancel context.CancelFunc
	done   chan struct{}
}

func NewManager(forum Forum, responder Responder, store Store, options Options) *Manager {
	if options.PostLimit <= 0 {
		options.PostLimit = DefaultPostLimit
	}
	if options.PollInterval <= 0 {
		options.PollInterval = DefaultPollInterval
	}
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		forum:     forum,
		responder: responder,
		store:     store,
		options:   options,
		logger:    logger.Named("monitor"),
	}
}

// Start validates the request, stops any running session and launches a new one.
// It returns the new session id.
func (m *Manager) Start(request models.MonitorRequest) (string, error) {
	subreddit := strings.TrimSpace(request.SubredditName)
	if subreddit == "" {
		return "", ErrMissingSubreddit
	}
	keywords := ParseKeywords(request.Keywords)
	if len(keywords) == 0 {
		return "", ErrNoKeywords
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()

	ctx, cancel := context.WithCancel(context.Background())
	current := &session{
		id:     uuid.New().String(),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	m.current = current

	logger := m.logger.With(
		zap.String("session_id", current.id),
		zap.String("subreddit", subreddit),
		zap.Strings("keywords", keywords))
	logger.Info("monitoring started")
	go m.run(ctx, logger, subreddit, keywords, current.done)
	return current.id, nil
}

// Stop cancels the running session and waits for it to exit.
// It reports whether a session was running.
func (m *Manager) Stop() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopLocked()
}

// Running returns the id of the active session, if any.
func (m *Manager) Running() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return "", false
	}
	select {
	case <-m.current.done:
		return "", false
	default:
		return m.current.id, true
	}
}

func (m *Manager) stopLocked() bool {
	if m.current == nil {
		return false
	}
	m.current.cancel()
	<-m.current.done
	m.logger.Info("monitoring stopped", zap.String("session_id", m.current.id))
	m.current = nil
	return true
}

func (m *Manager) run(ctx context.Context, logger *zap.Logger, subreddit string, keywords []string, done chan struct{}) {
	defer close(done)

	replied := stringset.New()
	count := 0
	for {
		posts, err := m.forum.NewPosts(ctx, subreddit, m.options.PostLimit)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("failed to fetch posts", zap.Error(err))
		}

		for _, post := range posts {
			if ctx.Err() != nil {
				return
			}
			if replied.Contains(post.ID) || !Matches(keywords, post.Title, post.Content) {
				continue
			}
			handled, posted := m.handle(ctx, logger, post)
			if handled {
				replied.Add(post.ID)
			}
			if !posted {
				continue
			}
			count++
			logger.Info("replied to post",
				zap.Int("count", count),
				zap.String("post_id", post.ID),
				zap.String("title", post.Title))
			if !wait(ctx, m.options.ReplyInterval) {
				return
			}
		}

		if !wait(ctx, m.options.PollInterval) {
			return
		}
	}
}

// handle replies to one matching post. handled means the post must not be
// considered again this session; posted means a reply went out.
func (m *Manager) handle(ctx context.Context, logger *zap.Logger, post Post) (handled, posted bool) {
	logger = logger.With(zap.String("post_id", post.ID))

	seen, err := m.store.HasInteraction(ctx, post.ID)
	if err != nil {
		logger.Warn("failed to check interaction history", zap.Error(err))
		return false, false
	}
	if seen {
		return true, false
	}

	response, err := m.responder.Respond(ctx, post.Title, post.Content)
	if err != nil {
		logger.Warn("failed to generate response", zap.Error(err))
		return false, false
	}
	if strings.TrimSpace(response) == "" {
		logger.Warn("empty response generated")
		return false, false
	}

	if err := m.forum.Reply(ctx, post, response); err != nil {
		logger.Warn("failed to post reply", zap.Error(err))
		return false, false
	}

	interaction := models.Interaction{
		PostID:   post.ID,
		Title:    post.Title,
		Content:  post.Content,
		Response: response,
	}
	// The reply is already public; record it even if the session is stopping.
	if err := m.store.InsertInteraction(context.WithoutCancel(ctx), interaction); err != nil {
		logger.Error("failed to record interaction", zap.Error(err))
	}
	return true, true
}

// wait sleeps for d and reports false if ctx ended first.
func wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
