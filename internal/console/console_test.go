package console

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vincentbai/subwatch/internal/client"
	"github.com/vincentbai/subwatch/internal/models"
)

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.InfoLevel)
	return zap.New(core), logs
}

// apiRecorder is a fake subwatch API that counts requests per method and path.
type apiRecorder struct {
	mu     sync.Mutex
	bodies map[string][]string
}

func (a *apiRecorder) ServeHTTP(w http.ResponseWriter, request *http.Request) {
	body, _ := io.ReadAll(request.Body)
	a.mu.Lock()
	if a.bodies == nil {
		a.bodies = map[string][]string{}
	}
	key := request.Method + " " + request.URL.Path
	a.bodies[key] = append(a.bodies[key], string(body))
	a.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch request.URL.Path {
	case "/interactions":
		io.WriteString(w, `{"interactions":[{"post_id":"p1","title":"T","content":"C","response":"R"}]}`)
	default:
		io.WriteString(w, `{"message":"ok"}`)
	}
}

func (a *apiRecorder) calls(key string) []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.bodies[key]...)
}

func newLiveConsole(t *testing.T) (*Console, *apiRecorder, *observer.ObservedLogs) {
	t.Helper()
	rec := &apiRecorder{}
	api := httptest.NewServer(rec)
	t.Cleanup(api.Close)

	logger, logs := observedLogger()
	return New(client.New(api.URL), "127.0.0.1:0", logger), rec, logs
}

func TestSubmitMonitorPostsOnce(t *testing.T) {
	console, rec, logs := newLiveConsole(t)

	console.SubmitMonitor(context.Background(), "golang", "jobs,hiring")

	assert.Equal(t, []string{`{"subreddit_name":"golang","keywords":"jobs,hiring"}`}, rec.calls("POST /monitor"))
	assert.Equal(t, 1, logs.FilterMessage("monitor response").Len())
}

func TestStopPostsEmptyObjectOnce(t *testing.T) {
	console, rec, logs := newLiveConsole(t)

	console.Stop(context.Background())

	assert.Equal(t, []string{`{}`}, rec.calls("POST /stop_monitoring"))
	assert.Equal(t, 1, logs.FilterMessage("stop response").Len())
}

func TestFailuresAreLoggedOnly(t *testing.T) {
	api := httptest.NewServer(http.NotFoundHandler())
	baseURL := api.URL
	api.Close()

	logger, logs := observedLogger()
	console := New(client.New(baseURL), "", logger)

	require.NotPanics(t, func() {
		console.SubmitMonitor(context.Background(), "golang", "go")
		console.Stop(context.Background())

		w := httptest.NewRecorder()
		console.setupRoutes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/interactions", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	assert.Equal(t, 1, logs.FilterMessage("monitor request failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("stop request failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("failed to render interactions").Len())
	for _, entry := range logs.All() {
		assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	}
}

func TestRouterOnlyFetchesOnInteractionsPath(t *testing.T) {
	api := &fakeAPI{interactions: []models.Interaction{{PostID: "p1", Response: "R"}}}
	router := NewRouter(NewRenderer(api), zap.NewNop())

	for _, path := range []string{"/", "/monitor", "/interactions/", "/Interactions"} {
		doc, err := Page()
		require.NoError(t, err)
		router.Load(context.Background(), path, doc)
		assert.Nil(t, findByID(doc, ContainerID).FirstChild, "path %s", path)
	}
	assert.Equal(t, 0, api.fetches)

	doc, err := Page()
	require.NoError(t, err)
	router.Load(context.Background(), PathInteractions, doc)
	assert.Equal(t, 1, api.fetches)
	assert.NotNil(t, findByID(doc, ContainerID).FirstChild)
}

func TestPageHasDashboardElements(t *testing.T) {
	doc, err := Page()
	require.NoError(t, err)

	for _, id := range []string{"monitorForm", "stopButton", ContainerID, "subredditName", "keywords"} {
		assert.NotNil(t, findByID(doc, id), "missing #%s", id)
	}
}

func TestHandlePage(t *testing.T) {
	api := &fakeAPI{interactions: []models.Interaction{{PostID: "p1", Title: "T", Content: "C", Response: "R"}}}
	console := New(api, "", zap.NewNop())
	mux := console.setupRoutes()

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.NotContains(t, w.Body.String(), "Post ID: p1")
	assert.Equal(t, 0, api.fetches)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/interactions", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	order := []string{"Post ID: p1", ">T<", ">C<", "Response: R"}
	last := -1
	for _, fragment := range order {
		index := strings.Index(body, fragment)
		require.Greater(t, index, last, "fragment %q out of order", fragment)
		last = index
	}
	assert.Equal(t, 1, api.fetches)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleMonitorForm(t *testing.T) {
	api := &fakeAPI{}
	console := New(api, "", zap.NewNop())

	form := url.Values{"subredditName": {"golang"}, "keywords": {"jobs,hiring"}}
	request := httptest.NewRequest(http.MethodPost, "/monitor", strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	console.setupRoutes().ServeHTTP(w, request)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Equal(t, []models.MonitorRequest{{SubredditName: "golang", Keywords: "jobs,hiring"}}, api.monitorRequests)
}

func TestHandleMonitorFormEmptyFields(t *testing.T) {
	api := &fakeAPI{}
	console := New(api, "", zap.NewNop())

	request := httptest.NewRequest(http.MethodPost, "/monitor", strings.NewReader(""))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	console.setupRoutes().ServeHTTP(w, request)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, []models.MonitorRequest{{}}, api.monitorRequests)
}

func TestHandleStopForm(t *testing.T) {
	api := &fakeAPI{err: errors.New("down")}
	console := New(api, "", zap.NewNop())

	w := httptest.NewRecorder()
	console.setupRoutes().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/stop_monitoring", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, 1, api.stops)

	w = httptest.NewRecorder()
	console.setupRoutes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stop_monitoring", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
