package transport_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/alanyang/stlc-manager/internal/adapter/memory"
	"github.com/alanyang/stlc-manager/internal/adapter/tempfs"
	"github.com/alanyang/stlc-manager/internal/chunker"
	"github.com/alanyang/stlc-manager/internal/domain/process"
	"github.com/alanyang/stlc-manager/internal/mocks"
	promptsvc "github.com/alanyang/stlc-manager/internal/service/prompt"
	"github.com/alanyang/stlc-manager/internal/service/runner"
	scenariosvc "github.com/alanyang/stlc-manager/internal/service/scenario"
	sessionsvc "github.com/alanyang/stlc-manager/internal/service/session"
	"github.com/alanyang/stlc-manager/internal/transport"
)

func newTestRouter(t *testing.T, mcpHandler http.Handler) http.Handler {
	t.Helper()
	gen := mocks.NewMockGenerator(gomock.NewController(t))
	uploads, err := tempfs.New(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)
	chk, err := chunker.New(chunker.WordEstimator{}, chunker.DefaultOptions)
	require.NoError(t, err)

	bus := memory.NewEventBus()
	sessions := sessionsvc.NewService(memory.NewSessionRepository())
	prompts := promptsvc.NewService(memory.NewPromptRepository(), process.DefaultRegistry, bus, memory.NewLocker(), nil)

	return transport.NewRouter(context.Background(), transport.Services{
		Registry: process.DefaultRegistry,
		Runner:   runner.NewService(process.DefaultRegistry, prompts, sessions, gen, uploads, chk, bus, runner.DefaultOptions()),
		Scenario: scenariosvc.NewService(gen, sessions, bus),
		Prompt:   prompts,
		Session:  sessions,
	}, memory.NewIdempotencyCache(time.Hour), mcpHandler, bus)
}

func TestNewRouter_Routes(t *testing.T) {
	r := newTestRouter(t, nil)

	tests := []struct {
		method     string
		path       string
		wantStatus int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/api/processes", http.StatusOK},
		{http.MethodGet, "/api/prompts/code-review", http.StatusNotFound},
		{http.MethodGet, "/api/sessions/nope", http.StatusNotFound},
		{http.MethodPost, "/api/prompts/init", http.StatusOK},
		{http.MethodPost, "/mcp", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req, _ := http.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestNewRouter_MountsMCP(t *testing.T) {
	hit := false
	r := newTestRouter(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hit = true
		w.WriteHeader(http.StatusAccepted)
	}))

	req, _ := http.NewRequest(http.MethodPost, "/mcp", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.True(t, hit)
	assert.Equal(t, http.StatusAccepted, w.Code)
}
