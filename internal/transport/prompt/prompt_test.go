package prompt_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/alanyang/stlc-manager/internal/domain/process"
	domainprompt "github.com/alanyang/stlc-manager/internal/domain/prompt"
	"github.com/alanyang/stlc-manager/internal/mocks"
	promptsvc "github.com/alanyang/stlc-manager/internal/service/prompt"
	"github.com/alanyang/stlc-manager/internal/testutil"
	transportprompt "github.com/alanyang/stlc-manager/internal/transport/prompt"
)

func init() { gin.SetMode(gin.TestMode) }

type promptDeps struct {
	repo   *mocks.MockPromptRepository
	locker *mocks.MockAdvisoryLocker
	bus    *testutil.CaptureBus
}

func newRouter(t *testing.T, seeds []domainprompt.Template) (*gin.Engine, promptDeps) {
	t.Helper()
	ctrl := gomock.NewController(t)
	d := promptDeps{
		repo:   mocks.NewMockPromptRepository(ctrl),
		locker: mocks.NewMockAdvisoryLocker(ctrl),
		bus:    &testutil.CaptureBus{},
	}
	svc := promptsvc.NewService(d.repo, process.DefaultRegistry, d.bus, d.locker, seeds)
	r := gin.New()
	transportprompt.Register(r.Group("/prompts"), process.DefaultRegistry, svc)
	return r, d
}

func defaultSuffix(t *testing.T, slug string) string {
	cfg, err := process.DefaultRegistry.Lookup(slug)
	require.NoError(t, err)
	return cfg.DefaultSuffix
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	if body != "" {
		buf = bytes.NewBufferString(body)
	} else {
		buf = &bytes.Buffer{}
	}
	req, _ := http.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ── GET /:process ─────────────────────────────────────────────────────────────

func TestGetPrompt(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		setup      func(d promptDeps)
		wantStatus int
		wantSuffix string
	}{
		{
			name: "stored template",
			path: "/prompts/code-review",
			setup: func(d promptDeps) {
				d.repo.EXPECT().Get(gomock.Any(), process.TypeCodeReview).
					Return(domainprompt.New(process.TypeCodeReview, "Review {code}", "custom suffix", ""), nil)
			},
			wantStatus: http.StatusOK,
			wantSuffix: "custom suffix",
		},
		{
			name: "empty stored suffix falls back to default",
			path: "/prompts/requirement_analysis",
			setup: func(d promptDeps) {
				d.repo.EXPECT().Get(gomock.Any(), process.TypeRequirementAnalysis).
					Return(domainprompt.New(process.TypeRequirementAnalysis, "Analyse", "", ""), nil).Times(2)
			},
			wantStatus: http.StatusOK,
			wantSuffix: defaultSuffix(t, "requirement-analysis"),
		},
		{
			name: "no base prompt",
			path: "/prompts/test-planning",
			setup: func(d promptDeps) {
				d.repo.EXPECT().Get(gomock.Any(), process.TypeTestPlanning).Return(domainprompt.Template{}, domainprompt.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "store unreachable reads as absent",
			path: "/prompts/test-planning",
			setup: func(d promptDeps) {
				d.repo.EXPECT().Get(gomock.Any(), process.TypeTestPlanning).Return(domainprompt.Template{}, errors.New("db down"))
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unknown process",
			path:       "/prompts/test-closure",
			setup:      func(promptDeps) {},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, d := newRouter(t, nil)
			tt.setup(d)
			w := do(r, http.MethodGet, tt.path, "")
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus == http.StatusOK {
				var view promptsvc.View
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
				assert.Equal(t, tt.wantSuffix, view.SystemSuffix)
			}
		})
	}
}

// ── POST /:process ────────────────────────────────────────────────────────────

func TestSavePrompt(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(d promptDeps)
		wantStatus int
		wantEvents int
	}{
		{
			name: "inserted",
			body: `{"prompt":"Plan tests for {code}"}`,
			setup: func(d promptDeps) {
				d.repo.EXPECT().InsertIfAbsent(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tpl domainprompt.Template) (bool, error) {
						assert.Equal(t, process.TypeTestPlanning, tpl.ProcessType)
						assert.Equal(t, "Plan tests for {code}", tpl.PromptText)
						return true, nil
					})
			},
			wantStatus: http.StatusOK,
			wantEvents: 1,
		},
		{
			name: "already present",
			body: `{"prompt":"again"}`,
			setup: func(d promptDeps) {
				d.repo.EXPECT().InsertIfAbsent(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "missing prompt",
			body:       `{"text":"x"}`,
			setup:      func(promptDeps) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, d := newRouter(t, nil)
			tt.setup(d)
			w := do(r, http.MethodPost, "/prompts/test-planning", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.Len(t, d.bus.Events, tt.wantEvents)
		})
	}
}

// ── POST /init ────────────────────────────────────────────────────────────────

func TestInitPrompts(t *testing.T) {
	seeds := []domainprompt.Template{
		domainprompt.New(process.TypeCodeReview, "review", "", ""),
		domainprompt.New(process.TypeRequirementAnalysis, "analyse", "", ""),
	}
	r, d := newRouter(t, seeds)
	d.locker.EXPECT().WithLock(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ int64, fn func(context.Context) error) error {
			return fn(ctx)
		})
	gomock.InOrder(
		d.repo.EXPECT().InsertIfAbsent(gomock.Any(), seeds[0]).Return(true, nil),
		d.repo.EXPECT().InsertIfAbsent(gomock.Any(), seeds[1]).Return(false, nil),
	)

	w := do(r, http.MethodPost, "/prompts/init", "")

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(1), body["inserted"])
}

func TestInitPrompts_StoreError(t *testing.T) {
	r, d := newRouter(t, []domainprompt.Template{domainprompt.New(process.TypeCodeReview, "review", "", "")})
	d.locker.EXPECT().WithLock(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ int64, fn func(context.Context) error) error {
			return fn(ctx)
		})
	d.repo.EXPECT().InsertIfAbsent(gomock.Any(), gomock.Any()).Return(false, errors.New("db down"))

	w := do(r, http.MethodPost, "/prompts/init", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
