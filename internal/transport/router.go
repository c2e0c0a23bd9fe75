package transport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alanyang/stlc-manager/internal/domain/event"
	"github.com/alanyang/stlc-manager/internal/domain/process"
	porteventbus "github.com/alanyang/stlc-manager/internal/port/eventbus"
	portidem "github.com/alanyang/stlc-manager/internal/port/idempotency"
	promptsvc "github.com/alanyang/stlc-manager/internal/service/prompt"
	"github.com/alanyang/stlc-manager/internal/service/runner"
	scenariosvc "github.com/alanyang/stlc-manager/internal/service/scenario"
	sessionsvc "github.com/alanyang/stlc-manager/internal/service/session"

	processhandler "github.com/alanyang/stlc-manager/internal/transport/process"
	prompthandler "github.com/alanyang/stlc-manager/internal/transport/prompt"
	sessionhandler "github.com/alanyang/stlc-manager/internal/transport/session"
	wshandler "github.com/alanyang/stlc-manager/internal/transport/ws"
)

// Services groups what the HTTP surface calls into.
type Services struct {
	Registry *process.Registry
	Runner   *runner.Service
	Scenario *scenariosvc.Service
	Prompt   *promptsvc.Service
	Session  *sessionsvc.Service
}

// NewRouter builds the gin engine. mcpHandler may be nil, in which case no
// MCP endpoint is mounted.
func NewRouter(
	ctx context.Context,
	svcs Services,
	idemStore portidem.Store,
	mcpHandler http.Handler,
	eventBus porteventbus.EventBus,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(RequestLogger())
	r.Use(CORSMiddleware())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	api := r.Group("/api")

	processes := api.Group("/processes")
	processes.Use(IdempotencyMiddleware(idemStore))
	processhandler.Register(processes, svcs.Registry, svcs.Runner, svcs.Scenario)
	prompthandler.Register(api.Group("/prompts"), svcs.Registry, svcs.Prompt)
	sessionhandler.Register(api.Group("/sessions"), svcs.Session)

	hub := wshandler.NewHub()
	hub.Register(api.Group("/ws"))

	if mcpHandler != nil {
		r.Any("/mcp", gin.WrapH(mcpHandler))
	}

	// Bridge: one subscription per domain channel. Every event is forwarded;
	// event.Type in the payload lets the client filter.
	for _, ch := range []event.Channel{event.ChannelRun, event.ChannelPrompt} {
		c := ch
		if _, err := eventBus.Subscribe(ctx, c, func(_ context.Context, e event.Event) {
			hub.Broadcast(e)
		}); err != nil {
			slog.Error("failed to subscribe channel to WS hub", "channel", c, "error", err)
		}
	}

	return r
}
