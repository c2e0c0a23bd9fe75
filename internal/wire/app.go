package wire

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyang/stlc-manager/internal/adapter/memory"
	"github.com/alanyang/stlc-manager/internal/adapter/openai"
	pgdb "github.com/alanyang/stlc-manager/internal/adapter/postgres"
	pgeventbus "github.com/alanyang/stlc-manager/internal/adapter/postgres/eventbus"
	pgidempotency "github.com/alanyang/stlc-manager/internal/adapter/postgres/idempotency"
	pglocker "github.com/alanyang/stlc-manager/internal/adapter/postgres/locker"
	pgprompt "github.com/alanyang/stlc-manager/internal/adapter/postgres/prompt"
	pgsession "github.com/alanyang/stlc-manager/internal/adapter/postgres/session"
	"github.com/alanyang/stlc-manager/internal/adapter/tempfs"
	"github.com/alanyang/stlc-manager/internal/chunker"

	"github.com/alanyang/stlc-manager/internal/domain/process"
	domainprompt "github.com/alanyang/stlc-manager/internal/domain/prompt"

	porteventbus "github.com/alanyang/stlc-manager/internal/port/eventbus"
	portidem "github.com/alanyang/stlc-manager/internal/port/idempotency"
	portlocker "github.com/alanyang/stlc-manager/internal/port/locker"
	portprompt "github.com/alanyang/stlc-manager/internal/port/prompt"
	portsession "github.com/alanyang/stlc-manager/internal/port/session"

	promptsvc "github.com/alanyang/stlc-manager/internal/service/prompt"
	"github.com/alanyang/stlc-manager/internal/service/runner"
	scenariosvc "github.com/alanyang/stlc-manager/internal/service/scenario"
	sessionsvc "github.com/alanyang/stlc-manager/internal/service/session"

	"github.com/alanyang/stlc-manager/internal/transport"
	mcptransport "github.com/alanyang/stlc-manager/internal/transport/mcp"
)

// App holds the top-level resources needed to run and gracefully stop the server.
type App struct {
	Config    Config
	Pool      *pgxpool.Pool // nil with the memory driver
	Server    *http.Server
	MCPServer *mcptransport.Server

	closers []func()
}

// Close releases everything Build opened, in reverse order.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// stores is the persistence layer selected by STORE_DRIVER.
type stores struct {
	prompts     portprompt.Repository
	sessions    portsession.Repository
	idempotency interface {
		portidem.Store
		idempotencyPurger
	}
	bus    porteventbus.EventBus
	locker portlocker.AdvisoryLocker
}

// Build is the composition root: the only place concrete types are wired to their
// interface dependencies.
func Build(ctx context.Context, cfg Config) (*App, error) {
	app := &App{Config: cfg}

	// ── Database ─────────────────────────────────────────────────────────────
	var st stores
	switch cfg.StoreDriver {
	case DriverPostgres:
		pool, err := pgdb.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		app.Pool = pool
		app.closers = append(app.closers, pool.Close)

		if err := pgdb.Migrate(ctx, pool); err != nil {
			app.Close()
			return nil, fmt.Errorf("migrating database: %w", err)
		}

		bus := pgeventbus.New(pool)
		app.closers = append(app.closers, bus.Close)
		st = stores{
			prompts:     pgprompt.New(pool),
			sessions:    pgsession.New(pool),
			idempotency: pgidempotency.New(pool),
			bus:         bus,
			locker:      pglocker.New(pool),
		}
	default:
		slog.Warn("using in-memory stores; data is lost on restart")
		st = stores{
			prompts:     memory.NewPromptRepository(),
			sessions:    memory.NewSessionRepository(),
			idempotency: memory.NewIdempotencyCache(cfg.IdempotencyTTL),
			bus:         memory.NewEventBus(),
			locker:      memory.NewLocker(),
		}
	}

	// ── Adapters ─────────────────────────────────────────────────────────────
	catalog := openai.DefaultCatalog()
	if cfg.ModelCatalogPath != "" {
		var err error
		if catalog, err = openai.LoadCatalog(cfg.ModelCatalogPath); err != nil {
			app.Close()
			return nil, err
		}
	}
	if cfg.DefaultModel != "" {
		catalog.Default = cfg.DefaultModel
	}
	gen, err := openai.NewClient(cfg.Generation, catalog)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("creating generation client: %w", err)
	}

	uploads, err := tempfs.New(cfg.UploadDir)
	if err != nil {
		app.Close()
		return nil, err
	}

	estimator, err := chunker.NewEstimator(cfg.TokenEstimator)
	if err != nil {
		app.Close()
		return nil, err
	}
	chk, err := chunker.New(estimator, chunker.DefaultOptions)
	if err != nil {
		app.Close()
		return nil, err
	}

	seeds, err := domainprompt.Seeds()
	if err != nil {
		app.Close()
		return nil, err
	}

	// ── Services ─────────────────────────────────────────────────────────────
	registry := process.DefaultRegistry

	promptSvcInstance := promptsvc.NewService(st.prompts, registry, st.bus, st.locker, seeds)
	sessionSvcInstance := sessionsvc.NewService(st.sessions)
	runnerSvcInstance := runner.NewService(
		registry,
		promptSvcInstance,
		sessionSvcInstance,
		gen,
		uploads,
		chk,
		st.bus,
		runner.Options{Policy: cfg.FailurePolicy, Now: time.Now},
	)
	scenarioSvcInstance := scenariosvc.NewService(gen, sessionSvcInstance, st.bus)

	if cfg.SeedOnStartup {
		n, err := promptSvcInstance.EnsureSeeded(ctx)
		if err != nil {
			slog.Error("startup seeding failed", "error", err)
		} else {
			slog.Info("startup seeding done", "inserted", n)
		}
	}

	app.MCPServer = mcptransport.New(registry, runnerSvcInstance, promptSvcInstance, sessionSvcInstance)

	// ── Transport ─────────────────────────────────────────────────────────────
	router := transport.NewRouter(
		ctx,
		transport.Services{
			Registry: registry,
			Runner:   runnerSvcInstance,
			Scenario: scenarioSvcInstance,
			Prompt:   promptSvcInstance,
			Session:  sessionSvcInstance,
		},
		st.idempotency,
		app.MCPServer.Handler(),
		st.bus,
	)

	app.Server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ── Temp-upload janitor ───────────────────────────────────────────────────
	startJanitor(ctx, &janitor{
		uploads:        uploads,
		purger:         st.idempotency,
		locker:         st.locker,
		uploadMaxAge:   cfg.UploadMaxAge,
		idempotencyTTL: cfg.IdempotencyTTL,
		now:            time.Now,
	}, cfg.JanitorEvery)

	slog.Info("application wired",
		"port", cfg.Port,
		"store", cfg.StoreDriver,
		"model_api", cfg.Generation.BaseURL,
		"default_model", catalog.Default,
		"estimator", cfg.TokenEstimator,
		"chunk_policy", cfg.FailurePolicy,
	)
	return app, nil
}
