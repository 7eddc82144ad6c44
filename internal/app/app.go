package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/oncograph-backend/internal/catalog"
	"github.com/yungbote/oncograph-backend/internal/data/graph"
	httpx "github.com/yungbote/oncograph-backend/internal/http"
	httpH "github.com/yungbote/oncograph-backend/internal/http/handlers"
	httpMW "github.com/yungbote/oncograph-backend/internal/http/middleware"
	oncologymod "github.com/yungbote/oncograph-backend/internal/modules/oncology"
	"github.com/yungbote/oncograph-backend/internal/observability"
	"github.com/yungbote/oncograph-backend/internal/platform/logger"
	"github.com/yungbote/oncograph-backend/internal/platform/neo4jdb"
	"github.com/yungbote/oncograph-backend/internal/research"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Store    graph.Store
	Usecases oncologymod.Usecases
	Server   *httpx.Server

	shutdownOtel func(context.Context) error
}

type Handlers struct {
	Health   *httpH.HealthHandler
	Oncology *httpH.OncologyHandler
}

// New builds the full application graph. The HTTP server is constructed but not started.
func New(ctx context.Context, cfg Config) (*App, error) {
	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	shutdownOtel := observability.InitOTel(ctx, log, cfg.OtelSettings())

	store, err := wireStore(ctx, log, cfg)
	if err != nil {
		_ = shutdownOtel(ctx)
		log.Sync()
		return nil, err
	}

	uc, err := wireUsecases(log, store)
	if err != nil {
		_ = store.Close(ctx)
		_ = shutdownOtel(ctx)
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(log, store, uc)
	server := wireServer(log, cfg, handlerset)

	return &App{
		Log:          log,
		Cfg:          cfg,
		Store:        store,
		Usecases:     uc,
		Server:       server,
		shutdownOtel: shutdownOtel,
	}, nil
}

func wireStore(ctx context.Context, log *logger.Logger, cfg Config) (graph.Store, error) {
	switch cfg.Store.Driver {
	case StoreDriverMemory:
		log.Warn("using in-memory graph store; data will not survive restarts")
		return graph.NewMemoryStore(), nil
	default:
		client, err := neo4jdb.New(log, cfg.Neo4jClientConfig())
		if err != nil {
			return nil, fmt.Errorf("init neo4j: %w", err)
		}
		store, err := graph.NewNeo4jStore(client, log)
		if err != nil {
			_ = client.Close(ctx)
			return nil, fmt.Errorf("init graph store: %w", err)
		}
		store.EnsureSchema(ctx)
		return store, nil
	}
}

func wireUsecases(log *logger.Logger, store graph.Store) (oncologymod.Usecases, error) {
	cat, err := catalog.Default()
	if err != nil {
		return oncologymod.Usecases{}, fmt.Errorf("load catalog: %w", err)
	}
	gen, err := research.Default()
	if err != nil {
		return oncologymod.Usecases{}, fmt.Errorf("load research tables: %w", err)
	}
	log.Info("catalog loaded", "entries", cat.Len())
	return oncologymod.New(oncologymod.UsecasesDeps{
		Log:       log.With("component", "oncology"),
		Store:     store,
		Catalog:   cat,
		Generator: gen,
	}), nil
}

func wireHandlers(log *logger.Logger, store graph.Store, uc oncologymod.Usecases) Handlers {
	return Handlers{
		Health:   httpH.NewHealthHandler(store),
		Oncology: httpH.NewOncologyHandler(log.With("component", "http"), uc),
	}
}

func wireServer(log *logger.Logger, cfg Config, h Handlers) *httpx.Server {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return httpx.NewServer(cfg.Addr(), httpx.RouterConfig{
		Log:             log,
		ServiceName:     serviceName,
		CORSOrigins:     cfg.CORS.AllowedOrigins,
		ImportLimiter:   httpMW.NewRateLimiter(cfg.RateLimit.ImportPerMinute, cfg.RateLimit.ImportBurst),
		HealthHandler:   h.Health,
		OncologyHandler: h.Oncology,
	})
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Log.Info("http server listening", "addr", a.Cfg.Addr(), "store", a.Cfg.Store.Driver)
		return a.Server.Run()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.Log.Info("http server shutting down")
		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	if a.Store != nil {
		if err := a.Store.Close(ctx); err != nil {
			a.Log.Warn("graph store close failed", "error", err)
		}
	}
	if a.shutdownOtel != nil {
		if err := a.shutdownOtel(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
