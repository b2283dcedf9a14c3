package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/coursedeck/coursedeck/internal/config"
	"github.com/coursedeck/coursedeck/internal/gateway"
	"github.com/coursedeck/coursedeck/internal/logger"
	"github.com/coursedeck/coursedeck/internal/session"
	"github.com/coursedeck/coursedeck/internal/store"
	"github.com/coursedeck/coursedeck/internal/telemetry"
)

// App wires the pieces every command needs: config, logger, token store,
// session manager and gateway client. Commands build one in RunE and close
// it on the way out.
type App struct {
	Config   *config.Config
	Log      *zap.Logger
	Store    *store.TokenStore
	Sessions *session.Manager
	Gateway  *gateway.Client

	tracerProvider *sdktrace.TracerProvider
}

// newApp loads configuration and constructs the client stack. The session
// manager's constructor already ran the restore-and-self-heal transition by
// the time newApp returns.
func newApp(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Debug, cfg.LogJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	app := &App{Config: cfg, Log: log}

	if cfg.OTELEnabled && cfg.OTELEndpoint != "" {
		tp, err := telemetry.InitTracer(ctx, "coursedeck", cfg.OTELEndpoint, cfg.OTELSampleRatio)
		if err != nil {
			log.Warn("telemetry disabled", zap.Error(err))
		} else {
			app.tracerProvider = tp
		}
	}

	tokenStore, err := store.Open(cfg.TokenDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open token store: %w", err)
	}
	app.Store = tokenStore
	app.Sessions = session.NewManager(tokenStore, log)

	gw, err := gateway.NewClient(cfg.GatewayURL, app.Sessions, log,
		gateway.WithTimeout(time.Duration(cfg.RequestTimeout)*time.Second),
		gateway.WithRateLimit(cfg.RateLimit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway client: %w", err)
	}
	app.Gateway = gw

	return app, nil
}

// Close releases the token store and flushes logs and spans.
func (a *App) Close() {
	if a.tracerProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := telemetry.Shutdown(ctx, a.tracerProvider); err != nil {
			a.Log.Debug("telemetry shutdown", zap.Error(err))
		}
		cancel()
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close token store: %v\n", err)
		}
	}
	if err := logger.Sync(a.Log); err != nil {
		// Syncing stderr commonly fails on some platforms; nothing to do.
		_ = err
	}
}
