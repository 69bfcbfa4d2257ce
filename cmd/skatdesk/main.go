package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	natsgo "github.com/nats-io/nats.go"
	"github.com/skatdesk/skatdesk/internal/config"
	"github.com/skatdesk/skatdesk/internal/engine"
	"github.com/skatdesk/skatdesk/internal/engine/natsengine"
	"github.com/skatdesk/skatdesk/internal/engine/sim"
	"github.com/skatdesk/skatdesk/internal/metrics"
	"github.com/skatdesk/skatdesk/internal/render"
	"github.com/skatdesk/skatdesk/internal/sched"
	"github.com/skatdesk/skatdesk/internal/table"
	"github.com/skatdesk/skatdesk/internal/tui"
	"github.com/skatdesk/skatdesk/internal/web"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// The terminal UI owns stdout and stderr, so logs go to a file there.
	logFile := ""
	if cfg.UI.Mode == config.ModeTerminal && !cfg.Engine.Serve {
		logFile = cfg.Logging.File
	}
	logger, err := initLogger(cfg.Logging, logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting skatdesk",
		zap.String("version", version),
		zap.String("config", *configPath),
		zap.String("transport", cfg.Engine.Transport),
		zap.String("ui", cfg.UI.Mode),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Enabled && cfg.UI.Mode != config.ModeWeb {
		go startMetricsServer(ctx, cfg.Metrics, logger)
	}

	if cfg.Engine.Serve {
		if err := serveEngine(ctx, cfg, logger); err != nil {
			logger.Fatal("engine responder failed", zap.Error(err))
		}
		return
	}

	eng, closeEngine, err := openEngine(cfg, logger)
	if err != nil {
		logger.Fatal("failed to open engine", zap.Error(err))
	}
	defer closeEngine()

	loop := sched.NewLoop(logger.Named("sched"))
	go loop.Run(ctx)

	board := render.NewBoard()
	var sink render.Sink = board
	var hub *web.Hub
	if cfg.UI.Mode == config.ModeWeb {
		hub = web.NewHub(board, nil, logger.Named("web"))
		sink = render.Multi(board, hub.Sink())
	}

	gw := engine.NewGateway(eng, logger.Named("engine"))
	ctl := table.New(gw, sink, loop, logger.Named("table"), cfg.TableOptions())
	loop.Post(func() {
		if err := ctl.NewGame(); err != nil {
			logger.Error("failed to start game", zap.Error(err))
		}
	})

	switch cfg.UI.Mode {
	case config.ModeTerminal:
		if err := tui.Run(ctx, board, ctl); err != nil {
			logger.Error("terminal UI error", zap.Error(err))
		}
	case config.ModeWeb:
		hub.SetDispatcher(ctl)
		go hub.Run(ctx)
		if err := hub.ListenAndServe(ctx, cfg.Web.Address); err != nil {
			logger.Error("web server error", zap.Error(err))
		}
	}

	stop()
	logger.Info("skatdesk stopped")
}

// openEngine connects the configured engine transport.
func openEngine(cfg *config.Config, logger *zap.Logger) (engine.Engine, func(), error) {
	switch cfg.Engine.Transport {
	case config.TransportNATS:
		client, closeFn, err := natsengine.Dial(cfg.Engine.NatsURL, cfg.Engine.SubjectPrefix, cfg.Engine.RequestTimeout, logger.Named("nats"))
		if err != nil {
			return nil, nil, err
		}
		logger.Info("connected to engine", zap.String("url", cfg.Engine.NatsURL), zap.String("prefix", cfg.Engine.SubjectPrefix))
		return client, closeFn, nil
	default:
		return newLocalEngine(cfg, logger), func() {}, nil
	}
}

func newLocalEngine(cfg *config.Config, logger *zap.Logger) *sim.Engine {
	var opts []sim.Option
	if cfg.Engine.Seed != 0 {
		opts = append(opts, sim.WithSeed(cfg.Engine.Seed))
	}
	return sim.New(logger.Named("sim"), opts...)
}

// serveEngine answers engine requests on NATS with the local engine until
// ctx ends.
func serveEngine(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	nc, err := natsgo.Connect(cfg.Engine.NatsURL, natsgo.Name("skatdesk-engine"))
	if err != nil {
		return fmt.Errorf("failed to connect to nats: %w", err)
	}
	defer nc.Drain()

	responder := natsengine.NewResponder(newLocalEngine(cfg, logger), cfg.Engine.SubjectPrefix, cfg.Engine.RequestTimeout, logger.Named("responder"))
	if _, err := responder.Serve(nc); err != nil {
		return err
	}
	logger.Info("serving engine", zap.String("url", cfg.Engine.NatsURL), zap.String("prefix", cfg.Engine.SubjectPrefix))

	<-ctx.Done()
	logger.Info("received shutdown signal")
	return nil
}

func startMetricsServer(ctx context.Context, cfg config.MetricsConfig, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: cfg.Address, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	logger.Info("starting metrics server", zap.String("address", cfg.Address))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server error", zap.Error(err))
	}
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig, file string) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	if file != "" {
		zapCfg.OutputPaths = []string{file}
		zapCfg.ErrorOutputPaths = []string{file}
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	return zapCfg.Build()
}
