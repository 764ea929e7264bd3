package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	apihttp "github.com/GriffinCanCode/InkOS/backend/internal/api/http"
	"github.com/GriffinCanCode/InkOS/backend/internal/api/middleware"
	"github.com/GriffinCanCode/InkOS/backend/internal/api/ws"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/intent"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/seed"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/snapshot"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/surface"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/tools"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/wallpaper"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/window"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/workspace"
	"github.com/GriffinCanCode/InkOS/backend/internal/inference"
	"github.com/GriffinCanCode/InkOS/backend/internal/inference/gateway"
	"github.com/GriffinCanCode/InkOS/backend/internal/inference/gemini"
	"github.com/GriffinCanCode/InkOS/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/InkOS/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/InkOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/InkOS/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/InkOS/backend/internal/infrastructure/tracing"
)

// StreamPath serves the WebSocket event stream
const StreamPath = "/stream"

// Server wraps the HTTP server and dependencies
type Server struct {
	router     *gin.Engine
	workspace  *workspace.Workspace
	dispatcher *intent.Dispatcher
	tracer     *tracing.Tracer
	logger     *logging.Logger
	config     *config.Config
	metrics    *monitoring.Metrics
}

// Option customizes server construction
type Option func(*options)

type options struct {
	model inference.Model
}

// WithModel replaces the configured inference backend
func WithModel(model inference.Model) Option {
	return func(o *options) { o.model = model }
}

// NewServer creates a new server instance
func NewServer(ctx context.Context, cfg *config.Config, logger *logging.Logger, opts ...Option) (*Server, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	logger.Info("Initializing InkOS server",
		zap.String("addr", cfg.Addr()),
		zap.String("backend", cfg.Inference.Backend),
		zap.String("capture", cfg.Capture.Mode),
	)

	metrics := monitoring.NewMetrics()
	tracer := tracing.New("backend", logger.Logger)

	// Desktop and inbox
	initial, err := seed.Load(cfg.Seed.File)
	if err != nil {
		return nil, fmt.Errorf("failed to load seed: %w", err)
	}
	wsLogger := logger.Component(logging.ComponentWorkspace)
	windows := window.NewManager().WithMetrics(metrics)
	space := workspace.New(initial.Desktop, initial.Emails, windows, wsLogger)

	router := surface.NewRouter(space.Windows(), tools.NewRegistry())

	// Screen capture
	frames, capturer := newCapturer(cfg.Capture)
	snaps := snapshot.New(space, router, capturer, logger.Component(logging.ComponentSnapshot)).
		WithMetrics(metrics).
		WithGeometry(cfg.Ink.Geometry)

	// Inference
	model := o.model
	if model == nil {
		model, err = newModel(ctx, cfg.Inference, logger.Component(logging.ComponentInference))
		if err != nil {
			return nil, err
		}
	}
	breaker := resilience.New("inference", resilience.Settings{
		Timeout: cfg.Inference.BreakerCooldown,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.Inference.BreakerFailures
		},
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			metrics.SetBreakerState(name, int(to))
		},
	})
	guard := inference.NewGuard(model, breaker, cfg.Inference.Timeout, logger.Component(logging.ComponentInference)).
		WithMetrics(metrics)

	dispatcher := intent.New(space, snaps, router, guard, intent.Config{
		Debounce:  cfg.Ink.Debounce,
		QueueSize: cfg.Ink.QueueSize,
	}, logger.Component(logging.ComponentDispatcher)).
		WithMetrics(metrics).
		WithTracer(tracer)

	var images inference.ImageGenerator
	if gen, ok := model.(inference.ImageGenerator); ok {
		images = gen
	}
	sketch := snapshot.NewRasterizer(cfg.Capture.RasterWidth, cfg.Capture.RasterHeight)
	painter := wallpaper.New(space, images, sketch, cfg.Inference.Timeout, logger.Component(logging.ComponentWallpaper))

	// HTTP
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(tracing.HTTPMiddleware(tracer))
	engine.Use(monitoring.Middleware(metrics))
	engine.Use(middleware.CORS(middleware.DefaultCORSConfig().WithOrigins(cfg.Server.CORSOrigins)))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		limit := middleware.DefaultRateLimitConfig()
		limit.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		limit.Burst = cfg.RateLimit.Burst
		engine.Use(middleware.RateLimit(limit))
	}

	handlers := apihttp.NewHandlers(apihttp.Deps{
		Workspace:  space,
		Dispatcher: dispatcher,
		Frames:     frames,
		Painter:    painter,
		Breaker:    breaker,
		Backend:    model.Name(),
		Metrics:    metrics,
		Logger:     logger.Component(logging.ComponentHTTP),
	})
	handlers.Register(engine)

	wsHandler := ws.NewHandler(space, dispatcher, frames, cfg.Server.CORSOrigins, logger.Component(logging.ComponentWS)).
		WithMetrics(metrics)
	engine.GET(StreamPath, wsHandler.HandleConnection)

	logger.Info("Server initialized successfully",
		zap.String("model", model.Name()),
		zap.String("capturer", capturer.Name()),
		zap.Bool("wallpaper", painter.Enabled()),
	)

	return &Server{
		router:     engine,
		workspace:  space,
		dispatcher: dispatcher,
		tracer:     tracer,
		logger:     logger,
		config:     cfg,
		metrics:    metrics,
	}, nil
}

// newCapturer builds the capturer for mode. frames is nil unless the mode
// accepts uploaded screenshots.
func newCapturer(cfg config.CaptureConfig) (*snapshot.FrameCapturer, snapshot.Capturer) {
	raster := snapshot.NewRasterizer(cfg.RasterWidth, cfg.RasterHeight)

	switch cfg.Mode {
	case config.CaptureFrame:
		frames := snapshot.NewFrameCapturer(cfg.FrameMaxAge)
		return frames, frames
	case config.CaptureRaster:
		return nil, raster
	case config.CaptureNone:
		return nil, snapshot.None{}
	default:
		frames := snapshot.NewFrameCapturer(cfg.FrameMaxAge)
		return frames, snapshot.Chain{frames, raster}
	}
}

func newModel(ctx context.Context, cfg config.InferenceConfig, logger *zap.Logger) (inference.Model, error) {
	switch cfg.Backend {
	case config.BackendGemini:
		client, err := gemini.New(ctx, gemini.Config{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			ImageModel: cfg.WallpaperModel,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		return client, nil
	case config.BackendGateway:
		client, err := gateway.New(gateway.Config{
			BaseURL: cfg.GatewayURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create gateway client: %w", err)
		}
		return client, nil
	case config.BackendScripted:
		return inference.NewScripted(), nil
	default:
		return nil, fmt.Errorf("unknown inference backend %q", cfg.Backend)
	}
}

// Handler returns the root handler. Responses are gzip-compressed except
// for the WebSocket stream, which must reach gin unwrapped to hijack.
func (s *Server) Handler() http.Handler {
	compressed := gzhttp.GzipHandler(s.router)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == StreamPath {
			s.router.ServeHTTP(w, r)
			return
		}
		compressed.ServeHTTP(w, r)
	})
}

// Workspace exposes the shell state
func (s *Server) Workspace() *workspace.Workspace {
	return s.workspace
}

// Dispatcher exposes the gesture dispatcher
func (s *Server) Dispatcher() *intent.Dispatcher {
	return s.dispatcher
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.config.Addr(),
		Handler: s.Handler(),
	}

	s.dispatcher.Start()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		s.Close()
		return err
	})

	return g.Wait()
}

// Close stops background work. It is safe to call more than once.
func (s *Server) Close() {
	s.dispatcher.Close()
	s.tracer.Close()
	_ = s.logger.Sync()
}
