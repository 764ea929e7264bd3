package http

import (
	"errors"
	"net/http"

	"github.com/GriffinCanCode/InkOS/backend/internal/domain/desktop"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/intent"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/snapshot"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/wallpaper"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/window"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/workspace"
	"github.com/GriffinCanCode/InkOS/backend/internal/inference"
	"github.com/GriffinCanCode/InkOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/InkOS/backend/internal/infrastructure/resilience"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Version is reported by the root endpoint
const Version = "0.3.0"

// Deps are the components the handlers read and mutate
type Deps struct {
	Workspace  *workspace.Workspace
	Dispatcher *intent.Dispatcher
	Frames     *snapshot.FrameCapturer // nil when frame capture is off
	Painter    *wallpaper.Painter
	Breaker    *resilience.Breaker
	Backend    string
	Metrics    *monitoring.Metrics
	Logger     *zap.Logger
}

// Handlers contains all HTTP handlers
type Handlers struct {
	ws         *workspace.Workspace
	dispatcher *intent.Dispatcher
	frames     *snapshot.FrameCapturer
	painter    *wallpaper.Painter
	breaker    *resilience.Breaker
	backend    string
	metrics    *monitoring.Metrics
	logger     *zap.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(deps Deps) *Handlers {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		ws:         deps.Workspace,
		dispatcher: deps.Dispatcher,
		frames:     deps.Frames,
		painter:    deps.Painter,
		breaker:    deps.Breaker,
		backend:    deps.Backend,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// Register mounts every route on r
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	d := r.Group("/desktop")
	d.GET("", h.GetDesktop)
	d.POST("/folders", h.CreateFolder)
	d.PATCH("/items/:id", h.RenameItem)
	d.POST("/sort", h.SortDesktop)
	d.GET("/wallpaper", h.GetWallpaper)
	d.POST("/wallpaper", h.PaintWallpaper)

	w := r.Group("/windows")
	w.GET("", h.ListWindows)
	w.POST("", h.LaunchWindow)
	w.POST("/:id/focus", h.FocusWindow)
	w.DELETE("/:id", h.CloseWindow)

	r.GET("/mail", h.ListMail)

	i := r.Group("/ink")
	i.POST("/strokes", h.PostStrokes)
	i.DELETE("/strokes", h.DiscardStrokes)
	i.POST("/frame", h.PostFrame)
	i.GET("/status", h.InkStatus)

	if h.metrics != nil {
		r.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}
}

// Root identifies the service
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "InkOS Shell (Go)",
		"version": Version,
	})
}

// Health reports component status
func (h *Handlers) Health(c *gin.Context) {
	forest := h.ws.Desktop().Snapshot()

	resp := gin.H{
		"status": "healthy",
		"desktop": gin.H{
			"version":  h.ws.Desktop().Version(),
			"entities": desktop.Count(forest),
		},
		"windows": h.ws.Windows().Stats(),
		"mail":    gin.H{"emails": h.ws.Mail().Len()},
		"ink":     h.dispatcher.Status(),
		"events":  gin.H{"subscribers": h.ws.Events().Subscribers()},
	}

	inf := gin.H{"backend": h.backend}
	if h.painter != nil {
		inf["images"] = h.painter.Enabled()
	}
	if h.breaker != nil {
		inf["breaker"] = h.breaker.State().String()
		if h.breaker.State() == resilience.StateOpen {
			resp["status"] = "degraded"
		}
	}
	resp["inference"] = inf

	if h.metrics != nil {
		resp["metrics"] = h.metrics.Snapshot()
	}

	c.JSON(http.StatusOK, resp)
}

// respondError maps domain errors to status codes
func (h *Handlers) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, desktop.ErrNotFound), errors.Is(err, workspace.ErrWindowNotFound):
		status = http.StatusNotFound
	case errors.Is(err, desktop.ErrNotFolder), errors.Is(err, window.ErrNotLaunchable):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, snapshot.ErrNotImage), errors.Is(err, wallpaper.ErrNotImage):
		status = http.StatusUnsupportedMediaType
	case errors.Is(err, inference.ErrRemote), errors.Is(err, resilience.ErrCircuitOpen):
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
