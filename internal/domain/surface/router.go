// Package surface decides which surface the user is looking at and
// therefore which tools the model may call.
package surface

import (
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/tools"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/window"
	"github.com/GriffinCanCode/InkOS/backend/internal/inference"
)

// Focus is the routing decision for one dispatch cycle
type Focus struct {
	Surface tools.Surface
	Window  *window.Window
}

// Router derives the active surface from the focused window
type Router struct {
	windows  *window.Manager
	registry *tools.Registry
}

// NewRouter creates a router
func NewRouter(windows *window.Manager, registry *tools.Registry) *Router {
	return &Router{windows: windows, registry: registry}
}

// Active returns the mail surface when the focused window is the mail app
// and the desktop surface otherwise.
func (r *Router) Active() Focus {
	w, ok := r.windows.Active()
	if !ok {
		return Focus{Surface: tools.SurfaceDesktop}
	}
	if w.Kind == window.KindMail {
		return Focus{Surface: tools.SurfaceMail, Window: &w}
	}
	return Focus{Surface: tools.SurfaceDesktop, Window: &w}
}

// Schema returns the tool schema for a focus
func (r *Router) Schema(f Focus) inference.ToolSchema {
	return r.registry.For(f.Surface)
}

// Registry returns the underlying tool registry
func (r *Router) Registry() *tools.Registry {
	return r.registry
}
