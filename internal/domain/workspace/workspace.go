// Package workspace is the explicit state object of the shell: it owns the
// desktop forest, the window list and the inbox, and publishes an event for
// every change. HTTP handlers, the WebSocket stream and the intent
// dispatcher all mutate state through it.
package workspace

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/GriffinCanCode/InkOS/backend/internal/domain/desktop"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/mail"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/window"
	"github.com/GriffinCanCode/InkOS/backend/internal/shared/id"
	"go.uber.org/zap"
)

// ErrWindowNotFound is returned for unknown window ids
var ErrWindowNotFound = errors.New("window not found")

// DefaultFolderName names folders created from the desktop or a folder view
const DefaultFolderName = "New Folder"

// WallpaperTip is shown when the wallpaper gesture cannot produce an image
const WallpaperTip = "Tip: Draw a sketch on the empty background (e.g., mountains, flowers) to generate a custom AI wallpaper!"

// Notice kinds
const (
	NoticeSummary = "summary"
	NoticeTip     = "tip"
	NoticeError   = "error"
)

// Notice is a user-visible message
type Notice struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Wallpaper is a generated background image
type Wallpaper struct {
	Data      []byte    `json:"-"`
	MIMEType  string    `json:"mime_type"`
	Prompt    string    `json:"prompt,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// State is a full read of the workspace
type State struct {
	Desktop      desktop.Forest  `json:"desktop"`
	Windows      []window.Window `json:"windows"`
	ActiveWindow string          `json:"active_window,omitempty"`
	Emails       []mail.Email    `json:"emails"`
	Wallpaper    *Wallpaper      `json:"wallpaper,omitempty"`
}

// Workspace owns all mutable shell state
type Workspace struct {
	desktop *desktop.Store
	windows *window.Manager
	mail    *mail.Store
	bus     *Bus
	logger  *zap.Logger

	wpMu      sync.RWMutex
	wallpaper *Wallpaper
}

// New creates a workspace from seed data
func New(forest desktop.Forest, emails []mail.Email, windows *window.Manager, logger *zap.Logger) *Workspace {
	if logger == nil {
		logger = zap.NewNop()
	}
	if windows == nil {
		windows = window.NewManager()
	}
	return &Workspace{
		desktop: desktop.NewStore(forest),
		windows: windows,
		mail:    mail.NewStore(emails),
		bus:     NewBus(logger),
		logger:  logger,
	}
}

// Desktop returns the entity tree store
func (w *Workspace) Desktop() *desktop.Store { return w.desktop }

// Windows returns the window manager
func (w *Workspace) Windows() *window.Manager { return w.windows }

// Mail returns the inbox
func (w *Workspace) Mail() *mail.Store { return w.mail }

// Events returns the event bus
func (w *Workspace) Events() *Bus { return w.bus }

// State returns a consistent-enough read of everything the front end renders
func (w *Workspace) State() State {
	s := State{
		Desktop: w.desktop.Snapshot(),
		Windows: w.windows.List(),
		Emails:  w.mail.List(),
	}
	if active, ok := w.windows.Active(); ok {
		s.ActiveWindow = active.ID
	}
	if wp, ok := w.Wallpaper(); ok {
		s.Wallpaper = &wp
	}
	return s
}

// ============================================================================
// Windows
// ============================================================================

// Launch opens a window for the entity with the given id
func (w *Workspace) Launch(entityID string) (window.Window, error) {
	e, ok := w.desktop.Find(entityID)
	if !ok {
		return window.Window{}, fmt.Errorf("%w: %s", desktop.ErrNotFound, entityID)
	}
	return w.LaunchEntity(e)
}

// LaunchEntity opens a window bound to e
func (w *Workspace) LaunchEntity(e desktop.Entity) (window.Window, error) {
	win, err := w.windows.Launch(e)
	if err != nil {
		return window.Window{}, err
	}

	w.logger.Debug("Window launched",
		zap.String("window_id", win.ID),
		zap.String("entity_id", e.ID),
		zap.String("kind", win.Kind))
	w.bus.Publish(EventWindows, w.windows.List())
	return win, nil
}

// CloseWindow closes a window
func (w *Workspace) CloseWindow(windowID string) error {
	if !w.windows.Close(windowID) {
		return fmt.Errorf("%w: %s", ErrWindowNotFound, windowID)
	}
	w.bus.Publish(EventWindows, w.windows.List())
	return nil
}

// FocusWindow raises a window and makes it active
func (w *Workspace) FocusWindow(windowID string) error {
	if !w.windows.Focus(windowID) {
		return fmt.Errorf("%w: %s", ErrWindowNotFound, windowID)
	}
	w.bus.Publish(EventWindows, w.windows.List())
	return nil
}

// ============================================================================
// Desktop
// ============================================================================

// Rename renames an entity and every window bound to it
func (w *Workspace) Rename(entityID, name string) (desktop.Entity, error) {
	e, err := w.desktop.Rename(entityID, name)
	if err != nil {
		return desktop.Entity{}, err
	}

	w.bus.Publish(EventDesktop, w.desktop.Snapshot())
	if w.windows.Retitle(entityID, name) > 0 {
		w.bus.Publish(EventWindows, w.windows.List())
	}
	return e, nil
}

// CreateFolder adds an empty folder at the top level, or inside parentID
// when it is set.
func (w *Workspace) CreateFolder(parentID string) (desktop.Entity, error) {
	folder := desktop.NewFolder(id.NewFolderID(), DefaultFolderName)

	var err error
	if parentID == "" {
		err = w.desktop.AppendTopLevel(folder)
	} else {
		err = w.desktop.InsertIntoFolder(parentID, folder)
	}
	if err != nil {
		return desktop.Entity{}, err
	}

	w.bus.Publish(EventDesktop, w.desktop.Snapshot())
	return *folder, nil
}

// SortDesktop orders the top level, folders first then by name
func (w *Workspace) SortDesktop() {
	w.desktop.SortTopLevel()
	w.bus.Publish(EventDesktop, w.desktop.Snapshot())
}

// DeleteItemsNamed removes every entity named name at any depth.
// Windows bound to removed entities stay open.
func (w *Workspace) DeleteItemsNamed(name string) int {
	removed := w.desktop.RemoveByName(name)
	if removed > 0 {
		w.bus.Publish(EventDesktop, w.desktop.Snapshot())
	}
	return removed
}

// ExplodeFolder opens a window for the top-level folder named name
func (w *Workspace) ExplodeFolder(name string) (window.Window, error) {
	e, ok := w.desktop.FindTopLevelByName(name)
	if !ok {
		return window.Window{}, fmt.Errorf("%w: %q", desktop.ErrNotFound, name)
	}
	if !e.IsFolder() {
		return window.Window{}, fmt.Errorf("%w: %q", desktop.ErrNotFolder, name)
	}
	return w.LaunchEntity(e)
}

// ============================================================================
// Mail
// ============================================================================

// DeleteEmailsMatching removes every email whose subject contains text
func (w *Workspace) DeleteEmailsMatching(text string) int {
	removed := w.mail.DeleteBySubject(text)
	if removed > 0 {
		w.bus.Publish(EventMail, w.mail.List())
	}
	return removed
}

// SummarizeEmail posts the summary notice for subjectText
func (w *Workspace) SummarizeEmail(subjectText string) Notice {
	return w.Notify(NoticeSummary, "Summarizing email: "+subjectText)
}

// ============================================================================
// Notices, busy flag, wallpaper
// ============================================================================

// Notify publishes a user-visible notice
func (w *Workspace) Notify(kind, message string) Notice {
	n := Notice{
		ID:        id.NewNoticeID(),
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now(),
	}
	w.bus.Publish(EventNotice, n)
	return n
}

// SetBusy publishes the dispatcher's busy indicator
func (w *Workspace) SetBusy(busy bool) {
	w.bus.Publish(EventBusy, map[string]bool{"busy": busy})
}

// SetWallpaper replaces the wallpaper
func (w *Workspace) SetWallpaper(data []byte, mimeType, prompt string) Wallpaper {
	wp := &Wallpaper{
		Data:      data,
		MIMEType:  mimeType,
		Prompt:    prompt,
		UpdatedAt: time.Now(),
	}

	w.wpMu.Lock()
	w.wallpaper = wp
	w.wpMu.Unlock()

	w.bus.Publish(EventWallpaper, wp)
	return *wp
}

// Wallpaper returns the current wallpaper, if one was generated
func (w *Workspace) Wallpaper() (Wallpaper, bool) {
	w.wpMu.RLock()
	defer w.wpMu.RUnlock()

	if w.wallpaper == nil {
		return Wallpaper{}, false
	}
	return *w.wallpaper, true
}
