package window

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/GriffinCanCode/InkOS/backend/internal/domain/desktop"
	"github.com/GriffinCanCode/InkOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/InkOS/backend/internal/shared/id"
)

// ErrNotLaunchable is returned for entities that have no surface to open
var ErrNotLaunchable = errors.New("entity is not launchable")

// Window kinds that the backend treats specially. Any other mini-app tag
// ("slides", "snake", "notepad", ...) is carried through unchanged.
const (
	KindFolder = "folder"
	KindMail   = "mail"
)

// BaseZOrder is the stacking counter's starting value
const BaseZOrder = 100

// Window is an open surface on the desktop
type Window struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	ZOrder    int       `json:"z_index"`
	EntityID  string    `json:"entity_id,omitempty"`
	Payload   string    `json:"content,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Manager owns the ordered window list, the active window and the stacking
// counter. Every mutation publishes a fresh list.
type Manager struct {
	mu       sync.RWMutex
	windows  []*Window // Protected by mu, launch order
	activeID string    // Protected by mu, empty when none
	counter  int       // Protected by mu
	metrics  *monitoring.Metrics
}

// NewManager creates an empty window manager
func NewManager() *Manager {
	return &Manager{counter: BaseZOrder}
}

// WithMetrics adds metrics tracking to the manager
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// Launch opens a new window for the entity and makes it active. Every call
// creates a new window, even for an entity that already has one open.
func (m *Manager) Launch(e desktop.Entity) (Window, error) {
	kind := e.AppID
	if e.IsFolder() {
		kind = KindFolder
	}
	if kind == "" {
		return Window{}, fmt.Errorf("%w: %s", ErrNotLaunchable, e.ID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.counter++
	w := &Window{
		ID:        id.NewWindowID(),
		Kind:      kind,
		Title:     e.Name,
		ZOrder:    m.counter,
		EntityID:  e.ID,
		Payload:   e.Payload,
		CreatedAt: time.Now(),
	}

	next := make([]*Window, len(m.windows), len(m.windows)+1)
	copy(next, m.windows)
	m.windows = append(next, w)
	m.activeID = w.ID
	m.record()

	return *w, nil
}

// Get retrieves a window by ID
func (m *Manager) Get(windowID string) (Window, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if w := m.find(windowID); w != nil {
		return *w, true
	}
	return Window{}, false
}

// List returns copies of all windows in launch order
func (m *Manager) List() []Window {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Window, len(m.windows))
	for i, w := range m.windows {
		out[i] = *w
	}
	return out
}

// Active returns the focused window, if any
func (m *Manager) Active() (Window, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.activeID == "" {
		return Window{}, false
	}
	if w := m.find(m.activeID); w != nil {
		return *w, true
	}
	return Window{}, false
}

// Focus raises a window above all others and makes it active
func (m *Manager) Focus(windowID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.index(windowID)
	if idx < 0 {
		return false
	}

	m.counter++
	raised := *m.windows[idx]
	raised.ZOrder = m.counter

	next := make([]*Window, len(m.windows))
	copy(next, m.windows)
	next[idx] = &raised
	m.windows = next
	m.activeID = windowID

	return true
}

// Close removes a window. Closing the active window leaves no window active.
func (m *Manager) Close(windowID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.index(windowID)
	if idx < 0 {
		return false
	}

	next := make([]*Window, 0, len(m.windows)-1)
	next = append(next, m.windows[:idx]...)
	m.windows = append(next, m.windows[idx+1:]...)

	if m.activeID == windowID {
		m.activeID = ""
	}
	m.record()

	return true
}

// Retitle sets the title of every window bound to entityID and returns how
// many windows changed.
func (m *Manager) Retitle(entityID, title string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	var next []*Window
	changed := 0
	for i, w := range m.windows {
		if w.EntityID != entityID || w.Title == title {
			continue
		}
		if next == nil {
			next = make([]*Window, len(m.windows))
			copy(next, m.windows)
		}
		renamed := *w
		renamed.Title = title
		next[i] = &renamed
		changed++
	}

	if next != nil {
		m.windows = next
	}
	return changed
}

// Stats returns window manager statistics
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Stats{
		Open:      len(m.windows),
		HasActive: m.activeID != "",
		TopZOrder: m.counter,
	}
}

// Stats summarizes the window list
type Stats struct {
	Open      int  `json:"open"`
	HasActive bool `json:"has_active"`
	TopZOrder int  `json:"top_z_index"`
}

func (m *Manager) find(windowID string) *Window {
	if idx := m.index(windowID); idx >= 0 {
		return m.windows[idx]
	}
	return nil
}

func (m *Manager) index(windowID string) int {
	for i, w := range m.windows {
		if w.ID == windowID {
			return i
		}
	}
	return -1
}

func (m *Manager) record() {
	if m.metrics != nil {
		m.metrics.SetWindowsOpen(len(m.windows))
	}
}
