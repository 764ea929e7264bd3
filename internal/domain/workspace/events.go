package workspace

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// EventType identifies a state change pushed to subscribers
type EventType string

const (
	EventDesktop   EventType = "desktop_changed"
	EventWindows   EventType = "windows_changed"
	EventMail      EventType = "mail_changed"
	EventNotice    EventType = "notice"
	EventBusy      EventType = "busy"
	EventCycle     EventType = "cycle_complete"
	EventWallpaper EventType = "wallpaper_changed"
)

// Event is a state change notification
type Event struct {
	Type      EventType `json:"type"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp int64     `json:"timestamp"`
}

// Bus fans events out to subscribers. Publishing never blocks: a
// subscriber whose buffer is full misses the event.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]chan Event
	nextID int
	logger *zap.Logger
}

// NewBus creates an event bus
func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		subs:   make(map[int]chan Event),
		logger: logger,
	}
}

// Subscribe registers a subscriber with the given buffer size. The returned
// function unsubscribes and closes the channel.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	ch := make(chan Event, buffer)

	b.mu.Lock()
	subID := b.nextID
	b.nextID++
	b.subs[subID] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, subID)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Publish delivers an event to every subscriber
func (b *Bus) Publish(eventType EventType, payload any) {
	evt := Event{Type: eventType, Payload: payload, Timestamp: time.Now().Unix()}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for subID, ch := range b.subs {
		select {
		case ch <- evt:
		default:
			b.logger.Warn("Dropping event for slow subscriber",
				zap.Int("subscriber", subID),
				zap.String("type", string(eventType)))
		}
	}
}

// Subscribers returns the number of active subscribers
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
