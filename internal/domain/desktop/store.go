package desktop

import (
	"fmt"
	"sync"
)

// Store holds the current desktop forest. Writers are serialized and each
// write publishes a fresh forest; readers get the forest current at the
// time of the call.
type Store struct {
	mu      sync.RWMutex
	forest  Forest
	version uint64
}

// NewStore creates a store seeded with initial
func NewStore(initial Forest) *Store {
	if initial == nil {
		initial = Forest{}
	}
	return &Store{forest: initial}
}

// Snapshot returns the current forest. It must be treated as read-only.
func (s *Store) Snapshot() Forest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.forest
}

// Version increments on every published change
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Find returns a copy of the entity with the given id
func (s *Store) Find(id string) (Entity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := Find(s.forest, id)
	if !ok {
		return Entity{}, false
	}
	return *e, true
}

// FindTopLevelByName returns a copy of the first top-level entity named name
func (s *Store) FindTopLevelByName(name string) (Entity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := FindTopLevelByName(s.forest, name)
	if !ok {
		return Entity{}, false
	}
	return *e, true
}

// Rename sets the name of the entity with the given id
func (s *Store) Rename(id, name string) (Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := updateByID(s.forest, id, func(e Entity) Entity {
		e.Name = name
		return e
	})
	if !ok {
		return Entity{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.publish(next)

	e, _ := Find(next, id)
	return *e, nil
}

// InsertIntoFolder appends entity to a folder's contents
func (s *Store) InsertIntoFolder(folderID string, entity *Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := Find(s.forest, entity.ID); dup {
		return fmt.Errorf("%w: %s", ErrDuplicateID, entity.ID)
	}

	target, ok := Find(s.forest, folderID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, folderID)
	}
	if !target.IsFolder() {
		return fmt.Errorf("%w: %s", ErrNotFolder, folderID)
	}

	next, _ := insertIntoFolder(s.forest, folderID, entity)
	s.publish(next)
	return nil
}

// AppendTopLevel adds entity at the end of the top level
func (s *Store) AppendTopLevel(entity *Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := Find(s.forest, entity.ID); dup {
		return fmt.Errorf("%w: %s", ErrDuplicateID, entity.ID)
	}

	next := make(Forest, len(s.forest), len(s.forest)+1)
	copy(next, s.forest)
	s.publish(append(next, entity))
	return nil
}

// RemoveByName removes every entity named name at any depth and returns
// how many entities left the forest, subtrees included.
func (s *Store) RemoveByName(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := removeByName(s.forest, name)
	if !ok {
		return 0
	}
	removed := Count(s.forest) - Count(next)
	s.publish(next)
	return removed
}

// SortTopLevel reorders the top level, folders first then by name
func (s *Store) SortTopLevel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.publish(SortTopLevel(s.forest))
}

func (s *Store) publish(next Forest) {
	s.forest = next
	s.version++
}
