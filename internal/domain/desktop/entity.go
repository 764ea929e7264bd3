package desktop

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("entity not found")
	ErrNotFolder   = errors.New("entity is not a folder")
	ErrDuplicateID = errors.New("duplicate entity id")
	ErrInvalidKind = errors.New("invalid entity kind")
)

// Kind distinguishes apps from folders
type Kind string

const (
	KindApp    Kind = "app"
	KindFolder Kind = "folder"
)

// Entity is a node of the desktop forest.
// Contents is only meaningful for folders. AppID names the mini-app surface
// an app opens ("mail", "notepad", ...); an app without one is not launchable.
type Entity struct {
	ID       string `json:"id" yaml:"id" toml:"id"`
	Name     string `json:"name" yaml:"name" toml:"name"`
	Kind     Kind   `json:"type" yaml:"type" toml:"type"`
	AppID    string `json:"app_id,omitempty" yaml:"app_id,omitempty" toml:"app_id,omitempty"`
	Payload  string `json:"content,omitempty" yaml:"content,omitempty" toml:"content,omitempty"`
	Color    string `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty"`
	Contents Forest `json:"contents,omitempty" yaml:"contents,omitempty" toml:"contents,omitempty"`
}

// Forest is an ordered list of top-level entities
type Forest []*Entity

// IsFolder reports whether the entity is a folder
func (e *Entity) IsFolder() bool {
	return e.Kind == KindFolder
}

// Launchable reports whether opening the entity produces a window
func (e *Entity) Launchable() bool {
	return e.Kind == KindFolder || e.AppID != ""
}

// NewFolder builds an empty folder
func NewFolder(id, name string) *Entity {
	return &Entity{ID: id, Name: name, Kind: KindFolder, Contents: Forest{}}
}

// Validate checks the structural invariants of a forest: known kinds,
// no contents on apps, and IDs unique across all depths.
func Validate(forest Forest) error {
	seen := make(map[string]struct{})
	var err error
	Walk(forest, func(e *Entity, _ int) bool {
		switch {
		case e.ID == "":
			err = fmt.Errorf("entity %q has no id", e.Name)
		case e.Kind != KindApp && e.Kind != KindFolder:
			err = fmt.Errorf("%w: %q on %s", ErrInvalidKind, e.Kind, e.ID)
		case e.Kind == KindApp && len(e.Contents) > 0:
			err = fmt.Errorf("%w: app %s has contents", ErrInvalidKind, e.ID)
		}
		if err != nil {
			return false
		}
		if _, dup := seen[e.ID]; dup {
			err = fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
			return false
		}
		seen[e.ID] = struct{}{}
		return true
	})
	return err
}
