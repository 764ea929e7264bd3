// Package desktop holds the desktop entity forest.
//
// The forest is an ordered list of top-level entities. An entity is either
// an app (a launchable item with an optional mini-app tag and payload) or a
// folder with ordered contents. Names are display labels and are matched
// case-insensitively; IDs are unique across all depths and never reused.
//
// Published forests are read-only. Every operation returns a new forest
// that shares unchanged subtrees with its input, so a reader holding an old
// snapshot never observes a partial update.
//
// Example Usage:
//
//	store := desktop.NewStore(seed)
//	removed := store.RemoveByName("notes.txt")
//	store.SortTopLevel()
//	forest := store.Snapshot()
package desktop
