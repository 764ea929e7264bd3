package desktop

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Find returns the first entity with the given id in depth-first order
func Find(forest Forest, id string) (*Entity, bool) {
	for _, e := range forest {
		if e.ID == id {
			return e, true
		}
		if e.IsFolder() {
			if found, ok := Find(e.Contents, id); ok {
				return found, true
			}
		}
	}
	return nil, false
}

// FindTopLevelByName returns the first top-level entity whose name matches
// case-insensitively. Nested entities are not considered.
func FindTopLevelByName(forest Forest, name string) (*Entity, bool) {
	for _, e := range forest {
		if strings.EqualFold(e.Name, name) {
			return e, true
		}
	}
	return nil, false
}

// UpdateByID replaces the entity with the given id by transform(copy).
// Ancestors are copied; every other node is shared with the input.
// transform receives a value copy and must not modify its Contents in place.
func UpdateByID(forest Forest, id string, transform func(Entity) Entity) Forest {
	out, _ := updateByID(forest, id, transform)
	return out
}

func updateByID(forest Forest, id string, transform func(Entity) Entity) (Forest, bool) {
	for i, e := range forest {
		if e.ID == id {
			updated := transform(*e)
			next := clone(forest)
			next[i] = &updated
			return next, true
		}
		if e.IsFolder() && len(e.Contents) > 0 {
			if contents, ok := updateByID(e.Contents, id, transform); ok {
				folder := *e
				folder.Contents = contents
				next := clone(forest)
				next[i] = &folder
				return next, true
			}
		}
	}
	return forest, false
}

// InsertIntoFolder appends entity to the contents of folderID. The forest
// is returned unchanged when folderID is missing or is not a folder.
func InsertIntoFolder(forest Forest, folderID string, entity *Entity) Forest {
	out, _ := insertIntoFolder(forest, folderID, entity)
	return out
}

func insertIntoFolder(forest Forest, folderID string, entity *Entity) (Forest, bool) {
	target, ok := Find(forest, folderID)
	if !ok || !target.IsFolder() {
		return forest, false
	}
	return updateByID(forest, folderID, func(e Entity) Entity {
		contents := make(Forest, len(e.Contents), len(e.Contents)+1)
		copy(contents, e.Contents)
		e.Contents = append(contents, entity)
		return e
	})
}

// RemoveByName drops every entity whose name matches case-insensitively,
// at every depth. A removed folder takes its whole subtree with it.
func RemoveByName(forest Forest, name string) Forest {
	out, _ := removeByName(forest, name)
	return out
}

func removeByName(forest Forest, name string) (Forest, bool) {
	var out Forest
	changed := false

	for i, e := range forest {
		if strings.EqualFold(e.Name, name) {
			if !changed {
				out = make(Forest, i, len(forest))
				copy(out, forest[:i])
				changed = true
			}
			continue
		}

		node := e
		if e.IsFolder() && len(e.Contents) > 0 {
			if contents, ok := removeByName(e.Contents, name); ok {
				folder := *e
				folder.Contents = contents
				node = &folder
				if !changed {
					out = make(Forest, i, len(forest))
					copy(out, forest[:i])
					changed = true
				}
			}
		}

		if changed {
			out = append(out, node)
		}
	}

	if !changed {
		return forest, false
	}
	return out, true
}

// SortTopLevel orders the top level with folders first, then by name using
// English collation. Folder contents keep their order.
func SortTopLevel(forest Forest) Forest {
	sorted := clone(forest)
	c := collate.New(language.English)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.IsFolder() != b.IsFolder() {
			return a.IsFolder()
		}
		return c.CompareString(a.Name, b.Name) < 0
	})
	return sorted
}

// Walk visits entities depth-first. Returning false from fn stops the walk.
func Walk(forest Forest, fn func(e *Entity, depth int) bool) {
	walk(forest, 0, fn)
}

func walk(forest Forest, depth int, fn func(*Entity, int) bool) bool {
	for _, e := range forest {
		if !fn(e, depth) {
			return false
		}
		if e.IsFolder() && !walk(e.Contents, depth+1, fn) {
			return false
		}
	}
	return true
}

// Count returns the number of entities at all depths
func Count(forest Forest) int {
	n := 0
	Walk(forest, func(*Entity, int) bool {
		n++
		return true
	})
	return n
}

// TopLevelNames lists the names of top-level entities in display order
func TopLevelNames(forest Forest) []string {
	names := make([]string, len(forest))
	for i, e := range forest {
		names[i] = e.Name
	}
	return names
}

func clone(forest Forest) Forest {
	out := make(Forest, len(forest))
	copy(out, forest)
	return out
}
