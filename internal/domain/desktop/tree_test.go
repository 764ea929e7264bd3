package desktop

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func app(id, name string) *Entity {
	return &Entity{ID: id, Name: name, Kind: KindApp}
}

func folder(id, name string, contents ...*Entity) *Entity {
	return &Entity{ID: id, Name: name, Kind: KindFolder, Contents: Forest(contents)}
}

func sampleForest() Forest {
	return Forest{
		app("mail", "Mail"),
		app("notes", "notes.txt"),
		folder("docs", "Documents",
			app("doc1", "Report.docx"),
			app("img1", "Vacation.png"),
		),
		folder("projects", "Projects",
			folder("p1", "Q4 Plans"),
			folder("p2", "Assets",
				app("deep", "report.docx"),
			),
		),
	}
}

func TestFind(t *testing.T) {
	forest := sampleForest()

	e, ok := Find(forest, "deep")
	require.True(t, ok)
	assert.Equal(t, "report.docx", e.Name)

	e, ok = Find(forest, "docs")
	require.True(t, ok)
	assert.True(t, e.IsFolder())

	_, ok = Find(forest, "missing")
	assert.False(t, ok)
}

func TestUpdateByIDFindAfterUpdate(t *testing.T) {
	forest := sampleForest()
	rename := func(e Entity) Entity {
		e.Name = e.Name + " (1)"
		return e
	}

	for _, target := range []string{"mail", "doc1", "p2", "deep"} {
		t.Run(target, func(t *testing.T) {
			before, ok := Find(forest, target)
			require.True(t, ok)

			updated := UpdateByID(forest, target, rename)

			after, ok := Find(updated, target)
			require.True(t, ok)
			if diff := cmp.Diff(rename(*before), *after); diff != "" {
				t.Errorf("updated entity mismatch (-want +got):\n%s", diff)
			}

			// every other node keeps its value
			Walk(forest, func(e *Entity, _ int) bool {
				if e.ID == target {
					return true
				}
				other, ok := Find(updated, e.ID)
				require.True(t, ok, e.ID)
				assert.Equal(t, e.Name, other.Name)
				return true
			})
		})
	}
}

func TestUpdateByIDSharesUntouchedSubtrees(t *testing.T) {
	forest := sampleForest()

	updated := UpdateByID(forest, "doc1", func(e Entity) Entity {
		e.Name = "Final.docx"
		return e
	})

	assert.Same(t, forest[0], updated[0], "untouched top-level node is shared")
	assert.Same(t, forest[3], updated[3], "untouched folder is shared")
	assert.NotSame(t, forest[2], updated[2], "ancestor is copied")
	assert.Same(t, forest[2].Contents[1], updated[2].Contents[1])

	original, _ := Find(forest, "doc1")
	assert.Equal(t, "Report.docx", original.Name, "input forest is not modified")
}

func TestUpdateByIDMissingReturnsInput(t *testing.T) {
	forest := sampleForest()
	updated := UpdateByID(forest, "nope", func(e Entity) Entity {
		e.Name = "x"
		return e
	})
	if diff := cmp.Diff(forest, updated); diff != "" {
		t.Errorf("forest changed (-want +got):\n%s", diff)
	}
}

func TestInsertIntoFolder(t *testing.T) {
	forest := sampleForest()
	child := folder("new1", "New Folder")

	updated := InsertIntoFolder(forest, "p1", child)

	p1, ok := Find(updated, "p1")
	require.True(t, ok)
	require.Len(t, p1.Contents, 1)
	assert.Equal(t, "new1", p1.Contents[0].ID)

	old, _ := Find(forest, "p1")
	assert.Empty(t, old.Contents)
}

func TestInsertIntoFolderAppendsInOrder(t *testing.T) {
	forest := sampleForest()
	updated := InsertIntoFolder(forest, "docs", app("doc2", "Budget.xlsx"))

	docs, _ := Find(updated, "docs")
	assert.Equal(t, []string{"Report.docx", "Vacation.png", "Budget.xlsx"}, TopLevelNames(docs.Contents))
}

func TestInsertIntoFolderNoOp(t *testing.T) {
	forest := sampleForest()

	tests := []struct {
		name     string
		folderID string
	}{
		{"missing target", "ghost"},
		{"target is an app", "mail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated := InsertIntoFolder(forest, tt.folderID, app("x", "x"))
			if diff := cmp.Diff(forest, updated); diff != "" {
				t.Errorf("forest changed (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRemoveByNameCompleteness(t *testing.T) {
	forest := sampleForest()

	updated := RemoveByName(forest, "REPORT.DOCX")

	Walk(updated, func(e *Entity, _ int) bool {
		assert.False(t, strings.EqualFold(e.Name, "report.docx"), "found %s", e.ID)
		return true
	})
	_, ok := Find(updated, "doc1")
	assert.False(t, ok)
	_, ok = Find(updated, "deep")
	assert.False(t, ok)

	_, ok = Find(forest, "doc1")
	assert.True(t, ok, "input forest keeps the removed nodes")
}

func TestRemoveByNameNestedScenario(t *testing.T) {
	forest := Forest{
		folder("f", "Docs", app("a", "Report.docx")),
	}

	updated := RemoveByName(forest, "report.docx")

	want := Forest{folder("f", "Docs")}
	want[0].Contents = Forest{}
	if diff := cmp.Diff(want, updated); diff != "" {
		t.Errorf("unexpected forest (-want +got):\n%s", diff)
	}
}

func TestRemoveByNameRemovesSubtree(t *testing.T) {
	forest := sampleForest()

	updated := RemoveByName(forest, "projects")

	assert.Equal(t, Count(forest)-4, Count(updated))
	_, ok := Find(updated, "deep")
	assert.False(t, ok)
}

func TestRemoveByNameAllDuplicates(t *testing.T) {
	forest := Forest{app("a", "dup"), app("b", "Dup"), app("c", "keep")}

	updated := RemoveByName(forest, "dup")

	assert.Equal(t, []string{"keep"}, TopLevelNames(updated))
}

func TestRemoveByNameIsIdempotent(t *testing.T) {
	for _, name := range []string{"report.docx", "Projects", "nothing"} {
		once := RemoveByName(sampleForest(), name)
		twice := RemoveByName(once, name)
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Errorf("second removal of %q changed the forest (-once +twice):\n%s", name, diff)
		}
	}
}

func TestRemoveByNameNoMatchSharesInput(t *testing.T) {
	forest := sampleForest()
	updated := RemoveByName(forest, "nothing")
	require.Len(t, updated, len(forest))
	for i := range forest {
		assert.Same(t, forest[i], updated[i])
	}
}

func TestSortTopLevelScenario(t *testing.T) {
	forest := Forest{app("1", "b"), folder("2", "a"), app("3", "a")}

	sorted := SortTopLevel(forest)

	assert.Equal(t, []string{"2", "3", "1"}, []string{sorted[0].ID, sorted[1].ID, sorted[2].ID})
	assert.Equal(t, "1", forest[0].ID, "input order unchanged")
}

func TestSortTopLevelCollation(t *testing.T) {
	forest := Forest{app("1", "cherry"), app("2", "Banana"), app("3", "apple"), app("4", "Éclair")}

	sorted := SortTopLevel(forest)

	assert.Equal(t, []string{"apple", "Banana", "cherry", "Éclair"}, TopLevelNames(sorted))
}

func TestSortTopLevelLeavesNestedOrder(t *testing.T) {
	forest := sampleForest()
	sorted := SortTopLevel(forest)

	docs, _ := Find(sorted, "docs")
	assert.Equal(t, []string{"Report.docx", "Vacation.png"}, TopLevelNames(docs.Contents))
	assert.True(t, sorted[0].IsFolder())
	assert.True(t, sorted[1].IsFolder())
}

func TestFindTopLevelByName(t *testing.T) {
	forest := sampleForest()

	e, ok := FindTopLevelByName(forest, "documents")
	require.True(t, ok)
	assert.Equal(t, "docs", e.ID)

	_, ok = FindTopLevelByName(forest, "Q4 Plans")
	assert.False(t, ok, "nested names are not top-level")
}

func TestWalkStops(t *testing.T) {
	visited := 0
	Walk(sampleForest(), func(e *Entity, _ int) bool {
		visited++
		return e.ID != "notes"
	})
	assert.Equal(t, 2, visited)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(sampleForest()))

	dup := Forest{app("x", "a"), folder("f", "F", app("x", "b"))}
	assert.ErrorIs(t, Validate(dup), ErrDuplicateID)

	bad := Forest{{ID: "k", Name: "k", Kind: "widget"}}
	assert.ErrorIs(t, Validate(bad), ErrInvalidKind)

	appWithContents := Forest{{ID: "a", Name: "a", Kind: KindApp, Contents: Forest{app("b", "b")}}}
	assert.ErrorIs(t, Validate(appWithContents), ErrInvalidKind)
}
