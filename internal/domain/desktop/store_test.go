package desktop

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRename(t *testing.T) {
	store := NewStore(sampleForest())
	before := store.Snapshot()

	e, err := store.Rename("doc1", "Final.docx")
	require.NoError(t, err)
	assert.Equal(t, "Final.docx", e.Name)

	got, ok := store.Find("doc1")
	require.True(t, ok)
	assert.Equal(t, "Final.docx", got.Name)

	old, _ := Find(before, "doc1")
	assert.Equal(t, "Report.docx", old.Name, "earlier snapshot is unaffected")

	_, err = store.Rename("ghost", "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreInsertIntoFolder(t *testing.T) {
	store := NewStore(sampleForest())

	require.NoError(t, store.InsertIntoFolder("docs", app("doc2", "Budget.xlsx")))
	_, ok := store.Find("doc2")
	assert.True(t, ok)

	assert.ErrorIs(t, store.InsertIntoFolder("ghost", app("z", "z")), ErrNotFound)
	assert.ErrorIs(t, store.InsertIntoFolder("mail", app("z", "z")), ErrNotFolder)
	assert.ErrorIs(t, store.InsertIntoFolder("docs", app("doc1", "again")), ErrDuplicateID)
}

func TestStoreAppendTopLevel(t *testing.T) {
	store := NewStore(nil)
	require.NoError(t, store.AppendTopLevel(NewFolder("f1", "New Folder")))
	require.NoError(t, store.AppendTopLevel(app("a1", "App")))

	assert.Equal(t, []string{"New Folder", "App"}, TopLevelNames(store.Snapshot()))
	assert.ErrorIs(t, store.AppendTopLevel(app("a1", "Again")), ErrDuplicateID)
	assert.Equal(t, uint64(2), store.Version())
}

func TestStoreRemoveByNameCounts(t *testing.T) {
	store := NewStore(sampleForest())

	assert.Equal(t, 2, store.RemoveByName("report.docx"))
	assert.Equal(t, 0, store.RemoveByName("report.docx"))

	// Projects holds Q4 Plans and Assets; Assets is now empty
	assert.Equal(t, 3, store.RemoveByName("projects"))
}

func TestStoreRemoveByNameNoChangeKeepsVersion(t *testing.T) {
	store := NewStore(sampleForest())
	store.RemoveByName("nothing here")
	assert.Equal(t, uint64(0), store.Version())
}

func TestStoreSortTopLevel(t *testing.T) {
	store := NewStore(Forest{app("1", "b"), folder("2", "a"), app("3", "a")})
	store.SortTopLevel()

	forest := store.Snapshot()
	assert.Equal(t, "2", forest[0].ID)
	assert.Equal(t, "3", forest[1].ID)
	assert.Equal(t, "1", forest[2].ID)
}

func TestStoreConcurrentWriters(t *testing.T) {
	store := NewStore(Forest{NewFolder("root", "Root")})

	const writers = 16
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("child-%d", i)
			assert.NoError(t, store.InsertIntoFolder("root", app(id, id)))
			_ = store.Snapshot()
		}(i)
	}
	wg.Wait()

	root, ok := store.Find("root")
	require.True(t, ok)
	assert.Len(t, root.Contents, writers)
	assert.NoError(t, Validate(store.Snapshot()))
}
