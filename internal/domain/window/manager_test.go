package window

import (
	"strings"
	"sync"
	"testing"

	"github.com/GriffinCanCode/InkOS/backend/internal/domain/desktop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	mailApp = desktop.Entity{ID: "mail", Name: "Mail", Kind: desktop.KindApp, AppID: "mail"}
	notes   = desktop.Entity{ID: "notes", Name: "notes.txt", Kind: desktop.KindApp, AppID: "notepad", Payload: "- Buy milk"}
	docs    = desktop.Entity{ID: "docs", Name: "Documents", Kind: desktop.KindFolder}
	report  = desktop.Entity{ID: "doc1", Name: "Report.docx", Kind: desktop.KindApp}
)

func TestLaunch(t *testing.T) {
	m := NewManager()

	w, err := m.Launch(mailApp)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(w.ID, "win_"))
	assert.Equal(t, KindMail, w.Kind)
	assert.Equal(t, "Mail", w.Title)
	assert.Equal(t, "mail", w.EntityID)
	assert.Equal(t, BaseZOrder+1, w.ZOrder)

	active, ok := m.Active()
	require.True(t, ok)
	assert.Equal(t, w.ID, active.ID)
}

func TestLaunchFolderAndPayload(t *testing.T) {
	m := NewManager()

	fw, err := m.Launch(docs)
	require.NoError(t, err)
	assert.Equal(t, KindFolder, fw.Kind)

	nw, err := m.Launch(notes)
	require.NoError(t, err)
	assert.Equal(t, "notepad", nw.Kind)
	assert.Equal(t, "- Buy milk", nw.Payload)
}

func TestLaunchNotLaunchable(t *testing.T) {
	m := NewManager()

	_, err := m.Launch(report)
	assert.ErrorIs(t, err, ErrNotLaunchable)
	assert.Empty(t, m.List())
}

func TestLaunchAlwaysCreatesNewWindow(t *testing.T) {
	m := NewManager()

	a, _ := m.Launch(docs)
	b, _ := m.Launch(docs)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, m.List(), 2)
}

func TestZOrderStrictlyIncreasing(t *testing.T) {
	m := NewManager()

	a, _ := m.Launch(mailApp)
	b, _ := m.Launch(docs)
	require.True(t, m.Focus(a.ID))

	focused, _ := m.Get(a.ID)
	assert.Greater(t, focused.ZOrder, b.ZOrder)

	seen := map[int]bool{}
	for _, w := range m.List() {
		assert.False(t, seen[w.ZOrder], "z-order %d reused", w.ZOrder)
		seen[w.ZOrder] = true
	}
}

func TestFocusUnknown(t *testing.T) {
	m := NewManager()
	assert.False(t, m.Focus("win_missing"))
}

func TestCloseActiveClearsFocus(t *testing.T) {
	m := NewManager()

	a, _ := m.Launch(mailApp)
	b, _ := m.Launch(docs)

	require.True(t, m.Close(b.ID))
	_, ok := m.Active()
	assert.False(t, ok, "closing the active window leaves nothing active")

	require.True(t, m.Focus(a.ID))
	require.True(t, m.Close(a.ID))
	assert.Empty(t, m.List())
	assert.False(t, m.Close(a.ID))
}

func TestCloseInactiveKeepsFocus(t *testing.T) {
	m := NewManager()

	a, _ := m.Launch(mailApp)
	b, _ := m.Launch(docs)

	require.True(t, m.Close(a.ID))
	active, ok := m.Active()
	require.True(t, ok)
	assert.Equal(t, b.ID, active.ID)
}

func TestRetitle(t *testing.T) {
	m := NewManager()

	m.Launch(docs)
	m.Launch(docs)
	m.Launch(mailApp)

	assert.Equal(t, 2, m.Retitle("docs", "Papers"))
	assert.Equal(t, 0, m.Retitle("docs", "Papers"))

	for _, w := range m.List() {
		if w.EntityID == "docs" {
			assert.Equal(t, "Papers", w.Title)
		} else {
			assert.Equal(t, "Mail", w.Title)
		}
	}
}

func TestListReturnsCopies(t *testing.T) {
	m := NewManager()
	m.Launch(mailApp)

	list := m.List()
	list[0].Title = "changed"

	w, _ := m.Get(list[0].ID)
	assert.Equal(t, "Mail", w.Title)
}

func TestConcurrentLaunchUniqueZOrder(t *testing.T) {
	m := NewManager()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w, err := m.Launch(docs)
			if assert.NoError(t, err) {
				m.Focus(w.ID)
			}
		}()
	}
	wg.Wait()

	seen := map[int]bool{}
	for _, w := range m.List() {
		assert.False(t, seen[w.ZOrder])
		seen[w.ZOrder] = true
	}
	assert.Equal(t, BaseZOrder+100, m.Stats().TopZOrder)
}
