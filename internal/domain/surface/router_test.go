package surface

import (
	"testing"

	"github.com/GriffinCanCode/InkOS/backend/internal/domain/desktop"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/tools"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouterSurfaceSelection(t *testing.T) {
	windows := window.NewManager()
	router := NewRouter(windows, tools.NewRegistry())

	focus := router.Active()
	assert.Equal(t, tools.SurfaceDesktop, focus.Surface)
	assert.Nil(t, focus.Window)
	assert.True(t, router.Schema(focus).Has(tools.DeleteItem))

	mailWin, err := windows.Launch(desktop.Entity{ID: "mail", Name: "Mail", Kind: desktop.KindApp, AppID: "mail"})
	require.NoError(t, err)

	focus = router.Active()
	assert.Equal(t, tools.SurfaceMail, focus.Surface)
	require.NotNil(t, focus.Window)
	assert.Equal(t, mailWin.ID, focus.Window.ID)
	assert.True(t, router.Schema(focus).Has(tools.DeleteEmail))
	assert.False(t, router.Schema(focus).Has(tools.DeleteItem))

	_, err = windows.Launch(desktop.Entity{ID: "slides", Name: "Slides", Kind: desktop.KindApp, AppID: "slides"})
	require.NoError(t, err)

	focus = router.Active()
	assert.Equal(t, tools.SurfaceDesktop, focus.Surface, "non-mail windows use the desktop tools")
	assert.Equal(t, "Slides", focus.Window.Title)

	require.True(t, windows.Focus(mailWin.ID))
	assert.Equal(t, tools.SurfaceMail, router.Active().Surface)
}
