package http

import (
	"net/http"

	"github.com/GriffinCanCode/InkOS/backend/internal/shared/utils"
	"github.com/gin-gonic/gin"
)

// LaunchRequest opens a window for an entity
type LaunchRequest struct {
	EntityID string `json:"entity_id" binding:"required"`
}

// ListWindows lists open windows
func (h *Handlers) ListWindows(c *gin.Context) {
	resp := gin.H{
		"windows": h.ws.Windows().List(),
		"stats":   h.ws.Windows().Stats(),
	}
	if active, ok := h.ws.Windows().Active(); ok {
		resp["active"] = active.ID
	}
	c.JSON(http.StatusOK, resp)
}

// LaunchWindow opens a new window bound to an entity
func (h *Handlers) LaunchWindow(c *gin.Context) {
	var req LaunchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := utils.ValidateID(req.EntityID, "entity_id", true); err != nil {
		badRequest(c, err)
		return
	}

	win, err := h.ws.Launch(req.EntityID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, win)
}

// FocusWindow brings a window to the front
func (h *Handlers) FocusWindow(c *gin.Context) {
	id := c.Param("id")
	if err := utils.ValidateID(id, "window_id", true); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.ws.FocusWindow(id); err != nil {
		h.respondError(c, err)
		return
	}
	win, _ := h.ws.Windows().Get(id)
	c.JSON(http.StatusOK, win)
}

// CloseWindow closes a window
func (h *Handlers) CloseWindow(c *gin.Context) {
	id := c.Param("id")
	if err := utils.ValidateID(id, "window_id", true); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.ws.CloseWindow(id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListMail returns the inbox
func (h *Handlers) ListMail(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"emails": h.ws.Mail().List()})
}
