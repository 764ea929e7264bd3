package http

import (
	"net/http"
	"strconv"

	"github.com/GriffinCanCode/InkOS/backend/internal/domain/ink"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/workspace"
	"github.com/GriffinCanCode/InkOS/backend/internal/shared/utils"
	"github.com/gin-gonic/gin"
)

// CreateFolderRequest creates a folder at the top level or inside ParentID
type CreateFolderRequest struct {
	ParentID string `json:"parent_id"`
}

// RenameRequest renames a desktop entity
type RenameRequest struct {
	Name string `json:"name" binding:"required"`
}

// WallpaperRequest asks for a generated wallpaper
type WallpaperRequest struct {
	Prompt  string       `json:"prompt"`
	Strokes []ink.Stroke `json:"strokes"`
}

// GetDesktop returns the entity forest
func (h *Handlers) GetDesktop(c *gin.Context) {
	version := h.ws.Desktop().Version()
	etag := `W/"` + strconv.FormatUint(version, 10) + `"`
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}

	c.Header("ETag", etag)
	c.JSON(http.StatusOK, gin.H{
		"items":   h.ws.Desktop().Snapshot(),
		"version": version,
	})
}

// CreateFolder adds a "New Folder"
func (h *Handlers) CreateFolder(c *gin.Context) {
	var req CreateFolderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	if err := utils.ValidateID(req.ParentID, "parent_id", false); err != nil {
		badRequest(c, err)
		return
	}

	folder, err := h.ws.CreateFolder(req.ParentID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, folder)
}

// RenameItem renames an entity and retitles its windows
func (h *Handlers) RenameItem(c *gin.Context) {
	id := c.Param("id")
	if err := utils.ValidateID(id, "id", true); err != nil {
		badRequest(c, err)
		return
	}

	var req RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	name, err := utils.CleanName(req.Name)
	if err != nil {
		badRequest(c, err)
		return
	}

	entity, err := h.ws.Rename(id, name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity)
}

// SortDesktop orders the top level
func (h *Handlers) SortDesktop(c *gin.Context) {
	h.ws.SortDesktop()
	c.JSON(http.StatusOK, gin.H{"items": h.ws.Desktop().Snapshot()})
}

// PaintWallpaper generates a wallpaper or returns the wallpaper tip
func (h *Handlers) PaintWallpaper(c *gin.Context) {
	var req WallpaperRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	if err := utils.ValidateString(req.Prompt, "prompt", 0, utils.MaxArgLength, false); err != nil {
		badRequest(c, err)
		return
	}
	if err := validateStrokes(req.Strokes, false); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.painter.Paint(c.Request.Context(), req.Prompt, req.Strokes)
	if err != nil {
		h.ws.Notify(workspace.NoticeError, "Wallpaper generation failed")
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetWallpaper serves the current wallpaper image
func (h *Handlers) GetWallpaper(c *gin.Context) {
	wp, ok := h.ws.Wallpaper()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no wallpaper generated"})
		return
	}

	etag := utils.ETag(wp.Data)
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Header("ETag", etag)
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, wp.MIMEType, wp.Data)
}
