package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/GriffinCanCode/InkOS/backend/internal/domain/ink"
	"github.com/GriffinCanCode/InkOS/backend/internal/shared/utils"
	"github.com/gin-gonic/gin"
)

// StrokesRequest carries completed strokes
type StrokesRequest struct {
	Strokes []ink.Stroke `json:"strokes" binding:"required"`
}

// PostStrokes feeds strokes into the pending batch
func (h *Handlers) PostStrokes(c *gin.Context) {
	var req StrokesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := validateStrokes(req.Strokes, true); err != nil {
		badRequest(c, err)
		return
	}

	for _, s := range req.Strokes {
		if err := h.dispatcher.AddStroke(s); err != nil {
			badRequest(c, err)
			return
		}
	}

	c.JSON(http.StatusAccepted, gin.H{
		"accepted": len(req.Strokes),
		"pending":  h.dispatcher.Pending(),
	})
}

// DiscardStrokes drops strokes still waiting for the debounce timer
func (h *Handlers) DiscardStrokes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"discarded": h.dispatcher.DiscardPending()})
}

// PostFrame stores the latest screenshot for the next cycle. The body is
// the raw image.
func (h *Handlers) PostFrame(c *gin.Context) {
	if h.frames == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "frame capture is disabled"})
		return
	}

	body := http.MaxBytesReader(c.Writer, c.Request.Body, utils.MaxFrameSize)
	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "frame too large"})
			return
		}
		badRequest(c, err)
		return
	}
	if len(data) == 0 {
		badRequest(c, errors.New("empty frame"))
		return
	}

	mimeType, err := h.frames.Store(data)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"mime_type": mimeType, "bytes": len(data)})
}

// InkStatus reports the dispatcher state
func (h *Handlers) InkStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.dispatcher.Status())
}

// validateStrokes enforces upload limits. Optional uploads may be empty.
func validateStrokes(strokes []ink.Stroke, required bool) error {
	if !required && len(strokes) == 0 {
		return nil
	}
	if err := utils.ValidateStrokeCount(len(strokes)); err != nil {
		return err
	}
	for i, s := range strokes {
		if err := utils.ValidatePointCount(i, len(s.Points)); err != nil {
			return err
		}
	}
	return nil
}
