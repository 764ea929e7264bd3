package ws

import (
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/GriffinCanCode/InkOS/backend/internal/domain/ink"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/intent"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/snapshot"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/workspace"
	"github.com/GriffinCanCode/InkOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/InkOS/backend/internal/shared/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Message types not backed by workspace events
const (
	TypeWelcome workspace.EventType = "welcome"
	TypePong    workspace.EventType = "pong"
	TypeAck     workspace.EventType = "ack"
	TypeError   workspace.EventType = "error"
)

// Client message types
const (
	MsgStroke = "stroke"
	MsgFrame  = "frame"
	MsgPing   = "ping"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = pongWait * 9 / 10
	eventBuffer  = 64
	replyBuffer  = 16
	maxReadBytes = utils.MaxFrameSize*4/3 + 4096
)

// ClientMessage is a message sent by the front end
type ClientMessage struct {
	Type   string      `json:"type"`
	Stroke *ink.Stroke `json:"stroke,omitempty"`
	Frame  string      `json:"frame,omitempty"`
}

// Welcome is the payload of the first message on a connection
type Welcome struct {
	ClientID string          `json:"client_id"`
	State    workspace.State `json:"state"`
}

// Handler manages WebSocket connections
type Handler struct {
	ws         *workspace.Workspace
	dispatcher *intent.Dispatcher
	frames     *snapshot.FrameCapturer
	metrics    *monitoring.Metrics
	logger     *zap.Logger
	upgrader   websocket.Upgrader
}

// NewHandler creates a WebSocket handler. An empty origin list or "*"
// accepts every origin.
func NewHandler(ws *workspace.Workspace, dispatcher *intent.Dispatcher, frames *snapshot.FrameCapturer, origins []string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		ws:         ws,
		dispatcher: dispatcher,
		frames:     frames,
		logger:     logger,
		upgrader: websocket.Upgrader{
			CheckOrigin:       originChecker(origins),
			EnableCompression: true,
		},
	}
}

// WithMetrics adds metrics tracking to the handler
func (h *Handler) WithMetrics(metrics *monitoring.Metrics) *Handler {
	h.metrics = metrics
	return h
}

func originChecker(origins []string) func(*http.Request) bool {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		allowed[strings.TrimRight(o, "/")] = true
	}
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowed[origin]
	}
}

// HandleConnection upgrades the request and serves the connection until
// either side closes it.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	clientID := uuid.NewString()
	logger := h.logger.With(zap.String("client_id", clientID))
	logger.Info("WebSocket client connected")

	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}

	events, unsubscribe := h.ws.Events().Subscribe(eventBuffer)
	replies := make(chan workspace.Event, replyBuffer)
	done := make(chan struct{})

	replies <- newEvent(TypeWelcome, Welcome{ClientID: clientID, State: h.ws.State()})

	go h.writeLoop(conn, events, replies, done, logger)

	h.readLoop(conn, replies, logger)

	unsubscribe()
	close(done)
	_ = conn.Close()
	logger.Info("WebSocket client disconnected")
}

func (h *Handler) readLoop(conn *websocket.Conn, replies chan<- workspace.Event, logger *zap.Logger) {
	conn.SetReadLimit(maxReadBytes)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}
		h.recordMessage("in", msg.Type)

		reply := h.handleMessage(msg)
		select {
		case replies <- reply:
		default:
			logger.Warn("Reply buffer full, dropping reply", zap.String("type", string(reply.Type)))
		}
	}
}

func (h *Handler) handleMessage(msg ClientMessage) workspace.Event {
	switch msg.Type {
	case MsgPing:
		return newEvent(TypePong, nil)

	case MsgStroke:
		if msg.Stroke == nil {
			return errorEvent("stroke message without stroke")
		}
		if err := utils.ValidatePointCount(0, len(msg.Stroke.Points)); err != nil {
			return errorEvent(err.Error())
		}
		if err := h.dispatcher.AddStroke(*msg.Stroke); err != nil {
			return errorEvent(err.Error())
		}
		return newEvent(TypeAck, map[string]any{"type": MsgStroke, "pending": h.dispatcher.Pending()})

	case MsgFrame:
		if h.frames == nil {
			return errorEvent("frame capture is disabled")
		}
		data, err := base64.StdEncoding.DecodeString(stripDataURL(msg.Frame))
		if err != nil {
			return errorEvent("frame is not valid base64")
		}
		mimeType, err := h.frames.Store(data)
		if err != nil {
			return errorEvent(err.Error())
		}
		return newEvent(TypeAck, map[string]any{"type": MsgFrame, "mime_type": mimeType})

	default:
		return errorEvent("unknown message type")
	}
}

func (h *Handler) writeLoop(conn *websocket.Conn, events <-chan workspace.Event, replies <-chan workspace.Event, done <-chan struct{}, logger *zap.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		var out workspace.Event
		select {
		case <-done:
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			out = evt
		case out = <-replies:
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
			continue
		}

		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(out); err != nil {
			logger.Debug("WebSocket write failed", zap.Error(err))
			_ = conn.Close()
			return
		}
		h.recordMessage("out", string(out.Type))
	}
}

func (h *Handler) recordMessage(direction, msgType string) {
	if h.metrics != nil {
		h.metrics.RecordWSMessage(direction, msgType)
	}
}

func newEvent(t workspace.EventType, payload any) workspace.Event {
	return workspace.Event{Type: t, Payload: payload, Timestamp: time.Now().Unix()}
}

func errorEvent(message string) workspace.Event {
	return newEvent(TypeError, map[string]string{"message": message})
}

// stripDataURL accepts both bare base64 and "data:image/png;base64,..." URLs
func stripDataURL(s string) string {
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			return s[i+1:]
		}
	}
	return s
}
