package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	identityapp "github.com/marketplace/backend/internal/application/identity"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
	"github.com/marketplace/backend/internal/realtime"
	"go.uber.org/zap"
)

// authWait bounds how long an upgraded connection may sit
// unauthenticated waiting for its auth frame
const authWait = 10 * time.Second

// WebSocketHandler upgrades clients onto the realtime channel. The
// credential may arrive as a bearer header, a token query parameter or
// a first-frame auth event; the last form exists for clients that
// cannot set headers on the websocket handshake.
type WebSocketHandler struct {
	resolver *identityapp.Resolver
	registry *realtime.Registry
	router   *realtime.Router
	cfg      config.RealtimeConfig
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewWebSocketHandler creates a websocket handler
func NewWebSocketHandler(
	resolver *identityapp.Resolver,
	registry *realtime.Registry,
	router *realtime.Router,
	cfg config.RealtimeConfig,
	logger *zap.Logger,
) *WebSocketHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &WebSocketHandler{
		resolver: resolver,
		registry: registry,
		router:   router,
		cfg:      cfg,
		logger:   logger,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	parsed, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(parsed.Host, r.Host) {
		return true
	}
	for _, allowed := range h.cfg.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// Serve authenticates the client and runs its read loop until the
// connection drops
func (h *WebSocketHandler) Serve(c *gin.Context) {
	token := handshakeToken(c)

	// A credential presented at handshake time is validated before
	// the upgrade so bad tokens get a plain 401.
	var id realtime.Identity
	authenticated := false
	if token != "" {
		resolved, err := h.resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required"))
			return
		}
		id = resolved
		authenticated = true
	}

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	conn := realtime.NewConnection(ws)
	conn.Start()

	if h.cfg.ReadLimit > 0 {
		ws.SetReadLimit(h.cfg.ReadLimit)
	}
	pongWait := h.cfg.PongWait
	if pongWait <= 0 {
		pongWait = 60 * time.Second
	}
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	if !authenticated {
		resolved, ok := h.awaitAuthFrame(c, ws, conn)
		if !ok {
			conn.Close(websocket.ClosePolicyViolation, "authentication required")
			return
		}
		id = resolved
	}

	h.registry.Register(conn, id)
	defer func() {
		h.registry.Unregister(conn)
		conn.Close(websocket.CloseNormalClosure, "")
	}()

	_ = conn.SendEvent(realtime.Event{
		Name: realtime.EventConnectionConfirmed,
		Payload: realtime.ConnectionConfirmedPayload{
			UserID:   id.ID,
			Username: id.Username,
			Role:     id.Role,
		},
	})

	h.readLoop(c, ws, conn)
}

// awaitAuthFrame waits for the legacy first-frame credential
func (h *WebSocketHandler) awaitAuthFrame(c *gin.Context, ws *websocket.Conn, conn *realtime.Connection) (realtime.Identity, bool) {
	_ = ws.SetReadDeadline(time.Now().Add(authWait))
	defer func() {
		pongWait := h.cfg.PongWait
		if pongWait <= 0 {
			pongWait = 60 * time.Second
		}
		_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	}()

	_, raw, err := ws.ReadMessage()
	if err != nil {
		return realtime.Identity{}, false
	}

	var frame realtime.Frame
	if err := json.Unmarshal(raw, &frame); err != nil || frame.Event != realtime.EventAuth {
		h.sendError(conn, "Expected auth event")
		return realtime.Identity{}, false
	}
	var payload realtime.AuthPayload
	if err := json.Unmarshal(frame.Data, &payload); err != nil || payload.Token == "" {
		h.sendError(conn, "Invalid auth payload")
		return realtime.Identity{}, false
	}

	id, err := h.resolver.Resolve(c.Request.Context(), payload.Token)
	if err != nil {
		h.sendError(conn, "Authentication failed")
		return realtime.Identity{}, false
	}
	return id, true
}

func (h *WebSocketHandler) readLoop(c *gin.Context, ws *websocket.Conn, conn *realtime.Connection) {
	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("websocket read error", zap.Error(err))
			}
			return
		}

		var frame realtime.Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			h.sendError(conn, "Malformed frame")
			continue
		}
		h.dispatch(c, conn, frame)
	}
}

// dispatch routes one inbound frame. Errors are reported to the
// originating connection only; the connection stays open.
func (h *WebSocketHandler) dispatch(c *gin.Context, conn *realtime.Connection, frame realtime.Frame) {
	ctx := c.Request.Context()

	switch frame.Event {
	case realtime.EventJoinConversation:
		var payload realtime.JoinConversationPayload
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			h.sendError(conn, "Invalid payload")
			return
		}
		if err := h.router.JoinConversation(ctx, conn, payload.InquiryID); err != nil {
			h.sendError(conn, errorMessage(err))
		}

	case realtime.EventLeaveConversation:
		var payload realtime.LeaveConversationPayload
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			h.sendError(conn, "Invalid payload")
			return
		}
		h.router.LeaveConversation(conn, payload.InquiryID)

	case realtime.EventSendMessage:
		var payload realtime.SendMessagePayload
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			h.sendError(conn, "Invalid payload")
			return
		}
		if err := h.router.SendMessage(ctx, conn, payload); err != nil {
			h.sendError(conn, errorMessage(err))
		}

	case realtime.EventMarkRead:
		var payload realtime.MarkReadPayload
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			h.sendError(conn, "Invalid payload")
			return
		}
		if err := h.router.MarkRead(ctx, conn, payload.InquiryID); err != nil {
			h.sendError(conn, errorMessage(err))
		}

	case realtime.EventTyping:
		var payload realtime.TypingPayload
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			h.sendError(conn, "Invalid payload")
			return
		}
		h.router.Typing(conn, payload)

	case realtime.EventOnlineStatus:
		var payload realtime.OnlineStatusPayload
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			h.sendError(conn, "Invalid payload")
			return
		}
		h.router.OnlineStatus(conn, payload)

	case realtime.EventAuth:
		// Already authenticated; repeated auth frames are ignored

	default:
		h.sendError(conn, "Unknown event")
	}
}

func (h *WebSocketHandler) sendError(conn *realtime.Connection, message string) {
	_ = conn.SendEvent(realtime.Event{
		Name:    realtime.EventError,
		Payload: realtime.ErrorPayload{Message: message},
	})
}

func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// handshakeToken pulls the credential from the Authorization header or
// the token query parameter
func handshakeToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Query("token")
}
