package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	pp "pokemon_portal"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 12 // 4 KB
	sendBuffer = 16
)

// Message types exchanged over the gateway.
const (
	wsConnected         = "connected"
	wsError             = "error"
	wsRequestSprite     = "request-sprite"
	wsSpriteServed      = "sprite-served"
	wsSpriteError       = "sprite-error"
	wsDeleteSprite      = "delete-sprite"
	wsSpriteDeleted     = "sprite-deleted"
	wsDeleteAllSprites  = "delete-all-sprites"
	wsAllSpritesDeleted = "all-sprites-deleted"
)

const (
	wsErrAuthRequired   = "authentication required"
	wsErrInvalidToken   = "invalid token"
	wsErrInvalidMessage = "invalid message"
	wsErrUnknownType    = "unknown message type"
	wsErrSpriteFetch    = "failed to fetch pokemon sprite"
	wsMsgConnected      = "connected successfully"
)

// Envelope used for outbound WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// wsInbound is a client message; Data is decoded per Type.
type wsInbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type wsConnectedData struct {
	Message string `json:"message"`
	UserID  int    `json:"userId"`
}

// originChecker accepts requests without Origin (non-browser clients), origins
// on the allow-list, and with an empty list only same-host origins.
func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if len(allowed) == 0 {
			u, err := url.Parse(origin)
			return err == nil && strings.EqualFold(u.Host, r.Host)
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(strings.TrimRight(a, "/"), origin) {
				return true
			}
		}
		return false
	}
}

// wsToken reads ?token= first, then the Authorization header.
func wsToken(c *gin.Context) string {
	if t := strings.TrimSpace(c.Query("token")); t != "" {
		return t
	}
	t, _ := bearerToken(c.GetHeader("Authorization"))
	return t
}

// wsAuthenticate returns the connecting user or the error text to send.
func (h *Handler) wsAuthenticate(c *gin.Context) (pp.UserProfile, string) {
	token := wsToken(c)
	if token == "" {
		return pp.UserProfile{}, wsErrAuthRequired
	}
	id, err := h.services.VerifyToken(token)
	if err != nil {
		return pp.UserProfile{}, wsErrInvalidToken
	}
	user := h.services.GetUserByID(c.Request.Context(), id.SubjectID)
	if user == nil {
		return pp.UserProfile{}, wsErrInvalidToken
	}
	return *user, ""
}

func (h *Handler) wsConnect(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err, "origin", c.GetHeader("Origin"))
		}
		return
	}
	defer func() { _ = conn.Close() }()
	connID := uuid.NewString()

	user, reason := h.wsAuthenticate(c)
	if reason != "" {
		if h.log != nil {
			h.log.Infow("ws_auth_rejected", "conn_id", connID, "reason", reason)
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = conn.WriteJSON(wsEnvelope{Type: wsError, Error: reason})
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason),
			time.Now().Add(writeWait))
		return
	}
	if h.log != nil {
		h.log.Infow("ws_connected", "conn_id", connID, "user_id", user.ID, "username", user.Username)
		defer h.log.Infow("ws_disconnected", "conn_id", connID, "user_id", user.ID)
	}

	// Configure read limits and pong handler to extend read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	out := make(chan wsEnvelope, sendBuffer)
	out <- wsEnvelope{Type: wsConnected, Data: wsConnectedData{Message: wsMsgConnected, UserID: user.ID}}

	done := make(chan struct{})
	quit := make(chan struct{})
	defer close(quit)
	go h.startReader(c.Request.Context(), conn, connID, out, done, quit)

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	// This loop is the only writer on conn.
	for {
		select {
		case <-done:
			return
		case env := <-out:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(env); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "conn_id", connID, "err", err)
				}
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "conn_id", connID, "err", err)
				}
				return
			}
		}
	}
}

// startReader dispatches client messages and queues the replies until the
// connection closes or the writer quits.
func (h *Handler) startReader(ctx context.Context, conn *websocket.Conn, connID string, out chan<- wsEnvelope, done chan<- struct{}, quit <-chan struct{}) {
	defer close(done)
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "conn_id", connID, "err", err)
			}
			return
		}
		reply := h.handleWSMessage(ctx, connID, raw)
		select {
		case out <- reply:
		case <-quit:
			return
		}
	}
}

func (h *Handler) handleWSMessage(ctx context.Context, connID string, raw []byte) wsEnvelope {
	var in wsInbound
	if err := json.Unmarshal(raw, &in); err != nil {
		return wsEnvelope{Type: wsError, Error: wsErrInvalidMessage}
	}

	switch in.Type {
	case wsRequestSprite:
		sp, err := h.services.Sprites.FetchRandom(ctx)
		if err != nil {
			if h.log != nil {
				h.log.Errorw("ws_sprite_fetch_failed", "conn_id", connID, "err", err)
			}
			return wsEnvelope{Type: wsSpriteError, Error: wsErrSpriteFetch}
		}
		return wsEnvelope{Type: wsSpriteServed, Data: sp}

	case wsDeleteSprite:
		var body struct {
			ID int64 `json:"id"`
		}
		if len(in.Data) == 0 || json.Unmarshal(in.Data, &body) != nil || body.ID <= 0 {
			return wsEnvelope{Type: wsError, Error: wsErrInvalidMessage}
		}
		return wsEnvelope{Type: wsSpriteDeleted, Data: h.services.Sprites.Remove(ctx, body.ID)}

	case wsDeleteAllSprites:
		return wsEnvelope{Type: wsAllSpritesDeleted, Data: h.services.Sprites.RemoveAll(ctx)}

	default:
		return wsEnvelope{Type: wsError, Error: wsErrUnknownType}
	}
}
