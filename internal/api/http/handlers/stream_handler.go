package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/heardesk/complaint-service/internal/api/dto"
	"github.com/heardesk/complaint-service/internal/auth"
	"github.com/heardesk/complaint-service/internal/store"
)

// StreamHandler pushes scoped complaint snapshots over a websocket. Each
// change in the store delivers a fresh snapshot; subscription errors are
// forwarded without closing the stream.
type StreamHandler struct {
	syncer *store.Syncer
}

// NewStreamHandler constructs handler.
func NewStreamHandler(syncer *store.Syncer) *StreamHandler {
	return &StreamHandler{syncer: syncer}
}

// streamMessage is the wire shape of one snapshot or error event.
type streamMessage struct {
	Records []dto.ComplaintResponse `json:"records,omitempty"`
	Error   string                  `json:"error,omitempty"`
}

// Upgrade gates the route to websocket upgrade requests.
func (h *StreamHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handle serves GET /api/complaints/stream.
func (h *StreamHandler) Handle() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		principal, ok := conn.Locals(auth.PrincipalKey).(*auth.Principal)
		if !ok {
			_ = conn.Close()
			return
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sub := h.syncer.Subscribe(ctx, store.Scope{
			OwnerID: principal.ID,
			Admin:   principal.IsAdmin(),
		})
		defer sub.Close()

		// reader goroutine only detects disconnects
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-done:
				return
			case event, ok := <-sub.Events():
				if !ok {
					return
				}
				msg := streamMessage{}
				if event.Err != nil {
					msg.Error = event.Err.Error()
				} else {
					msg.Records = dto.FromComplaints(event.Records)
				}
				if err := conn.WriteJSON(msg); err != nil {
					return
				}
			}
		}
	})
}
