package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"

	"github.com/clawd-ops/missioncontrol/internal/log"
)

// notice is pushed to websocket subscribers when state changes.
type notice struct {
	Type       string    `json:"type"`
	SessionKey string    `json:"session_key,omitempty"`
	At         time.Time `json:"at"`
}

// hub fans notices out to subscribers. Slow subscribers miss notices rather
// than block the publisher.
type hub struct {
	mu     sync.Mutex
	subs   map[chan notice]struct{}
	closed bool
}

func newHub() *hub {
	return &hub{subs: make(map[chan notice]struct{})}
}

func (h *hub) subscribe() (<-chan notice, func()) {
	ch := make(chan notice, 16)
	h.mu.Lock()
	if h.closed {
		close(ch)
	} else {
		h.subs[ch] = struct{}{}
	}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
}

func (h *hub) publish(n notice) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- n:
		default:
		}
	}
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
}

func (s *Server) handleEvents(c *gin.Context) {
	log.MarkHijacked(c)
	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		OriginPatterns: localOriginPatterns,
	})
	if err != nil {
		log.Warn().Err(err).Msg("websocket accept failed")
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	// Clients only listen; CloseRead handles pings and close frames.
	ctx := conn.CloseRead(c.Request.Context())
	notices, unsubscribe := s.hub.subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-notices:
			if !ok {
				conn.Close(websocket.StatusGoingAway, "server shutting down")
				return
			}
			data, err := json.Marshal(n)
			if err != nil {
				continue
			}
			wctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = conn.Write(wctx, websocket.MessageText, data)
			cancel()
			if err != nil {
				log.Debug().Err(err).Msg("websocket write failed")
				return
			}
		}
	}
}
