package events

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Manikan-10/Party-Planners-Client/internal/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Handler streams bus events to browsers over a websocket so every open page
// can refresh its gallery and content.
type Handler struct {
	bus      *Bus
	upgrader websocket.Upgrader
}

// NewHandler creates a websocket Handler. CheckOrigin accepts every origin;
// CORS for the API is enforced by the router and the stream carries no data
// beyond event names.
func NewHandler(bus *Bus) *Handler {
	return &Handler{
		bus: bus,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Stream godoc
//
//	@Summary		Live update stream
//	@Description	Websocket that emits {"type":"galleryUpdated"} whenever the website content or gallery changes.
//	@Tags			events
//	@Success		101
//	@Router			/events [get]
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warnf("events: websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	events, cancel := h.bus.Subscribe(16)
	defer cancel()

	closed := make(chan struct{})
	go readPump(conn, closed)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(e); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump consumes control frames until the peer goes away.
func readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
