package api

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/wonny/riskval/internal/runner"
	"github.com/wonny/riskval/pkg/logger"
)

// Hub broadcasts completed run summaries to websocket subscribers
// ⭐ SSOT: 웹소켓 구독 관리는 여기서만
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	logger  *logger.Logger

	upgrader websocket.Upgrader
}

// NewHub creates an empty hub.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]struct{}),
		logger:  log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

// Serve upgrades the connection and registers it as a subscriber
// GET /ws
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.WithField("subscribers", count).Debug("Websocket subscriber connected")

	// 읽기 루프는 연결 종료 감지용 (클라이언트 메시지는 무시)
	go func() {
		defer h.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast sends a batch summary to every subscriber.
// 전송 실패한 구독자는 제거한다.
func (h *Hub) Broadcast(result runner.BatchResult) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := conn.WriteJSON(result); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// Subscribers returns the current subscriber count.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) remove(conn *websocket.Conn) {
	conn.Close()
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}
