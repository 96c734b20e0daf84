// Package ws streams widget state changes to connected WebSocket clients.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Snapshot は配信する現在の状態を返します。戻り値はJSONに変換されます。
type Snapshot func(ctx context.Context) any

// Hub manages WebSocket clients and pushes a fresh snapshot whenever the registry changes.
// Notifications that arrive while a push is pending are coalesced into one.
type Hub struct {
	snapshot Snapshot

	clients    map[*client]struct{}
	register   chan *client
	unregister chan *client
	changed    chan struct{}

	mu sync.RWMutex
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewHub は新しいHubを生成します。
func NewHub(snapshot Snapshot) *Hub {
	return &Hub{
		snapshot:   snapshot,
		clients:    make(map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		changed:    make(chan struct{}, 1),
	}
}

// OnChanged は変更を通知します。ブロックしません。
func (h *Hub) OnChanged() {
	select {
	case h.changed <- struct{}{}:
	default:
	}
}

// Run はctxが終了するまでイベントループを実行します。goroutineで呼び出してください。
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()
			// 接続直後に現在の状態を送る
			h.push(ctx, []*client{c})

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()

		case <-h.changed:
			h.mu.RLock()
			targets := make([]*client, 0, len(h.clients))
			for c := range h.clients {
				targets = append(targets, c)
			}
			h.mu.RUnlock()
			h.push(ctx, targets)
		}
	}
}

// push はスナップショットを送信し、送信が詰まったクライアントを切断します。
func (h *Hub) push(ctx context.Context, targets []*client) {
	if len(targets) == 0 {
		return
	}
	data, err := json.Marshal(h.snapshot(ctx))
	if err != nil {
		slog.Warn("failed to marshal widget snapshot", "error", err)
		return
	}

	var slow []*client
	for _, c := range targets {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	if len(slow) == 0 {
		return
	}
	h.mu.Lock()
	for _, c := range slow {
		if _, ok := h.clients[c]; ok {
			delete(h.clients, c)
			close(c.send)
		}
	}
	h.mu.Unlock()
}

// ClientCount は接続中のクライアント数を返します。
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS はHTTP接続をWebSocketにアップグレードしてクライアントを登録します。
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{hub: h, conn: conn, send: make(chan []byte, sendBuffer)}
	select {
	case h.register <- c:
	case <-r.Context().Done():
		_ = conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// writePump は送信キューのメッセージを書き込み、定期的にpingを送ります。
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump は切断の検出のためだけに読み込みます。
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-time.After(writeWait):
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
