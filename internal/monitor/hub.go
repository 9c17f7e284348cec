package monitor

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ZX-80/PicoVideocart/pkg/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans bus events out to websocket clients. Events are dropped,
// never buffered unboundedly: a slow client loses frames rather than
// stalling the emulation.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client

	logger log.Logger
}

// NewHub returns a hub ready to Run.
func NewHub(logger log.Logger) *Hub {
	if logger == nil {
		logger = log.NewNullLogger()
	}
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
		logger:     logger,
	}
}

// Broadcast queues an encoded event for every connected client,
// dropping it when the queue is full.
func (h *Hub) Broadcast(frame []byte) {
	select {
	case h.broadcast <- frame:
	default:
	}
}

// BroadcastCycle encodes and queues a cycle event.
func (h *Hub) BroadcastCycle(e CycleEvent) {
	h.Broadcast(AppendCycle(nil, e))
}

// Run serves websocket clients on addr and pumps events until the
// listener fails. It blocks, so callers run it in its own goroutine.
func (h *Hub) Run(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Errorf("monitor: upgrade failed: %v", err)
			return
		}

		c := &client{conn: conn, send: make(chan []byte, 256)}
		h.register <- c

		go c.writePump(h)
		go c.readPump(h)
	})

	go h.pump()

	h.logger.Infof("monitor listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}

// pump owns the client set: registrations, departures and fan-out all
// pass through here, so no lock is needed.
func (h *Hub) pump() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			h.logger.Infof("monitor: client connected (%d active)", len(h.clients))
		case c := <-h.unregister:
			if h.clients[c] {
				delete(h.clients, c)
				close(c.send)
			}
		case frame := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- frame:
				default:
					// slow client: drop the frame
				}
			}
		}
	}
}

// client is one websocket connection.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

const writeWait = 10 * time.Second

func (c *client) writePump(h *Hub) {
	defer c.conn.Close()
	for frame := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			break
		}
	}
}

// readPump discards client input; it exists to observe the close
// handshake and unregister.
func (c *client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
