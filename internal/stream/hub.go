// Package stream broadcasts cube events to websocket clients and accepts
// commands from them.
package stream

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	gocube "github.com/SeamusWaldron/gocube_sim"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4096
	sendBuffer     = 64
	commandBuffer  = 32
)

// ErrClosed is returned when publishing to a closed hub.
var ErrClosed = errors.New("stream: hub closed")

// Event types.
const (
	TypeState   = "state"
	TypeTwist   = "twist"
	TypeShuffle = "shuffle"
	TypePhase   = "phase"
	TypeClick   = "click"
)

// Event is one message sent to clients.
type Event struct {
	Type        string `json:"type"`
	TsMs        int64  `json:"ts_ms"`
	Twist       string `json:"twist,omitempty"`
	Quarters    int    `json:"quarters,omitempty"`
	MoveCount   int    `json:"move_count"`
	Phase       string `json:"phase,omitempty"`
	Face        string `json:"face,omitempty"`
	Address     *int   `json:"address,omitempty"`
	Solved      bool   `json:"solved"`
	Fingerprint string `json:"fingerprint"`
	Net         string `json:"net,omitempty"`
}

// Command types accepted from clients.
const (
	CommandTwist   = "twist"
	CommandUndo    = "undo"
	CommandRedo    = "redo"
	CommandShuffle = "shuffle"
	CommandSolve   = "solve"
	CommandReset   = "reset"

	CommandViewport    = "viewport"
	CommandPointerDown = "pointer_down"
	CommandPointerMove = "pointer_move"
	CommandPointerUp   = "pointer_up"
)

// Command is a request from a client to drive the cube. Pointer coordinates
// are pixels in the client's viewport, with y growing down.
type Command struct {
	Type     string  `json:"type"`
	Notation string  `json:"notation,omitempty"`
	Amount   int     `json:"amount,omitempty"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans events out to every connected websocket client.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *zap.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
	state   []byte
	closed  bool

	commands chan Command
}

// NewHub creates a hub. logger may be nil.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger:   logger.Named("stream"),
		clients:  make(map[*client]struct{}),
		commands: make(chan Command, commandBuffer),
	}
}

// Commands delivers commands received from clients. Commands arriving while
// the buffer is full are dropped.
func (h *Hub) Commands() <-chan Command {
	return h.commands
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Attach publishes cube events to the hub. It must be called on the
// goroutine that drives the cube.
func (h *Hub) Attach(cube *gocube.Cube) {
	h.setState(stateEvent(cube))

	cube.OnTwistComplete(func(e gocube.TwistEvent) {
		ev := baseEvent(cube, TypeTwist)
		ev.Twist = e.Twist.String()
		ev.Quarters = e.Quarters
		ev.MoveCount = e.MoveCount
		h.publish(ev)
		h.setState(stateEvent(cube))
	})
	cube.OnShuffleComplete(func(gocube.TwistEvent) {
		ev := baseEvent(cube, TypeShuffle)
		ev.Net = cube.String()
		h.publish(ev)
	})
	cube.OnClick(func(e gocube.ClickEvent) {
		ev := baseEvent(cube, TypeClick)
		ev.Face = e.Face.Name
		addr := e.Cubelet.Address
		ev.Address = &addr
		h.publish(ev)
	})

	tracker := gocube.NewTracker(cube)
	tracker.OnPhase(func(p gocube.Phase) {
		ev := baseEvent(cube, TypePhase)
		ev.Phase = p.String()
		h.publish(ev)
	})
}

func baseEvent(cube *gocube.Cube, typ string) Event {
	return Event{
		Type:        typ,
		TsMs:        cube.Elapsed().Milliseconds(),
		MoveCount:   cube.MoveCount(),
		Solved:      cube.IsSolved(),
		Fingerprint: cube.FingerprintHex(),
	}
}

func stateEvent(cube *gocube.Cube) Event {
	ev := baseEvent(cube, TypeState)
	ev.Phase = cube.Phase().String()
	ev.Net = cube.String()
	return ev
}

func (h *Hub) setState(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("failed to encode state", zap.Error(err))
		return
	}
	h.mu.Lock()
	h.state = data
	h.mu.Unlock()
}

func (h *Hub) publish(ev Event) {
	if err := h.Broadcast(ev); err != nil && !errors.Is(err, ErrClosed) {
		h.logger.Error("failed to broadcast", zap.String("type", ev.Type), zap.Error(err))
	}
}

// Broadcast sends ev to every client. A client whose send buffer is full is
// disconnected.
func (h *Hub) Broadcast(ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("dropping slow client", zap.Stringer("addr", c.conn.RemoteAddr()))
			h.removeLocked(c)
		}
	}
	return nil
}

// ServeHTTP upgrades the request and registers the client. The client first
// receives the current state.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", zap.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	if h.state != nil {
		c.send <- h.state
	}
	h.mu.Unlock()

	h.logger.Debug("client connected", zap.Stringer("addr", conn.RemoteAddr()))

	go h.writePump(c)
	h.readPump(c)
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for c := range h.clients {
		h.removeLocked(c)
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

func (h *Hub) readPump(c *client) {
	defer func() {
		h.remove(c)
		c.conn.Close()
		h.logger.Debug("client disconnected", zap.Stringer("addr", c.conn.RemoteAddr()))
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var cmd Command
		if err := c.conn.ReadJSON(&cmd); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				h.logger.Warn("ignoring malformed command", zap.Error(err))
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("read failed", zap.Error(err))
			}
			return
		}

		select {
		case h.commands <- cmd:
		default:
			h.logger.Warn("command buffer full", zap.String("type", cmd.Type))
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
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
