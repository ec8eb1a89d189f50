// Package canvas implements the network display and input drivers.
//
// The display driver renders nothing locally: every Show publishes the
// flattened RGB frame to all connected websocket clients, typically a
// browser canvas. The most recent frame is cached so a late joiner sees the
// current screen instead of a blank one. The input driver accepts key names
// forwarded by those clients.
package canvas

import (
	"context"
	"encoding/binary"
	"fmt"
	"image"
	"log"
	"net"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/matrixos/display/pixel"
)

// Priority of the canvas drivers. A connected remote viewer beats the
// terminal fallback but never direct hardware.
const Priority = 80

// Server to client message types.
const (
	msgFrame  = 0xf1 // 0xF1 w16 h16 followed by flattened RGB
	msgResize = 0xf2 // 0xF2 w16 h16
)

// maxFrameRate caps the per-client frame delivery; a slow client drops
// frames rather than stalling the pipeline.
const maxFrameRate = 60

// keyMessage is the client to server payload.
type keyMessage struct {
	Key  string `json:"key"`
	Type string `json:"type"`
}

// Config is the canvas driver configuration.
type Config struct {
	// Width and Height of the logical display. Zero means 256×192.
	Width  int
	Height int

	// Listen is the websocket listen address, default :8462.
	Listen string

	// Enabled gates availability. The canvas path is opt-in via the
	// command line; when disabled both drivers report unavailable so the
	// terminal fallback wins.
	Enabled bool
}

// Hub owns the websocket endpoint shared by the display and input drivers.
type Hub struct {
	listen   string
	upgrader websocket.Upgrader

	mu        sync.Mutex
	refs      int
	clients   map[string]*client
	lastFrame []byte
	width     int
	height    int
	onKey     func(name, typ, id string)

	listener net.Listener
	server   *http.Server
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

func newHub(listen string, w, h int) *Hub {
	return &Hub{
		listen: listen,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[string]*client),
		width:   w,
		height:  h,
	}
}

// start brings up the websocket endpoint. The hub is shared by the display
// and input drivers, either of which may be selected without the other, so
// starts are counted: the first caller binds the listener and later callers
// join the running endpoint.
func (h *Hub) start() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.refs > 0 {
		h.refs++
		return nil
	}
	ln, err := net.Listen("tcp", h.listen)
	if err != nil {
		return fmt.Errorf("canvas: listening on %s: %w", h.listen, err)
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/stream", h.handleStream)
	h.listener = ln
	h.server = &http.Server{Handler: mux}
	h.refs = 1
	go func(srv *http.Server) {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("[canvas] server error: %v", err)
		}
	}(h.server)
	log.Printf("[canvas] listening on ws://%s/stream", ln.Addr())
	return nil
}

// stop undoes one start; the endpoint shuts down when the last user leaves.
func (h *Hub) stop() error {
	h.mu.Lock()
	if h.refs == 0 {
		h.mu.Unlock()
		return nil
	}
	h.refs--
	if h.refs > 0 {
		h.mu.Unlock()
		return nil
	}
	for _, c := range h.clients {
		close(c.send)
		_ = c.conn.Close()
	}
	h.clients = make(map[string]*client)
	server := h.server
	h.server = nil
	h.listener = nil
	h.mu.Unlock()
	return server.Close()
}

// Addr returns the bound listen address, usable once the hub is started.
func (h *Hub) Addr() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.listener == nil {
		return h.listen
	}
	return h.listener.Addr().String()
}

func (h *Hub) handleStream(w http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.Printf("[canvas] upgrade error: %v", err)
		return
	}
	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, 8),
	}

	h.mu.Lock()
	h.clients[c.id] = c
	// A late joiner immediately receives the display geometry and the
	// current frame instead of a blank screen.
	c.send <- resizeMessage(h.width, h.height)
	if h.lastFrame != nil {
		c.send <- h.lastFrame
	}
	h.mu.Unlock()

	if debugEnabled() {
		log.Printf("[canvas] client %s connected from %s", c.id, req.RemoteAddr)
	}
	go h.writeLoop(c)
	go h.readLoop(c)
}

func (h *Hub) writeLoop(c *client) {
	limiter := rate.NewLimiter(rate.Limit(maxFrameRate), 2)
	for msg := range c.send {
		if err := limiter.Wait(context.Background()); err != nil {
			return
		}
		if err := c.conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
			log.Printf("[canvas] write error to %s: %v", c.id, err)
			return
		}
	}
}

func (h *Hub) readLoop(c *client) {
	defer h.drop(c)
	for {
		var msg keyMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		h.mu.Lock()
		onKey := h.onKey
		h.mu.Unlock()
		if onKey != nil {
			onKey(msg.Key, msg.Type, c.id)
		}
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		close(c.send)
	}
	h.mu.Unlock()
	_ = c.conn.Close()
	if debugEnabled() {
		log.Printf("[canvas] client %s disconnected", c.id)
	}
}

// broadcast caches msg as the most recent frame and queues it to every
// client. Clients with a full queue skip the frame.
func (h *Hub) broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastFrame = msg
	for _, c := range h.clients {
		select {
		case c.send <- msg:
		default:
		}
	}
}

func resizeMessage(w, h int) []byte {
	msg := make([]byte, 5)
	msg[0] = msgResize
	binary.BigEndian.PutUint16(msg[1:], uint16(w))
	binary.BigEndian.PutUint16(msg[3:], uint16(h))
	return msg
}

// Display is the network display driver.
type Display struct {
	hub     *Hub
	buf     *pixel.Buffer
	enabled bool
}

// New builds the network display driver and its companion input driver.
// They share one websocket hub; either driver starts it on Init, so network
// input keeps working when a different display driver wins selection.
func New(config *Config) (*Display, *Input) {
	if config == nil {
		config = new(Config)
	}
	w, h := config.Width, config.Height
	if w == 0 {
		w = pixel.DefaultWidth
	}
	if h == 0 {
		h = pixel.DefaultHeight
	}
	listen := config.Listen
	if listen == "" {
		listen = ":8462"
	}
	hub := newHub(listen, w, h)
	d := &Display{
		hub:     hub,
		buf:     pixel.NewBuffer(w, h),
		enabled: config.Enabled,
	}
	return d, &Input{hub: hub, enabled: config.Enabled}
}

func (d *Display) Name() string  { return "Canvas Display" }
func (d *Display) Priority() int { return Priority }

// Available reports whether the canvas path was requested.
func (d *Display) Available() bool { return d.enabled }

func (d *Display) Init() error {
	return d.hub.start()
}

func (d *Display) Close() error {
	return d.hub.stop()
}

func (d *Display) Bounds() image.Rectangle {
	return d.buf.Bounds()
}

func (d *Display) Set(x, y int, c pixel.RGB) {
	d.buf.SetRGB(x, y, c)
}

func (d *Display) Clear() {
	d.buf.Clear()
}

// Show flattens the buffer into a frame message and publishes it.
func (d *Display) Show() error {
	msg := make([]byte, 5+len(d.buf.Pix)*3)
	msg[0] = msgFrame
	binary.BigEndian.PutUint16(msg[1:], uint16(d.buf.Width()))
	binary.BigEndian.PutUint16(msg[3:], uint16(d.buf.Height()))
	for i, c := range d.buf.Pix {
		msg[5+i*3] = c.R
		msg[5+i*3+1] = c.G
		msg[5+i*3+2] = c.B
	}
	d.hub.broadcast(msg)
	return nil
}
