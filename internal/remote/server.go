// Package remote exposes a drawing session over WebSocket so other
// programs can drive it, and optionally advertises it with mDNS.
package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/example/scribble/internal/paint"
	"github.com/example/scribble/internal/session"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 64 << 10
	sendBuffer     = 32
)

// Server serves one session to any number of WebSocket clients.
type Server struct {
	session  *session.Controller
	upgrader websocket.Upgrader
	logger   *log.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
}

// Option configures a Server.
type Option func(*Server)

// WithLogger directs connection logging to l.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithOriginCheck replaces the same-origin check applied to browser
// clients.
func WithOriginCheck(fn func(*http.Request) bool) Option {
	return func(s *Server) { s.upgrader.CheckOrigin = fn }
}

// NewServer returns a Server for sess. It subscribes to session changes
// and forwards them to connected clients.
func NewServer(sess *session.Controller, opts ...Option) *Server {
	s := &Server{
		session: sess,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		logger:  log.Default(),
		clients: make(map[*client]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	sess.OnChange(s.broadcast)
	return s
}

// Handler returns the HTTP routes: /ws for the WebSocket, /canvas.png for
// the current image and /status for a JSON summary.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/canvas.png", s.serveCanvas)
	mux.HandleFunc("/status", s.serveStatus)
	return mux
}

// Dispatch applies one message to the session.
func (s *Server) Dispatch(m Message) Reply {
	r := Reply{Type: m.Type}
	var err error
	switch t := strings.ToLower(m.Type); t {
	case "down", "move", "up", "leave":
		kind, _ := session.ParsePointerKind(t)
		err = s.session.HandlePointer(session.PointerEvent{Kind: kind, At: paint.Pt(m.X, m.Y)})
	case "control":
		err = s.session.Control(m.Field, m.Value)
	case "undo":
		_, err = s.session.Undo()
	case "redo":
		_, err = s.session.Redo()
	case "clear":
		err = s.session.Clear()
	case "flip":
		switch strings.ToLower(m.Value) {
		case "", "h", "horizontal":
			err = s.session.Flip(true)
		case "v", "vertical":
			err = s.session.Flip(false)
		default:
			err = fmt.Errorf("flip direction %q: want horizontal or vertical", m.Value)
		}
	case "export":
		var buf bytes.Buffer
		if err = s.session.Export(&buf); err == nil {
			r.Image = buf.Bytes()
		}
	case "status":
		st := s.session.Status()
		r.State = &st
	default:
		err = fmt.Errorf("unknown message type %q", m.Type)
	}
	st := s.session.Status()
	r.Undo, r.Redo = st.Undo, st.Redo
	if err != nil {
		r.Error = err.Error()
		return r
	}
	r.OK = true
	return r
}

// Close disconnects every client.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		c.conn.Close()
	}
}

type client struct {
	conn *websocket.Conn
	send chan any
	done chan struct{}
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("websocket upgrade: %v", err)
		return
	}
	c := &client{conn: conn, send: make(chan any, sendBuffer), done: make(chan struct{})}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	go c.writeLoop()
	defer s.drop(c)

	conn.SetReadLimit(maxMessageSize)
	for {
		var m Message
		if err := conn.ReadJSON(&m); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Printf("websocket read from %s: %v", conn.RemoteAddr(), err)
			}
			return
		}
		select {
		case c.send <- s.Dispatch(m):
		case <-c.done:
			return
		}
	}
}

func (s *Server) drop(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
}

// writeLoop is the only writer on the connection.
func (c *client) writeLoop() {
	defer close(c.done)
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (s *Server) broadcast(ch session.Change) {
	st := s.session.Status()
	ev := Event{
		Type:   "change",
		Pixels: ch&session.PixelsChanged != 0,
		Style:  ch&session.StyleChanged != 0,
		Undo:   st.Undo,
		Redo:   st.Redo,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- ev:
		default:
			// Slow client; it will catch up from the next event or a
			// status request.
		}
	}
}

func (s *Server) serveCanvas(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var buf bytes.Buffer
	if err := s.session.Export(&buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

func (s *Server) serveStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.session.Status()); err != nil {
		s.logger.Printf("status: %v", err)
	}
}
