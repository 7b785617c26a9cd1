package remote

import (
	"bytes"
	"encoding/json"
	"image/color"
	"image/png"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/example/scribble/internal/canvas"
	"github.com/example/scribble/internal/session"
)

func newServer(t *testing.T) (*Server, *session.Controller) {
	t.Helper()
	cv, err := canvas.New(200, 100, color.RGBA{255, 255, 255, 255})
	if err != nil {
		t.Fatal(err)
	}
	sess, err := session.New(cv)
	if err != nil {
		t.Fatal(err)
	}
	s := NewServer(sess, WithLogger(log.New(io.Discard, "", 0)))
	t.Cleanup(s.Close)
	return s, sess
}

func TestDispatchStroke(t *testing.T) {
	s, sess := newServer(t)
	for _, m := range []Message{
		{Type: "down", X: 10, Y: 10},
		{Type: "move", X: 50, Y: 10},
		{Type: "up", X: 50, Y: 10},
	} {
		if r := s.Dispatch(m); !r.OK {
			t.Fatalf("%s: %s", m.Type, r.Error)
		}
	}
	if sess.UndoDepth() != 1 {
		t.Fatalf("undo depth %d", sess.UndoDepth())
	}
	r := s.Dispatch(Message{Type: "undo"})
	if !r.OK || r.Undo != 0 || r.Redo != 1 {
		t.Fatalf("undo reply %+v", r)
	}
}

func TestDispatchErrors(t *testing.T) {
	s, _ := newServer(t)
	cases := []Message{
		{Type: "spray"},
		{Type: "control", Field: "size", Value: "-1"},
		{Type: "control", Field: "wobble", Value: "1"},
		{Type: "flip", Value: "diagonal"},
	}
	for _, m := range cases {
		r := s.Dispatch(m)
		if r.OK || r.Error == "" {
			t.Errorf("%+v: expected error reply, got %+v", m, r)
		}
	}
}

func TestDispatchStatusAndExport(t *testing.T) {
	s, _ := newServer(t)
	if r := s.Dispatch(Message{Type: "control", Field: "canvasSize", Value: "80x60"}); !r.OK {
		t.Fatal(r.Error)
	}
	r := s.Dispatch(Message{Type: "status"})
	if r.State == nil || r.State.Width != 80 || r.State.Height != 60 {
		t.Fatalf("status %+v", r.State)
	}
	r = s.Dispatch(Message{Type: "export"})
	if !r.OK {
		t.Fatal(r.Error)
	}
	img, err := png.Decode(bytes.NewReader(r.Image))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 80 || img.Bounds().Dy() != 60 {
		t.Fatalf("export bounds %v", img.Bounds())
	}
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// request sends m and returns its reply, skipping change events.
func request(t *testing.T, conn *websocket.Conn, m Message) Reply {
	t.Helper()
	if err := conn.WriteJSON(m); err != nil {
		t.Fatal(err)
	}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var raw json.RawMessage
		if err := conn.ReadJSON(&raw); err != nil {
			t.Fatal(err)
		}
		var r Reply
		if err := json.Unmarshal(raw, &r); err != nil {
			t.Fatal(err)
		}
		if r.Type == "change" {
			continue
		}
		return r
	}
}

func TestWebSocketSession(t *testing.T) {
	s, _ := newServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()
	conn := dial(t, ts)

	request(t, conn, Message{Type: "down", X: 20, Y: 20})
	request(t, conn, Message{Type: "move", X: 60, Y: 20})
	r := request(t, conn, Message{Type: "leave"})
	if !r.OK || r.Undo != 1 {
		t.Fatalf("leave reply %+v", r)
	}
	r = request(t, conn, Message{Type: "status"})
	if r.State == nil || r.State.State != "idle" || r.State.Undo != 1 {
		t.Fatalf("status %+v", r.State)
	}
	r = request(t, conn, Message{Type: "nope"})
	if r.OK {
		t.Fatal("expected unknown type to fail")
	}
}

func TestWebSocketBroadcastsChanges(t *testing.T) {
	s, _ := newServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()
	watcher := dial(t, ts)
	driver := dial(t, ts)

	// Make sure the watcher is registered before the change happens.
	request(t, watcher, Message{Type: "status"})
	request(t, driver, Message{Type: "clear"})

	watcher.SetReadDeadline(time.Now().Add(5 * time.Second))
	var ev Event
	if err := watcher.ReadJSON(&ev); err != nil {
		t.Fatal(err)
	}
	if ev.Type != "change" || !ev.Pixels || ev.Undo != 1 {
		t.Fatalf("event %+v", ev)
	}
}

func TestHTTPCanvasAndStatus(t *testing.T) {
	s, _ := newServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	res, err := http.Get(ts.URL + "/canvas.png")
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	if ct := res.Header.Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type %q", ct)
	}
	img, err := png.Decode(res.Body)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 200 {
		t.Fatalf("bounds %v", img.Bounds())
	}

	res2, err := http.Get(ts.URL + "/status")
	if err != nil {
		t.Fatal(err)
	}
	defer res2.Body.Close()
	var st session.Status
	if err := json.NewDecoder(res2.Body).Decode(&st); err != nil {
		t.Fatal(err)
	}
	if st.Width != 200 || st.Height != 100 || st.Tool != "brush" {
		t.Fatalf("status %+v", st)
	}

	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/canvas.png", nil)
	res3, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	res3.Body.Close()
	if res3.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("POST status %d", res3.StatusCode)
	}

	req, _ = http.NewRequest(http.MethodPost, ts.URL+"/status", nil)
	res4, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	res4.Body.Close()
	if res4.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("POST /status status %d", res4.StatusCode)
	}
}
