package stream

import (
	"errors"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	gocube "github.com/SeamusWaldron/gocube_sim"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatal(err)
	}
	var ev Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read event: %v", err)
	}
	return ev
}

func waitClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("ClientCount = %d, want %d", h.ClientCount(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func newTestHub(t *testing.T) (*Hub, *gocube.Cube, *httptest.Server) {
	t.Helper()
	hub := NewHub(nil)
	cube := gocube.NewCube(gocube.WithTwistDuration(0))
	hub.Attach(cube)

	srv := httptest.NewServer(hub)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, cube, srv
}

func expectType(t *testing.T, ev Event, want string) {
	t.Helper()
	if ev.Type != want {
		t.Fatalf("event type = %q, want %q", ev.Type, want)
	}
}

func TestClientReceivesStateFirst(t *testing.T) {
	hub, cube, srv := newTestHub(t)
	conn := dial(t, srv)
	waitClients(t, hub, 1)

	ev := readEvent(t, conn)
	expectType(t, ev, TypeState)
	if !ev.Solved || ev.Phase != "solved" {
		t.Errorf("solved = %v, phase = %q", ev.Solved, ev.Phase)
	}
	if ev.Net != cube.String() {
		t.Errorf("net = %q", ev.Net)
	}
	if ev.Fingerprint != cube.FingerprintHex() {
		t.Errorf("fingerprint = %q", ev.Fingerprint)
	}
}

func TestTwistsAreBroadcast(t *testing.T) {
	hub, cube, srv := newTestHub(t)
	a := dial(t, srv)
	b := dial(t, srv)
	waitClients(t, hub, 2)
	readEvent(t, a)
	readEvent(t, b)

	if err := cube.Apply("R"); err != nil {
		t.Fatal(err)
	}

	for _, conn := range []*websocket.Conn{a, b} {
		ev := readEvent(t, conn)
		expectType(t, ev, TypeTwist)
		if ev.Twist != "R" || ev.Quarters != 3 || ev.MoveCount != 1 || ev.Solved {
			t.Errorf("twist event = %+v", ev)
		}
	}

	// Late joiners see the cube as it is now.
	c := dial(t, srv)
	ev := readEvent(t, c)
	expectType(t, ev, TypeState)
	if ev.Fingerprint != cube.FingerprintHex() || ev.MoveCount != 1 {
		t.Errorf("late state = %+v", ev)
	}
}

func TestShuffleAndPhaseEvents(t *testing.T) {
	hub, cube, srv := newTestHub(t)
	conn := dial(t, srv)
	waitClients(t, hub, 1)
	readEvent(t, conn)

	cube.Shuffle(1, "U")
	cube.Settle()

	expectType(t, readEvent(t, conn), TypeTwist)
	ev := readEvent(t, conn)
	expectType(t, ev, TypeShuffle)
	if ev.Net != cube.String() {
		t.Errorf("shuffle net = %q", ev.Net)
	}

	if err := cube.Apply("u"); err != nil {
		t.Fatal(err)
	}
	expectType(t, readEvent(t, conn), TypeTwist)
	ev = readEvent(t, conn)
	expectType(t, ev, TypePhase)
	if ev.Phase != "solved" || !ev.Solved {
		t.Errorf("phase event = %+v", ev)
	}
}

func TestCommandsFromClients(t *testing.T) {
	hub, _, srv := newTestHub(t)
	conn := dial(t, srv)
	waitClients(t, hub, 1)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatal(err)
	}
	want := Command{Type: CommandTwist, Notation: "R U"}
	if err := conn.WriteJSON(want); err != nil {
		t.Fatal(err)
	}

	select {
	case cmd := <-hub.Commands():
		if !reflect.DeepEqual(cmd, want) {
			t.Errorf("command = %+v, want %+v", cmd, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no command received")
	}
}

func TestCloseDisconnectsClients(t *testing.T) {
	hub, _, srv := newTestHub(t)
	conn := dial(t, srv)
	waitClients(t, hub, 1)
	readEvent(t, conn)

	hub.Close()
	if n := hub.ClientCount(); n != 0 {
		t.Errorf("%d clients after Close", n)
	}
	if err := hub.Broadcast(Event{Type: TypeState}); !errors.Is(err, ErrClosed) {
		t.Errorf("Broadcast after Close: err = %v", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatal(err)
	}
	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
		t.Errorf("read after Close: %v", err)
	}
}

func TestClientDisconnectIsNoticed(t *testing.T) {
	hub, _, srv := newTestHub(t)
	conn := dial(t, srv)
	waitClients(t, hub, 1)

	if err := conn.Close(); err != nil {
		t.Fatal(err)
	}
	waitClients(t, hub, 0)
}
