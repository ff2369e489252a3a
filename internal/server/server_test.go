package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/SeamusWaldron/minicube"
)

func newTestServer(t *testing.T, steps int) (*Server, *httptest.Server) {
	t.Helper()
	m, err := minicube.NewMachine(minicube.WithSeed(42), minicube.WithAnimationSteps(steps))
	if err != nil {
		t.Fatalf("NewMachine failed: %v", err)
	}
	s := New(m, WithTick(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		cancel()
		<-done
	})
	return s, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	return msg
}

func TestSnapshotEndpoint(t *testing.T) {
	_, ts := newTestServer(t, 1)

	resp, err := http.Get(ts.URL + "/snapshot")
	if err != nil {
		t.Fatalf("GET /snapshot failed: %v", err)
	}
	defer resp.Body.Close()

	var snap Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if snap.State != "idle" {
		t.Errorf("state = %q, want idle", snap.State)
	}
	if len(snap.Cubelets) != minicube.SlotCount {
		t.Fatalf("got %d cubelets, want %d", len(snap.Cubelets), minicube.SlotCount)
	}
	for i, c := range snap.Cubelets {
		if c.Slot != i {
			t.Errorf("cubelet %d has slot %d", i, c.Slot)
		}
		if c.Transform[15] != 1 {
			t.Errorf("cubelet %d transform not homogeneous: %v", i, c.Transform)
		}
	}
}

func TestWebSocket_InitialSnapshot(t *testing.T) {
	_, ts := newTestServer(t, 1)
	conn := dial(t, ts)

	msg := readMessage(t, conn)
	if msg.Type != "snapshot" || msg.Snapshot == nil {
		t.Fatalf("first message = %+v, want snapshot", msg)
	}
	if msg.Snapshot.Turns != 0 {
		t.Errorf("turns = %d, want 0", msg.Snapshot.Turns)
	}
}

func TestWebSocket_FaceCommand(t *testing.T) {
	s, ts := newTestServer(t, 1)
	conn := dial(t, ts)
	readMessage(t, conn)

	if err := conn.WriteJSON(Command{Face: "top"}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	for {
		msg := readMessage(t, conn)
		if msg.Type != "snapshot" {
			t.Fatalf("unexpected message %+v", msg)
		}
		if msg.Snapshot.Turns == 1 && msg.Snapshot.State == "idle" {
			break
		}
	}

	if got := s.Snapshot().Turns; got != 1 {
		t.Errorf("published turns = %d, want 1", got)
	}
}

func TestWebSocket_UnknownFace(t *testing.T) {
	_, ts := newTestServer(t, 1)
	conn := dial(t, ts)
	readMessage(t, conn)

	if err := conn.WriteJSON(Command{Face: "middle"}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	msg := readMessage(t, conn)
	if msg.Type != "error" || msg.Error == "" {
		t.Errorf("got %+v, want error message", msg)
	}
}

func TestWebSocket_AnimatedTurnReportsProgress(t *testing.T) {
	_, ts := newTestServer(t, 4)
	conn := dial(t, ts)
	readMessage(t, conn)

	if err := conn.WriteJSON(Command{Face: "front"}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	sawRotating := false
	for {
		msg := readMessage(t, conn)
		snap := msg.Snapshot
		if snap.State == "rotating" {
			sawRotating = true
			if snap.Face != "front" {
				t.Errorf("face = %q, want front", snap.Face)
			}
			if snap.Progress < 0 || snap.Progress >= 1 {
				t.Errorf("progress = %v, want [0,1)", snap.Progress)
			}
		}
		if snap.Turns == 1 {
			break
		}
	}
	if !sawRotating {
		t.Error("never saw a rotating snapshot")
	}
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	m, err := minicube.NewMachine(minicube.WithSeed(1))
	if err != nil {
		t.Fatalf("NewMachine failed: %v", err)
	}
	s := New(m, WithTick(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- ListenAndServe(ctx, "127.0.0.1:0", s) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("ListenAndServe returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("ListenAndServe did not return after cancel")
	}
}
