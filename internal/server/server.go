// Package server streams cube snapshots to websocket clients and accepts
// face commands from them.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/SeamusWaldron/minicube"
)

// DefaultTick is the loop period when none is configured.
const DefaultTick = 50 * time.Millisecond

// CubeletView is one cubelet as sent to clients.
type CubeletView struct {
	Slot      int        `json:"slot"`
	Tag       string     `json:"tag"`
	Color     string     `json:"color"`
	Position  mgl64.Vec3 `json:"position"`
	Transform mgl64.Mat4 `json:"transform"`
}

// Snapshot is the cube state after a tick.
type Snapshot struct {
	State    string        `json:"state"`
	Face     string        `json:"face,omitempty"`
	Progress float64       `json:"progress"`
	Turns    int           `json:"turns"`
	Cubelets []CubeletView `json:"cubelets"`
}

// Message is the envelope written to websocket clients.
type Message struct {
	Type     string    `json:"type"`
	Snapshot *Snapshot `json:"snapshot,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// Command is what clients send to turn a face.
type Command struct {
	Face string `json:"face"`
}

// Option configures a Server.
type Option func(*Server)

// WithTick sets the loop period.
func WithTick(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.tick = d
		}
	}
}

// Server owns a Machine. Only the loop started by Run touches it.
type Server struct {
	machine  *minicube.Machine
	tick     time.Duration
	commands chan minicube.Face
	done     chan struct{}
	upgrader websocket.Upgrader

	clientsMu sync.RWMutex
	clients   map[*websocket.Conn]*sync.Mutex

	snapMu   sync.RWMutex
	snapshot Snapshot
}

// New creates a server for m. m must not be used elsewhere once Run starts.
func New(m *minicube.Machine, opts ...Option) *Server {
	s := &Server{
		machine:  m,
		tick:     DefaultTick,
		commands: make(chan minicube.Face, 16),
		done:     make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.snapshot = buildSnapshot(m)
	return s
}

// Snapshot returns the most recently published snapshot.
func (s *Server) Snapshot() Snapshot {
	s.snapMu.RLock()
	defer s.snapMu.RUnlock()
	return s.snapshot
}

// Handler returns the HTTP routes: /ws and /snapshot.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/snapshot", s.handleSnapshot)
	return mux
}

// Run drives the machine until ctx is cancelled. It must be called once.
func (s *Server) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	defer close(s.done)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case f := <-s.commands:
			if err := s.machine.Submit(f); err != nil {
				logrus.WithFields(logrus.Fields{
					"face":  f.String(),
					"state": s.machine.State().String(),
				}).WithError(err).Debug("command dropped")
				continue
			}
			s.publish()

		case <-ticker.C:
			before := s.machine.State()
			turns := s.machine.Turns()
			s.machine.Tick()
			if before == minicube.StateIdle && s.machine.State() == minicube.StateIdle && s.machine.Turns() == turns {
				continue
			}
			s.publish()
		}
	}
}

// ListenAndServe runs the loop and an HTTP server on addr until ctx is
// cancelled, then shuts the HTTP server down.
func ListenAndServe(ctx context.Context, addr string, s *Server) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	httpServer := &http.Server{Addr: addr, Handler: s.Handler()}

	loopDone := make(chan error, 1)
	go func() { loopDone <- s.Run(ctx) }()

	serveErr := make(chan error, 1)
	go func() {
		logrus.WithField("addr", addr).Info("server listening")
		serveErr <- httpServer.ListenAndServe()
	}()

	var err error
	select {
	case <-ctx.Done():
	case err = <-serveErr:
		cancel()
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
		logrus.WithError(shutdownErr).Warn("server shutdown")
	}
	s.closeClients()
	<-loopDone

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func (s *Server) publish() {
	snap := buildSnapshot(s.machine)
	s.snapMu.Lock()
	s.snapshot = snap
	s.snapMu.Unlock()
	s.broadcast(Message{Type: "snapshot", Snapshot: &snap})
}

func buildSnapshot(m *minicube.Machine) Snapshot {
	snap := Snapshot{
		State: m.State().String(),
		Turns: m.Turns(),
	}
	if turn, ok := m.ActiveTurn(); ok {
		snap.Face = turn.Face.Face.String()
		snap.Progress = turn.Fraction()
	}

	cubelets := m.Cubelets()
	snap.Cubelets = make([]CubeletView, 0, len(cubelets))
	for slot, c := range cubelets {
		snap.Cubelets = append(snap.Cubelets, CubeletView{
			Slot:      slot,
			Tag:       c.Tag,
			Color:     c.Color.Name(),
			Position:  c.Position,
			Transform: c.Transform,
		})
	}
	return snap
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.Snapshot()); err != nil {
		logrus.WithError(err).Warn("snapshot encode failed")
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	connMu := &sync.Mutex{}
	s.clientsMu.Lock()
	s.clients[conn] = connMu
	s.clientsMu.Unlock()
	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, conn)
		s.clientsMu.Unlock()
	}()

	log := logrus.WithField("remote", conn.RemoteAddr().String())
	log.Info("client connected")
	defer log.Info("client disconnected")

	snap := s.Snapshot()
	s.send(conn, connMu, Message{Type: "snapshot", Snapshot: &snap})

	for {
		var cmd Command
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("websocket read failed")
			}
			return
		}

		face, err := minicube.FaceByName(cmd.Face)
		if err != nil {
			s.send(conn, connMu, Message{Type: "error", Error: err.Error()})
			continue
		}

		select {
		case s.commands <- face:
		case <-s.done:
			return
		case <-r.Context().Done():
			return
		}
	}
}

func (s *Server) send(conn *websocket.Conn, mu *sync.Mutex, msg Message) error {
	mu.Lock()
	defer mu.Unlock()
	return conn.WriteJSON(msg)
}

func (s *Server) broadcast(msg Message) {
	var failed []*websocket.Conn

	s.clientsMu.RLock()
	for conn, mu := range s.clients {
		if err := s.send(conn, mu, msg); err != nil {
			logrus.WithError(err).Debug("websocket write failed")
			conn.Close()
			failed = append(failed, conn)
		}
	}
	s.clientsMu.RUnlock()

	if len(failed) > 0 {
		s.clientsMu.Lock()
		for _, conn := range failed {
			delete(s.clients, conn)
		}
		s.clientsMu.Unlock()
	}
}

// closeClients drops every websocket connection. Hijacked connections
// are not closed by http.Server.Shutdown.
func (s *Server) closeClients() {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	for conn, mu := range s.clients {
		mu.Lock()
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		mu.Unlock()
		conn.Close()
		delete(s.clients, conn)
	}
}
