// Package mon exposes the running chaser over HTTP: a websocket stream of
// level/step frames and a JSON health endpoint. It only reads snapshots of
// the shared state; the two core tasks never wait on it.
package mon

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/example/ledchase/internal/pwm"
)

type Server struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]bool

	state   *pwm.State
	cycles  func() uint64
	pattern string
	start   time.Time
	log     zerolog.Logger
}

func New(state *pwm.State, cycles func() uint64, pattern string, log zerolog.Logger) *Server {
	return &Server{
		clients: map[*websocket.Conn]bool{},
		state:   state,
		cycles:  cycles,
		pattern: pattern,
		start:   time.Now(),
		log:     log,
	}
}

// Routes registers the monitor endpoints on mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/health", s.handleHealth)
}

type stepJSON struct {
	Length uint8 `json:"length"`
	Mask   uint8 `json:"mask"`
}

type frameJSON struct {
	T      int64      `json:"t"`
	Cycles uint64     `json:"cycles"`
	Levels []uint8    `json:"levels"`
	Steps  []stepJSON `json:"steps"`
}

// Broadcast pushes a frame to all connected clients every interval until the
// context is cancelled.
func (s *Server) Broadcast(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.broadcastFrame()
		}
	}
}

func (s *Server) broadcastFrame() {
	s.mu.RLock()
	n := len(s.clients)
	s.mu.RUnlock()
	if n == 0 {
		return
	}

	levels := s.state.Levels()
	table := s.state.Snapshot()
	f := frameJSON{
		T:      time.Now().UnixNano(),
		Cycles: s.cycles(),
		Levels: levels[:],
		Steps:  make([]stepJSON, len(table)),
	}
	for i, st := range table {
		f.Steps[i] = stepJSON{Length: st.Length, Mask: st.Mask}
	}
	b, _ := json.Marshal(f)

	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.clients {
		c.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			s.log.Debug().Err(err).Msg("write frame")
		}
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.clients, conn)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"uptime_s": time.Since(s.start).Seconds(),
		"cycles":   s.cycles(),
		"pattern":  s.pattern,
		"channels": pwm.NumChannels,
	}
	_ = json.NewEncoder(w).Encode(resp)
}
