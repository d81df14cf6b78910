package viewer

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/san-kum/rigid2d/internal/record"
	"github.com/san-kum/rigid2d/internal/scene"
)

// frameMessage is pushed to every viewer on each tick.
type frameMessage struct {
	Type  string       `json:"type"`
	Scene string       `json:"scene"`
	Frame record.Frame `json:"frame"`
}

// clientMessage is what viewers may send back.
type clientMessage struct {
	Type string `json:"type"`
}

type infoResponse struct {
	Scene   string   `json:"scene"`
	Dt      float64  `json:"dt"`
	Live    bool     `json:"live"`
	Bodies  []string `json:"bodies,omitempty"`
	Frames  int      `json:"frames,omitempty"`
	Viewers int      `json:"viewers"`
}

// Server streams frames over websockets: either a world stepped in
// real time or a prerecorded run looped at its own dt. Run is the only
// goroutine that touches the world; HTTP handlers work off immutable
// info captured at construction.
type Server struct {
	hub      *Hub
	upgrader websocket.Upgrader

	world  *scene.World // live mode, nil for replays
	frames []record.Frame
	info   infoResponse

	paused  atomic.Bool
	resetCh chan struct{}

	step    uint64
	elapsed float64
}

// NewLiveServer streams a built world. The server takes ownership:
// call Close once Run has returned.
func NewLiveServer(w *scene.World) *Server {
	s := newServer()
	s.world = w
	s.info = infoResponse{Scene: w.Scene.Name, Dt: w.Scene.Dt, Live: true, Bodies: w.BodyNames()}
	return s
}

// NewReplayServer loops a prerecorded run.
func NewReplayServer(sceneName string, dt float64, frames []record.Frame) *Server {
	s := newServer()
	s.frames = frames
	s.info = infoResponse{Scene: sceneName, Dt: dt, Frames: len(frames)}
	return s
}

func newServer() *Server {
	return &Server{
		hub: NewHub(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
		resetCh: make(chan struct{}, 1),
	}
}

// Run drives the stream until ctx is cancelled.
func (s *Server) Run(ctx context.Context) {
	dt := s.info.Dt
	if dt <= 0 {
		dt = 1.0 / 60.0
	}
	ticker := time.NewTicker(time.Duration(dt * float64(time.Second)))
	defer ticker.Stop()

	idx := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.resetCh:
			s.rewind(&idx)
		case <-ticker.C:
			if s.paused.Load() {
				continue
			}
			fr, ok := s.next(&idx)
			if !ok {
				continue
			}
			s.publish(fr)
		}
	}
}

func (s *Server) next(idx *int) (record.Frame, bool) {
	if s.world != nil {
		s.world.Step()
		s.step++
		s.elapsed += s.world.Scene.Dt
		return record.Capture(s.world.Space, s.step, s.elapsed), true
	}
	if len(s.frames) == 0 {
		return record.Frame{}, false
	}
	fr := s.frames[*idx]
	*idx = (*idx + 1) % len(s.frames)
	return fr, true
}

// rewind rebuilds the live world from its scene, or restarts a replay,
// and pushes the first frame straight away so paused viewers see it.
func (s *Server) rewind(idx *int) {
	*idx = 0
	if s.world == nil {
		if len(s.frames) > 0 {
			s.publish(s.frames[0])
			*idx = 1
		}
		return
	}
	nw, err := s.world.Scene.Build()
	if err != nil {
		log.Printf("reset failed: %v", err)
		return
	}
	s.world.Close()
	s.world = nw
	s.step = 0
	s.elapsed = 0
	s.publish(record.Capture(s.world.Space, 0, 0))
}

func (s *Server) publish(fr record.Frame) {
	data, err := json.Marshal(frameMessage{Type: "frame", Scene: s.info.Scene, Frame: fr})
	if err != nil {
		log.Printf("failed to marshal frame: %v", err)
		return
	}
	s.hub.Broadcast(data)
}

// Close releases the live world, if any. Only call it after Run has
// returned.
func (s *Server) Close() {
	if s.world != nil {
		s.world.Close()
	}
}

// Routes registers the viewer endpoints on mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/", s.IndexHandler())
	mux.HandleFunc("/info", s.InfoHandler())
	mux.HandleFunc("/health", s.HealthHandler())
	mux.HandleFunc("/ws", s.WSHandler())
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	}
}

func (s *Server) InfoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		resp := s.info
		resp.Viewers = s.hub.Count()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(indexHTML))
	}
}

func (s *Server) WSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		id := s.hub.Add(conn)
		defer s.hub.Remove(id)

		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var msg clientMessage
			if err := json.Unmarshal(payload, &msg); err != nil {
				log.Printf("discarding malformed message from viewer %d: %v", id, err)
				continue
			}
			switch msg.Type {
			case "pause":
				s.paused.Store(true)
			case "resume":
				s.paused.Store(false)
			case "reset":
				select {
				case s.resetCh <- struct{}{}:
				default:
				}
			default:
				log.Printf("unknown message type %q from viewer %d", msg.Type, id)
			}
		}
	}
}
