package feed

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"slam_viewer/num"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server accepts publisher connections and applies their batches to
// World. Every connection is greeted with its client id.
type Server[N num.Number] struct {
	World *World[N]
	log   *slog.Logger

	clients map[int]*websocket.Conn
	idGen   int
	lock    sync.Mutex
}

func NewServer[N num.Number](world *World[N], log *slog.Logger) *Server[N] {
	if log == nil {
		log = slog.Default()
	}
	return &Server[N]{
		World:   world,
		log:     log,
		clients: make(map[int]*websocket.Conn),
	}
}

func (s *Server[N]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("feed upgrade", "err", err)
		return
	}

	s.lock.Lock()
	id := s.idGen
	s.idGen++
	s.clients[id] = conn
	s.lock.Unlock()

	defer func() {
		s.lock.Lock()
		delete(s.clients, id)
		s.lock.Unlock()
		conn.Close()
		s.log.Info("feed client left", "client", id)
	}()

	s.log.Info("feed client joined", "client", id, "remote", r.RemoteAddr)
	if err := conn.WriteMessage(websocket.TextMessage, []byte(strconv.Itoa(id))); err != nil {
		return
	}

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil || mt == websocket.CloseMessage {
			return
		}
		if mt != websocket.BinaryMessage {
			continue
		}
		if err := s.handle(message); err != nil {
			s.log.Warn("feed batch rejected", "client", id, "err", err)
		}
	}
}

func (s *Server[N]) handle(message []byte) error {
	b, err := DecodeBatch[N](message)
	if err != nil {
		return err
	}
	return s.World.Apply(b)
}

// Clients is the number of connected publishers.
func (s *Server[N]) Clients() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.clients)
}

// ListenAndServe serves the feed on addr until ctx is done.
func (s *Server[N]) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return errors.Wrap(err, "feed server")
	case <-ctx.Done():
	}

	shutdown, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.closeClients()
	return errors.Wrap(srv.Shutdown(shutdown), "feed shutdown")
}

func (s *Server[N]) closeClients() {
	s.lock.Lock()
	defer s.lock.Unlock()
	for _, conn := range s.clients {
		conn.Close()
	}
}
