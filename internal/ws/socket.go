package ws

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/jonboulle/clockwork"
	"github.com/kiliankoe/ringdrop/internal/game"
	"github.com/kiliankoe/ringdrop/internal/timer"
	"github.com/rs/zerolog/log"
)

var ErrNoGame = errors.New("no game for connection")

// emitter is the part of socketio.Conn the game needs.
type emitter interface {
	Emit(event string, v ...interface{})
}

// Server gives every socket its own game.Machine. Connections never share a round.
type Server struct {
	clock  clockwork.Clock
	timing game.TimingConfig

	mu      sync.Mutex
	games   map[string]*session // socketID -> session
	started time.Time
}

type session struct {
	machine *game.Machine
	sched   *timer.Scheduler
}

func New(timing game.TimingConfig, clock clockwork.Clock) *Server {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Server{clock: clock, timing: timing, games: make(map[string]*session), started: clock.Now()}
}

// Mount attaches Socket.IO server with handlers to the given Gin engine.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)

	io.OnConnect("/", func(s socketio.Conn) error {
		if err := srv.open(s.ID(), s); err != nil {
			log.Error().Err(err).Str("sid", s.ID()).Msg("could not create game")
			return err
		}
		log.Info().Str("sid", s.ID()).Msg("socket connected")
		return nil
	})

	// game:trigger is every normalized player input (space, pointer, touch)
	io.OnEvent("/", "game:trigger", func(s socketio.Conn) map[string]any {
		r, err := srv.trigger(s.ID())
		if err != nil {
			return srv.err(s, "no_game", err.Error())
		}
		return map[string]any{"ok": true, "phase": string(r.Phase)}
	})

	io.OnEvent("/", "game:start", func(s socketio.Conn) map[string]any {
		r, err := srv.start(s.ID())
		if errors.Is(err, game.ErrRoundInProgress) {
			return srv.err(s, "round_in_progress", err.Error())
		}
		if err != nil {
			return srv.err(s, "no_game", err.Error())
		}
		return map[string]any{"ok": true, "roundId": r.ID}
	})

	io.OnEvent("/", "game:state", func(s socketio.Conn) map[string]any {
		r, err := srv.state(s.ID())
		if err != nil {
			return srv.err(s, "no_game", err.Error())
		}
		return statePayload(r)
	})

	io.OnError("/", func(s socketio.Conn, e error) {
		if s == nil {
			log.Error().Err(e).Msg("socket error")
			return
		}
		log.Error().Str("sid", s.ID()).Err(e).Msg("socket error")
	})
	io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		srv.close(s.ID())
		log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")
	})

	go func() {
		if err := io.Serve(); err != nil {
			log.Error().Err(err).Msg("socket.io server stopped")
		}
	}()

	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))
	return io
}

// Routes registers the small JSON API next to the socket.
func (srv *Server) Routes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ok":     true,
			"time":   srv.clock.Now().UTC(),
			"uptime": srv.clock.Since(srv.started).String(),
			"games":  srv.Games(),
		})
	})
	r.GET("/api/config", func(c *gin.Context) {
		c.JSON(http.StatusOK, timingPayload(srv.timing))
	})
}

// Games returns the number of connected games.
func (srv *Server) Games() int {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	return len(srv.games)
}

func (srv *Server) open(id string, e emitter) error {
	sched := timer.NewScheduler(srv.clock)
	m, err := game.NewMachine(srv.timing, srv.clock, sched, game.Multi(game.LogNotifier{}, &notifier{e: e, timing: srv.timing}))
	if err != nil {
		return err
	}

	srv.mu.Lock()
	if old := srv.games[id]; old != nil {
		old.machine.Close()
		old.sched.Stop()
	}
	srv.games[id] = &session{machine: m, sched: sched}
	srv.mu.Unlock()

	e.Emit("game:config", timingPayload(srv.timing))
	return nil
}

func (srv *Server) lookup(id string) (*game.Machine, error) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	s := srv.games[id]
	if s == nil {
		return nil, ErrNoGame
	}
	return s.machine, nil
}

func (srv *Server) trigger(id string) (game.Round, error) {
	m, err := srv.lookup(id)
	if err != nil {
		return game.Round{}, err
	}
	m.Trigger()
	return m.Snapshot(), nil
}

func (srv *Server) start(id string) (game.Round, error) {
	m, err := srv.lookup(id)
	if err != nil {
		return game.Round{}, err
	}
	if err := m.Start(); err != nil {
		return m.Snapshot(), err
	}
	return m.Snapshot(), nil
}

func (srv *Server) state(id string) (game.Round, error) {
	m, err := srv.lookup(id)
	if err != nil {
		return game.Round{}, err
	}
	return m.Snapshot(), nil
}

func (srv *Server) close(id string) {
	srv.mu.Lock()
	s := srv.games[id]
	delete(srv.games, id)
	srv.mu.Unlock()
	if s != nil {
		s.machine.Close()
		s.sched.Stop()
	}
}

func (srv *Server) err(s emitter, code, message string) map[string]any {
	s.Emit("error", map[string]any{"code": code, "message": message})
	return map[string]any{"error": message}
}
