package ember

import (
	"log/slog"
	"net"
	"sync"

	"github.com/emberhttp/ember/config"
	"github.com/emberhttp/ember/counters"
	"github.com/emberhttp/ember/http/status"
)

// Server accepts connections and serves each on its own goroutine. Three
// independent locks guard three independent concerns: the server mutex covers
// the run flag and the listener, the connection mutex covers the in-flight
// connection count that shutdown waits on, and the stopped mutex covers the
// terminal stopped flag that Stop blocks on.
type Server struct {
	handler Handler
	cfg     config.Config
	log     *slog.Logger
	cnt     *counters.Counters

	// Tag is a free-form user field carried on the server handle, available
	// to handlers through Conn.Server().
	Tag any

	mu      sync.Mutex
	running bool
	ln      net.Listener

	connMu       sync.Mutex
	activeConns  int
	connFinished *sync.Cond

	stoppedMu   sync.Mutex
	stopped     bool
	stoppedCond *sync.Cond

	conns sync.Pool
}

type Option func(*Server)

// WithConfig replaces default limits and buffer sizes. Zero fields keep their
// defaults.
func WithConfig(cfg config.Config) Option {
	return func(s *Server) {
		s.cfg = config.Fill(cfg)
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// WithCounters attaches observational counters. Without this option the
// server counts nothing.
func WithCounters(cnt *counters.Counters) Option {
	return func(s *Server) {
		s.cnt = cnt
	}
}

func NewServer(h Handler, opts ...Option) *Server {
	s := &Server{
		handler: h,
		cfg:     config.Default(),
		log:     slog.Default(),
	}
	s.connFinished = sync.NewCond(&s.connMu)
	s.stoppedCond = sync.NewCond(&s.stoppedMu)

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ListenAndServe binds addr and serves until Stop. Blocks until shutdown is
// complete, all in-flight connections included.
func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	return s.Serve(ln)
}

// Serve accepts connections on the caller's goroutine until the listener
// fails or Stop closes it. It returns only after every in-flight connection
// has finished and the server has flipped to stopped.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.ln = ln
	s.running = true
	s.mu.Unlock()

	s.log.Info("listening for connections", "addr", ln.Addr().String())

	for {
		netConn, err := ln.Accept()
		if err != nil {
			s.mu.Lock()
			running := s.running
			s.mu.Unlock()
			if running {
				s.log.Error("exiting because accept failed", "err", err)
			}
			break
		}

		// incremented before the goroutine is spawned, so shutdown can never
		// observe a zero count while a connection is starting up
		s.connMu.Lock()
		s.activeConns++
		s.connMu.Unlock()

		s.cnt.ConnectionOpened()
		go s.serveConn(netConn)
	}

	s.connMu.Lock()
	for s.activeConns > 0 {
		s.connFinished.Wait()
	}
	s.connMu.Unlock()

	s.stoppedMu.Lock()
	s.stopped = true
	s.stoppedCond.Broadcast()
	s.stoppedMu.Unlock()

	s.log.Info("server stopped")

	return nil
}

// Stop closes the listener and blocks until the accept loop and every
// in-flight connection have finished. Stopping a server that was never
// started logs and no-ops; stopping one that has already stopped returns
// status.ErrAlreadyStopped without blocking.
func (s *Server) Stop() error {
	s.stoppedMu.Lock()
	alreadyStopped := s.stopped
	s.stoppedMu.Unlock()
	if alreadyStopped {
		return status.ErrAlreadyStopped
	}

	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		s.log.Warn("tried to stop a server that was never started, ignoring")
		return nil
	}
	s.running = false
	ln := s.ln
	s.mu.Unlock()

	if err := ln.Close(); err != nil {
		s.log.Warn("closing the listener failed", "err", err)
	}

	s.stoppedMu.Lock()
	for !s.stopped {
		s.stoppedCond.Wait()
	}
	s.stoppedMu.Unlock()

	return nil
}

// Counters returns the counters attached via WithCounters, possibly nil.
func (s *Server) Counters() *counters.Counters {
	return s.cnt
}

func (s *Server) serveConn(netConn net.Conn) {
	conn := s.acquireConn(netConn)
	conn.serve()

	// a hijacked connection object stays with the handler
	if !conn.hijacked {
		s.releaseConn(conn)
	}

	s.cnt.ConnectionClosed()

	s.connMu.Lock()
	s.activeConns--
	s.connFinished.Signal()
	s.connMu.Unlock()
}

func (s *Server) acquireConn(netConn net.Conn) *Conn {
	conn, ok := s.conns.Get().(*Conn)
	if !ok {
		conn = newConn(s)
	}
	conn.reset(netConn)

	return conn
}

func (s *Server) releaseConn(conn *Conn) {
	conn.release()
	s.conns.Put(conn)
}
