package net

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// SessionConfig sizes a session's queues and sets its socket timeouts.
type SessionConfig struct {
	InSize       int
	OutSize      int
	ReadTimeout  time.Duration // idle console connections are dropped
	WriteTimeout time.Duration
}

// Session is one operator console connection. Network I/O runs in
// dedicated goroutines; everything else is accessed only from the game loop.
type Session struct {
	ID   uint64
	conn net.Conn
	IP   string

	InQueue  chan string // game loop reads command lines from here
	OutQueue chan string // writer goroutine reads from here

	outBuf []string // replies buffered until FlushOutput (game loop only)

	authRequired bool // game loop only
	authed       bool

	readTimeout  time.Duration
	writeTimeout time.Duration

	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool

	log *zap.Logger
}

func NewSession(conn net.Conn, id uint64, cfg SessionConfig, log *zap.Logger) *Session {
	return &Session{
		ID:           id,
		conn:         conn,
		IP:           conn.RemoteAddr().String(),
		InQueue:      make(chan string, cfg.InSize),
		OutQueue:     make(chan string, cfg.OutSize),
		readTimeout:  cfg.ReadTimeout,
		writeTimeout: cfg.WriteTimeout,
		closeCh:      make(chan struct{}),
		log:          log.With(zap.Uint64("session", id)),
	}
}

// Start launches the reader and writer goroutines.
func (s *Session) Start() {
	go s.readLoop()
	go s.writeLoop()
}

// Send buffers a reply line. It is not written until FlushOutput runs in
// the Output phase.
func (s *Session) Send(line string) {
	if s.closed.Load() {
		return
	}
	s.outBuf = append(s.outBuf, line)
}

func (s *Session) Sendf(format string, args ...any) {
	s.Send(fmt.Sprintf(format, args...))
}

// FlushOutput hands buffered replies to the writer goroutine. A client too
// slow to keep its OutQueue drained is disconnected.
func (s *Session) FlushOutput() {
	for _, line := range s.outBuf {
		select {
		case s.OutQueue <- line:
		default:
			s.log.Warn("output queue full, dropping slow console")
			s.Close()
			s.outBuf = s.outBuf[:0]
			return
		}
	}
	s.outBuf = s.outBuf[:0]
}

// RequireLogin makes every non-open command wait for a successful login.
func (s *Session) RequireLogin() { s.authRequired = true }

func (s *Session) Authorized() bool { return s.authed || !s.authRequired }

func (s *Session) Authorize() { s.authed = true }

// Pending returns how many replies are waiting for FlushOutput.
func (s *Session) Pending() int { return len(s.outBuf) }

func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.closeCh)
		s.conn.Close()
	})
}

func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// readLoop reads lines from the connection and pushes the non-blank ones onto
// InQueue for the game loop.
func (s *Session) readLoop() {
	defer s.Close()

	r := bufio.NewReaderSize(s.conn, MaxLineLen+2)
	for {
		if s.readTimeout > 0 {
			s.conn.SetReadDeadline(time.Now().Add(s.readTimeout))
		}
		line, err := ReadLine(r)
		if err != nil {
			if !s.closed.Load() {
				s.log.Debug("console read ended", zap.Error(err))
			}
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		select {
		case s.InQueue <- line:
		case <-s.closeCh:
			return
		}
	}
}

// writeLoop writes queued reply lines until the session closes.
func (s *Session) writeLoop() {
	defer s.Close()

	w := bufio.NewWriter(s.conn)
	for {
		select {
		case line := <-s.OutQueue:
			if !s.writeLine(w, line) {
				return
			}
			// batch whatever else is queued into one write
			for len(s.OutQueue) > 0 {
				if !s.writeLine(w, <-s.OutQueue) {
					return
				}
			}
			if s.writeTimeout > 0 {
				s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
			}
			if err := w.Flush(); err != nil {
				if !s.closed.Load() {
					s.log.Debug("console write failed", zap.Error(err))
				}
				return
			}
		case <-s.closeCh:
			return
		}
	}
}

func (s *Session) writeLine(w *bufio.Writer, line string) bool {
	if err := WriteLine(w, line); err != nil {
		if !s.closed.Load() {
			s.log.Debug("console write failed", zap.Error(err))
		}
		return false
	}
	return true
}
