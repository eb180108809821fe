package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"disp32x8-server/internal/display/domain"
	"disp32x8-server/internal/display/usecases"
)

const (
	_ackToken          = "Ack"
	_defaultAckTimeout = 20 * time.Second
	_maxReplySize      = 1024

	// how long a write waits for datagrams already queued before sending
	_drainWindow = time.Millisecond
)

func NewDialer(ackTimeout time.Duration) *Dialer {
	if ackTimeout <= 0 {
		ackTimeout = _defaultAckTimeout
	}
	return &Dialer{ackTimeout: ackTimeout}
}

var _ usecases.BoardDialer = (*Dialer)(nil)

type Dialer struct {
	ackTimeout time.Duration
}

// Dial opens a UDP socket connected to the device board, so only datagrams
// sent from the board endpoint are read back.
func (d *Dialer) Dial(device domain.Device) (usecases.Board, error) {
	addr, err := net.ResolveUDPAddr("udp", device.Endpoint())
	if err != nil {
		return nil, fmt.Errorf("resolving board address %s: %w", device.Endpoint(), err)
	}

	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("opening udp socket to %s: %w", addr, err)
	}

	slog.Info("board session open",
		slog.Int("device_id", int(device.ID)),
		slog.String("local", conn.LocalAddr().String()),
		slog.String("remote", addr.String()),
	)

	return &Session{
		conn:       conn,
		remote:     addr,
		ackTimeout: d.ackTimeout,
		reply:      make([]byte, _maxReplySize),
	}, nil
}

var _ usecases.Board = (*Session)(nil)

// Session is a datagram session with one board. Writes are serialized and
// the board answers datagrams in order, so a reply that arrives after its
// write timed out is discarded instead of being credited to a later write.
type Session struct {
	mu         sync.Mutex
	conn       *net.UDPConn
	remote     *net.UDPAddr
	ackTimeout time.Duration
	reply      []byte

	// replies still owed for writes that timed out
	overdue int
}

func (s *Session) LocalAddr() net.Addr {
	return s.conn.LocalAddr()
}

func (s *Session) Write(ctx context.Context, payload string) (domain.AckStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.drain()

	slog.Debug("sending payload to board",
		slog.String("remote", s.remote.String()),
		slog.String("payload", strings.TrimRight(payload, "\n")),
	)

	if _, err := s.conn.Write([]byte(payload)); err != nil {
		return "", fmt.Errorf("sending payload to %s: %w", s.remote, err)
	}

	deadline := time.Now().Add(s.ackTimeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := s.conn.SetReadDeadline(deadline); err != nil {
		return "", fmt.Errorf("setting read deadline: %w", err)
	}

	lateSeen := false
	for {
		n, err := s.conn.Read(s.reply)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				// a write that already consumed a late reply is not owed one
				if !lateSeen {
					s.overdue++
				}
				return domain.AckTimeout, nil
			}
			return "", fmt.Errorf("reading board reply: %w", err)
		}

		answer := string(s.reply[:n])
		if s.overdue > 0 {
			s.overdue--
			lateSeen = true
			s.discard(answer)
			continue
		}

		slog.Debug("answer from board",
			slog.String("remote", s.remote.String()),
			slog.String("answer", strings.TrimRight(answer, "\r\n")),
		)
		if strings.Contains(answer, _ackToken) {
			return domain.AckReceived, nil
		}
		return domain.AckRejected, nil
	}
}

// drain discards datagrams that arrived since the previous write.
func (s *Session) drain() {
	if err := s.conn.SetReadDeadline(time.Now().Add(_drainWindow)); err != nil {
		return
	}

	for {
		n, err := s.conn.Read(s.reply)
		if err != nil {
			return
		}
		if s.overdue > 0 {
			s.overdue--
		}
		s.discard(string(s.reply[:n]))
	}
}

func (s *Session) discard(answer string) {
	slog.Debug("discarding late answer from board",
		slog.String("remote", s.remote.String()),
		slog.String("answer", strings.TrimRight(answer, "\r\n")),
	)
}

func (s *Session) Close() error {
	return s.conn.Close()
}
