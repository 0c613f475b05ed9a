// Package transport provides the server-side Listener/Session pair and the
// client-side ClientTransport, both built on the V2 framed protocol.
//
// Grounded on the teacher's internal/net/server.go and internal/net/session.go:
// same accept-loop-pushes-onto-channel shape, same per-session read/write
// goroutine split with InQueue/OutQueue channels, same close-once semantics.
// Framing is swapped from the teacher's 2-byte-length L1J frame + XOR cipher
// to the V2 16-byte header (no cipher — payload verification replaces it),
// and each outgoing frame carries a monotonically increasing sequence number
// per §4.B/§5's ordering invariant.
package transport

import (
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"github.com/mirshard/server/internal/protocol"
	"go.uber.org/zap"
)

// Frame pairs a decoded header with its payload bytes, as delivered to the
// game loop via Session.InQueue.
type Frame struct {
	Header  protocol.Header
	Payload []byte
}

// Session represents one client connection. Network I/O runs in dedicated
// goroutines; InQueue is drained only by the tick loop, never concurrently.
type Session struct {
	ID   uint64
	conn net.Conn

	sendSeq atomic.Uint32
	recvSeq atomic.Uint32

	InQueue  chan Frame
	OutQueue chan []byte

	IP string

	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool

	log *zap.Logger
}

func NewSession(conn net.Conn, id uint64, inSize, outSize int, log *zap.Logger) *Session {
	return &Session{
		ID:       id,
		conn:     conn,
		InQueue:  make(chan Frame, inSize),
		OutQueue: make(chan []byte, outSize),
		IP:       conn.RemoteAddr().String(),
		closeCh:  make(chan struct{}),
		log:      log.With(zap.Uint64("session", id)),
	}
}

func (s *Session) Start() {
	go s.readLoop()
	go s.writeLoop()
}

// Send frames and queues msg_id/payload for the write goroutine. Queueing is
// non-blocking: a slow client that fills OutQueue is disconnected rather
// than allowed to apply backpressure to the tick loop.
func (s *Session) Send(msgID protocol.MsgID, payload []byte) {
	if s.closed.Load() {
		return
	}
	seq := uint16(s.sendSeq.Add(1))
	frame, err := protocol.Encode(protocol.Header{
		MsgID:    uint16(msgID),
		Sequence: seq,
	}, payload)
	if err != nil {
		s.log.Warn("encode failed", zap.Error(err))
		return
	}
	select {
	case s.OutQueue <- frame:
	default:
		s.log.Warn("outbound queue full, disconnecting")
		s.Close()
	}
}

// SendJSON is Send with the JSON payload flag set, for the NPC message area.
func (s *Session) SendJSON(msgID protocol.MsgID, payload []byte) {
	if s.closed.Load() {
		return
	}
	seq := uint16(s.sendSeq.Add(1))
	frame, err := protocol.Encode(protocol.Header{
		MsgID:    uint16(msgID),
		Sequence: seq,
		Flags:    protocol.FlagJSON,
	}, payload)
	if err != nil {
		s.log.Warn("encode failed", zap.Error(err))
		return
	}
	select {
	case s.OutQueue <- frame:
	default:
		s.log.Warn("outbound queue full, disconnecting")
		s.Close()
	}
}

func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.closeCh)
		s.conn.Close()
	})
}

func (s *Session) IsClosed() bool { return s.closed.Load() }

func (s *Session) readLoop() {
	defer s.Close()

	header := make([]byte, protocol.HeaderSize)
	for {
		select {
		case <-s.closeCh:
			return
		default:
		}

		if _, err := io.ReadFull(s.conn, header); err != nil {
			if !s.closed.Load() {
				s.log.Debug("header read failed", zap.Error(err))
			}
			return
		}
		h, err := protocol.DecodeHeader(header)
		if err != nil {
			s.log.Warn("protocol violation, dropping connection", zap.Error(err))
			return
		}

		payload := make([]byte, h.PayloadLen)
		if h.PayloadLen > 0 {
			if _, err := io.ReadFull(s.conn, payload); err != nil {
				if !s.closed.Load() {
					s.log.Debug("payload read failed", zap.Error(err))
				}
				return
			}
		}

		// Sequence gap is a protocol error per the monotonic recv_seq
		// invariant: reject rather than silently accept out-of-order data.
		expected := s.recvSeq.Load() + 1
		if uint32(h.Sequence) != expected && s.recvSeq.Load() != 0 {
			s.log.Warn("sequence gap, dropping connection",
				zap.Uint32("expected", expected), zap.Uint16("got", h.Sequence))
			return
		}
		s.recvSeq.Store(uint32(h.Sequence))

		select {
		case s.InQueue <- Frame{Header: h, Payload: payload}:
		case <-s.closeCh:
			return
		}
	}
}

func (s *Session) writeLoop() {
	defer s.Close()
	for {
		select {
		case frame := <-s.OutQueue:
			if _, err := s.conn.Write(frame); err != nil {
				if !s.closed.Load() {
					s.log.Debug("write failed", zap.Error(err))
				}
				return
			}
		case <-s.closeCh:
			return
		}
	}
}

// Listener accepts TCP connections and hands back Sessions over a channel,
// mirroring the teacher's Server/AcceptLoop split.
type Listener struct {
	listener net.Listener
	nextID   atomic.Uint64
	newConns chan *Session
	inSize   int
	outSize  int
	log      *zap.Logger
	closeCh  chan struct{}
}

func NewListener(bindAddr string, inSize, outSize int, log *zap.Logger) (*Listener, error) {
	ln, err := net.Listen("tcp", bindAddr)
	if err != nil {
		return nil, fmt.Errorf("transport: listen %s: %w", bindAddr, err)
	}
	return &Listener{
		listener: ln,
		newConns: make(chan *Session, 64),
		inSize:   inSize,
		outSize:  outSize,
		log:      log,
		closeCh:  make(chan struct{}),
	}, nil
}

func (l *Listener) AcceptLoop() {
	for {
		conn, err := l.listener.Accept()
		if err != nil {
			select {
			case <-l.closeCh:
				return
			default:
			}
			l.log.Error("accept failed", zap.Error(err))
			continue
		}
		id := l.nextID.Add(1)
		sess := NewSession(conn, id, l.inSize, l.outSize, l.log)
		sess.Start()
		l.log.Info("client connected", zap.Uint64("session", id), zap.String("ip", sess.IP))

		select {
		case l.newConns <- sess:
		default:
			l.log.Warn("new-connection queue full, rejecting")
			sess.Close()
		}
	}
}

func (l *Listener) NewSessions() <-chan *Session { return l.newConns }

func (l *Listener) Shutdown() {
	close(l.closeCh)
	l.listener.Close()
}

func (l *Listener) Addr() net.Addr { return l.listener.Addr() }
