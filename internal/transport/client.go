package transport

import (
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mirshard/server/internal/protocol"
	"go.uber.org/zap"
)

// ErrorKind classifies why a ClientTransport disconnected.
type ErrorKind int

const (
	ErrorConnectFailed ErrorKind = iota
	ErrorReadError
	ErrorWriteError
	ErrorHeartbeatTimeout
)

// ClientTransport owns one TCP connection to the server. Connect is
// asynchronous: OnConnect or OnDisconnect fires from a background
// goroutine, never from the caller's Update() call, mirroring §4.B's
// async connect contract.
type ClientTransport struct {
	addr string
	log  *zap.Logger

	mu     sync.Mutex
	conn   net.Conn
	closed atomic.Bool

	sendSeq atomic.Uint32
	recvSeq atomic.Uint32

	recvQueue chan Frame
	sendMu    sync.Mutex // serializes writes: a single write is in-flight at a time

	OnConnect    func()
	OnDisconnect func(ErrorKind)

	heartbeatEvery time.Duration
	deadAfter      time.Duration
	lastRecv       atomic.Int64 // unix nano
	lastHeartbeat  atomic.Int64 // unix nano send time
	rtt            atomic.Int64 // nanoseconds

	reconnect      bool
	reconnectDelay time.Duration
	reconnectMax   time.Duration

	stopCh chan struct{}
}

func NewClientTransport(addr string, log *zap.Logger) *ClientTransport {
	return &ClientTransport{
		addr:           addr,
		log:            log,
		recvQueue:      make(chan Frame, 256),
		heartbeatEvery: 5 * time.Second,
		deadAfter:      15 * time.Second,
		reconnectDelay: 500 * time.Millisecond,
		reconnectMax:   30 * time.Second,
		stopCh:         make(chan struct{}),
	}
}

// Connect dials asynchronously; OnConnect/OnDisconnect fire from the dial
// goroutine once the outcome is known.
func (c *ClientTransport) Connect() {
	go c.dial()
}

func (c *ClientTransport) dial() {
	conn, err := net.DialTimeout("tcp", c.addr, 10*time.Second)
	if err != nil {
		c.log.Warn("connect failed", zap.Error(err))
		if c.OnDisconnect != nil {
			c.OnDisconnect(ErrorConnectFailed)
		}
		c.maybeReconnect()
		return
	}
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	c.closed.Store(false)
	c.lastRecv.Store(time.Now().UnixNano())

	go c.readLoop(conn)
	go c.heartbeatLoop(conn)

	if c.OnConnect != nil {
		c.OnConnect()
	}
}

func (c *ClientTransport) maybeReconnect() {
	if !c.reconnect {
		return
	}
	delay := c.reconnectDelay
	go func() {
		time.Sleep(delay)
		select {
		case <-c.stopCh:
			return
		default:
		}
		c.Connect()
	}()
}

// EnableReconnect turns on auto-reconnect after a disconnect. Every attempt
// waits the same initial delay; max is stored but the delay does not grow.
func (c *ClientTransport) EnableReconnect(initial, max time.Duration) {
	c.reconnect = true
	c.reconnectDelay = initial
	c.reconnectMax = max
}

// Send writes a frame on the caller's goroutine. Calls after a disconnect drop
// silently until the next successful Connect, per §4.B failure semantics.
func (c *ClientTransport) Send(msgID protocol.MsgID, payload []byte) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil || c.closed.Load() {
		return
	}
	seq := uint16(c.sendSeq.Add(1))
	frame, err := protocol.Encode(protocol.Header{MsgID: uint16(msgID), Sequence: seq}, payload)
	if err != nil {
		c.log.Warn("encode failed", zap.Error(err))
		return
	}
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if _, err := conn.Write(frame); err != nil {
		c.log.Debug("write failed", zap.Error(err))
		c.disconnect(ErrorWriteError)
	}
}

func (c *ClientTransport) readLoop(conn net.Conn) {
	header := make([]byte, protocol.HeaderSize)
	for {
		if _, err := io.ReadFull(conn, header); err != nil {
			c.disconnect(ErrorReadError)
			return
		}
		h, err := protocol.DecodeHeader(header)
		if err != nil {
			c.log.Warn("protocol violation from server", zap.Error(err))
			c.disconnect(ErrorReadError)
			return
		}
		payload := make([]byte, h.PayloadLen)
		if h.PayloadLen > 0 {
			if _, err := io.ReadFull(conn, payload); err != nil {
				c.disconnect(ErrorReadError)
				return
			}
		}
		c.lastRecv.Store(time.Now().UnixNano())
		select {
		case c.recvQueue <- Frame{Header: h, Payload: payload}:
		default:
			c.log.Warn("receive queue full, dropping frame")
		}
	}
}

func (c *ClientTransport) heartbeatLoop(conn net.Conn) {
	ticker := time.NewTicker(c.heartbeatEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if time.Since(time.Unix(0, c.lastRecv.Load())) > c.deadAfter {
				c.disconnect(ErrorHeartbeatTimeout)
				return
			}
			c.lastHeartbeat.Store(time.Now().UnixNano())
			c.Send(protocol.MsgHeartbeatReq, nil)
		case <-c.stopCh:
			return
		}
	}
}

// OnHeartbeatRsp updates RTT tracking; call this from the handler bound to
// MsgHeartbeatRsp.
func (c *ClientTransport) OnHeartbeatRsp() {
	sent := c.lastHeartbeat.Load()
	if sent == 0 {
		return
	}
	c.rtt.Store(time.Now().UnixNano() - sent)
}

// RTT returns the most recently measured round-trip time.
func (c *ClientTransport) RTT() time.Duration {
	return time.Duration(c.rtt.Load())
}

func (c *ClientTransport) disconnect(kind ErrorKind) {
	if c.closed.Swap(true) {
		return // idempotent: only the first detector fires on_disconnect
	}
	c.mu.Lock()
	if c.conn != nil {
		c.conn.Close()
	}
	c.mu.Unlock()
	if c.OnDisconnect != nil {
		c.OnDisconnect(kind)
	}
	c.maybeReconnect()
}

// Update drains the receive queue on the caller's thread, invoking fn for
// each frame in wire order. fn never runs concurrently with caller code.
func (c *ClientTransport) Update(fn func(Frame)) {
	for {
		select {
		case frame := <-c.recvQueue:
			fn(frame)
		default:
			return
		}
	}
}

func (c *ClientTransport) Close() {
	close(c.stopCh)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		c.conn.Close()
	}
}

func (c *ClientTransport) String() string {
	return fmt.Sprintf("ClientTransport(%s)", c.addr)
}
