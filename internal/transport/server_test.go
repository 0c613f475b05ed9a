package transport

import (
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/mirshard/server/internal/protocol"
	"go.uber.org/zap"
)

func newPipeSession(t *testing.T, inSize, outSize int) (*Session, net.Conn) {
	t.Helper()
	server, client := net.Pipe()
	sess := NewSession(server, 1, inSize, outSize, zap.NewNop())
	sess.Start()
	t.Cleanup(func() { sess.Close(); client.Close() })
	return sess, client
}

func writeFrame(t *testing.T, conn net.Conn, seq uint16, payload []byte) {
	t.Helper()
	frame, err := protocol.Encode(protocol.Header{MsgID: uint16(protocol.MsgLoginReq), Sequence: seq}, payload)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := conn.Write(frame); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestSessionAcceptsInOrderSequence(t *testing.T) {
	sess, client := newPipeSession(t, 4, 4)

	writeFrame(t, client, 1, []byte("a"))
	writeFrame(t, client, 2, []byte("b"))

	for i, want := range []string{"a", "b"} {
		select {
		case f := <-sess.InQueue:
			if string(f.Payload) != want {
				t.Fatalf("frame %d: got %q, want %q", i, f.Payload, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("frame %d: timed out waiting for InQueue", i)
		}
	}
}

func TestSessionDropsConnectionOnSequenceGap(t *testing.T) {
	sess, client := newPipeSession(t, 4, 4)

	writeFrame(t, client, 1, []byte("a"))
	select {
	case <-sess.InQueue:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for first frame")
	}

	// Sequence jumps from 1 to 3: the readLoop must treat this as a
	// protocol violation and close the session rather than deliver it.
	writeFrame(t, client, 3, []byte("c"))

	deadline := time.Now().Add(2 * time.Second)
	for !sess.IsClosed() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if !sess.IsClosed() {
		t.Fatal("expected session closed after sequence gap")
	}
}

func TestSessionRejectsBadMagic(t *testing.T) {
	sess, client := newPipeSession(t, 4, 4)

	bad := make([]byte, protocol.HeaderSize)
	binary.LittleEndian.PutUint32(bad[0:4], 0xDEADBEEF)
	if _, err := client.Write(bad); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for !sess.IsClosed() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if !sess.IsClosed() {
		t.Fatal("expected session closed on invalid magic")
	}
}

func TestSessionSendDisconnectsOnFullOutQueue(t *testing.T) {
	sess, _ := newPipeSession(t, 4, 1)

	// writeLoop drains OutQueue concurrently, so racing it to fill the
	// queue isn't reliable with a live pipe; instead fill it directly.
	sess.OutQueue <- []byte("placeholder")

	for i := 0; i < 8; i++ {
		sess.Send(protocol.MsgLoginReq, []byte("x"))
	}

	deadline := time.Now().Add(2 * time.Second)
	for !sess.IsClosed() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if !sess.IsClosed() {
		t.Fatal("expected session closed once OutQueue saturated")
	}
}

func TestSessionSendNoopsAfterClose(t *testing.T) {
	sess, _ := newPipeSession(t, 4, 4)
	sess.Close()

	// Must not panic or block on a closed connection.
	sess.Send(protocol.MsgLoginReq, []byte("x"))
}

func TestListenerAcceptLoopDeliversSessions(t *testing.T) {
	ln, err := NewListener("127.0.0.1:0", 4, 4, zap.NewNop())
	if err != nil {
		t.Fatalf("NewListener: %v", err)
	}
	defer ln.Shutdown()
	go ln.AcceptLoop()

	conn, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	select {
	case sess := <-ln.NewSessions():
		if sess == nil {
			t.Fatal("expected non-nil session")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for accepted session")
	}
}
