package tick

import (
	"net"
	"testing"
	"time"

	"github.com/mirshard/server/internal/dispatch"
	"github.com/mirshard/server/internal/ecs"
	"github.com/mirshard/server/internal/protocol"
	"github.com/mirshard/server/internal/transport"
	"go.uber.org/zap"
)

func TestCleanupSystemFlushesDestroyQueue(t *testing.T) {
	world := ecs.NewWorld()
	e := world.CreateEntity()
	world.MarkForDestruction(e)

	sys := NewCleanupSystem(world)
	if sys.Phase() != PhaseCleanup {
		t.Fatalf("expected PhaseCleanup, got %v", sys.Phase())
	}
	if !world.Alive(e) {
		t.Fatal("entity should still be alive before the cleanup phase runs")
	}

	sys.Update(time.Millisecond)

	if world.Alive(e) {
		t.Fatal("expected entity destroyed after cleanup Update")
	}
}

func TestInputSystemDispatchesIncomingFrame(t *testing.T) {
	listener, err := transport.NewListener("127.0.0.1:0", 8, 8, zap.NewNop())
	if err != nil {
		t.Fatalf("NewListener: %v", err)
	}
	go listener.AcceptLoop()
	defer listener.Shutdown()

	conn, err := net.Dial("tcp", listener.Addr().String())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	dispatcher := dispatch.NewDispatcher(zap.NewNop())
	received := make(chan uint16, 1)
	dispatcher.RegisterHandler(0x1001, func(_ any, h protocol.Header, _ []byte) {
		received <- h.MsgID
	})

	sys := NewInputSystem(listener, dispatcher, nil, zap.NewNop())

	frame, err := protocol.Encode(protocol.Header{MsgID: 0x1001, Sequence: 1}, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := conn.Write(frame); err != nil {
		t.Fatalf("Write: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		sys.Update(0)
		select {
		case got := <-received:
			if got != 0x1001 {
				t.Fatalf("expected msg_id 0x1001, got 0x%x", got)
			}
			return
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
	t.Fatal("timed out waiting for the input system to dispatch the frame")
}

func TestInputSystemDropsDisconnectedSession(t *testing.T) {
	listener, err := transport.NewListener("127.0.0.1:0", 8, 8, zap.NewNop())
	if err != nil {
		t.Fatalf("NewListener: %v", err)
	}
	go listener.AcceptLoop()
	defer listener.Shutdown()

	conn, err := net.Dial("tcp", listener.Addr().String())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}

	dispatcher := dispatch.NewDispatcher(zap.NewNop())
	disconnected := make(chan struct{}, 1)
	sys := NewInputSystem(listener, dispatcher, func(*transport.Session) {
		disconnected <- struct{}{}
	}, zap.NewNop())

	// Drive a few updates to absorb the new session before closing it.
	for i := 0; i < 20; i++ {
		sys.Update(0)
		select {
		case <-disconnected:
			t.Fatal("onDisconnect fired before the connection was even closed")
		default:
		}
		time.Sleep(5 * time.Millisecond)
	}

	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		sys.Update(0)
		select {
		case <-disconnected:
			return
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
	t.Fatal("timed out waiting for onDisconnect to fire after the connection closed")
}
