package dispatch

import (
	"testing"

	"github.com/mirshard/server/internal/protocol"
	"go.uber.org/zap"
)

func TestDispatchInvokesRegisteredHandler(t *testing.T) {
	d := NewDispatcher(zap.NewNop())
	var got protocol.Header
	d.RegisterHandler(0x1001, func(_ any, h protocol.Header, _ []byte) { got = h })

	if err := d.Dispatch(nil, protocol.Header{MsgID: 0x1001, Sequence: 5}, nil); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got.Sequence != 5 {
		t.Fatalf("expected handler invoked with sequence 5, got %d", got.Sequence)
	}
}

func TestRegisterHandlerOverridesPreviousBinding(t *testing.T) {
	d := NewDispatcher(zap.NewNop())
	calls := 0
	d.RegisterHandler(0x1001, func(_ any, _ protocol.Header, _ []byte) { calls += 1 })
	d.RegisterHandler(0x1001, func(_ any, _ protocol.Header, _ []byte) { calls += 100 })

	d.Dispatch(nil, protocol.Header{MsgID: 0x1001}, nil)
	if calls != 100 {
		t.Fatalf("expected only the later binding to run, got calls=%d", calls)
	}
}

func TestDispatchFallsBackToDefaultHandler(t *testing.T) {
	d := NewDispatcher(zap.NewNop())
	var seenID uint16
	d.RegisterDefault(func(_ any, h protocol.Header, _ []byte) { seenID = h.MsgID })

	d.Dispatch(nil, protocol.Header{MsgID: 0x9999}, nil)
	if seenID != 0x9999 {
		t.Fatalf("expected default handler invoked for unmatched id, got %d", seenID)
	}
}

func TestDispatchWithNoHandlerAndNoDefaultIsNotAnError(t *testing.T) {
	d := NewDispatcher(zap.NewNop())
	if err := d.Dispatch(nil, protocol.Header{MsgID: 0x1}, nil); err != nil {
		t.Fatalf("expected nil error for unmatched id with no default, got %v", err)
	}
}

func TestDispatchRecoversHandlerPanic(t *testing.T) {
	d := NewDispatcher(zap.NewNop())
	d.RegisterHandler(0x1001, func(_ any, _ protocol.Header, _ []byte) { panic("boom") })

	err := d.Dispatch(nil, protocol.Header{MsgID: 0x1001}, nil)
	if err == nil {
		t.Fatal("expected an error from a recovered panic")
	}
}
