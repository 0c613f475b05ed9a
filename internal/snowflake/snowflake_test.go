package snowflake

import "testing"

func TestNewGeneratorRejectsOutOfRangeWorkerID(t *testing.T) {
	if _, err := NewGenerator(-1); err == nil {
		t.Fatal("expected error for negative worker id")
	}
	if _, err := NewGenerator(maxWorkerID + 1); err == nil {
		t.Fatal("expected error for worker id above the 10-bit range")
	}
	if _, err := NewGenerator(maxWorkerID); err != nil {
		t.Fatalf("expected maxWorkerID to be accepted, got %v", err)
	}
}

func TestNextProducesMonotonicallyIncreasingIDs(t *testing.T) {
	g, err := NewGenerator(1)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	prev := g.Next()
	for i := 0; i < 1000; i++ {
		next := g.Next()
		if next <= prev {
			t.Fatalf("expected strictly increasing ids, got %d after %d", next, prev)
		}
		prev = next
	}
}

func TestNextPanicsOnClockRegression(t *testing.T) {
	g, err := NewGenerator(1)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	g.Next()
	g.lastMS = currentMillis() + 1_000_000 // simulate a future timestamp already observed

	defer func() {
		if recover() == nil {
			t.Fatal("expected Next to panic on clock regression")
		}
	}()
	g.Next()
}

func TestDifferentWorkerIDsAreEncodedDistinctly(t *testing.T) {
	g1, _ := NewGenerator(1)
	g2, _ := NewGenerator(2)

	id1 := g1.Next()
	id2 := g2.Next()

	w1 := (id1 >> workerShift) & maxWorkerID
	w2 := (id2 >> workerShift) & maxWorkerID
	if w1 == w2 {
		t.Fatalf("expected distinct worker-id bits, got %d and %d", w1, w2)
	}
}
