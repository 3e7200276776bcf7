package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestMemo_ComputesOnce(t *testing.T) {
	t.Parallel()

	memo := NewMemo("Season", "2018", NewStore(0))
	var calls atomic.Int32

	compute := func(context.Context) (any, error) {
		calls.Add(1)
		return 42, nil
	}

	for i := 0; i < 3; i++ {
		v, err := memo.Get(context.Background(), "wins", compute)
		if err != nil {
			t.Fatalf("Get error: %v", err)
		}
		if v != 42 {
			t.Fatalf("unexpected value: %v", v)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("computed %d times, want 1", got)
	}
}

func TestMemo_SharedTierServesSiblingMemos(t *testing.T) {
	t.Parallel()

	shared := NewStore(0)
	first := NewMemo("Season", "2018", shared)
	second := NewMemo("Season", "2018", shared)
	var calls atomic.Int32

	compute := func(context.Context) (any, error) {
		calls.Add(1)
		return "derived", nil
	}

	if _, err := first.Get(context.Background(), "standings", compute); err != nil {
		t.Fatalf("first Get error: %v", err)
	}
	v, err := second.Get(context.Background(), "standings", compute)
	if err != nil {
		t.Fatalf("second Get error: %v", err)
	}
	if v != "derived" {
		t.Fatalf("unexpected value: %v", v)
	}

	// The second Memo reads the shared entry instead of recomputing.
	if got := calls.Load(); got != 1 {
		t.Fatalf("computed %d times, want 1", got)
	}
	if _, ok := shared.Get(context.Background(), "Season|2018|standings"); !ok {
		t.Fatal("composite key missing from the shared tier")
	}
}

func TestMemo_DistinctFingerprintsNeverCollide(t *testing.T) {
	t.Parallel()

	shared := NewStore(0)
	a := NewMemo("Season", "2018", shared)
	b := NewMemo("Season", "2019", shared)

	if _, err := a.Get(context.Background(), "wins", func(context.Context) (any, error) { return 10, nil }); err != nil {
		t.Fatalf("Get error: %v", err)
	}
	v, err := b.Get(context.Background(), "wins", func(context.Context) (any, error) { return 11, nil })
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if v != 11 {
		t.Fatalf("fingerprint collision: got %v", v)
	}
}

func TestMemo_ErrorsAreNeverCached(t *testing.T) {
	t.Parallel()

	memo := NewMemo("Season", "2018", NewStore(0))
	var calls atomic.Int32
	boom := errors.New("boom")

	if _, err := memo.Get(context.Background(), "wins", func(context.Context) (any, error) {
		calls.Add(1)
		return nil, boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	v, err := memo.Get(context.Background(), "wins", func(context.Context) (any, error) {
		calls.Add(1)
		return 7, nil
	})
	if err != nil {
		t.Fatalf("Get after failure: %v", err)
	}
	if v != 7 {
		t.Fatalf("unexpected value: %v", v)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("computed %d times, want 2", got)
	}
}

func TestMemo_EmptyFingerprintStaysLocal(t *testing.T) {
	t.Parallel()

	shared := NewStore(0)
	memo := NewMemo("Season", "", shared)
	var calls atomic.Int32

	compute := func(context.Context) (any, error) {
		calls.Add(1)
		return "local", nil
	}

	for i := 0; i < 2; i++ {
		if _, err := memo.Get(context.Background(), "wins", compute); err != nil {
			t.Fatalf("Get error: %v", err)
		}
	}

	// Local memoization still applies; the shared tier is untouched.
	if got := calls.Load(); got != 1 {
		t.Fatalf("computed %d times, want 1", got)
	}
	if shared.Len() != 0 {
		t.Fatalf("anonymous derivation leaked %d shared entries", shared.Len())
	}
}

func TestMemo_NilSharedStoreRecomputesAcrossMemos(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	compute := func(context.Context) (any, error) {
		calls.Add(1)
		return true, nil
	}

	for i := 0; i < 2; i++ {
		memo := NewMemo("Belt", "league", nil)
		if _, err := memo.Get(context.Background(), "history", compute); err != nil {
			t.Fatalf("Get error: %v", err)
		}
	}

	if got := calls.Load(); got != 2 {
		t.Fatalf("computed %d times, want one per Memo", got)
	}
}
