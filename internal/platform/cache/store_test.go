package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_UsesCachedValueAfterFirstLoad(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return "cached", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("first GetOrLoad error: %v", err)
	}
	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("second GetOrLoad error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_NeverCachesErrors(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	boom := errors.New("boom")

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return nil, boom
	}

	for i := 0; i < 2; i++ {
		if _, err := store.GetOrLoad(context.Background(), "k", loader); !errors.Is(err, boom) {
			t.Fatalf("call %d: expected boom, got %v", i, err)
		}
	}

	if got := calls.Load(); got != 2 {
		t.Fatalf("loader called %d times, want 2", got)
	}
	if store.Len() != 0 {
		t.Fatalf("failed load left %d entries behind", store.Len())
	}
}

func TestStore_TTLExpiresEntries(t *testing.T) {
	t.Parallel()

	store := NewStore(10 * time.Millisecond)
	store.Set(context.Background(), "k", "v")

	if _, ok := store.Get(context.Background(), "k"); !ok {
		t.Fatal("entry missing before its TTL elapsed")
	}

	time.Sleep(25 * time.Millisecond)
	if _, ok := store.Get(context.Background(), "k"); ok {
		t.Fatal("entry survived past its TTL")
	}
}

func TestStore_ZeroTTLMeansForever(t *testing.T) {
	t.Parallel()

	store := NewStore(0)
	store.Set(context.Background(), "k", "v")

	time.Sleep(15 * time.Millisecond)
	if _, ok := store.Get(context.Background(), "k"); !ok {
		t.Fatal("untimed entry expired")
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore(0)
	ctx := context.Background()
	store.Set(ctx, "Season|2018|view", 1)
	store.Set(ctx, "Season|2019|view", 2)
	store.Set(ctx, "Belt|league|history", 3)

	store.DeletePrefix(ctx, "Season|")

	if _, ok := store.Get(ctx, "Season|2018|view"); ok {
		t.Fatal("prefixed entry survived DeletePrefix")
	}
	if _, ok := store.Get(ctx, "Belt|league|history"); !ok {
		t.Fatal("unrelated entry dropped by DeletePrefix")
	}
	if store.Len() != 1 {
		t.Fatalf("store has %d entries, want 1", store.Len())
	}
}

func TestStore_FlushDropsEverything(t *testing.T) {
	t.Parallel()

	store := NewStore(0)
	ctx := context.Background()
	store.Set(ctx, "a", 1)
	store.Set(ctx, "b", 2)

	store.Flush(ctx)
	if store.Len() != 0 {
		t.Fatalf("store has %d entries after flush", store.Len())
	}
}

func TestStore_OverlongKeysSkipTheCache(t *testing.T) {
	t.Parallel()

	store := NewStore(0)
	ctx := context.Background()
	longKey := strings.Repeat("x", MaxKeyLength+1)

	store.Set(ctx, longKey, "v")
	if store.Len() != 0 {
		t.Fatal("overlong key was stored")
	}

	var calls atomic.Int32
	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return "fresh", nil
	}
	for i := 0; i < 2; i++ {
		if _, err := store.GetOrLoad(ctx, longKey, loader); err != nil {
			t.Fatalf("GetOrLoad error: %v", err)
		}
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("loader called %d times, want a fresh compute each time", got)
	}
}

func TestStore_DisabledRetainsNothing(t *testing.T) {
	t.Parallel()

	store := Disabled()
	ctx := context.Background()

	store.Set(ctx, "k", "v")
	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatal("disabled store returned a hit")
	}

	var calls atomic.Int32
	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return "fresh", nil
	}
	for i := 0; i < 3; i++ {
		v, err := store.GetOrLoad(ctx, "k", loader)
		if err != nil {
			t.Fatalf("GetOrLoad error: %v", err)
		}
		if got, _ := v.(string); got != "fresh" {
			t.Fatalf("unexpected value: %v", v)
		}
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("loader called %d times, want 3", got)
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
