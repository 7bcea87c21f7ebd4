package pipeline

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync/atomic"
	"testing"
	"time"
)

func TestFromSlice_Collect(t *testing.T) {
	p := FromSlice([]int{1, 2, 3})
	got, err := Collect(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	want := []int{1, 2, 3}
	if !intSliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFromSlice_Empty(t *testing.T) {
	got, err := Collect(context.Background(), FromSlice([]int{}))
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestMap(t *testing.T) {
	p := FromSlice([]int{1, 2, 3})
	doubled := Map(p, func(_ context.Context, n int) (int, error) {
		return n * 2, nil
	})
	got, err := Collect(context.Background(), doubled)
	if err != nil {
		t.Fatal(err)
	}
	want := []int{2, 4, 6}
	if !intSliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMap_Error(t *testing.T) {
	p := FromSlice([]int{1, 2, 3})
	fail := Map(p, func(_ context.Context, n int) (int, error) {
		if n == 2 {
			return 0, errors.New("bad value")
		}
		return n, nil
	})
	got, err := Collect(context.Background(), fail)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("expected [1] before error, got %v", got)
	}
}

func TestMap_TypeConversion(t *testing.T) {
	p := FromSlice([]int{1, 2, 3})
	strs := Map(p, func(_ context.Context, n int) (string, error) {
		return strconv.Itoa(n), nil
	})
	got, err := Collect(context.Background(), strs)
	if err != nil {
		t.Fatal(err)
	}
	if !strSliceEqual(got, []string{"1", "2", "3"}) {
		t.Errorf("got %v", got)
	}
}

func TestParallel(t *testing.T) {
	p := FromSlice([]int{1, 2, 3, 4, 5})
	doubled := Parallel(p, 3, func(_ context.Context, n int) (int, error) {
		return n * 2, nil
	})
	got, err := Collect(context.Background(), doubled)
	if err != nil {
		t.Fatal(err)
	}
	sort.Ints(got) // order not guaranteed
	want := []int{2, 4, 6, 8, 10}
	if !intSliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParallel_Error(t *testing.T) {
	p := FromSlice([]int{1, 2, 3, 4, 5})
	failing := Parallel(p, 2, func(_ context.Context, n int) (int, error) {
		if n == 3 {
			return 0, errors.New("worker failed")
		}
		return n, nil
	})
	_, err := Collect(context.Background(), failing)
	if err == nil {
		t.Fatal("expected error from parallel worker")
	}
}

func TestParallelOrdered_PreservesOrder(t *testing.T) {
	items := make([]int, 50)
	for i := range items {
		items[i] = i
	}
	// Early items sleep longest so completion order is roughly reversed.
	out := ParallelOrdered(FromSlice(items), 8, func(_ context.Context, n int) (int, error) {
		time.Sleep(time.Duration(50-n) * 100 * time.Microsecond)
		return n * 10, nil
	})
	got, err := Collect(context.Background(), out)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(items) {
		t.Fatalf("expected %d results, got %d", len(items), len(got))
	}
	for i, v := range got {
		if v != i*10 {
			t.Fatalf("position %d: got %d, want %d", i, v, i*10)
		}
	}
}

func TestParallelOrdered_UsesWorkers(t *testing.T) {
	var active, peak atomic.Int32
	out := ParallelOrdered(FromSlice([]int{1, 2, 3, 4, 5, 6, 7, 8}), 4, func(_ context.Context, n int) (int, error) {
		cur := active.Add(1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		active.Add(-1)
		return n, nil
	})
	if _, err := Collect(context.Background(), out); err != nil {
		t.Fatal(err)
	}
	if peak.Load() > 4 {
		t.Errorf("expected at most 4 concurrent workers, saw %d", peak.Load())
	}
}

func TestParallelOrdered_Empty(t *testing.T) {
	out := ParallelOrdered(FromSlice([]string{}), 4, func(_ context.Context, s string) (string, error) {
		return s, nil
	})
	got, err := Collect(context.Background(), out)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
}

func TestParallelOrdered_Error(t *testing.T) {
	boom := errors.New("boom")
	out := ParallelOrdered(FromSlice([]int{1, 2, 3, 4}), 2, func(_ context.Context, n int) (int, error) {
		if n == 2 {
			return 0, boom
		}
		return n, nil
	})
	_, err := Collect(context.Background(), out)
	if !errors.Is(err, boom) {
		t.Fatalf("expected worker error, got %v", err)
	}
}

func TestContext_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Collect(ctx, FromSlice([]int{1, 2, 3}))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestEnumerate(t *testing.T) {
	got, err := Collect(context.Background(), enumerate(FromSlice([]string{"a", "b", "c"})))
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range got {
		if v.pos != i {
			t.Errorf("item %q: pos %d, want %d", v.val, v.pos, i)
		}
	}
}

// --- helpers ---

func intSliceEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func strSliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
