package handle

import (
	"sync"
	"testing"
)

func TestRegistry_Basic(t *testing.T) {
	reg := NewRegistry()

	h := reg.Insert("ctx")
	if h == 0 {
		t.Fatal("Expected non-zero handle")
	}

	v, ok := reg.Get(h)
	if !ok {
		t.Fatal("Get failed")
	}
	if v != "ctx" {
		t.Fatalf("Expected 'ctx', got %v", v)
	}

	v, ok = reg.Remove(h)
	if !ok {
		t.Fatal("Remove failed")
	}
	if v != "ctx" {
		t.Fatalf("Expected 'ctx', got %v", v)
	}

	if reg.Len() != 0 {
		t.Fatal("Expected Len() == 0 after Remove")
	}
}

func TestRegistry_RemoveExactlyOnce(t *testing.T) {
	reg := NewRegistry()
	h := reg.Insert(1)

	if _, ok := reg.Remove(h); !ok {
		t.Fatal("first Remove should succeed")
	}
	if _, ok := reg.Remove(h); ok {
		t.Fatal("second Remove should fail")
	}
	if _, ok := reg.Get(h); ok {
		t.Fatal("Get after Remove should fail")
	}
}

func TestRegistry_ZeroHandleInvalid(t *testing.T) {
	reg := NewRegistry()

	if _, ok := reg.Get(0); ok {
		t.Fatal("handle 0 must never resolve")
	}
	if _, ok := reg.Remove(0); ok {
		t.Fatal("handle 0 must never be removable")
	}
}

func TestRegistry_NoReuse(t *testing.T) {
	reg := NewRegistry()

	h1 := reg.Insert("a")
	reg.Remove(h1)
	h2 := reg.Insert("b")

	if h1 == h2 {
		t.Fatal("handles must not be reused")
	}
	if _, ok := reg.Get(h1); ok {
		t.Fatal("stale handle must not resolve")
	}
}

type dropCounter struct {
	mu    sync.Mutex
	drops int
}

func (d *dropCounter) Drop() {
	d.mu.Lock()
	d.drops++
	d.mu.Unlock()
}

func TestRegistry_Close(t *testing.T) {
	reg := NewRegistry()
	dc := &dropCounter{}

	reg.Insert(dc)
	reg.Insert(dc)

	if err := reg.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if dc.drops != 2 {
		t.Fatalf("Expected 2 drops, got %d", dc.drops)
	}

	// Closed registry rejects inserts
	if h := reg.Insert("late"); h != 0 {
		t.Fatal("Insert after Close should return 0")
	}

	// Close is idempotent
	if err := reg.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
	if dc.drops != 2 {
		t.Fatal("second Close must not drop again")
	}
}

func TestRegistry_ConcurrentInsertRemove(t *testing.T) {
	reg := NewRegistry()
	const n = 64

	var wg sync.WaitGroup
	handles := make([]Handle, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			handles[i] = reg.Insert(i)
		}(i)
	}
	wg.Wait()

	seen := make(map[Handle]bool)
	for _, h := range handles {
		if h == 0 {
			t.Fatal("concurrent Insert returned 0")
		}
		if seen[h] {
			t.Fatalf("duplicate handle %d", h)
		}
		seen[h] = true
	}

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, ok := reg.Remove(handles[i]); !ok {
				t.Error("concurrent Remove lost a handle")
			}
		}(i)
	}
	wg.Wait()

	if reg.Len() != 0 {
		t.Fatalf("Expected empty registry, Len() == %d", reg.Len())
	}
}

func TestGuard_ReleaseOnce(t *testing.T) {
	reg := NewRegistry()
	h := reg.Insert("ctx")

	released := 0
	g := NewGuard(h, func(h Handle) {
		released++
		reg.Remove(h)
	})

	if !g.Alive() {
		t.Fatal("fresh guard should be alive")
	}
	if g.Handle() != h {
		t.Fatal("guard does not hold its handle")
	}

	g.Release()
	g.Release()
	g.Release()

	if released != 1 {
		t.Fatalf("Expected exactly 1 release, got %d", released)
	}
	if g.Alive() {
		t.Fatal("guard should not be alive after Release")
	}
	if g.Handle() != 0 {
		t.Fatal("released guard must not expose its handle")
	}
}

func TestGuard_ConcurrentRelease(t *testing.T) {
	// An explicit dispose racing a finalizer must produce exactly one
	// physical release.
	for iter := 0; iter < 100; iter++ {
		var releases int32
		var mu sync.Mutex
		g := NewGuard(7, func(Handle) {
			mu.Lock()
			releases++
			mu.Unlock()
		})

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				g.Release()
			}()
		}
		wg.Wait()

		if releases != 1 {
			t.Fatalf("iter %d: expected 1 release, got %d", iter, releases)
		}
	}
}
