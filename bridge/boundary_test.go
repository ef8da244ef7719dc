package bridge

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"

	asyncbridge "github.com/wippyai/async-bridge"
	"github.com/wippyai/async-bridge/errors"
	"github.com/wippyai/async-bridge/handle"
)

func TestBoundary_Roundtrip(t *testing.T) {
	h, err := CreateContext()
	if err != nil {
		t.Fatalf("CreateContext failed: %v", err)
	}
	if h == 0 {
		t.Fatal("expected non-zero handle")
	}
	defer DestroyContext(h)

	id, fut, err := Submit(h, opReturning(42))
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if id == 0 {
		t.Fatal("expected non-zero task id")
	}

	out, err := fut.Await(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if out.Status != StatusCompleted || out.Value != 42 {
		t.Fatalf("wrong outcome: %+v", out)
	}
}

func TestBoundary_DoubleDestroy(t *testing.T) {
	h, err := CreateContext()
	if err != nil {
		t.Fatal(err)
	}

	DestroyContext(h)
	DestroyContext(h) // silent no-op, never a crash
	DestroyContext(h)
}

func TestBoundary_SubmitAfterDestroy(t *testing.T) {
	h, err := CreateContext()
	if err != nil {
		t.Fatal(err)
	}
	DestroyContext(h)

	_, _, err = Submit(h, opReturning(1))
	var be *errors.Error
	if !stderrors.As(err, &be) || be.Kind != errors.KindInvalidHandle {
		t.Fatalf("expected invalid_handle, got %v", err)
	}
}

func TestBoundary_CancelTaskBestEffort(t *testing.T) {
	// Unknown handle: no panic, no error surface.
	CancelTask(999999, 1)

	h, err := CreateContext()
	if err != nil {
		t.Fatal(err)
	}
	defer DestroyContext(h)

	// Unknown task id on a live context: also silent.
	CancelTask(h, 424242)

	id, fut, err := Submit(h, opBlocking())
	if err != nil {
		t.Fatal(err)
	}
	CancelTask(h, id)

	out, err := fut.Await(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if out.Status != StatusCancelled {
		t.Fatalf("expected Cancelled, got %v", out.Status)
	}
}

func TestBoundary_GuardRacingFinalizer(t *testing.T) {
	// An explicit dispose and a finalizer both releasing the same guard
	// must destroy the context exactly once and never error.
	for iter := 0; iter < 50; iter++ {
		h, err := CreateContext()
		if err != nil {
			t.Fatal(err)
		}
		g := handle.NewGuard(h, DestroyContext)

		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				g.Release()
			}()
		}
		wg.Wait()

		if g.Alive() {
			t.Fatal("guard still alive after release")
		}
		if _, _, err := Submit(h, opReturning(1)); err == nil {
			t.Fatal("handle should be dead after guard release")
		}
	}
}

func TestBoundary_StrayReleaseAfterScenario(t *testing.T) {
	// Full scenario: success, failure, cancellation, destroy, stray
	// release.
	h, err := CreateContext()
	if err != nil {
		t.Fatal(err)
	}
	g := handle.NewGuard(h, DestroyContext)

	_, okFut, err := Submit(h, opReturning(42))
	if err != nil {
		t.Fatal(err)
	}
	if out, _ := okFut.Await(context.Background()); out.Value != 42 {
		t.Fatalf("expected Completed(42), got %+v", out)
	}

	_, failFut, err := Submit(h, asyncbridge.OperationFunc(
		func(ctx context.Context) (any, error) {
			return nil, errors.Timeout("long-poll", "no response in 5s")
		}))
	if err != nil {
		t.Fatal(err)
	}
	if out, _ := failFut.Await(context.Background()); out.Err == nil || out.Err.Kind != errors.KindTimeout {
		t.Fatalf("expected Failed(timeout), got %+v", out)
	}

	id, longFut, err := Submit(h, opBlocking())
	if err != nil {
		t.Fatal(err)
	}
	CancelTask(h, id)
	if out, _ := longFut.Await(context.Background()); out.Status != StatusCancelled {
		t.Fatalf("expected Cancelled, got %+v", out)
	}

	g.Release()
	g.Release() // stray release: no crash, no second teardown

	if _, _, err := Submit(h, opReturning(1)); err == nil {
		t.Fatal("submit after destroy should fail")
	}
}
