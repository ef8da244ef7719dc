package bridge

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/wippyai/async-bridge/errors"
)

func TestStatus_String(t *testing.T) {
	cases := map[Status]string{
		StatusPending:   "pending",
		StatusRunning:   "running",
		StatusCompleted: "completed",
		StatusFailed:    "failed",
		StatusCancelled: "cancelled",
		Status(99):      "unknown",
	}
	for s, want := range cases {
		if got := s.String(); got != want {
			t.Errorf("Status(%d).String() = %q, want %q", s, got, want)
		}
	}
}

func TestStatus_Terminal(t *testing.T) {
	for _, s := range []Status{StatusCompleted, StatusFailed, StatusCancelled} {
		if !s.Terminal() {
			t.Errorf("%v should be terminal", s)
		}
	}
	for _, s := range []Status{StatusPending, StatusRunning} {
		if s.Terminal() {
			t.Errorf("%v should not be terminal", s)
		}
	}
}

func TestFuture_DeliveryExactlyOnce(t *testing.T) {
	f := newFuture()

	if _, ok := f.Poll(); ok {
		t.Fatal("Poll before delivery should report not ready")
	}

	if !f.complete(completed(1)) {
		t.Fatal("first complete should win")
	}
	if f.complete(completed(2)) {
		t.Fatal("second complete should lose")
	}

	out, ok := f.Poll()
	if !ok {
		t.Fatal("Poll after delivery should report ready")
	}
	if out.Status != StatusCompleted || out.Value != 1 {
		t.Fatalf("wrong outcome: %+v", out)
	}
}

func TestFuture_ConcurrentCompleters(t *testing.T) {
	// Natural completion racing a cancellation marker must yield one
	// outcome.
	for iter := 0; iter < 200; iter++ {
		f := newFuture()
		var wins int32
		var mu sync.Mutex

		var wg sync.WaitGroup
		for _, out := range []Outcome{completed(42), cancelled("op")} {
			wg.Add(1)
			go func(o Outcome) {
				defer wg.Done()
				if f.complete(o) {
					mu.Lock()
					wins++
					mu.Unlock()
				}
			}(out)
		}
		wg.Wait()

		if wins != 1 {
			t.Fatalf("iter %d: %d completers won", iter, wins)
		}
		out, ok := f.Poll()
		if !ok || !out.Status.Terminal() {
			t.Fatalf("iter %d: no terminal outcome", iter)
		}
	}
}

func TestFuture_Await(t *testing.T) {
	f := newFuture()

	go func() {
		time.Sleep(5 * time.Millisecond)
		f.complete(failed(errors.Timeout("op", "after 5s")))
	}()

	out, err := f.Await(context.Background())
	if err != nil {
		t.Fatalf("Await failed: %v", err)
	}
	if out.Status != StatusFailed || out.Err.Kind != errors.KindTimeout {
		t.Fatalf("wrong outcome: %+v", out)
	}
}

func TestFuture_AwaitBoundedByCaller(t *testing.T) {
	f := newFuture()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := f.Await(ctx); err == nil {
		t.Fatal("Await with done context should fail")
	}
}
