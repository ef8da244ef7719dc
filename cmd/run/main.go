package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	asyncbridge "github.com/wippyai/async-bridge"
	"github.com/wippyai/async-bridge/bridge"
	"github.com/wippyai/async-bridge/handle"
	"github.com/wippyai/async-bridge/kdf"
	"github.com/wippyai/async-bridge/sched"
)

func main() {
	var (
		workers     = flag.Int("workers", 0, "Scheduler workers (0 = GOMAXPROCS)")
		ops         = flag.Int("ops", 8, "Number of demo operations to submit")
		opDelay     = flag.Duration("delay", 200*time.Millisecond, "Per-operation simulated latency")
		timeout     = flag.Duration("timeout", time.Second, "Cancellation delay composed per operation")
		verbose     = flag.Bool("v", false, "Verbose logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		bridge.SetLogger(logger.Named("bridge"))
		sched.SetLogger(logger.Named("sched"))
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode requires a terminal")
			os.Exit(1)
		}
		if err := runInteractive(*workers); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*workers, *ops, *opDelay, *timeout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(workers, ops int, opDelay, timeout time.Duration) error {
	h, err := bridge.CreateContextWith(bridge.Config{
		Scheduler: sched.Config{Workers: workers},
	})
	if err != nil {
		return fmt.Errorf("create context: %w", err)
	}

	guard := handle.NewGuard(h, bridge.DestroyContext)
	defer guard.Release()

	fmt.Printf("Context handle: %d\n", h)
	fmt.Printf("Submitting %d operations...\n\n", ops)

	type pending struct {
		fut  *bridge.Future
		id   bridge.TaskID
		desc string
	}
	var inflight []pending

	for i := 0; i < ops; i++ {
		var (
			op   asyncbridge.Operation
			desc string
		)
		switch i % 3 {
		case 0:
			desc = fmt.Sprintf("sleep-%d", i)
			op = sleepOp(opDelay)
		case 1:
			desc = fmt.Sprintf("derive-%d", i)
			op = deriveOp(fmt.Sprintf("session-%d", i))
		default:
			desc = fmt.Sprintf("slow-%d", i)
			// Deliberately slower than the composed timeout.
			op = sleepOp(10 * timeout)
		}

		id, fut, err := bridge.Submit(h, op)
		if err != nil {
			return fmt.Errorf("submit %s: %w", desc, err)
		}

		// Timeouts compose as a delayed cancellation request.
		timer := time.AfterFunc(timeout, func() {
			bridge.CancelTask(h, id)
		})
		defer timer.Stop()

		inflight = append(inflight, pending{fut: fut, id: id, desc: desc})
	}

	for _, p := range inflight {
		out, err := p.fut.Await(context.Background())
		if err != nil {
			return err
		}
		switch out.Status {
		case bridge.StatusCompleted:
			fmt.Printf("  %-12s completed: %v\n", p.desc, out.Value)
		case bridge.StatusFailed:
			fmt.Printf("  %-12s failed: %v\n", p.desc, out.Err)
		case bridge.StatusCancelled:
			fmt.Printf("  %-12s cancelled\n", p.desc)
		}
	}

	fmt.Printf("\nDone.\n")
	return nil
}

// sleepOp simulates a long-running native operation with a cancellation
// checkpoint.
func sleepOp(d time.Duration) asyncbridge.Operation {
	return asyncbridge.OperationFunc(func(ctx context.Context) (any, error) {
		select {
		case <-time.After(d):
			return fmt.Sprintf("slept %s", d), nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
}

// deriveOp runs a real protocol-layer derivation on the scheduler.
func deriveOp(info string) asyncbridge.Operation {
	return asyncbridge.OperationFunc(func(ctx context.Context) (any, error) {
		k, err := kdf.New(3)
		if err != nil {
			return nil, err
		}
		secret, err := k.DeriveSecrets([]byte("input key material"), []byte(info), 32)
		if err != nil {
			return nil, err
		}
		return fmt.Sprintf("%x", secret[:8]), nil
	})
}
