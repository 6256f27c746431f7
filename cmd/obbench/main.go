// cmd/obbench/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/tamzrod/ob-reset/internal/config"
	"github.com/tamzrod/ob-reset/internal/flash/sim"
	"github.com/tamzrod/ob-reset/internal/image"
	"github.com/tamzrod/ob-reset/internal/optionbyte"
	"github.com/tamzrod/ob-reset/internal/status"
	"github.com/tamzrod/ob-reset/internal/supervisor"
	"github.com/tamzrod/ob-reset/internal/writer"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: obbench <config.yaml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)

	b := cfg.Bench

	// --------------------
	// Simulated device
	// --------------------

	dev, err := buildDevice(b.Device)
	if err != nil {
		log.Fatalf("device build failed: %v", err)
	}

	policy, _ := supervisor.ParsePolicy(b.Loop.OnFault)

	sup, err := supervisor.New(
		supervisor.Config{
			Interval:   time.Duration(b.Loop.IntervalMs) * time.Millisecond,
			Iterations: b.Loop.Iterations,
			Policy:     policy,
		},
		optionbyte.NewBlock(dev.Words()),
		optionbyte.WithCriticalSection(dev.Critical),
		optionbyte.WithLogger(stdLogger{}),
	)
	if err != nil {
		log.Fatalf("supervisor build failed: %v", err)
	}

	var names []string
	for _, g := range sup.Engine().Groups() {
		names = append(names, g.Name)
	}
	tracker := status.NewTracker(names)

	// --------------------
	// Status memory (optional)
	// --------------------

	var (
		statusWriters map[string]writer.StatusWriter
		mirror        *writer.MirrorWriter
		mirrorEnabled bool
	)

	if b.Status != nil {
		plan, err := writer.BuildPlan(b.Status, names)
		if err != nil {
			log.Fatalf("writer plan failed: %v", err)
		}

		cli, closeClient, err := writer.BuildClient(b.Status)
		if err != nil {
			log.Fatalf("writer client failed (endpoint=%s): %v", plan.Endpoint, err)
		}
		defer closeClient()

		statusWriters = writer.NewStatusWriters(plan, cli)
		mirror, mirrorEnabled = writer.NewMirrorWriter(plan, cli)

		// Full block write on start (identity re-assert).
		for _, name := range names {
			if err := statusWriters[name].WriteStatus(tracker.Snapshot(name)); err != nil {
				log.Printf("status write failed on start (group=%s): %v", name, err)
			}
		}
	}

	// --------------------
	// Loop
	// --------------------

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out := make(chan supervisor.Result)
	done := make(chan struct{})

	go func() {
		defer close(done)
		sup.Run(ctx, dev, out)
	}()

	for {
		select {
		case <-done:
			finish(b, dev)
			return

		case res := <-out:
			tracker.Apply(res)

			if res.Err != nil {
				log.Printf("iteration %d: fault: %v", res.Iteration, res.Err)
			}
			for _, g := range res.Groups {
				if !g.Clean && g.Err == nil {
					log.Printf("iteration %d: %s restored (cells=%d value=0x%08X)",
						res.Iteration, g.Name, g.Rewritten, g.Value)
				}
			}

			for _, name := range names {
				sw, ok := statusWriters[name]
				if !ok {
					continue
				}
				if err := sw.WriteStatus(tracker.Snapshot(name)); err != nil {
					log.Printf("status write failed (group=%s): %v", name, err)
				}
			}

			if mirrorEnabled {
				if err := mirror.Write(dev.Raw()); err != nil {
					log.Printf("mirror write failed: %v", err)
				}
			}
		}
	}
}

// buildDevice creates the simulator and seeds its cells from the image
// and the per-register overrides.
func buildDevice(d config.DeviceConfig) (*sim.Controller, error) {
	opts := []sim.Option{
		sim.WithBusyPolls(d.BusyPolls),
		sim.WithSuppressedEOP(d.SuppressEOP),
	}
	if d.Erased != nil {
		opts = append(opts, sim.WithErased(*d.Erased))
	}
	dev := sim.New(opts...)

	if d.Image != "" {
		words, err := image.Load(d.Image)
		if err != nil {
			return nil, err
		}
		for i, v := range words {
			dev.SetRaw(i, v)
		}
	}

	for name, v := range d.Cells {
		i, _ := optionbyte.CellIndex(name)
		dev.SetRaw(i, v)
	}

	return dev, nil
}

func finish(b config.BenchConfig, dev *sim.Controller) {
	if b.Dump == "" {
		return
	}
	if err := image.Dump(b.Dump, dev.Raw()); err != nil {
		log.Printf("dump failed (path=%s): %v", b.Dump, err)
		return
	}
	log.Printf("option bytes written to %s", b.Dump)
}

// stdLogger routes engine logs to the standard logger.
type stdLogger struct{}

func (stdLogger) Debug(msg string, kv ...interface{}) { logKV("DEBUG", msg, kv) }
func (stdLogger) Info(msg string, kv ...interface{})  { logKV("INFO", msg, kv) }
func (stdLogger) Error(msg string, kv ...interface{}) { logKV("ERROR", msg, kv) }

func logKV(level, msg string, kv []interface{}) {
	log.Println(append([]interface{}{level, msg}, kv...)...)
}
