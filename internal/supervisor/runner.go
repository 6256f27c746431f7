// internal/supervisor/runner.go
package supervisor

import (
	"context"
	"time"

	"github.com/tamzrod/ob-reset/internal/flash"
)

// Forever is the firmware loop. It never returns.
// With PolicyHalt the first fault parks the CPU in a spin loop.
func (s *Supervisor) Forever(ctrl flash.Controller) {
	for {
		res := s.RunOnce(ctrl)
		if res.Err != nil && s.cfg.Policy == PolicyHalt {
			halt()
		}
	}
}

func halt() {
	for {
	}
}

// Run is the hosted loop: one iteration per tick, each Result emitted on out.
// It returns when ctx is done, after cfg.Iterations iterations, or after the
// first fault under PolicyHalt. out is not closed.
func (s *Supervisor) Run(ctx context.Context, ctrl flash.Controller, out chan<- Result) {
	var tick <-chan time.Time
	if s.cfg.Interval > 0 {
		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for n := uint64(0); s.cfg.Iterations == 0 || n < s.cfg.Iterations; n++ {
		if n > 0 && tick != nil {
			select {
			case <-ctx.Done():
				return
			case <-tick:
			}
		}
		if ctx.Err() != nil {
			return
		}

		res := s.RunOnce(ctrl)
		select {
		case <-ctx.Done():
			return
		case out <- res:
		}

		if res.Err != nil && s.cfg.Policy == PolicyHalt {
			return
		}
	}
}
