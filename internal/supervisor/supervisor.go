// internal/supervisor/supervisor.go
package supervisor

import (
	"errors"
	"time"

	"github.com/tamzrod/ob-reset/internal/flash"
	"github.com/tamzrod/ob-reset/internal/optionbyte"
)

// Config is the runtime config of the loop.
type Config struct {
	// Interval between iterations in Run. Zero runs back to back.
	Interval time.Duration

	// Iterations bounds Run. Zero means forever.
	Iterations uint64

	Policy Policy
}

// Supervisor re-asserts every option byte group, iteration after iteration.
type Supervisor struct {
	cfg  Config
	eng  *optionbyte.Engine
	iter uint64

	// per-group counters fed by the engine observer
	clean     bool
	rewritten int
}

// New creates a supervisor over block. The engine options are passed
// through; a caller observer still sees every event, before the supervisor.
func New(cfg Config, block *optionbyte.Block, opts ...optionbyte.Option) (*Supervisor, error) {
	if block == nil {
		return nil, errors.New("supervisor: block required")
	}
	if cfg.Interval < 0 {
		return nil, errors.New("supervisor: interval must be >= 0")
	}
	if cfg.Policy != PolicyRetry && cfg.Policy != PolicyHalt {
		return nil, errors.New("supervisor: unknown fault policy")
	}

	s := &Supervisor{cfg: cfg}
	opts = append(opts, optionbyte.WithObserver(s.observe))
	s.eng = optionbyte.New(block, opts...)
	return s, nil
}

// Engine returns the underlying reset engine.
func (s *Supervisor) Engine() *optionbyte.Engine {
	return s.eng
}

func (s *Supervisor) observe(ev optionbyte.Event) {
	switch ev.Kind {
	case optionbyte.EventClean:
		s.clean = true
	case optionbyte.EventWrite:
		s.rewritten++
	}
}

// RunOnce performs exactly one iteration over all groups.
// The first fault ends the iteration; later groups are left for the next one.
func (s *Supervisor) RunOnce(ctrl flash.Controller) Result {
	s.iter++
	res := Result{
		Iteration: s.iter,
		At:        time.Now(),
	}

	for _, g := range s.eng.Groups() {
		s.clean = false
		s.rewritten = 0

		err := s.eng.ResetGroup(ctrl, g)
		v, ok := g.Value()

		res.Groups = append(res.Groups, GroupResult{
			Name:      g.Name,
			Clean:     s.clean,
			Rewritten: s.rewritten,
			Value:     v,
			Valid:     ok,
			Err:       err,
		})

		if err != nil {
			res.Err = err
			return res
		}
	}

	return res
}
