// internal/optionbyte/engine.go
package optionbyte

import (
	"fmt"

	"github.com/tamzrod/ob-reset/internal/flash"
)

// Engine resets option byte groups to their factory values.
//
// Engine holds no controller: the caller passes its exclusive
// flash.Controller handle to every reset.
type Engine struct {
	block  *Block
	groups []Group
	config Config
}

// New creates an Engine over the given block.
func New(block *Block, opts ...Option) *Engine {
	if block == nil {
		panic("block cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Engine{
		block:  block,
		groups: defaultGroups(block),
		config: cfg,
	}
}

// Block returns the register block the engine works on.
func (e *Engine) Block() *Block {
	return e.block
}

// Groups returns the groups in reset order: OPTR, WRPROT1, WRPROT2.
func (e *Engine) Groups() []Group {
	return e.groups
}

// Group looks a group up by name.
func (e *Engine) Group(name string) (Group, bool) {
	for _, g := range e.groups {
		if g.Name == name {
			return g, true
		}
	}
	return Group{}, false
}

// ResetOPTR restores OPTR to 0x807000AA.
func (e *Engine) ResetOPTR(ctrl flash.Controller) error {
	return e.ResetGroup(ctrl, e.groups[0])
}

// ResetWRPROT1 clears WRPROT1.
func (e *Engine) ResetWRPROT1(ctrl flash.Controller) error {
	return e.ResetGroup(ctrl, e.groups[1])
}

// ResetWRPROT2 clears WRPROT2.
func (e *Engine) ResetWRPROT2(ctrl flash.Controller) error {
	return e.ResetGroup(ctrl, e.groups[2])
}

// ResetGroup brings every cell of g to its default.
//
// Cells already holding their default are never erased or written. If all of
// them do, no flash cycle runs and the locks are not touched. The first fault
// aborts the remaining cells; locks opened for the reset are closed before it
// is returned.
func (e *Engine) ResetGroup(ctrl flash.Controller, g Group) error {
	stale := make([]bool, len(g.Slots))
	dirty := false
	for i, s := range g.Slots {
		v, ok := s.Cell.Decode()
		if !ok || v != s.Default {
			stale[i] = true
			dirty = true
		}
	}

	if !dirty {
		e.notify(Event{Group: g.Name, Kind: EventClean})
		return nil
	}

	if e.config.Logger != nil {
		e.logDebug("option bytes differ from factory values",
			"group", g.Name,
			"raw", e.rawWords(g),
		)
	}

	err := e.modify(ctrl, func() error {
		for i, s := range g.Slots {
			if !stale[i] {
				e.notify(Event{Group: g.Name, Cell: s.Cell.Name(), Kind: EventSkip})
				continue
			}
			if err := s.Cell.Erase(ctrl); err != nil {
				e.notify(Event{Group: g.Name, Cell: s.Cell.Name(), Kind: EventFault})
				return err
			}
			e.notify(Event{Group: g.Name, Cell: s.Cell.Name(), Kind: EventErase})

			if err := s.Cell.WriteU16(s.Default, ctrl); err != nil {
				e.notify(Event{Group: g.Name, Cell: s.Cell.Name(), Kind: EventFault})
				return err
			}
			e.notify(Event{Group: g.Name, Cell: s.Cell.Name(), Kind: EventWrite})
		}
		return nil
	})
	if err != nil {
		e.logError("option byte reset failed", "group", g.Name, "err", err)
		return fmt.Errorf("reset %s: %w", g.Name, err)
	}

	e.logInfo("option bytes restored",
		"group", g.Name,
		"value", fmt.Sprintf("0x%08X", g.Default()),
	)
	return nil
}

func (e *Engine) rawWords(g Group) []string {
	out := make([]string, 0, len(g.Slots))
	for _, s := range g.Slots {
		out = append(out, fmt.Sprintf("%s=0x%08X", s.Cell.Name(), s.Cell.Raw()))
	}
	return out
}

func (e *Engine) notify(ev Event) {
	if e.config.Observer != nil {
		e.config.Observer(ev)
	}
}

func (e *Engine) logDebug(msg string, kv ...interface{}) {
	if e.config.Logger != nil {
		e.config.Logger.Debug(msg, kv...)
	}
}

func (e *Engine) logInfo(msg string, kv ...interface{}) {
	if e.config.Logger != nil {
		e.config.Logger.Info(msg, kv...)
	}
}

func (e *Engine) logError(msg string, kv ...interface{}) {
	if e.config.Logger != nil {
		e.config.Logger.Error(msg, kv...)
	}
}
