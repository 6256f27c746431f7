// internal/optionbyte/engine_test.go
package optionbyte

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/tamzrod/ob-reset/internal/flash"
	"github.com/tamzrod/ob-reset/internal/flash/sim"
)

func newEngine(c *sim.Controller, opts ...Option) *Engine {
	opts = append([]Option{WithCriticalSection(c.Critical)}, opts...)
	return New(NewBlock(c.Words()), opts...)
}

func resetAll(t *testing.T, e *Engine, c flash.Controller) {
	t.Helper()
	if err := e.ResetOPTR(c); err != nil {
		t.Fatalf("ResetOPTR err=%v", err)
	}
	if err := e.ResetWRPROT1(c); err != nil {
		t.Fatalf("ResetWRPROT1 err=%v", err)
	}
	if err := e.ResetWRPROT2(c); err != nil {
		t.Fatalf("ResetWRPROT2 err=%v", err)
	}
}

func TestResetOPTR_FromCorruptWords(t *testing.T) {
	c := sim.New()
	c.SetRaw(IndexOPTRL, 0xFFFF_7FFF)
	c.SetRaw(IndexOPTRH, 0xFFFF_8054)
	e := newEngine(c)

	if err := e.ResetOPTR(c); err != nil {
		t.Fatalf("ResetOPTR err=%v", err)
	}

	g, _ := e.Group(GroupOPTR)
	v, ok := g.Value()
	if !ok || v != 0x8070_00AA {
		t.Fatalf("OPTR=0x%08X ok=%v want 0x807000AA", v, ok)
	}

	for _, i := range []int{IndexOPTRL, IndexOPTRH} {
		if c.Erases(i) != 1 || c.Writes(i) != 1 {
			t.Fatalf("cell %d: erases=%d writes=%d, want 1/1", i, c.Erases(i), c.Writes(i))
		}
	}
	if c.Cycles() != 4 {
		t.Fatalf("expected 2 erase+write cycles (4 ops), got %d", c.Cycles())
	}
}

func TestReset_IdempotentWhenDefault(t *testing.T) {
	c := sim.New()
	e := newEngine(c)

	resetAll(t, e, c)
	cycles := c.Cycles()
	entries := c.CriticalEntries()
	keys := len(c.ProgramKeys()) + len(c.OptionKeys())

	resetAll(t, e, c)

	if c.Cycles() != cycles {
		t.Fatalf("second pass issued %d flash cycles", c.Cycles()-cycles)
	}
	if c.CriticalEntries() != entries {
		t.Fatalf("second pass entered the critical section")
	}
	if n := len(c.ProgramKeys()) + len(c.OptionKeys()); n != keys {
		t.Fatalf("second pass wrote %d unlock keys", n-keys)
	}
}

func TestResetWRPROT_AlreadyZero(t *testing.T) {
	c := sim.New()
	c.SetRaw(IndexWRPROT1L, Encode(0))
	c.SetRaw(IndexWRPROT1H, Encode(0))
	c.SetRaw(IndexWRPROT2L, Encode(0))
	e := newEngine(c)

	if err := e.ResetWRPROT1(c); err != nil {
		t.Fatalf("ResetWRPROT1 err=%v", err)
	}
	if err := e.ResetWRPROT2(c); err != nil {
		t.Fatalf("ResetWRPROT2 err=%v", err)
	}
	if c.Cycles() != 0 {
		t.Fatalf("expected zero flash cycles, got %d", c.Cycles())
	}
	if pe, opt := c.Locked(); !pe || !opt {
		t.Fatalf("locks touched: pe=%v opt=%v", pe, opt)
	}
}

func TestReset_CorrectFromAnyPattern(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	patterns := [][flash.OptionWords]uint32{
		{0xFFFF_FFFF, 0xFFFF_FFFF, 0xFFFF_FFFF, 0xFFFF_FFFF, 0xFFFF_FFFF},
		{0, 0, 0, 0, 0},
		{Encode(0x1234), Encode(0xFFFF), Encode(1), Encode(0x8000), Encode(0xAAAA)},
		{Encode(0x00AA), Encode(0x8070), Encode(0), Encode(0), Encode(0)},
	}
	for i := 0; i < 32; i++ {
		var p [flash.OptionWords]uint32
		for j := range p {
			p[j] = rng.Uint32()
		}
		patterns = append(patterns, p)
	}

	for n, p := range patterns {
		c := sim.New()
		for i, w := range p {
			c.SetRaw(i, w)
		}
		e := newEngine(c)

		resetAll(t, e, c)

		for _, g := range e.Groups() {
			v, ok := g.Value()
			if !ok || v != g.Default() {
				t.Fatalf("pattern %d: group %s = 0x%08X ok=%v want 0x%08X", n, g.Name, v, ok, g.Default())
			}
		}
		if pe, opt := c.Locked(); !pe || !opt {
			t.Fatalf("pattern %d: locks left open", n)
		}
	}
}

func TestReset_NoSuperfluousErase(t *testing.T) {
	c := sim.New()
	c.SetRaw(IndexOPTRL, Encode(0x00AA))
	c.SetRaw(IndexOPTRH, Encode(0x1234))

	var events []Event
	e := newEngine(c, WithObserver(func(ev Event) { events = append(events, ev) }))

	if err := e.ResetOPTR(c); err != nil {
		t.Fatalf("ResetOPTR err=%v", err)
	}

	if c.Erases(IndexOPTRL) != 0 || c.Writes(IndexOPTRL) != 0 {
		t.Fatalf("correct cell OPTRL was rewritten")
	}
	if c.Erases(IndexOPTRH) != 1 || c.Writes(IndexOPTRH) != 1 {
		t.Fatalf("OPTRH: erases=%d writes=%d", c.Erases(IndexOPTRH), c.Writes(IndexOPTRH))
	}

	want := []Event{
		{Group: GroupOPTR, Cell: "OPTRL", Kind: EventSkip},
		{Group: GroupOPTR, Cell: "OPTRH", Kind: EventErase},
		{Group: GroupOPTR, Cell: "OPTRH", Kind: EventWrite},
	}
	if len(events) != len(want) {
		t.Fatalf("events=%v want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("event %d = %+v want %+v", i, events[i], want[i])
		}
	}
}

func TestReset_LockDiscipline(t *testing.T) {
	c := sim.New()
	e := newEngine(c)

	if err := e.ResetWRPROT2(c); err != nil {
		t.Fatalf("ResetWRPROT2 err=%v", err)
	}

	pk := c.ProgramKeys()
	if len(pk) != 2 || pk[0] != 0x89AB_CDEF || pk[1] != 0x0203_0405 {
		t.Fatalf("PEKEYR sequence = %08X", pk)
	}
	ok := c.OptionKeys()
	if len(ok) != 2 || ok[0] != 0xFBEA_D9C8 || ok[1] != 0x2425_2627 {
		t.Fatalf("OPTKEYR sequence = %08X", ok)
	}
	if pe, opt := c.Locked(); !pe || !opt {
		t.Fatalf("locks left open: pe=%v opt=%v", pe, opt)
	}
	if c.HardLocked() {
		t.Fatalf("key sequence error")
	}
	if c.UnguardedKeys() != 0 {
		t.Fatalf("%d keys written outside the critical section", c.UnguardedKeys())
	}
	if c.CriticalEntries() != 1 {
		t.Fatalf("critical entries=%d want 1", c.CriticalEntries())
	}
}

func TestReset_FaultLeavesLocksClosed(t *testing.T) {
	c := sim.New(sim.WithSuppressedEOP(true))
	c.SetRaw(IndexOPTRL, 0xFFFF_7FFF)
	c.SetRaw(IndexOPTRH, 0xFFFF_8054)

	var events []Event
	e := newEngine(c, WithObserver(func(ev Event) { events = append(events, ev) }))

	err := e.ResetOPTR(c)
	if !errors.Is(err, ErrFault) {
		t.Fatalf("expected ErrFault, got %v", err)
	}
	var f *Fault
	if !errors.As(err, &f) || f.Cell != "OPTRL" || f.Op != OpErase {
		t.Fatalf("unexpected fault: %v", err)
	}

	if pe, opt := c.Locked(); !pe || !opt {
		t.Fatalf("locks left open after fault: pe=%v opt=%v", pe, opt)
	}
	if c.EraseMode() {
		t.Fatalf("ERASE bit left set after fault")
	}
	if c.Erases(IndexOPTRH)+c.Writes(IndexOPTRH) != 0 {
		t.Fatalf("remaining cell touched after fault")
	}

	g, _ := e.Group(GroupOPTR)
	if v, ok := g.Value(); ok && v == g.Default() {
		t.Fatalf("group reads as restored after fault")
	}
	if len(events) != 1 || events[0].Kind != EventFault {
		t.Fatalf("events=%v", events)
	}
}

func TestReset_RecoversAfterTransientFault(t *testing.T) {
	c := sim.New(sim.WithSuppressedEOP(true))
	e := newEngine(c)

	if err := e.ResetWRPROT1(c); err == nil {
		t.Fatalf("expected fault")
	}

	c.SetSuppressEOP(false)
	if err := e.ResetWRPROT1(c); err != nil {
		t.Fatalf("retry err=%v", err)
	}
	g, _ := e.Group(GroupWRPROT1)
	if v, ok := g.Value(); !ok || v != 0 {
		t.Fatalf("WRPROT1=0x%08X ok=%v", v, ok)
	}
}

func TestReset_AlreadyUnlockedIsLeftOpen(t *testing.T) {
	c := unlocked(t)
	pk, ok := len(c.ProgramKeys()), len(c.OptionKeys())
	e := newEngine(c)

	if err := e.ResetWRPROT2(c); err != nil {
		t.Fatalf("ResetWRPROT2 err=%v", err)
	}
	if len(c.ProgramKeys()) != pk || len(c.OptionKeys()) != ok {
		t.Fatalf("keys written although locks were open")
	}
	if pe, opt := c.Locked(); pe || opt {
		t.Fatalf("engine closed locks it did not open: pe=%v opt=%v", pe, opt)
	}
}

func TestReset_OnlyOptionLockClosed(t *testing.T) {
	c := unlocked(t)
	c.LockOption()
	pk := len(c.ProgramKeys())
	e := newEngine(c)

	if err := e.ResetOPTR(c); err != nil {
		t.Fatalf("ResetOPTR err=%v", err)
	}
	if len(c.ProgramKeys()) != pk {
		t.Fatalf("PEKEYR written while PELOCK was open")
	}
	pe, opt := c.Locked()
	if pe {
		t.Fatalf("PELOCK closed by a level that did not open it")
	}
	if !opt {
		t.Fatalf("OPTLOCK left open")
	}
}

func TestReset_WaitsForIdleController(t *testing.T) {
	c := sim.New(sim.WithBusyPolls(3))
	e := newEngine(c)

	resetAll(t, e, c)

	for _, g := range e.Groups() {
		if v, ok := g.Value(); !ok || v != g.Default() {
			t.Fatalf("group %s = 0x%08X ok=%v", g.Name, v, ok)
		}
	}
}

func TestGroups(t *testing.T) {
	e := New(NewBlock(sim.New().Words()))
	gs := e.Groups()

	want := []struct {
		name  string
		cells int
		def   uint32
	}{
		{GroupOPTR, 2, 0x8070_00AA},
		{GroupWRPROT1, 2, 0},
		{GroupWRPROT2, 1, 0},
	}
	if len(gs) != len(want) {
		t.Fatalf("expected %d groups, got %d", len(want), len(gs))
	}
	for i, w := range want {
		if gs[i].Name != w.name || len(gs[i].Slots) != w.cells || gs[i].Default() != w.def {
			t.Fatalf("group %d = %s/%d/0x%08X", i, gs[i].Name, len(gs[i].Slots), gs[i].Default())
		}
	}
	if _, ok := e.Group("nope"); ok {
		t.Fatalf("unknown group found")
	}
}

func TestWithObserver_Stacks(t *testing.T) {
	c := sim.New()

	var order []string
	e := newEngine(c,
		WithObserver(func(ev Event) { order = append(order, "first") }),
		WithObserver(nil),
		WithObserver(func(ev Event) { order = append(order, "second") }),
	)

	if err := e.ResetWRPROT2(c); err != nil {
		t.Fatalf("ResetWRPROT2 err=%v", err)
	}

	// one erase and one write event, each seen by both observers in order
	want := []string{"first", "second", "first", "second"}
	if len(order) != len(want) {
		t.Fatalf("order=%v want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order=%v want %v", order, want)
		}
	}
}
