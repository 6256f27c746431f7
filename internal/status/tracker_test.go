// internal/status/tracker_test.go
package status

import (
	"errors"
	"fmt"
	"testing"

	"github.com/tamzrod/ob-reset/internal/optionbyte"
	"github.com/tamzrod/ob-reset/internal/supervisor"
)

var groups = []string{"OPTR", "WRPROT1", "WRPROT2"}

func TestTracker_StartsUnknown(t *testing.T) {
	tr := NewTracker(groups)
	for _, g := range groups {
		if tr.Snapshot(g).Health != HealthUnknown {
			t.Fatalf("group %s not unknown at start", g)
		}
	}
}

func TestTracker_RestoredThenOK(t *testing.T) {
	tr := NewTracker(groups)

	tr.Apply(supervisor.Result{Groups: []supervisor.GroupResult{
		{Name: "OPTR", Rewritten: 2, Value: 0x8070_00AA, Valid: true},
		{Name: "WRPROT1", Rewritten: 2, Valid: true},
		{Name: "WRPROT2", Rewritten: 1, Valid: true},
	}})

	s := tr.Snapshot("OPTR")
	if s.Health != HealthRestored || s.Rewrites != 2 {
		t.Fatalf("OPTR after rewrite: %+v", s)
	}
	if s.ValueLow != 0x00AA || s.ValueHigh != 0x8070 || s.Valid != 1 {
		t.Fatalf("OPTR value slots: %+v", s)
	}

	tr.Apply(supervisor.Result{Groups: []supervisor.GroupResult{
		{Name: "OPTR", Clean: true, Value: 0x8070_00AA, Valid: true},
		{Name: "WRPROT1", Clean: true, Valid: true},
		{Name: "WRPROT2", Clean: true, Valid: true},
	}})

	s = tr.Snapshot("OPTR")
	if s.Health != HealthOK || s.Rewrites != 2 {
		t.Fatalf("OPTR after clean pass: %+v", s)
	}
}

func TestTracker_FaultAndSkipped(t *testing.T) {
	tr := NewTracker(groups)
	fault := fmt.Errorf("reset OPTR: %w", &optionbyte.Fault{Op: optionbyte.OpErase, Cell: "OPTRL"})

	for i := 0; i < 3; i++ {
		tr.Apply(supervisor.Result{
			Groups: []supervisor.GroupResult{{Name: "OPTR", Err: fault}},
			Err:    fault,
		})
	}

	s := tr.Snapshot("OPTR")
	if s.Health != HealthFault || s.ConsecutiveFaults != 3 || s.LastFaultCode != 0x0101 {
		t.Fatalf("OPTR after faults: %+v", s)
	}
	if tr.Snapshot("WRPROT1").Health != HealthSkipped {
		t.Fatalf("WRPROT1 should be skipped")
	}

	// recovery resets the streak
	tr.Apply(supervisor.Result{Groups: []supervisor.GroupResult{
		{Name: "OPTR", Rewritten: 2, Value: 0x8070_00AA, Valid: true},
	}})
	s = tr.Snapshot("OPTR")
	if s.ConsecutiveFaults != 0 || s.Health != HealthRestored {
		t.Fatalf("OPTR after recovery: %+v", s)
	}
}

func TestFaultCode(t *testing.T) {
	if FaultCode(nil) != 0 {
		t.Fatalf("nil error must map to 0")
	}
	if FaultCode(errors.New("x")) != 1 {
		t.Fatalf("plain error must map to 1")
	}
	err := fmt.Errorf("wrap: %w", &optionbyte.Fault{Op: optionbyte.OpWrite, Index: optionbyte.IndexWRPROT2L})
	if got := FaultCode(err); got != 0x0502 {
		t.Fatalf("FaultCode=0x%04X want 0x0502", got)
	}
}

func TestSatAdd(t *testing.T) {
	if satAdd(0xFFFE, 5) != 0xFFFF {
		t.Fatalf("satAdd must saturate")
	}
	if satAdd(3, 0) != 3 {
		t.Fatalf("satAdd with zero changed value")
	}
}
