// internal/optionbyte/errors_test.go
package optionbyte

import (
	"errors"
	"strings"
	"testing"
)

func TestFaultError(t *testing.T) {
	err := &Fault{Op: OpWrite, Cell: "WRPROT1H", Index: IndexWRPROT1H}

	msg := err.Error()
	if !strings.Contains(msg, "write") {
		t.Errorf("error message should contain op, got: %s", msg)
	}
	if !strings.Contains(msg, "WRPROT1H") {
		t.Errorf("error message should contain cell, got: %s", msg)
	}
	if !errors.Is(err, ErrFault) {
		t.Errorf("Fault should match ErrFault")
	}
}

func TestFaultCode(t *testing.T) {
	cases := []struct {
		f    Fault
		want uint16
	}{
		{Fault{Op: OpErase, Index: IndexOPTRL}, 0x0101},
		{Fault{Op: OpWrite, Index: IndexOPTRL}, 0x0102},
		{Fault{Op: OpWrite, Index: IndexWRPROT2L}, 0x0502},
	}
	for _, c := range cases {
		if got := c.f.Code(); got != c.want {
			t.Errorf("Code(%+v)=0x%04X want 0x%04X", c.f, got, c.want)
		}
	}
}
