// internal/optionbyte/lock.go
package optionbyte

import "github.com/tamzrod/ob-reset/internal/flash"

// unlockProgram runs fn with PELOCK open.
// If PELOCK was closed on entry it is opened with the PEKEYR sequence and
// closed again on every exit path; otherwise it is left alone.
func unlockProgram(ctrl flash.Controller, fn func() error) error {
	if !ctrl.ProgramLocked() {
		return fn()
	}

	ctrl.WriteProgramKey(flash.ProgramKey1)
	ctrl.WriteProgramKey(flash.ProgramKey2)
	defer ctrl.LockProgram()

	return fn()
}

// unlockOption runs fn with OPTLOCK open, opening PELOCK first when needed.
// Same ownership rule as unlockProgram: only the level that opened a lock
// closes it.
func unlockOption(ctrl flash.Controller, fn func() error) error {
	if !ctrl.OptionLocked() {
		return fn()
	}

	return unlockProgram(ctrl, func() error {
		ctrl.WriteOptionKey(flash.OptionKey1)
		ctrl.WriteOptionKey(flash.OptionKey2)
		defer ctrl.LockOption()

		return fn()
	})
}

// modify runs fn inside the critical section with the option bytes unlocked.
func (e *Engine) modify(ctrl flash.Controller, fn func() error) error {
	return e.config.Critical(func() error {
		for ctrl.Busy() {
		}
		return unlockOption(ctrl, fn)
	})
}
