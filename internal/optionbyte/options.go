// internal/optionbyte/options.go
package optionbyte

import "github.com/tamzrod/ob-reset/internal/flash"

// Config holds the engine configuration.
type Config struct {
	// Critical wraps every unlock/erase/write/relock sequence.
	// Firmware must pass flash.InterruptFree.
	Critical flash.CriticalSection

	// Logger is used for logging operations (optional)
	Logger Logger

	// Observer is told about every cell decision (optional)
	Observer Observer
}

func defaultConfig() Config {
	return Config{
		Critical: flash.NoCritical,
	}
}

// Option is a functional option for configuring the Engine.
type Option func(*Config)

// WithCriticalSection sets the wrapper that masks interrupts.
func WithCriticalSection(cs flash.CriticalSection) Option {
	return func(c *Config) {
		if cs != nil {
			c.Critical = cs
		}
	}
}

// WithLogger sets a logger for engine operations.
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithObserver adds a callback for per-cell events.
// Observers stack: each one is called in the order it was added.
func WithObserver(o Observer) Option {
	return func(c *Config) {
		if o == nil {
			return
		}
		prev := c.Observer
		if prev == nil {
			c.Observer = o
			return
		}
		c.Observer = func(ev Event) {
			prev(ev)
			o(ev)
		}
	}
}
