// internal/config/normalize.go
package config

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	b := &cfg.Bench

	if b.Loop.OnFault == "" {
		b.Loop.OnFault = "retry"
	}

	// ------------------------------------------------------------
	// STATUS MEMORY NORMALIZATION (OPT-IN)
	// ------------------------------------------------------------

	if b.Status == nil {
		return
	}

	if b.Status.Transport == "" {
		b.Status.Transport = TransportModbus
	}
	if b.Status.TimeoutMs == 0 {
		b.Status.TimeoutMs = DefaultTimeoutMs
	}
}
