package sandbox

import "time"

// Policy defines execution limits for the sandbox.
type Policy struct {
	PythonBin      string        // Interpreter to run submitted code with
	DefaultTimeout time.Duration // Applied when a request carries no timeout
	MaxTimeout     time.Duration // Hard ceiling for requested timeouts
}

// DefaultPolicy returns the limits used when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{
		PythonBin:      "python3",
		DefaultTimeout: 10 * time.Second,
		MaxTimeout:     60 * time.Second,
	}
}

// ClampTimeout resolves a requested timeout against the policy: zero or
// negative values fall back to the default, larger ones are capped.
func (p Policy) ClampTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return p.DefaultTimeout
	}
	if p.MaxTimeout > 0 && d > p.MaxTimeout {
		return p.MaxTimeout
	}
	return d
}
