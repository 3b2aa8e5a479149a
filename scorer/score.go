// Package scorer implements the four component scorers. Each scorer is a
// pure function of shared read-only inputs and returns a ComponentScore
// plus an optional Fault. A Fault is not an error to propagate: it records
// a degenerate condition and the documented default already substituted,
// so fallback behavior is an explicit contract.
package scorer

import "fmt"

// ComponentScore is a score in [0, 100] with named diagnostic sub-metrics.
type ComponentScore struct {
	Value   float64
	Details map[string]float64
}

// Fault records a degenerate scoring condition and the default substituted
// in its place. Scores carrying a Fault are still valid and complete.
type Fault struct {
	Component string
	Reason    string
	Default   float64
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s: %s (default %.1f applied)", f.Component, f.Reason, f.Default)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 { return clamp(v, 0, 1) }
