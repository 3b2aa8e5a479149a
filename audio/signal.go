package audio

import "fmt"

// Signal is a decoded mono audio buffer. Samples are normalized amplitudes
// in [-1, 1]. A Signal is owned by a single pipeline invocation and is never
// mutated after construction.
type Signal struct {
	Samples    []float64
	SampleRate int
}

// New validates the buffer and wraps it in a Signal. An empty buffer or a
// non-positive sample rate is a LoadError: no partial report can be produced
// from audio that cannot be interpreted.
func New(samples []float64, sampleRate int) (Signal, error) {
	if len(samples) == 0 {
		return Signal{}, &LoadError{Reason: "empty sample buffer"}
	}
	if sampleRate <= 0 {
		return Signal{}, &LoadError{Reason: fmt.Sprintf("invalid sample rate %d", sampleRate)}
	}
	return Signal{Samples: samples, SampleRate: sampleRate}, nil
}

// Duration returns the clip length in seconds.
func (s Signal) Duration() float64 {
	if s.SampleRate <= 0 {
		return 0
	}
	return float64(len(s.Samples)) / float64(s.SampleRate)
}

// LoadError reports a buffer that cannot be interpreted as audio. It is the
// only fault that aborts report generation.
type LoadError struct {
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("audio load: %s: %v", e.Reason, e.Err)
	}
	return "audio load: " + e.Reason
}

func (e *LoadError) Unwrap() error { return e.Err }
