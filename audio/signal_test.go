package audio

import (
	"errors"
	"testing"
)

func TestNewRejectsEmptyBuffer(t *testing.T) {
	_, err := New(nil, 16000)
	if err == nil {
		t.Fatal("expected error for empty buffer")
	}
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %T", err)
	}
}

func TestNewRejectsBadSampleRate(t *testing.T) {
	for _, rate := range []int{0, -1, -16000} {
		_, err := New([]float64{0.1, 0.2}, rate)
		if err == nil {
			t.Errorf("rate %d: expected error", rate)
		}
	}
}

func TestDuration(t *testing.T) {
	sig, err := New(make([]float64, 32000), 16000)
	if err != nil {
		t.Fatal(err)
	}
	if got := sig.Duration(); got != 2.0 {
		t.Errorf("Duration = %v, want 2.0", got)
	}
}

func TestLoadErrorMessage(t *testing.T) {
	e := &LoadError{Reason: "empty sample buffer"}
	if e.Error() != "audio load: empty sample buffer" {
		t.Errorf("unexpected message %q", e.Error())
	}
}
