package pipeline

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fluentive/speechscore/audio"
	"github.com/fluentive/speechscore/clients"
	"github.com/fluentive/speechscore/scorer"
)

// fakeGrammar is a scripted grammar collaborator.
type fakeGrammar struct {
	rep   clients.GrammarReport
	err   error
	delay time.Duration
}

func (f *fakeGrammar) Check(ctx context.Context, text string) (clients.GrammarReport, error) {
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return clients.GrammarReport{}, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	if f.err != nil {
		return clients.GrammarReport{}, f.err
	}
	return f.rep, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

func newTestPipeline(t *testing.T, grammar GrammarChecker) *Pipeline {
	t.Helper()
	p, err := New(nil, grammar, Options{Log: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func speechSignal(seconds float64) audio.Signal {
	rate := 16000
	n := int(seconds * float64(rate))
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 0.4 * math.Sin(2*math.Pi*180*float64(i)/float64(rate))
	}
	return audio.Signal{Samples: samples, SampleRate: rate}
}

func TestScoreRejectsDegenerateAudio(t *testing.T) {
	p := newTestPipeline(t, nil)
	sig := audio.Signal{Samples: make([]float64, 10), SampleRate: 16000}

	_, err := p.Score(context.Background(), sig, "hello", "")
	if err == nil {
		t.Fatal("expected error for degenerate audio")
	}
	var loadErr *audio.LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *audio.LoadError, got %T", err)
	}
}

func TestScoreDeterministic(t *testing.T) {
	p := newTestPipeline(t, &fakeGrammar{rep: clients.FailOpen("the quick brown fox jumps over the lazy dog")})
	sig := speechSignal(3)
	text := "the quick brown fox jumps over the lazy dog"

	a, err := p.Score(context.Background(), sig, text, "")
	if err != nil {
		t.Fatal(err)
	}
	b, err := p.Score(context.Background(), sig, text, "")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("identical inputs produced different reports:\n%+v\n%+v", a, b)
	}
}

func TestScoreAllComponentsInRange(t *testing.T) {
	p := newTestPipeline(t, nil)
	rep, err := p.Score(context.Background(), speechSignal(4),
		"I went to the market because I wanted fresh fruit.", "")
	if err != nil {
		t.Fatal(err)
	}
	for name, v := range map[string]float64{
		"pronunciation": rep.Scores.Pronunciation,
		"fluency":       rep.Scores.Fluency,
		"completeness":  rep.Scores.Completeness,
		"accuracy":      rep.Scores.Accuracy,
		"overall":       rep.Scores.Overall,
	} {
		if v < 0 || v > 100 {
			t.Errorf("%s = %v out of [0, 100]", name, v)
		}
	}
	if rep.Grade == "" || rep.Summary == "" {
		t.Error("report missing grade or summary")
	}
}

func TestScoreEmptyTranscript(t *testing.T) {
	// Unrecognized speech: text-dependent scores resolve to 0, acoustic
	// scores still compute.
	p := newTestPipeline(t, nil)
	rep, err := p.Score(context.Background(), speechSignal(3), "", "")
	if err != nil {
		t.Fatal(err)
	}

	if rep.Scores.Completeness != 0 {
		t.Errorf("Completeness = %v, want 0", rep.Scores.Completeness)
	}
	if rep.Scores.Accuracy != 0 {
		t.Errorf("Accuracy = %v, want 0", rep.Scores.Accuracy)
	}
	if rep.Scores.Fluency <= 0 {
		t.Errorf("Fluency = %v, want acoustic-only floor above 0", rep.Scores.Fluency)
	}
	if rep.Scores.Pronunciation < 1 {
		t.Errorf("Pronunciation = %v, want >= 1", rep.Scores.Pronunciation)
	}
}

func TestScoreSilentAudio(t *testing.T) {
	// All-zero buffer: no voice activity, fluency at its floor,
	// pronunciation defaults pitch stability instead of erroring.
	p := newTestPipeline(t, nil)
	sig := audio.Signal{Samples: make([]float64, 5*16000), SampleRate: 16000}

	rep, err := p.Score(context.Background(), sig, "", "")
	if err != nil {
		t.Fatal(err)
	}
	// Speed tier for 0 WPM contributes 0.3*40 = 12.
	if rep.Scores.Fluency > 12 {
		t.Errorf("Fluency = %v, want at the silent floor", rep.Scores.Fluency)
	}
	if rep.Scores.Pronunciation < 1 {
		t.Errorf("Pronunciation = %v, want >= 1", rep.Scores.Pronunciation)
	}
}

func TestScoreGrammarTimeout(t *testing.T) {
	slow := &fakeGrammar{delay: 5 * time.Second}
	p, err := New(nil, slow, Options{GrammarTimeout: 50 * time.Millisecond, Log: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}

	text := "You is cool."
	start := time.Now()
	rep, err := p.Score(context.Background(), speechSignal(2), text, "")
	if err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("grammar timeout did not bound the pipeline: took %v", elapsed)
	}
	// Fail-open: uncorrected text, zero reported errors.
	if rep.Grammar.Corrected != text {
		t.Errorf("Corrected = %q, want uncorrected original", rep.Grammar.Corrected)
	}
	if rep.Grammar.ErrorCount != 0 {
		t.Errorf("ErrorCount = %d, want 0 after fail-open", rep.Grammar.ErrorCount)
	}
}

func TestScoreGrammarErrorFailsOpen(t *testing.T) {
	p := newTestPipeline(t, &fakeGrammar{err: errors.New("service down")})
	text := "Hello there my friend."
	rep, err := p.Score(context.Background(), speechSignal(2), text, "")
	if err != nil {
		t.Fatal(err)
	}
	if rep.Grammar.Corrected != text {
		t.Errorf("Corrected = %q, want original after fail-open", rep.Grammar.Corrected)
	}
}

func TestScoreAppliesGrammarReport(t *testing.T) {
	grammar := &fakeGrammar{rep: clients.GrammarReport{
		Original:  "You is cool.",
		Corrected: "You are cool.",
		Errors: []clients.GrammarError{{
			Message:     "Subject and verb do not agree",
			ErrText:     "is",
			Suggestions: []string{"are"},
		}},
		ErrorCount: 1,
	}}
	p := newTestPipeline(t, grammar)

	rep, err := p.Score(context.Background(), speechSignal(2), "You is cool.", "")
	if err != nil {
		t.Fatal(err)
	}
	if rep.Grammar.Corrected != "You are cool." {
		t.Errorf("Corrected = %q, want the collaborator correction", rep.Grammar.Corrected)
	}
	if rep.Grammar.ErrorCount != 1 {
		t.Errorf("ErrorCount = %d, want 1", rep.Grammar.ErrorCount)
	}
}

func TestNewRejectsInvalidWeights(t *testing.T) {
	_, err := New(nil, nil, Options{
		Weights: scorer.Weights{Pronunciation: 0.9, Fluency: 0.9},
		Log:     quietLogger(),
	})
	if err == nil {
		t.Fatal("expected error for invalid weights")
	}
}
