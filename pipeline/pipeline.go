// Package pipeline orchestrates one scoring invocation: feature extraction
// and transcript analysis run once, the four scorers fan out as concurrent
// tasks over the shared read-only data, and the aggregator joins them into
// the final report.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/fluentive/speechscore/audio"
	"github.com/fluentive/speechscore/clients"
	"github.com/fluentive/speechscore/features"
	"github.com/fluentive/speechscore/report"
	"github.com/fluentive/speechscore/scorer"
	"github.com/fluentive/speechscore/transcript"
)

// Transcriber is the speech-to-text collaborator. An empty transcript
// means unrecognized speech, not failure.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// GrammarChecker is the grammar-check collaborator. The pipeline fails
// open on any error it returns.
type GrammarChecker interface {
	Check(ctx context.Context, text string) (clients.GrammarReport, error)
}

// DefaultGrammarTimeout bounds the one potentially slow collaborator call
// so a grammar outage cannot block the whole report.
const DefaultGrammarTimeout = 10 * time.Second

// Options configures a Pipeline.
type Options struct {
	Weights        scorer.Weights
	GrammarTimeout time.Duration
	Log            *logrus.Logger
}

// Pipeline is the caller-owned analysis context: collaborator handles and
// scoring configuration, constructed once and reused across invocations.
// It holds no per-call state.
type Pipeline struct {
	stt            Transcriber
	grammar        GrammarChecker
	weights        scorer.Weights
	grammarTimeout time.Duration
	log            *logrus.Logger
}

// New builds a Pipeline around the injected collaborators. Either
// collaborator may be nil: a nil Transcriber limits the pipeline to
// pre-transcribed input, a nil GrammarChecker always fails open.
func New(stt Transcriber, grammar GrammarChecker, opts Options) (*Pipeline, error) {
	w := opts.Weights
	if w == (scorer.Weights{}) {
		w = scorer.DefaultWeights()
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	timeout := opts.GrammarTimeout
	if timeout <= 0 {
		timeout = DefaultGrammarTimeout
	}
	log := opts.Log
	if log == nil {
		log = logrus.New()
	}
	return &Pipeline{
		stt:            stt,
		grammar:        grammar,
		weights:        w,
		grammarTimeout: timeout,
		log:            log,
	}, nil
}

// ScoreFile decodes a WAV file, obtains its transcript from the
// speech-to-text collaborator, and scores it.
func (p *Pipeline) ScoreFile(ctx context.Context, wavPath, reference string) (report.ScoreReport, error) {
	sig, err := audio.LoadWAV(wavPath)
	if err != nil {
		return report.ScoreReport{}, err
	}

	text := ""
	if p.stt != nil {
		text, err = p.stt.Transcribe(ctx, wavPath)
		if err != nil {
			// Unrecognized speech degrades to an empty transcript.
			p.log.WithError(err).Warn("speech recognition failed, scoring without transcript")
			text = ""
		}
	}
	return p.Score(ctx, sig, text, reference)
}

// Score runs the full pipeline over a decoded signal and its transcript.
// Only an unreadable buffer aborts; every other failure is absorbed with
// a logged warning and a documented default, so the caller always gets a
// complete, well-formed report.
func (p *Pipeline) Score(ctx context.Context, sig audio.Signal, text, reference string) (report.ScoreReport, error) {
	ac, err := features.Extract(sig)
	if err != nil {
		var loadErr *audio.LoadError
		if errors.As(err, &loadErr) {
			return report.ScoreReport{}, err
		}
		return report.ScoreReport{}, &audio.LoadError{Reason: "feature extraction", Err: err}
	}

	tr, feats := transcript.Analyze(text, reference)
	if tr.Empty() {
		p.log.Warn("empty transcript: text-dependent scores resolve to 0")
	}

	var (
		pron, flu, comp, acc scorer.ComponentScore
		grammarRep           clients.GrammarReport
	)
	grammarCh := make(chan clients.GrammarReport, 1)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		grammarCh <- p.checkGrammar(gctx, tr)
		return nil
	})
	g.Go(func() error {
		var fault *scorer.Fault
		pron, fault = scorer.Pronunciation(ac)
		p.warn(fault)
		return nil
	})
	g.Go(func() error {
		var fault *scorer.Fault
		flu, fault = scorer.Fluency(ac, tr)
		p.warn(fault)
		return nil
	})
	g.Go(func() error {
		var fault *scorer.Fault
		comp, fault = scorer.Completeness(tr, feats)
		p.warn(fault)
		return nil
	})
	g.Go(func() error {
		grammarRep = <-grammarCh
		var fault *scorer.Fault
		acc, fault = scorer.Accuracy(tr, feats, grammarRep)
		p.warn(fault)
		return nil
	})

	// Scorer tasks absorb their own faults; the barrier only joins them.
	_ = g.Wait()

	return report.Aggregate(pron, flu, comp, acc, tr, grammarRep, p.weights), nil
}

// checkGrammar calls the grammar collaborator under a bounded timeout and
// fails open to the uncorrected text on any failure.
func (p *Pipeline) checkGrammar(ctx context.Context, tr transcript.Transcript) clients.GrammarReport {
	if tr.Empty() || p.grammar == nil {
		return clients.FailOpen(tr.Text)
	}

	gtx, cancel := context.WithTimeout(ctx, p.grammarTimeout)
	defer cancel()

	rep, err := p.grammar.Check(gtx, tr.Text)
	if err != nil {
		p.log.WithError(err).Warn("grammar check failed, using uncorrected text")
		return clients.FailOpen(tr.Text)
	}
	return rep
}

func (p *Pipeline) warn(fault *scorer.Fault) {
	if fault == nil {
		return
	}
	p.log.WithFields(logrus.Fields{
		"component": fault.Component,
		"default":   fault.Default,
	}).Warn(fault.Reason)
}
