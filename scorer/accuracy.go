package scorer

import (
	"math"

	"github.com/fluentive/speechscore/clients"
	"github.com/fluentive/speechscore/transcript"
)

const (
	accGrammarWeight   = 0.40
	accVocabWeight     = 0.35
	accReferenceWeight = 0.25

	// Grammar term: start at a baseline and subtract a fixed penalty per
	// detected error, never dropping below the floor. DESIGN.md records
	// the variant decision.
	grammarBase    = 80.0
	grammarPenalty = 5.0
	grammarFloor   = 40.0

	// vocabScale stretches unique-word ratio onto the 0-100 scale.
	vocabScale = 150
)

// Accuracy scores lexical and grammatical correctness: grammar-error
// density, vocabulary diversity, and either similarity to a reference or
// readability when none was supplied. An empty transcript scores 0.
func Accuracy(tr transcript.Transcript, feats transcript.Features, grammar clients.GrammarReport) (ComponentScore, *Fault) {
	if tr.Empty() {
		return ComponentScore{Details: map[string]float64{}}, &Fault{
			Component: "accuracy",
			Reason:    "empty transcript",
			Default:   0,
		}
	}

	// Prefer the collaborator's error count; when it reports nothing
	// (including fail-open) fall back to the local agreement-pattern scan.
	errCount := grammar.ErrorCount
	if errCount == 0 {
		errCount = feats.AgreementHits
	}
	grammarTerm := math.Max(grammarBase-grammarPenalty*float64(errCount), grammarFloor)

	vocabTerm := math.Min(feats.UniqueRatio*vocabScale, 100)

	var refTerm float64
	if feats.HasReference {
		refTerm = feats.Similarity * 100
	} else {
		refTerm = clamp(feats.Readability, 0, 100)
	}

	value := accGrammarWeight*grammarTerm +
		accVocabWeight*vocabTerm +
		accReferenceWeight*refTerm

	return ComponentScore{
		Value: clamp(value, 0, 100),
		Details: map[string]float64{
			"grammar_term":   grammarTerm,
			"grammar_errors": float64(errCount),
			"vocab_term":     vocabTerm,
			"reference_term": refTerm,
			"unique_ratio":   feats.UniqueRatio,
		},
	}, nil
}
