package scorer

import (
	"math"
	"strings"

	"github.com/fluentive/speechscore/transcript"
)

const (
	compLengthWeight     = 0.5
	compSentenceWeight   = 0.3
	compComplexityWeight = 0.2

	// referenceBonusMax is the extra credit for matching a supplied
	// reference utterance.
	referenceBonusMax = 20

	// minSentenceWords is the threshold for a sentence to count as
	// structurally complete.
	minSentenceWords = 3
)

// Completeness scores how much of a full utterance was produced: length,
// complete-sentence structure, use of complexity connectives, and an
// optional bonus for similarity to a reference text. An empty transcript
// short-circuits to 0.
func Completeness(tr transcript.Transcript, feats transcript.Features) (ComponentScore, *Fault) {
	if tr.Empty() {
		return ComponentScore{Details: map[string]float64{}}, &Fault{
			Component: "completeness",
			Reason:    "empty transcript",
			Default:   0,
		}
	}

	length := lengthBucket(tr.WordCount())

	complete := 0
	for _, s := range tr.Sentences {
		if len(strings.Fields(s)) >= minSentenceWords {
			complete++
		}
	}
	sentence := math.Min(float64(complete)*25, 100)

	complexity := math.Min(float64(feats.ConnectiveCount)*20, 100)

	bonus := 0.0
	if feats.HasReference {
		bonus = feats.Similarity * referenceBonusMax
	}

	value := compLengthWeight*length +
		compSentenceWeight*sentence +
		compComplexityWeight*complexity +
		bonus

	return ComponentScore{
		Value: clamp(value, 0, 100),
		Details: map[string]float64{
			"length_score":       length,
			"complete_sentences": float64(complete),
			"connective_count":   float64(feats.ConnectiveCount),
			"reference_bonus":    bonus,
		},
	}, nil
}

// lengthBucket maps transcript word count onto a 20-100 step scale.
func lengthBucket(words int) float64 {
	switch {
	case words >= 50:
		return 100
	case words >= 30:
		return 80
	case words >= 15:
		return 60
	case words >= 5:
		return 40
	default:
		return 20
	}
}
