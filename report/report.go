// Package report merges the four component scores into the terminal
// ScoreReport artifact: weighted overall score, letter grade, and a
// generated summary. Reports are immutable once built and serialize to a
// flat JSON object at the system boundary.
package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/fluentive/speechscore/clients"
	"github.com/fluentive/speechscore/scorer"
	"github.com/fluentive/speechscore/transcript"
)

// Scores carries the four component values plus the weighted overall,
// each rounded to one decimal place.
type Scores struct {
	Fluency       float64 `json:"fluency"`
	Completeness  float64 `json:"completeness"`
	Accuracy      float64 `json:"accuracy"`
	Pronunciation float64 `json:"pronunciation"`
	Overall       float64 `json:"overall"`
}

// ScoreReport is the terminal scoring artifact.
type ScoreReport struct {
	Scores     Scores                `json:"scores"`
	Transcript string                `json:"transcript"`
	Grammar    clients.GrammarReport `json:"grammar"`
	Grade      string                `json:"grade"`
	Summary    string                `json:"summary"`
}

// Aggregate merges the component scores under the given weights. The
// merge is keyed by component, not arrival order, so callers may compute
// the inputs concurrently.
func Aggregate(pron, flu, comp, acc scorer.ComponentScore,
	tr transcript.Transcript, grammar clients.GrammarReport, w scorer.Weights) ScoreReport {

	scores := Scores{
		Pronunciation: Round1(pron.Value),
		Fluency:       Round1(flu.Value),
		Completeness:  Round1(comp.Value),
		Accuracy:      Round1(acc.Value),
	}
	scores.Overall = Round1(w.Blend(scores.Pronunciation, scores.Fluency,
		scores.Completeness, scores.Accuracy))

	return ScoreReport{
		Scores:     scores,
		Transcript: tr.Text,
		Grammar:    grammar,
		Grade:      Grade(scores.Overall),
		Summary:    summarize(scores, flu),
	}
}

// Grade maps the overall score to a letter grade. Boundaries are exact:
// 90.0 is an A, 89.9 a B.
func Grade(overall float64) string {
	switch {
	case overall >= 90:
		return "A"
	case overall >= 80:
		return "B"
	case overall >= 70:
		return "C"
	case overall >= 60:
		return "D"
	default:
		return "F"
	}
}

// Round1 rounds to one decimal place, the reporting precision for every
// score at the system boundary.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Improvement-bullet gates.
const adviceThreshold = 70

// summarize renders the deterministic report summary: overall banner,
// per-component lines, then up to three improvement bullets.
func summarize(s Scores, flu scorer.ComponentScore) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Overall score: %.1f/100 (%s)\n\n", s.Overall, level(s.Overall))
	fmt.Fprintf(&b, "Pronunciation: %.1f/100\n", s.Pronunciation)
	fmt.Fprintf(&b, "Fluency: %.1f/100\n", s.Fluency)
	fmt.Fprintf(&b, "Completeness: %.1f/100\n", s.Completeness)
	fmt.Fprintf(&b, "Accuracy: %.1f/100\n", s.Accuracy)

	var advice []string
	if s.Pronunciation < adviceThreshold {
		advice = append(advice, "Practice pronunciation and work on keeping your pitch steady.")
	}
	if s.Fluency < adviceThreshold {
		advice = append(advice, fmt.Sprintf(
			"Current speaking rate: %.0f WPM; aim for a steady 120-180 WPM.",
			flu.Details["speaking_rate"]))
	}
	if s.Accuracy < adviceThreshold {
		advice = append(advice, "Review grammar basics and vary your vocabulary.")
	}

	if len(advice) > 0 {
		b.WriteString("\nSuggestions:\n")
		for _, a := range advice {
			fmt.Fprintf(&b, "- %s\n", a)
		}
	} else {
		b.WriteString("\nGreat work! Keep it up.\n")
	}
	return b.String()
}

func level(overall float64) string {
	switch {
	case overall >= 85:
		return "Excellent"
	case overall >= 75:
		return "Good"
	case overall >= 60:
		return "Fair"
	case overall >= 40:
		return "Passing"
	default:
		return "Needs improvement"
	}
}
