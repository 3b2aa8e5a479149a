package scorer

import (
	"math"
	"strings"
	"testing"

	"github.com/fluentive/speechscore/transcript"
)

func TestCompletenessEmptyTranscript(t *testing.T) {
	tr, feats := transcript.Analyze("", "")
	score, fault := Completeness(tr, feats)
	if fault == nil {
		t.Fatal("expected fault for empty transcript")
	}
	if score.Value != 0 {
		t.Errorf("Value = %v, want 0", score.Value)
	}
}

func TestLengthBucket(t *testing.T) {
	tests := []struct {
		words int
		want  float64
	}{
		{60, 100},
		{50, 100},
		{49, 80},
		{30, 80},
		{29, 60},
		{15, 60},
		{14, 40},
		{5, 40},
		{4, 20},
		{1, 20},
	}
	for _, tt := range tests {
		if got := lengthBucket(tt.words); got != tt.want {
			t.Errorf("lengthBucket(%d) = %v, want %v", tt.words, got, tt.want)
		}
	}
}

// longUtterance builds a text with n filler words spread over sentences of
// eight words each.
func longUtterance(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString("word ")
		if (i+1)%8 == 0 {
			b.WriteString(". ")
		}
	}
	return b.String()
}

func TestCompletenessLongTranscriptNoConnectives(t *testing.T) {
	tr, feats := transcript.Analyze(longUtterance(60), "")
	score, fault := Completeness(tr, feats)
	if fault != nil {
		t.Fatalf("unexpected fault: %v", fault)
	}
	if score.Details["length_score"] != 100 {
		t.Errorf("length_score = %v, want 100", score.Details["length_score"])
	}
	if score.Details["connective_count"] != 0 {
		t.Errorf("connective_count = %v, want 0", score.Details["connective_count"])
	}
}

func TestCompletenessConnectivesRaiseScore(t *testing.T) {
	plain := longUtterance(60)
	connected := plain + " I stayed because it rained. However it cleared up. Therefore we left."

	trPlain, fPlain := transcript.Analyze(plain, "")
	trConn, fConn := transcript.Analyze(connected, "")

	plainScore, _ := Completeness(trPlain, fPlain)
	connScore, _ := Completeness(trConn, fConn)

	if connScore.Value <= plainScore.Value {
		t.Errorf("connectives should raise completeness: %v <= %v",
			connScore.Value, plainScore.Value)
	}
}

func TestCompletenessReferenceBonus(t *testing.T) {
	text := "I would like to order a cup of green tea please."
	trNoRef, fNoRef := transcript.Analyze(text, "")
	trRef, fRef := transcript.Analyze(text, text)

	noRef, _ := Completeness(trNoRef, fNoRef)
	withRef, _ := Completeness(trRef, fRef)

	diff := withRef.Value - noRef.Value
	if math.Abs(diff-referenceBonusMax) > 1e-9 {
		t.Errorf("identical reference bonus = %v, want %v", diff, float64(referenceBonusMax))
	}
}

func TestCompletenessClamped(t *testing.T) {
	// Max out every term plus the bonus; the sum must still clamp to 100.
	text := longUtterance(80) +
		" because although however therefore moreover furthermore nevertheless consequently meanwhile." +
		" One two three. Four five six. Seven eight nine. Ten eleven twelve."
	tr, feats := transcript.Analyze(text, text)
	score, _ := Completeness(tr, feats)
	if score.Value != 100 {
		t.Errorf("Value = %v, want clamped 100", score.Value)
	}
}
