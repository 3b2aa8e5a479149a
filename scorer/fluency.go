package scorer

import (
	"math"

	"github.com/fluentive/speechscore/features"
	"github.com/fluentive/speechscore/transcript"
)

// Fluency blend: voice activity 40%, speaking-rate tier 30%, pause
// quality 30%. This is the evaluation-path formula; see DESIGN.md for the
// variant decision.
const (
	fluActivityWeight = 0.4
	fluSpeedWeight    = 0.3
	fluPauseWeight    = 0.3

	// pauseScale converts voice activity into the pause sub-score: a
	// clip that is 5/6 active already earns the full pause score.
	pauseScale = 120
)

// Fluency scores delivery pace and continuity. It stays computable for an
// empty transcript: the activity and pause terms need only acoustics.
func Fluency(ac *features.Acoustic, tr transcript.Transcript) (ComponentScore, *Fault) {
	var fault *Fault

	activity := math.Min(ac.VoiceActivity*100, 100)
	pause := math.Min(ac.VoiceActivity*pauseScale, 100)

	wpm := 0.0
	var speed float64
	if ac.Duration > 0 {
		wpm = float64(tr.WordCount()) / ac.Duration * 60
		speed = speedTier(wpm)
	} else {
		fault = &Fault{Component: "fluency", Reason: "zero duration", Default: 0}
	}

	value := fluActivityWeight*activity + fluSpeedWeight*speed + fluPauseWeight*pause

	return ComponentScore{
		Value: clamp(value, 0, 100),
		Details: map[string]float64{
			"speaking_rate":  wpm,
			"voice_activity": ac.VoiceActivity,
			"pause_count":    float64(ac.PauseCount),
			"pause_duration": ac.PauseDuration,
			"word_count":     float64(tr.WordCount()),
			"duration":       ac.Duration,
		},
	}, fault
}

// speedTier buckets words-per-minute around the 120-180 WPM sweet spot.
func speedTier(wpm float64) float64 {
	switch {
	case wpm >= 120 && wpm <= 180:
		return 100
	case (wpm >= 100 && wpm < 120) || (wpm > 180 && wpm <= 200):
		return 80
	case (wpm >= 80 && wpm < 100) || (wpm > 200 && wpm <= 220):
		return 60
	default:
		return 40
	}
}
