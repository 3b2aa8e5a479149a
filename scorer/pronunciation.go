package scorer

import (
	"math"

	"github.com/fluentive/speechscore/features"
)

const (
	pronClarityWeight   = 0.4
	pronStabilityWeight = 0.3
	pronTimbreWeight    = 0.3

	// contrastRefDB maps the measured spectral contrast onto [0, 1];
	// clear speech sits around 30-40 dB of peak-valley spread.
	contrastRefDB = 40.0

	// centroidSpreadRefHz bounds the timbre-variability term.
	centroidSpreadRefHz = 1000.0
)

// Pronunciation scores articulation quality from acoustic features alone:
// clarity from spectral contrast, pitch stability, and timbre steadiness.
// The result never drops to 0 so a low score stays distinguishable from
// "not computed".
func Pronunciation(ac *features.Acoustic) (ComponentScore, *Fault) {
	var fault *Fault

	clarity := clamp01(ac.Contrast / contrastRefDB)

	// With no voiced frames stability is undefined; the documented default
	// is perfect stability rather than an error.
	stability := 1.0
	if len(ac.Pitch) == 0 || ac.PitchMean == 0 {
		fault = &Fault{
			Component: "pronunciation",
			Reason:    "no voiced frames, pitch stability undefined",
			Default:   1,
		}
	} else {
		stability = clamp01(1 - ac.PitchStd/ac.PitchMean)
	}

	timbre := 1 - math.Min(1, ac.CentroidStd/centroidSpreadRefHz)

	value := (pronClarityWeight*clarity +
		pronStabilityWeight*stability +
		pronTimbreWeight*timbre) * 100

	return ComponentScore{
		Value: clamp(value, 1, 100),
		Details: map[string]float64{
			"clarity":                clarity,
			"pitch_stability":        stability,
			"timbre":                 timbre,
			"avg_pitch":              ac.PitchMean,
			"pitch_std":              ac.PitchStd,
			"spectral_centroid_mean": ac.CentroidMean,
		},
	}, fault
}
