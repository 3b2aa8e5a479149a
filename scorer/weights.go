package scorer

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Weights is the convex blend producing the overall score. The deployment
// default weights fluency highest: it is the strongest signal of spoken
// proficiency in conversational practice.
type Weights struct {
	Pronunciation float64 `yaml:"pronunciation"`
	Fluency       float64 `yaml:"fluency"`
	Completeness  float64 `yaml:"completeness"`
	Accuracy      float64 `yaml:"accuracy"`
}

// DefaultWeights is the documented deployment blend.
func DefaultWeights() Weights {
	return Weights{
		Pronunciation: 0.30,
		Fluency:       0.40,
		Completeness:  0.10,
		Accuracy:      0.20,
	}
}

// LoadWeights reads a YAML weights profile. A missing path yields the
// default blend so deployments without a profile keep working.
func LoadWeights(path string) (Weights, error) {
	if path == "" {
		return DefaultWeights(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultWeights(), nil
		}
		return Weights{}, fmt.Errorf("weights profile: %w", err)
	}
	defer f.Close()

	var w Weights
	if err := yaml.NewDecoder(f).Decode(&w); err != nil {
		return Weights{}, fmt.Errorf("weights profile %s: %w", path, err)
	}
	if err := w.Validate(); err != nil {
		return Weights{}, fmt.Errorf("weights profile %s: %w", path, err)
	}
	return w, nil
}

// Validate ensures the blend is convex: non-negative weights summing to 1.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"pronunciation": w.Pronunciation,
		"fluency":       w.Fluency,
		"completeness":  w.Completeness,
		"accuracy":      w.Accuracy,
	} {
		if v < 0 {
			return fmt.Errorf("negative %s weight %v", name, v)
		}
	}
	sum := w.Pronunciation + w.Fluency + w.Completeness + w.Accuracy
	if math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("weights sum to %v, want 1", sum)
	}
	return nil
}

// Blend combines the four component values into the overall score.
func (w Weights) Blend(pron, flu, comp, acc float64) float64 {
	return w.Pronunciation*pron + w.Fluency*flu + w.Completeness*comp + w.Accuracy*acc
}
