package ml

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/afyajamii/afya/internal/errs"
)

// Feature names in the order the trained model expects them.
var featureNames = []string{"Age", "SystolicBP", "DiastolicBP", "BS", "BodyTemp", "HeartRate"}

// Features is the fixed vitals vector consumed by the classifier.
// BodyTemp must already be in degrees Fahrenheit, matching the training data.
type Features struct {
	Age         float64
	SystolicBP  float64
	DiastolicBP float64
	BS          float64
	BodyTemp    float64
	HeartRate   float64
}

func (f Features) vector() []float64 {
	return []float64{f.Age, f.SystolicBP, f.DiastolicBP, f.BS, f.BodyTemp, f.HeartRate}
}

// Prediction is the classifier output for one vitals vector.
type Prediction struct {
	Label       string
	Probability float64
	// Importances maps each feature name to its normalized contribution
	// to the winning class score. Values sum to 1.
	Importances map[string]float64
}

// artifact is the serialized form of a trained multinomial logistic
// regression: one coefficient row per class over standardized features.
type artifact struct {
	Features     []string    `json:"features"`
	Classes      []string    `json:"classes"`
	Coefficients [][]float64 `json:"coefficients"`
	Intercepts   []float64   `json:"intercepts"`
	Means        []float64   `json:"means"`
	Scales       []float64   `json:"scales"`
}

// Classifier scores vitals against a loaded model artifact. It is immutable
// after Load and safe for concurrent use.
type Classifier struct {
	model *artifact
}

// Load reads and validates a model artifact from disk. A missing or
// malformed artifact returns errs.ErrModelUnavailable; callers treat this
// as a fatal startup condition.
func Load(path string) (*Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", errs.ErrModelUnavailable, path, err)
	}

	var m artifact
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", errs.ErrModelUnavailable, path, err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrModelUnavailable, err)
	}

	return &Classifier{model: &m}, nil
}

func (m *artifact) validate() error {
	n := len(featureNames)
	if len(m.Features) != n {
		return fmt.Errorf("model declares %d features, want %d", len(m.Features), n)
	}
	for i, name := range m.Features {
		if name != featureNames[i] {
			return fmt.Errorf("feature %d is %q, want %q", i, name, featureNames[i])
		}
	}
	if len(m.Classes) < 2 {
		return fmt.Errorf("model declares %d classes, want at least 2", len(m.Classes))
	}
	if len(m.Coefficients) != len(m.Classes) {
		return fmt.Errorf("coefficient rows %d do not match classes %d", len(m.Coefficients), len(m.Classes))
	}
	for i, row := range m.Coefficients {
		if len(row) != n {
			return fmt.Errorf("coefficient row %d has %d entries, want %d", i, len(row), n)
		}
	}
	if len(m.Intercepts) != len(m.Classes) {
		return fmt.Errorf("intercepts %d do not match classes %d", len(m.Intercepts), len(m.Classes))
	}
	if len(m.Means) != n || len(m.Scales) != n {
		return fmt.Errorf("standardization vectors must have %d entries", n)
	}
	for i, s := range m.Scales {
		if s == 0 {
			return fmt.Errorf("scale %d is zero", i)
		}
	}
	return nil
}

// Predict scores the features and returns the winning class, its softmax
// probability, and per-feature importance weights. Deterministic for
// identical input, no I/O.
func (c *Classifier) Predict(f Features) (Prediction, error) {
	if c == nil || c.model == nil {
		return Prediction{}, errs.ErrModelUnavailable
	}
	m := c.model

	raw := f.vector()
	z := make([]float64, len(raw))
	for i, x := range raw {
		z[i] = (x - m.Means[i]) / m.Scales[i]
	}

	scores := make([]float64, len(m.Classes))
	for k, row := range m.Coefficients {
		s := m.Intercepts[k]
		for j, w := range row {
			s += w * z[j]
		}
		scores[k] = s
	}

	probs := softmax(scores)
	best := 0
	for k := range probs {
		if probs[k] > probs[best] {
			best = k
		}
	}

	importances := make(map[string]float64, len(featureNames))
	var total float64
	contrib := make([]float64, len(featureNames))
	for j := range featureNames {
		contrib[j] = math.Abs(m.Coefficients[best][j] * z[j])
		total += contrib[j]
	}
	for j, name := range featureNames {
		if total > 0 {
			importances[name] = contrib[j] / total
		} else {
			importances[name] = 0
		}
	}

	return Prediction{
		Label:       m.Classes[best],
		Probability: probs[best],
		Importances: importances,
	}, nil
}

// softmax is computed against the max score for numeric stability.
func softmax(scores []float64) []float64 {
	max := scores[0]
	for _, s := range scores[1:] {
		if s > max {
			max = s
		}
	}
	var sum float64
	out := make([]float64, len(scores))
	for i, s := range scores {
		out[i] = math.Exp(s - max)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
