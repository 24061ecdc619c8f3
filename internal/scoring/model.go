package scoring

import (
	"career_compass_backend/internal/model"
	"fmt"
	"math"
)

type PredictorKind string

const (
	// KindLinear produces a number: weights·x + intercept.
	KindLinear PredictorKind = "linear"
	// KindLogistic is a multinomial classifier; the label comes from Classes
	// (the fitted label encoder) and the probability from a softmax.
	KindLogistic PredictorKind = "logistic"
)

type AnswerScale struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

func (s AnswerScale) Contains(v float64) bool {
	return v >= s.Min && v <= s.Max
}

// Predictor is one fitted sub-model. Features is its own input order, which
// may be a subset of the bundle features.
type Predictor struct {
	Name         string        `json:"name" yaml:"name"`
	Kind         PredictorKind `json:"kind" yaml:"kind"`
	Features     []string      `json:"features,omitempty" yaml:"features,omitempty"`
	Weights      []float64     `json:"weights,omitempty" yaml:"weights,omitempty"`
	Intercept    float64       `json:"intercept,omitempty" yaml:"intercept,omitempty"`
	Classes      []string      `json:"classes,omitempty" yaml:"classes,omitempty"`
	Coefficients [][]float64   `json:"coefficients,omitempty" yaml:"coefficients,omitempty"`
	Intercepts   []float64     `json:"intercepts,omitempty" yaml:"intercepts,omitempty"`
}

// Prediction is the raw output of one Predictor. Label and Probability are
// only set by classifiers.
type Prediction struct {
	Name        string
	Value       float64
	Label       string
	Probability float64
}

// ModelBundle is everything needed to score one assessment category.
type ModelBundle struct {
	Category    model.Category `json:"category" yaml:"category"`
	Version     string         `json:"version,omitempty" yaml:"version,omitempty"`
	Features    []string       `json:"features" yaml:"features"`
	AnswerScale AnswerScale    `json:"answer_scale" yaml:"answer_scale"`
	Outputs     []*Predictor   `json:"outputs" yaml:"outputs"`
}

// Validate checks the bundle is internally consistent and fills predictor
// feature lists that were left empty with the bundle order.
func (b *ModelBundle) Validate() error {
	if len(b.Features) == 0 {
		return fmt.Errorf("bundle declares no features")
	}
	if b.AnswerScale.Max <= b.AnswerScale.Min {
		return fmt.Errorf("invalid answer scale [%v, %v]", b.AnswerScale.Min, b.AnswerScale.Max)
	}
	if len(b.Outputs) == 0 {
		return fmt.Errorf("bundle declares no outputs")
	}

	known := make(map[string]bool, len(b.Features))
	for _, f := range b.Features {
		if known[f] {
			return fmt.Errorf("duplicate feature %q", f)
		}
		known[f] = true
	}

	seen := make(map[string]bool, len(b.Outputs))
	for i, p := range b.Outputs {
		if p == nil || p.Name == "" {
			return fmt.Errorf("output %d has no name", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate output %q", p.Name)
		}
		seen[p.Name] = true

		if len(p.Features) == 0 {
			p.Features = append([]string(nil), b.Features...)
		}
		for _, f := range p.Features {
			if !known[f] {
				return fmt.Errorf("output %q uses undeclared feature %q", p.Name, f)
			}
		}
		if err := p.validate(); err != nil {
			return fmt.Errorf("output %q: %w", p.Name, err)
		}
	}
	return nil
}

func (p *Predictor) validate() error {
	switch p.Kind {
	case KindLinear:
		if len(p.Weights) != len(p.Features) {
			return fmt.Errorf("want %d weights, got %d", len(p.Features), len(p.Weights))
		}
	case KindLogistic:
		if len(p.Classes) < 2 {
			return fmt.Errorf("classifier needs at least two classes")
		}
		if len(p.Coefficients) != len(p.Classes) || len(p.Intercepts) != len(p.Classes) {
			return fmt.Errorf("want %d coefficient rows and intercepts", len(p.Classes))
		}
		for _, row := range p.Coefficients {
			if len(row) != len(p.Features) {
				return fmt.Errorf("want %d coefficients per class, got %d", len(p.Features), len(row))
			}
		}
	default:
		return fmt.Errorf("unknown predictor kind %q", p.Kind)
	}
	return nil
}

// Predict evaluates every output in bundle order.
func (b *ModelBundle) Predict(row map[string]float64) ([]Prediction, error) {
	out := make([]Prediction, 0, len(b.Outputs))
	for _, p := range b.Outputs {
		pred, err := p.Predict(row)
		if err != nil {
			return nil, err
		}
		out = append(out, pred)
	}
	return out, nil
}

func (p *Predictor) Predict(row map[string]float64) (Prediction, error) {
	x := make([]float64, len(p.Features))
	for i, f := range p.Features {
		v, ok := row[f]
		if !ok {
			return Prediction{}, fmt.Errorf("output %q: missing feature %q", p.Name, f)
		}
		x[i] = v
	}

	switch p.Kind {
	case KindLinear:
		return Prediction{Name: p.Name, Value: dot(p.Weights, x) + p.Intercept}, nil
	case KindLogistic:
		logits := make([]float64, len(p.Classes))
		for i := range p.Classes {
			logits[i] = dot(p.Coefficients[i], x) + p.Intercepts[i]
		}
		probs := softmax(logits)
		best := 0
		for i := range probs {
			if probs[i] > probs[best] {
				best = i
			}
		}
		return Prediction{
			Name:        p.Name,
			Value:       probs[best],
			Label:       p.Classes[best],
			Probability: probs[best],
		}, nil
	}
	return Prediction{}, fmt.Errorf("output %q: unknown predictor kind %q", p.Name, p.Kind)
}

func dot(w, x []float64) float64 {
	var s float64
	for i := range w {
		s += w[i] * x[i]
	}
	return s
}

func softmax(logits []float64) []float64 {
	max := math.Inf(-1)
	for _, l := range logits {
		if l > max {
			max = l
		}
	}
	var sum float64
	out := make([]float64, len(logits))
	for i, l := range logits {
		out[i] = math.Exp(l - max)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
