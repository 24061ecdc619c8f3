package scoring

import (
	"career_compass_backend/internal/model"
	"fmt"
	"math"
	"strings"
)

const (
	DefaultMin = 1.0
	DefaultMax = 10.0
)

// MinMax rescales values into [lo, hi]. A constant vector maps every element
// to the midpoint of the range.
func MinMax(values []float64, lo, hi float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if max == min {
		mid := (lo + hi) / 2
		for i := range out {
			out[i] = mid
		}
		return out
	}
	for i, v := range values {
		out[i] = lo + (v-min)/(max-min)*(hi-lo)
	}
	return out
}

// Percentages divides each value by the vector sum, as a percentage rounded
// to two decimals. A zero sum yields equal shares.
func Percentages(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	for i, v := range values {
		if sum == 0 {
			out[i] = Round2(100 / float64(len(values)))
			continue
		}
		out[i] = Round2(v / sum * 100)
	}
	return out
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Score is one normalized output, ready for resolution and persistence.
type Score struct {
	Key        string
	Raw        float64
	Value      float64
	Label      string
	Percentage float64
}

// NormalizeContinuous min-max scales the predictions into [DefaultMin,
// DefaultMax]; percentages are taken over the scaled vector.
func NormalizeContinuous(preds []Prediction) []Score {
	raw := make([]float64, len(preds))
	for i, p := range preds {
		raw[i] = p.Value
	}
	scaled := MinMax(raw, DefaultMin, DefaultMax)
	pct := Percentages(scaled)

	out := make([]Score, len(preds))
	for i, p := range preds {
		out[i] = Score{Key: p.Name, Raw: p.Value, Value: Round2(scaled[i]), Percentage: pct[i]}
	}
	return out
}

// NormalizeLabels keeps classifier labels; the percentage is the predicted
// class probability.
func NormalizeLabels(preds []Prediction) []Score {
	out := make([]Score, len(preds))
	for i, p := range preds {
		out[i] = Score{
			Key:        p.Name,
			Raw:        p.Probability,
			Value:      p.Probability,
			Label:      p.Label,
			Percentage: Round2(p.Probability * 100),
		}
	}
	return out
}

// Dichotomy is one personality axis. First wins ties.
type Dichotomy struct {
	First  string
	Second string
}

var PersonalityPairs = []Dichotomy{
	{First: "E", Second: "I"},
	{First: "N", Second: "S"},
	{First: "F", Second: "T"},
	{First: "J", Second: "P"},
}

func ResolveDichotomy(pair Dichotomy, first, second float64) string {
	if first >= second {
		return pair.First
	}
	return pair.Second
}

// PersonalityProfile is the outcome of resolving all four axes.
type PersonalityProfile struct {
	Type   string
	Scores []Score
}

// NormalizeDichotomies resolves the personality type from per-letter
// predictions. Percentages are computed within each pair.
func NormalizeDichotomies(preds []Prediction) (PersonalityProfile, error) {
	byLetter := make(map[string]float64, len(preds))
	for _, p := range preds {
		key, err := ParseCategoryKey(model.CategoryPersonality, p.Name)
		if err != nil {
			return PersonalityProfile{}, err
		}
		byLetter[key.Name] = p.Value
	}

	var b strings.Builder
	scores := make([]Score, 0, len(PersonalityPairs)*2)
	for _, pair := range PersonalityPairs {
		first, ok1 := byLetter[pair.First]
		second, ok2 := byLetter[pair.Second]
		if !ok1 || !ok2 {
			return PersonalityProfile{}, fmt.Errorf("personality model has no output for %s/%s", pair.First, pair.Second)
		}
		b.WriteString(ResolveDichotomy(pair, first, second))

		pct := pairPercentages(first, second)
		scores = append(scores,
			Score{Key: pair.First, Raw: first, Value: first, Percentage: pct[0]},
			Score{Key: pair.Second, Raw: second, Value: second, Percentage: pct[1]},
		)
	}
	return PersonalityProfile{Type: b.String(), Scores: scores}, nil
}

func pairPercentages(a, b float64) [2]float64 {
	if a < 0 {
		a = 0
	}
	if b < 0 {
		b = 0
	}
	if a+b == 0 {
		return [2]float64{50, 50}
	}
	pa := Round2(a / (a + b) * 100)
	return [2]float64{pa, Round2(100 - pa)}
}
