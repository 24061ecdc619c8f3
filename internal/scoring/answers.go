package scoring

import (
	"career_compass_backend/internal/util"
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ParseAnswers converts a decoded JSON answer map into numbers. Values must
// be JSON numbers or numeric strings.
func ParseAnswers(raw map[string]interface{}) (map[string]float64, error) {
	if len(raw) == 0 {
		return nil, util.NewValidationError("%s", util.ErrEmptyAnswers.Error())
	}
	out := make(map[string]float64, len(raw))
	for _, key := range sortedKeys(raw) {
		if strings.TrimSpace(key) == "" {
			return nil, util.NewValidationError("answer key must not be blank")
		}
		v, ok := toFloat(raw[key])
		if !ok {
			return nil, util.NewValidationError("answer %q is not numeric", key)
		}
		out[key] = v
	}
	return out, nil
}

func toFloat(v interface{}) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Row checks answers against the bundle contract and returns the feature
// row. Keys the bundle does not know are ignored.
func (b *ModelBundle) Row(answers map[string]float64) (map[string]float64, error) {
	var missing []string
	row := make(map[string]float64, len(b.Features))
	for _, f := range b.Features {
		v, ok := answers[f]
		if !ok {
			missing = append(missing, f)
			continue
		}
		if !b.AnswerScale.Contains(v) {
			return nil, util.NewValidationError("answer %q=%v is outside [%v, %v]", f, v, b.AnswerScale.Min, b.AnswerScale.Max)
		}
		row[f] = v
	}
	if len(missing) > 0 {
		return nil, util.NewValidationError("missing answers: %s", strings.Join(missing, ", "))
	}
	return row, nil
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
