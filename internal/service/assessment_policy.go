package service

import (
	"career_compass_backend/internal/model"
	"sort"
)

func floatPtr(v float64) *float64 { return &v }

// continuousScore stores the numeric value and its percentage.
func continuousScore(r Resolution) model.ScoreValue {
	return model.ScoreValue{Score: floatPtr(r.Score.Value), Percentage: r.Score.Percentage}
}

func toDimensionScores(rs []Resolution, value func(Resolution) model.ScoreValue) ([]dimensionScore, []model.DimensionScore, model.ChartData) {
	stored := make([]dimensionScore, 0, len(rs))
	shown := make([]model.DimensionScore, 0, len(rs))
	chart := model.ChartData{Labels: make([]string, 0, len(rs)), Values: make([]float64, 0, len(rs))}
	for _, r := range rs {
		v := value(r)
		stored = append(stored, dimensionScore{Dimension: r.Dimension, Value: v})
		shown = append(shown, model.DimensionScore{
			Name:       r.Key.Label(),
			Title:      r.Dimension.Title,
			Score:      v.Score,
			Level:      v.Level,
			Percentage: v.Percentage,
		})
		chart.Labels = append(chart.Labels, r.Key.Label())
		chart.Values = append(chart.Values, v.Percentage)
	}
	return stored, shown, chart
}

// rankByScore orders resolutions by normalized value, highest first; ties
// keep bundle order.
func rankByScore(rs []Resolution) []Resolution {
	ranked := append([]Resolution(nil), rs...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score.Value > ranked[j].Score.Value
	})
	return ranked
}

func traitTexts(traits []model.DimensionTrait, kind string) []string {
	var out []string
	for _, t := range traits {
		if t.Kind == kind {
			out = append(out, t.Text)
		}
	}
	return out
}

func dimensionDetail(d *model.Dimension) model.DimensionDetail {
	return model.DimensionDetail{
		Name:            d.Name,
		Title:           d.Title,
		Description:     d.Description,
		KeyTraits:       traitTexts(d.Traits, model.TraitKindKeyTrait),
		StudyTechniques: traitTexts(d.Traits, model.TraitKindStudyTechnique),
	}
}
