package service

import (
	"career_compass_backend/internal/model"
	"career_compass_backend/internal/repository"
	"career_compass_backend/internal/scoring"
	"context"
)

// learningStylePolicy matches every style tied for the highest score.
type learningStylePolicy struct {
	resolver *CategoryResolver
}

func (p *learningStylePolicy) Evaluate(ctx context.Context, at *model.AssessmentType, preds []scoring.Prediction) (*evaluation, error) {
	set, err := p.resolver.Resolve(ctx, at, model.CategoryLearningStyle, scoring.NormalizeContinuous(preds))
	if err != nil {
		return nil, err
	}

	stored, shown, chart := toDimensionScores(set.Resolved, continuousScore)

	best := set.Resolved[0].Score.Value
	for _, r := range set.Resolved[1:] {
		if r.Score.Value > best {
			best = r.Score.Value
		}
	}

	var (
		dominant []model.DimensionDetail
		matched  []MatchedCategory
	)
	for _, r := range set.Resolved {
		if r.Score.Value != best {
			continue
		}
		dominant = append(dominant, dimensionDetail(r.Dimension))
		matched = append(matched, MatchedCategory{Kind: repository.MatchDimension, ID: r.Dimension.ID})
	}

	return &evaluation{
		Scores:  stored,
		Matched: matched,
		Build: func(info model.TestInfo, careers []model.RecommendedCareer) interface{} {
			return &model.LearningStyleResult{
				TestInfo:           info,
				DominantStyles:     dominant,
				Dimensions:         shown,
				ChartData:          chart,
				RecommendedCareers: careers,
			}
		},
	}, nil
}
