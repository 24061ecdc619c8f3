package service

import (
	"career_compass_backend/internal/model"
	"career_compass_backend/internal/repository"
	"career_compass_backend/internal/scoring"
	"context"
)

const valueTopCategories = 3

type valuePolicy struct {
	resolver *CategoryResolver
}

func (p *valuePolicy) Evaluate(ctx context.Context, at *model.AssessmentType, preds []scoring.Prediction) (*evaluation, error) {
	set, err := p.resolver.Resolve(ctx, at, model.CategoryValue, scoring.NormalizeContinuous(preds))
	if err != nil {
		return nil, err
	}
	ranked := rankByScore(set.Resolved)

	stored, shown, chart := toDimensionScores(set.Resolved, continuousScore)

	var (
		top     []model.ValueDetail
		matched []MatchedCategory
	)
	for i := 0; i < len(ranked) && i < valueTopCategories; i++ {
		vc := ranked[i].ValueCategory
		top = append(top, model.ValueDetail{
			Name:        vc.Name,
			Description: vc.Description,
			Score:       ranked[i].Score.Value,
			Percentage:  ranked[i].Score.Percentage,
		})
		matched = append(matched, MatchedCategory{Kind: repository.MatchValueCategory, ID: vc.ID})
	}

	return &evaluation{
		Scores:  stored,
		Matched: matched,
		Build: func(info model.TestInfo, careers []model.RecommendedCareer) interface{} {
			return &model.ValueResult{
				TestInfo:           info,
				TopValues:          top,
				Dimensions:         shown,
				ChartData:          chart,
				RecommendedCareers: careers,
			}
		},
	}, nil
}
