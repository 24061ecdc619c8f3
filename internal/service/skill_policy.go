package service

import (
	"career_compass_backend/internal/model"
	"career_compass_backend/internal/repository"
	"career_compass_backend/internal/scoring"
	"context"
	"strings"
)

// strongLevels are the predicted levels that make a skill a match.
var strongLevels = map[string]bool{"strong": true, "high": true}

type skillPolicy struct {
	resolver *CategoryResolver
}

func (p *skillPolicy) Evaluate(ctx context.Context, at *model.AssessmentType, preds []scoring.Prediction) (*evaluation, error) {
	set, err := p.resolver.Resolve(ctx, at, model.CategorySkill, scoring.NormalizeLabels(preds))
	if err != nil {
		return nil, err
	}

	stored, shown, chart := toDimensionScores(set.Resolved, func(r Resolution) model.ScoreValue {
		return model.ScoreValue{Level: r.Score.Label, Percentage: r.Score.Percentage}
	})

	var (
		groups  []model.SkillCategoryScores
		strong  = make([]string, 0)
		matched []MatchedCategory
	)
	index := make(map[string]int)
	for i, r := range set.Resolved {
		name := r.Dimension.SkillCategory.Name
		pos, ok := index[name]
		if !ok {
			groups = append(groups, model.SkillCategoryScores{CategoryName: name})
			pos = len(groups) - 1
			index[name] = pos
		}
		groups[pos].Skills = append(groups[pos].Skills, shown[i])

		if strongLevels[strings.ToLower(r.Score.Label)] {
			strong = append(strong, r.Key.Label())
			matched = append(matched, MatchedCategory{Kind: repository.MatchDimension, ID: r.Dimension.ID})
		}
	}

	return &evaluation{
		Scores:  stored,
		Matched: matched,
		Build: func(info model.TestInfo, careers []model.RecommendedCareer) interface{} {
			return &model.SkillResult{
				TestInfo:           info,
				SkillCategories:    groups,
				StrongSkills:       strong,
				ChartData:          chart,
				RecommendedCareers: careers,
			}
		},
	}, nil
}
