package service

import (
	"career_compass_backend/internal/model"
	"career_compass_backend/internal/repository"
	"career_compass_backend/internal/scoring"
	"career_compass_backend/internal/util"
	"context"
	"errors"

	"gorm.io/gorm"
)

// personalityPolicy resolves the four letter type from eight letter scores.
type personalityPolicy struct {
	resolver *CategoryResolver
	catalog  CatalogLookup
}

func (p *personalityPolicy) Evaluate(ctx context.Context, at *model.AssessmentType, preds []scoring.Prediction) (*evaluation, error) {
	profile, err := scoring.NormalizeDichotomies(preds)
	if err != nil {
		return nil, util.NewModelUnavailableError(at.Name, err)
	}

	set, err := p.resolver.Resolve(ctx, at, model.CategoryPersonality, profile.Scores)
	if err != nil {
		return nil, err
	}

	pt, err := p.catalog.FindPersonalityType(ctx, profile.Type)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NewCatalogIncompleteError("personality type %s is not in the catalog", profile.Type)
	}
	if err != nil {
		return nil, util.NewPersistenceError(err)
	}

	stored, shown, chart := toDimensionScores(set.Resolved, continuousScore)

	detail := model.PersonalityTypeDetail{
		Name:        pt.Name,
		Title:       pt.Title,
		Description: pt.Description,
	}
	for _, t := range pt.Traits {
		switch t.Kind {
		case model.TraitKindKeyTrait:
			detail.KeyTraits = append(detail.KeyTraits, t.Text)
		case model.TraitKindStrength:
			detail.Strengths = append(detail.Strengths, t.Text)
		case model.TraitKindWeakness:
			detail.Weaknesses = append(detail.Weaknesses, t.Text)
		}
	}

	return &evaluation{
		Scores:  stored,
		Matched: []MatchedCategory{{Kind: repository.MatchPersonalityType, ID: pt.ID}},
		Build: func(info model.TestInfo, careers []model.RecommendedCareer) interface{} {
			return &model.PersonalityResult{
				TestInfo:           info,
				PersonalityType:    detail,
				Dimensions:         shown,
				ChartData:          chart,
				RecommendedCareers: careers,
			}
		},
	}, nil
}
