package service

import (
	"career_compass_backend/internal/model"
	"career_compass_backend/internal/repository"
	"career_compass_backend/internal/scoring"
	"career_compass_backend/internal/util"
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

const (
	hollandCodeLength    = 3
	interestTopDimension = 2
)

// interestPolicy derives the Holland code from the highest RIASEC scores.
type interestPolicy struct {
	resolver *CategoryResolver
	catalog  CatalogLookup
}

func (p *interestPolicy) Evaluate(ctx context.Context, at *model.AssessmentType, preds []scoring.Prediction) (*evaluation, error) {
	set, err := p.resolver.Resolve(ctx, at, model.CategoryInterest, scoring.NormalizeContinuous(preds))
	if err != nil {
		return nil, err
	}
	ranked := rankByScore(set.Resolved)

	hc, err := p.hollandCode(ctx, ranked)
	if err != nil {
		return nil, err
	}

	stored, shown, chart := toDimensionScores(set.Resolved, continuousScore)

	top := make([]model.DimensionDetail, 0, interestTopDimension)
	for i := 0; i < len(ranked) && i < interestTopDimension; i++ {
		top = append(top, dimensionDetail(ranked[i].Dimension))
	}

	code := model.HollandCodeDetail{Code: hc.Code, Title: hc.Title, Description: hc.Description}
	return &evaluation{
		Scores:  stored,
		Matched: []MatchedCategory{{Kind: repository.MatchHollandCode, ID: hc.ID}},
		Build: func(info model.TestInfo, careers []model.RecommendedCareer) interface{} {
			return &model.InterestResult{
				TestInfo:           info,
				HollandCode:        code,
				TopDimensions:      top,
				Dimensions:         shown,
				ChartData:          chart,
				RecommendedCareers: careers,
			}
		},
	}, nil
}

// hollandCode looks up the code of the top letters, falling back to shorter
// prefixes when the catalog lacks the longer code.
func (p *interestPolicy) hollandCode(ctx context.Context, ranked []Resolution) (*model.HollandCode, error) {
	var b strings.Builder
	for i := 0; i < len(ranked) && i < hollandCodeLength; i++ {
		b.WriteString(strings.ToUpper(ranked[i].Key.Name[:1]))
	}
	letters := b.String()

	for n := len(letters); n > 0; n-- {
		hc, err := p.catalog.FindHollandCode(ctx, letters[:n])
		if err == nil {
			return hc, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NewPersistenceError(err)
		}
	}
	return nil, util.NewCatalogIncompleteError("holland code %s is not in the catalog", letters)
}
