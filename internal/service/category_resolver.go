package service

import (
	"career_compass_backend/internal/model"
	"career_compass_backend/internal/scoring"
	"career_compass_backend/internal/util"
	"career_compass_backend/pkg/logger"
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CatalogLookup is the catalog read side needed while scoring.
type CatalogLookup interface {
	FindAssessmentType(ctx context.Context, name string) (*model.AssessmentType, error)
	FindDimension(ctx context.Context, assessmentTypeID uint, name string) (*model.Dimension, error)
	FindValueCategory(ctx context.Context, name string) (*model.ValueCategory, error)
	FindPersonalityType(ctx context.Context, name string) (*model.PersonalityType, error)
	FindHollandCode(ctx context.Context, code string) (*model.HollandCode, error)
}

type SkipReason string

const (
	SkipInvalidKey          SkipReason = "invalid_key"
	SkipDimensionNotFound   SkipReason = "dimension_not_found"
	SkipValueCategoryAbsent SkipReason = "value_category_not_found"
	SkipSkillCategoryAbsent SkipReason = "skill_category_not_found"
)

// Resolution is the outcome for one model output. Skip is empty when the
// output resolved.
type Resolution struct {
	Key           scoring.CategoryKey
	Score         scoring.Score
	Dimension     *model.Dimension
	ValueCategory *model.ValueCategory
	Skip          SkipReason
}

func (r Resolution) Resolved() bool { return r.Skip == "" }

type ResolutionSet struct {
	Resolved []Resolution
	Skipped  []Resolution
}

type CategoryResolver struct {
	Catalog CatalogLookup
}

func NewCategoryResolver(catalog CatalogLookup) *CategoryResolver {
	return &CategoryResolver{Catalog: catalog}
}

// Resolve maps each score to its catalog rows. Outputs without a catalog
// match are skipped and logged; if none resolves the assessment cannot be
// scored. Lookup failures other than a missing row are returned as is.
func (r *CategoryResolver) Resolve(ctx context.Context, at *model.AssessmentType, category model.Category, scores []scoring.Score) (*ResolutionSet, error) {
	set := &ResolutionSet{}
	for _, score := range scores {
		res, err := r.resolveOne(ctx, at, category, score)
		if err != nil {
			return nil, err
		}
		if res.Resolved() {
			set.Resolved = append(set.Resolved, res)
			continue
		}
		logger.Log.Warn("assessment output skipped",
			zap.String("category", category.String()),
			zap.String("key", score.Key),
			zap.String("reason", string(res.Skip)))
		set.Skipped = append(set.Skipped, res)
	}
	if len(set.Resolved) == 0 {
		return nil, util.NewNoScorableDimensionsError(category.String())
	}
	return set, nil
}

func (r *CategoryResolver) resolveOne(ctx context.Context, at *model.AssessmentType, category model.Category, score scoring.Score) (Resolution, error) {
	res := Resolution{Score: score}

	key, err := scoring.ParseCategoryKey(category, score.Key)
	if err != nil {
		res.Skip = SkipInvalidKey
		return res, nil
	}
	res.Key = key

	dim, err := r.Catalog.FindDimension(ctx, at.ID, key.Name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		res.Skip = SkipDimensionNotFound
		return res, nil
	}
	if err != nil {
		return res, util.NewPersistenceError(err)
	}
	res.Dimension = dim

	switch category {
	case model.CategorySkill:
		if dim.SkillCategory == nil {
			res.Skip = SkipSkillCategoryAbsent
		}
	case model.CategoryValue:
		vc, err := r.Catalog.FindValueCategory(ctx, key.Name)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			res.Skip = SkipValueCategoryAbsent
			return res, nil
		}
		if err != nil {
			return res, util.NewPersistenceError(err)
		}
		res.ValueCategory = vc
	}
	return res, nil
}
