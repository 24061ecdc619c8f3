package service

import (
	"career_compass_backend/internal/model"
	"career_compass_backend/internal/repository"
	"career_compass_backend/internal/scoring"
	"career_compass_backend/internal/util"
	"career_compass_backend/pkg/logger"
	"career_compass_backend/pkg/monitoring"
	"career_compass_backend/pkg/tracing"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SubmitRequest is one assessment submission. TestUUID, when set, names an
// uncompleted test of the same user and type to complete instead of
// creating a new one.
type SubmitRequest struct {
	Category model.Category         `validate:"required"`
	UserID   uint                   `validate:"required"`
	Answers  map[string]interface{} `validate:"required,min=1,dive,keys,required,endkeys,required"`
	TestUUID string                 `validate:"omitempty,uuid"`

	// afterPersist runs inside the submission transaction after the result
	// is stored.
	afterPersist func(tx *gorm.DB, test *model.Test) error
}

type SubmitResult struct {
	Test   *model.Test
	Result interface{}
}

// evaluation is what a policy derives from one set of predictions.
type evaluation struct {
	Scores  []dimensionScore
	Matched []MatchedCategory
	// Build assembles the per-type result once the test and careers are known.
	Build func(info model.TestInfo, careers []model.RecommendedCareer) interface{}
}

type dimensionScore struct {
	Dimension *model.Dimension
	Value     model.ScoreValue
}

// policy holds the per-type scoring and matching rules.
type policy interface {
	Evaluate(ctx context.Context, at *model.AssessmentType, preds []scoring.Prediction) (*evaluation, error)
}

type AssessmentService struct {
	DB           *gorm.DB
	Registry     scoring.ModelRegistry
	Catalog      CatalogLookup
	Recommender  *RecommendationService
	TestRepo     *repository.TestRepository
	ResponseRepo *repository.ResponseRepository
	ScoreRepo    *repository.AssessmentScoreRepository
	Cache        ResultCache

	policies map[model.Category]policy
	validate *validator.Validate
	now      func() time.Time
}

func NewAssessmentService(
	db *gorm.DB,
	registry scoring.ModelRegistry,
	catalog CatalogLookup,
	recommender *RecommendationService,
	testRepo *repository.TestRepository,
	responseRepo *repository.ResponseRepository,
	scoreRepo *repository.AssessmentScoreRepository,
	cache ResultCache,
) *AssessmentService {
	if cache == nil {
		cache = NoopResultCache{}
	}
	resolver := NewCategoryResolver(catalog)
	return &AssessmentService{
		DB:           db,
		Registry:     registry,
		Catalog:      catalog,
		Recommender:  recommender,
		TestRepo:     testRepo,
		ResponseRepo: responseRepo,
		ScoreRepo:    scoreRepo,
		Cache:        cache,
		policies: map[model.Category]policy{
			model.CategoryPersonality:   &personalityPolicy{resolver: resolver, catalog: catalog},
			model.CategoryInterest:      &interestPolicy{resolver: resolver, catalog: catalog},
			model.CategorySkill:         &skillPolicy{resolver: resolver},
			model.CategoryLearningStyle: &learningStylePolicy{resolver: resolver},
			model.CategoryValue:         &valuePolicy{resolver: resolver},
		},
		validate: validator.New(),
		now:      time.Now,
	}
}

// Submit scores the answers and persists the result atomically.
func (s *AssessmentService) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	start := time.Now()
	ctx, span := tracing.Start(ctx, "assessment.submit")

	res, err := s.submit(ctx, req)

	outcome := "ok"
	if err != nil {
		outcome = string(util.KindOf(err))
		if outcome == "" {
			outcome = "error"
		}
	}
	monitoring.ObserveSubmission(req.Category.String(), outcome, time.Since(start))
	tracing.End(span, err)
	return res, err
}

func (s *AssessmentService) submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	// Received
	if !req.Category.Valid() {
		return nil, util.NewValidationError("%s: %q", util.ErrUnknownCategory.Error(), req.Category)
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, util.NewValidationError("invalid submission: %v", err)
	}
	answers, err := scoring.ParseAnswers(req.Answers)
	if err != nil {
		return nil, err
	}

	at, err := s.Catalog.FindAssessmentType(ctx, req.Category.String())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NewCatalogIncompleteError("assessment type %q is not seeded", req.Category)
	}
	if err != nil {
		return nil, util.NewPersistenceError(err)
	}

	var existing *model.Test
	if req.TestUUID != "" {
		existing, err = s.findOpenTest(ctx, req.UserID, at, req.TestUUID)
		if err != nil {
			return nil, err
		}
	}

	bundle, err := s.Registry.Load(ctx, req.Category)
	if err != nil {
		return nil, err
	}
	row, err := bundle.Row(answers)
	if err != nil {
		return nil, err
	}

	// Scored
	_, scoreSpan := tracing.Start(ctx, "assessment.score")
	preds, err := bundle.Predict(row)
	tracing.End(scoreSpan, err)
	if err != nil {
		return nil, util.NewModelUnavailableError(req.Category.String(), err)
	}

	// Resolved
	resolveCtx, resolveSpan := tracing.Start(ctx, "assessment.resolve")
	eval, err := s.policies[req.Category].Evaluate(resolveCtx, at, preds)
	tracing.End(resolveSpan, err)
	if err != nil {
		return nil, err
	}

	// Joined
	joinCtx, joinSpan := tracing.Start(ctx, "assessment.join")
	careers, err := s.Recommender.Recommend(joinCtx, eval.Matched)
	tracing.End(joinSpan, err)
	if err != nil {
		return nil, util.NewPersistenceError(err)
	}

	// Persisted
	persistCtx, persistSpan := tracing.Start(ctx, "assessment.persist")
	test, result, data, err := s.persist(persistCtx, req, at, existing, eval, careers)
	tracing.End(persistSpan, err)
	if err != nil {
		return nil, err
	}

	// Returned
	if err := s.Cache.Set(ctx, req.UserID, test.UUID, data); err != nil {
		logger.Log.Warn("cache assessment result failed", zap.String("test", test.UUID), zap.Error(err))
	}
	logger.Log.Info("assessment submitted",
		zap.String("category", req.Category.String()),
		zap.Uint("user_id", req.UserID),
		zap.String("test", test.UUID),
		zap.Int("scores", len(eval.Scores)),
		zap.Int("careers", len(careers)))
	return &SubmitResult{Test: test, Result: result}, nil
}

// findOpenTest returns the caller's uncompleted test of the given type.
func (s *AssessmentService) findOpenTest(ctx context.Context, userID uint, at *model.AssessmentType, testUUID string) (*model.Test, error) {
	test, err := s.TestRepo.FindByUUID(ctx, userID, testUUID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NewNotFoundError("test %s not found", testUUID)
	}
	if err != nil {
		return nil, util.NewPersistenceError(err)
	}
	if test.AssessmentTypeID != at.ID {
		return nil, util.NewNotFoundError("test %s not found", testUUID)
	}
	if test.IsCompleted {
		return nil, util.NewValidationError("%s: %s", util.ErrTestAlreadyComplete.Error(), testUUID)
	}
	return test, nil
}

func (s *AssessmentService) persist(
	ctx context.Context,
	req SubmitRequest,
	at *model.AssessmentType,
	existing *model.Test,
	eval *evaluation,
	careers []model.RecommendedCareer,
) (*model.Test, interface{}, []byte, error) {
	var (
		test   *model.Test
		result interface{}
		data   []byte
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tests := s.TestRepo.WithTx(tx)

		test = existing
		if test == nil {
			n, err := tests.CountByUser(ctx, req.UserID)
			if err != nil {
				return err
			}
			test = &model.Test{
				Name:             fmt.Sprintf("Test %d", n+1),
				UserID:           req.UserID,
				AssessmentTypeID: at.ID,
			}
			if err := tests.Create(ctx, test); err != nil {
				return err
			}
		}

		info := model.TestInfo{
			TestUUID:       test.UUID,
			TestName:       test.Name,
			AssessmentType: at.Name,
			CompletedAt:    s.now().UTC(),
		}
		result = eval.Build(info, careers)

		rows := make([]model.AssessmentScore, 0, len(eval.Scores))
		for _, ds := range eval.Scores {
			rows = append(rows, model.AssessmentScore{
				UserID:           req.UserID,
				TestID:           test.ID,
				AssessmentTypeID: at.ID,
				DimensionID:      ds.Dimension.ID,
				Score:            datatypes.NewJSONType(ds.Value),
			})
		}
		if err := s.ScoreRepo.WithTx(tx).CreateBatch(ctx, rows); err != nil {
			return err
		}

		var err error
		data, err = json.Marshal(result)
		if err != nil {
			return err
		}
		snapshot := &model.Response{
			UserID:           req.UserID,
			AssessmentTypeID: at.ID,
			TestID:           test.ID,
			ResponseData:     datatypes.JSON(data),
			IsCompleted:      true,
		}
		if err := s.ResponseRepo.WithTx(tx).Create(ctx, snapshot); err != nil {
			return err
		}

		if err := tests.MarkCompleted(ctx, test.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// completed concurrently by another submission
				return util.NewValidationError("%s: %s", util.ErrTestAlreadyComplete.Error(), test.UUID)
			}
			return err
		}

		if req.afterPersist != nil {
			return req.afterPersist(tx, test)
		}
		return nil
	})
	if err != nil {
		if util.KindOf(err) == "" {
			err = util.NewPersistenceError(err)
		}
		return nil, nil, nil, err
	}
	test.IsCompleted = true
	return test, result, data, nil
}

// DecodeResult decodes a stored response_data into the result type of the
// given category.
func DecodeResult(category model.Category, raw []byte) (interface{}, error) {
	var dst interface{}
	switch category {
	case model.CategoryPersonality:
		dst = &model.PersonalityResult{}
	case model.CategoryInterest:
		dst = &model.InterestResult{}
	case model.CategorySkill:
		dst = &model.SkillResult{}
	case model.CategoryLearningStyle:
		dst = &model.LearningStyleResult{}
	case model.CategoryValue:
		dst = &model.ValueResult{}
	default:
		return nil, util.NewValidationError("%s: %q", util.ErrUnknownCategory.Error(), category)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return nil, err
	}
	return dst, nil
}
