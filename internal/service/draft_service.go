package service

import (
	"career_compass_backend/internal/model"
	"career_compass_backend/internal/repository"
	"career_compass_backend/internal/scoring"
	"career_compass_backend/internal/util"
	"career_compass_backend/pkg/logger"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CreateDraftRequest struct {
	Category string                 `json:"category" binding:"required"`
	Answers  map[string]interface{} `json:"answers"`
}

type DraftView struct {
	UUID           string                 `json:"uuid"`
	TestUUID       string                 `json:"test_uuid"`
	TestName       string                 `json:"test_name"`
	AssessmentType string                 `json:"assessment_type"`
	Answers        map[string]interface{} `json:"answers"`
	IsCompleted    bool                   `json:"is_completed"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// draftField is an updatable field of a draft.
type draftField string

const (
	draftFieldAnswers      draftField = "answers"
	draftFieldAnswersMerge draftField = "answers_merge"
)

type draftState struct {
	answers map[string]interface{}
}

// draftSetters is the allow-list of partial updates.
var draftSetters = map[draftField]func(d *draftState, raw json.RawMessage) error{
	draftFieldAnswers: func(d *draftState, raw json.RawMessage) error {
		answers, err := decodeDraftAnswers(raw)
		if err != nil {
			return err
		}
		d.answers = answers
		return nil
	},
	draftFieldAnswersMerge: func(d *draftState, raw json.RawMessage) error {
		answers, err := decodeDraftAnswers(raw)
		if err != nil {
			return err
		}
		for k, v := range answers {
			d.answers[k] = v
		}
		return nil
	},
}

// draftFieldOrder applies replace before merge when both are sent.
var draftFieldOrder = []draftField{draftFieldAnswers, draftFieldAnswersMerge}

func decodeDraftAnswers(raw json.RawMessage) (map[string]interface{}, error) {
	answers := map[string]interface{}{}
	if err := json.Unmarshal(raw, &answers); err != nil {
		return nil, util.NewValidationError("answers must be an object of numbers")
	}
	// json null decodes to a nil map
	if answers == nil {
		return nil, util.NewValidationError("answers must be an object of numbers")
	}
	if len(answers) > 0 {
		if _, err := scoring.ParseAnswers(answers); err != nil {
			return nil, err
		}
	}
	return answers, nil
}

type DraftService struct {
	DB           *gorm.DB
	Catalog      CatalogLookup
	TestRepo     *repository.TestRepository
	ResponseRepo *repository.ResponseRepository
	Assessments  *AssessmentService
}

func NewDraftService(db *gorm.DB, catalog CatalogLookup, testRepo *repository.TestRepository, responseRepo *repository.ResponseRepository, assessments *AssessmentService) *DraftService {
	return &DraftService{
		DB:           db,
		Catalog:      catalog,
		TestRepo:     testRepo,
		ResponseRepo: responseRepo,
		Assessments:  assessments,
	}
}

// Create opens a new uncompleted test and a draft holding the answers.
func (s *DraftService) Create(ctx context.Context, userID uint, req CreateDraftRequest) (*DraftView, error) {
	category, ok := model.ParseCategory(req.Category)
	if !ok {
		return nil, util.NewValidationError("%s: %q", util.ErrUnknownCategory.Error(), req.Category)
	}
	answers := req.Answers
	if answers == nil {
		answers = map[string]interface{}{}
	}
	if len(answers) > 0 {
		if _, err := scoring.ParseAnswers(answers); err != nil {
			return nil, err
		}
	}
	data, err := json.Marshal(answers)
	if err != nil {
		return nil, util.NewValidationError("answers must be an object of numbers")
	}

	at, err := s.Catalog.FindAssessmentType(ctx, category.String())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NewCatalogIncompleteError("assessment type %q is not seeded", category)
	}
	if err != nil {
		return nil, util.NewPersistenceError(err)
	}

	draft := &model.Response{
		UserID:           userID,
		AssessmentTypeID: at.ID,
		ResponseData:     datatypes.JSON(data),
		IsDraft:          true,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tests := s.TestRepo.WithTx(tx)
		n, err := tests.CountByUser(ctx, userID)
		if err != nil {
			return err
		}
		test := &model.Test{
			Name:             fmt.Sprintf("Test %d", n+1),
			UserID:           userID,
			AssessmentTypeID: at.ID,
		}
		if err := tests.Create(ctx, test); err != nil {
			return err
		}
		draft.TestID = test.ID
		if err := s.ResponseRepo.WithTx(tx).Create(ctx, draft); err != nil {
			return err
		}
		test.AssessmentType = at
		draft.Test = test
		return nil
	})
	if err != nil {
		return nil, util.NewPersistenceError(err)
	}
	return draftView(draft)
}

func (s *DraftService) find(ctx context.Context, userID uint, draftUUID string) (*model.Response, error) {
	draft, err := s.ResponseRepo.FindDraft(ctx, userID, draftUUID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NewNotFoundError("draft %s not found", draftUUID)
	}
	if err != nil {
		return nil, util.NewPersistenceError(err)
	}
	if draft.Test == nil || draft.Test.IsDeleted {
		return nil, util.NewNotFoundError("draft %s not found", draftUUID)
	}
	return draft, nil
}

func (s *DraftService) Get(ctx context.Context, userID uint, draftUUID string) (*DraftView, error) {
	draft, err := s.find(ctx, userID, draftUUID)
	if err != nil {
		return nil, err
	}
	return draftView(draft)
}

func (s *DraftService) List(ctx context.Context, userID uint) ([]DraftView, error) {
	drafts, err := s.ResponseRepo.ListDrafts(ctx, userID)
	if err != nil {
		return nil, util.NewPersistenceError(err)
	}
	out := make([]DraftView, 0, len(drafts))
	for i := range drafts {
		if drafts[i].Test == nil || drafts[i].Test.IsDeleted {
			continue
		}
		v, err := draftView(&drafts[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

// Update applies a partial update. Only allow-listed fields are accepted.
func (s *DraftService) Update(ctx context.Context, userID uint, draftUUID string, patch map[string]json.RawMessage) (*DraftView, error) {
	if len(patch) == 0 {
		return nil, util.NewValidationError("no fields to update")
	}
	var unknown []string
	for field := range patch {
		if _, ok := draftSetters[draftField(field)]; !ok {
			unknown = append(unknown, field)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, util.NewValidationError("fields cannot be updated: %v", unknown)
	}

	draft, err := s.find(ctx, userID, draftUUID)
	if err != nil {
		return nil, err
	}
	if draft.IsCompleted {
		return nil, util.NewValidationError("%s: %s", util.ErrDraftAlreadySubmit.Error(), draftUUID)
	}

	state := &draftState{answers: map[string]interface{}{}}
	if len(draft.ResponseData) > 0 {
		if err := json.Unmarshal(draft.ResponseData, &state.answers); err != nil {
			return nil, util.NewPersistenceError(err)
		}
		if state.answers == nil {
			state.answers = map[string]interface{}{}
		}
	}
	for _, field := range draftFieldOrder {
		raw, ok := patch[string(field)]
		if !ok {
			continue
		}
		if err := draftSetters[field](state, raw); err != nil {
			return nil, err
		}
	}

	data, err := json.Marshal(state.answers)
	if err != nil {
		return nil, util.NewPersistenceError(err)
	}
	if err := s.ResponseRepo.UpdateFields(ctx, draft.ID, map[string]interface{}{
		"response_data": datatypes.JSON(data),
	}); err != nil {
		return nil, util.NewPersistenceError(err)
	}
	draft.ResponseData = datatypes.JSON(data)
	return draftView(draft)
}

// Delete soft-deletes the draft and its unfinished test.
func (s *DraftService) Delete(ctx context.Context, userID uint, draftUUID string) error {
	draft, err := s.find(ctx, userID, draftUUID)
	if err != nil {
		return err
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ResponseRepo.WithTx(tx).UpdateFields(ctx, draft.ID, map[string]interface{}{"is_deleted": true}); err != nil {
			return err
		}
		if draft.IsCompleted {
			return nil
		}
		return s.TestRepo.WithTx(tx).SoftDelete(ctx, draft.TestID)
	})
	if err != nil {
		return util.NewPersistenceError(err)
	}
	return nil
}

// Submit scores the draft's answers against its test. The draft is marked
// completed in the same transaction as the result.
func (s *DraftService) Submit(ctx context.Context, userID uint, draftUUID string) (*SubmitResult, error) {
	draft, err := s.find(ctx, userID, draftUUID)
	if err != nil {
		return nil, err
	}
	if draft.IsCompleted {
		return nil, util.NewValidationError("%s: %s", util.ErrDraftAlreadySubmit.Error(), draftUUID)
	}
	if draft.Test.AssessmentType == nil {
		return nil, util.NewCatalogIncompleteError("draft %s has no assessment type", draftUUID)
	}

	answers := map[string]interface{}{}
	if err := json.Unmarshal(draft.ResponseData, &answers); err != nil {
		return nil, util.NewPersistenceError(err)
	}

	res, err := s.Assessments.Submit(ctx, SubmitRequest{
		Category: model.Category(draft.Test.AssessmentType.Name),
		UserID:   userID,
		Answers:  answers,
		TestUUID: draft.Test.UUID,
		afterPersist: func(tx *gorm.DB, test *model.Test) error {
			return s.ResponseRepo.WithTx(tx).UpdateFields(ctx, draft.ID, map[string]interface{}{"is_completed": true})
		},
	})
	if err != nil {
		return nil, err
	}
	logger.Log.Info("draft submitted", zap.String("draft", draftUUID), zap.String("test", res.Test.UUID))
	return res, nil
}

func draftView(d *model.Response) (*DraftView, error) {
	answers := map[string]interface{}{}
	if len(d.ResponseData) > 0 {
		if err := json.Unmarshal(d.ResponseData, &answers); err != nil {
			return nil, util.NewPersistenceError(err)
		}
	}
	v := &DraftView{
		UUID:        d.UUID,
		Answers:     answers,
		IsCompleted: d.IsCompleted,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.Test != nil {
		v.TestUUID = d.Test.UUID
		v.TestName = d.Test.Name
		if d.Test.AssessmentType != nil {
			v.AssessmentType = d.Test.AssessmentType.Name
		}
	}
	return v, nil
}
