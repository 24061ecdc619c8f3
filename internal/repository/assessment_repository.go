package repository

import (
	"career_compass_backend/internal/model"
	"context"
	"fmt"

	"gorm.io/gorm"
)

// TestRepository persists Test aggregates.
type TestRepository struct {
	DB *gorm.DB
}

func NewTestRepository(db *gorm.DB) *TestRepository {
	return &TestRepository{DB: db}
}

// WithTx returns a repository bound to tx.
func (r *TestRepository) WithTx(tx *gorm.DB) *TestRepository {
	return &TestRepository{DB: tx}
}

func (r *TestRepository) Create(ctx context.Context, test *model.Test) error {
	return r.DB.WithContext(ctx).Create(test).Error
}

// CountByUser counts every test the user ever started, deleted ones
// included, so generated names stay unique.
func (r *TestRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Test{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

// FindByUUID returns the user's non-deleted test.
func (r *TestRepository) FindByUUID(ctx context.Context, userID uint, uuid string) (*model.Test, error) {
	var test model.Test
	err := r.DB.WithContext(ctx).
		Preload("AssessmentType").
		Where("uuid = ? AND user_id = ? AND is_deleted = ?", uuid, userID, false).
		First(&test).Error
	if err != nil {
		return nil, err
	}
	return &test, nil
}

func (r *TestRepository) ListByUser(ctx context.Context, userID uint, assessmentTypeID uint) ([]model.Test, error) {
	var tests []model.Test
	query := r.DB.WithContext(ctx).
		Preload("AssessmentType").
		Where("user_id = ? AND is_deleted = ?", userID, false)
	if assessmentTypeID > 0 {
		query = query.Where("assessment_type_id = ?", assessmentTypeID)
	}
	err := query.Order("created_at desc, id desc").Find(&tests).Error
	return tests, err
}

// MarkCompleted flips is_completed on an uncompleted test and fails if no
// row changed.
func (r *TestRepository) MarkCompleted(ctx context.Context, testID uint) error {
	res := r.DB.WithContext(ctx).Model(&model.Test{}).
		Where("id = ? AND is_completed = ?", testID, false).
		Update("is_completed", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("test %d: %w", testID, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *TestRepository) SoftDelete(ctx context.Context, testID uint) error {
	return r.DB.WithContext(ctx).Model(&model.Test{}).
		Where("id = ?", testID).
		Update("is_deleted", true).Error
}

type completedCount struct {
	Name  string
	Total int64
}

// CountCompletedByType counts completed, non-deleted tests per assessment
// type name.
func (r *TestRepository) CountCompletedByType(ctx context.Context) (map[string]int64, error) {
	var rows []completedCount
	err := r.DB.WithContext(ctx).
		Table("tests").
		Select("assessment_types.name AS name, COUNT(tests.id) AS total").
		Joins("JOIN assessment_types ON assessment_types.id = tests.assessment_type_id").
		Where("tests.is_completed = ? AND tests.is_deleted = ?", true, false).
		Group("assessment_types.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Name] = row.Total
	}
	return out, nil
}

// ResponseRepository persists drafts and result snapshots.
type ResponseRepository struct {
	DB *gorm.DB
}

func NewResponseRepository(db *gorm.DB) *ResponseRepository {
	return &ResponseRepository{DB: db}
}

func (r *ResponseRepository) WithTx(tx *gorm.DB) *ResponseRepository {
	return &ResponseRepository{DB: tx}
}

func (r *ResponseRepository) Create(ctx context.Context, resp *model.Response) error {
	return r.DB.WithContext(ctx).Create(resp).Error
}

// FindSnapshot returns the final (non-draft) response of a test.
func (r *ResponseRepository) FindSnapshot(ctx context.Context, testID uint) (*model.Response, error) {
	var resp model.Response
	err := r.DB.WithContext(ctx).
		Where("test_id = ? AND is_draft = ? AND is_deleted = ?", testID, false, false).
		Order("id desc").
		First(&resp).Error
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *ResponseRepository) FindDraft(ctx context.Context, userID uint, uuid string) (*model.Response, error) {
	var resp model.Response
	err := r.DB.WithContext(ctx).
		Preload("Test").
		Preload("Test.AssessmentType").
		Where("uuid = ? AND user_id = ? AND is_draft = ? AND is_deleted = ?", uuid, userID, true, false).
		First(&resp).Error
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *ResponseRepository) ListDrafts(ctx context.Context, userID uint) ([]model.Response, error) {
	var drafts []model.Response
	err := r.DB.WithContext(ctx).
		Preload("Test").
		Preload("Test.AssessmentType").
		Where("user_id = ? AND is_draft = ? AND is_deleted = ?", userID, true, false).
		Order("updated_at desc, id desc").
		Find(&drafts).Error
	return drafts, err
}

// UpdateFields writes only the named columns of a response.
func (r *ResponseRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.DB.WithContext(ctx).Model(&model.Response{}).Where("id = ?", id).Updates(fields).Error
}

func (r *ResponseRepository) SoftDeleteByTest(ctx context.Context, testID uint) error {
	return r.DB.WithContext(ctx).Model(&model.Response{}).
		Where("test_id = ?", testID).
		Update("is_deleted", true).Error
}

// AssessmentScoreRepository persists per-dimension scores. Rows are never
// updated.
type AssessmentScoreRepository struct {
	DB *gorm.DB
}

func NewAssessmentScoreRepository(db *gorm.DB) *AssessmentScoreRepository {
	return &AssessmentScoreRepository{DB: db}
}

func (r *AssessmentScoreRepository) WithTx(tx *gorm.DB) *AssessmentScoreRepository {
	return &AssessmentScoreRepository{DB: tx}
}

func (r *AssessmentScoreRepository) CreateBatch(ctx context.Context, scores []model.AssessmentScore) error {
	if len(scores) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Create(&scores).Error
}

func (r *AssessmentScoreRepository) ListByTest(ctx context.Context, testID uint) ([]model.AssessmentScore, error) {
	var scores []model.AssessmentScore
	err := r.DB.WithContext(ctx).
		Preload("Dimension").
		Where("test_id = ?", testID).
		Order("id asc").
		Find(&scores).Error
	return scores, err
}
