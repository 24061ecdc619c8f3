package repository

import (
	"career_compass_backend/internal/model"
	"context"

	"gorm.io/gorm"
)

// CatalogRepository reads the static catalog. Every lookup ignores
// soft-deleted rows.
type CatalogRepository struct {
	DB *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{DB: db}
}

func (r *CatalogRepository) WithTx(tx *gorm.DB) *CatalogRepository {
	return &CatalogRepository{DB: tx}
}

func (r *CatalogRepository) ListAssessmentTypes(ctx context.Context) ([]model.AssessmentType, error) {
	var types []model.AssessmentType
	err := r.DB.WithContext(ctx).Where("is_deleted = ?", false).Order("id asc").Find(&types).Error
	return types, err
}

func (r *CatalogRepository) FindAssessmentType(ctx context.Context, name string) (*model.AssessmentType, error) {
	var at model.AssessmentType
	err := r.DB.WithContext(ctx).Where("name = ? AND is_deleted = ?", name, false).First(&at).Error
	if err != nil {
		return nil, err
	}
	return &at, nil
}

func (r *CatalogRepository) FindDimension(ctx context.Context, assessmentTypeID uint, name string) (*model.Dimension, error) {
	var d model.Dimension
	err := r.DB.WithContext(ctx).
		Preload("SkillCategory", "is_deleted = ?", false).
		Preload("Traits", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_deleted = ?", false).Order("id asc")
		}).
		Where("assessment_type_id = ? AND name = ? AND is_deleted = ?", assessmentTypeID, name, false).
		First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *CatalogRepository) ListDimensions(ctx context.Context, assessmentTypeID uint) ([]model.Dimension, error) {
	var dims []model.Dimension
	err := r.DB.WithContext(ctx).
		Where("assessment_type_id = ? AND is_deleted = ?", assessmentTypeID, false).
		Order("id asc").
		Find(&dims).Error
	return dims, err
}

func (r *CatalogRepository) FindPersonalityType(ctx context.Context, name string) (*model.PersonalityType, error) {
	var pt model.PersonalityType
	err := r.DB.WithContext(ctx).
		Preload("Traits", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_deleted = ?", false).Order("id asc")
		}).
		Where("name = ? AND is_deleted = ?", name, false).
		First(&pt).Error
	if err != nil {
		return nil, err
	}
	return &pt, nil
}

func (r *CatalogRepository) FindHollandCode(ctx context.Context, code string) (*model.HollandCode, error) {
	var hc model.HollandCode
	err := r.DB.WithContext(ctx).Where("code = ? AND is_deleted = ?", code, false).First(&hc).Error
	if err != nil {
		return nil, err
	}
	return &hc, nil
}

func (r *CatalogRepository) FindValueCategory(ctx context.Context, name string) (*model.ValueCategory, error) {
	var vc model.ValueCategory
	err := r.DB.WithContext(ctx).Where("name = ? AND is_deleted = ?", name, false).First(&vc).Error
	if err != nil {
		return nil, err
	}
	return &vc, nil
}

// FirstOrCreate loads the row matching cond into dst, inserting dst when
// none exists. created reports whether an insert happened.
func (r *CatalogRepository) FirstOrCreate(ctx context.Context, dst interface{}, cond interface{}) (bool, error) {
	db := r.DB.WithContext(ctx)
	result := db.Where(cond).Limit(1).Find(dst)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return false, nil
	}
	return true, db.Create(dst).Error
}

// Save updates every column of an existing catalog row.
func (r *CatalogRepository) Save(ctx context.Context, row interface{}) error {
	return r.DB.WithContext(ctx).Save(row).Error
}
