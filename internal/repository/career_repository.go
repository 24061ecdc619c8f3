package repository

import (
	"career_compass_backend/internal/model"
	"context"
	"fmt"

	"gorm.io/gorm"
)

// MatchKind names the join used to reach careers from a matched catalog
// entity.
type MatchKind string

const (
	MatchPersonalityType MatchKind = "personality_type"
	MatchHollandCode     MatchKind = "holland_code"
	MatchValueCategory   MatchKind = "value_category"
	MatchDimension       MatchKind = "dimension"
)

// ResponsibilityRow is one (career, category, responsibility) tuple.
// Responsibility is nil when the link has no itemised responsibilities.
type ResponsibilityRow struct {
	CareerID       uint
	LinkID         uint
	CategoryName   string
	Summary        string
	Responsibility *string
}

// MajorSchoolRow is one (career, major, school) tuple. SchoolName is nil for
// majors not offered by any live school.
type MajorSchoolRow struct {
	CareerID   uint
	MajorName  string
	SchoolName *string
}

// CareerRepository walks the recommendation graph. Every hop skips
// soft-deleted rows.
type CareerRepository struct {
	DB *gorm.DB
}

func NewCareerRepository(db *gorm.DB) *CareerRepository {
	return &CareerRepository{DB: db}
}

// CareersFor returns the live careers linked to one matched entity, ordered
// by id.
func (r *CareerRepository) CareersFor(ctx context.Context, kind MatchKind, entityID uint) ([]model.Career, error) {
	query := r.DB.WithContext(ctx).Model(&model.Career{}).Where("careers.is_deleted = ?", false)

	switch kind {
	case MatchPersonalityType:
		sub := r.DB.Model(&model.CareerPersonalityType{}).
			Select("career_id").
			Where("personality_type_id = ? AND is_deleted = ?", entityID, false)
		query = query.Where("(careers.personality_type_id = ? OR careers.id IN (?))", entityID, sub)
	case MatchHollandCode:
		query = query.Where("careers.holland_code_id = ?", entityID)
	case MatchValueCategory:
		sub := r.DB.Model(&model.CareerValueCategory{}).
			Select("career_id").
			Where("value_category_id = ? AND is_deleted = ?", entityID, false)
		query = query.Where("(careers.value_category_id = ? OR careers.id IN (?))", entityID, sub)
	case MatchDimension:
		sub := r.DB.Model(&model.DimensionCareer{}).
			Select("career_id").
			Where("dimension_id = ? AND is_deleted = ?", entityID, false)
		query = query.Where("careers.id IN (?)", sub)
	default:
		return nil, fmt.Errorf("unknown match kind %q", kind)
	}

	var careers []model.Career
	err := query.Order("careers.id asc").Find(&careers).Error
	return careers, err
}

func (r *CareerRepository) Responsibilities(ctx context.Context, careerIDs []uint) ([]ResponsibilityRow, error) {
	var rows []ResponsibilityRow
	if len(careerIDs) == 0 {
		return rows, nil
	}
	err := r.DB.WithContext(ctx).
		Table("career_category_links AS l").
		Select("l.career_id AS career_id, l.id AS link_id, cc.name AS category_name, l.responsibilities AS summary, ccr.text AS responsibility").
		Joins("JOIN career_categories AS cc ON cc.id = l.career_category_id AND cc.is_deleted = ?", false).
		Joins("LEFT JOIN career_category_responsibilities AS ccr ON ccr.career_category_link_id = l.id AND ccr.is_deleted = ?", false).
		Where("l.career_id IN ? AND l.is_deleted = ?", careerIDs, false).
		Order("l.career_id asc, l.id asc, ccr.id asc").
		Scan(&rows).Error
	return rows, err
}

func (r *CareerRepository) MajorSchools(ctx context.Context, careerIDs []uint) ([]MajorSchoolRow, error) {
	var rows []MajorSchoolRow
	if len(careerIDs) == 0 {
		return rows, nil
	}
	err := r.DB.WithContext(ctx).
		Table("career_majors AS cm").
		Select("cm.career_id AS career_id, m.name AS major_name, s.name AS school_name").
		Joins("JOIN majors AS m ON m.id = cm.major_id AND m.is_deleted = ?", false).
		Joins("JOIN faculties AS f ON f.id = m.faculty_id AND f.is_deleted = ?", false).
		Joins("LEFT JOIN school_majors AS sm ON sm.major_id = m.id AND sm.is_deleted = ?", false).
		Joins("LEFT JOIN schools AS s ON s.id = sm.school_id AND s.is_deleted = ?", false).
		Where("cm.career_id IN ? AND cm.is_deleted = ?", careerIDs, false).
		Order("cm.career_id asc, cm.id asc, s.id asc").
		Scan(&rows).Error
	return rows, err
}
