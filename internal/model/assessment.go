package model

import (
	"gorm.io/datatypes"
)

// AssessmentType is static reference data, one row per Category.
type AssessmentType struct {
	Entity
	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Title       string `gorm:"size:255" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	IsDeleted   bool   `gorm:"default:false;index" json:"-"`
}

func (AssessmentType) TableName() string {
	return "assessment_types"
}

// Test is the aggregate root of one assessment session.
type Test struct {
	Entity
	Name             string          `gorm:"size:50;not null" json:"name"`
	UserID           uint            `gorm:"index;not null" json:"-"`
	AssessmentTypeID uint            `gorm:"index;not null" json:"-"`
	AssessmentType   *AssessmentType `gorm:"foreignKey:AssessmentTypeID" json:"assessment_type,omitempty"`
	IsCompleted      bool            `gorm:"default:false" json:"is_completed"`
	IsDeleted        bool            `gorm:"default:false;index" json:"-"`
}

func (Test) TableName() string {
	return "tests"
}

// Response holds either a mutable draft of raw answers (IsDraft) or the
// append-only snapshot of a computed result.
type Response struct {
	Entity
	UserID           uint           `gorm:"index;not null" json:"-"`
	AssessmentTypeID uint           `gorm:"index;not null" json:"-"`
	TestID           uint           `gorm:"index;not null" json:"-"`
	Test             *Test          `gorm:"foreignKey:TestID" json:"test,omitempty"`
	ResponseData     datatypes.JSON `json:"response_data"`
	IsDraft          bool           `gorm:"default:false;index" json:"is_draft"`
	IsCompleted      bool           `gorm:"default:false" json:"is_completed"`
	IsDeleted        bool           `gorm:"default:false;index" json:"-"`
}

func (Response) TableName() string {
	return "responses"
}

// ScoreValue is the stored per-dimension record. Continuous assessments set
// Score, categorical ones (skills) set Level.
type ScoreValue struct {
	Score      *float64 `json:"score,omitempty"`
	Level      string   `json:"level,omitempty"`
	Percentage float64  `json:"percentage"`
}

// AssessmentScore is written once per resolved dimension of a test.
type AssessmentScore struct {
	Entity
	UserID           uint                           `gorm:"index;not null" json:"-"`
	TestID           uint                           `gorm:"index;not null" json:"-"`
	AssessmentTypeID uint                           `gorm:"index;not null" json:"-"`
	DimensionID      uint                           `gorm:"index;not null" json:"-"`
	Dimension        *Dimension                     `gorm:"foreignKey:DimensionID" json:"dimension,omitempty"`
	Score            datatypes.JSONType[ScoreValue] `json:"score"`
}

func (AssessmentScore) TableName() string {
	return "assessment_scores"
}
