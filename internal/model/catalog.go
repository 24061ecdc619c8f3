package model

// Catalog rows are curated by administrative tooling; the assessment core
// only reads them.

const (
	TraitKindKeyTrait       = "key_trait"
	TraitKindStrength       = "strength"
	TraitKindWeakness       = "weakness"
	TraitKindStudyTechnique = "study_technique"
)

// Dimension is a scored sub-trait of one assessment type ("E", "R",
// "Visual", "Communication Level", "Work-Life Balance").
type Dimension struct {
	Entity
	AssessmentTypeID uint             `gorm:"uniqueIndex:idx_dimension_type_name;not null" json:"-"`
	Name             string           `gorm:"size:100;uniqueIndex:idx_dimension_type_name;not null" json:"name"`
	Title            string           `gorm:"size:255" json:"title"`
	Description      string           `gorm:"type:text" json:"description"`
	SkillCategoryID  *uint            `gorm:"index" json:"-"`
	SkillCategory    *SkillCategory   `gorm:"foreignKey:SkillCategoryID" json:"skill_category,omitempty"`
	Traits           []DimensionTrait `gorm:"foreignKey:DimensionID" json:"traits,omitempty"`
	IsDeleted        bool             `gorm:"default:false;index" json:"-"`
}

func (Dimension) TableName() string {
	return "dimensions"
}

type DimensionTrait struct {
	Entity
	DimensionID uint   `gorm:"index;not null" json:"-"`
	Kind        string `gorm:"size:30;not null" json:"kind"`
	Text        string `gorm:"type:text;not null" json:"text"`
	IsDeleted   bool   `gorm:"default:false" json:"-"`
}

func (DimensionTrait) TableName() string {
	return "dimension_traits"
}

type PersonalityType struct {
	Entity
	Name        string             `gorm:"size:4;uniqueIndex;not null" json:"name"`
	Title       string             `gorm:"size:255" json:"title"`
	Description string             `gorm:"type:text" json:"description"`
	Traits      []PersonalityTrait `gorm:"foreignKey:PersonalityTypeID" json:"traits,omitempty"`
	IsDeleted   bool               `gorm:"default:false;index" json:"-"`
}

func (PersonalityType) TableName() string {
	return "personality_types"
}

type PersonalityTrait struct {
	Entity
	PersonalityTypeID uint   `gorm:"index;not null" json:"-"`
	Kind              string `gorm:"size:30;not null" json:"kind"`
	Text              string `gorm:"type:text;not null" json:"text"`
	IsDeleted         bool   `gorm:"default:false" json:"-"`
}

func (PersonalityTrait) TableName() string {
	return "personality_traits"
}

// HollandCode is a RIASEC letter sequence such as "SEC".
type HollandCode struct {
	Entity
	Code        string `gorm:"size:6;uniqueIndex;not null" json:"code"`
	Title       string `gorm:"size:255" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	IsDeleted   bool   `gorm:"default:false;index" json:"-"`
}

func (HollandCode) TableName() string {
	return "holland_codes"
}

type ValueCategory struct {
	Entity
	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	IsDeleted   bool   `gorm:"default:false;index" json:"-"`
}

func (ValueCategory) TableName() string {
	return "value_categories"
}

type SkillCategory struct {
	Entity
	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	IsDeleted   bool   `gorm:"default:false;index" json:"-"`
}

func (SkillCategory) TableName() string {
	return "skill_categories"
}
