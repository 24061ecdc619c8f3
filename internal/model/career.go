package model

type Career struct {
	Entity
	Name              string `gorm:"size:255;not null" json:"name"`
	Description       string `gorm:"type:text" json:"description"`
	PersonalityTypeID *uint  `gorm:"index" json:"-"`
	HollandCodeID     *uint  `gorm:"index" json:"-"`
	ValueCategoryID   *uint  `gorm:"index" json:"-"`
	IsDeleted         bool   `gorm:"default:false;index" json:"-"`
}

func (Career) TableName() string {
	return "careers"
}

type CareerCategory struct {
	Entity
	Name      string `gorm:"size:255;uniqueIndex;not null" json:"name"`
	IsDeleted bool   `gorm:"default:false;index" json:"-"`
}

func (CareerCategory) TableName() string {
	return "career_categories"
}

// CareerCategoryLink joins a career to a category; Responsibilities is the
// free text summary, the itemised list lives in CareerCategoryResponsibility.
type CareerCategoryLink struct {
	Entity
	CareerID         uint   `gorm:"index;not null" json:"-"`
	CareerCategoryID uint   `gorm:"index;not null" json:"-"`
	Responsibilities string `gorm:"type:text" json:"responsibilities"`
	IsDeleted        bool   `gorm:"default:false;index" json:"-"`
}

func (CareerCategoryLink) TableName() string {
	return "career_category_links"
}

type CareerCategoryResponsibility struct {
	Entity
	CareerCategoryLinkID uint   `gorm:"index;not null" json:"-"`
	Text                 string `gorm:"type:text;not null" json:"text"`
	IsDeleted            bool   `gorm:"default:false;index" json:"-"`
}

func (CareerCategoryResponsibility) TableName() string {
	return "career_category_responsibilities"
}

type CareerPersonalityType struct {
	Entity
	CareerID          uint `gorm:"index;not null" json:"-"`
	PersonalityTypeID uint `gorm:"index;not null" json:"-"`
	IsDeleted         bool `gorm:"default:false;index" json:"-"`
}

func (CareerPersonalityType) TableName() string {
	return "career_personality_types"
}

type CareerValueCategory struct {
	Entity
	CareerID        uint `gorm:"index;not null" json:"-"`
	ValueCategoryID uint `gorm:"index;not null" json:"-"`
	IsDeleted       bool `gorm:"default:false;index" json:"-"`
}

func (CareerValueCategory) TableName() string {
	return "career_value_categories"
}

type DimensionCareer struct {
	Entity
	DimensionID uint `gorm:"index;not null" json:"-"`
	CareerID    uint `gorm:"index;not null" json:"-"`
	IsDeleted   bool `gorm:"default:false;index" json:"-"`
}

func (DimensionCareer) TableName() string {
	return "dimension_careers"
}

type CareerMajor struct {
	Entity
	CareerID  uint `gorm:"index;not null" json:"-"`
	MajorID   uint `gorm:"index;not null" json:"-"`
	IsDeleted bool `gorm:"default:false;index" json:"-"`
}

func (CareerMajor) TableName() string {
	return "career_majors"
}
