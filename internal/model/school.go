package model

type School struct {
	Entity
	Name      string `gorm:"size:255;not null" json:"name"`
	Location  string `gorm:"size:255" json:"location"`
	IsDeleted bool   `gorm:"default:false;index" json:"-"`
}

func (School) TableName() string {
	return "schools"
}

type Faculty struct {
	Entity
	SchoolID  uint   `gorm:"index;not null" json:"-"`
	Name      string `gorm:"size:255;not null" json:"name"`
	IsDeleted bool   `gorm:"default:false;index" json:"-"`
}

func (Faculty) TableName() string {
	return "faculties"
}

type Major struct {
	Entity
	FacultyID uint   `gorm:"index" json:"-"`
	Name      string `gorm:"size:255;not null" json:"name"`
	IsDeleted bool   `gorm:"default:false;index" json:"-"`
}

func (Major) TableName() string {
	return "majors"
}

// SchoolMajor lists which schools teach which majors.
type SchoolMajor struct {
	Entity
	SchoolID  uint `gorm:"index;not null" json:"-"`
	MajorID   uint `gorm:"index;not null" json:"-"`
	IsDeleted bool `gorm:"default:false;index" json:"-"`
}

func (SchoolMajor) TableName() string {
	return "school_majors"
}
