package testutil

import (
	"career_compass_backend/internal/model"
	"testing"

	"gorm.io/gorm"
)

func SeedUser(tb testing.TB, db *gorm.DB, email string) *model.User {
	tb.Helper()
	u := &model.User{Name: "Test User", Email: email}
	create(tb, db, "user", u)
	return u
}

func AssessmentType(tb testing.TB, db *gorm.DB, c model.Category) *model.AssessmentType {
	tb.Helper()
	var at model.AssessmentType
	if err := db.Where("name = ?", string(c)).First(&at).Error; err != nil {
		tb.Fatalf("assessment type %s: %v", c, err)
	}
	return &at
}

func SeedSkillCategory(tb testing.TB, db *gorm.DB, name string) *model.SkillCategory {
	tb.Helper()
	sc := &model.SkillCategory{Name: name, Description: name + " skills"}
	create(tb, db, "skill category", sc)
	return sc
}

// SeedDimension creates a dimension with optional traits; pass a skill
// category id for skill dimensions.
func SeedDimension(tb testing.TB, db *gorm.DB, c model.Category, name string, skillCategoryID *uint, traits ...model.DimensionTrait) *model.Dimension {
	tb.Helper()
	at := AssessmentType(tb, db, c)
	d := &model.Dimension{
		AssessmentTypeID: at.ID,
		Name:             name,
		Title:            name,
		Description:      "About " + name,
		SkillCategoryID:  skillCategoryID,
	}
	create(tb, db, "dimension", d)
	for i := range traits {
		traits[i].DimensionID = d.ID
		create(tb, db, "dimension trait", &traits[i])
	}
	return d
}

func SeedPersonalityType(tb testing.TB, db *gorm.DB, name string, traits ...model.PersonalityTrait) *model.PersonalityType {
	tb.Helper()
	pt := &model.PersonalityType{Name: name, Title: "The " + name, Description: name + " description"}
	create(tb, db, "personality type", pt)
	for i := range traits {
		traits[i].PersonalityTypeID = pt.ID
		create(tb, db, "personality trait", &traits[i])
	}
	return pt
}

func SeedHollandCode(tb testing.TB, db *gorm.DB, code string) *model.HollandCode {
	tb.Helper()
	hc := &model.HollandCode{Code: code, Title: code, Description: code + " description"}
	create(tb, db, "holland code", hc)
	return hc
}

func SeedValueCategory(tb testing.TB, db *gorm.DB, name string) *model.ValueCategory {
	tb.Helper()
	vc := &model.ValueCategory{Name: name, Description: name + " description"}
	create(tb, db, "value category", vc)
	return vc
}

// SeedCareer creates a career; mutate adjusts it before insert.
func SeedCareer(tb testing.TB, db *gorm.DB, name string, mutate func(*model.Career)) *model.Career {
	tb.Helper()
	c := &model.Career{Name: name, Description: name + " description"}
	if mutate != nil {
		mutate(c)
	}
	create(tb, db, "career", c)
	return c
}

func LinkPersonalityType(tb testing.TB, db *gorm.DB, careerID, personalityTypeID uint) *model.CareerPersonalityType {
	tb.Helper()
	l := &model.CareerPersonalityType{CareerID: careerID, PersonalityTypeID: personalityTypeID}
	create(tb, db, "career personality type", l)
	return l
}

func LinkValueCategory(tb testing.TB, db *gorm.DB, careerID, valueCategoryID uint) *model.CareerValueCategory {
	tb.Helper()
	l := &model.CareerValueCategory{CareerID: careerID, ValueCategoryID: valueCategoryID}
	create(tb, db, "career value category", l)
	return l
}

func LinkDimension(tb testing.TB, db *gorm.DB, careerID, dimensionID uint) *model.DimensionCareer {
	tb.Helper()
	l := &model.DimensionCareer{CareerID: careerID, DimensionID: dimensionID}
	create(tb, db, "dimension career", l)
	return l
}

// SeedCareerCategory links a career to a (possibly new) category with the
// given responsibilities.
func SeedCareerCategory(tb testing.TB, db *gorm.DB, careerID uint, category string, responsibilities ...string) *model.CareerCategoryLink {
	tb.Helper()
	cc := model.CareerCategory{Name: category}
	if err := db.Where("name = ?", category).FirstOrCreate(&cc).Error; err != nil {
		tb.Fatalf("seed career category: %v", err)
	}
	link := &model.CareerCategoryLink{CareerID: careerID, CareerCategoryID: cc.ID}
	create(tb, db, "career category link", link)
	for _, text := range responsibilities {
		create(tb, db, "responsibility", &model.CareerCategoryResponsibility{CareerCategoryLinkID: link.ID, Text: text})
	}
	return link
}

// SeedSchool creates a school with one faculty.
func SeedSchool(tb testing.TB, db *gorm.DB, name string) (*model.School, *model.Faculty) {
	tb.Helper()
	s := &model.School{Name: name, Location: "Campus"}
	create(tb, db, "school", s)
	f := &model.Faculty{SchoolID: s.ID, Name: name + " Faculty"}
	create(tb, db, "faculty", f)
	return s, f
}

// SeedMajor creates a major under faculty, offers it at the schools and
// links it to the career.
func SeedMajor(tb testing.TB, db *gorm.DB, careerID uint, faculty *model.Faculty, name string, schools ...*model.School) (*model.Major, *model.CareerMajor) {
	tb.Helper()
	m := &model.Major{FacultyID: faculty.ID, Name: name}
	create(tb, db, "major", m)
	for _, s := range schools {
		create(tb, db, "school major", &model.SchoolMajor{SchoolID: s.ID, MajorID: m.ID})
	}
	cm := &model.CareerMajor{CareerID: careerID, MajorID: m.ID}
	create(tb, db, "career major", cm)
	return m, cm
}

// SeedTest creates an uncompleted test for the user.
func SeedTest(tb testing.TB, db *gorm.DB, userID uint, c model.Category, name string) *model.Test {
	tb.Helper()
	at := AssessmentType(tb, db, c)
	t := &model.Test{Name: name, UserID: userID, AssessmentTypeID: at.ID}
	create(tb, db, "test", t)
	return t
}
