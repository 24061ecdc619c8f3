package model

import "strings"

// Category identifies one assessment type. The value is the AssessmentType
// row name seeded in the catalog.
type Category string

const (
	CategoryPersonality   Category = "Personality"
	CategoryInterest      Category = "Interest"
	CategorySkill         Category = "Skill"
	CategoryLearningStyle Category = "Learning Style"
	CategoryValue         Category = "Value"
)

var AllCategories = []Category{
	CategoryPersonality,
	CategoryInterest,
	CategorySkill,
	CategoryLearningStyle,
	CategoryValue,
}

func (c Category) String() string { return string(c) }

func (c Category) Valid() bool {
	switch c {
	case CategoryPersonality, CategoryInterest, CategorySkill, CategoryLearningStyle, CategoryValue:
		return true
	default:
		return false
	}
}

// Slug is the url form used in routes and config keys ("learning-style").
func (c Category) Slug() string {
	return strings.ReplaceAll(strings.ToLower(string(c)), " ", "-")
}

// ParseCategory accepts either the catalog name or the slug, case-insensitively.
func ParseCategory(s string) (Category, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", "-", " ", "-").Replace(norm)
	for _, c := range AllCategories {
		if c.Slug() == norm {
			return c, true
		}
	}
	return "", false
}
