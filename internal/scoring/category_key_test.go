package scoring

import (
	"career_compass_backend/internal/model"
	"testing"
)

func TestParseCategoryKey(t *testing.T) {
	cases := []struct {
		category model.Category
		raw      string
		name     string
		format   string
	}{
		{model.CategoryInterest, "R_Score", "R", "R_Score"},
		{model.CategoryInterest, "R", "R", "R_Score"},
		{model.CategoryLearningStyle, "Visual_Score", "Visual", "Visual_Score"},
		{model.CategoryLearningStyle, " Auditory Score", "Auditory", "Auditory_Score"},
		{model.CategoryValue, "Work-Life Balance Score", "Work-Life Balance", "Work-Life Balance Score"},
		{model.CategoryValue, "Prestige_Score", "Prestige", "Prestige Score"},
		{model.CategoryPersonality, "e", "E", "E"},
		{model.CategoryPersonality, "J", "J", "J"},
		{model.CategorySkill, "Communication", "Communication Level", "Communication Level"},
		{model.CategorySkill, "Data Analysis Level", "Data Analysis Level", "Data Analysis Level"},
	}
	for _, tc := range cases {
		t.Run(string(tc.category)+"/"+tc.raw, func(t *testing.T) {
			key, err := ParseCategoryKey(tc.category, tc.raw)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if key.Name != tc.name {
				t.Fatalf("name: want=%q got=%q", tc.name, key.Name)
			}
			if key.Format() != tc.format {
				t.Fatalf("format: want=%q got=%q", tc.format, key.Format())
			}
			again, err := ParseCategoryKey(tc.category, key.Format())
			if err != nil || again != key {
				t.Fatalf("round trip: want=%v got=%v (%v)", key, again, err)
			}
		})
	}
}

func TestParseCategoryKeyRejects(t *testing.T) {
	cases := []struct {
		category model.Category
		raw      string
	}{
		{model.CategoryInterest, "_Score"},
		{model.CategoryValue, "  "},
		{model.CategoryPersonality, "X"},
		{model.CategoryPersonality, "EN"},
		{model.CategorySkill, ""},
		{model.Category("Aptitude"), "A"},
	}
	for _, tc := range cases {
		if _, err := ParseCategoryKey(tc.category, tc.raw); err == nil {
			t.Fatalf("%s %q: want error", tc.category, tc.raw)
		}
	}
}

func TestCategoryKeyLabel(t *testing.T) {
	key, _ := ParseCategoryKey(model.CategorySkill, "Leadership")
	if key.Label() != "Leadership" {
		t.Fatalf("label: want=Leadership got=%q", key.Label())
	}
}
