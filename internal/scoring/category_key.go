package scoring

import (
	"career_compass_backend/internal/model"
	"fmt"
	"strings"
)

const (
	underscoreScoreSuffix = "_Score"
	spaceScoreSuffix      = " Score"
	levelSuffix           = " Level"
)

// CategoryKey is a model output name in canonical form. Name is the catalog
// name used for lookup (the Dimension name, or the ValueCategory name).
type CategoryKey struct {
	Category model.Category
	Name     string
}

// ParseCategoryKey accepts the output name emitted by a model of the given
// category, with or without its suffix.
//
//	Interest, Learning Style  "R_Score"            -> "R"
//	Value                     "Work-Life Balance Score" -> "Work-Life Balance"
//	Personality               "e"                  -> "E"
//	Skill                     "Communication"      -> "Communication Level"
func ParseCategoryKey(c model.Category, raw string) (CategoryKey, error) {
	s := strings.TrimSpace(raw)
	var name string
	switch c {
	case model.CategoryInterest, model.CategoryLearningStyle, model.CategoryValue:
		name = strings.TrimSpace(trimScoreSuffix(s))
	case model.CategoryPersonality:
		name = strings.ToUpper(s)
		if !isPersonalityLetter(name) {
			return CategoryKey{}, fmt.Errorf("invalid personality key %q", raw)
		}
	case model.CategorySkill:
		name = s
		if name != "" && !strings.HasSuffix(name, levelSuffix) {
			name += levelSuffix
		}
	default:
		return CategoryKey{}, fmt.Errorf("unknown category %q", c)
	}
	if name == "" {
		return CategoryKey{}, fmt.Errorf("empty %s key %q", c, raw)
	}
	return CategoryKey{Category: c, Name: name}, nil
}

func trimScoreSuffix(s string) string {
	for _, suffix := range []string{underscoreScoreSuffix, spaceScoreSuffix} {
		if strings.HasSuffix(s, suffix) {
			return strings.TrimSuffix(s, suffix)
		}
	}
	return s
}

func isPersonalityLetter(s string) bool {
	for _, pair := range PersonalityPairs {
		if s == pair.First || s == pair.Second {
			return true
		}
	}
	return false
}

// Format returns the output name the category's models emit.
func (k CategoryKey) Format() string {
	switch k.Category {
	case model.CategoryInterest, model.CategoryLearningStyle:
		return k.Name + underscoreScoreSuffix
	case model.CategoryValue:
		return k.Name + spaceScoreSuffix
	default:
		return k.Name
	}
}

// Label is the display name: the skill name without " Level", otherwise Name.
func (k CategoryKey) Label() string {
	if k.Category == model.CategorySkill {
		return strings.TrimSuffix(k.Name, levelSuffix)
	}
	return k.Name
}

func (k CategoryKey) String() string {
	return string(k.Category) + ":" + k.Name
}
