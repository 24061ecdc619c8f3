package service

import (
	"career_compass_backend/internal/model"
	"career_compass_backend/internal/repository"
	"career_compass_backend/internal/repository/testutil"
	"career_compass_backend/internal/scoring"
	"career_compass_backend/internal/util"
	"fmt"
	"testing"

	"gorm.io/gorm"
)

type harness struct {
	db          *gorm.DB
	user        *model.User
	catalog     *repository.CatalogRepository
	tests       *repository.TestRepository
	responses   *repository.ResponseRepository
	scores      *repository.AssessmentScoreRepository
	assessments *AssessmentService
}

func newHarness(t *testing.T, bundles ...*scoring.ModelBundle) *harness {
	t.Helper()
	db := testutil.DB(t)
	reg, err := scoring.NewStaticRegistry(bundles...)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	h := &harness{
		db:        db,
		user:      testutil.SeedUser(t, db, "student@example.com"),
		catalog:   repository.NewCatalogRepository(db),
		tests:     repository.NewTestRepository(db),
		responses: repository.NewResponseRepository(db),
		scores:    repository.NewAssessmentScoreRepository(db),
	}
	h.assessments = NewAssessmentService(
		db,
		reg,
		h.catalog,
		NewRecommendationService(repository.NewCareerRepository(db)),
		h.tests,
		h.responses,
		h.scores,
		nil,
	)
	return h
}

// identityBundle scores output i as the answer to feature "q<i+1>".
func identityBundle(c model.Category, outputs ...string) *scoring.ModelBundle {
	b := &scoring.ModelBundle{Category: c, Version: "test", AnswerScale: scoring.AnswerScale{Min: 0, Max: 10}}
	for i, name := range outputs {
		f := fmt.Sprintf("q%d", i+1)
		b.Features = append(b.Features, f)
		b.Outputs = append(b.Outputs, &scoring.Predictor{
			Name:     name,
			Kind:     scoring.KindLinear,
			Features: []string{f},
			Weights:  []float64{1},
		})
	}
	return b
}

func answers(values ...float64) map[string]interface{} {
	out := make(map[string]interface{}, len(values))
	for i, v := range values {
		out[fmt.Sprintf("q%d", i+1)] = v
	}
	return out
}

func (h *harness) count(t *testing.T, row interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	if err := h.db.Model(row).Where(query, args...).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func wantKind(t *testing.T, err error, kind util.ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("want %s error, got nil", kind)
	}
	if got := util.KindOf(err); got != kind {
		t.Fatalf("error kind: want=%s got=%s (%v)", kind, got, err)
	}
}

func careerNames(cs []model.RecommendedCareer) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.CareerName)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

var personalityOutputs = []string{"E", "I", "N", "S", "F", "T", "J", "P"}

// seedPersonality seeds the eight letters and the given type.
func seedPersonality(t *testing.T, db *gorm.DB, typeName string) *model.PersonalityType {
	t.Helper()
	for _, letter := range personalityOutputs {
		testutil.SeedDimension(t, db, model.CategoryPersonality, letter, nil)
	}
	return testutil.SeedPersonalityType(t, db, typeName,
		model.PersonalityTrait{Kind: model.TraitKindKeyTrait, Text: "Warm"},
		model.PersonalityTrait{Kind: model.TraitKindStrength, Text: "Empathy"},
	)
}

var riasec = []string{"R", "I", "A", "S", "E", "C"}

func interestOutputs(extra ...string) []string {
	out := make([]string, 0, len(riasec)+len(extra))
	for _, l := range riasec {
		out = append(out, l+"_Score")
	}
	return append(out, extra...)
}

func seedInterest(t *testing.T, db *gorm.DB) {
	t.Helper()
	for _, l := range riasec {
		testutil.SeedDimension(t, db, model.CategoryInterest, l, nil,
			model.DimensionTrait{Kind: model.TraitKindKeyTrait, Text: l + " trait"})
	}
}
