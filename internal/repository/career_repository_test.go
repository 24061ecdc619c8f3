package repository

import (
	"career_compass_backend/internal/model"
	"career_compass_backend/internal/repository/testutil"
	"context"
	"testing"
)

func TestCareersForSkipsDeletedRows(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewCareerRepository(db)

	pt := testutil.SeedPersonalityType(t, db, "ENFJ")
	direct := testutil.SeedCareer(t, db, "Teacher", func(c *model.Career) { c.PersonalityTypeID = &pt.ID })
	viaJoin := testutil.SeedCareer(t, db, "Counselor", nil)
	testutil.LinkPersonalityType(t, db, viaJoin.ID, pt.ID)

	deletedCareer := testutil.SeedCareer(t, db, "Retired Role", nil)
	testutil.LinkPersonalityType(t, db, deletedCareer.ID, pt.ID)
	testutil.SoftDelete(t, db, &model.Career{}, deletedCareer.ID)

	deletedLink := testutil.SeedCareer(t, db, "Unlinked", nil)
	link := testutil.LinkPersonalityType(t, db, deletedLink.ID, pt.ID)
	testutil.SoftDelete(t, db, &model.CareerPersonalityType{}, link.ID)

	careers, err := repo.CareersFor(ctx, MatchPersonalityType, pt.ID)
	if err != nil {
		t.Fatalf("careers: %v", err)
	}
	if len(careers) != 2 || careers[0].ID != direct.ID || careers[1].ID != viaJoin.ID {
		t.Fatalf("want [Teacher Counselor] got %+v", careers)
	}
}

func TestCareersForEachKind(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewCareerRepository(db)

	hc := testutil.SeedHollandCode(t, db, "SEC")
	vc := testutil.SeedValueCategory(t, db, "Helping Others")
	dim := testutil.SeedDimension(t, db, model.CategoryLearningStyle, "Visual", nil)

	byCode := testutil.SeedCareer(t, db, "Social Worker", func(c *model.Career) { c.HollandCodeID = &hc.ID })
	byValue := testutil.SeedCareer(t, db, "Nurse", nil)
	testutil.LinkValueCategory(t, db, byValue.ID, vc.ID)
	byDim := testutil.SeedCareer(t, db, "Designer", nil)
	testutil.LinkDimension(t, db, byDim.ID, dim.ID)

	cases := []struct {
		kind MatchKind
		id   uint
		want uint
	}{
		{MatchHollandCode, hc.ID, byCode.ID},
		{MatchValueCategory, vc.ID, byValue.ID},
		{MatchDimension, dim.ID, byDim.ID},
	}
	for _, tc := range cases {
		careers, err := repo.CareersFor(ctx, tc.kind, tc.id)
		if err != nil {
			t.Fatalf("%s: %v", tc.kind, err)
		}
		if len(careers) != 1 || careers[0].ID != tc.want {
			t.Fatalf("%s: want career %d got %+v", tc.kind, tc.want, careers)
		}
	}

	if _, err := repo.CareersFor(ctx, MatchKind("bogus"), 1); err == nil {
		t.Fatalf("want error for unknown kind")
	}
}

func TestResponsibilitiesAndMajorSchools(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewCareerRepository(db)

	career := testutil.SeedCareer(t, db, "Data Scientist", nil)
	testutil.SeedCareerCategory(t, db, career.ID, "Analytics", "Build models", "Explain results")
	hidden := testutil.SeedCareerCategory(t, db, career.ID, "Hidden", "Never shown")
	testutil.SoftDelete(t, db, &model.CareerCategoryLink{}, hidden.ID)

	open, faculty := testutil.SeedSchool(t, db, "Open University")
	closed, _ := testutil.SeedSchool(t, db, "Closed College")
	testutil.SoftDelete(t, db, &model.School{}, closed.ID)
	testutil.SeedMajor(t, db, career.ID, faculty, "Statistics", open, closed)

	rows, err := repo.Responsibilities(ctx, []uint{career.ID})
	if err != nil {
		t.Fatalf("responsibilities: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("responsibilities: want=2 got=%d", len(rows))
	}
	for _, row := range rows {
		if row.CategoryName != "Analytics" || row.Responsibility == nil {
			t.Fatalf("unexpected row %+v", row)
		}
	}

	majors, err := repo.MajorSchools(ctx, []uint{career.ID})
	if err != nil {
		t.Fatalf("major schools: %v", err)
	}
	var schools []string
	for _, m := range majors {
		if m.MajorName != "Statistics" {
			t.Fatalf("major: want=Statistics got=%s", m.MajorName)
		}
		if m.SchoolName != nil {
			schools = append(schools, *m.SchoolName)
		}
	}
	if len(schools) != 1 || schools[0] != "Open University" {
		t.Fatalf("schools: want [Open University] got %v", schools)
	}
}

func TestMajorSchoolsSkipsDeletedFaculty(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewCareerRepository(db)

	career := testutil.SeedCareer(t, db, "Chemist", nil)
	school, faculty := testutil.SeedSchool(t, db, "Tech Institute")
	_, retired := testutil.SeedSchool(t, db, "Old Campus")
	testutil.SeedMajor(t, db, career.ID, faculty, "Chemistry", school)
	testutil.SeedMajor(t, db, career.ID, retired, "Alchemy", school)
	testutil.SoftDelete(t, db, &model.Faculty{}, retired.ID)

	majors, err := repo.MajorSchools(ctx, []uint{career.ID})
	if err != nil {
		t.Fatalf("major schools: %v", err)
	}
	if len(majors) != 1 || majors[0].MajorName != "Chemistry" {
		t.Fatalf("majors: want [Chemistry] got %+v", majors)
	}
}
