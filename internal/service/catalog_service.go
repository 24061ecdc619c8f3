package service

import (
	"career_compass_backend/internal/model"
	"career_compass_backend/internal/repository"
	"career_compass_backend/internal/util"
	"career_compass_backend/pkg/logger"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Workbook sheets, in import order. Later sheets reference rows of
// earlier ones by name.
const (
	SheetSkillCategories  = "SkillCategories"
	SheetValueCategories  = "ValueCategories"
	SheetHollandCodes     = "HollandCodes"
	SheetPersonalityTypes = "PersonalityTypes"
	SheetDimensions       = "Dimensions"
	SheetCareers          = "Careers"
	SheetCareerCategories = "CareerCategories"
	SheetMajors           = "Majors"
)

type ImportResult struct {
	TotalProcessed int      `json:"total_processed"`
	Created        int      `json:"created"`
	Updated        int      `json:"updated"`
	Skipped        int      `json:"skipped"`
	Errors         []string `json:"errors"`
}

func (r *ImportResult) count(created bool) {
	r.TotalProcessed++
	if created {
		r.Created++
	} else {
		r.Updated++
	}
}

func (r *ImportResult) skip(sheet string, row int, format string, args ...interface{}) {
	r.TotalProcessed++
	r.Skipped++
	r.Errors = append(r.Errors, fmt.Sprintf("%s row %d: %s", sheet, row, fmt.Sprintf(format, args...)))
}

type CatalogService struct {
	DB      *gorm.DB
	Catalog *repository.CatalogRepository
}

func NewCatalogService(db *gorm.DB, catalog *repository.CatalogRepository) *CatalogService {
	return &CatalogService{DB: db, Catalog: catalog}
}

func (s *CatalogService) ListAssessmentTypes(ctx context.Context) ([]model.AssessmentType, error) {
	types, err := s.Catalog.ListAssessmentTypes(ctx)
	if err != nil {
		return nil, util.NewPersistenceError(err)
	}
	return types, nil
}

// ImportWorkbook upserts the catalog from an .xlsx file. Rows that reference
// unknown entities are skipped and reported; database errors abort the
// whole import.
func (s *CatalogService) ImportWorkbook(ctx context.Context, path string) (*ImportResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()
	return s.Import(ctx, f)
}

func (s *CatalogService) Import(ctx context.Context, f *excelize.File) (*ImportResult, error) {
	steps := []struct {
		sheet string
		fn    func(*catalogImport, context.Context, int, []string) error
	}{
		{SheetSkillCategories, (*catalogImport).skillCategory},
		{SheetValueCategories, (*catalogImport).valueCategory},
		{SheetHollandCodes, (*catalogImport).hollandCode},
		{SheetPersonalityTypes, (*catalogImport).personalityType},
		{SheetDimensions, (*catalogImport).dimension},
		{SheetCareers, (*catalogImport).career},
		{SheetCareerCategories, (*catalogImport).careerCategory},
		{SheetMajors, (*catalogImport).major},
	}

	present := make(map[string]bool)
	for _, name := range f.GetSheetList() {
		present[name] = true
	}
	sheets := make(map[string][][]string)
	for _, step := range steps {
		if !present[step.sheet] {
			continue
		}
		rows, err := f.GetRows(step.sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", step.sheet, err)
		}
		sheets[step.sheet] = rows
	}

	result := &ImportResult{Errors: []string{}}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		imp := &catalogImport{repo: s.Catalog.WithTx(tx), result: result}
		for _, step := range steps {
			rows := sheets[step.sheet]
			imp.sheet = step.sheet
			// row 1 is the header
			for i := 1; i < len(rows); i++ {
				if isBlankRow(rows[i]) {
					continue
				}
				if err := step.fn(imp, ctx, i+1, rows[i]); err != nil {
					return fmt.Errorf("%s row %d: %w", step.sheet, i+1, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, util.NewPersistenceError(err)
	}

	logger.Log.Info("catalog imported",
		zap.Int("processed", result.TotalProcessed),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

type catalogImport struct {
	repo   *repository.CatalogRepository
	result *ImportResult
	sheet  string
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// upsert inserts dst when no row matches cond, otherwise copies the
// importable fields onto the stored row with apply and saves it.
func (imp *catalogImport) upsert(ctx context.Context, dst interface{}, cond interface{}, apply func()) error {
	created, err := imp.repo.FirstOrCreate(ctx, dst, cond)
	if err != nil {
		return err
	}
	if !created {
		apply()
		if err := imp.repo.Save(ctx, dst); err != nil {
			return err
		}
	}
	imp.result.count(created)
	return nil
}

// link creates a join row once; it is not counted.
func (imp *catalogImport) link(ctx context.Context, dst interface{}, cond interface{}) error {
	_, err := imp.repo.FirstOrCreate(ctx, dst, cond)
	return err
}

// SkillCategories: Name | Description
func (imp *catalogImport) skillCategory(ctx context.Context, n int, row []string) error {
	name, desc := cell(row, 0), cell(row, 1)
	if name == "" {
		imp.result.skip(imp.sheet, n, "missing name")
		return nil
	}
	sc := model.SkillCategory{Name: name, Description: desc}
	return imp.upsert(ctx, &sc, model.SkillCategory{Name: name}, func() {
		sc.Description = desc
		sc.IsDeleted = false
	})
}

// ValueCategories: Name | Description
func (imp *catalogImport) valueCategory(ctx context.Context, n int, row []string) error {
	name, desc := cell(row, 0), cell(row, 1)
	if name == "" {
		imp.result.skip(imp.sheet, n, "missing name")
		return nil
	}
	vc := model.ValueCategory{Name: name, Description: desc}
	return imp.upsert(ctx, &vc, model.ValueCategory{Name: name}, func() {
		vc.Description = desc
		vc.IsDeleted = false
	})
}

// HollandCodes: Code | Title | Description
func (imp *catalogImport) hollandCode(ctx context.Context, n int, row []string) error {
	code := strings.ToUpper(cell(row, 0))
	title, desc := cell(row, 1), cell(row, 2)
	if code == "" {
		imp.result.skip(imp.sheet, n, "missing code")
		return nil
	}
	hc := model.HollandCode{Code: code, Title: title, Description: desc}
	return imp.upsert(ctx, &hc, model.HollandCode{Code: code}, func() {
		hc.Title = title
		hc.Description = desc
		hc.IsDeleted = false
	})
}

// PersonalityTypes: Name | Title | Description | KeyTraits | Strengths | Weaknesses
// Trait columns hold one entry per line.
func (imp *catalogImport) personalityType(ctx context.Context, n int, row []string) error {
	name := strings.ToUpper(cell(row, 0))
	title, desc := cell(row, 1), cell(row, 2)
	if len(name) != 4 {
		imp.result.skip(imp.sheet, n, "personality type %q must have four letters", name)
		return nil
	}
	pt := model.PersonalityType{Name: name, Title: title, Description: desc}
	err := imp.upsert(ctx, &pt, model.PersonalityType{Name: name}, func() {
		pt.Title = title
		pt.Description = desc
		pt.IsDeleted = false
	})
	if err != nil {
		return err
	}

	kinds := []string{model.TraitKindKeyTrait, model.TraitKindStrength, model.TraitKindWeakness}
	for i, kind := range kinds {
		for _, text := range splitLines(cell(row, 3+i)) {
			trait := model.PersonalityTrait{PersonalityTypeID: pt.ID, Kind: kind, Text: text}
			if err := imp.link(ctx, &trait, model.PersonalityTrait{PersonalityTypeID: pt.ID, Kind: kind, Text: text}); err != nil {
				return err
			}
		}
	}
	return nil
}

func (imp *catalogImport) assessmentType(ctx context.Context, raw string) (*model.AssessmentType, error) {
	c, ok := model.ParseCategory(raw)
	if !ok {
		return nil, nil
	}
	at, err := imp.repo.FindAssessmentType(ctx, c.String())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return at, err
}

// Dimensions: AssessmentType | Name | Title | Description | SkillCategory | KeyTraits | StudyTechniques
func (imp *catalogImport) dimension(ctx context.Context, n int, row []string) error {
	at, err := imp.assessmentType(ctx, cell(row, 0))
	if err != nil {
		return err
	}
	if at == nil {
		imp.result.skip(imp.sheet, n, "unknown assessment type %q", cell(row, 0))
		return nil
	}
	name, title, desc := cell(row, 1), cell(row, 2), cell(row, 3)
	if name == "" {
		imp.result.skip(imp.sheet, n, "missing name")
		return nil
	}

	var skillCategoryID *uint
	if scName := cell(row, 4); scName != "" {
		var sc model.SkillCategory
		res := imp.repo.DB.WithContext(ctx).Where("name = ? AND is_deleted = ?", scName, false).Limit(1).Find(&sc)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			imp.result.skip(imp.sheet, n, "unknown skill category %q", scName)
			return nil
		}
		skillCategoryID = &sc.ID
	}

	dim := model.Dimension{AssessmentTypeID: at.ID, Name: name, Title: title, Description: desc, SkillCategoryID: skillCategoryID}
	err = imp.upsert(ctx, &dim, model.Dimension{AssessmentTypeID: at.ID, Name: name}, func() {
		dim.Title = title
		dim.Description = desc
		dim.SkillCategoryID = skillCategoryID
		dim.IsDeleted = false
	})
	if err != nil {
		return err
	}

	kinds := []string{model.TraitKindKeyTrait, model.TraitKindStudyTechnique}
	for i, kind := range kinds {
		for _, text := range splitLines(cell(row, 5+i)) {
			trait := model.DimensionTrait{DimensionID: dim.ID, Kind: kind, Text: text}
			if err := imp.link(ctx, &trait, model.DimensionTrait{DimensionID: dim.ID, Kind: kind, Text: text}); err != nil {
				return err
			}
		}
	}
	return nil
}

// Careers: Name | Description | PersonalityType | HollandCode | ValueCategory | Dimensions
// Dimensions is a ";" separated list of "AssessmentType/Dimension".
func (imp *catalogImport) career(ctx context.Context, n int, row []string) error {
	name, desc := cell(row, 0), cell(row, 1)
	if name == "" {
		imp.result.skip(imp.sheet, n, "missing name")
		return nil
	}

	var ptID, hcID, vcID *uint
	if v := strings.ToUpper(cell(row, 2)); v != "" {
		pt, err := imp.repo.FindPersonalityType(ctx, v)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if pt == nil {
			imp.result.skip(imp.sheet, n, "unknown personality type %q", v)
			return nil
		}
		ptID = &pt.ID
	}
	if v := strings.ToUpper(cell(row, 3)); v != "" {
		hc, err := imp.repo.FindHollandCode(ctx, v)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if hc == nil {
			imp.result.skip(imp.sheet, n, "unknown holland code %q", v)
			return nil
		}
		hcID = &hc.ID
	}
	if v := cell(row, 4); v != "" {
		vc, err := imp.repo.FindValueCategory(ctx, v)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if vc == nil {
			imp.result.skip(imp.sheet, n, "unknown value category %q", v)
			return nil
		}
		vcID = &vc.ID
	}

	career := model.Career{Name: name, Description: desc, PersonalityTypeID: ptID, HollandCodeID: hcID, ValueCategoryID: vcID}
	err := imp.upsert(ctx, &career, model.Career{Name: name}, func() {
		career.Description = desc
		career.PersonalityTypeID = ptID
		career.HollandCodeID = hcID
		career.ValueCategoryID = vcID
		career.IsDeleted = false
	})
	if err != nil {
		return err
	}

	if ptID != nil {
		link := model.CareerPersonalityType{CareerID: career.ID, PersonalityTypeID: *ptID}
		if err := imp.link(ctx, &link, model.CareerPersonalityType{CareerID: career.ID, PersonalityTypeID: *ptID}); err != nil {
			return err
		}
	}
	if vcID != nil {
		link := model.CareerValueCategory{CareerID: career.ID, ValueCategoryID: *vcID}
		if err := imp.link(ctx, &link, model.CareerValueCategory{CareerID: career.ID, ValueCategoryID: *vcID}); err != nil {
			return err
		}
	}

	for _, ref := range splitList(cell(row, 5)) {
		typeName, dimName, ok := strings.Cut(ref, "/")
		if !ok {
			imp.result.Errors = append(imp.result.Errors, fmt.Sprintf("%s row %d: bad dimension reference %q", imp.sheet, n, ref))
			continue
		}
		at, err := imp.assessmentType(ctx, typeName)
		if err != nil {
			return err
		}
		if at == nil {
			imp.result.Errors = append(imp.result.Errors, fmt.Sprintf("%s row %d: unknown assessment type %q", imp.sheet, n, typeName))
			continue
		}
		dim, err := imp.repo.FindDimension(ctx, at.ID, strings.TrimSpace(dimName))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			imp.result.Errors = append(imp.result.Errors, fmt.Sprintf("%s row %d: unknown dimension %q", imp.sheet, n, ref))
			continue
		}
		if err != nil {
			return err
		}
		link := model.DimensionCareer{DimensionID: dim.ID, CareerID: career.ID}
		if err := imp.link(ctx, &link, model.DimensionCareer{DimensionID: dim.ID, CareerID: career.ID}); err != nil {
			return err
		}
	}
	return nil
}

func (imp *catalogImport) findCareer(ctx context.Context, name string) (*model.Career, error) {
	var career model.Career
	res := imp.repo.DB.WithContext(ctx).Where("name = ? AND is_deleted = ?", name, false).Limit(1).Find(&career)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &career, nil
}

// CareerCategories: Career | Category | Summary | Responsibilities
func (imp *catalogImport) careerCategory(ctx context.Context, n int, row []string) error {
	career, err := imp.findCareer(ctx, cell(row, 0))
	if err != nil {
		return err
	}
	if career == nil {
		imp.result.skip(imp.sheet, n, "unknown career %q", cell(row, 0))
		return nil
	}
	name, summary := cell(row, 1), cell(row, 2)
	if name == "" {
		imp.result.skip(imp.sheet, n, "missing category")
		return nil
	}

	category := model.CareerCategory{Name: name}
	if err := imp.link(ctx, &category, model.CareerCategory{Name: name}); err != nil {
		return err
	}
	link := model.CareerCategoryLink{CareerID: career.ID, CareerCategoryID: category.ID, Responsibilities: summary}
	err = imp.upsert(ctx, &link, model.CareerCategoryLink{CareerID: career.ID, CareerCategoryID: category.ID}, func() {
		link.Responsibilities = summary
		link.IsDeleted = false
	})
	if err != nil {
		return err
	}
	for _, text := range splitLines(cell(row, 3)) {
		resp := model.CareerCategoryResponsibility{CareerCategoryLinkID: link.ID, Text: text}
		if err := imp.link(ctx, &resp, model.CareerCategoryResponsibility{CareerCategoryLinkID: link.ID, Text: text}); err != nil {
			return err
		}
	}
	return nil
}

// Majors: Career | Major | School | Location | Faculty
func (imp *catalogImport) major(ctx context.Context, n int, row []string) error {
	career, err := imp.findCareer(ctx, cell(row, 0))
	if err != nil {
		return err
	}
	if career == nil {
		imp.result.skip(imp.sheet, n, "unknown career %q", cell(row, 0))
		return nil
	}
	majorName, schoolName, location, facultyName := cell(row, 1), cell(row, 2), cell(row, 3), cell(row, 4)
	if majorName == "" {
		imp.result.skip(imp.sheet, n, "missing major")
		return nil
	}

	var facultyID uint
	var school model.School
	if schoolName != "" {
		school = model.School{Name: schoolName, Location: location}
		if err := imp.link(ctx, &school, model.School{Name: schoolName}); err != nil {
			return err
		}
		if facultyName != "" {
			faculty := model.Faculty{SchoolID: school.ID, Name: facultyName}
			if err := imp.link(ctx, &faculty, model.Faculty{SchoolID: school.ID, Name: facultyName}); err != nil {
				return err
			}
			facultyID = faculty.ID
		}
	}

	major := model.Major{Name: majorName, FacultyID: facultyID}
	created, err := imp.repo.FirstOrCreate(ctx, &major, model.Major{Name: majorName})
	if err != nil {
		return err
	}
	imp.result.count(created)

	cm := model.CareerMajor{CareerID: career.ID, MajorID: major.ID}
	if err := imp.link(ctx, &cm, model.CareerMajor{CareerID: career.ID, MajorID: major.ID}); err != nil {
		return err
	}
	if school.ID != 0 {
		sm := model.SchoolMajor{SchoolID: school.ID, MajorID: major.ID}
		if err := imp.link(ctx, &sm, model.SchoolMajor{SchoolID: school.ID, MajorID: major.ID}); err != nil {
			return err
		}
	}
	return nil
}
