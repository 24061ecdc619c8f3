package service

import (
	"bytes"
	"career_compass_backend/internal/model"
	"career_compass_backend/internal/repository"
	"career_compass_backend/internal/util"
	"career_compass_backend/pkg/logger"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TestSummary struct {
	UUID           string    `json:"uuid"`
	Name           string    `json:"name"`
	AssessmentType string    `json:"assessment_type"`
	IsCompleted    bool      `json:"is_completed"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type TestResult struct {
	Test   TestSummary `json:"test"`
	Result interface{} `json:"result"`
}

type ExportFile struct {
	Name string
	Data []byte
	URL  string
}

type TestService struct {
	DB           *gorm.DB
	Catalog      CatalogLookup
	TestRepo     *repository.TestRepository
	ResponseRepo *repository.ResponseRepository
	ScoreRepo    *repository.AssessmentScoreRepository
	Cache        ResultCache
	Storage      *StorageService
	ExportPrefix string
}

func NewTestService(
	db *gorm.DB,
	catalog CatalogLookup,
	testRepo *repository.TestRepository,
	responseRepo *repository.ResponseRepository,
	scoreRepo *repository.AssessmentScoreRepository,
	cache ResultCache,
	storage *StorageService,
	exportPrefix string,
) *TestService {
	if cache == nil {
		cache = NoopResultCache{}
	}
	return &TestService{
		DB:           db,
		Catalog:      catalog,
		TestRepo:     testRepo,
		ResponseRepo: responseRepo,
		ScoreRepo:    scoreRepo,
		Cache:        cache,
		Storage:      storage,
		ExportPrefix: exportPrefix,
	}
}

func summarize(t *model.Test) TestSummary {
	s := TestSummary{
		UUID:        t.UUID,
		Name:        t.Name,
		IsCompleted: t.IsCompleted,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.AssessmentType != nil {
		s.AssessmentType = t.AssessmentType.Name
	}
	return s
}

// List returns the user's tests, newest first, optionally for one category.
func (s *TestService) List(ctx context.Context, userID uint, category string) ([]TestSummary, error) {
	var typeID uint
	if category != "" {
		c, ok := model.ParseCategory(category)
		if !ok {
			return nil, util.NewValidationError("%s: %q", util.ErrUnknownCategory.Error(), category)
		}
		at, err := s.Catalog.FindAssessmentType(ctx, c.String())
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []TestSummary{}, nil
		}
		if err != nil {
			return nil, util.NewPersistenceError(err)
		}
		typeID = at.ID
	}

	tests, err := s.TestRepo.ListByUser(ctx, userID, typeID)
	if err != nil {
		return nil, util.NewPersistenceError(err)
	}
	out := make([]TestSummary, 0, len(tests))
	for i := range tests {
		out = append(out, summarize(&tests[i]))
	}
	return out, nil
}

func (s *TestService) completedTest(ctx context.Context, userID uint, testUUID string) (*model.Test, error) {
	test, err := s.TestRepo.FindByUUID(ctx, userID, testUUID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NewNotFoundError("test %s not found", testUUID)
	}
	if err != nil {
		return nil, util.NewPersistenceError(err)
	}
	if !test.IsCompleted || test.AssessmentType == nil {
		return nil, util.NewNotFoundError("test %s has no result yet", testUUID)
	}
	return test, nil
}

// resultData returns the stored result, reading through the cache.
func (s *TestService) resultData(ctx context.Context, test *model.Test) ([]byte, error) {
	data, err := s.Cache.Get(ctx, test.UserID, test.UUID)
	if err != nil {
		logger.Log.Warn("read result cache failed", zap.String("test", test.UUID), zap.Error(err))
	}
	if len(data) > 0 {
		return data, nil
	}

	snapshot, err := s.ResponseRepo.FindSnapshot(ctx, test.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NewNotFoundError("test %s has no result yet", test.UUID)
	}
	if err != nil {
		return nil, util.NewPersistenceError(err)
	}
	data = []byte(snapshot.ResponseData)
	if err := s.Cache.Set(ctx, test.UserID, test.UUID, data); err != nil {
		logger.Log.Warn("write result cache failed", zap.String("test", test.UUID), zap.Error(err))
	}
	return data, nil
}

func (s *TestService) GetResult(ctx context.Context, userID uint, testUUID string) (*TestResult, error) {
	test, err := s.completedTest(ctx, userID, testUUID)
	if err != nil {
		return nil, err
	}
	data, err := s.resultData(ctx, test)
	if err != nil {
		return nil, err
	}
	result, err := DecodeResult(model.Category(test.AssessmentType.Name), data)
	if err != nil {
		return nil, util.NewPersistenceError(err)
	}
	return &TestResult{Test: summarize(test), Result: result}, nil
}

// Delete soft-deletes a test together with its responses.
func (s *TestService) Delete(ctx context.Context, userID uint, testUUID string) error {
	test, err := s.TestRepo.FindByUUID(ctx, userID, testUUID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.NewNotFoundError("test %s not found", testUUID)
	}
	if err != nil {
		return util.NewPersistenceError(err)
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.TestRepo.WithTx(tx).SoftDelete(ctx, test.ID); err != nil {
			return err
		}
		return s.ResponseRepo.WithTx(tx).SoftDeleteByTest(ctx, test.ID)
	})
	if err != nil {
		return util.NewPersistenceError(err)
	}
	if err := s.Cache.Delete(ctx, userID, testUUID); err != nil {
		logger.Log.Warn("evict result cache failed", zap.String("test", testUUID), zap.Error(err))
	}
	return nil
}

// Export renders the test's scores and recommendations as a workbook. With
// upload set the file is also stored through the storage provider.
func (s *TestService) Export(ctx context.Context, userID uint, testUUID string, upload bool) (*ExportFile, error) {
	test, err := s.completedTest(ctx, userID, testUUID)
	if err != nil {
		return nil, err
	}
	scores, err := s.ScoreRepo.ListByTest(ctx, test.ID)
	if err != nil {
		return nil, util.NewPersistenceError(err)
	}
	data, err := s.resultData(ctx, test)
	if err != nil {
		return nil, err
	}
	var careers struct {
		RecommendedCareers []model.RecommendedCareer `json:"recommended_careers"`
	}
	if err := json.Unmarshal(data, &careers); err != nil {
		return nil, util.NewPersistenceError(err)
	}

	buf, err := buildWorkbook(test, scores, careers.RecommendedCareers)
	if err != nil {
		return nil, err
	}

	file := &ExportFile{
		Name: fmt.Sprintf("%s-%s.xlsx", strings.ReplaceAll(test.Name, " ", "_"), test.UUID[:8]),
		Data: buf,
	}
	if upload && s.Storage != nil {
		key := path.Join(s.ExportPrefix, fmt.Sprintf("%d", userID), test.UUID+".xlsx")
		url, err := s.Storage.Upload(ctx, key, bytes.NewReader(buf), int64(len(buf)), util.MimeXLSX)
		if err != nil {
			return nil, util.NewPersistenceError(err)
		}
		file.URL = url
	}
	return file, nil
}

const (
	sheetSummary = "Summary"
	sheetScores  = "Scores"
	sheetCareers = "Careers"
)

func buildWorkbook(test *model.Test, scores []model.AssessmentScore, careers []model.RecommendedCareer) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), sheetSummary)
	summary := [][]interface{}{
		{"Test", test.Name},
		{"Assessment", test.AssessmentType.Name},
		{"Completed", test.UpdatedAt.Format(util.TimeFormat)},
	}
	for i, row := range summary {
		if err := f.SetSheetRow(sheetSummary, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(sheetScores); err != nil {
		return nil, err
	}
	header := []interface{}{"Dimension", "Title", "Score", "Level", "Percentage"}
	if err := f.SetSheetRow(sheetScores, "A1", &header); err != nil {
		return nil, err
	}
	for i, sc := range scores {
		v := sc.Score.Data()
		row := []interface{}{"", "", "", v.Level, v.Percentage}
		if sc.Dimension != nil {
			row[0] = sc.Dimension.Name
			row[1] = sc.Dimension.Title
		}
		if v.Score != nil {
			row[2] = *v.Score
		}
		if err := f.SetSheetRow(sheetScores, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(sheetCareers); err != nil {
		return nil, err
	}
	header = []interface{}{"Career", "Description", "Categories", "Majors"}
	if err := f.SetSheetRow(sheetCareers, "A1", &header); err != nil {
		return nil, err
	}
	for i, c := range careers {
		var cats, majors []string
		for _, cat := range c.Categories {
			cats = append(cats, cat.CategoryName)
		}
		for _, m := range c.Majors {
			if len(m.Schools) > 0 {
				majors = append(majors, fmt.Sprintf("%s (%s)", m.MajorName, strings.Join(m.Schools, ", ")))
			} else {
				majors = append(majors, m.MajorName)
			}
		}
		row := []interface{}{c.CareerName, c.Description, strings.Join(cats, "; "), strings.Join(majors, "; ")}
		if err := f.SetSheetRow(sheetCareers, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
