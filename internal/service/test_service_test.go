package service

import (
	"bytes"
	"career_compass_backend/internal/model"
	"career_compass_backend/internal/repository/testutil"
	"career_compass_backend/internal/util"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

type mapCache struct {
	data map[string][]byte
	gets int
	hits int
}

func newMapCache() *mapCache { return &mapCache{data: map[string][]byte{}} }

func cacheKey(userID uint, testUUID string) string { return fmt.Sprintf("%d:%s", userID, testUUID) }

func (c *mapCache) Get(_ context.Context, userID uint, testUUID string) ([]byte, error) {
	c.gets++
	data, ok := c.data[cacheKey(userID, testUUID)]
	if ok {
		c.hits++
	}
	return data, nil
}

func (c *mapCache) Set(_ context.Context, userID uint, testUUID string, data []byte) error {
	c.data[cacheKey(userID, testUUID)] = data
	return nil
}

func (c *mapCache) Delete(_ context.Context, userID uint, testUUID string) error {
	delete(c.data, cacheKey(userID, testUUID))
	return nil
}

type testHarness struct {
	*harness
	cache   *mapCache
	root    string
	service *TestService
	result  *SubmitResult
}

// newTestHarness submits one Value assessment with a recommended career.
func newTestHarness(t *testing.T) *testHarness {
	t.Helper()
	h := newHarness(t, identityBundle(model.CategoryValue, "A Score", "B Score"))
	for _, n := range []string{"A", "B"} {
		testutil.SeedDimension(t, h.db, model.CategoryValue, n, nil)
		vc := testutil.SeedValueCategory(t, h.db, n)
		if n == "A" {
			c := testutil.SeedCareer(t, h.db, "Architect", nil)
			testutil.LinkValueCategory(t, h.db, c.ID, vc.ID)
			testutil.SeedCareerCategory(t, h.db, c.ID, "Design")
		}
	}
	res, err := h.assessments.Submit(context.Background(), SubmitRequest{
		Category: model.CategoryValue,
		UserID:   h.user.ID,
		Answers:  answers(8, 2),
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	th := &testHarness{harness: h, cache: newMapCache(), root: t.TempDir(), result: res}
	storage := &StorageService{Provider: &LocalStorageProvider{Root: th.root}}
	th.service = NewTestService(h.db, h.catalog, h.tests, h.responses, h.scores, th.cache, storage, "exports")
	return th
}

func TestTestServiceList(t *testing.T) {
	th := newTestHarness(t)
	testutil.SeedTest(t, th.db, th.user.ID, model.CategoryInterest, "Test 2")
	ctx := context.Background()

	tests := []struct {
		category string
		want     int
	}{
		{category: "", want: 2},
		{category: "value", want: 1},
		{category: "learning-style", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			list, err := th.service.List(ctx, th.user.ID, tt.category)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(list) != tt.want {
				t.Fatalf("want=%d got=%d", tt.want, len(list))
			}
		})
	}

	_, err := th.service.List(ctx, th.user.ID, "aptitude")
	wantKind(t, err, util.KindValidation)
}

func TestTestServiceGetResultReadsThrough(t *testing.T) {
	th := newTestHarness(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		got, err := th.service.GetResult(ctx, th.user.ID, th.result.Test.UUID)
		if err != nil {
			t.Fatalf("get result: %v", err)
		}
		vr, ok := got.Result.(*model.ValueResult)
		if !ok {
			t.Fatalf("result type: got %T", got.Result)
		}
		if vr.TopValues[0].Name != "A" || got.Test.AssessmentType != "Value" {
			t.Fatalf("result: got %+v", got)
		}
	}
	if th.cache.gets != 2 || th.cache.hits != 1 {
		t.Fatalf("cache: want 2 gets and 1 hit, got gets=%d hits=%d", th.cache.gets, th.cache.hits)
	}

	other := testutil.SeedUser(t, th.db, "other@example.com")
	_, err := th.service.GetResult(ctx, other.ID, th.result.Test.UUID)
	wantKind(t, err, util.KindNotFound)

	open := testutil.SeedTest(t, th.db, th.user.ID, model.CategoryValue, "Test 2")
	_, err = th.service.GetResult(ctx, th.user.ID, open.UUID)
	wantKind(t, err, util.KindNotFound)
}

func TestTestServiceDelete(t *testing.T) {
	th := newTestHarness(t)
	ctx := context.Background()
	uuid := th.result.Test.UUID

	if _, err := th.service.GetResult(ctx, th.user.ID, uuid); err != nil {
		t.Fatalf("get result: %v", err)
	}
	if err := th.service.Delete(ctx, th.user.ID, uuid); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(th.cache.data) != 0 {
		t.Fatalf("cache must be evicted")
	}
	_, err := th.service.GetResult(ctx, th.user.ID, uuid)
	wantKind(t, err, util.KindNotFound)
	if n := th.count(t, &model.Response{}, "test_id = ? AND is_deleted = ?", th.result.Test.ID, false); n != 0 {
		t.Fatalf("responses: want=0 live got=%d", n)
	}
	wantKind(t, th.service.Delete(ctx, th.user.ID, uuid), util.KindNotFound)
}

func TestTestServiceExport(t *testing.T) {
	th := newTestHarness(t)
	uuid := th.result.Test.UUID

	file, err := th.service.Export(context.Background(), th.user.ID, uuid, true)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	wantURL := fmt.Sprintf("/uploads/exports/%d/%s.xlsx", th.user.ID, uuid)
	if file.URL != wantURL {
		t.Fatalf("url: want=%s got=%s", wantURL, file.URL)
	}
	if _, err := os.Stat(filepath.Join(th.root, "exports", fmt.Sprint(th.user.ID), uuid+".xlsx")); err != nil {
		t.Fatalf("uploaded file: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(file.Data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	scores, err := f.GetRows(sheetScores)
	if err != nil {
		t.Fatalf("scores sheet: %v", err)
	}
	if len(scores) != 3 || scores[0][0] != "Dimension" || scores[1][0] != "A" || scores[1][2] != "10" {
		t.Fatalf("scores rows: got %v", scores)
	}
	careers, err := f.GetRows(sheetCareers)
	if err != nil {
		t.Fatalf("careers sheet: %v", err)
	}
	if len(careers) != 2 || careers[1][0] != "Architect" || careers[1][2] != "Design" {
		t.Fatalf("careers rows: got %v", careers)
	}
}
