package service

import (
	"career_compass_backend/internal/model"
	"career_compass_backend/internal/repository/testutil"
	"career_compass_backend/internal/util"
	"context"
	"encoding/json"
	"testing"
)

func newDraftHarness(t *testing.T) (*harness, *DraftService) {
	t.Helper()
	h := newHarness(t, identityBundle(model.CategoryValue, "A Score", "B Score"))
	for _, n := range []string{"A", "B"} {
		testutil.SeedDimension(t, h.db, model.CategoryValue, n, nil)
		testutil.SeedValueCategory(t, h.db, n)
	}
	return h, NewDraftService(h.db, h.catalog, h.tests, h.responses, h.assessments)
}

func patch(t *testing.T, fields map[string]interface{}) map[string]json.RawMessage {
	t.Helper()
	out := make(map[string]json.RawMessage, len(fields))
	for k, v := range fields {
		raw, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal %s: %v", k, err)
		}
		out[k] = raw
	}
	return out
}

func TestDraftLifecycle(t *testing.T) {
	h, drafts := newDraftHarness(t)
	ctx := context.Background()

	d, err := drafts.Create(ctx, h.user.ID, CreateDraftRequest{Category: "value", Answers: map[string]interface{}{"q1": 4}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if d.TestName != "Test 1" || d.AssessmentType != "Value" || d.IsCompleted {
		t.Fatalf("created draft: got %+v", d)
	}

	d, err = drafts.Update(ctx, h.user.ID, d.UUID, patch(t, map[string]interface{}{"answers_merge": map[string]interface{}{"q2": 6}}))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(d.Answers) != 2 || d.Answers["q1"] != float64(4) || d.Answers["q2"] != float64(6) {
		t.Fatalf("merged answers: got %v", d.Answers)
	}

	got, err := drafts.Get(ctx, h.user.ID, d.UUID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Answers) != 2 {
		t.Fatalf("stored answers: got %v", got.Answers)
	}

	list, err := drafts.List(ctx, h.user.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].UUID != d.UUID {
		t.Fatalf("list: got %+v", list)
	}

	res, err := drafts.Submit(ctx, h.user.ID, d.UUID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Test.UUID != d.TestUUID || !res.Test.IsCompleted {
		t.Fatalf("submitted test: got %+v", res.Test)
	}

	got, err = drafts.Get(ctx, h.user.ID, d.UUID)
	if err != nil {
		t.Fatalf("get after submit: %v", err)
	}
	if !got.IsCompleted {
		t.Fatalf("draft must be completed after submit")
	}

	_, err = drafts.Submit(ctx, h.user.ID, d.UUID)
	wantKind(t, err, util.KindValidation)
	_, err = drafts.Update(ctx, h.user.ID, d.UUID, patch(t, map[string]interface{}{"answers": map[string]interface{}{"q1": 1}}))
	wantKind(t, err, util.KindValidation)
}

func TestDraftUpdateRejects(t *testing.T) {
	h, drafts := newDraftHarness(t)
	ctx := context.Background()
	d, err := drafts.Create(ctx, h.user.ID, CreateDraftRequest{Category: "Value"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	tests := []struct {
		name  string
		patch map[string]interface{}
	}{
		{name: "empty", patch: map[string]interface{}{}},
		{name: "unknown field", patch: map[string]interface{}{"is_completed": true}},
		{name: "not numeric", patch: map[string]interface{}{"answers": map[string]interface{}{"q1": "x"}}},
		{name: "not an object", patch: map[string]interface{}{"answers": []int{1, 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := drafts.Update(ctx, h.user.ID, d.UUID, patch(t, tt.patch))
			wantKind(t, err, util.KindValidation)
		})
	}
}

func TestDraftOwnershipAndDelete(t *testing.T) {
	h, drafts := newDraftHarness(t)
	ctx := context.Background()
	other := testutil.SeedUser(t, h.db, "other@example.com")

	d, err := drafts.Create(ctx, h.user.ID, CreateDraftRequest{Category: "value", Answers: map[string]interface{}{"q1": 2}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = drafts.Get(ctx, other.ID, d.UUID)
	wantKind(t, err, util.KindNotFound)
	wantKind(t, drafts.Delete(ctx, other.ID, d.UUID), util.KindNotFound)

	if err := drafts.Delete(ctx, h.user.ID, d.UUID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err = drafts.Get(ctx, h.user.ID, d.UUID)
	wantKind(t, err, util.KindNotFound)
	if n := h.count(t, &model.Test{}, "uuid = ? AND is_deleted = ?", d.TestUUID, true); n != 1 {
		t.Fatalf("the unfinished test must be soft-deleted")
	}
}

func TestDraftCreateUnknownCategory(t *testing.T) {
	h, drafts := newDraftHarness(t)
	_, err := drafts.Create(context.Background(), h.user.ID, CreateDraftRequest{Category: "aptitude"})
	wantKind(t, err, util.KindValidation)
}

func TestDraftUpdateNullAnswers(t *testing.T) {
	h, drafts := newDraftHarness(t)
	ctx := context.Background()

	d, err := drafts.Create(ctx, h.user.ID, CreateDraftRequest{Category: "value", Answers: map[string]interface{}{"q1": 4}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	tests := []struct {
		name  string
		patch map[string]json.RawMessage
	}{
		{"replace with null", map[string]json.RawMessage{"answers": json.RawMessage("null")}},
		{"merge null", map[string]json.RawMessage{"answers_merge": json.RawMessage("null")}},
		{"null then merge", map[string]json.RawMessage{
			"answers":       json.RawMessage("null"),
			"answers_merge": json.RawMessage(`{"q2": 6}`),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := drafts.Update(ctx, h.user.ID, d.UUID, tt.patch)
			wantKind(t, err, util.KindValidation)
		})
	}

	got, err := drafts.Get(ctx, h.user.ID, d.UUID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Answers) != 1 || got.Answers["q1"] != float64(4) {
		t.Fatalf("answers after rejected updates: got %v", got.Answers)
	}
}

func TestDraftMergeOntoStoredNull(t *testing.T) {
	h, drafts := newDraftHarness(t)
	ctx := context.Background()

	d, err := drafts.Create(ctx, h.user.ID, CreateDraftRequest{Category: "value"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := h.db.Model(&model.Response{}).Where("uuid = ?", d.UUID).
		Update("response_data", "null").Error; err != nil {
		t.Fatalf("store null: %v", err)
	}

	got, err := drafts.Update(ctx, h.user.ID, d.UUID, patch(t, map[string]interface{}{"answers_merge": map[string]interface{}{"q2": 6}}))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(got.Answers) != 1 || got.Answers["q2"] != float64(6) {
		t.Fatalf("merged answers: got %v", got.Answers)
	}
}
