package scoring

import (
	"career_compass_backend/internal/model"
	"career_compass_backend/internal/util"
	"context"
	"io"
	"sync"
	"sync/atomic"
	"testing"
)

const interestBundleJSON = `{
  "category": "Interest",
  "version": "2024.1",
  "features": ["q1", "q2"],
  "answer_scale": {"min": 1, "max": 5},
  "outputs": [
    {"name": "R_Score", "kind": "linear", "weights": [1, 0], "intercept": 0},
    {"name": "I_Score", "kind": "linear", "features": ["q2"], "weights": [2], "intercept": 1}
  ]
}`

const skillBundleYAML = `
category: Skill
features: [q1]
answer_scale: {min: 1, max: 5}
outputs:
  - name: Communication
    kind: logistic
    classes: [Low, Strong]
    coefficients: [[-1], [1]]
    intercepts: [0, 0]
`

type countingStore struct {
	MemoryStore
	opens int32
}

func (s *countingStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	atomic.AddInt32(&s.opens, 1)
	return s.MemoryStore.Open(ctx, name)
}

func TestRegistryLoadsOnce(t *testing.T) {
	store := &countingStore{MemoryStore: MemoryStore{"interest.json": []byte(interestBundleJSON)}}
	reg := NewRegistry(store, nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := reg.Load(context.Background(), model.CategoryInterest); err != nil {
				t.Errorf("load: %v", err)
			}
		}()
	}
	wg.Wait()

	b1, _ := reg.Load(context.Background(), model.CategoryInterest)
	b2, _ := reg.Load(context.Background(), model.CategoryInterest)
	if b1 != b2 {
		t.Fatalf("want the cached bundle on every call")
	}
	if got := atomic.LoadInt32(&store.opens); got != 1 {
		t.Fatalf("opens: want=1 got=%d", got)
	}
}

func TestRegistryPredict(t *testing.T) {
	reg := NewRegistry(MemoryStore{"interest.json": []byte(interestBundleJSON)}, nil)
	b, err := reg.Load(context.Background(), model.CategoryInterest)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	preds, err := b.Predict(map[string]float64{"q1": 3, "q2": 4})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if preds[0].Name != "R_Score" || preds[0].Value != 3 {
		t.Fatalf("R_Score: got %+v", preds[0])
	}
	if preds[1].Name != "I_Score" || preds[1].Value != 9 {
		t.Fatalf("I_Score: got %+v", preds[1])
	}
}

func TestRegistryYAMLBundle(t *testing.T) {
	reg := NewRegistry(MemoryStore{"skills.yaml": []byte(skillBundleYAML)}, func(model.Category) string {
		return "skills.yaml"
	})
	b, err := reg.Load(context.Background(), model.CategorySkill)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	preds, err := b.Predict(map[string]float64{"q1": 5})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if preds[0].Label != "Strong" || preds[0].Probability <= 0.5 {
		t.Fatalf("want Strong with p>0.5, got %+v", preds[0])
	}
}

func TestRegistryModelUnavailable(t *testing.T) {
	cases := map[string]MemoryStore{
		"missing":        {},
		"undecodable":    {"interest.json": []byte("{not json")},
		"wrong weights":  {"interest.json": []byte(`{"features":["q1"],"answer_scale":{"min":1,"max":5},"outputs":[{"name":"R_Score","kind":"linear","weights":[1,2]}]}`)},
		"wrong category": {"interest.json": []byte(`{"category":"Value","features":["q1"],"answer_scale":{"min":1,"max":5},"outputs":[{"name":"A Score","kind":"linear","weights":[1]}]}`)},
	}
	for name, store := range cases {
		t.Run(name, func(t *testing.T) {
			reg := NewRegistry(store, nil)
			_, err := reg.Load(context.Background(), model.CategoryInterest)
			if !util.IsKind(err, util.KindModelUnavailable) {
				t.Fatalf("want model_unavailable, got %v", err)
			}
		})
	}
}

func TestPreloadStopsAtFirstFailure(t *testing.T) {
	reg := NewRegistry(MemoryStore{"interest.json": []byte(interestBundleJSON)}, nil)
	err := reg.Preload(context.Background(), model.CategoryInterest, model.CategoryValue)
	if !util.IsKind(err, util.KindModelUnavailable) {
		t.Fatalf("want model_unavailable, got %v", err)
	}
}

func TestBundleRow(t *testing.T) {
	b, err := DecodeBundle("interest.json", []byte(interestBundleJSON))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, err := b.Row(map[string]float64{"q1": 1, "q2": 5, "extra": 99}); err != nil {
		t.Fatalf("row: %v", err)
	}
	if _, err := b.Row(map[string]float64{"q1": 6, "q2": 1}); !util.IsKind(err, util.KindValidation) {
		t.Fatalf("out of range: want validation, got %v", err)
	}
	if _, err := b.Row(map[string]float64{"q1": 2}); !util.IsKind(err, util.KindValidation) {
		t.Fatalf("missing: want validation, got %v", err)
	}
}

func TestParseAnswers(t *testing.T) {
	got, err := ParseAnswers(map[string]interface{}{"q1": float64(4), "q2": "2"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got["q1"] != 4 || got["q2"] != 2 {
		t.Fatalf("got %v", got)
	}
	for name, raw := range map[string]map[string]interface{}{
		"empty":       {},
		"non-numeric": {"q1": "often"},
		"null":        {"q1": nil},
		"bool":        {"q1": true},
	} {
		if _, err := ParseAnswers(raw); !util.IsKind(err, util.KindValidation) {
			t.Fatalf("%s: want validation, got %v", name, err)
		}
	}
}
