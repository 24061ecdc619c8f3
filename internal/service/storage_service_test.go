package service

import (
	"career_compass_backend/internal/config"
	"career_compass_backend/internal/model"
	"career_compass_backend/internal/scoring"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStorageProvider(t *testing.T) {
	root := t.TempDir()
	p := &LocalStorageProvider{Root: root}
	ctx := context.Background()

	tests := []struct {
		name    string
		key     string
		onDisk  string
		wantURL string
	}{
		{name: "nested", key: "exports/1/a.xlsx", onDisk: "exports/1/a.xlsx", wantURL: "/uploads/exports/1/a.xlsx"},
		{name: "escaping", key: "../../etc/b.xlsx", onDisk: "etc/b.xlsx", wantURL: "/uploads/etc/b.xlsx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, err := p.Upload(ctx, tt.key, strings.NewReader("payload"), 7, "text/plain")
			if err != nil {
				t.Fatalf("upload: %v", err)
			}
			if url != tt.wantURL {
				t.Fatalf("url: want=%s got=%s", tt.wantURL, url)
			}
			if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(tt.onDisk))); err != nil {
				t.Fatalf("stat: %v", err)
			}

			rc, err := p.Open(ctx, tt.key)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			data, _ := io.ReadAll(rc)
			rc.Close()
			if string(data) != "payload" {
				t.Fatalf("content: got %q", data)
			}

			if err := p.Delete(ctx, tt.key); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, err := p.Open(ctx, tt.key); !os.IsNotExist(err) {
				t.Fatalf("want not exist after delete, got %v", err)
			}
		})
	}
}

func TestArtifactStoreFeedsRegistry(t *testing.T) {
	dir := t.TempDir()
	bundle := `{
  "category": "Value",
  "features": ["q1"],
  "answer_scale": {"min": 1, "max": 5},
  "outputs": [{"name": "Autonomy Score", "kind": "linear", "weights": [2], "intercept": 1}]
}`
	if err := os.MkdirAll(filepath.Join(dir, "v1"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "v1", "value.json"), []byte(bundle), 0644); err != nil {
		t.Fatalf("write bundle: %v", err)
	}

	cfg := &config.Config{Models: config.ModelsConfig{Store: "local", Dir: dir, Prefix: "v1"}}
	store, err := NewArtifactStore(cfg)
	if err != nil {
		t.Fatalf("artifact store: %v", err)
	}
	reg := scoring.NewRegistry(store, func(c model.Category) string { return cfg.Models.ModelFile(c.Slug()) })

	b, err := reg.Load(context.Background(), model.CategoryValue)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	preds, err := b.Predict(map[string]float64{"q1": 3})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if len(preds) != 1 || preds[0].Value != 7 {
		t.Fatalf("predictions: got %+v", preds)
	}
}
