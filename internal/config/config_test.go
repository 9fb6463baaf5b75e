package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Placeholder != DefaultPlaceholder {
		t.Errorf("Placeholder = %q, want %q", cfg.Placeholder, DefaultPlaceholder)
	}
	if cfg.ChunkSize != 0 {
		t.Errorf("ChunkSize = %d, want 0 (auto)", cfg.ChunkSize)
	}
	if cfg.Concurrency != 0 {
		t.Errorf("Concurrency = %d, want 0 (auto)", cfg.Concurrency)
	}
}

func TestLoadFromFile(t *testing.T) {
	content := `
bucket: s3://my-bucket?region=us-east-1
object: models/weights.bin
placeholder: "{{file}}"
chunk_size: 64MB
concurrency: 8
progress: true
`
	path := filepath.Join(t.TempDir(), "memrun.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	if cfg.Bucket != "s3://my-bucket?region=us-east-1" {
		t.Errorf("Bucket = %q", cfg.Bucket)
	}
	if cfg.Object != "models/weights.bin" {
		t.Errorf("Object = %q", cfg.Object)
	}
	if cfg.Placeholder != "{{file}}" {
		t.Errorf("Placeholder = %q", cfg.Placeholder)
	}
	if cfg.ChunkSize != 64*1024*1024 {
		t.Errorf("ChunkSize = %d, want %d", cfg.ChunkSize, 64*1024*1024)
	}
	if cfg.Concurrency != 8 {
		t.Errorf("Concurrency = %d, want 8", cfg.Concurrency)
	}
	if !cfg.Progress {
		t.Error("Progress = false, want true")
	}
}

func TestLoadFromFilePartial(t *testing.T) {
	content := `
bucket: gs://bucket
object: obj
`
	path := filepath.Join(t.TempDir(), "memrun.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	// Unset fields keep their defaults.
	if cfg.Placeholder != DefaultPlaceholder {
		t.Errorf("Placeholder = %q, want default", cfg.Placeholder)
	}
	if cfg.ChunkSize != 0 {
		t.Errorf("ChunkSize = %d, want 0", cfg.ChunkSize)
	}
}

func TestLoadFromFileBadChunkSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memrun.yaml")
	if err := os.WriteFile(path, []byte("chunk_size: wat\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected error for invalid chunk_size")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile("/does/not/exist.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MEMRUN_BUCKET", "s3://env-bucket")
	t.Setenv("MEMRUN_OBJECT", "env-object")
	t.Setenv("MEMRUN_PLACEHOLDER", "{{env}}")
	t.Setenv("MEMRUN_CHUNK_SIZE", "16MB")
	t.Setenv("MEMRUN_CONCURRENCY", "6")
	t.Setenv("MEMRUN_PROGRESS", "1")

	cfg := Default()
	if err := cfg.LoadFromEnv(); err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}

	if cfg.Bucket != "s3://env-bucket" {
		t.Errorf("Bucket = %q", cfg.Bucket)
	}
	if cfg.Object != "env-object" {
		t.Errorf("Object = %q", cfg.Object)
	}
	if cfg.Placeholder != "{{env}}" {
		t.Errorf("Placeholder = %q", cfg.Placeholder)
	}
	if cfg.ChunkSize != 16*1024*1024 {
		t.Errorf("ChunkSize = %d", cfg.ChunkSize)
	}
	if cfg.Concurrency != 6 {
		t.Errorf("Concurrency = %d", cfg.Concurrency)
	}
	if !cfg.Progress {
		t.Error("Progress = false, want true")
	}
}

func TestLoadFromEnvBadConcurrency(t *testing.T) {
	t.Setenv("MEMRUN_CONCURRENCY", "lots")

	cfg := Default()
	if err := cfg.LoadFromEnv(); err == nil {
		t.Error("expected error for invalid MEMRUN_CONCURRENCY")
	}
}

func TestValidate(t *testing.T) {
	valid := Config{Bucket: "s3://b", Object: "o", Placeholder: "{{memfd}}"}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate(valid) = %v", err)
	}

	cases := []struct {
		name string
		cfg  Config
	}{
		{"missing bucket", Config{Object: "o", Placeholder: "x"}},
		{"missing object", Config{Bucket: "b", Placeholder: "x"}},
		{"empty placeholder", Config{Bucket: "b", Object: "o"}},
		{"negative chunk size", Config{Bucket: "b", Object: "o", Placeholder: "x", ChunkSize: -1}},
		{"negative concurrency", Config{Bucket: "b", Object: "o", Placeholder: "x", Concurrency: -1}},
	}
	for _, c := range cases {
		if err := c.cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", c.name)
		}
	}
}

func TestMerge(t *testing.T) {
	base := Config{
		Bucket:      "s3://base",
		Object:      "base-object",
		Placeholder: DefaultPlaceholder,
		Concurrency: 4,
	}

	merged := base.Merge(Config{Object: "override", ChunkSize: 1024})

	if merged.Bucket != "s3://base" {
		t.Errorf("Bucket = %q, want base value", merged.Bucket)
	}
	if merged.Object != "override" {
		t.Errorf("Object = %q, want override", merged.Object)
	}
	if merged.ChunkSize != 1024 {
		t.Errorf("ChunkSize = %d, want 1024", merged.ChunkSize)
	}
	if merged.Concurrency != 4 {
		t.Errorf("Concurrency = %d, want base value 4", merged.Concurrency)
	}
}
