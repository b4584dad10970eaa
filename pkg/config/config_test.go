package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sdejongh/dircompare/pkg/compare"
	"github.com/sdejongh/dircompare/pkg/models"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"UnknownMethod", func(c *Config) { c.Compare.Method = "md5" }, "compare.method"},
		{"BadSampling", func(c *Config) { c.Compare.Sampling.Count = 1 }, "sampling.count"},
		{"HugeSamplingBlock", func(c *Config) { c.Compare.Sampling.BlockSize = 1 << 62 }, "sampling.block_size"},
		{"NoWorkers", func(c *Config) { c.Performance.Workers = 0 }, "performance.workers"},
		{"SmallBuffer", func(c *Config) { c.Performance.BufferSize = 10 }, "performance.buffer_size"},
		{"OutputFormat", func(c *Config) { c.Output.Format = "html" }, "output.format"},
		{"LogFormat", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"LogLevel", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			var verr *models.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %s, want %s", verr.Field, tt.field)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Compare.Method = "sampled"
	cfg.Compare.Verify = true
	cfg.Compare.Flat = true
	cfg.Performance.Workers = 8
	cfg.Output.Format = "json"
	cfg.Exclude = []string{"*.tmp", ".git/"}

	if err := SaveToFile(cfg, path); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, loaded) {
		t.Errorf("loaded config differs:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("compare:\n  method: size\nexclude:\n  - node_modules/\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if cfg.Compare.Method != "size" {
		t.Errorf("Method = %s, want size", cfg.Compare.Method)
	}
	if cfg.Performance.Workers != Default().Performance.Workers {
		t.Errorf("Workers = %d, want default", cfg.Performance.Workers)
	}
	if cfg.Compare.Sampling != Default().Compare.Sampling {
		t.Errorf("Sampling = %+v, want default", cfg.Compare.Sampling)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("compare:\n  method: bogus\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(path); !errors.Is(err, models.ErrInvalidStrategy) {
		t.Errorf("expected ErrInvalidStrategy, got %v", err)
	}
}

func TestStrategy(t *testing.T) {
	cfg := Default()
	cfg.Compare.Method = "sampled-hash"
	cfg.Compare.CaseInsensitive = true
	cfg.Compare.Verify = true

	s, err := cfg.Strategy()
	if err != nil {
		t.Fatalf("Strategy failed: %v", err)
	}
	want := compare.Strategy{Kind: compare.FilenameAndSampledHash, CaseInsensitive: true, VerifyOnMatch: true}
	if s != want {
		t.Errorf("Strategy() = %+v, want %+v", s, want)
	}

	opts := cfg.FlatOptions()
	if opts.Workers != cfg.Performance.Workers || opts.FullHash {
		t.Errorf("unexpected flat options %+v", opts)
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	if _, err := Parse([]byte("compare:\n  metod: size\n")); err == nil {
		t.Error("expected error for misspelled key")
	}
}

func TestParseEmptyIsDefault(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Compare.Method != Default().Compare.Method {
		t.Errorf("Method = %s, want default", cfg.Compare.Method)
	}
}

func TestLoadDefaultFromEnv(t *testing.T) {
	t.Run("missing file gives defaults", func(t *testing.T) {
		t.Setenv(EnvConfigPath, filepath.Join(t.TempDir(), "absent.yaml"))
		cfg, err := LoadDefault()
		if err != nil {
			t.Fatalf("LoadDefault failed: %v", err)
		}
		if cfg.Output.Format != "text" {
			t.Errorf("Format = %s, want text", cfg.Output.Format)
		}
	})

	t.Run("file is loaded", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("output:\n  format: json\n"), 0644); err != nil {
			t.Fatal(err)
		}
		t.Setenv(EnvConfigPath, path)
		cfg, err := LoadDefault()
		if err != nil {
			t.Fatalf("LoadDefault failed: %v", err)
		}
		if cfg.Output.Format != "json" {
			t.Errorf("Format = %s, want json", cfg.Output.Format)
		}
	})
}
