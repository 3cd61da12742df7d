package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `
cache:
  backend: memory
  max_size: 500
  sweep_interval: 5
engine:
  similar:
    limit: 20
    min_similarity: 0.4
    ttl: 1800
  personalized:
    affinity_threshold: 0.25
    ttl: 900
  trending:
    window_days: 14
    min_interactions: 3
    ttl: 600
  max_concurrent: 4
  max_per_category: 2
  candidate_limit: 500
scorer:
  embedding: 0.7
  category: 0.15
  author: 0.1
  tags: 0.05
profile:
  decay_factor: 0.2
filters:
  blocked_ids: [banned1, banned2]
  exclude_categories: [Textbook]
  exclude_rules:
    - item.price > 200.0
`

func writeTempConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFromYAML(t *testing.T) {
	cfg, err := LoadFromYAML(writeTempConfig(t, "rec.yaml", sampleYAML))
	if err != nil {
		t.Fatalf("LoadFromYAML: %v", err)
	}

	if cfg.Cache.Backend != "memory" || cfg.Cache.MaxSize != 500 {
		t.Errorf("cache config mismatch: %+v", cfg.Cache)
	}
	if cfg.Engine.Similar.Limit != 20 || cfg.Engine.Similar.MinSimilarity != 0.4 {
		t.Errorf("similar config mismatch: %+v", cfg.Engine.Similar)
	}
	if cfg.Engine.Trending.WindowDays != 14 || cfg.Engine.Trending.MinInteractions != 3 {
		t.Errorf("trending config mismatch: %+v", cfg.Engine.Trending)
	}
	if cfg.Scorer.Embedding != 0.7 {
		t.Errorf("scorer config mismatch: %+v", cfg.Scorer)
	}
	if cfg.Profile.DecayFactor != 0.2 {
		t.Errorf("profile config mismatch: %+v", cfg.Profile)
	}
	if len(cfg.Filters.BlockedIDs) != 2 || len(cfg.Filters.ExcludeRules) != 1 {
		t.Errorf("filters config mismatch: %+v", cfg.Filters)
	}
}

func TestLoadFromJSON(t *testing.T) {
	cfg, err := LoadFromJSON(writeTempConfig(t, "rec.json",
		`{"cache":{"backend":"none"},"engine":{"max_concurrent":2}}`))
	if err != nil {
		t.Fatalf("LoadFromJSON: %v", err)
	}
	if cfg.Cache.Backend != "none" || cfg.Engine.MaxConcurrent != 2 {
		t.Errorf("json config mismatch: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"empty config", func(c *Config) {}, false},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }, true},
		{"redis without addr", func(c *Config) { c.Cache.Backend = "redis" }, true},
		{"redis with addr", func(c *Config) {
			c.Cache.Backend = "redis"
			c.Cache.Addr = "localhost:6379"
		}, false},
		{"similarity out of range", func(c *Config) { c.Engine.Similar.MinSimilarity = 1.5 }, true},
		{"negative weight", func(c *Config) { c.Scorer.Category = -0.1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuildFilters(t *testing.T) {
	var cfg Config
	cfg.Filters.BlockedIDs = []string{"x"}
	cfg.Filters.ExcludeCategories = []string{"Textbook"}
	cfg.Filters.ExcludeRules = []string{"item.price > 100.0"}

	filters, err := cfg.BuildFilters()
	if err != nil {
		t.Fatalf("BuildFilters: %v", err)
	}
	if len(filters) != 3 {
		t.Errorf("expected 3 filters, got %d", len(filters))
	}

	cfg.Filters.ExcludeRules = []string{"item.price >"}
	if _, err := cfg.BuildFilters(); err == nil {
		t.Error("expected compile error for malformed rule")
	}
}

func TestBuildCacheNone(t *testing.T) {
	var cfg Config
	cfg.Cache.Backend = "none"
	mgr, err := cfg.BuildCache(nil)
	if err != nil {
		t.Fatalf("BuildCache: %v", err)
	}
	if mgr != nil {
		t.Error("backend none should yield a nil manager")
	}
}

func TestBuildCacheMemory(t *testing.T) {
	var cfg Config
	cfg.Cache.MaxSize = 10
	mgr, err := cfg.BuildCache(nil)
	if err != nil {
		t.Fatalf("BuildCache: %v", err)
	}
	if mgr == nil {
		t.Fatal("expected a manager for the default backend")
	}
	defer mgr.Close()
	if mgr.Backend().Name() != "memory" {
		t.Errorf("backend = %q, want memory", mgr.Backend().Name())
	}
}
