// Package config 提供 YAML/JSON 配置加载与组件装配：
// 缓存后端选择、过滤规则、引擎参数。
package config

import (
	"fmt"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Config 是推荐服务的完整配置结构（支持 YAML/JSON）。
// 零值字段使用引擎默认值。
type Config struct {
	Cache   CacheConfig   `yaml:"cache" json:"cache"`
	Engine  EngineConfig  `yaml:"engine" json:"engine"`
	Scorer  ScorerConfig  `yaml:"scorer" json:"scorer"`
	Profile ProfileConfig `yaml:"profile" json:"profile"`
	Filters FilterConfig  `yaml:"filters" json:"filters"`
}

// CacheConfig 选择并配置结果缓存后端。
type CacheConfig struct {
	// Backend 可选 memory / redis / none，空值等同 memory
	Backend string `yaml:"backend" json:"backend"`

	// Addr / DB / Prefix 仅 redis 后端生效
	Addr   string `yaml:"addr" json:"addr"`
	DB     int    `yaml:"db" json:"db"`
	Prefix string `yaml:"prefix" json:"prefix"`

	// MaxSize / SweepInterval 仅 memory 后端生效，SweepInterval 单位秒
	MaxSize       int `yaml:"max_size" json:"max_size"`
	SweepInterval int `yaml:"sweep_interval" json:"sweep_interval"`
}

// EngineConfig 是引擎编排参数。TTL 单位秒。
type EngineConfig struct {
	Similar struct {
		Limit         int     `yaml:"limit" json:"limit"`
		MinSimilarity float64 `yaml:"min_similarity" json:"min_similarity"`
		TTL           int     `yaml:"ttl" json:"ttl"`
	} `yaml:"similar" json:"similar"`

	Personalized struct {
		Limit             int     `yaml:"limit" json:"limit"`
		AffinityThreshold float64 `yaml:"affinity_threshold" json:"affinity_threshold"`
		TTL               int     `yaml:"ttl" json:"ttl"`
	} `yaml:"personalized" json:"personalized"`

	Trending struct {
		Limit           int `yaml:"limit" json:"limit"`
		WindowDays      int `yaml:"window_days" json:"window_days"`
		MinInteractions int `yaml:"min_interactions" json:"min_interactions"`
		TTL             int `yaml:"ttl" json:"ttl"`
	} `yaml:"trending" json:"trending"`

	MaxConcurrent  int `yaml:"max_concurrent" json:"max_concurrent"`
	MaxPerCategory int `yaml:"max_per_category" json:"max_per_category"`
	CandidateLimit int `yaml:"candidate_limit" json:"candidate_limit"`
}

// ScorerConfig 覆盖语义相似度各维度权重。全零时使用默认权重。
type ScorerConfig struct {
	Embedding float64 `yaml:"embedding" json:"embedding"`
	Category  float64 `yaml:"category" json:"category"`
	Author    float64 `yaml:"author" json:"author"`
	Tags      float64 `yaml:"tags" json:"tags"`
}

// ProfileConfig 是用户画像构建参数。
type ProfileConfig struct {
	// DecayFactor 交互时间衰减因子（默认 0.1）
	DecayFactor float64 `yaml:"decay_factor" json:"decay_factor"`
}

// FilterConfig 是候选过滤配置。
type FilterConfig struct {
	// BlockedIDs 全局物品黑名单
	BlockedIDs []string `yaml:"blocked_ids" json:"blocked_ids"`

	// ExcludeCategories 全局排除类目（大小写不敏感）
	ExcludeCategories []string `yaml:"exclude_categories" json:"exclude_categories"`

	// ExcludeRules 是 CEL 表达式列表，对 item 求值为 true 即排除，
	// 例如 item.price > 100.0 或 item.category == 'Textbook'
	ExcludeRules []string `yaml:"exclude_rules" json:"exclude_rules"`
}

// LoadFromYAML 从 YAML 文件加载配置。
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromJSON 从 JSON 文件加载配置。
func LoadFromJSON(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 检查配置的静态约束。
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "", "memory", "redis", "none":
	default:
		return fmt.Errorf("unknown cache backend: %q (supported: memory, redis, none)", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.Addr == "" {
		return fmt.Errorf("cache backend redis requires addr")
	}
	if c.Engine.Similar.MinSimilarity < 0 || c.Engine.Similar.MinSimilarity > 1 {
		return fmt.Errorf("similar.min_similarity must be within [0,1]")
	}
	if w := c.Scorer; w.Embedding < 0 || w.Category < 0 || w.Author < 0 || w.Tags < 0 {
		return fmt.Errorf("scorer weights must be non-negative")
	}
	return nil
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
