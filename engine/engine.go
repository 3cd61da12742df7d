// Package engine 实现推荐编排：三种策略（相似/个性化/热门）、
// 用户画像聚合、候选检索与缓存协调。
//
// 引擎每次调用无状态，完全由缓存 + 目录存储驱动：
// 策略调用 → 缓存查找 → miss 时拉候选 → 补全向量 → 打分 → 多样性重排
// → 回写缓存 → 返回。请求之间不共享可变状态（缓存后端与统计计数除外）。
package engine

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/bookrec/cache"
	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/filter"
	"github.com/rushteam/bookrec/rerank"
	"github.com/rushteam/bookrec/similarity"
)

// 引擎默认参数。
const (
	DefaultLimit             = 10
	DefaultMinSimilarity     = 0.3
	DefaultAffinityThreshold = 0.2
	DefaultCandidateLimit    = 1000
	DefaultMaxConcurrent     = 8
	DefaultEmbedChunkSize    = 32
	DefaultDecayFactor       = 0.1
	DefaultWindowDays        = 30
	DefaultMinInteractions   = 5

	DefaultSimilarTTL      = time.Hour
	DefaultPersonalizedTTL = 30 * time.Minute
	DefaultTrendingTTL     = 30 * time.Minute
)

// Engine 是推荐引擎。通过 New 创建，依赖以接口注入。
type Engine struct {
	catalog    core.CatalogStore
	embedder   core.Embedder
	normalizer core.TextNormalizer
	cache      *cache.Manager
	filters    []filter.Filter
	stats      *Stats
	logger     *slog.Logger
	weights    similarity.Weights

	candidateLimit    int
	maxConcurrent     int
	maxPerCategory    int
	embedChunkSize    int
	decayFactor       float64
	affinityThreshold float64
	similarTTL        time.Duration
	personalizedTTL   time.Duration
	trendingTTL       time.Duration
}

// Option 配置 Engine 的可选项。
type Option func(*Engine)

// WithCache 注入结果缓存。不注入时引擎以无缓存模式运行（每次重算）。
func WithCache(c *cache.Manager) Option {
	return func(e *Engine) { e.cache = c }
}

// WithNormalizer 注入文本归一化器。不注入时退化为空白折叠。
func WithNormalizer(n core.TextNormalizer) Option {
	return func(e *Engine) { e.normalizer = n }
}

// WithFilters 注入候选过滤器链（黑名单、类目排除、CEL 规则）。
func WithFilters(filters ...filter.Filter) Option {
	return func(e *Engine) { e.filters = append(e.filters, filters...) }
}

// WithStats 注入外部持有的统计对象。
func WithStats(stats *Stats) Option {
	return func(e *Engine) {
		if stats != nil {
			e.stats = stats
		}
	}
}

// WithLogger 注入日志器。
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithWeights 覆盖语义相似度权重。
func WithWeights(w similarity.Weights) Option {
	return func(e *Engine) { e.weights = w }
}

// WithCandidateLimit 覆盖候选集上限（默认 1000）。
func WithCandidateLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.candidateLimit = n
		}
	}
}

// WithMaxConcurrent 覆盖打分并发上限（默认 8）。
func WithMaxConcurrent(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxConcurrent = n
		}
	}
}

// WithMaxPerCategory 覆盖多样性重排的单类目上限（默认 3）。
func WithMaxPerCategory(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxPerCategory = n
		}
	}
}

// WithDecayFactor 覆盖画像时间衰减因子（默认 0.1）。
func WithDecayFactor(f float64) Option {
	return func(e *Engine) {
		if f > 0 {
			e.decayFactor = f
		}
	}
}

// WithAffinityThreshold 覆盖个性化推荐的亲和度门槛（默认 0.2）。
func WithAffinityThreshold(f float64) Option {
	return func(e *Engine) { e.affinityThreshold = f }
}

// WithTTLs 覆盖三种策略的缓存 TTL。零值保持默认。
func WithTTLs(similar, personalized, trending time.Duration) Option {
	return func(e *Engine) {
		if similar > 0 {
			e.similarTTL = similar
		}
		if personalized > 0 {
			e.personalizedTTL = personalized
		}
		if trending > 0 {
			e.trendingTTL = trending
		}
	}
}

// New 创建推荐引擎。catalog 与 embedder 是必要依赖。
func New(catalog core.CatalogStore, embedder core.Embedder, opts ...Option) *Engine {
	e := &Engine{
		catalog:  catalog,
		embedder: embedder,
		stats:    &Stats{},
		logger:   slog.Default(),
		weights:  similarity.DefaultWeights(),

		candidateLimit:    DefaultCandidateLimit,
		maxConcurrent:     DefaultMaxConcurrent,
		maxPerCategory:    rerank.DefaultMaxPerCategory,
		embedChunkSize:    DefaultEmbedChunkSize,
		decayFactor:       DefaultDecayFactor,
		affinityThreshold: DefaultAffinityThreshold,
		similarTTL:        DefaultSimilarTTL,
		personalizedTTL:   DefaultPersonalizedTTL,
		trendingTTL:       DefaultTrendingTTL,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Stats 返回引擎统计对象。
func (e *Engine) Stats() *Stats { return e.stats }

// cacheGet / cacheSet 统一处理"未配置缓存"的情况。
func (e *Engine) cacheGet(ctx context.Context, key string, out any) bool {
	if e.cache == nil {
		return false
	}
	return e.cache.Get(ctx, key, out)
}

func (e *Engine) cacheSet(ctx context.Context, key string, value any, ttl time.Duration) {
	if e.cache == nil {
		return
	}
	e.cache.Set(ctx, key, value, ttl)
}

// bookEmbedding 按需补全物品向量：物品自带 → 存储已落库 → 现场生成并回写。
// 生成失败时返回错误，由调用方决定跳过该候选还是放弃整个请求。
func (e *Engine) bookEmbedding(ctx context.Context, book *core.Book) ([]float64, error) {
	if book.HasEmbedding() {
		return book.Embedding, nil
	}

	if vec, err := e.catalog.GetEmbedding(ctx, book.ID); err == nil && len(vec) > 0 {
		book.Embedding = vec
		return vec, nil
	}

	text, _ := e.normalize(bookText(book))
	vec, err := e.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	book.Embedding = vec

	// 回写存储是尽力而为：失败只影响下次命中，不影响本次结果
	if err := e.catalog.PutEmbedding(ctx, book.ID, vec, textHash(text)); err != nil {
		e.logger.Warn("store embedding failed", "book", book.ID, "err", err)
	}
	return vec, nil
}

// scoreCandidates 在受限并发池里对候选逐个打分。scoreFn 返回 nil 表示跳过
// （向量生成失败、低于门槛等）。一旦打分开始即运行到完成，不做取消传播；
// 调用方如需超时需在外层控制。
//
// 每个候选在打分前先做请求内快照：目录实现可能在请求间共享行指针，
// 延迟补全的向量只写在快照上，共享行保持只读。
func (e *Engine) scoreCandidates(candidates []*core.Book, scoreFn func(*core.Book) *core.ScoredBook) []*core.ScoredBook {
	var (
		mu  sync.Mutex
		out = make([]*core.ScoredBook, 0, len(candidates))
		eg  errgroup.Group
	)
	sem := make(chan struct{}, e.maxConcurrent)

	for _, c := range candidates {
		c := snapshot(c)
		eg.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()

			sb := scoreFn(c)
			if sb == nil {
				return nil
			}
			mu.Lock()
			out = append(out, sb)
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()
	return out
}

// snapshot 返回物品的请求内浅拷贝。Tags/Meta 等引用字段在请求内只读，
// 可与原行共享底层数组。
func snapshot(b *core.Book) *core.Book {
	if b == nil {
		return nil
	}
	copied := *b
	return &copied
}

// normalize 走注入的归一化器；未注入时折叠空白。
func (e *Engine) normalize(raw string) (string, string) {
	if e.normalizer != nil {
		return e.normalizer.Normalize(raw)
	}
	return strings.Join(strings.Fields(raw), " "), ""
}

// bookText 把物品字段拼成用于向量生成的描述文本。
func bookText(b *core.Book) string {
	parts := make([]string, 0, 5)
	if b.Title != "" {
		parts = append(parts, "Title: "+b.Title)
	}
	if b.Author != "" {
		parts = append(parts, "Author: "+b.Author)
	}
	if b.Description != "" {
		parts = append(parts, "Description: "+b.Description)
	}
	if b.Category != "" {
		parts = append(parts, "Category: "+b.Category)
	}
	if len(b.Tags) > 0 {
		parts = append(parts, "Tags: "+strings.Join(b.Tags, ", "))
	}
	return strings.Join(parts, ". ")
}

// textHash 计算向量源文本的指纹，回写存储时用于失效判断。
func textHash(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}
