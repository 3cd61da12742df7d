package core

import "context"

// CatalogStore 是目录存储的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层实现（Postgres/Supabase/内存等）
//   - 遵循依赖倒置原则：领域层定义接口，基础设施层实现接口
//   - 引擎不关心后端形态，只依赖此契约
//
// 使用场景：
//   - 相似推荐：目标物品加载 + 候选集检索
//   - 个性化推荐：交互历史 + 已购列表
//   - 热门推荐：窗口内购买/交互聚合
//   - 向量延迟补全：读写物品向量
type CatalogStore interface {
	// GetBook 按 ID 读取单个物品，不存在时返回 ErrBookNotFound
	GetBook(ctx context.Context, id string) (*Book, error)

	// ListCandidates 按查询条件读取候选物品集
	ListCandidates(ctx context.Context, q CandidateQuery) ([]*Book, error)

	// GetEmbedding 读取物品已落库的向量，不存在时返回 ErrEmbeddingNotFound
	GetEmbedding(ctx context.Context, bookID string) ([]float64, error)

	// PutEmbedding 回写物品向量（存储侧 upsert），textHash 用于失效判断
	PutEmbedding(ctx context.Context, bookID string, vector []float64, textHash string) error

	// GetInteractions 读取用户的全部交互历史（含联表物品快照）
	GetInteractions(ctx context.Context, userID string) ([]*Interaction, error)

	// GetPurchasedBookIDs 读取用户已购物品 ID 列表
	GetPurchasedBookIDs(ctx context.Context, userID string) ([]string, error)

	// GetTrending 读取窗口内购买+交互聚合，按热度降序
	GetTrending(ctx context.Context, windowDays, minInteractions, limit int) ([]*TrendingBook, error)
}

// CandidateQuery 是候选集检索条件。零值字段不生效。
type CandidateQuery struct {
	// ExcludeIDs 排除的物品 ID（目标物品自身、已购物品等）
	ExcludeIDs []string

	// ExcludeCategories 排除的类目（大小写不敏感）
	ExcludeCategories []string

	// Limit 候选集上限，<=0 时由实现决定默认值
	Limit int
}

// Catalog 错误定义（使用统一的 DomainError）
var (
	// ErrBookNotFound 表示物品不存在
	ErrBookNotFound = NewDomainError(ModuleCatalog, ErrorCodeNotFound, "catalog: book not found")

	// ErrEmbeddingNotFound 表示物品向量未落库
	ErrEmbeddingNotFound = NewDomainError(ModuleCatalog, ErrorCodeNotFound, "catalog: embedding not found")

	// ErrCatalogUnavailable 表示目录存储不可达
	ErrCatalogUnavailable = NewDomainError(ModuleCatalog, ErrorCodeUnavailable, "catalog: store unavailable")
)
