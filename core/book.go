package core

// Book 是推荐链路中的统一物品结构：目录元信息、向量、开放元数据。
// 除 Embedding 允许延迟补全外，Book 在一次请求内视为不可变快照。
type Book struct {
	ID          string
	Title       string
	Author      string
	Description string
	Category    string
	Tags        []string
	Price       float64

	// Embedding 是物品的语义向量，可能为空（由引擎按需生成并回写存储）。
	Embedding []float64

	// Meta 承载 Provider 特有的附加字段（封面、链接等），统一走此通道，
	// 避免在实体上散落动态属性。
	Meta map[string]any
}

func NewBook(id string) *Book {
	return &Book{
		ID:   id,
		Meta: make(map[string]any),
	}
}

// HasEmbedding 检查物品是否已携带向量。
func (b *Book) HasEmbedding() bool {
	return b != nil && len(b.Embedding) > 0
}

// ScoredBook 是一次请求内的打分结果：物品 + [0,1] 分数 + 可读的推荐理由。
// 仅在请求生命周期内存在，可被缓存序列化。
type ScoredBook struct {
	Book   *Book   `json:"book"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// TrendingBook 是热门聚合结果：物品 + 窗口内的购买/交互计数。
type TrendingBook struct {
	Book             *Book
	PurchaseCount    int
	InteractionCount int

	// TrendScore 由存储侧聚合：purchase*2 + interaction。
	TrendScore float64
}
