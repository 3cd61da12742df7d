package core

import "context"

// Embedder 是向量生成服务的领域接口。
//
// 实现方通常封装一个外部模型服务（Sentence-Transformers、OpenAI 等），
// 可能较慢，引擎会把调用放到受限的并发池里，不阻塞请求主路径。
//
// 约束：
//   - 相同 text + 模型版本必须幂等（结果可缓存、可回写存储）
//   - EmbedBatch 必须保持输入顺序
//   - 同一模型版本产出固定维度
type Embedder interface {
	// Embed 生成单条文本的向量
	Embed(ctx context.Context, text string) ([]float64, error)

	// EmbedBatch 批量生成向量，结果与输入一一对应
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// TextNormalizer 是文本归一化的领域接口，由外部协作方实现
// （清洗、Unicode 归一化、语言检测）。
type TextNormalizer interface {
	// Normalize 清洗原始文本并返回语言标签
	Normalize(raw string) (clean string, lang string)
}

// Embedding 错误定义
var (
	// ErrEmbedderUnavailable 表示向量服务不可达
	ErrEmbedderUnavailable = NewDomainError(ModuleEmbedding, ErrorCodeUnavailable, "embedding: provider unavailable")
)
