package core

import "time"

// UserProfile 是用户偏好画像。
//
// 画像不作为权威数据持久化：每次个性化推荐都从交互历史重建
// （存储侧缓存只是优化手段），因此结构保持可序列化、可整体替换。
//
// 设计要点：
//  维度                   作用
//  PreferenceEmbedding    内容偏好（加权交互物品文本的平均向量）
//  FavoriteCategories     类目偏好（按衰减权重累积的 Top5）
//  FavoriteAuthors        作者偏好（Top3）
//  InteractionCount       冷启动判定 / 置信度参考
type UserProfile struct {
	UserID string

	// PreferenceEmbedding 可能为空：没有足够权重的交互时不生成，
	// 亲和度计算退化为类目/作者信号。
	PreferenceEmbedding []float64

	// FavoriteCategories 按累积权重降序，最多 5 个。
	FavoriteCategories []string

	// FavoriteAuthors 按累积权重降序，最多 3 个。
	FavoriteAuthors []string

	InteractionCount int
	UpdatedAt        time.Time
}

func NewUserProfile(userID string) *UserProfile {
	return &UserProfile{
		UserID:    userID,
		UpdatedAt: time.Now(),
	}
}

// HasPreferenceEmbedding 检查画像是否携带偏好向量。
func (p *UserProfile) HasPreferenceEmbedding() bool {
	return p != nil && len(p.PreferenceEmbedding) > 0
}
