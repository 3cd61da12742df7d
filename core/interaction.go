package core

import "time"

// InteractionKind 是用户行为类型。不同行为携带固定的重要性权重，
// 购买 > 收藏/点赞 > 分享 > 点击 > 浏览；dislike 不贡献正向偏好。
type InteractionKind string

const (
	InteractionView     InteractionKind = "view"
	InteractionClick    InteractionKind = "click"
	InteractionPurchase InteractionKind = "purchase"
	InteractionLike     InteractionKind = "like"
	InteractionDislike  InteractionKind = "dislike"
	InteractionBookmark InteractionKind = "bookmark"
	InteractionShare    InteractionKind = "share"
)

// Weight 返回行为的固定重要性权重。未知行为按 1.0 处理。
func (k InteractionKind) Weight() float64 {
	switch k {
	case InteractionPurchase:
		return 3.0
	case InteractionLike, InteractionBookmark:
		return 2.0
	case InteractionShare:
		return 1.5
	case InteractionClick:
		return 1.0
	case InteractionView:
		return 0.5
	case InteractionDislike:
		return 0
	default:
		return 1.0
	}
}

// Interaction 是一条用户行为记录，落库后不可变。
// Book 是联表查询带出的物品快照，构建画像时使用。
type Interaction struct {
	UserID    string
	BookID    string
	Kind      InteractionKind
	Book      *Book
	Timestamp time.Time
}
