package filter

import (
	"context"
	"strings"

	"github.com/rushteam/bookrec/core"
)

// Blocklist 按物品 ID 剔除候选（目标物品自身、已购物品等）。
type Blocklist struct {
	ids map[string]bool
}

// NewBlocklist 创建 ID 黑名单过滤器。
func NewBlocklist(ids []string) *Blocklist {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return &Blocklist{ids: set}
}

func (f *Blocklist) Name() string { return "filter.blocklist" }

func (f *Blocklist) ShouldFilter(_ context.Context, book *core.Book) (bool, error) {
	if book == nil {
		return true, nil
	}
	return f.ids[book.ID], nil
}

// Categories 按类目剔除候选（大小写不敏感）。
type Categories struct {
	names map[string]bool
}

// NewCategories 创建类目排除过滤器。
func NewCategories(names []string) *Categories {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = true
	}
	return &Categories{names: set}
}

func (f *Categories) Name() string { return "filter.categories" }

func (f *Categories) ShouldFilter(_ context.Context, book *core.Book) (bool, error) {
	if book == nil {
		return true, nil
	}
	if book.Category == "" {
		return false, nil
	}
	return f.names[strings.ToLower(book.Category)], nil
}
