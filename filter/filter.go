// Package filter 提供候选集过滤：黑名单、类目排除、规则表达式。
package filter

import (
	"context"

	"github.com/rushteam/bookrec/core"
)

// Filter 是过滤器的抽象接口，用于判断一个候选物品是否应该被剔除。
// 返回 true 表示剔除，false 表示保留。
type Filter interface {
	// Name 返回过滤器名称（用于日志/观测）
	Name() string

	// ShouldFilter 判断 book 是否应该被剔除
	ShouldFilter(ctx context.Context, book *core.Book) (bool, error)
}

// Apply 依次对候选集应用所有过滤器。任一过滤器命中即剔除；
// 过滤器自身出错时跳过该过滤器（不剔除物品、不中断流程）。
func Apply(ctx context.Context, filters []Filter, books []*core.Book) []*core.Book {
	if len(filters) == 0 || len(books) == 0 {
		return books
	}

	out := make([]*core.Book, 0, len(books))
	for _, b := range books {
		if b == nil {
			continue
		}
		drop := false
		for _, f := range filters {
			ok, err := f.ShouldFilter(ctx, b)
			if err != nil {
				continue
			}
			if ok {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, b)
		}
	}
	return out
}
