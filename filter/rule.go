package filter

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/bookrec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Rule 是规则过滤器，使用 CEL (Common Expression Language) 表达式
// 判断候选是否应被剔除。表达式在构造时编译一次，可并发求值。
//
// 表达式语法（CEL 标准语法），命中即剔除：
//   - `item.category == "Adult"`        → 剔除指定类目
//   - `item.price > 100.0`              → 剔除高价物品
//   - `"draft" in item.tags`            → 剔除携带某标签的物品
//   - `item.author == "" && item.price == 0.0` → 组合条件
type Rule struct {
	expr string
	prg  cel.Program
}

// NewRule 编译 CEL 表达式并创建规则过滤器。表达式非法时返回错误。
func NewRule(expr string) (*Rule, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile rule %q: %w", expr, issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program rule %q: %w", expr, err)
	}
	return &Rule{expr: expr, prg: prg}, nil
}

func (f *Rule) Name() string { return "filter.rule" }

func (f *Rule) ShouldFilter(_ context.Context, book *core.Book) (bool, error) {
	if book == nil {
		return true, nil
	}

	tags := make([]string, len(book.Tags))
	copy(tags, book.Tags)

	out, _, err := f.prg.Eval(map[string]any{
		"item": map[string]any{
			"id":       book.ID,
			"title":    book.Title,
			"author":   book.Author,
			"category": book.Category,
			"price":    book.Price,
			"tags":     tags,
		},
	})
	if err != nil {
		return false, fmt.Errorf("eval rule %q: %w", f.expr, err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("rule %q must return boolean, got %T", f.expr, out.Value())
	}
	return result, nil
}
