package rerank

import (
	"testing"

	"github.com/rushteam/bookrec/core"
)

func scored(id, category string, score float64) *core.ScoredBook {
	return &core.ScoredBook{
		Book:  &core.Book{ID: id, Category: category},
		Score: score,
	}
}

func TestDiversify(t *testing.T) {
	t.Run("empty input unchanged", func(t *testing.T) {
		if got := Diversify(nil, 3, 10); len(got) != 0 {
			t.Errorf("Diversify(nil) = %v, want empty", got)
		}
	})

	t.Run("caps items per category", func(t *testing.T) {
		items := []*core.ScoredBook{
			scored("a1", "romance", 0.9),
			scored("a2", "romance", 0.8),
			scored("a3", "romance", 0.7),
			scored("a4", "romance", 0.6),
			scored("b1", "mystery", 0.5),
			scored("b2", "mystery", 0.4),
		}
		got := Diversify(items, 2, 10)

		counts := make(map[string]int)
		for _, it := range got {
			counts[it.Book.Category]++
		}
		for cate, n := range counts {
			if n > 2 {
				t.Errorf("category %q has %d items, want <= 2", cate, n)
			}
		}
	})

	t.Run("single category capped regardless of target size", func(t *testing.T) {
		items := []*core.ScoredBook{
			scored("a1", "romance", 0.9),
			scored("a2", "romance", 0.8),
			scored("a3", "romance", 0.7),
			scored("a4", "romance", 0.6),
			scored("a5", "romance", 0.5),
		}
		got := Diversify(items, 3, 5)
		if len(got) != 3 {
			t.Errorf("len = %d, want 3 (maxPerCategory)", len(got))
		}
	})

	t.Run("output sorted by score descending", func(t *testing.T) {
		items := []*core.ScoredBook{
			scored("a1", "romance", 0.9),
			scored("b1", "mystery", 0.95),
			scored("a2", "romance", 0.5),
			scored("c1", "history", 0.7),
		}
		got := Diversify(items, 3, 4)
		for i := 1; i < len(got); i++ {
			if got[i].Score > got[i-1].Score {
				t.Errorf("result not sorted by score: %v before %v", got[i-1].Score, got[i].Score)
			}
		}
	})

	t.Run("uncategorized bucket participates", func(t *testing.T) {
		items := []*core.ScoredBook{
			scored("a1", "romance", 0.9),
			scored("u1", "", 0.8),
			scored("u2", "", 0.7),
		}
		got := Diversify(items, 3, 3)
		if len(got) != 3 {
			t.Errorf("len = %d, want 3", len(got))
		}
	})

	t.Run("respects target size", func(t *testing.T) {
		items := []*core.ScoredBook{
			scored("a1", "romance", 0.9),
			scored("b1", "mystery", 0.8),
			scored("c1", "history", 0.7),
			scored("d1", "science", 0.6),
		}
		if got := Diversify(items, 3, 2); len(got) != 2 {
			t.Errorf("len = %d, want 2", len(got))
		}
	})
}
