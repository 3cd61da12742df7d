package similarity

import (
	"math"
	"testing"

	"github.com/rushteam/bookrec/core"
)

func TestSemantic(t *testing.T) {
	w := DefaultWeights()

	t.Run("all components present", func(t *testing.T) {
		a := &core.Book{
			Category:  "fiction",
			Author:    "John Smith",
			Tags:      []string{"classic"},
			Embedding: []float64{1, 0},
		}
		b := &core.Book{
			Category:  "fiction",
			Author:    "John Smith",
			Tags:      []string{"classic"},
			Embedding: []float64{1, 0},
		}
		if got := Semantic(a, b, w); math.Abs(got-1.0) > 1e-9 {
			t.Errorf("Semantic() = %v, want 1.0", got)
		}
	})

	t.Run("missing attributes are not penalized", func(t *testing.T) {
		// Only categories comparable: score should equal the category
		// similarity, normalized by the category weight alone.
		a := &core.Book{Category: "fiction"}
		b := &core.Book{Category: "fiction"}
		if got := Semantic(a, b, w); math.Abs(got-1.0) > 1e-9 {
			t.Errorf("Semantic() = %v, want 1.0 when only categories comparable", got)
		}
	})

	t.Run("nothing comparable", func(t *testing.T) {
		a := &core.Book{Category: "fiction"}
		b := &core.Book{Author: "John"}
		if got := Semantic(a, b, w); got != 0 {
			t.Errorf("Semantic() = %v, want 0", got)
		}
	})
}

func TestAffinity(t *testing.T) {
	t.Run("category only profile is normalized", func(t *testing.T) {
		// No preference embedding, no favorite authors: the result must
		// equal the raw category match value, not be diluted by the
		// full 0.5+0.3+0.2 weight sum.
		profile := &core.UserProfile{
			FavoriteCategories: []string{"Romance"},
		}
		book := &core.Book{Category: "romance"}

		if got := Affinity(profile, book); math.Abs(got-1.0) > 1e-9 {
			t.Errorf("Affinity() = %v, want 1.0", got)
		}
	})

	t.Run("partial category match", func(t *testing.T) {
		profile := &core.UserProfile{
			FavoriteCategories: []string{"science"},
		}
		book := &core.Book{Category: "science fiction"}

		if got := Affinity(profile, book); math.Abs(got-0.7) > 1e-9 {
			t.Errorf("Affinity() = %v, want 0.7", got)
		}
	})

	t.Run("author partial match weight", func(t *testing.T) {
		profile := &core.UserProfile{
			FavoriteAuthors: []string{"Stephen"},
		}
		book := &core.Book{Author: "Stephen King"}

		if got := Affinity(profile, book); math.Abs(got-0.8) > 1e-9 {
			t.Errorf("Affinity() = %v, want 0.8", got)
		}
	})

	t.Run("blended components", func(t *testing.T) {
		profile := &core.UserProfile{
			PreferenceEmbedding: []float64{1, 0},
			FavoriteCategories:  []string{"fiction"},
		}
		book := &core.Book{
			Category:  "fiction",
			Embedding: []float64{1, 0},
		}
		// (1.0*0.5 + 1.0*0.3) / 0.8 = 1.0
		if got := Affinity(profile, book); math.Abs(got-1.0) > 1e-9 {
			t.Errorf("Affinity() = %v, want 1.0", got)
		}
	})

	t.Run("nothing evaluable", func(t *testing.T) {
		if got := Affinity(&core.UserProfile{}, &core.Book{}); got != 0 {
			t.Errorf("Affinity() = %v, want 0", got)
		}
	})
}
