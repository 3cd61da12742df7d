package similarity

import (
	"math"
	"testing"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a    []float64
		b    []float64
		want float64
	}{
		{
			name: "identical vectors",
			a:    []float64{0.3, 0.5, 0.2},
			b:    []float64{0.3, 0.5, 0.2},
			want: 1.0,
		},
		{
			name: "orthogonal vectors",
			a:    []float64{1, 0},
			b:    []float64{0, 1},
			want: 0,
		},
		{
			name: "opposite vectors clamped to zero",
			a:    []float64{1, 2, 3},
			b:    []float64{-1, -2, -3},
			want: 0,
		},
		{
			name: "dimension mismatch returns zero",
			a:    []float64{1, 2, 3},
			b:    []float64{1, 2},
			want: 0,
		},
		{
			name: "empty vector returns zero",
			a:    nil,
			b:    []float64{1, 2},
			want: 0,
		},
		{
			name: "zero vector returns zero",
			a:    []float64{0, 0, 0},
			b:    []float64{1, 2, 3},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Cosine() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosineSymmetry(t *testing.T) {
	a := []float64{0.1, 0.9, 0.4, 0.2}
	b := []float64{0.7, 0.3, 0.8, 0.5}

	if got, want := Cosine(a, b), Cosine(b, a); math.Abs(got-want) > 1e-12 {
		t.Errorf("Cosine(a,b) = %v, Cosine(b,a) = %v, expected symmetry", got, want)
	}
}

func TestCosineSelfSimilarity(t *testing.T) {
	vectors := [][]float64{
		{1},
		{0.5, 0.5},
		{-0.2, 0.7, 1.3, 0.01},
	}
	for _, v := range vectors {
		if got := Cosine(v, v); math.Abs(got-1.0) > 1e-9 {
			t.Errorf("Cosine(v,v) = %v, want 1.0 for %v", got, v)
		}
	}
}

func TestBatchCosine(t *testing.T) {
	query := []float64{1, 0}

	t.Run("elementwise scores", func(t *testing.T) {
		got := BatchCosine(query, [][]float64{
			{1, 0},
			{0, 1},
		})
		if len(got) != 2 {
			t.Fatalf("len = %d, want 2", len(got))
		}
		if math.Abs(got[0]-1.0) > 1e-9 || math.Abs(got[1]) > 1e-9 {
			t.Errorf("BatchCosine() = %v, want [1 0]", got)
		}
	})

	t.Run("width mismatch zeroes whole batch", func(t *testing.T) {
		got := BatchCosine(query, [][]float64{
			{1, 0},
			{1, 0, 0},
		})
		for i, s := range got {
			if s != 0 {
				t.Errorf("score[%d] = %v, want 0 on width mismatch", i, s)
			}
		}
	})

	t.Run("empty candidates", func(t *testing.T) {
		if got := BatchCosine(query, nil); got != nil {
			t.Errorf("BatchCosine(query, nil) = %v, want nil", got)
		}
	})
}
