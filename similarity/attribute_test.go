package similarity

import (
	"math"
	"testing"
)

func TestCategory(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"exact match", "Fiction", "fiction", 1.0},
		{"head to member", "Information Technology", "computer", 0.7},
		{"member to head", "novel", "Fiction", 0.7},
		{"member to member", "computer", "networking", 0.6},
		{"unrelated", "fiction", "history", 0},
		{"empty side", "", "fiction", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Category(tt.a, tt.b); got != tt.want {
				t.Errorf("Category(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestAuthor(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"exact match", "Maung Maung", "maung maung", 1.0},
		{"partial overlap", "Aung San", "Aung Kyaw", 1.0 / 3.0},
		{"no overlap", "John Smith", "Jane Doe", 0},
		{"empty side", "", "John", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Author(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Author(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestTags(t *testing.T) {
	tests := []struct {
		name string
		a    []string
		b    []string
		want float64
	}{
		{"partial overlap", []string{"a", "b"}, []string{"b", "c"}, 1.0 / 3.0},
		{"case folded", []string{"Go", "Redis"}, []string{"go", "redis"}, 1.0},
		{"empty side", nil, []string{"x"}, 0},
		{"disjoint", []string{"a"}, []string{"b"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Tags(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Tags(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
