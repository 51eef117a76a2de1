package rank

import (
	"math"
	"slices"
	"testing"

	"github.com/rushteam/bagrec/core"
)

func bagVectors() map[string]core.Embedding {
	return map[string]core.Embedding{
		"bag1": {0.6, 0.7, 0.1, 0.2, 0.8},
		"bag2": {0.2, 0.1, 0.8, 0.9, 0.2},
		"bag3": {0.8, 0.2, 0.3, 0.1, 0.6},
		"bag4": {0.5, 0.5, 0.5, 0.5, 0.5},
		"bag5": {0.7, 0.6, 0.3, 0.2, 0.7},
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{name: "self similarity", a: []float64{0.5, 0.8, 0.2}, b: []float64{0.5, 0.8, 0.2}, want: 1},
		{name: "scaled vector", a: []float64{1, 2, 3}, b: []float64{2, 4, 6}, want: 1},
		{name: "orthogonal", a: []float64{1, 0}, b: []float64{0, 1}, want: 0},
		{name: "opposite", a: []float64{1, 1}, b: []float64{-1, -1}, want: -1},
		{name: "zero query", a: []float64{0, 0, 0}, b: []float64{1, 2, 3}, want: 0},
		{name: "zero candidate", a: []float64{1, 2, 3}, b: []float64{0, 0, 0}, want: 0},
		{name: "dimension mismatch", a: []float64{1, 2}, b: []float64{1, 2, 3}, want: 0},
		{name: "empty", a: nil, b: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine(tt.a, tt.b)
			if math.IsNaN(got) {
				t.Fatalf("Cosine() = NaN")
			}
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("Cosine() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRank(t *testing.T) {
	user1 := core.Embedding{0.5, 0.8, 0.2, 0.1, 0.9}

	tests := []struct {
		name       string
		query      core.Embedding
		candidates map[string]core.Embedding
		topK       int
		want       []string
	}{
		{name: "top1 for user1", query: user1, candidates: bagVectors(), topK: 1, want: []string{"bag1"}},
		{name: "full order for user1", query: user1, candidates: bagVectors(), topK: 5, want: []string{"bag1", "bag5", "bag4", "bag3", "bag2"}},
		{name: "topK larger than candidates", query: user1, candidates: bagVectors(), topK: 50, want: []string{"bag1", "bag5", "bag4", "bag3", "bag2"}},
		{name: "no candidates", query: user1, candidates: map[string]core.Embedding{}, topK: 3, want: []string{}},
		{name: "nil candidates", query: user1, candidates: nil, topK: 3, want: []string{}},
		{name: "zero topK", query: user1, candidates: bagVectors(), topK: 0, want: []string{}},
		{name: "negative topK", query: user1, candidates: bagVectors(), topK: -2, want: []string{}},
		{
			name:  "ties broken by id",
			query: core.Embedding{1, 0},
			candidates: map[string]core.Embedding{
				"c": {2, 0},
				"a": {1, 0},
				"b": {3, 0},
				"d": {0, 1},
			},
			topK: 4,
			want: []string{"a", "b", "c", "d"},
		},
		{
			name:  "zero query scores everything zero",
			query: core.Embedding{0, 0},
			candidates: map[string]core.Embedding{
				"y": {1, 0},
				"x": {0, 1},
			},
			topK: 2,
			want: []string{"x", "y"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rank(tt.query, tt.candidates, tt.topK)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Rank() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRankScoredProperties(t *testing.T) {
	candidates := bagVectors()
	query := core.Embedding{0.9, 0.1, 0.2, 0.3, 0.5}

	for k := 1; k <= 6; k++ {
		scored := RankScored(query, candidates, k)
		if len(scored) > k {
			t.Fatalf("k=%d: got %d results", k, len(scored))
		}
		for i, s := range scored {
			if _, ok := candidates[s.ID]; !ok {
				t.Errorf("k=%d: id %q not a candidate", k, s.ID)
			}
			if i > 0 && s.Score > scored[i-1].Score {
				t.Errorf("k=%d: scores not non-increasing at %d", k, i)
			}
		}
	}
}

func TestRankDeterministic(t *testing.T) {
	query := core.Embedding{0.5, 0.5, 0.5, 0.5, 0.5}
	first := Rank(query, bagVectors(), 5)
	for i := 0; i < 20; i++ {
		if got := Rank(query, bagVectors(), 5); !slices.Equal(got, first) {
			t.Fatalf("run %d: %v != %v", i, got, first)
		}
	}
}
