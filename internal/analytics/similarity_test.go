package analytics

import (
	"math"
	"testing"
)

func TestJaccardSimilarity(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		a, b []string
		want float64
	}{
		{"both empty", []string{}, []string{}, 0.0},
		{"both nil", nil, nil, 0.0},
		{"identical singletons", []string{"a"}, []string{"a"}, 1.0},
		{"partial overlap", []string{"a", "b"}, []string{"b", "c"}, 1.0 / 3.0},
		{"disjoint", []string{"a"}, []string{"b"}, 0.0},
		{"one empty", []string{"a", "b"}, nil, 0.0},
		{"duplicates dedup", []string{"a", "a", "b"}, []string{"a", "b", "b"}, 1.0},
		{"case sensitive", []string{"Math"}, []string{"math"}, 0.0},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := JaccardSimilarity(tc.a, tc.b)
			if math.Abs(got-tc.want) > 1e-12 {
				t.Errorf("JaccardSimilarity(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
			if got < 0 || got > 1 {
				t.Errorf("Result %v out of [0,1]", got)
			}
		})
	}
}

func TestJaccardSimilarityCommutative(t *testing.T) {
	t.Parallel()

	pairs := [][2][]string{
		{{"a", "b", "c"}, {"b", "c", "d"}},
		{nil, {"x"}},
		{{"a"}, nil},
		{{"p", "q"}, {"p", "q"}},
	}

	for _, p := range pairs {
		ab := JaccardSimilarity(p[0], p[1])
		ba := JaccardSimilarity(p[1], p[0])
		if ab != ba {
			t.Errorf("JaccardSimilarity(%v,%v)=%v but reversed=%v", p[0], p[1], ab, ba)
		}
	}
}

func TestJaccardSimilarityJSON(t *testing.T) {
	t.Parallel()

	got, err := JaccardSimilarityJSON([]byte(`["a","b"]`), []byte(`["b","c"]`))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if math.Abs(got-1.0/3.0) > 1e-12 {
		t.Errorf("Expected 1/3, got %v", got)
	}

	if _, err := JaccardSimilarityJSON([]byte(`not json`), []byte(`[]`)); err == nil {
		t.Error("Expected hard error for undecodable first set")
	}
	if _, err := JaccardSimilarityJSON([]byte(`[]`), []byte(`{"a":1}`)); err == nil {
		t.Error("Expected hard error for undecodable second set")
	}
}
