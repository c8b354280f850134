package similarity

import (
	"math"
	"testing"
)

func TestScoreKittenSitting(t *testing.T) {
	got := Score("kitten", "sitting")
	want := 1 - 3.0/7.0
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected %.6f, got %.6f", want, got)
	}
}

func TestScoreSymmetry(t *testing.T) {
	pairs := [][2]string{
		{"kitten", "sitting"},
		{"the quick brown fox", "the slow brown dog"},
		{"a", "abcdef"},
		{"résumé", "resume"},
	}
	for _, p := range pairs {
		if Score(p[0], p[1]) != Score(p[1], p[0]) {
			t.Fatalf("score not symmetric for %q / %q", p[0], p[1])
		}
	}
}

func TestScoreIdentical(t *testing.T) {
	if got := Score("same text", "same text"); got != 1 {
		t.Fatalf("expected 1 for identical texts, got %f", got)
	}
}

func TestScoreEmptyInputs(t *testing.T) {
	cases := [][2]string{
		{"", ""},
		{"", "x"},
		{"x", ""},
	}
	for _, c := range cases {
		if got := Score(c[0], c[1]); got != 0 {
			t.Fatalf("expected 0 for (%q, %q), got %f", c[0], c[1], got)
		}
	}
}

func TestScoreBounds(t *testing.T) {
	if got := Score("abc", "xyz"); got != 0 {
		t.Fatalf("expected 0 for fully dissimilar equal-length texts, got %f", got)
	}
	if got := Score("aaaaaaaaaa", "aaaaaabbbb"); math.Abs(got-0.6) > 1e-9 {
		t.Fatalf("expected 0.6, got %f", got)
	}
}

func TestPercentRounding(t *testing.T) {
	cases := []struct {
		score float64
		want  float64
	}{
		{1, 100},
		{0.571428, 57.14},
		{0.60005, 60.01},
		{0.6, 60},
	}
	for _, c := range cases {
		if got := Percent(c.score); got != c.want {
			t.Fatalf("Percent(%f): expected %.2f, got %.2f", c.score, c.want, got)
		}
	}
}
