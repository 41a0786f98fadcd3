package sequence

import (
	"math"
	"strings"
	"testing"
)

func TestAverageErrorRate(t *testing.T) {
	tests := []struct {
		qualities string
		want      float64
	}{
		{"!", 1.0},             // Phred 0
		{"+", 0.1},             // Phred 10
		{"5", 0.01},            // Phred 20
		{"?", 0.001},           // Phred 30
		{"!!", 1.0},
		{"!+", (1.0 + 0.1) / 2},
		{strings.Repeat("5", 100), 0.01},
	}
	for _, tc := range tests {
		got, err := AverageErrorRate([]byte(tc.qualities))
		if err != nil {
			t.Fatalf("AverageErrorRate(%q): %v", tc.qualities, err)
		}
		if math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("AverageErrorRate(%q) = %g, want %g", tc.qualities, got, tc.want)
		}
	}
}

func TestAverageErrorRateInvalid(t *testing.T) {
	for _, qualities := range []string{"", "AB\x1f", "AB\x7f"} {
		if _, err := AverageErrorRate([]byte(qualities)); err == nil {
			t.Errorf("AverageErrorRate(%q) did not fail", qualities)
		}
	}
}
