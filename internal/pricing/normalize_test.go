package pricing

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		raw   string
		want  float64
		known bool
	}{
		{"1500", 1500, true},
		{"1,500", 1500, true},
		{"  1500  ", 1500, true},
		{"1500 د.ل", 1500, true},
		{"3500.50", 3500.50, true},
		{"-200", -200, true},
		{"0", 0, true},
		{"", 0, false},
		{"   ", 0, false},
		{"غير متوفر", 0, false},
		{"N/A", 0, false},
	}

	for _, c := range cases {
		got, known := Normalize(c.raw)
		if known != c.known {
			t.Errorf("Normalize(%q) known = %v, want %v", c.raw, known, c.known)
			continue
		}
		if known && got != c.want {
			t.Errorf("Normalize(%q) = %.2f, want %.2f", c.raw, got, c.want)
		}
	}
}

func TestNormalizeNumber(t *testing.T) {
	if v, ok := NormalizeNumber(0); !ok || v != 0 {
		t.Errorf("Zero should stay a known price, got %.2f known=%v", v, ok)
	}
	if v, ok := NormalizeNumber(-50); !ok || v != -50 {
		t.Errorf("Negative values should pass through, got %.2f known=%v", v, ok)
	}
	if _, ok := NormalizeNumber(math.NaN()); ok {
		t.Error("NaN should normalize to unknown")
	}
	if _, ok := NormalizeNumber(math.Inf(1)); ok {
		t.Error("+Inf should normalize to unknown")
	}
}
