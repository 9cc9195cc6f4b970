package gnu

import (
	"slices"
	"testing"
)

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0", "2.0", -1},
		{"1.0", "1.0", 0},
		{"1.2.10", "1.2.9", 1},
		{"1.10", "1.9", 1},
		{"01", "1", 0},
		{"", "", 0},
		{"1", "", 1},
		{"1.0~rc1", "1.0", -1},
		{"~", "", -1},
		{"1.0a", "1.0", 1},
		{"1.0.0-rc10", "1.0.0-rc9", 1},
		{"2.6.32", "2.6.32.1", -1},
		{"1-2", "1.2", -1},
		{"1_2", "1.2", 1},

		// compiler versions as they appear in settings
		{"14.11", "15", -1},
		{"193", "191", 1},
		{"7", "13", -1},
		{"13.2", "9", 1},
		{"10.0.1", "10", 1},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			if got := sign(Compare(tt.a, tt.b)); got != tt.want {
				t.Errorf("Compare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if got := sign(Compare(tt.b, tt.a)); got != -tt.want {
				t.Errorf("Compare(%q, %q) = %d, want %d", tt.b, tt.a, got, -tt.want)
			}
		})
	}
}

func TestSort(t *testing.T) {
	got := []string{"19.1.7", "cci.20201009", "9.0.0", "19.1.10", "1.0~rc1", "1.0"}
	Sort(got)
	want := []string{"1.0~rc1", "1.0", "9.0.0", "19.1.7", "19.1.10", "cci.20201009"}
	if !slices.Equal(got, want) {
		t.Fatalf("Sort() = %v, want %v", got, want)
	}
	if !Less("9", "10") {
		t.Error(`Less("9", "10") = false`)
	}
}

func TestRank(t *testing.T) {
	tests := []struct {
		c    byte
		want int
	}{
		{'0', 0},
		{0, 0},
		{'a', int('a')},
		{'Z', int('Z')},
		{'~', -1},
		{'.', int('.') + 256},
	}
	for _, tt := range tests {
		if got := rank(tt.c); got != tt.want {
			t.Errorf("rank(%q) = %d, want %d", tt.c, got, tt.want)
		}
	}
}
