package listpager

import (
	"math"
	"testing"
)

func Test_IsNormalizedLimitMax(t *testing.T) {
	tests := []struct {
		name     string
		limit    int
		max      int
		want     int
		isStrict bool
	}{
		{"zero uses default", 0, 50, DefaultLimit, false},
		{"negative uses default", -10, 50, DefaultLimit, false},
		{"default capped by small max", 0, 5, 5, false},
		{"within max unchanged", 7, 50, 7, true},
		{"equal max unchanged", 50, 50, 50, true},
		{"above max clamped", 51, 50, 50, false},
		{"non-positive max falls back to MaxLimit", 500, 0, MaxLimit, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, strict := IsNormalizedLimitMax(tt.limit, tt.max)
			if got != tt.want || strict != tt.isStrict {
				t.Errorf("%s: got=(%d,%v) want=(%d,%v)", tt.name, got, strict, tt.want, tt.isStrict)
			}
		})
	}
}

func Test_NormalizeLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero -> default", 0, DefaultLimit},
		{"negative -> default", -1, DefaultLimit},
		{"clamp to MaxLimit", MaxLimit + 1, MaxLimit},
		{"keep when ok", 17, 17},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeLimit(tt.limit); got != tt.want {
				t.Errorf("%s: got %d want %d", tt.name, got, tt.want)
			}
		})
	}
}

func Test_MaxPage(t *testing.T) {
	if got := MaxPage(0); got != math.MaxInt {
		t.Errorf("MaxPage(0) = %d, want %d", got, math.MaxInt)
	}

	for _, limit := range []int{1, 7, 20, 100} {
		page := MaxPage(limit)
		if offset := (page - 1) * limit; offset < 0 {
			t.Errorf("MaxPage(%d) = %d overflows to offset %d", limit, page, offset)
		}
	}
}

func Test_CalculateOffset(t *testing.T) {
	tests := []struct {
		name        string
		page, limit int
		want        int
	}{
		{"first page", 1, 20, 0},
		{"second page", 2, 20, 20},
		{"third page small limit", 3, 10, 20},
		{"page zero treated as first", 0, 10, 0},
		{"last representable page", MaxPage(100), 100, (MaxPage(100) - 1) * 100},
		{"overflowing page saturates", math.MaxInt, 100, math.MaxInt},
		{"zero limit", 5, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateOffset(tt.page, tt.limit); got != tt.want {
				t.Errorf("CalculateOffset(%d, %d) = %d, want %d", tt.page, tt.limit, got, tt.want)
			}
		})
	}
}

func Test_CalculateTotalPages(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		limit int
		want  int
	}{
		{"zero total", 0, 20, 0},
		{"less than limit", 10, 20, 1},
		{"equal to limit", 20, 20, 1},
		{"one more than limit", 21, 20, 2},
		{"exact multiple", 40, 20, 2},
		{"limit one", 5, 1, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateTotalPages(tt.total, tt.limit); got != tt.want {
				t.Errorf("CalculateTotalPages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
			}
		})
	}
}
