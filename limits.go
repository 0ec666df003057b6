package listpager

import "math"

const (
	MaxLimit     = 100
	DefaultLimit = 20
)

// IsNormalizedLimitMax clamps limit into [1, maxLimit]. A non-positive limit
// becomes DefaultLimit (or maxLimit when that is smaller). The second return
// value reports whether limit was already within bounds.
func IsNormalizedLimitMax(limit int, maxLimit int) (int, bool) {
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}

	if limit <= 0 {
		return min(DefaultLimit, maxLimit), false
	} else if limit > maxLimit {
		return maxLimit, false
	}

	return limit, true
}

func NormalizeLimitMax(limit int, maxLimit int) int {
	ret, _ := IsNormalizedLimitMax(limit, maxLimit)
	return ret
}

func NormalizeLimit(limit int) int {
	return NormalizeLimitMax(limit, MaxLimit)
}

// MaxPage returns the last page whose offset fits in an int for limit.
func MaxPage(limit int) int {
	if limit <= 1 {
		return math.MaxInt
	}

	return math.MaxInt/limit + 1
}

// CalculateOffset returns the number of rows to skip for a 1-based page. It
// saturates at math.MaxInt instead of overflowing.
func CalculateOffset(page, limit int) int {
	if page < 1 || limit <= 0 {
		return 0
	}
	if page > MaxPage(limit) {
		return math.MaxInt
	}

	return (page - 1) * limit
}

// CalculateTotalPages returns ceil(total/limit); 0 when total is 0.
func CalculateTotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}

	return int((total + int64(limit) - 1) / int64(limit))
}
