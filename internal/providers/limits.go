package providers

// MaxLimit caps the result count of any catalog call.
const MaxLimit = 50

// ClampLimit resolves a requested result count: non-positive values take fallback and
// the result is kept within [1, MaxLimit]. Every caller that shares the catalog cache
// clamps through here so equal requests land on the same cache key.
func ClampLimit(limit, fallback int) int {
	if limit <= 0 {
		limit = fallback
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if limit < 1 {
		limit = 1
	}
	return limit
}
