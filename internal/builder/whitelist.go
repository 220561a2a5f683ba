package builder

import "github.com/rpattn/paramquery/internal/domain"

// Whitelist is the optional allow-list restricting which input fields are
// eligible for query construction. A nil Whitelist allows everything; a
// non-nil empty one drops everything. The two cases are distinct on purpose.
type Whitelist map[string]struct{}

// NewWhitelist builds a whitelist from field names. NewWhitelist() with no
// arguments returns a non-nil empty set that rejects every field.
func NewWhitelist(fields ...string) Whitelist {
	w := make(Whitelist, len(fields))
	for _, field := range fields {
		w[field] = struct{}{}
	}
	return w
}

// Allows reports whether the field survives filtering.
func (w Whitelist) Allows(field string) bool {
	if w == nil {
		return true
	}
	_, ok := w[field]
	return ok
}

// Filter returns the subsequence of pairs whose field is allowed, preserving
// original order. Filtered fields are dropped silently; misconfigured input
// is not an error at this stage.
func (w Whitelist) Filter(pairs domain.PairList) domain.PairList {
	if w == nil {
		return pairs
	}

	filtered := make(domain.PairList, 0, len(pairs))
	for _, pair := range pairs {
		if w.Allows(pair.Field) {
			filtered = append(filtered, pair)
		}
	}
	return filtered
}
