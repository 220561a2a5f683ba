package builder

import "github.com/rpattn/paramquery/internal/domain"

// Coercer is one best-effort value coercion rule. It returns the coerced
// value and true when it recognizes the raw string; otherwise the value
// passes through unchanged. Coercion must never fail the pipeline, so there
// is no error return.
type Coercer func(raw string) (any, bool)

// CoerceBool converts the exact literals "true" and "false" to booleans.
// Anything else, including "True" or "1", stays a string.
func CoerceBool(raw string) (any, bool) {
	switch raw {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return nil, false
}

// Preprocess applies the coercers to each pair in order, left to right,
// preserving list order. The first coercer that recognizes a value wins.
// Values that are no longer strings (already coerced upstream) pass through.
func Preprocess(pairs domain.PairList, coercers []Coercer) domain.PairList {
	out := make(domain.PairList, len(pairs))
	for i, pair := range pairs {
		out[i] = pair

		raw, ok := pair.Value.(string)
		if !ok {
			continue
		}
		for _, coerce := range coercers {
			if coerced, matched := coerce(raw); matched {
				out[i].Value = coerced
				break
			}
		}
	}
	return out
}
