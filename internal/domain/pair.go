package domain

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Pair is one (field, value) input to the query builder. Values start out as
// strings and may be replaced by coerced types during preprocessing.
type Pair struct {
	Field string
	Value any
}

// PairList is an ordered sequence of pairs. Order is significant: it
// determines predicate application order, and duplicate fields stay
// duplicated.
type PairList []Pair

// Fields returns the field names in list order.
func (pl PairList) Fields() []string {
	fields := make([]string, len(pl))
	for i, pair := range pl {
		fields[i] = pair.Field
	}
	return fields
}

// PairsFromMap converts a flat parameter map into a pair list. Go map
// iteration order is random, so keys are sorted to keep the output
// deterministic; callers that care about original parameter order should use
// ParseQueryString instead.
func PairsFromMap(params map[string]string) PairList {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make(PairList, 0, len(params))
	for _, key := range keys {
		pairs = append(pairs, Pair{Field: key, Value: params[key]})
	}
	return pairs
}

// ParseQueryString materializes a raw HTTP query string into a pair list
// preserving the original parameter order. url.Values cannot be used here
// because it loses ordering across distinct keys.
func ParseQueryString(rawQuery string) (PairList, error) {
	if rawQuery == "" {
		return PairList{}, nil
	}

	var pairs PairList
	for _, segment := range strings.Split(rawQuery, "&") {
		if segment == "" {
			continue
		}

		field, value, _ := strings.Cut(segment, "=")
		decodedField, err := url.QueryUnescape(field)
		if err != nil {
			return nil, fmt.Errorf("failed to decode parameter name %q: %w", field, err)
		}
		decodedValue, err := url.QueryUnescape(value)
		if err != nil {
			return nil, fmt.Errorf("failed to decode value for parameter %q: %w", decodedField, err)
		}

		pairs = append(pairs, Pair{Field: decodedField, Value: decodedValue})
	}

	return pairs, nil
}
