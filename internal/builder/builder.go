// Package builder turns ordered (field, value) pairs, typically derived from
// HTTP query parameters, into a composed query over one entity type. The
// pipeline is whitelist filter, value preprocessor, predicate reducer; each
// stage is pure and the reducer is the only one with per-field extensible
// behavior.
package builder

import (
	"fmt"

	"github.com/rpattn/paramquery/internal/domain"
	"github.com/rpattn/paramquery/internal/query"
)

// Override is a caller-supplied handler replacing the default equality
// predicate for one field. It receives the accumulator, the (possibly
// coerced) value, and the remaining pairs. Returning stop=true ends the
// reduction immediately and discards the remaining pairs; that is a
// supported escape hatch, not an error path. An override that wants custom
// control over the tail may call Builder.Apply on it and return stop=true.
type Override func(q query.Query, value any, rest domain.PairList) (query.Query, bool, error)

// Builder constructs filtered queries for a single entity type. Overrides
// and coercers are fixed at construction time; a built Builder is read-only
// and safe for concurrent use.
type Builder struct {
	entity    domain.EntityType
	whitelist Whitelist
	overrides map[string]Override
	coercers  []Coercer
}

// Option configures a Builder at construction time.
type Option func(*Builder)

// WithWhitelist restricts the builder to the given field names. Without this
// option every input field is eligible.
func WithWhitelist(fields ...string) Option {
	return func(b *Builder) {
		b.whitelist = NewWhitelist(fields...)
	}
}

// WithOverride installs a custom match for one field name. Lookup is by
// exact name; the last registration for a name wins.
func WithOverride(field string, override Override) Option {
	return func(b *Builder) {
		b.overrides[field] = override
	}
}

// WithCoercer appends an additional value coercion rule. The default boolean
// coercion always runs first and cannot be replaced.
func WithCoercer(c Coercer) Option {
	return func(b *Builder) {
		b.coercers = append(b.coercers, c)
	}
}

// New creates a builder for the entity type.
func New(entity domain.EntityType, opts ...Option) *Builder {
	b := &Builder{
		entity:    entity,
		overrides: make(map[string]Override),
		coercers:  []Coercer{CoerceBool},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Entity returns the entity type the builder targets.
func (b *Builder) Entity() domain.EntityType {
	return b.entity
}

// Ident returns the derived registration identifier for the builder.
func (b *Builder) Ident() string {
	return b.entity.Ident()
}

// Build runs the full pipeline over the pairs and returns the composed
// query. The initial query selects everything from the entity's table.
func (b *Builder) Build(pairs domain.PairList) (query.Query, error) {
	filtered := b.whitelist.Filter(pairs)
	prepared := Preprocess(filtered, b.coercers)
	return b.Apply(query.New(b.entity.Table), prepared)
}

// BuildMap is a convenience entry point for callers holding a flat map
// instead of ordered pairs. Keys are applied in sorted order.
func (b *Builder) BuildMap(params map[string]string) (query.Query, error) {
	return b.Build(domain.PairsFromMap(params))
}

// Apply reduces the pairs onto q, one predicate per pair, in list order.
// An empty list returns q unchanged. Each pair dispatches to a registered
// override when one exists, else to the default equality predicate; the
// default predicate resolves the field name strictly against the entity
// schema and fails the whole call with an unknown-field error when the name
// is unrecognized. Duplicate fields layer duplicate constraints.
func (b *Builder) Apply(q query.Query, pairs domain.PairList) (query.Query, error) {
	if len(pairs) == 0 {
		return q, nil
	}

	head, tail := pairs[0], pairs[1:]

	if override, ok := b.overrides[head.Field]; ok {
		next, stop, err := override(q, head.Value, tail)
		if err != nil {
			// Override errors propagate unchanged.
			return query.Query{}, err
		}
		if stop {
			return next, nil
		}
		return b.Apply(next, tail)
	}

	field, err := b.entity.ResolveField(head.Field)
	if err != nil {
		return query.Query{}, fmt.Errorf("failed to build query for %s: %w", b.entity.Name, err)
	}

	return b.Apply(q.WhereEq(field.Name, head.Value), tail)
}
