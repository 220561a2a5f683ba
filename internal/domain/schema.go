package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// FieldType represents the type of an attribute in an entity schema
type FieldType string

const (
	FieldTypeString    FieldType = "string"
	FieldTypeInteger   FieldType = "integer"
	FieldTypeFloat     FieldType = "float"
	FieldTypeBoolean   FieldType = "boolean"
	FieldTypeTimestamp FieldType = "timestamp"
)

// FieldDefinition represents a single queryable attribute of an entity type
type FieldDefinition struct {
	Name        string    `json:"name"`
	Type        FieldType `json:"type"`
	Required    bool      `json:"required"`
	Description string    `json:"description,omitempty"`
}

// ErrUnknownField is the sentinel for field names that do not resolve to a
// known attribute of an entity type. Callers guard against it with a
// whitelist, or catch it with errors.Is.
var ErrUnknownField = errors.New("unknown field")

// UnknownFieldError reports which field failed attribute resolution and on
// which entity type.
type UnknownFieldError struct {
	EntityType string
	Field      string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q on entity type %s", e.Field, e.EntityType)
}

func (e *UnknownFieldError) Unwrap() error {
	return ErrUnknownField
}

// EntityType is the schema descriptor identifying which attributes are valid
// query targets. It is built once at startup and treated as read-only.
type EntityType struct {
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"` // dotted name, e.g. "blog.Post"
	Table     string            `json:"table"`
	Fields    []FieldDefinition `json:"fields"`
	CreatedAt time.Time         `json:"created_at"`
}

// NewEntityType creates a new entity type descriptor with immutable pattern
func NewEntityType(name, table string, fields []FieldDefinition) EntityType {
	return EntityType{
		ID:        uuid.New(),
		Name:      name,
		Table:     table,
		Fields:    copyFields(fields), // Deep copy to ensure immutability
		CreatedAt: time.Now(),
	}
}

// WithField returns a new descriptor with an added/updated field
func (et EntityType) WithField(field FieldDefinition) EntityType {
	newFields := copyFields(et.Fields)

	found := false
	for i, existing := range newFields {
		if existing.Name == field.Name {
			newFields[i] = field
			found = true
			break
		}
	}

	if !found {
		newFields = append(newFields, field)
	}

	return EntityType{
		ID:        et.ID,
		Name:      et.Name,
		Table:     et.Table,
		Fields:    newFields,
		CreatedAt: et.CreatedAt,
	}
}

// WithoutField returns a new descriptor without the specified field
func (et EntityType) WithoutField(name string) EntityType {
	newFields := make([]FieldDefinition, 0, len(et.Fields))
	for _, field := range et.Fields {
		if field.Name != name {
			newFields = append(newFields, field)
		}
	}

	return EntityType{
		ID:        et.ID,
		Name:      et.Name,
		Table:     et.Table,
		Fields:    newFields,
		CreatedAt: et.CreatedAt,
	}
}

// ResolveField maps a field name to its attribute definition. The lookup is
// strict: a name that is not part of the schema fails with UnknownFieldError
// rather than being silently ignored. Unknown-field safety belongs to the
// whitelist stage, not here.
func (et EntityType) ResolveField(name string) (FieldDefinition, error) {
	for _, field := range et.Fields {
		if field.Name == name {
			return field, nil
		}
	}
	return FieldDefinition{}, &UnknownFieldError{EntityType: et.Name, Field: name}
}

// HasField reports whether name resolves to a known attribute.
func (et EntityType) HasField(name string) bool {
	_, err := et.ResolveField(name)
	return err == nil
}

// FieldNames returns the attribute names in declaration order.
func (et EntityType) FieldNames() []string {
	names := make([]string, len(et.Fields))
	for i, field := range et.Fields {
		names[i] = field.Name
	}
	return names
}

// Ident derives the registration identifier for this entity type.
func (et EntityType) Ident() string {
	return DeriveIdent(et.Name)
}

// DeriveIdent turns a dotted entity type name into a registration
// identifier: the last segment converted to snake_case, e.g.
// "Foo.Bar.BlogPost" -> "blog_post".
func DeriveIdent(name string) string {
	segment := name
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		segment = name[idx+1:]
	}

	var b strings.Builder
	runes := []rune(segment)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (!unicode.IsUpper(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// copyFields creates a deep copy of the fields slice to ensure immutability
func copyFields(fields []FieldDefinition) []FieldDefinition {
	if fields == nil {
		return nil
	}
	newFields := make([]FieldDefinition, len(fields))
	copy(newFields, fields)
	return newFields
}
