package validator

import (
	"fmt"
	"strings"

	"github.com/rpattn/paramquery/internal/domain"
)

var knownFieldTypes = map[domain.FieldType]struct{}{
	domain.FieldTypeString:    {},
	domain.FieldTypeInteger:   {},
	domain.FieldTypeFloat:     {},
	domain.FieldTypeBoolean:   {},
	domain.FieldTypeTimestamp: {},
}

// ValidateEntityType ensures an entity descriptor is safe to register: a
// non-empty dotted name, a target table, and well-formed field definitions.
func ValidateEntityType(et domain.EntityType) error {
	if strings.TrimSpace(et.Name) == "" {
		return fmt.Errorf("entity type name is required")
	}
	if strings.TrimSpace(et.Table) == "" {
		return fmt.Errorf("entity type %s requires a table name", et.Name)
	}
	if err := ValidateFields(et.Fields); err != nil {
		return fmt.Errorf("entity type %s: %w", et.Name, err)
	}
	return nil
}

// ValidateFields ensures schema field definitions use known types and unique,
// non-empty names. Duplicate names would make attribute resolution ambiguous.
func ValidateFields(fields []domain.FieldDefinition) error {
	seen := make(map[string]struct{}, len(fields))

	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return fmt.Errorf("field name cannot be empty")
		}
		if name != field.Name {
			return fmt.Errorf("field %q has leading or trailing whitespace", field.Name)
		}

		if _, dup := seen[name]; dup {
			return fmt.Errorf("field %s is defined more than once", name)
		}
		seen[name] = struct{}{}

		if _, ok := knownFieldTypes[field.Type]; !ok {
			return fmt.Errorf("field %s uses unknown type %q", name, field.Type)
		}
	}

	return nil
}
