package domain

import (
	"errors"
	"testing"
)

func testEntity() EntityType {
	return NewEntityType("blog.Post", "posts", []FieldDefinition{
		{Name: "title", Type: FieldTypeString, Required: true},
		{Name: "published", Type: FieldTypeBoolean},
	})
}

func TestResolveFieldKnownAttribute(t *testing.T) {
	et := testEntity()

	field, err := et.ResolveField("title")
	if err != nil {
		t.Fatalf("expected resolution to succeed, got %v", err)
	}
	if field.Type != FieldTypeString || !field.Required {
		t.Errorf("unexpected field definition: %+v", field)
	}
}

func TestResolveFieldUnknownAttributeFailsHard(t *testing.T) {
	et := testEntity()

	_, err := et.ResolveField("bogus")
	if err == nil {
		t.Fatalf("expected unknown field error")
	}
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}

	var ufe *UnknownFieldError
	if !errors.As(err, &ufe) {
		t.Fatalf("expected UnknownFieldError, got %T", err)
	}
	if ufe.Field != "bogus" || ufe.EntityType != "blog.Post" {
		t.Errorf("unexpected error detail: %+v", ufe)
	}
}

func TestWithFieldUpdatesWithoutMutating(t *testing.T) {
	et := testEntity()

	updated := et.WithField(FieldDefinition{Name: "views", Type: FieldTypeInteger})
	if len(updated.Fields) != 3 {
		t.Fatalf("expected new field appended, got %d fields", len(updated.Fields))
	}
	if len(et.Fields) != 2 {
		t.Fatalf("expected original descriptor untouched, got %d fields", len(et.Fields))
	}

	replaced := updated.WithField(FieldDefinition{Name: "title", Type: FieldTypeString})
	if len(replaced.Fields) != 3 {
		t.Fatalf("expected in-place update for existing field, got %d fields", len(replaced.Fields))
	}
}

func TestWithoutFieldRemoves(t *testing.T) {
	et := testEntity().WithoutField("published")
	if et.HasField("published") {
		t.Fatalf("expected published to be removed")
	}
	if !et.HasField("title") {
		t.Fatalf("expected title to survive")
	}
}

func TestDeriveIdent(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Foo.Bar.Baz", "baz"},
		{"blog.BlogPost", "blog_post"},
		{"Post", "post"},
		{"api.HTTPServer", "http_server"},
		{"inventory.SKU", "sku"},
		{"already_snake", "already_snake"},
	}

	for _, tc := range cases {
		if got := DeriveIdent(tc.name); got != tc.want {
			t.Errorf("DeriveIdent(%q): expected %q, got %q", tc.name, tc.want, got)
		}
	}
}
