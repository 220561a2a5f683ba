package builder

import (
	"testing"

	"github.com/rpattn/paramquery/internal/domain"
)

func TestRegistryRegisterAndLookup(t *testing.T) {
	registry := NewRegistry()

	post := New(domain.NewEntityType("blog.BlogPost", "posts", []domain.FieldDefinition{
		{Name: "title", Type: domain.FieldTypeString},
	}))

	if err := registry.Register(post); err != nil {
		t.Fatalf("expected registration to succeed, got %v", err)
	}

	found, ok := registry.Lookup("blog_post")
	if !ok {
		t.Fatalf("expected builder registered under derived identifier")
	}
	if found.Entity().Name != "blog.BlogPost" {
		t.Errorf("unexpected entity: %s", found.Entity().Name)
	}

	if _, ok := registry.Lookup("missing"); ok {
		t.Errorf("expected lookup miss for unregistered identifier")
	}
}

func TestRegistryRejectsDuplicateIdent(t *testing.T) {
	registry := NewRegistry()

	first := New(domain.NewEntityType("a.Post", "posts", nil))
	second := New(domain.NewEntityType("b.Post", "posts_v2", nil))

	if err := registry.Register(first); err != nil {
		t.Fatalf("expected first registration to succeed, got %v", err)
	}
	if err := registry.Register(second); err == nil {
		t.Fatalf("expected duplicate identifier to be rejected")
	}
}

func TestRegistryIdentsSorted(t *testing.T) {
	registry := NewRegistry()
	registry.MustRegister(New(domain.NewEntityType("blog.Post", "posts", nil)))
	registry.MustRegister(New(domain.NewEntityType("blog.Comment", "comments", nil)))

	idents := registry.Idents()
	if len(idents) != 2 || idents[0] != "comment" || idents[1] != "post" {
		t.Fatalf("expected sorted identifiers, got %v", idents)
	}
}
