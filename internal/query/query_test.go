package query

import "testing"

func TestToSQLNoConditions(t *testing.T) {
	sql, args := New("posts").ToSQL()
	if sql != "SELECT * FROM posts" {
		t.Fatalf("unexpected sql: %q", sql)
	}
	if len(args) != 0 {
		t.Fatalf("expected no args, got %v", args)
	}
}

func TestToSQLConditionsInOrder(t *testing.T) {
	q := New("posts").
		WhereEq("title", "hello").
		Where("views", OpGte, 10).
		WhereEq("published", true)

	sql, args := q.ToSQL()
	want := "SELECT * FROM posts WHERE title = $1 AND views >= $2 AND published = $3"
	if sql != want {
		t.Fatalf("expected %q, got %q", want, sql)
	}
	if args[0] != "hello" || args[1] != 10 || args[2] != true {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestWhereDoesNotMutateReceiver(t *testing.T) {
	base := New("posts").WhereEq("published", true)

	left := base.WhereEq("author", "alice")
	right := base.WhereEq("author", "bob")

	if len(base.Conditions()) != 1 {
		t.Fatalf("expected base untouched, got %d conditions", len(base.Conditions()))
	}

	leftConds := left.Conditions()
	rightConds := right.Conditions()
	if leftConds[1].Value != "alice" || rightConds[1].Value != "bob" {
		t.Fatalf("expected independent branches, got %v and %v", leftConds, rightConds)
	}
}

func TestToSQLNullOperators(t *testing.T) {
	sql, args := New("posts").Where("author", OpIsNull, nil).ToSQL()
	want := "SELECT * FROM posts WHERE author IS NULL"
	if sql != want {
		t.Fatalf("expected %q, got %q", want, sql)
	}
	if len(args) != 0 {
		t.Fatalf("expected no args for null check, got %v", args)
	}
}

func TestToSQLSelectOrderLimitOffset(t *testing.T) {
	q := New("posts").
		Select("title", "views").
		WhereEq("published", true).
		Order("views", SortDesc).
		Limit(10).
		Offset(20)

	sql, args := q.ToSQL()
	want := "SELECT title, views FROM posts WHERE published = $1 ORDER BY views DESC LIMIT $2 OFFSET $3"
	if sql != want {
		t.Fatalf("expected %q, got %q", want, sql)
	}
	if len(args) != 3 || args[1] != 10 || args[2] != 20 {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestToCountSQLIgnoresPagingAndOrdering(t *testing.T) {
	q := New("posts").
		WhereEq("published", true).
		Order("views", SortDesc).
		Limit(10).
		Offset(20)

	sql, args := q.ToCountSQL()
	want := "SELECT COUNT(*) FROM posts WHERE published = $1"
	if sql != want {
		t.Fatalf("expected %q, got %q", want, sql)
	}
	if len(args) != 1 {
		t.Fatalf("expected only the condition arg, got %v", args)
	}
}

func TestConditionsReturnsCopy(t *testing.T) {
	q := New("posts").WhereEq("title", "x")

	conds := q.Conditions()
	conds[0].Value = "mutated"

	if q.Conditions()[0].Value != "x" {
		t.Fatalf("expected internal conditions to be isolated from callers")
	}
}
