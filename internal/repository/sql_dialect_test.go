package repository

import "testing"

func TestBuildLikeConditionByDialect(t *testing.T) {
	condition, argCount := buildLikeConditionByDialect("sqlite", []string{"slug", "name"})
	if condition != "slug LIKE ? OR name LIKE ?" {
		t.Fatalf("sqlite condition unexpected: %s", condition)
	}
	if argCount != 2 {
		t.Fatalf("sqlite arg count want 2 got %d", argCount)
	}

	condition, argCount = buildLikeConditionByDialect("postgres", []string{"slug", "", "name"})
	if condition != "slug ILIKE ? OR name ILIKE ?" {
		t.Fatalf("postgres condition unexpected: %s", condition)
	}
	if argCount != 2 {
		t.Fatalf("postgres arg count want 2 got %d", argCount)
	}
}

func TestRepeatLikeArgs(t *testing.T) {
	args := repeatLikeArgs("%mug%", 3)
	if len(args) != 3 {
		t.Fatalf("args len want 3 got %d", len(args))
	}
	for _, arg := range args {
		if arg != "%mug%" {
			t.Fatalf("arg unexpected: %v", arg)
		}
	}
}
