package params

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func refDate(t *testing.T) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", "2024-03-10")
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestResolveFlatLookup(t *testing.T) {
	store := New(map[string]string{"db": "warehouse"})
	r := NewResolver(refDate(t))
	got := r.Resolve(context.Background(), "connect to ${db}", store)
	assert.Equal(t, "connect to warehouse", got)
}

func TestResolveScopePrecedence(t *testing.T) {
	global := map[string]string{"env": "prod"}
	taskScope := map[string]string{"env": "staging"}
	store := New(taskScope, global)
	r := NewResolver(refDate(t))
	got := r.Resolve(context.Background(), "${env}", store)
	assert.Equal(t, "staging", got)
}

func TestResolveUnknownLeftLiteral(t *testing.T) {
	store := New(map[string]string{})
	r := NewResolver(refDate(t))
	got := r.Resolve(context.Background(), "${missing}", store)
	assert.Equal(t, "${missing}", got)
}

func TestResolveDateExpression(t *testing.T) {
	store := New(map[string]string{})
	r := NewResolver(refDate(t))
	got := r.Resolve(context.Background(), "dt=${yyyy-MM-dd-1}", store)
	assert.Equal(t, "dt=2024-03-09", got)
}

func TestResolveRecursiveSubstitution(t *testing.T) {
	store := New(map[string]string{
		"outer": "${inner}",
		"inner": "resolved",
	})
	r := NewResolver(refDate(t))
	got := r.Resolve(context.Background(), "${outer}", store)
	assert.Equal(t, "resolved", got)
}

func TestResolveRecursionOverflowLeavesLiteral(t *testing.T) {
	store := New(map[string]string{"a": "${a}"})
	r := NewResolver(refDate(t))
	got := r.Resolve(context.Background(), "${a}", store)
	assert.Equal(t, "${a}", got)
}

func TestResolveNestedParamsAccessor(t *testing.T) {
	store := New(map[string]string{}).WithNested("params", map[string]string{"day_id": "2024-03-10"})
	r := NewResolver(refDate(t))
	got := r.Resolve(context.Background(), "--date=${params.day_id}", store)
	assert.Equal(t, "--date=2024-03-10", got)
}

func TestResolveNestedFallsBackWhenNamespaceUnknown(t *testing.T) {
	store := New(map[string]string{"foo.bar": "literalvalue"})
	r := NewResolver(refDate(t))
	got := r.Resolve(context.Background(), "${foo.bar}", store)
	assert.Equal(t, "literalvalue", got)
}

func TestResolveMultipleTokensLeftToRight(t *testing.T) {
	store := New(map[string]string{"a": "1", "b": "2"})
	r := NewResolver(refDate(t))
	got := r.Resolve(context.Background(), "${a}-${b}", store)
	assert.Equal(t, "1-2", got)
}
