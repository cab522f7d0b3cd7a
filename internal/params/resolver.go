package params

import (
	"context"
	"strings"
	"time"

	"github.com/flowctl/flowctl/internal/dateexpr"
	"github.com/flowctl/flowctl/internal/logging"
)

// maxDepth bounds recursive substitution: a resolved value that itself
// contains "${...}" is expanded again, up to this many passes.
const maxDepth = 8

// Resolver expands "${...}" templates against a Store.
type Resolver struct {
	// Today is the reference date used by date expressions. Defaults to
	// time.Now() if zero.
	Today time.Time
}

// NewResolver returns a Resolver anchored at today.
func NewResolver(today time.Time) *Resolver {
	return &Resolver{Today: today}
}

// Resolve expands every "${...}" token in input against store, recursing
// into newly-produced templates up to maxDepth times. Unknown names are
// left literal. Malformed recursion overflows are also left literal; both
// cases log a warning through the context logger rather than failing.
func (r *Resolver) Resolve(ctx context.Context, input string, store *Store) string {
	today := r.Today
	if today.IsZero() {
		today = time.Now()
	}

	out := input
	for depth := 0; depth < maxDepth; depth++ {
		expanded, changed := r.expandOnce(ctx, out, store, today)
		out = expanded
		if !changed {
			return out
		}
	}
	logging.FromContext(ctx).WarnContext(ctx, "params: recursion depth exceeded, leaving residual templates literal",
		"input", input, "max_depth", maxDepth)
	return out
}

// expandOnce performs a single left-to-right pass over input, substituting
// every well-formed "${...}" token it finds. changed reports whether any
// substitution was made (a caller may need to run another pass if so).
func (r *Resolver) expandOnce(ctx context.Context, input string, store *Store, today time.Time) (string, bool) {
	var b strings.Builder
	changed := false
	i := 0
	for i < len(input) {
		start := strings.Index(input[i:], "${")
		if start == -1 {
			b.WriteString(input[i:])
			break
		}
		start += i
		b.WriteString(input[i:start])

		end := strings.IndexByte(input[start+2:], '}')
		if end == -1 {
			// unterminated token; emit the rest verbatim.
			b.WriteString(input[start:])
			i = len(input)
			break
		}
		end += start + 2

		token := input[start+2 : end]
		value, ok := r.resolveToken(ctx, token, store, today)
		if ok {
			b.WriteString(value)
			changed = true
		} else {
			b.WriteString("${")
			b.WriteString(token)
			b.WriteString("}")
		}
		i = end + 1
	}
	return b.String(), changed
}

// resolveToken resolves a single token (the text between "${" and "}").
func (r *Resolver) resolveToken(ctx context.Context, token string, store *Store, today time.Time) (string, bool) {
	if value, ok := dateexpr.Eval(token, today); ok {
		return value, true
	}

	if dot := strings.IndexByte(token, '.'); dot >= 0 {
		namespace := token[:dot]
		key := token[dot+1:]
		if store.HasNamespace(namespace) {
			if value, ok := store.LookupNested(namespace, key); ok {
				return value, true
			}
			logging.FromContext(ctx).WarnContext(ctx, "params: unresolved nested reference, leaving literal",
				"namespace", namespace, "key", key)
			return "", false
		}
	}

	value, ok := store.Lookup(token)
	if !ok {
		logging.FromContext(ctx).WarnContext(ctx, "params: unresolved reference, leaving literal", "name", token)
		return "", false
	}
	return value, true
}
