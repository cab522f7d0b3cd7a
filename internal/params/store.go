// Package params implements the layered parameter store (workflow-global,
// per-task, runtime-override) and the "${name}" template resolver that
// expands references against it.
package params

// Store is an ordered stack of key→value scopes. Index 0 has the highest
// precedence; Lookup returns the first match walking scopes in order.
// A Store also carries named "nested" namespaces (currently only
// "params") used by the two-level params.<name> accessor grammar.
type Store struct {
	scopes []map[string]string
	nested map[string]map[string]string
}

// New builds a Store from scopes in precedence order, highest first. Nil
// maps are treated as empty.
func New(scopes ...map[string]string) *Store {
	s := &Store{nested: make(map[string]map[string]string)}
	for _, scope := range scopes {
		if scope == nil {
			scope = map[string]string{}
		}
		s.scopes = append(s.scopes, scope)
	}
	return s
}

// Lookup returns the value for name from the first scope that defines it.
func (s *Store) Lookup(name string) (string, bool) {
	for _, scope := range s.scopes {
		if v, ok := scope[name]; ok {
			return v, true
		}
	}
	return "", false
}

// WithOverlay returns a new Store with scope prepended as the new
// highest-precedence layer. The receiver is not modified.
func (s *Store) WithOverlay(scope map[string]string) *Store {
	out := &Store{
		scopes: append([]map[string]string{scope}, s.scopes...),
		nested: cloneNested(s.nested),
	}
	return out
}

// WithNested attaches (or replaces) a named nested namespace, e.g. "params",
// used by the <namespace>.<key> accessor grammar. Returns a new Store; the
// receiver is not modified.
func (s *Store) WithNested(namespace string, values map[string]string) *Store {
	out := &Store{
		scopes: s.scopes,
		nested: cloneNested(s.nested),
	}
	out.nested[namespace] = values
	return out
}

// LookupNested returns the value of key within the given namespace.
func (s *Store) LookupNested(namespace, key string) (string, bool) {
	ns, ok := s.nested[namespace]
	if !ok {
		return "", false
	}
	v, ok := ns[key]
	return v, ok
}

// HasNamespace reports whether namespace has been registered via
// WithNested.
func (s *Store) HasNamespace(namespace string) bool {
	_, ok := s.nested[namespace]
	return ok
}

func cloneNested(in map[string]map[string]string) map[string]map[string]string {
	out := make(map[string]map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
