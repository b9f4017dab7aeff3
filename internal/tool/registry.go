package tool

import "sync"

// Registry is a thread-safe store of tool declarations keyed by name.
type Registry struct {
	mu    sync.RWMutex
	decls map[string]*Declaration
}

// NewRegistry creates an empty registry.
func NewRegistry(decls ...*Declaration) (*Registry, error) {
	r := &Registry{decls: make(map[string]*Declaration, len(decls))}
	for _, d := range decls {
		if err := r.Register(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a declaration, validating it first. A declaration with the
// same name replaces the previous one.
func (r *Registry) Register(d *Declaration) error {
	if err := d.validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decls[d.Name] = d
	return nil
}

// Lookup returns the declaration registered under name.
func (r *Registry) Lookup(name string) (*Declaration, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.decls[name]
	return d, ok
}

// Names returns the registered names; order is unspecified.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.decls))
	for name := range r.decls {
		names = append(names, name)
	}
	return names
}
