package translation

import "fmt"

// Registry stores the backend for every provider variant. It is built once
// at startup and read-only afterwards.
type Registry struct {
	backends map[Provider]Backend
}

func NewRegistry() *Registry {
	return &Registry{backends: make(map[Provider]Backend, len(providerDisplayNames))}
}

// Register adds one backend under its own provider name.
func (r *Registry) Register(backend Backend) error {
	if r == nil {
		return fmt.Errorf("registry is nil")
	}
	if backend == nil {
		return fmt.Errorf("backend is nil")
	}
	name := backend.Name()
	if _, known := providerDisplayNames[name]; !known {
		return fmt.Errorf("backend name %q is not a known provider", name)
	}
	r.backends[name] = backend
	return nil
}

// Backend resolves the backend registered for a provider.
func (r *Registry) Backend(provider Provider) (Backend, error) {
	if r == nil || len(r.backends) == 0 {
		return nil, fmt.Errorf("no translation backends are registered")
	}
	backend, ok := r.backends[provider]
	if !ok {
		return nil, fmt.Errorf("no backend registered for provider %q", provider)
	}
	return backend, nil
}
