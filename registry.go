package chatkit

import (
	"fmt"
	"sync"
)

// ClientRegistry is an explicit, application-scoped registry of named
// chat clients. It replaces ambient package-level registries: create one,
// own its lifecycle, and pass it where clients need resolving.
type ClientRegistry struct {
	mu      sync.RWMutex
	clients map[string]ChatClient
}

// NewClientRegistry creates an empty registry.
func NewClientRegistry() *ClientRegistry {
	return &ClientRegistry{clients: make(map[string]ChatClient)}
}

// Register adds a client under a unique name.
func (r *ClientRegistry) Register(name string, client ChatClient) error {
	if name == "" {
		return fmt.Errorf("%w: client name is empty", ErrInvalidConfig)
	}
	if client == nil {
		return fmt.Errorf("%w: client is nil", ErrInvalidConfig)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.clients[name]; exists {
		return fmt.Errorf("%w: client %q already registered", ErrInvalidConfig, name)
	}

	r.clients[name] = client
	return nil
}

// MustRegister is like Register but panics on error.
func (r *ClientRegistry) MustRegister(name string, client ChatClient) {
	if err := r.Register(name, client); err != nil {
		panic(err)
	}
}

// Get returns a registered client by name.
func (r *ClientRegistry) Get(name string) (ChatClient, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	client, ok := r.clients[name]
	return client, ok
}

// Remove deletes a client by name. Removing an unknown name is a no-op.
func (r *ClientRegistry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, name)
}

// List returns all registered client names.
func (r *ClientRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}
	return names
}

// Clear removes every registered client. Mainly useful for testing.
func (r *ClientRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients = make(map[string]ChatClient)
}
