package backend

import (
	"sync"

	"github.com/gogpu/compositor"
)

// registry holds registered device factories.
var (
	registryMu sync.RWMutex
	factories  = make(map[string]DeviceFactory)

	// Priority order for default selection (first available wins).
	priority = []string{BackendWGPU, BackendSoftware}
)

// Register registers a device factory with the given name. This is
// typically called from init() functions in device packages. Registering
// the same name again replaces the previous factory.
func Register(name string, factory DeviceFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[name] = factory
}

// Unregister removes a factory from the registry. Useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// Available returns the registered backend names.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	return names
}

// IsRegistered reports whether a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := factories[name]
	return ok
}

// Get returns a device instance by name, or nil if the backend is not
// registered or unavailable.
func Get(name string) compositor.Device {
	registryMu.RLock()
	defer registryMu.RUnlock()

	factory, ok := factories[name]
	if !ok {
		return nil
	}
	return factory()
}

// Default returns the best available device based on priority, or nil when
// no backend is registered.
func Default() compositor.Device {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range priority {
		if factory, ok := factories[name]; ok {
			if d := factory(); d != nil {
				return d
			}
		}
	}

	// Fallback: first available.
	for _, factory := range factories {
		if d := factory(); d != nil {
			return d
		}
	}
	return nil
}

// MustDefault returns the default device or panics.
func MustDefault() compositor.Device {
	d := Default()
	if d == nil {
		panic("backend: no device available")
	}
	return d
}
