package component

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrUnknownComponent is returned when a document invokes a component
	// with no registered handler.
	ErrUnknownComponent = errors.New("component: unknown component")
	// ErrDuplicateComponent is returned when a name is registered twice.
	ErrDuplicateComponent = errors.New("component: duplicate component")
	// ErrRegistryFrozen is returned by Register after Freeze.
	ErrRegistryFrozen = errors.New("component: registry is frozen")
	// ErrMissingAttribute is returned by handlers for an absent required
	// attribute.
	ErrMissingAttribute = errors.New("component: missing attribute")
)

// Registry maps component names to handlers.
type Registry struct {
	sync.RWMutex
	handlers map[string]Handler
	frozen   bool
}

// NewRegistry creates an empty, unfrozen registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
	}
}

// Register adds a handler under name.
func (r *Registry) Register(name string, h Handler) error {
	if name == "" || h == nil {
		return fmt.Errorf("component: register needs a name and a handler")
	}
	r.Lock()
	defer r.Unlock()
	if r.frozen {
		return fmt.Errorf("%w: cannot register %q", ErrRegistryFrozen, name)
	}
	if _, ok := r.handlers[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateComponent, name)
	}
	tracer().Debugf("registry stores component %s", name)
	r.handlers[name] = h
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, h Handler) {
	if err := r.Register(name, h); err != nil {
		panic(err)
	}
}

// Lookup returns the handler registered under name.
func (r *Registry) Lookup(name string) (Handler, error) {
	r.RLock()
	defer r.RUnlock()
	h, ok := r.handlers[name]
	if !ok {
		return nil, fmt.Errorf("%w: <%s>", ErrUnknownComponent, name)
	}
	return h, nil
}

// Names returns the registered component names in sorted order.
func (r *Registry) Names() []string {
	r.RLock()
	defer r.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Freeze makes the registry read-only. Freezing twice is a no-op.
func (r *Registry) Freeze() {
	r.Lock()
	defer r.Unlock()
	r.frozen = true
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	r.RLock()
	defer r.RUnlock()
	return r.frozen
}

// Extend returns an unfrozen registry holding the handlers of r, so that
// custom components can be added to a frozen set such as Defaults().
func (r *Registry) Extend() *Registry {
	r.RLock()
	defer r.RUnlock()
	ext := NewRegistry()
	for name, h := range r.handlers {
		ext.handlers[name] = h
	}
	return ext
}

var defaultRegistry *Registry

var defaultRegistryCreation sync.Once

// Defaults returns the frozen registry of built-in components. The registry
// is created once and shared.
func Defaults() *Registry {
	defaultRegistryCreation.Do(func() {
		reg := NewRegistry()
		reg.MustRegister("Attribution", HandlerFunc(renderAttribution))
		reg.MustRegister("TweetEmbed", HandlerFunc(renderTweetEmbed))
		reg.MustRegister("Translations", HandlerFunc(renderTranslations))
		reg.MustRegister("Callout", HandlerFunc(renderCallout))
		reg.Freeze()
		defaultRegistry = reg
	})
	return defaultRegistry
}
