package funnelenvy

import (
	"context"
	"fmt"
	"sort"
	gosync "sync"
)

// Identify is the host's identify call.
type Identify interface {
	Traits() map[string]interface{}
}

// Group is the host's group call.
type Group interface {
	Traits() map[string]interface{}
}

// Track is the host's track call.
type Track interface {
	Event() string
	Properties() map[string]interface{}
}

// Analytics is the host pipeline the integration reports back into.
type Analytics interface {
	// Track emits an event into the host pipeline.
	Track(event string, properties map[string]interface{})
	// Ready signals that the named integration can receive calls.
	Ready(name string)
}

// Destination is what the host drives once an integration has been constructed.
type Destination interface {
	Initialize(ctx context.Context)
	Loaded() bool
	Identify(ctx context.Context, identify Identify) error
	Group(ctx context.Context, group Group) error
	Track(ctx context.Context, track Track) error
}

type Constructor func(settings map[string]interface{}, analytics Analytics) (Destination, error)

// Registry holds the integrations available to a host, by name.
type Registry struct {
	mu           gosync.RWMutex
	constructors map[string]Constructor
}

func NewRegistry() *Registry {
	return &Registry{constructors: make(map[string]Constructor)}
}

// Add registers a constructor. Names must be unique.
func (r *Registry) Add(name string, constructor Constructor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.constructors[name]; exists {
		return fmt.Errorf("integration %q is already registered", name)
	}
	r.constructors[name] = constructor
	return nil
}

// New constructs the named integration from host settings.
func (r *Registry) New(name string, settings map[string]interface{}, analytics Analytics) (Destination, error) {
	r.mu.RLock()
	constructor, exists := r.constructors[name]
	r.mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("integration %q is not registered", name)
	}
	return constructor(settings, analytics)
}

// Names returns the registered integration names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.constructors))
	for k := range r.constructors {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Register adds the FunnelEnvy integration to a registry.
func Register(registry *Registry, opts ...IntegrationOption) error {
	return registry.Add(Name, func(settings map[string]interface{}, analytics Analytics) (Destination, error) {
		var o integrationOptions
		for _, opt := range opts {
			opt(&o)
		}
		options, err := ResolveOptions(settings, o.settings)
		if err != nil {
			return nil, fmt.Errorf("invalid %s settings %w", Name, err)
		}
		return New(options, analytics, opts...), nil
	})
}

// Definition describes how the integration is registered with a host.
type Definition struct {
	Name            string
	Global          string // name of the vendor runtime binding, used to prevent duplicate loads
	AssumesPageview bool
	ReadyOnLoad     bool
	Options         Options // defaults
}

func Describe() Definition {
	return Definition{
		Name:            Name,
		Global:          Global,
		AssumesPageview: true,
		ReadyOnLoad:     true,
		Options:         DefaultOptions(),
	}
}
