package funnelenvy

import (
	"context"
	"errors"
	gosync "sync"
)

const (
	Name   = "FunnelEnvy"
	Global = "funnelEnvy"

	IdentifyEvent           = "segment.identify"
	GroupEvent              = "segment.group"
	ActiveVariationEvent    = "backstage.activeVariation"
	VariationActivatedEvent = "Variation Activated"
)

// ErrNotLoaded is returned when a call needs the vendor client before it has loaded.
var ErrNotLoaded = errors.New("funnelenvy: client is not loaded")

type State int

const (
	Uninitialized State = iota
	Loading
	Ready
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

type integrationOptions struct {
	scriptLoader ScriptLoader
	newClient    ClientFactory
	settings     *EmbeddedSettings
}

// IntegrationOption is a functional option for configuring New.
type IntegrationOption func(*integrationOptions)

// WithScriptLoader replaces the HTTPScriptLoader.
func WithScriptLoader(loader ScriptLoader) IntegrationOption {
	return func(o *integrationOptions) {
		o.scriptLoader = loader
	}
}

// WithClientFactory replaces BackstageClientFactory.
func WithClientFactory(factory ClientFactory) IntegrationOption {
	return func(o *integrationOptions) {
		o.newClient = factory
	}
}

// WithEmbeddedSettings lets Register resolve an organization's apiURL from its
// settings file when the host settings do not carry one.
func WithEmbeddedSettings(settings EmbeddedSettings) IntegrationOption {
	return func(o *integrationOptions) {
		o.settings = &settings
	}
}

// Integration translates host calls into FunnelEnvy push events and
// FunnelEnvy active variation messages into host track calls.
// One Integration handles a single load cycle.
type Integration struct {
	options      Options
	analytics    Analytics
	scriptLoader ScriptLoader
	newClient    ClientFactory

	mu     gosync.RWMutex
	state  State
	client Client
	ready  chan struct{}
}

func New(options Options, analytics Analytics, opts ...IntegrationOption) *Integration {
	o := integrationOptions{
		scriptLoader: HTTPScriptLoader{},
		newClient:    BackstageClientFactory,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if analytics == nil {
		analytics = discardAnalytics{}
	}
	return &Integration{
		options:      options,
		analytics:    analytics,
		scriptLoader: o.scriptLoader,
		newClient:    o.newClient,
		ready:        make(chan struct{}),
	}
}

func (f *Integration) Options() Options {
	return f.options
}

func (f *Integration) State() State {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state
}

// Ready is closed once the integration can receive calls.
func (f *Integration) Ready() <-chan struct{} {
	return f.ready
}

// Initialize starts loading FunnelEnvy. Once loaded, the integration listens
// for active variations and signals the host that it is ready.
// Only the first call has any effect.
func (f *Integration) Initialize(ctx context.Context) {
	f.mu.Lock()
	if f.state != Uninitialized {
		f.mu.Unlock()
		return
	}
	f.state = Loading
	f.mu.Unlock()

	f.Load(ctx, func() {
		f.currentClient().AddListener(ActiveVariationEvent, f.activeVariationListener)

		f.mu.Lock()
		f.state = Ready
		f.mu.Unlock()
		close(f.ready)

		f.analytics.Ready(Name)
	})
}

// Loaded reports whether the vendor client is present.
func (f *Integration) Loaded() bool {
	return f.currentClient() != nil
}

// Identify pushes the traits as FunnelEnvy individual attributes.
func (f *Integration) Identify(ctx context.Context, identify Identify) error {
	return f.push(ctx, PushEvent{
		Event:      IdentifyEvent,
		Attributes: map[string]interface{}{"individual": identify.Traits()},
	})
}

// Group pushes the traits as FunnelEnvy account attributes.
func (f *Integration) Group(ctx context.Context, group Group) error {
	return f.push(ctx, PushEvent{
		Event:      GroupEvent,
		Attributes: map[string]interface{}{"account": group.Traits()},
	})
}

// Track proxies the event and its properties directly to FunnelEnvy.
func (f *Integration) Track(ctx context.Context, track Track) error {
	return f.push(ctx, PushEvent{
		Event:      track.Event(),
		Attributes: track.Properties(),
	})
}

func (f *Integration) push(ctx context.Context, event PushEvent) error {
	client := f.currentClient()
	if client == nil {
		return ErrNotLoaded
	}
	return client.Push(ctx, event)
}

func (f *Integration) currentClient() Client {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.client
}

func (f *Integration) setClient(client Client) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.client = client
}

type discardAnalytics struct{}

func (discardAnalytics) Track(event string, properties map[string]interface{}) {}

func (discardAnalytics) Ready(name string) {}
