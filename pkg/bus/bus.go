package bus

import (
	"github.com/chris-alexander-pop/integration-bus/pkg/channel"
	"github.com/chris-alexander-pop/integration-bus/pkg/logger"
	"github.com/chris-alexander-pop/integration-bus/pkg/registry"
	"github.com/chris-alexander-pop/integration-bus/pkg/router"
)

// Config is the top-level configuration for a Bus, handed to config.Load.
type Config struct {
	Logger   logger.Config   `env-prefix:"BUS_"`
	Channel  channel.Config  `env-prefix:"BUS_"`
	Registry registry.Config `env-prefix:"BUS_"`

	// Instrumented enables the OTel/slog decorator wrappers (InstrumentedChannel,
	// InstrumentedRouter, InstrumentedRegistry) around everything the Bus
	// constructs.
	Instrumented bool `env:"BUS_INSTRUMENTED" env-default:"false"`
}

// Bus owns a ChannelRegistry and the channels/routers declared against it.
// It is the process-wide wiring point a cmd/ entrypoint constructs once.
type Bus struct {
	config   Config
	registry *registry.ChannelRegistry
	resolver router.ChannelResolver
}

// New constructs a Bus: initializes the structured logger and builds an
// empty ChannelRegistry ready for channel declarations.
func New(cfg Config) (*Bus, error) {
	logger.Init(cfg.Logger)

	reg := registry.New(cfg.Registry)

	var resolver router.ChannelResolver = reg
	if cfg.Instrumented {
		resolver = registry.NewInstrumentedRegistry(reg)
	}

	return &Bus{config: cfg, registry: reg, resolver: resolver}, nil
}

// Registry returns the Bus's underlying ChannelRegistry.
func (b *Bus) Registry() *registry.ChannelRegistry { return b.registry }

// wrapChannel applies InstrumentedChannel/Subscribable/Pollable when the
// Bus is configured for instrumentation. Both Instrumented wrapper types
// already satisfy channel.Channel directly, so the capability-specific
// wrapper is simply returned as one.
func (b *Bus) wrapChannel(ch channel.Channel) channel.Channel {
	if !b.config.Instrumented {
		return ch
	}
	if sub, ok := ch.(channel.Subscribable); ok {
		return channel.NewInstrumentedSubscribable(sub)
	}
	if poll, ok := ch.(channel.Pollable); ok {
		return channel.NewInstrumentedPollable(poll)
	}
	return channel.NewInstrumentedChannel(ch)
}

// DeclareDirect creates a DirectChannel, registers it as name's inbound
// binding, and returns it.
func (b *Bus) DeclareDirect(name string) (*channel.DirectChannel, error) {
	ch := channel.NewDirectChannel(name)
	if err := b.registry.Inbound(name, b.wrapChannel(ch)); err != nil {
		return nil, err
	}
	return ch, nil
}

// DeclareQueue creates a QueueChannel (capacity <= 0 uses the Bus's
// Channel.DefaultCapacity, where 0 means unbounded), registers it as
// name's inbound binding, and returns it.
func (b *Bus) DeclareQueue(name string, capacity int) (*channel.QueueChannel, error) {
	if capacity <= 0 {
		capacity = b.config.Channel.DefaultCapacity
	}
	ch := channel.NewQueueChannel(name, capacity)
	if err := b.registry.Inbound(name, b.wrapChannel(ch)); err != nil {
		return nil, err
	}
	return ch, nil
}

// DeclarePriority creates a PriorityChannel, registers it as name's inbound
// binding, and returns it. A nil comparator uses channel.DefaultComparator.
func (b *Bus) DeclarePriority(name string, capacity int, comparator channel.Comparator) (*channel.PriorityChannel, error) {
	if capacity <= 0 {
		capacity = b.config.Channel.DefaultCapacity
	}
	ch := channel.NewPriorityChannel(name, capacity, comparator)
	if err := b.registry.Inbound(name, b.wrapChannel(ch)); err != nil {
		return nil, err
	}
	return ch, nil
}

// NewRouter builds a Router resolving against the Bus's registry
// (wrapped in InstrumentedRegistry and InstrumentedRouter when the Bus is
// configured for instrumentation).
func (b *Bus) NewRouter(config router.Config, keysFor router.ChannelKeysFunc) router.Handler {
	return b.wrapRouter(router.New(b.resolver, config, keysFor))
}

// NewPayloadTypeRouter builds a PayloadTypeRouter resolving against the
// Bus's registry.
func (b *Bus) NewPayloadTypeRouter(config router.Config) router.Handler {
	return b.wrapRouter(router.NewPayloadTypeRouter(b.resolver, config))
}

func (b *Bus) wrapRouter(r *router.Router) router.Handler {
	if !b.config.Instrumented {
		return r
	}
	return router.NewInstrumentedRouter(r, "bus")
}

// Shutdown releases every channel binding the Bus's registry owns.
func (b *Bus) Shutdown() {
	b.registry.Shutdown()
}
