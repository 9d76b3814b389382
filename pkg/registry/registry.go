package registry

import (
	"sync"
	"time"

	"github.com/chris-alexander-pop/integration-bus/pkg/channel"
	"github.com/chris-alexander-pop/integration-bus/pkg/envelope"
	"github.com/chris-alexander-pop/integration-bus/pkg/logger"
)

// binding holds the inbound and/or outbound channel registered under a
// single name, plus any tap observers attached to the inbound side and
// the bridge wiring that forwards outbound sends into inbound subscribers
// when both are present.
type binding struct {
	inbound  channel.Channel
	outbound channel.Channel
	taps     []channel.Channel

	bridgeSub  channel.Subscription
	bridgeStop chan struct{}
	bridgeDone chan struct{}
}

// ChannelRegistry is a name-indexed directory of channel bindings. It
// implements router.ChannelResolver, so it can be handed directly to
// router.New as the resolver without either package importing the other's
// concrete type.
type ChannelRegistry struct {
	mu            sync.RWMutex
	bindings      map[string]*binding
	bridgeTimeout time.Duration
}

// Config configures a ChannelRegistry.
type Config struct {
	// BridgeSendTimeout bounds the Send used to forward a bridged
	// outbound message into the paired inbound channel. Zero means
	// try-once, matching channel.Channel.Send's zero-timeout convention.
	BridgeSendTimeout time.Duration `env:"REGISTRY_BRIDGE_SEND_TIMEOUT" env-default:"5s"`
}

// New constructs an empty ChannelRegistry.
func New(config Config) *ChannelRegistry {
	return &ChannelRegistry{
		bindings:      make(map[string]*binding),
		bridgeTimeout: config.BridgeSendTimeout,
	}
}

func (r *ChannelRegistry) bindingFor(name string) *binding {
	b, ok := r.bindings[name]
	if !ok {
		b = &binding{}
		r.bindings[name] = b
	}
	return b
}

// Inbound registers ch as the inbound endpoint for name: resolving name
// delivers to ch (and to any taps attached to name), and if name also has
// an outbound binding, sends into that outbound channel are bridged into
// ch's subscribers.
func (r *ChannelRegistry) Inbound(name string, ch channel.Channel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := r.bindingFor(name)
	if b.inbound != nil {
		return ErrAlreadyBound(name, "inbound")
	}
	if b.outbound == ch {
		return ErrBridgeLoop(name)
	}
	b.inbound = ch

	if b.outbound != nil {
		if err := r.startBridge(name, b); err != nil {
			b.inbound = nil
			return err
		}
	}
	return nil
}

// Outbound registers ch as the outbound endpoint for name: resolving name
// delivers to ch, and if name also has an inbound binding, ch's own sends
// (made directly, not through the registry) are bridged into the inbound
// channel's subscribers.
func (r *ChannelRegistry) Outbound(name string, ch channel.Channel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := r.bindingFor(name)
	if b.outbound != nil {
		return ErrAlreadyBound(name, "outbound")
	}
	if b.inbound == ch {
		return ErrBridgeLoop(name)
	}
	b.outbound = ch

	if b.inbound != nil {
		if err := r.startBridge(name, b); err != nil {
			b.outbound = nil
			return err
		}
	}
	return nil
}

// startBridge wires b.outbound's sends into b.inbound. Assumes r.mu is
// already held. Subscribable outbound channels bridge by subscription;
// Pollable ones bridge via a background relay goroutine, since a Pollable
// channel has no push-dispatch hook to subscribe to.
func (r *ChannelRegistry) startBridge(name string, b *binding) error {
	inbound := b.inbound
	if sub, ok := b.outbound.(channel.Subscribable); ok {
		b.bridgeSub = sub.Subscribe(func(e *envelope.Envelope) error {
			_, err := inbound.Send(e, r.bridgeTimeout)
			return err
		})
		return nil
	}

	if poll, ok := b.outbound.(channel.Pollable); ok {
		b.bridgeStop = make(chan struct{})
		b.bridgeDone = make(chan struct{})
		go r.runBridgeRelay(name, poll, inbound, b.bridgeStop, b.bridgeDone)
		return nil
	}

	return channel.ErrCapabilityMismatch(b.outbound.Name(), "bridged delivery")
}

func (r *ChannelRegistry) runBridgeRelay(name string, source channel.Pollable, dest channel.Channel, stop, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-stop:
			return
		default:
		}
		e, ok := source.Receive(250 * time.Millisecond)
		if !ok {
			continue
		}
		if _, err := dest.Send(e, r.bridgeTimeout); err != nil {
			logger.L().Error("registry: bridge relay send failed", "name", name, "error", err)
		}
	}
}

func (r *ChannelRegistry) stopBridge(b *binding) {
	if b.bridgeSub != nil {
		b.bridgeSub.Unsubscribe()
		b.bridgeSub = nil
	}
	if b.bridgeStop != nil {
		close(b.bridgeStop)
		<-b.bridgeDone
		b.bridgeStop = nil
		b.bridgeDone = nil
	}
}

// Tap attaches tapChannel as an observer of name's inbound binding: every
// message resolved and sent through the registry to name's inbound side
// is also sent to tapChannel, best-effort. Tapping a name with no inbound
// binding fails with an argument error, even if an outbound binding
// exists.
func (r *ChannelRegistry) Tap(name string, tapChannel channel.Channel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bindings[name]
	if !ok || b.inbound == nil {
		return ErrArgument("cannot tap a name with no inbound binding: " + name)
	}
	b.taps = append(b.taps, tapChannel)
	return nil
}

// Unregister releases all bindings, taps, and bridge wiring for name.
func (r *ChannelRegistry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bindings[name]
	if !ok {
		return
	}
	r.stopBridge(b)
	delete(r.bindings, name)
}

// Shutdown releases every registered binding.
func (r *ChannelRegistry) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, b := range r.bindings {
		r.stopBridge(b)
		delete(r.bindings, name)
	}
}

// Resolve implements router.ChannelResolver. It prefers the inbound
// binding (so sends routed by name land on the channel whose subscribers
// taps observe); if only an outbound binding exists, that is returned.
func (r *ChannelRegistry) Resolve(name string) (channel.Channel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bindings[name]
	if !ok {
		return nil, ErrNotFound(name)
	}

	if b.inbound != nil {
		return &tappedChannel{name: name, target: b.inbound, taps: b.taps}, nil
	}
	if b.outbound != nil {
		return b.outbound, nil
	}
	return nil, ErrNotFound(name)
}

// tappedChannel wraps an inbound binding's channel so that every Send
// resolved through the registry also fans out to the binding's taps,
// best-effort, before delivering to the real channel.
type tappedChannel struct {
	name   string
	target channel.Channel
	taps   []channel.Channel
}

func (t *tappedChannel) Name() string { return t.name }

func (t *tappedChannel) Send(e *envelope.Envelope, timeout time.Duration) (bool, error) {
	for _, tap := range t.taps {
		if _, err := tap.Send(e, 0); err != nil {
			logger.L().Warn("registry: tap delivery failed", "name", t.name, "tap", tap.Name(), "error", err)
		}
	}
	return t.target.Send(e, timeout)
}
