package router

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chris-alexander-pop/integration-bus/pkg/channel"
	"github.com/chris-alexander-pop/integration-bus/pkg/envelope"
	"github.com/chris-alexander-pop/integration-bus/pkg/logger"
	"github.com/chris-alexander-pop/integration-bus/pkg/resilience"
)

// ChannelResolver resolves a channel name to a channel instance. A
// ChannelRegistry implements this capability directly, which is how
// Router, ChannelResolver, and ChannelRegistry avoid a constructor-time
// dependency cycle: the registry is injected by reference after both
// exist.
type ChannelResolver interface {
	Resolve(name string) (channel.Channel, error)
}

// ChannelKeysFunc supplies the raw candidate keys for an envelope. A key
// may be a channel.Channel, a string, a []interface{} of either, or any
// value the configured ConversionFunc can coerce to a string.
type ChannelKeysFunc func(e *envelope.Envelope) ([]interface{}, error)

// Config holds a Router's resolution and delivery policy.
type Config struct {
	// Prefix and Suffix are applied to every string key before it is
	// resolved by name, after ChannelMappings substitution.
	Prefix string
	Suffix string

	// DefaultOutputChannel is used when no destination resolves.
	DefaultOutputChannel string

	// ResolutionRequired: a key that fails to resolve to a channel name
	// fails the whole Handle call instead of being dropped.
	ResolutionRequired bool

	// IgnoreSendFailures: a destination send failure is logged and the
	// loop continues, instead of aborting and propagating.
	IgnoreSendFailures bool

	// ApplySequence stamps correlationId/sequenceNumber/sequenceSize on
	// each outgoing envelope, numbering destinations 1..N.
	ApplySequence bool

	// SendTimeout bounds each destination Send. Zero means unbounded
	// (negative-timeout convention on channel.Channel.Send).
	SendTimeout time.Duration

	// ChannelMappings is a key -> channel-name dictionary consulted
	// before falling back to using the key itself as a channel name.
	ChannelMappings map[string]string

	// DisableDirectChannelNameFallback: when true, a string key absent
	// from ChannelMappings is dropped instead of being resolved as a
	// literal channel name. PayloadTypeRouter forces this on.
	DisableDirectChannelNameFallback bool

	// MaxDestinations caps the number of resolved destinations. Zero
	// means unbounded.
	MaxDestinations int

	// ConversionFunc coerces an unrecognized key type to a string. Nil
	// means no conversion is attempted (ConversionError instead).
	ConversionFunc func(key interface{}) (string, bool)

	// Retry, when non-nil, wraps each destination send.
	Retry *resilience.RetryConfig
	// CircuitBreaker, when non-nil, wraps each destination send, ahead of
	// Retry if both are configured.
	CircuitBreaker *resilience.CircuitBreaker
}

// Handler is the handling capability a Router and its instrumented
// wrapper both expose; a Handler's Handle method satisfies
// channel.Handler directly.
type Handler interface {
	Handle(e *envelope.Envelope) error
}

// Router is a channel.Handler that computes destination channels for an
// envelope via ChannelKeysFunc and the shared resolution pipeline, then
// forwards to each.
type Router struct {
	resolver ChannelResolver
	config   Config
	keysFor  ChannelKeysFunc
}

// New constructs a Router. resolver is typically a *registry.ChannelRegistry.
// A bare Config{} leaves ResolutionRequired false; start from DefaultConfig
// for the strict default.
func New(resolver ChannelResolver, config Config, keysFor ChannelKeysFunc) *Router {
	return &Router{resolver: resolver, config: config, keysFor: keysFor}
}

// DefaultConfig returns a Config with the documented defaults:
// ResolutionRequired true, direct-name fallback enabled, everything else
// zero/unbounded.
func DefaultConfig() Config {
	return Config{ResolutionRequired: true}
}

// Handle resolves destinations for e and forwards to each, per the
// router's configured policy. It satisfies channel.Handler.
func (r *Router) Handle(e *envelope.Envelope) error {
	keys, err := r.keysFor(e)
	if err != nil {
		return err
	}

	destinations, err := r.resolveAll(keys)
	if err != nil {
		return err
	}

	if len(destinations) == 0 {
		return r.fallbackToDefault(e)
	}

	sent, err := r.deliver(e, destinations)
	if err != nil {
		return err
	}
	if !sent {
		return r.fallbackToDefault(e)
	}
	return nil
}

func (r *Router) fallbackToDefault(e *envelope.Envelope) error {
	if r.config.DefaultOutputChannel == "" {
		return ErrDelivery("no destination resolved and no default output channel configured", nil)
	}
	ch, err := r.resolver.Resolve(r.config.DefaultOutputChannel)
	if err != nil {
		return ErrDelivery("default output channel did not resolve: "+r.config.DefaultOutputChannel, err)
	}
	sent, err := r.deliver(e, []channel.Channel{ch})
	if err != nil {
		return err
	}
	if !sent {
		return ErrDelivery("send to default output channel failed: "+r.config.DefaultOutputChannel, nil)
	}
	return nil
}

// deliver forwards source to each destination, stamping sequence headers
// when configured. It reports whether any send succeeded; a non-nil error
// means a send failed with IgnoreSendFailures off and the loop was
// aborted.
func (r *Router) deliver(source *envelope.Envelope, destinations []channel.Channel) (bool, error) {
	n := len(destinations)
	anySucceeded := false

	for i, dest := range destinations {
		out := source
		if r.config.ApplySequence {
			out = envelope.Derive(source).PushSequenceDetails(source.ID(), i+1, n).Build()
		}

		if err := r.send(dest, out); err != nil {
			logger.L().Error("router: destination send failed", "channel", dest.Name(), "error", err)
			if r.config.IgnoreSendFailures {
				continue
			}
			return anySucceeded, ErrDelivery("send to destination failed: "+dest.Name(), err)
		}
		anySucceeded = true
	}

	return anySucceeded, nil
}

func (r *Router) send(dest channel.Channel, e *envelope.Envelope) error {
	// Zero on the router means unbounded, which the channel convention
	// spells as a negative timeout.
	timeout := r.config.SendTimeout
	if timeout == 0 {
		timeout = -1
	}

	doSend := func() error {
		ok, err := dest.Send(e, timeout)
		if err != nil {
			return err
		}
		if !ok {
			return ErrDelivery("send timed out on channel: "+dest.Name(), nil)
		}
		return nil
	}

	if r.config.CircuitBreaker == nil && r.config.Retry == nil {
		return doSend()
	}

	ctx := context.Background()
	if r.config.SendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.SendTimeout)
		defer cancel()
	}

	wrapped := func(context.Context) error { return doSend() }

	if r.config.CircuitBreaker != nil && r.config.Retry != nil {
		return resilience.RetryWithCircuitBreaker(ctx, r.config.CircuitBreaker, *r.config.Retry, wrapped)
	}
	if r.config.CircuitBreaker != nil {
		return r.config.CircuitBreaker.Execute(ctx, wrapped)
	}
	return resilience.Retry(ctx, *r.config.Retry, wrapped)
}

// resolveAll runs the resolution pipeline over every top-level key in
// order, enforcing MaxDestinations. Once the cap is reached, remaining
// top-level keys are dropped silently (this is what gives
// PayloadTypeRouter its "stop at first hit" behavior with max=1). An
// ambiguity error is raised only when a single key's own expansion (a
// comma list or a collection) would by itself push past the remaining
// capacity — the cap is never retroactively violated within one key.
func (r *Router) resolveAll(keys []interface{}) ([]channel.Channel, error) {
	var destinations []channel.Channel
	seen := make(map[string]bool)

	for _, key := range keys {
		if r.config.MaxDestinations > 0 && len(destinations) >= r.config.MaxDestinations {
			break
		}
		group, err := r.resolveKey(key, seen)
		if err != nil {
			return nil, err
		}
		if r.config.MaxDestinations > 0 && len(group) > r.config.MaxDestinations-len(destinations) {
			return nil, ErrAmbiguity(fmt.Sprint(key), r.config.MaxDestinations)
		}
		destinations = append(destinations, group...)
	}
	return destinations, nil
}

// resolveKey implements the per-key resolution pipeline: channel
// instances pass through, collections flatten and recurse,
// comma-separated strings tokenize and recurse, plain strings resolve via
// ChannelMappings then by name, and anything else is coerced via
// ConversionFunc or fails with ConversionError. seen dedupes candidates
// already folded out of a comma-separated token list, per the edge rule
// that a candidate appearing twice via comma-folding is not re-added.
func (r *Router) resolveKey(key interface{}, seen map[string]bool) ([]channel.Channel, error) {
	switch k := key.(type) {
	case nil:
		return nil, nil

	case channel.Channel:
		return []channel.Channel{k}, nil

	case []channel.Channel:
		return k, nil

	case string:
		return r.resolveStringKey(k, seen)

	case []string:
		var out []channel.Channel
		for _, s := range k {
			group, err := r.resolveStringKey(s, seen)
			if err != nil {
				return nil, err
			}
			out = append(out, group...)
		}
		return out, nil

	case []interface{}:
		var out []channel.Channel
		for _, item := range k {
			group, err := r.resolveKey(item, seen)
			if err != nil {
				return nil, err
			}
			out = append(out, group...)
		}
		return out, nil

	default:
		if r.config.ConversionFunc != nil {
			if s, ok := r.config.ConversionFunc(key); ok {
				return r.resolveStringKey(s, seen)
			}
		}
		return nil, ErrConversion(key)
	}
}

func (r *Router) resolveStringKey(raw string, seen map[string]bool) ([]channel.Channel, error) {
	if raw == "" {
		return nil, nil
	}

	if strings.Contains(raw, ",") {
		var out []channel.Channel
		for _, token := range strings.Split(raw, ",") {
			token = strings.TrimSpace(token)
			if token == "" || seen[token] {
				continue
			}
			seen[token] = true
			group, err := r.resolveStringKey(token, seen)
			if err != nil {
				return nil, err
			}
			out = append(out, group...)
		}
		return out, nil
	}

	name, wasMapped := r.config.ChannelMappings[raw]
	if !wasMapped {
		if r.config.DisableDirectChannelNameFallback {
			return nil, nil
		}
		name = raw
	}
	name = r.config.Prefix + name + r.config.Suffix

	ch, err := r.resolver.Resolve(name)
	if err != nil {
		if r.config.ResolutionRequired {
			return nil, ErrResolution(name, err)
		}
		logger.L().Debug("router: unresolved channel name dropped", "name", name)
		return nil, nil
	}
	return []channel.Channel{ch}, nil
}
