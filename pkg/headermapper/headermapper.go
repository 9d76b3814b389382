package headermapper

import (
	"strings"

	"github.com/chris-alexander-pop/integration-bus/pkg/envelope"
	"github.com/chris-alexander-pop/integration-bus/pkg/logger"
)

// StandardHeaderDescriptor enumerates a transport protocol's own reserved
// header names as a static table handed to New, in place of runtime
// discovery from a protocol descriptor.
type StandardHeaderDescriptor struct {
	// Prefix is the protocol's namespace for its own reserved names, e.g.
	// "amqp_" or "kafka_". Mapper does not add it to or strip it from
	// header names; standard names are matched and mapped as listed.
	Prefix string
	// RequestHeaders lists the protocol's standard request header names.
	RequestHeaders []string
	// ReplyHeaders lists the protocol's standard reply header names.
	ReplyHeaders []string
}

// Direction controls which of InboundHeaderNames/OutboundHeaderNames a
// Mapper applies to ToHeaders versus FromHeaders.
type Direction int

const (
	// Inbound mappers use InboundHeaderNames for ToHeaders (native -> envelope)
	// and OutboundHeaderNames for FromHeaders (envelope -> native).
	Inbound Direction = iota
	// Outbound mappers reverse the two: OutboundHeaderNames governs
	// ToHeaders, InboundHeaderNames governs FromHeaders. An adapter that
	// only ever produces outbound messages therefore puts the patterns for
	// FromHeaders, the direction it exercises, in InboundHeaderNames.
	Outbound
)

// Config holds a Mapper's pattern and prefix configuration.
type Config struct {
	// InboundHeaderNames lists glob patterns (or the reserved
	// STANDARD_REQUEST_HEADERS/STANDARD_REPLY_HEADERS tokens) selecting
	// which native headers may be mapped when receiving a message.
	InboundHeaderNames []string
	// OutboundHeaderNames is the same, applied when sending a message.
	OutboundHeaderNames []string
	// UserDefinedHeaderPrefix is prepended to non-standard header names by
	// ToHeaders and stripped from them by FromHeaders. Empty means no prefix.
	UserDefinedHeaderPrefix string
	// Direction selects which pattern list governs ToHeaders vs FromHeaders.
	Direction Direction
}

// Adapter is the transport-specific half of a Mapper: reading and writing
// the native header model T.
type Adapter[T any] interface {
	// ReadAll returns every header name/value pair present on native.
	ReadAll(native T) map[string]interface{}
	// WriteOne sets a single header name/value pair onto native.
	WriteOne(native T, name string, value interface{})
}

// Mapper is a bidirectional translator between Envelope headers and a
// transport's native header model T.
type Mapper[T any] struct {
	desc   StandardHeaderDescriptor
	adapt  Adapter[T]
	config Config
}

// New constructs a Mapper. desc seeds the standard request/reply header
// lists consulted by the STANDARD_REQUEST_HEADERS/STANDARD_REPLY_HEADERS
// pattern tokens.
func New[T any](desc StandardHeaderDescriptor, adapt Adapter[T], config Config) *Mapper[T] {
	return &Mapper[T]{desc: desc, adapt: adapt, config: config}
}

func (m *Mapper[T]) patternsFor(forToHeaders bool) []string {
	if forToHeaders == (m.config.Direction == Inbound) {
		return m.config.InboundHeaderNames
	}
	return m.config.OutboundHeaderNames
}

// included applies the pattern-matching rules in order: skip transient
// names, then glob match, then STANDARD_REQUEST_HEADERS, then
// STANDARD_REPLY_HEADERS, else exclude.
func (m *Mapper[T]) included(name string, patterns []string) bool {
	if name == "" || envelope.IsTransient(name) {
		return false
	}
	for _, p := range patterns {
		if matchesGlob(p, name) {
			return true
		}
	}
	if containsCI(patterns, TokenStandardRequestHeaders) && containsCI(m.desc.RequestHeaders, name) {
		return true
	}
	if containsCI(patterns, TokenStandardReplyHeaders) && containsCI(m.desc.ReplyHeaders, name) {
		return true
	}
	return false
}

func (m *Mapper[T]) isStandard(name string) bool {
	return containsCI(m.desc.RequestHeaders, name) || containsCI(m.desc.ReplyHeaders, name)
}

// ToHeaders extracts standard and user-defined headers from source,
// applying UserDefinedHeaderPrefix to non-standard names, and returns them
// as Envelope headers. Individual header failures are logged and skipped,
// never aborting the overall map.
func (m *Mapper[T]) ToHeaders(source T) map[string]interface{} {
	patterns := m.patternsFor(true)
	native := m.adapt.ReadAll(source)

	out := make(map[string]interface{}, len(native))
	for name, value := range native {
		if !m.included(name, patterns) {
			continue
		}
		key := name
		if !m.isStandard(name) && m.config.UserDefinedHeaderPrefix != "" {
			key = m.config.UserDefinedHeaderPrefix + name
		}
		if _, exists := out[key]; exists {
			logger.L().Warn("header mapper: duplicate key after prefix application, skipping", "name", name, "key", key)
			continue
		}
		out[key] = value
	}
	return out
}

// FromHeaders populates standard and user-defined headers on target from
// the envelope's header set, applying UserDefinedHeaderPrefix to
// non-standard names in reverse (stripping it before the native write).
func (m *Mapper[T]) FromHeaders(headers map[string]interface{}, target T) {
	patterns := m.patternsFor(false)

	for name, value := range headers {
		if !m.included(name, patterns) {
			continue
		}
		nativeName := name
		if !m.isStandard(name) && m.config.UserDefinedHeaderPrefix != "" {
			nativeName = strings.TrimPrefix(name, m.config.UserDefinedHeaderPrefix)
		}
		m.adapt.WriteOne(target, nativeName, value)
	}
}
