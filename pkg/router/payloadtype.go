package router

import (
	"reflect"
	"strings"

	"github.com/chris-alexander-pop/integration-bus/pkg/envelope"
)

// Typed lets a payload supply its own ordered type-candidate list in
// addition to its concrete Go type name. A candidate list should be
// ordered most-specific first: interfaces the type implements, then any
// "parent" type it wraps. This plays the role a runtime class/interface
// hierarchy walk would in a language that has one.
type Typed interface {
	// TypeCandidates returns the ordered type-tag candidates for this
	// value, most specific first.
	TypeCandidates() []string
}

// universalTypeTag is the last-resort candidate every payload matches, the
// analogue of a mapping keyed on the root of a type hierarchy.
const universalTypeTag = "interface{}"

// NewPayloadTypeRouter builds a Router that selects exactly one
// destination by walking the payload's type-candidate list and stopping
// at the first channel-mapping hit. Keys in config.ChannelMappings are
// type tags (Go reflect type strings, or whatever a payload's
// TypeCandidates reports); MaxDestinations is forced to 1 and direct
// channel-name fallback is disabled, so a candidate absent from the
// mapping is skipped rather than treated as a channel name.
func NewPayloadTypeRouter(resolver ChannelResolver, config Config) *Router {
	config.MaxDestinations = 1
	config.DisableDirectChannelNameFallback = true

	return New(resolver, config, func(e *envelope.Envelope) ([]interface{}, error) {
		return typeCandidates(e.Payload()), nil
	})
}

// typeCandidates produces the ordered candidate list for payload's dynamic
// type: the concrete type name first, then any Typed-supplied candidates,
// then the universal fallback tag. Slice and array payloads compute
// candidates on an element and re-append an "[]" suffix to each.
// Candidates already emitted are not re-added.
func typeCandidates(payload interface{}) []interface{} {
	if payload == nil {
		return nil
	}

	t := reflect.TypeOf(payload)
	if t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		v := reflect.ValueOf(payload)
		if v.Len() == 0 {
			return []interface{}{t.Elem().String() + "[]", universalTypeTag + "[]"}
		}
		elemCandidates := typeCandidates(v.Index(0).Interface())
		out := make([]interface{}, 0, len(elemCandidates))
		seen := make(map[string]bool)
		for _, c := range elemCandidates {
			name := c.(string) + "[]"
			if seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, name)
		}
		return out
	}

	seen := make(map[string]bool)
	var out []interface{}
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, name)
	}

	add(goTypeTag(t))
	if typed, ok := payload.(Typed); ok {
		for _, c := range typed.TypeCandidates() {
			add(c)
		}
	}
	add(universalTypeTag)
	return out
}

// goTypeTag formats a reflect.Type as a stable string tag, stripping the
// leading "*" on pointer types so callers can key ChannelMappings by the
// value type regardless of whether the payload happens to be boxed as a
// pointer.
func goTypeTag(t reflect.Type) string {
	s := t.String()
	return strings.TrimPrefix(s, "*")
}
