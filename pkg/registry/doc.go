// Package registry provides the ChannelRegistry: a name-indexed directory
// binding channel names to inbound and outbound endpoints, with tap
// observers and bidirectional bridging. At most one inbound and one
// outbound binding exist per name; when both are registered under the
// same name, an outbound send is routed straight to the inbound binding's
// subscribers rather than requiring a separate transport hop.
//
// ChannelRegistry implements router.ChannelResolver directly, so a Router
// can be constructed with the registry as its resolver without either
// package depending on the other's concrete type — the only shared
// contact point is the small ChannelResolver interface router defines.
package registry
