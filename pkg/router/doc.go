// Package router computes zero or more destination channels for an
// envelope and forwards it to each. Router is itself a channel.Handler:
// subclasses (PayloadTypeRouter, or a caller-supplied ChannelKeys func)
// supply the candidate keys for an envelope, and the shared resolution
// pipeline turns keys into channels, applies prefix/suffix, tokenizes
// comma-separated strings, flattens nested collections, and falls back to
// defaultOutputChannel when nothing resolves.
//
// Usage:
//
//	r := router.New(registry, router.Config{
//		ChannelMappings:      map[string]string{"orders": "orders-out"},
//		DefaultOutputChannel: "unrouted",
//	}, func(e *envelope.Envelope) ([]interface{}, error) {
//		dest, _ := e.Header("destination")
//		return []interface{}{dest}, nil
//	})
//	err := r.Handle(env)
package router
