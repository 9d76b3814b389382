// Package bus wires the channel registry, routers, and channels that make
// up a running integration bus from a single Config, the way pkg/config's
// Load[T] is meant to be consumed by a cmd/ entry point.
//
// Usage:
//
//	var cfg bus.Config
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//	b, err := bus.New(cfg)
package bus
