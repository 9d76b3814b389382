package channel

import "time"

// Config holds defaults for channels constructed by higher-level wiring
// (pkg/bus) rather than directly via NewQueueChannel/NewPriorityChannel.
type Config struct {
	// DefaultCapacity bounds QueueChannel/PriorityChannel size. 0 means
	// unbounded.
	DefaultCapacity int `env:"CHANNEL_DEFAULT_CAPACITY" env-default:"0"`

	// DefaultTimeout is loaded with the configuration but not read by any
	// channel or by pkg/bus: Send and Receive always take an explicit
	// timeout argument.
	DefaultTimeout time.Duration `env:"CHANNEL_DEFAULT_TIMEOUT" env-default:"5s"`
}
