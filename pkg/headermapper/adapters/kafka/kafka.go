// Package kafka adapts headermapper.Mapper to []sarama.RecordHeader, the
// header model used by github.com/IBM/sarama.
package kafka

import (
	"fmt"

	"github.com/IBM/sarama"
	"github.com/chris-alexander-pop/integration-bus/pkg/headermapper"
)

// StandardHeaders is the descriptor for Kafka's conventional record
// metadata, exposed as standard headers for pattern-matching purposes.
var StandardHeaders = headermapper.StandardHeaderDescriptor{
	Prefix:         "kafka_",
	RequestHeaders: []string{"message-id", "correlationId", "partitionKey"},
	ReplyHeaders:   []string{"message-id", "correlationId"},
}

// Headers is a mutable handle around a sarama record header slice. A raw
// []sarama.RecordHeader can't grow in place through WriteOne, since append
// may reallocate, so the adapter operates on a pointer to the slice.
type Headers struct {
	Records *[]sarama.RecordHeader
}

type adapter struct{}

// Adapter is the shared Kafka header adapter instance.
var Adapter headermapper.Adapter[Headers] = adapter{}

func (adapter) ReadAll(native Headers) map[string]interface{} {
	out := make(map[string]interface{}, len(*native.Records))
	for _, h := range *native.Records {
		out[string(h.Key)] = string(h.Value)
	}
	return out
}

func (adapter) WriteOne(native Headers, name string, value interface{}) {
	s, ok := value.(string)
	if !ok {
		s = fmt.Sprint(value)
	}
	*native.Records = append(*native.Records, sarama.RecordHeader{
		Key:   []byte(name),
		Value: []byte(s),
	})
}

// New constructs a Mapper bound to a sarama record header slice using
// StandardHeaders and the shared Adapter.
func New(config headermapper.Config) *headermapper.Mapper[Headers] {
	return headermapper.New(StandardHeaders, Adapter, config)
}
