// Package tests holds conformance suites run against every concrete
// channel.Channel implementation, the same "one suite, many adapters"
// pattern pkg/servicemesh/discovery/tests applies to ServiceRegistry
// backends.
package tests

import (
	"testing"
	"time"

	"github.com/chris-alexander-pop/integration-bus/pkg/channel"
	"github.com/chris-alexander-pop/integration-bus/pkg/envelope"
	"github.com/chris-alexander-pop/integration-bus/pkg/test"
)

// ChannelSuite exercises the behavior every channel.Channel must provide
// regardless of dispatch strategy: a Channel wired for consumption
// eventually surfaces what was sent.
type ChannelSuite struct {
	test.Suite
	New  func() (send func(*envelope.Envelope) (bool, error), receive func(time.Duration) (*envelope.Envelope, bool))
	Name string
}

func (s *ChannelSuite) TestSendThenReceiveRoundTrips() {
	send, receive := s.New()
	e := envelope.NewBuilder("payload").Build()

	ok, err := send(e)
	s.NoError(err)
	s.True(ok)

	got, ok := receive(time.Second)
	s.True(ok)
	s.Equal("payload", got.Payload())
}

func TestQueueChannelConformance(t *testing.T) {
	s := &ChannelSuite{Name: "queue"}
	s.New = func() (func(*envelope.Envelope) (bool, error), func(time.Duration) (*envelope.Envelope, bool)) {
		c := channel.NewQueueChannel("conformance-queue", 0)
		send := func(e *envelope.Envelope) (bool, error) { return c.Send(e, time.Second) }
		return send, c.Receive
	}
	test.Run(t, s)
}

func TestPriorityChannelConformance(t *testing.T) {
	s := &ChannelSuite{Name: "priority"}
	s.New = func() (func(*envelope.Envelope) (bool, error), func(time.Duration) (*envelope.Envelope, bool)) {
		c := channel.NewPriorityChannel("conformance-priority", 0, nil)
		send := func(e *envelope.Envelope) (bool, error) { return c.Send(e, time.Second) }
		return send, c.Receive
	}
	test.Run(t, s)
}

func TestDirectChannelConformance(t *testing.T) {
	s := &ChannelSuite{Name: "direct"}
	s.New = func() (func(*envelope.Envelope) (bool, error), func(time.Duration) (*envelope.Envelope, bool)) {
		c := channel.NewDirectChannel("conformance-direct")
		var last *envelope.Envelope
		received := make(chan struct{}, 1)
		c.Subscribe(func(e *envelope.Envelope) error {
			last = e
			select {
			case received <- struct{}{}:
			default:
			}
			return nil
		})
		receive := func(timeout time.Duration) (*envelope.Envelope, bool) {
			select {
			case <-received:
				return last, true
			case <-time.After(timeout):
				return nil, false
			}
		}
		send := func(e *envelope.Envelope) (bool, error) { return c.Send(e, 0) }
		return send, receive
	}
	test.Run(t, s)
}
