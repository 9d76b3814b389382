package channel_test

import (
	"sync"
	"testing"
	"time"

	"github.com/chris-alexander-pop/integration-bus/pkg/channel"
	"github.com/chris-alexander-pop/integration-bus/pkg/envelope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueChannel_FIFOOrder(t *testing.T) {
	c := channel.NewQueueChannel("orders", 0)

	for _, p := range []string{"a", "b", "c"} {
		ok, err := c.Send(envelope.NewBuilder(p).Build(), 0)
		require.NoError(t, err)
		require.True(t, ok)
	}

	for _, want := range []string{"a", "b", "c"} {
		e, ok := c.Receive(0)
		require.True(t, ok)
		assert.Equal(t, want, e.Payload())
	}
}

func TestQueueChannel_ReceiveOnEmptyWithZeroTimeoutReturnsImmediately(t *testing.T) {
	c := channel.NewQueueChannel("empty", 0)
	start := time.Now()
	_, ok := c.Receive(0)
	assert.False(t, ok)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestQueueChannel_SendBlocksWhenFullThenUnblocks(t *testing.T) {
	c := channel.NewQueueChannel("bounded", 1)

	ok, err := c.Send(envelope.NewBuilder("first").Build(), 0)
	require.NoError(t, err)
	require.True(t, ok)

	done := make(chan bool, 1)
	go func() {
		ok, _ := c.Send(envelope.NewBuilder("second").Build(), 500*time.Millisecond)
		done <- ok
	}()

	time.Sleep(20 * time.Millisecond)
	e, ok := c.Receive(0)
	require.True(t, ok)
	assert.Equal(t, "first", e.Payload())

	assert.True(t, <-done)
}

func TestQueueChannel_ConcurrentProducersConsumers(t *testing.T) {
	c := channel.NewQueueChannel("work", 0)
	const n = 100

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			ok, err := c.Send(envelope.NewBuilder("x").Build(), -1)
			assert.NoError(t, err)
			assert.True(t, ok)
		}()
	}

	received := 0
	var mu sync.Mutex
	var consumeWg sync.WaitGroup
	consumeWg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer consumeWg.Done()
			_, ok := c.Receive(2 * time.Second)
			if ok {
				mu.Lock()
				received++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	consumeWg.Wait()
	assert.Equal(t, n, received)
	assert.Equal(t, 0, c.Len())
}

func TestQueueChannel_Len(t *testing.T) {
	c := channel.NewQueueChannel("q", 0)
	assert.Equal(t, 0, c.Len())
	_, err := c.Send(envelope.NewBuilder("a").Build(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
}
