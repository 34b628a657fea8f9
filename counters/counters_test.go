package counters

import (
	"sync"
	"testing"

	"github.com/emberhttp/ember/internal/buffer"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	c := New()

	c.ConnectionOpened()
	c.ConnectionOpened()
	c.ConnectionClosed()
	c.AddBytesSent(100)
	c.AddBytesSent(50)
	c.AddBytesReceived(30)

	snapshot := c.Snapshot()
	require.EqualValues(t, 2, snapshot.TotalConnections)
	require.EqualValues(t, 1, snapshot.ActiveConnections)
	require.EqualValues(t, 150, snapshot.BytesSent)
	require.EqualValues(t, 30, snapshot.BytesReceived)
}

func TestCounters_NilReceiver(t *testing.T) {
	var c *Counters

	require.NotPanics(t, func() {
		c.ConnectionOpened()
		c.ConnectionClosed()
		c.AddBytesSent(1)
		c.AddBytesReceived(1)
		c.BufferAllocated(256)
		c.BufferReallocated(512)
		c.BufferFreed()
	})
	require.Zero(t, c.Snapshot())
}

func TestCounters_RecordsBufferTraffic(t *testing.T) {
	c := New()
	b := buffer.Observed(c)

	b.AppendString("hello")
	for b.Cap() <= 256 {
		b.AppendString("grow past the first power of two")
	}
	b.Free()

	snapshot := c.Snapshot()
	require.EqualValues(t, 1, snapshot.BufferAllocations)
	require.NotZero(t, snapshot.BufferReallocations)
	require.EqualValues(t, 1, snapshot.BufferFrees)
	require.NotZero(t, snapshot.BufferBytesReallocated)
}

func TestCounters_Concurrent(t *testing.T) {
	c := New()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				c.ConnectionOpened()
				c.AddBytesReceived(1)
				c.AddBytesSent(2)
				c.ConnectionClosed()
			}
		}()
	}
	wg.Wait()

	snapshot := c.Snapshot()
	require.EqualValues(t, 8000, snapshot.TotalConnections)
	require.Zero(t, snapshot.ActiveConnections)
	require.EqualValues(t, 8000, snapshot.BytesReceived)
	require.EqualValues(t, 16000, snapshot.BytesSent)
}
