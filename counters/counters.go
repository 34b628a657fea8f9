// Package counters holds the optional observational counters of a server:
// byte and connection totals plus buffer memory traffic. The counters never
// influence behavior, they only report it. A nil *Counters is a valid
// receiver everywhere, so callers can stay unconditional.
package counters

import (
	"sync"
)

type Counters struct {
	mu sync.Mutex

	bytesSent     int64
	bytesReceived int64

	totalConnections  int64
	activeConnections int64

	bufferAllocations      int64
	bufferReallocations    int64
	bufferFrees            int64
	bufferBytesReallocated int64
}

// Snapshot is a consistent copy of all counters taken under one lock.
type Snapshot struct {
	BytesSent     int64
	BytesReceived int64

	TotalConnections  int64
	ActiveConnections int64

	BufferAllocations      int64
	BufferReallocations    int64
	BufferFrees            int64
	BufferBytesReallocated int64
}

func New() *Counters {
	return &Counters{}
}

func (c *Counters) AddBytesSent(n int) {
	if c == nil {
		return
	}

	c.mu.Lock()
	c.bytesSent += int64(n)
	c.mu.Unlock()
}

func (c *Counters) AddBytesReceived(n int) {
	if c == nil {
		return
	}

	c.mu.Lock()
	c.bytesReceived += int64(n)
	c.mu.Unlock()
}

func (c *Counters) ConnectionOpened() {
	if c == nil {
		return
	}

	c.mu.Lock()
	c.totalConnections++
	c.activeConnections++
	c.mu.Unlock()
}

func (c *Counters) ConnectionClosed() {
	if c == nil {
		return
	}

	c.mu.Lock()
	c.activeConnections--
	c.mu.Unlock()
}

// BufferAllocated implements buffer.Recorder.
func (c *Counters) BufferAllocated(capacity int) {
	if c == nil {
		return
	}

	c.mu.Lock()
	c.bufferAllocations++
	c.bufferBytesReallocated += int64(capacity)
	c.mu.Unlock()
}

// BufferReallocated implements buffer.Recorder.
func (c *Counters) BufferReallocated(capacity int) {
	if c == nil {
		return
	}

	c.mu.Lock()
	c.bufferReallocations++
	c.bufferBytesReallocated += int64(capacity)
	c.mu.Unlock()
}

// BufferFreed implements buffer.Recorder.
func (c *Counters) BufferFreed() {
	if c == nil {
		return
	}

	c.mu.Lock()
	c.bufferFrees++
	c.mu.Unlock()
}

func (c *Counters) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		BytesSent:              c.bytesSent,
		BytesReceived:          c.bytesReceived,
		TotalConnections:       c.totalConnections,
		ActiveConnections:      c.activeConnections,
		BufferAllocations:      c.bufferAllocations,
		BufferReallocations:    c.bufferReallocations,
		BufferFrees:            c.bufferFrees,
		BufferBytesReallocated: c.bufferBytesReallocated,
	}
}
