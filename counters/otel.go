package counters

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/emberhttp/ember"

// Register publishes the counters through the globally configured meter
// provider. See RegisterMeter.
func (c *Counters) Register() (metric.Registration, error) {
	return c.RegisterMeter(otel.Meter(meterName))
}

// RegisterMeter publishes the counters as observable instruments on the
// passed meter. Values are read on collection via a snapshot, so the metrics
// pipeline never contends with the hot path beyond the counters' own lock.
func (c *Counters) RegisterMeter(meter metric.Meter) (metric.Registration, error) {
	bytesSent, err := meter.Int64ObservableCounter("ember.bytes.sent",
		metric.WithDescription("Bytes written to client connections"))
	if err != nil {
		return nil, err
	}

	bytesReceived, err := meter.Int64ObservableCounter("ember.bytes.received",
		metric.WithDescription("Bytes read from client connections"))
	if err != nil {
		return nil, err
	}

	totalConnections, err := meter.Int64ObservableCounter("ember.connections.total",
		metric.WithDescription("Connections accepted since startup"))
	if err != nil {
		return nil, err
	}

	activeConnections, err := meter.Int64ObservableUpDownCounter("ember.connections.active",
		metric.WithDescription("Connections currently being served"))
	if err != nil {
		return nil, err
	}

	bufferAllocations, err := meter.Int64ObservableCounter("ember.buffer.allocations",
		metric.WithDescription("Buffer backing stores allocated"))
	if err != nil {
		return nil, err
	}

	bufferReallocations, err := meter.Int64ObservableCounter("ember.buffer.reallocations",
		metric.WithDescription("Buffer backing stores grown"))
	if err != nil {
		return nil, err
	}

	bufferFrees, err := meter.Int64ObservableCounter("ember.buffer.frees",
		metric.WithDescription("Buffer backing stores released"))
	if err != nil {
		return nil, err
	}

	return meter.RegisterCallback(
		func(_ context.Context, o metric.Observer) error {
			snapshot := c.Snapshot()
			o.ObserveInt64(bytesSent, snapshot.BytesSent)
			o.ObserveInt64(bytesReceived, snapshot.BytesReceived)
			o.ObserveInt64(totalConnections, snapshot.TotalConnections)
			o.ObserveInt64(activeConnections, snapshot.ActiveConnections)
			o.ObserveInt64(bufferAllocations, snapshot.BufferAllocations)
			o.ObserveInt64(bufferReallocations, snapshot.BufferReallocations)
			o.ObserveInt64(bufferFrees, snapshot.BufferFrees)
			return nil
		},
		bytesSent, bytesReceived, totalConnections, activeConnections,
		bufferAllocations, bufferReallocations, bufferFrees,
	)
}
