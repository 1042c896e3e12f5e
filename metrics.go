package replay

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/dmitrymomot/replay"

// channelMetrics instruments one channel on the global OTel meter,
// which is a no-op unless an SDK is configured. A nil *channelMetrics
// disables recording entirely, so callers never need to guard calls.
type channelMetrics struct {
	sent     metric.Int64Counter
	received metric.Int64Counter
	attrs    metric.MeasurementOption
}

func newChannelMetrics(name string, logger *slog.Logger, receivers func() int64) *channelMetrics {
	meter := otel.Meter(instrumentationName)
	attrs := metric.WithAttributes(attribute.String("channel", name))

	sent, err := meter.Int64Counter("replay.messages.sent",
		metric.WithDescription("Total messages appended to the channel"))
	if err != nil {
		logger.Warn("replay metrics disabled", slog.Any("error", err))
		return nil
	}

	received, err := meter.Int64Counter("replay.messages.received",
		metric.WithDescription("Total messages delivered across all receivers"))
	if err != nil {
		logger.Warn("replay metrics disabled", slog.Any("error", err))
		return nil
	}

	gauge, err := meter.Int64ObservableGauge("replay.receivers",
		metric.WithDescription("Number of receivers created on the channel"))
	if err == nil {
		_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
			o.ObserveInt64(gauge, receivers(), attrs)
			return nil
		}, gauge)
	}
	if err != nil {
		logger.Warn("replay metrics disabled", slog.Any("error", err))
		return nil
	}

	return &channelMetrics{sent: sent, received: received, attrs: attrs}
}

func (m *channelMetrics) addSent(n int64) {
	if m == nil {
		return
	}
	m.sent.Add(context.Background(), n, m.attrs)
}

func (m *channelMetrics) addReceived(n int64) {
	if m == nil {
		return
	}
	m.received.Add(context.Background(), n, m.attrs)
}
