package workers

import (
	"context"
	"log/slog"
	"time"
)

// Gauge reports how full a bounded queue is.
type Gauge interface {
	Usage() (length, capacity int)
}

type NamedGauge struct {
	Name  string
	Gauge Gauge
}

// QueueUsage is one sample of a queue fill level.
type QueueUsage struct {
	Name     string
	Length   int
	Capacity int
}

// ChannelCapacityWorker periodically samples internal queues and warns when
// one of them is close to full, which is when deliveries start being dropped.
// Reading len and cap of a channel is non-blocking.
type ChannelCapacityWorker struct {
	log                  *slog.Logger
	gauges               []NamedGauge
	metricInterval       time.Duration
	lowCapacityThreshold int
	onSample             func(QueueUsage)
}

func NewChannelCapacityWorker(log *slog.Logger, gauges []NamedGauge,
	metricInterval time.Duration, lowCapacityThreshold int) *ChannelCapacityWorker {
	return &ChannelCapacityWorker{
		log:                  log,
		gauges:               gauges,
		metricInterval:       metricInterval,
		lowCapacityThreshold: lowCapacityThreshold,
	}
}

// OnSample registers a hook called for every sample taken.
func (w *ChannelCapacityWorker) OnSample(fn func(QueueUsage)) *ChannelCapacityWorker {
	w.onSample = fn
	return w
}

func (w *ChannelCapacityWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping capacity sampling")
			return nil
		case <-ticker.C:
			for _, ng := range w.gauges {
				w.check(ng)
			}
		}
	}
}

func (w *ChannelCapacityWorker) check(ng NamedGauge) {
	length, capacity := ng.Gauge.Usage()
	usage := QueueUsage{Name: ng.Name, Length: length, Capacity: capacity}
	if w.onSample != nil {
		w.onSample(usage)
	}
	w.log.Debug("Queue usage", "queue", ng.Name, "length", length, "capacity", capacity)
	if capacity <= 0 {
		// unbuffered
		return
	}
	if left := capacity - length; left <= w.lowCapacityThreshold {
		w.log.Warn("Queue almost full", "queue", ng.Name, "left", left)
	}
}
