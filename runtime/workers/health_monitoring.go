package workers

import (
	"chat-hub/contract"
	"context"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/process"
)

// Health is the last sample taken by the HealthMonitoringWorker.
type Health struct {
	Status      string    `json:"status"`
	PID         int32     `json:"pid"`
	CPU         float64   `json:"cpu"`
	RAM         float32   `json:"ram"`
	Goroutines  int       `json:"goroutines"`
	OnlineUsers int       `json:"onlineUsers"`
	SampledAt   time.Time `json:"sampledAt"`
}

// HealthMonitoringWorker periodically samples the server process and its presence registry.
type HealthMonitoringWorker struct {
	mu             sync.RWMutex
	log            *slog.Logger
	registry       contract.IRegistry
	metricInterval time.Duration
	last           Health
}

func NewHealthMonitoringWorker(log *slog.Logger, registry contract.IRegistry, metricInterval time.Duration) *HealthMonitoringWorker {
	return &HealthMonitoringWorker{
		log:            log,
		registry:       registry,
		metricInterval: metricInterval,
		last:           Health{Status: "starting", PID: int32(os.Getpid())},
	}
}

func (w *HealthMonitoringWorker) Run(ctx context.Context) error {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		w.log.Error("Error while retrieving process", "err", err)
		return err
	}
	w.sample(p)

	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping health monitoring")
			return nil
		case <-ticker.C:
			w.sample(p)
		}
	}
}

func (w *HealthMonitoringWorker) sample(p *process.Process) {
	health := Health{
		Status:      "ok",
		PID:         p.Pid,
		Goroutines:  runtime.NumGoroutine(),
		OnlineUsers: len(w.registry.OnlineSet()),
		SampledAt:   time.Now().UTC(),
	}
	cpu, err := p.CPUPercent()
	if err != nil {
		w.log.Error("Error while finding process cpu usage", "err", err)
	}
	ram, err := p.MemoryPercent()
	if err != nil {
		w.log.Error("Error while finding process ram usage", "err", err)
	}
	health.CPU, health.RAM = cpu, ram

	w.mu.Lock()
	w.last = health
	w.mu.Unlock()
	w.log.Debug("Health sampled", "cpu", cpu, "ram", ram, "online", health.OnlineUsers)
}

// Snapshot returns the last sample. The online count is always fresh.
func (w *HealthMonitoringWorker) Snapshot() Health {
	w.mu.RLock()
	health := w.last
	w.mu.RUnlock()
	health.OnlineUsers = len(w.registry.OnlineSet())
	return health
}
