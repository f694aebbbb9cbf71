package health

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Status represents health check status
type Status int

const (
	StatusUnknown Status = iota
	StatusHealthy
	StatusUnhealthy
	StatusDisabled
)

func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusUnhealthy:
		return "unhealthy"
	case StatusDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// CheckResult represents the result of a health check
type CheckResult struct {
	Name         string
	Status       Status
	Optional     bool
	Latency      time.Duration
	LastCheck    time.Time
	LastError    error
	CheckCount   int
	FailureCount int
}

// Checker interface for health checks
type Checker interface {
	Check(ctx context.Context) CheckResult
}

// PingChecker reports a dependency healthy when its ping succeeds. Optional dependencies
// never make the service unhealthy.
type PingChecker struct {
	Name     string
	Ping     func(ctx context.Context) error
	Optional bool
	Enabled  bool
}

// Check performs the ping
func (c *PingChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	result := CheckResult{
		Name:      c.Name,
		Optional:  c.Optional,
		LastCheck: start,
	}

	if !c.Enabled {
		result.Status = StatusDisabled
		return result
	}
	if c.Ping == nil {
		result.Status = StatusUnhealthy
		return result
	}

	err := c.Ping(ctx)
	result.Latency = time.Since(start)
	if err != nil {
		result.Status = StatusUnhealthy
		result.LastError = err
		return result
	}

	result.Status = StatusHealthy
	return result
}

// Monitor manages health checks for the service's dependencies
type Monitor struct {
	mu       sync.RWMutex
	checkers map[string]Checker
	results  map[string]*CheckResult
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	running  bool
}

// NewMonitor creates a new health monitor
func NewMonitor(interval, timeout time.Duration, logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Monitor{
		checkers: make(map[string]Checker),
		results:  make(map[string]*CheckResult),
		interval: interval,
		timeout:  timeout,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Register adds a dependency check under name
func (m *Monitor) Register(name string, checker Checker) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.checkers[name] = checker

	m.logger.Info("Registered health checker",
		zap.String("name", name),
	)
}

// Start runs the checks in the background every interval
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.running || m.interval <= 0 {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.mu.Unlock()

	go m.runChecks()
}

// Stop stops the health monitor
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	m.running = false
	m.cancel()
}

func (m *Monitor) runChecks() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.CheckAll(m.ctx)

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.CheckAll(m.ctx)
		}
	}
}

// CheckAll runs every registered check now and returns copies of the results.
func (m *Monitor) CheckAll(ctx context.Context) map[string]CheckResult {
	m.mu.RLock()
	checkers := make(map[string]Checker, len(m.checkers))
	for name, checker := range m.checkers {
		checkers[name] = checker
	}
	m.mu.RUnlock()

	out := make(map[string]CheckResult, len(checkers))
	for name, checker := range checkers {
		checkCtx := ctx
		cancel := func() {}
		if m.timeout > 0 {
			checkCtx, cancel = context.WithTimeout(ctx, m.timeout)
		}
		result := checker.Check(checkCtx)
		cancel()
		result.Name = name

		m.mu.Lock()
		if existing, ok := m.results[name]; ok {
			result.CheckCount = existing.CheckCount + 1
			result.FailureCount = existing.FailureCount
		} else {
			result.CheckCount = 1
		}
		if result.Status == StatusUnhealthy {
			result.FailureCount++
		}
		m.results[name] = &result
		m.mu.Unlock()

		if result.Status == StatusUnhealthy {
			m.logger.Warn("Health check failed",
				zap.String("name", name),
				zap.Bool("optional", result.Optional),
				zap.Duration("latency", result.Latency),
				zap.Error(result.LastError),
			)
		}
		out[name] = result
	}
	return out
}

// Healthy reports false when any required dependency is unhealthy.
func Healthy(results map[string]CheckResult) bool {
	for _, r := range results {
		if r.Status == StatusUnhealthy && !r.Optional {
			return false
		}
	}
	return true
}

// GetResult gets the last result recorded for name
func (m *Monitor) GetResult(name string) (*CheckResult, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result, exists := m.results[name]
	if !exists {
		return nil, false
	}
	resultCopy := *result
	return &resultCopy, true
}
