package circuit

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// State represents circuit breaker state
type State int

const (
	StateClosed   State = iota // calls pass through
	StateOpen                  // calls fail fast
	StateHalfOpen              // probing whether the dependency is back
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

var (
	ErrOpen          = errors.New("circuit breaker is open")
	ErrProbeInFlight = errors.New("circuit breaker is probing")
)

// Config defines circuit breaker configuration
type Config struct {
	Threshold        int           // consecutive failures before opening
	Cooldown         time.Duration // time spent open before probing
	SuccessThreshold int           // probe successes needed to close
	MaxProbes        int           // concurrent calls allowed while half-open
}

func DefaultConfig() Config {
	return Config{
		Threshold:        5,
		Cooldown:         30 * time.Second,
		SuccessThreshold: 2,
		MaxProbes:        1,
	}
}

// Snapshot is a point-in-time view of a breaker.
type Snapshot struct {
	Name        string    `json:"name"`
	State       string    `json:"state"`
	Failures    int       `json:"failures"`
	LastFailure time.Time `json:"lastFailure,omitempty"`
}

// Breaker stops calling a dependency after it keeps failing and lets a few probes through
// once the cooldown has passed.
type Breaker struct {
	mu          sync.Mutex
	name        string
	config      Config
	state       State
	failures    int
	successes   int
	probes      int
	lastFailure time.Time
	logger      *zap.Logger
	now         func() time.Time
}

func NewBreaker(name string, config Config, logger *zap.Logger) *Breaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Threshold <= 0 {
		config.Threshold = 1
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = 1
	}
	if config.MaxProbes <= 0 {
		config.MaxProbes = 1
	}

	return &Breaker{
		name:   name,
		config: config,
		state:  StateClosed,
		logger: logger,
		now:    time.Now,
	}
}

// Execute runs fn unless the breaker is open. Errors returned by fn count as failures.
func (b *Breaker) Execute(fn func() error) error {
	if err := b.allow(); err != nil {
		return err
	}

	err := fn()
	b.record(err)
	return err
}

func (b *Breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		if b.now().Sub(b.lastFailure) < b.config.Cooldown {
			return ErrOpen
		}
		b.transitionTo(StateHalfOpen)
		b.probes = 1
		return nil
	case StateHalfOpen:
		if b.probes >= b.config.MaxProbes {
			return ErrProbeInFlight
		}
		b.probes++
		return nil
	default:
		return nil
	}
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateHalfOpen && b.probes > 0 {
		b.probes--
	}

	if err != nil {
		b.failures++
		b.successes = 0
		b.lastFailure = b.now()
		if b.state == StateHalfOpen || b.failures >= b.config.Threshold {
			b.transitionTo(StateOpen)
		}
		return
	}

	b.failures = 0
	if b.state == StateHalfOpen {
		b.successes++
		if b.successes >= b.config.SuccessThreshold {
			b.transitionTo(StateClosed)
		}
	}
}

// transitionTo must be called with mu held
func (b *Breaker) transitionTo(next State) {
	prev := b.state
	b.state = next
	b.probes = 0
	b.successes = 0
	if next == StateClosed {
		b.failures = 0
	}

	b.logger.Warn("Circuit breaker state changed",
		zap.String("name", b.name),
		zap.String("from", prev.String()),
		zap.String("to", next.String()),
		zap.Int("failures", b.failures),
	)
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Ping fails while the breaker is open, so it can be registered as a health check.
func (b *Breaker) Ping() error {
	if b.State() == StateOpen {
		return ErrOpen
	}
	return nil
}

func (b *Breaker) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	return Snapshot{
		Name:        b.name,
		State:       b.state.String(),
		Failures:    b.failures,
		LastFailure: b.lastFailure,
	}
}

// Reset closes the breaker
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.state = StateClosed
	b.failures = 0
	b.successes = 0
	b.probes = 0
}
