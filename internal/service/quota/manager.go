package quota

import (
	"sort"
	"sync"

	"go.uber.org/zap"
)

// DefaultDailyLimit is the YouTube Data API v3 default daily allocation.
const DefaultDailyLimit = 10000

// Usage is a snapshot of the units spent during this run.
type Usage struct {
	Used       int
	DailyLimit int
	Calls      map[string]int // calls per operation
	Failed     int
}

// Percentage returns Used as a share of DailyLimit.
func (u Usage) Percentage() float64 {
	return float64(u.Used) / float64(u.DailyLimit) * 100
}

// Manager tallies YouTube API quota spent by one run. Units are charged
// for failed calls too, since the API bills them.
type Manager struct {
	logger     *zap.Logger
	dailyLimit int

	mu     sync.Mutex
	used   int
	failed int
	calls  map[string]int
	warned bool
}

// NewManager creates a new quota manager
func NewManager(logger *zap.Logger, dailyLimit int) *Manager {
	if dailyLimit <= 0 {
		dailyLimit = DefaultDailyLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Manager{
		logger:     logger,
		dailyLimit: dailyLimit,
		calls:      make(map[string]int),
	}
}

// ObserveCall records the cost of one API call.
func (m *Manager) ObserveCall(operation string, quotaCost int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.used += quotaCost
	m.calls[operation]++
	if err != nil {
		m.failed++
	}

	if m.used > m.dailyLimit && !m.warned {
		m.warned = true
		m.logger.Warn("run exceeded daily quota allocation",
			zap.Int("used", m.used),
			zap.Int("daily_limit", m.dailyLimit),
		)
	}
}

// Usage returns a copy of the current tally.
func (m *Manager) Usage() Usage {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make(map[string]int, len(m.calls))
	for op, n := range m.calls {
		calls[op] = n
	}

	return Usage{
		Used:       m.used,
		DailyLimit: m.dailyLimit,
		Calls:      calls,
		Failed:     m.failed,
	}
}

// LogSummary writes the run's quota usage at info level.
func (m *Manager) LogSummary() {
	u := m.Usage()

	ops := make([]string, 0, len(u.Calls))
	for op := range u.Calls {
		ops = append(ops, op)
	}
	sort.Strings(ops)

	fields := []zap.Field{
		zap.Int("used", u.Used),
		zap.Int("daily_limit", u.DailyLimit),
		zap.Float64("percentage", u.Percentage()),
		zap.Int("failed_calls", u.Failed),
	}
	for _, op := range ops {
		fields = append(fields, zap.Int(op+"_calls", u.Calls[op]))
	}

	m.logger.Info("quota usage", fields...)
}
