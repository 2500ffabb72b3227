package health

import (
	"context"
	"sync"
	"time"

	"github.com/devyanshnandeshwar/ghostly-app/internal/logger"
	"github.com/devyanshnandeshwar/ghostly-app/internal/service"
)

// Status represents the health status
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// Check represents a health check
type Check struct {
	Name      string                 `json:"name"`
	Status    Status                 `json:"status"`
	Message   string                 `json:"message,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// ServiceState is the reported state of one managed service
type ServiceState struct {
	Status service.Status `json:"status"`
	Uptime string         `json:"uptime"`
	Error  string         `json:"error,omitempty"`
}

// HealthReport represents the overall health report
type HealthReport struct {
	Status    Status                  `json:"status"`
	Timestamp time.Time               `json:"timestamp"`
	Uptime    string                  `json:"uptime"`
	Checks    map[string]Check        `json:"checks"`
	Services  map[string]ServiceState `json:"services,omitempty"`
}

// Ready reports whether the process should receive traffic
func (r HealthReport) Ready() bool {
	return r.Status != StatusUnhealthy
}

// Checker is an interface for health checkers
type Checker interface {
	Name() string
	Check(ctx context.Context) Check
}

// Manager aggregates registered checkers into a report
type Manager struct {
	logger     *logger.Logger
	checkers   []Checker
	svcManager *service.Manager
	startTime  time.Time
	mu         sync.RWMutex
}

// NewManager creates a new health check manager. svcManager may be nil.
func NewManager(log *logger.Logger, svcManager *service.Manager) *Manager {
	return &Manager{
		logger:     log,
		checkers:   make([]Checker, 0),
		svcManager: svcManager,
		startTime:  time.Now(),
	}
}

// RegisterChecker registers a health checker
func (m *Manager) RegisterChecker(checker Checker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkers = append(m.checkers, checker)
}

// Check performs all health checks. Any unhealthy check makes the report
// unhealthy; otherwise any degraded check makes it degraded.
func (m *Manager) Check(ctx context.Context) HealthReport {
	m.mu.RLock()
	defer m.mu.RUnlock()

	checks := make(map[string]Check, len(m.checkers))
	overall := StatusHealthy

	for _, checker := range m.checkers {
		check := checker.Check(ctx)
		checks[check.Name] = check

		switch check.Status {
		case StatusUnhealthy:
			overall = StatusUnhealthy
		case StatusDegraded:
			if overall == StatusHealthy {
				overall = StatusDegraded
			}
		}
	}

	if overall != StatusHealthy {
		m.logger.Debug("Health check not healthy", "status", overall)
	}

	return HealthReport{
		Status:    overall,
		Timestamp: time.Now(),
		Uptime:    time.Since(m.startTime).Round(time.Second).String(),
		Checks:    checks,
		Services:  m.serviceStates(),
	}
}

func (m *Manager) serviceStates() map[string]ServiceState {
	if m.svcManager == nil {
		return nil
	}

	states := make(map[string]ServiceState)
	for name, status := range m.svcManager.GetAllStatuses() {
		state := ServiceState{
			Status: status.GetStatus(),
			Uptime: status.GetUptime().Round(time.Second).String(),
		}
		if err := status.GetError(); err != nil {
			state.Error = err.Error()
		}
		states[name] = state
	}
	return states
}
