package service

import (
	"github.com/devyanshnandeshwar/ghostly-app/internal/logger"
)

// ServiceBase provides naming and logging helpers for services. Lifecycle
// status is tracked by the Manager.
type ServiceBase struct {
	name   string
	logger *logger.Logger
}

// NewServiceBase creates a new service base
func NewServiceBase(name string, log *logger.Logger) *ServiceBase {
	return &ServiceBase{
		name:   name,
		logger: log,
	}
}

// Name returns the service name
func (sb *ServiceBase) Name() string {
	return sb.name
}

// Logger returns the service logger tagged with the service name
func (sb *ServiceBase) Logger() *logger.Logger {
	return sb.logger.WithFields("service", sb.name)
}

// LogInfo logs an info message
func (sb *ServiceBase) LogInfo(msg string, fields ...interface{}) {
	sb.logger.Info(msg, append([]interface{}{"service", sb.name}, fields...)...)
}

// LogError logs an error message
func (sb *ServiceBase) LogError(msg string, err error, fields ...interface{}) {
	allFields := append([]interface{}{"service", sb.name, "error", err}, fields...)
	sb.logger.Error(msg, allFields...)
}

// LogDebug logs a debug message
func (sb *ServiceBase) LogDebug(msg string, fields ...interface{}) {
	sb.logger.Debug(msg, append([]interface{}{"service", sb.name}, fields...)...)
}
