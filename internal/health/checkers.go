package health

import (
	"context"
	"runtime"
	"time"
)

// ModelState is what ModelsChecker needs from the model loader
type ModelState interface {
	Ready() bool
	Err() error
}

// ModelsChecker reports unhealthy until both networks are loaded
type ModelsChecker struct {
	models ModelState
}

func NewModelsChecker(models ModelState) *ModelsChecker {
	return &ModelsChecker{models: models}
}

func (c *ModelsChecker) Name() string {
	return "models"
}

func (c *ModelsChecker) Check(ctx context.Context) Check {
	check := Check{
		Name:      c.Name(),
		Timestamp: time.Now(),
		Details:   make(map[string]interface{}),
	}

	if c.models == nil || !c.models.Ready() {
		check.Status = StatusUnhealthy
		check.Message = "Models not loaded"
		if c.models != nil {
			if err := c.models.Err(); err != nil {
				check.Details["error"] = err.Error()
			}
		}
		return check
	}

	check.Status = StatusHealthy
	check.Message = "Models loaded"
	return check
}

// SystemChecker reports runtime resource usage. It degrades when the
// goroutine count exceeds MaxGoroutines, if set.
type SystemChecker struct {
	MaxGoroutines int
}

func (c *SystemChecker) Name() string {
	return "system"
}

func (c *SystemChecker) Check(ctx context.Context) Check {
	check := Check{
		Name:      c.Name(),
		Timestamp: time.Now(),
		Details:   make(map[string]interface{}),
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	goroutines := runtime.NumGoroutine()

	check.Details["goroutines"] = goroutines
	check.Details["heap_alloc_bytes"] = mem.HeapAlloc
	check.Details["sys_bytes"] = mem.Sys
	check.Details["num_gc"] = mem.NumGC

	if c.MaxGoroutines > 0 && goroutines > c.MaxGoroutines {
		check.Status = StatusDegraded
		check.Message = "Goroutine count above limit"
		return check
	}

	check.Status = StatusHealthy
	check.Message = "System resources OK"
	return check
}
