package service

import (
	"math/rand/v2"

	"github.com/Gthulhu/fleetsim/simulator/domain"
)

const logEmitProbability = 0.30

// ServiceRegistry holds the service names used for pods and background log noise.
var ServiceRegistry = []string{
	"payment-gateway",
	"auth-service",
	"inventory-db",
	"frontend-ui",
	"analytics-worker",
	"notification-queue",
}

// background noise is INFO/WARN only; ERROR entries come from the thrashing alert
var logTemplates = []struct {
	level   domain.LogLevel
	message string
}{
	{domain.LogLevelInfo, "Health check passed."},
	{domain.LogLevelInfo, "Request processed successfully."},
	{domain.LogLevelWarn, "Response time > 200ms."},
	{domain.LogLevelWarn, "Connection pool reaching limit."},
}

// EmitLog returns at most one background log event for the current tick.
func EmitLog(rnd *rand.Rand) *LogEvent {
	if rnd.Float64() >= logEmitProbability {
		return nil
	}
	svc := ServiceRegistry[rnd.IntN(len(ServiceRegistry))]
	tpl := logTemplates[rnd.IntN(len(logTemplates))]
	return &LogEvent{
		Level:   tpl.level,
		Service: svc,
		Message: tpl.message,
	}
}
