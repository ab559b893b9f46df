package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

const healthCheckTimeout = 3 * time.Second

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// HealthController reports on named dependencies. A nil dependency is
// listed as "not configured" and does not fail the check.
type HealthController struct {
	deps    map[string]Pinger
	version string
}

func NewHealthController(store Pinger, version string) *HealthController {
	return &HealthController{
		deps:    map[string]Pinger{"database": store},
		version: version,
	}
}

// WithDependency adds another component to the health report.
func (h *HealthController) WithDependency(name string, dep Pinger) *HealthController {
	h.deps[name] = dep
	return h
}

// Greeting answers the root path so uptime probes get a cheap 200.
func (h *HealthController) Greeting(c *gin.Context) {
	c.String(http.StatusOK, "Lingua vocabulary server is running")
}

// Status pings every dependency concurrently within healthCheckTimeout.
func (h *HealthController) Status(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	checks := h.runChecks(ctx)
	failing := lo.PickBy(checks, func(_ string, result string) bool {
		return result != "ok" && result != "not configured"
	})

	status, code := "healthy", http.StatusOK
	if len(failing) > 0 {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	c.IndentedJSON(code, HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	})
}

func (h *HealthController) runChecks(ctx context.Context) map[string]string {
	names := lo.Keys(h.deps)

	results := make([]string, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		dep := h.deps[name]
		if dep == nil {
			results[i] = "not configured"
			continue
		}
		wg.Add(1)
		go func(i int, dep Pinger) {
			defer wg.Done()
			if err := dep.Ping(ctx); err != nil {
				results[i] = "error: " + err.Error()
				return
			}
			results[i] = "ok"
		}(i, dep)
	}
	wg.Wait()

	checks := make(map[string]string, len(names))
	for i, name := range names {
		checks[name] = results[i]
	}
	return checks
}
