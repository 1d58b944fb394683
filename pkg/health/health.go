package health

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
	"time"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// CheckFunc reports a dependency as unhealthy by returning an error.
type CheckFunc func(ctx context.Context) error

// Checks maps a dependency name to its check.
type Checks map[string]CheckFunc

// Result is the outcome of one check.
type Result struct {
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
	Duration string `json:"duration"`
}

// Report is the outcome of a full run.
type Report struct {
	Status string            `json:"status"`
	Checks map[string]Result `json:"checks,omitempty"`
}

// Healthy reports whether every check passed.
func (r Report) Healthy() bool { return r.Status == StatusHealthy }

// Failed returns the names of failing checks in sorted order.
func (r Report) Failed() []string {
	var out []string
	for _, name := range slices.Sorted(maps.Keys(r.Checks)) {
		if r.Checks[name].Status != StatusHealthy {
			out = append(out, name)
		}
	}
	return out
}

// Run executes all checks concurrently, each bounded by timeout.
// A non-positive timeout means 5 seconds.
func Run(ctx context.Context, checks Checks, timeout time.Duration) Report {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	report := Report{Status: StatusHealthy, Checks: make(map[string]Result, len(checks))}
	if len(checks) == 0 {
		return report
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for name, check := range checks {
		wg.Go(func() {
			start := time.Now()
			err := run(ctx, check)
			res := Result{Status: StatusHealthy, Duration: time.Since(start).Round(time.Microsecond).String()}
			if err != nil {
				res.Status = StatusUnhealthy
				res.Error = err.Error()
			}

			mu.Lock()
			report.Checks[name] = res
			if err != nil {
				report.Status = StatusUnhealthy
			}
			mu.Unlock()
		})
	}
	wg.Wait()

	return report
}

func run(ctx context.Context, check CheckFunc) error {
	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- ErrCheckFailed
			}
		}()
		done <- check(ctx)
	}()

	select {
	case err := <-done:
		if err != nil {
			return errors.Join(ErrCheckFailed, err)
		}
		return nil
	case <-ctx.Done():
		return ErrCheckTimeout
	}
}
