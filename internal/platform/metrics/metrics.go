package metrics

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	conflicts       uint64
	rateLimited     uint64
	totalDurationMs uint64

	mu         sync.Mutex
	jobRuns    map[string]uint64
	jobFailure map[string]uint64
}

func New() *Collector {
	return &Collector{
		jobRuns:    map[string]uint64{},
		jobFailure: map[string]uint64{},
	}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	switch {
	case status >= 500:
		atomic.AddUint64(&c.errorRequests, 1)
	case status == http.StatusConflict:
		atomic.AddUint64(&c.conflicts, 1)
	case status == http.StatusTooManyRequests:
		atomic.AddUint64(&c.rateLimited, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) RecordJob(jobType string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.jobRuns[jobType]++
	if err != nil {
		c.jobFailure[jobType]++
	}
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}

	c.mu.Lock()
	jobs := make(map[string]map[string]uint64, len(c.jobRuns))
	for name, runs := range c.jobRuns {
		jobs[name] = map[string]uint64{"runs": runs, "failures": c.jobFailure[name]}
	}
	c.mu.Unlock()

	return map[string]any{
		"requestsTotal":    total,
		"errorsTotal":      atomic.LoadUint64(&c.errorRequests),
		"conflictsTotal":   atomic.LoadUint64(&c.conflicts),
		"rateLimitedTotal": atomic.LoadUint64(&c.rateLimited),
		"avgDurationMs":    avg,
		"totalDurationMs":  totalMs,
		"jobs":             jobs,
	}
}
