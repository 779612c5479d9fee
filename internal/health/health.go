package health

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Checker is one readiness dependency probe.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// CheckResult is the per-dependency outcome reported by /health/ready.
type CheckResult struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

// ProbeRunner runs every checker with a shared timeout.
type ProbeRunner struct {
	checkers []Checker
	timeout  time.Duration
}

func NewProbeRunner(timeout time.Duration, checkers ...Checker) *ProbeRunner {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &ProbeRunner{checkers: checkers, timeout: timeout}
}

// Ready reports overall readiness plus the individual results.
func (p *ProbeRunner) Ready(ctx context.Context) (bool, []CheckResult) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	ready := true
	results := make([]CheckResult, 0, len(p.checkers))
	for _, c := range p.checkers {
		result := CheckResult{Name: c.Name(), Healthy: true}
		if err := c.Check(ctx); err != nil {
			result.Healthy = false
			result.Error = err.Error()
			ready = false
		}
		results = append(results, result)
	}
	return ready, results
}

type dbChecker struct{ db *gorm.DB }

// NewDBChecker probes the SQL connection pool.
func NewDBChecker(db *gorm.DB) Checker { return &dbChecker{db: db} }

func (c *dbChecker) Name() string { return "postgres" }

func (c *dbChecker) Check(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

type redisChecker struct{ client redis.UniversalClient }

// NewRedisChecker probes the session store connection.
func NewRedisChecker(client redis.UniversalClient) Checker { return &redisChecker{client: client} }

func (c *redisChecker) Name() string { return "redis" }

func (c *redisChecker) Check(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
