package health

import (
	"context"
	"time"
)

// Pinger is anything that can report reachability, such as *sql.DB or the redis cache.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc adapts a plain function to Pinger.
type PingFunc func(ctx context.Context) error

// PingContext calls f.
func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

// Service encapsulates health-related checks.
type Service struct {
	checks  map[string]Pinger
	timeout time.Duration
}

// NewService constructs a health service over the named dependencies. Nil entries are
// skipped, so optional components can be passed unconditionally.
func NewService(checks map[string]Pinger) *Service {
	s := &Service{checks: map[string]Pinger{}, timeout: 2 * time.Second}
	for name, p := range checks {
		if p != nil {
			s.checks[name] = p
		}
	}
	return s
}

// Status pings every dependency. ok is false when any of them fails; the map holds
// "ok" or the error text per dependency.
func (s *Service) Status(ctx context.Context) (bool, map[string]string) {
	deps := map[string]string{}
	if s == nil {
		return true, deps
	}
	ok := true
	for name, p := range s.checks {
		pingCtx, cancel := context.WithTimeout(ctx, s.timeout)
		err := p.PingContext(pingCtx)
		cancel()
		if err != nil {
			ok = false
			deps[name] = err.Error()
			continue
		}
		deps[name] = "ok"
	}
	return ok, deps
}
