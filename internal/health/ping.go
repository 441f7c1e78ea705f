package health

import "context"

// HealthPinger is implemented by components that can probe their own
// backend. HealthPing must return nil when the component is reachable.
type HealthPinger interface {
	HealthPing(ctx context.Context) error
}
