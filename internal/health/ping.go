package health

import "context"

// HealthPinger is implemented by components that can actively probe their
// backing resource, such as a store issuing a round-trip query. A nil return
// means the component is healthy.
type HealthPinger interface {
	HealthPing(ctx context.Context) error
}
