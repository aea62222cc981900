package value

import "time"

// AcquireParams are passed to a source adapter on every acquisition.
// A zero Timeout means the adapter's own default.
type AcquireParams struct {
	Timeout time.Duration
}
