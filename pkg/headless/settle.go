package headless

import (
	"context"
	"time"
)

// SettlePolicy decides how long to wait for a page to finish background
// activity after navigation or an interaction. Fixed delays are crude but
// predictable; smarter strategies (network-idle detection) plug in here.
type SettlePolicy interface {
	Wait(ctx context.Context, suggested time.Duration)
}

// FixedDelay waits exactly the suggested duration, scaled by Factor when
// set. A cancelled context cuts the wait short.
type FixedDelay struct {
	Factor float64
}

// Wait blocks for the suggested duration or until ctx is cancelled.
func (f FixedDelay) Wait(ctx context.Context, suggested time.Duration) {
	d := suggested
	if f.Factor > 0 {
		d = time.Duration(float64(suggested) * f.Factor)
	}
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
