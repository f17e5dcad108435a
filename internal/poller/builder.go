// internal/poller/builder.go
package poller

import (
	"time"

	"go.uber.org/zap"

	cfg "github.com/tamzrod/twiirl/internal/config"
	"github.com/tamzrod/twiirl/internal/device"
	"github.com/tamzrod/twiirl/internal/report"
)

// DefaultRumblePulse is how long the connect confirmation rumble lasts.
const DefaultRumblePulse = 200 * time.Millisecond

// Build constructs a Poller from normalized config.
// The service is owned by the poller from here on; Run releases it.
func Build(t cfg.TwiirlConfig, svc device.Service, out *report.Printer, logger *zap.SugaredLogger, observer Observer) (*Poller, error) {
	return New(
		Config{
			Capacity:        t.Capacity,
			FindTimeout:     t.FindTimeout(),
			RumblePulse:     DefaultRumblePulse,
			PerDeviceToggle: t.ToggleScope == cfg.ToggleScopeDevice,
		},
		svc,
		out,
		logger,
		observer,
	)
}
