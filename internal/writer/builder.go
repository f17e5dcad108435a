// internal/writer/builder.go
package writer

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	cfg "github.com/tamzrod/twiirl/internal/config"
	wmodbus "github.com/tamzrod/twiirl/internal/writer/modbus"
)

// BuildPlan converts the mirror config into a Plan.
// Assumes config has already passed validation.
func BuildPlan(m cfg.MirrorConfig, slots int) (Plan, error) {
	if m.Endpoint == "" {
		return Plan{}, errors.New("writer: mirror.endpoint required")
	}
	if slots <= 0 {
		return Plan{}, errors.New("writer: at least one slot required")
	}

	return Plan{
		Endpoint: m.Endpoint,
		UnitID:   m.UnitID,
		BaseSlot: m.BaseSlot,
		Slots:    slots,
	}, nil
}

// Build connects the endpoint client and returns a ready Mirror.
// Connection failure is returned; it is up to the caller whether that is fatal.
func Build(m cfg.MirrorConfig, slots int, logger *zap.SugaredLogger) (*Mirror, func() error, error) {
	plan, err := BuildPlan(m, slots)
	if err != nil {
		return nil, nil, err
	}

	c, err := wmodbus.NewEndpointClient(wmodbus.Config{
		Endpoint: m.Endpoint,
		Timeout:  m.Timeout(),
	})
	if err != nil {
		return nil, nil, err
	}

	return New(plan, c, logger), c.Close, nil
}
