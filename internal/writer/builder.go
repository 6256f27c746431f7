// internal/writer/builder.go
package writer

import (
	"errors"
	"fmt"
	"time"

	cfg "github.com/tamzrod/ob-reset/internal/config"
	"github.com/tamzrod/ob-reset/internal/status"
	wingest "github.com/tamzrod/ob-reset/internal/writer/ingest"
	wmodbus "github.com/tamzrod/ob-reset/internal/writer/modbus"
)

// BuildPlan lays out one status block per group, back to back from BaseSlot.
// Assumes config has already passed geometry validation.
func BuildPlan(s *cfg.StatusConfig, groups []string) (Plan, error) {
	if s == nil {
		return Plan{}, errors.New("writer: status config required")
	}

	plan := Plan{Endpoint: s.Endpoint}

	for i, g := range groups {
		plan.Status = append(plan.Status, StatusPlan{
			Group:    g,
			UnitID:   s.UnitID,
			BaseSlot: s.BaseSlot + uint16(i*status.SlotsPerGroup),
		})
	}

	if s.MirrorAddress != nil {
		plan.Mirror = &MirrorPlan{
			UnitID:  s.UnitID,
			Address: *s.MirrorAddress,
		}
	}

	return plan, nil
}

// BuildClient opens the transport named by the config.
func BuildClient(s *cfg.StatusConfig) (Client, func() error, error) {
	timeout := time.Duration(s.TimeoutMs) * time.Millisecond

	switch s.Transport {
	case cfg.TransportModbus:
		c, err := wmodbus.NewEndpointClient(wmodbus.Config{
			Endpoint: s.Endpoint,
			Timeout:  timeout,
		})
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil

	case cfg.TransportIngest:
		c, err := wingest.NewEndpointClient(wingest.Config{
			Endpoint: s.Endpoint,
			Timeout:  timeout,
		})
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil

	default:
		return nil, nil, fmt.Errorf("writer: unknown transport %q", s.Transport)
	}
}
