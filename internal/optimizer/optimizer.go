package optimizer

import (
	"fmt"

	"github.com/iwvelando/refrigerant-blend/internal/blend"
	"go.uber.org/zap"
)

// Optimizer builds and solves the optimization models against an injected set
// of domain tables. It holds no mutable state, so a single Optimizer may
// serve concurrent requests.
type Optimizer struct {
	logger *zap.Logger
	tables blend.Tables
}

// New constructs an Optimizer for the provided tables.
func New(logger *zap.Logger, tables blend.Tables) (*Optimizer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("invalid domain tables: %w", err)
	}
	return &Optimizer{logger: logger, tables: tables}, nil
}

// Run validates the request, solves the model its operation selects, and
// returns the normalized result. Validation failures come back as
// *ValidationError; solver-reported infeasibility or unboundedness is data in
// the result, not an error.
func (o *Optimizer) Run(req Request) (*Result, error) {
	if err := req.Validate(o.tables); err != nil {
		return nil, err
	}

	o.logger.Debug("running optimization",
		zap.String("op", string(req.Operation)),
		zap.Float64("currentMass", req.Initial.TotalMass()),
	)

	switch req.Operation {
	case OperationRefuel:
		return o.refuel(req.Initial, req.Target)
	case OperationNewBlend:
		return o.newBlend(*req.Target)
	default:
		return o.combined(req.Initial, *req.Target)
	}
}

// MaxAdditions returns the per-element cap on a single top-up for the given
// charge. Elements not present get 0.
func (o *Optimizer) MaxAdditions(current blend.Composition) blend.Composition {
	out := make(blend.Composition, len(blend.Elements()))
	for _, e := range blend.Elements() {
		out[e] = current.Mass(e) * o.tables.RefuelCap
	}
	return out
}
