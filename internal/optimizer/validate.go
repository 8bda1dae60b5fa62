package optimizer

import (
	"fmt"

	"github.com/iwvelando/refrigerant-blend/internal/blend"
	"github.com/iwvelando/refrigerant-blend/pkg/constants"
)

// Reason is the closed set of reasons a request can fail validation.
type Reason int

const (
	ReasonUnknownOperation Reason = iota
	ReasonMissingInitialComposition
	ReasonMissingTargetWeight
	ReasonNonPositiveTarget
	ReasonRefuelCapExceeded
	ReasonTargetBelowCurrentMass
)

func (r Reason) String() string {
	switch r {
	case ReasonUnknownOperation:
		return "UnknownOperation"
	case ReasonMissingInitialComposition:
		return "MissingInitialComposition"
	case ReasonMissingTargetWeight:
		return "MissingTargetWeight"
	case ReasonNonPositiveTarget:
		return "NonPositiveTarget"
	case ReasonRefuelCapExceeded:
		return "RefuelCapExceeded"
	case ReasonTargetBelowCurrentMass:
		return "TargetBelowCurrentMass"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// ValidationError reports a precondition failure detected before any model is
// built. The Reason code is stable API; the message is for humans.
type ValidationError struct {
	Reason  Reason
	message string
}

func (e *ValidationError) Error() string {
	return e.message
}

func validationErr(reason Reason, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: reason, message: fmt.Sprintf(format, args...)}
}

// Validate checks the operation-specific preconditions of the request against
// the given tables. It is a pure function of its inputs.
func (r Request) Validate(tables blend.Tables) error {
	switch r.Operation {
	case OperationRefuel:
		return r.validateRefuel(tables)
	case OperationNewBlend:
		return r.validateTarget()
	case OperationCombined:
		if r.Initial == nil {
			return validationErr(ReasonMissingInitialComposition,
				"initial composition is required for %s; use an empty mapping for an empty vessel", OperationCombined)
		}
		return r.validateTarget()
	default:
		return validationErr(ReasonUnknownOperation, "unknown operation %q", r.Operation)
	}
}

func (r Request) validateTarget() error {
	if r.Target == nil {
		return validationErr(ReasonMissingTargetWeight,
			"target weight is required for %s", r.Operation)
	}
	if *r.Target <= 0 {
		return validationErr(ReasonNonPositiveTarget,
			"target weight must be positive, got %v", *r.Target)
	}
	return nil
}

func (r Request) validateRefuel(tables blend.Tables) error {
	if r.Target == nil {
		return nil
	}
	currentMass := r.Initial.TotalMass()
	maxPossible := currentMass * (1 + tables.RefuelCap)
	if *r.Target > maxPossible+constants.ValidationTolerance {
		return validationErr(ReasonRefuelCapExceeded,
			"target weight %v violates the %v%% refuel cap (max %v); use %s instead",
			*r.Target, tables.RefuelCap*100, maxPossible, OperationCombined)
	}
	if *r.Target < currentMass-constants.ValidationTolerance {
		return validationErr(ReasonTargetBelowCurrentMass,
			"target weight %v is below the current mass %v; a top-up cannot shrink the charge",
			*r.Target, currentMass)
	}
	return nil
}
