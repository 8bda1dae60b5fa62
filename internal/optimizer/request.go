// Package optimizer turns a refrigerant charge and a target mass into a
// mixed-integer linear program and extracts the minimum-cost plan of
// additions, removals, and fresh extractions.
package optimizer

import (
	"fmt"

	"github.com/iwvelando/refrigerant-blend/internal/blend"
)

// Operation selects which optimization model is built for a request.
type Operation string

const (
	// OperationRefuel tops up an existing charge within the refuel cap.
	OperationRefuel Operation = "refuel"

	// OperationNewBlend designs a fresh blend from scratch.
	OperationNewBlend Operation = "new_blend"

	// OperationCombined jointly optimizes additions, removals, and fresh
	// extractions toward an arbitrary target mass.
	OperationCombined Operation = "optimise_mixture"
)

// ParseOperation maps an operation name onto an Operation. "auto" is an
// explicit alias of the combined operation, not a separate code path.
func ParseOperation(name string) (Operation, error) {
	switch name {
	case "refuel":
		return OperationRefuel, nil
	case "new_blend", "new-blend":
		return OperationNewBlend, nil
	case "optimise_mixture", "optimise", "auto":
		return OperationCombined, nil
	default:
		return "", fmt.Errorf("unknown operation %q", name)
	}
}

// Request describes one optimization invocation. Initial distinguishes nil
// (unknown contents) from an empty map (an explicitly empty vessel); the
// combined operation rejects the former. Target is optional for refuel and
// required otherwise.
type Request struct {
	Operation Operation
	Initial   blend.Composition
	Target    *float64
}
