package optimizer

import (
	"errors"
	"testing"

	"github.com/iwvelando/refrigerant-blend/internal/blend"
	"github.com/iwvelando/refrigerant-blend/pkg/testutil"
)

func TestParseOperation(t *testing.T) {
	tests := []struct {
		input     string
		want      Operation
		wantError bool
	}{
		{input: "refuel", want: OperationRefuel},
		{input: "new_blend", want: OperationNewBlend},
		{input: "new-blend", want: OperationNewBlend},
		{input: "optimise_mixture", want: OperationCombined},
		{input: "optimise", want: OperationCombined},
		{input: "auto", want: OperationCombined},
		{input: "drain", wantError: true},
		{input: "", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseOperation(tt.input)
			if tt.wantError {
				if err == nil {
					t.Errorf("ParseOperation(%q) expected error but got none", tt.input)
				}
				return
			}
			if err != nil {
				t.Errorf("ParseOperation(%q) error = %v", tt.input, err)
				return
			}
			if got != tt.want {
				t.Errorf("ParseOperation(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRequestValidate(t *testing.T) {
	tables := blend.DefaultTables()
	charge := blend.Composition{
		blend.ElementA: 40, blend.ElementB: 30, blend.ElementC: 20, blend.ElementD: 10,
	}

	tests := []struct {
		name       string
		request    Request
		wantReason Reason
		wantValid  bool
	}{
		{
			name:      "Refuel without target",
			request:   Request{Operation: OperationRefuel, Initial: charge},
			wantValid: true,
		},
		{
			name:      "Refuel target within cap",
			request:   Request{Operation: OperationRefuel, Initial: charge, Target: testutil.FloatPtr(110)},
			wantValid: true,
		},
		{
			name:      "Refuel target exactly at cap boundary",
			request:   Request{Operation: OperationRefuel, Initial: charge, Target: testutil.FloatPtr(115)},
			wantValid: true,
		},
		{
			name:       "Refuel target above cap",
			request:    Request{Operation: OperationRefuel, Initial: charge, Target: testutil.FloatPtr(115.001)},
			wantReason: ReasonRefuelCapExceeded,
		},
		{
			name:       "Refuel target below current mass",
			request:    Request{Operation: OperationRefuel, Initial: charge, Target: testutil.FloatPtr(90)},
			wantReason: ReasonTargetBelowCurrentMass,
		},
		{
			name:      "Refuel target equal to current mass",
			request:   Request{Operation: OperationRefuel, Initial: charge, Target: testutil.FloatPtr(100)},
			wantValid: true,
		},
		{
			name:       "New blend without target",
			request:    Request{Operation: OperationNewBlend},
			wantReason: ReasonMissingTargetWeight,
		},
		{
			name:       "New blend non-positive target",
			request:    Request{Operation: OperationNewBlend, Target: testutil.FloatPtr(-5)},
			wantReason: ReasonNonPositiveTarget,
		},
		{
			name:      "New blend valid",
			request:   Request{Operation: OperationNewBlend, Target: testutil.FloatPtr(80)},
			wantValid: true,
		},
		{
			name:       "Combined without initial composition",
			request:    Request{Operation: OperationCombined, Target: testutil.FloatPtr(120)},
			wantReason: ReasonMissingInitialComposition,
		},
		{
			name:      "Combined with explicitly empty composition",
			request:   Request{Operation: OperationCombined, Initial: blend.Composition{}, Target: testutil.FloatPtr(120)},
			wantValid: true,
		},
		{
			name:       "Combined without target",
			request:    Request{Operation: OperationCombined, Initial: charge},
			wantReason: ReasonMissingTargetWeight,
		},
		{
			name:       "Combined zero target",
			request:    Request{Operation: OperationCombined, Initial: charge, Target: testutil.FloatPtr(0)},
			wantReason: ReasonNonPositiveTarget,
		},
		{
			name:       "Unknown operation",
			request:    Request{Operation: Operation("drain")},
			wantReason: ReasonUnknownOperation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate(tables)
			if tt.wantValid {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if verr.Reason != tt.wantReason {
				t.Errorf("Validate() reason = %s, want %s", verr.Reason, tt.wantReason)
			}
		})
	}
}
