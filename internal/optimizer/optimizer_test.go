package optimizer

import (
	"math"
	"reflect"
	"testing"

	"github.com/iwvelando/refrigerant-blend/internal/blend"
	"github.com/iwvelando/refrigerant-blend/pkg/constants"
	"github.com/iwvelando/refrigerant-blend/pkg/testutil"
	"go.uber.org/zap"
)

func newTestOptimizer(t *testing.T, tables blend.Tables) *Optimizer {
	t.Helper()
	opt, err := New(zap.NewNop(), tables)
	if err != nil {
		t.Fatalf("failed to create optimizer: %v", err)
	}
	return opt
}

// assertRatioLocked checks the ratio-lock invariant: every pair of elements
// carrying mass must sit in exact target proportion.
func assertRatioLocked(t *testing.T, comp blend.Composition, ratios blend.RatioVector) {
	t.Helper()
	elems := blend.Elements()
	for i := 0; i < len(elems)-1; i++ {
		for j := i + 1; j < len(elems); j++ {
			mi, mj := comp.Mass(elems[i]), comp.Mass(elems[j])
			if mi <= constants.MassTolerance || mj <= constants.MassTolerance {
				continue
			}
			diff := mi*ratios[elems[j]] - mj*ratios[elems[i]]
			if math.Abs(diff) > constants.MassTolerance {
				t.Errorf("ratio violated for pair (%s, %s): %v vs %v", elems[i], elems[j], mi, mj)
			}
		}
	}
}

func TestRefuelTopsUpToCap(t *testing.T) {
	opt := newTestOptimizer(t, blend.DefaultTables())
	charge := blend.Composition{
		blend.ElementA: 40, blend.ElementB: 30, blend.ElementC: 20, blend.ElementD: 10,
	}

	result, err := opt.Run(Request{Operation: OperationRefuel, Initial: charge})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Status != StatusOptimal {
		t.Fatalf("status = %s, want Optimal", result.Status)
	}

	wantAdditions := blend.Composition{
		blend.ElementA: 6, blend.ElementB: 4.5, blend.ElementC: 3, blend.ElementD: 1.5,
	}
	if !testutil.CompositionsClose(result.Additions, wantAdditions, constants.MassTolerance) {
		t.Errorf("additions = %v, want %v", result.Additions, wantAdditions)
	}

	// No addition may exceed the 15% per-element cap.
	for _, e := range blend.Elements() {
		if result.Additions.Mass(e) > charge.Mass(e)*0.15+constants.MassTolerance {
			t.Errorf("addition for %s exceeds cap: %v", e, result.Additions.Mass(e))
		}
	}

	if result.TotalCost == nil {
		t.Fatal("expected total cost for optimal result")
	}
	if math.Abs(*result.TotalCost-160.5) > constants.MassTolerance {
		t.Errorf("total cost = %v, want 160.5", *result.TotalCost)
	}
	if *result.TotalCost > 200 {
		t.Errorf("total cost = %v, want <= 200", *result.TotalCost)
	}
	if math.Abs(result.FinalComposition.TotalMass()-115) > constants.MassTolerance {
		t.Errorf("final mass = %v, want 115", result.FinalComposition.TotalMass())
	}
}

func TestRefuelExplicitTarget(t *testing.T) {
	opt := newTestOptimizer(t, blend.DefaultTables())
	charge := blend.Composition{
		blend.ElementA: 40, blend.ElementB: 30, blend.ElementC: 20, blend.ElementD: 10,
	}

	result, err := opt.Run(Request{
		Operation: OperationRefuel,
		Initial:   charge,
		Target:    testutil.FloatPtr(110),
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Status != StatusOptimal {
		t.Fatalf("status = %s, want Optimal", result.Status)
	}

	wantAdditions := blend.Composition{
		blend.ElementA: 4, blend.ElementB: 3, blend.ElementC: 2, blend.ElementD: 1,
	}
	if !testutil.CompositionsClose(result.Additions, wantAdditions, constants.MassTolerance) {
		t.Errorf("additions = %v, want %v", result.Additions, wantAdditions)
	}
	if math.Abs(*result.TotalCost-107) > constants.MassTolerance {
		t.Errorf("total cost = %v, want 107", *result.TotalCost)
	}
	if math.Abs(result.FinalComposition.TotalMass()-110) > constants.MassTolerance {
		t.Errorf("final mass = %v, want 110", result.FinalComposition.TotalMass())
	}
}

func TestRefuelTargetAtCapBoundary(t *testing.T) {
	opt := newTestOptimizer(t, blend.DefaultTables())
	charge := blend.Composition{
		blend.ElementA: 40, blend.ElementB: 30, blend.ElementC: 20, blend.ElementD: 10,
	}

	result, err := opt.Run(Request{
		Operation: OperationRefuel,
		Initial:   charge,
		Target:    testutil.FloatPtr(115),
	})
	if err != nil {
		t.Fatalf("Run() error = %v (the exact cap boundary must be accepted)", err)
	}
	if result.Status != StatusOptimal {
		t.Fatalf("status = %s, want Optimal", result.Status)
	}
	if math.Abs(result.FinalComposition.TotalMass()-115) > constants.MassTolerance {
		t.Errorf("final mass = %v, want 115", result.FinalComposition.TotalMass())
	}
}

func TestRefuelEmptyCharge(t *testing.T) {
	opt := newTestOptimizer(t, blend.DefaultTables())

	result, err := opt.Run(Request{Operation: OperationRefuel, Initial: blend.Composition{}})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Status != StatusNothingToRefuel {
		t.Fatalf("status = %s, want %s", result.Status, StatusNothingToRefuel)
	}
	if result.TotalCost == nil || *result.TotalCost != 0 {
		t.Errorf("total cost = %v, want 0", result.TotalCost)
	}
	for _, e := range blend.Elements() {
		if result.Additions.Mass(e) != 0 || result.FinalComposition.Mass(e) != 0 {
			t.Errorf("expected all-zero additions and final composition, got %v / %v",
				result.Additions, result.FinalComposition)
		}
	}
}

func TestRefuelMissingElementIsInfeasible(t *testing.T) {
	// A top-up cannot introduce elements, so a charge missing B and C can
	// never reach the ratio line: the model is infeasible, not an error.
	opt := newTestOptimizer(t, blend.DefaultTables())
	charge := blend.Composition{blend.ElementA: 40, blend.ElementD: 10}

	result, err := opt.Run(Request{Operation: OperationRefuel, Initial: charge})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Status != StatusInfeasible {
		t.Fatalf("status = %s, want Infeasible", result.Status)
	}
	if result.TotalCost != nil {
		t.Error("infeasible result must not carry a cost")
	}
}

func TestNewBlendPicksCheapestElement(t *testing.T) {
	opt := newTestOptimizer(t, blend.DefaultTables())

	result, err := opt.Run(Request{Operation: OperationNewBlend, Target: testutil.FloatPtr(80)})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Status != StatusOptimal {
		t.Fatalf("status = %s, want Optimal", result.Status)
	}

	// C has the lowest extraction cost; the ratio trivially holds among a
	// single selected element, so the whole blend lands there.
	if result.FinalComposition.Mass(blend.ElementC) < 80-constants.MassTolerance {
		t.Errorf("element C mass = %v, want 80", result.FinalComposition.Mass(blend.ElementC))
	}
	for _, e := range []blend.Element{blend.ElementA, blend.ElementB, blend.ElementD} {
		if result.FinalComposition.Mass(e) > constants.PresenceEpsilon {
			t.Errorf("element %s mass = %v, want 0", e, result.FinalComposition.Mass(e))
		}
	}
	if math.Abs(*result.TotalCost-320) > constants.MassTolerance {
		t.Errorf("total cost = %v, want 320", *result.TotalCost)
	}
	assertRatioLocked(t, result.FinalComposition, blend.DefaultTables().Ratios)
}

func TestNewBlendBigMScalesWithTarget(t *testing.T) {
	// With a hardcoded Big-M of 1e5 a 1e7 kg target would corrupt the
	// model; the derived bound keeps the formulation exact at any scale.
	opt := newTestOptimizer(t, blend.DefaultTables())

	result, err := opt.Run(Request{Operation: OperationNewBlend, Target: testutil.FloatPtr(1e7)})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Status != StatusOptimal {
		t.Fatalf("status = %s, want Optimal", result.Status)
	}
	if math.Abs(result.FinalComposition.Mass(blend.ElementC)-1e7) > 1 {
		t.Errorf("element C mass = %v, want 1e7", result.FinalComposition.Mass(blend.ElementC))
	}
	if math.Abs(*result.TotalCost-4e7) > 1 {
		t.Errorf("total cost = %v, want 4e7", *result.TotalCost)
	}
}

func TestCombinedDropsPricierElement(t *testing.T) {
	// Shrinking {60,45,30,15} to 120 kg: removing all 30 kg of C keeps
	// {A,B,D} exactly in 4:3:1 proportion and costs 30·4 = 120, cheaper
	// than the proportional removal of {12,9,6,3} at 159.
	opt := newTestOptimizer(t, blend.DefaultTables())
	charge := blend.Composition{
		blend.ElementA: 60, blend.ElementB: 45, blend.ElementC: 30, blend.ElementD: 15,
	}

	result, err := opt.Run(Request{
		Operation: OperationCombined,
		Initial:   charge,
		Target:    testutil.FloatPtr(120),
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Status != StatusOptimal {
		t.Fatalf("status = %s, want Optimal", result.Status)
	}
	if math.Abs(result.FinalComposition.TotalMass()-120) > constants.MassTolerance {
		t.Errorf("final mass = %v, want 120", result.FinalComposition.TotalMass())
	}
	assertRatioLocked(t, result.FinalComposition, blend.DefaultTables().Ratios)

	if *result.TotalCost > 160 {
		t.Errorf("total cost = %v, want <= 160", *result.TotalCost)
	}
	if math.Abs(*result.TotalCost-120) > constants.MassTolerance {
		t.Errorf("total cost = %v, want 120", *result.TotalCost)
	}

	wantFinal := blend.Composition{
		blend.ElementA: 60, blend.ElementB: 45, blend.ElementC: 0, blend.ElementD: 15,
	}
	if !testutil.CompositionsClose(result.FinalComposition, wantFinal, constants.MassTolerance) {
		t.Errorf("final composition = %v, want %v", result.FinalComposition, wantFinal)
	}
	if math.Abs(result.Removals.Mass(blend.ElementC)-30) > constants.MassTolerance {
		t.Errorf("removal of C = %v, want 30", result.Removals.Mass(blend.ElementC))
	}
}

func TestCombinedEmptyVessel(t *testing.T) {
	// An explicitly empty vessel reduces the combined model to a new
	// blend: additions are capped at zero, so everything comes from fresh
	// extraction of the cheapest element.
	opt := newTestOptimizer(t, blend.DefaultTables())

	result, err := opt.Run(Request{
		Operation: OperationCombined,
		Initial:   blend.Composition{},
		Target:    testutil.FloatPtr(10),
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Status != StatusOptimal {
		t.Fatalf("status = %s, want Optimal", result.Status)
	}
	if math.Abs(result.Extractions.Mass(blend.ElementC)-10) > constants.MassTolerance {
		t.Errorf("extraction of C = %v, want 10", result.Extractions.Mass(blend.ElementC))
	}
	if math.Abs(*result.TotalCost-40) > constants.MassTolerance {
		t.Errorf("total cost = %v, want 40", *result.TotalCost)
	}
	for _, e := range blend.Elements() {
		if math.Abs(result.Additions.Mass(e)) > constants.MassTolerance {
			t.Errorf("addition for %s = %v, want 0 (nothing to top up)", e, result.Additions.Mass(e))
		}
	}
}

func TestCombinedOffRatioCharge(t *testing.T) {
	// {A:10, C:50} to 60 kg: keeping only C (remove 10 A at 5/kg, extract
	// 10 C at 4/kg) costs 90, far below any subset retaining A.
	opt := newTestOptimizer(t, blend.DefaultTables())
	charge := blend.Composition{blend.ElementA: 10, blend.ElementC: 50}

	result, err := opt.Run(Request{
		Operation: OperationCombined,
		Initial:   charge,
		Target:    testutil.FloatPtr(60),
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Status != StatusOptimal {
		t.Fatalf("status = %s, want Optimal", result.Status)
	}
	if math.Abs(result.FinalComposition.TotalMass()-60) > constants.MassTolerance {
		t.Errorf("final mass = %v, want 60", result.FinalComposition.TotalMass())
	}
	assertRatioLocked(t, result.FinalComposition, blend.DefaultTables().Ratios)
	if math.Abs(*result.TotalCost-90) > constants.MassTolerance {
		t.Errorf("total cost = %v, want 90", *result.TotalCost)
	}
}

func TestCombinedUsesCappedAdditionsWhenCheaper(t *testing.T) {
	// With an alternate price table where adding A is far cheaper than
	// extracting it, the solver fills A up to the cap by addition and
	// covers the rest from fresh extraction.
	tables := blend.DefaultTables()
	tables.Prices[blend.ElementA] = blend.Price{Extraction: 100, Addition: 1}
	opt := newTestOptimizer(t, tables)

	charge := blend.Composition{
		blend.ElementA: 40, blend.ElementB: 30, blend.ElementC: 20, blend.ElementD: 10,
	}
	result, err := opt.Run(Request{
		Operation: OperationCombined,
		Initial:   charge,
		Target:    testutil.FloatPtr(115),
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Status != StatusOptimal {
		t.Fatalf("status = %s, want Optimal", result.Status)
	}

	if math.Abs(result.Additions.Mass(blend.ElementA)-6) > constants.MassTolerance {
		t.Errorf("addition for A = %v, want the full cap of 6", result.Additions.Mass(blend.ElementA))
	}
	if result.Extractions.Mass(blend.ElementA) > constants.MassTolerance {
		t.Errorf("fresh extraction of A = %v, want 0", result.Extractions.Mass(blend.ElementA))
	}
	// 6·1 (add A) + 4.5·6 + 3·4 + 1.5·7 (fresh B, C, D)
	if math.Abs(*result.TotalCost-55.5) > constants.MassTolerance {
		t.Errorf("total cost = %v, want 55.5", *result.TotalCost)
	}
	assertRatioLocked(t, result.FinalComposition, tables.Ratios)
}

func TestRunIsIdempotent(t *testing.T) {
	opt := newTestOptimizer(t, blend.DefaultTables())
	req := Request{
		Operation: OperationCombined,
		Initial:   blend.Composition{blend.ElementA: 10, blend.ElementC: 50},
		Target:    testutil.FloatPtr(60),
	}

	first, err := opt.Run(req)
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	second, err := opt.Run(req)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical requests produced different results:\n%+v\n%+v", first, second)
	}
}

func TestMaxAdditions(t *testing.T) {
	opt := newTestOptimizer(t, blend.DefaultTables())
	charge := blend.Composition{
		blend.ElementA: 40, blend.ElementB: 30, blend.ElementC: 20, blend.ElementD: 10,
	}

	want := blend.Composition{
		blend.ElementA: 6, blend.ElementB: 4.5, blend.ElementC: 3, blend.ElementD: 1.5,
	}
	got := opt.MaxAdditions(charge)
	if !testutil.CompositionsClose(got, want, 1e-12) {
		t.Errorf("MaxAdditions() = %v, want %v", got, want)
	}

	empty := opt.MaxAdditions(blend.Composition{})
	for _, e := range blend.Elements() {
		if empty.Mass(e) != 0 {
			t.Errorf("MaxAdditions(empty) has %s = %v, want 0", e, empty.Mass(e))
		}
	}
}
