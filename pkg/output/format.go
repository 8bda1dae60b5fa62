// Package output provides utilities for formatting and displaying
// optimization results.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iwvelando/refrigerant-blend/internal/blend"
	"github.com/iwvelando/refrigerant-blend/internal/optimizer"
	"github.com/iwvelando/refrigerant-blend/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// JSONFormat writes the result as indented JSON, the machine-readable format.
func JSONFormat(w io.Writer, result *optimizer.Result) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// PrettyFormat writes a human-readable rather than machine-readable summary.
func PrettyFormat(w io.Writer, result *optimizer.Result) {
	p := message.NewPrinter(language.English)
	_, _ = p.Fprintf(w, "Status: %s\n", result.Status)
	if result.TotalCost != nil {
		_, _ = p.Fprintf(w, "Total cost: %.2f\n", *result.TotalCost)
	}
	prettySection(w, p, "Additions", result.Additions)
	prettySection(w, p, "Removals", result.Removals)
	prettySection(w, p, "Extractions", result.Extractions)
	prettySection(w, p, "Final composition", result.FinalComposition)
}

func prettySection(w io.Writer, p *message.Printer, title string, comp blend.Composition) {
	if comp == nil {
		return
	}
	_, _ = fmt.Fprintf(w, "%s:\n", title)
	for _, e := range blend.Elements() {
		_, _ = p.Fprintf(w, "  %s | %.3f kg\n", e, mathutil.Round(comp.Mass(e)))
	}
}
