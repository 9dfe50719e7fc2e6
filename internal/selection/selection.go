// Package selection validates a customer's proposed option selection
// against a configurator's compatibility and dependency edges. It is a
// pure function over loaded catalog data and runs synchronously before
// any quote is persisted.
package selection

import "configly/internal/models"

// Selection maps category IDs to the chosen option ID. At most one
// option per category.
type Selection map[uint]uint

// Quantities maps category IDs to the requested quantity. Absent
// categories default to 1.
type Quantities map[uint]int

// Status tags the outcome of a validation.
type Status int

const (
	// Ok means the selection is internally consistent.
	Ok Status = iota
	// Conflict means two selected options carry an incompatibility edge.
	Conflict
	// MissingDependency means a selected option requires an option that
	// is not selected.
	MissingDependency
	// MissingRequired means a required category has no selection.
	MissingRequired
)

// Result is the tagged outcome of Validate. The populated fields depend
// on the status: Conflict fills OptionA/OptionB, MissingDependency fills
// Option/Required, MissingRequired fills CategoryID.
type Result struct {
	Status     Status
	OptionA    uint
	OptionB    uint
	Option     uint
	Required   uint
	CategoryID uint
}

// Validate checks a selection against the given categories (with their
// options and rules preloaded). It reports the first violation found:
// an incompatibility edge between any pair of selected options, then a
// dependency edge whose target is not selected, then a required
// category without a selection. Edges are not transitive-closed; only
// explicitly stored pairs conflict.
func Validate(categories []models.Category, sel Selection) Result {
	options := make(map[uint]*models.Option)
	for ci := range categories {
		for oi := range categories[ci].Options {
			opt := &categories[ci].Options[oi]
			options[opt.ID] = opt
		}
	}

	selected := make(map[uint]bool, len(sel))
	for _, optionID := range sel {
		selected[optionID] = true
	}

	// Incompatibility edges are stored in both directions, so scanning
	// each selected option's own edges covers every pair.
	for _, optionID := range sel {
		opt, ok := options[optionID]
		if !ok {
			continue
		}
		for _, rule := range opt.Rules {
			if rule.Type == models.RuleIncompatible && selected[rule.RelatedOptionID] {
				return Result{Status: Conflict, OptionA: opt.ID, OptionB: rule.RelatedOptionID}
			}
		}
	}

	for _, optionID := range sel {
		opt, ok := options[optionID]
		if !ok {
			continue
		}
		for _, rule := range opt.Rules {
			if rule.Type == models.RuleRequires && !selected[rule.RelatedOptionID] {
				return Result{Status: MissingDependency, Option: opt.ID, Required: rule.RelatedOptionID}
			}
		}
	}

	for _, cat := range categories {
		if cat.IsRequired {
			if _, ok := sel[cat.ID]; !ok {
				return Result{Status: MissingRequired, CategoryID: cat.ID}
			}
		}
	}

	return Result{Status: Ok}
}
