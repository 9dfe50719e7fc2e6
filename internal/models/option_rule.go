package models

// RuleType distinguishes the two kinds of option edges.
type RuleType string

const (
	// RuleIncompatible edges are stored in both directions so the relation
	// is queryable from either side.
	RuleIncompatible RuleType = "incompatible"
	// RuleRequires edges are directed: the option carrying the edge
	// requires the related option.
	RuleRequires RuleType = "requires"
)

// OptionRule is a directed edge between two options of the same
// configurator. Edges are not transitive-closed.
type OptionRule struct {
	Base
	OptionID        uint     `gorm:"not null;index;uniqueIndex:idx_option_rule_edge" json:"option_id"`
	RelatedOptionID uint     `gorm:"not null;uniqueIndex:idx_option_rule_edge" json:"related_option_id"`
	Type            RuleType `gorm:"not null;uniqueIndex:idx_option_rule_edge" json:"type"`
}
