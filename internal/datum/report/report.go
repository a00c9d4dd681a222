// Package report defines the validation report produced by the datum spec
// validator: individual rule violations with their source locations, and
// the aggregate report the orchestrator consults before handing the schema
// to the code generator.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/datum-lang/datumcheck/internal/datum/ast"
)

// RuleID identifies one rule of the closed Plutus datum legality profile
type RuleID string

const (
	// RuleRawBytesForbidden flags a bare bytes primitive without a custom
	// serializer; on-chain byte data must go through the chunked
	// bounded-byte form.
	RuleRawBytesForbidden RuleID = "RawBytesForbidden"
	// RuleRawTextForbidden flags a text primitive whose owning definition
	// lacks a custom serialize/deserialize pair; the on-chain format has no
	// native text primitive.
	RuleRawTextForbidden RuleID = "RawTextForbidden"
	// RuleMissingNoAliasOnCustomCodec flags a definition with custom codec
	// hooks that does not suppress wrapper-type generation.
	RuleMissingNoAliasOnCustomCodec RuleID = "MissingNoAliasOnCustomCodec"
	// RuleInvalidTagValue flags a tag number outside the legal constructor
	// encodings.
	RuleInvalidTagValue RuleID = "InvalidTagValue"
	// RuleMalformedGenericConstructor flags a generic-tagged value that
	// deviates from the fixed generic constructor wire layout.
	RuleMalformedGenericConstructor RuleID = "MalformedGenericConstructor"
	// RuleUnresolvedReference flags a reference to a type never defined.
	RuleUnresolvedReference RuleID = "UnresolvedReference"
	// RuleCyclicAlias flags a cycle of pure aliases, which would inherit
	// annotations forever.
	RuleCyclicAlias RuleID = "CyclicAlias"
	// RuleEmptyChoice flags a union type with no variants.
	RuleEmptyChoice RuleID = "EmptyChoice"
)

// Violation is a single rule failure attributed to a type definition and,
// when the failure is inside its expression tree, a path to the node
type Violation struct {
	Rule     RuleID             `json:"rule"`
	TypeDef  string             `json:"type"`
	Path     string             `json:"path,omitempty"`
	Message  string             `json:"message"`
	Location ast.SourceLocation `json:"location"`
}

// String returns the single-line rendering of the violation.
func (v Violation) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%d:%d: [%s] %s", v.Location.File, v.Location.Line, v.Location.Column, v.Rule, v.TypeDef)
	if v.Path != "" {
		fmt.Fprintf(&b, " at %s", v.Path)
	}
	fmt.Fprintf(&b, ": %s", v.Message)
	return b.String()
}

// key identifies a violation for deduplication: same rule, same
// definition, same path collapse to one entry.
func (v Violation) key() string {
	return string(v.Rule) + "\x00" + v.TypeDef + "\x00" + v.Path
}

// Report is the ordered, deduplicated sequence of violations for one
// validation run. An empty report authorizes handoff to the generator.
type Report struct {
	violations []Violation
}

// New builds a report from violations already in canonical order
// (definition declaration order, then depth-first node order), dropping
// duplicates while keeping the first occurrence.
func New(violations []Violation) *Report {
	seen := make(map[string]bool, len(violations))
	deduped := make([]Violation, 0, len(violations))
	for _, v := range violations {
		if seen[v.key()] {
			continue
		}
		seen[v.key()] = true
		deduped = append(deduped, v)
	}
	return &Report{violations: deduped}
}

// IsAccepted reports whether the schema passed every rule.
func (r *Report) IsAccepted() bool {
	return len(r.violations) == 0
}

// Violations returns the deduplicated violations in canonical order.
func (r *Report) Violations() []Violation {
	return r.violations
}

// Len returns the number of distinct violations.
func (r *Report) Len() int {
	return len(r.violations)
}

// Format returns one human-readable line per violation.
func (r *Report) Format() []string {
	lines := make([]string, len(r.violations))
	for i, v := range r.violations {
		lines[i] = v.String()
	}
	return lines
}

// ToJSON returns the report as indented JSON for machine consumption.
func (r *Report) ToJSON() (string, error) {
	out := struct {
		Accepted   bool        `json:"accepted"`
		Violations []Violation `json:"violations"`
	}{
		Accepted:   r.IsAccepted(),
		Violations: r.violations,
	}
	bytes, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
