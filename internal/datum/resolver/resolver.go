// Package resolver computes the effective annotation of every type
// definition in a graph. A definition whose root expression is a bare
// reference forwards the annotation of the definition it names, so codec
// hooks attached to an alias flow to the types that merely rename it.
package resolver

import (
	"strings"

	"github.com/datum-lang/datumcheck/internal/datum/ast"
	"github.com/datum-lang/datumcheck/internal/datum/report"
)

// AnnotationTable maps every definition name to its effective annotation.
// Consumers read annotations from here and never re-derive them.
type AnnotationTable map[string]ast.Annotation

// Resolve walks the graph and produces the effective annotation for every
// definition, plus one CyclicAlias violation per pure-alias cycle. It is a
// pure function of the graph: recursion through compound expressions
// (arrays, maps, groups, tagged values, choices) is never followed, only
// chains of bare references.
func Resolve(g *ast.Graph) (AnnotationTable, []report.Violation) {
	r := &state{
		graph: g,
		table: make(AnnotationTable, g.Len()),
		index: make(map[string]int, g.Len()),
	}
	// nil definitions are the parser's contract violation; the graph check
	// reports them, resolution just skips them
	for i, def := range g.Defs() {
		if def != nil {
			r.index[def.Name] = i
		}
	}
	for _, def := range g.Defs() {
		if def != nil {
			r.resolve(def, nil)
		}
	}
	return r.table, r.violations
}

type state struct {
	graph      *ast.Graph
	table      AnnotationTable
	index      map[string]int // declaration order, for canonical cycle attribution
	violations []report.Violation
}

// resolve computes the effective annotation of def, following the chain of
// bare-reference roots. active holds the names on the current chain in
// walk order; meeting one again means a pure-alias cycle.
func (r *state) resolve(def *ast.TypeDef, active []string) ast.Annotation {
	if ann, done := r.table[def.Name]; done {
		return ann
	}
	for _, name := range active {
		if name == def.Name {
			r.reportCycle(active, def.Name)
			// every member of the cycle resolves to no annotation
			for _, member := range active {
				r.table[member] = ast.Annotation{}
			}
			return ast.Annotation{}
		}
	}

	ann := r.effective(def, append(active, def.Name))
	// a cycle deeper in the chain may already have pinned this name
	if pinned, done := r.table[def.Name]; done {
		return pinned
	}
	r.table[def.Name] = ann
	return ann
}

// effective returns def's own annotation, or the one inherited through its
// bare-reference root.
func (r *state) effective(def *ast.TypeDef, active []string) ast.Annotation {
	if !def.Ann.IsZero() {
		return def.Ann
	}
	ref, ok := def.Root.(*ast.Reference)
	if !ok {
		return ast.Annotation{}
	}
	target, ok := r.graph.Lookup(ref.Name)
	if !ok {
		// dangling alias; the rule engine reports the reference itself
		return ast.Annotation{}
	}
	return r.resolve(target, active)
}

// reportCycle emits one CyclicAlias violation for the cycle that closes at
// closing. The violation is attributed to the first-declared member so
// that detection from any entry point produces the same violation and the
// report deduplication collapses them.
func (r *state) reportCycle(active []string, closing string) {
	start := 0
	for i, name := range active {
		if name == closing {
			start = i
			break
		}
	}
	cycle := active[start:]

	canonical := cycle[0]
	canonicalAt := 0
	for i, name := range cycle {
		if r.index[name] < r.index[canonical] {
			canonical = name
			canonicalAt = i
		}
	}
	// rotate so the chain in the message starts at the canonical member
	rotated := make([]string, 0, len(cycle)+1)
	rotated = append(rotated, cycle[canonicalAt:]...)
	rotated = append(rotated, cycle[:canonicalAt]...)
	rotated = append(rotated, canonical)

	def, _ := r.graph.Lookup(canonical)
	loc := ast.SourceLocation{}
	if def != nil {
		loc = def.Loc
	}
	r.violations = append(r.violations, report.Violation{
		Rule:     report.RuleCyclicAlias,
		TypeDef:  canonical,
		Message:  "alias cycle: " + strings.Join(rotated, " -> "),
		Location: loc,
	})
}
