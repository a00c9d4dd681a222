// Package rules applies the closed set of Plutus datum legality rules to a
// type-definition graph. Every rule runs against every reachable node; the
// engine accumulates violations instead of short-circuiting, so one run
// reports everything the schema author has to fix.
package rules

import (
	"fmt"

	"github.com/datum-lang/datumcheck/internal/datum/ast"
	"github.com/datum-lang/datumcheck/internal/datum/report"
	"github.com/datum-lang/datumcheck/internal/datum/resolver"
)

// Engine validates one type graph against the datum legality profile
type Engine struct {
	graph *ast.Graph

	// Effective annotations from the alias resolver; rules read these and
	// never re-derive annotation inheritance.
	annotations resolver.AnnotationTable

	// CyclicAlias violations from the resolver, indexed by definition name
	// so they slot into the canonical violation order.
	aliasViolations map[string][]report.Violation
}

// NewEngine builds an engine for the graph, running alias resolution up
// front.
func NewEngine(g *ast.Graph) *Engine {
	annotations, cyclic := resolver.Resolve(g)
	byDef := make(map[string][]report.Violation)
	for _, v := range cyclic {
		byDef[v.TypeDef] = append(byDef[v.TypeDef], v)
	}
	return &Engine{
		graph:           g,
		annotations:     annotations,
		aliasViolations: byDef,
	}
}

// Validate runs every rule against every definition and returns the full
// report. The only error condition is a malformed graph handed over by the
// upstream parser; schema defects always come back as violations.
func (e *Engine) Validate() (*report.Report, error) {
	if err := e.graph.Check(); err != nil {
		return nil, err
	}

	var violations []report.Violation
	for _, def := range e.graph.Defs() {
		violations = append(violations, e.aliasViolations[def.Name]...)
		violations = append(violations, e.checkDef(def)...)
	}
	return report.New(violations), nil
}

// Validate is the package-level convenience entry point: build an engine,
// run it once, discard it.
func Validate(g *ast.Graph) (*report.Report, error) {
	return NewEngine(g).Validate()
}

// checkDef validates one definition: its annotation contract, then every
// node of its expression tree in depth-first order.
func (e *Engine) checkDef(def *ast.TypeDef) []report.Violation {
	var out []report.Violation
	out = append(out, e.checkAnnotation(def)...)
	e.walk(def, def.Root, "", &out)
	return out
}

// walk visits expr and its children depth-first, applying the node-level
// rules at every position. References are validated in their own
// definition's context, so the walk never descends into a referenced
// definition's body; that keeps diagnostics unique and the walk finite on
// recursive shapes.
func (e *Engine) walk(def *ast.TypeDef, expr ast.Expr, path string, out *[]report.Violation) {
	switch n := expr.(type) {
	case *ast.Primitive:
		*out = append(*out, e.checkPrimitive(def, n, path)...)

	case *ast.Reference:
		*out = append(*out, e.checkReference(def, n, path)...)

	case *ast.Array:
		e.walk(def, n.Element, childPath(path, "element"), out)

	case *ast.Map:
		e.walk(def, n.Key, childPath(path, "key"), out)
		e.walk(def, n.Value, childPath(path, "value"), out)

	case *ast.Group:
		for i, field := range n.Fields {
			e.walk(def, field.Expr, childPath(path, fmt.Sprintf("fields[%d]", i)), out)
		}

	case *ast.Tagged:
		*out = append(*out, e.checkTagged(def, n, path)...)
		e.walk(def, n.Inner, childPath(path, "inner"), out)

	case *ast.Choice:
		*out = append(*out, e.checkChoice(def, n, path)...)
		for i, alt := range n.Alternatives {
			e.walk(def, alt, childPath(path, fmt.Sprintf("alternatives[%d]", i)), out)
		}
	}
}

// childPath extends a node path with one segment. The root of a
// definition's tree has the empty path.
func childPath(path, segment string) string {
	if path == "" {
		return segment
	}
	return path + "." + segment
}
