package ast

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Graph is the complete type-definition graph for one validation run.
// Definitions keep their declaration order for deterministic diagnostics;
// lookup is by name. The graph is built once from parser output and is
// read-only afterwards.
type Graph struct {
	defs   []*TypeDef
	byName map[string]*TypeDef
}

// NewGraph builds a graph from type definitions in declaration order.
// Duplicate names keep the first definition; the duplicate is still
// recorded so Check can report it as a contract violation.
func NewGraph(defs ...*TypeDef) *Graph {
	g := &Graph{
		defs:   defs,
		byName: make(map[string]*TypeDef, len(defs)),
	}
	for _, def := range defs {
		if def == nil {
			continue
		}
		if _, exists := g.byName[def.Name]; !exists {
			g.byName[def.Name] = def
		}
	}
	return g
}

// Defs returns all definitions in declaration order.
func (g *Graph) Defs() []*TypeDef {
	return g.defs
}

// Lookup returns the definition for name, if any.
func (g *Graph) Lookup(name string) (*TypeDef, bool) {
	def, ok := g.byName[name]
	return def, ok
}

// Len returns the number of definitions in the graph.
func (g *Graph) Len() int {
	return len(g.defs)
}

// MalformedInputError signals a broken type graph handed over by the
// upstream parser: a programming-contract violation, not a schema
// authoring error. Schema defects are reported as violations instead.
type MalformedInputError struct {
	Err error
}

// Error implements the error interface.
func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed type graph: %v", e.Err)
}

// Unwrap returns the underlying aggregated error.
func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

// Check verifies the structural contract the upstream parser must honor:
// non-nil definitions, non-empty unique names, and a non-nil expression at
// every position that requires one. It returns a MalformedInputError
// aggregating every problem found, or nil for a well-formed graph.
func (g *Graph) Check() error {
	var result *multierror.Error
	seen := make(map[string]bool, len(g.defs))
	for i, def := range g.defs {
		if def == nil {
			result = multierror.Append(result, fmt.Errorf("definition %d is nil", i))
			continue
		}
		if def.Name == "" {
			result = multierror.Append(result, fmt.Errorf("definition %d has an empty name", i))
		}
		if seen[def.Name] {
			result = multierror.Append(result, fmt.Errorf("duplicate definition: %s", def.Name))
		}
		seen[def.Name] = true
		if def.Root == nil {
			result = multierror.Append(result, fmt.Errorf("definition %s has no root expression", def.Name))
			continue
		}
		if err := checkExpr(def.Name, def.Root); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if result != nil {
		return &MalformedInputError{Err: result.ErrorOrNil()}
	}
	return nil
}

// checkExpr walks one expression tree looking for nil holes. Reference
// cycles cannot occur here: expressions nest by ownership, only
// definitions refer to each other by name.
func checkExpr(defName string, expr Expr) error {
	var result *multierror.Error
	missing := func(what string) {
		result = multierror.Append(result, fmt.Errorf("definition %s: %s is nil", defName, what))
	}
	switch e := expr.(type) {
	case *Primitive, *Reference:
		// leaves
	case *Array:
		if e.Element == nil {
			missing("array element")
		} else if err := checkExpr(defName, e.Element); err != nil {
			result = multierror.Append(result, err)
		}
	case *Map:
		if e.Key == nil {
			missing("map key")
		} else if err := checkExpr(defName, e.Key); err != nil {
			result = multierror.Append(result, err)
		}
		if e.Value == nil {
			missing("map value")
		} else if err := checkExpr(defName, e.Value); err != nil {
			result = multierror.Append(result, err)
		}
	case *Group:
		for i, field := range e.Fields {
			if field.Expr == nil {
				missing(fmt.Sprintf("group field %d (%s)", i, field.Label))
			} else if err := checkExpr(defName, field.Expr); err != nil {
				result = multierror.Append(result, err)
			}
		}
	case *Tagged:
		if e.Inner == nil {
			missing("tagged inner expression")
		} else if err := checkExpr(defName, e.Inner); err != nil {
			result = multierror.Append(result, err)
		}
	case *Choice:
		for i, alt := range e.Alternatives {
			if alt == nil {
				missing(fmt.Sprintf("choice alternative %d", i))
			} else if err := checkExpr(defName, alt); err != nil {
				result = multierror.Append(result, err)
			}
		}
	default:
		result = multierror.Append(result, fmt.Errorf("definition %s: unknown expression node %T", defName, expr))
	}
	return result.ErrorOrNil()
}
