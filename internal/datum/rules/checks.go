package rules

import (
	"fmt"

	"github.com/datum-lang/datumcheck/internal/datum/ast"
	"github.com/datum-lang/datumcheck/internal/datum/constructor"
	"github.com/datum-lang/datumcheck/internal/datum/report"
)

// checkAnnotation enforces the definition-level annotation contract: a
// custom codec hook without the no-alias flag makes the generated wrapper
// and the custom codec disagree on the wire shape. This checks the
// annotation written on the definition itself, not one inherited through
// aliasing: an alias of a codec type is fine, the codec type must carry
// the flag.
func (e *Engine) checkAnnotation(def *ast.TypeDef) []report.Violation {
	if def.Ann.HasCustomCodec() && !def.Ann.NoAlias {
		return []report.Violation{{
			Rule:     report.RuleMissingNoAliasOnCustomCodec,
			TypeDef:  def.Name,
			Message:  fmt.Sprintf("%s declares a custom codec but not the no-alias flag; wrapper-type generation must be suppressed", def.Name),
			Location: def.Loc,
		}}
	}
	return nil
}

// checkPrimitive enforces the byte and text rules. Raw bytes bypass the
// required chunking of the bounded-byte form, and the on-chain format has
// no native text primitive; both must be declared as byte-backed aliases
// with explicit codec hooks.
func (e *Engine) checkPrimitive(def *ast.TypeDef, p *ast.Primitive, path string) []report.Violation {
	ann := e.annotations[def.Name]
	switch p.Kind {
	case ast.PrimBytes:
		if ann.CustomSerialize == "" {
			return []report.Violation{{
				Rule:     report.RuleRawBytesForbidden,
				TypeDef:  def.Name,
				Path:     path,
				Message:  "arbitrary bytes not valid: use bounded_bytes instead",
				Location: p.Loc,
			}}
		}
	case ast.PrimText:
		if !ann.HasCustomCodecPair() {
			return []report.Violation{{
				Rule:     report.RuleRawTextForbidden,
				TypeDef:  def.Name,
				Path:     path,
				Message:  "text not valid datum: use utf8_text instead",
				Location: p.Loc,
			}}
		}
	}
	return nil
}

// checkReference verifies the referenced definition exists. The referenced
// body is validated in its own context, never from here.
func (e *Engine) checkReference(def *ast.TypeDef, r *ast.Reference, path string) []report.Violation {
	if _, ok := e.graph.Lookup(r.Name); !ok {
		return []report.Violation{{
			Rule:     report.RuleUnresolvedReference,
			TypeDef:  def.Name,
			Path:     path,
			Message:  fmt.Sprintf("reference to undefined type: %s", r.Name),
			Location: r.Loc,
		}}
	}
	return nil
}

// checkTagged interprets the constructor classification of a tagged node.
// Only two constructor encodings exist: the concise fixed form, where the
// tag number encodes the variant index, and the generic indexed form under
// the single generic tag.
func (e *Engine) checkTagged(def *ast.TypeDef, t *ast.Tagged, path string) []report.Violation {
	cls := constructor.Classify(t.Tag, t.Inner)
	switch cls.Kind {
	case constructor.GenericIndexed:
		return e.checkGenericShape(def, t, path)
	case constructor.Invalid:
		msg := fmt.Sprintf("invalid constructor tag: %d", t.Tag)
		if constructor.InConciseRange(t.Tag) {
			msg = fmt.Sprintf("concise constructor tag %d requires a group or array payload", t.Tag)
		}
		return []report.Violation{{
			Rule:     report.RuleInvalidTagValue,
			TypeDef:  def.Name,
			Path:     path,
			Message:  msg,
			Location: t.Loc,
		}}
	}
	return nil
}

// checkGenericShape enforces the single wire layout of the generic indexed
// constructor: a two-field group of (variant, uint) then
// (fields, unbounded array of reference-or-group elements), in that order.
func (e *Engine) checkGenericShape(def *ast.TypeDef, t *ast.Tagged, path string) []report.Violation {
	malformed := func(format string, args ...interface{}) []report.Violation {
		return []report.Violation{{
			Rule:     report.RuleMalformedGenericConstructor,
			TypeDef:  def.Name,
			Path:     path,
			Message:  fmt.Sprintf(format, args...),
			Location: t.Loc,
		}}
	}

	group, ok := t.Inner.(*ast.Group)
	if !ok {
		return malformed("generic constructor payload must be a group, found %s", exprKind(t.Inner))
	}
	if len(group.Fields) != 2 {
		return malformed("generic constructor group must have exactly 2 fields, found %d", len(group.Fields))
	}

	variant := group.Fields[0]
	if variant.Label != "variant" {
		return malformed("first generic constructor field must be labeled 'variant', found '%s'", variant.Label)
	}
	if prim, ok := variant.Expr.(*ast.Primitive); !ok || prim.Kind != ast.PrimUInt {
		return malformed("generic constructor variant field must be a uint, found %s", exprKind(variant.Expr))
	}

	fields := group.Fields[1]
	if fields.Label != "fields" {
		return malformed("second generic constructor field must be labeled 'fields', found '%s'", fields.Label)
	}
	arr, ok := fields.Expr.(*ast.Array)
	if !ok {
		return malformed("generic constructor fields must be an array, found %s", exprKind(fields.Expr))
	}
	if !arr.Unbounded {
		return malformed("generic constructor field list must be an unbounded array")
	}
	switch arr.Element.(type) {
	case *ast.Reference, *ast.Group:
		return nil
	default:
		return malformed("generic constructor field elements must be references or groups, found %s", exprKind(arr.Element))
	}
}

// checkChoice rejects unions with no variants.
func (e *Engine) checkChoice(def *ast.TypeDef, c *ast.Choice, path string) []report.Violation {
	if len(c.Alternatives) == 0 {
		return []report.Violation{{
			Rule:     report.RuleEmptyChoice,
			TypeDef:  def.Name,
			Path:     path,
			Message:  "choice must offer at least one alternative",
			Location: c.Loc,
		}}
	}
	return nil
}

// exprKind names an expression node for diagnostics.
func exprKind(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Primitive:
		return e.Kind.String()
	case *ast.Reference:
		return fmt.Sprintf("reference(%s)", e.Name)
	case *ast.Array:
		return "array"
	case *ast.Map:
		return "map"
	case *ast.Group:
		return "group"
	case *ast.Tagged:
		return fmt.Sprintf("tagged(%d)", e.Tag)
	case *ast.Choice:
		return "choice"
	default:
		return "unknown"
	}
}
