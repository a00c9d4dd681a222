// Package constructor classifies tagged expressions into the constructor
// encodings defined by the on-chain Plutus datum format. Classification is
// a pure function over the tag number and the tagged payload; interpreting
// a classification as a violation is the rule engine's job.
package constructor

import (
	"fmt"

	"github.com/datum-lang/datumcheck/internal/datum/ast"
)

// GenericTag is the single tag value selecting the generic indexed
// constructor encoding, which carries an explicit variant index.
const GenericTag = 102

// Concise fixed constructor tag ranges. The tag number itself encodes the
// variant index: 121-127 cover indices 0-6, 1280-1400 cover 7-127.
const (
	conciseLowMin  = 121
	conciseLowMax  = 127
	conciseHighMin = 1280
	conciseHighMax = 1400

	// first variant index of the high range
	conciseHighBase = 7
)

// Kind is the outcome of classifying a tagged expression
type Kind int

const (
	// Invalid marks a tag outside every legal constructor encoding, or a
	// concise-fixed tag whose payload cannot carry constructor fields.
	Invalid Kind = iota
	// ConciseFixed marks a constructor whose variant index is encoded in
	// the tag number itself.
	ConciseFixed
	// GenericIndexed marks the generic constructor carrying an explicit
	// variant index and field list.
	GenericIndexed
)

// String returns the human-readable name of the classification kind.
func (k Kind) String() string {
	switch k {
	case ConciseFixed:
		return "concise_fixed"
	case GenericIndexed:
		return "generic_indexed"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Classification is the result of classifying one tagged expression.
// VariantIndex is meaningful only for ConciseFixed; GenericIndexed carries
// its index explicitly in the encoded data instead.
type Classification struct {
	Kind         Kind
	VariantIndex int
}

func (c Classification) String() string {
	if c.Kind == ConciseFixed {
		return fmt.Sprintf("%s(%d)", c.Kind, c.VariantIndex)
	}
	return c.Kind.String()
}

// Classify determines the constructor encoding of a tagged expression.
// It is total: every tag value maps to exactly one classification.
func Classify(tag int64, inner ast.Expr) Classification {
	switch {
	case tag == GenericTag:
		return Classification{Kind: GenericIndexed, VariantIndex: -1}
	case tag >= conciseLowMin && tag <= conciseLowMax:
		return conciseFixed(int(tag-conciseLowMin), inner)
	case tag >= conciseHighMin && tag <= conciseHighMax:
		return conciseFixed(conciseHighBase+int(tag-conciseHighMin), inner)
	default:
		return Classification{Kind: Invalid, VariantIndex: -1}
	}
}

// conciseFixed finishes classification of a concise-range tag: the payload
// must be a group or array to hold the constructor fields.
func conciseFixed(variantIndex int, inner ast.Expr) Classification {
	switch inner.(type) {
	case *ast.Group, *ast.Array:
		return Classification{Kind: ConciseFixed, VariantIndex: variantIndex}
	default:
		return Classification{Kind: Invalid, VariantIndex: -1}
	}
}

// InConciseRange reports whether the tag falls inside either concise fixed
// range, regardless of payload shape. The rule engine uses this to tell an
// out-of-range tag apart from a bad concise payload.
func InConciseRange(tag int64) bool {
	return (tag >= conciseLowMin && tag <= conciseLowMax) ||
		(tag >= conciseHighMin && tag <= conciseHighMax)
}
