// Package ast defines the type-definition graph for Plutus datum schemas.
// It provides structures for representing named type definitions, their
// expression trees, and the annotation metadata that controls custom
// serialization hooks, as handed over by an external grammar parser.
package ast

// SourceLocation tracks the position of a definition or expression in the
// original schema source
type SourceLocation struct {
	File   string `json:"file"`
	Line   int    `json:"line"`   // Line number (1-indexed)
	Column int    `json:"column"` // Column number (1-indexed)
}

// PrimitiveKind represents the kind of a primitive expression
type PrimitiveKind int

const (
	// PrimBytes represents a raw byte string
	PrimBytes PrimitiveKind = iota
	// PrimText represents a UTF-8 text string
	PrimText
	// PrimUInt represents an unsigned integer
	PrimUInt
)

// String returns the schema-level name of the primitive kind.
func (k PrimitiveKind) String() string {
	switch k {
	case PrimBytes:
		return "bytes"
	case PrimText:
		return "text"
	case PrimUInt:
		return "uint"
	default:
		return "unknown"
	}
}

// Expr is the base interface for all expression nodes in a type definition
type Expr interface {
	Location() SourceLocation
	exprNode()
}

// Primitive represents a primitive type expression (bytes, text, uint)
type Primitive struct {
	Kind PrimitiveKind
	Loc  SourceLocation
}

func (p *Primitive) exprNode() {}

// Location returns the source location of the primitive expression.
func (p *Primitive) Location() SourceLocation {
	return p.Loc
}

// Reference represents a by-name reference to another type definition
type Reference struct {
	Name string
	Loc  SourceLocation
}

func (r *Reference) exprNode() {}

// Location returns the source location of the reference expression.
func (r *Reference) Location() SourceLocation {
	return r.Loc
}

// Array represents a homogeneous array expression
type Array struct {
	Element   Expr
	Unbounded bool // true for variable-length arrays ([* T])
	Loc       SourceLocation
}

func (a *Array) exprNode() {}

// Location returns the source location of the array expression.
func (a *Array) Location() SourceLocation {
	return a.Loc
}

// Map represents a key/value map expression
type Map struct {
	Key   Expr
	Value Expr
	Loc   SourceLocation
}

func (m *Map) exprNode() {}

// Location returns the source location of the map expression.
func (m *Map) Location() SourceLocation {
	return m.Loc
}

// Field is a single labeled entry of a group expression
type Field struct {
	Label string
	Expr  Expr
}

// Group represents an ordered sequence of labeled fields
type Group struct {
	Fields []Field
	Loc    SourceLocation
}

func (g *Group) exprNode() {}

// Location returns the source location of the group expression.
func (g *Group) Location() SourceLocation {
	return g.Loc
}

// Tagged represents a tagged value expression (#6.<tag>(inner))
type Tagged struct {
	Tag   int64
	Inner Expr
	Loc   SourceLocation
}

func (t *Tagged) exprNode() {}

// Location returns the source location of the tagged expression.
func (t *Tagged) Location() SourceLocation {
	return t.Loc
}

// Choice represents a union over alternative expressions (a / b / c)
type Choice struct {
	Alternatives []Expr
	Loc          SourceLocation
}

func (c *Choice) exprNode() {}

// Location returns the source location of the choice expression.
func (c *Choice) Location() SourceLocation {
	return c.Loc
}

// Annotation carries the per-definition metadata that controls code
// generation: custom codec hook names and the wrapper-type suppression flag.
// Annotations attach to type definitions, never to individual expressions.
type Annotation struct {
	CustomSerialize   string `json:"custom_serialize,omitempty"`
	CustomDeserialize string `json:"custom_deserialize,omitempty"`
	NoAlias           bool   `json:"no_alias,omitempty"`
}

// IsZero reports whether the annotation carries no metadata at all.
func (a Annotation) IsZero() bool {
	return a.CustomSerialize == "" && a.CustomDeserialize == "" && !a.NoAlias
}

// HasCustomCodec reports whether either custom codec hook is set.
func (a Annotation) HasCustomCodec() bool {
	return a.CustomSerialize != "" || a.CustomDeserialize != ""
}

// HasCustomCodecPair reports whether both custom codec hooks are set.
func (a Annotation) HasCustomCodecPair() bool {
	return a.CustomSerialize != "" && a.CustomDeserialize != ""
}

// TypeDef is a single named type definition in the schema
type TypeDef struct {
	Name string
	Root Expr
	Ann  Annotation
	Loc  SourceLocation
}
