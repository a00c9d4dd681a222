// Package loader decodes the type-definition graph handed over by the
// external grammar parser. The parser emits a kind-discriminated JSON
// encoding of the graph; the loader turns it into an ast.Graph and merges
// the standard prelude the generator expects to be present.
package loader

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"

	"github.com/datum-lang/datumcheck/internal/datum/ast"
)

// Options configures graph decoding
type Options struct {
	// OmitPrelude skips merging the built-in prelude definitions. User
	// definitions always take precedence over prelude names either way.
	OmitPrelude bool
}

type schemaJSON struct {
	Types []typeDefJSON `json:"types"`
}

type typeDefJSON struct {
	Name        string          `json:"name"`
	Expr        *exprJSON       `json:"expr"`
	Annotations *annotationJSON `json:"annotations"`
	Location    *locationJSON   `json:"location"`
}

type annotationJSON struct {
	CustomSerialize   string `json:"custom_serialize"`
	CustomDeserialize string `json:"custom_deserialize"`
	NoAlias           bool   `json:"no_alias"`
}

type locationJSON struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

type exprJSON struct {
	Kind string `json:"kind"`

	// primitive
	Primitive string `json:"primitive,omitempty"`

	// reference
	Name string `json:"name,omitempty"`

	// array
	Element   *exprJSON `json:"element,omitempty"`
	Unbounded bool      `json:"unbounded,omitempty"`

	// map
	Key   *exprJSON `json:"key,omitempty"`
	Value *exprJSON `json:"value,omitempty"`

	// group
	Fields []fieldJSON `json:"fields,omitempty"`

	// tagged
	Tag   *int64    `json:"tag,omitempty"`
	Inner *exprJSON `json:"inner,omitempty"`

	// choice
	Alternatives []*exprJSON `json:"alternatives,omitempty"`

	Location *locationJSON `json:"location,omitempty"`
}

type fieldJSON struct {
	Label string    `json:"label"`
	Expr  *exprJSON `json:"expr"`
}

// Decode reads a parser-output graph from r. Structural problems in the
// payload are the upstream parser's bug, so they surface as a
// MalformedInputError aggregating everything found, never as violations.
func Decode(r io.Reader, opts Options) (*ast.Graph, error) {
	var schema schemaJSON
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&schema); err != nil {
		return nil, &ast.MalformedInputError{Err: fmt.Errorf("decoding parser output: %w", err)}
	}

	var result *multierror.Error
	defs := make([]*ast.TypeDef, 0, len(schema.Types))
	for i, t := range schema.Types {
		def, err := decodeTypeDef(i, t)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		defs = append(defs, def)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, &ast.MalformedInputError{Err: err}
	}

	if !opts.OmitPrelude {
		defs = mergePrelude(defs)
	}
	g := ast.NewGraph(defs...)
	if err := g.Check(); err != nil {
		return nil, err
	}
	return g, nil
}

// mergePrelude appends the prelude definitions the user schema did not
// shadow. User definitions come first so diagnostics keep their order.
func mergePrelude(defs []*ast.TypeDef) []*ast.TypeDef {
	names := make(map[string]bool, len(defs))
	for _, def := range defs {
		names[def.Name] = true
	}
	for _, def := range ast.Prelude() {
		if !names[def.Name] {
			defs = append(defs, def)
		}
	}
	return defs
}

func decodeTypeDef(index int, t typeDefJSON) (*ast.TypeDef, error) {
	if t.Name == "" {
		return nil, fmt.Errorf("type %d: missing name", index)
	}
	if t.Expr == nil {
		return nil, fmt.Errorf("type %s: missing expr", t.Name)
	}
	root, err := decodeExpr(t.Name, t.Expr)
	if err != nil {
		return nil, err
	}
	def := &ast.TypeDef{
		Name: t.Name,
		Root: root,
		Loc:  decodeLocation(t.Location),
	}
	if t.Annotations != nil {
		def.Ann = ast.Annotation{
			CustomSerialize:   t.Annotations.CustomSerialize,
			CustomDeserialize: t.Annotations.CustomDeserialize,
			NoAlias:           t.Annotations.NoAlias,
		}
	}
	return def, nil
}

func decodeLocation(loc *locationJSON) ast.SourceLocation {
	if loc == nil {
		return ast.SourceLocation{File: "<schema>"}
	}
	return ast.SourceLocation{File: loc.File, Line: loc.Line, Column: loc.Column}
}

func decodeExpr(defName string, e *exprJSON) (ast.Expr, error) {
	if e == nil {
		return nil, fmt.Errorf("type %s: missing expression node", defName)
	}
	loc := decodeLocation(e.Location)
	switch e.Kind {
	case "primitive":
		kind, err := primitiveKind(e.Primitive)
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", defName, err)
		}
		return &ast.Primitive{Kind: kind, Loc: loc}, nil

	case "reference":
		if e.Name == "" {
			return nil, fmt.Errorf("type %s: reference without a name", defName)
		}
		return &ast.Reference{Name: e.Name, Loc: loc}, nil

	case "array":
		element, err := decodeExpr(defName, e.Element)
		if err != nil {
			return nil, err
		}
		return &ast.Array{Element: element, Unbounded: e.Unbounded, Loc: loc}, nil

	case "map":
		key, err := decodeExpr(defName, e.Key)
		if err != nil {
			return nil, err
		}
		value, err := decodeExpr(defName, e.Value)
		if err != nil {
			return nil, err
		}
		return &ast.Map{Key: key, Value: value, Loc: loc}, nil

	case "group":
		fields := make([]ast.Field, 0, len(e.Fields))
		for _, f := range e.Fields {
			expr, err := decodeExpr(defName, f.Expr)
			if err != nil {
				return nil, err
			}
			fields = append(fields, ast.Field{Label: f.Label, Expr: expr})
		}
		return &ast.Group{Fields: fields, Loc: loc}, nil

	case "tagged":
		if e.Tag == nil {
			return nil, fmt.Errorf("type %s: tagged expression without a tag", defName)
		}
		inner, err := decodeExpr(defName, e.Inner)
		if err != nil {
			return nil, err
		}
		return &ast.Tagged{Tag: *e.Tag, Inner: inner, Loc: loc}, nil

	case "choice":
		alternatives := make([]ast.Expr, 0, len(e.Alternatives))
		for _, alt := range e.Alternatives {
			expr, err := decodeExpr(defName, alt)
			if err != nil {
				return nil, err
			}
			alternatives = append(alternatives, expr)
		}
		return &ast.Choice{Alternatives: alternatives, Loc: loc}, nil

	case "":
		return nil, fmt.Errorf("type %s: expression node without a kind", defName)

	default:
		return nil, fmt.Errorf("type %s: unknown expression kind: %s", defName, e.Kind)
	}
}

func primitiveKind(name string) (ast.PrimitiveKind, error) {
	switch name {
	case "bytes":
		return ast.PrimBytes, nil
	case "text":
		return ast.PrimText, nil
	case "uint":
		return ast.PrimUInt, nil
	default:
		return 0, fmt.Errorf("unknown primitive kind: %q", name)
	}
}
