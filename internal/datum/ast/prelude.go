package ast

// Prelude returns the built-in type definitions that every schema is
// validated against. These mirror the prelude the code generator merges
// into user input: the byte-backed aliases carry their own codec hooks and
// suppress wrapper-type generation, so user types may reference them
// freely where bare bytes or text would be rejected.
func Prelude() []*TypeDef {
	loc := SourceLocation{File: "<prelude>", Line: 1, Column: 1}
	return []*TypeDef{
		{
			Name: "bounded_bytes",
			Root: &Primitive{Kind: PrimBytes, Loc: loc},
			Ann: Annotation{
				CustomSerialize:   "serialize_bounded_bytes",
				CustomDeserialize: "deserialize_bounded_bytes",
				NoAlias:           true,
			},
			Loc: loc,
		},
		{
			Name: "utf8_text",
			Root: &Primitive{Kind: PrimText, Loc: loc},
			Ann: Annotation{
				CustomSerialize:   "serialize_utf8_bytes",
				CustomDeserialize: "deserialize_utf8_bytes",
				NoAlias:           true,
			},
			Loc: loc,
		},
		{
			Name: "uint",
			Root: &Primitive{Kind: PrimUInt, Loc: loc},
			Loc:  loc,
		},
		{
			Name: "u32",
			Root: &Primitive{Kind: PrimUInt, Loc: loc},
			Loc:  loc,
		},
		{
			Name: "u64",
			Root: &Primitive{Kind: PrimUInt, Loc: loc},
			Loc:  loc,
		},
	}
}
