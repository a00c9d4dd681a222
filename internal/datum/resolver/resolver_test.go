package resolver

import (
	"testing"

	"github.com/datum-lang/datumcheck/internal/datum/ast"
	"github.com/datum-lang/datumcheck/internal/datum/report"
)

func uintExpr() ast.Expr {
	return &ast.Primitive{Kind: ast.PrimUInt}
}

func ref(name string) ast.Expr {
	return &ast.Reference{Name: name}
}

var codecAnn = ast.Annotation{
	CustomSerialize:   "serialize_thing",
	CustomDeserialize: "deserialize_thing",
	NoAlias:           true,
}

// TestResolveDirectAnnotation tests that a definition's own annotation is
// its effective annotation
func TestResolveDirectAnnotation(t *testing.T) {
	g := ast.NewGraph(
		&ast.TypeDef{Name: "thing", Root: uintExpr(), Ann: codecAnn},
		&ast.TypeDef{Name: "plain", Root: uintExpr()},
	)
	table, violations := Resolve(g)
	if len(violations) != 0 {
		t.Fatalf("Expected no violations, got %v", violations)
	}
	if table["thing"] != codecAnn {
		t.Errorf("Expected thing to keep its annotation, got %+v", table["thing"])
	}
	if !table["plain"].IsZero() {
		t.Errorf("Expected plain to have no annotation, got %+v", table["plain"])
	}
}

// TestResolveAliasInheritance tests annotation forwarding through bare
// reference roots
func TestResolveAliasInheritance(t *testing.T) {
	g := ast.NewGraph(
		&ast.TypeDef{Name: "base", Root: uintExpr(), Ann: codecAnn},
		&ast.TypeDef{Name: "alias", Root: ref("base")},
		&ast.TypeDef{Name: "alias2", Root: ref("alias")},
	)
	table, violations := Resolve(g)
	if len(violations) != 0 {
		t.Fatalf("Expected no violations, got %v", violations)
	}
	if table["alias"] != codecAnn {
		t.Errorf("Expected alias to inherit base's annotation, got %+v", table["alias"])
	}
	if table["alias2"] != codecAnn {
		t.Errorf("Expected alias2 to inherit transitively, got %+v", table["alias2"])
	}
}

// TestResolveDirectAnnotationWins tests that an alias with its own
// annotation does not inherit
func TestResolveDirectAnnotationWins(t *testing.T) {
	own := ast.Annotation{CustomSerialize: "serialize_own", CustomDeserialize: "deserialize_own", NoAlias: true}
	g := ast.NewGraph(
		&ast.TypeDef{Name: "base", Root: uintExpr(), Ann: codecAnn},
		&ast.TypeDef{Name: "alias", Root: ref("base"), Ann: own},
	)
	table, _ := Resolve(g)
	if table["alias"] != own {
		t.Errorf("Expected alias to keep its own annotation, got %+v", table["alias"])
	}
}

// TestResolveCompoundIsNotAlias tests that recursion through a compound
// expression never forwards annotations and never reports a cycle
func TestResolveCompoundIsNotAlias(t *testing.T) {
	g := ast.NewGraph(
		&ast.TypeDef{Name: "base", Root: uintExpr(), Ann: codecAnn},
		&ast.TypeDef{Name: "list", Root: &ast.Array{Element: ref("base"), Unbounded: true}},
		// recursive list-of-self: legal, not an alias cycle
		&ast.TypeDef{Name: "tree", Root: &ast.Array{Element: ref("tree"), Unbounded: true}},
	)
	table, violations := Resolve(g)
	if len(violations) != 0 {
		t.Fatalf("Expected no violations, got %v", violations)
	}
	if !table["list"].IsZero() {
		t.Errorf("Expected list not to inherit through a compound root, got %+v", table["list"])
	}
	if !table["tree"].IsZero() {
		t.Errorf("Expected tree to resolve without annotation, got %+v", table["tree"])
	}
}

// TestResolvePureAliasCycle tests that a two-member alias cycle yields
// exactly one CyclicAlias violation
func TestResolvePureAliasCycle(t *testing.T) {
	g := ast.NewGraph(
		&ast.TypeDef{Name: "a", Root: ref("b")},
		&ast.TypeDef{Name: "b", Root: ref("a")},
	)
	table, violations := Resolve(g)
	if len(violations) != 1 {
		t.Fatalf("Expected exactly one violation, got %d: %v", len(violations), violations)
	}
	v := violations[0]
	if v.Rule != report.RuleCyclicAlias {
		t.Errorf("Expected CyclicAlias, got %s", v.Rule)
	}
	if v.TypeDef != "a" {
		t.Errorf("Expected the cycle attributed to the first-declared member a, got %s", v.TypeDef)
	}
	if !table["a"].IsZero() || !table["b"].IsZero() {
		t.Errorf("Expected cycle members to resolve without annotations")
	}
}

// TestResolveSelfAliasCycle tests the degenerate one-member cycle
func TestResolveSelfAliasCycle(t *testing.T) {
	g := ast.NewGraph(
		&ast.TypeDef{Name: "selfref", Root: ref("selfref")},
	)
	_, violations := Resolve(g)
	if len(violations) != 1 {
		t.Fatalf("Expected exactly one violation, got %d: %v", len(violations), violations)
	}
	if violations[0].Rule != report.RuleCyclicAlias || violations[0].TypeDef != "selfref" {
		t.Errorf("Expected CyclicAlias on selfref, got %+v", violations[0])
	}
}

// TestResolveCycleEntryFromOutside tests an annotation-less alias chain
// that runs into a cycle it is not part of
func TestResolveCycleEntryFromOutside(t *testing.T) {
	g := ast.NewGraph(
		&ast.TypeDef{Name: "x", Root: ref("a")},
		&ast.TypeDef{Name: "a", Root: ref("b")},
		&ast.TypeDef{Name: "b", Root: ref("a")},
	)
	table, violations := Resolve(g)
	if len(violations) != 1 {
		t.Fatalf("Expected exactly one violation, got %d: %v", len(violations), violations)
	}
	if violations[0].TypeDef != "a" {
		t.Errorf("Expected cycle attributed to a, got %s", violations[0].TypeDef)
	}
	if !table["x"].IsZero() {
		t.Errorf("Expected x to resolve without annotation")
	}
}

// TestResolveDanglingAlias tests that a reference to a missing type is not
// the resolver's problem
func TestResolveDanglingAlias(t *testing.T) {
	g := ast.NewGraph(
		&ast.TypeDef{Name: "alias", Root: ref("ghost")},
	)
	table, violations := Resolve(g)
	if len(violations) != 0 {
		t.Fatalf("Expected no violations from the resolver, got %v", violations)
	}
	if !table["alias"].IsZero() {
		t.Errorf("Expected dangling alias to resolve without annotation")
	}
}

// TestResolveIsDeterministic tests that resolution is a pure function of
// the graph
func TestResolveIsDeterministic(t *testing.T) {
	g := ast.NewGraph(
		&ast.TypeDef{Name: "base", Root: uintExpr(), Ann: codecAnn},
		&ast.TypeDef{Name: "alias", Root: ref("base")},
		&ast.TypeDef{Name: "a", Root: ref("b")},
		&ast.TypeDef{Name: "b", Root: ref("a")},
	)
	table1, violations1 := Resolve(g)
	table2, violations2 := Resolve(g)
	if len(table1) != len(table2) {
		t.Fatalf("Expected identical tables across runs")
	}
	for name, ann := range table1 {
		if table2[name] != ann {
			t.Errorf("Expected %s to resolve identically, got %+v vs %+v", name, ann, table2[name])
		}
	}
	if len(violations1) != len(violations2) || violations1[0] != violations2[0] {
		t.Errorf("Expected identical violations across runs")
	}
}
