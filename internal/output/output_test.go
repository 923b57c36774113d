package output

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"layered/internal/engine/layers"
	"layered/internal/engine/parser"
)

func at(line, col int) layers.Span {
	return layers.Span{File: "lib.rs", Line: line, Column: col}
}

func decl(name string, public bool, deps ...string) layers.Item {
	d := &layers.Declaration{Name: name, NameSpan: at(10, 1), Public: public}
	for i, dep := range deps {
		d.DependsOn = append(d.DependsOn, layers.DependsOn{Name: dep, Span: at(i+2, 15), AttrSpan: at(i+2, 5)})
	}
	return layers.Item{Module: d}
}

func expand(items ...layers.Item) *layers.Expansion {
	return layers.Expand(&layers.Tree{Name: "src", Items: items}, layers.Options{})
}

func cyclicGraph() *layers.Graph {
	exp := expand(decl("a", true, "b"), decl("b", true, "a"), decl("c", false))
	return exp.Graph
}

func TestRenderExpansion_Layout(t *testing.T) {
	exp := expand(
		layers.Item{Raw: "// keep me"},
		decl("a", true, "b"),
		decl("b", false),
	)
	require.Empty(t, exp.Diagnostics)

	want := `#[doc(hidden)]
pub(crate) mod src {
    // keep me
    pub mod a;
    pub mod b;
}
pub mod a {
    #[doc(inline)]
    pub use crate::src::a::*;
    #[doc(hidden)]
    pub(crate) mod crate_ {
        pub use crate::src::b;
    }
}
#[doc(inline)]
pub(crate) use src::b;
`
	assert.Equal(t, want, RenderExpansion(exp))
}

func TestRenderExpansion_InlineBodyAndAttrs(t *testing.T) {
	item := decl("utils", true)
	item.Module.HasBody = true
	item.Module.Body = "{ pub fn f() {} }"
	item.Module.Attrs = []string{"/// helpers", "#[cfg(test)]"}
	item.Module.Docs = []string{"/// helpers"}

	exp := layers.Expand(&layers.Tree{
		Name:  "src",
		Attrs: []string{"/// crate internals"},
		Items: []layers.Item{item},
	}, layers.Options{})

	out := RenderExpansion(exp)
	assert.True(t, strings.HasPrefix(out, "/// crate internals\n#[doc(hidden)]\npub(crate) mod src {\n"))
	assert.Contains(t, out, "    /// helpers\n    #[cfg(test)]\n    pub mod utils { pub fn f() {} }\n")
	assert.Contains(t, out, "}\n/// helpers\n#[doc(inline)]\npub use src::utils;\n")
}

func TestRenderExpansion_KeepsSingleDocHidden(t *testing.T) {
	exp := layers.Expand(&layers.Tree{
		Name:  "src",
		Attrs: []string{"#[doc( hidden )]", "#[allow(dead_code)]"},
		Items: []layers.Item{decl("a", true)},
	}, layers.Options{})

	out := RenderExpansion(exp)
	assert.True(t, strings.HasPrefix(out, "#[doc( hidden )]\n#[allow(dead_code)]\npub(crate) mod src {\n"))
	assert.Equal(t, 1, strings.Count(out, "hidden"))
}

func TestRenderExpansion_CycleAndDiagnostics(t *testing.T) {
	exp := expand(decl("a", true, "b"), decl("b", true, "a", "missing"))

	out := RenderExpansion(exp)
	assert.Equal(t, 2, strings.Count(out, "    #[allow(unused_imports)]\n"))
	assert.Contains(t, out, `::core::compile_error!("lib.rs:3:5: cannot find dependency: missing");`)
	assert.Contains(t, out, `::core::compile_error!("lib.rs:2:5: circular dependency detected: a -> b -> a");`)
	assert.True(t, strings.HasSuffix(out, ");\n"))
}

func TestRenderExpansion_CustomNamespace(t *testing.T) {
	exp := layers.Expand(&layers.Tree{Name: "layers", Items: []layers.Item{
		decl("a", true, "b"), decl("b", true),
	}}, layers.Options{Namespace: "deps"})

	out := RenderExpansion(exp)
	assert.Contains(t, out, "    pub(crate) mod deps {\n        pub use crate::layers::b;\n")
	assert.Contains(t, out, "pub use layers::b;\n")
}

func TestRenderRust_SplicesLayeredRanges(t *testing.T) {
	content := "use std::fmt;\n\n#[layers]\nmod src {\n    pub mod a;\n}\n\n#[layers]\nmod other;\n\nfn main() {}\n"
	first := strings.Index(content, "#[layers]\nmod src")
	firstEnd := strings.Index(content, "}\n") + 1
	second := strings.LastIndex(content, "#[layers]")
	secondEnd := strings.Index(content, "mod other;") + len("mod other;")

	f := &parser.File{
		Path:    "lib.rs",
		Content: []byte(content),
		Layered: []parser.Layered{
			{Start: first, End: firstEnd, Tree: &layers.Tree{Name: "src", Items: []layers.Item{decl("a", true)}}},
			{Start: second, End: secondEnd, Forward: true, Text: "mod other;"},
		},
	}
	exps := []*layers.Expansion{layers.Expand(f.Layered[0].Tree, layers.Options{}), nil}

	want := "use std::fmt;\n\n" +
		"#[doc(hidden)]\npub(crate) mod src {\n    pub mod a;\n}\n#[doc(inline)]\npub use src::a;" +
		"\n\nmod other;\n\nfn main() {}\n"
	assert.Equal(t, want, string(RenderRust(f, exps)))
}

func TestRenderRust_NoLayeredModules(t *testing.T) {
	content := []byte("fn main() {}\n")
	out := RenderRust(&parser.File{Path: "main.rs", Content: content}, nil)
	assert.Equal(t, content, out)
}

func TestRustString(t *testing.T) {
	assert.Equal(t, `"plain"`, rustString("plain"))
	assert.Equal(t, `"a \"b\" \\ c\n"`, rustString("a \"b\" \\ c\n"))
	assert.Equal(t, `"x\u{1}"`, rustString("x\x01"))
	assert.Equal(t, `"é"`, rustString("é"))
}

func TestDOTGenerator(t *testing.T) {
	dot, err := NewDOTGenerator(cyclicGraph()).Generate()
	require.NoError(t, err)

	assert.Contains(t, dot, "digraph layers")
	assert.Contains(t, dot, `"a" -> "b" [color="red", penwidth=3.0, label="CYCLE"]`)
	assert.Contains(t, dot, `"b" -> "a" [color="red", penwidth=3.0, label="CYCLE"]`)
	assert.Contains(t, dot, `"a" [label="a\n(#0, 1 deps)", fillcolor="mistyrose"`)
	assert.Contains(t, dot, `"c" [label="c\n(#2, 0 deps)", color="grey"`)
}

func TestDOTGenerator_Acyclic(t *testing.T) {
	g := expand(decl("a", true, "b"), decl("b", true)).Graph
	dot, err := NewDOTGenerator(g).Generate()
	require.NoError(t, err)

	assert.Contains(t, dot, `"a" -> "b" [color="forestgreen", penwidth=1.8];`)
	assert.NotContains(t, dot, "CYCLE")
}

func TestMermaidGenerator(t *testing.T) {
	out, err := NewMermaidGenerator(cyclicGraph()).Generate()
	require.NoError(t, err)

	assert.Contains(t, out, "flowchart TD\n")
	assert.Contains(t, out, "  a -->|CYCLE| b\n")
	assert.Contains(t, out, "  b -->|CYCLE| a\n")
	assert.Contains(t, out, "  class a,b publicNode;\n")
	assert.Contains(t, out, "  class c privateNode;\n")
	assert.Contains(t, out, "  class a,b cycleNode;\n")
	assert.Contains(t, out, "  linkStyle 0,1 stroke:#cc0000,stroke-width:3px;\n")
}

func TestMakeMermaidIDs(t *testing.T) {
	ids := makeMermaidIDs([]string{"end", "9lives", "a_b", "a-b"})
	assert.Equal(t, "m_end", ids["end"])
	assert.Equal(t, "m_9lives", ids["9lives"])
	assert.Equal(t, "a_b", ids["a_b"])
	assert.Equal(t, "a_b_2", ids["a-b"])
}

func TestTSVGenerator(t *testing.T) {
	g := expand(decl("a", true, "b"), decl("b", true)).Graph
	tsv, err := NewTSVGenerator(g).Generate()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(tsv), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "a\tb\tlib.rs\t2\t15", lines[1])
}

func TestTSVGenerator_Diagnostics(t *testing.T) {
	exp := expand(decl("a", true, "missing"))
	tsv, err := GenerateDiagnosticsTSV(exp.Diagnostics)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(tsv), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "missing-dependency\tlib.rs\t2\t5\tcannot find dependency: missing", lines[1])
}

func TestGenerateSARIF_Empty(t *testing.T) {
	data, err := GenerateSARIF("", nil)
	require.NoError(t, err)

	var report sarifReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, sarifSchema, report.Schema)
	assert.Equal(t, sarifVersion, report.Version)
	require.Len(t, report.Runs, 1)
	assert.Empty(t, report.Runs[0].Results)
	assert.Empty(t, report.Runs[0].Tool.Driver.Rules)
	assert.NotEmpty(t, report.Runs[0].AutomationDetails.GUID)
}

func TestGenerateSARIF_Diagnostics(t *testing.T) {
	diags := []layers.Diagnostic{
		{Kind: layers.CyclicDependency, Message: "circular dependency detected: a -> a", Span: layers.Span{File: "/project/src/lib.rs", Line: 4, Column: 5, EndLine: 4, EndColumn: 20}},
		{Kind: layers.MissingDependency, Message: "cannot find dependency: x", Span: layers.Span{File: "/project/src/lib.rs", Line: 2, Column: 5}},
		{Kind: layers.MissingDependency, Message: "cannot find dependency: y", Span: layers.Span{File: "src/lib.rs", Line: 3, Column: 5}},
	}

	data, err := GenerateSARIF("/project", diags)
	require.NoError(t, err)

	var report sarifReport
	require.NoError(t, json.Unmarshal(data, &report))
	run := report.Runs[0]

	require.Len(t, run.Tool.Driver.Rules, 2)
	assert.Equal(t, "LAYER001", run.Tool.Driver.Rules[0].ID)
	assert.Equal(t, "LAYER002", run.Tool.Driver.Rules[1].ID)

	require.Len(t, run.Results, 3)
	cycle := run.Results[0]
	assert.Equal(t, "LAYER002", cycle.RuleID)
	assert.Equal(t, 1, cycle.RuleIndex)
	assert.Equal(t, "error", cycle.Level)
	require.Len(t, cycle.Locations, 1)
	assert.Equal(t, "src/lib.rs", cycle.Locations[0].PhysicalLocation.ArtifactLocation.URI)
	assert.Equal(t, &sarifRegion{StartLine: 4, StartColumn: 5, EndLine: 4, EndColumn: 20}, cycle.Locations[0].PhysicalLocation.Region)
	assert.Equal(t, 0, run.Results[1].RuleIndex)
	assert.Equal(t, "src/lib.rs", run.Results[2].Locations[0].PhysicalLocation.ArtifactLocation.URI)
}

func TestGenerateSARIF_UniqueRunGUID(t *testing.T) {
	a, err := GenerateSARIF("", nil)
	require.NoError(t, err)
	b, err := GenerateSARIF("", nil)
	require.NoError(t, err)

	var ra, rb sarifReport
	require.NoError(t, json.Unmarshal(a, &ra))
	require.NoError(t, json.Unmarshal(b, &rb))
	assert.NotEqual(t, ra.Runs[0].AutomationDetails.GUID, rb.Runs[0].AutomationDetails.GUID)
}

func TestRuleID(t *testing.T) {
	assert.Equal(t, "LAYER001", RuleID(layers.MissingDependency))
	assert.Equal(t, "LAYER007", RuleID(layers.DuplicateModule))
	for _, k := range layers.Kinds() {
		_, ok := sarifRules[k]
		assert.True(t, ok, k.String())
	}
}
