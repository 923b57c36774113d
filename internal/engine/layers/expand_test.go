package layers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func declaration(name string, public bool, line int, deps ...string) Item {
	d := &Declaration{
		Name:     name,
		NameSpan: span(line, 5),
		Public:   public,
	}
	for i, dep := range deps {
		d.DependsOn = append(d.DependsOn, DependsOn{
			Name:     dep,
			Span:     span(line-len(deps)+i, 17),
			AttrSpan: span(line-len(deps)+i, 5),
		})
	}
	return Item{Module: d}
}

func TestExpand_LayeredCrate(t *testing.T) {
	api := declaration("api", false, 5, "sub_system_1", "sub_system_2", "utils")
	api.Module.Docs = []string{"/// My Public APIs"}
	api.Module.Attrs = []string{"/// My Public APIs"}

	tree := &Tree{
		Name: "src",
		Items: []Item{
			api,
			declaration("sub_system_1", true, 8, "utils"),
			declaration("sub_system_2", true, 11, "utils"),
			declaration("utils", false, 13),
		},
	}

	exp := Expand(tree, Options{})
	assert.Empty(t, exp.Diagnostics)
	assert.False(t, exp.HasCycle())
	assert.Equal(t, DefaultNamespace, exp.Namespace)
	require.Len(t, exp.Items, 4)
	assert.Equal(t, "api", exp.Items[0].Module.Name)

	require.Len(t, exp.Wrappers, 4)
	byName := map[string]Wrapper{}
	for _, w := range exp.Wrappers {
		byName[w.Name] = w
	}

	apiW := byName["api"]
	assert.False(t, apiW.Public)
	assert.Equal(t, []string{"/// My Public APIs"}, apiW.Docs)
	assert.Equal(t, []string{"sub_system_1", "sub_system_2", "utils"}, depNames(apiW))
	assert.False(t, apiW.SuppressUnused)

	assert.Equal(t, []string{"utils"}, depNames(byName["sub_system_1"]))
	assert.Equal(t, []string{"utils"}, depNames(byName["sub_system_2"]))
	assert.True(t, byName["utils"].Forward())
	assert.False(t, byName["utils"].Public)
}

func TestExpand_CycleSuppressesUnused(t *testing.T) {
	tree := &Tree{
		Name: "src",
		Items: []Item{
			declaration("x", true, 2, "y"),
			declaration("y", true, 4, "x"),
			{Raw: "fn main() {}"},
		},
	}

	exp := Expand(tree, Options{})
	require.Len(t, exp.Diagnostics, 1)
	assert.Equal(t, "circular dependency detected: x -> y -> x", exp.Diagnostics[0].Message)
	assert.True(t, exp.HasCycle())
	for _, w := range exp.Wrappers {
		assert.True(t, w.SuppressUnused, w.Name)
	}
	assert.Equal(t, "fn main() {}", exp.Items[2].Raw)
}

func TestExpand_KeepsInputDiagnosticsFirst(t *testing.T) {
	tree := &Tree{
		Name: "src",
		Items: []Item{
			declaration("a", true, 2, "b"),
		},
		Diagnostics: []Diagnostic{{Kind: InvalidAnnotation, Message: "expected a single module identifier, found `b, c`"}},
	}

	exp := Expand(tree, Options{DependsOn: "uses"})
	assert.Equal(t, []Kind{InvalidAnnotation, MissingDependency}, kinds(exp.Diagnostics))
	assert.Equal(t, "cannot find dependency: b", exp.Diagnostics[1].Message)
	assert.True(t, exp.Wrappers[0].Forward())
}

func TestExpand_DuplicateDeclaration(t *testing.T) {
	tree := &Tree{
		Name: "src",
		Items: []Item{
			declaration("a", true, 1),
			declaration("a", false, 3, "b"),
			declaration("b", true, 5),
		},
	}

	exp := Expand(tree, Options{})
	require.Len(t, exp.Diagnostics, 1)
	assert.Equal(t, DuplicateModule, exp.Diagnostics[0].Kind)
	assert.Equal(t, span(3, 5), exp.Diagnostics[0].Span)
	// Both declarations stay in the hidden namespace, one wrapper per name.
	assert.Len(t, exp.Items, 3)
	require.Len(t, exp.Wrappers, 2)
	assert.True(t, exp.Wrappers[0].Public)
	assert.True(t, exp.Wrappers[0].Forward())
}

func TestExpand_DeclarationOrderScenario(t *testing.T) {
	tree := &Tree{
		Name: "src",
		Items: []Item{
			declaration("z", true, 3, "y", "x"),
			declaration("x", true, 4),
			declaration("y", true, 5),
		},
	}

	exp := Expand(tree, Options{})
	require.Len(t, exp.Diagnostics, 1)
	assert.Equal(t, AttributeOrderViolation, exp.Diagnostics[0].Kind)
	assert.Equal(t, span(2, 17), exp.Diagnostics[0].Span)
}

func depNames(w Wrapper) []string {
	out := make([]string, 0, len(w.Dependencies))
	for _, d := range w.Dependencies {
		out = append(out, d.Name)
	}
	return out
}
