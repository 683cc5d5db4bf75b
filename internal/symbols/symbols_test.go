package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDataType(t *testing.T) {
	cases := map[string]DataType{"int": Int, "float": Float, "bool": Bool, "string": String}
	for keyword, want := range cases {
		got, ok := ParseDataType(keyword)
		assert.True(t, ok, keyword)
		assert.Equal(t, want, got, keyword)
	}

	_, ok := ParseDataType("void")
	assert.False(t, ok)
}

func TestTable_NewChildLinksParent(t *testing.T) {
	root := NewRoot()
	child := root.NewChild("main")

	assert.Equal(t, 0, root.Level)
	assert.Equal(t, 1, child.Level)
	assert.Same(t, root, child.Parent())
	require.Len(t, root.Children, 1)
	assert.Same(t, child, root.Children[0])
}

func TestTable_DeclareAndLookupLocal(t *testing.T) {
	root := NewRoot()
	sym := &Symbol{Name: "x", Kind: Variable, DataType: Int}
	root.Declare(sym)

	got, ok := root.LookupLocal("x")
	assert.True(t, ok)
	assert.Same(t, sym, got)

	_, ok = root.LookupLocal("y")
	assert.False(t, ok)
}

func TestTable_LookupWalksAncestors(t *testing.T) {
	root := NewRoot()
	root.Declare(&Symbol{Name: "g", Kind: Variable})
	child := root.NewChild("main")
	child.Declare(&Symbol{Name: "x", Kind: Variable})

	_, ok := child.Lookup("g")
	assert.True(t, ok, "child should resolve a name declared in an ancestor scope")

	_, ok = root.Lookup("x")
	assert.False(t, ok, "a parent must never resolve a name only declared in a child")
}

func TestTable_LookupPrefersInnermostScope(t *testing.T) {
	root := NewRoot()
	outer := &Symbol{Name: "x", Kind: Variable, Scope: "global"}
	root.Declare(outer)

	child := root.NewChild("main")
	inner := &Symbol{Name: "x", Kind: Variable, Scope: "main"}
	child.Declare(inner)

	got, _ := child.Lookup("x")
	assert.Same(t, inner, got)
}

func TestTable_DeclareOverwriteKeepsOriginalOrderPosition(t *testing.T) {
	root := NewRoot()
	first := &Symbol{Name: "x", Kind: Variable, DeclLine: 1}
	root.Declare(first)
	root.Declare(&Symbol{Name: "y", Kind: Variable, DeclLine: 2})

	replacement := &Symbol{Name: "x", Kind: Variable, DeclLine: 3}
	root.Declare(replacement)

	ordered := root.Ordered()
	require.Len(t, ordered, 2)
	assert.Equal(t, "x", ordered[0].Name)
	assert.Same(t, replacement, ordered[0])
	assert.Equal(t, "y", ordered[1].Name)
}

func TestTable_OrderedIsDeterministicAcrossManySymbols(t *testing.T) {
	root := NewRoot()
	names := []string{"g", "f", "a", "z", "m", "b", "q"}
	for _, n := range names {
		root.Declare(&Symbol{Name: n, Kind: Variable})
	}

	for i := 0; i < 10; i++ {
		ordered := root.Ordered()
		require.Len(t, ordered, len(names))
		for i, sym := range ordered {
			assert.Equal(t, names[i], sym.Name)
		}
	}
}

func TestTable_WalkVisitsEveryScopeOnce(t *testing.T) {
	root := NewRoot()
	a := root.NewChild("a")
	b := root.NewChild("b")
	a.NewChild("a.inner")

	var visited []string
	root.Walk(func(scope *Table) { visited = append(visited, scope.ScopeName) })

	assert.ElementsMatch(t, []string{"global", "a", "b", "a.inner"}, visited)
	assert.Len(t, visited, 4)
	_ = b
}

func TestTable_CountAcrossScopes(t *testing.T) {
	root := NewRoot()
	root.Declare(&Symbol{Name: "g1", Kind: Variable})
	root.Declare(&Symbol{Name: "g2", Kind: Variable})

	child := root.NewChild("main")
	child.Declare(&Symbol{Name: "x", Kind: Variable})

	assert.Equal(t, 3, root.Count())
}

func TestSymbol_String(t *testing.T) {
	sym := &Symbol{Name: "x", Kind: Variable, DataType: Int, Scope: "main", DeclLine: 4, Initialized: true, Used: false, Address: 2}
	s := sym.String()
	assert.Contains(t, s, "x")
	assert.Contains(t, s, "main")
}
