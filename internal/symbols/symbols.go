// Package symbols implements the scope tree built by semantic analysis.
package symbols

import "fmt"

// Kind classifies what a Symbol names.
type Kind int

const (
	Variable Kind = iota
	Function
	Parameter
	Temporal
)

var kindNames = [...]string{
	Variable:  "Variable",
	Function:  "Function",
	Parameter: "Parameter",
	Temporal:  "Temporal",
}

func (k Kind) String() string { return kindNames[k] }

// DataType is the primitive type a Symbol holds.
type DataType int

const (
	Int DataType = iota
	Float
	Bool
	String
	Void
)

var dataTypeNames = [...]string{
	Int:    "int",
	Float:  "float",
	Bool:   "bool",
	String: "string",
	Void:   "void",
}

func (d DataType) String() string { return dataTypeNames[d] }

// ParseDataType maps a VariableDeclaration's type keyword to a DataType.
// The ok=false return (with the zero DataType, Int) is unreachable from the
// frozen grammar (the parser only ever sets VarType to one of
// int/float/bool/string). semantic.Analyzer discards ok, so any other
// keyword would be recorded as Int.
func ParseDataType(keyword string) (DataType, bool) {
	switch keyword {
	case "int":
		return Int, true
	case "float":
		return Float, true
	case "bool":
		return Bool, true
	case "string":
		return String, true
	}
	return 0, false
}

// Symbol is one declared name: a variable, function, parameter, or compiler
// temporary.
type Symbol struct {
	Name        string
	Kind        Kind
	DataType    DataType
	Scope       string
	DeclLine    int
	Initialized bool
	Used        bool
	Address     int
}

// Table is a node in the scope tree. The root is level 0 ("global") and is
// never popped. Children are appended as scopes are entered and are never
// removed, so the finished tree reflects every scope that ever existed
// during analysis, not just the ones still "open" at the end.
type Table struct {
	ScopeName string
	Level     int
	Symbols   map[string]*Symbol
	Children  []*Table

	// order records declaration order so callers that need a deterministic
	// walk (rendering, the terminal unused/uninitialized passes) don't
	// depend on Go's randomized map iteration.
	order []string

	// parent is a non-owning back-reference used only by lookup. It must
	// never be serialized: doing so would turn the tree into a cycle (see
	// the ownership rules in §3 of the compiler's spec).
	parent *Table
}

// NewRoot creates the level-0 "global" scope.
func NewRoot() *Table {
	return &Table{ScopeName: "global", Level: 0, Symbols: map[string]*Symbol{}}
}

// NewChild creates a new scope under t, appends it to t's children, and
// returns it. It does not make the new scope "current" — callers track that
// themselves (see semantic.Analyzer's scope stack).
func (t *Table) NewChild(scopeName string) *Table {
	child := &Table{
		ScopeName: scopeName,
		Level:     t.Level + 1,
		Symbols:   map[string]*Symbol{},
		parent:    t,
	}
	t.Children = append(t.Children, child)
	return child
}

// Parent returns the non-owning parent back-reference, or nil at the root.
func (t *Table) Parent() *Table { return t.parent }

// Declare records sym in t's own symbol map under sym.Name. It does not
// check for redeclaration; callers (semantic.Analyzer) check LookupLocal first
// and decide how to report a collision, since the wording of that error
// differs between functions and variables.
func (t *Table) Declare(sym *Symbol) {
	if _, exists := t.Symbols[sym.Name]; !exists {
		t.order = append(t.order, sym.Name)
	}
	t.Symbols[sym.Name] = sym
}

// Ordered returns t's own symbols in declaration order.
func (t *Table) Ordered() []*Symbol {
	out := make([]*Symbol, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.Symbols[name])
	}
	return out
}

// LookupLocal reports whether name is declared directly in t, ignoring
// ancestors.
func (t *Table) LookupLocal(name string) (*Symbol, bool) {
	sym, ok := t.Symbols[name]
	return sym, ok
}

// Lookup resolves name by walking from t outward through ancestors,
// innermost scope first.
func (t *Table) Lookup(name string) (*Symbol, bool) {
	for scope := t; scope != nil; scope = scope.parent {
		if sym, ok := scope.Symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// Walk visits t and every descendant, depth-first, in child order. It is
// used by the terminal unused/uninitialized-variable pass and by metrics
// (SymbolsCount) and rendering, none of which care about traversal order
// beyond "every scope exactly once".
func (t *Table) Walk(visit func(*Table)) {
	visit(t)
	for _, child := range t.Children {
		child.Walk(visit)
	}
}

// Count returns the total number of symbols across t and every descendant
// scope.
func (t *Table) Count() int {
	total := 0
	t.Walk(func(scope *Table) { total += len(scope.order) })
	return total
}

func (s *Symbol) String() string {
	return fmt.Sprintf("%s %s %s @%d (scope=%s, line=%d, init=%v, used=%v)",
		s.Kind, s.DataType, s.Name, s.Address, s.Scope, s.DeclLine, s.Initialized, s.Used)
}
