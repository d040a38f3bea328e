// Package sqlexpr provides a small, composable SQL expression tree and a
// renderer parameterized by identifier-quoting style.
//
// Expressions are built by dialect compilers and rendered once, immutably,
// when the final SQL text is produced:
//
//	expr := sqlexpr.Call("DATE", sqlexpr.Col("created_at"))
//	sql := sqlexpr.Render(expr, sqlexpr.QuoteBacktick) // DATE(`created_at`)
//
// Five node kinds exist: literal, column reference, function call, binary
// operator, and a raw-text escape hatch. Raw is the one place free-form text
// enters generated SQL; callers are responsible for sanitizing anything
// interpolated into it.
package sqlexpr

// Expr is a node in a SQL expression tree. Implementations are built through
// the package constructors and are immutable once created.
type Expr interface {
	expr()
}

type literal struct {
	value any
}

type column struct {
	name string
}

type call struct {
	name string
	args []Expr
}

type infix struct {
	left  Expr
	op    string
	right Expr
}

type raw struct {
	sql string
}

func (literal) expr() {}
func (column) expr()  {}
func (call) expr()    {}
func (infix) expr()   {}
func (raw) expr()     {}

// Lit returns a literal value node. Strings render single-quoted and
// escaped; numbers, booleans and nil render as SQL literals.
func Lit(v any) Expr {
	return literal{value: v}
}

// Col returns a column reference node. Dotted names ("t.created_at") are
// quoted per part when rendered.
func Col(name string) Expr {
	return column{name: name}
}

// Call returns a function-call node: NAME(arg1, arg2, ...).
//
// A call named "CAST" with exactly two arguments renders with the SQL cast
// syntax CAST(arg1 AS arg2) instead of the regular argument list.
func Call(name string, args ...Expr) Expr {
	return call{name: name, args: args}
}

// Cast returns a CAST(x AS typ) node.
func Cast(x Expr, typ string) Expr {
	return Call("CAST", x, Raw(typ))
}

// Op returns a binary operator node. It renders parenthesized,
// (left op right), so composed arithmetic keeps its grouping.
func Op(left Expr, operator string, right Expr) Expr {
	return infix{left: left, op: operator, right: right}
}

// Raw returns a raw SQL fragment rendered verbatim. It is the escape hatch
// for dialect syntax the other nodes cannot express (interval literals,
// keywords); the caller must sanitize any value interpolated into it.
func Raw(sql string) Expr {
	return raw{sql: sql}
}
