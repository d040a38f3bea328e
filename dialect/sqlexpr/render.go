package sqlexpr

import (
	"fmt"
	"strconv"
	"strings"
)

// QuoteStyle selects how identifiers are quoted in rendered SQL.
type QuoteStyle int

// Supported quoting styles.
const (
	// QuoteANSI quotes identifiers with double quotes: "name".
	QuoteANSI QuoteStyle = iota
	// QuoteBacktick quotes identifiers with backticks: `name`.
	QuoteBacktick
	// QuoteBracket quotes identifiers with square brackets: [name].
	QuoteBracket
)

// String implements fmt.Stringer.
func (s QuoteStyle) String() string {
	switch s {
	case QuoteANSI:
		return "ansi"
	case QuoteBacktick:
		return "backtick"
	case QuoteBracket:
		return "bracket"
	}
	return fmt.Sprintf("QuoteStyle(%d)", int(s))
}

// Quote returns the identifier quoted in this style. Dotted identifiers are
// quoted per part, so "t.c" becomes "t"."c". An embedded closing quote
// character is escaped by doubling.
func (s QuoteStyle) Quote(ident string) string {
	parts := strings.Split(ident, ".")
	for i, p := range parts {
		parts[i] = s.quotePart(p)
	}
	return strings.Join(parts, ".")
}

func (s QuoteStyle) quotePart(p string) string {
	switch s {
	case QuoteBacktick:
		return "`" + strings.ReplaceAll(p, "`", "``") + "`"
	case QuoteBracket:
		return "[" + strings.ReplaceAll(p, "]", "]]") + "]"
	default:
		return `"` + strings.ReplaceAll(p, `"`, `""`) + `"`
	}
}

// Render produces the SQL text of the expression tree using the given
// quoting style. Rendering is pure: the same tree and style always produce
// the same text.
func Render(e Expr, style QuoteStyle) string {
	var sb strings.Builder
	render(&sb, e, style)
	return sb.String()
}

func render(sb *strings.Builder, e Expr, style QuoteStyle) {
	switch n := e.(type) {
	case literal:
		sb.WriteString(renderLiteral(n.value, style))
	case column:
		sb.WriteString(style.Quote(n.name))
	case call:
		if strings.EqualFold(n.name, "CAST") && len(n.args) == 2 {
			sb.WriteString("CAST(")
			render(sb, n.args[0], style)
			sb.WriteString(" AS ")
			render(sb, n.args[1], style)
			sb.WriteString(")")
			return
		}
		sb.WriteString(n.name)
		sb.WriteString("(")
		for i, a := range n.args {
			if i > 0 {
				sb.WriteString(", ")
			}
			render(sb, a, style)
		}
		sb.WriteString(")")
	case infix:
		sb.WriteString("(")
		render(sb, n.left, style)
		sb.WriteString(" ")
		sb.WriteString(n.op)
		sb.WriteString(" ")
		render(sb, n.right, style)
		sb.WriteString(")")
	case raw:
		sb.WriteString(n.sql)
	default:
		panic(fmt.Sprintf("sqlexpr: unknown expression node %T", e))
	}
}

func renderLiteral(v any, style QuoteStyle) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case string:
		return "'" + escapeString(v, style) + "'"
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return "'" + escapeString(fmt.Sprint(v), style) + "'"
	}
}

// escapeString escapes a string literal for the target style. Single quotes
// are doubled everywhere; backslashes are doubled only for the backtick
// (MySQL-family) style, where the server treats backslash as an escape
// character inside string literals.
func escapeString(s string, style QuoteStyle) string {
	if !strings.ContainsAny(s, `'\`) {
		return s
	}
	if style == QuoteBacktick {
		s = strings.ReplaceAll(s, `\`, `\\`)
	}
	return strings.ReplaceAll(s, "'", "''")
}
