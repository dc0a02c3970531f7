package pyfront

import (
	"fmt"
	"strconv"
	"strings"

	"weld/internal/astmodel"
)

// Printer implements bundler.Printer: it walks the assembled astmodel
// tree and re-emits it as indented source text, the inverse of Parse.
// Unlike the parser it carries no state beyond the indent level, so it
// is a value type callers can reuse across runs.
type Printer struct {
	// IndentWidth is the number of spaces per nesting level; zero means 4.
	IndentWidth int
}

// Print renders m as source text.
func (pr Printer) Print(m *astmodel.Module) ([]byte, error) {
	width := pr.IndentWidth
	if width == 0 {
		width = 4
	}
	w := &writer{indentWidth: width}
	w.stmts(m.Body, 0)
	return []byte(w.sb.String()), nil
}

type writer struct {
	sb          strings.Builder
	indentWidth int
}

func (w *writer) pad(level int) string {
	return strings.Repeat(" ", level*w.indentWidth)
}

func (w *writer) line(level int, format string, args ...interface{}) {
	w.sb.WriteString(w.pad(level))
	fmt.Fprintf(&w.sb, format, args...)
	w.sb.WriteByte('\n')
}

func (w *writer) stmts(body []astmodel.Stmt, level int) {
	if len(body) == 0 {
		w.line(level, "pass")
		return
	}
	for _, s := range body {
		w.stmt(s, level)
	}
}

func (w *writer) stmt(s astmodel.Stmt, level int) {
	switch n := s.(type) {
	case *astmodel.FunctionDef:
		for _, d := range n.Decorators {
			w.line(level, "@%s", w.expr(d))
		}
		prefix := "def"
		if n.IsAsync {
			prefix = "async def"
		}
		ret := ""
		if n.Returns != nil {
			ret = " -> " + w.expr(n.Returns)
		}
		w.line(level, "%s %s(%s):%s", prefix, n.Name, w.params(n.Params), ret)
		w.stmts(n.Body, level+1)
	case *astmodel.ClassDef:
		for _, d := range n.Decorators {
			w.line(level, "@%s", w.expr(d))
		}
		bases := ""
		if len(n.Bases) > 0 {
			bases = "(" + w.exprList(n.Bases) + ")"
		}
		w.line(level, "class %s%s:", n.Name, bases)
		w.stmts(n.Body, level+1)
	case *astmodel.Assign:
		targets := make([]string, len(n.Targets))
		for i, t := range n.Targets {
			targets[i] = w.expr(t)
		}
		w.line(level, "%s = %s", strings.Join(targets, " = "), w.expr(n.Value))
	case *astmodel.AnnAssign:
		if n.Value != nil {
			w.line(level, "%s: %s = %s", w.expr(n.Target), w.expr(n.Annotation), w.expr(n.Value))
		} else {
			w.line(level, "%s: %s", w.expr(n.Target), w.expr(n.Annotation))
		}
	case *astmodel.AugAssign:
		w.line(level, "%s %s= %s", w.expr(n.Target), n.Op, w.expr(n.Value))
	case *astmodel.Import:
		w.line(level, "import %s", w.aliasList(n.Names))
	case *astmodel.FromImport:
		w.line(level, "from %s%s import %s", strings.Repeat(".", n.Level), n.Module, w.aliasList(n.Names))
	case *astmodel.If:
		w.line(level, "if %s:", w.expr(n.Test))
		w.stmts(n.Body, level+1)
		w.orelse(n.Orelse, level)
	case *astmodel.While:
		w.line(level, "while %s:", w.expr(n.Test))
		w.stmts(n.Body, level+1)
		w.orelse(n.Orelse, level)
	case *astmodel.For:
		prefix := "for"
		if n.IsAsync {
			prefix = "async for"
		}
		w.line(level, "%s %s in %s:", prefix, w.expr(n.Target), w.expr(n.Iter))
		w.stmts(n.Body, level+1)
		w.orelse(n.Orelse, level)
	case *astmodel.With:
		prefix := "with"
		if n.IsAsync {
			prefix = "async with"
		}
		items := make([]string, len(n.Items))
		for i, it := range n.Items {
			if it.Vars != nil {
				items[i] = fmt.Sprintf("%s as %s", w.expr(it.Context), w.expr(it.Vars))
			} else {
				items[i] = w.expr(it.Context)
			}
		}
		w.line(level, "%s %s:", prefix, strings.Join(items, ", "))
		w.stmts(n.Body, level+1)
	case *astmodel.Try:
		w.line(level, "try:")
		w.stmts(n.Body, level+1)
		for _, h := range n.Handlers {
			switch {
			case h.Type == nil:
				w.line(level, "except:")
			case h.Name != "":
				w.line(level, "except %s as %s:", w.expr(h.Type), h.Name)
			default:
				w.line(level, "except %s:", w.expr(h.Type))
			}
			w.stmts(h.Body, level+1)
		}
		if n.Orelse != nil {
			w.line(level, "else:")
			w.stmts(n.Orelse, level+1)
		}
		if n.Final != nil {
			w.line(level, "finally:")
			w.stmts(n.Final, level+1)
		}
	case *astmodel.ExprStmt:
		w.line(level, "%s", w.expr(n.Value))
	case *astmodel.Return:
		if n.Value != nil {
			w.line(level, "return %s", w.expr(n.Value))
		} else {
			w.line(level, "return")
		}
	case *astmodel.Pass:
		w.line(level, "pass")
	default:
		w.line(level, "# unprintable statement %T", s)
	}
}

func (w *writer) orelse(orelse []astmodel.Stmt, level int) {
	if orelse == nil {
		return
	}
	w.line(level, "else:")
	w.stmts(orelse, level+1)
}

func (w *writer) params(params []astmodel.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		s := p.Name
		switch p.Kind {
		case astmodel.ParamVarArgs:
			s = "*" + s
		case astmodel.ParamKwArgs:
			s = "**" + s
		}
		if p.Annotation != nil {
			s += ": " + w.expr(p.Annotation)
		}
		if p.Default != nil {
			s += "=" + w.expr(p.Default)
		}
		parts[i] = s
	}
	return strings.Join(parts, ", ")
}

func (w *writer) aliasList(names []astmodel.ImportAlias) string {
	parts := make([]string, len(names))
	for i, a := range names {
		if a.Asname != "" {
			parts[i] = a.Name + " as " + a.Asname
		} else {
			parts[i] = a.Name
		}
	}
	return strings.Join(parts, ", ")
}

func (w *writer) exprList(exprs []astmodel.Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = w.expr(e)
	}
	return strings.Join(parts, ", ")
}

func (w *writer) expr(e astmodel.Expr) string {
	switch n := e.(type) {
	case *astmodel.Name:
		return n.Id
	case *astmodel.Attribute:
		return w.expr(n.Value) + "." + n.Attr
	case *astmodel.Subscript:
		return w.expr(n.Value) + "[" + w.expr(n.Index) + "]"
	case *astmodel.Call:
		args := make([]string, 0, len(n.Args)+len(n.Keywords))
		for _, a := range n.Args {
			args = append(args, w.expr(a))
		}
		for _, k := range n.Keywords {
			if k.Name == "" {
				args = append(args, "**"+w.expr(k.Value))
			} else {
				args = append(args, k.Name+"="+w.expr(k.Value))
			}
		}
		return w.expr(n.Func) + "(" + strings.Join(args, ", ") + ")"
	case *astmodel.IntLit:
		return strconv.FormatInt(n.Value, 10)
	case *astmodel.FloatLit:
		return strconv.FormatFloat(n.Value, 'g', -1, 64)
	case *astmodel.StrLit:
		return quoteString(n.Value)
	case *astmodel.BoolLit:
		if n.Value {
			return "True"
		}
		return "False"
	case *astmodel.NoneLit:
		return "None"
	case *astmodel.EllipsisLit:
		return "..."
	case *astmodel.List:
		return "[" + w.exprList(n.Elts) + "]"
	case *astmodel.Tuple:
		if len(n.Elts) == 1 {
			return "(" + w.expr(n.Elts[0]) + ",)"
		}
		return "(" + w.exprList(n.Elts) + ")"
	case *astmodel.SetLit:
		return "{" + w.exprList(n.Elts) + "}"
	case *astmodel.Dict:
		parts := make([]string, len(n.Keys))
		for i := range n.Keys {
			if n.Keys[i] == nil {
				parts[i] = "**" + w.expr(n.Values[i])
			} else {
				parts[i] = w.expr(n.Keys[i]) + ": " + w.expr(n.Values[i])
			}
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *astmodel.ListComp:
		return "[" + w.expr(n.Elt) + w.generators(n.Generators) + "]"
	case *astmodel.SetComp:
		return "{" + w.expr(n.Elt) + w.generators(n.Generators) + "}"
	case *astmodel.DictComp:
		return "{" + w.expr(n.Key) + ": " + w.expr(n.Value) + w.generators(n.Generators) + "}"
	case *astmodel.GeneratorExp:
		return "(" + w.expr(n.Elt) + w.generators(n.Generators) + ")"
	case *astmodel.BinOp:
		return w.expr(n.Left) + " " + n.Op + " " + w.expr(n.Right)
	case *astmodel.UnaryOp:
		if n.Op == "not" {
			return "not " + w.expr(n.Operand)
		}
		return n.Op + w.expr(n.Operand)
	case *astmodel.BoolOp:
		parts := make([]string, len(n.Values))
		for i, v := range n.Values {
			parts[i] = w.expr(v)
		}
		return strings.Join(parts, " "+n.Op+" ")
	case *astmodel.Compare:
		sb := w.expr(n.Left)
		for i, op := range n.Ops {
			sb += " " + op + " " + w.expr(n.Comparators[i])
		}
		return sb
	case *astmodel.IfExp:
		return w.expr(n.Body) + " if " + w.expr(n.Test) + " else " + w.expr(n.Orelse)
	case *astmodel.Starred:
		return "*" + w.expr(n.Value)
	case *astmodel.SliceExpr:
		s := ""
		if n.Lower != nil {
			s += w.expr(n.Lower)
		}
		s += ":"
		if n.Upper != nil {
			s += w.expr(n.Upper)
		}
		if n.Step != nil {
			s += ":" + w.expr(n.Step)
		}
		return s
	case *astmodel.Lambda:
		return "lambda " + w.params(n.Params) + ": " + w.expr(n.Body)
	default:
		return fmt.Sprintf("<?%T>", e)
	}
}

func (w *writer) generators(gens []astmodel.Comprehension) string {
	var sb strings.Builder
	for _, g := range gens {
		prefix := " for "
		if g.IsAsync {
			prefix = " async for "
		}
		sb.WriteString(prefix + w.expr(g.Target) + " in " + w.expr(g.Iter))
		for _, cond := range g.Ifs {
			sb.WriteString(" if " + w.expr(cond))
		}
	}
	return sb.String()
}

// quoteString renders a string literal with double quotes, escaping the
// characters that would otherwise break out of them.
func quoteString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
