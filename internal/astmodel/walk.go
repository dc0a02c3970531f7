package astmodel

// RewriteExpr recursively substitutes Name nodes in e using onName, which
// returns the replacement expression and true when a substitution applies.
// It is the single read-position rewrite primitive shared by the symbol
// resolver (conflict renames, spec.md §4.3) and the import rewriter
// (aliasing reads of a removed import, spec.md §4.5) — both thread a
// context (the substitution function) through the same dispatch instead
// of re-implementing the expression grammar at each call site (spec.md §9).
func RewriteExpr(e Expr, onName func(id string) (Expr, bool)) Expr {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *Name:
		if repl, ok := onName(n.Id); ok {
			return repl
		}
		return n
	case *Attribute:
		return &Attribute{Value: RewriteExpr(n.Value, onName), Attr: n.Attr}
	case *Subscript:
		return &Subscript{Value: RewriteExpr(n.Value, onName), Index: RewriteExpr(n.Index, onName)}
	case *Call:
		args := make([]Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = RewriteExpr(a, onName)
		}
		kws := make([]Keyword, len(n.Keywords))
		for i, k := range n.Keywords {
			kws[i] = Keyword{Name: k.Name, Value: RewriteExpr(k.Value, onName)}
		}
		return &Call{Func: RewriteExpr(n.Func, onName), Args: args, Keywords: kws}
	case *List:
		return &List{Elts: rewriteExprList(n.Elts, onName)}
	case *Tuple:
		return &Tuple{Elts: rewriteExprList(n.Elts, onName)}
	case *SetLit:
		return &SetLit{Elts: rewriteExprList(n.Elts, onName)}
	case *Dict:
		keys := make([]Expr, len(n.Keys))
		for i, k := range n.Keys {
			keys[i] = RewriteExpr(k, onName)
		}
		return &Dict{Keys: keys, Values: rewriteExprList(n.Values, onName)}
	case *ListComp:
		return &ListComp{Elt: RewriteExpr(n.Elt, onName), Generators: rewriteComprehensions(n.Generators, onName)}
	case *SetComp:
		return &SetComp{Elt: RewriteExpr(n.Elt, onName), Generators: rewriteComprehensions(n.Generators, onName)}
	case *DictComp:
		return &DictComp{Key: RewriteExpr(n.Key, onName), Value: RewriteExpr(n.Value, onName), Generators: rewriteComprehensions(n.Generators, onName)}
	case *GeneratorExp:
		return &GeneratorExp{Elt: RewriteExpr(n.Elt, onName), Generators: rewriteComprehensions(n.Generators, onName)}
	case *BinOp:
		return &BinOp{Left: RewriteExpr(n.Left, onName), Op: n.Op, Right: RewriteExpr(n.Right, onName)}
	case *UnaryOp:
		return &UnaryOp{Op: n.Op, Operand: RewriteExpr(n.Operand, onName)}
	case *BoolOp:
		return &BoolOp{Op: n.Op, Values: rewriteExprList(n.Values, onName)}
	case *Compare:
		return &Compare{Left: RewriteExpr(n.Left, onName), Ops: n.Ops, Comparators: rewriteExprList(n.Comparators, onName)}
	case *IfExp:
		return &IfExp{Test: RewriteExpr(n.Test, onName), Body: RewriteExpr(n.Body, onName), Orelse: RewriteExpr(n.Orelse, onName)}
	case *Starred:
		return &Starred{Value: RewriteExpr(n.Value, onName)}
	case *SliceExpr:
		return &SliceExpr{Lower: RewriteExpr(n.Lower, onName), Upper: RewriteExpr(n.Upper, onName), Step: RewriteExpr(n.Step, onName)}
	case *Lambda:
		return &Lambda{Params: n.Params, Body: RewriteExpr(n.Body, onName)}
	default:
		// literals carry no names
		return e
	}
}

func rewriteExprList(es []Expr, onName func(string) (Expr, bool)) []Expr {
	if es == nil {
		return nil
	}
	out := make([]Expr, len(es))
	for i, e := range es {
		out[i] = RewriteExpr(e, onName)
	}
	return out
}

func rewriteComprehensions(gens []Comprehension, onName func(string) (Expr, bool)) []Comprehension {
	out := make([]Comprehension, len(gens))
	for i, g := range gens {
		ifs := make([]Expr, len(g.Ifs))
		for j, f := range g.Ifs {
			ifs[j] = RewriteExpr(f, onName)
		}
		// the comprehension target introduces a new binding, like an
		// assignment target: never substituted here.
		out[i] = Comprehension{Target: g.Target, Iter: RewriteExpr(g.Iter, onName), Ifs: ifs, IsAsync: g.IsAsync}
	}
	return out
}

// RewriteTarget rewrites the Value of an Attribute/Subscript assignment
// target (a read of the base object) while optionally substituting a bare
// Name target itself when renameSimpleName is true. Simple-name targets
// introduce new bindings and must not be touched by read-position
// substitutions (spec.md §4.3); conflict-based renames are the one case
// that does rename the declaration, so the resolver passes true and the
// import rewriter passes false.
func RewriteTarget(e Expr, onName func(id string) (Expr, bool), renameSimpleName bool) Expr {
	switch n := e.(type) {
	case *Name:
		if renameSimpleName {
			if repl, ok := onName(n.Id); ok {
				return repl
			}
		}
		return n
	case *Attribute:
		return &Attribute{Value: RewriteExpr(n.Value, onName), Attr: n.Attr}
	case *Subscript:
		return &Subscript{Value: RewriteExpr(n.Value, onName), Index: RewriteExpr(n.Index, onName)}
	case *Tuple:
		elts := make([]Expr, len(n.Elts))
		for i, el := range n.Elts {
			elts[i] = RewriteTarget(el, onName, renameSimpleName)
		}
		return &Tuple{Elts: elts}
	case *List:
		elts := make([]Expr, len(n.Elts))
		for i, el := range n.Elts {
			elts[i] = RewriteTarget(el, onName, renameSimpleName)
		}
		return &List{Elts: elts}
	case *Starred:
		return &Starred{Value: RewriteTarget(n.Value, onName, renameSimpleName)}
	default:
		return e
	}
}

// RewriteStmts applies onName to every read position in stmts and, when
// renameSimpleName is set, to simple-Name assignment/declaration targets
// as well (the conflict-rename case). It returns a new statement slice;
// the input is never mutated (spec.md §5 resource policy: the rewriter
// works on a clone it owns, every other stage treats ASTs as read-only).
func RewriteStmts(stmts []Stmt, onName func(id string) (Expr, bool), renameSimpleName bool) []Stmt {
	out := make([]Stmt, len(stmts))
	for i, s := range stmts {
		out[i] = rewriteStmt(s, onName, renameSimpleName)
	}
	return out
}

func renameDeclName(name string, onName func(string) (Expr, bool), renameSimpleName bool) string {
	if !renameSimpleName {
		return name
	}
	if repl, ok := onName(name); ok {
		if id, isName := repl.(*Name); isName {
			return id.Id
		}
	}
	return name
}

func rewriteStmt(s Stmt, onName func(id string) (Expr, bool), renameSimpleName bool) Stmt {
	switch n := s.(type) {
	case *FunctionDef:
		params := make([]Param, len(n.Params))
		for i, p := range n.Params {
			params[i] = Param{Name: p.Name, Annotation: RewriteExpr(p.Annotation, onName), Default: RewriteExpr(p.Default, onName), Kind: p.Kind}
		}
		decorators := make([]Expr, len(n.Decorators))
		for i, d := range n.Decorators {
			decorators[i] = RewriteExpr(d, onName)
		}
		return &FunctionDef{
			Name:       renameDeclName(n.Name, onName, renameSimpleName),
			Params:     params,
			Returns:    RewriteExpr(n.Returns, onName),
			Body:       RewriteStmts(n.Body, onName, renameSimpleName),
			Decorators: decorators,
			IsAsync:    n.IsAsync,
		}
	case *ClassDef:
		decorators := make([]Expr, len(n.Decorators))
		for i, d := range n.Decorators {
			decorators[i] = RewriteExpr(d, onName)
		}
		return &ClassDef{
			Name:       renameDeclName(n.Name, onName, renameSimpleName),
			Bases:      rewriteExprList(n.Bases, onName),
			Body:       RewriteStmts(n.Body, onName, renameSimpleName),
			Decorators: decorators,
		}
	case *Assign:
		targets := make([]Expr, len(n.Targets))
		for i, t := range n.Targets {
			targets[i] = RewriteTarget(t, onName, renameSimpleName)
		}
		return &Assign{Targets: targets, Value: RewriteExpr(n.Value, onName)}
	case *AnnAssign:
		return &AnnAssign{
			Target:     RewriteTarget(n.Target, onName, renameSimpleName),
			Annotation: RewriteExpr(n.Annotation, onName),
			Value:      RewriteExpr(n.Value, onName),
		}
	case *AugAssign:
		return &AugAssign{Target: RewriteTarget(n.Target, onName, renameSimpleName), Op: n.Op, Value: RewriteExpr(n.Value, onName)}
	case *Import:
		return n
	case *FromImport:
		return n
	case *If:
		return &If{Test: RewriteExpr(n.Test, onName), Body: RewriteStmts(n.Body, onName, renameSimpleName), Orelse: RewriteStmts(n.Orelse, onName, renameSimpleName)}
	case *While:
		return &While{Test: RewriteExpr(n.Test, onName), Body: RewriteStmts(n.Body, onName, renameSimpleName), Orelse: RewriteStmts(n.Orelse, onName, renameSimpleName)}
	case *For:
		return &For{
			Target:  RewriteTarget(n.Target, onName, renameSimpleName),
			Iter:    RewriteExpr(n.Iter, onName),
			Body:    RewriteStmts(n.Body, onName, renameSimpleName),
			Orelse:  RewriteStmts(n.Orelse, onName, renameSimpleName),
			IsAsync: n.IsAsync,
		}
	case *With:
		items := make([]WithItem, len(n.Items))
		for i, it := range n.Items {
			var vars Expr
			if it.Vars != nil {
				vars = RewriteTarget(it.Vars, onName, renameSimpleName)
			}
			items[i] = WithItem{Context: RewriteExpr(it.Context, onName), Vars: vars}
		}
		return &With{Items: items, Body: RewriteStmts(n.Body, onName, renameSimpleName), IsAsync: n.IsAsync}
	case *Try:
		handlers := make([]ExceptHandler, len(n.Handlers))
		for i, h := range n.Handlers {
			handlers[i] = ExceptHandler{Type: RewriteExpr(h.Type, onName), Name: h.Name, Body: RewriteStmts(h.Body, onName, renameSimpleName)}
		}
		return &Try{
			Body:     RewriteStmts(n.Body, onName, renameSimpleName),
			Handlers: handlers,
			Orelse:   RewriteStmts(n.Orelse, onName, renameSimpleName),
			Final:    RewriteStmts(n.Final, onName, renameSimpleName),
		}
	case *ExprStmt:
		return &ExprStmt{Value: RewriteExpr(n.Value, onName)}
	case *Return:
		return &Return{Value: RewriteExpr(n.Value, onName)}
	case *Pass:
		return n
	default:
		return s
	}
}
