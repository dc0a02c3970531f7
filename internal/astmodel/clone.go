package astmodel

// CloneModule deep-copies m so a caller can mutate the copy without
// disturbing the graph's canonical parse (spec.md §5: the import rewriter
// receives a mutable clone of each AST, mutates it in place, and hands
// ownership to the bundle assembler; every earlier stage only ever reads).
func CloneModule(m *Module) *Module {
	if m == nil {
		return nil
	}
	comments := make([]Comment, len(m.Comments))
	copy(comments, m.Comments)
	return &Module{Body: CloneStmts(m.Body), Comments: comments}
}

// CloneStmts deep-copies a statement list.
func CloneStmts(stmts []Stmt) []Stmt {
	if stmts == nil {
		return nil
	}
	out := make([]Stmt, len(stmts))
	for i, s := range stmts {
		out[i] = CloneStmt(s)
	}
	return out
}

func cloneExprs(es []Expr) []Expr {
	if es == nil {
		return nil
	}
	out := make([]Expr, len(es))
	for i, e := range es {
		out[i] = CloneExpr(e)
	}
	return out
}

func cloneParams(ps []Param) []Param {
	if ps == nil {
		return nil
	}
	out := make([]Param, len(ps))
	for i, p := range ps {
		out[i] = Param{Name: p.Name, Annotation: CloneExpr(p.Annotation), Default: CloneExpr(p.Default), Kind: p.Kind}
	}
	return out
}

func cloneComprehensions(gens []Comprehension) []Comprehension {
	if gens == nil {
		return nil
	}
	out := make([]Comprehension, len(gens))
	for i, g := range gens {
		out[i] = Comprehension{Target: CloneExpr(g.Target), Iter: CloneExpr(g.Iter), Ifs: cloneExprs(g.Ifs), IsAsync: g.IsAsync}
	}
	return out
}

// CloneExpr deep-copies a single expression tree.
func CloneExpr(e Expr) Expr {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *Name:
		c := *n
		return &c
	case *Attribute:
		return &Attribute{Value: CloneExpr(n.Value), Attr: n.Attr}
	case *Subscript:
		return &Subscript{Value: CloneExpr(n.Value), Index: CloneExpr(n.Index)}
	case *Call:
		kws := make([]Keyword, len(n.Keywords))
		for i, k := range n.Keywords {
			kws[i] = Keyword{Name: k.Name, Value: CloneExpr(k.Value)}
		}
		return &Call{Func: CloneExpr(n.Func), Args: cloneExprs(n.Args), Keywords: kws}
	case *IntLit:
		c := *n
		return &c
	case *FloatLit:
		c := *n
		return &c
	case *StrLit:
		c := *n
		return &c
	case *BoolLit:
		c := *n
		return &c
	case *NoneLit:
		c := *n
		return &c
	case *EllipsisLit:
		c := *n
		return &c
	case *List:
		return &List{Elts: cloneExprs(n.Elts)}
	case *Tuple:
		return &Tuple{Elts: cloneExprs(n.Elts)}
	case *SetLit:
		return &SetLit{Elts: cloneExprs(n.Elts)}
	case *Dict:
		return &Dict{Keys: cloneExprs(n.Keys), Values: cloneExprs(n.Values)}
	case *ListComp:
		return &ListComp{Elt: CloneExpr(n.Elt), Generators: cloneComprehensions(n.Generators)}
	case *SetComp:
		return &SetComp{Elt: CloneExpr(n.Elt), Generators: cloneComprehensions(n.Generators)}
	case *DictComp:
		return &DictComp{Key: CloneExpr(n.Key), Value: CloneExpr(n.Value), Generators: cloneComprehensions(n.Generators)}
	case *GeneratorExp:
		return &GeneratorExp{Elt: CloneExpr(n.Elt), Generators: cloneComprehensions(n.Generators)}
	case *BinOp:
		return &BinOp{Left: CloneExpr(n.Left), Op: n.Op, Right: CloneExpr(n.Right)}
	case *UnaryOp:
		return &UnaryOp{Op: n.Op, Operand: CloneExpr(n.Operand)}
	case *BoolOp:
		return &BoolOp{Op: n.Op, Values: cloneExprs(n.Values)}
	case *Compare:
		ops := make([]string, len(n.Ops))
		copy(ops, n.Ops)
		return &Compare{Left: CloneExpr(n.Left), Ops: ops, Comparators: cloneExprs(n.Comparators)}
	case *IfExp:
		return &IfExp{Test: CloneExpr(n.Test), Body: CloneExpr(n.Body), Orelse: CloneExpr(n.Orelse)}
	case *Starred:
		return &Starred{Value: CloneExpr(n.Value)}
	case *SliceExpr:
		return &SliceExpr{Lower: CloneExpr(n.Lower), Upper: CloneExpr(n.Upper), Step: CloneExpr(n.Step)}
	case *Lambda:
		return &Lambda{Params: cloneParams(n.Params), Body: CloneExpr(n.Body)}
	default:
		return e
	}
}

// CloneStmt deep-copies a single statement tree.
func CloneStmt(s Stmt) Stmt {
	if s == nil {
		return nil
	}
	switch n := s.(type) {
	case *FunctionDef:
		return &FunctionDef{
			Name:       n.Name,
			Params:     cloneParams(n.Params),
			Returns:    CloneExpr(n.Returns),
			Body:       CloneStmts(n.Body),
			Decorators: cloneExprs(n.Decorators),
			IsAsync:    n.IsAsync,
		}
	case *ClassDef:
		return &ClassDef{Name: n.Name, Bases: cloneExprs(n.Bases), Body: CloneStmts(n.Body), Decorators: cloneExprs(n.Decorators)}
	case *Assign:
		return &Assign{Targets: cloneExprs(n.Targets), Value: CloneExpr(n.Value)}
	case *AnnAssign:
		return &AnnAssign{Target: CloneExpr(n.Target), Annotation: CloneExpr(n.Annotation), Value: CloneExpr(n.Value)}
	case *AugAssign:
		return &AugAssign{Target: CloneExpr(n.Target), Op: n.Op, Value: CloneExpr(n.Value)}
	case *Import:
		names := make([]ImportAlias, len(n.Names))
		copy(names, n.Names)
		return &Import{Names: names}
	case *FromImport:
		names := make([]ImportAlias, len(n.Names))
		copy(names, n.Names)
		return &FromImport{Module: n.Module, Level: n.Level, Names: names}
	case *If:
		return &If{Test: CloneExpr(n.Test), Body: CloneStmts(n.Body), Orelse: CloneStmts(n.Orelse)}
	case *While:
		return &While{Test: CloneExpr(n.Test), Body: CloneStmts(n.Body), Orelse: CloneStmts(n.Orelse)}
	case *For:
		return &For{Target: CloneExpr(n.Target), Iter: CloneExpr(n.Iter), Body: CloneStmts(n.Body), Orelse: CloneStmts(n.Orelse), IsAsync: n.IsAsync}
	case *With:
		items := make([]WithItem, len(n.Items))
		for i, it := range n.Items {
			items[i] = WithItem{Context: CloneExpr(it.Context), Vars: CloneExpr(it.Vars)}
		}
		return &With{Items: items, Body: CloneStmts(n.Body), IsAsync: n.IsAsync}
	case *Try:
		handlers := make([]ExceptHandler, len(n.Handlers))
		for i, h := range n.Handlers {
			handlers[i] = ExceptHandler{Type: CloneExpr(h.Type), Name: h.Name, Body: CloneStmts(h.Body)}
		}
		return &Try{Body: CloneStmts(n.Body), Handlers: handlers, Orelse: CloneStmts(n.Orelse), Final: CloneStmts(n.Final)}
	case *ExprStmt:
		return &ExprStmt{Value: CloneExpr(n.Value)}
	case *Return:
		return &Return{Value: CloneExpr(n.Value)}
	case *Pass:
		c := *n
		return &c
	default:
		return s
	}
}
