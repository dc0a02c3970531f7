package astmodel

// Inspect traverses stmts depth-first, calling visit on every Node
// (statements and expressions alike). If visit returns false the children
// of that node are skipped, mirroring go/ast.Inspect's contract so callers
// already familiar with that idiom can read this one without relearning
// a visitor-object protocol.
func Inspect(stmts []Stmt, visit func(Node) bool) {
	for _, s := range stmts {
		inspectStmt(s, visit)
	}
}

func inspectStmt(s Stmt, visit func(Node) bool) {
	if s == nil || !visit(s) {
		return
	}
	switch n := s.(type) {
	case *FunctionDef:
		for _, p := range n.Params {
			inspectExpr(p.Annotation, visit)
			inspectExpr(p.Default, visit)
		}
		inspectExpr(n.Returns, visit)
		for _, d := range n.Decorators {
			inspectExpr(d, visit)
		}
		Inspect(n.Body, visit)
	case *ClassDef:
		for _, b := range n.Bases {
			inspectExpr(b, visit)
		}
		for _, d := range n.Decorators {
			inspectExpr(d, visit)
		}
		Inspect(n.Body, visit)
	case *Assign:
		for _, t := range n.Targets {
			inspectExpr(t, visit)
		}
		inspectExpr(n.Value, visit)
	case *AnnAssign:
		inspectExpr(n.Target, visit)
		inspectExpr(n.Annotation, visit)
		inspectExpr(n.Value, visit)
	case *AugAssign:
		inspectExpr(n.Target, visit)
		inspectExpr(n.Value, visit)
	case *If:
		inspectExpr(n.Test, visit)
		Inspect(n.Body, visit)
		Inspect(n.Orelse, visit)
	case *While:
		inspectExpr(n.Test, visit)
		Inspect(n.Body, visit)
		Inspect(n.Orelse, visit)
	case *For:
		inspectExpr(n.Target, visit)
		inspectExpr(n.Iter, visit)
		Inspect(n.Body, visit)
		Inspect(n.Orelse, visit)
	case *With:
		for _, it := range n.Items {
			inspectExpr(it.Context, visit)
			inspectExpr(it.Vars, visit)
		}
		Inspect(n.Body, visit)
	case *Try:
		Inspect(n.Body, visit)
		for _, h := range n.Handlers {
			inspectExpr(h.Type, visit)
			Inspect(h.Body, visit)
		}
		Inspect(n.Orelse, visit)
		Inspect(n.Final, visit)
	case *ExprStmt:
		inspectExpr(n.Value, visit)
	case *Return:
		inspectExpr(n.Value, visit)
	}
}

func inspectExpr(e Expr, visit func(Node) bool) {
	if e == nil || !visit(e) {
		return
	}
	switch n := e.(type) {
	case *Attribute:
		inspectExpr(n.Value, visit)
	case *Subscript:
		inspectExpr(n.Value, visit)
		inspectExpr(n.Index, visit)
	case *Call:
		inspectExpr(n.Func, visit)
		for _, a := range n.Args {
			inspectExpr(a, visit)
		}
		for _, k := range n.Keywords {
			inspectExpr(k.Value, visit)
		}
	case *List:
		for _, el := range n.Elts {
			inspectExpr(el, visit)
		}
	case *Tuple:
		for _, el := range n.Elts {
			inspectExpr(el, visit)
		}
	case *SetLit:
		for _, el := range n.Elts {
			inspectExpr(el, visit)
		}
	case *Dict:
		for _, k := range n.Keys {
			inspectExpr(k, visit)
		}
		for _, v := range n.Values {
			inspectExpr(v, visit)
		}
	case *ListComp:
		inspectExpr(n.Elt, visit)
		inspectComprehensions(n.Generators, visit)
	case *SetComp:
		inspectExpr(n.Elt, visit)
		inspectComprehensions(n.Generators, visit)
	case *DictComp:
		inspectExpr(n.Key, visit)
		inspectExpr(n.Value, visit)
		inspectComprehensions(n.Generators, visit)
	case *GeneratorExp:
		inspectExpr(n.Elt, visit)
		inspectComprehensions(n.Generators, visit)
	case *BinOp:
		inspectExpr(n.Left, visit)
		inspectExpr(n.Right, visit)
	case *UnaryOp:
		inspectExpr(n.Operand, visit)
	case *BoolOp:
		for _, v := range n.Values {
			inspectExpr(v, visit)
		}
	case *Compare:
		inspectExpr(n.Left, visit)
		for _, c := range n.Comparators {
			inspectExpr(c, visit)
		}
	case *IfExp:
		inspectExpr(n.Test, visit)
		inspectExpr(n.Body, visit)
		inspectExpr(n.Orelse, visit)
	case *Starred:
		inspectExpr(n.Value, visit)
	case *SliceExpr:
		inspectExpr(n.Lower, visit)
		inspectExpr(n.Upper, visit)
		inspectExpr(n.Step, visit)
	case *Lambda:
		for _, p := range n.Params {
			inspectExpr(p.Default, visit)
		}
		inspectExpr(n.Body, visit)
	}
}

func inspectComprehensions(gens []Comprehension, visit func(Node) bool) {
	for _, g := range gens {
		inspectExpr(g.Target, visit)
		inspectExpr(g.Iter, visit)
		for _, f := range g.Ifs {
			inspectExpr(f, visit)
		}
	}
}

// NameUses walks stmts and reports every identifier read, split into
// immediate (executes when the enclosing statement runs) and deferred
// (only reachable once a nested FunctionDef it belongs to is later
// called — spec.md's eventual_read_vars). Class bodies execute at
// definition time and count as immediate; a Lambda's body is counted in
// the same set as the expression containing it. Names appearing purely
// as assignment targets are not reads and are excluded from both sets;
// attribute/subscript target bases (`obj.attr = 1`) are reads of `obj` and
// are included.
func NameUses(stmts []Stmt) (immediate, deferred map[string]bool) {
	immediate = map[string]bool{}
	deferred = map[string]bool{}
	var walk func(stmts []Stmt, into map[string]bool)
	walk = func(stmts []Stmt, into map[string]bool) {
		for _, s := range stmts {
			switch n := s.(type) {
			case *FunctionDef:
				for _, p := range n.Params {
					collectReadsInto(p.Default, into)
					collectReadsInto(p.Annotation, deferred)
				}
				collectReadsInto(n.Returns, deferred)
				for _, d := range n.Decorators {
					collectReadsInto(d, into)
				}
				walk(n.Body, deferred)
			case *ClassDef:
				for _, b := range n.Bases {
					collectReadsInto(b, into)
				}
				for _, d := range n.Decorators {
					collectReadsInto(d, into)
				}
				walk(n.Body, into) // class bodies execute immediately at definition time
			case *Assign:
				for _, t := range n.Targets {
					collectTargetReadsInto(t, into)
				}
				collectReadsInto(n.Value, into)
			case *AnnAssign:
				collectTargetReadsInto(n.Target, into)
				collectReadsInto(n.Value, into)
			case *AugAssign:
				collectTargetReadsInto(n.Target, into)
				collectReadsInto(n.Value, into)
				if nm, ok := n.Target.(*Name); ok {
					into[nm.Id] = true // augmented assignment reads before it writes
				}
			case *If:
				collectReadsInto(n.Test, into)
				walk(n.Body, into)
				walk(n.Orelse, into)
			case *While:
				collectReadsInto(n.Test, into)
				walk(n.Body, into)
				walk(n.Orelse, into)
			case *For:
				collectTargetReadsInto(n.Target, into)
				collectReadsInto(n.Iter, into)
				walk(n.Body, into)
				walk(n.Orelse, into)
			case *With:
				for _, it := range n.Items {
					collectReadsInto(it.Context, into)
					collectTargetReadsInto(it.Vars, into)
				}
				walk(n.Body, into)
			case *Try:
				walk(n.Body, into)
				for _, h := range n.Handlers {
					collectReadsInto(h.Type, into)
					walk(h.Body, into)
				}
				walk(n.Orelse, into)
				walk(n.Final, into)
			case *ExprStmt:
				collectReadsInto(n.Value, into)
			case *Return:
				collectReadsInto(n.Value, into)
			}
		}
	}
	walk(stmts, immediate)
	return immediate, deferred
}

func collectReadsInto(e Expr, into map[string]bool) {
	inspectExpr(e, func(node Node) bool {
		if nm, ok := node.(*Name); ok {
			into[nm.Id] = true
		}
		if lam, ok := node.(*Lambda); ok {
			for _, p := range lam.Params {
				collectReadsInto(p.Default, into)
			}
			collectReadsInto(lam.Body, into)
			return false
		}
		return true
	})
}

// collectTargetReadsInto records the reads embedded in a target shape
// (obj in `obj.attr = x`, obj and i in `obj[i] = x`) without treating the
// newly-bound simple name itself as a read.
func collectTargetReadsInto(e Expr, into map[string]bool) {
	switch n := e.(type) {
	case *Name:
		// new binding, not a read
	case *Attribute:
		collectReadsInto(n.Value, into)
	case *Subscript:
		collectReadsInto(n.Value, into)
		collectReadsInto(n.Index, into)
	case *Tuple:
		for _, el := range n.Elts {
			collectTargetReadsInto(el, into)
		}
	case *List:
		for _, el := range n.Elts {
			collectTargetReadsInto(el, into)
		}
	case *Starred:
		collectTargetReadsInto(n.Value, into)
	}
}
