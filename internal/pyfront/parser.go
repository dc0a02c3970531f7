package pyfront

import (
	"fmt"
	"strconv"
	"strings"

	"weld/internal/astmodel"
)

// Parser is a recursive-descent parser over a Scanner's token stream,
// structured the way sentra's own parser.Parser walks its token slice
// with a current index and peek/advance/match helpers, generalized
// from sentra's expression-statement grammar to the indentation-block
// grammar a Python-like module needs.
type Parser struct {
	tokens  []Token
	current int
}

// LanguageParser implements discovery.Parser (and bundler's dependency
// on a parsing collaborator) by scanning and parsing with this package's
// Scanner/Parser pair. It carries no state, so the zero value is ready
// to use.
type LanguageParser struct{}

// Parse implements discovery.Parser.
func (LanguageParser) Parse(path string, src []byte) (*astmodel.Module, error) {
	return Parse(path, src)
}

// Parse scans and parses src into an astmodel.Module. path is accepted
// for interface compatibility and used only in error messages.
func Parse(path string, src []byte) (*astmodel.Module, error) {
	tokens := NewScanner(string(src)).ScanTokens()
	p := &Parser{tokens: tokens}
	body, err := p.parseBlock(topLevel)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &astmodel.Module{Body: body}, nil
}

// blockEnd distinguishes the top-level block (ends at EOF) from a
// nested indented block (ends at DEDENT).
type blockEnd int

const (
	topLevel blockEnd = iota
	indented
)

func (p *Parser) parseBlock(end blockEnd) ([]astmodel.Stmt, error) {
	var stmts []astmodel.Stmt
	for {
		for p.check(TokenNewline) {
			p.advance()
		}
		if end == indented && p.check(TokenDedent) {
			p.advance()
			return stmts, nil
		}
		if p.check(TokenEOF) {
			return stmts, nil
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
}

func (p *Parser) parseSuite() ([]astmodel.Stmt, error) {
	if !p.check(TokenColon) {
		return nil, p.errorf("expected ':'")
	}
	p.advance()
	if p.check(TokenNewline) {
		p.advance()
		if !p.check(TokenIndent) {
			return nil, p.errorf("expected indented block")
		}
		p.advance()
		return p.parseBlock(indented)
	}
	// Single-line suite: `if x: return y`
	stmt, err := p.parseSimpleStmt()
	if err != nil {
		return nil, err
	}
	return []astmodel.Stmt{stmt}, nil
}

func (p *Parser) parseStmt() (astmodel.Stmt, error) {
	decorators, err := p.parseDecorators()
	if err != nil {
		return nil, err
	}
	switch p.peek().Type {
	case TokenDef:
		return p.parseFunctionDef(decorators, false)
	case TokenAsync:
		p.advance()
		if !p.check(TokenDef) {
			return nil, p.errorf("expected 'def' after 'async'")
		}
		return p.parseFunctionDef(decorators, true)
	case TokenClass:
		return p.parseClassDef(decorators)
	case TokenIf:
		return p.parseIf()
	case TokenWhile:
		return p.parseWhile()
	case TokenFor:
		return p.parseFor(false)
	case TokenWith:
		return p.parseWith(false)
	case TokenTry:
		return p.parseTry()
	case TokenImport:
		return p.finishLine(p.parseImport())
	case TokenFrom:
		return p.finishLine(p.parseFromImport())
	default:
		return p.finishLine(p.parseSimpleStmt())
	}
}

func (p *Parser) finishLine(stmt astmodel.Stmt, err error) (astmodel.Stmt, error) {
	if err != nil {
		return nil, err
	}
	for p.check(TokenNewline) {
		p.advance()
	}
	return stmt, nil
}

func (p *Parser) parseDecorators() ([]astmodel.Expr, error) {
	var decs []astmodel.Expr
	for p.check(TokenAt) {
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		decs = append(decs, e)
		for p.check(TokenNewline) {
			p.advance()
		}
	}
	return decs, nil
}

func (p *Parser) parseFunctionDef(decorators []astmodel.Expr, isAsync bool) (astmodel.Stmt, error) {
	p.advance() // def
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if !p.check(TokenLParen) {
		return nil, p.errorf("expected '(' after function name")
	}
	p.advance()
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	var returns astmodel.Expr
	if p.check(TokenArrow) {
		p.advance()
		returns, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	body, err := p.parseSuite()
	if err != nil {
		return nil, err
	}
	return &astmodel.FunctionDef{Name: name, Params: params, Returns: returns, Body: body, Decorators: decorators, IsAsync: isAsync}, nil
}

func (p *Parser) parseParams() ([]astmodel.Param, error) {
	var params []astmodel.Param
	for !p.check(TokenRParen) {
		kind := astmodel.ParamPositional
		if p.check(TokenDStar) {
			p.advance()
			kind = astmodel.ParamKwArgs
		} else if p.check(TokenStar) {
			p.advance()
			kind = astmodel.ParamVarArgs
		}
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		param := astmodel.Param{Name: name, Kind: kind}
		if p.check(TokenColon) {
			p.advance()
			ann, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			param.Annotation = ann
		}
		if p.check(TokenEqual) {
			p.advance()
			def, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			param.Default = def
		}
		params = append(params, param)
		if p.check(TokenComma) {
			p.advance()
			continue
		}
		break
	}
	if !p.check(TokenRParen) {
		return nil, p.errorf("expected ')' after parameters")
	}
	p.advance()
	return params, nil
}

func (p *Parser) parseClassDef(decorators []astmodel.Expr) (astmodel.Stmt, error) {
	p.advance() // class
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	var bases []astmodel.Expr
	if p.check(TokenLParen) {
		p.advance()
		for !p.check(TokenRParen) {
			b, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			bases = append(bases, b)
			if p.check(TokenComma) {
				p.advance()
				continue
			}
			break
		}
		if !p.check(TokenRParen) {
			return nil, p.errorf("expected ')' after class bases")
		}
		p.advance()
	}
	body, err := p.parseSuite()
	if err != nil {
		return nil, err
	}
	return &astmodel.ClassDef{Name: name, Bases: bases, Body: body, Decorators: decorators}, nil
}

func (p *Parser) parseIf() (astmodel.Stmt, error) {
	p.advance() // if
	test, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseSuite()
	if err != nil {
		return nil, err
	}
	var orelse []astmodel.Stmt
	if p.check(TokenElif) {
		elif, err := p.parseIf()
		if err != nil {
			return nil, err
		}
		orelse = []astmodel.Stmt{elif}
	} else if p.check(TokenElse) {
		p.advance()
		orelse, err = p.parseSuite()
		if err != nil {
			return nil, err
		}
	}
	return &astmodel.If{Test: test, Body: body, Orelse: orelse}, nil
}

func (p *Parser) parseWhile() (astmodel.Stmt, error) {
	p.advance()
	test, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseSuite()
	if err != nil {
		return nil, err
	}
	var orelse []astmodel.Stmt
	if p.check(TokenElse) {
		p.advance()
		orelse, err = p.parseSuite()
		if err != nil {
			return nil, err
		}
	}
	return &astmodel.While{Test: test, Body: body, Orelse: orelse}, nil
}

func (p *Parser) parseFor(isAsync bool) (astmodel.Stmt, error) {
	p.advance()
	target, err := p.parseForTarget()
	if err != nil {
		return nil, err
	}
	if !p.check(TokenIn) {
		return nil, p.errorf("expected 'in' in for statement")
	}
	p.advance()
	iter, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseSuite()
	if err != nil {
		return nil, err
	}
	var orelse []astmodel.Stmt
	if p.check(TokenElse) {
		p.advance()
		orelse, err = p.parseSuite()
		if err != nil {
			return nil, err
		}
	}
	return &astmodel.For{Target: target, Iter: iter, Body: body, Orelse: orelse, IsAsync: isAsync}, nil
}

func (p *Parser) parseWith(isAsync bool) (astmodel.Stmt, error) {
	p.advance()
	var items []astmodel.WithItem
	for {
		ctx, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		item := astmodel.WithItem{Context: ctx}
		if p.check(TokenAs) {
			p.advance()
			v, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			item.Vars = v
		}
		items = append(items, item)
		if p.check(TokenComma) {
			p.advance()
			continue
		}
		break
	}
	body, err := p.parseSuite()
	if err != nil {
		return nil, err
	}
	return &astmodel.With{Items: items, Body: body, IsAsync: isAsync}, nil
}

func (p *Parser) parseTry() (astmodel.Stmt, error) {
	p.advance()
	body, err := p.parseSuite()
	if err != nil {
		return nil, err
	}
	t := &astmodel.Try{Body: body}
	for p.check(TokenExcept) {
		p.advance()
		var h astmodel.ExceptHandler
		if !p.check(TokenColon) {
			typ, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			h.Type = typ
			if p.check(TokenAs) {
				p.advance()
				name, err := p.expectIdent()
				if err != nil {
					return nil, err
				}
				h.Name = name
			}
		}
		hb, err := p.parseSuite()
		if err != nil {
			return nil, err
		}
		h.Body = hb
		t.Handlers = append(t.Handlers, h)
	}
	if p.check(TokenElse) {
		p.advance()
		orelse, err := p.parseSuite()
		if err != nil {
			return nil, err
		}
		t.Orelse = orelse
	}
	if p.check(TokenFinally) {
		p.advance()
		final, err := p.parseSuite()
		if err != nil {
			return nil, err
		}
		t.Final = final
	}
	return t, nil
}

func (p *Parser) parseImport() (astmodel.Stmt, error) {
	p.advance()
	names, err := p.parseAliasList()
	if err != nil {
		return nil, err
	}
	return &astmodel.Import{Names: names}, nil
}

func (p *Parser) parseFromImport() (astmodel.Stmt, error) {
	p.advance()
	level := 0
	for p.check(TokenDot) {
		level++
		p.advance()
	}
	module := ""
	if p.check(TokenIdent) {
		module, _ = p.parseDottedName()
	}
	if !p.check(TokenImport) {
		return nil, p.errorf("expected 'import' in from-import")
	}
	p.advance()
	var names []astmodel.ImportAlias
	if p.check(TokenStar) {
		p.advance()
		names = append(names, astmodel.ImportAlias{Name: "*"})
	} else {
		paren := p.check(TokenLParen)
		if paren {
			p.advance()
		}
		for {
			name, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			alias := astmodel.ImportAlias{Name: name}
			if p.check(TokenAs) {
				p.advance()
				as, err := p.expectIdent()
				if err != nil {
					return nil, err
				}
				alias.Asname = as
			}
			names = append(names, alias)
			if p.check(TokenComma) {
				p.advance()
				continue
			}
			break
		}
		if paren {
			if !p.check(TokenRParen) {
				return nil, p.errorf("expected ')' closing import list")
			}
			p.advance()
		}
	}
	return &astmodel.FromImport{Module: module, Level: level, Names: names}, nil
}

func (p *Parser) parseAliasList() ([]astmodel.ImportAlias, error) {
	var names []astmodel.ImportAlias
	for {
		dotted, err := p.parseDottedName()
		if err != nil {
			return nil, err
		}
		alias := astmodel.ImportAlias{Name: dotted}
		if p.check(TokenAs) {
			p.advance()
			as, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			alias.Asname = as
		}
		names = append(names, alias)
		if p.check(TokenComma) {
			p.advance()
			continue
		}
		break
	}
	return names, nil
}

func (p *Parser) parseDottedName() (string, error) {
	var parts []string
	first, err := p.expectIdent()
	if err != nil {
		return "", err
	}
	parts = append(parts, first)
	for p.check(TokenDot) {
		p.advance()
		n, err := p.expectIdent()
		if err != nil {
			return "", err
		}
		parts = append(parts, n)
	}
	return strings.Join(parts, "."), nil
}

// parseSimpleStmt parses one of: pass, return, assignment (plain, ann,
// aug), or a bare expression statement.
func (p *Parser) parseSimpleStmt() (astmodel.Stmt, error) {
	switch p.peek().Type {
	case TokenPass:
		p.advance()
		return &astmodel.Pass{}, nil
	case TokenReturn:
		p.advance()
		if p.check(TokenNewline) || p.check(TokenEOF) || p.check(TokenDedent) {
			return &astmodel.Return{}, nil
		}
		v, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		return &astmodel.Return{Value: v}, nil
	default:
		return p.parseExprOrAssignStmt()
	}
}

func (p *Parser) parseExprOrAssignStmt() (astmodel.Stmt, error) {
	first, err := p.parseTargetList()
	if err != nil {
		return nil, err
	}
	if p.check(TokenColon) {
		p.advance()
		ann, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		var value astmodel.Expr
		if p.check(TokenEqual) {
			p.advance()
			value, err = p.parseExprList()
			if err != nil {
				return nil, err
			}
		}
		return &astmodel.AnnAssign{Target: first, Annotation: ann, Value: value}, nil
	}
	if p.check(TokenAugAssign) {
		op := strings.TrimSuffix(p.advance().Lexeme, "=")
		value, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		return &astmodel.AugAssign{Target: first, Op: op, Value: value}, nil
	}
	if p.check(TokenEqual) {
		targets := []astmodel.Expr{first}
		p.advance()
		value, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		for p.check(TokenEqual) {
			p.advance()
			targets = append(targets, value)
			value, err = p.parseExprList()
			if err != nil {
				return nil, err
			}
		}
		return &astmodel.Assign{Targets: targets, Value: value}, nil
	}
	return &astmodel.ExprStmt{Value: first}, nil
}

// parseTargetList parses one or more comma-separated targets/expressions,
// collapsing more than one into a Tuple (bare `a, b = ...` tuple targets).
func (p *Parser) parseTargetList() (astmodel.Expr, error) {
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.check(TokenComma) {
		return first, nil
	}
	elts := []astmodel.Expr{first}
	for p.check(TokenComma) {
		p.advance()
		if p.check(TokenEqual) || p.check(TokenColon) || p.check(TokenNewline) {
			break
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elts = append(elts, e)
	}
	return &astmodel.Tuple{Elts: elts}, nil
}

func (p *Parser) parseExprList() (astmodel.Expr, error) {
	return p.parseTargetList()
}

// parseForTarget parses a for-loop or comprehension target below
// comparison precedence, so the `in` that follows it is left for the caller.
func (p *Parser) parseForTarget() (astmodel.Expr, error) {
	var elts []astmodel.Expr
	for {
		e, err := p.parseBitOr()
		if err != nil {
			return nil, err
		}
		elts = append(elts, e)
		if !p.check(TokenComma) {
			break
		}
		p.advance()
	}
	if len(elts) == 1 {
		return elts[0], nil
	}
	return &astmodel.Tuple{Elts: elts}, nil
}

// ---- expression grammar: precedence-climbing over or/and/not,
// comparisons, bitwise, arithmetic, unary, then postfix/primary. ----

func (p *Parser) parseExpr() (astmodel.Expr, error) {
	if p.check(TokenLambda) {
		return p.parseLambda()
	}
	return p.parseTernary()
}

func (p *Parser) parseLambda() (astmodel.Expr, error) {
	p.advance()
	var params []astmodel.Param
	for !p.check(TokenColon) {
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		param := astmodel.Param{Name: name}
		if p.check(TokenEqual) {
			p.advance()
			def, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			param.Default = def
		}
		params = append(params, param)
		if p.check(TokenComma) {
			p.advance()
			continue
		}
		break
	}
	p.advance() // :
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &astmodel.Lambda{Params: params, Body: body}, nil
}

func (p *Parser) parseTernary() (astmodel.Expr, error) {
	body, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.check(TokenIf) {
		p.advance()
		test, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if !p.check(TokenElse) {
			return nil, p.errorf("expected 'else' in conditional expression")
		}
		p.advance()
		orelse, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &astmodel.IfExp{Test: test, Body: body, Orelse: orelse}, nil
	}
	return body, nil
}

func (p *Parser) parseOr() (astmodel.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	if !p.check(TokenOr) {
		return left, nil
	}
	values := []astmodel.Expr{left}
	for p.check(TokenOr) {
		p.advance()
		v, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return &astmodel.BoolOp{Op: "or", Values: values}, nil
}

func (p *Parser) parseAnd() (astmodel.Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	if !p.check(TokenAnd) {
		return left, nil
	}
	values := []astmodel.Expr{left}
	for p.check(TokenAnd) {
		p.advance()
		v, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return &astmodel.BoolOp{Op: "and", Values: values}, nil
}

func (p *Parser) parseNot() (astmodel.Expr, error) {
	if p.check(TokenNot) {
		p.advance()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &astmodel.UnaryOp{Op: "not", Operand: operand}, nil
	}
	return p.parseComparison()
}

var compareOps = map[TokenType]string{
	TokenEq: "==", TokenNe: "!=", TokenLt: "<", TokenGt: ">",
	TokenLe: "<=", TokenGe: ">=", TokenIn: "in", TokenIs: "is",
}

func (p *Parser) parseComparison() (astmodel.Expr, error) {
	left, err := p.parseBitOr()
	if err != nil {
		return nil, err
	}
	var ops []string
	var comparators []astmodel.Expr
	for {
		if op, ok := compareOps[p.peek().Type]; ok {
			p.advance()
			right, err := p.parseBitOr()
			if err != nil {
				return nil, err
			}
			ops = append(ops, op)
			comparators = append(comparators, right)
			continue
		}
		break
	}
	if len(ops) == 0 {
		return left, nil
	}
	return &astmodel.Compare{Left: left, Ops: ops, Comparators: comparators}, nil
}

func (p *Parser) parseBitOr() (astmodel.Expr, error) { return p.binLevel(p.parseBitXor, TokenPipe) }
func (p *Parser) parseBitXor() (astmodel.Expr, error) { return p.binLevel(p.parseBitAnd, TokenCaret) }
func (p *Parser) parseBitAnd() (astmodel.Expr, error) { return p.binLevel(p.parseAdd, TokenAmp) }

func (p *Parser) parseAdd() (astmodel.Expr, error) {
	return p.binLevel(p.parseMul, TokenPlus, TokenMinus)
}

func (p *Parser) parseMul() (astmodel.Expr, error) {
	return p.binLevel(p.parseUnary, TokenStar, TokenSlash, TokenPercent)
}

// binLevel implements one precedence level of left-associative binary
// operators, the way sentra's own Pratt-style parser chains levels.
func (p *Parser) binLevel(next func() (astmodel.Expr, error), ops ...TokenType) (astmodel.Expr, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		matched := false
		for _, op := range ops {
			if p.check(op) {
				tok := p.advance()
				right, err := next()
				if err != nil {
					return nil, err
				}
				left = &astmodel.BinOp{Left: left, Op: string(tok.Type), Right: right}
				matched = true
				break
			}
		}
		if !matched {
			return left, nil
		}
	}
}

func (p *Parser) parseUnary() (astmodel.Expr, error) {
	switch p.peek().Type {
	case TokenMinus, TokenPlus, TokenTilde:
		tok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &astmodel.UnaryOp{Op: string(tok.Type), Operand: operand}, nil
	case TokenStar:
		p.advance()
		v, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &astmodel.Starred{Value: v}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (astmodel.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().Type {
		case TokenDot:
			p.advance()
			attr, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			expr = &astmodel.Attribute{Value: expr, Attr: attr}
		case TokenLParen:
			p.advance()
			args, kwargs, err := p.parseCallArgs()
			if err != nil {
				return nil, err
			}
			expr = &astmodel.Call{Func: expr, Args: args, Keywords: kwargs}
		case TokenLBracket:
			p.advance()
			idx, err := p.parseSubscript()
			if err != nil {
				return nil, err
			}
			if !p.check(TokenRBracket) {
				return nil, p.errorf("expected ']'")
			}
			p.advance()
			expr = &astmodel.Subscript{Value: expr, Index: idx}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseCallArgs() ([]astmodel.Expr, []astmodel.Keyword, error) {
	var args []astmodel.Expr
	var kwargs []astmodel.Keyword
	for !p.check(TokenRParen) {
		if p.check(TokenDStar) {
			p.advance()
			v, err := p.parseExpr()
			if err != nil {
				return nil, nil, err
			}
			kwargs = append(kwargs, astmodel.Keyword{Value: v})
		} else if p.check(TokenIdent) && p.peekAt(1).Type == TokenEqual {
			name := p.advance().Lexeme
			p.advance() // =
			v, err := p.parseExpr()
			if err != nil {
				return nil, nil, err
			}
			kwargs = append(kwargs, astmodel.Keyword{Name: name, Value: v})
		} else {
			v, err := p.parseExpr()
			if err != nil {
				return nil, nil, err
			}
			args = append(args, v)
		}
		if p.check(TokenComma) {
			p.advance()
			continue
		}
		break
	}
	if !p.check(TokenRParen) {
		return nil, nil, p.errorf("expected ')' closing call")
	}
	p.advance()
	return args, kwargs, nil
}

func (p *Parser) parseSubscript() (astmodel.Expr, error) {
	var lower, upper, step astmodel.Expr
	var err error
	isSlice := false
	if !p.check(TokenColon) {
		lower, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if p.check(TokenColon) {
		isSlice = true
		p.advance()
		if !p.check(TokenColon) && !p.check(TokenRBracket) {
			upper, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}
		if p.check(TokenColon) {
			p.advance()
			if !p.check(TokenRBracket) {
				step, err = p.parseExpr()
				if err != nil {
					return nil, err
				}
			}
		}
	}
	if isSlice {
		return &astmodel.SliceExpr{Lower: lower, Upper: upper, Step: step}, nil
	}
	return lower, nil
}

func (p *Parser) parsePrimary() (astmodel.Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case TokenNumber:
		p.advance()
		return parseNumberLit(tok.Lexeme), nil
	case TokenString:
		p.advance()
		return &astmodel.StrLit{Value: tok.Lexeme}, nil
	case TokenTrue:
		p.advance()
		return &astmodel.BoolLit{Value: true}, nil
	case TokenFalse:
		p.advance()
		return &astmodel.BoolLit{Value: false}, nil
	case TokenNone:
		p.advance()
		return &astmodel.NoneLit{}, nil
	case TokenIdent:
		p.advance()
		return &astmodel.Name{Id: tok.Lexeme}, nil
	case TokenLParen:
		return p.parseParenOrTuple()
	case TokenLBracket:
		return p.parseListOrComp()
	case TokenLBrace:
		return p.parseDictOrSet()
	case TokenStar:
		p.advance()
		v, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return &astmodel.Starred{Value: v}, nil
	default:
		return nil, p.errorf("unexpected token %s", tok.Type)
	}
}

func parseNumberLit(lexeme string) astmodel.Expr {
	if strings.Contains(lexeme, ".") {
		f, _ := strconv.ParseFloat(lexeme, 64)
		return &astmodel.FloatLit{Value: f}
	}
	i, _ := strconv.ParseInt(lexeme, 10, 64)
	return &astmodel.IntLit{Value: i}
}

func (p *Parser) parseParenOrTuple() (astmodel.Expr, error) {
	p.advance() // (
	if p.check(TokenRParen) {
		p.advance()
		return &astmodel.Tuple{}, nil
	}
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if gen, ok, err := p.maybeGenerator(first); ok || err != nil {
		return gen, err
	}
	if !p.check(TokenComma) {
		if !p.check(TokenRParen) {
			return nil, p.errorf("expected ')'")
		}
		p.advance()
		return first, nil
	}
	elts := []astmodel.Expr{first}
	for p.check(TokenComma) {
		p.advance()
		if p.check(TokenRParen) {
			break
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elts = append(elts, e)
	}
	if !p.check(TokenRParen) {
		return nil, p.errorf("expected ')' closing tuple")
	}
	p.advance()
	return &astmodel.Tuple{Elts: elts}, nil
}

func (p *Parser) maybeGenerator(elt astmodel.Expr) (astmodel.Expr, bool, error) {
	if !p.check(TokenFor) {
		return nil, false, nil
	}
	gens, err := p.parseComprehensions()
	if err != nil {
		return nil, true, err
	}
	if !p.check(TokenRParen) {
		return nil, true, p.errorf("expected ')' closing generator expression")
	}
	p.advance()
	return &astmodel.GeneratorExp{Elt: elt, Generators: gens}, true, nil
}

func (p *Parser) parseListOrComp() (astmodel.Expr, error) {
	p.advance() // [
	if p.check(TokenRBracket) {
		p.advance()
		return &astmodel.List{}, nil
	}
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.check(TokenFor) {
		gens, err := p.parseComprehensions()
		if err != nil {
			return nil, err
		}
		if !p.check(TokenRBracket) {
			return nil, p.errorf("expected ']' closing list comprehension")
		}
		p.advance()
		return &astmodel.ListComp{Elt: first, Generators: gens}, nil
	}
	elts := []astmodel.Expr{first}
	for p.check(TokenComma) {
		p.advance()
		if p.check(TokenRBracket) {
			break
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elts = append(elts, e)
	}
	if !p.check(TokenRBracket) {
		return nil, p.errorf("expected ']' closing list")
	}
	p.advance()
	return &astmodel.List{Elts: elts}, nil
}

func (p *Parser) parseDictOrSet() (astmodel.Expr, error) {
	p.advance() // {
	if p.check(TokenRBrace) {
		p.advance()
		return &astmodel.Dict{}, nil
	}
	if p.check(TokenDStar) {
		p.advance()
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return p.parseDictRest([]astmodel.Expr{nil}, []astmodel.Expr{v})
	}
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.check(TokenColon) {
		p.advance()
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.check(TokenFor) {
			gens, err := p.parseComprehensions()
			if err != nil {
				return nil, err
			}
			if !p.check(TokenRBrace) {
				return nil, p.errorf("expected '}' closing dict comprehension")
			}
			p.advance()
			return &astmodel.DictComp{Key: first, Value: val, Generators: gens}, nil
		}
		return p.parseDictRest([]astmodel.Expr{first}, []astmodel.Expr{val})
	}
	if p.check(TokenFor) {
		gens, err := p.parseComprehensions()
		if err != nil {
			return nil, err
		}
		if !p.check(TokenRBrace) {
			return nil, p.errorf("expected '}' closing set comprehension")
		}
		p.advance()
		return &astmodel.SetComp{Elt: first, Generators: gens}, nil
	}
	elts := []astmodel.Expr{first}
	for p.check(TokenComma) {
		p.advance()
		if p.check(TokenRBrace) {
			break
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elts = append(elts, e)
	}
	if !p.check(TokenRBrace) {
		return nil, p.errorf("expected '}' closing set")
	}
	p.advance()
	return &astmodel.SetLit{Elts: elts}, nil
}

func (p *Parser) parseDictRest(keys, values []astmodel.Expr) (astmodel.Expr, error) {
	for p.check(TokenComma) {
		p.advance()
		if p.check(TokenRBrace) {
			break
		}
		if p.check(TokenDStar) {
			p.advance()
			v, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			keys = append(keys, nil)
			values = append(values, v)
			continue
		}
		k, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if !p.check(TokenColon) {
			return nil, p.errorf("expected ':' in dict entry")
		}
		p.advance()
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
		values = append(values, v)
	}
	if !p.check(TokenRBrace) {
		return nil, p.errorf("expected '}' closing dict")
	}
	p.advance()
	return &astmodel.Dict{Keys: keys, Values: values}, nil
}

func (p *Parser) parseComprehensions() ([]astmodel.Comprehension, error) {
	var gens []astmodel.Comprehension
	for p.check(TokenFor) {
		p.advance()
		target, err := p.parseForTarget()
		if err != nil {
			return nil, err
		}
		if !p.check(TokenIn) {
			return nil, p.errorf("expected 'in' in comprehension")
		}
		p.advance()
		iter, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		comp := astmodel.Comprehension{Target: target, Iter: iter}
		for p.check(TokenIf) {
			p.advance()
			cond, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			comp.Ifs = append(comp.Ifs, cond)
		}
		gens = append(gens, comp)
	}
	return gens, nil
}

// ---- token-stream helpers ----

func (p *Parser) peek() Token {
	if p.current >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.current]
}

func (p *Parser) peekAt(offset int) Token {
	idx := p.current + offset
	if idx >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[idx]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.current < len(p.tokens) {
		p.current++
	}
	return tok
}

func (p *Parser) check(t TokenType) bool { return p.peek().Type == t }

func (p *Parser) expectIdent() (string, error) {
	if !p.check(TokenIdent) {
		return "", p.errorf("expected identifier, got %s", p.peek().Type)
	}
	return p.advance().Lexeme, nil
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("line %d: %s", p.peek().Line, fmt.Sprintf(format, args...))
}
