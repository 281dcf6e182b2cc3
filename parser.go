// parser.go: token stream -> Program
//
// Recursive descent with explicit precedence layering. Blocks are driven by
// indentation: entering a block raises the expected depth, and the block ends
// at the first line indented shallower than that. Two call syntaxes exist,
// parenthesized f(a, b) and command style f a, b; the latter is recognized
// only when the token after a primary expression can start an argument.
// A '<' in atom position opens the embedded markup sub-grammar.
package n7tya

import "fmt"

var tokenNames = map[TokenType]string{
	EOF: "end of input", ERROR: "invalid token",
	NEWLINE: "newline", INDENT: "indent",
	IDENT: "identifier", INT: "integer", FLOAT: "float", STRING: "string",
	PLUS: "'+'", MINUS: "'-'", STAR: "'*'", SLASH: "'/'", PERCENT: "'%'",
	ASSIGN: "'='", EQ: "'=='", NEQ: "'!='", LT: "'<'", GT: "'>'",
	LTEQ: "'<='", GTEQ: "'>='", ARROW: "'->'",
	COLON: "':'", COMMA: "','", DOT: "'.'", DOTDOT: "'..'",
	LPAREN: "'('", RPAREN: "')'", LBRACKET: "'['", RBRACKET: "']'",
	LBRACE: "'{'", RBRACE: "'}'",
	SELFCLOSE: "'/>'", CLOSETAG: "'</'",
	DEF: "'def'", FN: "'fn'", LET: "'let'", CONST: "'const'",
	IF: "'if'", ELSE: "'else'", ELIF: "'elif'", FOR: "'for'", WHILE: "'while'",
	RETURN: "'return'", IMPORT: "'import'", FROM: "'from'", AS: "'as'",
	CLASS: "'class'", STRUCT: "'struct'", ENUM: "'enum'",
	MATCH: "'match'", CASE: "'case'", BREAK: "'break'", CONTINUE: "'continue'",
	PASS: "'pass'", ASYNC: "'async'", AWAIT: "'await'", YIELD: "'yield'",
	TRUE: "'true'", FALSE: "'false'", NONE: "'none'",
	AND: "'and'", OR: "'or'", NOT: "'not'", IN: "'in'", IS: "'is'",
	COMPONENT: "'component'", SERVER: "'server'", ROUTE: "'route'",
	TEST: "'test'", ASSERT: "'assert'", SELF: "'self'", SUPER: "'super'",
	RENDER: "'render'", STATE: "'state'", PROPS: "'props'",
}

func (t TokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return "token"
}

// Parser consumes tokens left to right and builds the syntax tree.
type Parser struct {
	tokens      []Token
	current     int
	indentLevel int
}

// NewParser creates a parser over the given token slice.
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse parses a whole program. Soft recovery exists only here: a token that
// cannot start an item is skipped rather than aborting the parse.
func (p *Parser) Parse() (*Program, error) {
	var items []Item
	for !p.isAtEnd() {
		if p.match(NEWLINE) || p.match(INDENT) {
			continue
		}
		item, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		if item == nil {
			p.advance()
			continue
		}
		items = append(items, item)
	}
	return &Program{Items: items}, nil
}

func (p *Parser) parseItem() (Item, error) {
	switch {
	case p.match(DEF):
		return p.parseFuncDef()
	case p.match(CLASS):
		return p.parseClassDef()
	case p.match(COMPONENT):
		return p.parseComponentDef()
	case p.match(SERVER):
		return p.parseServerDef()
	case p.match(IMPORT):
		return p.parseImport()
	case p.match(FROM):
		return p.parseFromImport()
	}
	stmt, ok, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &StmtItem{Stmt: stmt}, nil
}

// ----- top-level definitions -----

func (p *Parser) parseFuncDef() (*FuncDef, error) {
	name, err := p.consumeIdent("expected function name")
	if err != nil {
		return nil, err
	}

	// Command-style parameter list: def add a: Int, b: Int -> Int
	var params []Param
	for !p.check(NEWLINE) && !p.check(ARROW) && !p.isAtEnd() {
		pname, ok := p.matchIdent()
		if !ok {
			break
		}
		var ptype *TypeExpr
		if p.match(COLON) {
			ptype, err = p.parseTypeExpr()
			if err != nil {
				return nil, err
			}
		}
		params = append(params, Param{Name: pname, Type: ptype})
		p.match(COMMA)
	}

	var ret *TypeExpr
	if p.match(ARROW) {
		ret, err = p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
	}

	if err := p.consume(NEWLINE, "expected newline after function signature"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &FuncDef{Name: name, Params: params, RetType: ret, Body: body}, nil
}

func (p *Parser) parseClassDef() (*ClassDef, error) {
	name, err := p.consumeIdent("expected class name")
	if err != nil {
		return nil, err
	}
	// Optional parent: class Dog Animal
	parent, _ := p.matchIdent()

	if err := p.consume(NEWLINE, "expected newline after class name"); err != nil {
		return nil, err
	}

	def := &ClassDef{Name: name, Parent: parent}
	_, err = parseIndentedBlock(p, func(p *Parser) (struct{}, bool, error) {
		if p.match(DEF) {
			m, err := p.parseFuncDef()
			if err != nil {
				return struct{}{}, false, err
			}
			def.Methods = append(def.Methods, m)
			return struct{}{}, true, nil
		}
		if fname, ok := p.matchIdent(); ok {
			if !p.match(COLON) {
				return struct{}{}, false, p.errHere("expected ':' after field name")
			}
			ftype, err := p.parseTypeExpr()
			if err != nil {
				return struct{}{}, false, err
			}
			if err := p.consume(NEWLINE, "expected newline after field definition"); err != nil {
				return struct{}{}, false, err
			}
			def.Fields = append(def.Fields, FieldDef{Name: fname, Type: ftype})
			return struct{}{}, true, nil
		}
		return struct{}{}, false, nil
	})
	if err != nil {
		return nil, err
	}
	return def, nil
}

func (p *Parser) parseComponentDef() (*ComponentDef, error) {
	name, err := p.consumeIdent("expected component name")
	if err != nil {
		return nil, err
	}
	if err := p.consume(NEWLINE, "expected newline after component name"); err != nil {
		return nil, err
	}

	def := &ComponentDef{Name: name}
	_, err = parseIndentedBlock(p, func(p *Parser) (struct{}, bool, error) {
		switch {
		case p.match(STATE):
			st, err := p.parseStateDecl()
			if err != nil {
				return struct{}{}, false, err
			}
			def.States = append(def.States, st)
			return struct{}{}, true, nil
		case p.match(DEF):
			m, err := p.parseFuncDef()
			if err != nil {
				return struct{}{}, false, err
			}
			def.Methods = append(def.Methods, m)
			return struct{}{}, true, nil
		case p.match(RENDER):
			r, err := p.parseRenderBlock()
			if err != nil {
				return struct{}{}, false, err
			}
			def.Render = r
			return struct{}{}, true, nil
		}
		return struct{}{}, false, nil
	})
	if err != nil {
		return nil, err
	}
	return def, nil
}

func (p *Parser) parseServerDef() (*ServerDef, error) {
	name, err := p.consumeIdent("expected server name")
	if err != nil {
		return nil, err
	}
	if err := p.consume(NEWLINE, "expected newline after server name"); err != nil {
		return nil, err
	}

	routes, err := parseIndentedBlock(p, func(p *Parser) (RouteDef, bool, error) {
		var method string
		if m, ok := p.matchIdent(); ok {
			method = m
		} else if p.match(ROUTE) {
			method = "route"
		} else {
			return RouteDef{}, false, nil
		}

		if !p.check(STRING) {
			return RouteDef{}, false, p.errHere("expected string path after route method, got %s", p.peekType())
		}
		path := p.peek().Literal.(string)
		p.advance()
		if err := p.consume(NEWLINE, "expected newline after route path"); err != nil {
			return RouteDef{}, false, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return RouteDef{}, false, err
		}
		return RouteDef{Method: method, Path: path, Body: body}, true, nil
	})
	if err != nil {
		return nil, err
	}
	return &ServerDef{Name: name, Routes: routes}, nil
}

func (p *Parser) parseImport() (*ImportDecl, error) {
	module, err := p.consumeIdent("expected module name")
	if err != nil {
		return nil, err
	}
	var alias string
	if p.match(AS) {
		alias, err = p.consumeIdent("expected alias name")
		if err != nil {
			return nil, err
		}
	}
	p.match(NEWLINE)
	return &ImportDecl{Module: module, Alias: alias}, nil
}

func (p *Parser) parseFromImport() (*ImportDecl, error) {
	module, err := p.consumeIdent("expected module name")
	if err != nil {
		return nil, err
	}
	if err := p.consume(IMPORT, "expected 'import' after module name"); err != nil {
		return nil, err
	}
	var names []string
	for {
		n, err := p.consumeIdent("expected import name")
		if err != nil {
			return nil, err
		}
		names = append(names, n)
		if !p.match(COMMA) {
			break
		}
	}
	p.match(NEWLINE)
	return &ImportDecl{Module: module, Names: names}, nil
}

func (p *Parser) parseTypeExpr() (*TypeExpr, error) {
	name, err := p.consumeIdent("expected type name")
	if err != nil {
		return nil, err
	}
	if name == "List" {
		if !p.match(LT) {
			return nil, p.errHere("expected '<' after List")
		}
		inner, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		if err := p.consume(GT, "expected '>' after element type"); err != nil {
			return nil, err
		}
		return &TypeExpr{Name: "List", Elem: inner}, nil
	}
	// Other generic arguments are consumed and dropped.
	if p.match(LT) {
		for !p.check(GT) && !p.isAtEnd() {
			p.advance()
		}
		if err := p.consume(GT, "expected '>' after generic arguments"); err != nil {
			return nil, err
		}
	}
	return &TypeExpr{Name: name}, nil
}

// ----- blocks -----

// parseBlock parses an indented statement list.
func (p *Parser) parseBlock() ([]Stmt, error) {
	return parseIndentedBlock(p, func(p *Parser) (Stmt, bool, error) {
		return p.parseStatement()
	})
}

// parseIndentedBlock collects items at one deeper nesting level. It
// re-measures the indent count at each line start and stops as soon as a
// line is indented shallower than expected; blank lines never end a block.
// The per-item parse func returns ok=false without error to end the block.
func parseIndentedBlock[T any](p *Parser, parseFn func(*Parser) (T, bool, error)) ([]T, error) {
	var items []T

	p.indentLevel++
	defer func() { p.indentLevel-- }()

	for !p.isAtEnd() {
		indent := p.countIndent()
		if indent < p.indentLevel {
			break
		}
		for i := 0; i < indent; i++ {
			p.match(INDENT)
		}
		if p.match(NEWLINE) {
			continue
		}

		item, ok, err := parseFn(p)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		items = append(items, item)
	}
	return items, nil
}

// countIndent counts consecutive indent tokens at the current position
// without consuming them.
func (p *Parser) countIndent() int {
	n := 0
	for i := p.current; i < len(p.tokens) && p.tokens[i].Type == INDENT; i++ {
		n++
	}
	return n
}

// ----- statements -----

func (p *Parser) parseStatement() (Stmt, bool, error) {
	switch {
	case p.match(LET):
		s, err := p.parseLet()
		return s, err == nil, err
	case p.match(CONST):
		s, err := p.parseConst()
		return s, err == nil, err
	case p.match(STATE):
		s, err := p.parseStateDecl()
		return s, err == nil, err
	case p.match(RENDER):
		s, err := p.parseRenderBlock()
		return s, err == nil, err
	case p.match(RETURN):
		var value Expr
		var err error
		if !p.check(NEWLINE) && !p.isAtEnd() {
			value, err = p.parseExpression()
			if err != nil {
				return nil, false, err
			}
		}
		p.match(NEWLINE)
		return &ReturnStmt{Value: value}, true, nil
	case p.match(BREAK):
		p.match(NEWLINE)
		return &BreakStmt{}, true, nil
	case p.match(CONTINUE):
		p.match(NEWLINE)
		return &ContinueStmt{}, true, nil
	case p.match(IF):
		s, err := p.parseIf()
		return s, err == nil, err
	case p.match(WHILE):
		s, err := p.parseWhile()
		return s, err == nil, err
	case p.match(FOR):
		s, err := p.parseFor()
		return s, err == nil, err
	case p.match(MATCH):
		s, err := p.parseMatch()
		return s, err == nil, err
	}

	if !p.canStartExpr() {
		return nil, false, nil
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, false, err
	}
	if p.match(ASSIGN) {
		value, err := p.parseExpression()
		if err != nil {
			return nil, false, err
		}
		p.match(NEWLINE)
		return &AssignStmt{Target: expr, Value: value}, true, nil
	}
	p.match(NEWLINE)
	return &ExprStmt{Expr: expr}, true, nil
}

func (p *Parser) canStartExpr() bool {
	switch p.peekType() {
	case IDENT, INT, FLOAT, STRING, TRUE, FALSE, NONE, SELF,
		LPAREN, LBRACKET, LT, MINUS, NOT:
		return true
	}
	return false
}

func (p *Parser) parseLet() (*LetStmt, error) {
	name, err := p.consumeIdent("expected variable name")
	if err != nil {
		return nil, err
	}
	var ty *TypeExpr
	if p.match(COLON) {
		ty, err = p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
	}
	if err := p.consume(ASSIGN, "expected '=' after variable name"); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.match(NEWLINE)
	return &LetStmt{Name: name, Type: ty, Value: value}, nil
}

func (p *Parser) parseConst() (*ConstStmt, error) {
	name, err := p.consumeIdent("expected constant name")
	if err != nil {
		return nil, err
	}
	var ty *TypeExpr
	if p.match(COLON) {
		ty, err = p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
	}
	if err := p.consume(ASSIGN, "expected '=' after constant name"); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.match(NEWLINE)
	return &ConstStmt{Name: name, Type: ty, Value: value}, nil
}

func (p *Parser) parseStateDecl() (*StateStmt, error) {
	name, err := p.consumeIdent("expected state name")
	if err != nil {
		return nil, err
	}
	if err := p.consume(ASSIGN, "expected '=' after state name"); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.match(NEWLINE)
	return &StateStmt{Name: name, Value: value}, nil
}

func (p *Parser) parseRenderBlock() (*RenderStmt, error) {
	if err := p.consume(NEWLINE, "expected newline after render"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &RenderStmt{Body: body}, nil
}

func (p *Parser) parseIf() (*IfStmt, error) {
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.consume(NEWLINE, "expected newline after if condition"); err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	var elseBlock []Stmt
	if p.match(ELSE) {
		if err := p.consume(NEWLINE, "expected newline after else"); err != nil {
			return nil, err
		}
		elseBlock, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	} else if p.match(ELIF) {
		// elif desugars to else { if ... }
		nested, err := p.parseIf()
		if err != nil {
			return nil, err
		}
		elseBlock = []Stmt{nested}
	}
	return &IfStmt{Cond: cond, Then: then, Else: elseBlock}, nil
}

func (p *Parser) parseWhile() (*WhileStmt, error) {
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.consume(NEWLINE, "expected newline after while condition"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Cond: cond, Body: body}, nil
}

func (p *Parser) parseFor() (*ForStmt, error) {
	target, err := p.consumeIdent("expected loop variable")
	if err != nil {
		return nil, err
	}
	if err := p.consume(IN, "expected 'in' after loop variable"); err != nil {
		return nil, err
	}
	iter, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.consume(NEWLINE, "expected newline after for header"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ForStmt{Target: target, Iter: iter, Body: body}, nil
}

func (p *Parser) parseMatch() (*MatchStmt, error) {
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.consume(NEWLINE, "expected newline after match value"); err != nil {
		return nil, err
	}
	cases, err := parseIndentedBlock(p, func(p *Parser) (MatchCase, bool, error) {
		if !p.match(CASE) {
			return MatchCase{}, false, nil
		}
		pat, err := p.parsePattern()
		if err != nil {
			return MatchCase{}, false, err
		}
		if err := p.consume(NEWLINE, "expected newline after case pattern"); err != nil {
			return MatchCase{}, false, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return MatchCase{}, false, err
		}
		return MatchCase{Pattern: pat, Body: body}, true, nil
	})
	if err != nil {
		return nil, err
	}
	return &MatchStmt{Value: value, Cases: cases}, nil
}

func (p *Parser) parsePattern() (Pattern, error) {
	switch p.peekType() {
	case INT:
		v := p.peek().Literal.(int64)
		p.advance()
		return &LiteralPattern{Value: &IntLit{Value: v}}, nil
	case STRING:
		v := p.peek().Literal.(string)
		p.advance()
		return &LiteralPattern{Value: &StrLit{Value: v}}, nil
	case TRUE:
		p.advance()
		return &LiteralPattern{Value: &BoolLit{Value: true}}, nil
	case FALSE:
		p.advance()
		return &LiteralPattern{Value: &BoolLit{Value: false}}, nil
	case IDENT:
		name := p.peek().Literal.(string)
		p.advance()
		if name == "_" {
			return &WildcardPattern{}, nil
		}
		return &BindPattern{Name: name}, nil
	}
	return nil, p.errHere("invalid pattern: %s", p.peekType())
}

// ----- expressions -----

func (p *Parser) parseExpression() (Expr, error) {
	return p.parseLogicOr()
}

func (p *Parser) parseLogicOr() (Expr, error) {
	expr, err := p.parseLogicAnd()
	if err != nil {
		return nil, err
	}
	for p.match(OR) {
		right, err := p.parseLogicAnd()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Op: OpOr, Left: expr, Right: right}
	}
	return expr, nil
}

func (p *Parser) parseLogicAnd() (Expr, error) {
	expr, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.match(AND) {
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Op: OpAnd, Left: expr, Right: right}
	}
	return expr, nil
}

func (p *Parser) parseEquality() (Expr, error) {
	expr, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for {
		var op BinOp
		switch {
		case p.match(EQ):
			op = OpEq
		case p.match(NEQ):
			op = OpNeq
		default:
			return expr, nil
		}
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Op: op, Left: expr, Right: right}
	}
}

func (p *Parser) parseComparison() (Expr, error) {
	expr, err := p.parseMembership()
	if err != nil {
		return nil, err
	}
	for {
		var op BinOp
		switch {
		case p.match(LT):
			op = OpLt
		case p.match(GT):
			op = OpGt
		case p.match(LTEQ):
			op = OpLtEq
		case p.match(GTEQ):
			op = OpGtEq
		default:
			return expr, nil
		}
		right, err := p.parseMembership()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Op: op, Left: expr, Right: right}
	}
}

func (p *Parser) parseMembership() (Expr, error) {
	expr, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.match(IN) {
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Op: OpIn, Left: expr, Right: right}
	}
	return expr, nil
}

func (p *Parser) parseTerm() (Expr, error) {
	expr, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		var op BinOp
		switch {
		case p.match(PLUS):
			op = OpAdd
		case p.match(MINUS):
			op = OpSub
		default:
			return expr, nil
		}
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Op: op, Left: expr, Right: right}
	}
}

func (p *Parser) parseFactor() (Expr, error) {
	expr, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var op BinOp
		switch {
		case p.match(STAR):
			op = OpMul
		case p.match(SLASH):
			op = OpDiv
		case p.match(PERCENT):
			op = OpMod
		default:
			return expr, nil
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Op: op, Left: expr, Right: right}
	}
}

func (p *Parser) parseUnary() (Expr, error) {
	if p.match(MINUS) {
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: OpNeg, Operand: operand}, nil
	}
	if p.match(NOT) {
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: OpNot, Operand: operand}, nil
	}
	return p.parseCall()
}

// parseCall recognizes the command-style call: a primary expression followed
// by something that can start an argument on the same line.
func (p *Parser) parseCall() (Expr, error) {
	fn, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	if !p.isArgStart() {
		return fn, nil
	}
	var args []Expr
	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.match(COMMA) {
			break
		}
	}
	return &CallExpr{Func: fn, Args: args}, nil
}

func (p *Parser) isArgStart() bool {
	switch p.peekType() {
	case IDENT, INT, FLOAT, STRING, LPAREN, LBRACE, LBRACKET, SELF:
		return true
	}
	return false
}

func (p *Parser) parsePostfix() (Expr, error) {
	expr, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.match(DOT):
			member, err := p.consumeIdent("expected member name")
			if err != nil {
				return nil, err
			}
			expr = &MemberExpr{Object: expr, Member: member}
		case p.match(LPAREN):
			var args []Expr
			if !p.check(RPAREN) {
				for {
					arg, err := p.parseExpression()
					if err != nil {
						return nil, err
					}
					args = append(args, arg)
					if !p.match(COMMA) {
						break
					}
				}
			}
			if err := p.consume(RPAREN, "expected ')' after arguments"); err != nil {
				return nil, err
			}
			expr = &CallExpr{Func: expr, Args: args}
		case p.match(LBRACKET):
			idx, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if err := p.consume(RBRACKET, "expected ']' after index"); err != nil {
				return nil, err
			}
			expr = &IndexExpr{Object: expr, Index: idx}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseAtom() (Expr, error) {
	if p.match(SELF) {
		return &Ident{Name: "self"}, nil
	}

	// '<' here is in atom position, so it opens a markup element rather
	// than a comparison.
	if p.match(LT) {
		el, err := p.parseMarkupElement()
		if err != nil {
			return nil, err
		}
		return &MarkupExpr{Element: el}, nil
	}

	// List literal, tolerant of embedded line breaks.
	if p.match(LBRACKET) {
		var elems []Expr
		if !p.check(RBRACKET) {
			for {
				for p.match(NEWLINE) || p.match(INDENT) {
				}
				e, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				elems = append(elems, e)
				for p.match(NEWLINE) || p.match(INDENT) {
				}
				if !p.match(COMMA) {
					break
				}
			}
		}
		for p.match(NEWLINE) || p.match(INDENT) {
		}
		if err := p.consume(RBRACKET, "expected ']' after list elements"); err != nil {
			return nil, err
		}
		return &ListLit{Elems: elems}, nil
	}

	if p.check(LPAREN) {
		if params, ok := p.tryLambdaParams(); ok {
			body, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			return &LambdaExpr{Params: params, Body: body}, nil
		}
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.consume(RPAREN, "expected ')' after expression"); err != nil {
			return nil, err
		}
		return expr, nil
	}

	if p.check(IDENT) {
		name := p.peek().Literal.(string)
		p.advance()
		// x -> expr is a single-parameter lambda.
		if p.match(ARROW) {
			body, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			return &LambdaExpr{Params: []string{name}, Body: body}, nil
		}
		return &Ident{Name: name}, nil
	}

	switch p.peekType() {
	case INT:
		v := p.peek().Literal.(int64)
		p.advance()
		return &IntLit{Value: v}, nil
	case FLOAT:
		v := p.peek().Literal.(float64)
		p.advance()
		return &FloatLit{Value: v}, nil
	case STRING:
		v := p.peek().Literal.(string)
		p.advance()
		return &StrLit{Value: v}, nil
	case TRUE:
		p.advance()
		return &BoolLit{Value: true}, nil
	case FALSE:
		p.advance()
		return &BoolLit{Value: false}, nil
	case NONE:
		p.advance()
		return &NoneLit{}, nil
	}

	return nil, p.errHere("expected expression, got %s", p.peekType())
}

// tryLambdaParams looks ahead for '(' ident, ... ')' '->' and, when it
// matches, consumes through the arrow and returns the parameter names.
func (p *Parser) tryLambdaParams() ([]string, bool) {
	i := p.current + 1 // past '('
	var params []string
	for i < len(p.tokens) && p.tokens[i].Type == IDENT {
		params = append(params, p.tokens[i].Literal.(string))
		i++
		if i < len(p.tokens) && p.tokens[i].Type == COMMA {
			i++
			continue
		}
		break
	}
	if i >= len(p.tokens) || p.tokens[i].Type != RPAREN {
		return nil, false
	}
	i++
	if i >= len(p.tokens) || p.tokens[i].Type != ARROW {
		return nil, false
	}
	p.current = i + 1
	return params, true
}

// ----- markup sub-grammar -----

// parseMarkupElement parses <tag attr="lit" attr={expr}>children</tag> or a
// self-closing <tag ... />. The leading '<' is already consumed.
func (p *Parser) parseMarkupElement() (*MarkupElement, error) {
	tag, err := p.consumeIdent("expected tag name")
	if err != nil {
		return nil, err
	}

	var attrs []MarkupAttr
	for !p.check(GT) && !p.check(SELFCLOSE) && !p.isAtEnd() {
		if name, ok := p.matchIdent(); ok {
			var value Expr
			if p.match(ASSIGN) {
				switch p.peekType() {
				case STRING:
					value = &StrLit{Value: p.peek().Literal.(string)}
					p.advance()
				case LBRACE:
					p.advance()
					value, err = p.parseExpression()
					if err != nil {
						return nil, err
					}
					p.match(RBRACE)
				}
			}
			attrs = append(attrs, MarkupAttr{Name: name, Value: value})
			continue
		}
		if p.match(LBRACE) {
			// Spread attributes are consumed and dropped.
			for !p.check(RBRACE) && !p.isAtEnd() {
				p.advance()
			}
			p.match(RBRACE)
			continue
		}
		p.advance()
	}

	if p.match(SELFCLOSE) {
		return &MarkupElement{Tag: tag, Attrs: attrs}, nil
	}
	if err := p.consume(GT, "expected '>' after tag"); err != nil {
		return nil, err
	}

	var children []MarkupChild
	for !p.check(CLOSETAG) && !p.isAtEnd() {
		if p.match(LT) {
			child, err := p.parseMarkupElement()
			if err != nil {
				return nil, err
			}
			children = append(children, child)
			continue
		}
		if p.match(LBRACE) {
			expr, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			p.match(RBRACE)
			children = append(children, &MarkupSplice{Expr: expr})
			continue
		}
		switch p.peekType() {
		case STRING, IDENT:
			children = append(children, &MarkupText{Text: p.peek().Literal.(string)})
			p.advance()
		default:
			// Whitespace between children is formatting, not content.
			p.advance()
		}
	}

	if err := p.consume(CLOSETAG, "expected '</'"); err != nil {
		return nil, err
	}
	closeTag, err := p.consumeIdent("expected closing tag name")
	if err != nil {
		return nil, err
	}
	if closeTag != tag {
		return nil, p.errHere("mismatched tags: <%s> closed by </%s>", tag, closeTag)
	}
	if err := p.consume(GT, "expected '>' after closing tag"); err != nil {
		return nil, err
	}
	return &MarkupElement{Tag: tag, Attrs: attrs, Children: children}, nil
}

// ----- helpers -----

func (p *Parser) isAtEnd() bool { return p.current >= len(p.tokens) }

func (p *Parser) peek() *Token {
	if p.isAtEnd() {
		return nil
	}
	return &p.tokens[p.current]
}

func (p *Parser) peekType() TokenType {
	if t := p.peek(); t != nil {
		return t.Type
	}
	return EOF
}

func (p *Parser) advance() {
	if !p.isAtEnd() {
		p.current++
	}
}

func (p *Parser) check(tt TokenType) bool {
	return p.peekType() == tt
}

func (p *Parser) match(tt TokenType) bool {
	if p.check(tt) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) consume(tt TokenType, msg string) error {
	if p.match(tt) {
		return nil
	}
	return p.errHere("%s, got %s", msg, p.peekType())
}

// matchIdent consumes and returns an identifier if one is next.
func (p *Parser) matchIdent() (string, bool) {
	if p.check(IDENT) {
		name := p.peek().Literal.(string)
		p.advance()
		return name, true
	}
	return "", false
}

func (p *Parser) consumeIdent(msg string) (string, error) {
	if name, ok := p.matchIdent(); ok {
		return name, nil
	}
	return "", p.errHere("%s, got %s", msg, p.peekType())
}

// errHere builds a ParseError at the current token, or at the last token
// when the stream is exhausted.
func (p *Parser) errHere(format string, args ...interface{}) error {
	line, col := 0, 0
	if t := p.peek(); t != nil {
		line, col = t.Line, t.Col
	} else if len(p.tokens) > 0 {
		last := p.tokens[len(p.tokens)-1]
		line, col = last.Line, last.Col
	}
	return &ParseError{Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}
