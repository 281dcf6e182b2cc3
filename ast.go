// ast.go: syntax tree node definitions
//
// Every node category is a closed set: Item, Stmt, Expr, Pattern, and the
// markup nodes each have a sealed marker method so switches over them stay
// exhaustive when a variant is added.
package n7tya

// Program is an ordered sequence of top-level items. Order matters: later
// definitions shadow earlier ones during evaluation.
type Program struct {
	Items []Item
}

// Item is a top-level construct.
type Item interface{ item() }

// Stmt is an executable statement.
type Stmt interface{ stmt() }

// Expr is an expression node.
type Expr interface{ expr() }

// Pattern is a match-case pattern.
type Pattern interface{ pattern() }

// TypeExpr is a syntactic type annotation.
type TypeExpr struct {
	Name string    // "Int", "Float", "Bool", "Str", "List", or a class name
	Elem *TypeExpr // for List<Elem>
}

// ----- items -----

type FuncDef struct {
	Name    string
	Params  []Param
	RetType *TypeExpr
	Body    []Stmt
}

type Param struct {
	Name string
	Type *TypeExpr
}

type ClassDef struct {
	Name   string
	Parent string // empty when the class has no parent
	Fields []FieldDef
	// Methods appear interleaved with fields in source; order is kept
	// separately because only the interpreter's registration cares.
	Methods []*FuncDef
}

type FieldDef struct {
	Name string
	Type *TypeExpr
}

type ComponentDef struct {
	Name    string
	States  []*StateStmt
	Methods []*FuncDef
	Render  *RenderStmt
}

type ServerDef struct {
	Name   string
	Routes []RouteDef
}

type RouteDef struct {
	Method string
	Path   string
	Body   []Stmt
}

type ImportDecl struct {
	Module string
	Names  []string // from X import a, b
	Alias  string   // import X as y
}

// StmtItem wraps a bare statement at top level.
type StmtItem struct {
	Stmt Stmt
}

func (*FuncDef) item()      {}
func (*ClassDef) item()     {}
func (*ComponentDef) item() {}
func (*ServerDef) item()    {}
func (*ImportDecl) item()   {}
func (*StmtItem) item()     {}

// ----- statements -----

type LetStmt struct {
	Name  string
	Type  *TypeExpr
	Value Expr
}

type ConstStmt struct {
	Name  string
	Type  *TypeExpr
	Value Expr
}

type AssignStmt struct {
	Target Expr
	Value  Expr
}

type ReturnStmt struct {
	Value Expr // nil for a bare return
}

type IfStmt struct {
	Cond Expr
	Then []Stmt
	Else []Stmt // nil when absent; an elif chain nests here
}

type WhileStmt struct {
	Cond Expr
	Body []Stmt
}

type ForStmt struct {
	Target string
	Iter   Expr
	Body   []Stmt
}

type MatchStmt struct {
	Value Expr
	Cases []MatchCase
}

type MatchCase struct {
	Pattern Pattern
	Body    []Stmt
}

type BreakStmt struct{}

type ContinueStmt struct{}

type ExprStmt struct {
	Expr Expr
}

// StateStmt declares component state; outside a component it behaves as let.
type StateStmt struct {
	Name  string
	Value Expr
}

// RenderStmt holds a component's render body.
type RenderStmt struct {
	Body []Stmt
}

func (*LetStmt) stmt()      {}
func (*ConstStmt) stmt()    {}
func (*AssignStmt) stmt()   {}
func (*ReturnStmt) stmt()   {}
func (*IfStmt) stmt()       {}
func (*WhileStmt) stmt()    {}
func (*ForStmt) stmt()      {}
func (*MatchStmt) stmt()    {}
func (*BreakStmt) stmt()    {}
func (*ContinueStmt) stmt() {}
func (*ExprStmt) stmt()     {}
func (*StateStmt) stmt()    {}
func (*RenderStmt) stmt()   {}

// ----- expressions -----

type IntLit struct{ Value int64 }

type FloatLit struct{ Value float64 }

type StrLit struct{ Value string }

type BoolLit struct{ Value bool }

type NoneLit struct{}

type ListLit struct{ Elems []Expr }

type Ident struct{ Name string }

type BinaryExpr struct {
	Op    BinOp
	Left  Expr
	Right Expr
}

type UnaryExpr struct {
	Op      UnOp
	Operand Expr
}

type CallExpr struct {
	Func Expr
	Args []Expr
}

type MemberExpr struct {
	Object Expr
	Member string
}

type IndexExpr struct {
	Object Expr
	Index  Expr
}

type LambdaExpr struct {
	Params []string
	Body   Expr
}

// MarkupExpr is an embedded markup element in expression position.
type MarkupExpr struct {
	Element *MarkupElement
}

func (*IntLit) expr()     {}
func (*FloatLit) expr()   {}
func (*StrLit) expr()     {}
func (*BoolLit) expr()    {}
func (*NoneLit) expr()    {}
func (*ListLit) expr()    {}
func (*Ident) expr()      {}
func (*BinaryExpr) expr() {}
func (*UnaryExpr) expr()  {}
func (*CallExpr) expr()   {}
func (*MemberExpr) expr() {}
func (*IndexExpr) expr()  {}
func (*LambdaExpr) expr() {}
func (*MarkupExpr) expr() {}

// BinOp enumerates binary operators.
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNeq
	OpLt
	OpGt
	OpLtEq
	OpGtEq
	OpAnd
	OpOr
	OpIn
)

func (op BinOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpEq:
		return "=="
	case OpNeq:
		return "!="
	case OpLt:
		return "<"
	case OpGt:
		return ">"
	case OpLtEq:
		return "<="
	case OpGtEq:
		return ">="
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	case OpIn:
		return "in"
	}
	return "?"
}

// UnOp enumerates unary operators.
type UnOp int

const (
	OpNeg UnOp = iota
	OpNot
)

// ----- patterns -----

type LiteralPattern struct {
	Value Expr // IntLit, StrLit, or BoolLit
}

type BindPattern struct {
	Name string
}

type WildcardPattern struct{}

func (*LiteralPattern) pattern()  {}
func (*BindPattern) pattern()     {}
func (*WildcardPattern) pattern() {}

// ----- markup -----

type MarkupElement struct {
	Tag      string
	Attrs    []MarkupAttr
	Children []MarkupChild
}

type MarkupAttr struct {
	Name  string
	Value Expr // nil for a bare boolean attribute
}

// MarkupChild is one of MarkupElement, MarkupText, MarkupSplice.
type MarkupChild interface{ markupChild() }

type MarkupText struct {
	Text string
}

type MarkupSplice struct {
	Expr Expr
}

func (*MarkupElement) markupChild() {}
func (*MarkupText) markupChild()    {}
func (*MarkupSplice) markupChild()  {}
