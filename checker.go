// checker.go: advisory static type checking.
//
// The checker walks the parsed program, infers types where it can, and
// collects human-readable diagnostics. It never stops execution: unknown
// types are compatible with everything, so only provable mismatches are
// reported.
package n7tya

import "fmt"

type TypeKind int

const (
	TInt TypeKind = iota
	TFloat
	TBool
	TStr
	TNone
	TList
	TFn
	TClass
	TUnknown
	TError
)

// TypeInfo describes an inferred or declared type.
type TypeInfo struct {
	Kind   TypeKind
	Elem   *TypeInfo  // list element type
	Params []TypeInfo // function parameter types
	Ret    *TypeInfo  // function return type
	Name   string     // class name
}

func (t TypeInfo) String() string {
	switch t.Kind {
	case TInt:
		return "Int"
	case TFloat:
		return "Float"
	case TBool:
		return "Bool"
	case TStr:
		return "Str"
	case TNone:
		return "None"
	case TList:
		if t.Elem != nil {
			return fmt.Sprintf("List<%s>", t.Elem)
		}
		return "List"
	case TFn:
		return "Fn"
	case TClass:
		return t.Name
	case TError:
		return "Error"
	}
	return "Unknown"
}

func unknownT() TypeInfo { return TypeInfo{Kind: TUnknown} }

func fnT(params []TypeInfo, ret TypeInfo) TypeInfo {
	return TypeInfo{Kind: TFn, Params: params, Ret: &ret}
}

// Checker accumulates diagnostics over a scope stack.
type Checker struct {
	scopes      []map[string]TypeInfo
	Diagnostics []string
}

// NewChecker builds a checker whose root scope knows every builtin.
func NewChecker() *Checker {
	c := &Checker{scopes: []map[string]TypeInfo{{}}}
	c.seedBuiltins()
	return c
}

func (c *Checker) seedBuiltins() {
	anyFn := fnT(nil, unknownT())
	toInt := fnT([]TypeInfo{unknownT()}, TypeInfo{Kind: TInt})
	toStr := fnT([]TypeInfo{unknownT()}, TypeInfo{Kind: TStr})
	toBool := fnT([]TypeInfo{unknownT()}, TypeInfo{Kind: TBool})
	toFloat := fnT([]TypeInfo{unknownT()}, TypeInfo{Kind: TFloat})
	toList := fnT([]TypeInfo{unknownT()}, TypeInfo{Kind: TList, Elem: &TypeInfo{Kind: TUnknown}})

	seeds := map[string]TypeInfo{
		"print": anyFn, "println": anyFn, "input": toStr,
		"len": toInt, "abs": toInt, "min": anyFn, "max": anyFn, "sum": toInt,
		"str": toStr, "int": toInt, "float": toFloat, "bool": toBool,
		"type":  toStr,
		"range": toList, "sorted": toList, "reversed": toList,
		"enumerate": toList, "zip": toList,
		"filter": anyFn, "map": anyFn,
		"fs":     unknownT(),
		"json":   unknownT(),
		"http":   unknownT(),
		"base64": unknownT(),
		"sqlite": unknownT(),
		"py":     unknownT(),
	}
	for name, ty := range seeds {
		c.scopes[0][name] = ty
	}
}

func (c *Checker) pushScope() {
	c.scopes = append(c.scopes, map[string]TypeInfo{})
}

func (c *Checker) popScope() {
	c.scopes = c.scopes[:len(c.scopes)-1]
}

func (c *Checker) define(name string, ty TypeInfo) {
	c.scopes[len(c.scopes)-1][name] = ty
}

func (c *Checker) lookup(name string) (TypeInfo, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if ty, ok := c.scopes[i][name]; ok {
			return ty, true
		}
	}
	return TypeInfo{}, false
}

func (c *Checker) report(format string, args ...interface{}) {
	c.Diagnostics = append(c.Diagnostics, fmt.Sprintf(format, args...))
}

// Check analyzes a program and returns the diagnostics found.
func (c *Checker) Check(prog *Program) []string {
	// Hoist top-level definitions so calls can precede them textually.
	for _, item := range prog.Items {
		switch it := item.(type) {
		case *FuncDef:
			c.define(it.Name, c.funcType(it))
		case *ClassDef:
			c.define(it.Name, TypeInfo{Kind: TClass, Name: it.Name})
		case *ComponentDef:
			c.define(it.Name, TypeInfo{Kind: TClass, Name: it.Name})
		}
	}
	for _, item := range prog.Items {
		c.checkItem(item)
	}
	return c.Diagnostics
}

func (c *Checker) funcType(def *FuncDef) TypeInfo {
	params := make([]TypeInfo, len(def.Params))
	for i, p := range def.Params {
		params[i] = c.annotationType(p.Type)
	}
	return fnT(params, c.annotationType(def.RetType))
}

func (c *Checker) annotationType(t *TypeExpr) TypeInfo {
	if t == nil {
		return unknownT()
	}
	switch t.Name {
	case "Int":
		return TypeInfo{Kind: TInt}
	case "Float":
		return TypeInfo{Kind: TFloat}
	case "Bool":
		return TypeInfo{Kind: TBool}
	case "Str", "String":
		return TypeInfo{Kind: TStr}
	case "None":
		return TypeInfo{Kind: TNone}
	case "List":
		elem := c.annotationType(t.Elem)
		return TypeInfo{Kind: TList, Elem: &elem}
	}
	return TypeInfo{Kind: TClass, Name: t.Name}
}

func (c *Checker) checkItem(item Item) {
	switch it := item.(type) {
	case *FuncDef:
		c.checkFunc(it)
	case *ClassDef:
		for _, m := range it.Methods {
			c.pushScope()
			c.define("self", TypeInfo{Kind: TClass, Name: it.Name})
			c.checkFunc(m)
			c.popScope()
		}
	case *ComponentDef:
		c.pushScope()
		for _, st := range it.States {
			c.define(st.Name, c.inferExpr(st.Value))
		}
		for _, m := range it.Methods {
			c.checkFunc(m)
		}
		if it.Render != nil {
			c.pushScope()
			for _, s := range it.Render.Body {
				c.checkStmt(s)
			}
			c.popScope()
		}
		c.popScope()
	case *ServerDef:
		for _, r := range it.Routes {
			c.pushScope()
			for _, s := range r.Body {
				c.checkStmt(s)
			}
			c.popScope()
		}
	case *ImportDecl:
		c.define(it.Module, unknownT())
		if it.Alias != "" {
			c.define(it.Alias, unknownT())
		}
		for _, n := range it.Names {
			c.define(n, unknownT())
		}
	case *StmtItem:
		c.checkStmt(it.Stmt)
	}
}

func (c *Checker) checkFunc(def *FuncDef) {
	c.define(def.Name, c.funcType(def))
	c.pushScope()
	for _, p := range def.Params {
		c.define(p.Name, c.annotationType(p.Type))
	}
	for _, s := range def.Body {
		c.checkStmt(s)
	}
	c.popScope()
}

func (c *Checker) checkStmt(stmt Stmt) {
	switch s := stmt.(type) {
	case *LetStmt:
		inferred := c.inferExpr(s.Value)
		declared := c.annotationType(s.Type)
		if s.Type != nil && !compatible(declared, inferred) {
			c.report("type mismatch for '%s': declared %s but value is %s", s.Name, declared, inferred)
		}
		if s.Type != nil {
			c.define(s.Name, declared)
		} else {
			c.define(s.Name, inferred)
		}
	case *ConstStmt:
		inferred := c.inferExpr(s.Value)
		declared := c.annotationType(s.Type)
		if s.Type != nil && !compatible(declared, inferred) {
			c.report("type mismatch for '%s': declared %s but value is %s", s.Name, declared, inferred)
		}
		if s.Type != nil {
			c.define(s.Name, declared)
		} else {
			c.define(s.Name, inferred)
		}
	case *AssignStmt:
		valueT := c.inferExpr(s.Value)
		if target, ok := s.Target.(*Ident); ok {
			if existing, found := c.lookup(target.Name); found {
				if !compatible(existing, valueT) {
					c.report("incompatible assignment to '%s': was %s, assigned %s", target.Name, existing, valueT)
				}
			} else {
				c.define(target.Name, valueT)
			}
		} else {
			c.inferExpr(s.Target)
		}
	case *ReturnStmt:
		if s.Value != nil {
			c.inferExpr(s.Value)
		}
	case *IfStmt:
		condT := c.inferExpr(s.Cond)
		if condT.Kind != TBool && condT.Kind != TUnknown {
			c.report("if condition is %s, expected Bool", condT)
		}
		c.pushScope()
		for _, st := range s.Then {
			c.checkStmt(st)
		}
		c.popScope()
		c.pushScope()
		for _, st := range s.Else {
			c.checkStmt(st)
		}
		c.popScope()
	case *WhileStmt:
		condT := c.inferExpr(s.Cond)
		if condT.Kind != TBool && condT.Kind != TUnknown {
			c.report("while condition is %s, expected Bool", condT)
		}
		c.pushScope()
		for _, st := range s.Body {
			c.checkStmt(st)
		}
		c.popScope()
	case *ForStmt:
		iterT := c.inferExpr(s.Iter)
		elem := unknownT()
		if iterT.Kind == TList && iterT.Elem != nil {
			elem = *iterT.Elem
		}
		c.pushScope()
		c.define(s.Target, elem)
		for _, st := range s.Body {
			c.checkStmt(st)
		}
		c.popScope()
	case *MatchStmt:
		c.inferExpr(s.Value)
		for _, mc := range s.Cases {
			c.pushScope()
			if bp, ok := mc.Pattern.(*BindPattern); ok {
				c.define(bp.Name, unknownT())
			}
			for _, st := range mc.Body {
				c.checkStmt(st)
			}
			c.popScope()
		}
	case *StateStmt:
		c.define(s.Name, c.inferExpr(s.Value))
	case *RenderStmt:
		c.pushScope()
		for _, st := range s.Body {
			c.checkStmt(st)
		}
		c.popScope()
	case *ExprStmt:
		c.inferExpr(s.Expr)
	}
}

func (c *Checker) inferExpr(expr Expr) TypeInfo {
	switch e := expr.(type) {
	case *IntLit:
		return TypeInfo{Kind: TInt}
	case *FloatLit:
		return TypeInfo{Kind: TFloat}
	case *StrLit:
		return TypeInfo{Kind: TStr}
	case *BoolLit:
		return TypeInfo{Kind: TBool}
	case *NoneLit:
		return TypeInfo{Kind: TNone}
	case *ListLit:
		elem := unknownT()
		if len(e.Elems) > 0 {
			elem = c.inferExpr(e.Elems[0])
			for _, el := range e.Elems[1:] {
				c.inferExpr(el)
			}
		}
		return TypeInfo{Kind: TList, Elem: &elem}
	case *Ident:
		if ty, ok := c.lookup(e.Name); ok {
			return ty
		}
		c.report("undefined variable '%s'", e.Name)
		return TypeInfo{Kind: TError}
	case *BinaryExpr:
		return c.inferBinary(e)
	case *UnaryExpr:
		operand := c.inferExpr(e.Operand)
		if e.Op == OpNot {
			return TypeInfo{Kind: TBool}
		}
		return operand
	case *CallExpr:
		fnT := c.inferExpr(e.Func)
		for _, a := range e.Args {
			c.inferExpr(a)
		}
		if fnT.Kind == TFn && fnT.Ret != nil {
			return *fnT.Ret
		}
		if fnT.Kind == TClass {
			return fnT
		}
		return unknownT()
	case *MemberExpr:
		c.inferExpr(e.Object)
		return unknownT()
	case *IndexExpr:
		objT := c.inferExpr(e.Object)
		c.inferExpr(e.Index)
		if objT.Kind == TList && objT.Elem != nil {
			return *objT.Elem
		}
		return unknownT()
	case *LambdaExpr:
		c.pushScope()
		for _, p := range e.Params {
			c.define(p, unknownT())
		}
		ret := c.inferExpr(e.Body)
		c.popScope()
		params := make([]TypeInfo, len(e.Params))
		for i := range params {
			params[i] = unknownT()
		}
		return fnT(params, ret)
	case *MarkupExpr:
		c.inferMarkup(e.Element)
		return TypeInfo{Kind: TStr}
	}
	return unknownT()
}

func (c *Checker) inferMarkup(el *MarkupElement) {
	for _, a := range el.Attrs {
		if a.Value != nil {
			c.inferExpr(a.Value)
		}
	}
	for _, child := range el.Children {
		switch ch := child.(type) {
		case *MarkupElement:
			c.inferMarkup(ch)
		case *MarkupSplice:
			c.inferExpr(ch.Expr)
		}
	}
}

func (c *Checker) inferBinary(e *BinaryExpr) TypeInfo {
	left := c.inferExpr(e.Left)
	right := c.inferExpr(e.Right)

	switch e.Op {
	case OpAdd:
		if left.Kind == TStr && right.Kind == TStr {
			return TypeInfo{Kind: TStr}
		}
		fallthrough
	case OpSub, OpMul, OpDiv, OpMod:
		if left.Kind == TFloat || right.Kind == TFloat {
			return TypeInfo{Kind: TFloat}
		}
		if isIntLike(left) && isIntLike(right) {
			return TypeInfo{Kind: TInt}
		}
		if left.Kind == TUnknown || right.Kind == TUnknown {
			return unknownT()
		}
		c.report("invalid operands for %s: %s and %s", e.Op, left, right)
		return TypeInfo{Kind: TError}
	case OpEq, OpNeq, OpLt, OpGt, OpLtEq, OpGtEq, OpAnd, OpOr, OpIn:
		return TypeInfo{Kind: TBool}
	}
	return unknownT()
}

func isIntLike(t TypeInfo) bool {
	return t.Kind == TInt || t.Kind == TUnknown
}

// compatible reports whether a value of type b may flow into a slot of
// type a. Unknown and Error are compatible with everything, which keeps
// the checker advisory.
func compatible(a, b TypeInfo) bool {
	if a.Kind == TUnknown || b.Kind == TUnknown || a.Kind == TError || b.Kind == TError {
		return true
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case TList:
		if a.Elem == nil || b.Elem == nil {
			return true
		}
		return compatible(*a.Elem, *b.Elem)
	case TClass:
		return a.Name == b.Name
	}
	return true
}
