// interpreter_exec.go: statement execution and expression evaluation.
package n7tya

import "strings"

type signal int

const (
	sigValue signal = iota
	sigReturn
	sigBreak
	sigContinue
)

// execResult threads control flow out of nested blocks. Loops absorb break
// and continue; function calls absorb return; everything else propagates.
type execResult struct {
	signal signal
	value  Value
}

func valueResult(v Value) execResult { return execResult{signal: sigValue, value: v} }

func (ip *Interp) evalItem(item Item) (execResult, error) {
	switch it := item.(type) {
	case *FuncDef:
		ip.env.Define(it.Name, FnValue(it, ip.env))
	case *ClassDef:
		ip.classes[it.Name] = it
		ip.env.Define(it.Name, BuiltinValue("__class_"+it.Name))
	case *ComponentDef:
		ip.components[it.Name] = it
		ip.env.Define(it.Name, BuiltinValue("__component_"+it.Name))
	case *ServerDef:
		// Serving starts here and blocks; items after the definition
		// never execute.
		if err := ip.RunServer(it); err != nil {
			return execResult{}, err
		}
	case *ImportDecl:
		// Modules resolve through builtin namespaces; the declaration
		// itself has no runtime effect.
	case *StmtItem:
		return ip.execStmt(it.Stmt)
	}
	return valueResult(NoneValue()), nil
}

func (ip *Interp) execBlock(stmts []Stmt) (execResult, error) {
	for _, s := range stmts {
		res, err := ip.execStmt(s)
		if err != nil {
			return execResult{}, err
		}
		if res.signal != sigValue {
			return res, nil
		}
	}
	return valueResult(NoneValue()), nil
}

func (ip *Interp) execStmt(stmt Stmt) (execResult, error) {
	switch s := stmt.(type) {
	case *LetStmt:
		v, err := ip.evalExpr(s.Value)
		if err != nil {
			return execResult{}, err
		}
		ip.env.Define(s.Name, v)

	case *ConstStmt:
		v, err := ip.evalExpr(s.Value)
		if err != nil {
			return execResult{}, err
		}
		ip.env.Define(s.Name, v)

	case *AssignStmt:
		return ip.execAssign(s)

	case *ReturnStmt:
		v := NoneValue()
		if s.Value != nil {
			var err error
			v, err = ip.evalExpr(s.Value)
			if err != nil {
				return execResult{}, err
			}
		}
		return execResult{signal: sigReturn, value: v}, nil

	case *BreakStmt:
		return execResult{signal: sigBreak}, nil

	case *ContinueStmt:
		return execResult{signal: sigContinue}, nil

	case *IfStmt:
		cond, err := ip.evalExpr(s.Cond)
		if err != nil {
			return execResult{}, err
		}
		if isTruthy(cond) {
			return ip.execBlock(s.Then)
		}
		return ip.execBlock(s.Else)

	case *WhileStmt:
		for {
			cond, err := ip.evalExpr(s.Cond)
			if err != nil {
				return execResult{}, err
			}
			if !isTruthy(cond) {
				break
			}
			res, err := ip.execBlock(s.Body)
			if err != nil {
				return execResult{}, err
			}
			if res.signal == sigBreak {
				break
			}
			if res.signal == sigReturn {
				return res, nil
			}
		}

	case *ForStmt:
		iter, err := ip.evalExpr(s.Iter)
		if err != nil {
			return execResult{}, err
		}
		// Iterating anything but a list is a quiet no-op.
		if iter.Tag != ListV {
			return valueResult(NoneValue()), nil
		}
		for _, item := range iter.List().Items {
			ip.env.Define(s.Target, item)
			res, err := ip.execBlock(s.Body)
			if err != nil {
				return execResult{}, err
			}
			if res.signal == sigBreak {
				break
			}
			if res.signal == sigReturn {
				return res, nil
			}
		}

	case *MatchStmt:
		v, err := ip.evalExpr(s.Value)
		if err != nil {
			return execResult{}, err
		}
		for _, mc := range s.Cases {
			matched, binding, err := ip.patternMatches(mc.Pattern, v)
			if err != nil {
				return execResult{}, err
			}
			if !matched {
				continue
			}
			if binding != "" {
				ip.env.Define(binding, v)
			}
			return ip.execBlock(mc.Body)
		}

	case *StateStmt:
		v, err := ip.evalExpr(s.Value)
		if err != nil {
			return execResult{}, err
		}
		ip.env.Define(s.Name, v)

	case *RenderStmt:
		return ip.execBlock(s.Body)

	case *ExprStmt:
		v, err := ip.evalExpr(s.Expr)
		if err != nil {
			return execResult{}, err
		}
		return valueResult(v), nil
	}
	return valueResult(NoneValue()), nil
}

// execAssign updates a variable, list slot, dict key, or instance field.
// Plain names that do not exist anywhere in scope are created here.
func (ip *Interp) execAssign(s *AssignStmt) (execResult, error) {
	v, err := ip.evalExpr(s.Value)
	if err != nil {
		return execResult{}, err
	}
	switch target := s.Target.(type) {
	case *Ident:
		if !ip.env.Set(target.Name, v) {
			ip.env.Define(target.Name, v)
		}
	case *IndexExpr:
		obj, err := ip.evalExpr(target.Object)
		if err != nil {
			return execResult{}, err
		}
		idx, err := ip.evalExpr(target.Index)
		if err != nil {
			return execResult{}, err
		}
		switch obj.Tag {
		case ListV:
			if idx.Tag != IntV {
				return execResult{}, runtimeErr("list index must be Int, got %s", idx.TypeName())
			}
			items := obj.List().Items
			i := idx.Int()
			if i < 0 || i >= int64(len(items)) {
				return execResult{}, runtimeErr("list index %d out of range (len %d)", i, len(items))
			}
			items[i] = v
		case DictV:
			if idx.Tag != StrV {
				return execResult{}, runtimeErr("dict key must be Str, got %s", idx.TypeName())
			}
			obj.Dict().Entries[idx.Str()] = v
		default:
			return execResult{}, runtimeErr("cannot index-assign into %s", obj.TypeName())
		}
	case *MemberExpr:
		obj, err := ip.evalExpr(target.Object)
		if err != nil {
			return execResult{}, err
		}
		if obj.Tag != ClassV {
			return execResult{}, runtimeErr("cannot set field on %s", obj.TypeName())
		}
		obj.Instance().Fields[target.Member] = v
	default:
		return execResult{}, runtimeErr("invalid assignment target")
	}
	return valueResult(NoneValue()), nil
}

func (ip *Interp) patternMatches(pat Pattern, v Value) (bool, string, error) {
	switch p := pat.(type) {
	case *LiteralPattern:
		lit, err := ip.evalExpr(p.Value)
		if err != nil {
			return false, "", err
		}
		return valuesEqual(lit, v), "", nil
	case *BindPattern:
		return true, p.Name, nil
	case *WildcardPattern:
		return true, "", nil
	}
	return false, "", nil
}

// ----- expressions -----

func (ip *Interp) evalExpr(expr Expr) (Value, error) {
	switch e := expr.(type) {
	case *IntLit:
		return IntValue(e.Value), nil
	case *FloatLit:
		return FloatValue(e.Value), nil
	case *StrLit:
		return StrValue(e.Value), nil
	case *BoolLit:
		return BoolValue(e.Value), nil
	case *NoneLit:
		return NoneValue(), nil

	case *ListLit:
		items := make([]Value, 0, len(e.Elems))
		for _, el := range e.Elems {
			v, err := ip.evalExpr(el)
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return ListValue(items), nil

	case *Ident:
		if v, ok := ip.env.Get(e.Name); ok {
			return v, nil
		}
		return Value{}, runtimeErr("undefined variable: %s", e.Name)

	case *BinaryExpr:
		return ip.evalBinary(e)

	case *UnaryExpr:
		return ip.evalUnary(e)

	case *CallExpr:
		return ip.evalCall(e)

	case *MemberExpr:
		return ip.evalMember(e)

	case *IndexExpr:
		return ip.evalIndex(e)

	case *LambdaExpr:
		def := &FuncDef{
			Name: "lambda",
			Body: []Stmt{&ReturnStmt{Value: e.Body}},
		}
		for _, p := range e.Params {
			def.Params = append(def.Params, Param{Name: p})
		}
		return FnValue(def, ip.env), nil

	case *MarkupExpr:
		html, err := ip.RenderElement(e.Element)
		if err != nil {
			return Value{}, err
		}
		return StrValue(html), nil
	}
	return Value{}, runtimeErr("cannot evaluate expression")
}

func (ip *Interp) evalUnary(e *UnaryExpr) (Value, error) {
	v, err := ip.evalExpr(e.Operand)
	if err != nil {
		return Value{}, err
	}
	switch e.Op {
	case OpNeg:
		switch v.Tag {
		case IntV:
			return IntValue(-v.Int()), nil
		case FloatV:
			return FloatValue(-v.Float()), nil
		}
		return Value{}, runtimeErr("cannot negate %s", v.TypeName())
	case OpNot:
		return BoolValue(!isTruthy(v)), nil
	}
	return Value{}, runtimeErr("unknown unary operator")
}

// evalBinary applies an operator. Both operands evaluate eagerly, including
// for and/or. The defined pairs are deliberately narrow: arithmetic beyond
// them is a runtime error, while equality on unsupported pairs is false.
func (ip *Interp) evalBinary(e *BinaryExpr) (Value, error) {
	left, err := ip.evalExpr(e.Left)
	if err != nil {
		return Value{}, err
	}
	right, err := ip.evalExpr(e.Right)
	if err != nil {
		return Value{}, err
	}

	switch e.Op {
	case OpAnd:
		return BoolValue(isTruthy(left) && isTruthy(right)), nil
	case OpOr:
		return BoolValue(isTruthy(left) || isTruthy(right)), nil
	}

	switch e.Op {
	case OpAdd:
		switch {
		case left.Tag == IntV && right.Tag == IntV:
			return IntValue(left.Int() + right.Int()), nil
		case left.Tag == FloatV && right.Tag == FloatV:
			return FloatValue(left.Float() + right.Float()), nil
		case left.Tag == StrV && right.Tag == StrV:
			return StrValue(left.Str() + right.Str()), nil
		}
		return Value{}, runtimeErr("cannot add %s and %s", left.TypeName(), right.TypeName())

	case OpSub:
		if left.Tag == IntV && right.Tag == IntV {
			return IntValue(left.Int() - right.Int()), nil
		}
		return Value{}, runtimeErr("cannot subtract %s from %s", right.TypeName(), left.TypeName())

	case OpMul:
		if left.Tag == IntV && right.Tag == IntV {
			return IntValue(left.Int() * right.Int()), nil
		}
		return Value{}, runtimeErr("cannot multiply %s and %s", left.TypeName(), right.TypeName())

	case OpDiv:
		if left.Tag == IntV && right.Tag == IntV {
			if right.Int() == 0 {
				return Value{}, runtimeErr("division by zero")
			}
			return IntValue(left.Int() / right.Int()), nil
		}
		return Value{}, runtimeErr("cannot divide %s by %s", left.TypeName(), right.TypeName())

	case OpMod:
		if left.Tag == IntV && right.Tag == IntV {
			if right.Int() == 0 {
				return Value{}, runtimeErr("modulo by zero")
			}
			return IntValue(left.Int() % right.Int()), nil
		}
		return Value{}, runtimeErr("cannot take %s modulo %s", left.TypeName(), right.TypeName())

	case OpEq:
		switch {
		case left.Tag == IntV && right.Tag == IntV:
			return BoolValue(left.Int() == right.Int()), nil
		case left.Tag == StrV && right.Tag == StrV:
			return BoolValue(left.Str() == right.Str()), nil
		case left.Tag == BoolV && right.Tag == BoolV:
			return BoolValue(left.Bool() == right.Bool()), nil
		}
		return Value{}, runtimeErr("cannot compare %s and %s with ==", left.TypeName(), right.TypeName())

	case OpNeq:
		if left.Tag == IntV && right.Tag == IntV {
			return BoolValue(left.Int() != right.Int()), nil
		}
		return Value{}, runtimeErr("cannot compare %s and %s with !=", left.TypeName(), right.TypeName())

	case OpLt:
		if left.Tag == IntV && right.Tag == IntV {
			return BoolValue(left.Int() < right.Int()), nil
		}
		return Value{}, runtimeErr("cannot compare %s and %s", left.TypeName(), right.TypeName())

	case OpGt:
		if left.Tag == IntV && right.Tag == IntV {
			return BoolValue(left.Int() > right.Int()), nil
		}
		return Value{}, runtimeErr("cannot compare %s and %s", left.TypeName(), right.TypeName())

	case OpLtEq:
		if left.Tag == IntV && right.Tag == IntV {
			return BoolValue(left.Int() <= right.Int()), nil
		}
		return Value{}, runtimeErr("cannot compare %s and %s", left.TypeName(), right.TypeName())

	case OpGtEq:
		if left.Tag == IntV && right.Tag == IntV {
			return BoolValue(left.Int() >= right.Int()), nil
		}
		return Value{}, runtimeErr("cannot compare %s and %s", left.TypeName(), right.TypeName())

	case OpIn:
		switch right.Tag {
		case ListV:
			for _, it := range right.List().Items {
				if valuesEqual(left, it) {
					return BoolValue(true), nil
				}
			}
			return BoolValue(false), nil
		case StrV:
			if left.Tag == StrV {
				return BoolValue(strings.Contains(right.Str(), left.Str())), nil
			}
			return BoolValue(false), nil
		case DictV:
			if left.Tag == StrV {
				_, ok := right.Dict().Entries[left.Str()]
				return BoolValue(ok), nil
			}
			return BoolValue(false), nil
		}
		return Value{}, runtimeErr("cannot test membership in %s", right.TypeName())
	}
	return Value{}, runtimeErr("unknown binary operator")
}

func (ip *Interp) evalIndex(e *IndexExpr) (Value, error) {
	obj, err := ip.evalExpr(e.Object)
	if err != nil {
		return Value{}, err
	}
	idx, err := ip.evalExpr(e.Index)
	if err != nil {
		return Value{}, err
	}
	switch obj.Tag {
	case ListV:
		if idx.Tag != IntV {
			return Value{}, runtimeErr("list index must be Int, got %s", idx.TypeName())
		}
		items := obj.List().Items
		i := idx.Int()
		if i < 0 || i >= int64(len(items)) {
			return Value{}, runtimeErr("list index %d out of range (len %d)", i, len(items))
		}
		return items[i], nil
	case StrV:
		if idx.Tag != IntV {
			return Value{}, runtimeErr("string index must be Int, got %s", idx.TypeName())
		}
		runes := []rune(obj.Str())
		i := idx.Int()
		if i < 0 || i >= int64(len(runes)) {
			return Value{}, runtimeErr("string index %d out of range (len %d)", i, len(runes))
		}
		return StrValue(string(runes[i])), nil
	case DictV:
		if idx.Tag != StrV {
			return Value{}, runtimeErr("dict key must be Str, got %s", idx.TypeName())
		}
		if v, ok := obj.Dict().Entries[idx.Str()]; ok {
			return v, nil
		}
		return Value{}, runtimeErr("dict has no key %q", idx.Str())
	}
	return Value{}, runtimeErr("cannot index %s", obj.TypeName())
}

// evalMember resolves obj.name for field reads. Module namespaces like
// fs.read_file resolve to builtin values; method references are handled at
// call sites.
func (ip *Interp) evalMember(e *MemberExpr) (Value, error) {
	if ident, ok := e.Object.(*Ident); ok {
		full := ident.Name + "." + e.Member
		if _, exists := builtinRegistry[full]; exists {
			return BuiltinValue(full), nil
		}
	}
	obj, err := ip.evalExpr(e.Object)
	if err != nil {
		return Value{}, err
	}
	if obj.Tag == ClassV {
		inst := obj.Instance()
		if v, ok := inst.Fields[e.Member]; ok {
			return v, nil
		}
		if ip.findMethod(inst.Class, e.Member) != nil {
			return Value{}, runtimeErr("method %s must be called, not read", e.Member)
		}
		return Value{}, runtimeErr("%s has no field %s", inst.Class, e.Member)
	}
	if obj.Tag == DictV {
		if v, ok := obj.Dict().Entries[e.Member]; ok {
			return v, nil
		}
		return Value{}, runtimeErr("dict has no key %q", e.Member)
	}
	return Value{}, runtimeErr("%s has no member %s", obj.TypeName(), e.Member)
}

// findMethod walks the class and its ancestors for a method.
func (ip *Interp) findMethod(class, name string) *FuncDef {
	for def := ip.classes[class]; def != nil; {
		for _, m := range def.Methods {
			if m.Name == name {
				return m
			}
		}
		if def.Parent == "" {
			return nil
		}
		def = ip.classes[def.Parent]
	}
	return nil
}

func (ip *Interp) evalCall(e *CallExpr) (Value, error) {
	// obj.method(...) dispatches without first evaluating the member.
	if member, ok := e.Func.(*MemberExpr); ok {
		return ip.evalMethodCall(member, e.Args)
	}

	fn, err := ip.evalExpr(e.Func)
	if err != nil {
		return Value{}, err
	}
	args := make([]Value, 0, len(e.Args))
	for _, a := range e.Args {
		v, err := ip.evalExpr(a)
		if err != nil {
			return Value{}, err
		}
		args = append(args, v)
	}
	return ip.callValue(fn, args)
}

func (ip *Interp) callValue(fn Value, args []Value) (Value, error) {
	switch fn.Tag {
	case FnV:
		return ip.callClosure(fn.Closure(), args)
	case BuiltinV:
		return ip.CallBuiltin(fn.Str(), args)
	}
	return Value{}, runtimeErr("cannot call %s", fn.TypeName())
}

func (ip *Interp) callClosure(cl *Closure, args []Value) (Value, error) {
	if len(args) != len(cl.Def.Params) {
		return Value{}, runtimeErr("%s expects %d arguments, got %d",
			cl.Def.Name, len(cl.Def.Params), len(args))
	}
	saved := ip.env
	ip.env = NewEnv(cl.Env)
	defer func() { ip.env = saved }()

	for i, p := range cl.Def.Params {
		ip.env.Define(p.Name, args[i])
	}
	res, err := ip.execBlock(cl.Def.Body)
	if err != nil {
		return Value{}, err
	}
	if res.signal == sigReturn {
		return res.value, nil
	}
	return NoneValue(), nil
}

func (ip *Interp) evalMethodCall(member *MemberExpr, argExprs []Expr) (Value, error) {
	// Namespace function: fs.read_file "x"
	if ident, ok := member.Object.(*Ident); ok {
		full := ident.Name + "." + member.Member
		if _, exists := builtinRegistry[full]; exists {
			args := make([]Value, 0, len(argExprs))
			for _, a := range argExprs {
				v, err := ip.evalExpr(a)
				if err != nil {
					return Value{}, err
				}
				args = append(args, v)
			}
			return ip.CallBuiltin(full, args)
		}
	}

	obj, err := ip.evalExpr(member.Object)
	if err != nil {
		return Value{}, err
	}
	args := make([]Value, 0, len(argExprs))
	for _, a := range argExprs {
		v, err := ip.evalExpr(a)
		if err != nil {
			return Value{}, err
		}
		args = append(args, v)
	}

	switch obj.Tag {
	case ListV:
		return ip.listMethod(obj, member.Member, args)
	case StrV:
		return ip.strMethod(obj, member.Member, args)
	case DictV:
		return ip.dictMethod(obj, member.Member, args)
	case ClassV:
		inst := obj.Instance()
		if def := ip.findMethod(inst.Class, member.Member); def != nil {
			return ip.callMethod(obj, def, args)
		}
		// Fields holding callables are invocable too.
		if v, ok := inst.Fields[member.Member]; ok {
			return ip.callValue(v, args)
		}
		return Value{}, runtimeErr("%s has no method %s", inst.Class, member.Member)
	}
	return Value{}, runtimeErr("%s has no method %s", obj.TypeName(), member.Member)
}

func (ip *Interp) callMethod(self Value, def *FuncDef, args []Value) (Value, error) {
	if len(args) != len(def.Params) {
		return Value{}, runtimeErr("%s expects %d arguments, got %d",
			def.Name, len(def.Params), len(args))
	}
	saved := ip.env
	ip.env = NewEnv(ip.globals)
	defer func() { ip.env = saved }()

	ip.env.Define("self", self)
	for i, p := range def.Params {
		ip.env.Define(p.Name, args[i])
	}
	res, err := ip.execBlock(def.Body)
	if err != nil {
		return Value{}, err
	}
	if res.signal == sigReturn {
		return res.value, nil
	}
	return NoneValue(), nil
}
