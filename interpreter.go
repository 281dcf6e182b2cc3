// interpreter.go: runtime values, environments, and the interpreter state.
package n7tya

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

type ValueTag int

const (
	IntV ValueTag = iota
	FloatV
	StrV
	BoolV
	NoneV
	ListV
	DictV
	SetV
	FnV
	BuiltinV
	ClassV
	ReturnV
)

// Value is the runtime representation of every expression result. Scalars
// carry their payload directly; lists, dicts, sets, and instances carry a
// pointer so that bindings alias the same underlying object.
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// ListObject is a shared, mutable list payload.
type ListObject struct {
	Items []Value
}

// DictObject is a shared, mutable string-keyed map payload.
type DictObject struct {
	Entries map[string]Value
}

// SetObject holds distinct values in insertion order.
type SetObject struct {
	Items []Value
}

// Closure pairs a function definition with its defining environment.
type Closure struct {
	Def *FuncDef
	Env *Env
}

// Instance is a class instance with mutable fields.
type Instance struct {
	Class  string
	Fields map[string]Value
}

func IntValue(v int64) Value      { return Value{Tag: IntV, Data: v} }
func FloatValue(v float64) Value  { return Value{Tag: FloatV, Data: v} }
func StrValue(v string) Value     { return Value{Tag: StrV, Data: v} }
func BoolValue(v bool) Value      { return Value{Tag: BoolV, Data: v} }
func NoneValue() Value            { return Value{Tag: NoneV} }
func BuiltinValue(n string) Value { return Value{Tag: BuiltinV, Data: n} }

func ListValue(items []Value) Value {
	return Value{Tag: ListV, Data: &ListObject{Items: items}}
}

func DictValue(entries map[string]Value) Value {
	if entries == nil {
		entries = map[string]Value{}
	}
	return Value{Tag: DictV, Data: &DictObject{Entries: entries}}
}

func SetValue(items []Value) Value {
	return Value{Tag: SetV, Data: &SetObject{Items: items}}
}

func FnValue(def *FuncDef, env *Env) Value {
	return Value{Tag: FnV, Data: &Closure{Def: def, Env: env}}
}

func InstanceValue(class string) Value {
	return Value{Tag: ClassV, Data: &Instance{Class: class, Fields: map[string]Value{}}}
}

func (v Value) Int() int64            { return v.Data.(int64) }
func (v Value) Float() float64        { return v.Data.(float64) }
func (v Value) Str() string           { return v.Data.(string) }
func (v Value) Bool() bool            { return v.Data.(bool) }
func (v Value) List() *ListObject     { return v.Data.(*ListObject) }
func (v Value) Dict() *DictObject     { return v.Data.(*DictObject) }
func (v Value) Set() *SetObject       { return v.Data.(*SetObject) }
func (v Value) Closure() *Closure     { return v.Data.(*Closure) }
func (v Value) Instance() *Instance   { return v.Data.(*Instance) }

// Display renders a value the way print shows it.
func (v Value) Display() string {
	switch v.Tag {
	case IntV:
		return strconv.FormatInt(v.Int(), 10)
	case FloatV:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64)
	case StrV:
		return v.Str()
	case BoolV:
		if v.Bool() {
			return "true"
		}
		return "false"
	case NoneV:
		return "none"
	case ListV:
		parts := make([]string, len(v.List().Items))
		for i, it := range v.List().Items {
			parts[i] = it.Display()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case DictV:
		entries := v.Dict().Entries
		keys := make([]string, 0, len(entries))
		for k := range entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + entries[k].Display()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case SetV:
		parts := make([]string, len(v.Set().Items))
		for i, it := range v.Set().Items {
			parts[i] = it.Display()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case FnV:
		return "<fn " + v.Closure().Def.Name + ">"
	case BuiltinV:
		return "<builtin " + v.Str() + ">"
	case ClassV:
		return "<" + v.Instance().Class + " instance>"
	case ReturnV:
		return v.Data.(Value).Display()
	}
	return "none"
}

// TypeName reports the name the type builtin returns.
func (v Value) TypeName() string {
	switch v.Tag {
	case IntV:
		return "Int"
	case FloatV:
		return "Float"
	case StrV:
		return "Str"
	case BoolV:
		return "Bool"
	case NoneV:
		return "None"
	case ListV:
		return "List"
	case DictV:
		return "Dict"
	case SetV:
		return "Set"
	case FnV, BuiltinV:
		return "Fn"
	case ClassV:
		return v.Instance().Class
	}
	return "Unknown"
}

// isTruthy decides branch conditions. None and false are false; numbers are
// true when nonzero; strings and collections are true when nonempty.
func isTruthy(v Value) bool {
	switch v.Tag {
	case BoolV:
		return v.Bool()
	case IntV:
		return v.Int() != 0
	case FloatV:
		return v.Float() != 0
	case StrV:
		return v.Str() != ""
	case NoneV:
		return false
	case ListV:
		return len(v.List().Items) > 0
	case DictV:
		return len(v.Dict().Entries) > 0
	case SetV:
		return len(v.Set().Items) > 0
	}
	return true
}

// valuesEqual is the equality used by list membership and pattern matching.
// Only ints, strings, and bools compare equal; everything else is unequal.
func valuesEqual(a, b Value) bool {
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case IntV:
		return a.Int() == b.Int()
	case StrV:
		return a.Str() == b.Str()
	case BoolV:
		return a.Bool() == b.Bool()
	}
	return false
}

// Env is a lexically chained variable table.
type Env struct {
	parent *Env
	table  map[string]Value
}

func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, table: map[string]Value{}}
}

// Define binds a name in this scope, shadowing any outer binding.
func (e *Env) Define(name string, v Value) {
	e.table[name] = v
}

// Get resolves a name through the scope chain.
func (e *Env) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.table[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// Set updates the nearest existing binding and reports whether one was found.
func (e *Env) Set(name string, v Value) bool {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.table[name]; ok {
			env.table[name] = v
			return true
		}
	}
	return false
}

// Interp executes a parsed program.
type Interp struct {
	globals    *Env
	env        *Env
	out        io.Writer
	in         io.Reader
	classes    map[string]*ClassDef
	components map[string]*ComponentDef
	dbs    map[int64]*sql.DB
	nextDB int64

	host string
	port int
}

// NewInterp builds an interpreter writing to stdout, with every builtin
// bound in the root environment.
func NewInterp() *Interp {
	ip := &Interp{
		out:        os.Stdout,
		in:         os.Stdin,
		classes:    map[string]*ClassDef{},
		components: map[string]*ComponentDef{},
		dbs:        map[int64]*sql.DB{},
		nextDB:     1,
		host:       "127.0.0.1",
		port:       8080,
	}
	ip.globals = NewEnv(nil)
	ip.env = ip.globals
	for name := range builtinRegistry {
		ip.globals.Define(name, BuiltinValue(name))
	}
	return ip
}

// SetOutput redirects print output, used by tests and by the route runner.
func (ip *Interp) SetOutput(w io.Writer) { ip.out = w }

// SetInput redirects the input builtin's source.
func (ip *Interp) SetInput(r io.Reader) { ip.in = r }

// SetListenAddr overrides the address used when a server definition runs.
func (ip *Interp) SetListenAddr(host string, port int) {
	ip.host = host
	ip.port = port
}

// Run executes every item in order and yields the program's value: a
// top-level return stops the run and supplies it, otherwise the result is
// none. A server definition starts serving as soon as it is reached and
// blocks there.
func (ip *Interp) Run(prog *Program) (Value, error) {
	for _, item := range prog.Items {
		res, err := ip.evalItem(item)
		if err != nil {
			return Value{}, err
		}
		if res.signal == sigReturn {
			return res.value, nil
		}
	}
	return NoneValue(), nil
}

// Interpret is the front door: source text in, side effects out.
func Interpret(src string) error {
	return NewInterp().InterpretSource(src)
}

// InterpretSource lexes, parses, and runs source with this interpreter's
// state, so successive REPL lines share an environment. The program value
// is discarded; callers that need it use Run directly.
func (ip *Interp) InterpretSource(src string) error {
	tokens := NewLexer(src).Scan()
	prog, err := NewParser(tokens).Parse()
	if err != nil {
		return err
	}
	_, err = ip.Run(prog)
	return err
}

func (ip *Interp) printf(format string, args ...interface{}) {
	fmt.Fprintf(ip.out, format, args...)
}
