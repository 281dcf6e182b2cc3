// builtin_core.go: the builtin registry and the core builtins.
//
// Builtins receive the interpreter so they can reach the output writer and
// other shared state. Registration happens at init time; the root
// environment is seeded from the registry when an interpreter is created.
package n7tya

import (
	"bufio"
	"strconv"
	"strings"
)

// BuiltinFn is the signature of every builtin.
type BuiltinFn func(ip *Interp, args []Value) (Value, error)

var builtinRegistry = map[string]BuiltinFn{}

func registerBuiltin(name string, fn BuiltinFn) {
	builtinRegistry[name] = fn
}

// CallBuiltin dispatches a builtin by name. The __class_ prefix is the seam
// through which class names instantiate: calling one yields a fresh
// instance with no fields set.
func (ip *Interp) CallBuiltin(name string, args []Value) (Value, error) {
	if class, ok := strings.CutPrefix(name, "__class_"); ok {
		return InstanceValue(class), nil
	}
	if fn, ok := builtinRegistry[name]; ok {
		return fn(ip, args)
	}
	return Value{}, runtimeErr("Unknown builtin function: %s", name)
}

func init() {
	registerBuiltin("print", biPrint)
	registerBuiltin("println", biPrintln)
	registerBuiltin("input", biInput)
	registerBuiltin("len", biLen)
	registerBuiltin("range", biRange)
	registerBuiltin("str", biStr)
	registerBuiltin("int", biInt)
	registerBuiltin("float", biFloat)
	registerBuiltin("bool", biBool)
	registerBuiltin("type", biType)
	registerBuiltin("abs", biAbs)
	registerBuiltin("min", biMin)
	registerBuiltin("max", biMax)
	registerBuiltin("sum", biSum)
	registerBuiltin("sorted", biSorted)
	registerBuiltin("reversed", biReversed)
	registerBuiltin("enumerate", biEnumerate)
	registerBuiltin("zip", biZip)

	// Registered so the names resolve; the builtin seam cannot call back
	// into user functions, so invoking either is a defined failure.
	registerBuiltin("filter", func(ip *Interp, args []Value) (Value, error) {
		return Value{}, runtimeErr("filter requires a function argument and cannot run as a builtin")
	})
	registerBuiltin("map", func(ip *Interp, args []Value) (Value, error) {
		return Value{}, runtimeErr("map requires a function argument and cannot run as a builtin")
	})
}

func biPrint(ip *Interp, args []Value) (Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.Display()
	}
	ip.printf("%s\n", strings.Join(parts, " "))
	return NoneValue(), nil
}

func biPrintln(ip *Interp, args []Value) (Value, error) {
	return biPrint(ip, args)
}

func biInput(ip *Interp, args []Value) (Value, error) {
	if len(args) == 1 && args[0].Tag == StrV {
		ip.printf("%s", args[0].Str())
	}
	reader := bufio.NewReader(ip.in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return StrValue(""), nil
	}
	return StrValue(strings.TrimRight(line, "\r\n")), nil
}

func biLen(ip *Interp, args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, runtimeErr("len expects 1 argument, got %d", len(args))
	}
	switch args[0].Tag {
	case StrV:
		return IntValue(int64(len([]rune(args[0].Str())))), nil
	case ListV:
		return IntValue(int64(len(args[0].List().Items))), nil
	case DictV:
		return IntValue(int64(len(args[0].Dict().Entries))), nil
	case SetV:
		return IntValue(int64(len(args[0].Set().Items))), nil
	}
	return Value{}, runtimeErr("len does not support %s", args[0].TypeName())
}

// biRange mirrors the Python shape: range(stop), range(start, stop), or
// range(start, stop, step) with positive or negative step.
func biRange(ip *Interp, args []Value) (Value, error) {
	if len(args) < 1 || len(args) > 3 {
		return Value{}, runtimeErr("range expects 1 to 3 arguments, got %d", len(args))
	}
	for _, a := range args {
		if a.Tag != IntV {
			return Value{}, runtimeErr("range arguments must be Int")
		}
	}
	start, stop, step := int64(0), int64(0), int64(1)
	switch len(args) {
	case 1:
		stop = args[0].Int()
	case 2:
		start, stop = args[0].Int(), args[1].Int()
	case 3:
		start, stop, step = args[0].Int(), args[1].Int(), args[2].Int()
	}
	if step == 0 {
		return Value{}, runtimeErr("range step cannot be zero")
	}
	var items []Value
	if step > 0 {
		for i := start; i < stop; i += step {
			items = append(items, IntValue(i))
		}
	} else {
		for i := start; i > stop; i += step {
			items = append(items, IntValue(i))
		}
	}
	return ListValue(items), nil
}

func biStr(ip *Interp, args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, runtimeErr("str expects 1 argument, got %d", len(args))
	}
	return StrValue(args[0].Display()), nil
}

func biInt(ip *Interp, args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, runtimeErr("int expects 1 argument, got %d", len(args))
	}
	switch args[0].Tag {
	case IntV:
		return args[0], nil
	case FloatV:
		return IntValue(int64(args[0].Float())), nil
	case BoolV:
		if args[0].Bool() {
			return IntValue(1), nil
		}
		return IntValue(0), nil
	case StrV:
		n, err := strconv.ParseInt(strings.TrimSpace(args[0].Str()), 10, 64)
		if err != nil {
			return Value{}, runtimeErr("cannot convert %q to Int", args[0].Str())
		}
		return IntValue(n), nil
	}
	return Value{}, runtimeErr("cannot convert %s to Int", args[0].TypeName())
}

func biFloat(ip *Interp, args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, runtimeErr("float expects 1 argument, got %d", len(args))
	}
	switch args[0].Tag {
	case FloatV:
		return args[0], nil
	case IntV:
		return FloatValue(float64(args[0].Int())), nil
	case StrV:
		f, err := strconv.ParseFloat(strings.TrimSpace(args[0].Str()), 64)
		if err != nil {
			return Value{}, runtimeErr("cannot convert %q to Float", args[0].Str())
		}
		return FloatValue(f), nil
	}
	return Value{}, runtimeErr("cannot convert %s to Float", args[0].TypeName())
}

func biBool(ip *Interp, args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, runtimeErr("bool expects 1 argument, got %d", len(args))
	}
	return BoolValue(isTruthy(args[0])), nil
}

func biType(ip *Interp, args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, runtimeErr("type expects 1 argument, got %d", len(args))
	}
	return StrValue(args[0].TypeName()), nil
}

func biAbs(ip *Interp, args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, runtimeErr("abs expects 1 argument, got %d", len(args))
	}
	switch args[0].Tag {
	case IntV:
		n := args[0].Int()
		if n < 0 {
			n = -n
		}
		return IntValue(n), nil
	case FloatV:
		f := args[0].Float()
		if f < 0 {
			f = -f
		}
		return FloatValue(f), nil
	}
	return Value{}, runtimeErr("abs does not support %s", args[0].TypeName())
}

// numericArgs flattens either a single list argument or the argument list
// itself into ints for min, max, and sum.
func numericArgs(name string, args []Value) ([]int64, error) {
	vals := args
	if len(args) == 1 && args[0].Tag == ListV {
		vals = args[0].List().Items
	}
	if len(vals) == 0 {
		return nil, runtimeErr("%s of empty sequence", name)
	}
	out := make([]int64, len(vals))
	for i, v := range vals {
		if v.Tag != IntV {
			return nil, runtimeErr("%s expects Int values, got %s", name, v.TypeName())
		}
		out[i] = v.Int()
	}
	return out, nil
}

func biMin(ip *Interp, args []Value) (Value, error) {
	nums, err := numericArgs("min", args)
	if err != nil {
		return Value{}, err
	}
	best := nums[0]
	for _, n := range nums[1:] {
		if n < best {
			best = n
		}
	}
	return IntValue(best), nil
}

func biMax(ip *Interp, args []Value) (Value, error) {
	nums, err := numericArgs("max", args)
	if err != nil {
		return Value{}, err
	}
	best := nums[0]
	for _, n := range nums[1:] {
		if n > best {
			best = n
		}
	}
	return IntValue(best), nil
}

func biSum(ip *Interp, args []Value) (Value, error) {
	nums, err := numericArgs("sum", args)
	if err != nil {
		return Value{}, err
	}
	total := int64(0)
	for _, n := range nums {
		total += n
	}
	return IntValue(total), nil
}

func biSorted(ip *Interp, args []Value) (Value, error) {
	if len(args) != 1 || args[0].Tag != ListV {
		return Value{}, runtimeErr("sorted expects a List argument")
	}
	src := args[0].List().Items
	items := make([]Value, len(src))
	copy(items, src)
	// Ints sort numerically, strings lexically; mixed content is an error.
	for i := 1; i < len(items); i++ {
		for j := i; j > 0; j-- {
			less, err := valueLess(items[j], items[j-1])
			if err != nil {
				return Value{}, err
			}
			if !less {
				break
			}
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
	return ListValue(items), nil
}

func valueLess(a, b Value) (bool, error) {
	if a.Tag == IntV && b.Tag == IntV {
		return a.Int() < b.Int(), nil
	}
	if a.Tag == StrV && b.Tag == StrV {
		return a.Str() < b.Str(), nil
	}
	return false, runtimeErr("cannot order %s and %s", a.TypeName(), b.TypeName())
}

func biReversed(ip *Interp, args []Value) (Value, error) {
	if len(args) != 1 || args[0].Tag != ListV {
		return Value{}, runtimeErr("reversed expects a List argument")
	}
	src := args[0].List().Items
	items := make([]Value, len(src))
	for i, v := range src {
		items[len(src)-1-i] = v
	}
	return ListValue(items), nil
}

func biEnumerate(ip *Interp, args []Value) (Value, error) {
	if len(args) != 1 || args[0].Tag != ListV {
		return Value{}, runtimeErr("enumerate expects a List argument")
	}
	src := args[0].List().Items
	items := make([]Value, len(src))
	for i, v := range src {
		items[i] = ListValue([]Value{IntValue(int64(i)), v})
	}
	return ListValue(items), nil
}

func biZip(ip *Interp, args []Value) (Value, error) {
	if len(args) != 2 || args[0].Tag != ListV || args[1].Tag != ListV {
		return Value{}, runtimeErr("zip expects 2 List arguments")
	}
	a, b := args[0].List().Items, args[1].List().Items
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	items := make([]Value, n)
	for i := 0; i < n; i++ {
		items[i] = ListValue([]Value{a[i], b[i]})
	}
	return ListValue(items), nil
}
