// methods.go: built-in methods on list, string, and dict values.
package n7tya

import (
	"sort"
	"strings"
)

func (ip *Interp) listMethod(obj Value, name string, args []Value) (Value, error) {
	list := obj.List()
	switch name {
	case "append":
		if len(args) != 1 {
			return Value{}, runtimeErr("append expects 1 argument, got %d", len(args))
		}
		list.Items = append(list.Items, args[0])
		return NoneValue(), nil

	case "pop":
		if len(list.Items) == 0 {
			return Value{}, runtimeErr("pop from empty list")
		}
		idx := int64(len(list.Items) - 1)
		if len(args) == 1 {
			if args[0].Tag != IntV {
				return Value{}, runtimeErr("pop index must be Int")
			}
			idx = args[0].Int()
			if idx < 0 || idx >= int64(len(list.Items)) {
				return Value{}, runtimeErr("pop index %d out of range (len %d)", idx, len(list.Items))
			}
		}
		v := list.Items[idx]
		list.Items = append(list.Items[:idx], list.Items[idx+1:]...)
		return v, nil

	case "insert":
		if len(args) != 2 {
			return Value{}, runtimeErr("insert expects 2 arguments, got %d", len(args))
		}
		if args[0].Tag != IntV {
			return Value{}, runtimeErr("insert index must be Int")
		}
		idx := args[0].Int()
		if idx < 0 {
			idx = 0
		}
		if idx > int64(len(list.Items)) {
			idx = int64(len(list.Items))
		}
		list.Items = append(list.Items, Value{})
		copy(list.Items[idx+1:], list.Items[idx:])
		list.Items[idx] = args[1]
		return NoneValue(), nil

	case "clear":
		list.Items = nil
		return NoneValue(), nil

	case "index":
		if len(args) != 1 {
			return Value{}, runtimeErr("index expects 1 argument, got %d", len(args))
		}
		for i, it := range list.Items {
			if valuesEqual(it, args[0]) {
				return IntValue(int64(i)), nil
			}
		}
		return Value{}, runtimeErr("value not in list")

	case "count":
		if len(args) != 1 {
			return Value{}, runtimeErr("count expects 1 argument, got %d", len(args))
		}
		n := int64(0)
		for _, it := range list.Items {
			if valuesEqual(it, args[0]) {
				n++
			}
		}
		return IntValue(n), nil

	case "copy":
		items := make([]Value, len(list.Items))
		copy(items, list.Items)
		return ListValue(items), nil
	}
	return Value{}, runtimeErr("List has no method %s", name)
}

func (ip *Interp) strMethod(obj Value, name string, args []Value) (Value, error) {
	s := obj.Str()
	strArg := func(i int) (string, error) {
		if i >= len(args) || args[i].Tag != StrV {
			return "", runtimeErr("%s expects a Str argument", name)
		}
		return args[i].Str(), nil
	}
	switch name {
	case "upper":
		return StrValue(strings.ToUpper(s)), nil
	case "lower":
		return StrValue(strings.ToLower(s)), nil
	case "strip":
		return StrValue(strings.TrimSpace(s)), nil

	case "split":
		sep := " "
		if len(args) == 1 {
			var err error
			sep, err = strArg(0)
			if err != nil {
				return Value{}, err
			}
		}
		parts := strings.Split(s, sep)
		items := make([]Value, len(parts))
		for i, p := range parts {
			items[i] = StrValue(p)
		}
		return ListValue(items), nil

	case "join":
		if len(args) != 1 || args[0].Tag != ListV {
			return Value{}, runtimeErr("join expects a List argument")
		}
		parts := make([]string, 0, len(args[0].List().Items))
		for _, it := range args[0].List().Items {
			parts = append(parts, it.Display())
		}
		return StrValue(strings.Join(parts, s)), nil

	case "replace":
		old, err := strArg(0)
		if err != nil {
			return Value{}, err
		}
		repl, err := strArg(1)
		if err != nil {
			return Value{}, err
		}
		return StrValue(strings.ReplaceAll(s, old, repl)), nil

	case "startswith":
		prefix, err := strArg(0)
		if err != nil {
			return Value{}, err
		}
		return BoolValue(strings.HasPrefix(s, prefix)), nil

	case "endswith":
		suffix, err := strArg(0)
		if err != nil {
			return Value{}, err
		}
		return BoolValue(strings.HasSuffix(s, suffix)), nil

	case "find":
		sub, err := strArg(0)
		if err != nil {
			return Value{}, err
		}
		return IntValue(int64(strings.Index(s, sub))), nil

	case "contains":
		sub, err := strArg(0)
		if err != nil {
			return Value{}, err
		}
		return BoolValue(strings.Contains(s, sub)), nil
	}
	return Value{}, runtimeErr("Str has no method %s", name)
}

func (ip *Interp) dictMethod(obj Value, name string, args []Value) (Value, error) {
	dict := obj.Dict()
	sortedKeys := func() []string {
		keys := make([]string, 0, len(dict.Entries))
		for k := range dict.Entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return keys
	}
	switch name {
	case "keys":
		keys := sortedKeys()
		items := make([]Value, len(keys))
		for i, k := range keys {
			items[i] = StrValue(k)
		}
		return ListValue(items), nil

	case "values":
		keys := sortedKeys()
		items := make([]Value, len(keys))
		for i, k := range keys {
			items[i] = dict.Entries[k]
		}
		return ListValue(items), nil

	case "items":
		keys := sortedKeys()
		items := make([]Value, len(keys))
		for i, k := range keys {
			items[i] = ListValue([]Value{StrValue(k), dict.Entries[k]})
		}
		return ListValue(items), nil

	case "get":
		if len(args) < 1 || len(args) > 2 || args[0].Tag != StrV {
			return Value{}, runtimeErr("get expects a Str key and optional default")
		}
		if v, ok := dict.Entries[args[0].Str()]; ok {
			return v, nil
		}
		if len(args) == 2 {
			return args[1], nil
		}
		return NoneValue(), nil

	case "pop":
		if len(args) != 1 || args[0].Tag != StrV {
			return Value{}, runtimeErr("pop expects a Str key")
		}
		if v, ok := dict.Entries[args[0].Str()]; ok {
			delete(dict.Entries, args[0].Str())
			return v, nil
		}
		return Value{}, runtimeErr("dict has no key %q", args[0].Str())

	case "clear":
		dict.Entries = map[string]Value{}
		return NoneValue(), nil

	case "contains":
		if len(args) != 1 || args[0].Tag != StrV {
			return Value{}, runtimeErr("contains expects a Str key")
		}
		_, ok := dict.Entries[args[0].Str()]
		return BoolValue(ok), nil
	}
	return Value{}, runtimeErr("Dict has no method %s", name)
}
