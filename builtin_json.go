// builtin_json.go: the json.* namespace.
package n7tya

import "encoding/json"

func init() {
	registerBuiltin("json.parse", jsonParse)
	registerBuiltin("json.stringify", jsonStringify)
}

func jsonParse(ip *Interp, args []Value) (Value, error) {
	if len(args) != 1 || args[0].Tag != StrV {
		return Value{}, runtimeErr("json.parse expects a Str argument")
	}
	var raw interface{}
	if err := json.Unmarshal([]byte(args[0].Str()), &raw); err != nil {
		return Value{}, runtimeErr("json.parse: %v", err)
	}
	return jsonToValue(raw), nil
}

func jsonStringify(ip *Interp, args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, runtimeErr("json.stringify expects 1 argument, got %d", len(args))
	}
	data, err := json.Marshal(valueToJSON(args[0]))
	if err != nil {
		return Value{}, runtimeErr("json.stringify: %v", err)
	}
	return StrValue(string(data)), nil
}

// jsonToValue maps decoded JSON onto runtime values. JSON numbers land as
// Int when they are whole, Float otherwise.
func jsonToValue(raw interface{}) Value {
	switch v := raw.(type) {
	case nil:
		return NoneValue()
	case bool:
		return BoolValue(v)
	case string:
		return StrValue(v)
	case float64:
		if v == float64(int64(v)) {
			return IntValue(int64(v))
		}
		return FloatValue(v)
	case []interface{}:
		items := make([]Value, len(v))
		for i, el := range v {
			items[i] = jsonToValue(el)
		}
		return ListValue(items)
	case map[string]interface{}:
		entries := make(map[string]Value, len(v))
		for k, el := range v {
			entries[k] = jsonToValue(el)
		}
		return DictValue(entries)
	}
	return NoneValue()
}

// valueToJSON maps runtime values onto encodable Go values. Functions,
// builtins, and instances serialize as null.
func valueToJSON(v Value) interface{} {
	switch v.Tag {
	case IntV:
		return v.Int()
	case FloatV:
		return v.Float()
	case StrV:
		return v.Str()
	case BoolV:
		return v.Bool()
	case NoneV:
		return nil
	case ListV:
		out := make([]interface{}, len(v.List().Items))
		for i, it := range v.List().Items {
			out[i] = valueToJSON(it)
		}
		return out
	case DictV:
		out := make(map[string]interface{}, len(v.Dict().Entries))
		for k, it := range v.Dict().Entries {
			out[k] = valueToJSON(it)
		}
		return out
	case SetV:
		out := make([]interface{}, len(v.Set().Items))
		for i, it := range v.Set().Items {
			out[i] = valueToJSON(it)
		}
		return out
	}
	return nil
}
