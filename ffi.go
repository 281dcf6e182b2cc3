// ffi.go: the py.* foreign-runtime bridge.
//
// py.call module function args... shells out to python3 and exchanges
// arguments and results as JSON on stdin/stdout. Only scalars and lists of
// scalars cross the boundary; everything else flattens to None in both
// directions.
package n7tya

import (
	"bytes"
	"encoding/json"
	"os/exec"
	"strings"
)

func init() {
	registerBuiltin("py.call", pyCall)
}

// pyBridge unmarshals argv JSON, imports the module, applies the function,
// and prints the result as JSON.
const pyBridge = `
import importlib, json, sys
req = json.load(sys.stdin)
mod = importlib.import_module(req["module"])
fn = getattr(mod, req["function"])
out = fn(*req["args"])
json.dump(out, sys.stdout)
`

func pyCall(ip *Interp, args []Value) (Value, error) {
	if len(args) < 2 || args[0].Tag != StrV || args[1].Tag != StrV {
		return Value{}, runtimeErr("py.call expects a Str module, Str function, and arguments")
	}
	marshaled := make([]interface{}, 0, len(args)-2)
	for _, a := range args[2:] {
		marshaled = append(marshaled, valueToPy(a))
	}
	req, err := json.Marshal(map[string]interface{}{
		"module":   args[0].Str(),
		"function": args[1].Str(),
		"args":     marshaled,
	})
	if err != nil {
		return Value{}, runtimeErr("py.call: %v", err)
	}

	cmd := exec.Command("python3", "-c", pyBridge)
	cmd.Stdin = bytes.NewReader(req)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return Value{}, runtimeErr("py.call: %s", msg)
	}

	var raw interface{}
	if err := json.Unmarshal(stdout.Bytes(), &raw); err != nil {
		return Value{}, runtimeErr("py.call: bad response: %v", err)
	}
	return pyToValue(raw), nil
}

// valueToPy marshals a value across the bridge. Dicts, sets, functions,
// and instances do not cross; they become None.
func valueToPy(v Value) interface{} {
	switch v.Tag {
	case IntV:
		return v.Int()
	case FloatV:
		return v.Float()
	case StrV:
		return v.Str()
	case BoolV:
		return v.Bool()
	case ListV:
		out := make([]interface{}, len(v.List().Items))
		for i, it := range v.List().Items {
			out[i] = valueToPy(it)
		}
		return out
	}
	return nil
}

func pyToValue(raw interface{}) Value {
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
			items[i] = pyToValue(el)
		}
		return ListValue(items)
	}
	return NoneValue()
}
