// builtin_encoding.go: the base64.* namespace.
package n7tya

import "encoding/base64"

func init() {
	registerBuiltin("base64.encode", b64Encode)
	registerBuiltin("base64.decode", b64Decode)
}

func b64Encode(ip *Interp, args []Value) (Value, error) {
	if len(args) != 1 || args[0].Tag != StrV {
		return Value{}, runtimeErr("base64.encode expects a Str argument")
	}
	return StrValue(base64.StdEncoding.EncodeToString([]byte(args[0].Str()))), nil
}

func b64Decode(ip *Interp, args []Value) (Value, error) {
	if len(args) != 1 || args[0].Tag != StrV {
		return Value{}, runtimeErr("base64.decode expects a Str argument")
	}
	data, err := base64.StdEncoding.DecodeString(args[0].Str())
	if err != nil {
		return Value{}, runtimeErr("base64.decode: %v", err)
	}
	return StrValue(string(data)), nil
}
