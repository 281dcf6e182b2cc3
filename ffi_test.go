// ffi_test.go
package n7tya

import (
	"os/exec"
	"strings"
	"testing"
)

func needPython(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("python3 not available")
	}
}

func Test_PyCall_Scalars(t *testing.T) {
	needPython(t)
	ip := NewInterp()

	v, err := ip.CallBuiltin("py.call", []Value{
		StrValue("math"), StrValue("floor"), FloatValue(3.7),
	})
	if err != nil {
		t.Fatalf("py.call: %v", err)
	}
	if v.Tag != IntV || v.Int() != 3 {
		t.Fatalf("want 3, got %s", v.Display())
	}
}

func Test_PyCall_Lists(t *testing.T) {
	needPython(t)
	ip := NewInterp()

	v, err := ip.CallBuiltin("py.call", []Value{
		StrValue("builtins"), StrValue("sorted"),
		ListValue([]Value{IntValue(3), IntValue(1), IntValue(2)}),
	})
	if err != nil {
		t.Fatalf("py.call: %v", err)
	}
	if v.Display() != "[1, 2, 3]" {
		t.Fatalf("got %s", v.Display())
	}
}

func Test_PyCall_UnmarshalableArg_BecomesNone(t *testing.T) {
	needPython(t)
	ip := NewInterp()

	// A dict argument does not cross the bridge; repr(None) proves the
	// flattening happened on the way out.
	v, err := ip.CallBuiltin("py.call", []Value{
		StrValue("builtins"), StrValue("repr"), DictValue(nil),
	})
	if err != nil {
		t.Fatalf("py.call: %v", err)
	}
	if v.Str() != "None" {
		t.Fatalf("want repr None, got %s", v.Display())
	}
}

func Test_PyCall_MissingModule_IsError(t *testing.T) {
	needPython(t)
	ip := NewInterp()

	_, err := ip.CallBuiltin("py.call", []Value{
		StrValue("no_such_module_xyz"), StrValue("f"),
	})
	if err == nil || !strings.Contains(err.Error(), "py.call") {
		t.Fatalf("unexpected: %v", err)
	}
}

func Test_PyCall_BadArgs(t *testing.T) {
	ip := NewInterp()
	if _, err := ip.CallBuiltin("py.call", []Value{IntValue(1)}); err == nil {
		t.Fatalf("want argument error")
	}
}
