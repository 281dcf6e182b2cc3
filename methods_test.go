// methods_test.go
package n7tya

import (
	"strings"
	"testing"
)

// Dict values only arise from json.parse and sqlite.query, and raw string
// literals cannot embed the quotes JSON objects need, so dict methods are
// exercised at the API level.

func testDict(entries map[string]Value) (*Interp, Value) {
	return NewInterp(), DictValue(entries)
}

func Test_DictMethods_Keys_Values_Items(t *testing.T) {
	ip, d := testDict(map[string]Value{"b": IntValue(2), "a": IntValue(1)})

	keys, err := ip.dictMethod(d, "keys", nil)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if keys.Display() != "[a, b]" {
		t.Fatalf("keys should be sorted: %s", keys.Display())
	}

	values, err := ip.dictMethod(d, "values", nil)
	if err != nil {
		t.Fatalf("values: %v", err)
	}
	if values.Display() != "[1, 2]" {
		t.Fatalf("values should follow key order: %s", values.Display())
	}

	items, err := ip.dictMethod(d, "items", nil)
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if items.Display() != "[[a, 1], [b, 2]]" {
		t.Fatalf("bad items: %s", items.Display())
	}
}

func Test_DictMethods_Get_Default(t *testing.T) {
	ip, d := testDict(map[string]Value{"a": IntValue(1)})

	v, err := ip.dictMethod(d, "get", []Value{StrValue("a")})
	if err != nil || v.Int() != 1 {
		t.Fatalf("get a: %v %v", v, err)
	}
	v, err = ip.dictMethod(d, "get", []Value{StrValue("z")})
	if err != nil || v.Tag != NoneV {
		t.Fatalf("get missing should be none: %v %v", v, err)
	}
	v, err = ip.dictMethod(d, "get", []Value{StrValue("z"), IntValue(9)})
	if err != nil || v.Int() != 9 {
		t.Fatalf("get with default: %v %v", v, err)
	}
}

func Test_DictMethods_Pop_Contains_Clear(t *testing.T) {
	ip, d := testDict(map[string]Value{"a": IntValue(1)})

	v, err := ip.dictMethod(d, "pop", []Value{StrValue("a")})
	if err != nil || v.Int() != 1 {
		t.Fatalf("pop: %v %v", v, err)
	}
	if _, err := ip.dictMethod(d, "pop", []Value{StrValue("a")}); err == nil {
		t.Fatalf("pop of missing key should fail")
	}

	d = DictValue(map[string]Value{"x": BoolValue(true)})
	v, _ = ip.dictMethod(d, "contains", []Value{StrValue("x")})
	if !v.Bool() {
		t.Fatalf("contains x should be true")
	}
	ip.dictMethod(d, "clear", nil)
	if len(d.Dict().Entries) != 0 {
		t.Fatalf("clear left entries behind")
	}
}

func Test_ListMethods_UnknownMethod(t *testing.T) {
	ip := NewInterp()
	_, err := ip.listMethod(ListValue(nil), "frobnicate", nil)
	if err == nil || !strings.Contains(err.Error(), "List has no method") {
		t.Fatalf("unexpected: %v", err)
	}
}

func Test_StrMethods_Join_DisplaysElements(t *testing.T) {
	ip := NewInterp()
	v, err := ip.strMethod(StrValue(","), "join", []Value{ListValue([]Value{IntValue(1), StrValue("a")})})
	if err != nil || v.Str() != "1,a" {
		t.Fatalf("join: %v %v", v, err)
	}
}
