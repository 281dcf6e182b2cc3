// interpreter_test.go
package n7tya

import (
	"bytes"
	"strings"
	"testing"
)

// --- helpers ---------------------------------------------------------------

func runSrc(t *testing.T, src string) string {
	t.Helper()
	var out bytes.Buffer
	ip := NewInterp()
	ip.SetOutput(&out)
	if err := ip.InterpretSource(src); err != nil {
		t.Fatalf("run error: %v\nsource:\n%s", err, src)
	}
	return out.String()
}

func runErr(t *testing.T, src string) error {
	t.Helper()
	ip := NewInterp()
	ip.SetOutput(&bytes.Buffer{})
	err := ip.InterpretSource(src)
	if err == nil {
		t.Fatalf("expected runtime error for:\n%s", src)
	}
	return err
}

func wantOut(t *testing.T, src, want string) {
	t.Helper()
	got := runSrc(t, src)
	if got != want {
		t.Fatalf("\nsource:\n%s\nwant output %q\ngot %q", src, want, got)
	}
}

// --- basics ----------------------------------------------------------------

func Test_Interp_Arithmetic(t *testing.T) {
	wantOut(t, "print 1 + 2 * 3\n", "7\n")
	wantOut(t, "print 7 / 2\n", "3\n")
	wantOut(t, "print 7 % 3\n", "1\n")
	wantOut(t, "print(-5)\n", "-5\n")
}

func Test_Interp_StringConcat(t *testing.T) {
	wantOut(t, `print "foo" + "bar"`+"\n", "foobar\n")
}

func Test_Interp_MixedAdd_IsError(t *testing.T) {
	err := runErr(t, `print 1 + "a"`+"\n")
	if !strings.Contains(err.Error(), "cannot add") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func Test_Interp_DivisionByZero(t *testing.T) {
	err := runErr(t, "print 1 / 0\n")
	if !strings.Contains(err.Error(), "division by zero") {
		t.Fatalf("unexpected error: %v", err)
	}
	err = runErr(t, "print 1 % 0\n")
	if !strings.Contains(err.Error(), "modulo by zero") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func Test_Interp_Truthiness(t *testing.T) {
	src := "if \"\"\n\tprint \"yes\"\nelse\n\tprint \"no\"\nif [1]\n\tprint \"full\"\n"
	wantOut(t, src, "no\nfull\n")
}

func Test_Interp_Equality_UntabulatedPairsError(t *testing.T) {
	cases := []struct{ src, want string }{
		{`print 1 == "1"` + "\n", "cannot compare Int and Str with =="},
		{"print [1] == [1]\n", "cannot compare List and List with =="},
		{`print "a" != "b"` + "\n", "cannot compare Str and Str with !="},
		{"print true != false\n", "cannot compare Bool and Bool with !="},
	}
	for _, c := range cases {
		err := runErr(t, c.src)
		if !strings.Contains(err.Error(), c.want) {
			t.Fatalf("source %q: want %q in error, got %v", c.src, c.want, err)
		}
	}
}

func Test_Interp_Inequality_IntOnly(t *testing.T) {
	wantOut(t, "print 1 != 2\nprint 3 != 3\n", "true\nfalse\n")
}

// --- variables and scope ---------------------------------------------------

func Test_Interp_AssignmentWalksScopeChain(t *testing.T) {
	src := "let x = 1\ndef bump\n\tx = 2\nbump()\nprint x\n"
	wantOut(t, src, "2\n")
}

func Test_Interp_UndefinedVariable(t *testing.T) {
	err := runErr(t, "print nope\n")
	if !strings.Contains(err.Error(), "undefined variable: nope") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func Test_Interp_ClosureCapture(t *testing.T) {
	src := "def make\n\tlet n = 10\n\treturn x -> x + n\nlet f = make()\nprint f(5)\n"
	wantOut(t, src, "15\n")
}

func Test_Interp_TopLevelReturn_StopsProgram(t *testing.T) {
	wantOut(t, "print 1\nreturn\nprint 2\n", "1\n")
}

// --- lists -----------------------------------------------------------------

func Test_Interp_ListAliasing(t *testing.T) {
	src := "let a = [1, 2]\nlet b = a\nb.append(3)\nprint len(a)\n"
	wantOut(t, src, "3\n")
}

func Test_Interp_ListCopy_Independent(t *testing.T) {
	src := "let a = [1, 2]\nlet b = a.copy()\nb.append(3)\nprint len(a), len(b)\n"
	wantOut(t, src, "2 3\n")
}

func Test_Interp_IndexOutOfBounds(t *testing.T) {
	err := runErr(t, "let a = [1, 2, 3]\nprint a[5]\n")
	if !strings.Contains(err.Error(), "out of range") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func Test_Interp_IndexAssignment(t *testing.T) {
	wantOut(t, "let a = [1, 2]\na[0] = 9\nprint a\n", "[9, 2]\n")
}

func Test_Interp_Membership(t *testing.T) {
	wantOut(t, "print 2 in [1, 2, 3]\n", "true\n")
	wantOut(t, `print "ell" in "hello"`+"\n", "true\n")
}

// --- control flow ----------------------------------------------------------

func Test_Interp_WhileBreakContinue(t *testing.T) {
	src := "let i = 0\nwhile i < 10\n\ti = i + 1\n\tif i == 3\n\t\tcontinue\n\tif i == 5\n\t\tbreak\n\tprint i\n"
	wantOut(t, src, "1\n2\n4\n")
}

func Test_Interp_ForOverRange(t *testing.T) {
	wantOut(t, "for i in range(3)\n\tprint i\n", "0\n1\n2\n")
}

func Test_Interp_ForOverNonList_IsNoop(t *testing.T) {
	wantOut(t, "for i in 5\n\tprint i\nprint \"done\"\n", "done\n")
}

func Test_Interp_LoopBodySharesScope(t *testing.T) {
	src := "let total = 0\nfor i in range(4)\n\ttotal = total + i\nprint total\n"
	wantOut(t, src, "6\n")
}

func Test_Interp_Match(t *testing.T) {
	src := "let x = 2\nmatch x\n\tcase 1\n\t\tprint \"one\"\n\tcase 2\n\t\tprint \"two\"\n\tcase _\n\t\tprint \"many\"\n"
	wantOut(t, src, "two\n")
}

func Test_Interp_Match_Binding(t *testing.T) {
	src := "match 42\n\tcase n\n\t\tprint n\n"
	wantOut(t, src, "42\n")
}

// --- functions -------------------------------------------------------------

func Test_Interp_CommandAndParenCalls(t *testing.T) {
	src := "def add a, b\n\treturn a + b\nprint add(1, 2)\nprint add 3, 4\n"
	wantOut(t, src, "3\n7\n")
}

func Test_Interp_ArityMismatch(t *testing.T) {
	err := runErr(t, "def f a\n\treturn a\nf(1, 2)\n")
	if !strings.Contains(err.Error(), "expects 1 arguments, got 2") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func Test_Interp_Lambda(t *testing.T) {
	wantOut(t, "let double = x -> x * 2\nprint double(21)\n", "42\n")
}

func Test_Interp_Recursion(t *testing.T) {
	src := "def fib n\n\tif n < 2\n\t\treturn n\n\treturn fib(n - 1) + fib(n - 2)\nprint fib(10)\n"
	wantOut(t, src, "55\n")
}

// --- classes ---------------------------------------------------------------

func Test_Interp_Class_InstanceFields(t *testing.T) {
	src := "class Point\n\tx: Int\n\ty: Int\nlet p = Point()\np.x = 3\np.y = 4\nprint p.x + p.y\n"
	wantOut(t, src, "7\n")
}

func Test_Interp_Class_Methods_Self(t *testing.T) {
	src := "class Counter\n\tdef incr\n\t\tself.n = self.n + 1\n\t\treturn self.n\nlet c = Counter()\nc.n = 0\nc.incr()\nprint c.incr()\n"
	wantOut(t, src, "2\n")
}

func Test_Interp_Class_ParentMethodLookup(t *testing.T) {
	src := "class Animal\n\tdef speak\n\t\treturn \"...\"\nclass Dog Animal\n\tdef fetch\n\t\treturn \"ball\"\nlet d = Dog()\nprint d.speak()\nprint d.fetch()\n"
	wantOut(t, src, "...\nball\n")
}

func Test_Interp_Instance_StartsEmpty(t *testing.T) {
	src := "class Point\n\tx: Int\nlet p = Point()\nprint p\n"
	wantOut(t, src, "<Point instance>\n")
	err := runErr(t, "class Point\n\tx: Int\nlet p = Point()\nprint p.x\n")
	if !strings.Contains(err.Error(), "no field") {
		t.Fatalf("unexpected error: %v", err)
	}
}

// --- builtins --------------------------------------------------------------

func Test_Interp_Range_NegativeStep(t *testing.T) {
	wantOut(t, "print range(5, 1, -2)\n", "[5, 3]\n")
}

func Test_Interp_CoreBuiltins(t *testing.T) {
	wantOut(t, "print len(\"hello\"), abs(-3), sum([1, 2, 3])\n", "5 3 6\n")
	wantOut(t, "print sorted([3, 1, 2])\n", "[1, 2, 3]\n")
	wantOut(t, "print reversed([1, 2, 3])\n", "[3, 2, 1]\n")
	wantOut(t, "print min(4, 2, 7), max([4, 2, 7])\n", "2 7\n")
	wantOut(t, "print enumerate([\"a\", \"b\"])\n", "[[0, a], [1, b]]\n")
	wantOut(t, "print zip([1, 2, 3], [\"a\", \"b\"])\n", "[[1, a], [2, b]]\n")
}

func Test_Interp_Conversions(t *testing.T) {
	wantOut(t, "print int(\"42\") + 1\n", "43\n")
	wantOut(t, "print str(42) + \"!\"\n", "42!\n")
	wantOut(t, "print float(1)\n", "1\n")
	wantOut(t, "print bool(0), bool(\"x\")\n", "false true\n")
	wantOut(t, "print type(1), type(\"a\"), type([1])\n", "Int Str List\n")
}

func Test_Interp_FilterMap_DefinedFailure(t *testing.T) {
	err := runErr(t, "let f = x -> x\nmap(f, [1, 2])\n")
	if !strings.Contains(err.Error(), "map requires a function argument") {
		t.Fatalf("unexpected error: %v", err)
	}
	err = runErr(t, "filter(1, [1])\n")
	if !strings.Contains(err.Error(), "filter requires a function argument") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func Test_Interp_UnknownBuiltinNamespace(t *testing.T) {
	err := runErr(t, "fs.frobnicate(\"x\")\n")
	if !strings.Contains(err.Error(), "no member") && !strings.Contains(err.Error(), "undefined") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func Test_Interp_StringMethods(t *testing.T) {
	wantOut(t, `print "Hello World".lower().split()`+"\n", "[hello, world]\n")
	wantOut(t, `print "a,b,c".split(",")`+"\n", "[a, b, c]\n")
	wantOut(t, `print "-".join(["a", "b"])`+"\n", "a-b\n")
	wantOut(t, `print "hello".find("ll"), "hello".find("z")`+"\n", "2 -1\n")
	wantOut(t, `print "  x  ".strip()`+"\n", "x\n")
	wantOut(t, `print "hello".replace("l", "L")`+"\n", "heLLo\n")
	wantOut(t, `print "hello".startswith("he"), "hello".endswith("lo")`+"\n", "true true\n")
}

func Test_Interp_ListMethods(t *testing.T) {
	src := "let a = [1, 2, 2, 3]\nprint a.count(2), a.index(3)\na.insert(0, 9)\nprint a.pop(), a\n"
	wantOut(t, src, "2 3\n3 [9, 1, 2, 2]\n")
}

func Test_Interp_Determinism(t *testing.T) {
	src := "for i in range(3)\n\tprint i * i\n"
	first := runSrc(t, src)
	for i := 0; i < 3; i++ {
		if got := runSrc(t, src); got != first {
			t.Fatalf("output varied across runs: %q vs %q", first, got)
		}
	}
}

func Test_Interp_JSON_RoundTrip(t *testing.T) {
	// String literals are raw, so embedded quotes cannot appear in script
	// source; arrays of numbers and booleans cover the scriptable surface.
	wantOut(t, `print json.parse("[1, 2.5, true, null]")`+"\n", "[1, 2.5, true, none]\n")
	wantOut(t, `print json.stringify([1, "a"])`+"\n", `[1,"a"]`+"\n")
}

func Test_Interp_DictMemberAccess(t *testing.T) {
	var out bytes.Buffer
	ip := NewInterp()
	ip.SetOutput(&out)
	ip.globals.Define("d", DictValue(map[string]Value{"name": StrValue("x")}))
	if err := ip.InterpretSource("print d.name\n"); err != nil {
		t.Fatalf("run error: %v", err)
	}
	if got := out.String(); got != "x\n" {
		t.Fatalf("want %q, got %q", "x\n", got)
	}

	err := ip.InterpretSource("print d.missing\n")
	if err == nil || !strings.Contains(err.Error(), `dict has no key "missing"`) {
		t.Fatalf("missing key: %v", err)
	}
}

func Test_Interp_Run_ReturnsTopLevelValue(t *testing.T) {
	tokens := NewLexer("return 40 + 2\n").Scan()
	prog, err := NewParser(tokens).Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	v, err := NewInterp().Run(prog)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if v.Tag != IntV || v.Int() != 42 {
		t.Fatalf("want Int 42, got %s", v.Display())
	}

	tokens = NewLexer("let x = 1\n").Scan()
	prog, err = NewParser(tokens).Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	v, err = NewInterp().Run(prog)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if v.Tag != NoneV {
		t.Fatalf("want none, got %s", v.Display())
	}
}

func Test_Interp_ComponentName_IsBound(t *testing.T) {
	src := "component Counter\n\trender\n\t\treturn <p>hi</p>\nprint Counter\n"
	wantOut(t, src, "<builtin __component_Counter>\n")

	err := runErr(t, "component Counter\n\trender\n\t\treturn <p>hi</p>\nCounter()\n")
	if !strings.Contains(err.Error(), "__component_Counter") {
		t.Fatalf("calling a component should dispatch by name: %v", err)
	}
}
