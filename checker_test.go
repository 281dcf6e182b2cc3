// checker_test.go
package n7tya

import (
	"strings"
	"testing"
)

func checkSrc(t *testing.T, src string) []string {
	t.Helper()
	prog := parseSrc(t, src)
	return NewChecker().Check(prog)
}

func wantClean(t *testing.T, src string) {
	t.Helper()
	if diags := checkSrc(t, src); len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v\nsource:\n%s", diags, src)
	}
}

func wantDiag(t *testing.T, src, substr string) {
	t.Helper()
	for _, d := range checkSrc(t, src) {
		if strings.Contains(d, substr) {
			return
		}
	}
	t.Fatalf("no diagnostic containing %q\nsource:\n%s", substr, src)
}

func Test_Checker_CleanProgram(t *testing.T) {
	wantClean(t, "def add a: Int, b: Int -> Int\n\treturn a + b\nlet x = add(1, 2)\nprint x\n")
}

func Test_Checker_UndefinedVariable(t *testing.T) {
	wantDiag(t, "print nope\n", "undefined variable 'nope'")
}

func Test_Checker_NonBoolCondition(t *testing.T) {
	wantDiag(t, "if 1 + 2\n\tprint \"x\"\n", "if condition is Int")
	wantDiag(t, "while \"x\"\n\tprint \"x\"\n", "while condition is Str")
}

func Test_Checker_UnknownCondition_Allowed(t *testing.T) {
	wantClean(t, "def f x\n\tif x\n\t\tprint \"x\"\nf(1)\n")
}

func Test_Checker_IncompatibleReassignment(t *testing.T) {
	wantDiag(t, "let x = 1\nx = \"hello\"\n", "incompatible assignment to 'x'")
}

func Test_Checker_DeclaredTypeMismatch(t *testing.T) {
	wantDiag(t, "let x: Int = \"s\"\n", "type mismatch for 'x'")
}

func Test_Checker_BinOpInference(t *testing.T) {
	wantClean(t, "let s = \"a\" + \"b\"\nlet n = 1 + 2\nlet f = 1.0 + 2\nprint s, n, f\n")
	wantDiag(t, `let v = [1] + [2]`+"\n", "invalid operands")
}

func Test_Checker_Builtins_Seeded(t *testing.T) {
	wantClean(t, "let n = len(\"abc\")\nlet xs = range(n)\nprint sorted(xs)\n")
}

func Test_Checker_Hoisting_ForwardCall(t *testing.T) {
	wantClean(t, "let v = later()\ndef later\n\treturn 1\nprint v\n")
}

func Test_Checker_NeverBlocks(t *testing.T) {
	// Diagnostics are advisory: the same program still runs.
	src := "let x = 1\nx = \"s\"\nprint x\n"
	wantDiag(t, src, "incompatible assignment")
	wantOut(t, src, "s\n")
}

func Test_Checker_ForLoop_ElementType(t *testing.T) {
	wantClean(t, "for i in [1, 2, 3]\n\tlet d = i * 2\n\tprint d\n")
}
