// format_test.go
package n7tya

import "testing"

func Test_Format_FourSpacesToTab(t *testing.T) {
	got := FormatSource("def f\n    print 1\n        print 2\n")
	want := "def f\n\tprint 1\n\t\tprint 2\n"
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func Test_Format_TabsPreserved(t *testing.T) {
	src := "def f\n\tprint 1\n"
	if got := FormatSource(src); got != src {
		t.Fatalf("tab-indented source should be unchanged, got %q", got)
	}
}

func Test_Format_MixedIndent(t *testing.T) {
	got := FormatSource("\t    x\n")
	if got != "\t\tx\n" {
		t.Fatalf("got %q", got)
	}
}

func Test_Format_TrailingWhitespace_Trimmed(t *testing.T) {
	if got := FormatSource("print 1   \n"); got != "print 1\n" {
		t.Fatalf("got %q", got)
	}
}

func Test_Format_BlankLines_Emptied(t *testing.T) {
	if got := FormatSource("a\n   \t\nb\n"); got != "a\n\nb\n" {
		t.Fatalf("got %q", got)
	}
}

func Test_Format_Idempotent(t *testing.T) {
	src := "def f\n    let x = 1  \n\n    return x\n"
	once := FormatSource(src)
	if FormatSource(once) != once {
		t.Fatalf("formatting is not idempotent")
	}
}
