// lexer_test.go
package n7tya

import (
	"reflect"
	"testing"
)

func toks(t *testing.T, src string) []Token {
	t.Helper()
	return NewLexer(src).Scan()
}

func tokenTypes(tokens []Token) []TokenType {
	out := make([]TokenType, len(tokens))
	for i, tk := range tokens {
		out[i] = tk.Type
	}
	return out
}

func wantTypes(t *testing.T, src string, want []TokenType) []Token {
	t.Helper()
	got := toks(t, src)
	gotTypes := tokenTypes(got)
	if !reflect.DeepEqual(gotTypes, want) {
		t.Fatalf("\nsource:\n%s\nwant types:\n%v\ngot types:\n%v\n", src, want, gotTypes)
	}
	return got
}

func Test_Lexer_Examples_HelloWorld(t *testing.T) {
	src := "def main\n\tprint \"Hello\"\n"
	want := []TokenType{
		DEF, IDENT, NEWLINE,
		INDENT, IDENT, STRING, NEWLINE,
	}
	wantTypes(t, src, want)
}

func Test_Lexer_Indent_TabAndFourSpaces(t *testing.T) {
	got := wantTypes(t, "\tx\n    y\n", []TokenType{
		INDENT, IDENT, NEWLINE,
		INDENT, IDENT, NEWLINE,
	})
	if got[1].Literal.(string) != "x" || got[4].Literal.(string) != "y" {
		t.Fatalf("unexpected identifiers: %#v", got)
	}
}

func Test_Lexer_SingleSpaces_Skipped(t *testing.T) {
	wantTypes(t, "let x = 1\n", []TokenType{
		LET, IDENT, ASSIGN, INT, NEWLINE,
	})
}

func Test_Lexer_Comment_Discarded(t *testing.T) {
	wantTypes(t, "# a comment\nx\n", []TokenType{
		NEWLINE, IDENT, NEWLINE,
	})
}

func Test_Lexer_Numbers(t *testing.T) {
	got := wantTypes(t, "1 23 4.5 6.\n", []TokenType{
		INT, INT, FLOAT, INT, DOT, NEWLINE,
	})
	if got[0].Literal.(int64) != 1 || got[1].Literal.(int64) != 23 {
		t.Fatalf("bad int literals: %#v", got[:2])
	}
	if got[2].Literal.(float64) != 4.5 {
		t.Fatalf("bad float literal: %#v", got[2])
	}
}

func Test_Lexer_String_Raw_NoEscapes(t *testing.T) {
	got := wantTypes(t, `"a\nb"`, []TokenType{STRING})
	if got[0].Literal.(string) != `a\nb` {
		t.Fatalf("string literal should be raw, got %q", got[0].Literal)
	}
}

func Test_Lexer_String_Unterminated_ErrorToken(t *testing.T) {
	got := toks(t, `"abc`)
	if len(got) == 0 || got[0].Type != ERROR {
		t.Fatalf("want leading ERROR token, got %v", tokenTypes(got))
	}
}

func Test_Lexer_TwoCharOperators(t *testing.T) {
	wantTypes(t, "== != <= >= -> /> </ ..", []TokenType{
		EQ, NEQ, LTEQ, GTEQ, ARROW, SELFCLOSE, CLOSETAG, DOTDOT,
	})
}

func Test_Lexer_Keywords_And_Idents(t *testing.T) {
	got := wantTypes(t, "def fnord while state", []TokenType{
		DEF, IDENT, WHILE, STATE,
	})
	if got[1].Literal.(string) != "fnord" {
		t.Fatalf("keyword prefix must not split identifiers: %#v", got[1])
	}
}

func Test_Lexer_NeverFails_UnknownChar(t *testing.T) {
	got := toks(t, "x @ y")
	want := []TokenType{IDENT, ERROR, IDENT}
	if !reflect.DeepEqual(tokenTypes(got), want) {
		t.Fatalf("want %v, got %v", want, tokenTypes(got))
	}
}

func Test_Lexer_Positions(t *testing.T) {
	got := toks(t, "let x\nlet y\n")
	if got[0].Line != 1 || got[0].Col != 1 {
		t.Fatalf("first token position: line %d col %d", got[0].Line, got[0].Col)
	}
	if got[3].Line != 2 {
		t.Fatalf("second let should be on line 2, got %d", got[3].Line)
	}
}
