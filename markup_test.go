// markup_test.go
package n7tya

import "testing"

// Markup appears in atom position (after =, return, or inside parens), so
// these bind the element and print the binding.

func Test_Markup_SelfClose(t *testing.T) {
	wantOut(t, "let v = <br />\nprint v\n", "<br />\n")
	wantOut(t, `let v = <img src="a.png" />`+"\nprint v\n", `<img src="a.png" />`+"\n")
}

func Test_Markup_NoChildren_SelfCloses(t *testing.T) {
	wantOut(t, "let v = <div></div>\nprint v\n", "<div />\n")
}

func Test_Markup_BooleanAttr(t *testing.T) {
	wantOut(t, "let v = <input disabled />\nprint v\n", `<input disabled="true" />`+"\n")
}

func Test_Markup_TextChildren_Escaped(t *testing.T) {
	wantOut(t, `let v = <p>"a < b & c"</p>`+"\nprint v\n", "<p>a &lt; b &amp; c</p>\n")
}

func Test_Markup_Splice_EvaluatesAndEscapes(t *testing.T) {
	src := "let name = \"Tom & Co\"\nlet v = <span>{name}</span>\nprint v\n"
	wantOut(t, src, "<span>Tom &amp; Co</span>\n")
	wantOut(t, "let v = <span>{1 + 2}</span>\nprint v\n", "<span>3</span>\n")
}

func Test_Markup_AttrExpr_Escaped(t *testing.T) {
	src := "let cls = \"a<b\"\nlet v = <div class={cls}>\"x\"</div>\nprint v\n"
	wantOut(t, src, `<div class="a&lt;b">x</div>`+"\n")
}

func Test_Markup_Nested(t *testing.T) {
	src := `let v = <ul><li>"one"</li><li>"two"</li></ul>` + "\nprint v\n"
	wantOut(t, src, "<ul><li>one</li><li>two</li></ul>\n")
}

func Test_Markup_EvaluatesToStr(t *testing.T) {
	wantOut(t, "let v = <br />\nprint type(v)\n", "Str\n")
}

func Test_Markup_ComponentExpansion(t *testing.T) {
	src := "component Greeting\n\tstate who = \"world\"\n\trender\n\t\treturn <p>{who}</p>\nlet v = <Greeting />\nprint v\n"
	wantOut(t, src, "<p>world</p>\n")
}

func Test_Markup_ComponentAttrs_OverrideState(t *testing.T) {
	src := "component Greeting\n\tstate who = \"world\"\n\trender\n\t\treturn <p>{who}</p>\nlet v = <Greeting who=\"moon\" />\nprint v\n"
	wantOut(t, src, "<p>moon</p>\n")
}

func Test_EscapeHTML_Order(t *testing.T) {
	got := escapeHTML(`&<>"'`)
	want := "&amp;&lt;&gt;&quot;&#39;"
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}
