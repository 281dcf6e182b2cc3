// errors.go: user-facing error wrapping and caret-snippet rendering
//
// Turns parser and runtime diagnostics into readable snippets with a caret
// pointing at the offending column:
//
//	PARSE ERROR at 3:12: expected ')' after arguments
//
//	   2 | let x = (1 + 2
//	   3 |              )
//	       |            ^
//	   4 | print x
//
// The snippet includes up to one line of context before and after the error,
// numbers the lines, and places a caret under the 1-based column. Errors of
// any other kind pass through WrapErrorWithSource unchanged.
package n7tya

import (
	"fmt"
	"strings"
)

// ParseError is a fatal syntax diagnostic. Line and Col are 1-based.
type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("PARSE ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// RuntimeError is an evaluation failure. Position is best effort: statements
// carry no spans, so Line/Col may be zero.
type RuntimeError struct {
	Line int
	Col  int
	Msg  string
}

func (e *RuntimeError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("RUNTIME ERROR: %s", e.Msg)
	}
	return fmt.Sprintf("RUNTIME ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

func runtimeErr(format string, args ...interface{}) error {
	return &RuntimeError{Msg: fmt.Sprintf(format, args...)}
}

// WrapErrorWithSource returns an error augmented with a caret-annotated
// snippet of the provided source. It recognizes *ParseError and positioned
// *RuntimeError values and leaves other errors untouched.
func WrapErrorWithSource(err error, src string) error {
	return WrapErrorWithName(err, "", src)
}

// WrapErrorWithName is WrapErrorWithSource with a source name ("in <name>")
// included in the header when non-empty.
func WrapErrorWithName(err error, srcName, src string) error {
	switch e := err.(type) {
	case *ParseError:
		return fmt.Errorf("%s", prettySnippet(src, "PARSE ERROR", srcName, e.Line, e.Col, e.Msg))
	case *RuntimeError:
		if e.Line == 0 {
			return err
		}
		return fmt.Errorf("%s", prettySnippet(src, "RUNTIME ERROR", srcName, e.Line, e.Col, e.Msg))
	default:
		return err
	}
}

// prettySnippet builds the snippet with a header and a caret. It shows at
// most one previous and one next line. Coordinates are clamped to the source
// bounds so out-of-range positions never crash rendering.
func prettySnippet(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
