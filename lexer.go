// lexer.go: source text -> token stream, with indentation tracking
package n7tya

import "strconv"

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota
	ERROR

	// Structure
	NEWLINE // line terminator, kept as a statement boundary
	INDENT  // one tab or a run of four spaces at any position

	// Literals & identifiers
	IDENT
	INT
	FLOAT
	STRING

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	ASSIGN // "="
	EQ     // "=="
	NEQ    // "!="
	LT
	GT
	LTEQ
	GTEQ
	ARROW // "->"

	// Punctuation
	COLON
	COMMA
	DOT
	DOTDOT
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	LBRACE
	RBRACE

	// Markup
	SELFCLOSE // "/>"
	CLOSETAG  // "</"

	// Keywords
	DEF
	FN
	LET
	CONST
	IF
	ELSE
	ELIF
	FOR
	WHILE
	RETURN
	IMPORT
	FROM
	AS
	CLASS
	STRUCT
	ENUM
	MATCH
	CASE
	BREAK
	CONTINUE
	PASS
	ASYNC
	AWAIT
	YIELD
	TRUE
	FALSE
	NONE
	AND
	OR
	NOT
	IN
	IS
	COMPONENT
	SERVER
	ROUTE
	TEST
	ASSERT
	SELF
	SUPER
	RENDER
	STATE
	PROPS
)

// Token is a lexical token with optional literal value.
type Token struct {
	Type    TokenType
	Lexeme  string      // raw text slice
	Literal interface{} // parsed value for literals
	Line    int
	Col     int
}

var keywords = map[string]TokenType{
	"def":       DEF,
	"fn":        FN,
	"let":       LET,
	"const":     CONST,
	"if":        IF,
	"else":      ELSE,
	"elif":      ELIF,
	"for":       FOR,
	"while":     WHILE,
	"return":    RETURN,
	"import":    IMPORT,
	"from":      FROM,
	"as":        AS,
	"class":     CLASS,
	"struct":    STRUCT,
	"enum":      ENUM,
	"match":     MATCH,
	"case":      CASE,
	"break":     BREAK,
	"continue":  CONTINUE,
	"pass":      PASS,
	"async":     ASYNC,
	"await":     AWAIT,
	"yield":     YIELD,
	"true":      TRUE,
	"false":     FALSE,
	"none":      NONE,
	"and":       AND,
	"or":        OR,
	"not":       NOT,
	"in":        IN,
	"is":        IS,
	"component": COMPONENT,
	"server":    SERVER,
	"route":     ROUTE,
	"test":      TEST,
	"assert":    ASSERT,
	"self":      SELF,
	"super":     SUPER,
	"render":    RENDER,
	"state":     STATE,
	"props":     PROPS,
}

// Lexer scans n7tya source into tokens. Scanning never fails: anything
// unrecognized becomes an ERROR token and the scan continues.
type Lexer struct {
	src    string
	start  int // start index of current token
	cur    int // current index
	line   int // 1-based
	col    int // 1-based column within line
	tokens []Token

	tokStartLine int
	tokStartCol  int
}

// NewLexer creates a new lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{
		src:  src,
		line: 1,
		col:  1,
	}
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) peekN(n int) (byte, bool) {
	idx := l.cur + n
	if idx >= len(l.src) {
		return 0, false
	}
	return l.src[idx], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch, true
}

func (l *Lexer) addToken(tt TokenType, lit interface{}) {
	l.tokens = append(l.tokens, Token{
		Type:    tt,
		Lexeme:  l.src[l.start:l.cur],
		Literal: lit,
		Line:    l.tokStartLine,
		Col:     l.tokStartCol,
	})
	l.start = l.cur
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool {
	return isAlpha(b) || isDigit(b)
}

// hasFourSpaces reports whether the next four bytes are all plain spaces.
func (l *Lexer) hasFourSpaces() bool {
	if l.cur+4 > len(l.src) {
		return false
	}
	return l.src[l.cur:l.cur+4] == "    "
}

// scanIdentifier parses [A-Za-z_][A-Za-z0-9_]*
func (l *Lexer) scanIdentifier() string {
	for {
		b, ok := l.peek()
		if !ok || !isAlphaNum(b) {
			break
		}
		l.advance()
	}
	return l.src[l.start:l.cur]
}

// scanNumber parses an integer or float. The float shape digits '.' digits is
// tried first so 3.14 never splits into 3, '.', 14.
func (l *Lexer) scanNumber() (TokenType, interface{}) {
	for {
		b, ok := l.peek()
		if !ok || !isDigit(b) {
			break
		}
		l.advance()
	}

	isFloat := false
	if b, ok := l.peek(); ok && b == '.' {
		if b2, ok2 := l.peekN(1); ok2 && isDigit(b2) {
			isFloat = true
			l.advance() // consume '.'
			for {
				b, ok := l.peek()
				if !ok || !isDigit(b) {
					break
				}
				l.advance()
			}
		}
	}

	lex := l.src[l.start:l.cur]
	if isFloat {
		v, err := strconv.ParseFloat(lex, 64)
		if err != nil {
			return ERROR, nil
		}
		return FLOAT, v
	}
	v, err := strconv.ParseInt(lex, 10, 64)
	if err != nil {
		return ERROR, nil
	}
	return INT, v
}

// scanString reads the raw text between double quotes. No escape processing.
// An unterminated string yields an ERROR token for the opening quote and the
// scan resumes right after it.
func (l *Lexer) scanString() {
	// opening quote already consumed
	openCur, openLine, openCol := l.cur, l.line, l.col
	for {
		b, ok := l.peek()
		if !ok {
			l.cur, l.line, l.col = openCur, openLine, openCol
			l.addToken(ERROR, nil)
			return
		}
		if b == '"' {
			text := l.src[l.start+1 : l.cur]
			l.advance()
			l.addToken(STRING, text)
			return
		}
		l.advance()
	}
}

// ignoreComment eats a '#' comment up to (not including) the newline.
func (l *Lexer) ignoreComment() {
	for {
		b, ok := l.peek()
		if !ok || b == '\n' {
			return
		}
		l.advance()
	}
}

func (l *Lexer) scanToken() {
	l.tokStartLine = l.line
	l.tokStartCol = l.col
	l.start = l.cur

	// Indentation units before single-space skipping: a tab or a run of
	// exactly four spaces is one indent signal.
	if b, ok := l.peek(); ok {
		if b == '\t' {
			l.advance()
			l.addToken(INDENT, nil)
			return
		}
		if b == ' ' && l.hasFourSpaces() {
			l.advance()
			l.advance()
			l.advance()
			l.advance()
			l.addToken(INDENT, nil)
			return
		}
		if b == ' ' || b == '\r' {
			l.advance()
			return
		}
	}

	ch, ok := l.advance()
	if !ok {
		return
	}

	switch ch {
	case '\n':
		l.addToken(NEWLINE, nil)
		return
	case '#':
		l.ignoreComment()
		return
	case '(':
		l.addToken(LPAREN, nil)
		return
	case ')':
		l.addToken(RPAREN, nil)
		return
	case '[':
		l.addToken(LBRACKET, nil)
		return
	case ']':
		l.addToken(RBRACKET, nil)
		return
	case '{':
		l.addToken(LBRACE, nil)
		return
	case '}':
		l.addToken(RBRACE, nil)
		return
	case '+':
		l.addToken(PLUS, nil)
		return
	case '*':
		l.addToken(STAR, nil)
		return
	case '%':
		l.addToken(PERCENT, nil)
		return
	case ':':
		l.addToken(COLON, nil)
		return
	case ',':
		l.addToken(COMMA, nil)
		return
	}

	// Two-char operators before their one-char prefixes.
	switch ch {
	case '-':
		if b, ok := l.peek(); ok && b == '>' {
			l.advance()
			l.addToken(ARROW, nil)
			return
		}
		l.addToken(MINUS, nil)
		return
	case '/':
		if b, ok := l.peek(); ok && b == '>' {
			l.advance()
			l.addToken(SELFCLOSE, nil)
			return
		}
		l.addToken(SLASH, nil)
		return
	case '=':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			l.addToken(EQ, nil)
			return
		}
		l.addToken(ASSIGN, nil)
		return
	case '!':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			l.addToken(NEQ, nil)
			return
		}
		l.addToken(ERROR, nil)
		return
	case '<':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			l.addToken(LTEQ, nil)
			return
		}
		if b, ok := l.peek(); ok && b == '/' {
			l.advance()
			l.addToken(CLOSETAG, nil)
			return
		}
		l.addToken(LT, nil)
		return
	case '>':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			l.addToken(GTEQ, nil)
			return
		}
		l.addToken(GT, nil)
		return
	case '.':
		if b, ok := l.peek(); ok && b == '.' {
			l.advance()
			l.addToken(DOTDOT, nil)
			return
		}
		l.addToken(DOT, nil)
		return
	case '"':
		l.scanString()
		return
	}

	if isDigit(ch) {
		l.cur = l.start
		l.col = l.tokStartCol
		tt, lit := l.scanNumber()
		l.addToken(tt, lit)
		return
	}

	if isAlpha(ch) {
		l.cur = l.start
		l.col = l.tokStartCol
		lex := l.scanIdentifier()
		if tt, ok := keywords[lex]; ok {
			l.addToken(tt, nil)
			return
		}
		l.addToken(IDENT, lex)
		return
	}

	l.addToken(ERROR, nil)
}

// Scan tokenizes the entire source. The EOF token is not included; the
// parser treats running off the slice as end of input.
func (l *Lexer) Scan() []Token {
	for !l.isAtEnd() {
		l.scanToken()
	}
	return l.tokens
}
