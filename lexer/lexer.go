// Package lexer scans the byte string of a stack-machine program.
//
// Unlike a conventional lexer it does not classify words into mnemonics,
// stack names, or numbers - the grammar's meaning for a word depends on
// where it occurs (e.g. the first operand of PUS is a stack name but the
// second is a number), so that classification is left to the compiler
// package. What the lexer owns is the byte cursor: skipping spaces and
// separators, and carving off maximal runs of non-separator bytes while
// tracking their byte offsets for diagnostics.
package lexer

import "github.com/ud2/stackc/token"

// IsSpace reports whether ch is one of the single-byte space characters
// recognised between tokens on the same line.
func IsSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\v' || ch == '\f' || ch == '\r'
}

// IsSeparator reports whether ch is a space or a newline.
func IsSeparator(ch byte) bool {
	return IsSpace(ch) || ch == '\n'
}

// Lexer holds our scanning state: the source bytes and the current cursor
// position within them.
type Lexer struct {
	src []byte
	pos int
}

// New creates a Lexer over the given source text.
func New(src string) *Lexer {
	return &Lexer{src: []byte(src)}
}

// Pos returns the current byte offset of the cursor.
func (l *Lexer) Pos() int {
	return l.pos
}

// AtEOF reports whether the cursor has reached the end of the source.
func (l *Lexer) AtEOF() bool {
	return l.pos >= len(l.src)
}

// Peek returns the byte at the cursor, or 0 at end of source.
func (l *Lexer) Peek() byte {
	if l.AtEOF() {
		return 0
	}
	return l.src[l.pos]
}

// SkipSpace advances the cursor past any run of space characters (not
// newlines).
func (l *Lexer) SkipSpace() {
	for !l.AtEOF() && IsSpace(l.Peek()) {
		l.pos++
	}
}

// SkipSeparators advances the cursor past any run of spaces and newlines.
func (l *Lexer) SkipSeparators() {
	for !l.AtEOF() && IsSeparator(l.Peek()) {
		l.pos++
	}
}

// SkipLine advances the cursor past the next newline, or to EOF if there
// isn't one. Used for error recovery: after a malformed line we abandon it
// and resume parsing at the following line.
func (l *Lexer) SkipLine() {
	for !l.AtEOF() {
		ch := l.src[l.pos]
		l.pos++
		if ch == '\n' {
			return
		}
	}
}

// ConsumeNewline consumes exactly one '\n' at the cursor and reports
// whether it did.
func (l *Lexer) ConsumeNewline() bool {
	if l.Peek() == '\n' {
		l.pos++
		return true
	}
	return false
}

// ScanWhile consumes a maximal run of bytes satisfying pred, starting at
// the cursor, and returns it as a token carrying its byte range. Used by
// the compiler package to scan runs of decimal digits.
func (l *Lexer) ScanWhile(pred func(byte) bool) token.Token {
	start := l.pos
	for !l.AtEOF() && pred(l.Peek()) {
		l.pos++
	}
	return token.Token{Type: token.WORD, Literal: string(l.src[start:l.pos]), Start: start, End: l.pos}
}

// NextWord reads a maximal run of non-separator bytes starting at the
// cursor. The caller is responsible for skipping leading space first if
// that's appropriate for the grammar position. Returns a zero-length token
// at the cursor if the cursor is already on a separator or at EOF.
func (l *Lexer) NextWord() token.Token {
	start := l.pos
	for !l.AtEOF() && !IsSeparator(l.Peek()) {
		l.pos++
	}
	if l.pos == start {
		return token.Token{Type: token.EOF, Start: start, End: start}
	}
	return token.Token{Type: token.WORD, Literal: string(l.src[start:l.pos]), Start: start, End: l.pos}
}
