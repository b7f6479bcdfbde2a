package scanner

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/siadat/tcldoc/syntax/token"
)

// The scanner is a cursor over the raw source. It never rewinds. Every byte
// that crosses a newline goes through Advance or ConsumeWhitespace, which keep
// the line number and the offset of the current line start up to date.

var ErrIncompleteParse = errors.New("incomplete parse")

// Position is the location of a byte in the source. Line is 1-based, Column
// is the 0-based distance from the start of the line.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Scanner struct {
	src         []byte
	index       int
	line        int
	lastNewline int // offset of the first byte after the most recent newline

	debug bool
}

func NewScanner(src []byte, startLine int) *Scanner {
	if startLine < 1 {
		startLine = 1
	}
	return &Scanner{
		src:  src,
		line: startLine,
	}
}

func (s *Scanner) SetDebug(v bool) {
	s.debug = v
}

func (s *Scanner) Src() []byte {
	return s.src
}

func (s *Scanner) Eof() bool {
	return s.index >= len(s.src)
}

// Peek returns the current byte, or 0 at the end of the input.
func (s *Scanner) Peek() byte {
	if s.Eof() {
		return 0
	}
	return s.src[s.index]
}

// PeekAt returns the byte n positions after the current one.
func (s *Scanner) PeekAt(n int) (byte, bool) {
	var i = s.index + n
	if i < 0 || i >= len(s.src) {
		return 0, false
	}
	return s.src[i], true
}

func (s *Scanner) Offset() int {
	return s.index
}

func (s *Scanner) Line() int {
	return s.line
}

func (s *Scanner) Column() int {
	return s.index - s.lastNewline
}

func (s *Scanner) Pos() Position {
	return Position{
		Offset: s.index,
		Line:   s.line,
		Column: s.Column(),
	}
}

// Slice returns the source between two offsets.
func (s *Scanner) Slice(from, to int) string {
	return string(s.src[from:to])
}

// Advance consumes one byte.
func (s *Scanner) Advance() {
	if s.Eof() {
		return
	}
	var ch = s.src[s.index]
	s.index += 1
	if ch == '\n' {
		s.line += 1
		s.lastNewline = s.index
	}
}

// AdvanceWhile consumes bytes as long as none of them is in stop.
func (s *Scanner) AdvanceWhile(stop token.Class) {
	for !s.Eof() && !token.Is(s.src[s.index], stop) {
		s.Advance()
	}
}

// SkipLine consumes everything up to and including the next newline.
func (s *Scanner) SkipLine() {
	for !s.Eof() {
		var ch = s.src[s.index]
		s.Advance()
		if ch == '\n' {
			return
		}
	}
}

// ConsumeWhitespace consumes spaces and backslash-newline continuations and
// returns the number of bytes consumed. A continuation that ends the input
// is an ErrIncompleteParse.
func (s *Scanner) ConsumeWhitespace() (int, error) {
	var start = s.index
	for !s.Eof() {
		for !s.Eof() && token.Classify(s.src[s.index]) == token.SPACE {
			s.index += 1
		}
		if s.Peek() != '\\' {
			break
		}
		if next, ok := s.PeekAt(1); !ok || next != '\n' {
			break
		}
		s.index += 2
		s.line += 1
		s.lastNewline = s.index

		if s.Eof() {
			return s.index - start, ErrIncompleteParse
		}
	}
	return s.index - start, nil
}

// CurrentLine returns the full text of the line the cursor is on.
func (s *Scanner) CurrentLine() string {
	var end = bytes.IndexByte(s.src[s.lastNewline:], '\n')
	if end < 0 {
		return string(s.src[s.lastNewline:])
	}
	return string(s.src[s.lastNewline : s.lastNewline+end])
}

func (s *Scanner) PrintCursor(layout string, args ...interface{}) {
	if !s.debug {
		return
	}
	var b strings.Builder

	var ch string
	if s.Eof() {
		ch = "EOF"
	} else {
		ch = fmt.Sprintf("%q", s.src[s.index])
	}

	var prefix = fmt.Sprintf(layout, args...)
	b.WriteString(fmt.Sprintf("%s  %s\n", prefix, s.CurrentLine()))
	b.WriteString(fmt.Sprintf("%s  %s▲ [%d]=%s %s\n", prefix, strings.Repeat(" ", s.Column()), s.index, ch, s.Pos()))
	fmt.Fprint(os.Stderr, b.String())
}
