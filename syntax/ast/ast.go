package ast

import (
	"regexp"
	"strings"

	"github.com/siadat/tcldoc/syntax/scanner"
)

// Comment is one '#' line. Text is the raw source, starting at the '#' and
// including the trailing newline when there is one.
type Comment struct {
	Text     string
	Position scanner.Position
}

var commentMarkerRe = regexp.MustCompile(`^#+ ?`)

// Stripped returns the comment without its leading '#' run, at most one
// space after it, and the line end.
func (c Comment) Stripped() string {
	var s = commentMarkerRe.ReplaceAllString(c.Text, "")
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

// Command is one statement. It always has at least one word.
type Command struct {
	Words    []Word
	Comments []Comment
	Position scanner.Position
}

// Name returns the literal text of the first word, if it is simple.
func (c *Command) Name() (string, bool) {
	if len(c.Words) == 0 {
		return "", false
	}
	return c.Words[0].Literal()
}

// IsCall reports whether the first words are the given simple literals.
func (c *Command) IsCall(names ...string) bool {
	if len(c.Words) < len(names) {
		return false
	}
	for i, name := range names {
		if lit, ok := c.Words[i].Literal(); !ok || lit != name {
			return false
		}
	}
	return true
}

func (c *Command) String() string {
	var words = make([]string, len(c.Words))
	for i, w := range c.Words {
		words[i] = w.String()
	}
	return strings.Join(words, " ")
}

type Word interface {
	node()
	word()
	Pos() scanner.Position
	// Literal returns the text of the word when it contains no substitution.
	Literal() (string, bool)
	String() string
}

// UnquotedWord is a bare word made of literal runs and substitutions.
type UnquotedWord struct {
	Parts    []Part
	Position scanner.Position
}

// Simple reports whether the word has no substitution parts.
func (w *UnquotedWord) Simple() bool {
	for _, part := range w.Parts {
		if _, ok := part.(Literal); !ok {
			return false
		}
	}
	return true
}

func (w *UnquotedWord) Literal() (string, bool) {
	if !w.Simple() {
		return "", false
	}
	return w.String(), true
}

func (w *UnquotedWord) String() string {
	var b strings.Builder
	for _, part := range w.Parts {
		b.WriteString(part.String())
	}
	return b.String()
}

func (w *UnquotedWord) Pos() scanner.Position { return w.Position }

// BracedWord is the uninterpreted content of a balanced {...} pair, without
// the outer braces.
type BracedWord struct {
	Text     string
	Position scanner.Position
}

func (w *BracedWord) Literal() (string, bool) {
	return w.Text, true
}

func (w *BracedWord) String() string {
	return "{" + w.Text + "}"
}

func (w *BracedWord) Pos() scanner.Position { return w.Position }

// Part is one piece of an unquoted word.
type Part interface {
	part()
	String() string
}

type Literal string

// VariableRef is a $name substitution.
type VariableRef string

// CommandRef is a [script] substitution.
type CommandRef string

func (l Literal) String() string     { return string(l) }
func (v VariableRef) String() string { return "$" + string(v) }
func (c CommandRef) String() string  { return "[" + string(c) + "]" }

func (Literal) part()     {}
func (VariableRef) part() {}
func (CommandRef) part()  {}

func (*UnquotedWord) node() {}
func (*BracedWord) node()   {}

func (*UnquotedWord) word() {}
func (*BracedWord) word()   {}
