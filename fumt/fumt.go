package fumt

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/siadat/tcldoc/erroring"
	"github.com/siadat/tcldoc/syntax/ast"
	"github.com/siadat/tcldoc/syntax/parser"
	"github.com/siadat/tcldoc/syntax/scanner"
)

// Formats Tcl source one command per line. Words are joined by a single
// space and kept as written, except for namespace eval bodies which are
// formatted recursively with one tab per level. Runs of blank lines become
// one blank line.

type formater struct {
	indentLevel int
	src         []byte
	debug       bool
}

func NewFormater() *formater {
	return &formater{}
}

func (ft *formater) SetDebug(v bool) {
	ft.debug = v
}

func (ft *formater) Format(src io.Reader, out io.Writer) error {
	var byts, readErr = io.ReadAll(src)
	if readErr != nil {
		return readErr
	}
	ft.src = byts

	var p = parser.NewParser(byts, 1)
	p.SetDebug(ft.debug)
	if err := p.Parse(); err != nil {
		return err
	}

	var formatted, err = erroring.CallAndRecover[Error](func() string {
		return ft.formatCommands(p.Commands(), p.TrailingComments())
	})
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, formatted)
	return err
}

func (ft *formater) formatCommands(commands []*ast.Command, trailing []ast.Comment) string {
	var buf bytes.Buffer
	var lastLine = -1
	var separate = func(firstLine int) {
		if lastLine >= 0 && firstLine > lastLine+1 {
			buf.WriteString("\n")
		}
	}

	for _, cmd := range commands {
		var firstLine = cmd.Position.Line
		if len(cmd.Comments) > 0 {
			firstLine = cmd.Comments[0].Position.Line
		}
		separate(firstLine)
		for _, c := range cmd.Comments {
			buf.WriteString(ft.indent() + ft.formatComment(c))
		}
		buf.WriteString(ft.indent() + ft.formatCommand(cmd) + "\n")
		lastLine = endLine(cmd)
	}

	if len(trailing) > 0 {
		separate(trailing[0].Position.Line)
		for _, c := range trailing {
			buf.WriteString(ft.indent() + ft.formatComment(c))
		}
	}
	return buf.String()
}

func (ft *formater) formatComment(c ast.Comment) string {
	return strings.TrimRight(c.Text, " \t\r\n") + "\n"
}

func (ft *formater) formatCommand(cmd *ast.Command) string {
	var isNamespace = cmd.IsCall("namespace", "eval")
	var words []string
	for i, w := range cmd.Words {
		switch w := w.(type) {
		case *ast.UnquotedWord:
			words = append(words, w.String())
		case *ast.BracedWord:
			if isNamespace && i >= 3 {
				words = append(words, ft.formatBlock(w))
			} else {
				words = append(words, w.String())
			}
		default:
			panic(ft.newError(w.Pos(), "unsupported word type %T", w))
		}
	}
	return strings.Join(words, " ")
}

// formatBlock formats a braced script one level deeper. A block that does
// not parse is kept as written.
func (ft *formater) formatBlock(w *ast.BracedWord) string {
	var p = parser.NewParser([]byte(w.Text), w.Position.Line)
	p.SetDebug(ft.debug)
	if err := p.Parse(); err != nil {
		return w.String()
	}
	if len(p.Commands()) == 0 && len(p.TrailingComments()) == 0 {
		return "{}"
	}

	ft.indentLevel += 1
	var inner = ft.formatCommands(p.Commands(), p.TrailingComments())
	ft.indentLevel -= 1
	return "{\n" + inner + ft.indent() + "}"
}

// endLine returns the line on which cmd ends, not counting line
// continuations.
func endLine(cmd *ast.Command) int {
	var last = cmd.Position.Line
	for _, w := range cmd.Words {
		if l := w.Pos().Line + strings.Count(w.String(), "\n"); l > last {
			last = l
		}
	}
	return last
}

func (ft *formater) indent() string {
	return strings.Repeat("\t", ft.indentLevel)
}

type Error struct {
	err error
}

func (i Error) Error() string {
	return i.err.Error()
}

func (ft *formater) newError(pos scanner.Position, f string, args ...any) error {
	var lines = scanner.MarkAt(ft.src, 1, pos, fmt.Sprintf(f, args...))
	return Error{fmt.Errorf("%s", strings.Join(lines, "\n"))}
}
