package docs

import (
	"strings"

	"github.com/siadat/tcldoc/syntax/ast"
	"github.com/siadat/tcldoc/syntax/parser"
)

// simpleName returns the text of w when it is a bare word with no
// substitutions.
func simpleName(w ast.Word) (string, bool) {
	var uw, ok = w.(*ast.UnquotedWord)
	if !ok {
		return "", false
	}
	return uw.Literal()
}

// ProcHandler registers "proc name args body".
type ProcHandler struct{}

func (ProcHandler) Handles(cmd *ast.Command) bool {
	if !cmd.IsCall("proc") || len(cmd.Words) != 4 {
		return false
	}
	var _, ok = simpleName(cmd.Words[1])
	return ok
}

func (ProcHandler) Process(p *Processor, st State, cmd *ast.Command) {
	var qualified, _ = simpleName(cmd.Words[1])
	var ns, name = p.registry.resolve(st.Namespace, qualified)
	if name == "" {
		panic(p.newError(st, cmd.Position, "invalid procedure name %q", qualified))
	}

	var body, _ = cmd.Words[3].Literal()
	var proc = &Procedure{
		Name:      name,
		Path:      joinPath(ns.Path, name),
		Namespace: ns.Path,
		Args:      parseArgs(p, st, cmd.Words[2]),
		Body:      body,
		Docstring: ParseDocstring(cmd.Comments),
		Position:  cmd.Position,
		File:      st.File,
	}
	if ns.addProcedure(proc) {
		p.logger.Debug("redefined procedure", "path", proc.Path, "file", st.File, "line", proc.Position.Line)
	} else {
		p.logger.Debug("registered procedure", "path", proc.Path, "file", st.File, "line", proc.Position.Line)
	}
}

// parseArgs reads a proc argument list. Each element is a name or a
// {name default} pair. A list that does not parse is kept as one argument
// holding the raw text.
func parseArgs(p *Processor, st State, w ast.Word) []Argument {
	var text, ok = w.Literal()
	if !ok {
		text = w.String()
	}
	var raw = []Argument{{Name: strings.TrimSpace(text)}}

	var elements, err = parseList(text, w.Pos().Line)
	if err != nil {
		p.logger.Warn("cannot parse argument list", "file", st.File, "pos", w.Pos().String(), "err", err)
		return raw
	}

	var args []Argument
	for _, elem := range elements {
		switch elem := elem.(type) {
		case *ast.BracedWord:
			var pair, err = parseList(elem.Text, elem.Position.Line)
			if err != nil || len(pair) == 0 || len(pair) > 2 {
				p.logger.Warn("cannot parse argument", "file", st.File, "pos", elem.Position.String(), "text", elem.Text)
				return raw
			}
			var arg Argument
			arg.Name, _ = pair[0].Literal()
			if len(pair) == 2 {
				arg.Default, _ = pair[1].Literal()
				arg.HasDefault = true
			}
			args = append(args, arg)
		default:
			var name, _ = elem.Literal()
			args = append(args, Argument{Name: name})
		}
	}
	return args
}

// parseList splits text into words, ignoring line boundaries.
func parseList(text string, line int) ([]ast.Word, error) {
	var commands, err = parser.ParseAll("(list)", []byte(text), line)
	if err != nil {
		return nil, err
	}
	var words []ast.Word
	for _, cmd := range commands {
		words = append(words, cmd.Words...)
	}
	return words, nil
}

// NamespaceHandler registers "namespace eval name body" and processes the
// braced bodies inside the namespace.
type NamespaceHandler struct{}

func (NamespaceHandler) Handles(cmd *ast.Command) bool {
	if !cmd.IsCall("namespace", "eval") || len(cmd.Words) < 4 {
		return false
	}
	var _, ok = simpleName(cmd.Words[2])
	return ok
}

func (NamespaceHandler) Process(p *Processor, st State, cmd *ast.Command) {
	var qualified, _ = simpleName(cmd.Words[2])
	var parent, name = p.registry.resolve(st.Namespace, qualified)
	var ns = parent
	if name != "" {
		ns = parent.child(name)
	}

	if ns.File == "" {
		ns.File = st.File
		ns.Position = cmd.Position
	}
	if ns.Docstring.IsEmpty() {
		ns.Docstring = ParseDocstring(cmd.Comments)
	}
	p.logger.Debug("registered namespace", "path", ns.Path, "file", st.File, "line", cmd.Position.Line)

	var nested = State{File: st.File, Namespace: ns}
	for _, w := range cmd.Words[3:] {
		var block, ok = w.(*ast.BracedWord)
		if !ok {
			p.logger.Debug("skipping namespace body", "path", ns.Path, "pos", w.Pos().String(), "word", w.String())
			continue
		}
		p.Process(nested, p.ParseBlock(nested, block))
	}
}
