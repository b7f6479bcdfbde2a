package parser

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/siadat/tcldoc/erroring"
	"github.com/siadat/tcldoc/syntax/ast"
	"github.com/siadat/tcldoc/syntax/scanner"
	"github.com/siadat/tcldoc/syntax/token"
)

var (
	ErrMissingClosingBrace    = errors.New("missing closing brace")
	ErrIncompleteParse        = scanner.ErrIncompleteParse
	ErrUnsupportedFeature     = errors.New("unsupported feature")
	ErrUnimplementedConstruct = errors.New("unimplemented construct")
)

const DefaultName = "(stdin)"

// Parser splits one unit of source into commands. A parser is single use:
// it only moves forward, and once it fails every later call returns the same
// error.
type Parser struct {
	scanner   *scanner.Scanner
	name      string
	startLine int
	logger    *slog.Logger
	debug     bool

	commands []*ast.Command
	trailing []ast.Comment
	err      error
}

type ParseError struct {
	Name     string
	Position scanner.Position
	Err      error
	Detail   []string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s:%s: %v", e.Name, e.Position, e.Err)
}

func (e ParseError) Unwrap() error {
	return e.Err
}

// NewParser returns a parser over src. startLine is the line number of the
// first line of src, for fragments cut out of a larger file.
func NewParser(src []byte, startLine int) *Parser {
	if startLine < 1 {
		startLine = 1
	}
	return &Parser{
		scanner:   scanner.NewScanner(src, startLine),
		name:      DefaultName,
		startLine: startLine,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func (p *Parser) SetName(name string) {
	p.name = name
}

func (p *Parser) SetLogger(logger *slog.Logger) {
	p.logger = logger
}

func (p *Parser) SetDebug(debug bool) {
	p.debug = debug
	p.scanner.SetDebug(debug)
}

// Pos returns the position of the cursor.
func (p *Parser) Pos() scanner.Position {
	return p.scanner.Pos()
}

// Commands returns the commands parsed so far, in source order.
func (p *Parser) Commands() []*ast.Command {
	return p.commands
}

// TrailingComments returns the comments found after the last command.
func (p *Parser) TrailingComments() []ast.Comment {
	return p.trailing
}

// Parse parses commands until the end of the input.
func (p *Parser) Parse() error {
	var _, err = guard(p, func() struct{} {
		for {
			var cmd = p.parseCommand()
			if cmd == nil {
				return struct{}{}
			}
			p.commands = append(p.commands, cmd)
		}
	})
	if err == nil {
		p.logger.Debug("parsed unit", "name", p.name, "commands", len(p.commands), "trailing_comments", len(p.trailing))
	}
	return err
}

// ParseCommand parses the next command. It returns nil at the end of the
// input.
func (p *Parser) ParseCommand() (*ast.Command, error) {
	return guard(p, p.parseCommand)
}

// ScanLeadingComments consumes blank lines and the contiguous comments that
// follow them.
func (p *Parser) ScanLeadingComments() ([]ast.Comment, error) {
	return guard(p, p.scanLeadingComments)
}

// ScanBracedWord scans a braced word. The cursor must be on a '{'.
func (p *Parser) ScanBracedWord() (*ast.BracedWord, error) {
	return guard(p, p.scanBracedWord)
}

// ScanUnquotedWord scans a bare word at the cursor.
func (p *Parser) ScanUnquotedWord() (*ast.UnquotedWord, error) {
	return guard(p, p.scanUnquotedWord)
}

func guard[T any](p *Parser, f func() T) (T, error) {
	if p.err != nil {
		var zero T
		return zero, p.err
	}
	var result, err = erroring.CallAndRecover[ParseError](f)
	if err != nil {
		p.err = err
	}
	return result, err
}

// ParseAll parses src and returns all of its commands.
func ParseAll(name string, src []byte, startLine int) ([]*ast.Command, error) {
	var p = NewParser(src, startLine)
	p.SetName(name)
	if err := p.Parse(); err != nil {
		return nil, err
	}
	return p.Commands(), nil
}

func (p *Parser) parseCommand() *ast.Command {
	var comments []ast.Comment
	for {
		comments = append(comments, p.scanLeadingComments()...)

		var cmd = &ast.Command{Comments: comments}
		for {
			p.consumeWhitespace()
			if p.scanner.Eof() {
				break
			}
			if token.Is(p.scanner.Peek(), token.COMMAND_END) {
				p.scanner.Advance()
				break
			}
			var word = p.parseWord()
			if len(cmd.Words) == 0 {
				cmd.Position = word.Pos()
			}
			cmd.Words = append(cmd.Words, word)
		}

		if len(cmd.Words) > 0 {
			p.logger.Debug("command", "name", p.name, "pos", cmd.Position.String(), "words", len(cmd.Words), "comments", len(cmd.Comments))
			return cmd
		}
		if p.scanner.Eof() {
			p.trailing = append(p.trailing, comments...)
			return nil
		}
		// an empty statement, e.g. a lone ';'
	}
}

func (p *Parser) parseWord() ast.Word {
	p.scanner.PrintCursor("[debug] word")
	switch p.scanner.Peek() {
	case '"':
		return p.scanQuotedWord()
	case '{':
		return p.scanBracedWord()
	default:
		return p.scanUnquotedWord()
	}
}

func (p *Parser) scanLeadingComments() []ast.Comment {
	var comments []ast.Comment
	for {
		p.consumeWhitespace()
		if !p.scanner.Eof() && p.scanner.Peek() == '\n' {
			p.scanner.Advance()
			continue
		}
		if p.scanner.Eof() || p.scanner.Peek() != '#' {
			return comments
		}

		var pos = p.scanner.Pos()
		p.scanner.SkipLine()
		comments = append(comments, ast.Comment{
			Text:     p.scanner.Slice(pos.Offset, p.scanner.Offset()),
			Position: pos,
		})
	}
}

func (p *Parser) scanBracedWord() *ast.BracedWord {
	var pos = p.scanner.Pos()
	if ch := p.scanner.Peek(); p.scanner.Eof() || ch != '{' {
		panic(p.newError(pos, fmt.Errorf("expected '{', got %q", ch)))
	}
	p.scanner.Advance()

	var start = p.scanner.Offset()
	var level = 1
	for {
		// Backslashes are not special here, so "\{" still nests.
		p.scanner.AdvanceWhile(token.BRACE)
		if p.scanner.Eof() {
			panic(p.newError(pos, ErrMissingClosingBrace))
		}

		switch p.scanner.Peek() {
		case '{':
			level += 1
		case '}':
			level -= 1
			if level == 0 {
				var text = p.scanner.Slice(start, p.scanner.Offset())
				p.scanner.Advance()
				return &ast.BracedWord{Text: text, Position: pos}
			}
		}
		p.scanner.Advance()
	}
}

func (p *Parser) scanUnquotedWord() *ast.UnquotedWord {
	var word = &ast.UnquotedWord{Position: p.scanner.Pos()}
	for !p.scanner.Eof() && !token.Is(p.scanner.Peek(), token.SPACE|token.COMMAND_END) {
		if !token.Is(p.scanner.Peek(), token.SUBS) {
			var start = p.scanner.Offset()
			p.scanner.AdvanceWhile(token.SPACE | token.COMMAND_END | token.SUBS)
			word.Parts = append(word.Parts, ast.Literal(p.scanner.Slice(start, p.scanner.Offset())))
			continue
		}

		switch p.scanner.Peek() {
		case '$':
			panic(p.newError(p.scanner.Pos(), fmt.Errorf("%w: variables not supported yet", ErrUnsupportedFeature)))
		case '[':
			panic(p.newError(p.scanner.Pos(), fmt.Errorf("%w: command substitution not supported yet", ErrUnsupportedFeature)))
		case '\\':
			if next, ok := p.scanner.PeekAt(1); ok && next == '\n' {
				// a line continuation separates words
				return word
			}
			panic(p.newError(p.scanner.Pos(), fmt.Errorf("%w: backslash substitution not supported yet", ErrUnsupportedFeature)))
		}
	}
	return word
}

func (p *Parser) scanQuotedWord() ast.Word {
	panic(p.newError(p.scanner.Pos(), fmt.Errorf("%w: quoted words are not supported", ErrUnimplementedConstruct)))
}

func (p *Parser) consumeWhitespace() int {
	var n, err = p.scanner.ConsumeWhitespace()
	if err != nil {
		panic(p.newError(p.scanner.Pos(), err))
	}
	return n
}

func (p *Parser) newError(pos scanner.Position, err error) ParseError {
	return ParseError{
		Name:     p.name,
		Position: pos,
		Err:      err,
		Detail:   scanner.MarkAt(p.scanner.Src(), p.startLine, pos, err.Error()),
	}
}
