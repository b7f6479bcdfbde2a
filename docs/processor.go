package docs

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/siadat/tcldoc/erroring"
	"github.com/siadat/tcldoc/syntax/ast"
	"github.com/siadat/tcldoc/syntax/parser"
	"github.com/siadat/tcldoc/syntax/scanner"
)

// State is what a handler knows about where a command appears.
type State struct {
	File      string
	Namespace *Namespace
}

// Handler turns commands into registry objects.
type Handler interface {
	Handles(cmd *ast.Command) bool
	Process(p *Processor, st State, cmd *ast.Command)
}

type Processor struct {
	registry *Registry
	handlers []Handler
	logger   *slog.Logger
	debug    bool
}

func NewProcessor(registry *Registry) *Processor {
	return &Processor{
		registry: registry,
		handlers: []Handler{ProcHandler{}, NamespaceHandler{}},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func (p *Processor) SetLogger(logger *slog.Logger) {
	p.logger = logger
}

func (p *Processor) SetDebug(v bool) {
	p.debug = v
}

// SetHandlers replaces the default proc and namespace handlers.
func (p *Processor) SetHandlers(handlers ...Handler) {
	p.handlers = handlers
}

func (p *Processor) Registry() *Registry {
	return p.registry
}

func (p *Processor) Logger() *slog.Logger {
	return p.logger
}

// ProcessFile parses src and registers what it defines. Objects registered
// before an error stay in the registry.
func (p *Processor) ProcessFile(name string, src []byte) error {
	var commands, err = p.parse(name, src, 1)
	if err != nil {
		return err
	}

	_, err = erroring.CallAndRecover[Error](func() struct{} {
		p.Process(State{File: name, Namespace: p.registry.Root}, commands)
		return struct{}{}
	})
	return err
}

// Process runs every matching handler on each command.
func (p *Processor) Process(st State, commands []*ast.Command) {
	for _, cmd := range commands {
		for _, h := range p.handlers {
			if h.Handles(cmd) {
				h.Process(p, st, cmd)
			}
		}
	}
}

// ParseBlock parses the text of a braced word as a script of its own, with
// line numbers continuing from the word.
func (p *Processor) ParseBlock(st State, w *ast.BracedWord) []*ast.Command {
	var commands, err = p.parse(st.File, []byte(w.Text), w.Position.Line)
	if err != nil {
		panic(Error{fmt.Errorf("block at %s:%s: %w", st.File, w.Position, err)})
	}
	return commands
}

func (p *Processor) parse(name string, src []byte, startLine int) ([]*ast.Command, error) {
	var ps = parser.NewParser(src, startLine)
	ps.SetName(name)
	ps.SetLogger(p.logger)
	ps.SetDebug(p.debug)
	if err := ps.Parse(); err != nil {
		return nil, err
	}
	return ps.Commands(), nil
}

type Error struct {
	err error
}

func (e Error) Error() string {
	return e.err.Error()
}

func (e Error) Unwrap() error {
	return e.err
}

func (p *Processor) newError(st State, pos scanner.Position, f string, args ...any) Error {
	return Error{fmt.Errorf("%s:%s: %s", st.File, pos, fmt.Sprintf(f, args...))}
}
