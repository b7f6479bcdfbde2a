package docs

import (
	"sort"
	"strings"

	"github.com/siadat/tcldoc/syntax/scanner"
)

const rootPath = "::"

// Registry is the tree of documented objects, rooted at the global
// namespace "::".
type Registry struct {
	Root *Namespace
}

func NewRegistry() *Registry {
	return &Registry{Root: &Namespace{Path: rootPath}}
}

type Namespace struct {
	Name       string
	Path       string
	Docstring  Docstring
	Position   scanner.Position
	File       string
	Namespaces []*Namespace
	Procedures []*Procedure
}

type Procedure struct {
	Name      string
	Path      string
	Namespace string
	Args      []Argument
	Body      string
	Docstring Docstring
	Position  scanner.Position
	File      string
}

type Argument struct {
	Name       string
	Default    string
	HasDefault bool
}

func (a Argument) String() string {
	if a.HasDefault {
		return "{" + a.Name + " " + a.Default + "}"
	}
	return a.Name
}

// Signature returns the argument list the way it would be written in the
// proc definition.
func (p *Procedure) Signature() string {
	var args = make([]string, len(p.Args))
	for i, arg := range p.Args {
		args[i] = arg.String()
	}
	return p.Name + " {" + strings.Join(args, " ") + "}"
}

func joinPath(parent, name string) string {
	if parent == rootPath {
		return rootPath + name
	}
	return parent + "::" + name
}

func (ns *Namespace) child(name string) *Namespace {
	for _, child := range ns.Namespaces {
		if child.Name == name {
			return child
		}
	}
	var child = &Namespace{Name: name, Path: joinPath(ns.Path, name)}
	ns.Namespaces = append(ns.Namespaces, child)
	return child
}

// addProcedure stores proc, replacing a procedure with the same name. It
// reports whether one was replaced.
func (ns *Namespace) addProcedure(proc *Procedure) bool {
	for i, existing := range ns.Procedures {
		if existing.Name == proc.Name {
			ns.Procedures[i] = proc
			return true
		}
	}
	ns.Procedures = append(ns.Procedures, proc)
	return false
}

// resolve splits a possibly qualified name into the namespace that holds it
// and its last segment, creating the namespaces on the way. Names starting
// with "::" are resolved from the root, the others from current.
func (r *Registry) resolve(current *Namespace, qualified string) (*Namespace, string) {
	var ns = current
	if strings.HasPrefix(qualified, "::") {
		ns = r.Root
	}

	var segments []string
	for _, s := range strings.Split(qualified, "::") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) == 0 {
		return ns, ""
	}
	for _, s := range segments[:len(segments)-1] {
		ns = ns.child(s)
	}
	return ns, segments[len(segments)-1]
}

// Namespace looks up a namespace by its absolute path.
func (r *Registry) Namespace(path string) *Namespace {
	for _, ns := range r.Namespaces() {
		if ns.Path == path {
			return ns
		}
	}
	return nil
}

// Procedure looks up a procedure by its absolute path.
func (r *Registry) Procedure(path string) *Procedure {
	for _, proc := range r.Procedures() {
		if proc.Path == path {
			return proc
		}
	}
	return nil
}

// Namespaces returns every namespace, the root included, sorted by path.
func (r *Registry) Namespaces() []*Namespace {
	var all []*Namespace
	var walk func(ns *Namespace)
	walk = func(ns *Namespace) {
		all = append(all, ns)
		for _, child := range ns.Namespaces {
			walk(child)
		}
	}
	walk(r.Root)
	sort.Slice(all, func(i, j int) bool { return all[i].Path < all[j].Path })
	return all
}

// Procedures returns every procedure sorted by path.
func (r *Registry) Procedures() []*Procedure {
	var all []*Procedure
	for _, ns := range r.Namespaces() {
		all = append(all, ns.Procedures...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Path < all[j].Path })
	return all
}
