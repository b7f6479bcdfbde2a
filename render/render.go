package render

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/siadat/tcldoc/docs"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkParser "github.com/yuin/goldmark/parser"
	"gopkg.in/yaml.v3"
)

const (
	FormatYAML     = "yaml"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

var Formats = []string{FormatYAML, FormatMarkdown, FormatHTML}

// Render writes reg to w in the named format.
func Render(w io.Writer, format string, reg *docs.Registry) error {
	switch format {
	case FormatYAML:
		return YAML(w, reg)
	case FormatMarkdown, "md":
		return Markdown(w, reg)
	case FormatHTML:
		return HTML(w, reg)
	default:
		return fmt.Errorf("unknown format %q, expected one of %s", format, strings.Join(Formats, ", "))
	}
}

type yamlDocument struct {
	Namespaces []yamlNamespace `yaml:"namespaces"`
}

type yamlNamespace struct {
	Path       string          `yaml:"path"`
	File       string          `yaml:"file,omitempty"`
	Line       int             `yaml:"line,omitempty"`
	Summary    string          `yaml:"summary,omitempty"`
	Doc        string          `yaml:"doc,omitempty"`
	Procedures []yamlProcedure `yaml:"procedures,omitempty"`
}

type yamlProcedure struct {
	Name    string     `yaml:"name"`
	Path    string     `yaml:"path"`
	File    string     `yaml:"file"`
	Line    int        `yaml:"line"`
	Args    []yamlArg  `yaml:"args,omitempty"`
	Summary string     `yaml:"summary,omitempty"`
	Doc     string     `yaml:"doc,omitempty"`
	Tags    []docs.Tag `yaml:"tags,omitempty"`
}

type yamlArg struct {
	Name    string  `yaml:"name"`
	Default *string `yaml:"default,omitempty"`
}

// documented returns the namespaces worth rendering: those defined in a
// file and those holding procedures.
func documented(reg *docs.Registry) []*docs.Namespace {
	var ret []*docs.Namespace
	for _, ns := range reg.Namespaces() {
		if ns.File != "" || len(ns.Procedures) > 0 {
			ret = append(ret, ns)
		}
	}
	return ret
}

func sortedProcedures(reg *docs.Registry, ns *docs.Namespace) []*docs.Procedure {
	var ret []*docs.Procedure
	for _, proc := range reg.Procedures() {
		if proc.Namespace == ns.Path {
			ret = append(ret, proc)
		}
	}
	return ret
}

func YAML(w io.Writer, reg *docs.Registry) error {
	var doc = yamlDocument{Namespaces: []yamlNamespace{}}
	for _, ns := range documented(reg) {
		var yns = yamlNamespace{
			Path:    ns.Path,
			File:    ns.File,
			Line:    ns.Position.Line,
			Summary: ns.Docstring.Summary,
			Doc:     ns.Docstring.Text,
		}
		for _, proc := range sortedProcedures(reg, ns) {
			var yproc = yamlProcedure{
				Name:    proc.Name,
				Path:    proc.Path,
				File:    proc.File,
				Line:    proc.Position.Line,
				Summary: proc.Docstring.Summary,
				Doc:     proc.Docstring.Text,
				Tags:    proc.Docstring.Tags,
			}
			for _, arg := range proc.Args {
				var yarg = yamlArg{Name: arg.Name}
				if arg.HasDefault {
					var def = arg.Default
					yarg.Default = &def
				}
				yproc.Args = append(yproc.Args, yarg)
			}
			yns.Procedures = append(yns.Procedures, yproc)
		}
		doc.Namespaces = append(doc.Namespaces, yns)
	}

	var enc = yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}

func Markdown(w io.Writer, reg *docs.Registry) error {
	var buf bytes.Buffer
	for i, ns := range documented(reg) {
		if i > 0 {
			buf.WriteString("\n")
		}
		fmt.Fprintf(&buf, "# Namespace `%s`\n\n", ns.Path)
		if ns.Docstring.Text != "" {
			fmt.Fprintf(&buf, "%s\n\n", ns.Docstring.Text)
		}
		if ns.File != "" {
			fmt.Fprintf(&buf, "Defined in `%s` line %d.\n\n", ns.File, ns.Position.Line)
		}

		for _, proc := range sortedProcedures(reg, ns) {
			writeProcedure(&buf, proc)
		}
	}
	var _, err = w.Write(bytes.TrimRight(buf.Bytes(), "\n"))
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

func writeProcedure(buf *bytes.Buffer, proc *docs.Procedure) {
	fmt.Fprintf(buf, "## `%s`\n\n", proc.Path)
	fmt.Fprintf(buf, "```tcl\nproc %s\n```\n\n", proc.Signature())
	if proc.Docstring.Text != "" {
		fmt.Fprintf(buf, "%s\n\n", proc.Docstring.Text)
	}

	var params = proc.Docstring.TagsNamed("param")
	if len(params) > 0 {
		buf.WriteString("**Parameters**\n\n")
		for _, tag := range params {
			var name, desc, _ = strings.Cut(tag.Text, " ")
			fmt.Fprintf(buf, "- `%s` %s\n", name, strings.TrimSpace(desc))
		}
		buf.WriteString("\n")
	}
	for _, tag := range proc.Docstring.TagsNamed("return") {
		fmt.Fprintf(buf, "**Returns** %s\n\n", tag.Text)
	}
	for _, tag := range proc.Docstring.Tags {
		if tag.Name == "param" || tag.Name == "return" {
			continue
		}
		fmt.Fprintf(buf, "**@%s** %s\n\n", tag.Name, tag.Text)
	}
	fmt.Fprintf(buf, "Defined in `%s` line %d.\n\n", proc.File, proc.Position.Line)
}

// HTML renders the Markdown output as a standalone page.
func HTML(w io.Writer, reg *docs.Registry) error {
	var md bytes.Buffer
	if err := Markdown(&md, reg); err != nil {
		return err
	}

	var converter = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(goldmarkParser.WithAutoHeadingID()),
	)
	var body bytes.Buffer
	if err := converter.Convert(md.Bytes(), &body); err != nil {
		return fmt.Errorf("converting markdown: %w", err)
	}

	var title = "Tcl documentation"
	if _, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n", html.EscapeString(title)); err != nil {
		return err
	}
	if _, err := w.Write(body.Bytes()); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</body>\n</html>\n")
	return err
}

// Supported reports whether format can be passed to Render.
func Supported(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return format == "md"
}
