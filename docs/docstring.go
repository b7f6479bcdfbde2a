package docs

import (
	"regexp"
	"strings"

	"github.com/siadat/tcldoc/syntax/ast"
)

type Tag struct {
	Name string
	Text string
}

// Docstring is the documentation attached to an object through the comments
// right before its definition.
type Docstring struct {
	Summary string
	Text    string
	Tags    []Tag
}

var tagRe = regexp.MustCompile(`^@(\w+)\s*(.*)$`)

// ParseDocstring builds a docstring from comments. Lines starting with
// "@name" open a tag, and indented lines right after a tag continue it.
func ParseDocstring(comments []ast.Comment) Docstring {
	var doc Docstring
	var text []string
	var tag = -1

	for _, c := range comments {
		var line = c.Stripped()
		if m := tagRe.FindStringSubmatch(line); m != nil {
			doc.Tags = append(doc.Tags, Tag{Name: m[1], Text: strings.TrimSpace(m[2])})
			tag = len(doc.Tags) - 1
			continue
		}
		if tag >= 0 && strings.TrimSpace(line) != "" && (line[0] == ' ' || line[0] == '\t') {
			var t = &doc.Tags[tag]
			t.Text = strings.TrimSpace(t.Text + " " + strings.TrimSpace(line))
			continue
		}
		tag = -1
		text = append(text, strings.TrimRight(line, " \t"))
	}

	doc.Text = strings.TrimSpace(strings.Join(text, "\n"))

	var summary []string
	for _, line := range strings.Split(doc.Text, "\n") {
		if strings.TrimSpace(line) == "" {
			break
		}
		summary = append(summary, strings.TrimSpace(line))
	}
	doc.Summary = strings.Join(summary, " ")
	return doc
}

func (d Docstring) IsEmpty() bool {
	return d.Text == "" && len(d.Tags) == 0
}

// TagsNamed returns the tags called name, in source order.
func (d Docstring) TagsNamed(name string) []Tag {
	var tags []Tag
	for _, t := range d.Tags {
		if t.Name == name {
			tags = append(tags, t)
		}
	}
	return tags
}
