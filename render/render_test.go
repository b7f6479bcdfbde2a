package render_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/siadat/tcldoc/docs"
	"github.com/siadat/tcldoc/render"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const src = `# Math helpers.
namespace eval math {
    # Adds two numbers.
    # @param a first operand
    # @param b second operand
    # @return the sum
    proc add {a {b 1}} {}
}

proc zeta {} {}
proc alpha {} {}
`

func registry(tt *testing.T) *docs.Registry {
	var reg = docs.NewRegistry()
	require.NoError(tt, docs.NewProcessor(reg).ProcessFile("math.tcl", []byte(src)))
	return reg
}

func TestYAML(tt *testing.T) {
	var buf bytes.Buffer
	require.NoError(tt, render.YAML(&buf, registry(tt)))

	var got struct {
		Namespaces []struct {
			Path       string `yaml:"path"`
			Summary    string `yaml:"summary"`
			Procedures []struct {
				Path string `yaml:"path"`
				Line int    `yaml:"line"`
				Args []struct {
					Name    string  `yaml:"name"`
					Default *string `yaml:"default"`
				} `yaml:"args"`
				Tags []struct {
					Name string `yaml:"name"`
					Text string `yaml:"text"`
				} `yaml:"tags"`
			} `yaml:"procedures"`
		} `yaml:"namespaces"`
	}
	require.NoError(tt, yaml.Unmarshal(buf.Bytes(), &got))

	require.Len(tt, got.Namespaces, 2)
	require.Equal(tt, "::", got.Namespaces[0].Path)
	require.Equal(tt, "::alpha", got.Namespaces[0].Procedures[0].Path)
	require.Equal(tt, "::zeta", got.Namespaces[0].Procedures[1].Path)

	var math = got.Namespaces[1]
	require.Equal(tt, "::math", math.Path)
	require.Equal(tt, "Math helpers.", math.Summary)
	require.Len(tt, math.Procedures, 1)

	var add = math.Procedures[0]
	require.Equal(tt, 7, add.Line)
	require.Len(tt, add.Args, 2)
	require.Nil(tt, add.Args[0].Default)
	require.NotNil(tt, add.Args[1].Default)
	require.Equal(tt, "1", *add.Args[1].Default)
	require.Len(tt, add.Tags, 3)
	require.Equal(tt, "return", add.Tags[2].Name)
}

func TestYAMLIsDeterministic(tt *testing.T) {
	var first, second bytes.Buffer
	require.NoError(tt, render.YAML(&first, registry(tt)))
	require.NoError(tt, render.YAML(&second, registry(tt)))
	require.Equal(tt, first.String(), second.String())
}

func TestMarkdown(tt *testing.T) {
	var buf bytes.Buffer
	require.NoError(tt, render.Markdown(&buf, registry(tt)))
	var got = buf.String()

	require.Contains(tt, got, "# Namespace `::math`\n\nMath helpers.\n")
	require.Contains(tt, got, "## `::math::add`\n\n```tcl\nproc add {a {b 1}}\n```\n")
	require.Contains(tt, got, "- `a` first operand\n- `b` second operand\n")
	require.Contains(tt, got, "**Returns** the sum\n")
	require.Contains(tt, got, "Defined in `math.tcl` line 7.\n")
	require.Less(tt, strings.Index(got, "::alpha"), strings.Index(got, "::zeta"))
	require.Less(tt, strings.Index(got, "::zeta"), strings.Index(got, "::math"))
	require.True(tt, strings.HasSuffix(got, ".\n"))
}

func TestHTML(tt *testing.T) {
	var buf bytes.Buffer
	require.NoError(tt, render.HTML(&buf, registry(tt)))
	var got = buf.String()

	require.True(tt, strings.HasPrefix(got, "<!DOCTYPE html>"))
	require.Contains(tt, got, "<code>::math::add</code>")
	require.Contains(tt, got, "<li><code>a</code> first operand</li>")
	require.Contains(tt, got, "<strong>Returns</strong> the sum")
	require.True(tt, strings.HasSuffix(got, "</html>\n"))
}

func TestRender(tt *testing.T) {
	var reg = registry(tt)
	for _, format := range render.Formats {
		var buf bytes.Buffer
		require.NoError(tt, render.Render(&buf, format, reg), format)
		require.NotEmpty(tt, buf.String(), format)
	}

	var buf bytes.Buffer
	require.ErrorContains(tt, render.Render(&buf, "pdf", reg), `unknown format "pdf"`)
}
