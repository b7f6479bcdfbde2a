package ast_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/siadat/tcldoc/syntax/ast"
)

func TestCommentStripped(tt *testing.T) {
	var testCases = []struct {
		text string
		want string
	}{
		{text: "# indented\n", want: "indented"},
		{text: "#tight", want: "tight"},
		{text: "### banner  \n", want: "banner  "},
		{text: "#  two spaces\r\n", want: " two spaces"},
		{text: "#\n", want: ""},
	}

	for _, tc := range testCases {
		var got = ast.Comment{Text: tc.text}.Stripped()
		if diff := cmp.Diff(tc.want, got); diff != "" {
			tt.Fatalf("text=%q (-want +got):\n%s", tc.text, diff)
		}
	}
}

func TestWords(tt *testing.T) {
	var testCases = []struct {
		word       ast.Word
		wantString string
		wantLit    string
		wantOk     bool
	}{
		{
			word:       &ast.UnquotedWord{Parts: []ast.Part{ast.Literal("ab"), ast.Literal("c")}},
			wantString: "abc",
			wantLit:    "abc",
			wantOk:     true,
		},
		{
			word:       &ast.UnquotedWord{Parts: []ast.Part{ast.Literal("a"), ast.VariableRef("x"), ast.CommandRef("list 1")}},
			wantString: "a$x[list 1]",
			wantOk:     false,
		},
		{
			word:       &ast.BracedWord{Text: " a {b} "},
			wantString: "{ a {b} }",
			wantLit:    " a {b} ",
			wantOk:     true,
		},
		{
			word:       &ast.UnquotedWord{},
			wantString: "",
			wantLit:    "",
			wantOk:     true,
		},
	}

	for _, tc := range testCases {
		if diff := cmp.Diff(tc.wantString, tc.word.String()); diff != "" {
			tt.Fatalf("(-want +got):\n%s", diff)
		}
		var lit, ok = tc.word.Literal()
		if diff := cmp.Diff(tc.wantOk, ok); diff != "" {
			tt.Fatalf("word %s (-want +got):\n%s", tc.word, diff)
		}
		if diff := cmp.Diff(tc.wantLit, lit); diff != "" {
			tt.Fatalf("word %s (-want +got):\n%s", tc.word, diff)
		}
	}
}

func TestCommand(tt *testing.T) {
	var cmd = &ast.Command{
		Words: []ast.Word{
			&ast.UnquotedWord{Parts: []ast.Part{ast.Literal("namespace")}},
			&ast.UnquotedWord{Parts: []ast.Part{ast.Literal("eval")}},
			&ast.UnquotedWord{Parts: []ast.Part{ast.Literal("ns")}},
			&ast.BracedWord{Text: "\n  proc a {} {}\n"},
		},
	}

	if diff := cmp.Diff("namespace eval ns {\n  proc a {} {}\n}", cmd.String()); diff != "" {
		tt.Fatalf("(-want +got):\n%s", diff)
	}
	var name, ok = cmd.Name()
	if !ok || name != "namespace" {
		tt.Fatalf("unexpected name %q, %v", name, ok)
	}
	if !cmd.IsCall("namespace", "eval") {
		tt.Fatalf("expected a namespace eval call")
	}
	if cmd.IsCall("namespace", "current") {
		tt.Fatalf("unexpected match")
	}
	if cmd.IsCall("namespace", "eval", "ns", "x", "y") {
		tt.Fatalf("unexpected match on a longer call")
	}

	var empty = &ast.Command{}
	if _, ok := empty.Name(); ok {
		tt.Fatalf("an empty command has no name")
	}
}
