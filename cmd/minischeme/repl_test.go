package main

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/cellux/minischeme"
)

type scriptedPrompter struct {
	lines   []string
	prompts []string
}

func (p *scriptedPrompter) Prompt(prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	if len(p.lines) == 0 {
		return "", io.EOF
	}
	line := p.lines[0]
	p.lines = p.lines[1:]
	return line, nil
}

func TestReadInputJoinsContinuationLines(t *testing.T) {
	p := &scriptedPrompter{lines: []string{"(define (x", "  1)", "2)"}}
	src, err := readInput(p, "> ", ".. ")
	if err != nil {
		t.Fatal(err)
	}
	if src != "(define (x\n  1)\n2)" {
		t.Errorf("src = %q", src)
	}
	if len(p.prompts) != 3 || p.prompts[0] != "> " || p.prompts[1] != ".. " {
		t.Errorf("prompts = %q", p.prompts)
	}
}

func TestReadInputReturnsSyntaxErrorsImmediately(t *testing.T) {
	p := &scriptedPrompter{lines: []string{")", "ignored"}}
	src, err := readInput(p, "> ", ".. ")
	if err != nil || src != ")" {
		t.Errorf("readInput = %q, %v", src, err)
	}
}

func TestReadInputEOF(t *testing.T) {
	p := &scriptedPrompter{lines: []string{"(+ 1"}}
	if _, err := readInput(p, "> ", ".. "); !errors.Is(err, io.EOF) {
		t.Errorf("err = %v, want EOF", err)
	}
}

func TestEvalInput(t *testing.T) {
	vm, err := minischeme.NewVM(minischeme.WithOutput(io.Discard))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		src    string
		out    string
		errOut string
		quit   bool
	}{
		{"(+ 1 2)", "3\n", "", false},
		{"(define x 5)", "()\n", "", false},
		{"x", "5\n", "", false},
		{"[1, x]", "[1, x]\n", "", false},
		{"(car 1)", "", "Error: Type Error: Expected non-empty list, found integer\n", false},
		{"(f", "", "Error: Parser Error: Unmatched '('\n", false},
		{"x", "5\n", "", false},
		{"   ", "", "", false},
		{"; just a comment", "", "", false},
		{":help", "unknown command. Type :quit to exit.\n", "", false},
		{" :quit ", "", "", true},
	}
	for _, tt := range tests {
		var out, errOut bytes.Buffer
		quit := evalInput(vm, tt.src, &out, &errOut)
		if quit != tt.quit {
			t.Errorf("%q: quit = %v", tt.src, quit)
		}
		if out.String() != tt.out {
			t.Errorf("%q: out = %q, want %q", tt.src, out.String(), tt.out)
		}
		if errOut.String() != tt.errOut {
			t.Errorf("%q: errOut = %q, want %q", tt.src, errOut.String(), tt.errOut)
		}
	}
}
