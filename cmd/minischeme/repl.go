package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cellux/minischeme"
	"github.com/peterh/liner"
)

const banner = "minischeme REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit."

type prompter interface {
	Prompt(prompt string) (string, error)
}

// readInput collects lines until they form a complete expression or the
// reader reports an error other than truncated input.
func readInput(p prompter, prompt string, cont string) (string, error) {
	var sb strings.Builder
	for {
		current := prompt
		if sb.Len() > 0 {
			current = cont
		}
		line, err := p.Prompt(current)
		if err != nil {
			return "", err
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(line)
		src := sb.String()
		if _, err := minischeme.Read(src); !minischeme.IsIncomplete(err) {
			return src, nil
		}
	}
}

// evalInput evaluates one unit of input and prints its result or fault.
// It reports whether the session should end.
func evalInput(vm *minischeme.VM, src string, out io.Writer, errOut io.Writer) (quit bool) {
	trimmed := strings.TrimSpace(src)
	switch {
	case trimmed == "":
		return false
	case trimmed == ":quit":
		return true
	case strings.HasPrefix(trimmed, ":"):
		fmt.Fprintln(out, "unknown command. Type :quit to exit.")
		return false
	}
	form, err := minischeme.Read(src)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return false
	}
	if sym, ok := form.(*minischeme.Symbol); ok && sym.Name == "" {
		return false
	}
	result, err := vm.EvalGlobal(form)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return false
	}
	fmt.Fprintln(out, minischeme.Repr(result))
	return false
}

func repl(vm *minischeme.VM, cfg Config) int {
	fmt.Println(banner)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(cfg.HistoryFile); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(cfg.HistoryFile); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		src, err := readInput(ln, cfg.Prompt, cfg.ContinuePrompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
				return 1
			}
			fmt.Println()
			return 0
		}
		if strings.TrimSpace(src) != "" {
			ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		}
		if evalInput(vm, src, os.Stdout, os.Stderr) {
			return 0
		}
	}
}
