// Package repl hosts the read-eval-print loop. On a terminal it uses a line
// editor with history; otherwise it reads plain lines so that piped input and
// tests behave the same way.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/funvibe/yinyang/internal/builtins"
	"github.com/funvibe/yinyang/internal/config"
	"github.com/funvibe/yinyang/internal/evaluator"
	"github.com/funvibe/yinyang/internal/reader"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
)

func red(s string) string  { return "\x1b[31m" + s + "\x1b[0m" }
func blue(s string) string { return "\x1b[94m" + s + "\x1b[0m" }

// REPL holds one session. Zero fields fall back to: config.Default(), a new
// evaluator, a builtins environment, os.Stdin, os.Stdout and os.Stderr.
type REPL struct {
	Config    *config.Config
	Evaluator *evaluator.Evaluator
	Env       *evaluator.Environment

	In  io.Reader
	Out io.Writer
	Err io.Writer

	color bool
}

// IsTerminal reports whether v is a file attached to a terminal.
func IsTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (r *REPL) setDefaults() {
	if r.Config == nil {
		r.Config = config.Default()
	}
	if r.Evaluator == nil {
		r.Evaluator = evaluator.New()
	}
	if r.Env == nil {
		r.Env = builtins.NewEnvironment(r.Evaluator)
	}
	if r.In == nil {
		r.In = os.Stdin
	}
	if r.Out == nil {
		r.Out = os.Stdout
	}
	if r.Err == nil {
		r.Err = os.Stderr
	}
}

// Run reads entries until end of input, the quit command, or ctx is done.
// Errors in an entry are reported and the loop continues; only a failure to
// read input is returned.
func (r *REPL) Run(ctx context.Context) error {
	r.setDefaults()
	cfg := r.Config

	// liner drives the process's own terminal, so it is only used when the
	// session is attached to it.
	interactive := r.In == io.Reader(os.Stdin) && IsTerminal(os.Stdin) && IsTerminal(r.Out)
	r.color = cfg.ColorEnabled() && IsTerminal(r.Out)

	var lines lineSource
	if interactive {
		lines = newLinerSource(cfg.HistoryPath())
	} else {
		lines = newScannerSource(r.In)
	}
	defer lines.Close()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		entry, err := readEntry(lines, cfg.Prompt, cfg.ContinuationPrompt)
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			continue
		case errors.Is(err, io.EOF):
			if strings.TrimSpace(entry) != "" {
				// Input ended inside a form; report what is left.
				r.evalEntry(entry)
			}
			if interactive {
				fmt.Fprintln(r.Out, "\nExiting REPL...")
			}
			return nil
		case err != nil:
			return fmt.Errorf("reading input: %w", err)
		}

		trimmed := strings.TrimSpace(entry)
		if trimmed == "" {
			continue
		}
		if trimmed == config.QuitCommand {
			return nil
		}
		lines.AppendHistory(strings.ReplaceAll(trimmed, "\n", " "))
		r.evalEntry(entry)
	}
}

// readEntry collects lines until they no longer end inside an open form. The
// partial entry is returned alongside any read error.
func readEntry(lines lineSource, prompt, cont string) (string, error) {
	var b strings.Builder
	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := lines.ReadLine(p)
		if err != nil {
			return b.String(), err
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if _, err := reader.ReadAll(b.String()); !reader.IsIncomplete(err) {
			return b.String(), nil
		}
	}
}

// evalEntry evaluates every form of one entry and prints each result. The
// first error stops the entry.
func (r *REPL) evalEntry(src string) {
	forms, err := reader.ReadAll(src)
	if err != nil {
		r.report("Parse error: ", err)
		return
	}
	for _, form := range forms {
		v, err := r.Evaluator.Eval(form, r.Env)
		if err != nil {
			r.report("Error: ", err)
			return
		}
		out := v.Inspect()
		if r.color {
			out = blue(out)
		}
		fmt.Fprintln(r.Out, out)
	}
}

func (r *REPL) report(prefix string, err error) {
	msg := prefix + err.Error()
	if r.color {
		msg = red(msg)
	}
	fmt.Fprintln(r.Err, msg)
}
