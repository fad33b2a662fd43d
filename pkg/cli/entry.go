package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/funvibe/yinyang/internal/builtins"
	"github.com/funvibe/yinyang/internal/config"
	"github.com/funvibe/yinyang/internal/edn"
	"github.com/funvibe/yinyang/internal/evaluator"
	"github.com/funvibe/yinyang/internal/pipeline"
	"github.com/funvibe/yinyang/internal/reader"
	"github.com/funvibe/yinyang/internal/repl"
)

// Exit codes
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// Main runs the command line and returns the process exit code.
func Main(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return run(ctx, args, wd, os.Stdin, os.Stdout, os.Stderr)
}

// session is everything one invocation evaluates against: the project
// config, a logger and the shared top-level environment.
type session struct {
	cfg    *config.Config
	logger *slog.Logger
	ev     *evaluator.Evaluator
	env    *evaluator.Environment

	stdout io.Writer
	stderr io.Writer
}

func run(ctx context.Context, args []string, dir string, stdin io.Reader, stdout, stderr io.Writer) int {
	// Host-only flags may appear anywhere.
	debugMode := false
	var rest []string
	for _, arg := range args {
		if arg == "-debug" || arg == "--debug" {
			debugMode = true
			continue
		}
		rest = append(rest, arg)
	}
	args = rest

	if len(args) > 0 {
		switch args[0] {
		case "-help", "--help", "-h", "help":
			printUsage(stdout)
			return exitOK
		case "version", "-version", "--version":
			fmt.Fprintf(stdout, "yinyang %s\n", config.Version)
			return exitOK
		}
	}

	s, err := newSession(dir, debugMode, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return exitError
	}
	if err := s.loadPrelude(); err != nil {
		s.report(err)
		return exitError
	}

	if len(args) == 0 {
		// Piped input is a script; a terminal gets the REPL.
		if repl.IsTerminal(stdin) {
			return s.handleRepl(ctx, stdin)
		}
		return s.handleStdin(stdin)
	}

	switch args[0] {
	case "repl":
		return s.handleRepl(ctx, stdin)
	case "eval", "-e":
		if len(args) < 2 {
			fmt.Fprintf(stderr, "Error: %s requires an expression argument\n", args[0])
			return exitUsage
		}
		return s.handleEval(strings.Join(args[1:], " "))
	case "run":
		if len(args) < 2 {
			fmt.Fprintln(stderr, "Usage: yinyang run <file>")
			return exitUsage
		}
		return s.handleRun(args[1])
	}

	if strings.HasPrefix(args[0], "-") {
		fmt.Fprintf(stderr, "Error: unknown flag %s\n", args[0])
		printUsage(stderr)
		return exitUsage
	}
	return s.handleRun(args[0])
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `yinyang %s

Usage:
  yinyang [-debug]                 Start the REPL, or run stdin when it is piped
  yinyang [-debug] <file>          Run a source file
  yinyang run <file>               Run a source file
  yinyang repl                     Start the REPL
  yinyang eval <expr>              Evaluate an expression and print the result
  yinyang version                  Print the version

Project settings are read from the nearest %s.
`, config.Version, config.ConfigFileNames[0])
}

func newSession(dir string, debugMode bool, stdout, stderr io.Writer) (*session, error) {
	cfg := config.Default()
	configPath, err := config.FindConfig(dir)
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		if cfg, err = config.LoadConfig(configPath); err != nil {
			return nil, err
		}
	}

	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if debugMode {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	if configPath != "" {
		logger.Debug("loaded config", "path", configPath)
	}

	ev := evaluator.New()
	ev.Out = stdout
	ev.Logger = logger
	if cfg.MaxDepth > 0 {
		ev.MaxDepth = cfg.MaxDepth
	}

	return &session{
		cfg:    cfg,
		logger: logger,
		ev:     ev,
		env:    builtins.NewEnvironment(ev),
		stdout: stdout,
		stderr: stderr,
	}, nil
}

// loadPrelude evaluates the configured prelude files, in order, into the
// shared environment.
func (s *session) loadPrelude() error {
	for _, path := range s.cfg.Prelude {
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading prelude: %w", err)
		}
		if _, err := s.evalSource(string(src), path); err != nil {
			return err
		}
		s.logger.Debug("loaded prelude", "path", path)
	}
	return nil
}

// evalSource runs source through the reader and evaluator stages against the
// session environment and returns the value of the last form.
func (s *session) evalSource(source, filePath string) (evaluator.Value, error) {
	ctx := &pipeline.PipelineContext{
		SourceCode: source,
		FilePath:   filePath,
		Env:        s.env,
	}
	processingPipeline := pipeline.New(
		&reader.ReaderProcessor{Logger: s.logger},
		&evaluator.EvaluatorProcessor{Evaluator: s.ev},
	)
	finalContext := processingPipeline.Run(ctx)
	if finalContext.Failed() {
		return nil, errors.Join(finalContext.Errors...)
	}
	result, _ := finalContext.Result.(evaluator.Value)
	if result == nil {
		result = evaluator.NilValue
	}
	return result, nil
}

// report prints err the way the REPL does.
func (s *session) report(err error) {
	var perr *reader.ParseError
	if errors.As(err, &perr) {
		fmt.Fprintf(s.stderr, "Parse error: %s\n", err)
		return
	}
	fmt.Fprintf(s.stderr, "Error: %s\n", err)
}

// printResult echoes a script's final value unless it is nil.
func (s *session) printResult(v evaluator.Value) {
	if d, ok := v.(*evaluator.EDN); ok {
		if _, isNil := d.Node.(*edn.Nil); isNil {
			return
		}
	}
	fmt.Fprintln(s.stdout, v.Inspect())
}

func (s *session) handleRun(path string) int {
	sourceCode, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(s.stderr, "Error reading file '%s': %s\n", path, err)
		return exitError
	}
	if !config.IsSourceFile(path) {
		s.logger.Warn("unrecognized source extension", "path", path)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	result, err := s.evalSource(string(sourceCode), absPath)
	if err != nil {
		s.report(err)
		return exitError
	}
	s.printResult(result)
	return exitOK
}

func (s *session) handleStdin(stdin io.Reader) int {
	data, err := io.ReadAll(stdin)
	if err != nil {
		fmt.Fprintf(s.stderr, "Error reading stdin: %s\n", err)
		return exitError
	}
	if strings.TrimSpace(string(data)) == "" {
		return exitOK
	}
	result, err := s.evalSource(string(data), "")
	if err != nil {
		s.report(err)
		return exitError
	}
	s.printResult(result)
	return exitOK
}

// handleEval always prints the result, nil included.
func (s *session) handleEval(expression string) int {
	result, err := s.evalSource(expression, "")
	if err != nil {
		s.report(err)
		return exitError
	}
	fmt.Fprintln(s.stdout, result.Inspect())
	return exitOK
}

func (s *session) handleRepl(ctx context.Context, stdin io.Reader) int {
	if repl.IsTerminal(stdin) {
		fmt.Fprintf(s.stdout, "yinyang %s (type %s to exit)\n", config.Version, config.QuitCommand)
	}
	r := &repl.REPL{
		Config:    s.cfg,
		Evaluator: s.ev,
		Env:       s.env,
		In:        stdin,
		Out:       s.stdout,
		Err:       s.stderr,
	}
	if err := r.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(s.stderr, "Error: %s\n", err)
		return exitError
	}
	return exitOK
}
