package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func runIn(t *testing.T, dir, stdin string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run(context.Background(), args, dir, strings.NewReader(stdin), &out, &errOut)
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_Commands(t *testing.T) {
	tests := []struct {
		name       string
		stdin      string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"version", "", []string{"version"}, exitOK, "yinyang 0.3.0\n", ""},
		{"eval", "", []string{"eval", "(+ 1 2)"}, exitOK, "3\n", ""},
		{"eval joins its arguments", "", []string{"-e", "(+", "1", "2)"}, exitOK, "3\n", ""},
		{"eval prints nil", "", []string{"eval", "nil"}, exitOK, "nil\n", ""},
		{"eval error", "", []string{"eval", "(nope)"}, exitError, "", "Error: Undefined symbol: nope\n"},
		{"eval without expression", "", []string{"eval"}, exitUsage, "", "Error: eval requires an expression argument\n"},
		{"run without file", "", []string{"run"}, exitUsage, "", "Usage: yinyang run <file>\n"},
		{"piped stdin", "(def x 6)\n(* x 7)\n", nil, exitOK, "42\n", ""},
		{"empty stdin", "  \n", nil, exitOK, "", ""},
		{"repl subcommand", "1\n(+ 1 1)\n", []string{"repl"}, exitOK, "1\n2\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := runIn(t, t.TempDir(), tt.stdin, tt.args...)
			if got.code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (stderr %q)", got.code, tt.wantCode, got.stderr)
			}
			if got.stdout != tt.wantStdout {
				t.Errorf("stdout = %q, want %q", got.stdout, tt.wantStdout)
			}
			if got.stderr != tt.wantStderr {
				t.Errorf("stderr = %q, want %q", got.stderr, tt.wantStderr)
			}
		})
	}
}

func TestRun_Help(t *testing.T) {
	got := runIn(t, t.TempDir(), "", "--help")
	if got.code != exitOK || !strings.Contains(got.stdout, "Usage:") {
		t.Errorf("help = %+v", got)
	}

	got = runIn(t, t.TempDir(), "", "--bogus")
	if got.code != exitUsage || !strings.Contains(got.stderr, "unknown flag --bogus") {
		t.Errorf("unknown flag = %+v", got)
	}
}

func TestRun_ParseErrorReport(t *testing.T) {
	got := runIn(t, t.TempDir(), "", "eval", "(1 2")
	if got.code != exitError {
		t.Errorf("exit code = %d", got.code)
	}
	if !strings.HasPrefix(got.stderr, "Parse error: ") {
		t.Errorf("stderr = %q", got.stderr)
	}
}

func TestRun_File(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "main.clj", "(def x 20)\n(prn :hi)\n(+ x 1)\n")
	quiet := writeFile(t, dir, "quiet.clj", "(println \"only output\")\n")

	got := runIn(t, dir, "", script)
	if got.code != exitOK || got.stdout != ":hi\n21\n" {
		t.Errorf("run = %+v", got)
	}

	got = runIn(t, dir, "", "run", quiet)
	if got.code != exitOK || got.stdout != "only output\n" {
		t.Errorf("nil result should not be echoed: %+v", got)
	}

	got = runIn(t, dir, "", filepath.Join(dir, "missing.clj"))
	if got.code != exitError || !strings.Contains(got.stderr, "Error reading file") {
		t.Errorf("missing file = %+v", got)
	}
}

func TestRun_FileErrorNamesPath(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "broken.clj", "(+ 1 :a)")

	got := runIn(t, dir, "", script)
	if got.code != exitError {
		t.Errorf("exit code = %d", got.code)
	}
	if !strings.HasPrefix(got.stderr, "Error: ") || !strings.Contains(got.stderr, "broken.clj") {
		t.Errorf("stderr = %q", got.stderr)
	}
}

func TestRun_ConfigPrelude(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "yinyang.yaml", "prelude:\n  - lib/prelude.clj\n")
	if err := os.Mkdir(filepath.Join(dir, "lib"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "lib"), "prelude.clj", "(def answer 42)\n(def double (fn [x] (* 2 x)))\n")

	sub := filepath.Join(dir, "nested", "deeper")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	got := runIn(t, sub, "", "eval", "(double answer)")
	if got.code != exitOK || got.stdout != "84\n" {
		t.Errorf("prelude not loaded: %+v", got)
	}
}

func TestRun_ConfigErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "yinyang.yaml", "log_level: loud\n")
	got := runIn(t, dir, "", "eval", "1")
	if got.code != exitError || !strings.Contains(got.stderr, "unknown log_level") {
		t.Errorf("bad config = %+v", got)
	}

	dir = t.TempDir()
	writeFile(t, dir, "yinyang.yaml", "prelude:\n  - missing.clj\n")
	got = runIn(t, dir, "", "eval", "1")
	if got.code != exitError || !strings.Contains(got.stderr, "reading prelude") {
		t.Errorf("missing prelude = %+v", got)
	}
}

func TestRun_ConfigMaxDepth(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "yinyang.yaml", "max_depth: 5\n")

	got := runIn(t, dir, "", "eval", "(do (do (do (do (do (do (do 1)))))))")
	if got.code != exitError || !strings.Contains(got.stderr, "maximum recursion depth") {
		t.Errorf("depth limit not applied: %+v", got)
	}
}

func TestRun_DebugLogging(t *testing.T) {
	got := runIn(t, t.TempDir(), "", "-debug", "eval", "(+ 1 1)")
	if got.code != exitOK || got.stdout != "2\n" {
		t.Errorf("eval = %+v", got)
	}
	for _, want := range []string{"level=DEBUG", "read source", "call native"} {
		if !strings.Contains(got.stderr, want) {
			t.Errorf("stderr missing %q: %q", want, got.stderr)
		}
	}

	got = runIn(t, t.TempDir(), "", "eval", "(+ 1 1)")
	if got.stderr != "" {
		t.Errorf("default level should be quiet, got %q", got.stderr)
	}
}
