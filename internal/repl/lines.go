package repl

import (
	"bufio"
	"io"
	"os"

	"github.com/peterh/liner"
)

// lineSource yields one line of input per call, without the newline.
type lineSource interface {
	ReadLine(prompt string) (string, error)
	AppendHistory(entry string)
	Close() error
}

// scannerSource reads piped input. It prints no prompts.
type scannerSource struct {
	sc *bufio.Scanner
}

func newScannerSource(in io.Reader) *scannerSource {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &scannerSource{sc: sc}
}

func (s *scannerSource) ReadLine(string) (string, error) {
	if s.sc.Scan() {
		return s.sc.Text(), nil
	}
	if err := s.sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (s *scannerSource) AppendHistory(string) {}
func (s *scannerSource) Close() error         { return nil }

// linerSource edits lines on the terminal and keeps history in historyPath
// when it is set.
type linerSource struct {
	state       *liner.State
	historyPath string
}

func newLinerSource(historyPath string) *linerSource {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	state.SetMultiLineMode(true)

	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = state.ReadHistory(f)
			_ = f.Close()
		}
	}
	return &linerSource{state: state, historyPath: historyPath}
}

func (l *linerSource) ReadLine(prompt string) (string, error) {
	return l.state.Prompt(prompt)
}

func (l *linerSource) AppendHistory(entry string) {
	l.state.AppendHistory(entry)
}

func (l *linerSource) Close() error {
	if l.historyPath != "" {
		if f, err := os.Create(l.historyPath); err == nil {
			_, _ = l.state.WriteHistory(f)
			_ = f.Close()
		}
	}
	return l.state.Close()
}
