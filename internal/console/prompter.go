// Package console is the input/output boundary of the interactive session.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/mattn/go-isatty"
)

// ErrNoInput is returned when input is exhausted or the user interrupts a prompt.
var ErrNoInput = errors.New("no more input")

// Prompter asks a single question and returns the trimmed answer. A cancelled
// context ends the prompt with ErrNoInput.
type Prompter interface {
	Ask(ctx context.Context, message string) (string, error)
}

// SurveyPrompter asks through survey on an interactive terminal.
type SurveyPrompter struct {
	opts []survey.AskOpt
}

func NewSurveyPrompter(opts ...survey.AskOpt) *SurveyPrompter {
	return &SurveyPrompter{opts: opts}
}

// Ask runs one survey input. The terminal is in raw mode while it waits, so
// Ctrl-C arrives as terminal.InterruptErr rather than a signal.
func (p *SurveyPrompter) Ask(ctx context.Context, message string) (string, error) {
	if ctx.Err() != nil {
		return "", ErrNoInput
	}
	var answer string
	err := survey.AskOne(&survey.Input{Message: message}, &answer, p.opts...)
	if err != nil {
		if errors.Is(err, terminal.InterruptErr) || errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

type lineResult struct {
	line string
	err  error
}

// LinePrompter reads one line per question; used for pipes, scripts and tests.
// Reads happen on a single background goroutine so a cancelled context can
// end a prompt that is blocked on input.
type LinePrompter struct {
	in    *bufio.Reader
	out   io.Writer
	once  sync.Once
	lines chan lineResult
}

func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out, lines: make(chan lineResult)}
}

func (p *LinePrompter) readLoop() {
	for {
		line, err := p.in.ReadString('\n')
		p.lines <- lineResult{line: line, err: err}
		if err != nil {
			close(p.lines)
			return
		}
	}
}

func (p *LinePrompter) Ask(ctx context.Context, message string) (string, error) {
	p.once.Do(func() { go p.readLoop() })
	fmt.Fprintf(p.out, "%s ", message)

	var res lineResult
	select {
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return "", ErrNoInput
	case r, ok := <-p.lines:
		if !ok {
			fmt.Fprintln(p.out)
			return "", ErrNoInput
		}
		res = r
	}

	if res.err != nil {
		fmt.Fprintln(p.out)
		if errors.Is(res.err, io.EOF) {
			if res.line != "" {
				return strings.TrimSpace(res.line), nil
			}
			return "", ErrNoInput
		}
		return "", res.err
	}
	return strings.TrimSpace(res.line), nil
}

// ScriptPrompter replays canned answers and records the questions asked.
type ScriptPrompter struct {
	Answers   []string
	Questions []string
}

func (p *ScriptPrompter) Ask(ctx context.Context, message string) (string, error) {
	p.Questions = append(p.Questions, message)
	if ctx.Err() != nil || len(p.Answers) == 0 {
		return "", ErrNoInput
	}
	answer := p.Answers[0]
	p.Answers = p.Answers[1:]
	return strings.TrimSpace(answer), nil
}

// NewPrompter picks survey when both ends are terminals, plain lines otherwise.
func NewPrompter(in *os.File, out *os.File) Prompter {
	if isatty.IsTerminal(in.Fd()) && isatty.IsTerminal(out.Fd()) {
		return NewSurveyPrompter(survey.WithStdio(in, out, os.Stderr))
	}
	return NewLinePrompter(in, out)
}
