package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func TestLinePrompter(t *testing.T) {
	var out bytes.Buffer
	p := NewLinePrompter(strings.NewReader("  aapl \n2024-01-01\nlast"), &out)

	answers := []string{"aapl", "2024-01-01", "last"}
	for _, want := range answers {
		got, err := p.Ask(context.Background(), "Question?")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
	if _, err := p.Ask(context.Background(), "Question?"); !errors.Is(err, ErrNoInput) {
		t.Errorf("expected ErrNoInput at EOF, got %v", err)
	}
	if strings.Count(out.String(), "Question?") != 4 {
		t.Errorf("expected every question echoed, got %q", out.String())
	}
}

func TestLinePrompter_CancelUnblocks(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	p := NewLinePrompter(r, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := p.Ask(ctx, "Waiting?")
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, ErrNoInput) {
			t.Errorf("expected ErrNoInput after cancel, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Ask stayed blocked after the context was cancelled")
	}
}

func TestScriptPrompter_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &ScriptPrompter{Answers: []string{"1"}}
	if _, err := p.Ask(ctx, "Pick"); !errors.Is(err, ErrNoInput) {
		t.Errorf("expected ErrNoInput, got %v", err)
	}
	if len(p.Answers) != 1 {
		t.Error("a cancelled prompt must not consume an answer")
	}
}

func TestScriptPrompter(t *testing.T) {
	p := &ScriptPrompter{Answers: []string{" 1 "}}
	got, err := p.Ask(context.Background(), "Pick")
	if err != nil || got != "1" {
		t.Fatalf("expected 1, got %q (%v)", got, err)
	}
	if _, err := p.Ask(context.Background(), "Again"); !errors.Is(err, ErrNoInput) {
		t.Errorf("expected ErrNoInput, got %v", err)
	}
	if len(p.Questions) != 2 {
		t.Errorf("expected 2 recorded questions, got %d", len(p.Questions))
	}
}

func TestOutput(t *testing.T) {
	var buf bytes.Buffer
	o := NewOutput(&buf)
	o.Warn("careful %d", 1)
	o.Error("broken")
	o.Success("done")
	s := buf.String()
	for _, want := range []string{"careful 1", "broken", "done"} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q: %q", want, s)
		}
	}
}
