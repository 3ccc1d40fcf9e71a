package summarize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
)

// fakeGenerator counts calls and fails on a chosen call number (1-based).
type fakeGenerator struct {
	calls  int
	failOn int
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.calls++
	if f.failOn != 0 && f.calls == f.failOn {
		return "", errors.New("quota exceeded")
	}
	return fmt.Sprintf("summary %d", f.calls), nil
}

func newTestSummarizer(gen Generator, threshold int) *Summarizer {
	return &Summarizer{
		Gen:       gen,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Threshold: threshold,
	}
}

func TestSummarizeEmptyInput(t *testing.T) {
	gen := &fakeGenerator{}
	s := newTestSummarizer(gen, 100)

	got := s.Summarize(context.Background(), "")
	if got != EmptyInputMessage {
		t.Errorf("got %q, want %q", got, EmptyInputMessage)
	}
	if gen.calls != 0 {
		t.Errorf("expected no model calls for empty input, got %d", gen.calls)
	}
}

func TestSummarizeShortTextSingleCall(t *testing.T) {
	gen := &fakeGenerator{}
	s := newTestSummarizer(gen, 100)

	got := s.Summarize(context.Background(), "short minutes text")
	if gen.calls != 1 {
		t.Fatalf("expected 1 model call, got %d", gen.calls)
	}
	if got != "summary 1" {
		t.Errorf("got %q", got)
	}
}

func TestSummarizeLongTextMapReduce(t *testing.T) {
	gen := &fakeGenerator{}
	s := newTestSummarizer(gen, 30)

	// Three sentences of ~20 chars each: three chunks, then one combine call.
	text := strings.Repeat("a", 20) + "." + strings.Repeat("b", 20) + "." + strings.Repeat("c", 20)
	got := s.Summarize(context.Background(), text)

	if gen.calls != 4 {
		t.Fatalf("expected 3 chunk calls plus 1 combine call, got %d", gen.calls)
	}
	if got != "summary 4" {
		t.Errorf("result should come from the combine call, got %q", got)
	}
}

func TestSummarizeChunkFailureShortCircuits(t *testing.T) {
	gen := &fakeGenerator{failOn: 2}
	s := newTestSummarizer(gen, 30)

	text := strings.Repeat("a", 20) + "." + strings.Repeat("b", 20) + "." + strings.Repeat("c", 20)
	got := s.Summarize(context.Background(), text)

	if !strings.Contains(got, "part of the document") {
		t.Errorf("failure message should identify a partial failure, got %q", got)
	}
	if gen.calls != 2 {
		t.Errorf("expected short-circuit after the failing chunk, got %d calls", gen.calls)
	}
}

func TestSummarizeSingleCallFailure(t *testing.T) {
	gen := &fakeGenerator{failOn: 1}
	s := newTestSummarizer(gen, 100)

	got := s.Summarize(context.Background(), "short text")
	if !strings.Contains(got, "An error occurred while summarizing the document") {
		t.Errorf("got %q", got)
	}
}

func TestSummarizeCombineFailure(t *testing.T) {
	gen := &fakeGenerator{failOn: 4}
	s := newTestSummarizer(gen, 30)

	text := strings.Repeat("a", 20) + "." + strings.Repeat("b", 20) + "." + strings.Repeat("c", 20)
	got := s.Summarize(context.Background(), text)
	if !strings.Contains(got, "combining the partial summaries") {
		t.Errorf("got %q", got)
	}
}

func TestSummarizeWrapsOutput(t *testing.T) {
	gen := &longOutputGenerator{}
	s := newTestSummarizer(gen, 1000)

	got := s.Summarize(context.Background(), "text")
	for _, line := range strings.Split(got, "\n") {
		if len(line) > 80 {
			t.Errorf("line exceeds 80 characters: %d", len(line))
		}
	}
}

type longOutputGenerator struct{}

func (longOutputGenerator) Generate(context.Context, string) (string, error) {
	return strings.Repeat("word ", 60), nil
}
