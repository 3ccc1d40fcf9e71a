package summarize

import (
	"context"
	"fmt"
	"log/slog"
)

// EmptyInputMessage is returned verbatim when there is nothing to summarize.
// No model call is made in that case.
const EmptyInputMessage = "Error: input text for summarization is empty."

const defaultLineWidth = 80

const partPrompt = `Please provide a detailed summary of the key points, decisions, and action items from the following meeting minutes text. Focus on the most important information a city resident would want to know:

%s`

const combinePrompt = `The following are partial summaries of sections of a single meeting's minutes. Combine them into one coherent summary of the key points, decisions, and action items, without repeating yourself:

%s`

// Summarizer produces a plain-text summary for one document. Failures are
// reported inside the returned string rather than as errors: a failed summary
// is still a result worth writing next to the document it came from.
type Summarizer struct {
	Gen       Generator
	Logger    *slog.Logger
	Threshold int // max characters per model call
	LineWidth int // output wrap width; 0 means 80
}

// Summarize returns the summary text for the given document text. The result
// is always non-empty: either wrapped model output or a human-readable
// failure message.
func (s *Summarizer) Summarize(ctx context.Context, text string) string {
	if text == "" {
		return EmptyInputMessage
	}

	width := s.LineWidth
	if width <= 0 {
		width = defaultLineWidth
	}

	if len(text) <= s.Threshold {
		out, err := s.Gen.Generate(ctx, fmt.Sprintf(partPrompt, text))
		if err != nil {
			s.Logger.Error("summarization failed", "error", err)
			return fmt.Sprintf("An error occurred while summarizing the document: %v", err)
		}
		return Wrap(out, width)
	}

	chunks := Chunk(text, s.Threshold)
	s.Logger.Info("document exceeds single-call threshold, chunking",
		"length", len(text), "chunks", len(chunks))

	partials := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		out, err := s.Gen.Generate(ctx, fmt.Sprintf(partPrompt, chunk))
		if err != nil {
			s.Logger.Error("chunk summarization failed", "chunk", i+1, "of", len(chunks), "error", err)
			return fmt.Sprintf("An error occurred while summarizing part of the document: %v", err)
		}
		partials = append(partials, out)
	}

	if len(partials) == 1 {
		return Wrap(partials[0], width)
	}

	joined := ""
	for i, p := range partials {
		if i > 0 {
			joined += "\n\n"
		}
		joined += p
	}
	combined, err := s.Gen.Generate(ctx, fmt.Sprintf(combinePrompt, joined))
	if err != nil {
		s.Logger.Error("combining partial summaries failed", "error", err)
		return fmt.Sprintf("An error occurred while combining the partial summaries: %v", err)
	}
	return Wrap(combined, width)
}
