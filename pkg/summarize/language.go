package summarize

import "github.com/pemistahl/lingua-go"

// LanguageDetector identifies the source language of extracted document text
// so non-English documents can be flagged in their summary output.
type LanguageDetector struct {
	detector lingua.LanguageDetector
}

// NewLanguageDetector builds a detector over the languages that plausibly
// appear in municipal records. Keeping the set small keeps model load cheap.
func NewLanguageDetector() *LanguageDetector {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(
			lingua.English,
			lingua.Spanish,
			lingua.French,
			lingua.German,
			lingua.Polish,
		).
		Build()
	return &LanguageDetector{detector: detector}
}

// Detect returns the display name of the detected language, or "Unknown" when
// the text gives no reliable signal.
func (d *LanguageDetector) Detect(text string) string {
	if lang, ok := d.detector.DetectLanguageOf(text); ok {
		return lang.String()
	}
	return "Unknown"
}

// IsEnglish reports whether text is detected as English. Undetectable text is
// treated as English so short or garbled documents are not flagged.
func (d *LanguageDetector) IsEnglish(text string) bool {
	lang, ok := d.detector.DetectLanguageOf(text)
	return !ok || lang == lingua.English
}
