package testutil

// FixedText is a text generator that always returns the same sentence.
//
// It replaces the faker-backed generator wherever a test compares
// random_text output for non-onboarding categories.
type FixedText struct {
	sentence string
}

// NewFixedText returns a FixedText. An empty sentence defaults to
// "Lorem ipsum dolor sit amet.".
func NewFixedText(sentence string) *FixedText {
	if sentence == "" {
		sentence = "Lorem ipsum dolor sit amet."
	}
	return &FixedText{sentence: sentence}
}

// Sentence implements rule.TextGenerator.
func (f *FixedText) Sentence() string {
	return f.sentence
}
