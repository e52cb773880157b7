package rule

import (
	"github.com/brianvoe/gofakeit/v6"
)

// TextGenerator produces generic filler text for random_text categories
// without a dedicated phrase set.
type TextGenerator interface {
	Sentence() string
}

// onboardingPhrases is the fixed phrase set for random_text("onboarding").
var onboardingPhrases = []string{
	"Complete user onboarding flow",
	"Setup initial workspace configuration",
	"First-time user experience improvements",
	"Onboarding checklist implementation",
}

// OnboardingPhrases returns a copy of the onboarding phrase set.
func OnboardingPhrases() []string {
	out := make([]string, len(onboardingPhrases))
	copy(out, onboardingPhrases)
	return out
}

// FakerText generates sentences with gofakeit.
type FakerText struct {
	faker *gofakeit.Faker
}

// NewFakerText creates a sentence generator. A zero seed picks a random one.
func NewFakerText(seed int64) *FakerText {
	return &FakerText{faker: gofakeit.New(seed)}
}

// Sentence returns a sentence of four to eight words.
func (f *FakerText) Sentence() string {
	return f.faker.Sentence(f.faker.Number(4, 8))
}
