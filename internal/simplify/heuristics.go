package simplify

import (
	"strings"
	"unicode"
)

// WordCount counts whitespace-separated tokens.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// HeuristicConfidence scores a result by how complete it is. Used when the
// model omits confidence_score or reports zero.
func HeuristicConfidence(res llmResult) float64 {
	score := 0.5
	if len(res.Summary) > 50 {
		score += 0.1
	}
	if len(res.KeyPoints) >= 3 {
		score += 0.15
	}
	if len(res.ImportantTerms) > 0 {
		score += 0.1
	}
	if len(res.DeadlinesObligations) > 0 {
		score += 0.05
	}
	if len(res.NextSteps) > 0 {
		score += 0.1
	}
	if score > 0.95 {
		score = 0.95
	}
	return score
}

// ReadingLevel bands the simplified text by average sentence length and
// average word length.
func ReadingLevel(text string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return "unknown"
	}

	sentences := 0
	for _, r := range text {
		if r == '.' || r == '!' || r == '?' {
			sentences++
		}
	}
	if sentences == 0 {
		sentences = 1
	}

	var letterCount int
	for _, word := range words {
		for _, r := range word {
			if unicode.IsLetter(r) {
				letterCount++
			}
		}
	}

	wordsPerSentence := float64(len(words)) / float64(sentences)
	lettersPerWord := float64(letterCount) / float64(len(words))

	switch {
	case wordsPerSentence < 12 && lettersPerWord < 4.5:
		return "elementary"
	case wordsPerSentence < 17 && lettersPerWord < 5.0:
		return "middle_school"
	case wordsPerSentence < 22 && lettersPerWord < 5.5:
		return "high_school"
	default:
		return "college"
	}
}

// simplifiedText concatenates the textual parts of a result for word counting
// and reading level estimation.
func simplifiedText(res llmResult) string {
	var b strings.Builder
	b.WriteString(res.Summary)
	for _, item := range res.KeyPoints {
		b.WriteString(" ")
		b.WriteString(item)
	}
	for _, definition := range res.ImportantTerms {
		b.WriteString(" ")
		b.WriteString(definition)
	}
	for _, item := range res.DeadlinesObligations {
		b.WriteString(" ")
		b.WriteString(item)
	}
	for _, item := range res.Warnings {
		b.WriteString(" ")
		b.WriteString(item)
	}
	for _, item := range res.NextSteps {
		b.WriteString(" ")
		b.WriteString(item)
	}
	return b.String()
}
