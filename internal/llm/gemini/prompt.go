package gemini

import (
	"fmt"
	"strings"
)

var levelInstructions = map[string]string{
	"basic":    "Use very simple language suitable for a 12-year-old. Keep the summary short and avoid any legal terminology.",
	"standard": "Use plain language suitable for an average adult reader. Explain legal terms in parentheses when they must be kept.",
	"detailed": "Preserve important legal nuance while still writing in plain language. Include relevant context and conditions.",
}

var audienceInstructions = map[string]string{
	"general_public":  "Write for a general audience with no legal background.",
	"business_owners": "Write for a small business owner; highlight commercial obligations, liabilities and costs.",
	"individuals":     "Write for a private individual; highlight personal rights, obligations and risks.",
	"students":        "Write for a student learning about legal documents; briefly explain the purpose of each clause type.",
}

const responseSchema = `{
  "summary": "2-3 sentence plain language overview of the document",
  "key_points": ["list of the most important points"],
  "important_terms": {"legal term": "plain language definition"},
  "deadlines_obligations": ["deadlines and obligations with dates where stated"],
  "warnings": ["penalties, risks and consequences the reader must know"],
  "next_steps": ["recommended actions for the reader"],
  "confidence_score": 0.0
}`

// BuildSimplifyPrompt renders the full simplification prompt for one document.
func BuildSimplifyPrompt(level, audience, documentText string) string {
	levelText, ok := levelInstructions[level]
	if !ok {
		levelText = levelInstructions["standard"]
	}
	audienceText, ok := audienceInstructions[audience]
	if !ok {
		audienceText = audienceInstructions["general_public"]
	}

	var b strings.Builder
	b.WriteString("You are a legal document simplification assistant. ")
	b.WriteString("Rewrite the legal document below into plain language that a non-lawyer can understand.\n\n")
	b.WriteString("Simplification level: ")
	b.WriteString(levelText)
	b.WriteString("\nTarget audience: ")
	b.WriteString(audienceText)
	b.WriteString("\n\nRespond with ONLY a JSON object matching this exact structure, with no markdown fences and no text outside the JSON:\n")
	b.WriteString(responseSchema)
	b.WriteString("\n\nSet confidence_score between 0.0 and 1.0 to reflect how confident you are in the simplification.\n")
	b.WriteString("\nDOCUMENT:\n")
	b.WriteString(documentText)
	return b.String()
}

// BuildFixPrompt asks the model to repair malformed JSON from a previous turn.
func BuildFixPrompt(raw string) string {
	return fmt.Sprintf(`The following text was supposed to be a JSON object with the fields summary, key_points, important_terms, deadlines_obligations, warnings, next_steps and confidence_score, but it is not valid JSON. Return the corrected JSON object only, with no markdown fences and no text outside the JSON.

%s`, raw)
}

// BuildQuestionPrompt renders a grounded Q&A prompt over one document.
func BuildQuestionPrompt(documentText, question string) string {
	var b strings.Builder
	b.WriteString("You are a legal document assistant. Answer the question using only the document below. ")
	b.WriteString("Use plain language. If the document does not contain the answer, say so explicitly.\n\n")
	b.WriteString("DOCUMENT:\n")
	b.WriteString(documentText)
	b.WriteString("\n\nQUESTION: ")
	b.WriteString(question)
	return b.String()
}
