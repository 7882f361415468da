package simplify

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Section headings in render order. Empty sections are skipped on render and
// absent on parse.
const (
	headingSummary   = "Summary"
	headingKeyPoints = "Key Points"
	headingTerms     = "Important Terms"
	headingDeadlines = "Deadlines & Obligations"
	headingWarnings  = "Warnings"
	headingNextSteps = "Next Steps"
)

// RenderMarkdown produces the downloadable markdown view of a result. Terms
// are sorted so the output is deterministic for a given result.
func RenderMarkdown(doc SimplifiedDocument) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Simplified Document: %s\n\n", doc.OriginalFilename)

	writeSection(&b, headingSummary, nil, doc.Summary)
	writeSection(&b, headingKeyPoints, doc.KeyPoints, "")

	if len(doc.ImportantTerms) > 0 {
		fmt.Fprintf(&b, "## %s\n\n", headingTerms)
		terms := make([]string, 0, len(doc.ImportantTerms))
		for term := range doc.ImportantTerms {
			terms = append(terms, term)
		}
		sort.Strings(terms)
		for _, term := range terms {
			fmt.Fprintf(&b, "- **%s**: %s\n", term, doc.ImportantTerms[term])
		}
		b.WriteString("\n")
	}

	writeSection(&b, headingDeadlines, doc.DeadlinesObligations, "")
	writeSection(&b, headingWarnings, doc.Warnings, "")
	writeSection(&b, headingNextSteps, doc.NextSteps, "")

	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "*Processed: %s | Simplification level: %s | Confidence: %.2f | Reading level: %s*\n",
		doc.ProcessingTimestamp.UTC().Format(time.RFC3339),
		doc.SimplificationLevel, doc.ConfidenceScore, doc.ReadingLevel)
	return b.String()
}

func writeSection(b *strings.Builder, heading string, items []string, text string) {
	if text == "" && len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", heading)
	if text != "" {
		b.WriteString(text)
		b.WriteString("\n\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

// ParseMarkdown recovers a result from its rendered markdown. It is the
// inverse of RenderMarkdown for the fields the markdown carries.
func ParseMarkdown(md string) (SimplifiedDocument, error) {
	var doc SimplifiedDocument
	doc.ImportantTerms = map[string]string{}

	lines := strings.Split(md, "\n")
	section := ""
	var summary []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "# Simplified Document: "):
			doc.OriginalFilename = strings.TrimPrefix(trimmed, "# Simplified Document: ")
		case strings.HasPrefix(trimmed, "## "):
			section = strings.TrimPrefix(trimmed, "## ")
		case trimmed == "---":
			section = "footer"
		case strings.HasPrefix(trimmed, "*Processed: "):
			parseFooter(trimmed, &doc)
		case strings.HasPrefix(trimmed, "- "):
			item := strings.TrimPrefix(trimmed, "- ")
			switch section {
			case headingKeyPoints:
				doc.KeyPoints = append(doc.KeyPoints, item)
			case headingTerms:
				term, definition, ok := parseTermLine(item)
				if ok {
					doc.ImportantTerms[term] = definition
				}
			case headingDeadlines:
				doc.DeadlinesObligations = append(doc.DeadlinesObligations, item)
			case headingWarnings:
				doc.Warnings = append(doc.Warnings, item)
			case headingNextSteps:
				doc.NextSteps = append(doc.NextSteps, item)
			}
		case trimmed != "" && section == headingSummary:
			summary = append(summary, trimmed)
		}
	}

	doc.Summary = strings.Join(summary, " ")
	if doc.Summary == "" {
		return SimplifiedDocument{}, fmt.Errorf("markdown has no summary section")
	}
	return doc, nil
}

func parseTermLine(item string) (string, string, bool) {
	if !strings.HasPrefix(item, "**") {
		return "", "", false
	}
	rest := strings.TrimPrefix(item, "**")
	end := strings.Index(rest, "**:")
	if end < 0 {
		return "", "", false
	}
	term := rest[:end]
	definition := strings.TrimSpace(rest[end+len("**:"):])
	if term == "" || definition == "" {
		return "", "", false
	}
	return term, definition, true
}

func parseFooter(line string, doc *SimplifiedDocument) {
	line = strings.Trim(line, "*")
	for _, field := range strings.Split(line, "|") {
		field = strings.TrimSpace(field)
		switch {
		case strings.HasPrefix(field, "Processed: "):
			if ts, err := time.Parse(time.RFC3339, strings.TrimPrefix(field, "Processed: ")); err == nil {
				doc.ProcessingTimestamp = ts
			}
		case strings.HasPrefix(field, "Simplification level: "):
			doc.SimplificationLevel = strings.TrimPrefix(field, "Simplification level: ")
		case strings.HasPrefix(field, "Confidence: "):
			if v, err := strconv.ParseFloat(strings.TrimPrefix(field, "Confidence: "), 64); err == nil {
				doc.ConfidenceScore = v
			}
		case strings.HasPrefix(field, "Reading level: "):
			doc.ReadingLevel = strings.TrimPrefix(field, "Reading level: ")
		}
	}
}
