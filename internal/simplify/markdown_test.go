package simplify

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func sampleResult() SimplifiedDocument {
	return SimplifiedDocument{
		DocumentID:       "doc-1",
		OriginalFilename: "lease.pdf",
		Summary:          "This lease sets monthly rent and a deposit.",
		KeyPoints:        []string{"Rent is $1200", "Deposit is one month"},
		ImportantTerms: map[string]string{
			"Security deposit": "Money held to cover damage",
			"Lessee":           "The person renting",
		},
		DeadlinesObligations: []string{"Rent due on the 1st"},
		Warnings:             []string{"Late fees after the 5th"},
		NextSteps:            []string{"Sign within 10 days"},
		ProcessingTimestamp:  time.Date(2026, time.August, 1, 10, 30, 0, 0, time.UTC),
		SimplificationLevel:  LevelStandard,
		ConfidenceScore:      0.85,
		ReadingLevel:         "middle_school",
	}
}

func TestRenderMarkdownSectionOrder(t *testing.T) {
	md := RenderMarkdown(sampleResult())

	order := []string{
		"# Simplified Document: lease.pdf",
		"## Summary",
		"## Key Points",
		"## Important Terms",
		"## Deadlines & Obligations",
		"## Warnings",
		"## Next Steps",
	}
	last := -1
	for _, heading := range order {
		idx := strings.Index(md, heading)
		if idx < 0 {
			t.Fatalf("missing heading %q", heading)
		}
		if idx < last {
			t.Fatalf("heading %q out of order", heading)
		}
		last = idx
	}
}

func TestRenderMarkdownIsDeterministic(t *testing.T) {
	doc := sampleResult()
	if RenderMarkdown(doc) != RenderMarkdown(doc) {
		t.Fatal("render must be deterministic for the same result")
	}
	// Terms render sorted, so "Lessee" precedes "Security deposit".
	md := RenderMarkdown(doc)
	if strings.Index(md, "**Lessee**") > strings.Index(md, "**Security deposit**") {
		t.Fatal("terms should render alphabetically")
	}
}

func TestRenderMarkdownSkipsEmptySections(t *testing.T) {
	doc := sampleResult()
	doc.Warnings = nil
	md := RenderMarkdown(doc)
	if strings.Contains(md, "## Warnings") {
		t.Fatal("empty warnings section should be skipped")
	}
}

func TestMarkdownRoundTrip(t *testing.T) {
	original := sampleResult()
	md := RenderMarkdown(original)

	parsed, err := ParseMarkdown(md)
	if err != nil {
		t.Fatalf("ParseMarkdown: %v", err)
	}

	if parsed.OriginalFilename != original.OriginalFilename {
		t.Fatalf("filename = %q", parsed.OriginalFilename)
	}
	if parsed.Summary != original.Summary {
		t.Fatalf("summary = %q", parsed.Summary)
	}
	if !reflect.DeepEqual(parsed.KeyPoints, original.KeyPoints) {
		t.Fatalf("key points = %v", parsed.KeyPoints)
	}
	if !reflect.DeepEqual(parsed.ImportantTerms, original.ImportantTerms) {
		t.Fatalf("terms = %v", parsed.ImportantTerms)
	}
	if !reflect.DeepEqual(parsed.DeadlinesObligations, original.DeadlinesObligations) {
		t.Fatalf("deadlines = %v", parsed.DeadlinesObligations)
	}
	if !reflect.DeepEqual(parsed.Warnings, original.Warnings) {
		t.Fatalf("warnings = %v", parsed.Warnings)
	}
	if !reflect.DeepEqual(parsed.NextSteps, original.NextSteps) {
		t.Fatalf("next steps = %v", parsed.NextSteps)
	}
	if parsed.SimplificationLevel != original.SimplificationLevel {
		t.Fatalf("level = %q", parsed.SimplificationLevel)
	}
	if parsed.ConfidenceScore != original.ConfidenceScore {
		t.Fatalf("confidence = %v", parsed.ConfidenceScore)
	}
	if parsed.ReadingLevel != original.ReadingLevel {
		t.Fatalf("reading level = %q", parsed.ReadingLevel)
	}
	if !parsed.ProcessingTimestamp.Equal(original.ProcessingTimestamp) {
		t.Fatalf("processing timestamp = %v, want %v", parsed.ProcessingTimestamp, original.ProcessingTimestamp)
	}
}

func TestRenderMarkdownFooterFields(t *testing.T) {
	md := RenderMarkdown(sampleResult())

	idx := strings.LastIndex(md, "*Processed: ")
	if idx < 0 {
		t.Fatalf("markdown has no footer: %q", md)
	}
	footer := md[idx:]
	for _, want := range []string{
		"Processed: 2026-08-01T10:30:00Z",
		"Simplification level: standard",
		"Confidence: 0.85",
		"Reading level: middle_school",
	} {
		if !strings.Contains(footer, want) {
			t.Fatalf("footer %q missing %q", footer, want)
		}
	}
}

func TestParseMarkdownRejectsMissingSummary(t *testing.T) {
	if _, err := ParseMarkdown("# Simplified Document: x\n\n## Key Points\n\n- a\n"); err == nil {
		t.Fatal("expected error for markdown without a summary")
	}
}
