package simplify

import "time"

// Simplification levels accepted by the processor.
const (
	LevelBasic    = "basic"
	LevelStandard = "standard"
	LevelDetailed = "detailed"
)

// Target audiences accepted by the processor.
const (
	AudienceGeneralPublic  = "general_public"
	AudienceBusinessOwners = "business_owners"
	AudienceIndividuals    = "individuals"
	AudienceStudents       = "students"
)

// Options selects how a document is simplified. IncludeOriginal controls
// whether the extracted source text is stored on the result; it defaults to
// off so results stay small.
type Options struct {
	Level           string
	Audience        string
	IncludeOriginal bool
}

// Normalize fills defaults and rejects unknown values.
func (o Options) Normalize() (Options, error) {
	if o.Level == "" {
		o.Level = LevelStandard
	}
	if o.Audience == "" {
		o.Audience = AudienceGeneralPublic
	}
	switch o.Level {
	case LevelBasic, LevelStandard, LevelDetailed:
	default:
		return o, &OptionError{Field: "simplification_level", Value: o.Level}
	}
	switch o.Audience {
	case AudienceGeneralPublic, AudienceBusinessOwners, AudienceIndividuals, AudienceStudents:
	default:
		return o, &OptionError{Field: "target_audience", Value: o.Audience}
	}
	return o, nil
}

// SimplifiedDocument is the validated, persisted simplification result.
type SimplifiedDocument struct {
	DocumentID           string
	OriginalFilename     string
	Summary              string
	KeyPoints            []string
	ImportantTerms       map[string]string
	DeadlinesObligations []string
	Warnings             []string
	NextSteps            []string
	ProcessingTimestamp  time.Time
	SimplificationLevel  string
	ConfidenceScore      float64
	OriginalText         string
	WordCountOriginal    int
	WordCountSimplified  int
	ReadingLevel         string
}
