package models

import "strings"

// OverlapLevel classifies how a proposed quickstart's use case relates to
// the published catalog.
type OverlapLevel string

const (
	// OverlapUnique means the use case is not covered by any existing quickstart.
	OverlapUnique OverlapLevel = "UNIQUE"
	// OverlapPossible means the use case overlaps with at least one existing quickstart.
	OverlapPossible OverlapLevel = "POSSIBLE_OVERLAP"
	// OverlapUnclear means the proposal lacks enough detail to judge overlap.
	OverlapUnclear OverlapLevel = "UNCLEAR"
)

// Valid returns true if the level is a known value.
func (l OverlapLevel) Valid() bool {
	switch l {
	case OverlapUnique, OverlapPossible, OverlapUnclear:
		return true
	default:
		return false
	}
}

// ParseOverlapLevel normalizes a model-supplied token into an OverlapLevel.
// Unknown tokens fall back to OverlapUnclear.
func ParseOverlapLevel(s string) OverlapLevel {
	l := OverlapLevel(canonToken(s))
	if !l.Valid() {
		return OverlapUnclear
	}
	return l
}

// DevelopmentStage classifies how mature a proposal is, from most to least
// developed: code exists, implementation plan, expanded concept, bare summary.
type DevelopmentStage string

const (
	// StageHasCode means the author has existing code, a repo, or a prototype.
	StageHasCode DevelopmentStage = "HAS_CODE"
	// StageDetailedPlan means architecture and technologies are decided.
	StageDetailedPlan DevelopmentStage = "DETAILED_PLAN"
	// StageDetailedConcept means the idea is well explained but needs planning.
	StageDetailedConcept DevelopmentStage = "DETAILED_CONCEPT"
	// StageConceptSummary means the idea is only a few sentences.
	StageConceptSummary DevelopmentStage = "CONCEPT_SUMMARY"
)

// Valid returns true if the stage is a known value.
func (s DevelopmentStage) Valid() bool {
	switch s {
	case StageHasCode, StageDetailedPlan, StageDetailedConcept, StageConceptSummary:
		return true
	default:
		return false
	}
}

// ParseDevelopmentStage normalizes a model-supplied token into a
// DevelopmentStage. Unknown tokens fall back to StageConceptSummary.
func ParseDevelopmentStage(s string) DevelopmentStage {
	st := DevelopmentStage(canonToken(s))
	if !st.Valid() {
		return StageConceptSummary
	}
	return st
}

// BroadAppeal classifies whether non-technical professionals would find the
// quickstart relevant to their work.
type BroadAppeal string

const (
	// AppealUniversal means the quickstart resonates across most professions.
	AppealUniversal BroadAppeal = "UNIVERSAL"
	// AppealBusinessSpecific means it appeals to particular business domains.
	AppealBusinessSpecific BroadAppeal = "BUSINESS_SPECIFIC"
	// AppealTechnicalOnly means only technical audiences would engage with it.
	AppealTechnicalOnly BroadAppeal = "TECHNICAL_ONLY"
)

// Valid returns true if the appeal is a known value.
func (a BroadAppeal) Valid() bool {
	switch a {
	case AppealUniversal, AppealBusinessSpecific, AppealTechnicalOnly:
		return true
	default:
		return false
	}
}

// ParseBroadAppeal normalizes a model-supplied token into a BroadAppeal.
// Unknown tokens fall back to AppealTechnicalOnly.
func ParseBroadAppeal(s string) BroadAppeal {
	a := BroadAppeal(canonToken(s))
	if !a.Valid() {
		return AppealTechnicalOnly
	}
	return a
}

// PlatformFit classifies how well a proposal showcases the platform.
type PlatformFit string

const (
	// FitExcellent: several features, including at least one not yet demonstrated.
	FitExcellent PlatformFit = "EXCELLENT"
	// FitGood: a couple of features that align well with the platform.
	FitGood PlatformFit = "GOOD"
	// FitModerate: one or two common features.
	FitModerate PlatformFit = "MODERATE"
	// FitPoor: does not clearly leverage platform features.
	FitPoor PlatformFit = "POOR"
)

// Valid returns true if the fit is a known value.
func (f PlatformFit) Valid() bool {
	switch f {
	case FitExcellent, FitGood, FitModerate, FitPoor:
		return true
	default:
		return false
	}
}

// ParsePlatformFit normalizes a model-supplied token into a PlatformFit.
// Unknown tokens fall back to FitModerate.
func ParsePlatformFit(s string) PlatformFit {
	f := PlatformFit(canonToken(s))
	if !f.Valid() {
		return FitModerate
	}
	return f
}

// Relevance is a persona's rating of how professionally relevant a proposal is.
type Relevance string

const (
	RelevanceHigh   Relevance = "HIGH"
	RelevanceMedium Relevance = "MEDIUM"
	RelevanceLow    Relevance = "LOW"
	RelevanceNone   Relevance = "NONE"
)

// Valid returns true if the relevance is a known value.
func (r Relevance) Valid() bool {
	switch r {
	case RelevanceHigh, RelevanceMedium, RelevanceLow, RelevanceNone:
		return true
	default:
		return false
	}
}

// ParseRelevance normalizes a model-supplied token into a Relevance.
// Unknown tokens fall back to RelevanceNone.
func ParseRelevance(s string) Relevance {
	r := Relevance(canonToken(s))
	if !r.Valid() {
		return RelevanceNone
	}
	return r
}

// canonToken uppercases a token and replaces spaces and dashes with
// underscores, so "possible overlap" and "POSSIBLE_OVERLAP" parse the same.
func canonToken(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}
