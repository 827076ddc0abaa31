// Package models defines the typed results produced by the analysis agents
// and the final merged analysis persisted to the store.
package models

// Relation links a proposal to an existing quickstart with a short reason.
type Relation struct {
	// Name is the quickstart name.
	Name string `json:"name"`
	// Reason is a brief explanation of the connection.
	Reason string `json:"reason"`
}

// FeatureRef is a platform feature the model identified in a proposal.
type FeatureRef struct {
	// ID is the catalog feature ID.
	ID string `json:"id"`
	// Reason explains why the feature would be used.
	Reason string `json:"reason"`
}

// TechnicalAnalysis is the Technical Analyst's output for one issue.
type TechnicalAnalysis struct {
	OverlapLevel        OverlapLevel
	DevelopmentStage    DevelopmentStage
	UseCaseOverlap      []Relation
	SimilarStack        []Relation
	AdjacentGaps        []string
	ClarificationNeeded string
	Summary             string
}

// NewTechnicalAnalysis returns a TechnicalAnalysis with conservative defaults.
func NewTechnicalAnalysis() TechnicalAnalysis {
	return TechnicalAnalysis{
		OverlapLevel:     OverlapUnclear,
		DevelopmentStage: StageConceptSummary,
	}
}

// PersonaEvaluation is a single persona's verdict on a proposal.
type PersonaEvaluation struct {
	PersonaID   string
	PersonaName string
	Relevance   Relevance
	Explanation string
}

// Relevant reports whether the persona found the proposal professionally
// relevant (HIGH or MEDIUM).
func (e PersonaEvaluation) Relevant() bool {
	return e.Relevance == RelevanceHigh || e.Relevance == RelevanceMedium
}

// BroadAppealAnalysis is the Persona Panel's aggregated output.
type BroadAppealAnalysis struct {
	BroadAppeal           BroadAppeal
	PersonasWhoUnderstand []string
	PersonasWhoDont       []string
	Evaluations           []PersonaEvaluation
	Summary               string
}

// NewBroadAppealAnalysis returns a BroadAppealAnalysis with conservative defaults.
func NewBroadAppealAnalysis() BroadAppealAnalysis {
	return BroadAppealAnalysis{BroadAppeal: AppealTechnicalOnly}
}

// PlatformAnalysis is the Platform Specialist's output for one issue.
type PlatformAnalysis struct {
	FeaturesIdentified []FeatureRef
	// FeaturesNew are valid feature IDs not yet demonstrated by the catalog.
	FeaturesNew []string
	// FeaturesReused are valid feature IDs an existing quickstart already demonstrates.
	FeaturesReused []string
	PlatformFit    PlatformFit
	Notes          string
}

// NewPlatformAnalysis returns a PlatformAnalysis with conservative defaults.
func NewPlatformAnalysis() PlatformAnalysis {
	return PlatformAnalysis{PlatformFit: FitModerate}
}

// PortfolioAnalysis captures catalog-wide blind spots. It is computed once per
// batch, not per issue.
type PortfolioAnalysis struct {
	UnderservedIndustries      []string
	MissingUseCases            []string
	UndemonstratedCapabilities []string
	ExpectedAdjacencies        []string
	Summary                    string
	Notes                      string
}

// Gaps extracts the structured gap descriptor used for priority scoring.
func (p PortfolioAnalysis) Gaps() PortfolioGaps {
	return PortfolioGaps{
		Industries:   p.UnderservedIndustries,
		UseCases:     p.MissingUseCases,
		Capabilities: p.UndemonstratedCapabilities,
	}
}

// PortfolioGaps is the gap descriptor threaded into every issue analysis of a
// batch.
type PortfolioGaps struct {
	Industries   []string `json:"industries"`
	UseCases     []string `json:"use_cases"`
	Capabilities []string `json:"capabilities"`
}

// Empty reports whether no gaps are recorded.
func (g PortfolioGaps) Empty() bool {
	return len(g.Industries) == 0 && len(g.UseCases) == 0 && len(g.Capabilities) == 0
}

// FinalAnalysis is the Coordinator's merged result for one issue. Every enum
// field carries its conservative default when the source agent did not run, so
// a FinalAnalysis is always total.
type FinalAnalysis struct {
	// From the Technical Analyst.
	OverlapLevel        OverlapLevel
	DevelopmentStage    DevelopmentStage
	UseCaseOverlap      []Relation
	SimilarStack        []Relation
	AdjacentGaps        []string
	ClarificationNeeded string
	TechnicalSummary    string

	// From the Persona Panel.
	BroadAppeal           BroadAppeal
	PersonasWhoUnderstand []string
	PersonasWhoDont       []string
	PersonaEvaluations    []PersonaEvaluation
	AppealSummary         string

	// From the Platform Specialist.
	FeaturesIdentified []FeatureRef
	FeaturesNew        []string
	FeaturesReused     []string
	PlatformFit        PlatformFit

	// Derived by the Coordinator.
	OverallRecommendation string
	PriorityScore         int
	FillsPortfolioGap     []string
	RawAnalysis           string
}

// NewFinalAnalysis returns a FinalAnalysis with every enum at its conservative
// default and a neutral priority score.
func NewFinalAnalysis() FinalAnalysis {
	return FinalAnalysis{
		OverlapLevel:     OverlapUnclear,
		DevelopmentStage: StageConceptSummary,
		BroadAppeal:      AppealTechnicalOnly,
		PlatformFit:      FitModerate,
		PriorityScore:    5,
	}
}
