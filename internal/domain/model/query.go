package model

import "fmt"

// CohortKey identifies a comparison population. Prepared cohorts are cached by it.
type CohortKey struct {
	Position        Position `json:"position"`
	Scope           Scope    `json:"scope"`
	FromSeason      int      `json:"from_season"`
	ToSeason        int      `json:"to_season"`
	ReferenceSeason int      `json:"reference_season"`
}

// String renders the key as "WR:career:1999-2024@2024".
func (k CohortKey) String() string {
	return fmt.Sprintf("%s:%s:%d-%d@%d", k.Position, k.Scope, k.FromSeason, k.ToSeason, k.ReferenceSeason)
}

// Query is a single similarity request.
// Season is optional; zero means the configured current season.
type Query struct {
	PlayerID string
	Position Position
	Scope    Scope
	Limit    int
	Season   int
}

// SimilarityResult is one ranked candidate for a target.
type SimilarityResult struct {
	TargetID    string  `json:"target_id"`
	CandidateID string  `json:"player_id"`
	Name        string  `json:"name,omitempty"`
	Score       float64 `json:"score"`
	Rank        int     `json:"rank"`
}

// Phase names which scoring path produced a ranking.
type Phase string

// Scoring phases.
const (
	PhaseBlended Phase = "blended"
	PhaseOne     Phase = "phase1"
)

// DegradeReason explains why a query skipped the reduced-space phase.
type DegradeReason string

// Degrade reasons.
const (
	DegradeInsufficientCohort DegradeReason = "insufficient_cohort"
	DegradeBudgetExceeded     DegradeReason = "budget_exceeded"
	DegradePartialCohort      DegradeReason = "partial_cohort"
	DegradeTooFewFeatures     DegradeReason = "too_few_features"
)

// DataQualityFlag marks upstream gaps that were recovered from.
type DataQualityFlag string

// Data-quality flags.
const (
	FlagRoutesEstimated DataQualityFlag = "routes_estimated"
)

// Diagnostics describes how a ranking was produced.
type Diagnostics struct {
	QueryID         string            `json:"query_id"`
	Cohort          CohortKey         `json:"cohort"`
	CohortSize      int               `json:"cohort_size"`
	Eligible        int               `json:"eligible"`
	Phase           Phase             `json:"phase"`
	Components      int               `json:"components"`
	Clusters        int               `json:"clusters"`
	DroppedFeatures []string          `json:"dropped_features,omitempty"`
	Degraded        bool              `json:"degraded"`
	Reasons         []DegradeReason   `json:"reasons,omitempty"`
	DataQuality     []DataQualityFlag `json:"data_quality,omitempty"`
}

// Response is the ranked answer to a Query.
type Response struct {
	Results     []SimilarityResult `json:"results"`
	Diagnostics Diagnostics        `json:"diagnostics"`
}
