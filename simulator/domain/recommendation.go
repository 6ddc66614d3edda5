package domain

import "fmt"

type RecommendationType string

const (
	RecommendationScale    RecommendationType = "SCALE"
	RecommendationMigrate  RecommendationType = "MIGRATE"
	RecommendationOptimize RecommendationType = "OPTIMIZE"
)

func (t RecommendationType) Valid() bool {
	switch t {
	case RecommendationScale, RecommendationMigrate, RecommendationOptimize:
		return true
	}
	return false
}

// Recommendation is an externally produced suggestion.
type Recommendation struct {
	ID                string             `json:"id"`
	Type              RecommendationType `json:"type"`
	Title             string             `json:"title"`
	Description       string             `json:"description"`
	Impact            string             `json:"impact"`
	Confidence        float64            `json:"confidence"`
	TargetPodID       string             `json:"targetPodId,omitempty"`
	TargetEnvironment Environment        `json:"targetEnvironment,omitempty"`
}

// Validate checks the declared shape of a recommendation.
func (r *Recommendation) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: empty recommendation", ErrInvalidRecommendation)
	}
	if !r.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidRecommendation, r.Type)
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("%w: confidence %v out of [0,1]", ErrInvalidRecommendation, r.Confidence)
	}
	if r.TargetEnvironment != "" && !r.TargetEnvironment.Valid() {
		return fmt.Errorf("%w: unknown environment %q", ErrInvalidRecommendation, r.TargetEnvironment)
	}
	return nil
}

type RecommendationOutcome string

const (
	OutcomeApplied RecommendationOutcome = "APPLIED"
	OutcomeIgnored RecommendationOutcome = "IGNORED"
)
