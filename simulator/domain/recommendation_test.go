package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendationValidate(t *testing.T) {
	valid := &Recommendation{ID: "r1", Type: RecommendationMigrate, Confidence: 0.8, TargetEnvironment: EnvironmentCloud}
	require.NoError(t, valid.Validate())

	cases := map[string]*Recommendation{
		"nil":          nil,
		"unknown type": {Type: "RESTART", Confidence: 0.5},
		"confidence":   {Type: RecommendationScale, Confidence: 1.5},
		"negative":     {Type: RecommendationScale, Confidence: -0.1},
		"environment":  {Type: RecommendationMigrate, Confidence: 0.5, TargetEnvironment: "EDGE"},
	}
	for name, rec := range cases {
		t.Run(name, func(t *testing.T) {
			err := rec.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidRecommendation)
		})
	}
}

func TestEnvironmentOpposite(t *testing.T) {
	assert.Equal(t, EnvironmentCloud, EnvironmentOnPrem.Opposite())
	assert.Equal(t, EnvironmentOnPrem, EnvironmentCloud.Opposite())
	assert.False(t, Environment("EDGE").Valid())
}
