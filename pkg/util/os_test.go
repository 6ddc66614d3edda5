package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetInstanceIDFromEnv(t *testing.T) {
	t.Setenv("INSTANCE_ID", "sim-a")
	assert.Equal(t, "sim-a", GetInstanceID())
}

func TestGetInstanceIDFallback(t *testing.T) {
	t.Setenv("INSTANCE_ID", "")
	assert.NotEmpty(t, GetInstanceID())
}
