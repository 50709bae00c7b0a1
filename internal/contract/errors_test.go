package contract

import (
	"errors"
	"fmt"
	"testing"

	"github.com/avendano/churnscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("missing column %q", "amount")
	assert.Equal(t, `validation: missing column "amount"`, err.Error())

	var target *ValidationError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &target))
}

func TestConfigurationError(t *testing.T) {
	err := NewConfigurationError("weights", "must sum to 1.0, got %v", 1.2)
	assert.Equal(t, "configuration: weights: must sum to 1.0, got 1.2", err.Error())

	bare := &ConfigurationError{Msg: "broken"}
	assert.Equal(t, "configuration: broken", bare.Error())
}

func TestComputationError(t *testing.T) {
	err := NewComputationError("C-42", schema.SkipNonFinite, "score is NaN")
	require.Contains(t, err.Error(), "C-42")
	assert.Contains(t, err.Error(), string(schema.SkipNonFinite))
}
