package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyGenerationErrorTimeout(t *testing.T) {
	genErr := ClassifyGenerationError(context.DeadlineExceeded)
	assert.True(t, genErr.Transient)
	assert.True(t, IsTransient(genErr))
}

func TestClassifyGenerationErrorStatusCodes(t *testing.T) {
	cases := []struct {
		msg       string
		transient bool
	}{
		{"API returned unexpected status code: 429", true},
		{"API returned unexpected status code: 503", true},
		{"API returned unexpected status code: 400", false},
		{"API returned unexpected status code: 422", false},
	}

	for _, tc := range cases {
		genErr := ClassifyGenerationError(errors.New(tc.msg))
		assert.Equal(t, tc.transient, genErr.Transient, tc.msg)
	}
}

func TestClassifyGenerationErrorConnectivity(t *testing.T) {
	genErr := ClassifyGenerationError(errors.New("dial tcp: connection refused"))
	assert.True(t, genErr.Transient)

	genErr = ClassifyGenerationError(errors.New("rate limit exceeded, slow down"))
	assert.True(t, genErr.Transient)
}

func TestClassifyGenerationErrorUnknownIsPermanent(t *testing.T) {
	genErr := ClassifyGenerationError(errors.New("model rejected the request content"))
	assert.False(t, genErr.Transient)
	assert.False(t, IsTransient(genErr))
}

func TestWrapEmbeddingError(t *testing.T) {
	cause := errors.New("boom")
	err := WrapEmbeddingError(cause)
	assert.ErrorIs(t, err, ErrEmbeddingFailed)
	assert.ErrorIs(t, err, cause)
}
