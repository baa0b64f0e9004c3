package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"
)

// ErrEmbeddingFailed marks a failed embedding call. Embedding failures
// are always retryable; the whole batch fails atomically.
var ErrEmbeddingFailed = errors.New("embedding failed")

// WrapEmbeddingError wraps err so callers can match ErrEmbeddingFailed.
func WrapEmbeddingError(err error) error {
	return fmt.Errorf("%w: %w", ErrEmbeddingFailed, err)
}

// GenerationError is a failed generation call, classified so the caller
// can decide whether to retry.
type GenerationError struct {
	// Transient is true for timeouts, rate limits and connectivity
	// failures; false for malformed requests and content rejections.
	Transient bool
	Err       error
}

func (e *GenerationError) Error() string {
	kind := "permanent"
	if e.Transient {
		kind = "transient"
	}
	return fmt.Sprintf("generation failed (%s): %v", kind, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is a GenerationError marked transient.
func IsTransient(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr) && genErr.Transient
}

var statusCodeRe = regexp.MustCompile(`status code:? (\d{3})`)

// ClassifyGenerationError wraps err in a GenerationError.
// Timeouts, connectivity failures, 408/429 and 5xx responses are
// transient; other HTTP errors and everything unrecognized are permanent.
func ClassifyGenerationError(err error) *GenerationError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &GenerationError{Transient: true, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return &GenerationError{Transient: true, Err: err}
	}

	msg := strings.ToLower(err.Error())
	if m := statusCodeRe.FindStringSubmatch(msg); m != nil {
		code, _ := strconv.Atoi(m[1])
		transient := code == 408 || code == 429 || code >= 500
		return &GenerationError{Transient: transient, Err: err}
	}
	if strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "no such host") {
		return &GenerationError{Transient: true, Err: err}
	}

	return &GenerationError{Transient: false, Err: err}
}
