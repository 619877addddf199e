package transcribe

import (
	"context"
	"errors"
	"fmt"
)

// FailureKind classifies transcription service failures.
type FailureKind string

const (
	// FailurePayloadTooLarge means the submitted audio exceeded the
	// service ceiling. The planner exists to make this unreachable, so it
	// is surfaced as a defect and never retried.
	FailurePayloadTooLarge FailureKind = "payload_too_large"
	// FailureRateLimited and FailureService are transient and retried
	// with bounded backoff.
	FailureRateLimited FailureKind = "rate_limited"
	FailureService     FailureKind = "service_error"
)

// GatewayError wraps a transcription service failure. Err carries the
// underlying transport error, if any, so context expiry stays visible
// through the chain.
type GatewayError struct {
	Kind       FailureKind
	StatusCode int
	Message    string
	Err        error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("transcription %s (status %d): %s", e.Kind, e.StatusCode, e.Message)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether the failure is worth retrying. A call that
// died because its context expired is never retried: the budget is spent.
func IsTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var ge *GatewayError
	if errors.As(err, &ge) {
		return ge.Kind == FailureRateLimited || ge.Kind == FailureService
	}
	return false
}

// Result is one transcription call's outcome.
type Result struct {
	Text       string
	Language   string
	Confidence float64
}

// Gateway is the boundary to the external transcription service. One call
// per chunk (or per whole file). contextHint, when non-empty, is the bounded
// trailing text of the previous chunk's transcript.
type Gateway interface {
	Transcribe(ctx context.Context, audio []byte, contextHint string) (Result, error)
}
