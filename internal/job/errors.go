package job

import (
	"context"
	"errors"

	"github.com/nguyentantai21042004/title-flow/internal/media"
	"github.com/nguyentantai21042004/title-flow/internal/transcribe"
)

// Machine-readable failure codes recorded on the job when it fails.
const (
	CodeUnsupportedMedia     = "unsupported_media"
	CodeExtractionTimeout    = "extraction_timeout"
	CodeExtractionFailed     = "extraction_failed"
	CodePayloadTooLarge      = "payload_too_large"
	CodeRateLimited          = "rate_limited"
	CodeServiceError         = "service_error"
	CodeOrchestrationTimeout = "orchestration_timeout"
	CodeGenerationFailed     = "generation_failed"
	CodeInternal             = "internal_error"
)

// errorCode maps a pipeline failure to its failure code. Component errors
// carry their own classification; a bare deadline means a step blew its
// orchestration budget; anything else takes the step's fallback code.
func errorCode(err error, fallback string) string {
	var extractionErr *media.ExtractionError
	if errors.As(err, &extractionErr) {
		return string(extractionErr.Kind)
	}

	// checked before the gateway kind: a transport failure caused by the
	// step budget expiring is a timeout, not a service error
	if errors.Is(err, context.DeadlineExceeded) {
		return CodeOrchestrationTimeout
	}

	var gatewayErr *transcribe.GatewayError
	if errors.As(err, &gatewayErr) {
		return string(gatewayErr.Kind)
	}

	return fallback
}
