package job

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nguyentantai21042004/title-flow/internal/media"
	"github.com/nguyentantai21042004/title-flow/internal/transcribe"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		fallback string
		want     string
	}{
		{
			name:     "unsupported media",
			err:      &media.ExtractionError{Kind: media.KindUnsupportedMedia, Path: "a.mp4"},
			fallback: CodeExtractionFailed,
			want:     CodeUnsupportedMedia,
		},
		{
			name:     "extraction timeout",
			err:      &media.ExtractionError{Kind: media.KindExtractionTimeout, Path: "a.mp4"},
			fallback: CodeExtractionFailed,
			want:     CodeExtractionTimeout,
		},
		{
			name:     "wrapped extraction error",
			err:      fmt.Errorf("step: %w", &media.ExtractionError{Kind: media.KindExtractionFailed, Path: "a.mp4"}),
			fallback: CodeInternal,
			want:     CodeExtractionFailed,
		},
		{
			name:     "payload too large",
			err:      &transcribe.GatewayError{Kind: transcribe.FailurePayloadTooLarge, StatusCode: 413},
			fallback: CodeServiceError,
			want:     CodePayloadTooLarge,
		},
		{
			name:     "rate limited after retries",
			err:      fmt.Errorf("transcribe chunk 3: %w", &transcribe.GatewayError{Kind: transcribe.FailureRateLimited, StatusCode: 429}),
			fallback: CodeServiceError,
			want:     CodeRateLimited,
		},
		{
			name:     "step budget exceeded",
			err:      fmt.Errorf("generate: %w", context.DeadlineExceeded),
			fallback: CodeGenerationFailed,
			want:     CodeOrchestrationTimeout,
		},
		{
			name: "budget expiry mid transcription call",
			err: fmt.Errorf("transcribe chunk 0: %w", &transcribe.GatewayError{
				Kind:    transcribe.FailureService,
				Message: "context deadline exceeded",
				Err:     fmt.Errorf("do request: %w", context.DeadlineExceeded),
			}),
			fallback: CodeServiceError,
			want:     CodeOrchestrationTimeout,
		},
		{
			name:     "unclassified takes the step fallback",
			err:      errors.New("something odd"),
			fallback: CodeGenerationFailed,
			want:     CodeGenerationFailed,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, errorCode(tc.err, tc.fallback))
		})
	}
}
