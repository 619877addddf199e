package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/nguyentantai21042004/title-flow/internal/config"
	"github.com/nguyentantai21042004/title-flow/internal/logger"
)

// groqGateway talks to a Groq/OpenAI-compatible audio transcription endpoint.
type groqGateway struct {
	cfg        config.TranscriptionConfig
	httpClient *http.Client
	logger     logger.Logger
}

// NewGateway creates a Gateway for the configured transcription service.
func NewGateway(cfg config.TranscriptionConfig, log logger.Logger) Gateway {
	return &groqGateway{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeoutSec) * time.Second,
		},
		logger: log,
	}
}

// verboseResponse mirrors the verbose_json response format.
type verboseResponse struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
	Segments []struct {
		NoSpeechProb float64 `json:"no_speech_prob"`
	} `json:"segments"`
}

func (g *groqGateway) Transcribe(ctx context.Context, audio []byte, contextHint string) (Result, error) {
	ceiling := int64(g.cfg.MaxPayloadMB) << 20
	if int64(len(audio)) > ceiling {
		// guaranteed unreachable when the chunk planner is correct
		return Result{}, &GatewayError{
			Kind:    FailurePayloadTooLarge,
			Message: fmt.Sprintf("payload %dB exceeds %dMB ceiling", len(audio), g.cfg.MaxPayloadMB),
		}
	}

	body, contentType, err := g.buildMultipart(audio, contextHint)
	if err != nil {
		return Result{}, fmt.Errorf("build request body: %w", err)
	}

	url := strings.TrimRight(g.cfg.BaseURL, "/") + "/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return Result{}, &GatewayError{Kind: FailureService, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return Result{}, &GatewayError{Kind: FailureService, Message: err.Error(), Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return Result{}, mapStatus(resp.StatusCode, respBody)
	}

	var parsed verboseResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return Result{}, &GatewayError{
			Kind:       FailureService,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("malformed response: %v", err),
		}
	}

	return Result{
		Text:       strings.TrimSpace(parsed.Text),
		Language:   parsed.Language,
		Confidence: confidenceOf(parsed),
	}, nil
}

func (g *groqGateway) buildMultipart(audio []byte, contextHint string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", "audio.ogg")
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(audio); err != nil {
		return nil, "", err
	}

	fields := map[string]string{
		"model":           g.cfg.Model,
		"response_format": "verbose_json",
		"temperature":     "0",
	}
	if g.cfg.Language != "" {
		fields["language"] = g.cfg.Language
	}
	if contextHint != "" {
		fields["prompt"] = contextHint
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// mapStatus converts documented failure codes into the error taxonomy.
func mapStatus(status int, body []byte) *GatewayError {
	msg := strings.TrimSpace(string(body))
	if len(msg) > 300 {
		msg = msg[:300]
	}

	switch {
	case status == http.StatusRequestEntityTooLarge:
		return &GatewayError{Kind: FailurePayloadTooLarge, StatusCode: status, Message: msg}
	case status == http.StatusTooManyRequests:
		return &GatewayError{Kind: FailureRateLimited, StatusCode: status, Message: msg}
	default:
		return &GatewayError{Kind: FailureService, StatusCode: status, Message: msg}
	}
}

// confidenceOf derives a rough confidence indicator from the per-segment
// no-speech probabilities; 1.0 when the service returns none.
func confidenceOf(resp verboseResponse) float64 {
	if len(resp.Segments) == 0 {
		return 1.0
	}
	var total float64
	for _, s := range resp.Segments {
		total += s.NoSpeechProb
	}
	return 1.0 - total/float64(len(resp.Segments))
}
