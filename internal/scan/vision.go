package scan

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/cartwise/companion-service/internal/nutrition"
)

// ErrLowConfidence is returned when the vision model identified something
// but below the configured confidence threshold.
var ErrLowConfidence = errors.New("scan: identification below confidence threshold")

// ErrVisionUnavailable is returned when the vision endpoint keeps failing
// transiently. Callers may retry the whole scan.
var ErrVisionUnavailable = errors.New("scan: vision endpoint unavailable")

// Product is an identified grocery product.
type Product struct {
	Name       string           `json:"name"`
	Brand      string           `json:"brand,omitempty"`
	Barcode    string           `json:"barcode,omitempty"`
	Confidence float64          `json:"confidence"`
	Facts      *nutrition.Facts `json:"facts,omitempty"`
}

// VisionConfig configures the vision client.
type VisionConfig struct {
	Endpoint            string        // Managed function endpoint URL
	APIKey              string        // Bearer token
	ConfidenceThreshold float64       // Identifications below this are rejected (default 0.6)
	Timeout             time.Duration // Per-request timeout (default 30s)
	MaxRetries          int           // Retries on 429/5xx (default 2)
	InitialBackoff      time.Duration // First retry delay (default 200ms)
}

// DefaultVisionConfig returns sensible defaults.
func DefaultVisionConfig() VisionConfig {
	return VisionConfig{
		ConfidenceThreshold: 0.6,
		Timeout:             30 * time.Second,
		MaxRetries:          2,
		InitialBackoff:      200 * time.Millisecond,
	}
}

// VisionClient calls the managed vision endpoint that identifies a product
// from a camera capture and returns its nutrition facts.
type VisionClient struct {
	cfg        VisionConfig
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewVisionClient creates a client for the vision endpoint.
func NewVisionClient(cfg VisionConfig, logger zerolog.Logger) *VisionClient {
	defaults := DefaultVisionConfig()
	if cfg.ConfidenceThreshold == 0 {
		cfg.ConfidenceThreshold = defaults.ConfidenceThreshold
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaults.MaxRetries
	}
	if cfg.InitialBackoff == 0 {
		cfg.InitialBackoff = defaults.InitialBackoff
	}
	return &VisionClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

type identifyRequest struct {
	ImageBase64 string `json:"imageBase64"`
}

type identifyResponse struct {
	Name       string         `json:"name"`
	Brand      string         `json:"brand"`
	Barcode    string         `json:"barcode"`
	Confidence float64        `json:"confidence"`
	Nutriments map[string]any `json:"nutriments"`
}

// Identify sends a base64-encoded capture to the vision endpoint and
// returns the identified product. 429 and 5xx responses are retried with
// exponential backoff; other failures surface immediately.
func (c *VisionClient) Identify(ctx context.Context, imageBase64 string) (*Product, error) {
	if c.cfg.Endpoint == "" {
		return nil, fmt.Errorf("scan: vision endpoint not configured")
	}

	payload, err := json.Marshal(identifyRequest{ImageBase64: imageBase64})
	if err != nil {
		return nil, fmt.Errorf("marshal identify request: %w", err)
	}

	var lastStatus int
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff(attempt, c.cfg.InitialBackoff)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		resp, err := c.post(ctx, payload)
		if err != nil {
			c.logger.Warn().Err(err).Int("attempt", attempt).Msg("vision request failed")
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			continue
		}

		if retryableStatus(resp.StatusCode) {
			lastStatus = resp.StatusCode
			c.logger.Warn().Int("status", resp.StatusCode).Int("attempt", attempt).Msg("vision endpoint transient error")
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("scan: vision endpoint returned HTTP %d", resp.StatusCode)
		}

		return c.parse(body)
	}

	if lastStatus != 0 {
		return nil, fmt.Errorf("%w: last status %d", ErrVisionUnavailable, lastStatus)
	}
	return nil, ErrVisionUnavailable
}

func (c *VisionClient) post(ctx context.Context, payload []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	return c.httpClient.Do(req)
}

func (c *VisionClient) parse(body []byte) (*Product, error) {
	var reply identifyResponse
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, fmt.Errorf("decode vision reply: %w", err)
	}
	if reply.Confidence < c.cfg.ConfidenceThreshold {
		return nil, fmt.Errorf("%w: %.2f < %.2f", ErrLowConfidence, reply.Confidence, c.cfg.ConfidenceThreshold)
	}
	return &Product{
		Name:       reply.Name,
		Brand:      reply.Brand,
		Barcode:    NormalizeBarcode(reply.Barcode),
		Confidence: reply.Confidence,
		Facts:      nutrition.FactsFromNutriments(reply.Nutriments),
	}, nil
}

// retryableStatus mirrors the ingestion fetcher's rule: 429 and 5xx.
func retryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || (status >= 500 && status < 600)
}

// backoff is exponential with up to 25% jitter.
func backoff(attempt int, initial time.Duration) time.Duration {
	d := float64(initial) * math.Pow(2, float64(attempt-1))
	return time.Duration(d + rand.Float64()*0.25*d)
}
