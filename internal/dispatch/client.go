package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
)

// payload is the wire shape the rendering worker expects. The job id is
// the correlation key the worker must echo back on its completion
// callback.
type payload struct {
	JobID           string `json:"jobId"`
	AppearanceMode  string `json:"appearanceMode"`
	Ethnicity       string `json:"ethnicity,omitempty"`
	Hair            string `json:"hair,omitempty"`
	ImageURL        string `json:"imageUrl,omitempty"`
	ContentMode     string `json:"contentMode"`
	Topic           string `json:"topic,omitempty"`
	Script          string `json:"script,omitempty"`
	AudioURL        string `json:"audioUrl,omitempty"`
	VideoResolution string `json:"videoResolution"`
	AspectRatio     string `json:"aspectRatio"`
}

// Client hands admitted jobs to the external rendering worker. Dispatch is
// best effort: a failure is logged and the job stays in-flight until the
// worker calls back or the sweeper reaps it. There is no retry and no
// rollback of the admission.
type Client struct {
	httpClient   *http.Client
	webhookURL   string
	apiKey       string
	apiKeyHeader string
	logger       zerolog.Logger
}

// NewClient builds a dispatch client. timeout bounds the single outbound
// call; callers fire Dispatch from a goroutine so the client response
// never waits on it.
func NewClient(webhookURL, apiKey, apiKeyHeader string, timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient:   &http.Client{Timeout: timeout},
		webhookURL:   webhookURL,
		apiKey:       apiKey,
		apiKeyHeader: apiKeyHeader,
		logger:       logger,
	}
}

// Dispatch sends one POST for the job and reports the outcome. A non-2xx
// response is an error so callers can log it, but it carries no further
// consequence for the job.
func (c *Client) Dispatch(ctx context.Context, job domain.Job) error {
	body, err := json.Marshal(payload{
		JobID:           job.ID,
		AppearanceMode:  string(job.Appearance.Mode),
		Ethnicity:       job.Appearance.Ethnicity,
		Hair:            job.Appearance.Hair,
		ImageURL:        job.Appearance.ImageURL,
		ContentMode:     string(job.Content.Mode),
		Topic:           job.Content.Topic,
		Script:          job.Content.Script,
		AudioURL:        job.Content.AudioURL,
		VideoResolution: string(job.Resolution),
		AspectRatio:     string(job.AspectRatio),
	})
	if err != nil {
		return fmt.Errorf("dispatch: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("dispatch: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set(c.apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("job_id", job.ID).Msg("dispatch request failed")
		return fmt.Errorf("dispatch: send: %w", err)
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused; the body itself is only
	// interesting for logs.
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error().
			Str("job_id", job.ID).
			Int("status", resp.StatusCode).
			Str("response", string(respBody)).
			Msg("worker rejected dispatch")
		return fmt.Errorf("dispatch: worker returned %d", resp.StatusCode)
	}

	c.logger.Info().Str("job_id", job.ID).Int("status", resp.StatusCode).Msg("job dispatched")
	return nil
}
