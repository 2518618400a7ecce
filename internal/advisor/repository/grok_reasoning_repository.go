package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go-options-advisor/internal/advisor/config"
	"go-options-advisor/internal/advisor/dto"
	"go-options-advisor/pkg/logger"
)

// grokReasoningRepository reviews edge candidates through an
// OpenAI-compatible chat completions endpoint.
type grokReasoningRepository struct {
	client *http.Client
	cfg    *config.Config
	logger *logger.Logger
}

// NewGrokReasoningRepository creates a Grok-backed reasoning client.
func NewGrokReasoningRepository(cfg *config.Config, log *logger.Logger) ReasoningRepository {
	return &grokReasoningRepository{
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
		cfg:    cfg,
		logger: log,
	}
}

// ReviewPosition submits an edge candidate and parses the verdict.
func (r *grokReasoningRepository) ReviewPosition(ctx context.Context, req *dto.PositionReviewRequest) (*dto.PositionReviewResult, error) {
	payload := dto.ChatCompletionRequest{
		Model: r.cfg.Grok.Model,
		Messages: []dto.ChatMessage{
			{Role: "user", Content: BuildPositionReviewPrompt(req)},
		},
		Temperature: 0.2,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	apiURL := fmt.Sprintf("%s/chat/completions", r.cfg.Grok.BaseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("failed to create new http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+r.cfg.Grok.APIKey)

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to Grok API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		r.logger.Error("Received non-OK response from Grok API", logger.IntField("status_code", resp.StatusCode))
		return nil, fmt.Errorf("received non-OK response from Grok API: %d - %s", resp.StatusCode, string(body))
	}

	var chatResp dto.ChatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("invalid response from Grok API: no choices found")
	}

	jsonString := strings.Trim(chatResp.Choices[0].Message.Content, "`json\n`")

	var result dto.PositionReviewResult
	if err := json.Unmarshal([]byte(jsonString), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal review result from Grok response: %w", err)
	}
	if result.Recommendation == "" {
		return nil, fmt.Errorf("review result missing recommendation")
	}
	return &result, nil
}
