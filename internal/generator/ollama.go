// internal/generator/ollama.go
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aymanbm/rag-app-consommation/internal/common/config"
	"github.com/aymanbm/rag-app-consommation/internal/common/logger"
	"github.com/aymanbm/rag-app-consommation/internal/common/metrics"
)

// OllamaClient talks to a local Ollama endpoint. One attempt per call,
// bounded by the configured timeout; the deterministic template is the
// retry strategy.
type OllamaClient struct {
	baseURL     string
	model       string
	temperature float64
	timeout     time.Duration
	client      *http.Client
	log         logger.Logger
}

func NewOllamaClient(cfg config.LLMConfig, log logger.Logger) *OllamaClient {
	return &OllamaClient{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     time.Duration(cfg.Timeout) * time.Millisecond,
		// Timeout rides on the request context, not the client.
		client: &http.Client{},
		log:    log.WithFields(map[string]interface{}{"component": "ollama"}),
	}
}

type generateRequest struct {
	Model   string                 `json:"model"`
	Prompt  string                 `json:"prompt"`
	Stream  bool                   `json:"stream"`
	Options map[string]interface{} `json:"options,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate asks the model to rephrase the prompt's computed answer.
func (c *OllamaClient) Generate(ctx context.Context, prompt string) Result {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, _ := json.Marshal(generateRequest{
		Model:   c.model,
		Prompt:  prompt,
		Stream:  false,
		Options: map[string]interface{}{"temperature": c.temperature},
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewBuffer(body))
	if err != nil {
		return c.fallback(StatusFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return c.fallback(StatusTimedOut, err)
		}
		return c.fallback(StatusFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.fallback(StatusFailed, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return c.fallback(StatusFailed, err)
	}

	text := strings.TrimSpace(out.Response)
	if Unusable(text) {
		return c.fallback(StatusRefused, nil)
	}
	return Result{Status: StatusOK, Text: text}
}

func (c *OllamaClient) fallback(status Status, err error) Result {
	metrics.GeneratorFallbacks.WithLabelValues(string(status)).Inc()
	fields := map[string]interface{}{"status": string(status)}
	if err != nil {
		fields["error"] = err.Error()
	}
	c.log.Warn("generator unusable, deterministic template takes over", fields)
	return Result{Status: status}
}
