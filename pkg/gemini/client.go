package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// FailureKind categorizes provider failures so callers can decide between
// retrying, falling back, and surfacing.
type FailureKind string

const (
	FailureRateLimited    FailureKind = "rate_limited"
	FailureQuotaExhausted FailureKind = "quota_exhausted"
	FailureServerError    FailureKind = "server_error"
	FailureNetworkError   FailureKind = "network_error"
	FailureMalformed      FailureKind = "malformed_response"
)

// ProviderError is a categorized failure from the generation service.
type ProviderError struct {
	Kind       FailureKind
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("gemini: %s (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("gemini: %s: %s", e.Kind, e.Message)
}

// Retryable reports whether the failure class is transient. Quota exhaustion
// is permanent-for-now and must not be retried.
func (e *ProviderError) Retryable() bool {
	switch e.Kind {
	case FailureRateLimited, FailureServerError, FailureNetworkError:
		return true
	default:
		return false
	}
}

// Client issues generateContent requests against the Gemini REST API.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient creates a Gemini client. baseURL is the API root
// (e.g. https://generativelanguage.googleapis.com/v1beta).
func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   strings.TrimPrefix(strings.TrimSpace(model), "models/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// --- wire types ---

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Role  string         `json:"role,omitempty"`
	Parts []generatePart `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	TopP            float64 `json:"topP"`
}

type generateRequest struct {
	SystemInstruction *generateContent  `json:"systemInstruction,omitempty"`
	Contents          []generateContent `json:"contents"`
	GenerationConfig  generationConfig  `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content      generateContent `json:"content"`
		FinishReason string          `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// GenerateResult is the successful outcome of a generation call.
type GenerateResult struct {
	Text         string
	FinishReason string
	BlockReason  string
	TotalTokens  int
}

// GenerateOptions tunes one generation call.
type GenerateOptions struct {
	Temperature     float64
	MaxOutputTokens int
	TopP            float64
}

// GenerateContent performs a single text-completion call. Failures are
// returned as *ProviderError with the kind already classified.
func (c *Client) GenerateContent(ctx context.Context, systemText, userText string, opts GenerateOptions) (*GenerateResult, error) {
	if c.apiKey == "" {
		return nil, &ProviderError{Kind: FailureQuotaExhausted, Message: "GEMINI_API_KEY is not configured"}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	reqBody := generateRequest{
		SystemInstruction: &generateContent{Parts: []generatePart{{Text: systemText}}},
		Contents: []generateContent{
			{Role: "user", Parts: []generatePart{{Text: userText}}},
		},
		GenerationConfig: generationConfig{
			Temperature:     opts.Temperature,
			MaxOutputTokens: opts.MaxOutputTokens,
			TopP:            opts.TopP,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &ProviderError{Kind: FailureMalformed, Message: "failed to encode request: " + err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, &ProviderError{Kind: FailureNetworkError, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Context cancellation propagates as-is so the caller can stop the
		// retry schedule instead of reclassifying it.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &ProviderError{Kind: FailureNetworkError, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProviderError{Kind: FailureNetworkError, Message: "failed to read response: " + err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyHTTPFailure(resp.StatusCode, body)
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return nil, &ProviderError{Kind: FailureMalformed, StatusCode: resp.StatusCode, Message: "failed to decode response: " + err.Error()}
	}

	result := &GenerateResult{
		BlockReason: genResp.PromptFeedback.BlockReason,
		TotalTokens: genResp.UsageMetadata.TotalTokenCount,
	}
	if len(genResp.Candidates) > 0 {
		c0 := genResp.Candidates[0]
		result.FinishReason = c0.FinishReason
		var texts []string
		for _, p := range c0.Content.Parts {
			if t := strings.TrimSpace(p.Text); t != "" {
				texts = append(texts, t)
			}
		}
		result.Text = strings.Join(texts, "\n")
	}
	return result, nil
}

// classifyHTTPFailure maps a non-200 response to a ProviderError kind.
// A 429 that names quota exhaustion is permanent; any other 429 is a
// transient rate limit.
func classifyHTTPFailure(status int, body []byte) *ProviderError {
	msg := string(body)
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		msg = apiErr.Error.Message
	}
	if len(msg) > 400 {
		msg = msg[:400]
	}

	switch {
	case status == http.StatusTooManyRequests:
		if strings.Contains(apiErr.Error.Status, "RESOURCE_EXHAUSTED") ||
			strings.Contains(msg, "exceeded your current quota") {
			return &ProviderError{Kind: FailureQuotaExhausted, StatusCode: status, Message: msg}
		}
		return &ProviderError{Kind: FailureRateLimited, StatusCode: status, Message: msg}
	case status >= 500:
		return &ProviderError{Kind: FailureServerError, StatusCode: status, Message: msg}
	default:
		return &ProviderError{Kind: FailureMalformed, StatusCode: status, Message: msg}
	}
}
