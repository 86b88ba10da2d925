package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/platewise/backend/internal/nutrition"
)

const (
	visionRequestTimeout = 60 * time.Second
	visionMaxRetries     = 3
)

// VisionService analyzes meal photos through an OpenAI-compatible
// vision chat endpoint.
type VisionService struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
}

// NewVisionService creates a new VisionService instance
func NewVisionService() (*VisionService, error) {
	apiKey := os.Getenv("VISION_API_KEY")
	if apiKey == "" {
		apiKeyFile := os.Getenv("VISION_API_KEY_FILE")
		if apiKeyFile == "" {
			return nil, fmt.Errorf("VISION_API_KEY or VISION_API_KEY_FILE must be set")
		}

		apiKeyBytes, err := os.ReadFile(apiKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read API key file: %w", err)
		}

		apiKey = strings.TrimSpace(string(apiKeyBytes))
		if apiKey == "" {
			return nil, fmt.Errorf("API key file is empty")
		}
	}

	apiURL := os.Getenv("VISION_API_URL")
	if apiURL == "" {
		apiURL = "https://api.openai.com/v1/chat/completions"
	}

	model := os.Getenv("VISION_MODEL")
	if model == "" {
		model = "gpt-4o"
	}

	return &VisionService{
		apiKey: apiKey,
		apiURL: apiURL,
		model:  model,
		client: &http.Client{
			Timeout: visionRequestTimeout,
		},
	}, nil
}

// ContentPart is one element of a multimodal chat message.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL carries an inline data URL for the vision endpoint.
type ImageURL struct {
	URL string `json:"url"`
}

// VisionMessage is a chat message whose content may mix text and images.
type VisionMessage struct {
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

// VisionRequest is the chat-completions payload for a vision call.
type VisionRequest struct {
	Model          string            `json:"model"`
	Messages       []VisionMessage   `json:"messages"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
	MaxTokens      int               `json:"max_tokens,omitempty"`
	Temperature    float64           `json:"temperature"`
}

const analysisSystemPrompt = `You are a professional nutritionist analyzing a photo of a meal. Respond only with JSON using this structure:
{
    "meal_name": "Descriptive name of the meal",
    "calories": 640,
    "macronutrients": [
        {"name": "Protein", "amount": 42, "unit": "g"},
        {"name": "Carbohydrates", "amount": 55, "unit": "g"},
        {"name": "Fat", "amount": 22, "unit": "g"},
        {"name": "Fiber", "amount": 6, "unit": "g"}
    ],
    "micronutrients": [
        {"name": "Sodium", "amount": 820, "unit": "mg"},
        {"name": "Vitamin C", "amount": 35, "unit": "mg"}
    ],
    "benefits": ["High in lean protein"],
    "concerns": ["Sodium is on the higher side"],
    "suggestions": ["Add a side of leafy greens"]
}

Note: amounts must be numbers, not strings. Estimate portion sizes from visual cues.
If the image does not contain food, respond with {"error": "no food detected"}.`

// AnalyzeMealImage sends the image to the vision endpoint and returns
// the normalized analysis. Failures are classified; no fabricated
// nutrition data is ever substituted for a provider failure.
func (s *VisionService) AnalyzeMealImage(ctx context.Context, imageData []byte, mimeType string, profile *nutrition.ResolvedProfile) (*nutrition.Analysis, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(imageData))

	userPrompt := "Analyze this meal photo and estimate its full nutrient breakdown."
	if profile != nil {
		userPrompt += fmt.Sprintf(" The eater is a %d year old %s whose goal is %s; tailor benefits, concerns and suggestions to that goal.",
			profile.Age, profile.Gender, profile.Goal)
	}

	reqBody := VisionRequest{
		Model: s.model,
		Messages: []VisionMessage{
			{
				Role:    "system",
				Content: []ContentPart{{Type: "text", Text: analysisSystemPrompt}},
			},
			{
				Role: "user",
				Content: []ContentPart{
					{Type: "text", Text: userPrompt},
					{Type: "image_url", ImageURL: &ImageURL{URL: dataURL}},
				},
			},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
		MaxTokens:      1500,
		Temperature:    0.2,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	content, err := s.callWithRetry(ctx, jsonData)
	if err != nil {
		return nil, err
	}

	if reason, refused := detectRefusal(content); refused {
		return nil, NewUpstreamError(reason, fmt.Errorf("provider declined to analyze the image"))
	}

	repaired, err := repairJSON(content)
	if err != nil {
		log.Printf("[VisionService] unrecoverable response payload: %v", err)
		return nil, NewUpstreamError(ReasonMalformedResponse, err)
	}

	analysis, err := nutrition.NormalizeJSON(repaired)
	if err != nil {
		return nil, NewUpstreamError(ReasonMalformedResponse, err)
	}

	return analysis, nil
}

// GenerateInsights produces a personalized narrative for an analysis
// that has already been persisted. It is a text-only call on the same
// endpoint.
func (s *VisionService) GenerateInsights(ctx context.Context, analysis *nutrition.Analysis, profile *nutrition.ResolvedProfile) (string, error) {
	payload, err := json.Marshal(analysis)
	if err != nil {
		return "", fmt.Errorf("failed to marshal analysis: %w", err)
	}

	systemPrompt := "You are a professional nutritionist. Given a meal's nutrient breakdown and the eater's profile, write 3-5 sentences of specific, actionable insight. Respond with plain text, no JSON."

	userPrompt := fmt.Sprintf("Meal analysis: %s", payload)
	if profile != nil {
		userPrompt += fmt.Sprintf("\nEater: %d year old %s, %.0fkg, %.0fcm, activity level %s, daily target %d kcal, goal: %s.",
			profile.Age, profile.Gender, profile.WeightKg, profile.HeightCm,
			profile.ActivityLevel, profile.TargetCalories, profile.Goal)
	}

	reqBody := VisionRequest{
		Model: s.model,
		Messages: []VisionMessage{
			{Role: "system", Content: []ContentPart{{Type: "text", Text: systemPrompt}}},
			{Role: "user", Content: []ContentPart{{Type: "text", Text: userPrompt}}},
		},
		MaxTokens:   600,
		Temperature: 0.6,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	content, err := s.callWithRetry(ctx, jsonData)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(content), nil
}

// callWithRetry posts the payload, retrying rate limits and transient
// server errors with bounded exponential backoff.
func (s *VisionService) callWithRetry(ctx context.Context, jsonData []byte) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= visionMaxRetries; attempt++ {
		content, retryable, err := s.callOnce(ctx, jsonData)
		if err == nil {
			return content, nil
		}
		lastErr = err

		if !retryable || attempt == visionMaxRetries {
			break
		}

		backoff := time.Duration(1<<uint(attempt-1)) * time.Second
		log.Printf("[VisionService] attempt %d/%d failed, retrying in %s: %v", attempt, visionMaxRetries, backoff, err)
		select {
		case <-ctx.Done():
			return "", NewUpstreamError(ReasonTimeout, ctx.Err())
		case <-time.After(backoff):
		}
	}

	return "", lastErr
}

func (s *VisionService) callOnce(ctx context.Context, jsonData []byte) (content string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, "POST", s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", false, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))

	resp, err := s.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", false, NewUpstreamError(ReasonTimeout, err)
		}
		var netTimeout interface{ Timeout() bool }
		if errors.As(err, &netTimeout) && netTimeout.Timeout() {
			return "", false, NewUpstreamError(ReasonTimeout, err)
		}
		return "", true, NewUpstreamError(ReasonMalformedResponse, fmt.Errorf("failed to send request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, NewUpstreamError(ReasonMalformedResponse, fmt.Errorf("failed to read response: %w", err))
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", true, NewUpstreamError(ReasonRateLimited, fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
	case resp.StatusCode == http.StatusRequestEntityTooLarge || resp.StatusCode == http.StatusUnsupportedMediaType:
		return "", false, NewUpstreamError(ReasonUnsupportedFormat, fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
	case resp.StatusCode >= 500:
		return "", true, NewUpstreamError(ReasonMalformedResponse, fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
	case resp.StatusCode != http.StatusOK:
		return "", false, NewUpstreamError(ReasonMalformedResponse, fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return "", false, NewUpstreamError(ReasonMalformedResponse, fmt.Errorf("failed to decode response: %w", err))
	}

	if len(result.Choices) == 0 {
		return "", false, NewUpstreamError(ReasonMalformedResponse, fmt.Errorf("no response from API"))
	}

	return result.Choices[0].Message.Content, false, nil
}

// refusalPhrases are substrings a provider emits instead of JSON when
// it declines to analyze the content.
var refusalPhrases = []string{
	"i cannot",
	"i can't",
	"i'm unable",
	"i am unable",
	"cannot assist",
	"against my guidelines",
	"content policy",
	"no food detected",
}

func detectRefusal(content string) (UpstreamReason, bool) {
	trimmed := strings.TrimSpace(content)

	// A JSON error object is the structured refusal path.
	var errObj struct {
		Error string `json:"error"`
	}
	if json.Unmarshal([]byte(trimmed), &errObj) == nil && errObj.Error != "" {
		if strings.Contains(strings.ToLower(errObj.Error), "no food") {
			return ReasonUnsupportedFormat, true
		}
		return ReasonContentPolicy, true
	}

	// Prose refusals never start with a JSON delimiter.
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return "", false
	}
	lower := strings.ToLower(trimmed)
	for _, phrase := range refusalPhrases {
		if strings.Contains(lower, phrase) {
			return ReasonContentPolicy, true
		}
	}
	return "", false
}

// repairJSON strips markdown fences and trailing junk, then balances
// braces for responses truncated mid-object. It returns an error when
// no JSON object can be recovered.
func repairJSON(content string) ([]byte, error) {
	s := strings.TrimSpace(content)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return nil, fmt.Errorf("no JSON found in response")
	}
	s = s[start:]

	if json.Valid([]byte(s)) {
		return []byte(s), nil
	}

	// Truncated payload: cut back to the last complete value and close
	// whatever is still open.
	depth := 0
	inString := false
	escaped := false
	lastComplete := -1
	var stack []byte

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
			stack = append(stack, c)
		case '}', ']':
			depth--
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			if depth == 0 {
				lastComplete = i
			}
		}
	}

	if lastComplete >= 0 {
		candidate := s[:lastComplete+1]
		if json.Valid([]byte(candidate)) {
			return []byte(candidate), nil
		}
	}

	// Close open strings and containers in reverse order.
	repaired := strings.TrimRight(s, ", \n\t")
	if inString {
		repaired += `"`
	}
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			repaired += "}"
		} else {
			repaired += "]"
		}
	}

	if json.Valid([]byte(repaired)) {
		return []byte(repaired), nil
	}
	return nil, fmt.Errorf("response is not valid JSON after repair")
}
