package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	providerMistral       = "mistral"
	DefaultMistralBaseURL = "https://api.mistral.ai"
	DefaultMistralModel   = "mistral-small-latest"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MistralClient - клиент chat completions API Mistral
type MistralClient struct {
	apiKey     string
	modelName  string
	baseURL    string
	httpClient *http.Client
}

func NewMistralClient(apiKey, modelName, baseURL string) *MistralClient {
	if modelName == "" {
		modelName = DefaultMistralModel
	}
	if baseURL == "" {
		baseURL = DefaultMistralBaseURL
	}
	return &MistralClient{
		apiKey:     apiKey,
		modelName:  modelName,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

func (c *MistralClient) Name() string {
	return fmt.Sprintf("%s:%s", providerMistral, c.modelName)
}

// Generate отправляет системную инструкцию и запрос пользователя.
// Mistral не принимает схему ответа, поэтому она добавляется в системную инструкцию,
// а от API требуется только режим json_object.
func (c *MistralClient) Generate(ctx context.Context, req Request) (string, error) {
	system := req.System
	if req.Schema != nil {
		schemaJSON, err := json.Marshal(req.Schema)
		if err != nil {
			return "", fmt.Errorf("error marshaling schema: %w", err)
		}
		system += "\n\nRespond ONLY with a JSON object matching this JSON schema:\n" + string(schemaJSON)
	}

	messages := make([]chatMessage, 0, 2)
	if strings.TrimSpace(system) != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.User})

	requestBody := map[string]interface{}{
		"model":           c.modelName,
		"messages":        messages,
		"response_format": map[string]string{"type": "json_object"},
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("error marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", classify(providerMistral, fmt.Errorf("error making request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classify(providerMistral, fmt.Errorf("error reading response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", NewError(KindUnavailable, providerMistral,
			fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(string(body), 512)))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return "", NewError(KindUnavailable, providerMistral, fmt.Errorf("error unmarshaling response: %w", err))
	}

	if len(result.Choices) == 0 || strings.TrimSpace(result.Choices[0].Message.Content) == "" {
		return "", NewError(KindUnavailable, providerMistral, errors.New("no choices in response"))
	}

	return result.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
