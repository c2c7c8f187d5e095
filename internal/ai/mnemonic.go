package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// MnemonicClient talks to the OpenAI chat completions API to produce
// short memory aids for study cards.
type MnemonicClient struct {
	apiKey      string
	apiURL      string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
}

// New creates a mnemonic client from the OPENAI_API_KEY environment
// variable.
func New() (*MnemonicClient, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
	}

	return &MnemonicClient{
		apiKey:      apiKey,
		apiURL:      "https://api.openai.com/v1/chat/completions",
		maxTokens:   100,
		temperature: 0.7,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// Message represents a message in the chat conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents a request to the chat completions API
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

// ChatResponse represents a response from the chat completions API
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GenerateMnemonic produces a one or two sentence mnemonic linking a
// Japanese character to its meanings.
func (c *MnemonicClient) GenerateMnemonic(character string, meanings []string) (string, error) {
	prompt := fmt.Sprintf(
		"Create a short, vivid mnemonic (1-2 sentences) to help remember that the Japanese item '%s' means '%s'. Return only the mnemonic.",
		character, strings.Join(meanings, ", "),
	)

	messages := []Message{
		{Role: "system", Content: "You are a Japanese study assistant. Your job is to create short, memorable mnemonics for radicals, kanji and vocabulary."},
		{Role: "user", Content: prompt},
	}

	return c.complete(messages, c.maxTokens, c.temperature)
}

// GenerateReadingMnemonic produces a mnemonic tying a kanji to its
// primary reading.
func (c *MnemonicClient) GenerateReadingMnemonic(character, reading string) (string, error) {
	prompt := fmt.Sprintf(
		"Create a short mnemonic (1-2 sentences) to help remember that the kanji '%s' is read '%s'. Return only the mnemonic.",
		character, reading,
	)

	messages := []Message{
		{Role: "system", Content: "You are a Japanese study assistant. Your job is to create short, memorable mnemonics for kanji readings."},
		{Role: "user", Content: prompt},
	}

	return c.complete(messages, c.maxTokens, c.temperature)
}

func (c *MnemonicClient) complete(messages []Message, maxTokens int, temperature float64) (string, error) {
	request := ChatRequest{
		Model:       "gpt-3.5-turbo",
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	requestData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %v", err)
	}

	req, err := http.NewRequest("POST", c.apiURL, bytes.NewBuffer(requestData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	var response ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response: %v", err)
	}

	if response.Error != nil {
		return "", fmt.Errorf("API error: %s", response.Error.Message)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}
