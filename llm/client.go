package llm

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// systemMessage is the default system message for the advisor
const systemMessage = "You are a Feng Shui and BaZi (八字) consultant. Base every observation on what is actually visible in the images and on the user's profile. Never invent objects or colors. Be warm, specific and practical."

// Client is an OpenAI-compatible chat completions client
type Client struct {
	model       string
	temperature float64
	http        *resty.Client
	logger      *zap.Logger
}

var _ Provider = (*Client)(nil)

// NewClient creates a new OpenAI-compatible client
func NewClient(endpoint, apiKey, model string, temperature float64, logger *zap.Logger) *Client {
	http := resty.New().
		SetBaseURL(strings.TrimRight(endpoint, "/")).
		SetRetryCount(2).
		SetRetryWaitTime(1*time.Second).
		SetRetryMaxWaitTime(5*time.Second).
		SetHeader("Content-Type", "application/json")
	if apiKey != "" {
		http.SetAuthToken(apiKey)
	}

	return &Client{
		model:       model,
		temperature: temperature,
		http:        http,
		logger:      logger,
	}
}

// Message represents a chat message. Content is a string or a list of
// content parts for vision requests.
type Message struct {
	Role    string      `json:"role"` // "system", "user", or "assistant"
	Content interface{} `json:"content"`
}

// ContentPart is one element of a multimodal message
type ContentPart struct {
	Type     string    `json:"type"` // "text" or "image_url"
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL carries an image as a data URL
type ImageURL struct {
	URL string `json:"url"`
}

// ChatRequest represents an OpenAI chat completion request
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Stream      bool      `json:"stream,omitempty"`
}

// StreamChunk represents a streaming response chunk
type StreamChunk struct {
	ID      string `json:"id"`
	Choices []struct {
		Index int `json:"index"`
		Delta struct {
			Role    string `json:"role,omitempty"`
			Content string `json:"content,omitempty"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
}

// ChatResponse represents an OpenAI chat completion response
type ChatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		Finish string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Name identifies the provider and model
func (c *Client) Name() string {
	return "openai:" + c.model
}

// ChatCompletion sends a chat completion request
func (c *Client) ChatCompletion(ctx context.Context, messages []Message) (string, error) {
	var chatResp ChatResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(ChatRequest{
			Model:       c.model,
			Messages:    messages,
			Temperature: c.temperature,
			MaxTokens:   2000,
		}).
		SetResult(&chatResp).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("API error %d: %s", resp.StatusCode(), resp.String())
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	c.logger.Debug("chat completion finished",
		zap.String("model", c.model),
		zap.Int("total_tokens", chatResp.Usage.TotalTokens),
	)
	return chatResp.Choices[0].Message.Content, nil
}

// ChatCompletionStream sends a streaming chat completion request
func (c *Client) ChatCompletionStream(ctx context.Context, messages []Message, callback StreamCallback) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "text/event-stream").
		SetBody(ChatRequest{
			Model:       c.model,
			Messages:    messages,
			Temperature: c.temperature,
			MaxTokens:   2000,
			Stream:      true,
		}).
		SetDoNotParseResponse(true).
		Post("/chat/completions")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.IsError() {
		var sb strings.Builder
		scanner := bufio.NewScanner(body)
		for scanner.Scan() {
			sb.WriteString(scanner.Text())
		}
		return fmt.Errorf("API error %d: %s", resp.StatusCode(), sb.String())
	}

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		// SSE format: "data: {...}"
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")
		if data == "[DONE]" {
			break
		}

		var chunk StreamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			continue // Skip malformed chunks
		}

		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
			if err := callback(chunk.Choices[0].Delta.Content); err != nil {
				return fmt.Errorf("callback error: %w", err)
			}
		}

		if len(chunk.Choices) > 0 && chunk.Choices[0].FinishReason != nil {
			break
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("stream reading error: %w", err)
	}
	return nil
}

// Generate answers a prompt with optional images
func (c *Client) Generate(ctx context.Context, prompt string, images []Image) (string, error) {
	return c.ChatCompletion(ctx, buildMessages(prompt, images))
}

// GenerateStream streams the answer to a prompt with optional images
func (c *Client) GenerateStream(ctx context.Context, prompt string, images []Image, callback StreamCallback) error {
	return c.ChatCompletionStream(ctx, buildMessages(prompt, images), callback)
}

// Speak is not available on chat completion endpoints
func (c *Client) Speak(ctx context.Context, text string) (*Speech, error) {
	return nil, ErrAudioUnsupported
}

func buildMessages(prompt string, images []Image) []Message {
	system := Message{Role: "system", Content: systemMessage}
	if len(images) == 0 {
		return []Message{system, {Role: "user", Content: prompt}}
	}

	parts := make([]ContentPart, 0, len(images)+1)
	parts = append(parts, ContentPart{Type: "text", Text: prompt})
	for _, img := range images {
		parts = append(parts, ContentPart{
			Type:     "image_url",
			ImageURL: &ImageURL{URL: dataURL(img)},
		})
	}
	return []Message{system, {Role: "user", Content: parts}}
}

func dataURL(img Image) string {
	mime := img.MIMEType
	if mime == "" {
		mime = "image/jpeg"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}
