// Package ai implements the generation collaborators on top of Google's
// Gemini API: chat, code, image generation, image recognition, and
// tool-grounded web search.
package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"google.golang.org/genai"

	"github.com/pentabot/pentabot/internal/config"
	"github.com/pentabot/pentabot/internal/session"
)

// ErrEmptyResponse is returned when the provider call succeeds but yields no
// usable content. Callers treat it the same as a failed generation.
var ErrEmptyResponse = errors.New("empty response from model")

// Client implements session.Generator against the Gemini API.
type Client struct {
	genaiClient *genai.Client
	log         *slog.Logger
	cfg         config.GeminiConfig
	retryDelay  time.Duration
}

var _ session.Generator = (*Client)(nil)

// NewClient creates a Gemini-backed generation client.
func NewClient(ctx context.Context, cfg config.GeminiConfig, log *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	gi, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	logger := log.With("component", "gemini_client")
	logger.Info("Gemini client initialized", "chat_model", cfg.ChatModel, "image_model", cfg.ImageModel)
	return &Client{
		genaiClient: gi,
		log:         logger,
		cfg:         cfg,
		retryDelay:  time.Duration(cfg.RetryDelaySeconds) * time.Second,
	}, nil
}

func (c *Client) contentConfig(instruction string) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature: &c.cfg.Temperature,
	}
	if instruction != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: instruction}}}
	}
	return cfg
}

func (c *Client) generateContentWithRetries(ctx context.Context, modelName string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	var resp *genai.GenerateContentResponse
	var err error

	for i := 0; i <= c.cfg.MaxRetries; i++ {
		resp, err = c.genaiClient.Models.GenerateContent(ctx, modelName, contents, cfg)
		if err == nil {
			return resp, nil
		}

		c.log.WarnContext(ctx, "Gemini API call failed", "attempt", i+1, "max_retries", c.cfg.MaxRetries, "error", err)

		var apiErr *genai.APIError
		if errors.As(err, &apiErr) && (apiErr.Code == http.StatusInternalServerError || apiErr.Code == http.StatusServiceUnavailable) {
			if i < c.cfg.MaxRetries {
				c.log.InfoContext(ctx, "Retrying Gemini API call", "delay", c.retryDelay, "code", apiErr.Code)
				time.Sleep(c.retryDelay)
				continue
			}
			return nil, fmt.Errorf("gemini API call failed after %d retries (code %d): %w", c.cfg.MaxRetries, apiErr.Code, err)
		}

		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}
	return nil, err
}

// GenerateText produces an assistant reply for the trimmed conversation.
func (c *Client) GenerateText(ctx context.Context, conversation []session.Turn) (string, error) {
	if len(conversation) == 0 {
		return "", fmt.Errorf("conversation is empty")
	}

	contents := make([]*genai.Content, 0, len(conversation))
	for _, t := range conversation {
		role := genai.Role(genai.RoleUser)
		if t.Role == session.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(t.Content, role))
	}

	resp, err := c.generateContentWithRetries(ctx, c.cfg.ChatModel, contents, c.contentConfig(ChatSystemInstruction))
	if err != nil {
		return "", err
	}
	return c.extractText(ctx, resp, "text")
}

// GenerateCode produces code with explanations for a single prompt.
func (c *Client) GenerateCode(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	resp, err := c.generateContentWithRetries(ctx, c.cfg.CodeModel, contents, c.contentConfig(CodeSystemInstruction))
	if err != nil {
		return "", err
	}
	return c.extractText(ctx, resp, "code")
}

// GenerateImage renders an image for the prompt. The raw prompt is first
// rewritten by the chat model into a richer image prompt, then passed to the
// image model. Returns the encoded image bytes.
func (c *Client) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	improved := prompt
	contents := []*genai.Content{genai.NewContentFromText(ImagePromptInstruction+prompt, genai.RoleUser)}
	if resp, err := c.generateContentWithRetries(ctx, c.cfg.ChatModel, contents, c.contentConfig("")); err == nil {
		if text, extractErr := c.extractText(ctx, resp, "image_prompt"); extractErr == nil {
			improved = text
		}
	} else {
		// Prompt improvement is best effort; fall back to the raw prompt.
		c.log.WarnContext(ctx, "Image prompt improvement failed, using raw prompt", "error", err)
	}

	resp, err := c.genaiClient.Models.GenerateImages(ctx, c.cfg.ImageModel, improved, nil)
	if err != nil {
		c.log.ErrorContext(ctx, "Gemini image generation failed", "error", err)
		return nil, fmt.Errorf("image generation failed: %w", err)
	}

	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil || len(resp.GeneratedImages[0].Image.ImageBytes) == 0 {
		c.log.WarnContext(ctx, "Image generation returned no images")
		return nil, ErrEmptyResponse
	}
	return resp.GeneratedImages[0].Image.ImageBytes, nil
}

// RecognizeImage describes the image stored at imagePath, guided by prompt.
func (c *Client) RecognizeImage(ctx context.Context, imagePath, prompt string) (string, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to read image file: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("image file %s is empty", imagePath)
	}
	mimeType := http.DetectContentType(data)

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromBytes(data, mimeType),
		}, genai.RoleUser),
	}

	resp, err := c.generateContentWithRetries(ctx, c.cfg.VisionModel, contents, c.contentConfig(""))
	if err != nil {
		return "", err
	}
	return c.extractText(ctx, resp, "vision")
}

// Search answers the query grounded in web search results via the
// GoogleSearch tool.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(query, genai.RoleUser)}

	cfg := c.contentConfig(SearchSystemInstruction)
	cfg.Tools = append(cfg.Tools, &genai.Tool{GoogleSearch: &genai.GoogleSearch{}})

	resp, err := c.generateContentWithRetries(ctx, c.cfg.ChatModel, contents, cfg)
	if err != nil {
		return "", err
	}
	return c.extractText(ctx, resp, "search")
}

func (c *Client) extractText(ctx context.Context, resp *genai.GenerateContentResponse, op string) (string, error) {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
		reason := fmt.Sprintf("%v", resp.PromptFeedback.BlockReason)
		if resp.PromptFeedback.BlockReasonMessage != "" {
			reason = resp.PromptFeedback.BlockReasonMessage
		}
		c.log.ErrorContext(ctx, "Gemini request blocked", "operation", op, "reason", reason)
		return "", fmt.Errorf("%s request blocked by safety filter: %s", op, reason)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		c.log.WarnContext(ctx, "Gemini response missing content", "operation", op)
		return "", ErrEmptyResponse
	}

	text := resp.Text()
	if text == "" {
		c.log.WarnContext(ctx, "Gemini response text is empty", "operation", op)
		return "", ErrEmptyResponse
	}
	return text, nil
}
