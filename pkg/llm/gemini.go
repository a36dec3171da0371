package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bench-match-go/internal/config"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiClient 封装了 Google GenAI 客户端，用于单次提示词补全。
type GeminiClient struct {
	client    *genai.Client
	modelName string
	gen       *genai.GenerateContentConfig
}

// NewGeminiClient 创建一个使用 Gemini API 后端的客户端。
func NewGeminiClient(ctx context.Context, cfg config.LLMConfig) (*GeminiClient, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultGeminiModel
	}

	gen := &genai.GenerateContentConfig{}
	if cfg.Generation.Temperature != 0 {
		gen.Temperature = genai.Ptr(float32(cfg.Generation.Temperature))
	}
	if cfg.Generation.TopP != 0 {
		gen.TopP = genai.Ptr(float32(cfg.Generation.TopP))
	}
	if cfg.Generation.MaxTokens != 0 {
		gen.MaxOutputTokens = int32(cfg.Generation.MaxTokens)
	}

	return &GeminiClient{client: client, modelName: model, gen: gen}, nil
}

// Complete 将提示词发送给 Gemini，并拼接响应中的文本片段。
func (g *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.client == nil {
		return "", errors.New("gemini client is not initialized")
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), g.gen)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString(" ")
			}
			builder.WriteString(text)
		}
	}
	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}
	return output, nil
}

// Model 返回当前使用的模型名。
func (g *GeminiClient) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}
