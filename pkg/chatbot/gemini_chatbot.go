// Package chatbot is a thin pass-through to a hosted generative model.
package chatbot

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.0-flash-001"

var ErrNotConfigured = errors.New("Gemini API key not configured")

type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type GeminiChatbot struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

func NewGeminiChatbot(ctx context.Context, apiKey, model string) (*GeminiChatbot, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiChatbot{
		client: client,
		model:  model,
		config: GenerationConfig(),
	}, nil
}

// GenerationConfig blocks medium-and-above harm in the four standard
// categories and caps output at 4096 tokens.
func GenerationConfig() *genai.GenerateContentConfig {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}
	safety := make([]*genai.SafetySetting, 0, len(categories))
	for _, c := range categories {
		safety = append(safety, &genai.SafetySetting{
			Category:  c,
			Threshold: genai.HarmBlockThresholdBlockMediumAndAbove,
		})
	}

	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.9),
		TopP:            genai.Ptr[float32](1),
		TopK:            genai.Ptr[float32](1),
		MaxOutputTokens: 4096,
		SafetySettings:  safety,
	}
}

func (g *GeminiChatbot) Model() string {
	return g.model
}

func (g *GeminiChatbot) Generate(ctx context.Context, prompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), g.config)
	if err != nil {
		return "", err
	}
	return result.Text(), nil
}
