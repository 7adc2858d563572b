// Package describe fills in missing video descriptions with an LLM.
package describe

import (
	"context"
	"fmt"
	"strings"

	groq "github.com/conneroisu/groq-go"
)

const (
	defaultModel = "llama-3.3-70b-versatile"
	systemPrompt = "You write one-paragraph YouTube Shorts descriptions. " +
		"Plain text, no hashtags, no emoji, at most 60 words."
)

type Generator interface {
	Describe(ctx context.Context, title string) (string, error)
}

var _ Generator = (*GroqClient)(nil)

type GroqClient struct {
	client *groq.Client
	model  groq.ChatModel
}

func NewGroq(apiKey, model string) (*GroqClient, error) {
	client, err := groq.NewClient(apiKey)
	if err != nil {
		return nil, fmt.Errorf("create groq client: %w", err)
	}

	if model == "" {
		model = defaultModel
	}

	return &GroqClient{
		client: client,
		model:  groq.ChatModel(model),
	}, nil
}

func (c *GroqClient) Describe(ctx context.Context, title string) (string, error) {
	resp, err := c.client.ChatCompletion(ctx, groq.ChatCompletionRequest{
		Model: c.model,
		Messages: []groq.ChatCompletionMessage{
			{Role: groq.RoleSystem, Content: systemPrompt},
			{Role: groq.RoleUser, Content: fmt.Sprintf("Write a description for a short titled %q.", title)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("generate description: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response")
	}

	return cleanDescription(resp.Choices[0].Message.Content)
}

func cleanDescription(raw string) (string, error) {
	description := strings.TrimSpace(raw)
	description = strings.Trim(description, "\"'")
	description = strings.TrimSpace(description)

	if description == "" {
		return "", fmt.Errorf("empty response")
	}

	return description, nil
}
