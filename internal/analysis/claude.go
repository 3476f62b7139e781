package analysis

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/Weichenleeeee123/AI-issues-finder/pkg/model"
)

// ClaudeGenerator asks the Anthropic Messages API for a report.
type ClaudeGenerator struct {
	api       *anthropic.Client
	model     anthropic.Model
	maxTokens int
}

// NewClaudeGenerator creates an Anthropic-backed generator.
func NewClaudeGenerator(cfg Config, opts ...option.RequestOption) *ClaudeGenerator {
	reqOpts := []option.RequestOption{}
	if cfg.APIKey != "" {
		reqOpts = append(reqOpts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.BaseURL))
	}
	reqOpts = append(reqOpts, opts...)

	modelName := cfg.Model
	if modelName == "" {
		modelName = DefaultAnthropicModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	client := anthropic.NewClient(reqOpts...)
	return &ClaudeGenerator{
		api:       &client,
		model:     anthropic.Model(modelName),
		maxTokens: maxTokens,
	}
}

// Generate requests the report. Failures fall back to the template report.
func (g *ClaudeGenerator) Generate(ctx context.Context, issue *model.EvaluatedIssue) (*model.Analysis, error) {
	return withFallback(ctx, ProviderAnthropic, issue, func() (*model.Analysis, error) {
		return g.complete(ctx, issue)
	})
}

func (g *ClaudeGenerator) complete(ctx context.Context, issue *model.EvaluatedIssue) (*model.Analysis, error) {
	system, user := BuildPrompt(issue)

	msg, err := g.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     g.model,
		MaxTokens: int64(g.maxTokens),
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic API call: %w", err)
	}

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return nil, fmt.Errorf("no text content in API response")
	}

	return decodeAnalysis(text)
}
