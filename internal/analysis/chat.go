package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/Weichenleeeee123/AI-issues-finder/pkg/model"
)

// ChatGenerator asks an OpenAI-compatible chat completion endpoint
// (ModelScope by default) for a structured report.
type ChatGenerator struct {
	client    openai.Client
	model     string
	maxTokens int
}

// NewChatGenerator creates a chat completion generator.
func NewChatGenerator(cfg Config, opts ...option.RequestOption) *ChatGenerator {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultModelScopeBaseURL
	}
	modelName := cfg.Model
	if modelName == "" {
		modelName = DefaultModelScopeModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
	}
	reqOpts = append(reqOpts, opts...)

	return &ChatGenerator{
		client:    openai.NewClient(reqOpts...),
		model:     modelName,
		maxTokens: maxTokens,
	}
}

// Generate requests the report. Failures fall back to the template report.
func (g *ChatGenerator) Generate(ctx context.Context, issue *model.EvaluatedIssue) (*model.Analysis, error) {
	return withFallback(ctx, ProviderModelScope, issue, func() (*model.Analysis, error) {
		return g.complete(ctx, issue)
	})
}

func (g *ChatGenerator) complete(ctx context.Context, issue *model.EvaluatedIssue) (*model.Analysis, error) {
	system, user := BuildPrompt(issue)

	params := openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		MaxTokens:   openai.Int(int64(g.maxTokens)),
		Temperature: openai.Float(0.7),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        "issue_analysis",
					Description: openai.String("Structured analysis of a GitHub issue"),
					Schema:      analysisSchema(),
					Strict:      openai.Bool(true),
				},
			},
		},
	}

	start := time.Now()
	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	slog.DebugContext(ctx, "analysis completion finished",
		"model", g.model,
		"duration_ms", time.Since(start).Milliseconds(),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens)

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}
	return decodeAnalysis(resp.Choices[0].Message.Content)
}

// analysisSchema returns the JSON schema of model.Analysis.
func analysisSchema() any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	return reflector.Reflect(&model.Analysis{})
}
