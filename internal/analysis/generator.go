// Package analysis generates structured analysis reports for issues.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Weichenleeeee123/AI-issues-finder/pkg/model"
)

// Generator produces an analysis report for one issue.
type Generator interface {
	Generate(ctx context.Context, issue *model.EvaluatedIssue) (*model.Analysis, error)
}

// Provider names an analysis backend.
type Provider string

const (
	ProviderTemplate   Provider = "template"
	ProviderModelScope Provider = "modelscope"
	ProviderAnthropic  Provider = "anthropic"
)

// Providers lists the supported providers.
func Providers() []string {
	return []string{string(ProviderTemplate), string(ProviderModelScope), string(ProviderAnthropic)}
}

const (
	DefaultModelScopeBaseURL = "https://api-inference.modelscope.cn/v1"
	DefaultModelScopeModel   = "qwen-turbo"
	DefaultAnthropicModel    = "claude-haiku-4-5-20251001"
	defaultMaxTokens         = 1500
)

// Config selects and configures a generator.
type Config struct {
	Provider  string
	Model     string
	BaseURL   string
	APIKey    string
	MaxTokens int
}

// New creates the generator for cfg.Provider. Model-backed providers
// without an API key fall back to the template generator.
func New(cfg Config) (Generator, error) {
	provider := Provider(strings.ToLower(strings.TrimSpace(cfg.Provider)))
	if provider == "" {
		provider = ProviderTemplate
	}

	switch provider {
	case ProviderTemplate:
		return NewTemplateGenerator(), nil
	case ProviderModelScope, ProviderAnthropic:
		if cfg.APIKey == "" {
			slog.Warn("no API key configured for analysis provider, using template", "provider", provider)
			return NewTemplateGenerator(), nil
		}
		if provider == ProviderModelScope {
			return NewChatGenerator(cfg), nil
		}
		return NewClaudeGenerator(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported analysis provider %q (valid: %s)", cfg.Provider, strings.Join(Providers(), ", "))
	}
}

var errEmptyAnalysis = errors.New("model returned an empty analysis")

// decodeAnalysis reads a model response as JSON, falling back to the
// markdown section format.
func decodeAnalysis(content string) (*model.Analysis, error) {
	text := stripFences(content)
	if text == "" {
		return nil, errEmptyAnalysis
	}

	var a model.Analysis
	if err := json.Unmarshal([]byte(text), &a); err != nil {
		return ParseSections(text), nil
	}
	if a.Summary == "" && a.TechnicalAnalysis == "" {
		return nil, errEmptyAnalysis
	}
	return &a, nil
}

// withFallback runs generate and returns the template report if it fails.
func withFallback(ctx context.Context, provider Provider, issue *model.EvaluatedIssue, generate func() (*model.Analysis, error)) (*model.Analysis, error) {
	a, err := generate()
	if err == nil {
		a.Provider = string(provider)
		return a, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	slog.WarnContext(ctx, "analysis generation failed, using template",
		"provider", provider,
		"issue", issue.Ref().String(),
		"error", err)
	return NewTemplateGenerator().Generate(ctx, issue)
}
