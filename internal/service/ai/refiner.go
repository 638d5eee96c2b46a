package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// maxBriefLength 精炼结果的最大字符数
const maxBriefLength = 1200

var ErrEmptyBrief = errors.New("refiner returned an empty brief")

// Refiner rewrites short user prompts into a site brief using a chat model.
type Refiner struct {
	chain      compose.Runnable[map[string]any, *schema.Message]
	domainHint string
}

// NewRefiner compiles the refinement chain around chatModel.
func NewRefiner(ctx context.Context, chatModel model.BaseChatModel, domainHint string) (*Refiner, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("chat model is required")
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(briefSystemPrompt),
		schema.UserMessage(briefUserPrompt),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile refiner chain: %w", err)
	}

	return &Refiner{chain: runnable, domainHint: domainHint}, nil
}

// Refine returns the brief for userPrompt.
func (r *Refiner) Refine(ctx context.Context, userPrompt string) (string, error) {
	input := map[string]any{
		"domain": r.domainOrDefault(),
		"prompt": strings.TrimSpace(userPrompt),
	}

	msg, err := r.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run refiner chain: %w", err)
	}
	if msg == nil {
		return "", ErrEmptyBrief
	}

	brief := cleanBrief(msg.Content)
	if brief == "" {
		return "", ErrEmptyBrief
	}

	log.Printf("[ai] refined prompt: in=%d out=%d", len(userPrompt), len(brief))
	return brief, nil
}

func (r *Refiner) domainOrDefault() string {
	if strings.TrimSpace(r.domainHint) == "" {
		return "small business websites"
	}
	return r.domainHint
}

// cleanBrief strips code fences and wrapping quotes, then enforces maxBriefLength.
func cleanBrief(raw string) string {
	brief := strings.TrimSpace(raw)
	brief = strings.TrimPrefix(brief, "```")
	brief = strings.TrimSuffix(brief, "```")
	brief = strings.TrimSpace(brief)
	brief = strings.Trim(brief, "\"“”")
	brief = strings.TrimSpace(brief)

	runes := []rune(brief)
	if len(runes) > maxBriefLength {
		brief = string(runes[:maxBriefLength])
	}
	return brief
}
