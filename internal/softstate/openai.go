package softstate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/tidwall/gjson"

	"github.com/sgb-io/back-of-the-neural-net/internal/domain"
	apperrors "github.com/sgb-io/back-of-the-neural-net/internal/errors"
)

// ProviderConfig configures a live collaborator.
type ProviderConfig struct {
	// BaseURL points at any OpenAI-compatible endpoint; local LM Studio
	// instances work through the same client.
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
}

// OpenAICollaborator proposes soft-state updates through a chat-completion
// model behind an OpenAI-compatible API.
type OpenAICollaborator struct {
	client openai.Client
	cfg    ProviderConfig
}

// NewOpenAICollaborator builds the provider.
func NewOpenAICollaborator(cfg ProviderConfig) (*OpenAICollaborator, error) {
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("model is required")
	}
	opts := []option.RequestOption{}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAICollaborator{client: openai.NewClient(opts...), cfg: cfg}, nil
}

const systemPrompt = `You are the narrative brain of a football league simulator.
Given recent match results, propose small adjustments to player form, morale,
fitness and to team morale. Respond with a JSON array of objects shaped as
{"target_kind": "player"|"team", "target_id": "...", "field": "...",
"value": <int 0-100>, "reason": "..."}. Respond with JSON only.`

// Propose implements Collaborator.
func (c *OpenAICollaborator) Propose(ctx context.Context, snapshot *domain.World, phase Phase, matchday MatchdayContext) ([]Proposal, error) {
	prompt, err := buildPrompt(snapshot, phase, matchday)
	if err != nil {
		return nil, err
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.cfg.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
	}
	if c.cfg.Temperature > 0 {
		params.Temperature = openai.Float(c.cfg.Temperature)
	}
	if c.cfg.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(c.cfg.MaxTokens))
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeCollaboratorError, "chat completion", err)
	}
	if len(completion.Choices) == 0 {
		return nil, apperrors.New(apperrors.CodeCollaboratorError, "empty completion")
	}

	return ParseProposals(completion.Choices[0].Message.Content)
}

// buildPrompt renders the matchday context as compact JSON.
func buildPrompt(snapshot *domain.World, phase Phase, matchday MatchdayContext) (string, error) {
	type resultLine struct {
		Home  string `json:"home"`
		Away  string `json:"away"`
		Score string `json:"score"`
	}
	lines := make([]resultLine, 0, len(matchday.Results))
	for _, r := range matchday.Results {
		homeName, awayName := r.HomeTeam, r.AwayTeam
		if team, ok := snapshot.Team(r.HomeTeam); ok {
			homeName = team.Name
		}
		if team, ok := snapshot.Team(r.AwayTeam); ok {
			awayName = team.Name
		}
		lines = append(lines, resultLine{
			Home:  homeName,
			Away:  awayName,
			Score: fmt.Sprintf("%d-%d", r.HomeScore, r.AwayScore),
		})
	}

	payload, err := json.Marshal(map[string]any{
		"phase":   string(phase),
		"season":  snapshot.Season,
		"results": lines,
	})
	if err != nil {
		return "", fmt.Errorf("marshal prompt: %w", err)
	}
	return string(payload), nil
}

// ParseProposals extracts a proposal array from a model response. Models
// wrap JSON in prose and code fences often enough that the parser hunts for
// the first array instead of trusting the whole body.
func ParseProposals(text string) ([]Proposal, error) {
	raw := extractJSONArray(text)
	if raw == "" {
		return nil, apperrors.New(apperrors.CodeCollaboratorError, "no proposal array in response")
	}

	var proposals []Proposal
	parsed := gjson.Parse(raw)
	if !parsed.IsArray() {
		return nil, apperrors.New(apperrors.CodeCollaboratorError, "proposal payload is not an array")
	}
	parsed.ForEach(func(_, item gjson.Result) bool {
		proposals = append(proposals, Proposal{
			TargetKind: item.Get("target_kind").String(),
			TargetID:   item.Get("target_id").String(),
			Field:      item.Get("field").String(),
			Value:      int(item.Get("value").Int()),
			Reason:     item.Get("reason").String(),
		})
		return true
	})
	return proposals, nil
}

// extractJSONArray returns the first top-level JSON array in text.
func extractJSONArray(text string) string {
	start := strings.Index(text, "[")
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '[':
			depth++
		case c == ']':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
