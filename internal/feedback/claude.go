package feedback

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/verte-zerg/nback/internal/model"
)

const (
	DefaultModel   = "claude-3-5-haiku-latest"
	DefaultTimeout = 15 * time.Second
	maxTokens      = 256
)

// ClaudeConfig configures the Claude provider.
type ClaudeConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Claude asks the Anthropic Messages API for feedback.
type Claude struct {
	client  anthropic.Client
	model   string
	timeout time.Duration
	hasKey  bool
	log     *slog.Logger
}

// NewClaude builds a provider. An empty API key yields a provider that
// reports ErrNoAPIKey without touching the network.
func NewClaude(cfg ClaudeConfig, log *slog.Logger) *Claude {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(cfg.Timeout),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Claude{
		client:  anthropic.NewClient(opts...),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		hasKey:  cfg.APIKey != "",
		log:     log.With(slog.String("adapter", "feedback")),
	}
}

// Feedback implements Provider.
func (c *Claude) Feedback(ctx context.Context, s model.Session, loc Locale) (string, error) {
	if !c.hasKey {
		return "", ErrNoAPIKey
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: maxTokens,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt(s, loc)}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(statsPrompt(s))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("feedback request: %w", err)
	}
	c.log.Debug("feedback received",
		slog.String("model", c.model),
		slog.Duration("elapsed", time.Since(start)),
		slog.Int("blocks", len(msg.Content)),
	)
	for _, block := range msg.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}
	return "", nil
}
