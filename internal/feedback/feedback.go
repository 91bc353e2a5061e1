// Package feedback produces a short coach comment for a finished session.
package feedback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/verte-zerg/nback/internal/model"
)

// Locale selects the language of the feedback text.
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleZH Locale = "zh"
)

// ParseLocale maps a config value to a Locale, defaulting to English.
func ParseLocale(s string) Locale {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "zh", "zh-cn", "cn":
		return LocaleZH
	default:
		return LocaleEN
	}
}

// ErrNoAPIKey is returned by providers that have no credentials configured.
var ErrNoAPIKey = errors.New("feedback: no api key configured")

// Provider generates feedback for a finalized session.
type Provider interface {
	Feedback(ctx context.Context, s model.Session, loc Locale) (string, error)
}

type fallback struct {
	noKey, apiError, empty string
}

var fallbacks = map[Locale]fallback{
	LocaleEN: {
		noKey:    "Meow? No API Key found. How can I judge your brain without it! 😿",
		apiError: "Hiss! Brain wave connection lost, meow. (API Error)",
		empty:    "Meow... I fell asleep waiting.",
	},
	LocaleZH: {
		noKey:    "喵？没有找到 API Key。没有 Key 我怎么评价你的脑子！😿",
		apiError: "嘶——！脑波连接断开了喵。(API Error)",
		empty:    "喵... 等得我都睡着了。",
	},
}

func fallbackFor(loc Locale) fallback {
	if f, ok := fallbacks[loc]; ok {
		return f
	}
	return fallbacks[LocaleEN]
}

// Get asks p for feedback and always returns displayable text. A nil
// provider is treated as missing credentials.
func Get(ctx context.Context, p Provider, s model.Session, loc Locale, log *slog.Logger) string {
	fb := fallbackFor(loc)
	if p == nil {
		return fb.noKey
	}
	text, err := p.Feedback(ctx, s, loc)
	switch {
	case errors.Is(err, ErrNoAPIKey):
		return fb.noKey
	case err != nil:
		if log != nil {
			log.Warn("feedback request failed", slog.String("error", err.Error()))
		}
		return fb.apiError
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return fb.empty
	}
	return text
}

func systemPrompt(s model.Session, loc Locale) string {
	levelInfo := fmt.Sprintf("Adventure Mode Level %d", s.NLevel)
	if s.Mode == model.ModeDaily {
		levelInfo = fmt.Sprintf("Daily Training (peaked at %d-Back)", s.MaxLevelReached)
	}
	lang, example := "English", `"Too slow, meow! You couldn't even catch Bobo's tail! 😾"`
	if loc == LocaleZH {
		lang, example = "Chinese (Simplified)", "“太慢了喵！这种程度连bobo的尾巴都追不上！😾”"
	}
	return fmt.Sprintf(`You are "Bobo", a strict but cute N-Back brain training instructor with a cat avatar.
The user just finished: %s.

Character:
1. Always use "Meow" or other cat sounds.
2. Refer to yourself as Bobo.
3. Cute appearance, drill sergeant personality.
4. Accuracy below 70%%: roast them. Accuracy above 90%%: praise but keep them humble. Level above 10-Back: be genuinely impressed.
5. Answer in %s.
6. Short and punchy, at most 2 sentences.

Example: %s`, levelInfo, lang, example)
}

func statsPrompt(s model.Session) string {
	peak := "N/A"
	if s.MaxLevelReached > 0 {
		peak = fmt.Sprintf("%d", s.MaxLevelReached)
	}
	return fmt.Sprintf(`User Stats:
Mode: %s
Level: %d-Back
Max Daily Level: %s
Score: %d/%d
Accuracy: %.0f%%
Max Combo: %d`,
		s.Mode, s.NLevel, peak, s.Score, s.TotalQuestions, s.Accuracy()*100, s.MaxCombo)
}
