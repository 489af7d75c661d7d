package moderation

import (
	"log/slog"

	"github.com/abadojack/whatlanggo"
)

// minConfidence below which the detected language is not trusted.
const minConfidence = 0.5

// LanguageModerator picks the dictionary of the detected language and falls
// back to every dictionary when the language is unknown or unsure.
type LanguageModerator struct {
	log       *slog.Logger
	byLang    map[string]*Moderator
	fallback  *Moderator
	languages []string
}

func NewLanguageModerator(dictionaries Dictionaries, censoredChar rune, log *slog.Logger) (*LanguageModerator, error) {
	fallback, err := NewModerator(dictionaries.Words(), censoredChar, log)
	if err != nil {
		return nil, err
	}
	l := &LanguageModerator{
		log:      log,
		byLang:   make(map[string]*Moderator, len(dictionaries)),
		fallback: fallback,
	}
	for lang, words := range dictionaries {
		m, err := NewModerator(words, censoredChar, log)
		if err != nil {
			return nil, err
		}
		l.byLang[lang] = m
		l.languages = append(l.languages, lang)
	}
	return l, nil
}

func (l *LanguageModerator) Languages() []string { return l.languages }

// Censor implements contract.Moderator.
func (l *LanguageModerator) Censor(text string) string {
	if text == "" {
		return text
	}
	lang, moderator := l.pick(text)
	censored, words := moderator.Censor(text)
	if len(words) > 0 {
		l.log.Debug("Message censored", "lang", lang, "words", len(words))
	}
	return censored
}

func (l *LanguageModerator) pick(text string) (string, *Moderator) {
	info := whatlanggo.Detect(text)
	lang := info.Lang.Iso6391()
	if info.Confidence < minConfidence {
		return "", l.fallback
	}
	if m, ok := l.byLang[lang]; ok {
		return lang, m
	}
	return lang, l.fallback
}
