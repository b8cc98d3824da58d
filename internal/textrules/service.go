package textrules

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"
)

type service struct {
	repo Repo
}

func NewService(repo Repo) Service {
	return &service{repo: repo}
}

func applies(ruleLang, lang string) bool {
	return ruleLang == "" || strings.EqualFold(ruleLang, lang)
}

func (s *service) Process(ctx context.Context, text, languageCode string) (string, error) {
	// 1) letters
	letterRules, err := s.repo.ListLetterRules(ctx)
	if err != nil {
		return "", err
	}

	letters := make(map[rune]rune, len(letterRules))
	for _, rule := range letterRules {
		if !applies(rule.Lang, languageCode) {
			continue
		}
		from, _ := utf8.DecodeRuneInString(rule.From)
		to, _ := utf8.DecodeRuneInString(rule.To)
		if _, seen := letters[from]; !seen {
			letters[from] = to
		}
	}
	if len(letters) > 0 {
		text = strings.Map(func(r rune) rune {
			if to, ok := letters[r]; ok {
				return to
			}
			return r
		}, text)
	}

	// 2) words
	wordRules, err := s.repo.ListWordRules(ctx)
	if err != nil {
		return "", err
	}

	words := make(map[string]string, len(wordRules))
	for _, rule := range wordRules {
		if !applies(rule.Lang, languageCode) {
			continue
		}
		if _, seen := words[rule.From]; !seen {
			words[rule.From] = rule.To
		}
	}
	if len(words) == 0 {
		return text, nil
	}

	tokens := strings.FieldsFunc(text, unicode.IsSpace)
	for i, tok := range tokens {
		// "AI," matches the rule for "AI" and keeps the comma
		core := strings.TrimRightFunc(tok, unicode.IsPunct)
		if to, ok := words[core]; ok {
			tokens[i] = to + tok[len(core):]
		}
	}

	return strings.Join(tokens, " "), nil
}
