package textrules

import "context"

type LetterRule struct {
	From string `yaml:"from" json:"from"`                     // 1 rune
	To   string `yaml:"to" json:"to"`                         // 1 rune
	Lang string `yaml:"lang,omitempty" json:"lang,omitempty"` // target language code, empty matches all
}

type WordRule struct {
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
	Lang string `yaml:"lang,omitempty" json:"lang,omitempty"`
}

type Repo interface {
	ListLetterRules(ctx context.Context) ([]LetterRule, error)
	ListWordRules(ctx context.Context) ([]WordRule, error)
}

// Service rewrites text before it is spoken. The displayed translation is never touched.
type Service interface {
	Process(ctx context.Context, text, languageCode string) (string, error)
}
