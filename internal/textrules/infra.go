package textrules

import (
	"context"
	"fmt"
	"os"
	"sync"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

type rulesFile struct {
	Letters []LetterRule `yaml:"letters"`
	Words   []WordRule   `yaml:"words"`
}

// FileRepo serves rules from a YAML file. An empty path yields no rules.
type FileRepo struct {
	path string

	mu      sync.RWMutex
	letters []LetterRule
	words   []WordRule
}

func NewFileRepo(path string) (*FileRepo, error) {
	r := &FileRepo{path: path}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-reads the file.
func (r *FileRepo) Reload() error {
	if r.path == "" {
		return nil
	}

	raw, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("read text rules: %w", err)
	}
	var f rulesFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse text rules %s: %w", r.path, err)
	}

	for i, lr := range f.Letters {
		if utf8.RuneCountInString(lr.From) != 1 || utf8.RuneCountInString(lr.To) != 1 {
			return fmt.Errorf("letter rule %d: from and to must be single characters", i)
		}
	}
	for i, wr := range f.Words {
		if wr.From == "" {
			return fmt.Errorf("word rule %d: empty from", i)
		}
	}

	r.mu.Lock()
	r.letters, r.words = f.Letters, f.Words
	r.mu.Unlock()
	return nil
}

func (r *FileRepo) ListLetterRules(context.Context) ([]LetterRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]LetterRule, len(r.letters))
	copy(out, r.letters)
	return out, nil
}

func (r *FileRepo) ListWordRules(context.Context) ([]WordRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]WordRule, len(r.words))
	copy(out, r.words)
	return out, nil
}
