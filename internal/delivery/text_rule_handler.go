package delivery

import (
	"net/http"

	tr "github.com/Vovarama1992/voice_translator/internal/textrules"
)

// Reloader re-reads rules from their source.
type Reloader interface {
	Reload() error
}

type TextRuleHandler struct {
	repo tr.Repo
}

func NewTextRuleHandler(repo tr.Repo) *TextRuleHandler {
	return &TextRuleHandler{repo: repo}
}

// GET /text-rules/letters
func (h *TextRuleHandler) ListLetterRules(w http.ResponseWriter, r *http.Request) {
	out, err := h.repo.ListLetterRules(r.Context())
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /text-rules/words
func (h *TextRuleHandler) ListWordRules(w http.ResponseWriter, r *http.Request) {
	out, err := h.repo.ListWordRules(r.Context())
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /text-rules/reload
func (h *TextRuleHandler) Reload(w http.ResponseWriter, _ *http.Request) {
	rl, ok := h.repo.(Reloader)
	if !ok {
		http.Error(w, "rules cannot be reloaded", http.StatusNotImplemented)
		return
	}
	if err := rl.Reload(); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	w.WriteHeader(204)
}
