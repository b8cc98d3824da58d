package telegram

import (
	"fmt"
	"strings"
)

func (app *BotApp) helpText() string {
	return fmt.Sprintf(
		"🌐 Multilingual translator\n\n"+
			"Send text or a voice message and I will translate it from %s to %s.\n"+
			"Start a message with a language name to pick another target, e.g. \"French: good night\".\n"+
			"For voice messages put the target language in the caption.\n\n"+
			"/languages lists what I know.",
		app.source, app.target,
	)
}

func (app *BotApp) languageList() string {
	var b strings.Builder
	b.WriteString("Available languages:\n")
	for _, e := range app.catalog.Entries() {
		fmt.Fprintf(&b, "• %s (%s)\n", e.DisplayName, e.Code)
	}
	return b.String()
}

// splitTarget reads an optional "Language: text" prefix.
func (app *BotApp) splitTarget(text string) (target, body string) {
	name, rest, found := strings.Cut(text, ":")
	if found {
		if canon, ok := app.lookup(name); ok {
			return canon, strings.TrimSpace(rest)
		}
	}
	return app.target, text
}

// lookup matches a display name case-insensitively.
func (app *BotApp) lookup(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, n := range app.catalog.Names() {
		if strings.EqualFold(n, name) {
			return n, true
		}
	}
	return "", false
}
