package delivery

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/Vovarama1992/voice_translator/internal/languages"
)

//go:embed templates/index.html
var templatesFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

type PageHandler struct {
	catalog  *languages.Catalog
	defaults Defaults
	log      *logger.ZapLogger
}

func NewPageHandler(catalog *languages.Catalog, defaults Defaults, log *logger.ZapLogger) *PageHandler {
	return &PageHandler{catalog: catalog, defaults: defaults, log: log}
}

// GET /
func (h *PageHandler) Index(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := indexTmpl.Execute(w, map[string]any{
		"Languages": h.catalog.Names(),
		"Source":    h.defaults.Source,
		"Target":    h.defaults.Target,
	})
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "render index", Service: "delivery", Error: err})
	}
}
