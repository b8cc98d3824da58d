package delivery

import (
	"net/http"
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(
	r chi.Router,
	hPage *PageHandler,
	hTranslate *TranslateHandler,
	hArtifacts *ArtifactHandler,
	hRules *TextRuleHandler,
	ratePerMinute int,
) {
	r.Use(httputil.RecoverMiddleware)

	r.Get("/", hPage.Index)
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(200)
		_, _ = w.Write([]byte("pong"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// --- api ---
	r.Get("/api/languages", hTranslate.Languages)
	r.Route("/api/translate", func(tr chi.Router) {
		if ratePerMinute > 0 {
			tr.Use(httprate.LimitByIP(ratePerMinute, time.Minute))
		}
		tr.Post("/text", hTranslate.TranslateText)
		tr.Post("/speech", hTranslate.TranslateSpeech)
	})

	// --- артефакты ---
	r.Get("/artifacts/{id}", hArtifacts.Get)

	// --- правила произношения ---
	if hRules != nil {
		r.Get("/text-rules/letters", hRules.ListLetterRules)
		r.Get("/text-rules/words", hRules.ListWordRules)
		r.Post("/text-rules/reload", hRules.Reload)
	}
}
