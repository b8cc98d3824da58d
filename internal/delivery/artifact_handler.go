package delivery

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"

	"github.com/Vovarama1992/voice_translator/internal/artifact"
)

type ArtifactHandler struct {
	store artifact.Store
	log   *logger.ZapLogger
}

func NewArtifactHandler(store artifact.Store, log *logger.ZapLogger) *ArtifactHandler {
	return &ArtifactHandler{store: store, log: log}
}

// GET /artifacts/{id}
func (h *ArtifactHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rc, a, err := h.store.Open(r.Context(), id)
	if err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			http.Error(w, "artifact not found", http.StatusNotFound)
			return
		}
		h.log.Log(logger.LogEntry{Level: "error", Message: "failed to open artifact", Service: "delivery", Error: err})
		http.Error(w, "failed to open artifact", http.StatusInternalServerError)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", artifact.ContentTypeMP3)
	if a.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(a.Size, 10))
	}
	w.Header().Set("Cache-Control", "no-store")
	if _, err := io.Copy(w, rc); err != nil {
		h.log.Log(logger.LogEntry{Level: "warn", Message: "artifact stream interrupted", Service: "delivery", Error: err})
	}
}
