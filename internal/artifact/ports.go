package artifact

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/dustin/go-humanize"
)

const ContentTypeMP3 = "audio/mp3"

var ErrNotFound = errors.New("artifact not found")

// Artifact is one rendered MP3, tagged with the language it was spoken in.
type Artifact struct {
	ID           string    `json:"id"`
	LanguageCode string    `json:"language_code"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	Location     string    `json:"location"`
	CreatedAt    time.Time `json:"created_at"`
}

func (a *Artifact) HumanSize() string {
	return humanize.Bytes(uint64(a.Size))
}

type Store interface {
	Save(ctx context.Context, languageCode string, data []byte) (*Artifact, error)
	Open(ctx context.Context, id string) (io.ReadCloser, *Artifact, error)
}
