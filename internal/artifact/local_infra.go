package artifact

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalStore keeps artifacts in a directory. With a fixed name every Save
// overwrites the same file.
type LocalStore struct {
	dir       string
	fixedName string
	now       func() time.Time
}

func NewLocalStore(dir, fixedName string) (*LocalStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	return &LocalStore{
		dir:       dir,
		fixedName: strings.TrimSuffix(fixedName, ".mp3"),
		now:       time.Now,
	}, nil
}

func (s *LocalStore) Save(_ context.Context, languageCode string, data []byte) (*Artifact, error) {
	id := s.fixedName
	if id == "" {
		id = uuid.NewString()
	}

	path := s.path(id)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return nil, fmt.Errorf("write artifact: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("write artifact: %w", err)
	}

	return &Artifact{
		ID:           id,
		LanguageCode: languageCode,
		ContentType:  ContentTypeMP3,
		Size:         int64(len(data)),
		Location:     path,
		CreatedAt:    s.now(),
	}, nil
}

func (s *LocalStore) Open(_ context.Context, id string) (io.ReadCloser, *Artifact, error) {
	if !s.validID(id) {
		return nil, nil, ErrNotFound
	}

	path := s.path(id)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("open artifact: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("stat artifact: %w", err)
	}

	return f, &Artifact{
		ID:          id,
		ContentType: ContentTypeMP3,
		Size:        st.Size(),
		Location:    path,
		CreatedAt:   st.ModTime(),
	}, nil
}

func (s *LocalStore) path(id string) string {
	return filepath.Join(s.dir, id+".mp3")
}

// validID keeps Open inside the store directory.
func (s *LocalStore) validID(id string) bool {
	if s.fixedName != "" && id == s.fixedName {
		return true
	}
	_, err := uuid.Parse(id)
	return err == nil && !strings.ContainsAny(id, `/\.`)
}
