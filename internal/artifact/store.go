package artifact

import (
	"context"
	"fmt"

	"github.com/Vovarama1992/voice_translator/internal/config"
)

// NewStore builds the store named by cfg.ArtifactStore.
func NewStore(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.ArtifactStore {
	case "", "local":
		s, err := NewLocalStore(cfg.ArtifactDir, cfg.ArtifactFixedName)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "s3":
		s, err := NewS3Store(ctx, S3Config{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown artifact store %q", cfg.ArtifactStore)
}
