package artifact

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net/url"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Insecure  bool
}

// S3Store puts artifacts under artifacts/<date>/<id>.mp3. IDs are UUIDv7 so
// the date part of the key can be recovered from the ID alone.
type S3Store struct {
	client *minio.Client
	bucket string
	host   string
}

func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("S3_ENDPOINT and S3_BUCKET must be set")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: !cfg.Insecure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init S3 client: %w", err)
	}

	// проверим, что бакет существует
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist", cfg.Bucket)
	}

	scheme := "https"
	if cfg.Insecure {
		scheme = "http"
	}
	return &S3Store{
		client: client,
		bucket: cfg.Bucket,
		host:   fmt.Sprintf("%s://%s", scheme, cfg.Endpoint),
	}, nil
}

func (s *S3Store) Save(ctx context.Context, languageCode string, data []byte) (*Artifact, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("artifact id: %w", err)
	}
	key, created, err := objectKey(id.String())
	if err != nil {
		return nil, err
	}

	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: ContentTypeMP3,
		UserMetadata: map[string]string{
			"language":    languageCode,
			"uploaded-at": created.Format(time.RFC3339),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}

	return &Artifact{
		ID:           id.String(),
		LanguageCode: languageCode,
		ContentType:  ContentTypeMP3,
		Size:         int64(len(data)),
		Location:     s.publicURL(key),
		CreatedAt:    created,
	}, nil
}

func (s *S3Store) Open(ctx context.Context, id string) (io.ReadCloser, *Artifact, error) {
	key, _, err := objectKey(id)
	if err != nil {
		return nil, nil, ErrNotFound
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("get object: %w", err)
	}
	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("stat object: %w", err)
	}

	return obj, &Artifact{
		ID:           id,
		LanguageCode: info.UserMetadata["Language"],
		ContentType:  ContentTypeMP3,
		Size:         info.Size,
		Location:     s.publicURL(key),
		CreatedAt:    info.LastModified,
	}, nil
}

func (s *S3Store) publicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.host, s.bucket, (&url.URL{Path: key}).EscapedPath())
}

// objectKey derives the bucket key from a UUIDv7, whose first 48 bits are
// the creation time in unix milliseconds.
func objectKey(id string) (string, time.Time, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", time.Time{}, err
	}
	if u.Version() != 7 {
		return "", time.Time{}, fmt.Errorf("artifact id %s is not a v7 uuid", id)
	}

	var ms [8]byte
	copy(ms[2:], u[:6])
	created := time.UnixMilli(int64(binary.BigEndian.Uint64(ms[:]))).UTC()

	return path.Join("artifacts", created.Format("2006-01-02"), u.String()+".mp3"), created, nil
}
