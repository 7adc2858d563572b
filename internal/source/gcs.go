// Package source pulls remote video collections into the local cache so
// the upload run can treat them like any other directory.
package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

const gsScheme = "gs://"

type GCS struct {
	client   *storage.Client
	bucket   string
	prefix   string
	cacheDir string
}

func IsGSPath(path string) bool {
	return strings.HasPrefix(path, gsScheme)
}

// ParseGSPath splits "gs://bucket/prefix" into bucket and prefix.
func ParseGSPath(path string) (bucket, prefix string, err error) {
	if !IsGSPath(path) {
		return "", "", fmt.Errorf("not a gs:// path: %s", path)
	}

	rest := strings.TrimPrefix(path, gsScheme)
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("missing bucket in %s", path)
	}

	return bucket, prefix, nil
}

func NewGCS(ctx context.Context, bucket, prefix, cacheDir string) (*GCS, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create GCS client: %w", err)
	}

	return &GCS{
		client:   client,
		bucket:   bucket,
		prefix:   prefix,
		cacheDir: cacheDir,
	}, nil
}

func (s *GCS) Close() error {
	return s.client.Close()
}

// Sync downloads every video object under the prefix that is not cached
// yet and returns the local paths of all of them, sorted.
func (s *GCS) Sync(ctx context.Context, extensions []string) ([]string, error) {
	if err := os.MkdirAll(s.cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	it := s.client.Bucket(s.bucket).Objects(ctx, &storage.Query{Prefix: s.prefix})

	var paths []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list gs://%s/%s: %w", s.bucket, s.prefix, err)
		}

		if !hasExtension(attrs.Name, extensions) {
			continue
		}

		localPath := filepath.Join(s.cacheDir, filepath.Base(attrs.Name))
		if _, err := os.Stat(localPath); err == nil {
			paths = append(paths, localPath)
			continue
		}

		slog.Info("Downloading video", "object", attrs.Name, "size", attrs.Size)
		if err := s.downloadObject(ctx, attrs.Name, localPath); err != nil {
			return nil, err
		}
		paths = append(paths, localPath)
	}

	sort.Strings(paths)
	return paths, nil
}

func (s *GCS) downloadObject(ctx context.Context, object, localPath string) error {
	reader, err := s.client.Bucket(s.bucket).Object(object).NewReader(ctx)
	if err != nil {
		return fmt.Errorf("open gs://%s/%s: %w", s.bucket, object, err)
	}
	defer func() { _ = reader.Close() }()

	file, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", localPath, err)
	}

	if _, err := io.Copy(file, reader); err != nil {
		_ = file.Close()
		_ = os.Remove(localPath)
		return fmt.Errorf("download %s: %w", object, err)
	}

	return file.Close()
}

func hasExtension(name string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, candidate := range extensions {
		if ext == candidate {
			return true
		}
	}
	return false
}
