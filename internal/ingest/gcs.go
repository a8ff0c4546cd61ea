package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
)

// ParseGCSURI splits "gs://bucket/path/to/object" into bucket and object.
func ParseGCSURI(uri string) (bucket, object string, err error) {
	if !strings.HasPrefix(uri, "gs://") {
		return "", "", fmt.Errorf("ingest: malformed GCS URI %q", uri)
	}
	parts := strings.SplitN(strings.TrimPrefix(uri, "gs://"), "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("ingest: malformed GCS URI %q", uri)
	}
	return parts[0], parts[1], nil
}

// FetchObject downloads an object's bytes from GCS.
func FetchObject(ctx context.Context, bucket, object string) ([]byte, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("ingest: create storage client: %w", err)
	}
	defer client.Close()

	r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("ingest: open GCS object reader: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("ingest: read GCS object: %w", err)
	}
	return data, nil
}

// ReadBackup loads backup bytes from a "gs://" URI or a local path.
func ReadBackup(ctx context.Context, path string) ([]byte, error) {
	if strings.HasPrefix(path, "gs://") {
		bucket, object, err := ParseGCSURI(path)
		if err != nil {
			return nil, err
		}
		return FetchObject(ctx, bucket, object)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: read backup file: %w", err)
	}
	return data, nil
}
