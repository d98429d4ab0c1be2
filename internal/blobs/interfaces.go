// Package blobs copies checkpoint files to and from durable storage.
package blobs

import "context"

type Blobstore interface {
	// Upload copies the file at sourcePath to the store under key,
	// replacing any existing object.
	Upload(ctx context.Context, sourcePath string, key string) error

	// If no such object exists, Download should return an error for which errors.Is(err, os.ErrNotExist) is true.
	Download(ctx context.Context, key string, destPath string) error
}
