package blobs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"k8s.io/klog/v2"
)

// LocalBlobstore keeps objects as plain files under Dir.
type LocalBlobstore struct {
	Dir string
}

var _ Blobstore = (*LocalBlobstore)(nil)

func (l *LocalBlobstore) pathFor(key string) (string, error) {
	p := filepath.Join(l.Dir, filepath.FromSlash(key))
	rel, err := filepath.Rel(l.Dir, p)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return p, nil
}

func (l *LocalBlobstore) Upload(ctx context.Context, sourcePath string, key string) error {
	log := klog.FromContext(ctx)

	dest, err := l.pathFor(key)
	if err != nil {
		return err
	}

	src, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("opening source file: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	startedAt := time.Now()
	n, err := writeToFile(ctx, src, dest)
	if err != nil {
		return fmt.Errorf("copying to %q: %w", dest, err)
	}

	log.Info("stored blob", "source", sourcePath, "destination", dest, "bytes", n, "duration", time.Since(startedAt))
	return nil
}

func (l *LocalBlobstore) Download(ctx context.Context, key string, destinationPath string) error {
	src, err := l.pathFor(key)
	if err != nil {
		return err
	}

	f, err := os.Open(src)
	if err != nil {
		// *PathError wraps os.ErrNotExist for missing objects.
		return fmt.Errorf("opening blob: %w", err)
	}
	defer f.Close()

	n, err := writeToFile(ctx, f, destinationPath)
	if err != nil {
		return err
	}
	klog.FromContext(ctx).V(2).Info("copied blob", "source", src, "destination", destinationPath, "bytes", n)
	return nil
}

func writeToFile(ctx context.Context, src io.Reader, destinationPath string) (int64, error) {
	log := klog.FromContext(ctx)

	dir := filepath.Dir(destinationPath)
	tempFile, err := os.CreateTemp(dir, "download")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}

	shouldDeleteTempFile := true
	defer func() {
		if shouldDeleteTempFile {
			if err := os.Remove(tempFile.Name()); err != nil {
				log.Error(err, "removing temp file", "path", tempFile.Name())
			}
		}
	}()

	shouldCloseTempFile := true
	defer func() {
		if shouldCloseTempFile {
			if err := tempFile.Close(); err != nil {
				log.Error(err, "closing temp file", "path", tempFile.Name())
			}
		}
	}()

	n, err := io.Copy(tempFile, src)
	if err != nil {
		return n, fmt.Errorf("copying from source: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return n, fmt.Errorf("closing temp file: %w", err)
	}
	shouldCloseTempFile = false

	if err := os.Rename(tempFile.Name(), destinationPath); err != nil {
		return n, fmt.Errorf("renaming temp file: %w", err)
	}
	shouldDeleteTempFile = false

	return n, nil
}
