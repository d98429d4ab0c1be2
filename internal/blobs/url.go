package blobs

import (
	"fmt"
	"net/url"
	"strings"
)

// ForURL returns the Blobstore for a destination such as
// "gs://bucket/prefix", "file:///var/checkpoints" or a plain directory.
func ForURL(s string) (Blobstore, error) {
	if s == "" {
		return nil, fmt.Errorf("empty blobstore URL")
	}
	if !strings.Contains(s, "://") {
		return &LocalBlobstore{Dir: s}, nil
	}

	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("parsing blobstore URL %q: %w", s, err)
	}

	switch u.Scheme {
	case "gs":
		if u.Host == "" {
			return nil, fmt.Errorf("blobstore URL %q has no bucket", s)
		}
		return &GCSBlobstore{Bucket: u.Host, Prefix: strings.Trim(u.Path, "/")}, nil
	case "file":
		if u.Path == "" {
			return nil, fmt.Errorf("blobstore URL %q has no path", s)
		}
		return &LocalBlobstore{Dir: u.Path}, nil
	default:
		return nil, fmt.Errorf("unsupported blobstore scheme %q in %q", u.Scheme, s)
	}
}
