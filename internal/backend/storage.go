package backend

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"studioworks/internal/logging"
	"studioworks/internal/metrics"
	apperrors "studioworks/pkg/errors"
)

// ImageExtensions are the file types a bucket accepts.
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".svg":  true,
}

// Bucket stores publicly readable objects.
type Bucket interface {
	Name() string
	// Upload stores r under prefix and returns the object key. One request, no resume.
	Upload(ctx context.Context, prefix, filename string, r io.Reader) (string, error)
	PublicURL(key string) string
}

// DiskBucket keeps objects under a local directory served at a public base URL.
type DiskBucket struct {
	name     string
	root     string
	baseURL  string
	maxBytes int64
	log      *zap.Logger
}

// NewDiskBucket creates the bucket root if needed.
func NewDiskBucket(name, root, baseURL string, maxBytes int64, log *zap.Logger) (*DiskBucket, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create bucket root %s: %w", root, err)
	}
	return &DiskBucket{
		name:     name,
		root:     root,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: maxBytes,
		log:      logging.OrNop(log),
	}, nil
}

func (b *DiskBucket) Name() string { return b.name }

// Root is the directory objects are written to.
func (b *DiskBucket) Root() string { return b.root }

func (b *DiskBucket) Upload(ctx context.Context, prefix, filename string, r io.Reader) (key string, err error) {
	var written int64
	defer func() { metrics.RecordUpload(b.name, written, err) }()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !ImageExtensions[ext] {
		return "", apperrors.New(apperrors.ErrCodeBadRequest, fmt.Sprintf("unsupported file type %q", ext))
	}

	prefix = strings.Trim(path.Clean("/"+prefix), "/")
	key = path.Join(prefix, uuid.NewString()+ext)
	dest := filepath.Join(b.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("failed to create object: %w", err)
	}

	src := r
	if b.maxBytes > 0 {
		src = io.LimitReader(r, b.maxBytes+1)
	}
	written, err = io.Copy(f, src)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err == nil && b.maxBytes > 0 && written > b.maxBytes {
		err = apperrors.New(apperrors.ErrCodeBadRequest, fmt.Sprintf("file exceeds the %s limit", humanize.IBytes(uint64(b.maxBytes))))
	}
	if err != nil {
		_ = os.Remove(dest)
		if _, ok := apperrors.As(err); !ok {
			err = fmt.Errorf("failed to write object: %w", err)
		}
		return "", err
	}

	b.log.Info("object uploaded", zap.String("bucket", b.name), zap.String("key", key), zap.Int64("bytes", written))
	return key, nil
}

func (b *DiskBucket) PublicURL(key string) string {
	return b.baseURL + "/" + strings.TrimLeft(key, "/")
}
