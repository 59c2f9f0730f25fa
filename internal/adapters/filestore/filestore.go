// Package filestore keeps uploaded receipts on the local disk under random
// keys.
package filestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/csg33k/billed/internal/domain"
	"github.com/csg33k/billed/internal/ports"
)

var _ ports.ReceiptStorage = (*Disk)(nil)

var keyPattern = regexp.MustCompile(`^[0-9a-f-]{36}\.[a-z0-9]{1,5}$`)

type Disk struct {
	dir     string
	baseURL string
}

// New creates dir if needed. Receipt URLs are baseURL + "/" + key.
func New(dir, baseURL string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create receipts directory: %w", err)
	}
	return &Disk{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Save writes r under a fresh key that keeps the extension of fileName.
func (d *Disk) Save(ctx context.Context, fileName string, r io.Reader) (domain.Receipt, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	if ext == "" {
		ext = "bin"
	}
	key := uuid.NewString() + "." + ext
	f, err := os.OpenFile(filepath.Join(d.dir, key), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("create receipt: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return domain.Receipt{}, fmt.Errorf("write receipt: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return domain.Receipt{}, fmt.Errorf("close receipt: %w", err)
	}
	return domain.Receipt{Key: key, URL: d.baseURL + "/" + key}, nil
}

// Open returns the receipt stored under key. Keys not produced by Save are
// reported as domain.ErrNotFound.
func (d *Disk) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if !keyPattern.MatchString(key) {
		return nil, fmt.Errorf("receipt %q: %w", key, domain.ErrNotFound)
	}
	f, err := os.Open(filepath.Join(d.dir, key))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("receipt %q: %w", key, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("open receipt: %w", err)
	}
	return f, nil
}

func (d *Disk) Delete(ctx context.Context, key string) error {
	if !keyPattern.MatchString(key) {
		return nil
	}
	if err := os.Remove(filepath.Join(d.dir, key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete receipt: %w", err)
	}
	return nil
}
