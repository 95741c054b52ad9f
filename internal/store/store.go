package store

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

// Store persists a payload under a name.
type Store interface {
	Store(ctx context.Context, name string, data []byte) error
	Close() error
}

// Options selects and configures a Store.
type Options struct {
	// Dir is the local directory used when URL is empty.
	Dir string

	// URL is a gocloud.dev bucket URL such as "file:///tmp/flags" or "mem://".
	URL string

	// ConvertToJPEG re-encodes images as JPEG before storing.
	ConvertToJPEG bool

	// ResizeMax bounds both image dimensions. Zero disables resizing.
	ResizeMax int
}

// Open returns the Store described by opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	var s Store
	if opts.URL != "" {
		bs, err := OpenBlobStore(ctx, opts.URL)
		if err != nil {
			return nil, err
		}
		s = bs
	} else {
		if opts.Dir == "" {
			return nil, errors.New("store: no directory or bucket URL configured")
		}
		ds, err := NewDirStore(opts.Dir)
		if err != nil {
			return nil, err
		}
		s = ds
	}

	if opts.ConvertToJPEG || opts.ResizeMax > 0 {
		s = NewImageStore(s, opts.ResizeMax)
	}
	return s, nil
}

// DirStore writes payloads as files in a directory.
//
// The directory is created on construction if it doesn't exist.
//
// Example:
//
//	ds, err := NewDirStore("downloaded")
//	err = ds.Store(ctx, "br.gif", data) // writes downloaded/br.gif
type DirStore struct {
	dir string
}

// NewDirStore creates a DirStore rooted at dir.
func NewDirStore(dir string) (*DirStore, error) {
	if err := EnsureDir(dir); err != nil {
		return nil, errors.Wrapf(err, "create %s", dir)
	}
	return &DirStore{dir: dir}, nil
}

// Store writes data to dir/name. The name is sanitized first.
func (d *DirStore) Store(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := filepath.Join(d.dir, SanitizeFileName(name))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

// Close is a no-op.
func (d *DirStore) Close() error {
	return nil
}

var (
	invalidChars   = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots   = regexp.MustCompile(`\.+$`)
	repeatedSpaces = regexp.MustCompile(`\s+`)
)

// SanitizeFileName removes or replaces characters that are invalid in file names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars 0x00-0x1f) → underscore
//   - Trailing dots → removed (Windows limitation)
//   - Multiple whitespace → single space
//   - Trailing whitespace → removed
//
// Example:
//
//	SanitizeFileName("Côte d'Ivoire?.gif") // Returns "Côte d'Ivoire_.gif"
func SanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = repeatedSpaces.ReplaceAllString(name, " ")
	return strings.TrimRight(name, " ")
}

// CountryFileName turns a country name into a file name: spaces become
// underscores and the result is sanitized.
func CountryFileName(country, ext string) string {
	return SanitizeFileName(strings.ReplaceAll(strings.TrimSpace(country), " ", "_") + ext)
}

// EnsureDir creates a directory and all parents if they don't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
