package store

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"br.gif", "br.gif"},
		{"file:with:colons.gif", "file_with_colons.gif"},
		{"file<with>brackets.gif", "file_with_brackets.gif"},
		{"file/with\\slashes.gif", "file_with_slashes.gif"},
		{"file?with*wildcards.gif", "file_with_wildcards.gif"},
		{"trailing dots...", "trailing dots"},
		{"multiple   spaces", "multiple spaces"},
		{"trailing spaces   ", "trailing spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SanitizeFileName(tt.input); got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCountryFileName(t *testing.T) {
	tests := []struct {
		country string
		want    string
	}{
		{"Brazil", "Brazil.gif"},
		{"United States", "United_States.gif"},
		{" Congo, Democratic Republic of the ", "Congo,_Democratic_Republic_of_the.gif"},
		{"Bosnia/Herzegovina", "Bosnia_Herzegovina.gif"},
	}

	for _, tt := range tests {
		t.Run(tt.country, func(t *testing.T) {
			if got := CountryFileName(tt.country, ".gif"); got != tt.want {
				t.Errorf("CountryFileName(%q) = %q, want %q", tt.country, got, tt.want)
			}
		})
	}
}

func TestDirStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	ds, err := NewDirStore(dir)
	require.NoError(t, err)
	defer ds.Close()

	require.NoError(t, ds.Store(context.Background(), "br.gif", []byte("data")))

	got, err := os.ReadFile(filepath.Join(dir, "br.gif"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(got))
}

func TestDirStore_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	ds, err := NewDirStore(dir)
	require.NoError(t, err)

	// A directory occupying the target path makes the write fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "taken.gif"), 0755))
	assert.Error(t, ds.Store(context.Background(), "taken.gif", []byte("data")))
}

func TestBlobStore(t *testing.T) {
	ctx := context.Background()
	bucket, err := blob.OpenBucket(ctx, "mem://")
	require.NoError(t, err)
	defer bucket.Close()

	bs := NewBlobStore(bucket)
	require.NoError(t, bs.Store(ctx, "cn.gif", []byte("flag")))
	require.NoError(t, bs.Close())

	got, err := bucket.ReadAll(ctx, "cn.gif")
	require.NoError(t, err)
	assert.Equal(t, "flag", string(got))
}

func TestOpenBlobStore_File(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	bs, err := OpenBlobStore(ctx, "file://"+filepath.ToSlash(dir))
	require.NoError(t, err)
	require.NoError(t, bs.Store(ctx, "us.gif", []byte("flag")))
	require.NoError(t, bs.Close())

	got, err := os.ReadFile(filepath.Join(dir, "us.gif"))
	require.NoError(t, err)
	assert.Equal(t, "flag", string(got))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("dir", func(t *testing.T) {
		s, err := Open(ctx, Options{Dir: t.TempDir()})
		require.NoError(t, err)
		defer s.Close()
		assert.IsType(t, &DirStore{}, s)
	})

	t.Run("bucket", func(t *testing.T) {
		s, err := Open(ctx, Options{URL: "mem://"})
		require.NoError(t, err)
		defer s.Close()
		assert.IsType(t, &BlobStore{}, s)
	})

	t.Run("image", func(t *testing.T) {
		s, err := Open(ctx, Options{URL: "mem://", ConvertToJPEG: true})
		require.NoError(t, err)
		defer s.Close()
		assert.IsType(t, &ImageStore{}, s)
	})

	t.Run("nothing configured", func(t *testing.T) {
		_, err := Open(ctx, Options{})
		assert.Error(t, err)
	})

	t.Run("bad bucket", func(t *testing.T) {
		_, err := Open(ctx, Options{URL: "nosuchscheme://x"})
		assert.Error(t, err)
	})
}

func testGIF(t *testing.T, w, h int) []byte {
	t.Helper()
	palette := color.Palette{color.White, color.Black}
	img := image.NewPaletted(image.Rect(0, 0, w, h), palette)
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestImageStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	ds, err := NewDirStore(dir)
	require.NoError(t, err)

	s := NewImageStore(ds, 50)
	require.NoError(t, s.Store(ctx, "br.gif", testGIF(t, 200, 100)))

	data, err := os.ReadFile(filepath.Join(dir, "br.jpg"))
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Width)
	assert.Equal(t, 25, cfg.Height)
}

func TestImageStore_RejectsNonImage(t *testing.T) {
	ds, err := NewDirStore(t.TempDir())
	require.NoError(t, err)

	s := NewImageStore(ds, 0)
	assert.Error(t, s.Store(context.Background(), "x.gif", []byte("not an image")))
}

func TestConvertToJPEG(t *testing.T) {
	out, err := ConvertToJPEG(testGIF(t, 10, 10))
	require.NoError(t, err)

	_, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}
