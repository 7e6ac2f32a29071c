package staging

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStager(t *testing.T) *Stager {
	t.Helper()
	logger := zerolog.Nop()
	s, err := NewStager(t.TempDir(), &logger)
	require.NoError(t, err)
	return s
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, image.NewNRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func TestStager_StageAndRemove(t *testing.T) {
	s := newTestStager(t)
	data := pngBytes(t)

	f, err := s.Stage(context.Background(), "req-1", "photo.png", bytes.NewReader(data), 1<<20)
	require.NoError(t, err)

	assert.Equal(t, "req-1", f.ID)
	assert.Equal(t, "photo.png", f.Name)
	assert.Equal(t, int64(len(data)), f.Size)
	assert.Equal(t, "image/png", f.ContentType)
	assert.True(t, strings.HasSuffix(f.Path, "req-1.png"))

	got, err := s.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	s.Remove(f)
	_, err = os.Stat(f.Path)
	assert.True(t, os.IsNotExist(err))

	pending, err := s.Pending()
	require.NoError(t, err)
	assert.Empty(t, pending)

	s.Remove(f)
}

func TestStager_StageErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		limit   int64
		wantErr error
	}{
		{name: "over limit", data: bytes.Repeat([]byte{1}, 11), limit: 10, wantErr: ErrFileTooLarge},
		{name: "empty", data: nil, limit: 10, wantErr: ErrEmptyFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStager(t)

			f, err := s.Stage(context.Background(), "req", "file.bin", bytes.NewReader(tt.data), tt.limit)
			assert.Nil(t, f)
			assert.ErrorIs(t, err, tt.wantErr)

			pending, err := s.Pending()
			require.NoError(t, err)
			assert.Empty(t, pending)
		})
	}
}

func TestStager_ExactlyAtLimit(t *testing.T) {
	s := newTestStager(t)

	f, err := s.Stage(context.Background(), "req", "", bytes.NewReader(bytes.Repeat([]byte{'a'}, 10)), 10)
	require.NoError(t, err)
	defer s.Remove(f)

	assert.Equal(t, int64(10), f.Size)
	assert.True(t, strings.HasPrefix(f.ContentType, "text/plain"))
}

func TestStager_NameCannotEscapeDir(t *testing.T) {
	s := newTestStager(t)

	f, err := s.Stage(context.Background(), "req", "../../etc/passwd.png", bytes.NewReader(pngBytes(t)), 1<<20)
	require.NoError(t, err)
	defer s.Remove(f)

	pending, err := s.Pending()
	require.NoError(t, err)
	assert.Equal(t, []string{"req.png"}, pending)
}

func TestStager_CancelledContext(t *testing.T) {
	s := newTestStager(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Stage(ctx, "req", "a.png", bytes.NewReader(pngBytes(t)), 1<<20)
	assert.ErrorIs(t, err, context.Canceled)
}
