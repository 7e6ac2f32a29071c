package staging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/wb-go/wbf/zlog"
)

// File is an upload copied to local disk for the lifetime of one request.
type File struct {
	ID          string
	Path        string
	Name        string
	Size        int64
	ContentType string
}

// Stager owns a directory of short-lived upload copies. Every File returned by
// Stage must be released with Remove.
type Stager struct {
	dir    string
	logger *zlog.Zerolog
}

func NewStager(dir string, logger *zlog.Zerolog) (*Stager, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create staging dir: %w", err)
	}
	return &Stager{dir: dir, logger: logger}, nil
}

func (s *Stager) Dir() string {
	return s.dir
}

// Stage copies at most limit bytes of r to a file named after id and sniffs
// its content type. Nothing is left on disk when an error is returned.
func (s *Stager) Stage(ctx context.Context, id, name string, r io.Reader, limit int64) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(s.dir, id+filepath.Ext(sanitizeName(name)))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to create staged file: %w", err)
	}

	written, copyErr := io.Copy(f, io.LimitReader(r, limit+1))
	closeErr := f.Close()

	if err := errors.Join(copyErr, closeErr); err != nil {
		s.discard(path)
		return nil, fmt.Errorf("failed to write staged file: %w", err)
	}
	if written > limit {
		s.discard(path)
		return nil, ErrFileTooLarge
	}
	if written == 0 {
		s.discard(path)
		return nil, ErrEmptyFile
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		s.discard(path)
		return nil, fmt.Errorf("failed to detect content type: %w", err)
	}

	s.logger.Debug().
		Str("request_id", id).
		Str("path", path).
		Int64("size", written).
		Str("content_type", mtype.String()).
		Msg("Upload staged")

	return &File{
		ID:          id,
		Path:        path,
		Name:        name,
		Size:        written,
		ContentType: mtype.String(),
	}, nil
}

func (s *Stager) ReadAll(f *File) ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read staged file: %w", err)
	}
	return data, nil
}

// Remove deletes the staged copy. Removing a file twice is not an error.
func (s *Stager) Remove(f *File) {
	if f == nil {
		return
	}
	s.discard(f.Path)
}

// Pending lists the names of staged files still on disk.
func (s *Stager) Pending() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read staging dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func (s *Stager) discard(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Error().Err(err).Str("path", path).Msg("Failed to remove staged file")
	}
}

func sanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	return name
}
