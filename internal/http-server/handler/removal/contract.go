package removal

import (
	"context"
	"io"

	"backdrop-api/internal/domain"
	"backdrop-api/internal/staging"
)

type removalUsecase interface {
	RemoveBackground(ctx context.Context, req *domain.UploadRequest) (*domain.ProcessingResult, error)
}

type fileStager interface {
	Stage(ctx context.Context, id, name string, r io.Reader, limit int64) (*staging.File, error)
	ReadAll(f *staging.File) ([]byte, error)
	Remove(f *staging.File)
}
