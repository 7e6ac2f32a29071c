package strategies

import (
	"context"

	"backdrop-api/internal/domain"

	"github.com/gabriel-vasile/mimetype"
)

// PassThrough echoes its input. It stands in wherever no real removal is wanted.
type PassThrough struct{}

func NewPassThrough() *PassThrough {
	return &PassThrough{}
}

func (p *PassThrough) Name() domain.StrategyName {
	return domain.StrategyPassThrough
}

func (p *PassThrough) Process(ctx context.Context, data []byte) ([]byte, string, error) {
	if len(data) == 0 {
		return nil, "", ErrEmptyInput
	}
	return data, mimetype.Detect(data).String(), nil
}
