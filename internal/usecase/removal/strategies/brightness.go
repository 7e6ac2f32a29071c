package strategies

import (
	"context"
	"image"

	"backdrop-api/internal/domain"
)

// BrightnessThreshold treats any pixel brighter than threshold as background.
type BrightnessThreshold struct {
	threshold float64
	maxPixels int64
}

func NewBrightnessThreshold(threshold float64, maxPixels int64) *BrightnessThreshold {
	if threshold <= 0 {
		threshold = domain.DefaultBrightnessThreshold
	}
	if maxPixels <= 0 {
		maxPixels = domain.DefaultMaxPixels
	}
	return &BrightnessThreshold{threshold: threshold, maxPixels: maxPixels}
}

func (b *BrightnessThreshold) Name() domain.StrategyName {
	return domain.StrategyBrightness
}

func (b *BrightnessThreshold) Process(ctx context.Context, data []byte) ([]byte, string, error) {
	img, _, err := decodeImage(data, b.maxPixels)
	if err != nil {
		return nil, "", err
	}

	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	out, err := encodePNG(b.Apply(img))
	if err != nil {
		return nil, "", err
	}

	return out, domain.ContentTypePNG, nil
}

func (b *BrightnessThreshold) Apply(img image.Image) *image.NRGBA {
	dst := toNRGBA(img)

	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()
	for y := 0; y < h; y++ {
		row := y * dst.Stride
		for x := 0; x < w; x++ {
			i := row + x*4
			brightness := (float64(dst.Pix[i]) + float64(dst.Pix[i+1]) + float64(dst.Pix[i+2])) / 3

			if brightness > b.threshold {
				dst.Pix[i+3] = 0
			} else {
				dst.Pix[i+3] = 0xff
			}
		}
	}

	return dst
}
