package strategies

import (
	"context"
	"image"
	"math"

	"backdrop-api/internal/domain"
)

// CornerSampler takes the mean colour of the four corner pixels as the
// background and clears every pixel closer to it than threshold.
type CornerSampler struct {
	threshold float64
	maxPixels int64
}

func NewCornerSampler(threshold float64, maxPixels int64) *CornerSampler {
	if threshold <= 0 {
		threshold = domain.DefaultCornerThreshold
	}
	if maxPixels <= 0 {
		maxPixels = domain.DefaultMaxPixels
	}
	return &CornerSampler{threshold: threshold, maxPixels: maxPixels}
}

func (c *CornerSampler) Name() domain.StrategyName {
	return domain.StrategyCorner
}

func (c *CornerSampler) Process(ctx context.Context, data []byte) ([]byte, string, error) {
	img, _, err := decodeImage(data, c.maxPixels)
	if err != nil {
		return nil, "", err
	}

	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	out, err := encodePNG(c.Apply(img))
	if err != nil {
		return nil, "", err
	}

	return out, domain.ContentTypePNG, nil
}

// Apply runs the classifier on a decoded image. Cleared pixels get alpha 0,
// all others keep their colour at full opacity.
func (c *CornerSampler) Apply(img image.Image) *image.NRGBA {
	dst := toNRGBA(img)
	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()
	if w == 0 || h == 0 {
		return dst
	}

	bg := cornerColor(dst)
	for y := 0; y < h; y++ {
		row := y * dst.Stride
		for x := 0; x < w; x++ {
			i := row + x*4
			dr := float64(dst.Pix[i]) - bg[0]
			dg := float64(dst.Pix[i+1]) - bg[1]
			db := float64(dst.Pix[i+2]) - bg[2]

			if math.Sqrt(dr*dr+dg*dg+db*db) < c.threshold {
				dst.Pix[i+3] = 0
			} else {
				dst.Pix[i+3] = 0xff
			}
		}
	}

	return dst
}

func cornerColor(img *image.NRGBA) [3]float64 {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	corners := [4][2]int{{0, 0}, {w - 1, 0}, {0, h - 1}, {w - 1, h - 1}}

	var sum [3]float64
	for _, p := range corners {
		i := img.PixOffset(p[0], p[1])
		sum[0] += float64(img.Pix[i])
		sum[1] += float64(img.Pix[i+1])
		sum[2] += float64(img.Pix[i+2])
	}

	return [3]float64{sum[0] / 4, sum[1] / 4, sum[2] / 4}
}
