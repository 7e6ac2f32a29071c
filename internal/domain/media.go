package domain

import "strings"

type MediaKind string

const (
	KindImage MediaKind = "image"
	KindVideo MediaKind = "video"
)

// Method is the strategy selector accepted in the "method" form field.
type Method string

const (
	MethodAuto     Method = "auto"
	MethodAPI      Method = "api"
	MethodSimple   Method = "simple"
	MethodAdvanced Method = "advanced"
	MethodJimp     Method = "jimp"
	MethodLocal    Method = "local"
)

// StrategyName identifies the algorithm a method resolves to.
type StrategyName string

const (
	StrategyPassThrough StrategyName = "pass-through"
	StrategyCorner      StrategyName = "corner-sampling"
	StrategyBrightness  StrategyName = "brightness-threshold"
	StrategyExternal    StrategyName = "external-api"
)

// UploadRequest lives for a single HTTP request.
type UploadRequest struct {
	ID          string
	Filename    string
	Data        []byte
	ContentType string
	Kind        MediaKind
	Method      Method
}

type ProcessingResult struct {
	Data        []byte
	ContentType string
	Strategy    StrategyName
}

// KindFromContentType maps a MIME type onto a media kind. ok is false for
// anything that is neither image/* nor video/*.
func KindFromContentType(contentType string) (MediaKind, bool) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	switch {
	case strings.HasPrefix(ct, "image/"):
		return KindImage, true
	case strings.HasPrefix(ct, "video/"):
		return KindVideo, true
	default:
		return "", false
	}
}

func ExtensionForContentType(contentType string) string {
	switch strings.ToLower(contentType) {
	case "image/png":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/bmp":
		return ".bmp"
	case "image/tiff":
		return ".tiff"
	default:
		return ""
	}
}

const (
	ContentTypePNG = "image/png"

	DefaultMaxUploadSize       = 10 << 20
	DefaultCornerThreshold     = 50
	DefaultBrightnessThreshold = 240
	DefaultMaxPixels           = 40_000_000

	ServiceName    = "backdropai-backend"
	ServiceVersion = "1.0.0"
)
