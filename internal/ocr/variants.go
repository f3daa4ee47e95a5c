package ocr

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
)

// Variant names in build (and therefore tie-break) order.
const (
	VariantRaw       = "raw"
	VariantLight     = "light"
	VariantBinarized = "binarized"
)

// Variant is one preprocessed rendering of the source image, used as an
// independent OCR attempt.
type Variant struct {
	Name  string
	Image image.Image
}

// PreprocessConfig carries the empirically chosen preprocessing constants.
// The defaults (threshold 160, scale 2) come from field tuning on Korean
// insurance records and certificates; treat them as configuration, not as
// values to re-derive.
type PreprocessConfig struct {
	BinarizeThreshold uint8
	LightScale        int
}

// DefaultPreprocessConfig returns the tuned preprocessing constants.
func DefaultPreprocessConfig() PreprocessConfig {
	return PreprocessConfig{BinarizeThreshold: 160, LightScale: 2}
}

// fixOrientation applies the EXIF orientation tag. Best effort: any decode
// or tag failure returns the image unrotated.
func fixOrientation(raw []byte, img image.Image) image.Image {
	x, err := exif.Decode(bytes.NewReader(raw))
	if err != nil {
		return img
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return img
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return img
	}
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// buildLight produces the contrast-boosted variant: grayscale, upscaled with
// nearest-neighbor resampling, then linearly stretched to full range.
func buildLight(src image.Image, cfg PreprocessConfig) (image.Image, error) {
	scale := cfg.LightScale
	if scale < 1 {
		scale = 1
	}
	b := src.Bounds()
	w, h := b.Dx()*scale, b.Dy()*scale
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("light variant: invalid dimensions %dx%d", w, h)
	}
	gray := imaging.Grayscale(src)
	enlarged := imaging.Resize(gray, w, h, imaging.NearestNeighbor)
	return stretchContrast(enlarged), nil
}

// buildBinarized thresholds the light variant into a single-channel image.
// Hard binarization sharpens clean print but destroys stamp and seal areas,
// which is why it is only one candidate among three.
func buildBinarized(light image.Image, cfg PreprocessConfig) (image.Image, error) {
	b := light.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("binarized variant: empty source")
	}
	out := image.NewGray(b)
	threshold := uint32(cfg.BinarizeThreshold) << 8
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bb, _ := light.At(x, y).RGBA()
			// ITU-R BT.601 luma.
			luma := (299*r + 587*g + 114*bb) / 1000
			i := out.PixOffset(x, y)
			if luma < threshold {
				out.Pix[i] = 0
			} else {
				out.Pix[i] = 255
			}
		}
	}
	return out, nil
}

// stretchContrast maps the observed luminance range onto [0,255].
func stretchContrast(img *image.NRGBA) *image.NRGBA {
	lo, hi := uint8(255), uint8(0)
	for i := 0; i < len(img.Pix); i += 4 {
		v := img.Pix[i] // grayscale NRGBA: R == G == B
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi <= lo {
		return img
	}
	span := int(hi) - int(lo)
	out := imaging.Clone(img)
	for i := 0; i < len(out.Pix); i += 4 {
		v := (int(out.Pix[i]) - int(lo)) * 255 / span
		p := uint8(v)
		out.Pix[i], out.Pix[i+1], out.Pix[i+2] = p, p, p
	}
	return out
}
