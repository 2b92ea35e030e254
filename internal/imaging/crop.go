package imaging

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/disintegration/imaging"
)

// CropRect extracts the region [left,right) × [top,bottom) from img.
//
// Coordinates are relative to the image origin. The returned image owns its
// pixels and has its origin at (0,0).
func CropRect(img image.Image, left, top, right, bottom int) (*image.NRGBA, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if left < 0 || top < 0 || right > w || bottom > h {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (0,0)-(%d,%d)",
			left, top, right, bottom, w, h)
	}
	if left >= right || top >= bottom {
		return nil, fmt.Errorf("invalid crop region: left must be < right, top must be < bottom")
	}

	rect := image.Rect(left, top, right, bottom).Add(bounds.Min)
	return imaging.Crop(img, rect), nil
}

// Paste copies every pixel of src into dst with src's top-left corner at
// (left, top). Pixels falling outside dst are clipped. dst is modified in
// place and never aliases src's buffer.
//
// imaging.Paste clones the whole background on every call, which turns filling
// a mosaic canvas quadratic, so the copy goes through draw.Draw instead.
func Paste(dst *image.NRGBA, src image.Image, left, top int) {
	sb := src.Bounds()
	r := image.Rect(left, top, left+sb.Dx(), top+sb.Dy()).Add(dst.Bounds().Min)
	draw.Draw(dst, r, src, sb.Min, draw.Src)
}
