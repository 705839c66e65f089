package collage

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

// Rect is a card rectangle in canvas coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Center returns the rectangle's midpoint.
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// gridCards lays out cols*rows card rectangles over the canvas area below
// the title margin. Cells get uniform padding between and around them; each
// card keeps the 3:4 polaroid aspect, fills 90% of its cell's height, and
// sits horizontally centered in the cell. Index order is row-major.
func gridCards(width, height float64, cols, rows int) []Rect {
	top := height * topMarginFrac
	pad := width * paddingFrac

	cellW := (width - pad*float64(cols+1)) / float64(cols)
	cellH := (height - top - pad*float64(rows+1)) / float64(rows)

	cardH := cellH * cardCellFill
	cardW := cardH * cardAspect
	if cardW > cellW {
		cardW = cellW
		cardH = cardW / cardAspect
	}

	cards := make([]Rect, 0, cols*rows)
	for i := 0; i < cols*rows; i++ {
		row := i / cols
		col := i % cols
		cellX := pad + float64(col)*(cellW+pad)
		cellY := top + pad + float64(row)*(cellH+pad)
		cards = append(cards, Rect{
			X: cellX + (cellW-cardW)/2,
			Y: cellY + (cellH-cardH)/2,
			W: cardW,
			H: cardH,
		})
	}
	return cards
}

// coverFit returns the uniform-scale draw size that fully covers the target
// rectangle. The fitted dimension equals the target; the other is >= target
// and gets center-cropped by the caller.
func coverFit(srcW, srcH, dstW, dstH float64) (float64, float64) {
	srcRatio := srcW / srcH
	dstRatio := dstW / dstH
	if srcRatio > dstRatio {
		return dstH * srcRatio, dstH
	}
	return dstW, dstW / srcRatio
}

// scaledCover resamples src into a w x h image using cover fit with a
// symmetric center crop of the overflow dimension.
func scaledCover(src image.Image, w, h int) *image.RGBA {
	b := src.Bounds()
	srcW, srcH := float64(b.Dx()), float64(b.Dy())
	targetRatio := float64(w) / float64(h)

	crop := b
	if srcW/srcH > targetRatio {
		cw := int(math.Round(srcH * targetRatio))
		x0 := b.Min.X + (b.Dx()-cw)/2
		crop = image.Rect(x0, b.Min.Y, x0+cw, b.Max.Y)
	} else if srcW/srcH < targetRatio {
		ch := int(math.Round(srcW / targetRatio))
		y0 := b.Min.Y + (b.Dy()-ch)/2
		crop = image.Rect(b.Min.X, y0, b.Max.X, y0+ch)
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, xdraw.Src, nil)
	return dst
}
