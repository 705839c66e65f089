package collage

import (
	"image"
	"math"
	"testing"
)

const tolerance = 1e-6

func TestGridCardsRowMajorUniformSpacing(t *testing.T) {
	const cols, rows = 2, 3
	cards := gridCards(2480, 3508, cols, rows)
	if len(cards) != cols*rows {
		t.Fatalf("card count = %d, want %d", len(cards), cols*rows)
	}

	// Index i lands at row i/cols, column i%cols.
	for i, card := range cards {
		cx, cy := card.Center()
		if i%cols == 1 {
			left := cards[i-1]
			lx, _ := left.Center()
			if cx <= lx {
				t.Fatalf("card %d not right of card %d", i, i-1)
			}
		}
		if i >= cols {
			above := cards[i-cols]
			_, ay := above.Center()
			if cy <= ay {
				t.Fatalf("card %d not below card %d", i, i-cols)
			}
		}
	}

	// Distances between adjacent card centers are uniform.
	var hGaps, vGaps []float64
	for i := range cards {
		cx, cy := cards[i].Center()
		if i%cols != cols-1 {
			nx, _ := cards[i+1].Center()
			hGaps = append(hGaps, nx-cx)
		}
		if i+cols < len(cards) {
			_, ny := cards[i+cols].Center()
			vGaps = append(vGaps, ny-cy)
		}
	}
	for _, g := range hGaps[1:] {
		if math.Abs(g-hGaps[0]) > tolerance {
			t.Fatalf("horizontal gaps not uniform: %v", hGaps)
		}
	}
	for _, g := range vGaps[1:] {
		if math.Abs(g-vGaps[0]) > tolerance {
			t.Fatalf("vertical gaps not uniform: %v", vGaps)
		}
	}
}

func TestGridCardsGeometry(t *testing.T) {
	const width, height = 2480.0, 3508.0
	cards := gridCards(width, height, 2, 3)
	top := height * topMarginFrac
	for i, card := range cards {
		if math.Abs(card.W/card.H-cardAspect) > tolerance {
			t.Fatalf("card %d aspect = %f, want %f", i, card.W/card.H, cardAspect)
		}
		if card.X < 0 || card.Y < top || card.X+card.W > width || card.Y+card.H > height {
			t.Fatalf("card %d escapes the grid area: %+v", i, card)
		}
	}
}

func TestCoverFitWiderSource(t *testing.T) {
	// Source wider than target: height is the fitted dimension.
	w, h := coverFit(200, 100, 90, 120)
	if math.Abs(h-120) > tolerance {
		t.Fatalf("drawn height = %f, want 120", h)
	}
	if w < 90 {
		t.Fatalf("drawn width = %f, want >= 90", w)
	}
}

func TestCoverFitNarrowerSource(t *testing.T) {
	// Source narrower than target: width is the fitted dimension.
	w, h := coverFit(100, 200, 90, 120)
	if math.Abs(w-90) > tolerance {
		t.Fatalf("drawn width = %f, want 90", w)
	}
	if h < 120 {
		t.Fatalf("drawn height = %f, want >= 120", h)
	}
}

func TestScaledCoverDimensions(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 100))
	out := scaledCover(src, 90, 120)
	b := out.Bounds()
	if b.Dx() != 90 || b.Dy() != 120 {
		t.Fatalf("scaled bounds = %v, want 90x120", b)
	}
}
