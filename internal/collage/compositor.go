package collage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png"
	"math"
	"math/rand"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/vincent-petithory/dataurl"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/sync/errgroup"
)

const (
	defaultWidth   = 2480
	defaultHeight  = 3508
	defaultColumns = 2
	defaultRows    = 3
	defaultQuality = 90

	defaultTitle    = "My Emoji Collection"
	defaultSubtitle = "one face, every mood"

	cardAspect      = 3.0 / 4.0
	cardCellFill    = 0.9
	captionFraction = 0.18
	topMarginFrac   = 0.12
	paddingFrac     = 0.03
	maxJitterDeg    = 3.5

	captionMarker = "• " // bullet before each caption
)

// ErrNoEntries rejects a composition with nothing to draw.
var ErrNoEntries = errors.New("collage: no entries to compose")

// Options configures a Compositor. Zero values pick the portrait
// print-proportioned defaults. Rand feeds the per-card rotation jitter; a
// nil Rand disables rotation entirely, which makes output fully
// deterministic for a given input.
type Options struct {
	Width    int
	Height   int
	Columns  int
	Rows     int
	Quality  int
	Title    string
	Subtitle string
	Rand     *rand.Rand
}

// Entry is one captioned card: a label and its decoded pixels.
type Entry struct {
	Label string
	Image image.Image
}

// Item is one captioned card before decoding: a label and its data URL.
type Item struct {
	Label string
	URL   string
}

// Compositor renders a set of labeled images as a single collage of
// scattered polaroid-style cards and serializes it to a JPEG data URL.
type Compositor struct {
	opts         Options
	titleFace    font.Face
	subtitleFace font.Face
	captionFace  font.Face
}

// New constructs a Compositor, loading the embedded Go fonts at sizes
// proportional to the canvas width.
func New(opts Options) (*Compositor, error) {
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultHeight
	}
	if opts.Columns <= 0 {
		opts.Columns = defaultColumns
	}
	if opts.Rows <= 0 {
		opts.Rows = defaultRows
	}
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = defaultQuality
	}
	if opts.Title == "" {
		opts.Title = defaultTitle
	}
	if opts.Subtitle == "" {
		opts.Subtitle = defaultSubtitle
	}

	w := float64(opts.Width)
	titleFace, err := newFace(gobold.TTF, w*0.055)
	if err != nil {
		return nil, fmt.Errorf("collage: load title font: %w", err)
	}
	subtitleFace, err := newFace(goregular.TTF, w*0.022)
	if err != nil {
		return nil, fmt.Errorf("collage: load subtitle font: %w", err)
	}
	captionFace, err := newFace(gobold.TTF, w*0.026)
	if err != nil {
		return nil, fmt.Errorf("collage: load caption font: %w", err)
	}

	return &Compositor{
		opts:         opts,
		titleFace:    titleFace,
		subtitleFace: subtitleFace,
		captionFace:  captionFace,
	}, nil
}

func newFace(ttf []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{Size: size}), nil
}

// ComposeDataURLs decodes every item in parallel and composes the result.
// All decodes are issued concurrently and any single failure aborts the
// whole composition; there is no partial collage.
func (c *Compositor) ComposeDataURLs(ctx context.Context, album []Item) (string, error) {
	if len(album) == 0 {
		return "", ErrNoEntries
	}
	entries := make([]Entry, len(album))
	g, gctx := errgroup.WithContext(ctx)
	for i, item := range album {
		i, item := i, item
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img, err := decodeImageDataURL(item.URL)
			if err != nil {
				return fmt.Errorf("collage: load %q: %w", item.Label, err)
			}
			entries[i] = Entry{Label: item.Label, Image: img}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}
	return c.Compose(ctx, entries)
}

// Compose draws the entries, in input order, onto a fresh canvas and
// returns the JPEG-encoded data URL.
func (c *Compositor) Compose(ctx context.Context, entries []Entry) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", ErrNoEntries
	}
	cells := c.opts.Columns * c.opts.Rows
	if len(entries) > cells {
		return "", fmt.Errorf("collage: %d entries exceed the %d-card grid", len(entries), cells)
	}
	for _, e := range entries {
		if e.Image == nil {
			return "", fmt.Errorf("collage: entry %q has no image", e.Label)
		}
	}

	dc := gg.NewContext(c.opts.Width, c.opts.Height)
	c.drawBackground(dc)
	c.drawHeading(dc)

	cards := gridCards(float64(c.opts.Width), float64(c.opts.Height), c.opts.Columns, c.opts.Rows)
	for i, e := range entries {
		c.drawCard(dc, e, cards[i], c.jitter())
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dc.Image(), &jpeg.Options{Quality: c.opts.Quality}); err != nil {
		return "", fmt.Errorf("collage: encode jpeg: %w", err)
	}
	return dataurl.New(buf.Bytes(), "image/jpeg").String(), nil
}

// jitter draws the next card rotation from the injected source, bounded to
// a few degrees either way. The jitter is the only non-deterministic part
// of the layout.
func (c *Compositor) jitter() float64 {
	if c.opts.Rand == nil {
		return 0
	}
	return (c.opts.Rand.Float64()*2 - 1) * gg.Radians(maxJitterDeg)
}

func (c *Compositor) drawBackground(dc *gg.Context) {
	w, h := float64(c.opts.Width), float64(c.opts.Height)

	dc.SetHexColor("#1a1625")
	dc.Clear()

	grad := gg.NewRadialGradient(w/2, h/2, 0, w/2, h/2, math.Hypot(w, h)/2)
	grad.AddColorStop(0, color.RGBA{0, 0, 0, 0})
	grad.AddColorStop(1, color.RGBA{0, 0, 0, 150})
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()
}

func (c *Compositor) drawHeading(dc *gg.Context) {
	w := float64(c.opts.Width)
	top := float64(c.opts.Height) * topMarginFrac
	titleY := top * 0.45
	subtitleY := top * 0.75
	glow := w * 0.0012

	dc.SetFontFace(c.titleFace)
	offsets := []gg.Point{
		{X: -glow}, {X: glow}, {Y: -glow}, {Y: glow},
		{X: -glow, Y: -glow}, {X: glow, Y: glow},
		{X: -glow, Y: glow}, {X: glow, Y: -glow},
	}
	dc.SetRGBA(1, 0.42, 0.61, 0.4)
	for _, off := range offsets {
		dc.DrawStringAnchored(c.opts.Title, w/2+off.X, titleY+off.Y, 0.5, 0.5)
	}
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(c.opts.Title, w/2, titleY, 0.5, 0.5)

	dc.SetFontFace(c.subtitleFace)
	dc.SetRGBA(1, 1, 1, 0.75)
	dc.DrawStringAnchored(c.opts.Subtitle, w/2, subtitleY, 0.5, 0.5)
}

// drawCard renders one polaroid: drop-shadowed rounded card, cover-fit
// photo on top, caption strip along the bottom. All drawing happens inside
// the card's rotated frame and clip, both undone before returning.
func (c *Compositor) drawCard(dc *gg.Context, e Entry, card Rect, angle float64) {
	dc.Push()
	cx, cy := card.Center()
	if angle != 0 {
		dc.RotateAbout(angle, cx, cy)
	}

	radius := card.W * 0.04
	shadow := card.W * 0.02
	dc.SetRGBA(0, 0, 0, 0.4)
	dc.DrawRoundedRectangle(card.X+shadow, card.Y+shadow, card.W, card.H, radius)
	dc.Fill()

	dc.SetHexColor("#faf6ef")
	dc.DrawRoundedRectangle(card.X, card.Y, card.W, card.H, radius)
	dc.Fill()

	dc.DrawRoundedRectangle(card.X, card.Y, card.W, card.H, radius)
	dc.Clip()

	photoH := card.H * (1 - captionFraction)
	photo := scaledCover(e.Image, int(math.Round(card.W)), int(math.Round(photoH)))
	dc.DrawImage(photo, int(math.Round(card.X)), int(math.Round(card.Y)))

	stripY := card.Y + photoH
	dc.SetHexColor("#f2e7ce")
	dc.DrawRectangle(card.X, stripY, card.W, card.H-photoH)
	dc.Fill()

	dc.SetFontFace(c.captionFace)
	dc.SetHexColor("#3b3347")
	dc.DrawStringAnchored(captionMarker+e.Label, cx, stripY+(card.H-photoH)/2, 0.5, 0.5)

	dc.ResetClip()
	dc.Pop()
}

func decodeImageDataURL(s string) (image.Image, error) {
	du, err := dataurl.DecodeString(s)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(du.Data))
	if err != nil {
		return nil, err
	}
	return img, nil
}
