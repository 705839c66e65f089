package collage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand"
	"strings"
	"testing"

	"github.com/vincent-petithory/dataurl"
)

// smallOpts keeps test renders quick while preserving the default grid.
func smallOpts() Options {
	return Options{Width: 620, Height: 877}
}

func solidImage(c color.RGBA, w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func testEntries(n int) []Entry {
	entries := make([]Entry, n)
	for i := range entries {
		shade := uint8(40 * (i + 1))
		entries[i] = Entry{
			Label: fmt.Sprintf("Mood %d", i+1),
			Image: solidImage(color.RGBA{shade, 80, 200 - shade, 255}, 64, 64),
		}
	}
	return entries
}

func pngDataURL(t *testing.T, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return dataurl.New(buf.Bytes(), "image/png").String()
}

func TestComposeWithoutJitterIsDeterministic(t *testing.T) {
	c, err := New(smallOpts())
	if err != nil {
		t.Fatalf("new compositor: %v", err)
	}
	entries := testEntries(6)

	first, err := c.Compose(context.Background(), entries)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	second, err := c.Compose(context.Background(), entries)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if first != second {
		t.Fatal("zero-jitter composition not deterministic")
	}

	du, err := dataurl.DecodeString(first)
	if err != nil {
		t.Fatalf("artifact is not a data URL: %v", err)
	}
	if du.ContentType() != "image/jpeg" {
		t.Fatalf("artifact content type = %q, want image/jpeg", du.ContentType())
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(du.Data))
	if err != nil {
		t.Fatalf("artifact is not a JPEG: %v", err)
	}
	if cfg.Width != 620 || cfg.Height != 877 {
		t.Fatalf("artifact dimensions = %dx%d, want 620x877", cfg.Width, cfg.Height)
	}
}

func TestComposeJitterBounded(t *testing.T) {
	opts := smallOpts()
	opts.Rand = rand.New(rand.NewSource(42))
	c, err := New(opts)
	if err != nil {
		t.Fatalf("new compositor: %v", err)
	}
	jittered, err := c.Compose(context.Background(), testEntries(6))
	if err != nil {
		t.Fatalf("compose with jitter: %v", err)
	}

	plain, err := New(smallOpts())
	if err != nil {
		t.Fatalf("new compositor: %v", err)
	}
	straight, err := plain.Compose(context.Background(), testEntries(6))
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if jittered == straight {
		t.Fatal("seeded jitter produced the zero-jitter artifact")
	}
}

func TestComposePreconditions(t *testing.T) {
	c, err := New(smallOpts())
	if err != nil {
		t.Fatalf("new compositor: %v", err)
	}
	if _, err := c.Compose(context.Background(), nil); !errors.Is(err, ErrNoEntries) {
		t.Fatalf("empty compose err = %v, want ErrNoEntries", err)
	}
	if _, err := c.Compose(context.Background(), testEntries(7)); err == nil {
		t.Fatal("overflowing the grid must fail")
	}
	if _, err := c.Compose(context.Background(), []Entry{{Label: "X"}}); err == nil {
		t.Fatal("nil image entry must fail")
	}
}

func TestComposeDataURLsFailFast(t *testing.T) {
	c, err := New(smallOpts())
	if err != nil {
		t.Fatalf("new compositor: %v", err)
	}

	album := make([]Item, 0, 6)
	for i := 0; i < 5; i++ {
		album = append(album, Item{
			Label: fmt.Sprintf("Good %d", i+1),
			URL:   pngDataURL(t, solidImage(color.RGBA{100, 100, 100, 255}, 16, 16)),
		})
	}
	album = append(album, Item{
		Label: "Broken",
		URL:   dataurl.New([]byte("definitely not pixels"), "image/png").String(),
	})

	out, err := c.ComposeDataURLs(context.Background(), album)
	if err == nil {
		t.Fatal("one broken entry must abort the whole composition")
	}
	if out != "" {
		t.Fatal("partial collage returned alongside the error")
	}
	if !strings.Contains(err.Error(), "Broken") {
		t.Fatalf("error does not name the failing label: %v", err)
	}
}

func TestComposeDataURLsFullAlbum(t *testing.T) {
	c, err := New(smallOpts())
	if err != nil {
		t.Fatalf("new compositor: %v", err)
	}

	album := make([]Item, 6)
	for i := range album {
		shade := uint8(30 * (i + 1))
		album[i] = Item{
			Label: fmt.Sprintf("Mood %d", i+1),
			URL:   pngDataURL(t, solidImage(color.RGBA{shade, shade, shade, 255}, 24, 32)),
		}
	}

	out, err := c.ComposeDataURLs(context.Background(), album)
	if err != nil {
		t.Fatalf("compose album: %v", err)
	}
	if !strings.HasPrefix(out, "data:image/jpeg;base64,") {
		t.Fatalf("artifact = %.40q..., want JPEG data URL", out)
	}
}
