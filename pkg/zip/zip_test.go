package zip

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
)

func TestArchiveAssets(t *testing.T) {
	data, err := ArchiveAssets([]Asset{
		{Filename: "emoji-Happy.jpg", Data: []byte("happy")},
		{Filename: "emoji-Sad.jpg", Data: []byte("sad")},
	})
	if err != nil {
		t.Fatalf("archive: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	if len(zr.File) != 2 {
		t.Fatalf("entry count = %d, want 2", len(zr.File))
	}
	if zr.File[0].Name != "emoji-Happy.jpg" || zr.File[1].Name != "emoji-Sad.jpg" {
		t.Fatalf("entry order = %q, %q", zr.File[0].Name, zr.File[1].Name)
	}

	rc, err := zr.File[0].Open()
	if err != nil {
		t.Fatalf("open entry: %v", err)
	}
	defer rc.Close()
	body, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read entry: %v", err)
	}
	if string(body) != "happy" {
		t.Fatalf("entry body = %q", body)
	}
}

func TestArchiveAssetsEmpty(t *testing.T) {
	data, err := ArchiveAssets(nil)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if _, err := zip.NewReader(bytes.NewReader(data), int64(len(data))); err != nil {
		t.Fatalf("empty archive unreadable: %v", err)
	}
}
