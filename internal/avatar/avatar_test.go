package avatar

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"strings"
	"testing"
)

func encodePNG(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return &buf
}

func TestStore(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	t.Run("save normalizes to square jpeg", func(t *testing.T) {
		name, err := store.Save(1, encodePNG(t, 800, 600))
		if err != nil {
			t.Fatalf("save failed: %v", err)
		}
		if name != "profile_1.jpg" {
			t.Errorf("unexpected file name %q", name)
		}

		path, ok := store.Path(1)
		if !ok {
			t.Fatal("expected the picture to exist")
		}
		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("failed to open stored picture: %v", err)
		}
		defer f.Close()

		img, err := jpeg.Decode(f)
		if err != nil {
			t.Fatalf("stored picture is not a valid jpeg: %v", err)
		}
		b := img.Bounds()
		if b.Dx() != targetSize || b.Dy() != targetSize {
			t.Errorf("expected %dx%d, got %dx%d", targetSize, targetSize, b.Dx(), b.Dy())
		}
	})

	t.Run("save rejects non-images", func(t *testing.T) {
		_, err := store.Save(2, strings.NewReader("not an image"))
		if err == nil {
			t.Fatal("expected an error for a non-image upload")
		}
	})

	t.Run("path reports missing pictures", func(t *testing.T) {
		if _, ok := store.Path(999); ok {
			t.Error("did not expect a picture for an unknown user")
		}
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		if _, err := store.Save(3, encodePNG(t, 100, 100)); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		if err := store.Delete(3); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if err := store.Delete(3); err != nil {
			t.Fatalf("expected deleting a missing picture to succeed, got %v", err)
		}
		if _, ok := store.Path(3); ok {
			t.Error("expected the picture to be gone")
		}
	})
}
