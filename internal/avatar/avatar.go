// Package avatar stores user profile pictures on local disk, normalized to a
// square JPEG.
package avatar

import (
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
)

const (
	targetSize  = 400
	jpegQuality = 85
)

// Store manages profile picture files under a base directory.
type Store struct {
	dir string
}

// NewStore creates the base directory if needed and returns a Store.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create avatar directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save decodes the uploaded image, center-crops it square, scales it to
// 400x400, and writes it as a JPEG. It returns the stored file name.
func (s *Store) Save(userID uint, r io.Reader) (string, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return "", fmt.Errorf("unsupported or corrupt image: %w", err)
	}

	square := centerCrop(src)
	dst := image.NewRGBA(image.Rect(0, 0, targetSize, targetSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), square, square.Bounds(), draw.Over, nil)

	name := fileName(userID)
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to write profile picture: %w", err)
	}
	defer f.Close()

	if err := jpeg.Encode(f, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("failed to encode profile picture: %w", err)
	}
	return name, nil
}

// Path returns the on-disk path of the user's profile picture and whether it
// exists.
func (s *Store) Path(userID uint) (string, bool) {
	p := filepath.Join(s.dir, fileName(userID))
	if _, err := os.Stat(p); err != nil {
		return "", false
	}
	return p, true
}

// Delete removes the user's profile picture. Deleting a missing picture is
// not an error.
func (s *Store) Delete(userID uint) error {
	err := os.Remove(filepath.Join(s.dir, fileName(userID)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func fileName(userID uint) string {
	return fmt.Sprintf("profile_%d.jpg", userID)
}

// centerCrop returns the largest centered square region of img.
func centerCrop(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == h {
		return img
	}

	side := w
	if h < side {
		side = h
	}
	x0 := b.Min.X + (w-side)/2
	y0 := b.Min.Y + (h-side)/2
	rect := image.Rect(x0, y0, x0+side, y0+side)

	cropped := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Copy(cropped, image.Point{}, img, rect, draw.Src, nil)
	return cropped
}
