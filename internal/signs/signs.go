// Package signs generates and loads the reference images shown next to a
// recognized gesture.
package signs

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/lucasb-eyer/go-colorful"
	"gocv.io/x/gocv"
)

// Size is the width and height of a sign image in pixels.
const Size = 200

// DefaultGestures are generated when no label file is given.
var DefaultGestures = []string{"fist", "palm", "thumbs_up", "peace", "ok"}

// Extensions are tried in order when loading a sign.
var Extensions = []string{".png", ".jpg"}

var basePalette = []color.RGBA{
	{R: 255, A: 255},         // red
	{G: 255, A: 255},         // green
	{B: 255, A: 255},         // blue
	{R: 255, G: 255, A: 255}, // yellow
	{R: 255, B: 255, A: 255}, // magenta
}

// Color returns the text color for label i of n. The first labels get the
// base palette, the rest evenly spaced hues.
func Color(i, n int) color.RGBA {
	if i < len(basePalette) {
		return basePalette[i]
	}
	extra := max(n-len(basePalette), 1)
	hue := float64(i-len(basePalette)) * 360 / float64(extra)
	r, g, b := colorful.Hsv(hue, 0.85, 0.9).RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Render draws label on a white square. The caller closes the Mat.
func Render(label string, c color.RGBA) gocv.Mat {
	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 255, 255, 0), Size, Size, gocv.MatTypeCV8UC3)
	gocv.PutTextWithParams(&img, label, image.Pt(20, 100), gocv.FontHersheySimplex, 0.8, c, 2, gocv.LineAA, false)
	return img
}

// Generate writes <dir>/<label>.png for every label and returns the paths
// written. The directory is created if needed.
func Generate(dir string, labels []string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create sign dir: %w", err)
	}

	paths := make([]string, 0, len(labels))
	for i, label := range labels {
		path := filepath.Join(dir, label+".png")

		img := Render(label, Color(i, len(labels)))
		ok := gocv.IMWrite(path, img)
		img.Close()
		if !ok {
			return paths, fmt.Errorf("write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Set holds the loaded sign image for each label that has one.
type Set map[string]gocv.Mat

// Load reads the sign for every label from dir. Labels without an image are
// left out.
func Load(dir string, labels []string) (Set, error) {
	set := make(Set, len(labels))
	for _, label := range labels {
		for _, ext := range Extensions {
			path := filepath.Join(dir, label+ext)
			if _, err := os.Stat(path); err != nil {
				if errors.Is(err, os.ErrNotExist) {
					continue
				}
				set.Close()
				return nil, fmt.Errorf("stat %s: %w", path, err)
			}

			img := gocv.IMRead(path, gocv.IMReadColor)
			if img.Empty() {
				img.Close()
				continue
			}
			set[label] = img
			break
		}
	}
	return set, nil
}

// Get returns the sign for label.
func (s Set) Get(label string) (gocv.Mat, bool) {
	img, ok := s[label]
	return img, ok
}

// Close releases every image in the set.
func (s Set) Close() {
	for label, img := range s {
		img.Close()
		delete(s, label)
	}
}
