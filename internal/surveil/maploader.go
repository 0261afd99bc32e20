package surveil

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
)

// grayThreshold is the pixel value (of 255) at or above which a pixel is
// considered free space, per spec.md §6 ("grayscale; thresholded at 127").
const grayThreshold = 128

// LoadMap decodes a raster map file into an OccupancyGrid. Any format
// registered with the image package works: image/png and image/jpeg from
// the standard library, plus golang.org/x/image/bmp for plain bitmaps.
func LoadMap(path string, pixelToCM float64) (*OccupancyGrid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &MapError{Path: path, Err: err}
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &MapError{Path: path, Err: fmt.Errorf("decode: %w", err)}
	}

	grid, err := GridFromImage(img, pixelToCM)
	if err != nil {
		return nil, &MapError{Path: path, Err: err}
	}
	return grid, nil
}

// GridFromImage thresholds a decoded image into an OccupancyGrid. Pixels
// are converted to grayscale luminance; >= grayThreshold is free, otherwise
// solid, matching the original source's cv.threshold(image, 127, 255,
// THRESH_BINARY) behaviour.
func GridFromImage(img image.Image, pixelToCM float64) (*OccupancyGrid, error) {
	bounds := img.Bounds()
	cols, rows := bounds.Dx(), bounds.Dy()
	if cols == 0 || rows == 0 {
		return nil, fmt.Errorf("empty image (%dx%d)", cols, rows)
	}

	free := make([]bool, cols*rows)
	anyFree := false
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			gray := grayAt(img, bounds.Min.X+x, bounds.Min.Y+y)
			isFree := gray >= grayThreshold
			free[y*cols+x] = isFree
			anyFree = anyFree || isFree
		}
	}
	if !anyFree {
		return nil, fmt.Errorf("map is fully occupied, no free cells")
	}

	return NewOccupancyGrid(cols, rows, free, pixelToCM), nil
}

// grayAt returns the 0-255 luminance of the pixel at (x, y).
func grayAt(img image.Image, x, y int) int {
	r, g, b, _ := img.At(x, y).RGBA()
	// RGBA() returns 16-bit-scaled channels; reduce to 8-bit before the
	// standard luminance weighting.
	r8, g8, b8 := r>>8, g>>8, b>>8
	return int((299*r8 + 587*g8 + 114*b8) / 1000)
}

// RenderGrid renders an OccupancyGrid back to a grayscale image, mirroring
// the original source's RoomMap.make_map_image — useful for the console
// reporter and tests to confirm what was actually loaded.
func RenderGrid(g *OccupancyGrid) image.Image {
	out := image.NewGray(image.Rect(0, 0, g.cols, g.rows))
	for y := 0; y < g.rows; y++ {
		for x := 0; x < g.cols; x++ {
			v := uint8(0)
			if g.IsFree(x, y) {
				v = 255
			}
			out.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return out
}
