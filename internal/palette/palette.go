// Package palette loads, saves, and applies flat color palettes for tile
// filling and background reduction.
package palette

import (
	"encoding/csv"
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
	"sort"

	"tessera/pkg/colorutil"
)

// header is the single-column CSV header palette files carry.
var header = []string{"Color"}

// Load reads a palette CSV: a header row followed by one "#RRGGBB" value per
// row. Rows that do not parse as colors are skipped with a warning.
func Load(r io.Reader) ([]color.RGBA, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var colors []color.RGBA
	for rowNum := 1; ; rowNum++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", rowNum, err)
		}
		if len(row) == 0 || (rowNum == 1 && row[0] == header[0]) {
			continue
		}
		c, err := colorutil.ParseHex(row[0])
		if err != nil {
			log.Printf("skipping palette row %d: %v", rowNum, err)
			continue
		}
		colors = append(colors, c)
	}
	return colors, nil
}

// Save writes a palette CSV with a header row.
func Save(w io.Writer, colors []color.RGBA) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, c := range colors {
		if err := cw.Write([]string{colorutil.FormatHex(c)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Grays returns n gray levels evenly distributed from black to white.
func Grays(n int) []color.RGBA {
	if n < 2 {
		n = 2
	}
	out := make([]color.RGBA, n)
	for i := range out {
		v := uint8(i * 255 / (n - 1))
		out[i] = color.RGBA{R: v, G: v, B: v, A: 255}
	}
	return out
}

// Reduce maps every pixel of the image onto its nearest palette color and
// returns the reduced copy. Alpha is preserved.
func Reduce(src image.Image, colors []color.RGBA) *image.RGBA {
	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := src.At(x, y)
			nearest := colorutil.Nearest(c, colors)
			_, _, _, a := c.RGBA()
			nearest.A = uint8(a >> 8)
			dst.SetRGBA(x, y, nearest)
		}
	}
	return dst
}

// Extract samples the image into a coarse RGB cube and returns the average
// color of the n most populated cells, most frequent first.
func Extract(src image.Image, n int) []color.RGBA {
	if n < 1 {
		n = 1
	}

	type cell struct {
		count   int
		r, g, b uint64
	}
	cells := map[uint32]*cell{}

	bounds := src.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := src.At(x, y).RGBA()
			if a>>8 < 128 {
				continue
			}
			r >>= 8
			g >>= 8
			b >>= 8
			// 4 bits per channel keeps the cube small while separating hues.
			key := (r>>4)<<8 | (g>>4)<<4 | (b >> 4)
			c := cells[key]
			if c == nil {
				c = &cell{}
				cells[key] = c
			}
			c.count++
			c.r += uint64(r)
			c.g += uint64(g)
			c.b += uint64(b)
		}
	}
	if len(cells) == 0 {
		return nil
	}

	ordered := make([]*cell, 0, len(cells))
	for _, c := range cells {
		ordered = append(ordered, c)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].count > ordered[j].count })
	if len(ordered) > n {
		ordered = ordered[:n]
	}

	out := make([]color.RGBA, len(ordered))
	for i, c := range ordered {
		cnt := uint64(c.count)
		out[i] = color.RGBA{
			R: uint8(c.r / cnt),
			G: uint8(c.g / cnt),
			B: uint8(c.b / cnt),
			A: 255,
		}
	}
	return out
}
