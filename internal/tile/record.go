package tile

import (
	"fmt"
	"strconv"

	"tessera/pkg/colorutil"
)

// Record is the flat tile schema exchanged with the persistence collaborator.
// Field order matches the CSV column order.
type Record struct {
	Serial     uint64
	ShapeKind  string
	X          float64
	Y          float64
	Width      float64
	Height     float64
	Rotation   float64
	FrameColor string // "#RRGGBB"
	FillColor  string // empty if unfilled
	Filled     bool
}

// RecordHeader is the CSV header row for tile records.
var RecordHeader = []string{
	"serial", "shape", "x", "y", "width", "height",
	"rotation", "frame_color", "fill_color", "filled",
}

// ToRecord converts a tile to its persisted form.
func (t *Tile) ToRecord() Record {
	r := Record{
		Serial:     t.Serial,
		ShapeKind:  t.Kind.String(),
		X:          t.X,
		Y:          t.Y,
		Width:      t.Width,
		Height:     t.Height,
		Rotation:   t.Rotation,
		FrameColor: colorutil.FormatHex(t.FrameColor),
		Filled:     t.Filled,
	}
	if t.Filled {
		r.FillColor = colorutil.FormatHex(t.FillColor)
	}
	return r
}

// FromRecord reconstructs a tile from its persisted form, preserving the
// serial number. Missing colors fall back to the default frame.
func FromRecord(r Record) (*Tile, error) {
	if r.Width <= 0 || r.Height <= 0 {
		return nil, fmt.Errorf("tile %d: non-positive dimensions %gx%g", r.Serial, r.Width, r.Height)
	}

	t := &Tile{
		Kind:       KindFromString(r.ShapeKind),
		X:          r.X,
		Y:          r.Y,
		Width:      r.Width,
		Height:     r.Height,
		Rotation:   r.Rotation,
		Serial:     r.Serial,
		FrameColor: colorutil.SaddleBrown,
	}
	if t.Kind == KindTriangle {
		t.Height = t.Width
	}

	if r.FrameColor != "" {
		c, err := colorutil.ParseHex(r.FrameColor)
		if err != nil {
			return nil, fmt.Errorf("tile %d: %w", r.Serial, err)
		}
		t.FrameColor = c
	}
	if r.Filled && r.FillColor != "" {
		c, err := colorutil.ParseHex(r.FillColor)
		if err != nil {
			return nil, fmt.Errorf("tile %d: %w", r.Serial, err)
		}
		t.Fill(c)
	}
	return t, nil
}

// MarshalRow renders the record as a CSV row.
func (r Record) MarshalRow() []string {
	return []string{
		strconv.FormatUint(r.Serial, 10),
		r.ShapeKind,
		formatFloat(r.X),
		formatFloat(r.Y),
		formatFloat(r.Width),
		formatFloat(r.Height),
		formatFloat(r.Rotation),
		r.FrameColor,
		r.FillColor,
		strconv.FormatBool(r.Filled),
	}
}

// UnmarshalRow parses a CSV row into a record. Rows with too few columns or
// non-numeric fields are rejected.
func UnmarshalRow(row []string) (Record, error) {
	if len(row) < 10 {
		return Record{}, fmt.Errorf("expected 10 columns, got %d", len(row))
	}

	serial, err := strconv.ParseUint(row[0], 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("serial %q: %w", row[0], err)
	}

	var nums [5]float64
	for i, col := range row[2:7] {
		v, err := strconv.ParseFloat(col, 64)
		if err != nil {
			return Record{}, fmt.Errorf("column %d %q: %w", i+3, col, err)
		}
		nums[i] = v
	}

	filled := false
	switch row[9] {
	case "true", "1", "yes", "True", "TRUE":
		filled = true
	}

	return Record{
		Serial:     serial,
		ShapeKind:  row[1],
		X:          nums[0],
		Y:          nums[1],
		Width:      nums[2],
		Height:     nums[3],
		Rotation:   nums[4],
		FrameColor: row[7],
		FillColor:  row[8],
		Filled:     filled,
	}, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
