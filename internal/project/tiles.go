package project

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"

	"tessera/internal/tile"
)

// SaveTiles writes tiles as CSV records, header row first.
func SaveTiles(w io.Writer, tiles []*tile.Tile) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tile.RecordHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, t := range tiles {
		if err := cw.Write(t.ToRecord().MarshalRow()); err != nil {
			return fmt.Errorf("write tile %d: %w", t.Serial, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// LoadTiles reads CSV tile records. Malformed rows are skipped with a logged
// warning; the returned skipped count says how many. A leading header row is
// tolerated and ignored.
func LoadTiles(r io.Reader) (tiles []*tile.Tile, skipped int, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // row length is validated per record

	for rowNum := 1; ; rowNum++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read row %d: %w", rowNum, err)
		}
		if rowNum == 1 && len(row) > 0 && row[0] == tile.RecordHeader[0] {
			continue
		}

		rec, err := tile.UnmarshalRow(row)
		if err != nil {
			log.Printf("skipping tile row %d: %v", rowNum, err)
			skipped++
			continue
		}
		t, err := tile.FromRecord(rec)
		if err != nil {
			log.Printf("skipping tile row %d: %v", rowNum, err)
			skipped++
			continue
		}
		tiles = append(tiles, t)
	}
	return tiles, skipped, nil
}
