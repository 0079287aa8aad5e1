// Command mosaicpath runs the placement pipeline over a drag path read from
// a CSV points file and writes the resulting tile records.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"tessera/internal/placer"
	"tessera/internal/project"
	"tessera/internal/version"
	"tessera/internal/workspace"
	"tessera/pkg/geometry"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	pointsPath := flag.String("points", "", "CSV file of x,y drag points")
	outPath := flag.String("out", "tiles.csv", "Output tile records CSV")
	mode := flag.String("mode", "single", "Placement mode: single, half, parallel, edge, ring")
	size := flag.Float64("size", 10, "Tile size")
	spacing := flag.Float64("spacing", 1.16, "Spacing multiplier")
	parallelCount := flag.Int("lanes", 1, "Parallel lanes per side")
	angleLimit := flag.Float64("angle-limit", 0, "Clamp tile rotation to +/-N degrees (0 = unclamped)")
	avoid := flag.Bool("avoid", false, "Probe for collision-free positions")
	cleanup := flag.Bool("cleanup", false, "Auto-remove newer overlapping tiles after placement")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if *pointsPath == "" {
		fmt.Println("Usage: mosaicpath -points <path> [-out tiles.csv] [-mode single|half|parallel|edge|ring]")
		os.Exit(1)
	}

	points, err := loadPoints(*pointsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load points: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %d drag points\n", len(points))

	opts := placer.DefaultOptions()
	opts.TileSize = *size
	opts.SpacingMultiplier = *spacing
	opts.ParallelCount = *parallelCount
	opts.AngleLimit = *angleLimit
	opts.AvoidCollisions = *avoid
	opts = opts.Normalize()

	ws := workspace.New(opts)

	if *mode == "ring" {
		ws.PlaceRing(points[0])
	} else {
		if err := ws.BeginStroke(points[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Begin stroke: %v\n", err)
			os.Exit(1)
		}
		for _, p := range points[1:] {
			if err := ws.ExtendStroke(p); err != nil {
				fmt.Fprintf(os.Stderr, "Extend stroke: %v\n", err)
				os.Exit(1)
			}
		}
		ws.FinishStroke(parseMode(*mode))
	}
	fmt.Printf("Placed %d tiles (%s mode)\n", ws.Count(), *mode)

	if *cleanup {
		removed := ws.AutoCleanup()
		fmt.Printf("Auto-cleanup removed %d overlapping tiles\n", removed)
	}

	out, err := os.Create(*outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := project.SaveTiles(out, ws.Tiles()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write tiles: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d tile records to %s\n", ws.Count(), *outPath)
}

func parseMode(s string) placer.Mode {
	switch s {
	case "half":
		return placer.ModeHalf
	case "parallel":
		return placer.ModeParallel
	case "edge":
		return placer.ModeEdge
	default:
		return placer.ModeSingle
	}
}

// loadPoints reads one x,y pair per CSV row. Malformed rows are skipped.
func loadPoints(path string) ([]geometry.Point2D, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	var points []geometry.Point2D
	for rowNum := 1; ; rowNum++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
		if len(row) < 2 {
			log.Printf("skipping row %d: expected x,y", rowNum)
			continue
		}
		x, errX := strconv.ParseFloat(row[0], 64)
		y, errY := strconv.ParseFloat(row[1], 64)
		if errX != nil || errY != nil {
			log.Printf("skipping row %d: non-numeric point", rowNum)
			continue
		}
		points = append(points, geometry.Point2D{X: x, Y: y})
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("no valid points in %s", path)
	}
	return points, nil
}
