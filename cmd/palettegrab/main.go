// Command palettegrab extracts a reduced color palette from a raster image
// and writes it as a palette CSV usable for tile fills.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"

	"tessera/internal/palette"
	"tessera/internal/version"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

func main() {
	imagePath := flag.String("image", "", "Source image file")
	outPath := flag.String("out", "palette.csv", "Output palette CSV")
	colors := flag.Int("colors", 16, "Number of palette colors")
	grays := flag.Bool("grays", false, "Build a grayscale ramp instead of sampling the image")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if *grays {
		pal := palette.Grays(*colors)
		if err := writePalette(*outPath, pal); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write palette: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %d grayscale colors to %s\n", len(pal), *outPath)
		return
	}

	if *imagePath == "" {
		fmt.Println("Usage: palettegrab -image <path> [-out palette.csv] [-colors N]")
		os.Exit(1)
	}

	f, err := os.Open(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open image: %v\n", err)
		os.Exit(1)
	}
	img, format, err := image.Decode(f)
	f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to decode image: %v\n", err)
		os.Exit(1)
	}
	bounds := img.Bounds()
	fmt.Printf("Loaded %s image %dx%d\n", format, bounds.Dx(), bounds.Dy())

	pal := palette.Extract(img, *colors)
	if err := writePalette(*outPath, pal); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write palette: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d colors to %s\n", len(pal), *outPath)
}

func writePalette(path string, pal []color.RGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return palette.Save(f, pal)
}
