// Command ggshot runs a ROM headless for a number of frames and writes the
// last frame to a PNG or BMP file.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/user-none/emgg/emu"
	"github.com/user-none/emgg/romloader"
	"golang.org/x/image/bmp"
)

func main() {
	romPath := flag.String("rom", "", "path to ROM file")
	frames := flag.Int("frames", 120, "frames to run before the capture")
	outPath := flag.String("out", "shot.png", "output image (.png or .bmp)")
	regionFlag := flag.String("region", "auto", "region: auto, ntsc, or pal")
	ggLCD := flag.Bool("gg-lcd", true, "capture only the Game Gear LCD window")
	cropBorder := flag.Bool("crop-border", false, "crop blank left column when enabled by game")
	flag.Parse()

	if *romPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: ggshot -rom <romfile> [-frames n] [-out shot.png] [-region auto|ntsc|pal]")
		os.Exit(1)
	}

	romData, name, err := romloader.LoadROM(*romPath)
	if err != nil {
		log.Fatalf("Failed to load ROM: %v", err)
	}

	region, err := parseRegion(*regionFlag, romData)
	if err != nil {
		log.Fatal(err)
	}

	e, err := emu.NewEmulator(romData, region)
	if err != nil {
		log.Fatalf("Failed to start %s: %v", name, err)
	}
	defer e.Close()
	e.SetOption("gg_lcd", fmt.Sprint(*ggLCD))
	e.SetOption("crop_border", fmt.Sprint(*cropBorder))

	for i := 0; i < *frames; i++ {
		e.RunFrame()
	}

	f, err := os.Create(*outPath)
	if err != nil {
		log.Fatal(err)
	}
	if err := writeImage(f, *outPath, frameImage(e)); err != nil {
		f.Close()
		log.Fatalf("Failed to write %s: %v", *outPath, err)
	}
	if err := f.Close(); err != nil {
		log.Fatal(err)
	}
	log.Printf("%s (%s, %v, %s mapper): %d frames -> %s", name, e.System(), region, e.Mapper(), *frames, *outPath)
}

func parseRegion(s string, rom []byte) (emu.Region, error) {
	switch strings.ToLower(s) {
	case "auto":
		region, _ := emu.DetectRegion(rom)
		return region, nil
	case "ntsc":
		return emu.RegionNTSC, nil
	case "pal":
		return emu.RegionPAL, nil
	}
	return emu.RegionNTSC, fmt.Errorf("invalid region: %s (use auto, ntsc, or pal)", s)
}

// frameImage wraps the emulator framebuffer without copying.
func frameImage(e *emu.Emulator) *image.RGBA {
	stride := e.GetFramebufferStride()
	return &image.RGBA{
		Pix:    e.GetFramebuffer(),
		Stride: stride,
		Rect:   image.Rect(0, 0, stride/4, e.GetActiveHeight()),
	}
}

// writeImage encodes img in the format picked by the extension of path.
func writeImage(w io.Writer, path string, img image.Image) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		return bmp.Encode(w, img)
	case ".png", "":
		return png.Encode(w, img)
	}
	return fmt.Errorf("unsupported image format: %s", path)
}
