//go:build !libretro && !ios

package main

import (
	"flag"
	"log"
	"strconv"

	"github.com/user-none/eblitui/standalone"
	"github.com/user-none/emgg/adapter"
)

func main() {
	romPath := flag.String("rom", "", "path to ROM file (opens UI if not provided)")
	regionFlag := flag.String("region", "auto", "region: auto, ntsc, or pal")
	cropBorder := flag.Bool("crop-border", false, "crop blank left column when enabled by game")
	ggLCD := flag.Bool("gg-lcd", true, "show only the Game Gear LCD window")
	frameSkip := flag.Int("frame-skip", 0, "frames to skip after each drawn frame (0-3)")
	flag.Parse()

	factory := &adapter.Factory{}

	if *romPath != "" {
		options := map[string]string{
			"gg_lcd":     strconv.FormatBool(*ggLCD),
			"frame_skip": strconv.Itoa(*frameSkip),
		}
		if *cropBorder {
			options["crop_border"] = "true"
		}
		if err := standalone.RunDirect(factory, *romPath, *regionFlag, options); err != nil {
			log.Fatal(err)
		}
		return
	}

	if err := standalone.Run(factory); err != nil {
		log.Fatal(err)
	}
}
