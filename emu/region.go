package emu

import (
	emucore "github.com/user-none/eblitui/api"
)

// Region is an alias for emucore.Region.
type Region = emucore.Region

const (
	RegionNTSC = emucore.RegionNTSC
	RegionPAL  = emucore.RegionPAL
)

// RegionTiming holds timing constants for a specific region
type RegionTiming struct {
	CPUClockHz int // Z80 clock frequency
	Scanlines  int // Total scanlines per frame
	FPS        int // Frames per second
}

// NTSC timing: 3.579545 MHz, 262 scanlines, 60 Hz
var NTSCTiming = RegionTiming{
	CPUClockHz: 3579545,
	Scanlines:  262,
	FPS:        60,
}

// PAL timing: 3.546893 MHz, 313 scanlines, 50 Hz
var PALTiming = RegionTiming{
	CPUClockHz: 3546893,
	Scanlines:  313,
	FPS:        50,
}

// GetTimingForRegion returns the appropriate timing constants
func GetTimingForRegion(r Region) RegionTiming {
	if r == RegionPAL {
		return PALTiming
	}
	return NTSCTiming
}

// System identifies the console a cartridge runs on.
type System int

const (
	SystemMasterSystem System = iota // also SG-1000 cartridges
	SystemGameGear
)

func (s System) String() string {
	switch s {
	case SystemMasterSystem:
		return "Master System"
	case SystemGameGear:
		return "Game Gear"
	default:
		return "Unknown"
	}
}

// headerOffsets are the places a "TMR SEGA" header can live, largest
// cartridge first.
var headerOffsets = []int{0x7FF0, 0x3FF0, 0x1FF0}

// romHeaderRegion returns the region code (upper nibble of header byte $F)
// or -1 when the ROM has no header.
func romHeaderRegion(rom []byte) int {
	for _, off := range headerOffsets {
		if len(rom) < off+16 {
			continue
		}
		if string(rom[off:off+8]) == "TMR SEGA" {
			return int(rom[off+15] >> 4)
		}
	}
	return -1
}

// DetectSystem picks the console from the header region code: 5, 6 and 7
// are Game Gear codes. Anything else, including headerless SG-1000
// images, runs on the Master System.
func DetectSystem(rom []byte) System {
	switch romHeaderRegion(rom) {
	case 5, 6, 7:
		return SystemGameGear
	}
	return SystemMasterSystem
}

// DetectRegion returns the region a ROM was released for. Headers do not
// distinguish PAL from NTSC, so only dumps in the ROM database are found;
// anything else is reported as NTSC.
func DetectRegion(rom []byte) (Region, bool) {
	if info, ok := lookupROM(rom); ok {
		return info.Region, true
	}
	return RegionNTSC, false
}

// Nationality represents the console nationality (Japanese or Export).
// This is orthogonal to Region (NTSC/PAL): Japanese is always NTSC,
// but Export can be either NTSC (Americas) or PAL (Europe).
type Nationality int

const (
	NationalityExport Nationality = iota // Default
	NationalityJapanese
)

func (n Nationality) String() string {
	switch n {
	case NationalityExport:
		return "Export"
	case NationalityJapanese:
		return "Japanese"
	default:
		return "Unknown"
	}
}

// DetectNationalityFromROM reads the ROM header to determine nationality.
// Region code 3 is SMS Japan, 5 is GG Japan. Missing headers are Export.
func DetectNationalityFromROM(rom []byte) Nationality {
	switch romHeaderRegion(rom) {
	case 3, 5:
		return NationalityJapanese
	}
	return NationalityExport
}
