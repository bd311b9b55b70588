package adapter

import (
	emucore "github.com/user-none/eblitui/api"
	"github.com/user-none/emgg/emu"
)

// Compile-time interface check.
var _ emucore.CoreFactory = (*Factory)(nil)

// Factory implements emucore.CoreFactory for the Master System and Game
// Gear emulator. The console is picked per ROM from its header.
type Factory struct{}

// SystemInfo returns system metadata for UI configuration.
func (f *Factory) SystemInfo() emucore.SystemInfo {
	return emucore.SystemInfo{
		Name:            emu.Name,
		ConsoleName:     "Sega Master System / Game Gear",
		Extensions:      []string{".sms", ".gg", ".sg"},
		ScreenWidth:     emu.ScreenWidth,
		MaxScreenHeight: emu.MaxScreenHeight,
		AspectRatio:     256.0 / 192.0,
		SampleRate:      48000,
		Buttons: []emucore.Button{
			{Name: "1", ID: 4, DefaultKey: "J", DefaultPad: "A"},
			{Name: "2", ID: 5, DefaultKey: "K", DefaultPad: "B"},
			{Name: "Start", ID: 7, DefaultKey: "Enter", DefaultPad: "Start"},
		},
		Players: 2,
		CoreOptions: []emucore.CoreOption{
			{
				Key:         "crop_border",
				Label:       "Crop Left Border",
				Description: "Crop blank left column when enabled by game",
				Type:        emucore.CoreOptionBool,
				Default:     "false",
				Category:    emucore.CoreOptionCategoryVideo,
			},
			{
				Key:         "gg_lcd",
				Label:       "Game Gear LCD Window",
				Description: "Show only the 160x144 area visible on the Game Gear screen",
				Type:        emucore.CoreOptionBool,
				Default:     "true",
				Category:    emucore.CoreOptionCategoryVideo,
			},
		},
		RDBName:       "Sega - Game Gear",
		ThumbnailRepo: "Sega_-_Game_Gear",
		DataDirName:   emu.Name,
		ConsoleID:     3,
		CoreName:      emu.Name,
		CoreVersion:   emu.Version,
		SerializeSize: 0,
	}
}

// CreateEmulator creates a new emulator instance with the given ROM and region.
func (f *Factory) CreateEmulator(rom []byte, region emucore.Region) (emucore.Emulator, error) {
	e, err := emu.NewEmulator(rom, region)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// DetectRegion looks the ROM up in the ROM database. The bool return
// reports whether it was found there.
func (f *Factory) DetectRegion(rom []byte) (emucore.Region, bool) {
	return emu.DetectRegion(rom)
}
