package render

// Output selects the finalizer.
type Output int

const (
	// OutputDirect writes 16 bit host pixels, converting the palette as
	// soon as CRAM changes.
	OutputDirect Output = iota
	// OutputIndexed writes palette indices. Palette() resolves them once
	// the frame is complete.
	OutputIndexed
)

// Format is the host 16 bit pixel layout.
type Format int

const (
	FormatRGB565 Format = iota
	FormatBGR565
	FormatBGR555
)

// Config selects hardware and output options.
type Config struct {
	GameGear  bool // hardware is a Game Gear
	GGLCD     bool // draw only the Game Gear LCD window
	NoBorder  bool // no side borders around 256 or 160 columns
	SoftScale bool // stretch the picture to 320 columns
	Output    Output
	Format    Format
}
