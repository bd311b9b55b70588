package emu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"

	emucore "github.com/user-none/eblitui/api"
	"github.com/user-none/emgg/render"
	"github.com/user-none/go-chip-sn76489"
	"github.com/user-none/go-chip-z80"
)

// Compile-time interface checks.
var _ emucore.Emulator = (*Emulator)(nil)
var _ emucore.BatterySaver = (*Emulator)(nil)
var _ emucore.MemoryInspector = (*Emulator)(nil)
var _ emucore.MemoryMapper = (*Emulator)(nil)

const (
	ScreenWidth     = 256
	MaxScreenHeight = 240
	sampleRate      = 48000

	maxROMSize   = 4 * 1024 * 1024
	maxFrameSkip = 3
)

// Emulator contains the emulator core components.
type Emulator struct {
	cpu                 *z80.CPU
	mem                 *Memory
	vdp                 *VDP
	psg                 *sn76489.SN76489
	io                  *SMSIO
	renderer            *render.Renderer
	system              System
	cyclesPerScanlineFP int // Fixed-point (16 fractional bits) for accurate timing

	// Region timing
	region    Region
	timing    RegionTiming
	scanlines int

	// Input edge detection for pause button
	prevButtons [2]uint32

	// Video options
	cropBorder bool
	frameSkip  int
	frameCount int
	skipFrame  bool

	// Renderer output: RGB565 in the full 320x240 output frame
	screen []byte
	geom   render.Geometry

	// Host framebuffer: RGBA of the active picture
	framebuffer []byte
	fbStride    int
	fbHeight    int

	// Pre-allocated audio buffers to avoid per-frame allocations
	frameSamples []float32 // Collects float32 samples during scanline emulation
	audioBuffer  []int16   // Final int16 stereo output for external consumption
}

// NewEmulator creates and initializes the emulator components. The
// console is picked from the ROM header.
func NewEmulator(rom []byte, region Region) (*Emulator, error) {
	if len(rom) == 0 {
		return nil, errors.New("empty ROM image")
	}
	if len(rom) > maxROMSize {
		return nil, fmt.Errorf("ROM image too large: %d bytes", len(rom))
	}

	system := DetectSystem(rom)
	mem := NewMemory(rom)
	vdp := NewVDP(system == SystemGameGear)

	timing := GetTimingForRegion(region)
	vdp.SetTotalScanlines(timing.Scanlines)

	samplesPerFrame := sampleRate / timing.FPS
	psg := sn76489.New(timing.CPUClockHz, sampleRate, samplesPerFrame*2, sn76489.Sega)

	io := NewSMSIO(vdp, psg, DetectNationalityFromROM(rom))
	io.SetGameGear(system == SystemGameGear)
	io.SetRegion(region)
	cpu := z80.New(NewBus(mem, io))

	e := &Emulator{
		cpu:                 cpu,
		mem:                 mem,
		vdp:                 vdp,
		psg:                 psg,
		io:                  io,
		system:              system,
		cyclesPerScanlineFP: (timing.CPUClockHz * 65536) / timing.FPS / timing.Scanlines,
		region:              region,
		timing:              timing,
		scanlines:           timing.Scanlines,
		screen:              make([]byte, render.OutputWidth*2*render.OutputHeight),
		framebuffer:         make([]byte, ScreenWidth*MaxScreenHeight*4),
		// ~800 samples/frame at 48kHz/60fps
		frameSamples: make([]float32, 0, 1024),
		audioBuffer:  make([]int16, 0, 2048),
	}

	e.renderer = render.New(vdp, e.renderConfig(), render.Hooks{
		ScanBegin:  e.scanBegin,
		ModeChange: e.modeChange,
	}, render.Target{Pix: e.screen, Stride: render.OutputWidth * 2})

	// picks up the power-on geometry
	e.renderer.FrameStart()
	e.fbStride = e.geom.Columns * 4
	e.fbHeight = e.geom.Lines

	return e, nil
}

func (e *Emulator) renderConfig() render.Config {
	return render.Config{
		GameGear: e.system == SystemGameGear,
		GGLCD:    true,
		NoBorder: true,
		Output:   render.OutputDirect,
		Format:   render.FormatRGB565,
	}
}

// scanBegin skips every line of a skipped frame.
func (e *Emulator) scanBegin(line int) int {
	if e.skipFrame {
		return render.OutputHeight
	}
	return 0
}

func (e *Emulator) modeChange(g render.Geometry) {
	e.geom = g
}

// checkAndSetInterrupt updates CPU interrupt state based on VDP pending interrupts
func (e *Emulator) checkAndSetInterrupt() {
	e.cpu.INT(e.vdp.InterruptPending(), 0xFF)
}

// latchLine latches CRAM and the per-line registers for the renderer.
func (e *Emulator) latchLine() {
	if e.vdp.LatchCRAM() {
		e.renderer.InvalidatePalette()
	}
	e.vdp.LatchPerLineRegisters()
}

// runScanlines executes one frame of CPU/VDP/PSG emulation.
// Audio samples are accumulated in e.frameSamples.
func (e *Emulator) runScanlines() {
	activeHeight := e.vdp.ActiveHeight()

	targetCyclesFP := 0
	prevTarget := 0

	e.frameSamples = e.frameSamples[:0]

	for i := 0; i < e.scanlines; i++ {
		targetCyclesFP += e.cyclesPerScanlineFP
		target := targetCyclesFP >> 16
		scanlineBudget := target - prevTarget
		prevTarget = target

		e.vdp.SetVCounter(uint16(i))

		if i == 0 {
			e.vdp.LatchVScrollForFrame()
			e.renderer.FrameStart()
		}

		vblankChecked := false
		lineInterruptChecked := false
		latched := false
		// the frame interrupt fires one line after the last active line
		isVBlankLine := i == activeHeight+1

		consumed := 0
		for consumed < scanlineBudget {
			if !vblankChecked && isVBlankLine && consumed >= VBlankInterruptCycle {
				e.vdp.SetVBlank()
				vblankChecked = true
				e.checkAndSetInterrupt()
			}

			if !lineInterruptChecked && consumed >= LineInterruptCycle {
				e.vdp.UpdateLineCounter()
				lineInterruptChecked = true
				e.checkAndSetInterrupt()
			}

			if !latched && consumed >= CRAMLatchCycle {
				e.latchLine()
				latched = true
			}

			e.vdp.SetHCounter(GetHCounterForCycle(consumed))
			consumed += e.cpu.StepCycles(scanlineBudget - consumed)

			// The interrupt line is level triggered: enabling interrupts
			// or reading the status changes it immediately.
			if e.vdp.InterruptCheckRequired() {
				e.checkAndSetInterrupt()
			}
			if e.vdp.StatusWasRead() {
				e.checkAndSetInterrupt()
			}
		}

		// short scanlines
		if !vblankChecked && isVBlankLine {
			e.vdp.SetVBlank()
			e.checkAndSetInterrupt()
		}
		if !lineInterruptChecked {
			e.vdp.UpdateLineCounter()
			e.checkAndSetInterrupt()
		}
		if !latched {
			e.latchLine()
		}

		if i < activeHeight {
			e.renderer.Line(i)
		}

		e.psg.GenerateSamples(scanlineBudget)
		buffer, count := e.psg.GetBuffer()
		if count > 0 {
			e.frameSamples = append(e.frameSamples, buffer[:count]...)
		}
	}
}

// SetInput unpacks a button bitmask and sets controller state for the given player.
// Bit 7 is PAUSE on the Master System and START on the Game Gear.
func (e *Emulator) SetInput(player int, buttons uint32) {
	up := buttons&(1<<emucore.ButtonUp) != 0
	down := buttons&(1<<emucore.ButtonDown) != 0
	left := buttons&(1<<emucore.ButtonLeft) != 0
	right := buttons&(1<<emucore.ButtonRight) != 0
	btn1 := buttons&(1<<4) != 0
	btn2 := buttons&(1<<5) != 0

	switch player {
	case 0:
		e.io.Input.SetP1(up, down, left, right, btn1, btn2)
		pauseNow := buttons&(1<<7) != 0
		if e.system == SystemGameGear {
			e.io.Input.Start = pauseNow
			break
		}
		// NMI on press (0->1)
		if pauseNow && e.prevButtons[0]&(1<<7) == 0 {
			e.cpu.NMI()
		}
	case 1:
		e.io.Input.SetP2(up, down, left, right, btn1, btn2)
	}

	if player < 2 {
		e.prevButtons[player] = buttons
	}
}

// convertFrame copies the active picture from the renderer output to the
// RGBA framebuffer. With crop border enabled and the VDP blanking the left
// column, those 8 pixels are dropped.
func (e *Emulator) convertFrame() {
	g := e.geom
	x0, w := g.ColOffset, g.Columns
	if e.cropBorder && w == ScreenWidth && e.vdp.LeftColumnBlankEnabled() {
		x0 += 8
		w -= 8
	}

	srcStride := render.OutputWidth * 2
	dstStride := w * 4
	for y := 0; y < g.Lines; y++ {
		src := e.screen[(g.LineOffset+y)*srcStride+x0*2:]
		dst := e.framebuffer[y*dstStride : (y+1)*dstStride]
		for x := 0; x < w; x++ {
			c := render.FormatRGB565.RGBA(binary.LittleEndian.Uint16(src[x*2:]))
			dst[x*4+0] = c.R
			dst[x*4+1] = c.G
			dst[x*4+2] = c.B
			dst[x*4+3] = c.A
		}
	}
	e.fbStride = dstStride
	e.fbHeight = g.Lines
}

// GetFramebuffer returns raw RGBA pixel data for the last drawn frame.
func (e *Emulator) GetFramebuffer() []byte {
	return e.framebuffer[:e.fbStride*e.fbHeight]
}

// GetFramebufferStride returns the stride (bytes per row) of the framebuffer.
func (e *Emulator) GetFramebufferStride() int {
	return e.fbStride
}

// GetActiveHeight returns the height of the last drawn frame: 144 on the
// Game Gear LCD, else 192, 224 or 240.
func (e *Emulator) GetActiveHeight() int {
	return e.fbHeight
}

// System returns the console being emulated.
func (e *Emulator) System() System {
	return e.system
}

// Mapper returns the cartridge mapper in use.
func (e *Emulator) Mapper() MapperType {
	return e.mem.Mapper()
}

// GetRegion returns the emulator's region setting
func (e *Emulator) GetRegion() Region {
	return e.region
}

// GetTiming returns FPS and scanline count for the current region.
func (e *Emulator) GetTiming() emucore.Timing {
	return emucore.Timing{
		FPS:       e.timing.FPS,
		Scanlines: e.timing.Scanlines,
	}
}

// SetRegion updates the emulator's region configuration
func (e *Emulator) SetRegion(region Region) {
	e.region = region
	e.timing = GetTimingForRegion(region)
	e.scanlines = e.timing.Scanlines
	e.vdp.SetTotalScanlines(e.timing.Scanlines)
	e.io.SetRegion(region)
	e.cyclesPerScanlineFP = (e.timing.CPUClockHz * 65536) / e.timing.FPS / e.timing.Scanlines
}

// SetOption applies a core option change identified by key.
//
//	crop_border  "true" drops the blanked left column
//	gg_lcd       "false" shows the full 256 pixel Game Gear VDP picture
//	frame_skip   "0"-"3" frames skipped after each drawn frame
func (e *Emulator) SetOption(key string, value string) {
	switch key {
	case "crop_border":
		e.cropBorder = value == "true"
	case "gg_lcd":
		cfg := e.renderer.Config()
		cfg.GGLCD = value != "false"
		e.renderer.SetConfig(cfg)
	case "frame_skip":
		n, err := strconv.Atoi(value)
		if err != nil {
			return
		}
		e.frameSkip = min(max(n, 0), maxFrameSkip)
	}
}

// Close releases any resources held by the emulator.
func (e *Emulator) Close() {}

// RunFrame executes one frame of emulation.
func (e *Emulator) RunFrame() {
	e.skipFrame = e.frameSkip > 0 && e.frameCount%(e.frameSkip+1) != 0
	e.frameCount++

	e.audioBuffer = e.audioBuffer[:0]
	e.runScanlines()

	if !e.skipFrame {
		e.convertFrame()
	}

	// Mono PSG output duplicated to L+R, attenuated by 0.5 to compensate
	// for the acoustic summing. The Game Gear stereo register mutes a side
	// when it disables every channel there.
	stereo := e.io.Stereo()
	left, right := stereo&0xF0 != 0, stereo&0x0F != 0
	for _, sample := range e.frameSamples {
		s := int16(sample * 32767 * 0.5)
		var l, r int16
		if left {
			l = s
		}
		if right {
			r = s
		}
		e.audioBuffer = append(e.audioBuffer, l, r)
	}
}

// GetAudioSamples returns accumulated audio samples as 16-bit stereo PCM.
func (e *Emulator) GetAudioSamples() []int16 {
	return e.audioBuffer
}

// HasSRAM reports whether the loaded ROM uses battery-backed save.
// Cartridges always have 32KB cart RAM available.
func (e *Emulator) HasSRAM() bool {
	return true
}

// GetSRAM returns a copy of the current SRAM contents.
func (e *Emulator) GetSRAM() []byte {
	sram := make([]byte, len(e.mem.cartRAM))
	copy(sram, e.mem.cartRAM[:])
	return sram
}

// SetSRAM loads SRAM contents into the emulator.
func (e *Emulator) SetSRAM(data []byte) {
	copy(e.mem.cartRAM[:], data)
}

// Flat address boundaries for ReadMemory.
const (
	systemRAMStart = 0x0000
	systemRAMEnd   = 0x1FFF
)

// ReadMemory reads from a flat address into buf and returns the number
// of bytes read. 0x0000-0x1FFF is system RAM.
func (e *Emulator) ReadMemory(addr uint32, buf []byte) uint32 {
	var count uint32
	for i := range buf {
		cur := addr + uint32(i)
		if cur < systemRAMStart || cur > systemRAMEnd {
			break
		}
		buf[i] = e.mem.ram[cur]
		count++
	}
	return count
}

// MemoryMap returns a list of available memory regions with sizes.
func (e *Emulator) MemoryMap() []emucore.MemoryRegion {
	return []emucore.MemoryRegion{
		{Type: emucore.MemorySystemRAM, Size: len(e.mem.ram)},
		{Type: emucore.MemorySaveRAM, Size: len(e.mem.cartRAM)},
	}
}

// ReadRegion returns a copy of the specified memory region.
func (e *Emulator) ReadRegion(regionType int) []byte {
	switch regionType {
	case emucore.MemorySystemRAM:
		out := make([]byte, len(e.mem.ram))
		copy(out, e.mem.ram[:])
		return out
	case emucore.MemorySaveRAM:
		return e.GetSRAM()
	default:
		return nil
	}
}

// WriteRegion writes data to the specified memory region.
func (e *Emulator) WriteRegion(regionType int, data []byte) {
	switch regionType {
	case emucore.MemorySystemRAM:
		copy(e.mem.ram[:], data)
	case emucore.MemorySaveRAM:
		e.SetSRAM(data)
	}
}
