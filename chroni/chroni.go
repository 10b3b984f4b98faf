// Package chroni implements the video coprocessor core of an 8-bit-era
// machine emulator: a VRAM-backed register file, a Display List
// interpreter driving a table of per-mode scanline renderers, sprite
// discovery and overlay, and a cycle-accurate interleave with a
// host-supplied CPU driver. The package owns no CPU implementation, no
// presentation surface, and no persistence; it produces a framebuffer and
// fires interrupts through the CPU interface it is handed.
package chroni

// Chroni ties the VRAM store, register file, Display List interpreter,
// and CPU-interleave clock into the surface described by the host
// (spec.md §6). A zero Chroni is not usable; construct with New.
type Chroni struct {
	vram  VRAM
	regs  registers
	clock *cpuClock
	trace TraceSink

	screenWidth        int
	screenHeight       int
	screenPitch        int
	screenXRes         int
	screenXBorder      int
	preBlankScanlines  int

	framebuffer []byte
	rgb565Table []uint8

	lms, attribs, subpals int
	scanline               int
	xpos                   int
	postDLI                bool

	spriteScan [spritesMax]int

	scanCallback func(scanline int)
}

// New builds a Chroni sized for a screenXBorder-bordered,
// screenXRes-wide, screenHeight-tall display, with preBlankScanlines
// scanlines of pure CPU time run before the first visible row each frame
// (spec.md §2 "vertical pre-blank"). The RGB565 table is precomputed once
// here (spec.md §9 "precompute once per core instance").
func New(screenXBorder, screenXRes, screenHeight, preBlankScanlines int) *Chroni {
	c := &Chroni{
		screenXBorder:     screenXBorder,
		screenXRes:        screenXRes,
		screenHeight:      screenHeight,
		preBlankScanlines: preBlankScanlines,
		trace:             defaultTraceSink(),
	}
	c.screenWidth = 2*screenXBorder + screenXRes
	c.screenPitch = c.screenWidth * 3
	c.framebuffer = make([]byte, c.screenHeight*c.screenPitch)
	c.rgb565Table = buildRGB565Table()
	c.Reset()
	return c
}

// Reset zeros the register file (DL, charset, palette, sprites, tile
// banks, scroll, status) and the rasterizer's frame-local state. VRAM
// contents are untouched — on real hardware a reset does not clear
// display memory, only the coprocessor's own registers.
func (c *Chroni) Reset() {
	c.regs = registers{}
	c.scanline = 0
	c.xpos = 0
	c.postDLI = false
	c.lms, c.attribs, c.subpals = 0, 0, 0
	for i := range c.spriteScan {
		c.spriteScan[i] = spriteScanInvalid
	}
	if c.clock != nil {
		c.clock.resumeCPU()
	}
}

// SetTraceSink overrides the trace sink installed by New.
func (c *Chroni) SetTraceSink(sink TraceSink) { c.trace = sink }

// SetScanCallback installs an optional hook invoked after every rendered
// scanline's epilogue (spec.md §6 "chroni_set_scan_callback").
func (c *Chroni) SetScanCallback(fn func(scanline int)) { c.scanCallback = fn }

// Framebuffer returns the RGB888 framebuffer written by the last
// RunFrame call. The frontend must not read it while RunFrame is running.
func (c *Chroni) Framebuffer() []byte { return c.framebuffer }

// ScreenPitch returns the number of framebuffer bytes per scanline.
func (c *Chroni) ScreenPitch() int { return c.screenPitch }

// ScreenWidth and ScreenHeight report the configured framebuffer geometry.
func (c *Chroni) ScreenWidth() int  { return c.screenWidth }
func (c *Chroni) ScreenHeight() int { return c.screenHeight }

// RegisterWrite dispatches a guest write to one of Chroni's memory-mapped
// registers (spec.md §4.2).
func (c *Chroni) RegisterWrite(index int, value uint8) {
	c.regs.write(index, value, func() {
		if c.clock != nil {
			c.clock.haltCPU()
			c.tracef("CHRONI", "HALT requested at scanline %d", c.scanline)
		}
	})
}

// RegisterRead dispatches a guest read from one of Chroni's memory-mapped
// registers (spec.md §4.2).
func (c *Chroni) RegisterRead(index int) uint8 {
	return c.regs.read(index, c.scanline)
}

// VRAMWrite writes through the 3-bit page window into the 128 KiB VRAM
// store (spec.md §3 "Page window").
func (c *Chroni) VRAMWrite(index uint16, value uint8) {
	c.vram.PageWrite(c.regs.page, index, value)
}

// VRAMRead reads through the 3-bit page window.
func (c *Chroni) VRAMRead(index uint16) uint8 {
	return c.vram.PageRead(c.regs.page, index)
}

// loadPointers reads the three little-endian pointer words following a
// "load pointers" DL opcode and promotes each to a 17-bit VRAM pointer.
func (c *Chroni) loadPointers(addr int) {
	c.lms = c.vram.ReadPtr(addr)
	c.attribs = c.vram.ReadPtr(addr + 2)
	c.subpals = c.vram.ReadPtr(addr + 4)
}

// RunFrame drives one full frame: a vertical pre-blank, the Display List
// walk (blank runs or mode rows, each possibly arming a post-line DLI),
// a trailing blank fill to screen_height, and the frame-end VBLANK NMI
// (spec.md §4.4 "Frame loop").
func (c *Chroni) RunFrame(cpu CPU) {
	c.clock = newCPUClock(cpu)

	for y := 0; y < c.preBlankScanlines; y++ {
		c.clock.runCPU(cyclesFullScanline - cyclesScanEnd)
		c.clock.resumeCPU()
		c.clock.runCPU(cyclesScanEnd)
	}
	c.clock.nmi(false)
	c.regs.status &^= StatusVBlank

	c.scanline = 0
	dlBase := c.regs.dl.value()
	dlPos := 0

	for c.scanline < c.screenHeight {
		opcode := c.vram.Read(dlBase + dlPos)
		dlPos++
		if opcode == dlTerminator {
			break
		}

		instr := decodeDLOpcode(opcode)
		if instr.mode == modeBlank {
			lines := blankRunLines(opcode)
			for line := 0; line < lines && c.scanline < c.screenHeight; line++ {
				c.renderBlankScan()
				c.scanline++
				if line == lines-1 {
					c.postDLI = instr.postDLI
				}
			}
			continue
		}

		if instr.loadPointers {
			c.loadPointers(dlBase + dlPos)
			dlPos += 6
		}

		info := lookupMode(instr.mode)
		pitch := info.bytesNormal
		if instr.hScrollEnable {
			pitch = info.bytesScroll
		}
		for line := 0; line < info.linesPerRow && c.scanline < c.screenHeight; line++ {
			info.render(c, line, instr, pitch)
			c.scanline++
			if line == info.linesPerRow-1 {
				c.postDLI = instr.postDLI
			}
		}
		c.lms += pitch
		c.attribs += pitch
	}

	for c.scanline < c.screenHeight {
		c.renderBlankScan()
		c.scanline++
	}

	c.regs.status |= StatusVBlank
	if c.regs.status&StatusEnableInts != 0 {
		c.clock.nmi(true)
	}
}
