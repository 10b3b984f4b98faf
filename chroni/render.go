package chroni

// Fixed CPU cycle costs bracketing every rendered scanline
// (original_source/src/video/chroni.c's CPU_SCANLINE/do_scan_start/
// do_scan_end macros; spec.md §4.3).
const (
	cyclesHBlankPrefix  = 22
	cyclesScanEnd       = 8
	cyclesFullScanline  = 144
)

// doScanStart brackets every rendered scanline: it sets HBLANK, fires the
// pending post-DLI NMI edge, yields the 22-cycle HBLANK prefix, clears
// HBLANK, completes the NMI edge, then computes sprite scanline validity.
// HALT is only meaningful between this prefix and the scan-end suffix,
// never during either (spec.md §4.4, §5).
func (c *Chroni) doScanStart() {
	c.regs.status |= StatusHBlank
	if c.postDLI && c.regs.status&StatusEnableInts != 0 {
		c.clock.nmi(true)
	}
	c.postDLI = false
	c.clock.runCPU(cyclesHBlankPrefix)
	c.regs.status &^= StatusHBlank
	c.clock.nmi(false)
	c.computeSpriteScanlines()
}

// doScanEnd unconditionally resumes the CPU, yields the trailing 8
// cycles, and invokes the scan callback if one is set.
func (c *Chroni) doScanEnd() {
	c.clock.resumeCPU()
	c.clock.runCPU(cyclesScanEnd)
	if c.scanCallback != nil {
		c.scanCallback(c.scanline)
	}
}

// advanceDot charges one CPU cycle per group of four emitted dots, then
// advances xpos. The charge uses the pre-increment position so the very
// first dot of a scanline also charges (spec.md §4.4 "every fourth
// increment costs one CPU cycle").
func (c *Chroni) advanceDot() {
	if c.xpos&3 == 0 {
		c.clock.runCPU(1)
	}
	c.xpos++
}

// putPixel composites the sprite layer over color, resolves the result
// through the palette, and writes one RGB888 triplet to the framebuffer.
func (c *Chroni) putPixel(color uint8) {
	assertScanline(c.scanline, c.screenHeight)
	final := color
	if sc, ok := c.spriteOverlay(c.xpos); ok {
		final = sc
	}
	r, g, b := c.resolveColor(final)
	offset := c.scanline*c.screenPitch + c.xpos*3
	c.framebuffer[offset+0] = r
	c.framebuffer[offset+1] = g
	c.framebuffer[offset+2] = b
	c.advanceDot()
}

// borderRun emits n border-colored pixels (sprites still composite on
// top, matching the source's do_border -> put_pixel path).
func (c *Chroni) borderRun(n int) {
	for i := 0; i < n; i++ {
		c.putPixel(c.regs.borderColor)
	}
}

// renderBlankScan renders one mode-0 (or DL-terminated tail) scanline:
// border color when the chip is enabled, literal black when it is not
// (spec.md §4.4 step 2, testable property 5).
func (c *Chroni) renderBlankScan() {
	c.doScanStart()
	c.xpos = 0
	if c.regs.status&StatusEnableChroni != 0 {
		for i := 0; i < c.screenWidth; i++ {
			c.putPixel(c.regs.borderColor)
		}
	} else {
		offset := c.scanline * c.screenPitch
		for i := 0; i < c.screenWidth; i++ {
			c.framebuffer[offset+c.xpos*3+0] = 0
			c.framebuffer[offset+c.xpos*3+1] = 0
			c.framebuffer[offset+c.xpos*3+2] = 0
			c.advanceDot()
		}
	}
	c.doScanEnd()
}

// renderBorderOnly is the fallback renderer for DL modes the table does
// not list: border on both sides, nothing in between (spec.md §4.5).
func renderBorderOnly(c *Chroni, line int, instr dlInstruction, pitch int) {
	c.doScanStart()
	c.xpos = 0
	c.borderRun(c.screenXBorder)
	c.borderRun(c.screenXRes)
	c.borderRun(c.screenXBorder)
	c.doScanEnd()
}

// renderText implements mode 2: text + per-cell attribute, 8 pixels per
// font row, optional fine horizontal/vertical scroll (spec.md §4.4).
func renderText(c *Chroni, line int, instr dlInstruction, pitch int) {
	c.doScanStart()
	c.xpos = 0
	c.borderRun(c.screenXBorder)

	pixelOffset := 0
	if instr.hScrollEnable {
		pixelOffset = int(c.regs.hscroll) & 0x3F
	}
	scanOffset := 0
	if instr.vScrollEnable {
		scanOffset = int(c.regs.vscroll) & 0x3F
	}
	lineOffset := (line + scanOffset) & 7
	charOffset := (pixelOffset >> 3) + ((line+scanOffset)>>3)*pitch

	var row, fg, bg, bit uint8
	for i := 0; i < c.screenXRes; i++ {
		if pixelOffset&7 == 0 || i == 0 {
			attrib := c.vram.Read(c.attribs + charOffset)
			fg = attrib >> 4
			bg = attrib & 0x0F
			ch := c.vram.Read(c.lms + charOffset)
			row = c.vram.Read(c.regs.charset.value() + int(ch)*8 + lineOffset)
			bit = 0x80 >> uint(pixelOffset&7)
			charOffset++
		}
		sel := bg
		if row&bit != 0 {
			sel = fg
		}
		c.putPixel(c.vram.Read(c.subpals + int(sel)))
		pixelOffset++
		bit >>= 1
	}

	c.borderRun(c.screenXBorder)
	c.doScanEnd()
}

// textDoubleCore is the shared pixel loop for modes 3 and 4: as mode 2,
// but each source bit covers two output pixels, so the font row shifts
// only every other column (spec.md §4.4 "Text+attrib doubled").
func (c *Chroni) textDoubleCore(line int) {
	lineOffset := line & 7

	var row, fg, bg, bit uint8
	charOffset := 0
	for i := 0; i < c.screenXRes; i++ {
		sub := i & 0x0F
		switch {
		case sub == 0:
			attrib := c.vram.Read(c.attribs + charOffset)
			fg = attrib >> 4
			bg = attrib & 0x0F
			ch := c.vram.Read(c.lms + charOffset)
			row = c.vram.Read(c.regs.charset.value() + int(ch)*8 + lineOffset)
			bit = 0x80
			charOffset++
		case sub&1 == 0:
			bit >>= 1
		}
		sel := bg
		if row&bit != 0 {
			sel = fg
		}
		c.putPixel(c.vram.Read(c.subpals + int(sel)))
	}
}

func renderTextDouble(c *Chroni, line int, instr dlInstruction, pitch int) {
	c.doScanStart()
	c.xpos = 0
	c.borderRun(c.screenXBorder)
	c.textDoubleCore(line)
	c.borderRun(c.screenXBorder)
	c.doScanEnd()
}

// renderTextDoubleTall implements mode 4: mode 3 with line>>1, giving 16
// output scanlines per character row (spec.md §4.4 "Mode 4").
func renderTextDoubleTall(c *Chroni, line int, instr dlInstruction, pitch int) {
	c.doScanStart()
	c.xpos = 0
	c.borderRun(c.screenXBorder)
	c.textDoubleCore(line >> 1)
	c.borderRun(c.screenXBorder)
	c.doScanEnd()
}

// bitmapScan implements the 1/2/4bpp bitmap renderers, normal and wide.
// pixel_data and palette_data are read from lms/attribs respectively and
// shifted left by bpp bits after each extracted pixel, or after every
// other pixel in the wide modes (spec.md §4.4
// "Bitmap 1bpp / 2bpp / 4bpp, normal and wide").
func bitmapScan(c *Chroni, bpp int, wide bool) {
	c.doScanStart()
	c.xpos = 0
	c.borderRun(c.screenXBorder)

	pixelsPerByte := 8 / bpp
	reloadEvery := pixelsPerByte
	outStep := 1
	if wide {
		reloadEvery *= 2
		outStep = 2
	}
	mask := uint8((1 << uint(bpp)) - 1)

	var pixelData, paletteData uint8
	byteOffset := 0
	for i := 0; i < c.screenXRes; i++ {
		sub := i % reloadEvery
		switch {
		case sub == 0:
			pixelData = c.vram.Read(c.lms + byteOffset)
			paletteData = c.vram.Read(c.attribs + byteOffset)
			byteOffset++
		case sub%outStep == 0:
			pixelData <<= uint(bpp)
			paletteData <<= uint(bpp)
		}
		pixelIdx := (pixelData >> uint(8-bpp)) & mask
		paletteSel := paletteData & 0xF0
		c.putPixel(c.vram.Read(c.subpals + int(paletteSel) + int(pixelIdx)))
	}

	c.borderRun(c.screenXBorder)
	c.doScanEnd()
}

func renderBitmap1bpp(c *Chroni, line int, instr dlInstruction, pitch int)      { bitmapScan(c, 1, false) }
func renderBitmap2bpp(c *Chroni, line int, instr dlInstruction, pitch int)      { bitmapScan(c, 2, false) }
func renderBitmap4bpp(c *Chroni, line int, instr dlInstruction, pitch int)      { bitmapScan(c, 4, false) }
func renderBitmap2bppWide(c *Chroni, line int, instr dlInstruction, pitch int)  { bitmapScan(c, 2, true) }
func renderBitmap4bppWide(c *Chroni, line int, instr dlInstruction, pitch int)  { bitmapScan(c, 4, true) }

// renderTile2bppWide implements mode C: an 8x8 tile cell stretched to 8
// output columns, 2 bits per pixel, each pixel doubled (spec.md §4.4
// "Tile 2bpp wide").
func renderTile2bppWide(c *Chroni, line int, instr dlInstruction, pitch int) {
	c.doScanStart()
	c.xpos = 0
	c.borderRun(c.screenXBorder)

	tileOffset := 0
	var palette, shiftReg uint8
	for i := 0; i < c.screenXRes; i++ {
		sub := i % 8
		switch {
		case sub == 0:
			palette = c.vram.Read(c.attribs + tileOffset)
			tile := c.vram.Read(c.lms + tileOffset)
			shiftReg = c.vram.Read(c.regs.tilesetSmall.value() + int(tile)*8 + line)
			tileOffset++
		case sub%2 == 0:
			shiftReg <<= 2
		}
		pixel := (shiftReg >> 6) & 0x03
		c.putPixel(c.vram.Read(c.subpals + int(palette)*4 + int(pixel)))
	}

	c.borderRun(c.screenXBorder)
	c.doScanEnd()
}

// renderTile4bppWide implements mode D: a 16-native-pixel, 4bpp tile
// pattern stretched to 32 output columns by doubling each nibble
// (spec.md §4.4 "Tile 4bpp wide").
func renderTile4bppWide(c *Chroni, line int, instr dlInstruction, pitch int) {
	c.doScanStart()
	c.xpos = 0
	c.borderRun(c.screenXBorder)

	tileBase := c.regs.tilesetBig.value()
	tileOffset := 0
	var palette, tile, patternByte uint8
	tileData := 0
	for i := 0; i < c.screenXRes; i++ {
		sub := i % 32
		switch {
		case sub == 0:
			palette = c.vram.Read(c.attribs + tileOffset)
			tile = c.vram.Read(c.lms + tileOffset)
			tileOffset++
			tileData = 0
			patternByte = c.vram.Read(tileBase + int(tile)*128 + line*8 + tileData)
			tileData++
		case sub%4 == 0:
			patternByte = c.vram.Read(tileBase + int(tile)*128 + line*8 + tileData)
			tileData++
		case sub%2 == 0:
			patternByte <<= 4
		}
		pixel := (patternByte >> 4) & 0x0F
		c.putPixel(c.vram.Read(c.subpals + int(palette)*16 + int(pixel)))
	}

	c.borderRun(c.screenXBorder)
	c.doScanEnd()
}

// renderTile4bpp implements mode E: the same 4bpp tile pattern as mode D,
// but spanning 16 output columns with no extra pixel doubling beyond the
// natural two-pixels-per-byte pack (spec.md §4.4 "Tile 4bpp").
func renderTile4bpp(c *Chroni, line int, instr dlInstruction, pitch int) {
	c.doScanStart()
	c.xpos = 0
	c.borderRun(c.screenXBorder)

	tileBase := c.regs.tilesetBig.value()
	tileOffset := 0
	var palette, tile, patternByte uint8
	tileData := 0
	for i := 0; i < c.screenXRes; i++ {
		sub := i % 16
		switch {
		case sub == 0:
			palette = c.vram.Read(c.attribs + tileOffset)
			tile = c.vram.Read(c.lms + tileOffset)
			tileOffset++
			tileData = 0
			patternByte = c.vram.Read(tileBase + int(tile)*128 + line*8 + tileData)
			tileData++
		case sub%2 == 0:
			patternByte = c.vram.Read(tileBase + int(tile)*128 + line*8 + tileData)
			tileData++
		default:
			patternByte <<= 4
		}
		pixel := (patternByte >> 4) & 0x0F
		c.putPixel(c.vram.Read(c.subpals + int(palette)*16 + int(pixel)))
	}

	c.borderRun(c.screenXBorder)
	c.doScanEnd()
}
