package chroni

// dlTerminator is the exact opcode byte that ends a Display List walk.
// It is checked before generic low-nibble mode decode since its low
// nibble (1) does not itself name a mode.
const dlTerminator = 0x41

// Opcode bit layout (spec.md §3 "Display List").
const (
	dlBitLoadPointers = 0x40
	dlBitHScroll      = 0x10
	dlBitVScroll      = 0x20
	dlBitPostDLI      = 0x80
)

// dlInstruction is a decoded Display List opcode byte.
type dlInstruction struct {
	mode          int
	loadPointers  bool
	hScrollEnable bool
	vScrollEnable bool
	postDLI       bool
}

func decodeDLOpcode(b uint8) dlInstruction {
	return dlInstruction{
		mode:          int(b & 0x0F),
		loadPointers:  b&dlBitLoadPointers != 0,
		hScrollEnable: b&dlBitHScroll != 0,
		vScrollEnable: b&dlBitVScroll != 0,
		postDLI:       b&dlBitPostDLI != 0,
	}
}

// blankRunLines decodes the mode-0 blank-run length from opcode bits 4..6.
func blankRunLines(b uint8) int {
	return 1 + int((b>>4)&0x07)
}

// scanRenderer renders one scanline of an active (non-blank) mode row.
// line is the 0-based scanline within the current row; pitch is the
// lms/attribs byte stride already resolved for the current hscroll state.
type scanRenderer func(c *Chroni, line int, instr dlInstruction, pitch int)

// modeInfo is one row of the mode-to-geometry dispatch table (spec.md §3
// "Modes table" and Design Note "per-mode renderers as a dispatch table").
type modeInfo struct {
	linesPerRow int
	bytesNormal int
	bytesScroll int
	render      scanRenderer
}

// Mode identifiers, matching the Display List opcode low nibble.
const (
	modeBlank             = 0x0
	modeText              = 0x2
	modeTextDouble        = 0x3
	modeTextDoubleTall    = 0x4
	modeBitmap2bppWide1   = 0x5
	modeBitmap2bppWide2   = 0x6
	modeBitmap4bppWide1   = 0x7
	modeBitmap4bppWide2   = 0x8
	modeBitmap1bpp        = 0x9
	modeBitmap2bpp        = 0xA
	modeBitmap4bpp        = 0xB
	modeTile2bppWide      = 0xC
	modeTile4bppWide      = 0xD
	modeTile4bpp          = 0xE
)

// modeTable is indexed by the DL opcode's low nibble. Entries for modes 1
// and 0xF are left zero-valued; lookupMode resolves them (and mode 0,
// handled separately by the DL walk) to the border-only default.
var modeTable = [16]modeInfo{
	modeText:            {linesPerRow: 8, bytesNormal: 40, bytesScroll: 48, render: renderText},
	modeTextDouble:      {linesPerRow: 8, bytesNormal: 20, bytesScroll: 20, render: renderTextDouble},
	modeTextDoubleTall:  {linesPerRow: 16, bytesNormal: 20, bytesScroll: 20, render: renderTextDoubleTall},
	modeBitmap2bppWide1: {linesPerRow: 1, bytesNormal: 40, bytesScroll: 40, render: renderBitmap2bppWide},
	modeBitmap2bppWide2: {linesPerRow: 2, bytesNormal: 40, bytesScroll: 40, render: renderBitmap2bppWide},
	modeBitmap4bppWide1: {linesPerRow: 1, bytesNormal: 80, bytesScroll: 80, render: renderBitmap4bppWide},
	modeBitmap4bppWide2: {linesPerRow: 2, bytesNormal: 80, bytesScroll: 80, render: renderBitmap4bppWide},
	modeBitmap1bpp:      {linesPerRow: 1, bytesNormal: 40, bytesScroll: 40, render: renderBitmap1bpp},
	modeBitmap2bpp:      {linesPerRow: 1, bytesNormal: 80, bytesScroll: 80, render: renderBitmap2bpp},
	modeBitmap4bpp:      {linesPerRow: 1, bytesNormal: 160, bytesScroll: 160, render: renderBitmap4bpp},
	modeTile2bppWide:    {linesPerRow: 8, bytesNormal: 40, bytesScroll: 40, render: renderTile2bppWide},
	modeTile4bppWide:    {linesPerRow: 16, bytesNormal: 10, bytesScroll: 10, render: renderTile4bppWide},
	modeTile4bpp:        {linesPerRow: 16, bytesNormal: 20, bytesScroll: 20, render: renderTile4bpp},
}

// lookupMode resolves a DL opcode mode nibble to its geometry, falling
// back to a single border-only scanline for modes the table does not
// list (spec.md §4.5: "mode values not listed produce no pixels").
func lookupMode(mode int) modeInfo {
	info := modeTable[mode&0x0F]
	if info.render == nil {
		return modeInfo{linesPerRow: 1, render: renderBorderOnly}
	}
	return info
}
