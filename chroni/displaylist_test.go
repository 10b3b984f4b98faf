package chroni

import "testing"

func TestDecodeDLOpcodeBits(t *testing.T) {
	instr := decodeDLOpcode(0x40 | 0x20 | 0x10 | 0x02)
	if instr.mode != 0x02 {
		t.Errorf("mode = %#x, want 0x02", instr.mode)
	}
	if !instr.loadPointers {
		t.Error("loadPointers should be set (bit 6)")
	}
	if !instr.hScrollEnable {
		t.Error("hScrollEnable should be set (bit 4)")
	}
	if !instr.vScrollEnable {
		t.Error("vScrollEnable should be set (bit 5)")
	}
	if instr.postDLI {
		t.Error("postDLI should be clear (bit 7)")
	}
}

func TestDecodeDLOpcodePostDLI(t *testing.T) {
	instr := decodeDLOpcode(0x80)
	if !instr.postDLI {
		t.Error("postDLI should be set (bit 7)")
	}
	if instr.mode != 0 {
		t.Errorf("mode = %#x, want 0 (blank)", instr.mode)
	}
}

func TestBlankRunLines(t *testing.T) {
	cases := []struct {
		opcode uint8
		want   int
	}{
		{0x00, 1},
		{0x10, 2},
		{0x70, 8},
		{0x80, 1}, // bit 7 (postDLI) does not affect the length field
	}
	for _, c := range cases {
		if got := blankRunLines(c.opcode); got != c.want {
			t.Errorf("blankRunLines(%#x) = %d, want %d", c.opcode, got, c.want)
		}
	}
}

func TestLookupModeKnownModes(t *testing.T) {
	info := lookupMode(modeText)
	if info.linesPerRow != 8 || info.bytesNormal != 40 || info.bytesScroll != 48 {
		t.Errorf("mode 2 geometry = %+v, want {8 40 48 ...}", info)
	}
	if info.render == nil {
		t.Error("mode 2 has no renderer")
	}
}

// spec.md §4.5: mode values not listed produce no pixels (border only).
func TestLookupModeUnknownFallsBackToBorderOnly(t *testing.T) {
	info := lookupMode(0x01)
	if info.linesPerRow != 1 {
		t.Errorf("unknown mode linesPerRow = %d, want 1", info.linesPerRow)
	}
	if info.render == nil {
		t.Error("unknown mode should still resolve to a renderer")
	}
}

func TestModeTableByteCountsMatchResolution(t *testing.T) {
	// Every listed bitmap mode's bytes_per_scan, at that mode's native
	// pixels-per-byte, covers exactly 320 active columns (the chip's
	// native SCREEN_XRES), confirming the table's geometry is
	// self-consistent.
	cases := []struct {
		mode          int
		pixelsPerByte int
	}{
		{modeBitmap1bpp, 8},
		{modeBitmap2bpp, 4},
		{modeBitmap4bpp, 2},
		{modeBitmap2bppWide1, 8},
		{modeBitmap4bppWide1, 4},
	}
	for _, c := range cases {
		info := lookupMode(c.mode)
		if got := info.bytesNormal * c.pixelsPerByte; got != 320 {
			t.Errorf("mode %#x: bytesNormal(%d) * pixelsPerByte(%d) = %d, want 320", c.mode, info.bytesNormal, c.pixelsPerByte, got)
		}
	}
}
