package chroni

// The channel scales mirror the source's *(256/N) channel expansion: not
// a perfectly linear scale, but required for bit-exact compatibility with
// the original framebuffer output (spec.md §9 Design Notes).
const (
	redBlueBits  = 5
	greenBits    = 6
	redBlueScale = 256 / 32
	greenScale   = 256 / 64
)

// buildRGB565Table precomputes the 65,536-entry RGB565→RGB888 expansion
// once per Chroni instance. Entries are stored as consecutive R,G,B
// triplets indexed by rgb565*3.
func buildRGB565Table() []uint8 {
	table := make([]uint8, 0x10000*3)
	for v := 0; v < 0x10000; v++ {
		r := uint8(((v & 0xF800) >> 11) * redBlueScale)
		g := uint8(((v & 0x07E0) >> 5) * greenScale)
		b := uint8((v & 0x001F) * redBlueScale)
		table[v*3+0] = r
		table[v*3+1] = g
		table[v*3+2] = b
	}
	return table
}

// resolveColor looks up an 8-bit final color index through the guest
// palette (an array of RGB565 words in VRAM) and expands it to RGB888.
func (c *Chroni) resolveColor(colorIndex uint8) (r, g, b uint8) {
	addr := c.regs.palette.value() + int(colorIndex)*2
	rgb565 := c.vram.ReadWord(addr)
	i := int(rgb565) * 3
	return c.rgb565Table[i], c.rgb565Table[i+1], c.rgb565Table[i+2]
}
