//go:build !chroniassert

package chroni

func assertPage(uint8)            {}
func assertScanline(int, int)     {}
func assertVRAMIndex(int)         {}
