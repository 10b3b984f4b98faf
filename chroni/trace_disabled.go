//go:build !chronitrace

package chroni

func defaultTraceSink() TraceSink { return nil }
