//go:build chronitrace

package chroni

import "log"

type logTraceSink struct{}

func (logTraceSink) Tracef(tag, format string, args ...any) {
	log.Printf("["+tag+"] "+format, args...)
}

func defaultTraceSink() TraceSink { return logTraceSink{} }
