package chroni

// TraceSink receives optional diagnostic logging from the core. It is
// consulted only when non-nil; New installs the build's default sink
// (see trace_enabled.go / trace_disabled.go), which the caller may
// override with SetTraceSink.
type TraceSink interface {
	Tracef(tag, format string, args ...any)
}

func (c *Chroni) tracef(tag, format string, args ...any) {
	if c.trace != nil {
		c.trace.Tracef(tag, format, args...)
	}
}
