package host

// Extras is the optional feature set (structures, emissions) as a strategy
// object, selected at startup configuration. The sync client offers it
// unknown inbound events before logging them, and calls it on the report tick
// so it can flush anything it batches.
type Extras interface {
	// HandleEvent consumes an inbound manager event. Returns true if the
	// event type belongs to the extras feature set.
	HandleEvent(eventType string, body []byte) bool
	// ReportTick is called on the periodic report interval.
	ReportTick()
}

// NoopExtras is the disabled-features strategy.
type NoopExtras struct{}

func (NoopExtras) HandleEvent(string, []byte) bool { return false }
func (NoopExtras) ReportTick()                     {}
