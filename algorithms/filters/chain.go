package filters

// Filter is a stateful sample-domain filter
type Filter interface {
	ProcessBuffer(input []float64) []float64
	Reset()
}

// Chain runs filters in order. An empty chain returns its input unchanged.
type Chain []Filter

// ProcessBuffer applies every filter in turn
func (c Chain) ProcessBuffer(input []float64) []float64 {
	out := input
	for _, f := range c {
		out = f.ProcessBuffer(out)
	}
	return out
}

// Reset resets every filter
func (c Chain) Reset() {
	for _, f := range c {
		f.Reset()
	}
}
