package stock

// Level maps a product id to its manually counted quantity. Counts are for
// display and reference only; they are never enforced against cart additions.
type Level map[string]int

// Clone returns an independent copy of the mapping.
func (l Level) Clone() Level {
	out := make(Level, len(l))
	for id, n := range l {
		out[id] = n
	}
	return out
}
