package hfcompress

// FrequencyTable holds the number of occurrences of every byte value.
type FrequencyTable [256]uint64

// CountFrequencies tallies every byte of data.
func CountFrequencies(data []byte) FrequencyTable {
	var ft FrequencyTable
	for _, b := range data {
		ft[b]++
	}
	return ft
}

// Symbols returns the number of distinct byte values present.
func (ft *FrequencyTable) Symbols() int {
	n := 0
	for _, c := range ft {
		if c > 0 {
			n++
		}
	}
	return n
}

// Total returns the sum of all counts, which equals the input length.
func (ft *FrequencyTable) Total() uint64 {
	var total uint64
	for _, c := range ft {
		total += c
	}
	return total
}
