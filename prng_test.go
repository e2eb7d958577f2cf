package hfcompress

// simplePRNG is a linear congruential generator that produces the same
// test inputs on every platform.
type simplePRNG struct {
	state uint64
}

func newSimplePRNG(seed uint64) *simplePRNG {
	return &simplePRNG{state: seed}
}

func (p *simplePRNG) next() uint64 {
	p.state = p.state*6364136223846793005 + 1442695040888963407
	return p.state
}

func (p *simplePRNG) uint64N(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	return p.next() % n
}

// bytes returns n bytes drawn from the first alphabet symbols, skewed
// towards the low ones so the resulting codes have varied lengths.
func (p *simplePRNG) bytes(n int, alphabet int) []byte {
	out := make([]byte, n)
	for i := range out {
		a := p.uint64N(uint64(alphabet))
		b := p.uint64N(uint64(alphabet))
		out[i] = byte(min(a, b))
	}
	return out
}
