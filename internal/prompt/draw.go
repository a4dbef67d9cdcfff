package prompt

import "math/rand/v2"

// Drawer returns an index in [0, n). It is the composer's only source of randomness.
type Drawer func(n int) int

// DefaultDrawer draws from the process-wide generator.
func DefaultDrawer(n int) int {
	if n <= 0 {
		return 0
	}
	return rand.IntN(n)
}

// NewSeededDrawer returns a reproducible Drawer. It is not safe for concurrent use.
func NewSeededDrawer(seed uint64) Drawer {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return func(n int) int {
		if n <= 0 {
			return 0
		}
		return r.IntN(n)
	}
}
