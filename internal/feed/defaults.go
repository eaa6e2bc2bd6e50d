package feed

import (
	"math/rand"
	"sync"
)

// Defaults generates placeholder values for market fields the feed did not
// supply. The values are simulation, not market data; the random source is
// injected so tests can seed it deterministically.
type Defaults struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewDefaults creates a defaults generator over the given source.
// A nil source falls back to a time-seeded one.
func NewDefaults(rng *rand.Rand) *Defaults {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Defaults{rng: rng}
}

// Liquidity returns a placeholder liquidity in [10, 110).
func (d *Defaults) Liquidity() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return 10 + d.rng.Float64()*100
}

// Holders returns a placeholder holder count in [50, 1050).
func (d *Defaults) Holders() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return 50 + d.rng.Intn(1000)
}

// TopHolders returns three descending holder percentages summing below 100.
func (d *Defaults) TopHolders() []float64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	first := 5 + d.rng.Float64()*40   // [5, 45)
	second := first * (0.4 + d.rng.Float64()*0.5)
	third := second * (0.4 + d.rng.Float64()*0.5)
	return []float64{first, second, third}
}

// ContractAgeDays returns a placeholder contract age in [0, 30).
func (d *Defaults) ContractAgeDays() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rng.Intn(30)
}

// PriceVolatility returns a placeholder volatility percentage in [0, 30).
func (d *Defaults) PriceVolatility() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rng.Float64() * 30
}
