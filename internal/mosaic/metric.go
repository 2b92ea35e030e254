package mosaic

import (
	"math"
	"sync"

	"github.com/PLudrak/mozaiker/internal/imaging"
)

// Luma weights applied to the squared channel differences.
const (
	weightR = 0.30
	weightG = 0.59
	weightB = 0.11
)

// Distance is the luminance-weighted Euclidean distance between two colors:
//
//	sqrt(0.30*dR² + 0.59*dG² + 0.11*dB²)
//
// It is symmetric, zero iff a == b, and at most about 255 for 8-bit input.
func Distance(a, b imaging.RGBColor) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(weightR*dr*dr + weightG*dg*dg + weightB*db*db)
}

type colorPair struct {
	a, b imaging.RGBColor
}

// pairKey orders the two colors so (a,b) and (b,a) share an entry.
func pairKey(a, b imaging.RGBColor) colorPair {
	if packRGB(b) < packRGB(a) {
		a, b = b, a
	}
	return colorPair{a: a, b: b}
}

func packRGB(c imaging.RGBColor) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// DistanceCache memoizes Distance per unordered color pair.
//
// After palette reduction a main image has only a handful of distinct colors,
// so the same (cell, tile) pairs recur across the whole grid. A cache lives
// as long as the Matcher that owns it; nothing is shared between runs.
//
// DistanceCache is safe for concurrent use.
type DistanceCache struct {
	mu      sync.RWMutex
	entries map[colorPair]float64
}

// NewDistanceCache returns an empty cache.
func NewDistanceCache() *DistanceCache {
	return &DistanceCache{entries: make(map[colorPair]float64)}
}

// Distance returns Distance(a, b), computing and storing it on first use.
func (c *DistanceCache) Distance(a, b imaging.RGBColor) float64 {
	key := pairKey(a, b)

	c.mu.RLock()
	d, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return d
	}

	d = Distance(key.a, key.b)

	c.mu.Lock()
	c.entries[key] = d
	c.mu.Unlock()
	return d
}

// Len returns the number of memoized pairs.
func (c *DistanceCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
