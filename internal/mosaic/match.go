package mosaic

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/PLudrak/mozaiker/internal/imaging"
)

// MatchOptions configures a Matcher.
type MatchOptions struct {
	// Workers is the number of goroutines cells are split across. Values < 1
	// mean 1.
	Workers int

	// Log receives debug output. Defaults to the logrus standard logger.
	Log logrus.FieldLogger
}

// Matcher assigns every cell color the tile whose representative color is
// nearest under Distance. It owns one DistanceCache for its lifetime.
type Matcher struct {
	cache   *DistanceCache
	workers int
	log     logrus.FieldLogger
}

// NewMatcher returns a Matcher with an empty distance cache.
func NewMatcher(opts MatchOptions) *Matcher {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	return &Matcher{
		cache:   NewDistanceCache(),
		workers: workers,
		log:     loggerOr(opts.Log),
	}
}

// Nearest returns the id of the tile closest to color and its distance.
// Tiles are scanned in ascending id order and only a strictly smaller
// distance replaces the current best, so the lowest id wins ties.
func (m *Matcher) Nearest(color imaging.RGBColor, c *Catalog) (int, float64, error) {
	if c == nil || c.Len() == 0 {
		return 0, 0, ErrNoTilesAvailable
	}
	id, d := m.nearest(color, c.tiles)
	return id, d, nil
}

func (m *Matcher) nearest(color imaging.RGBColor, tiles []Tile) (int, float64) {
	best := 0
	bestDist := m.cache.Distance(color, tiles[0].Color)
	for i := 1; i < len(tiles); i++ {
		if d := m.cache.Distance(color, tiles[i].Color); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}

// Match returns, for each entry of colors, the id of its nearest tile. The
// result has the same length and order as colors.
//
// Cells are split into contiguous chunks, one per worker; each worker writes
// only its own slice of the result, so the output does not depend on
// scheduling.
func (m *Matcher) Match(colors []imaging.RGBColor, c *Catalog) ([]int, error) {
	if c == nil || c.Len() == 0 {
		return nil, ErrNoTilesAvailable
	}
	result := make([]int, len(colors))
	if len(colors) == 0 {
		return result, nil
	}

	workers := m.workers
	if workers > len(colors) {
		workers = len(colors)
	}
	chunk := (len(colors) + workers - 1) / workers

	var g errgroup.Group
	for start := 0; start < len(colors); start += chunk {
		end := min(start+chunk, len(colors))
		g.Go(func() error {
			for i := start; i < end; i++ {
				result[i], _ = m.nearest(colors[i], c.tiles)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to match cells: %w", err)
	}

	m.log.WithFields(logrus.Fields{
		"cells":   len(colors),
		"tiles":   c.Len(),
		"workers": workers,
		"cached":  m.cache.Len(),
	}).Debug("matched cells")
	return result, nil
}

// CacheLen returns the number of memoized color pairs.
func (m *Matcher) CacheLen() int { return m.cache.Len() }

// MatchStats summarises one match result.
type MatchStats struct {
	Cells          int `json:"cells" yaml:"cells"`
	DistinctColors int `json:"distinct_colors" yaml:"distinct_colors"`
	DistinctTiles  int `json:"distinct_tiles" yaml:"distinct_tiles"`
	CacheEntries   int `json:"cache_entries" yaml:"cache_entries"`

	// MostUsedTile is the id placed most often, lowest id first on ties.
	// MostUsedCount is 0 for an empty result.
	MostUsedTile  int `json:"most_used_tile" yaml:"most_used_tile"`
	MostUsedCount int `json:"most_used_count" yaml:"most_used_count"`
}

// Stats summarises the result of a Match call on colors.
func (m *Matcher) Stats(colors []imaging.RGBColor, matches []int) MatchStats {
	distinct := make(map[imaging.RGBColor]struct{}, len(colors))
	for _, c := range colors {
		distinct[c] = struct{}{}
	}

	uses := make(map[int]int)
	for _, id := range matches {
		uses[id]++
	}
	st := MatchStats{
		Cells:          len(matches),
		DistinctColors: len(distinct),
		DistinctTiles:  len(uses),
		CacheEntries:   m.cache.Len(),
	}
	for id, n := range uses {
		if n > st.MostUsedCount || (n == st.MostUsedCount && id < st.MostUsedTile) {
			st.MostUsedTile, st.MostUsedCount = id, n
		}
	}
	return st
}

// UseCounts returns how many cells each tile id of a catalog of size n was
// placed in. Ids outside 0..n-1 are ignored.
func UseCounts(matches []int, n int) []int {
	counts := make([]int, n)
	for _, id := range matches {
		if id >= 0 && id < n {
			counts[id]++
		}
	}
	return counts
}
