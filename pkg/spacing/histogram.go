package spacing

import (
	"log"
	"math"
	"strconv"
	"sync"
)

// Precision is the number of decimals slice spacings are binned to.
const Precision = 3

const scale = 1000 // 10^Precision

// bucket is a quantized slice spacing. A bucket that is not numeric collects
// missing and unrepresentable spacings.
type bucket struct {
	milli   int64
	numeric bool
}

var unknownBucket = bucket{}

func quantize(space *float64) bucket {
	if space == nil {
		return unknownBucket
	}
	v := *space * scale
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) >= 1<<62 {
		return unknownBucket
	}
	return bucket{milli: int64(math.Round(v)), numeric: true}
}

func (b bucket) value() float64 {
	return float64(b.milli) / scale
}

func (b bucket) String() string {
	if !b.numeric {
		return "Null"
	}
	return strconv.FormatFloat(b.value(), 'f', Precision, 64)
}

// Histogram counts occurrences of inter-slice spacings binned to 0.001 mm.
// Buckets are kept in first-insertion order, which decides ties in
// MostCommonSpacing.
//
// Histogram is safe for concurrent use.
type Histogram struct {
	mu     sync.RWMutex
	counts map[bucket]int
	order  []bucket
	total  int
	logger *log.Logger
}

// NewHistogram creates an empty histogram. New buckets are reported to
// logger, or to log.Default() when logger is nil.
func NewHistogram(logger *log.Logger) *Histogram {
	if logger == nil {
		logger = log.Default()
	}
	return &Histogram{
		counts: make(map[bucket]int),
		logger: logger,
	}
}

// AddOccurrence stores one occurrence of the given slice spacing. A nil
// spacing is counted in the unknown bucket.
func (h *Histogram) AddOccurrence(space *float64) {
	b := quantize(space)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.counts == nil {
		h.counts = make(map[bucket]int)
	}
	if _, ok := h.counts[b]; !ok {
		h.order = append(h.order, b)
		if h.logger != nil {
			h.logger.Printf("Found new z-spacing value: %s", b)
		}
	}
	h.counts[b]++
	h.total++
}

// Add is a convenience for AddOccurrence with a known value
func (h *Histogram) Add(space float64) {
	h.AddOccurrence(&space)
}

// Total returns the number of recorded occurrences
func (h *Histogram) Total() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.total
}

// Count returns the number of occurrences binned with space
func (h *Histogram) Count(space *float64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.counts[quantize(space)]
}

// Buckets returns the number of distinct buckets
func (h *Histogram) Buckets() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.order)
}

// MostCommonSpacing returns the spacing with the highest occurrence count.
// On ties the bucket inserted first wins. The unknown bucket never wins when
// numeric buckets exist; a histogram holding only unknown occurrences, or no
// occurrences at all, yields 0.
//
// The result can be negative: the sign gives the scan direction.
func (h *Histogram) MostCommonSpacing() float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var (
		best      bucket
		bestCount int
	)
	for _, b := range h.order {
		if !b.numeric {
			continue
		}
		if c := h.counts[b]; c > bestCount {
			best, bestCount = b, c
		}
	}
	if bestCount == 0 {
		return 0
	}
	return best.value()
}

// IsRegular reports whether every occurrence fell in a single numeric bucket.
func (h *Histogram) IsRegular() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.order) == 1 && h.order[0].numeric
}

// HasNegative reports whether any numeric bucket holds a negative spacing.
func (h *Histogram) HasNegative() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, b := range h.order {
		if b.numeric && b.milli < 0 {
			return true
		}
	}
	return false
}

// HasUnknown reports whether any occurrence was missing or unrepresentable.
func (h *Histogram) HasUnknown() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.counts[unknownBucket]
	return ok
}
