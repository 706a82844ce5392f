package spacing

import (
	"bytes"
	"log"
	"math"
	"strings"
	"testing"
)

func quietHistogram() *Histogram {
	return NewHistogram(log.New(&bytes.Buffer{}, "", 0))
}

// TestQuantization verifies values closer than half a micron share a bucket
func TestQuantization(t *testing.T) {
	h := quietHistogram()
	for _, v := range []float64{1.0000, 1.0001, 1.0004} {
		h.Add(v)
	}

	if h.Buckets() != 1 {
		t.Errorf("Expected 1 bucket, got %d", h.Buckets())
	}
	if !h.IsRegular() {
		t.Error("Expected regular spacing")
	}
	if got := h.MostCommonSpacing(); got != 1.0 {
		t.Errorf("Expected most common spacing 1.0, got %f", got)
	}
	one := 1.0
	if got := h.Count(&one); got != 3 {
		t.Errorf("Expected 3 occurrences of 1.000, got %d", got)
	}
}

// TestNegativeSpacing verifies mode and sign detection with mixed directions
func TestNegativeSpacing(t *testing.T) {
	h := quietHistogram()
	h.Add(1.0)
	h.Add(1.0)
	h.Add(-1.0)

	if h.Buckets() != 2 {
		t.Errorf("Expected 2 buckets, got %d", h.Buckets())
	}
	if got := h.MostCommonSpacing(); got != 1.0 {
		t.Errorf("Expected most common spacing 1.0, got %f", got)
	}
	if !h.HasNegative() {
		t.Error("Expected negative spacing to be detected")
	}
	if h.IsRegular() {
		t.Error("Expected irregular spacing")
	}
	if h.Total() != 3 {
		t.Errorf("Expected 3 occurrences, got %d", h.Total())
	}
}

// TestMostCommonSpacing covers empty, unknown and tie cases
func TestMostCommonSpacing(t *testing.T) {
	tests := []struct {
		name   string
		values []*float64
		want   float64
	}{
		{"empty", nil, 0},
		{"only unknown", []*float64{nil, nil}, 0},
		{"single negative", []*float64{f(-2.5)}, -2.5},
		{"tie keeps first inserted", []*float64{f(3), f(2), f(2), f(3)}, 3},
		{"tie keeps first inserted reversed", []*float64{f(2), f(3), f(3), f(2)}, 2},
		{"unknown never wins", []*float64{nil, nil, nil, f(1.25)}, 1.25},
		{"strict majority", []*float64{f(1), f(2), f(2)}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := quietHistogram()
			for _, v := range tt.values {
				h.AddOccurrence(v)
			}
			if got := h.MostCommonSpacing(); got != tt.want {
				t.Errorf("Expected %f, got %f", tt.want, got)
			}
		})
	}
}

// TestUnknownBucket verifies missing and unrepresentable spacings are not numeric
func TestUnknownBucket(t *testing.T) {
	h := quietHistogram()
	h.AddOccurrence(nil)
	h.Add(math.NaN())
	h.Add(math.Inf(-1))

	if h.Buckets() != 1 {
		t.Errorf("Expected a single unknown bucket, got %d", h.Buckets())
	}
	if h.IsRegular() {
		t.Error("Unknown spacing must not be regular")
	}
	if h.HasNegative() {
		t.Error("Unknown spacing must not count as negative")
	}
	if !h.HasUnknown() {
		t.Error("Expected unknown bucket")
	}
	if h.Count(nil) != 3 {
		t.Errorf("Expected 3 unknown occurrences, got %d", h.Count(nil))
	}
}

// TestNewBucketIsLogged verifies the first appearance of a bucket is reported once
func TestNewBucketIsLogged(t *testing.T) {
	var buf bytes.Buffer
	h := NewHistogram(log.New(&buf, "", 0))
	h.Add(2.5)
	h.Add(2.5)
	h.Add(-0.1234)
	h.AddOccurrence(nil)

	out := buf.String()
	if strings.Count(out, "2.500") != 1 {
		t.Errorf("Expected one log line for 2.500, got:\n%s", out)
	}
	if !strings.Contains(out, "-0.123") || !strings.Contains(out, "Null") {
		t.Errorf("Expected -0.123 and Null buckets to be logged, got:\n%s", out)
	}
}

func f(v float64) *float64 {
	return &v
}
