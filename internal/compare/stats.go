package compare

import (
	"fmt"
	"math"

	"detailist/internal/image"

	"github.com/corona10/goimagehash"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes how much two equally sized buffers differ. A pixel's
// magnitude is the largest absolute difference across its RGB channels.
type Summary struct {
	Pixels       int
	Mean         float64
	StdDev       float64
	Max          float64
	ChangedRatio float64 // fraction of pixels with non-zero magnitude
	HashDistance int     // perceptual hash Hamming distance, 0-64
}

// Identical reports whether no pixel differs.
func (s Summary) Identical() bool {
	return s.Max == 0
}

func (s Summary) String() string {
	return fmt.Sprintf("changed %.1f%%  mean %.2f  σ %.2f  max %.0f  phash %d",
		s.ChangedRatio*100, s.Mean, s.StdDev, s.Max, s.HashDistance)
}

// Summarize computes difference statistics for a and b.
func Summarize(a, b *image.Buffer) (Summary, error) {
	if !a.SameSize(b) {
		return Summary{}, fmt.Errorf("%dx%d vs %dx%d: %w", a.Width, a.Height, b.Width, b.Height, ErrDimensionMismatch)
	}
	n := a.Width * a.Height
	if n == 0 {
		return Summary{}, nil
	}

	diff := Difference(a.ToRGB(), b.ToRGB())
	mags := make([]float64, n)
	changed := 0
	for i := range mags {
		p := diff.Pix[i*image.Channels:]
		m := max(p[0], p[1], p[2])
		if m > 0 {
			changed++
		}
		mags[i] = float64(m)
	}

	s := Summary{
		Pixels:       n,
		Max:          floats.Max(mags),
		ChangedRatio: float64(changed) / float64(n),
	}
	s.Mean, s.StdDev = stat.MeanStdDev(mags, nil)
	if math.IsNaN(s.StdDev) {
		s.StdDev = 0
	}

	dist, err := hashDistance(a, b)
	if err != nil {
		return s, fmt.Errorf("perceptual hash: %w", err)
	}
	s.HashDistance = dist
	return s, nil
}

func hashDistance(a, b *image.Buffer) (int, error) {
	ha, err := goimagehash.PerceptionHash(a.ToImage())
	if err != nil {
		return 0, err
	}
	hb, err := goimagehash.PerceptionHash(b.ToImage())
	if err != nil {
		return 0, err
	}
	return ha.Distance(hb)
}
