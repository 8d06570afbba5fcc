// Package alignment estimates the translational misalignment between two
// captures by matching 1-D projection profiles.
package alignment

import (
	"fmt"

	"detailist/internal/image"
)

// Result is the estimated shift of buffer a relative to buffer b. A feature
// at x in b appears at x+DX in a.
type Result struct {
	DX      int
	DY      int
	Channel int   // HSV channel the profiles were built from
	MatchX  Match // longest common run of the horizontal profiles
	MatchY  Match // longest common run of the vertical profiles
}

// AutoAlign converts both buffers to HSV, picks the dominant channel of a,
// and estimates the offset independently along each axis.
func AutoAlign(a, b *image.Buffer) (Result, error) {
	if !a.Valid() || !b.Valid() {
		return Result{}, fmt.Errorf("auto align: malformed buffer")
	}

	hsvA := a.ToHSV()
	hsvB := b.ToHSV()
	channel := DominantChannel(hsvA)

	xa, err := Project(hsvA, channel, AxisHorizontal)
	if err != nil {
		return Result{}, err
	}
	xb, err := Project(hsvB, channel, AxisHorizontal)
	if err != nil {
		return Result{}, err
	}
	ya, err := Project(hsvA, channel, AxisVertical)
	if err != nil {
		return Result{}, err
	}
	yb, err := Project(hsvB, channel, AxisVertical)
	if err != nil {
		return Result{}, err
	}

	mx := LongestCommonRun(xa, xb)
	my := LongestCommonRun(ya, yb)

	return Result{
		DX:      mx.Offset(),
		DY:      my.Offset(),
		Channel: channel,
		MatchX:  mx,
		MatchY:  my,
	}, nil
}
